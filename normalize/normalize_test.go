package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestURL(t *testing.T) {
	for in, expected := range map[string]string{
		"":                 "",
		"wss://x.com/y":    "wss://x.com/y",
		"wss://x.com/y/":   "wss://x.com/y",
		"http://x.com/y":   "ws://x.com/y",
		"wss://x.com":      "wss://x.com",
		"wss://x.com/":     "wss://x.com",
		"x.com":            "wss://x.com",
		"X.com////":        "wss://x.com",
		"x.com/?x=23":      "wss://x.com?x=23",
		"x.com:443/y":      "wss://x.com/y",
		"127.0.0.1:4869":   "ws://127.0.0.1:4869",
		"x.com:notaport":   "",
		"x.com:1:2":        "",
		" https://x.com/ ": "wss://x.com",
	} {
		assert.Equal(t, expected, URL(in), in)
	}
	assert.Equal(t, "ws://x.com/y", URL(URL("http://x.com/y")))
}
