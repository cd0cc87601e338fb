// Package normalize puts relay URLs into one canonical form, so that the same
// relay recorded as the source of an event is always the same string.
package normalize

import (
	"net/url"
	"strconv"
	"strings"
)

// URL normalizes a relay URL.
//
// - Adds wss:// to addresses without a port, or with port 443, that have no
// protocol prefix, dropping the 443
//
// - Adds ws:// to addresses with any other port
//
// - Converts http/s to ws/s and removes trailing slashes from the path
//
// A URL that cannot be made sense of normalizes to the empty string.
func URL(s string) (u string) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return
	}
	if !hasScheme(s) {
		host := s
		if i := strings.IndexAny(host, "/?"); i >= 0 {
			host = host[:i]
		}
		switch split := strings.Split(host, ":"); len(split) {
		case 1:
			s = "wss://" + s
		case 2:
			port, err := strconv.ParseUint(split[1], 10, 16)
			if err != nil {
				log.D.F("invalid port in relay URL %q: %s", s, err)
				return
			}
			if port == 443 {
				s = "wss://" + split[0] + s[len(host):]
			} else {
				s = "ws://" + s
			}
		default:
			log.D.F("more than one ':' in relay URL %q", s)
			return
		}
	}
	p, err := url.Parse(s)
	if chk.D(err) {
		return
	}
	switch p.Scheme {
	case "https":
		p.Scheme = "wss"
	case "http":
		p.Scheme = "ws"
	}
	p.Path = strings.TrimRight(p.Path, "/")
	return p.String()
}

func hasScheme(s string) bool {
	for _, pre := range []string{"ws://", "wss://", "http://", "https://"} {
		if strings.HasPrefix(s, pre) {
			return true
		}
	}
	return false
}
