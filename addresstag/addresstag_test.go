package addresstag

import (
	"testing"

	"github.com/stretchr/testify/require"
	"lukechampine.com/frand"

	"evdb.lol/event"
	"evdb.lol/hex"
	"evdb.lol/kind"
	"evdb.lol/tags"
)

func TestFromEvent(t *testing.T) {
	pk := hex.Enc(frand.Bytes(32))
	ev := &event.T{Pubkey: pk, Kind: kind.ProfileMetadata, Tags: tags.New()}
	a := FromEvent(ev)
	require.NotNil(t, a)
	require.Equal(t, "0:"+pk+":", a.String())

	ev = &event.T{Pubkey: pk, Kind: kind.New(30023),
		Tags: tags.FromStringSlices([]string{"d", "my:article"})}
	a = FromEvent(ev)
	require.Equal(t, "30023:"+pk+":my:article", a.String())

	ev = &event.T{Pubkey: pk, Kind: kind.New(30023), Tags: tags.New()}
	require.Equal(t, "", FromEvent(ev).Identifier)

	ev = &event.T{Pubkey: pk, Kind: kind.TextNote, Tags: tags.New()}
	require.Nil(t, FromEvent(ev))
}

func TestDecode(t *testing.T) {
	pk := hex.Enc(frand.Bytes(32))
	a, err := Decode("30023:" + pk + ":my:article")
	require.NoError(t, err)
	require.Equal(t, New(30023, pk, "my:article"), a)

	for _, bad := range []string{
		"",
		"30023:" + pk,
		"notakind:" + pk + ":x",
		"70000:" + pk + ":x",
		"30023:abcd:x",
	} {
		_, err = Decode(bad)
		require.Error(t, err, bad)
	}
}
