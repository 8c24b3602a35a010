package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLifespanReplyRoundTrip(t *testing.T) {
	r := LifespanReply{Status: 0, Life: []uint32{100, 80, 60}, Total: []uint32{200, 200, 200}}
	buf := EncodeLifespanReply(r)
	decoded, err := DecodeLifespanReply(buf)
	require.NoError(t, err)
	require.Equal(t, r.Life, decoded.Life)
	require.Equal(t, r.Total, decoded.Total)
}

func TestEncodeLifespanRequest(t *testing.T) {
	buf := EncodeLifespanRequest(1, PartMainBrush)
	require.Equal(t, []byte{1, uint8(PartMainBrush)}, buf)
}
