package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTraceReplyRoundTrip(t *testing.T) {
	r := TraceReply{Status: 0, MapID: 1, TraceID: 2, StartIdx: 0, EndIdx: 100, Data: []byte{1, 2, 3, 4}}
	buf := EncodeTraceReply(r)
	decoded, err := DecodeTraceReply(buf)
	require.NoError(t, err)
	require.False(t, decoded.UnderReset)
	require.Equal(t, []byte{1, 2, 3, 4}, decoded.Data)
}

func TestTraceReplyUnderReset(t *testing.T) {
	r := TraceReply{Status: 0, MapID: 1, TraceID: 2, StartIdx: 0, EndIdx: resetSentinel, UnderReset: true}
	buf := EncodeTraceReply(r)
	decoded, err := DecodeTraceReply(buf)
	require.NoError(t, err)
	require.True(t, decoded.UnderReset)
	require.Nil(t, decoded.Data)
}

func TestTraceReplyUnderResetSlack(t *testing.T) {
	r := TraceReply{Status: 0, MapID: 1, TraceID: 2, StartIdx: 0, EndIdx: resetSentinel - 5, UnderReset: true}
	buf := EncodeTraceReply(r)
	decoded, err := DecodeTraceReply(buf)
	require.NoError(t, err)
	require.True(t, decoded.UnderReset)
}

func TestEncodeTraceRequests(t *testing.T) {
	require.Equal(t, []byte{uint8(TraceGetInfo)}, EncodeTraceGetInfoRequest())
	buf := EncodeTraceGetBetweenRequest(1, 2, 3, 4)
	require.Equal(t, byte(TraceGetBetween), buf[0])
}
