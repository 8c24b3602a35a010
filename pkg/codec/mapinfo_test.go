package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapInfosReplyRoundTrip(t *testing.T) {
	r := MapInfosReply{
		Status: 0,
		Entries: []MapInfoEntry{
			{MapID: 1, ExtraID: 0, IsActive: 0, SlotIndex: 0, IsRecent: 1, Name: "kitchen-map"},
			{MapID: 2, ExtraID: 0, IsActive: 1, SlotIndex: 1, IsRecent: 0, Name: "living-room-map"},
		},
	}
	buf := EncodeMapInfosReply(r)
	decoded, err := DecodeMapInfosReply(buf)
	require.NoError(t, err)
	require.Len(t, decoded.Entries, 2)
	require.Equal(t, "living-room-map", decoded.Entries[1].Name)

	active, ok := ActiveMap(decoded)
	require.True(t, ok)
	require.EqualValues(t, 2, active.MapID)
}

func TestActiveMapNoneActive(t *testing.T) {
	r := &MapInfosReply{Entries: []MapInfoEntry{{MapID: 1, IsActive: 0}}}
	_, ok := ActiveMap(r)
	require.False(t, ok)
}
