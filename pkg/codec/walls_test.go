package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVirtualWallRequestRoundTrip(t *testing.T) {
	req := VirtualWallRequest{
		Type:   WallRequestAdd,
		MapID:  3,
		WallID: 0,
		Walls: []VirtualWall{
			{WallID: 1, Type: WallNormal, Dots: []Point{{X: 0, Y: 0}, {X: 10, Y: 10}}},
			{WallID: 2, Type: WallCarpet, Dots: []Point{{X: 5, Y: 5}, {X: 15, Y: 5}, {X: 10, Y: 15}}},
		},
	}
	buf := EncodeVirtualWallRequest(req)
	decoded, err := DecodeVirtualWallRequest(buf)
	require.NoError(t, err)
	require.EqualValues(t, 3, decoded.MapID)
	require.Len(t, decoded.Walls, 2)
	require.Equal(t, WallCarpet, decoded.Walls[1].Type)
	require.Len(t, decoded.Walls[1].Dots, 3)
}

func TestVirtualWallReplyRoundTrip(t *testing.T) {
	reply := VirtualWallReply{
		Status: 0,
		MapID:  9,
		Walls:  []VirtualWall{{WallID: 1, Type: WallNormal, Dots: []Point{{X: 1, Y: 1}, {X: 2, Y: 2}}}},
	}
	buf := EncodeVirtualWallReply(reply)
	decoded, err := DecodeVirtualWallReply(buf)
	require.NoError(t, err)
	require.EqualValues(t, 9, decoded.MapID)
	require.Len(t, decoded.Walls, 1)
}
