package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoomsRoundTrip(t *testing.T) {
	rooms := []Room{
		{
			AreaID:      1,
			LabelID:     3,
			Polygon:     []Point{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100}},
			Connections: []uint32{2},
			Prefs:       RoomPreferences{Suction: 2, WaterLevel: 1, CleaningTimes: 1, Sequence: 0},
		},
		{
			AreaID:      2,
			LabelID:     5,
			Polygon:     []Point{{X: 100, Y: 0}, {X: 200, Y: 0}, {X: 150, Y: 150}},
			Connections: []uint32{1},
			Prefs:       RoomPreferences{Suction: 3, WaterLevel: 2, CleaningTimes: 2, Sequence: 1},
		},
	}

	buf := EncodeRoomsReply(0, 42, 7, rooms)
	reply, err := DecodeRoomsReply(buf)
	require.NoError(t, err)
	require.EqualValues(t, 42, reply.MapID)
	require.EqualValues(t, 7, reply.AreasID)
	require.Len(t, reply.Rooms, 2)

	for i, room := range reply.Rooms {
		require.Equal(t, rooms[i].AreaID, room.AreaID)
		require.Equal(t, rooms[i].LabelID, room.LabelID)
		require.Equal(t, rooms[i].Connections, room.Connections)
		require.Equal(t, rooms[i].Prefs, room.Prefs)
		require.Len(t, room.Polygon, len(rooms[i].Polygon))
		for j, p := range room.Polygon {
			require.InDelta(t, rooms[i].Polygon[j].X, p.X, 0.001)
			require.InDelta(t, rooms[i].Polygon[j].Y, p.Y, 0.001)
		}
	}
}

func TestRoomsGetRequestIsFiveBytes(t *testing.T) {
	buf := EncodeRoomsGetRequest(9)
	require.Len(t, buf, 5)
	require.Equal(t, byte(0), buf[0])

	minimal := EncodeRoomsGetMinimalRequest(9)
	require.Equal(t, buf, minimal)
}

func TestRoomManageRequestSetLabel(t *testing.T) {
	buf := EncodeRoomManageRequest(RoomManageRequest{
		Op: RoomOpSetLabel, MapID: 1, AreaIDs: []uint32{5}, Label: 3,
	})
	require.Equal(t, byte(RoomOpSetLabel), buf[0])
	require.Equal(t, byte(3), buf[len(buf)-1])
}
