package facade

import (
	"context"

	"github.com/valetudo/vendormaster/pkg/codec"
	"github.com/valetudo/vendormaster/pkg/roomlabel"
)

// RoomLabelName stringifies a decoded room's label id using the canonical
// glossary.
func RoomLabelName(labelID uint8) string {
	return roomlabel.NameFromID(int(labelID))
}

func (f *Facade) roomManage(ctx context.Context, req codec.RoomManageRequest) error {
	_, err := f.dRooms.Call(ctx, codec.EncodeRoomManageRequest(req))
	return err
}

// SetRoomLabel assigns a label (a canonical name, numeric string, or
// already-resolved id) to a room.
func (f *Facade) SetRoomLabel(ctx context.Context, areaID uint32, label string) error {
	mapID, err := f.GetActiveMapID(ctx)
	if err != nil {
		return err
	}
	id, err := roomlabel.IDFromName(label)
	if err != nil {
		return err
	}
	return f.roomManage(ctx, codec.RoomManageRequest{
		Op:      codec.RoomOpSetLabel,
		MapID:   mapID,
		AreaIDs: []uint32{areaID},
		Label:   uint8(id),
	})
}

// MergeRooms merges the given area ids into a single room.
func (f *Facade) MergeRooms(ctx context.Context, areaIDs []uint32) error {
	mapID, err := f.GetActiveMapID(ctx)
	if err != nil {
		return err
	}
	return f.roomManage(ctx, codec.RoomManageRequest{Op: codec.RoomOpMerge, MapID: mapID, AreaIDs: areaIDs})
}

// SplitRoom splits areaID along the line from a to b.
func (f *Facade) SplitRoom(ctx context.Context, areaID uint32, a, b codec.Point) error {
	mapID, err := f.GetActiveMapID(ctx)
	if err != nil {
		return err
	}
	return f.roomManage(ctx, codec.RoomManageRequest{
		Op:        codec.RoomOpSplit,
		MapID:     mapID,
		AreaIDs:   []uint32{areaID},
		SplitLine: []codec.Point{a, b},
	})
}

// SetRoomPreferences sets a room's suction/water-level/cleaning-times/
// sequence preferences.
func (f *Facade) SetRoomPreferences(ctx context.Context, areaID uint32, prefs codec.RoomPreferences) error {
	mapID, err := f.GetActiveMapID(ctx)
	if err != nil {
		return err
	}
	return f.roomManage(ctx, codec.RoomManageRequest{
		Op:      codec.RoomOpSetPreferences,
		MapID:   mapID,
		AreaIDs: []uint32{areaID},
		Prefs:   prefs,
	})
}

// SetRoomCleaningSequence sets a room's clean-order position.
func (f *Facade) SetRoomCleaningSequence(ctx context.Context, areaID uint32, sequence uint8) error {
	mapID, err := f.GetActiveMapID(ctx)
	if err != nil {
		return err
	}
	return f.roomManage(ctx, codec.RoomManageRequest{
		Op:      codec.RoomOpSetSequence,
		MapID:   mapID,
		AreaIDs: []uint32{areaID},
		Prefs:   codec.RoomPreferences{Sequence: sequence},
	})
}

// --- virtual walls / no-mop zones ---

func (f *Facade) getWalls(ctx context.Context, wallType codec.WallType) ([]codec.VirtualWall, error) {
	mapID, err := f.GetActiveMapID(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := f.dWall.Call(ctx, codec.EncodeVirtualWallRequest(codec.VirtualWallRequest{
		Type: codec.WallRequestGet, MapID: mapID,
	}))
	if err != nil {
		return nil, err
	}
	reply, err := codec.DecodeVirtualWallReply(resp)
	if err != nil {
		return nil, err
	}
	out := make([]codec.VirtualWall, 0, len(reply.Walls))
	for _, w := range reply.Walls {
		if w.Type == wallType {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *Facade) addWall(ctx context.Context, dots []codec.Point, wallType codec.WallType) error {
	mapID, err := f.GetActiveMapID(ctx)
	if err != nil {
		return err
	}
	_, err = f.dWall.Call(ctx, codec.EncodeVirtualWallRequest(codec.VirtualWallRequest{
		Type:  codec.WallRequestAdd,
		MapID: mapID,
		Walls: []codec.VirtualWall{{Type: wallType, Dots: dots}},
	}))
	return err
}

// GetVirtualWalls returns the keep-out walls (rectangles or polygons) of
// the active map.
func (f *Facade) GetVirtualWalls(ctx context.Context) ([]codec.VirtualWall, error) {
	return f.getWalls(ctx, codec.WallNormal)
}

// AddVirtualWall adds a keep-out wall described by its corner/vertex
// points (two for a rectangle's diagonal, three or more for a polygon).
func (f *Facade) AddVirtualWall(ctx context.Context, dots []codec.Point) error {
	return f.addWall(ctx, dots, codec.WallNormal)
}

// DeleteVirtualWall removes a previously added wall by id.
func (f *Facade) DeleteVirtualWall(ctx context.Context, wallID uint32) error {
	mapID, err := f.GetActiveMapID(ctx)
	if err != nil {
		return err
	}
	_, err = f.dWall.Call(ctx, codec.EncodeVirtualWallRequest(codec.VirtualWallRequest{
		Type: codec.WallRequestDelete, MapID: mapID, WallID: wallID,
	}))
	return err
}

// GetNoMopZones returns the mop-avoid zones of the active map.
func (f *Facade) GetNoMopZones(ctx context.Context) ([]codec.VirtualWall, error) {
	return f.getWalls(ctx, codec.WallCarpet)
}

// AddNoMopZone adds a mop-avoid zone described by its corner points.
func (f *Facade) AddNoMopZone(ctx context.Context, dots []codec.Point) error {
	return f.addWall(ctx, dots, codec.WallCarpet)
}
