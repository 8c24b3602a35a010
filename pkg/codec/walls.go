package codec

import "github.com/valetudo/vendormaster/pkg/wire"

// WallType distinguishes a keep-out wall from a mop-avoid zone.
type WallType uint8

const (
	WallNormal WallType = 0
	WallCarpet WallType = 1
)

// VirtualWall is one entry of a virtual-wall request/response.
type VirtualWall struct {
	WallID uint32
	Type   WallType
	Dots   []Point
}

func readWall(c *wire.Cursor) (VirtualWall, error) {
	id, err := c.U32()
	if err != nil {
		return VirtualWall{}, err
	}
	t, err := c.U8()
	if err != nil {
		return VirtualWall{}, err
	}
	dots, err := readPointArray(c)
	if err != nil {
		return VirtualWall{}, err
	}
	return VirtualWall{WallID: id, Type: WallType(t), Dots: dots}, nil
}

func writeWall(w *wire.Writer, wall VirtualWall) {
	w.PutU32(wall.WallID)
	w.PutU8(uint8(wall.Type))
	writePointArray(w, wall.Dots)
}

func readWallArray(c *wire.Cursor) ([]VirtualWall, error) {
	n, err := c.U32()
	if err != nil {
		return nil, err
	}
	out := make([]VirtualWall, n)
	for i := range out {
		if out[i], err = readWall(c); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func writeWallArray(w *wire.Writer, walls []VirtualWall) {
	w.PutU32(uint32(len(walls)))
	for _, wall := range walls {
		writeWall(w, wall)
	}
}

// Virtual-wall request-type opcodes.
const (
	WallRequestGet    uint8 = 0
	WallRequestAdd    uint8 = 1
	WallRequestDelete uint8 = 2
)

// VirtualWallRequest is the request body for getting/adding/deleting
// walls.
type VirtualWallRequest struct {
	Type   uint8
	MapID  uint32
	WallID uint32
	Walls  []VirtualWall
}

// EncodeVirtualWallRequest serialises a virtual-wall request: type, map id,
// wall id, then the wall array.
func EncodeVirtualWallRequest(r VirtualWallRequest) []byte {
	w := wire.NewWriter(32)
	w.PutU8(r.Type)
	w.PutU32(r.MapID)
	w.PutU32(r.WallID)
	writeWallArray(w, r.Walls)
	return w.Bytes()
}

// DecodeVirtualWallRequest is the decode half, used by tests.
func DecodeVirtualWallRequest(buf []byte) (VirtualWallRequest, error) {
	c := wire.NewCursor(buf)
	var r VirtualWallRequest
	var err error
	if r.Type, err = c.U8(); err != nil {
		return r, err
	}
	if r.MapID, err = c.U32(); err != nil {
		return r, err
	}
	if r.WallID, err = c.U32(); err != nil {
		return r, err
	}
	if r.Walls, err = readWallArray(c); err != nil {
		return r, err
	}
	return r, nil
}

// VirtualWallReply is the decoded virtual-wall response: status, map id,
// then the wall array.
type VirtualWallReply struct {
	Status uint8
	MapID  uint32
	Walls  []VirtualWall
}

// DecodeVirtualWallReply parses a virtual-wall GET response.
func DecodeVirtualWallReply(buf []byte) (*VirtualWallReply, error) {
	c := wire.NewCursor(buf)
	r := &VirtualWallReply{}
	var err error
	if r.Status, err = c.U8(); err != nil {
		return nil, err
	}
	if r.MapID, err = c.U32(); err != nil {
		return nil, err
	}
	if r.Walls, err = readWallArray(c); err != nil {
		return nil, err
	}
	return r, nil
}

// EncodeVirtualWallReply is the encode half, for tests/fakes.
func EncodeVirtualWallReply(r VirtualWallReply) []byte {
	w := wire.NewWriter(32)
	w.PutU8(r.Status)
	w.PutU32(r.MapID)
	writeWallArray(w, r.Walls)
	return w.Bytes()
}
