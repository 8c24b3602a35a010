package codec

import (
	"math"

	"github.com/valetudo/vendormaster/internal/rpcerr"
	"github.com/valetudo/vendormaster/pkg/wire"
)

// RoomPreferences are the per-room cleaning preferences of §3.
type RoomPreferences struct {
	Suction       uint32
	WaterLevel    uint32
	CleaningTimes uint32
	Sequence      uint8
}

// Room is a decoded room (a.k.a. spot area) entry.
type Room struct {
	AreaID      uint32
	LabelID     uint8
	Polygon     []Point
	Connections []uint32
	Prefs       RoomPreferences
}

// RoomsReply is the decoded rooms-GET service response.
type RoomsReply struct {
	Status    uint8
	MapID     uint32
	AreasID   uint32
	AreaCount uint32
	Rooms     []Room
}

const (
	minPolygonPoints = 3
	maxPolygonPoints = 256
	maxCoordAbs      = 20000.0
)

// DecodeRoomsReply parses a rooms-GET reply tolerating both firmware
// dialects (α: areaid/name/label/polygon/connections/prefs in sequence; β:
// preferences interleaved after each polygon) via the deterministic
// polygon scanner described in §4.7: both dialects place a room's areaid
// 9 bytes before its polygon's point-count field and its label 10 bytes
// before it, with 8 zero bytes in between (the upstream schema's unused
// name_len field plus the areaid's own zero-extended high bytes); once the
// polygon is located, that room's preferences follow immediately using
// their own self-describing array length, so no dialect-specific branch is
// needed.
func DecodeRoomsReply(buf []byte) (*RoomsReply, error) {
	c := wire.NewCursor(buf)
	r := &RoomsReply{}
	var err error
	if r.Status, err = c.U8(); err != nil {
		return nil, err
	}
	if r.MapID, err = c.U32(); err != nil {
		return nil, err
	}
	if r.AreasID, err = c.U32(); err != nil {
		return nil, err
	}
	if r.AreaCount, err = c.U32(); err != nil {
		return nil, err
	}

	cursor := 13
	for i := uint32(0); i < r.AreaCount; i++ {
		room, next, err := scanOneRoom(buf, cursor)
		if err != nil {
			return nil, err
		}
		r.Rooms = append(r.Rooms, room)
		cursor = next
	}
	return r, nil
}

// scanOneRoom finds the next room's polygon starting the search at
// searchFrom, decodes its areaid/label/polygon/preferences, and returns
// the cursor position immediately following its preferences.
func scanOneRoom(buf []byte, searchFrom int) (Room, int, error) {
	polygonOffset, count, ok := findPolygonOrigin(buf, searchFrom)
	if !ok {
		return Room{}, 0, rpcerr.New(rpcerr.ProtocolFraming, "rooms reply: could not locate next room polygon")
	}

	areaIDOff := polygonOffset - 9
	if areaIDOff < 0 {
		return Room{}, 0, rpcerr.New(rpcerr.ProtocolFraming, "rooms reply: polygon too close to start of buffer")
	}
	areaID := le32(buf[areaIDOff : areaIDOff+4])

	var labelID uint8
	if labelOff := polygonOffset - 10; labelOff >= 0 {
		labelID = buf[labelOff]
	}

	pointsStart := polygonOffset + 4
	pointsEnd := pointsStart + int(count)*8
	polygon := make([]Point, count)
	for i := range polygon {
		b := buf[pointsStart+i*8 : pointsStart+i*8+8]
		polygon[i] = Point{X: leF32(b[0:4]), Y: leF32(b[4:8])}
	}

	c := wire.NewCursor(buf[pointsEnd:])
	conns, err := readU32Array(c)
	if err != nil {
		return Room{}, 0, err
	}
	suction, err := c.U32()
	if err != nil {
		return Room{}, 0, err
	}
	water, err := c.U32()
	if err != nil {
		return Room{}, 0, err
	}
	cleaning, err := c.U32()
	if err != nil {
		return Room{}, 0, err
	}
	seq, err := c.U8()
	if err != nil {
		return Room{}, 0, err
	}

	room := Room{
		AreaID:      areaID,
		LabelID:     labelID,
		Polygon:     polygon,
		Connections: conns,
		Prefs: RoomPreferences{
			Suction:       suction,
			WaterLevel:    water,
			CleaningTimes: cleaning,
			Sequence:      seq,
		},
	}
	return room, pointsEnd + c.Offset(), nil
}

// findPolygonOrigin scans buf from searchFrom looking for a 4-byte LE
// point count in [3,256] preceded by 8 zero bytes and followed by
// count*8 bytes of plausible float32 coordinate pairs.
func findPolygonOrigin(buf []byte, searchFrom int) (offset int, count uint32, ok bool) {
	for p := searchFrom; p+4 <= len(buf); p++ {
		if p < 9 {
			continue
		}
		n := le32(buf[p : p+4])
		if n < minPolygonPoints || n > maxPolygonPoints {
			continue
		}
		zeroStart := p - 8
		allZero := true
		for _, b := range buf[zeroStart:p] {
			if b != 0 {
				allZero = false
				break
			}
		}
		if !allZero {
			continue
		}
		pointsLen := int(n) * 8
		if p+4+pointsLen > len(buf) {
			continue
		}
		if !pointsPlausible(buf[p+4 : p+4+pointsLen]) {
			continue
		}
		return p, n, true
	}
	return 0, 0, false
}

func pointsPlausible(b []byte) bool {
	for i := 0; i+8 <= len(b); i += 8 {
		x := leF32(b[i : i+4])
		y := leF32(b[i+4 : i+8])
		if absF32(x) > maxCoordAbs || absF32(y) > maxCoordAbs {
			return false
		}
	}
	return true
}

func absF32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func leF32(b []byte) float32 {
	return math.Float32frombits(le32(b))
}

// EncodeRoomsReply builds a canonical reply: each room's metadata is laid
// out as [label u8][areaid u32][5 zero bytes][polygon][connections][4 pref
// fields], which is exactly what DecodeRoomsReply's scanner expects
// (areaid's own zero-extended high bytes supply 3 of the 8 required zero
// bytes, this encoder's explicit padding supplies the other 5).
func EncodeRoomsReply(status uint8, mapID, areasID uint32, rooms []Room) []byte {
	w := wire.NewWriter(64 + len(rooms)*64)
	w.PutU8(status)
	w.PutU32(mapID)
	w.PutU32(areasID)
	w.PutU32(uint32(len(rooms)))
	for _, room := range rooms {
		w.PutU8(room.LabelID)
		w.PutU32(room.AreaID)
		w.PutZero(5)
		writePointArray(w, room.Polygon)
		writeU32Array(w, room.Connections)
		w.PutU32(room.Prefs.Suction)
		w.PutU32(room.Prefs.WaterLevel)
		w.PutU32(room.Prefs.CleaningTimes)
		w.PutU8(room.Prefs.Sequence)
	}
	return w.Bytes()
}

// EncodeRoomsGetRequest builds the rooms-GET request body: type=0 followed
// by the map id, 5 bytes in all. It is byte-for-byte the body that
// EncodeRoomsGetMinimalRequest builds; no longer form is encoded.
func EncodeRoomsGetRequest(mapID uint32) []byte {
	w := wire.NewWriter(5)
	w.PutU8(0)
	w.PutU32(mapID)
	return w.Bytes()
}

// EncodeRoomsGetMinimalRequest builds the 5-byte minimal fallback request
// (§4.8 rooms-GET fallback / §8 scenario 6): type=0 followed by the map
// id, nothing else.
func EncodeRoomsGetMinimalRequest(mapID uint32) []byte {
	return EncodeRoomsGetRequest(mapID)
}

// RoomManageOp multiplexes the rooms-manage service's write operations on
// its request-type byte (the GET operation has its own type 0 and its own
// encoder above).
type RoomManageOp uint8

const (
	RoomOpSetLabel       RoomManageOp = 1
	RoomOpMerge          RoomManageOp = 2
	RoomOpSplit          RoomManageOp = 3
	RoomOpSetPreferences RoomManageOp = 4
	RoomOpSetSequence    RoomManageOp = 5
)

// RoomManageRequest is the request body for every rooms-manage write
// operation; only the fields relevant to Op are populated by the caller.
type RoomManageRequest struct {
	Op        RoomManageOp
	MapID     uint32
	AreaIDs   []uint32
	Label     uint8
	SplitLine []Point
	Prefs     RoomPreferences
}

// EncodeRoomManageRequest serialises: op byte, map id, the affected
// area-id array, then the op-specific tail (label byte for SetLabel, the
// split line's two points for Split, the four preference fields for
// SetPreferences, the sequence byte for SetSequence; Merge needs nothing
// beyond the area-id array it is merging).
func EncodeRoomManageRequest(r RoomManageRequest) []byte {
	w := wire.NewWriter(16 + len(r.AreaIDs)*4 + len(r.SplitLine)*8)
	w.PutU8(uint8(r.Op))
	w.PutU32(r.MapID)
	writeU32Array(w, r.AreaIDs)
	switch r.Op {
	case RoomOpSetLabel:
		w.PutU8(r.Label)
	case RoomOpSplit:
		writePointArray(w, r.SplitLine)
	case RoomOpSetPreferences:
		w.PutU32(r.Prefs.Suction)
		w.PutU32(r.Prefs.WaterLevel)
		w.PutU32(r.Prefs.CleaningTimes)
		w.PutU8(r.Prefs.Sequence)
	case RoomOpSetSequence:
		w.PutU8(r.Prefs.Sequence)
	}
	return w.Bytes()
}
