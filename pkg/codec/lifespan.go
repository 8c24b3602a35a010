package codec

import "github.com/valetudo/vendormaster/pkg/wire"

// LifespanPart enumerates the consumable parts the lifespan service
// tracks.
type LifespanPart uint8

const (
	PartMainBrush LifespanPart = 0
	PartSideBrush LifespanPart = 1
	PartHepaFilter LifespanPart = 2
	PartAll        LifespanPart = 3
)

// EncodeLifespanRequest builds the 2-byte (type, part) request body. Type
// 0 is a GET, type 1 a reset; the part enum is shared across both.
func EncodeLifespanRequest(requestType uint8, part LifespanPart) []byte {
	return []byte{requestType, uint8(part)}
}

// LifespanReply is the decoded lifespan response: status, then two
// parallel count-prefixed arrays (remaining life and total life) indexed
// the same way as the request's part enum.
type LifespanReply struct {
	Status uint8
	Life   []uint32
	Total  []uint32
}

// DecodeLifespanReply parses status u8, life-count u32, life u32[count],
// total-count u32, total u32[count].
func DecodeLifespanReply(buf []byte) (*LifespanReply, error) {
	c := wire.NewCursor(buf)
	r := &LifespanReply{}
	var err error
	if r.Status, err = c.U8(); err != nil {
		return nil, err
	}
	if r.Life, err = readU32Array(c); err != nil {
		return nil, err
	}
	if r.Total, err = readU32Array(c); err != nil {
		return nil, err
	}
	return r, nil
}

// EncodeLifespanReply is the encode half, for test fixtures.
func EncodeLifespanReply(r LifespanReply) []byte {
	w := wire.NewWriter(16 + len(r.Life)*4 + len(r.Total)*4)
	w.PutU8(r.Status)
	writeU32Array(w, r.Life)
	writeU32Array(w, r.Total)
	return w.Bytes()
}
