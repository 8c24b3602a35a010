package codec

import "github.com/valetudo/vendormaster/pkg/wire"

// SubMap is one entry of a compressed map reply: a tile of the overall
// grid carried as a separately compressed (likely zlib/deflate) blob. This
// codec treats the compressed bytes opaquely; decompression is a decision
// left to the facade layer, which knows the compression scheme in use.
type SubMap struct {
	ID               uint16
	CRC32            uint32
	UncompressedLen  uint32
	Compressed       []byte
}

// CompressedMapReply is the decoded §6.2 compressed map reply.
type CompressedMapReply struct {
	Status        uint8
	MapID         uint32
	MapWidth      uint16
	MapHeight     uint16
	Columns       uint16
	Rows          uint16
	SubMapWidth   uint16
	SubMapHeight  uint16
	Resolution    uint16
	SubMaps       []SubMap
}

// DecodeCompressedMapReply parses the fixed info block, sub-map count, and
// the N sub-map tuples described in §6.2.
func DecodeCompressedMapReply(buf []byte) (*CompressedMapReply, error) {
	c := wire.NewCursor(buf)
	r := &CompressedMapReply{}
	var err error
	if r.Status, err = c.U8(); err != nil {
		return nil, err
	}
	if r.MapID, err = c.U32(); err != nil {
		return nil, err
	}
	if r.MapWidth, err = c.U16(); err != nil {
		return nil, err
	}
	if r.MapHeight, err = c.U16(); err != nil {
		return nil, err
	}
	if r.Columns, err = c.U16(); err != nil {
		return nil, err
	}
	if r.Rows, err = c.U16(); err != nil {
		return nil, err
	}
	if r.SubMapWidth, err = c.U16(); err != nil {
		return nil, err
	}
	if r.SubMapHeight, err = c.U16(); err != nil {
		return nil, err
	}
	if r.Resolution, err = c.U16(); err != nil {
		return nil, err
	}
	n, err := c.U32()
	if err != nil {
		return nil, err
	}
	r.SubMaps = make([]SubMap, n)
	for i := range r.SubMaps {
		sm := &r.SubMaps[i]
		if sm.ID, err = c.U16(); err != nil {
			return nil, err
		}
		if sm.CRC32, err = c.U32(); err != nil {
			return nil, err
		}
		if sm.UncompressedLen, err = c.U32(); err != nil {
			return nil, err
		}
		compLen, err := c.U32()
		if err != nil {
			return nil, err
		}
		if sm.Compressed, err = c.Take(int(compLen)); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// EncodeCompressedMapReply is the encode half, used by tests to build
// fixtures and by any in-process fake peer.
func EncodeCompressedMapReply(r *CompressedMapReply) []byte {
	w := wire.NewWriter(64 + len(r.SubMaps)*32)
	w.PutU8(r.Status)
	w.PutU32(r.MapID)
	w.PutU16(r.MapWidth)
	w.PutU16(r.MapHeight)
	w.PutU16(r.Columns)
	w.PutU16(r.Rows)
	w.PutU16(r.SubMapWidth)
	w.PutU16(r.SubMapHeight)
	w.PutU16(r.Resolution)
	w.PutU32(uint32(len(r.SubMaps)))
	for _, sm := range r.SubMaps {
		w.PutU16(sm.ID)
		w.PutU32(sm.CRC32)
		w.PutU32(sm.UncompressedLen)
		w.PutU32(uint32(len(sm.Compressed)))
		w.PutBytes(sm.Compressed)
	}
	return w.Bytes()
}

// EncodeGetCompressedMapRequest encodes the trivial request body for the
// compressed-map service (a single opcode byte, matching the other
// single-byte request shapes in this catalogue).
func EncodeGetCompressedMapRequest() []byte {
	return []byte{0}
}
