package codec

import "github.com/valetudo/vendormaster/pkg/wire"

// GetMultiMapInfos is the single opcode byte for the map-infos request.
const GetMultiMapInfos uint8 = 0

// EncodeMapInfosRequest builds the single-byte map-infos request.
func EncodeMapInfosRequest() []byte {
	return []byte{GetMultiMapInfos}
}

// MapInfoEntry is one entry of a map-infos reply.
type MapInfoEntry struct {
	MapID     uint32
	ExtraID   uint32
	IsActive  uint8
	SlotIndex uint8
	IsRecent  uint8
	Name      string
}

// MapInfosReply is the decoded map-infos response.
type MapInfosReply struct {
	Status  uint8
	Entries []MapInfoEntry
}

// DecodeMapInfosReply parses status u8, count u32, then per-entry: map id,
// extra id, is-active, slot index, is-recent, name (length-prefixed).
func DecodeMapInfosReply(buf []byte) (*MapInfosReply, error) {
	c := wire.NewCursor(buf)
	r := &MapInfosReply{}
	var err error
	if r.Status, err = c.U8(); err != nil {
		return nil, err
	}
	n, err := c.U32()
	if err != nil {
		return nil, err
	}
	r.Entries = make([]MapInfoEntry, n)
	for i := range r.Entries {
		e := &r.Entries[i]
		if e.MapID, err = c.U32(); err != nil {
			return nil, err
		}
		if e.ExtraID, err = c.U32(); err != nil {
			return nil, err
		}
		if e.IsActive, err = c.U8(); err != nil {
			return nil, err
		}
		if e.SlotIndex, err = c.U8(); err != nil {
			return nil, err
		}
		if e.IsRecent, err = c.U8(); err != nil {
			return nil, err
		}
		name, err := c.LengthPrefixed()
		if err != nil {
			return nil, err
		}
		e.Name = string(name)
	}
	return r, nil
}

// EncodeMapInfosReply is the encode half, for test fixtures.
func EncodeMapInfosReply(r MapInfosReply) []byte {
	w := wire.NewWriter(16 + len(r.Entries)*20)
	w.PutU8(r.Status)
	w.PutU32(uint32(len(r.Entries)))
	for _, e := range r.Entries {
		w.PutU32(e.MapID)
		w.PutU32(e.ExtraID)
		w.PutU8(e.IsActive)
		w.PutU8(e.SlotIndex)
		w.PutU8(e.IsRecent)
		w.PutLengthPrefixed([]byte(e.Name))
	}
	return w.Bytes()
}

// ActiveMap returns the first entry whose IsActive is 1 and whose MapID is
// non-zero, or (MapInfoEntry{}, false) if none match — the caller surfaces
// this as "active map not initialised" per §4.8.
func ActiveMap(r *MapInfosReply) (MapInfoEntry, bool) {
	for _, e := range r.Entries {
		if e.IsActive == 1 && e.MapID != 0 {
			return e, true
		}
	}
	return MapInfoEntry{}, false
}
