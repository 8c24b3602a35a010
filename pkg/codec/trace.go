package codec

import "github.com/valetudo/vendormaster/pkg/wire"

// TraceOp multiplexes the trace service's two operations on its first
// request byte.
type TraceOp uint8

const (
	TraceGetBetween TraceOp = 0
	TraceGetInfo    TraceOp = 1
)

// resetSentinel and resetSentinelSlack bound the "trace under reset"
// end-index range: 0xFFFFFFFF, or within 0x10 of it.
const (
	resetSentinel      = 0xFFFFFFFF
	resetSentinelSlack = 0x10
)

// EncodeTraceGetBetweenRequest builds a GET_BETWEEN request: op byte
// (TraceGetBetween), map id, trace id, start idx, end idx.
func EncodeTraceGetBetweenRequest(mapID, traceID, startIdx, endIdx uint32) []byte {
	w := wire.NewWriter(17)
	w.PutU8(uint8(TraceGetBetween))
	w.PutU32(mapID)
	w.PutU32(traceID)
	w.PutU32(startIdx)
	w.PutU32(endIdx)
	return w.Bytes()
}

// EncodeTraceGetInfoRequest builds a GET_INFO request: just the op byte.
func EncodeTraceGetInfoRequest() []byte {
	return []byte{uint8(TraceGetInfo)}
}

// TraceReply is the decoded GET_BETWEEN response. UnderReset is true when
// the end index is the reset sentinel (or within 0x10 of it), in which
// case Data is nil and callers should treat this as no-data rather than an
// error.
type TraceReply struct {
	Status     uint8
	MapID      uint32
	TraceID    uint32
	StartIdx   uint32
	EndIdx     uint32
	Data       []byte
	UnderReset bool
}

// DecodeTraceReply parses a GET_BETWEEN response body (the status/map
// id/trace id/start/end/data fields described in §4.7; the leading op byte
// has already been consumed by the caller, which demultiplexed on it).
func DecodeTraceReply(buf []byte) (*TraceReply, error) {
	c := wire.NewCursor(buf)
	r := &TraceReply{}
	var err error
	if r.Status, err = c.U8(); err != nil {
		return nil, err
	}
	if r.MapID, err = c.U32(); err != nil {
		return nil, err
	}
	if r.TraceID, err = c.U32(); err != nil {
		return nil, err
	}
	if r.StartIdx, err = c.U32(); err != nil {
		return nil, err
	}
	if r.EndIdx, err = c.U32(); err != nil {
		return nil, err
	}
	if r.EndIdx >= resetSentinel-resetSentinelSlack {
		r.UnderReset = true
		return r, nil
	}
	if r.Data, err = c.LengthPrefixed(); err != nil {
		return nil, err
	}
	return r, nil
}

// EncodeTraceReply is the encode half, for test fixtures.
func EncodeTraceReply(r TraceReply) []byte {
	w := wire.NewWriter(32 + len(r.Data))
	w.PutU8(r.Status)
	w.PutU32(r.MapID)
	w.PutU32(r.TraceID)
	w.PutU32(r.StartIdx)
	w.PutU32(r.EndIdx)
	if !r.UnderReset {
		w.PutLengthPrefixed(r.Data)
	}
	return w.Bytes()
}
