package codec

import "github.com/valetudo/vendormaster/pkg/wire"

// RemoteMoveBlock is the 7-byte remote-control movement block shared by
// the work-manage request and the work-state topic payload.
type RemoteMoveBlock struct {
	MoveType       uint8
	LastTime       uint16
	Velocity       int16
	AngularVelocity int16
}

func readRemoteMove(c *wire.Cursor) (RemoteMoveBlock, error) {
	var r RemoteMoveBlock
	var err error
	if r.MoveType, err = c.U8(); err != nil {
		return r, err
	}
	if r.LastTime, err = c.U16(); err != nil {
		return r, err
	}
	if r.Velocity, err = c.I16(); err != nil {
		return r, err
	}
	if r.AngularVelocity, err = c.I16(); err != nil {
		return r, err
	}
	return r, nil
}

func writeRemoteMove(w *wire.Writer, r RemoteMoveBlock) {
	w.PutU8(r.MoveType)
	w.PutU16(r.LastTime)
	w.PutI16(r.Velocity)
	w.PutI16(r.AngularVelocity)
}

// WorkManageRequest is the request body for starting/pausing/stopping
// cleaning work, area-clean with room ids, and custom-clean with
// rectangles.
type WorkManageRequest struct {
	ManageType uint8
	WorkType   uint8
	CleanIDs   []byte
	CustomArea []Point
	RemoteMove RemoteMoveBlock
}

// EncodeWorkManageRequest serialises manage-type, work-type, then the
// sequentially encoded arrays: clean-ids, custom-area points, cycles
// (empty), clean-states (empty), extra-ids (empty), extra-pose count
// (zero), the 7-byte remote block, and extra-states (empty).
func EncodeWorkManageRequest(r WorkManageRequest) []byte {
	w := wire.NewWriter(64 + len(r.CleanIDs) + len(r.CustomArea)*8)
	w.PutU8(r.ManageType)
	w.PutU8(r.WorkType)
	writeU8Array(w, r.CleanIDs)
	writePointArray(w, r.CustomArea)
	writeU8Array(w, nil) // cycles
	writeU8Array(w, nil) // clean-states
	writeU8Array(w, nil) // extra-ids
	w.PutU32(0)          // extra-pose count
	writeRemoteMove(w, r.RemoteMove)
	writeU8Array(w, nil) // extra-states
	return w.Bytes()
}

// DecodeWorkManageRequest is the decode half, used by tests and fakes.
func DecodeWorkManageRequest(buf []byte) (*WorkManageRequest, error) {
	c := wire.NewCursor(buf)
	r := &WorkManageRequest{}
	var err error
	if r.ManageType, err = c.U8(); err != nil {
		return nil, err
	}
	if r.WorkType, err = c.U8(); err != nil {
		return nil, err
	}
	if r.CleanIDs, err = readU8Array(c); err != nil {
		return nil, err
	}
	if r.CustomArea, err = readPointArray(c); err != nil {
		return nil, err
	}
	if _, err = readU8Array(c); err != nil { // cycles
		return nil, err
	}
	if _, err = readU8Array(c); err != nil { // clean-states
		return nil, err
	}
	if _, err = readU8Array(c); err != nil { // extra-ids
		return nil, err
	}
	if _, err = c.U32(); err != nil { // extra-pose count
		return nil, err
	}
	if r.RemoteMove, err = readRemoteMove(c); err != nil {
		return nil, err
	}
	if _, err = readU8Array(c); err != nil { // extra-states
		return nil, err
	}
	return r, nil
}

// Work-manage manage-type opcodes used by the facade's clean-control
// verbs.
const (
	ManageStart       uint8 = 0
	ManagePause       uint8 = 1
	ManageResume      uint8 = 2
	ManageStop        uint8 = 3
	ManageReturnDock  uint8 = 4
	ManageAutoCollect uint8 = 5
	ManageRemoteMove  uint8 = 6
)

// WorkType selects the cleaning mode a manage request applies to.
const (
	WorkTypeAuto   uint8 = 0
	WorkTypeArea   uint8 = 1
	WorkTypeCustom uint8 = 2
)
