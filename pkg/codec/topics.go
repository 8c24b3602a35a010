// Package codec, topic payload decoders (§6.3). Each decoder returns
// (nil, nil) when the payload is shorter than its minimum, per spec:
// "Decoders return null if the payload is shorter than their minimum."
package codec

import "github.com/valetudo/vendormaster/pkg/wire"

// Battery is the decoded battery topic payload.
type Battery struct {
	Level             uint8
	LowVoltageShutoff uint8
}

// DecodeBattery decodes the 2-byte battery payload.
func DecodeBattery(body []byte) (interface{}, error) {
	if len(body) < 2 {
		return nil, nil
	}
	c := wire.NewCursor(body)
	level, _ := c.U8()
	low, _ := c.U8()
	return &Battery{Level: level, LowVoltageShutoff: low}, nil
}

// ChargeState is the decoded charge-state topic payload.
type ChargeState struct {
	OnCharger uint8
	State     uint8
}

// DecodeChargeState decodes the 2-byte charge-state payload.
func DecodeChargeState(body []byte) (interface{}, error) {
	if len(body) < 2 {
		return nil, nil
	}
	c := wire.NewCursor(body)
	onCharger, _ := c.U8()
	state, _ := c.U8()
	return &ChargeState{OnCharger: onCharger, State: state}, nil
}

// WorkState is the decoded work-state topic payload.
type WorkState struct {
	WorkType   uint8
	State      uint8
	Poses      []Pose
	RemoteMove RemoteMoveBlock
	WorkCause  uint8
}

// DecodeWorkState decodes: worktype u8, state u8, then five
// length-prefixed skipped arrays (ids, dot pairs, cycles, states,
// extra-ids), a pose array (headered poses), a 7-byte remote-move block, a
// u8 extra-states array, then workcause u8.
func DecodeWorkState(body []byte) (interface{}, error) {
	const minLen = 2 + 5*4 + 4 + 7 + 4 + 1
	if len(body) < minLen {
		return nil, nil
	}
	c := wire.NewCursor(body)
	ws := &WorkState{}
	var err error
	if ws.WorkType, err = c.U8(); err != nil {
		return nil, nil
	}
	if ws.State, err = c.U8(); err != nil {
		return nil, nil
	}
	if _, err = readU8Array(c); err != nil { // ids
		return nil, nil
	}
	if _, err = readPointArray(c); err != nil { // dot pairs
		return nil, nil
	}
	for i := 0; i < 3; i++ { // cycles, states, extra-ids
		if _, err = readU8Array(c); err != nil {
			return nil, nil
		}
	}
	n, err := c.U32()
	if err != nil {
		return nil, nil
	}
	ws.Poses = make([]Pose, n)
	for i := range ws.Poses {
		if ws.Poses[i], err = readHeaderedPose(c); err != nil {
			return nil, nil
		}
	}
	if ws.RemoteMove, err = readRemoteMove(c); err != nil {
		return nil, nil
	}
	if _, err = readU8Array(c); err != nil { // extra-states
		return nil, nil
	}
	if ws.WorkCause, err = c.U8(); err != nil {
		return nil, nil
	}
	return ws, nil
}

// WorkStatisticToWifi is the decoded 22-byte last-session statistics
// record (also used as the log-info "last-session stats" reply body).
type WorkStatisticToWifi struct {
	WorkType      uint8
	WorkTimeSecs  uint32
	WorkAreaDm2   uint32
	ExtraAreaDm2  uint32
	WaterboxType  uint8
	StartTimeSecs uint32
}

// DecodeWorkStatisticToWifi decodes the fixed 22-byte record.
func DecodeWorkStatisticToWifi(body []byte) (interface{}, error) {
	if len(body) < 22 {
		return nil, nil
	}
	c := wire.NewCursor(body)
	s := &WorkStatisticToWifi{}
	s.WorkType, _ = c.U8()
	s.WorkTimeSecs, _ = c.U32()
	s.WorkAreaDm2, _ = c.U32()
	s.ExtraAreaDm2, _ = c.U32()
	s.WaterboxType, _ = c.U8()
	s.StartTimeSecs, _ = c.U32()
	return s, nil
}

// Alert is one triggered alert entry.
type Alert struct {
	Type  uint8
	State uint8
}

// DecodeAlerts decodes a u32 count then count × {type, state}, returning
// only entries whose state is 1 (triggered).
func DecodeAlerts(body []byte) (interface{}, error) {
	if len(body) < 4 {
		return nil, nil
	}
	c := wire.NewCursor(body)
	n, err := c.U32()
	if err != nil {
		return nil, nil
	}
	var out []Alert
	for i := uint32(0); i < n; i++ {
		t, err := c.U8()
		if err != nil {
			return nil, nil
		}
		s, err := c.U8()
		if err != nil {
			return nil, nil
		}
		if s == 1 {
			out = append(out, Alert{Type: t, State: s})
		}
	}
	return out, nil
}

// DecodePredictionPose decodes two headered poses plus a trailing
// interpolation-flag byte, returning only the second pose.
func DecodePredictionPose(body []byte) (interface{}, error) {
	c := wire.NewCursor(body)
	if _, err := readHeaderedPose(c); err != nil {
		return nil, nil
	}
	second, err := readHeaderedPose(c)
	if err != nil {
		return nil, nil
	}
	if err := c.Skip(1); err != nil { // interpolation flag
		return nil, nil
	}
	return &second, nil
}

// ChargerPose is the decoded charger/dock pose service reply: a pose plus
// a validity flag.
type ChargerPose struct {
	Valid bool
	Pose  Pose
}

// EncodeChargerPoseRequest builds the charger-pose GET request: a single
// opcode byte, mirroring the map-infos request's shape.
func EncodeChargerPoseRequest() []byte {
	return []byte{0}
}

// DecodeChargerPoseReply decodes a 1-byte valid flag followed by a pose
// triple.
func DecodeChargerPoseReply(body []byte) (*ChargerPose, error) {
	c := wire.NewCursor(body)
	validByte, err := c.U8()
	if err != nil {
		return nil, err
	}
	pose, err := readPose(c)
	if err != nil {
		return nil, err
	}
	return &ChargerPose{Valid: validByte != 0, Pose: pose}, nil
}

// EncodeChargerPoseReply is the encode half, for test fixtures.
func EncodeChargerPoseReply(p ChargerPose) []byte {
	w := wire.NewWriter(13)
	if p.Valid {
		w.PutU8(1)
	} else {
		w.PutU8(0)
	}
	writePose(w, p.Pose)
	return w.Bytes()
}

// TotalStatistics is the decoded total-stats log-info reply: three u32
// words (lifetime clean time, lifetime clean area, lifetime clean count,
// by firmware convention).
type TotalStatistics struct {
	Word0, Word1, Word2 uint32
}

// DecodeTotalStatistics decodes the fixed 12-byte record.
func DecodeTotalStatistics(body []byte) (*TotalStatistics, error) {
	c := wire.NewCursor(body)
	s := &TotalStatistics{}
	var err error
	if s.Word0, err = c.U32(); err != nil {
		return nil, err
	}
	if s.Word1, err = c.U32(); err != nil {
		return nil, err
	}
	if s.Word2, err = c.U32(); err != nil {
		return nil, err
	}
	return s, nil
}

// EncodeTotalStatistics is the encode half, for test fixtures.
func EncodeTotalStatistics(s TotalStatistics) []byte {
	w := wire.NewWriter(12)
	w.PutU32(s.Word0)
	w.PutU32(s.Word1)
	w.PutU32(s.Word2)
	return w.Bytes()
}
