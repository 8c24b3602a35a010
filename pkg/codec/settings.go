package codec

import "github.com/valetudo/vendormaster/pkg/wire"

// SettingKind identifies one of the setting-manage request/response kinds
// whose authoritative value is sometimes carried at a tail-relative offset
// instead of (or in addition to) its fixed-position field. Consolidating
// these into one offset table resolves Open Question (iii): rather than
// re-implementing the same tail lookup at each call site with small
// divergences, every setting-kind-specific override goes through this one
// table.
type SettingKind uint8

const (
	SettingWaterLevel       SettingKind = 0
	SettingFanMode          SettingKind = 1
	SettingFanSilent        SettingKind = 2
	SettingAIOn             SettingKind = 3
	SettingLightToggle      SettingKind = 4
	SettingAutoCollect      SettingKind = 5
	SettingRoomPreferences  SettingKind = 6
	SettingCleaningTimes    SettingKind = 7
	SettingCarpetBoost      SettingKind = 8
)

// tailOffset is the setting-kind's position counted from the end of the
// body (a negative index: -1 is the last byte, -2 the one before it, ...),
// or 0 when the kind has no tail-relative representation and only the
// fixed-position field applies.
var tailOffset = map[SettingKind]int{
	SettingRoomPreferences: -2,
	SettingCleaningTimes:   -1,
	SettingAutoCollect:     -3,
}

// TailValue returns the setting-kind-specific value read from the end of
// body, and whether that position existed. Out-of-range tail indices are
// "value unavailable" rather than an error, since the setting-manage
// response schema differs subtly between firmware minor versions (§9 Open
// Question (ii)).
func TailValue(body []byte, kind SettingKind) (uint8, bool) {
	off, ok := tailOffset[kind]
	if !ok {
		return 0, false
	}
	idx := len(body) + off
	if idx < 0 || idx >= len(body) {
		return 0, false
	}
	return body[idx], true
}

// SettingManageReply is the decoded mixed-shape setting-manage response.
type SettingManageReply struct {
	ResponseStatus  uint8
	SettingType     uint8
	CustomType      uint8
	CustomValue     uint8
	WaterLevel      uint8
	FanMode         uint8
	FanSilent       uint8
	AISettingOn     uint8
	AIValues        []byte
	LightToggle     uint8
	AutoCollect     uint8
	RoomPreferences uint8
	CleaningTimes   uint8
}

// DecodeSettingManageReply parses the fixed-position fields of §4.7. Tail-
// relative overrides (room-preferences, cleaning-times, auto-collect) are
// read separately via TailValue against the original body.
func DecodeSettingManageReply(buf []byte) (*SettingManageReply, error) {
	c := wire.NewCursor(buf)
	r := &SettingManageReply{}
	var err error
	if r.ResponseStatus, err = c.U8(); err != nil {
		return nil, err
	}
	if r.SettingType, err = c.U8(); err != nil {
		return nil, err
	}
	if r.CustomType, err = c.U8(); err != nil {
		return nil, err
	}
	if r.CustomValue, err = c.U8(); err != nil {
		return nil, err
	}
	if err = c.Skip(16); err != nil {
		return nil, err
	}
	if r.WaterLevel, err = c.U8(); err != nil {
		return nil, err
	}
	if r.FanMode, err = c.U8(); err != nil {
		return nil, err
	}
	if r.FanSilent, err = c.U8(); err != nil {
		return nil, err
	}
	if r.AISettingOn, err = c.U8(); err != nil {
		return nil, err
	}
	if r.AIValues, err = c.LengthPrefixed(); err != nil {
		return nil, err
	}
	if err = c.Skip(8); err != nil {
		return nil, err
	}
	if r.LightToggle, err = c.U8(); err != nil {
		return nil, err
	}
	if r.AutoCollect, err = c.U8(); err != nil {
		return nil, err
	}
	if r.RoomPreferences, err = c.U8(); err != nil {
		return nil, err
	}
	if r.CleaningTimes, err = c.U8(); err != nil {
		return nil, err
	}

	if v, ok := TailValue(buf, SettingRoomPreferences); ok {
		r.RoomPreferences = v
	}
	if v, ok := TailValue(buf, SettingCleaningTimes); ok {
		r.CleaningTimes = v
	}
	if v, ok := TailValue(buf, SettingAutoCollect); ok {
		r.AutoCollect = v
	}
	return r, nil
}

// EncodeSettingManageReply is the encode half, used for test fixtures.
func EncodeSettingManageReply(r SettingManageReply) []byte {
	w := wire.NewWriter(64)
	w.PutU8(r.ResponseStatus)
	w.PutU8(r.SettingType)
	w.PutU8(r.CustomType)
	w.PutU8(r.CustomValue)
	w.PutZero(16)
	w.PutU8(r.WaterLevel)
	w.PutU8(r.FanMode)
	w.PutU8(r.FanSilent)
	w.PutU8(r.AISettingOn)
	w.PutLengthPrefixed(r.AIValues)
	w.PutZero(8)
	w.PutU8(r.LightToggle)
	w.PutU8(r.AutoCollect)
	w.PutU8(r.RoomPreferences)
	w.PutU8(r.CleaningTimes)
	return w.Bytes()
}

// Setting-manage request-type opcodes.
const (
	SettingManageGet uint8 = 0
	SettingManageSet uint8 = 1
)

// SettingManageRequest is the request-side counterpart: a 24-byte fixed
// prefix, a zeroed 5-byte ai-values block with its own length prefix, a
// 10-byte reserved zone, 2 bytes of padding, with setting-kind-specific
// tail overrides applied last.
type SettingManageRequest struct {
	ManageType  uint8
	SettingType uint8
	CustomType  uint8
	CustomValue uint8
	WaterLevel  uint8
	FanMode     uint8
	FanSilent   uint8

	// Overrides, applied at tail-relative offsets after the fixed body is
	// built; a nil pointer leaves that tail byte untouched (zero, from the
	// trailing reserved zone and padding).
	RoomPreferences  *uint8
	CleaningTimes    *uint8
	AutoCollect      *uint8
}

// EncodeSettingManageRequest builds the 24-byte fixed prefix (manage-type,
// setting-type, custom-type, custom-value at bytes 0-3; water-level at
// byte 20; fan-mode at byte 21; fan-silent at byte 22; remainder zero),
// then the ai-values block, 10 reserved bytes, 2 bytes of padding, and
// finally applies any tail-relative setting overrides.
func EncodeSettingManageRequest(r SettingManageRequest) []byte {
	fixed := make([]byte, 24)
	fixed[0] = r.ManageType
	fixed[1] = r.SettingType
	fixed[2] = r.CustomType
	fixed[3] = r.CustomValue
	fixed[20] = r.WaterLevel
	fixed[21] = r.FanMode
	fixed[22] = r.FanSilent

	w := wire.NewWriter(24 + 9 + 10 + 2)
	w.PutBytes(fixed)
	w.PutLengthPrefixed(make([]byte, 5))
	w.PutZero(10)
	w.PutZero(2)
	body := w.Bytes()

	applyTail(body, SettingRoomPreferences, r.RoomPreferences)
	applyTail(body, SettingCleaningTimes, r.CleaningTimes)
	applyTail(body, SettingAutoCollect, r.AutoCollect)
	return body
}

func applyTail(body []byte, kind SettingKind, v *uint8) {
	if v == nil {
		return
	}
	off, ok := tailOffset[kind]
	if !ok {
		return
	}
	idx := len(body) + off
	if idx < 0 || idx >= len(body) {
		return
	}
	body[idx] = *v
}
