package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTailValueOutOfRangeIsUnavailable(t *testing.T) {
	_, ok := TailValue([]byte{1, 2}, SettingAutoCollect)
	require.False(t, ok)

	_, ok = TailValue(nil, SettingRoomPreferences)
	require.False(t, ok)
}

func TestSettingManageRequestTailOverrides(t *testing.T) {
	roomPrefs := uint8(1)
	cleaningTimes := uint8(3)
	body := EncodeSettingManageRequest(SettingManageRequest{
		RoomPreferences: &roomPrefs,
		CleaningTimes:   &cleaningTimes,
	})

	v, ok := TailValue(body, SettingRoomPreferences)
	require.True(t, ok)
	require.EqualValues(t, 1, v)

	v, ok = TailValue(body, SettingCleaningTimes)
	require.True(t, ok)
	require.EqualValues(t, 3, v)
}

func TestSettingManageReplyRoundTrip(t *testing.T) {
	buf := EncodeSettingManageReply(SettingManageReply{
		ResponseStatus: 0,
		WaterLevel:     2,
		FanMode:        1,
		FanSilent:      0,
		AIValues:       []byte{1, 2, 3},
		LightToggle:    1,
		AutoCollect:    1,
		RoomPreferences: 1,
		CleaningTimes:   2,
	})
	r, err := DecodeSettingManageReply(buf)
	require.NoError(t, err)
	require.EqualValues(t, 2, r.WaterLevel)
	require.EqualValues(t, 1, r.FanMode)
	require.Equal(t, []byte{1, 2, 3}, r.AIValues)
	require.EqualValues(t, 1, r.RoomPreferences)
	require.EqualValues(t, 2, r.CleaningTimes)
}
