package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeBattery(t *testing.T) {
	v, err := DecodeBattery([]byte{80, 1})
	require.NoError(t, err)
	b := v.(*Battery)
	require.EqualValues(t, 80, b.Level)
	require.EqualValues(t, 1, b.LowVoltageShutoff)
}

func TestDecodeBatteryShortBody(t *testing.T) {
	v, err := DecodeBattery([]byte{1})
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestDecodeAlertsFiltersUntriggered(t *testing.T) {
	w := []byte{2, 0, 0, 0, 1, 1, 2, 0}
	v, err := DecodeAlerts(w)
	require.NoError(t, err)
	alerts := v.([]Alert)
	require.Len(t, alerts, 1)
	require.EqualValues(t, 1, alerts[0].Type)
}

func TestChargerPoseReplyRoundTrip(t *testing.T) {
	buf := EncodeChargerPoseReply(ChargerPose{Valid: true, Pose: Pose{X: 1, Y: 2, Theta: 0.5}})
	r, err := DecodeChargerPoseReply(buf)
	require.NoError(t, err)
	require.True(t, r.Valid)
	require.InDelta(t, 1, r.Pose.X, 0.001)
}

func TestTotalStatisticsRoundTrip(t *testing.T) {
	buf := EncodeTotalStatistics(TotalStatistics{Word0: 1, Word1: 2, Word2: 3})
	r, err := DecodeTotalStatistics(buf)
	require.NoError(t, err)
	require.EqualValues(t, 3, r.Word2)
}
