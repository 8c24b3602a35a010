package facade

import (
	"context"

	"github.com/valetudo/vendormaster/internal/rpcerr"
	"github.com/valetudo/vendormaster/pkg/codec"
)

// DefaultStaleAfterMs is the freshness window applied to cached topic
// values when a caller doesn't need a tighter one.
const DefaultStaleAfterMs = 3000

// Positions bundles the robot's last known pose with its dock's pose.
type Positions struct {
	Robot *codec.Pose
	Dock  codec.ChargerPose
}

// GetPositions returns the robot's cached predicted pose (nil if stale or
// never received) alongside the dock's pose fetched live from the
// charger-pose service.
func (f *Facade) GetPositions(ctx context.Context, staleAfterMs int64) (*Positions, error) {
	resp, err := f.dChargerPose.Call(ctx, codec.EncodeChargerPoseRequest())
	if err != nil {
		return nil, err
	}
	dock, err := codec.DecodeChargerPoseReply(resp)
	if err != nil {
		return nil, err
	}
	out := &Positions{Dock: *dock}
	if v := f.sPredictPose.GetLatestValue(staleAfterMs); v != nil {
		if p, ok := v.(*codec.Pose); ok {
			out.Robot = p
		}
	}
	return out, nil
}

// --- lifespan ---

// GetLifespan fetches the remaining/total life of every tracked
// consumable part.
func (f *Facade) GetLifespan(ctx context.Context) (*codec.LifespanReply, error) {
	resp, err := f.dLifespan.Call(ctx, codec.EncodeLifespanRequest(0, codec.PartAll))
	if err != nil {
		return nil, err
	}
	return codec.DecodeLifespanReply(resp)
}

// ResetLifespanPart resets one consumable part's life counter.
func (f *Facade) ResetLifespanPart(ctx context.Context, part codec.LifespanPart) error {
	_, err := f.dLifespan.Call(ctx, codec.EncodeLifespanRequest(1, part))
	return err
}

// --- trace ---

func (f *Facade) traceCall(ctx context.Context, body []byte) (*codec.TraceReply, error) {
	resp, err := f.dTrace.Call(ctx, body)
	if err != nil {
		return nil, err
	}
	if len(resp) < 1 {
		return nil, rpcerr.New(rpcerr.ProtocolFraming, "trace reply missing op byte")
	}
	return codec.DecodeTraceReply(resp[1:])
}

// GetTraceTail fetches at most maxBytes of the most recent cleaning-trace
// data, returning (nil, nil) if the trace is currently under reset.
func (f *Facade) GetTraceTail(ctx context.Context, maxBytes uint32) ([]byte, error) {
	info, err := f.traceCall(ctx, codec.EncodeTraceGetInfoRequest())
	if err != nil {
		return nil, err
	}
	if info.UnderReset {
		return nil, nil
	}
	start := uint32(0)
	if info.EndIdx > maxBytes {
		start = info.EndIdx - maxBytes
	}
	between, err := f.traceCall(ctx, codec.EncodeTraceGetBetweenRequest(info.MapID, info.TraceID, start, info.EndIdx))
	if err != nil {
		return nil, err
	}
	if between.UnderReset {
		return nil, nil
	}
	return between.Data, nil
}

// --- statistics / alerts ---

// GetTotalStatistics fetches lifetime cleaning statistics.
func (f *Facade) GetTotalStatistics(ctx context.Context) (*codec.TotalStatistics, error) {
	resp, err := f.dLogTotal.Call(ctx, []byte{0})
	if err != nil {
		return nil, err
	}
	return codec.DecodeTotalStatistics(resp)
}

// GetLastSessionStatistics fetches the most recent cleaning session's
// statistics live from the log-info service.
func (f *Facade) GetLastSessionStatistics(ctx context.Context) (*codec.WorkStatisticToWifi, error) {
	resp, err := f.dLogLast.Call(ctx, []byte{0})
	if err != nil {
		return nil, err
	}
	v, err := codec.DecodeWorkStatisticToWifi(resp)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	return v.(*codec.WorkStatisticToWifi), nil
}

// GetCachedWorkStatistic returns the last work-statistic value pushed on
// the work-statistic-to-wifi topic, or nil if none has arrived within
// staleAfterMs.
func (f *Facade) GetCachedWorkStatistic(staleAfterMs int64) *codec.WorkStatisticToWifi {
	v := f.sWorkStat.GetLatestValue(staleAfterMs)
	if v == nil {
		return nil
	}
	return v.(*codec.WorkStatisticToWifi)
}

// GetTriggeredAlerts returns the currently-triggered alerts, or nil if the
// alerts topic hasn't delivered a fresh value within staleAfterMs.
func (f *Facade) GetTriggeredAlerts(staleAfterMs int64) []codec.Alert {
	v := f.sAlerts.GetLatestValue(staleAfterMs)
	if v == nil {
		return nil
	}
	return v.([]codec.Alert)
}

// GetBatteryLevel returns the cached battery reading, or nil if stale.
func (f *Facade) GetBatteryLevel(staleAfterMs int64) *codec.Battery {
	v := f.sBattery.GetLatestValue(staleAfterMs)
	if v == nil {
		return nil
	}
	return v.(*codec.Battery)
}

// GetChargeState returns the cached charge-state reading, or nil if
// stale.
func (f *Facade) GetChargeState(staleAfterMs int64) *codec.ChargeState {
	v := f.sChargeState.GetLatestValue(staleAfterMs)
	if v == nil {
		return nil
	}
	return v.(*codec.ChargeState)
}

// GetWorkState returns the cached work-state reading, or nil if stale.
func (f *Facade) GetWorkState(staleAfterMs int64) *codec.WorkState {
	v := f.sWorkState.GetLatestValue(staleAfterMs)
	if v == nil {
		return nil
	}
	return v.(*codec.WorkState)
}
