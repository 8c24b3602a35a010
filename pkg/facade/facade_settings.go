package facade

import (
	"context"

	"github.com/valetudo/vendormaster/pkg/codec"
)

func (f *Facade) getSettings(ctx context.Context) (*codec.SettingManageReply, error) {
	resp, err := f.dSettings.Call(ctx, codec.EncodeSettingManageRequest(codec.SettingManageRequest{
		ManageType: codec.SettingManageGet,
	}))
	if err != nil {
		return nil, err
	}
	return codec.DecodeSettingManageReply(resp)
}

func (f *Facade) setSettings(ctx context.Context, req codec.SettingManageRequest) error {
	req.ManageType = codec.SettingManageSet
	_, err := f.dSettings.Call(ctx, codec.EncodeSettingManageRequest(req))
	return err
}

// GetFanLevel returns the current fan-power mode.
func (f *Facade) GetFanLevel(ctx context.Context) (uint8, error) {
	r, err := f.getSettings(ctx)
	if err != nil {
		return 0, err
	}
	return r.FanMode, nil
}

// SetFanLevel sets the fan-power mode.
func (f *Facade) SetFanLevel(ctx context.Context, level uint8) error {
	return f.setSettings(ctx, codec.SettingManageRequest{SettingType: uint8(codec.SettingFanMode), FanMode: level})
}

// GetSilentMode returns whether silent (night-quiet) mode is on.
func (f *Facade) GetSilentMode(ctx context.Context) (bool, error) {
	r, err := f.getSettings(ctx)
	if err != nil {
		return false, err
	}
	return r.FanSilent != 0, nil
}

// SetSilentMode toggles silent mode.
func (f *Facade) SetSilentMode(ctx context.Context, on bool) error {
	var v uint8
	if on {
		v = 1
	}
	return f.setSettings(ctx, codec.SettingManageRequest{SettingType: uint8(codec.SettingFanSilent), FanSilent: v})
}

// GetWaterLevel returns the mop water-flow level.
func (f *Facade) GetWaterLevel(ctx context.Context) (uint8, error) {
	r, err := f.getSettings(ctx)
	if err != nil {
		return 0, err
	}
	return r.WaterLevel, nil
}

// SetWaterLevel sets the mop water-flow level.
func (f *Facade) SetWaterLevel(ctx context.Context, level uint8) error {
	return f.setSettings(ctx, codec.SettingManageRequest{SettingType: uint8(codec.SettingWaterLevel), WaterLevel: level})
}

// GetCarpetSuctionBoost returns whether suction boosts automatically on
// carpet.
func (f *Facade) GetCarpetSuctionBoost(ctx context.Context) (bool, error) {
	r, err := f.getSettings(ctx)
	if err != nil {
		return false, err
	}
	return r.CustomType == uint8(codec.SettingCarpetBoost) && r.CustomValue != 0, nil
}

// SetCarpetSuctionBoost toggles automatic suction boost on carpet.
func (f *Facade) SetCarpetSuctionBoost(ctx context.Context, on bool) error {
	var v uint8
	if on {
		v = 1
	}
	return f.setSettings(ctx, codec.SettingManageRequest{
		SettingType: uint8(codec.SettingCarpetBoost),
		CustomType:  uint8(codec.SettingCarpetBoost),
		CustomValue: v,
	})
}

// GetCleaningTimes returns the configured number of cleaning passes.
func (f *Facade) GetCleaningTimes(ctx context.Context) (uint8, error) {
	r, err := f.getSettings(ctx)
	if err != nil {
		return 0, err
	}
	return r.CleaningTimes, nil
}

// SetCleaningTimes sets the number of cleaning passes.
func (f *Facade) SetCleaningTimes(ctx context.Context, passes uint8) error {
	return f.setSettings(ctx, codec.SettingManageRequest{
		SettingType:   uint8(codec.SettingCleaningTimes),
		CleaningTimes: &passes,
	})
}

// GetRoomPreferencesEnabled returns whether per-room cleaning preferences
// are in effect.
func (f *Facade) GetRoomPreferencesEnabled(ctx context.Context) (bool, error) {
	r, err := f.getSettings(ctx)
	if err != nil {
		return false, err
	}
	return r.RoomPreferences != 0, nil
}

// SetRoomPreferencesEnabled toggles per-room cleaning preferences.
func (f *Facade) SetRoomPreferencesEnabled(ctx context.Context, on bool) error {
	var v uint8
	if on {
		v = 1
	}
	return f.setSettings(ctx, codec.SettingManageRequest{
		SettingType:     uint8(codec.SettingRoomPreferences),
		RoomPreferences: &v,
	})
}

// GetAutoCollectEnabled returns whether auto dirt-collection at the dock
// is enabled.
func (f *Facade) GetAutoCollectEnabled(ctx context.Context) (bool, error) {
	r, err := f.getSettings(ctx)
	if err != nil {
		return false, err
	}
	return r.AutoCollect != 0, nil
}

// SetAutoCollectEnabled toggles auto dirt-collection at the dock.
func (f *Facade) SetAutoCollectEnabled(ctx context.Context, on bool) error {
	var v uint8
	if on {
		v = 1
	}
	return f.setSettings(ctx, codec.SettingManageRequest{
		SettingType: uint8(codec.SettingAutoCollect),
		AutoCollect: &v,
	})
}
