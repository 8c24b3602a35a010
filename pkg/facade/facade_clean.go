package facade

import (
	"context"

	"github.com/valetudo/vendormaster/pkg/codec"
)

func (f *Facade) manage(ctx context.Context, req codec.WorkManageRequest) error {
	_, err := f.dWorkManage.Call(ctx, codec.EncodeWorkManageRequest(req))
	return err
}

// StartAutoClean begins a full auto-clean cycle.
func (f *Facade) StartAutoClean(ctx context.Context) error {
	return f.manage(ctx, codec.WorkManageRequest{ManageType: codec.ManageStart, WorkType: codec.WorkTypeAuto})
}

// PauseClean pauses the in-progress clean.
func (f *Facade) PauseClean(ctx context.Context) error {
	return f.manage(ctx, codec.WorkManageRequest{ManageType: codec.ManagePause})
}

// ResumeClean resumes a paused clean.
func (f *Facade) ResumeClean(ctx context.Context) error {
	return f.manage(ctx, codec.WorkManageRequest{ManageType: codec.ManageResume})
}

// StopClean stops the in-progress clean outright.
func (f *Facade) StopClean(ctx context.Context) error {
	return f.manage(ctx, codec.WorkManageRequest{ManageType: codec.ManageStop})
}

// ReturnToDock sends the robot back to its charging dock.
func (f *Facade) ReturnToDock(ctx context.Context) error {
	return f.manage(ctx, codec.WorkManageRequest{ManageType: codec.ManageReturnDock})
}

// TriggerAutoCollectDirt starts an out-of-cycle dirt-collection dock
// cycle.
func (f *Facade) TriggerAutoCollectDirt(ctx context.Context) error {
	return f.manage(ctx, codec.WorkManageRequest{ManageType: codec.ManageAutoCollect})
}

// StartAreaClean begins cleaning only the named room ids.
func (f *Facade) StartAreaClean(ctx context.Context, areaIDs []byte) error {
	return f.manage(ctx, codec.WorkManageRequest{
		ManageType: codec.ManageStart,
		WorkType:   codec.WorkTypeArea,
		CleanIDs:   areaIDs,
	})
}

// StartCustomClean begins cleaning within the given rectangles,
// flattened to their corner points.
func (f *Facade) StartCustomClean(ctx context.Context, rects []codec.Point) error {
	return f.manage(ctx, codec.WorkManageRequest{
		ManageType: codec.ManageStart,
		WorkType:   codec.WorkTypeCustom,
		CustomArea: rects,
	})
}

// RemoteMove drives the robot directly under remote control for one tick.
func (f *Facade) RemoteMove(ctx context.Context, move codec.RemoteMoveBlock) error {
	return f.manage(ctx, codec.WorkManageRequest{ManageType: codec.ManageRemoteMove, RemoteMove: move})
}
