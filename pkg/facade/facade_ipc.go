package facade

import "context"

// StartLiveVideo starts the on-device live video stream via the local IPC
// helper (§4.9) rather than the master/node RPC stack.
func (f *Facade) StartLiveVideo(ctx context.Context, password string) error {
	return f.ipc.StartLiveVideo(ctx, password)
}

// StopLiveVideo stops the live video stream.
func (f *Facade) StopLiveVideo(ctx context.Context) error {
	return f.ipc.StopLiveVideo(ctx)
}

// PlaySound plays a named on-device sound.
func (f *Facade) PlaySound(ctx context.Context, soundID string) error {
	return f.ipc.PlaySound(ctx, soundID)
}

// PlayBeep plays the device's locate-me beep.
func (f *Facade) PlayBeep(ctx context.Context) error {
	return f.ipc.PlayBeep(ctx)
}
