// Package ipchelper implements the local IPC collaborator of §4.9: some
// verbs bypass the master/node stack entirely and push a JSON payload into
// a Unix domain socket owned by the firmware by shelling out to a vendor
// binary, since this library does not speak that socket directly.
package ipchelper

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/valetudo/vendormaster/internal/rlog"
	"github.com/valetudo/vendormaster/internal/rpcerr"
)

// Defaults per §6.4.
const (
	DefaultHelperBin  = "mdsctl"
	DefaultHelperSock = "/tmp/mds_cmd.sock"
	DefaultTimeout    = 2000 * time.Millisecond
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Invoker shells out to the vendor binary with [socketPath, element,
// jsonPayload] arguments.
type Invoker struct {
	BinPath  string
	SockPath string
	Timeout  time.Duration
}

// NewInvoker builds an Invoker, resolving the binary and socket paths from
// MDS_HELPER_BIN / MDS_HELPER_SOCK environment overrides, falling back to
// the fixed defaults.
func NewInvoker() *Invoker {
	bin := os.Getenv("MDS_HELPER_BIN")
	if bin == "" {
		bin = DefaultHelperBin
	}
	sock := os.Getenv("MDS_HELPER_SOCK")
	if sock == "" {
		sock = DefaultHelperSock
	}
	return &Invoker{BinPath: bin, SockPath: sock, Timeout: DefaultTimeout}
}

// Invoke pushes payload (marshaled to JSON) for element into the robot's
// IPC socket via the vendor binary. A non-zero exit surfaces stdout and
// stderr as part of the error.
func (inv *Invoker) Invoke(ctx context.Context, element string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return rpcerr.Wrap(rpcerr.HelperBinary, err, "marshal command payload")
	}

	timeout := inv.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cctx, inv.BinPath, inv.SockPath, element, string(body))
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	rlog.For("ipchelper").WithField("element", element).Debug("invoking helper binary")

	if err := cmd.Run(); err != nil {
		if cctx.Err() != nil {
			return rpcerr.Newf(rpcerr.HelperBinary, "helper %s timed out after %s", inv.BinPath, timeout)
		}
		if _, ok := err.(*exec.ExitError); ok {
			return rpcerr.Newf(rpcerr.HelperBinary, "helper %s exited non-zero: stdout=%q stderr=%q",
				inv.BinPath, stdout.String(), stderr.String())
		}
		return rpcerr.Wrapf(rpcerr.HelperBinary, err, "spawning helper %s", inv.BinPath)
	}
	return nil
}

// StartLiveVideo pushes a start-live-video command with the given access
// password.
func (inv *Invoker) StartLiveVideo(ctx context.Context, password string) error {
	return inv.Invoke(ctx, "video_start", map[string]string{"password": password})
}

// StopLiveVideo pushes a stop-live-video command.
func (inv *Invoker) StopLiveVideo(ctx context.Context) error {
	return inv.Invoke(ctx, "video_stop", map[string]string{})
}

// PlaySound pushes a play-sound command naming a sound id.
func (inv *Invoker) PlaySound(ctx context.Context, soundID string) error {
	return inv.Invoke(ctx, "play_sound", map[string]string{"id": soundID})
}

// PlayBeep pushes a play-beep command.
func (inv *Invoker) PlayBeep(ctx context.Context) error {
	return inv.Invoke(ctx, "play_beep", map[string]string{})
}
