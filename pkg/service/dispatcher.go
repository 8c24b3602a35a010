// Package service implements the per-service connection dispatcher: at
// most one in-flight call, persistent-socket reuse with one-attempt
// reconnect-on-failure, a short-lived-socket mode, and per-service
// timeouts. Calls are serialised through an explicit FIFO request channel
// served by one goroutine per dispatcher, per the design notes' guidance
// to reimplement the teacher's promise-chained calls as a one-slot mailbox
// so cancellation and back-pressure are first class.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/pborman/uuid"

	"github.com/valetudo/vendormaster/internal/rlog"
	"github.com/valetudo/vendormaster/internal/rpcerr"
	"github.com/valetudo/vendormaster/pkg/master"
	"github.com/valetudo/vendormaster/pkg/transport"
)

// Descriptor is a ServiceDescriptor: logical name, md5 fingerprint
// (carried opaquely, never verified locally), and persistence mode.
type Descriptor struct {
	Name       string // textual path starting with "/"
	MD5        string
	Persistent bool
}

// Config bundles the dispatcher's tunables.
type Config struct {
	CallerID      string
	ConnectTO     time.Duration
	CallTO        time.Duration
}

// DefaultConfig returns the named defaults: connect 4000ms, call 5000ms.
func DefaultConfig() Config {
	return Config{
		CallerID:  master.DefaultCallerID,
		ConnectTO: 4000 * time.Millisecond,
		CallTO:    5000 * time.Millisecond,
	}
}

type callRequest struct {
	ctx     context.Context
	body    []byte
	resultC chan callResult
}

type callResult struct {
	body []byte
	err  error
}

// Dispatcher is a ServiceSession: descriptor, optional open stream,
// serialising FIFO, and last-known resolved endpoint.
type Dispatcher struct {
	desc   Descriptor
	cfg    Config
	master *master.Client

	requests  chan callRequest
	done      chan struct{}
	closeOnce sync.Once

	sock     *transport.Socket
	resolved string // resolved service name remembered on the session
}

// NewDispatcher constructs a Dispatcher for desc, serviced by mc.
func NewDispatcher(desc Descriptor, mc *master.Client, cfg Config) *Dispatcher {
	d := &Dispatcher{
		desc:     desc,
		cfg:      cfg,
		master:   mc,
		requests: make(chan callRequest),
		done:     make(chan struct{}),
	}
	go d.loop()
	return d
}

// Call submits requestBytes and blocks for the response, serialised behind
// any calls already enqueued on this dispatcher.
func (d *Dispatcher) Call(ctx context.Context, requestBody []byte) ([]byte, error) {
	resultC := make(chan callResult, 1)
	select {
	case d.requests <- callRequest{ctx: ctx, body: requestBody, resultC: resultC}:
	case <-d.done:
		return nil, rpcerr.New(rpcerr.Transport, "dispatcher shut down")
	}
	select {
	case r := <-resultC:
		return r.body, r.err
	case <-d.done:
		return nil, rpcerr.New(rpcerr.Transport, "dispatcher shut down")
	}
}

// loop is the dispatcher's private single-writer goroutine: it drains
// requests in submission order, never starting the next until the
// previous has fully settled.
func (d *Dispatcher) loop() {
	log := rlog.For("dispatcher").WithField("service", d.desc.Name)
	for {
		select {
		case req := <-d.requests:
			callLog := log.WithField("call_id", uuid.New())
			body, err := d.executeWithRetry(req.ctx, req.body)
			if err != nil {
				callLog.WithError(err).Debug("call failed")
			}
			req.resultC <- callResult{body: body, err: err}
		case <-d.done:
			d.teardown()
			return
		}
	}
}

// executeWithRetry implements the retry-once-on-transport-failure
// discipline shared by both the persistent and ephemeral paths.
func (d *Dispatcher) executeWithRetry(ctx context.Context, body []byte) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		var resp []byte
		var err error
		if d.desc.Persistent {
			resp, err = d.callPersistent(ctx, body)
		} else {
			resp, err = d.callEphemeral(ctx, body)
		}
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if rpcerr.Is(err, rpcerr.ServiceLevel) {
			// The peer answered; this is not a transport failure, so the
			// retry-once rule does not apply.
			return nil, err
		}
		d.teardown()
	}
	return nil, lastErr
}

func (d *Dispatcher) callPersistent(ctx context.Context, body []byte) ([]byte, error) {
	if d.sock == nil {
		if err := d.open(ctx); err != nil {
			return nil, err
		}
	}
	resp, err := doServiceCall(ctx, d.sock, body, d.cfg.CallTO)
	if err != nil {
		d.teardown()
		return nil, err
	}
	return resp, nil
}

func (d *Dispatcher) callEphemeral(ctx context.Context, body []byte) ([]byte, error) {
	if err := d.open(ctx); err != nil {
		return nil, err
	}
	defer d.teardown()
	return doServiceCall(ctx, d.sock, body, d.cfg.CallTO)
}

// open resolves the service via the master, opens a stream, and performs
// the service handshake.
func (d *Dispatcher) open(ctx context.Context) error {
	ep, err := d.master.LookupService(ctx, d.cfg.CallerID, d.desc.Name)
	if err != nil {
		return err
	}
	sock, err := transport.Dial(ctx, ep.Host, ep.Port, d.cfg.ConnectTO)
	if err != nil {
		return err
	}
	hs := transport.ServiceHandshake(d.cfg.CallerID, d.desc.MD5, d.desc.Persistent, d.desc.Name)
	if _, err := transport.SendHandshake(ctx, sock, hs, d.cfg.CallTO); err != nil {
		sock.Close()
		return err
	}
	d.sock = sock
	d.resolved = d.desc.Name
	return nil
}

// teardown closes the held socket, if any. Idempotent.
func (d *Dispatcher) teardown() {
	if d.sock != nil {
		d.sock.Close()
		d.sock = nil
	}
}

// doServiceCall writes the length-prefixed request body and reads back the
// status byte + length-prefixed reply body.
func doServiceCall(ctx context.Context, sock *transport.Socket, body []byte, timeout time.Duration) ([]byte, error) {
	w := lengthPrefix(body)
	if err := sock.Write(w); err != nil {
		return nil, err
	}
	status, err := sock.ReadExact(ctx, 1, timeout)
	if err != nil {
		return nil, err
	}
	lenBytes, err := sock.ReadExact(ctx, 4, timeout)
	if err != nil {
		return nil, err
	}
	n := le32(lenBytes)
	respBody, err := sock.ReadExact(ctx, int(n), timeout)
	if err != nil {
		return nil, err
	}
	if status[0] != 1 {
		return nil, rpcerr.Newf(rpcerr.ServiceLevel, "service error response: %s", string(respBody))
	}
	return respBody, nil
}

func lengthPrefix(body []byte) []byte {
	out := make([]byte, 4+len(body))
	n := uint32(len(body))
	out[0] = byte(n)
	out[1] = byte(n >> 8)
	out[2] = byte(n >> 16)
	out[3] = byte(n >> 24)
	copy(out[4:], body)
	return out
}

func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// Shutdown closes the held socket, if any, and stops the dispatcher's
// request loop. Idempotent: any call already enqueued observes a
// shut-down error instead of blocking forever.
func (d *Dispatcher) Shutdown() {
	d.closeOnce.Do(func() { close(d.done) })
}
