// Package topic implements the long-running per-topic subscriber worker:
// resolve publishers, perform the subscriber handshake, read length-
// prefixed messages, cache the latest decoded value with a freshness
// timestamp, and reconnect indefinitely on failure. The resolve-then-chase
// loop is grounded on the teacher's iterative ResolveX walk in
// runtimes/google/naming/namespace/resolve.go, generalized from
// mount-table-chasing to publisher-chasing.
package topic

import (
	"context"
	"sync"
	"time"

	"github.com/valetudo/vendormaster/internal/rlog"
	"github.com/valetudo/vendormaster/internal/rpcerr"
	"github.com/valetudo/vendormaster/pkg/master"
	"github.com/valetudo/vendormaster/pkg/transport"
	"golang.org/x/time/rate"
)

// ResolverPolicy selects how a subscriber discovers publishers.
type ResolverPolicy int

const (
	// PolicySystemStateFirst tries getSystemState, falling back to
	// registerSubscriber when no publishers are listed.
	PolicySystemStateFirst ResolverPolicy = iota
	// PolicySystemStateOnly never calls registerSubscriber: some
	// firmware crashes on the unsolicited publisherUpdate callback it
	// triggers.
	PolicySystemStateOnly
)

// Decoder turns a raw message body into a typed value, or (nil, nil) when
// the body should be skipped (e.g. a deliberately empty keep-alive).
type Decoder func(body []byte) (interface{}, error)

// Descriptor is a TopicDescriptor.
type Descriptor struct {
	Topic    string
	MsgType  string
	MD5      string
	Decode   Decoder
	Policy   ResolverPolicy
	Backoff  time.Duration
}

// Config bundles the subscriber's tunables.
type Config struct {
	CallerID  string
	ConnectTO time.Duration
	ReadTO    time.Duration
}

// DefaultConfig returns the named defaults: connect 4000ms, read 5000ms.
// The reconnect delay is not part of Config: it is the descriptor's
// Backoff, or 1500ms when that is zero (see backoff).
func DefaultConfig() Config {
	return Config{
		CallerID:  master.DefaultCallerID,
		ConnectTO: 4000 * time.Millisecond,
		ReadTO:    5000 * time.Millisecond,
	}
}

// Subscriber is a TopicSubscriber.
type Subscriber struct {
	desc   Descriptor
	cfg    Config
	master *master.Client
	clock  Clock

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	valMu     sync.Mutex
	latest    interface{}
	latestSet bool
	latestAt  time.Time

	limiter *rate.Limiter
}

// Clock abstracts wall-clock time so tests can control freshness windows
// deterministically.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// NewSubscriber constructs a Subscriber for desc, serviced by mc.
func NewSubscriber(desc Descriptor, mc *master.Client, cfg Config) *Subscriber {
	return &Subscriber{
		desc:    desc,
		cfg:     cfg,
		master:  mc,
		clock:   realClock{},
		limiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 1),
	}
}

// WithClock overrides the clock, for tests.
func (s *Subscriber) WithClock(c Clock) *Subscriber {
	s.clock = c
	return s
}

// Start transitions the subscriber from idle to running and spawns its
// worker. Calling Start twice without an intervening Shutdown is a no-op.
func (s *Subscriber) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.running = true
	s.wg.Add(1)
	go s.run(ctx)
}

// Shutdown requests the worker stop and awaits its exit, swallowing any
// error observed during teardown. A second Shutdown is a no-op.
func (s *Subscriber) Shutdown() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	cancel := s.cancel
	s.mu.Unlock()

	cancel()
	s.wg.Wait()
}

// GetLatestValue returns the cached value, or nil if none has ever been
// cached, or if staleAfterMs is non-negative and the cached value's age
// exceeds it.
func (s *Subscriber) GetLatestValue(staleAfterMs int64) interface{} {
	s.valMu.Lock()
	defer s.valMu.Unlock()
	if !s.latestSet {
		return nil
	}
	if staleAfterMs >= 0 {
		age := s.clock.Now().Sub(s.latestAt)
		if age > time.Duration(staleAfterMs)*time.Millisecond {
			return nil
		}
	}
	return s.latest
}

func (s *Subscriber) setLatest(v interface{}) {
	s.valMu.Lock()
	s.latest = v
	s.latestSet = true
	s.latestAt = s.clock.Now()
	s.valMu.Unlock()
}

func (s *Subscriber) isRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// run is the worker loop: it restarts resolve→connect→handshake→read on
// every error, sleeping the configured backoff, until Shutdown cancels ctx.
func (s *Subscriber) run(ctx context.Context) {
	defer s.wg.Done()
	log := rlog.For("subscriber").WithField("topic", s.desc.Topic)

	for {
		if ctx.Err() != nil {
			return
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return
		}
		err := s.cycle(ctx)
		if err == nil {
			continue // cycle only returns nil when ctx was cancelled mid-loop
		}
		if !s.isRunning() {
			return // shutting down: swallow the final error
		}
		log.WithError(err).Warn("topic cycle failed, reconnecting")
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.backoff()):
		}
	}
}

func (s *Subscriber) backoff() time.Duration {
	if s.desc.Backoff > 0 {
		return s.desc.Backoff
	}
	return 1500 * time.Millisecond
}

// cycle performs one resolve→connect→handshake→read-loop pass. It returns
// nil only when ctx was cancelled; any protocol/transport failure is
// returned as an error for run to log and back off on.
func (s *Subscriber) cycle(ctx context.Context) error {
	publishers, err := s.resolvePublishers(ctx)
	if err != nil {
		return err
	}
	if len(publishers) == 0 {
		return rpcerr.New(rpcerr.Resolution, "no publishers for topic")
	}

	sock, err := s.connectFirst(ctx, publishers)
	if err != nil {
		return err
	}
	defer sock.Close()

	hs := transport.TopicHandshake(s.cfg.CallerID, s.desc.Topic, s.desc.MsgType, s.desc.MD5)
	if _, err := transport.SendHandshake(ctx, sock, hs, s.cfg.ReadTO); err != nil {
		return err
	}

	return s.readLoop(ctx, sock)
}

// resolvePublishers implements the policy A/B resolver of §4.6 step 1.
func (s *Subscriber) resolvePublishers(ctx context.Context) ([]string, error) {
	pubs, err := s.master.GetSystemState(ctx, s.cfg.CallerID, s.desc.Topic)
	if err != nil {
		return nil, err
	}
	if len(pubs) > 0 || s.desc.Policy == PolicySystemStateOnly {
		return pubs, nil
	}
	return s.master.RegisterSubscriber(ctx, s.cfg.CallerID, s.desc.Topic, s.desc.MsgType)
}

// connectFirst tries each candidate publisher node in order, returning the
// first socket opened successfully.
func (s *Subscriber) connectFirst(ctx context.Context, publishers []string) (*transport.Socket, error) {
	var lastErr error = rpcerr.New(rpcerr.Resolution, "no candidate publishers reachable")
	for _, node := range publishers {
		slaveURI, err := s.master.LookupNode(ctx, s.cfg.CallerID, node)
		if err != nil {
			lastErr = err
			continue
		}
		ep, err := s.master.RequestTopic(ctx, s.cfg.CallerID, slaveURI, s.desc.Topic)
		if err != nil {
			lastErr = err
			continue
		}
		sock, err := transport.Dial(ctx, ep.Host, ep.Port, s.cfg.ConnectTO)
		if err != nil {
			lastErr = err
			continue
		}
		return sock, nil
	}
	return nil, lastErr
}

// readLoop repeatedly reads a 4-byte length then that many bytes, decoding
// each body and caching non-nil decoded values.
func (s *Subscriber) readLoop(ctx context.Context, sock *transport.Socket) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		lenBytes, err := sock.ReadExact(ctx, 4, s.cfg.ReadTO)
		if err != nil {
			return err
		}
		n := le32(lenBytes)
		body, err := sock.ReadExact(ctx, int(n), s.cfg.ReadTO)
		if err != nil {
			return err
		}
		v, err := s.desc.Decode(body)
		if err != nil {
			return err
		}
		if v != nil {
			s.setLatest(v)
		}
	}
}

func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
