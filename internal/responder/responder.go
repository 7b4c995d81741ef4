package responder

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/muurk/staticssdp/internal/logging"
	"github.com/muurk/staticssdp/internal/service"
	"github.com/muurk/staticssdp/internal/ssdp"
	"github.com/muurk/staticssdp/internal/transport"
	"go.uber.org/zap"
)

// ShutdownTimeout bounds the shutdown Serve performs when its context ends.
const ShutdownTimeout = 10 * time.Second

// State is the lifecycle stage of a Responder.
type State int32

const (
	StateStarting State = iota
	StateRunning
	StateShuttingDown
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateShuttingDown:
		return "shutting down"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Option customizes a Responder.
type Option func(*Responder)

// WithTransport uses t instead of opening one from the config.
func WithTransport(t transport.Transport) Option {
	return func(r *Responder) {
		r.transport = t
	}
}

// Responder answers M-SEARCH requests for a fixed set of descriptors and
// announces them on the multicast group.
type Responder struct {
	cfg         Config
	descriptors []*service.Descriptor
	transport   transport.Transport
	group       *net.UDPAddr

	mu      sync.Mutex // guards state transitions
	state   atomic.Int32
	running atomic.Bool

	queue        chan *ssdp.Request
	workers      sync.WaitGroup // receiver and scheduler
	dispatchDone chan struct{}

	shutdownOnce sync.Once
	shutdownErr  error
}

// New creates a Responder and acquires its transport. Nothing runs until
// Start.
func New(cfg Config, descriptors []*service.Descriptor, opts ...Option) (*Responder, error) {
	if len(descriptors) == 0 {
		return nil, ErrNoDescriptors
	}
	cfg = cfg.withDefaults()

	r := &Responder{
		cfg:          cfg,
		descriptors:  descriptors,
		group:        cfg.groupAddr(),
		queue:        make(chan *ssdp.Request, cfg.QueueSize),
		dispatchDone: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.transport == nil {
		t, err := OpenTransport(cfg)
		if err != nil {
			return nil, err
		}
		r.transport = t
	}

	r.state.Store(int32(StateStarting))
	return r, nil
}

// State returns the current lifecycle stage.
func (r *Responder) State() State {
	return State(r.state.Load())
}

// Start launches the receiver, scheduler and dispatcher.
func (r *Responder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.State() != StateStarting {
		return ErrNotStartable
	}

	r.running.Store(true)
	r.state.Store(int32(StateRunning))

	r.workers.Add(2)
	go r.receive()
	go r.schedule()
	go r.dispatch()

	services := 0
	for _, d := range r.descriptors {
		services += len(d.Services)
	}
	logging.Info("Responder started",
		zap.String("group", r.group.String()),
		zap.Int("descriptors", len(r.descriptors)),
		zap.Int("services", services),
		zap.String("transport", fmt.Sprintf("%T", r.transport)),
	)
	return nil
}

// Shutdown stops the goroutines, multicasts the goodbye announcement and
// closes the transport. Only the first call does anything; later calls
// return the first result. If ctx ends while waiting for the goroutines the
// transport is closed without a goodbye.
func (r *Responder) Shutdown(ctx context.Context) error {
	r.shutdownOnce.Do(func() {
		r.shutdownErr = r.shutdown(ctx)
	})
	return r.shutdownErr
}

func (r *Responder) shutdown(ctx context.Context) error {
	r.mu.Lock()
	started := r.State() == StateRunning
	r.state.Store(int32(StateShuttingDown))
	r.running.Store(false)
	r.mu.Unlock()

	logging.Info("Shutting down responder...")

	var waitErr error
	if started {
		waitErr = waitFor(ctx, func() {
			r.workers.Wait()
			<-r.dispatchDone
		})
		if waitErr == nil {
			r.announce(r.cfg.GoodbyeNTS)
		} else {
			logging.Error("Timed out waiting for responder goroutines", zap.Error(waitErr))
		}
	}

	closeErr := r.transport.Close()
	r.state.Store(int32(StateStopped))
	logging.Info("Responder stopped")

	if waitErr != nil {
		return fmt.Errorf("shutdown: %w", waitErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close transport: %w", closeErr)
	}
	return nil
}

// Serve starts the responder, blocks until ctx is done, then shuts down.
func (r *Responder) Serve(ctx context.Context) error {
	if err := r.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	logging.Info("Shutdown signal received, stopping responder...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return r.Shutdown(shutdownCtx)
}

// receive reads datagrams until the running flag clears, then closes the
// queue. It is the only writer to the queue.
func (r *Responder) receive() {
	defer r.workers.Done()
	defer close(r.queue)

	for r.running.Load() {
		ctx, cancel := context.WithTimeout(context.Background(), r.cfg.ReceiveTimeout)
		data, remote, err := r.transport.Receive(ctx)
		cancel()
		if err != nil {
			if transport.IsTimeout(err) || !r.running.Load() {
				continue
			}
			logging.Warn("Receive failed", zap.Error(err))
			r.sleep(r.cfg.PollInterval)
			continue
		}

		req, err := ssdp.ParseRequest(data, remote)
		if err != nil {
			logging.Debug("Dropping malformed datagram",
				zap.Stringer("remote_addr", remote),
				zap.Error(err),
			)
			logging.LogRawBytes("Malformed datagram", data)
			continue
		}
		if req == nil {
			logging.Debug("Ignoring datagram", zap.Stringer("remote_addr", remote), zap.Int("length", len(data)))
			continue
		}

		r.queue <- req
	}
}

// schedule announces ssdp:alive after the settle delay and then once per
// period while running.
func (r *Responder) schedule() {
	defer r.workers.Done()

	if !r.sleep(r.cfg.SettleDelay) {
		return
	}
	for {
		r.announce(ssdp.NTSAlive)
		if !r.sleep(r.cfg.AnnouncePeriod) {
			return
		}
	}
}

// dispatch handles queued requests in order until the queue is closed.
func (r *Responder) dispatch() {
	defer close(r.dispatchDone)

	for req := range r.queue {
		if req.IsSearch() {
			r.respond(req)
			continue
		}
		logging.Debug("Ignoring request",
			zap.Stringer("request", req),
			zap.String("nts", req.Header.Get(ssdp.HeaderNTS)),
		)
	}
}

// respond sends one unicast response per (service, ST value) match.
func (r *Responder) respond(req *ssdp.Request) {
	targets := req.SearchTargets()
	if req.Remote == nil {
		logging.Warn("M-SEARCH without a sender address", zap.Strings("targets", targets))
		return
	}
	if mx, ok := req.MX(); ok {
		logging.Debug("M-SEARCH received", zap.Stringer("remote_addr", req.Remote), zap.Int("mx", mx))
	}

	found := false
	for _, d := range r.descriptors {
		for i, svc := range d.Services {
			fields, err := service.Resolve(d.Params, svc)
			if err != nil {
				logging.Error("Failed to resolve service",
					zap.String("descriptor", d.Name),
					zap.Int("service", i),
					zap.Error(err),
				)
				continue
			}
			st := fields.String(service.FieldSearchTarget)

			for _, target := range targets {
				if !matchesTarget(target, st) {
					continue
				}
				found = true

				payload, err := service.Render(d.Templates.Response, fields)
				if err != nil {
					logging.Error("Failed to render response",
						zap.String("descriptor", d.Name),
						zap.String("st", st),
						zap.Error(err),
					)
					continue
				}

				pkt := transport.Packet{Payload: payload, Source: sourceIP(fields), Dest: req.Remote}
				if err := r.transport.Send(context.Background(), pkt); err != nil {
					logging.Warn("Failed to send response",
						zap.String("descriptor", d.Name),
						zap.String("st", st),
						zap.Stringer("remote_addr", req.Remote),
						zap.Error(err),
					)
				}
			}
		}
	}

	logging.LogSearch(req.Remote.String(), targets, found)
}

// announce multicasts the notify template of every service with nts.
func (r *Responder) announce(nts string) {
	sent, failed := 0, 0
	for _, d := range r.descriptors {
		for i, svc := range d.Services {
			payload, fields, err := d.Notify(svc, nts)
			if err != nil {
				logging.Error("Failed to render announcement",
					zap.String("descriptor", d.Name),
					zap.Int("service", i),
					zap.Error(err),
				)
				failed++
				continue
			}

			pkt := transport.Packet{Payload: payload, Source: sourceIP(fields), Dest: r.group}
			if err := r.transport.Send(context.Background(), pkt); err != nil {
				logging.Warn("Failed to send announcement",
					zap.String("descriptor", d.Name),
					zap.String("nts", nts),
					zap.Error(err),
				)
				failed++
				continue
			}
			sent++
		}
	}
	logging.LogAnnouncement(nts, sent, failed)
}

// sleep waits d in PollInterval steps. It returns false if the responder
// stopped meanwhile.
func (r *Responder) sleep(d time.Duration) bool {
	deadline := time.Now().Add(d)
	for r.running.Load() {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return true
		}
		time.Sleep(min(remaining, r.cfg.PollInterval))
	}
	return false
}

// matchesTarget reports whether a searched target selects a service: generic
// ssdp: targets select everything, anything else must equal st exactly.
func matchesTarget(target, st string) bool {
	return strings.HasPrefix(target, ssdp.GenericTargetPrefix) || target == st
}

func sourceIP(fields *service.Fields) net.IP {
	raw := fields.String(service.FieldSourceIP)
	if raw == "" {
		return nil
	}
	return net.ParseIP(raw).To4()
}

func waitFor(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	go func() {
		fn()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
