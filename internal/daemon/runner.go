// Package daemon wires the task store, scheduler, notification dispatcher
// and command listener of the fmn daemon and manages their lifecycle.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/forgetmenot/fmn/internal/api"
	"github.com/forgetmenot/fmn/internal/config"
	"github.com/forgetmenot/fmn/internal/notify"
	"github.com/forgetmenot/fmn/internal/scheduler"
	"github.com/forgetmenot/fmn/internal/server"
	"github.com/forgetmenot/fmn/pkg/fmnlib"
	"github.com/forgetmenot/fmn/pkg/logger"
	"github.com/jonboulle/clockwork"
)

// Sentinel errors for the daemon runner.
var (
	// ErrAlreadyRunning is returned when Start() is called on a running daemon.
	ErrAlreadyRunning = errors.New("daemon is already running")

	// ErrNotRunning is returned when Shutdown() is called on a stopped daemon.
	ErrNotRunning = errors.New("daemon is not running")

	// ErrShutdownTimeout is returned when shutdown exceeds the configured timeout.
	ErrShutdownTimeout = errors.New("shutdown timed out")

	// ErrBind is returned when the listen address cannot be bound.
	ErrBind = errors.New("cannot bind listen address")
)

const defaultShutdownTimeout = 10 * time.Second

// Dependencies holds the collaborators of the runner. Nil fields get the
// production implementation.
type Dependencies struct {
	Logger     logger.Logger
	Dispatcher scheduler.Dispatcher
	Clock      clockwork.Clock

	Version string
	Commit  string

	// ShutdownTimeout bounds Shutdown. Zero means 10s.
	ShutdownTimeout time.Duration
}

// Runner manages the daemon lifecycle.
type Runner struct {
	cfg  *config.Config
	deps *Dependencies

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
	srv     *server.Server
}

// New creates a runner. A nil cfg uses config.DefaultConfig.
func New(cfg *config.Config, deps *Dependencies) *Runner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if deps == nil {
		deps = &Dependencies{}
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNopLogger()
	}
	if deps.Dispatcher == nil {
		deps.Dispatcher = notify.NewDesktop(deps.Logger, &notify.Options{Timeout: cfg.NotifyTimeout})
	}
	if deps.ShutdownTimeout <= 0 {
		deps.ShutdownTimeout = defaultShutdownTimeout
	}
	return &Runner{cfg: cfg, deps: deps}
}

// Addr returns the bound UDP address while running.
func (r *Runner) Addr() net.Addr {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.srv == nil {
		return nil
	}
	return r.srv.LocalAddr()
}

// IsRunning returns true if the daemon is currently running.
func (r *Runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Start opens the store, binds the listener and serves until ctx is
// cancelled or Shutdown is called. An unusable store degrades to memory;
// a bind failure is returned wrapped in ErrBind.
func (r *Runner) Start(ctx context.Context) error {
	l := r.deps.Logger
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return ErrAlreadyRunning
	}

	store, err := fmnlib.OpenStore(r.cfg.StorePath, l)
	if err != nil {
		l.Warning("task store %s unusable, reminders will not survive a restart: %v", r.cfg.StorePath, err)
	}
	sched := scheduler.New(store, r.deps.Dispatcher, l, &scheduler.Options{
		Clock:           r.deps.Clock,
		DispatchTimeout: r.cfg.NotifyTimeout,
	})
	a := api.NewApi(l, sched, api.Defaults{
		SoundPath: r.cfg.SoundPath,
		ImagePath: r.cfg.ImagePath,
	})
	srv := server.NewServer(l, r.cfg.Addr)
	a.RegisterHandlers(srv)
	if err := srv.Listen(); err != nil {
		r.mu.Unlock()
		_ = store.Close()
		return fmt.Errorf("%w: %v", ErrBind, err)
	}

	var rpc *server.RPCServer
	if r.cfg.RPCEnabled() {
		rpc = server.NewRPCServer(&server.RPCConfig{
			Addr:    r.cfg.RPCAddr,
			Secret:  r.cfg.RPCSecret,
			Version: r.deps.Version,
			Commit:  r.deps.Commit,
		}, a, l)
	}

	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})
	r.srv = srv
	r.running = true
	done := r.done
	r.mu.Unlock()

	l.Info("daemon started with %d pending reminders", len(sched.Tasks()))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := srv.Start(ctx); err != nil {
			l.Error("listener stopped: %v", err)
		}
	}()
	go func() {
		defer wg.Done()
		_ = sched.Run(ctx)
	}()
	if rpc != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := rpc.Start(); err != nil {
				l.Error("json-rpc bridge stopped: %v", err)
			}
		}()
	}

	<-ctx.Done()
	l.Info("daemon shutting down")
	_ = srv.Shutdown()
	if rpc != nil {
		sctx, cancel := context.WithTimeout(context.Background(), r.deps.ShutdownTimeout)
		if err := rpc.Shutdown(sctx); err != nil {
			l.Warning("json-rpc shutdown: %v", err)
		}
		cancel()
		rpc.Close()
	}
	wg.Wait()
	if err := store.Close(); err != nil {
		l.Error("close task store: %v", err)
	}

	r.mu.Lock()
	r.running = false
	r.srv = nil
	r.mu.Unlock()
	close(done)
	return nil
}

// Shutdown stops a running daemon and waits for Start to return.
func (r *Runner) Shutdown() error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return ErrNotRunning
	}
	cancel, done := r.cancel, r.done
	r.mu.Unlock()

	cancel()
	select {
	case <-done:
		return nil
	case <-time.After(r.deps.ShutdownTimeout):
		return ErrShutdownTimeout
	}
}
