package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"
	"github.com/forgetmenot/fmn/common"
	"github.com/forgetmenot/fmn/pkg/fmnlib"
	"github.com/forgetmenot/fmn/pkg/logger"
)

// Custom JSON-RPC error codes for reminder operations.
const (
	codeTaskNotFound  = jrpc2.Code(-32001)
	codeStoreFailure  = jrpc2.Code(-32002)
	codeInvalidParams = jrpc2.Code(-32602)
)

// RPCPath is where the bridge is mounted.
const RPCPath = "/jsonrpc"

// Reminders is the operation set the RPC bridge exposes. It is the same
// one the datagram handlers use.
type Reminders interface {
	AddTask(p *common.AddParams) (*fmnlib.Task, error)
	RemoveTask(id string) error
	ListTasks() []*fmnlib.Task
}

// RPCConfig holds configuration for the JSON-RPC endpoint.
type RPCConfig struct {
	Addr    string
	Secret  string // required; empty means RPC disabled
	Version string
	Commit  string
}

// RPCServer manages the JSON-RPC 2.0 bridge and method handlers.
type RPCServer struct {
	bridge    jhttp.Bridge
	secret    string
	addr      string
	version   string
	commit    string
	reminders Reminders
	log       logger.Logger

	mu      sync.Mutex
	server  *http.Server
	stopped bool
	closed  bool
}

// VersionResult is the response for system.getVersion.
type VersionResult struct {
	Version string `json:"version"`
	Commit  string `json:"commit,omitempty"`
}

// NewRPCServer creates a new RPCServer with method handlers and HTTP bridge.
func NewRPCServer(cfg *RPCConfig, r Reminders, l logger.Logger) *RPCServer {
	rs := &RPCServer{
		secret:    cfg.Secret,
		addr:      cfg.Addr,
		version:   cfg.Version,
		commit:    cfg.Commit,
		reminders: r,
		log:       l,
	}

	methods := handler.Map{
		"system.getVersion": handler.New(rs.systemGetVersion),
		"reminder.add":      handler.New(rs.reminderAdd),
		"reminder.remove":   handler.New(rs.reminderRemove),
		"reminder.list":     handler.New(rs.reminderList),
	}

	rs.bridge = jhttp.NewBridge(methods, nil)
	return rs
}

// Handler returns the authenticated HTTP handler serving the bridge.
func (rs *RPCServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(RPCPath, requireToken(rs.secret, rs.bridge))
	return mux
}

// Start serves the bridge on the configured address until Shutdown. It
// returns at once if Shutdown already ran.
func (rs *RPCServer) Start() error {
	rs.mu.Lock()
	if rs.stopped {
		rs.mu.Unlock()
		return nil
	}
	rs.server = &http.Server{
		Addr:              rs.addr,
		Handler:           rs.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := rs.server
	rs.mu.Unlock()

	rs.log.Info("json-rpc listening on http://%s%s", rs.addr, RPCPath)
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully stops the HTTP server.
func (rs *RPCServer) Shutdown(ctx context.Context) error {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.stopped = true
	if rs.server == nil {
		return nil
	}
	return rs.server.Shutdown(ctx)
}

// Close shuts down the jrpc2 bridge, releasing internal goroutines.
func (rs *RPCServer) Close() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if rs.closed {
		return
	}
	rs.closed = true
	rs.bridge.Close()
}

func (rs *RPCServer) systemGetVersion(_ context.Context) (*VersionResult, error) {
	return &VersionResult{
		Version: rs.version,
		Commit:  rs.commit,
	}, nil
}

func (rs *RPCServer) reminderAdd(_ context.Context, p *common.AddParams) (*common.AddResponse, error) {
	task, err := rs.reminders.AddTask(p)
	if err != nil {
		return nil, rpcError(err)
	}
	return &common.AddResponse{Task: task}, nil
}

func (rs *RPCServer) reminderRemove(_ context.Context, p *common.RemoveParams) (*common.RemoveResponse, error) {
	if p.TaskId == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: task_id"}
	}
	if err := rs.reminders.RemoveTask(p.TaskId); err != nil {
		return nil, rpcError(err)
	}
	return &common.RemoveResponse{TaskId: p.TaskId}, nil
}

func (rs *RPCServer) reminderList(_ context.Context) (*common.ListResponse, error) {
	return &common.ListResponse{Tasks: rs.reminders.ListTasks()}, nil
}

// rpcError maps the fmnlib error taxonomy to JSON-RPC codes.
func rpcError(err error) error {
	switch {
	case errors.Is(err, fmnlib.ErrValidation):
		return &jrpc2.Error{Code: codeInvalidParams, Message: err.Error()}
	case errors.Is(err, fmnlib.ErrNotFound):
		return &jrpc2.Error{Code: codeTaskNotFound, Message: err.Error()}
	default:
		return &jrpc2.Error{Code: codeStoreFailure, Message: err.Error()}
	}
}
