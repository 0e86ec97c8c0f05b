package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/forgetmenot/fmn/common"
	"github.com/forgetmenot/fmn/pkg/logger"
)

// Server answers client datagrams on a UDP socket. Requests are handled
// one at a time in arrival order.
type Server struct {
	log     logger.Logger
	addr    string
	handler map[common.UpdateType]HandlerFunc
	replies *replyCache
	conn    net.PacketConn
	mu      sync.Mutex
}

// NewServer creates a Server that will listen on addr (host:port).
func NewServer(l logger.Logger, addr string) *Server {
	if addr == "" {
		addr = common.DefaultDaemonAddr
	}
	return &Server{
		log:     l,
		addr:    addr,
		handler: make(map[common.UpdateType]HandlerFunc),
		replies: newReplyCache(replyCacheSize),
	}
}

// RegisterHandler associates a handler function with a method.
func (s *Server) RegisterHandler(method common.UpdateType, handler HandlerFunc) {
	s.handler[method] = handler
}

// Listen binds the socket. Start calls it when needed; calling it first
// lets the caller treat a bind failure separately.
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		return nil
	}
	conn, err := net.ListenPacket("udp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	s.conn = conn
	return nil
}

// LocalAddr returns the bound address, or nil before Listen.
func (s *Server) LocalAddr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	return s.conn.LocalAddr()
}

// Start serves datagrams until ctx is cancelled or Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	s.log.Info("listening on udp %s", conn.LocalAddr())

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()

	buf := make([]byte, common.MaxDatagramSize)
	for {
		n, addr, err := conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.log.Warning("server: read: %v", err)
			continue
		}
		reply := s.handle(buf[:n])
		if len(reply) > common.MaxDatagramSize {
			s.log.Warning("server: reply of %d bytes to %s exceeds datagram size", len(reply), addr)
			reply = CreateError("", "reply too large for a datagram")
		}
		if _, err := conn.WriteTo(reply, addr); err != nil {
			s.log.Warning("server: write to %s: %v", addr, err)
		}
	}
}

// Shutdown closes the socket, which ends Start.
func (s *Server) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	if err != nil {
		s.log.Error("server: close: %v", err)
	}
	return err
}

// handle turns one datagram into its encoded reply. It never panics.
func (s *Server) handle(b []byte) []byte {
	req, err := ParseRequest(b)
	if err != nil {
		s.log.Warning("server: dropping malformed request: %v", err)
		return CreateError("", "malformed request: "+err.Error())
	}
	if req.ID != "" {
		if reply, ok := s.replies.get(req.ID); ok {
			s.log.Debug("server: replaying cached reply for %s", req.ID)
			return reply
		}
	}
	rHandler, ok := s.handler[req.Method]
	var reply []byte
	if !ok {
		reply = CreateError(req.ID, "unknown method: "+string(req.Method))
	} else {
		reply = s.call(rHandler, req)
	}
	if req.ID != "" {
		s.replies.add(req.ID, reply)
	}
	return reply
}

func (s *Server) call(h HandlerFunc, req *Request) (reply []byte) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("server: %s handler panicked: %v", req.Method, r)
			reply = CreateError(req.ID, fmt.Sprintf("internal error in %s", req.Method))
		}
	}()
	utype, msg, err := h(req.Message)
	if err != nil {
		return InitError(req.ID, err)
	}
	return MakeResult(req.ID, utype, msg)
}
