// Package fmncli is the datagram client of the fmn daemon.
package fmncli

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/forgetmenot/fmn/common"
	"github.com/google/uuid"
)

// ErrNoReply is returned when no attempt got an answer from the daemon.
var ErrNoReply = errors.New("no reply from daemon")

const (
	DefaultTimeout = 2 * time.Second
	DefaultRetries = 2
)

// Options configures a Client. Zero fields take the defaults; an empty Addr
// falls back to FMN_DAEMON_ADDR, then localhost:8082.
type Options struct {
	Addr    string
	Timeout time.Duration
	Retries int
}

// Client sends one request at a time and waits for the matching reply.
type Client struct {
	mu      sync.Mutex
	conn    net.Conn
	timeout time.Duration
	retries int
	buf     []byte
}

func NewClient(opts *Options) (*Client, error) {
	if opts == nil {
		opts = &Options{}
	}
	addr := opts.Addr
	if addr == "" {
		addr = os.Getenv(common.DaemonAddrEnv)
	}
	if addr == "" {
		addr = common.DefaultDaemonAddr
	}
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("error connecting to daemon: %w", err)
	}
	c := &Client{
		conn:    conn,
		timeout: opts.Timeout,
		retries: opts.Retries,
		buf:     make([]byte, common.MaxDatagramSize),
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.retries < 0 {
		c.retries = 0
	}
	return c, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// invoke sends the request up to 1+retries times under one request id, so
// the daemon applies it at most once.
func (c *Client) invoke(method common.UpdateType, message any) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := uuid.NewString()
	buf, err := json.Marshal(&Request{
		ID:      id,
		Method:  method,
		Message: message,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %w", method, err)
	}
	if len(buf) > common.MaxDatagramSize {
		return nil, fmt.Errorf("failed to invoke %s: request of %d bytes is too large", method, len(buf))
	}

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if _, err := c.conn.Write(buf); err != nil {
			lastErr = err
			continue
		}
		res, err := c.await(id)
		if err != nil {
			lastErr = err
			continue
		}
		if !res.Ok {
			return nil, errors.New(res.Error)
		}
		if res.Update == nil {
			return nil, fmt.Errorf("failed to read %s: empty reply", method)
		}
		return res.Update.Message, nil
	}
	return nil, fmt.Errorf("%w to %s after %d attempts: %v", ErrNoReply, method, c.retries+1, lastErr)
}

// await reads until a reply for id arrives or the per-attempt deadline
// passes. Replies to earlier requests are skipped.
func (c *Client) await(id string) (*Response, error) {
	if err := c.conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
		return nil, err
	}
	for {
		n, err := c.conn.Read(c.buf)
		if err != nil {
			return nil, err
		}
		var res Response
		if err := json.Unmarshal(c.buf[:n], &res); err != nil {
			continue
		}
		if res.ID != "" && res.ID != id {
			continue
		}
		return &res, nil
	}
}
