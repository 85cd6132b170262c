package spawn

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/shinji-kodama/sim-spawner/internal/model"
)

// servicePollInterval is the delay between connection probes while
// waiting for the spawn service to become available.
const servicePollInterval = 200 * time.Millisecond

// Client talks to the simulator's spawn service.
//
// Each call opens its own TCP connection — the service treats a
// connection as a single request/response exchange, and per-call
// connections keep the client free of connection state between the
// sequential spawns of a batch.
type Client struct {
	// addr is the host:port of the spawn service.
	addr string

	// dialTimeout bounds a single connection attempt.
	dialTimeout time.Duration

	// callTimeout bounds a full request/response exchange, applied as a
	// deadline on the connection.
	callTimeout time.Duration
}

// NewClient creates a spawn-service client for the given address.
// Zero timeouts fall back to conservative defaults.
func NewClient(addr string, dialTimeout, callTimeout time.Duration) *Client {
	if dialTimeout <= 0 {
		dialTimeout = 5 * time.Second
	}
	if callTimeout <= 0 {
		callTimeout = 10 * time.Second
	}
	return &Client{
		addr:        addr,
		dialTimeout: dialTimeout,
		callTimeout: callTimeout,
	}
}

// Addr returns the service address this client talks to.
func (c *Client) Addr() string {
	return c.addr
}

// WaitForService blocks until the spawn service accepts a TCP connection
// or the timeout elapses. It probes by dialing and immediately closing,
// so a successful wait does not consume a request slot on the service.
//
// Returns a model.CLIError with ExitSimUnreachable on timeout, because an
// unavailable service aborts the whole batch rather than a single model.
func (c *Client) WaitForService(ctx context.Context, timeout time.Duration) error {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	dialer := &net.Dialer{Timeout: c.dialTimeout}
	for {
		conn, err := dialer.DialContext(waitCtx, "tcp", c.addr)
		if err == nil {
			conn.Close()
			return nil
		}

		select {
		case <-waitCtx.Done():
			return model.WrapCLIError(model.ExitSimUnreachable,
				fmt.Sprintf("spawn service at %s not available within %s", c.addr, timeout),
				err)
		case <-time.After(servicePollInterval):
		}
	}
}

// call performs one request/response exchange on a fresh connection.
// The connection deadline is the earlier of the call timeout and the
// context deadline, so both mechanisms bound the exchange.
func (c *Client) call(ctx context.Context, req *Request) (*Response, error) {
	dialer := &net.Dialer{Timeout: c.dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return nil, fmt.Errorf("connect to spawn service at %s: %w", c.addr, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(c.callTimeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	if err := writeFrame(conn, req); err != nil {
		return nil, err
	}
	return readFrame(conn)
}

// Spawn issues a spawn_model call. A transport failure is returned as an
// error; a service-side refusal comes back as a Response with
// Success=false and is NOT an error — the caller decides how to report it
// (the batch runner logs and continues).
func (c *Client) Spawn(ctx context.Context, req *Request) (*Response, error) {
	if req.Type == "" {
		req.Type = TypeSpawn
	}
	return c.call(ctx, req)
}

// Delete issues a delete_model call for the given unique name.
func (c *Client) Delete(ctx context.Context, name, world string) (*Response, error) {
	return c.call(ctx, &Request{
		Type:  TypeDelete,
		Name:  name,
		World: world,
	})
}

// ListModels returns the unique names of all models in the world.
// Unlike Spawn, a Success=false response is an error here because there
// is no per-model batch to continue.
func (c *Client) ListModels(ctx context.Context, world string) ([]string, error) {
	resp, err := c.call(ctx, &Request{
		Type:  TypeList,
		World: world,
	})
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("list models: %s", resp.StatusMessage)
	}
	return resp.Models, nil
}
