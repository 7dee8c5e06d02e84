// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

package vnc

import (
	"context"
	"net"
	"strings"
)

// defaultPort is used by Connect when addr carries no port of its own.
const defaultPort = "5900"

// defaultFPS is the automatic update-request pacing rate used when
// AutoRequestUpdates is enabled without an explicit WithFPS.
const defaultFPS = 10

// ResultCode classifies why a connection attempt or the receive loop
// stopped. The integer values are the wire-level result codes crossing the
// host event contract, so they must not be reordered.
type ResultCode int

const (
	// ResultOk means no failure has been recorded.
	ResultOk ResultCode = iota

	// ResultOutOfMemory means an allocation failed while setting up the
	// connection.
	ResultOutOfMemory

	// ResultCouldNotCreateSocket means the transport socket could not be
	// created.
	ResultCouldNotCreateSocket

	// ResultCouldNotConnect means dialing the server failed.
	ResultCouldNotConnect

	// ResultServerDisconnect means the server closed the stream (or the
	// local side closed it, making the next read fail the same way).
	ResultServerDisconnect

	// ResultUnsupportedSecurityProtocols means the server offered no
	// security type this client supports.
	ResultUnsupportedSecurityProtocols

	// ResultSecurityHandshakeFailed means the server reported a non-zero
	// SecurityResult after type selection.
	ResultSecurityHandshakeFailed

	// ResultUnimplemented means the loop stopped on a protocol element this
	// core has no decoder for: an unknown server message type, an unknown
	// encoding tag, or a malformed length.
	ResultUnimplemented
)

// String returns a human-readable name for the result code.
func (r ResultCode) String() string {
	switch r {
	case ResultOk:
		return "ok"
	case ResultOutOfMemory:
		return "out of memory"
	case ResultCouldNotCreateSocket:
		return "could not create socket"
	case ResultCouldNotConnect:
		return "could not connect"
	case ResultServerDisconnect:
		return "server disconnect"
	case ResultUnsupportedSecurityProtocols:
		return "unsupported security protocols"
	case ResultSecurityHandshakeFailed:
		return "security handshake failed"
	case ResultUnimplemented:
		return "unimplemented"
	default:
		return "unknown"
	}
}

// Result is delivered exactly once on a connection's shutdown channel (see
// WithShutdownChannel) when the receive loop stops.
type Result struct {
	Code ResultCode
	Err  error
}

// shutdownResultFor maps a receive-loop error onto the shutdown Result the
// host sees. Protocol violations (unknown encodings, malformed lengths)
// report ResultUnimplemented; everything else, including a short read from
// a peer close and any transport error, reports ResultServerDisconnect.
func shutdownResultFor(err error) Result {
	if IsVNCError(err, ErrUnsupported, ErrProtocol, ErrValidation) {
		return Result{Code: ResultUnimplemented, Err: err}
	}
	return Result{Code: ResultServerDisconnect, Err: err}
}

// publishResult sends r on the shutdown channel, if one is configured,
// exactly once per connection, without blocking if nobody is receiving.
func (c *ClientConn) publishResult(r Result) {
	c.shutdownOnce.Do(func() {
		if c.shutdownCh == nil {
			return
		}
		select {
		case c.shutdownCh <- r:
		default:
		}
	})
}

// Wait blocks until the connection's receive loop has stopped and returns
// the Result it published. If ctx is done first, the returned Result
// carries ctx's error with Code ResultOk, since no shutdown has actually
// been observed. Wait only returns a meaningful Result if the connection
// was configured with WithShutdownChannel; otherwise it blocks until ctx
// is done.
func (c *ClientConn) Wait(ctx context.Context) Result {
	if c.shutdownCh == nil {
		<-ctx.Done()
		return Result{Code: ResultOk, Err: ctx.Err()}
	}
	select {
	case r := <-c.shutdownCh:
		return r
	case <-ctx.Done():
		return Result{Code: ResultOk, Err: ctx.Err()}
	}
}

// Connect dials network/addr (TCP by convention, as "tcp") and brings up a
// fully running connection: handshake, SetEncodings advertising the default
// encoding list, and the initial non-incremental full-screen
// FramebufferUpdateRequest that kicks off the first server update. The
// receive loop then re-arms an incremental request after each update,
// paced to the configured FPS (WithFPS; pass WithAutoRequestUpdates(false)
// to drive the update cycle manually instead). addr may omit its port, in
// which case defaultPort (5900) is used.
//
// Callers who already own a net.Conn, or who want the bare post-handshake
// state with no messages sent, use ClientWithContext/ClientWithOptions.
func Connect(ctx context.Context, network, addr string, opts ...ClientOption) (*ClientConn, error) {
	addr = withDefaultPort(addr)

	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, networkError("Connect", "failed to dial "+addr, err)
	}

	// Self-driving updates are the default on this path; a caller's own
	// WithAutoRequestUpdates(false) is applied after and wins.
	opts = append([]ClientOption{WithAutoRequestUpdates(true)}, opts...)

	client, err := ClientWithOptions(ctx, conn, opts...)
	if err != nil {
		conn.Close()
		return nil, err
	}

	if err := client.SetEncodings(DefaultEncodings()); err != nil {
		client.Close()
		return nil, err
	}

	width, height := client.GetFrameBufferSize()
	if err := client.FramebufferUpdateRequest(false, 0, 0, width, height); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}

// withDefaultPort appends defaultPort to addr if it doesn't already name a
// port, leaving bracketed IPv6 literals and explicit ports untouched.
func withDefaultPort(addr string) string {
	if _, _, err := net.SplitHostPort(addr); err == nil {
		return addr
	}
	// SplitHostPort failed; addr is either bare host or malformed. Only
	// append a port when addr doesn't already look like "host:port".
	if strings.Contains(addr, ":") && !strings.HasPrefix(addr, "[") {
		return addr
	}
	return net.JoinHostPort(addr, defaultPort)
}
