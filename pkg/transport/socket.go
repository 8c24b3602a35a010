// Package transport implements the framed octet stream used by both
// service sessions and topic sessions: a net.Conn wrapped with an internal
// byte accumulator and a single-outstanding-read discipline.
package transport

import (
	"context"
	"io"
	"net"
	"sync"
	"time"

	"github.com/valetudo/vendormaster/internal/rpcerr"
)

// Socket is a StreamSocket per the design doc: underlying connection,
// internal byte-accumulator, at-most-one pending read waiter, closed flag.
type Socket struct {
	mu     sync.Mutex
	conn   net.Conn
	acc    []byte
	closed bool
	reader chan struct{} // non-nil while a readExact is outstanding

	readBuf [32 * 1024]byte
}

// Dial opens a TCP connection to host:port within timeout. On failure no
// Socket is constructed.
func Dial(ctx context.Context, host string, port int, timeout time.Duration) (*Socket, error) {
	d := net.Dialer{Timeout: timeout}
	addr := net.JoinHostPort(host, itoa(port))
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, rpcerr.Wrapf(rpcerr.Transport, err, "connect %s", addr)
	}
	return &Socket{conn: conn}, nil
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var b [12]byte
	i := len(b)
	for n > 0 {
		i--
		b[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		b[i] = '-'
	}
	return string(b[i:])
}

// Write sends bytes on the underlying connection. It fails if the socket is
// closed.
func (s *Socket) Write(b []byte) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return rpcerr.New(rpcerr.Transport, "write on closed socket")
	}
	conn := s.conn
	s.mu.Unlock()

	if _, err := conn.Write(b); err != nil {
		return rpcerr.Wrap(rpcerr.Transport, err, "write failed")
	}
	return nil
}

// ReadExact blocks until the accumulator holds at least length bytes,
// returning a copy of the first length bytes and removing them from the
// accumulator. A second ReadExact issued while one is outstanding fails
// with a concurrent-read defect error. length 0 returns an empty slice
// immediately.
func (s *Socket) ReadExact(ctx context.Context, length int, timeout time.Duration) ([]byte, error) {
	if length == 0 {
		return nil, nil
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, rpcerr.New(rpcerr.Transport, "socket closed")
	}
	if s.reader != nil {
		s.mu.Unlock()
		return nil, rpcerr.New(rpcerr.Transport, "concurrent read not supported")
	}
	done := make(chan struct{})
	s.reader = done
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.reader = nil
		s.mu.Unlock()
	}()

	deadline := time.Now().Add(timeout)
	s.conn.SetReadDeadline(deadline)
	defer s.conn.SetReadDeadline(time.Time{})

	result := make(chan readResult, 1)
	go s.fillUntil(length, result)

	select {
	case r := <-result:
		return r.data, r.err
	case <-ctx.Done():
		s.mu.Lock()
		closed := s.closed
		s.mu.Unlock()
		if closed {
			return nil, rpcerr.New(rpcerr.Transport, "socket closed")
		}
		return nil, rpcerr.Wrap(rpcerr.Transport, ctx.Err(), "read cancelled")
	}
}

type readResult struct {
	data []byte
	err  error
}

func (s *Socket) fillUntil(length int, out chan<- readResult) {
	s.mu.Lock()
	if len(s.acc) >= length {
		data := append([]byte(nil), s.acc[:length]...)
		s.acc = s.acc[length:]
		s.mu.Unlock()
		out <- readResult{data: data}
		return
	}
	s.mu.Unlock()

	for {
		n, err := s.conn.Read(s.readBuf[:])
		if n > 0 {
			s.mu.Lock()
			s.acc = append(s.acc, s.readBuf[:n]...)
			if len(s.acc) >= length {
				data := append([]byte(nil), s.acc[:length]...)
				s.acc = s.acc[length:]
				s.mu.Unlock()
				out <- readResult{data: data}
				return
			}
			s.mu.Unlock()
		}
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				out <- readResult{err: rpcerr.Newf(rpcerr.Transport, "read timeout waiting for %d bytes", length)}
				return
			}
			if err == io.EOF {
				out <- readResult{err: rpcerr.New(rpcerr.Transport, "peer closed")}
				return
			}
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if closed {
				out <- readResult{err: rpcerr.New(rpcerr.Transport, "socket closed")}
				return
			}
			out <- readResult{err: rpcerr.Wrap(rpcerr.Transport, err, "read failed")}
			return
		}
	}
}

// Close is idempotent; it destroys the underlying connection and causes any
// outstanding ReadExact to observe a closed-socket error.
func (s *Socket) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	conn := s.conn
	s.mu.Unlock()
	return conn.Close()
}
