package service

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/valetudo/vendormaster/pkg/master"
)

// fakeNode accepts exactly one connection, performs the service handshake
// (echoing it back), then replies to one length-prefixed request with
// respond and closes the connection.
type fakeNode struct {
	ln net.Listener
}

func newFakeNode(t *testing.T) *fakeNode {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	return &fakeNode{ln: ln}
}

func (f *fakeNode) port() int {
	return f.ln.Addr().(*net.TCPAddr).Port
}

func (f *fakeNode) serveOnce(t *testing.T, respond func(body []byte) []byte, failHandshake bool) {
	t.Helper()
	go func() {
		conn, err := f.ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		lenBuf := make([]byte, 4)
		if _, err := readFull(conn, lenBuf); err != nil {
			return
		}
		n := le32(lenBuf)
		hsBody := make([]byte, n)
		if _, err := readFull(conn, hsBody); err != nil {
			return
		}
		if failHandshake {
			return
		}
		// echo the handshake back verbatim
		conn.Write(lenBuf)
		conn.Write(hsBody)

		reqLenBuf := make([]byte, 4)
		if _, err := readFull(conn, reqLenBuf); err != nil {
			return
		}
		reqLen := le32(reqLenBuf)
		reqBody := make([]byte, reqLen)
		if _, err := readFull(conn, reqBody); err != nil {
			return
		}
		respBody := respond(reqBody)
		conn.Write([]byte{1}) // status ok
		respLen := uint32(len(respBody))
		conn.Write([]byte{byte(respLen), byte(respLen >> 8), byte(respLen >> 16), byte(respLen >> 24)})
		conn.Write(respBody)
	}()
}

func readFull(conn net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func fakeMasterFor(t *testing.T, port int) *master.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/xml")
		resp := `<?xml version="1.0"?><methodResponse><params><param><value>
			<array><data>
				<value><int>1</int></value>
				<value><string></string></value>
				<value><string>rosrpc://127.0.0.1:` + itoaPort(port) + `</string></value>
			</data></array>
		</value></param></params></methodResponse>`
		w.Write([]byte(resp))
	}))
	t.Cleanup(srv.Close)
	return master.NewClient(srv.URL, time.Second)
}

func itoaPort(p int) string {
	if p == 0 {
		return "0"
	}
	var b [6]byte
	i := len(b)
	for p > 0 {
		i--
		b[i] = byte('0' + p%10)
		p /= 10
	}
	return string(b[i:])
}

func TestDispatcherCallEphemeralRoundTrip(t *testing.T) {
	node := newFakeNode(t)
	node.serveOnce(t, func(body []byte) []byte {
		return append([]byte("echo:"), body...)
	}, false)

	mc := fakeMasterFor(t, node.port())
	desc := Descriptor{Name: "/vacuum/get_compressed_map", MD5: "deadbeef", Persistent: false}
	d := NewDispatcher(desc, mc, DefaultConfig())
	defer d.Shutdown()

	resp, err := d.Call(context.Background(), []byte("hello"))
	require.NoError(t, err)
	require.Equal(t, "echo:hello", string(resp))
}

func TestDispatcherCallPersistentRoundTrip(t *testing.T) {
	node := newFakeNode(t)
	calls := make(chan []byte, 2)
	var n int
	node.serveOnce(t, func(body []byte) []byte {
		n++
		calls <- body
		return []byte{byte(n)}
	}, false)

	mc := fakeMasterFor(t, node.port())
	desc := Descriptor{Name: "/vacuum/get_compressed_map", MD5: "deadbeef", Persistent: true}
	d := NewDispatcher(desc, mc, DefaultConfig())
	defer d.Shutdown()

	resp, err := d.Call(context.Background(), []byte("first"))
	require.NoError(t, err)
	require.Equal(t, []byte{1}, resp)
}

func TestDispatcherServiceLevelErrorNotRetried(t *testing.T) {
	node := newFakeNode(t)
	go func() {
		conn, err := node.ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		lenBuf := make([]byte, 4)
		readFull(conn, lenBuf)
		hsBody := make([]byte, le32(lenBuf))
		readFull(conn, hsBody)
		conn.Write(lenBuf)
		conn.Write(hsBody)

		reqLenBuf := make([]byte, 4)
		readFull(conn, reqLenBuf)
		reqBody := make([]byte, le32(reqLenBuf))
		readFull(conn, reqBody)

		conn.Write([]byte{0}) // status: application-level failure
		msg := []byte("bad request")
		msgLen := uint32(len(msg))
		conn.Write([]byte{byte(msgLen), byte(msgLen >> 8), byte(msgLen >> 16), byte(msgLen >> 24)})
		conn.Write(msg)
	}()

	mc := fakeMasterFor(t, node.port())
	desc := Descriptor{Name: "/vacuum/get_compressed_map", MD5: "deadbeef", Persistent: false}
	d := NewDispatcher(desc, mc, DefaultConfig())
	defer d.Shutdown()

	_, err := d.Call(context.Background(), []byte("x"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "bad request")
}

func TestDispatcherShutdownUnblocksPendingCalls(t *testing.T) {
	mc := fakeMasterFor(t, 1) // nothing listens on port 1; open() will hang/fail
	desc := Descriptor{Name: "/vacuum/get_compressed_map", MD5: "deadbeef", Persistent: false}
	cfg := DefaultConfig()
	cfg.ConnectTO = 2 * time.Second
	d := NewDispatcher(desc, mc, cfg)

	d.Shutdown()
	_, err := d.Call(context.Background(), []byte("x"))
	require.Error(t, err)
}
