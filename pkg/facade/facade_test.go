package facade

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/valetudo/vendormaster/internal/rpcerr"
	"github.com/valetudo/vendormaster/pkg/codec"
)

// fakeServiceNode accepts one connection, echoes the service handshake,
// and answers every subsequent request with respond's output until the
// connection is closed.
type fakeServiceNode struct {
	ln net.Listener
}

func newFakeServiceNode(t *testing.T, respond func(body []byte) (status byte, resp []byte)) *fakeServiceNode {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	n := &fakeServiceNode{ln: ln}
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go n.serve(conn, respond)
		}
	}()
	return n
}

func (n *fakeServiceNode) serve(conn net.Conn, respond func([]byte) (byte, []byte)) {
	defer conn.Close()
	lenBuf := make([]byte, 4)
	if _, err := io.ReadFull(conn, lenBuf); err != nil {
		return
	}
	hsBody := make([]byte, le32(lenBuf))
	if _, err := io.ReadFull(conn, hsBody); err != nil {
		return
	}
	conn.Write(lenBuf)
	conn.Write(hsBody)

	for {
		reqLenBuf := make([]byte, 4)
		if _, err := io.ReadFull(conn, reqLenBuf); err != nil {
			return
		}
		reqBody := make([]byte, le32(reqLenBuf))
		if _, err := io.ReadFull(conn, reqBody); err != nil {
			return
		}
		status, resp := respond(reqBody)
		conn.Write([]byte{status})
		n := uint32(len(resp))
		conn.Write([]byte{byte(n), byte(n >> 8), byte(n >> 16), byte(n >> 24)})
		conn.Write(resp)
	}
}

func (n *fakeServiceNode) port() int { return n.ln.Addr().(*net.TCPAddr).Port }

func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
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

// fakeMaster resolves lookupService for the given serviceName->port table
// and fails every other lookup.
func fakeMaster(t *testing.T, ports map[string]int) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		s := string(body)
		w.Header().Set("Content-Type", "text/xml")
		if !strings.Contains(s, "lookupService") {
			http.Error(w, "unexpected method", http.StatusInternalServerError)
			return
		}
		var matched string
		for name := range ports {
			if strings.Contains(s, name) {
				matched = name
				break
			}
		}
		if matched == "" {
			w.Write([]byte(`<?xml version="1.0"?><methodResponse><params><param><value>
				<array><data>
					<value><int>0</int></value>
					<value><string>no such service</string></value>
					<value><string></string></value>
				</data></array>
			</value></param></params></methodResponse>`))
			return
		}
		w.Write([]byte(`<?xml version="1.0"?><methodResponse><params><param><value>
			<array><data>
				<value><int>1</int></value>
				<value><string></string></value>
				<value><string>rosrpc://127.0.0.1:` + itoaPort(ports[matched]) + `</string></value>
			</data></array>
		</value></param></params></methodResponse>`))
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func newTestFacade(t *testing.T, masterURL string) *Facade {
	cfg := DefaultConfig()
	cfg.MasterURI = masterURL
	cfg.CallTO = time.Second
	cfg.ConnectTO = time.Second
	return New(cfg)
}

func TestGetActiveMapIDFailsWithDomainErrorWhenNoneActive(t *testing.T) {
	mapInfos := newFakeServiceNode(t, func(body []byte) (byte, []byte) {
		reply := codec.MapInfosReply{Entries: []codec.MapInfoEntry{{MapID: 1, IsActive: 0}}}
		return 1, codec.EncodeMapInfosReply(reply)
	})
	defer mapInfos.ln.Close()

	masterURL := fakeMaster(t, map[string]int{SvcMapInfos.Name: mapInfos.port()})
	f := newTestFacade(t, masterURL)
	defer f.Shutdown(context.Background())

	_, err := f.GetActiveMapID(context.Background())
	require.Error(t, err)
	require.True(t, rpcerr.Is(err, rpcerr.Domain))
}

func TestGetActiveMapIDReturnsActiveEntry(t *testing.T) {
	mapInfos := newFakeServiceNode(t, func(body []byte) (byte, []byte) {
		reply := codec.MapInfosReply{Entries: []codec.MapInfoEntry{
			{MapID: 1, IsActive: 0},
			{MapID: 2, IsActive: 1},
		}}
		return 1, codec.EncodeMapInfosReply(reply)
	})
	defer mapInfos.ln.Close()

	masterURL := fakeMaster(t, map[string]int{SvcMapInfos.Name: mapInfos.port()})
	f := newTestFacade(t, masterURL)
	defer f.Shutdown(context.Background())

	id, err := f.GetActiveMapID(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 2, id)
}

func TestListRoomsRetriesOnBufferOverrunFallback(t *testing.T) {
	mapInfos := newFakeServiceNode(t, func(body []byte) (byte, []byte) {
		reply := codec.MapInfosReply{Entries: []codec.MapInfoEntry{{MapID: 7, IsActive: 1}}}
		return 1, codec.EncodeMapInfosReply(reply)
	})
	defer mapInfos.ln.Close()

	attempt := 0
	rooms := newFakeServiceNode(t, func(body []byte) (byte, []byte) {
		attempt++
		if attempt == 1 {
			return 0, []byte("buffer overrun in rooms get")
		}
		reply := codec.EncodeRoomsReply(1, 7, 0, []codec.Room{
			{AreaID: 1, LabelID: 5, Polygon: []codec.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}},
		})
		return 1, reply
	})
	defer rooms.ln.Close()

	masterURL := fakeMaster(t, map[string]int{
		SvcMapInfos.Name:    mapInfos.port(),
		SvcRoomsManage.Name: rooms.port(),
	})
	f := newTestFacade(t, masterURL)
	defer f.Shutdown(context.Background())

	reply, err := f.ListRooms(context.Background())
	require.NoError(t, err)
	require.Len(t, reply.Rooms, 1)
	require.EqualValues(t, 1, reply.Rooms[0].AreaID)
	require.Equal(t, 2, attempt)
}

func TestListRoomsPropagatesNonFallbackError(t *testing.T) {
	mapInfos := newFakeServiceNode(t, func(body []byte) (byte, []byte) {
		reply := codec.MapInfosReply{Entries: []codec.MapInfoEntry{{MapID: 7, IsActive: 1}}}
		return 1, codec.EncodeMapInfosReply(reply)
	})
	defer mapInfos.ln.Close()

	rooms := newFakeServiceNode(t, func(body []byte) (byte, []byte) {
		return 0, []byte("unrelated failure")
	})
	defer rooms.ln.Close()

	masterURL := fakeMaster(t, map[string]int{
		SvcMapInfos.Name:    mapInfos.port(),
		SvcRoomsManage.Name: rooms.port(),
	})
	f := newTestFacade(t, masterURL)
	defer f.Shutdown(context.Background())

	_, err := f.ListRooms(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "unrelated failure")
}
