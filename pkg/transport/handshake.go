package transport

import (
	"context"
	"strings"
	"time"

	"github.com/valetudo/vendormaster/internal/rpcerr"
	"github.com/valetudo/vendormaster/pkg/wire"
)

// Handshake is the length-prefixed block of length-prefixed key=value
// strings exchanged immediately after connect on both service and topic
// sessions. Field order is preserved on encode: some firmware parses the
// preamble positionally rather than by key.
type Handshake struct {
	Fields []KV
}

// KV is one ordered key=value pair of a Handshake.
type KV struct {
	Key   string
	Value string
}

// NewHandshake builds a handshake preserving the given field order.
func NewHandshake(pairs ...KV) Handshake {
	return Handshake{Fields: pairs}
}

// Get returns the value for key, and whether it was present.
func (h Handshake) Get(key string) (string, bool) {
	for _, kv := range h.Fields {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// Encode serialises the handshake as an outer 4-byte length followed by,
// for each pair, a 4-byte field length and "key=value" bytes.
func (h Handshake) Encode() []byte {
	inner := wire.NewWriter(128)
	for _, kv := range h.Fields {
		field := kv.Key + "=" + kv.Value
		inner.PutLengthPrefixed([]byte(field))
	}
	outer := wire.NewWriter(inner.Len() + 4)
	outer.PutLengthPrefixed(inner.Bytes())
	return outer.Bytes()
}

// DecodeHandshake parses the wire form produced by Encode.
func DecodeHandshake(buf []byte) (Handshake, error) {
	c := wire.NewCursor(buf)
	block, err := c.LengthPrefixed()
	if err != nil {
		return Handshake{}, rpcerr.Wrap(rpcerr.ProtocolFraming, err, "malformed handshake outer length")
	}
	inner := wire.NewCursor(block)
	var h Handshake
	for inner.Remaining() > 0 {
		field, err := inner.LengthPrefixed()
		if err != nil {
			return Handshake{}, rpcerr.Wrap(rpcerr.ProtocolFraming, err, "malformed handshake field")
		}
		s := string(field)
		idx := strings.IndexByte(s, '=')
		if idx < 0 {
			return Handshake{}, rpcerr.Newf(rpcerr.ProtocolFraming, "malformed handshake field %q: missing '='", s)
		}
		h.Fields = append(h.Fields, KV{Key: s[:idx], Value: s[idx+1:]})
	}
	return h, nil
}

// SendHandshake writes an encoded handshake to sock and reads back the
// peer's handshake within timeout.
func SendHandshake(ctx context.Context, sock *Socket, h Handshake, timeout time.Duration) (Handshake, error) {
	if err := sock.Write(h.Encode()); err != nil {
		return Handshake{}, err
	}
	lenBytes, err := sock.ReadExact(ctx, 4, timeout)
	if err != nil {
		return Handshake{}, err
	}
	n := uint32(lenBytes[0]) | uint32(lenBytes[1])<<8 | uint32(lenBytes[2])<<16 | uint32(lenBytes[3])<<24
	body, err := sock.ReadExact(ctx, int(n), timeout)
	if err != nil {
		return Handshake{}, err
	}
	full := append(append([]byte(nil), lenBytes...), body...)
	return DecodeHandshake(full)
}

// ServiceHandshake builds the service-session preamble in the required
// field order: callerid, md5sum, persistent, service. The callerid carries
// a trailing apostrophe on the wire (observed firmware behavior, not a
// documented protocol requirement — preserved rather than corrected, per
// spec Open Question (i)).
func ServiceHandshake(callerID, md5sum string, persistent bool, service string) Handshake {
	p := "0"
	if persistent {
		p = "1"
	}
	return NewHandshake(
		KV{"callerid", callerID + "'"},
		KV{"md5sum", md5sum},
		KV{"persistent", p},
		KV{"service", service},
	)
}

// TopicHandshake builds the topic-session preamble in the required field
// order: callerid, topic, type, md5sum, tcp_nodelay.
func TopicHandshake(callerID, topic, msgType, md5sum string) Handshake {
	return NewHandshake(
		KV{"callerid", callerID},
		KV{"topic", topic},
		KV{"type", msgType},
		KV{"md5sum", md5sum},
		KV{"tcp_nodelay", "1"},
	)
}
