package master

import (
	"strconv"
	"strings"

	"github.com/valetudo/vendormaster/internal/rpcerr"
)

// Endpoint is a MasterEndpoint: the resolved address of a service or topic
// publisher after a master or node lookup.
type Endpoint struct {
	Host   string
	Port   int
	Scheme string
}

// NormalizeLocalhost rewrites any literal "localhost" occurrence in a URI
// or bare host to the IPv4 loopback literal. The firmware's nodes bind
// IPv4 only; dual-stack resolution of "localhost" otherwise races the IPv6
// address and intermittently fails to connect.
func NormalizeLocalhost(s string) string {
	return strings.ReplaceAll(s, "localhost", "127.0.0.1")
}

// ParseRosrpcURI parses a "rosrpc://host:port" URI as returned by
// lookupService, applying loopback normalization to the host.
func ParseRosrpcURI(uri string) (Endpoint, error) {
	const prefix = "rosrpc://"
	if !strings.HasPrefix(uri, prefix) {
		return Endpoint{}, rpcerr.Newf(rpcerr.ProtocolFraming, "not a rosrpc URI: %q", uri)
	}
	hostport := NormalizeLocalhost(strings.TrimPrefix(uri, prefix))
	idx := strings.LastIndexByte(hostport, ':')
	if idx < 0 {
		return Endpoint{}, rpcerr.Newf(rpcerr.ProtocolFraming, "rosrpc URI missing port: %q", uri)
	}
	port, err := strconv.Atoi(hostport[idx+1:])
	if err != nil {
		return Endpoint{}, rpcerr.Newf(rpcerr.ProtocolFraming, "rosrpc URI has non-numeric port: %q", uri)
	}
	return Endpoint{Host: hostport[:idx], Port: port, Scheme: "rosrpc"}, nil
}
