package master

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRosrpcURI(t *testing.T) {
	ep, err := ParseRosrpcURI("rosrpc://localhost:41234")
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1", ep.Host)
	require.Equal(t, 41234, ep.Port)
	require.Equal(t, "rosrpc", ep.Scheme)
}

func TestParseRosrpcURIMissingScheme(t *testing.T) {
	_, err := ParseRosrpcURI("http://127.0.0.1:11311")
	require.Error(t, err)
}

func TestParseRosrpcURIMissingPort(t *testing.T) {
	_, err := ParseRosrpcURI("rosrpc://hostwithoutport")
	require.Error(t, err)
}

func TestParseRosrpcURINonNumericPort(t *testing.T) {
	_, err := ParseRosrpcURI("rosrpc://host:notaport")
	require.Error(t, err)
}

func TestNormalizeLocalhost(t *testing.T) {
	require.Equal(t, "http://127.0.0.1:11311", NormalizeLocalhost("http://localhost:11311"))
	require.Equal(t, "192.168.1.5", NormalizeLocalhost("192.168.1.5"))
}
