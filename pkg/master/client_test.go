package master

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fakeMaster(t *testing.T, response string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.Contains(t, string(body), "<methodCall>")
		w.Header().Set("Content-Type", "text/xml")
		w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientLookupService(t *testing.T) {
	srv := fakeMaster(t, `<?xml version="1.0"?><methodResponse><params><param><value>
		<array><data>
			<value><int>1</int></value>
			<value><string></string></value>
			<value><string>rosrpc://localhost:5555</string></value>
		</data></array>
	</value></param></params></methodResponse>`)

	c := NewClient(srv.URL, time.Second)
	ep, err := c.LookupService(context.Background(), "/probe", "/vacuum/get_compressed_map")
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1", ep.Host)
	require.Equal(t, 5555, ep.Port)
}

func TestClientLookupServiceMasterFailureStatus(t *testing.T) {
	srv := fakeMaster(t, `<?xml version="1.0"?><methodResponse><params><param><value>
		<array><data>
			<value><int>0</int></value>
			<value><string>no such service</string></value>
			<value><string></string></value>
		</data></array>
	</value></param></params></methodResponse>`)

	c := NewClient(srv.URL, time.Second)
	_, err := c.LookupService(context.Background(), "/probe", "/vacuum/nope")
	require.Error(t, err)
	require.Contains(t, err.Error(), "no such service")
}

func TestClientRequestTopic(t *testing.T) {
	srv := fakeMaster(t, `<?xml version="1.0"?><methodResponse><params><param><value>
		<array><data>
			<value><int>1</int></value>
			<value><string></string></value>
			<value><array><data>
				<value><string>TCPROS</string></value>
				<value><string>localhost</string></value>
				<value><int>6789</int></value>
			</data></array></value>
		</data></array>
	</value></param></params></methodResponse>`)

	c := NewClient(srv.URL, time.Second)
	ep, err := c.RequestTopic(context.Background(), "/probe", srv.URL, "/vacuum/battery")
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1", ep.Host)
	require.Equal(t, 6789, ep.Port)
	require.Equal(t, "tcpros", ep.Scheme)
}

func TestClientRequestTopicRejectsNonTCPROS(t *testing.T) {
	srv := fakeMaster(t, `<?xml version="1.0"?><methodResponse><params><param><value>
		<array><data>
			<value><int>1</int></value>
			<value><string></string></value>
			<value><array><data>
				<value><string>UDPROS</string></value>
				<value><string>localhost</string></value>
				<value><int>6789</int></value>
			</data></array></value>
		</data></array>
	</value></param></params></methodResponse>`)

	c := NewClient(srv.URL, time.Second)
	_, err := c.RequestTopic(context.Background(), "/probe", srv.URL, "/vacuum/battery")
	require.Error(t, err)
}

func TestClientCallTimesOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		w.Write([]byte(`<?xml version="1.0"?><methodResponse><params><param><value><int>1</int></value></param></params></methodResponse>`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, 5*time.Millisecond)
	_, err := c.LookupNode(context.Background(), "/probe", "/somenode")
	require.Error(t, err)
}

func TestClientRegisterSubscriber(t *testing.T) {
	srv := fakeMaster(t, `<?xml version="1.0"?><methodResponse><params><param><value>
		<array><data>
			<value><int>1</int></value>
			<value><string></string></value>
			<value><array><data>
				<value><string>http://127.0.0.1:9999/</string></value>
			</data></array></value>
		</data></array>
	</value></param></params></methodResponse>`)

	c := NewClient(srv.URL, time.Second)
	nodes, err := c.RegisterSubscriber(context.Background(), "/probe", "/vacuum/battery", "Battery")
	require.NoError(t, err)
	require.Equal(t, []string{"http://127.0.0.1:9999/"}, nodes)
}
