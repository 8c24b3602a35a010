package master

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildMethodCallEscapesAndShapes(t *testing.T) {
	body := buildMethodCall("lookupService", []Value{StringValue("/probe"), StringValue("<svc>&name")})
	s := string(body)
	require.Contains(t, s, "<methodName>lookupService</methodName>")
	require.Contains(t, s, "&lt;svc&gt;&amp;name")
}

func TestParseMethodResponseArray(t *testing.T) {
	doc := []byte(`<?xml version="1.0"?><methodResponse><params><param><value>
		<array><data>
			<value><int>1</int></value>
			<value><string>ok</string></value>
			<value><string>rosrpc://localhost:1234</string></value>
		</data></array>
	</value></param></params></methodResponse>`)
	v, err := parseMethodResponse(doc)
	require.NoError(t, err)
	require.Equal(t, KindArray, v.Kind)
	require.Len(t, v.Array, 3)
	require.Equal(t, "rosrpc://localhost:1234", v.Array[2].Str)
}

func TestParseMethodResponseFault(t *testing.T) {
	doc := []byte(`<?xml version="1.0"?><methodResponse><fault><value>
		<struct>
			<member><name>faultCode</name><value><int>1</int></value></member>
			<member><name>faultString</name><value><string>boom</string></value></member>
		</struct>
	</value></fault></methodResponse>`)
	_, err := parseMethodResponse(doc)
	require.Error(t, err)
	require.Contains(t, err.Error(), "master fault")
}

func TestParseMethodResponseMalformedXML(t *testing.T) {
	_, err := parseMethodResponse([]byte("not xml at all"))
	require.Error(t, err)
}

func TestParseMethodResponseMissingParam(t *testing.T) {
	doc := []byte(`<?xml version="1.0"?><methodResponse><params></params></methodResponse>`)
	_, err := parseMethodResponse(doc)
	require.Error(t, err)
}

func TestConvertValueBoolAndDouble(t *testing.T) {
	doc := []byte(`<?xml version="1.0"?><methodResponse><params><param><value>
		<array><data>
			<value><boolean>1</boolean></value>
			<value><double>3.5</double></value>
		</data></array>
	</value></param></params></methodResponse>`)
	v, err := parseMethodResponse(doc)
	require.NoError(t, err)
	require.True(t, v.Array[0].Bool)
	require.InDelta(t, 3.5, v.Array[1].Double, 0.0001)
}
