// Package master implements a minimal XML-RPC client carrying the four (and
// a fifth, conditional) call shapes this library needs against a ROS-style
// master and node slave APIs, grounded on the teacher's
// resolveAgainstMountTable / mount.go call-and-finish shape generalized
// from the teacher's RPC wire format to XML-RPC, the vendor's actual
// contract.
package master

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/valetudo/vendormaster/internal/rlog"
	"github.com/valetudo/vendormaster/internal/rpcerr"
)

// DefaultMasterURI is the fixed fallback master address (§6.4).
const DefaultMasterURI = "http://127.0.0.1:11311"

// DefaultCallerID is the fixed fallback caller id, bare (no trailing
// apostrophe): the XML-RPC params built here (lookupService, lookupNode,
// registerSubscriber, ...) carry it as-is. Only the service handshake's
// callerid field appends the apostrophe — see
// transport.ServiceHandshake.
const DefaultCallerID = "/ROSNODE"

// Client is the Master RPC client.
type Client struct {
	uri        string
	httpClient *http.Client
	callTO     time.Duration
}

// NewClient builds a Client against masterURI (already loopback-normalised
// by the caller if needed) with the given per-call timeout.
func NewClient(masterURI string, callTimeout time.Duration) *Client {
	return &Client{
		uri:        masterURI,
		httpClient: &http.Client{},
		callTO:     callTimeout,
	}
}

func (c *Client) call(ctx context.Context, targetURI, method string, params []Value) (Value, error) {
	return doCall(ctx, c.httpClient, targetURI, method, params, c.callTO)
}

func doCall(ctx context.Context, hc *http.Client, targetURI, method string, params []Value, timeout time.Duration) (Value, error) {
	body := buildMethodCall(method, params)
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(cctx, http.MethodPost, targetURI, bytes.NewReader(body))
	if err != nil {
		return Value{}, rpcerr.Wrapf(rpcerr.ProtocolFraming, err, "building request for %s", method)
	}
	req.Header.Set("Content-Type", "text/xml")
	req.Header.Set("Content-Length", strconv.Itoa(len(body)))

	rlog.V(2).Infof("master call %s -> %s", method, targetURI)
	resp, err := hc.Do(req)
	if err != nil {
		if cctx.Err() != nil {
			return Value{}, rpcerr.Newf(rpcerr.Transport, "timeout calling %s", method)
		}
		return Value{}, rpcerr.Wrapf(rpcerr.Transport, err, "calling %s", method)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Value{}, rpcerr.Wrapf(rpcerr.Transport, err, "reading response for %s", method)
	}
	return parseMethodResponse(respBody)
}

// callMaster3 performs a call expecting the master's standard three-element
// [status, text, payload] response shape, returning the payload only when
// status == 1.
func callMaster3(ctx context.Context, hc *http.Client, targetURI, method string, params []Value, timeout time.Duration) (Value, error) {
	v, err := doCall(ctx, hc, targetURI, method, params, timeout)
	if err != nil {
		return Value{}, err
	}
	if v.Kind != KindArray || len(v.Array) != 3 {
		return Value{}, rpcerr.Newf(rpcerr.ProtocolFraming, "%s: expected 3-element response array", method)
	}
	status, text, payload := v.Array[0], v.Array[1], v.Array[2]
	if status.Kind != KindInt || status.Int != 1 {
		return Value{}, rpcerr.Newf(rpcerr.Resolution, "%s failed: status=%v text=%q", method, status.Int, text.Str)
	}
	return payload, nil
}

// LookupService resolves a service name to its rosrpc://host:port
// endpoint.
func (c *Client) LookupService(ctx context.Context, callerID, serviceName string) (Endpoint, error) {
	payload, err := callMaster3(ctx, c.httpClient, c.uri, "lookupService",
		[]Value{StringValue(callerID), StringValue(serviceName)}, c.callTO)
	if err != nil {
		return Endpoint{}, err
	}
	if payload.Kind != KindString {
		return Endpoint{}, rpcerr.New(rpcerr.ProtocolFraming, "lookupService: payload not a string")
	}
	return ParseRosrpcURI(payload.Str)
}

// GetSystemState returns the publishers for topic, read from the
// [publishers, subscribers, services] system state; only publishers is
// inspected, per the design doc.
func (c *Client) GetSystemState(ctx context.Context, callerID, topic string) ([]string, error) {
	payload, err := callMaster3(ctx, c.httpClient, c.uri, "getSystemState", []Value{StringValue(callerID)}, c.callTO)
	if err != nil {
		return nil, err
	}
	if payload.Kind != KindArray || len(payload.Array) != 3 {
		return nil, rpcerr.New(rpcerr.ProtocolFraming, "getSystemState: malformed state triple")
	}
	publishers := payload.Array[0]
	if publishers.Kind != KindArray {
		return nil, rpcerr.New(rpcerr.ProtocolFraming, "getSystemState: publishers not an array")
	}
	for _, entry := range publishers.Array {
		if entry.Kind != KindArray || len(entry.Array) != 2 {
			continue
		}
		if entry.Array[0].Kind == KindString && entry.Array[0].Str == topic {
			nodes := entry.Array[1]
			out := make([]string, 0, len(nodes.Array))
			for _, n := range nodes.Array {
				if n.Kind == KindString {
					out = append(out, n.Str)
				}
			}
			return out, nil
		}
	}
	return nil, nil
}

// LookupNode resolves a node name to its slave API HTTP URI.
func (c *Client) LookupNode(ctx context.Context, callerID, nodeName string) (string, error) {
	payload, err := callMaster3(ctx, c.httpClient, c.uri, "lookupNode",
		[]Value{StringValue(callerID), StringValue(nodeName)}, c.callTO)
	if err != nil {
		return "", err
	}
	if payload.Kind != KindString {
		return "", rpcerr.New(rpcerr.ProtocolFraming, "lookupNode: payload not a string")
	}
	return NormalizeLocalhost(payload.Str), nil
}

// RequestTopic asks a node's slave API to offer topic over TCPROS,
// returning the endpoint to connect to.
func (c *Client) RequestTopic(ctx context.Context, callerID, nodeSlaveURI, topic string) (Endpoint, error) {
	protocols := ArrayValue(ArrayValue(StringValue("TCPROS")))
	payload, err := callMaster3(ctx, c.httpClient, nodeSlaveURI, "requestTopic",
		[]Value{StringValue(callerID), StringValue(topic), protocols}, c.callTO)
	if err != nil {
		return Endpoint{}, err
	}
	if payload.Kind != KindArray || len(payload.Array) != 3 {
		return Endpoint{}, rpcerr.New(rpcerr.Resolution, "requestTopic: malformed protocol params")
	}
	proto, host, port := payload.Array[0], payload.Array[1], payload.Array[2]
	if proto.Kind != KindString || proto.Str != "TCPROS" {
		return Endpoint{}, rpcerr.Newf(rpcerr.Resolution, "requestTopic: node offered non-TCPROS protocol %q", proto.Str)
	}
	if host.Kind != KindString || port.Kind != KindInt {
		return Endpoint{}, rpcerr.New(rpcerr.ProtocolFraming, "requestTopic: malformed host/port")
	}
	return Endpoint{Host: NormalizeLocalhost(host.Str), Port: int(port.Int), Scheme: "tcpros"}, nil
}

// dummySlaveURI is the deliberately unreachable slave URI passed to
// registerSubscriber: this library never intends to receive
// publisherUpdate callbacks.
const dummySlaveURI = "http://127.0.0.1:1"

// RegisterSubscriber registers interest in topic/msgType and returns the
// publisher node URIs from the master's response.
func (c *Client) RegisterSubscriber(ctx context.Context, callerID, topic, msgType string) ([]string, error) {
	payload, err := callMaster3(ctx, c.httpClient, c.uri, "registerSubscriber",
		[]Value{StringValue(callerID), StringValue(topic), StringValue(msgType), StringValue(dummySlaveURI)}, c.callTO)
	if err != nil {
		return nil, err
	}
	if payload.Kind != KindArray {
		return nil, rpcerr.New(rpcerr.ProtocolFraming, "registerSubscriber: payload not an array")
	}
	out := make([]string, 0, len(payload.Array))
	for _, n := range payload.Array {
		if n.Kind == KindString {
			out = append(out, n.Str)
		}
	}
	return out, nil
}
