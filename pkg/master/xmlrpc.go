package master

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/valetudo/vendormaster/internal/rpcerr"
)

// Value is the small XML-RPC value grammar this client supports on both
// encode and decode: int/i4, double, boolean, string, array, struct. There
// is no ecosystem XML-RPC library anywhere in the reference corpus, so this
// is a deliberately minimal hand-rolled codec over encoding/xml — see
// DESIGN.md.
type Value struct {
	Kind   ValueKind
	Int    int64
	Double float64
	Bool   bool
	Str    string
	Array  []Value
	Struct map[string]Value
}

// ValueKind discriminates the Value union.
type ValueKind int

const (
	KindInt ValueKind = iota
	KindDouble
	KindBool
	KindString
	KindArray
	KindStruct
)

func IntValue(v int64) Value      { return Value{Kind: KindInt, Int: v} }
func StringValue(v string) Value  { return Value{Kind: KindString, Str: v} }
func BoolValue(v bool) Value      { return Value{Kind: KindBool, Bool: v} }
func ArrayValue(v ...Value) Value { return Value{Kind: KindArray, Array: v} }

// buildMethodCall renders a <methodCall> document for the given method and
// positional params.
func buildMethodCall(method string, params []Value) []byte {
	var b bytes.Buffer
	b.WriteString(`<?xml version="1.0"?><methodCall><methodName>`)
	xml.EscapeText(&b, []byte(method))
	b.WriteString(`</methodName><params>`)
	for _, p := range params {
		b.WriteString("<param><value>")
		writeValue(&b, p)
		b.WriteString("</value></param>")
	}
	b.WriteString(`</params></methodCall>`)
	return b.Bytes()
}

func writeValue(b *bytes.Buffer, v Value) {
	switch v.Kind {
	case KindInt:
		fmt.Fprintf(b, "<int>%d</int>", v.Int)
	case KindDouble:
		fmt.Fprintf(b, "<double>%v</double>", v.Double)
	case KindBool:
		if v.Bool {
			b.WriteString("<boolean>1</boolean>")
		} else {
			b.WriteString("<boolean>0</boolean>")
		}
	case KindString:
		b.WriteString("<string>")
		xml.EscapeText(b, []byte(v.Str))
		b.WriteString("</string>")
	case KindArray:
		b.WriteString("<array><data>")
		for _, e := range v.Array {
			b.WriteString("<value>")
			writeValue(b, e)
			b.WriteString("</value>")
		}
		b.WriteString("</data></array>")
	case KindStruct:
		b.WriteString("<struct>")
		for k, e := range v.Struct {
			b.WriteString("<member><name>")
			xml.EscapeText(b, []byte(k))
			b.WriteString("</name><value>")
			writeValue(b, e)
			b.WriteString("</value></member>")
		}
		b.WriteString("</struct>")
	}
}

// --- decode side: a minimal streaming parser over the same value grammar ---

type xMethodResponse struct {
	XMLName xml.Name  `xml:"methodResponse"`
	Params  *xParams  `xml:"params"`
	Fault   *xFault   `xml:"fault"`
}

type xParams struct {
	Param []xParam `xml:"param"`
}

type xParam struct {
	Value xValue `xml:"value"`
}

type xFault struct {
	Value xValue `xml:"value"`
}

type xValue struct {
	Int     *string   `xml:"int"`
	I4      *string   `xml:"i4"`
	Double  *string   `xml:"double"`
	Boolean *string   `xml:"boolean"`
	String  *string   `xml:"string"`
	Array   *xArray   `xml:"array"`
	Struct  *xStruct  `xml:"struct"`
	Chardata string   `xml:",chardata"`
}

type xArray struct {
	Data struct {
		Value []xValue `xml:"value"`
	} `xml:"data"`
}

type xStruct struct {
	Member []struct {
		Name  string `xml:"name"`
		Value xValue `xml:"value"`
	} `xml:"member"`
}

func convertValue(v xValue) (Value, error) {
	switch {
	case v.Int != nil:
		n, err := strconv.ParseInt(strings.TrimSpace(*v.Int), 10, 64)
		if err != nil {
			return Value{}, rpcerr.Wrap(rpcerr.ProtocolFraming, err, "bad <int>")
		}
		return IntValue(n), nil
	case v.I4 != nil:
		n, err := strconv.ParseInt(strings.TrimSpace(*v.I4), 10, 64)
		if err != nil {
			return Value{}, rpcerr.Wrap(rpcerr.ProtocolFraming, err, "bad <i4>")
		}
		return IntValue(n), nil
	case v.Double != nil:
		f, err := strconv.ParseFloat(strings.TrimSpace(*v.Double), 64)
		if err != nil {
			return Value{}, rpcerr.Wrap(rpcerr.ProtocolFraming, err, "bad <double>")
		}
		return Value{Kind: KindDouble, Double: f}, nil
	case v.Boolean != nil:
		return BoolValue(strings.TrimSpace(*v.Boolean) == "1"), nil
	case v.String != nil:
		return StringValue(*v.String), nil
	case v.Array != nil:
		out := make([]Value, 0, len(v.Array.Data.Value))
		for _, e := range v.Array.Data.Value {
			cv, err := convertValue(e)
			if err != nil {
				return Value{}, err
			}
			out = append(out, cv)
		}
		return Value{Kind: KindArray, Array: out}, nil
	case v.Struct != nil:
		m := make(map[string]Value, len(v.Struct.Member))
		for _, mem := range v.Struct.Member {
			cv, err := convertValue(mem.Value)
			if err != nil {
				return Value{}, err
			}
			m[mem.Name] = cv
		}
		return Value{Kind: KindStruct, Struct: m}, nil
	default:
		// Bare chardata with no type tag defaults to string, per the
		// XML-RPC spec's untyped-scalar fallback.
		return StringValue(v.Chardata), nil
	}
}

// parseMethodResponse decodes a <methodResponse> document, returning the
// single result value or a master-fault error.
func parseMethodResponse(body []byte) (Value, error) {
	var mr xMethodResponse
	if err := xml.Unmarshal(body, &mr); err != nil {
		return Value{}, rpcerr.Wrap(rpcerr.ProtocolFraming, err, "bad XML-RPC response")
	}
	if mr.Fault != nil {
		fv, err := convertValue(mr.Fault.Value)
		if err != nil {
			return Value{}, err
		}
		return Value{}, rpcerr.Newf(rpcerr.ProtocolFraming, "master fault: %s", jsonifyFault(fv))
	}
	if mr.Params == nil || len(mr.Params.Param) != 1 {
		return Value{}, rpcerr.New(rpcerr.ProtocolFraming, "XML-RPC response missing single param")
	}
	return convertValue(mr.Params.Param[0].Value)
}

// jsonifyFault renders a fault struct as JSON-ish text for the error
// message, per spec.md §8 scenario 5.
func jsonifyFault(v Value) string {
	var b bytes.Buffer
	writeJSON(&b, v)
	return b.String()
}

func writeJSON(b *bytes.Buffer, v Value) {
	switch v.Kind {
	case KindInt:
		fmt.Fprintf(b, "%d", v.Int)
	case KindDouble:
		fmt.Fprintf(b, "%v", v.Double)
	case KindBool:
		fmt.Fprintf(b, "%v", v.Bool)
	case KindString:
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(v.Str, `"`, `\"`))
		b.WriteByte('"')
	case KindArray:
		b.WriteByte('[')
		for i, e := range v.Array {
			if i > 0 {
				b.WriteByte(',')
			}
			writeJSON(b, e)
		}
		b.WriteByte(']')
	case KindStruct:
		b.WriteByte('{')
		first := true
		for k, e := range v.Struct {
			if !first {
				b.WriteByte(',')
			}
			first = false
			fmt.Fprintf(b, "%q:", k)
			writeJSON(b, e)
		}
		b.WriteByte('}')
	}
}
