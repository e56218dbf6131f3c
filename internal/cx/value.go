package cx

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/tmaxmax/ndex-exporters/internal/graph"
)

// CX data types, as found in the "d" field of attribute elements.
const (
	typeBoolean = "boolean"
	typeInteger = "integer"
	typeLong    = "long"
	typeDouble  = "double"
	typeString  = "string"
	listPrefix  = "list_of_"
)

var declaredTypes = map[string]graph.ValueType{
	typeBoolean: graph.Boolean,
	typeInteger: graph.Int,
	typeLong:    graph.Long,
	typeDouble:  graph.Double,
	typeString:  graph.String,
}

// toValue converts the raw "v" field of an attribute element. A declared
// data type decides the value type when the value is valid for it;
// otherwise the type is inferred from the JSON value. Lists and objects
// are kept as compact JSON text.
func toValue(raw json.RawMessage, dataType string) (graph.Value, error) {
	raw = bytes.TrimSpace(raw)

	var v graph.Value
	switch {
	case len(raw) == 0 || raw[0] == 'n':
		v = graph.StringValue("")
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return v, errors.Wrap(ErrSchema, err.Error())
		}
		v = graph.StringValue(s)
	case raw[0] == 't' || raw[0] == 'f':
		v = graph.Value{Type: graph.Boolean, Text: string(raw)}
	case raw[0] == '[' || raw[0] == '{':
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return v, errors.Wrap(ErrSchema, err.Error())
		}
		v = graph.StringValue(buf.String())
	default:
		text := string(raw)
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			v = graph.IntegerValue(i)
		} else {
			v = graph.Value{Type: graph.Double, Text: text}
		}
	}

	if t, ok := declaredTypes[dataType]; ok && holds(t, v.Text) {
		v.Type = t
	} else if strings.HasPrefix(dataType, listPrefix) {
		v.Type = graph.String
	}
	return v, nil
}

// holds reports whether text is a valid literal of type t.
func holds(t graph.ValueType, text string) bool {
	var err error
	switch t {
	case graph.Boolean:
		return text == "true" || text == "false"
	case graph.Int:
		_, err = strconv.ParseInt(text, 10, 32)
	case graph.Long:
		_, err = strconv.ParseInt(text, 10, 64)
	case graph.Double:
		// ParseFloat also takes inf, nan, hex floats and underscores.
		if strings.ContainsAny(text, "nNxX_") {
			return false
		}
		_, err = strconv.ParseFloat(text, 64)
	}
	return err == nil
}
