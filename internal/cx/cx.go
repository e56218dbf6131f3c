// Package cx reads networks in the NDEx CX exchange format.
//
// A CX document is a JSON array of aspect fragments, each an object
// mapping an aspect name to a list of aspect elements:
//
//	[{"nodes": [{"@id": 1, "n": "A"}]}, {"edges": [{"@id": 1, "s": 1, "t": 1}]}]
//
// A single object holding every aspect is accepted as well. Only the
// aspects describing the network structure and its attributes are read;
// visual and bookkeeping aspects are skipped.
package cx

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Aspect names read by the decoder.
const (
	AspectNodes             = "nodes"
	AspectEdges             = "edges"
	AspectNodeAttributes    = "nodeAttributes"
	AspectEdgeAttributes    = "edgeAttributes"
	AspectNetworkAttributes = "networkAttributes"
)

var (
	// ErrEmpty is returned when the input holds no JSON document.
	ErrEmpty = errors.New("empty cx document")
	// ErrSyntax is returned for malformed or truncated JSON.
	ErrSyntax = errors.New("malformed cx document")
	// ErrSchema is returned when the JSON is valid but not shaped like CX.
	ErrSchema = errors.New("invalid cx document")
)

type node struct {
	ID         *int64  `json:"@id"`
	Name       *string `json:"n"`
	Represents *string `json:"r"`
}

type edge struct {
	ID          *int64  `json:"@id"`
	Source      *int64  `json:"s"`
	Target      *int64  `json:"t"`
	Interaction *string `json:"i"`
}

type attribute struct {
	PropertyOf *int64          `json:"po"`
	Name       *string         `json:"n"`
	Value      json.RawMessage `json:"v"`
	DataType   string          `json:"d"`
}

type networkAttribute struct {
	Name     *string         `json:"n"`
	Value    json.RawMessage `json:"v"`
	DataType string          `json:"d"`
}

// aspects holds the elements of the aspects the decoder reads, in
// document order.
type aspects struct {
	nodes     []node
	edges     []edge
	nodeAttrs []attribute
	edgeAttrs []attribute
	netAttrs  []networkAttribute
}
