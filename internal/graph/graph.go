package graph

import (
	"strconv"

	topo "github.com/dominikbraun/graph"
	"github.com/pkg/errors"
)

// DefaultName is used for graphs whose input carries no name.
const DefaultName = "unknown"

var (
	ErrDuplicateNode = errors.New("duplicate node id")
	ErrDuplicateEdge = errors.New("duplicate edge id")
	ErrDanglingEdge  = errors.New("edge endpoint is not a node")
)

// ValueType is the GraphML type of an attribute value.
type ValueType string

const (
	Boolean ValueType = "boolean"
	Int     ValueType = "int"
	Long    ValueType = "long"
	Double  ValueType = "double"
	String  ValueType = "string"
)

var numericRank = map[ValueType]int{Int: 1, Long: 2, Double: 3}

// widen returns the narrowest type that holds values of both t and o.
func (t ValueType) widen(o ValueType) ValueType {
	if t == o {
		return t
	}
	rt, okt := numericRank[t]
	ro, oko := numericRank[o]
	switch {
	case !okt || !oko:
		return String
	case rt > ro:
		return t
	default:
		return o
	}
}

// Value is a typed attribute value, already rendered as text.
type Value struct {
	Type ValueType
	Text string
}

func StringValue(s string) Value { return Value{Type: String, Text: s} }

// IntegerValue returns an int value if v fits in 32 bits and a long value otherwise.
func IntegerValue(v int64) Value {
	t := Long
	if int64(int32(v)) == v {
		t = Int
	}
	return Value{Type: t, Text: strconv.FormatInt(v, 10)}
}

// Attributes is a map of values that remembers the order in which
// keys were first set.
type Attributes struct {
	keys   []string
	values map[string]Value
}

// Set assigns v to key. Overwriting a key keeps its original position.
func (a *Attributes) Set(key string, v Value) {
	if a.values == nil {
		a.values = make(map[string]Value)
	}
	if _, ok := a.values[key]; !ok {
		a.keys = append(a.keys, key)
	}
	a.values[key] = v
}

func (a *Attributes) Get(key string) (Value, bool) {
	v, ok := a.values[key]
	return v, ok
}

func (a *Attributes) Len() int { return len(a.keys) }

// Each calls fn for every attribute in insertion order.
func (a *Attributes) Each(fn func(key string, v Value)) {
	for _, k := range a.keys {
		fn(k, a.values[k])
	}
}

type Node struct {
	ID         int64
	Attributes Attributes
}

type Edge struct {
	ID     int64
	HasID  bool
	Source int64
	Target int64

	Attributes Attributes
}

// Graph is a directed property graph whose nodes and edges keep the
// order in which they were added. Parallel edges and self loops are allowed.
type Graph struct {
	Name       string
	Attributes Attributes

	nodes     []*Node
	edges     []*Edge
	nodeIndex map[int64]*Node
	edgeIndex map[int64]*Edge
	topology  topo.Graph[int64, int64]
}

func New() *Graph {
	return &Graph{
		Name:      DefaultName,
		nodeIndex: make(map[int64]*Node),
		edgeIndex: make(map[int64]*Edge),
		topology:  topo.New(func(id int64) int64 { return id }, topo.Directed()),
	}
}

// AddNode adds a node with the given id. Ids must be unique.
func (g *Graph) AddNode(id int64) (*Node, error) {
	if err := g.topology.AddVertex(id); err != nil {
		if errors.Is(err, topo.ErrVertexAlreadyExists) {
			return nil, errors.Wrapf(ErrDuplicateNode, "node %d", id)
		}
		return nil, errors.Wrapf(err, "unable to add node %d", id)
	}

	n := &Node{ID: id}
	g.nodes = append(g.nodes, n)
	g.nodeIndex[id] = n
	return n, nil
}

// AddEdge adds an edge from source to target. Both endpoints must already
// be nodes of the graph. A nil id adds an edge without an identifier.
func (g *Graph) AddEdge(id *int64, source, target int64) (*Edge, error) {
	if id != nil {
		if _, ok := g.edgeIndex[*id]; ok {
			return nil, errors.Wrapf(ErrDuplicateEdge, "edge %d", *id)
		}
	}

	err := g.topology.AddEdge(source, target)
	switch {
	case err == nil, errors.Is(err, topo.ErrEdgeAlreadyExists):
	case errors.Is(err, topo.ErrVertexNotFound):
		return nil, errors.Wrapf(ErrDanglingEdge, "edge %d -> %d", source, target)
	default:
		return nil, errors.Wrapf(err, "unable to add edge %d -> %d", source, target)
	}

	e := &Edge{Source: source, Target: target}
	if id != nil {
		e.ID, e.HasID = *id, true
		g.edgeIndex[*id] = e
	}
	g.edges = append(g.edges, e)
	return e, nil
}

func (g *Graph) Node(id int64) (*Node, bool) {
	n, ok := g.nodeIndex[id]
	return n, ok
}

func (g *Graph) Edge(id int64) (*Edge, bool) {
	e, ok := g.edgeIndex[id]
	return e, ok
}

// Nodes returns the nodes in insertion order. The slice must not be modified.
func (g *Graph) Nodes() []*Node { return g.nodes }

// Edges returns the edges in insertion order. The slice must not be modified.
func (g *Graph) Edges() []*Edge { return g.edges }

// Adjacent reports whether there is at least one edge from source to target.
func (g *Graph) Adjacent(source, target int64) bool {
	_, err := g.topology.Edge(source, target)
	return err == nil
}
