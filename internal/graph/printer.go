package graph

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

const graphMLNamespace = "http://graphml.graphdrawing.org/xmlns"

type writer interface {
	io.Writer
	Flush() error
}

type nopFlusher struct{ io.Writer }

func (nopFlusher) Flush() error { return nil }

type key struct {
	XMLName xml.Name `xml:"key"`
	ID      string   `xml:"id,attr"`
	For     string   `xml:"for,attr"`
	Name    string   `xml:"attr.name,attr"`
	Type    string   `xml:"attr.type,attr"`
}

type data struct {
	XMLName xml.Name `xml:"data"`
	Key     string   `xml:"key,attr"`
	Value   string   `xml:",chardata"`
}

type node struct {
	XMLName xml.Name `xml:"node"`
	ID      string   `xml:"id,attr"`
	Data    []data   `xml:"data"`
}

type edge struct {
	XMLName xml.Name `xml:"edge"`
	Source  string   `xml:"source,attr"`
	Target  string   `xml:"target,attr"`
	Data    []data   `xml:"data"`
}

// keySet collects the attribute keys of one GraphML domain
// in the order they are first seen.
type keySet struct {
	domain string
	keys   []key
	index  map[string]int
}

func newKeySet(domain string) *keySet {
	return &keySet{domain: domain, index: make(map[string]int)}
}

func (k *keySet) add(attrs *Attributes) {
	attrs.Each(func(name string, v Value) {
		if i, ok := k.index[name]; ok {
			k.keys[i].Type = string(ValueType(k.keys[i].Type).widen(v.Type))
			return
		}
		k.index[name] = len(k.keys)
		k.keys = append(k.keys, key{ID: name, For: k.domain, Name: name, Type: string(v.Type)})
	})
}

func toData(attrs *Attributes) []data {
	if attrs.Len() == 0 {
		return nil
	}
	d := make([]data, 0, attrs.Len())
	attrs.Each(func(name string, v Value) {
		d = append(d, data{Key: name, Value: v.Text})
	})
	return d
}

// A Printer writes graphs as GraphML documents. Output goes through a
// pooled bufio.Writer; in-memory buffers and bufio.Writers are written
// to directly. Printers may be shared between goroutines.
type Printer struct {
	bwp sync.Pool
}

func NewPrinter() *Printer {
	return &Printer{
		bwp: sync.Pool{
			New: func() interface{} {
				return bufio.NewWriter(nil)
			},
		},
	}
}

func (p *Printer) getWriter(w io.Writer) (writer, func()) {
	switch v := w.(type) {
	case *bytes.Buffer, *strings.Builder:
		return nopFlusher{v}, func() {}
	case *bufio.Writer:
		return v, func() {}
	default:
		bw := p.bwp.Get().(*bufio.Writer)
		bw.Reset(w)
		return bw, func() {
			bw.Reset(nil)
			p.bwp.Put(bw)
		}
	}
}

// Print writes g to w as GraphML. Keys are declared for graph, node and
// edge attributes in that order. A key whose values differ in type is
// declared with a type that holds all of them. Nodes and edges are written in insertion order, so the output
// is the same for equal graphs.
func (p *Printer) Print(w io.Writer, g *Graph) error {
	wr, release := p.getWriter(w)
	defer release()

	graphKeys, nodeKeys, edgeKeys := newKeySet("graph"), newKeySet("node"), newKeySet("edge")
	graphKeys.add(&g.Attributes)
	for _, n := range g.nodes {
		nodeKeys.add(&n.Attributes)
	}
	for _, e := range g.edges {
		edgeKeys.add(&e.Attributes)
	}

	enc := xml.NewEncoder(wr)
	// Every top level item of the document goes on its own line.
	token := func(t xml.Token) error {
		if err := enc.EncodeToken(t); err != nil {
			return err
		}
		return enc.EncodeToken(xml.CharData("\n"))
	}
	element := func(v interface{}) error {
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.EncodeToken(xml.CharData("\n"))
	}

	err := token(xml.ProcInst{
		Target: "xml",
		Inst:   []byte(`version="1.0" encoding="UTF-8" standalone="no"`),
	})
	if err != nil {
		return errors.Wrap(err, "unable to write xml declaration")
	}

	root := xml.StartElement{
		Name: xml.Name{Local: "graphml"},
		Attr: []xml.Attr{{Name: xml.Name{Local: "xmlns"}, Value: graphMLNamespace}},
	}
	if err = token(root); err != nil {
		return errors.Wrap(err, "unable to write graphml element")
	}

	for _, ks := range []*keySet{graphKeys, nodeKeys, edgeKeys} {
		for _, k := range ks.keys {
			if err = element(k); err != nil {
				return errors.Wrapf(err, "unable to write %s key %q", ks.domain, k.ID)
			}
		}
	}

	graphStart := xml.StartElement{
		Name: xml.Name{Local: "graph"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "edgedefault"}, Value: "directed"},
			{Name: xml.Name{Local: "id"}, Value: g.Name},
		},
	}
	if err = token(graphStart); err != nil {
		return errors.Wrap(err, "unable to write graph element")
	}

	for _, d := range toData(&g.Attributes) {
		if err = element(d); err != nil {
			return errors.Wrapf(err, "unable to write graph data %q", d.Key)
		}
	}

	for _, n := range g.nodes {
		el := node{ID: strconv.FormatInt(n.ID, 10), Data: toData(&n.Attributes)}
		if err = element(el); err != nil {
			return errors.Wrapf(err, "unable to write node %d", n.ID)
		}
	}

	for _, e := range g.edges {
		el := edge{
			Source: strconv.FormatInt(e.Source, 10),
			Target: strconv.FormatInt(e.Target, 10),
			Data:   toData(&e.Attributes),
		}
		if err = element(el); err != nil {
			return errors.Wrapf(err, "unable to write edge %d -> %d", e.Source, e.Target)
		}
	}

	if err = token(graphStart.End()); err != nil {
		return errors.Wrap(err, "unable to close graph element")
	}
	if err = token(root.End()); err != nil {
		return errors.Wrap(err, "unable to close graphml element")
	}

	if err = enc.Flush(); err != nil {
		return errors.Wrap(err, "unable to write graphml")
	}
	return errors.Wrap(wr.Flush(), "unable to flush output")
}
