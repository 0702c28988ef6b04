package report

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/vmihailenco/msgpack/v5"
)

// Current binary schema version - increment when BinaryPayload changes.
const binarySchemaVersion uint16 = 1

// BinaryPayload is the msgpack form of a report tree, meant for caches.
// Unlike the JSON document it keeps the whole tree dictionary.
type BinaryPayload struct {
	Schema     uint16
	Dictionary []BinaryEntry
	Tree       BinaryNode
}

// BinaryEntry is one dictionary entry.
type BinaryEntry struct {
	Key      string
	Template string
}

// BinaryNode is one node; Values are sorted by name.
type BinaryNode struct {
	Key      string
	Values   []BinaryValue
	Children []BinaryNode
}

// BinaryValue holds exactly one of the value fields, chosen by Kind.
type BinaryValue struct {
	Name string
	Type string
	Kind uint8
	Int  int64   `msgpack:",omitempty"`
	Flt  float64 `msgpack:",omitempty"`
	Bool bool    `msgpack:",omitempty"`
	Str  string  `msgpack:",omitempty"`
}

// EncodeBinary writes root as a msgpack payload.
func EncodeBinary(w io.Writer, root *Root) error {
	if root == nil || root.Node == nil {
		return fmt.Errorf("%w: nil root", ErrInvalidArgument)
	}
	payload := BinaryPayload{
		Schema: binarySchemaVersion,
		Tree:   toBinary(root.Node),
	}
	for _, e := range root.Dictionary().Snapshot() {
		payload.Dictionary = append(payload.Dictionary, BinaryEntry(e))
	}
	if err := msgpack.NewEncoder(w).Encode(&payload); err != nil {
		return fmt.Errorf("encode report payload: %w", err)
	}
	return nil
}

func toBinary(n *Node) BinaryNode {
	bn := BinaryNode{Key: n.key}
	for _, name := range sortedNames(n.own.values) {
		v := n.own.values[name]
		bn.Values = append(bn.Values, BinaryValue{
			Name: name,
			Type: v.typ,
			Kind: uint8(v.kind),
			Int:  v.i,
			Flt:  v.f,
			Bool: v.b,
			Str:  v.s,
		})
	}
	for _, c := range n.children {
		bn.Children = append(bn.Children, toBinary(c))
	}
	return bn
}

// DecodeBinary reads a payload written by EncodeBinary.
func DecodeBinary(r io.Reader) (*Root, error) {
	var payload BinaryPayload
	if err := msgpack.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode report payload: %v", ErrMalformedDocument, err)
	}
	if payload.Schema != binarySchemaVersion {
		return nil, fmt.Errorf("%w: binary schema %d", ErrUnsupportedVersion, payload.Schema)
	}
	dict := NewDictionary(nil)
	for _, e := range payload.Dictionary {
		dict.Put(e.Key, e.Template)
	}
	ctx := &contextRef{dict: dict}
	n, err := fromBinary(&payload.Tree, nil, ctx)
	if err != nil {
		return nil, err
	}
	return &Root{Node: n}, nil
}

func fromBinary(bn *BinaryNode, inherited *valueChain, ctx *contextRef) (*Node, error) {
	values := make(map[string]TypedValue, len(bn.Values))
	for _, bv := range bn.Values {
		v := TypedValue{kind: Kind(bv.Kind), typ: bv.Type}
		switch v.kind {
		case KindInt:
			v.i = bv.Int
		case KindFloat:
			v.f = bv.Flt
		case KindBool:
			v.b = bv.Bool
		case KindString:
			v.s = bv.Str
		default:
			return nil, fmt.Errorf("%w: node %q value %q kind %d", ErrMalformedDocument, bn.Key, bv.Name, bv.Kind)
		}
		if v.typ == "" {
			v.typ = TypeUntyped
		}
		values[bv.Name] = v
	}
	n := &Node{
		key: bn.Key,
		own: &valueChain{values: values, next: inherited},
		ctx: ctx,
	}
	for i := range bn.Children {
		c, err := fromBinary(&bn.Children[i], n.own, ctx)
		if err != nil {
			return nil, err
		}
		n.children = append(n.children, c)
	}
	return n, nil
}

func sortedNames(values map[string]TypedValue) []string {
	return slices.Sorted(maps.Keys(values))
}
