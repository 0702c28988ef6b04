package report

import (
	"bufio"
	"io"
	"maps"
	"strings"
)

// valueChain is a persistent list of value maps, nearest ancestor first.
// Children share their parent's chain by pointer.
type valueChain struct {
	values map[string]TypedValue
	next   *valueChain
}

func (c *valueChain) lookup(name string) (TypedValue, bool) {
	for ; c != nil; c = c.next {
		if v, ok := c.values[name]; ok {
			return v, true
		}
	}
	return TypedValue{}, false
}

// contextRef points at the dictionary of a tree. Including a root redirects
// its ref to the receiving tree, so nodes built before the include keep
// resolving against the live dictionary.
type contextRef struct {
	dict Dictionary
	link *contextRef
}

func (r *contextRef) resolve() *contextRef {
	for r.link != nil {
		r = r.link
	}
	return r
}

// Node is one entry of a report tree.
type Node struct {
	key      string
	own      *valueChain // own values; next is the inherited chain
	children []*Node
	ctx      *contextRef
}

func newNode(key, template string, values map[string]TypedValue, inherited *valueChain, ctx *contextRef) *Node {
	if values == nil {
		values = map[string]TypedValue{}
	}
	ctx.resolve().dict.Put(key, template)
	return &Node{
		key: key,
		own: &valueChain{values: values, next: inherited},
		ctx: ctx,
	}
}

// Key returns the message key.
func (n *Node) Key() string { return n.key }

// Values returns a copy of the node's own values.
func (n *Node) Values() map[string]TypedValue {
	return maps.Clone(n.own.values)
}

// Children returns the node's children in insertion order.
func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

// Dictionary returns the dictionary shared by the node's tree.
func (n *Node) Dictionary() Dictionary {
	return n.ctx.resolve().dict
}

// Value resolves name against the node's own values, then its ancestors'
// values, nearest first.
func (n *Node) Value(name string) (TypedValue, bool) {
	return n.own.lookup(name)
}

// Severity returns the severity attached to this node, if any. Severities
// are not inherited.
func (n *Node) Severity() (Severity, bool) {
	v, ok := n.own.values[SeverityKey]
	if !ok {
		return SeverityInfo, false
	}
	return SeverityOf(v)
}

// MessageTemplate returns the template registered for the node key.
func (n *Node) MessageTemplate() (string, bool) {
	return n.Dictionary().Lookup(n.key)
}

// Message renders the node template.
func (n *Node) Message() string {
	tmpl, ok := n.MessageTemplate()
	if !ok {
		return MissingKeyMessage(n.key)
	}
	return FormatTemplate(tmpl, n.Value)
}

// NewChild returns an Adder that attaches a new child to n.
func (n *Node) NewChild() *Adder {
	return &Adder{parent: n}
}

func (n *Node) appendChild(c *Node) {
	n.children = append(n.children, c)
}

// Include moves the top-level children of other under n and merges other's
// dictionary into n's tree. Values held by other's top node are copied into
// each moved child that does not define them, so they survive serialization;
// n's chain follows. other shares n's dictionary afterwards and must not be
// included again.
func (n *Node) Include(other *Root) error {
	if other == nil || other.Node == nil {
		return ErrInvalidArgument
	}
	ours := n.ctx.resolve()
	if other.ctx.link != nil || other.ctx == ours {
		return ErrCyclicInclude
	}
	ours.dict.Merge(other.ctx.dict)
	other.ctx.link = ours
	other.own.next = n.own
	for _, c := range other.children {
		c.inherit(other.own.values)
	}
	n.children = append(n.children, other.children...)
	return nil
}

// inherit adds values n does not define itself. Severities are not inherited.
func (n *Node) inherit(values map[string]TypedValue) {
	for name, v := range values {
		if name == SeverityKey {
			continue
		}
		if _, ok := n.own.values[name]; !ok {
			n.own.values[name] = v
		}
	}
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the node's children.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.children {
		c.walk(fn, depth+1)
	}
}

// PrintIndent is the indentation added per tree level by Print.
const PrintIndent = "   "

// Print writes a human-readable dump of the subtree rooted at n.
func (n *Node) Print(w io.Writer) error {
	bw := bufio.NewWriter(w)
	n.Walk(func(node *Node, depth int) bool {
		bw.WriteString(strings.Repeat(PrintIndent, depth))
		if len(node.children) > 0 {
			bw.WriteString("+ ")
		}
		bw.WriteString(node.Message())
		bw.WriteByte('\n')
		return true
	})
	return bw.Flush()
}

// String returns the Print output.
func (n *Node) String() string {
	var b strings.Builder
	_ = n.Print(&b)
	return b.String()
}
