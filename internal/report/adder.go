package report

import (
	"fmt"
	"log/slog"
)

// Adder accumulates the description of one node. Validation failures inside
// the chain are kept and returned by Add/Build; the first one wins.
type Adder struct {
	parent   *Node
	key      string
	template string
	values   map[string]TypedValue
	err      error
	used     bool

	// root-only
	isRoot bool
	logger *slog.Logger
}

// NewRootAdder returns an Adder that builds the top node of a new tree.
func NewRootAdder() *Adder {
	return &Adder{isRoot: true}
}

// WithKey sets the message key.
func (a *Adder) WithKey(key string) *Adder {
	a.key = key
	return a
}

// WithMessageTemplate sets the template registered under the key.
func (a *Adder) WithMessageTemplate(template string) *Adder {
	a.template = template
	return a
}

// WithValue attaches an untyped value.
func (a *Adder) WithValue(name string, value any) *Adder {
	return a.WithTypedValue(name, value, TypeUntyped)
}

// WithTypedValue attaches a value with a type tag.
func (a *Adder) WithTypedValue(name string, value any, typ string) *Adder {
	tv, err := NewTypedValue(value, typ)
	if err != nil {
		a.fail(fmt.Errorf("value %q: %w", name, err))
		return a
	}
	return a.put(name, tv)
}

// WithTypedValues attaches already built values.
func (a *Adder) WithTypedValues(values map[string]TypedValue) *Adder {
	for name, v := range values {
		if !v.IsValid() {
			a.fail(fmt.Errorf("value %q: %w", name, ErrInvalidValueKind))
			continue
		}
		a.put(name, v)
	}
	return a
}

// WithSeverity attaches v under SeverityKey. v must be tagged TypeSeverity
// and name a known level.
func (a *Adder) WithSeverity(v TypedValue) *Adder {
	if v.Type() != TypeSeverity {
		a.fail(fmt.Errorf("%w: severity value tagged %q, want %q", ErrInvalidArgument, v.Type(), TypeSeverity))
		return a
	}
	if _, ok := SeverityOf(v); !ok {
		a.fail(fmt.Errorf("%w: unknown severity %v", ErrInvalidArgument, v))
		return a
	}
	return a.put(SeverityKey, v)
}

// WithSeverityLevel attaches s under SeverityKey.
func (a *Adder) WithSeverityLevel(s Severity) *Adder {
	return a.put(SeverityKey, s.Value())
}

// WithLogger sets the logger used by the tree dictionary. Root adders only.
func (a *Adder) WithLogger(logger *slog.Logger) *Adder {
	a.logger = logger
	return a
}

// Err returns the first validation error recorded so far.
func (a *Adder) Err() error { return a.err }

func (a *Adder) put(name string, v TypedValue) *Adder {
	if name == "" {
		a.fail(fmt.Errorf("%w: empty value name", ErrInvalidArgument))
		return a
	}
	if a.values == nil {
		a.values = make(map[string]TypedValue)
	}
	a.values[name] = v
	return a
}

func (a *Adder) fail(err error) {
	if a.err == nil {
		a.err = err
	}
}

func (a *Adder) check() error {
	if a.used {
		return ErrAlreadyAdded
	}
	a.used = true
	if a.err != nil {
		return a.err
	}
	if a.key == "" {
		return fmt.Errorf("%w: empty message key", ErrInvalidArgument)
	}
	if a.template == "" {
		a.template = a.key
	}
	return nil
}

// Add builds the node and appends it to the parent.
func (a *Adder) Add() (*Node, error) {
	if a.isRoot || a.parent == nil {
		return nil, fmt.Errorf("%w: Add on a root adder, use Build", ErrInvalidArgument)
	}
	if err := a.check(); err != nil {
		return nil, err
	}
	p := a.parent
	n := newNode(a.key, a.template, a.values, p.own, p.ctx)
	p.appendChild(n)
	a.values = nil
	return n, nil
}

// Build builds the top node of a new tree.
func (a *Adder) Build() (*Root, error) {
	if !a.isRoot {
		return nil, fmt.Errorf("%w: Build on a child adder, use Add", ErrInvalidArgument)
	}
	if err := a.check(); err != nil {
		return nil, err
	}
	ctx := &contextRef{dict: NewDictionary(a.logger)}
	n := newNode(a.key, a.template, a.values, nil, ctx)
	a.values = nil
	return &Root{Node: n}, nil
}
