package report

import (
	"fmt"
	"strconv"

	"fortio.org/safecast"
)

// Type tags for typed values. Only TypeUntyped and TypeSeverity carry meaning
// inside this package; the others are conventions shared by producers.
const (
	TypeUntyped       = "UNTYPED"
	TypeSeverity      = "SEVERITY"
	TypeTimestamp     = "TIMESTAMP"
	TypeFilename      = "FILENAME"
	TypeID            = "ID"
	TypeSubstation    = "SUBSTATION"
	TypeVoltageLevel  = "VOLTAGE_LEVEL"
	TypeActivePower   = "ACTIVE_POWER"
	TypeReactivePower = "REACTIVE_POWER"
	TypeVoltage       = "VOLTAGE"
	TypeAngle         = "ANGLE"
)

// Kind identifies the Go type held by a TypedValue.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInt
	KindFloat
	KindBool
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	}
	return "invalid"
}

// TypedValue is an immutable value with a classification tag.
type TypedValue struct {
	kind Kind
	i    int64
	f    float64
	b    bool
	s    string
	typ  string
}

// NewTypedValue builds a TypedValue. Integer kinds are normalised to int64
// (failing on overflow), float32 to float64. An empty tag means TypeUntyped.
func NewTypedValue(value any, typ string) (TypedValue, error) {
	if typ == "" {
		typ = TypeUntyped
	}
	tv := TypedValue{typ: typ}
	var err error
	switch v := value.(type) {
	case int64:
		tv.kind, tv.i = KindInt, v
	case int:
		tv.kind, tv.i = KindInt, int64(v)
	case int8:
		tv.kind, tv.i = KindInt, int64(v)
	case int16:
		tv.kind, tv.i = KindInt, int64(v)
	case int32:
		tv.kind, tv.i = KindInt, int64(v)
	case uint8:
		tv.kind, tv.i = KindInt, int64(v)
	case uint16:
		tv.kind, tv.i = KindInt, int64(v)
	case uint32:
		tv.kind, tv.i = KindInt, int64(v)
	case uint:
		tv.kind = KindInt
		tv.i, err = safecast.Conv[int64](v)
	case uint64:
		tv.kind = KindInt
		tv.i, err = safecast.Conv[int64](v)
	case float64:
		tv.kind, tv.f = KindFloat, v
	case float32:
		tv.kind, tv.f = KindFloat, float64(v)
	case bool:
		tv.kind, tv.b = KindBool, v
	case string:
		tv.kind, tv.s = KindString, v
	default:
		return TypedValue{}, fmt.Errorf("%w: %T", ErrInvalidValueKind, value)
	}
	if err != nil {
		return TypedValue{}, fmt.Errorf("%w: %v", ErrInvalidValueKind, err)
	}
	return tv, nil
}

// MustTypedValue is NewTypedValue that panics on error.
func MustTypedValue(value any, typ string) TypedValue {
	tv, err := NewTypedValue(value, typ)
	if err != nil {
		panic(err)
	}
	return tv
}

// Untyped wraps a string with TypeUntyped.
func Untyped(s string) TypedValue { return TypedValue{kind: KindString, s: s, typ: TypeUntyped} }

func Int(v int64, typ string) TypedValue     { return MustTypedValue(v, typ) }
func Float(v float64, typ string) TypedValue { return MustTypedValue(v, typ) }
func Bool(v bool, typ string) TypedValue     { return MustTypedValue(v, typ) }
func String(v, typ string) TypedValue        { return MustTypedValue(v, typ) }

// Value returns the held value as int64, float64, bool or string.
func (v TypedValue) Value() any {
	switch v.kind {
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindBool:
		return v.b
	case KindString:
		return v.s
	}
	return nil
}

// Type returns the classification tag.
func (v TypedValue) Type() string { return v.typ }

// Kind returns the held value kind.
func (v TypedValue) Kind() Kind { return v.kind }

// IsValid reports whether v was built through a constructor.
func (v TypedValue) IsValid() bool { return v.kind != KindInvalid }

// String returns the text substituted into message templates.
func (v TypedValue) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindString:
		return v.s
	}
	return ""
}

// Equal reports whether v and o hold the same kind, value and tag.
func (v TypedValue) Equal(o TypedValue) bool {
	return v == o
}
