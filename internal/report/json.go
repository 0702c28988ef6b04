package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"

	"golang.org/x/text/language"
)

// Document versions.
const (
	// Version10 is the legacy reporter model format. It is recognised only
	// to be rejected.
	Version10 = "1.0"
	// Version20 always writes value types.
	Version20 = "2.0"
	// Version21 omits the type of untyped values.
	Version21 = "2.1"

	CurrentVersion = Version21
)

// DefaultLocale names the dictionary written and requested by default.
const DefaultLocale = "default"

// SerializeOptions configures Serialize.
type SerializeOptions struct {
	// Locale names the written dictionary. Empty means DefaultLocale.
	Locale string
	// Version selects the document version. Empty means CurrentVersion.
	Version string
	// Indent, when set, pretty-prints the document with this indent.
	Indent string
}

// DeserializeOptions configures Deserialize.
type DeserializeOptions struct {
	// Locale selects the dictionary. Empty means DefaultLocale.
	Locale string
	// Logger receives fallback and degradation warnings, and becomes the
	// logger of the rebuilt tree dictionary.
	Logger *slog.Logger
}

type jsonValue struct {
	Value json.RawMessage `json:"value"`
	Type  string          `json:"type,omitempty"`
}

type jsonNode struct {
	Key      string               `json:"key"`
	Values   map[string]jsonValue `json:"values,omitempty"`
	Children []*jsonNode          `json:"children,omitempty"`
}

type jsonDictionary struct {
	locale  string
	entries []Entry
}

type jsonDictionaries []jsonDictionary

// MarshalJSON keeps locales and entries in insertion order.
func (ds jsonDictionaries) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, d := range ds {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeJSONString(&buf, d.locale)
		buf.WriteString(":{")
		for j, e := range d.entries {
			if j > 0 {
				buf.WriteByte(',')
			}
			writeJSONString(&buf, e.Key)
			buf.WriteByte(':')
			writeJSONString(&buf, e.Template)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSONString(buf *bytes.Buffer, s string) {
	b, _ := json.Marshal(s)
	buf.Write(b)
}

type jsonDocument struct {
	Version      string           `json:"version"`
	ReportTree   *jsonNode        `json:"reportTree"`
	Dictionaries jsonDictionaries `json:"dictionaries"`
}

// Serialize writes root as a versioned JSON document.
func Serialize(w io.Writer, root *Root, opts SerializeOptions) error {
	if root == nil || root.Node == nil {
		return fmt.Errorf("%w: nil root", ErrInvalidArgument)
	}
	version := opts.Version
	if version == "" {
		version = CurrentVersion
	}
	if version != Version20 && version != Version21 {
		return fmt.Errorf("%w: cannot write %q", ErrUnsupportedVersion, version)
	}
	locale := opts.Locale
	if locale == "" {
		locale = DefaultLocale
	}

	tree, err := encodeNode(root.Node, version)
	if err != nil {
		return err
	}
	doc := jsonDocument{
		Version:    version,
		ReportTree: tree,
		Dictionaries: jsonDictionaries{{
			locale:  locale,
			entries: usedEntries(root),
		}},
	}
	enc := json.NewEncoder(w)
	if opts.Indent != "" {
		enc.SetIndent("", opts.Indent)
	}
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// usedEntries returns the dictionary entries of keys present in the tree,
// in dictionary order.
func usedEntries(root *Root) []Entry {
	used := make(map[string]struct{})
	root.Walk(func(n *Node, _ int) bool {
		used[n.key] = struct{}{}
		return true
	})
	all := root.Dictionary().Snapshot()
	out := all[:0]
	for _, e := range all {
		if _, ok := used[e.Key]; ok {
			out = append(out, e)
		}
	}
	return out
}

func encodeNode(n *Node, version string) (*jsonNode, error) {
	jn := &jsonNode{Key: n.key}
	if len(n.own.values) > 0 {
		jn.Values = make(map[string]jsonValue, len(n.own.values))
		for name, v := range n.own.values {
			raw, err := EncodeValue(v)
			if err != nil {
				return nil, fmt.Errorf("node %q value %q: %w", n.key, name, err)
			}
			jv := jsonValue{Value: raw, Type: v.typ}
			if version == Version21 && v.typ == TypeUntyped {
				jv.Type = ""
			}
			jn.Values[name] = jv
		}
	}
	for _, c := range n.children {
		jc, err := encodeNode(c, version)
		if err != nil {
			return nil, err
		}
		jn.Children = append(jn.Children, jc)
	}
	return jn, nil
}

// EncodeValue returns the JSON form of v's value. Floats always carry a
// fraction or exponent so that they are not read back as integers.
func EncodeValue(v TypedValue) (json.RawMessage, error) {
	switch v.kind {
	case KindInt:
		return json.RawMessage(strconv.FormatInt(v.i, 10)), nil
	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return nil, ErrNonFiniteValue
		}
		s := strconv.FormatFloat(v.f, 'g', -1, 64)
		if !bytes.ContainsAny([]byte(s), ".eE") {
			s += ".0"
		}
		return json.RawMessage(s), nil
	case KindBool:
		return json.RawMessage(strconv.FormatBool(v.b)), nil
	case KindString:
		return json.Marshal(v.s)
	}
	return nil, ErrInvalidValueKind
}

// DecodeValue is the inverse of EncodeValue.
func DecodeValue(raw json.RawMessage, typ string) (TypedValue, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return TypedValue{}, fmt.Errorf("%w: empty value", ErrMalformedDocument)
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return TypedValue{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}
		return NewTypedValue(s, typ)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return TypedValue{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}
		return NewTypedValue(b, typ)
	case 'n':
		return TypedValue{}, fmt.Errorf("%w: null value", ErrMalformedDocument)
	}
	s := string(raw)
	if !bytes.ContainsAny(raw, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return NewTypedValue(i, typ)
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return TypedValue{}, fmt.Errorf("%w: bad number %s", ErrMalformedDocument, s)
	}
	return NewTypedValue(f, typ)
}

// Deserialize reads a JSON document written by Serialize (versions 2.0 and
// 2.1). Missing dictionary entries and unreadable values degrade with a
// warning; unknown versions fail with ErrUnsupportedVersion.
func Deserialize(r io.Reader, opts DeserializeOptions) (*Root, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	locale := opts.Locale
	if locale == "" {
		locale = DefaultLocale
	}

	dec := json.NewDecoder(r)
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	var (
		version    string
		hasVersion bool
		tree       *jsonNode
		dicts      jsonDictionaries
	)
	for dec.More() {
		name, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		switch name {
		case "version":
			if err := dec.Decode(&version); err != nil {
				return nil, fmt.Errorf("%w: version: %v", ErrMalformedDocument, err)
			}
			if err := checkVersion(version); err != nil {
				return nil, err
			}
			hasVersion = true
		case "reportTree":
			if err := dec.Decode(&tree); err != nil {
				return nil, fmt.Errorf("%w: reportTree: %v", ErrMalformedDocument, err)
			}
		case "dictionaries":
			if dicts, err = readDictionaries(dec); err != nil {
				return nil, err
			}
		default:
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrMalformedDocument, name, err)
			}
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	if !hasVersion {
		return nil, fmt.Errorf("%w: missing version", ErrMalformedDocument)
	}
	if tree == nil {
		return nil, fmt.Errorf("%w: missing reportTree", ErrMalformedDocument)
	}

	var entries map[string]string
	if d, ok := selectDictionary(dicts, locale, logger); ok {
		entries = make(map[string]string, len(d.entries))
		for _, e := range d.entries {
			entries[e.Key] = e.Template
		}
	}
	b := treeBuilder{
		entries: entries,
		logger:  logger,
		ctx:     &contextRef{dict: NewDictionary(logger)},
	}
	return &Root{Node: b.build(tree, nil)}, nil
}

func checkVersion(v string) error {
	switch v {
	case Version20, Version21:
		return nil
	case Version10:
		return fmt.Errorf("%w: %s", ErrNoBackwardCompat, v)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedVersion, v)
}

// selectDictionary picks the requested locale, else the closest language
// match, else the first dictionary of the document.
func selectDictionary(dicts jsonDictionaries, want string, logger *slog.Logger) (jsonDictionary, bool) {
	if len(dicts) == 0 {
		logger.Warn("report document has no dictionary, messages will be missing")
		return jsonDictionary{}, false
	}
	for _, d := range dicts {
		if d.locale == want {
			return d, true
		}
	}
	if i, ok := matchLocale(dicts, want); ok {
		logger.Warn("report dictionary not found, using closest locale",
			slog.String("requested", want), slog.String("used", dicts[i].locale))
		return dicts[i], true
	}
	logger.Warn("report dictionary not found, using first available",
		slog.String("requested", want), slog.String("used", dicts[0].locale))
	return dicts[0], true
}

func matchLocale(dicts jsonDictionaries, want string) (int, bool) {
	wantTag, err := language.Parse(want)
	if err != nil {
		return 0, false
	}
	var (
		tags []language.Tag
		idx  []int
	)
	for i, d := range dicts {
		t, err := language.Parse(d.locale)
		if err != nil {
			continue
		}
		tags = append(tags, t)
		idx = append(idx, i)
	}
	if len(tags) == 0 {
		return 0, false
	}
	_, i, conf := language.NewMatcher(tags).Match(wantTag)
	if conf == language.No {
		return 0, false
	}
	return idx[i], true
}

type treeBuilder struct {
	entries map[string]string
	logger  *slog.Logger
	ctx     *contextRef
}

func (b *treeBuilder) build(jn *jsonNode, inherited *valueChain) *Node {
	values := make(map[string]TypedValue, len(jn.Values))
	for name, jv := range jn.Values {
		typ := jv.Type
		if typ == "" {
			typ = TypeUntyped
		}
		v, err := DecodeValue(jv.Value, typ)
		if err != nil {
			b.logger.Warn("skipping unreadable report value",
				slog.String("key", jn.Key), slog.String("value", name), slog.Any("error", err))
			continue
		}
		values[name] = v
	}
	n := &Node{
		key: jn.Key,
		own: &valueChain{values: values, next: inherited},
		ctx: b.ctx,
	}
	if tmpl, ok := b.entries[jn.Key]; ok {
		b.ctx.dict.Put(jn.Key, tmpl)
	} else {
		b.logger.Warn("report key missing from dictionary", slog.String("key", jn.Key))
	}
	for _, jc := range jn.Children {
		if jc == nil {
			continue
		}
		n.children = append(n.children, b.build(jc, n.own))
	}
	return n
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	s, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("%w: expected object key, got %v", ErrMalformedDocument, tok)
	}
	return s, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: unexpected end of document", ErrMalformedDocument)
		}
		return fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("%w: expected %q, got %v", ErrMalformedDocument, want, tok)
	}
	return nil
}

func readDictionaries(dec *json.Decoder) (jsonDictionaries, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	var out jsonDictionaries
	for dec.More() {
		locale, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		d := jsonDictionary{locale: locale}
		if err := expectDelim(dec, '{'); err != nil {
			return nil, err
		}
		for dec.More() {
			key, err := readKey(dec)
			if err != nil {
				return nil, err
			}
			var tmpl string
			if err := dec.Decode(&tmpl); err != nil {
				return nil, fmt.Errorf("%w: dictionary %q key %q: %v", ErrMalformedDocument, locale, key, err)
			}
			d.entries = append(d.entries, Entry{Key: key, Template: tmpl})
		}
		if err := expectDelim(dec, '}'); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return out, nil
}

// WriteFile serializes root to path.
func WriteFile(path string, root *Root, opts SerializeOptions) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close report %s: %w", path, cerr)
		}
	}()
	if err := Serialize(f, root, opts); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}

// ReadFile deserializes the report stored at path.
func ReadFile(path string, opts DeserializeOptions) (*Root, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open report %s: %w", path, err)
	}
	defer f.Close()
	root, err := Deserialize(f, opts)
	if err != nil {
		return nil, fmt.Errorf("read report %s: %w", path, err)
	}
	return root, nil
}
