package report

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type nodeView struct {
	Key      string
	Values   map[string]TypedValue
	Message  string
	Children []nodeView
}

func viewOf(n *Node) nodeView {
	v := nodeView{Key: n.Key(), Values: n.Values(), Message: n.Message()}
	for _, c := range n.Children() {
		v.Children = append(v.Children, viewOf(c))
	}
	return v
}

func scenarioRoot(t *testing.T) *Root {
	t.Helper()
	root := mustRoot(t, "root", "Report")
	imp := mustAdd(t, root.NewChild().WithKey("import").WithMessageTemplate("Importing ${file}").WithValue("file", "a.xml"))
	mustAdd(t, imp.NewChild().WithKey("warn").WithMessageTemplate("Skipped ${id}").WithValue("id", "BUS_7"))
	return root
}

func roundTrip(t *testing.T, root *Root, opts SerializeOptions) *Root {
	t.Helper()
	var buf bytes.Buffer
	if err := Serialize(&buf, root, opts); err != nil {
		t.Fatalf("Serialize() error: %v", err)
	}
	back, err := Deserialize(&buf, DeserializeOptions{Logger: quietLogger()})
	if err != nil {
		t.Fatalf("Deserialize() error: %v", err)
	}
	return back
}

func TestSerializeScenario(t *testing.T) {
	var buf bytes.Buffer
	if err := Serialize(&buf, scenarioRoot(t), SerializeOptions{}); err != nil {
		t.Fatalf("Serialize() error: %v", err)
	}
	want := `{"version":"2.1",` +
		`"reportTree":{"key":"root","children":[{"key":"import","values":{"file":{"value":"a.xml"}},` +
		`"children":[{"key":"warn","values":{"id":{"value":"BUS_7"}}}]}]},` +
		`"dictionaries":{"default":{"root":"Report","import":"Importing ${file}","warn":"Skipped ${id}"}}}` + "\n"
	if got := buf.String(); got != want {
		t.Fatalf("Serialize mismatch:\n got: %s\nwant: %s", got, want)
	}

	back, err := Deserialize(&buf, DeserializeOptions{Logger: quietLogger()})
	if err != nil {
		t.Fatalf("Deserialize() error: %v", err)
	}
	imp := back.Children()[0]
	if got := imp.Message(); got != "Importing a.xml" {
		t.Errorf("import message = %q", got)
	}
	if got := imp.Children()[0].Message(); got != "Skipped BUS_7" {
		t.Errorf("warn message = %q", got)
	}
}

func TestRoundTrip(t *testing.T) {
	root := mustRoot(t, "root", "Network ${network} in ${zone}", "network", "N1", "zone", "A")
	sub := mustAdd(t, root.NewChild().
		WithKey("loadflow").
		WithMessageTemplate("Load flow on ${zone}: ${iterations} iterations, converged=${ok}, mismatch ${mismatch} MW").
		WithValue("zone", "B").
		WithTypedValue("iterations", 7, TypeUntyped).
		WithTypedValue("ok", true, TypeUntyped).
		WithTypedValue("mismatch", 2.0, TypeActivePower).
		WithSeverityLevel(SeverityInfo))
	for i := range 3 {
		mustAdd(t, sub.NewChild().
			WithKey("busViolation").
			WithMessageTemplate("Bus ${id} voltage ${v} kV in ${zone}").
			WithTypedValue("id", "BUS_"+string(rune('0'+i)), TypeID).
			WithTypedValue("v", 380.5+float64(i), TypeVoltage).
			WithSeverityLevel(SeverityWarn))
	}
	mustAdd(t, root.NewChild().WithKey("end").WithMessageTemplate("${network} done").WithTypedValue("n", int64(math.MaxInt64), TypeUntyped))

	for _, version := range []string{Version20, Version21} {
		back := roundTrip(t, root, SerializeOptions{Version: version, Indent: "  "})
		if diff := cmp.Diff(viewOf(root.Node), viewOf(back.Node)); diff != "" {
			t.Errorf("version %s round trip mismatch (-want +got):\n%s", version, diff)
		}
	}
}

func TestFloatKindSurvivesRoundTrip(t *testing.T) {
	r, err := NewRootAdder().WithKey("r").WithMessageTemplate("${f} ${i} ${e}").
		WithValue("f", 3.0).WithValue("i", 3).WithValue("e", 1e300).WithLogger(quietLogger()).Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	back := roundTrip(t, r, SerializeOptions{})
	f, _ := back.Value("f")
	i, _ := back.Value("i")
	e, _ := back.Value("e")
	if f.Kind() != KindFloat || i.Kind() != KindInt || e.Kind() != KindFloat {
		t.Fatalf("kinds after round trip: f=%v i=%v e=%v", f.Kind(), i.Kind(), e.Kind())
	}
}

func TestSerializedDictionaryIsDeduplicated(t *testing.T) {
	root := mustRoot(t, "root", "root")
	for i := range 100 {
		mustAdd(t, root.NewChild().WithKey("step").WithMessageTemplate("Step ${i}").WithValue("i", i))
	}
	var buf bytes.Buffer
	if err := Serialize(&buf, root, SerializeOptions{}); err != nil {
		t.Fatalf("Serialize() error: %v", err)
	}
	if got := strings.Count(buf.String(), `"Step ${i}"`); got != 1 {
		t.Fatalf("template written %d times, want 1", got)
	}
	back, err := Deserialize(&buf, DeserializeOptions{Logger: quietLogger()})
	if err != nil {
		t.Fatalf("Deserialize() error: %v", err)
	}
	if got := back.Children()[99].Message(); got != "Step 99" {
		t.Fatalf("Message() = %q", got)
	}
}

func TestLocaleFallback(t *testing.T) {
	const doc = `{"version":"2.1","reportTree":{"key":"k","values":{"n":{"value":3}}},` +
		`"dictionaries":{"de":{"k":"Es gibt ${n} Umspannwerke"},"fr":{"k":"Il y a ${n} postes"}}}`
	cases := []struct {
		locale string
		want   string
	}{
		{"", "Es gibt 3 Umspannwerke"},
		{"fr", "Il y a 3 postes"},
		{"fr-FR", "Il y a 3 postes"},
		{"default", "Es gibt 3 Umspannwerke"},
	}
	for _, tc := range cases {
		root, err := Deserialize(strings.NewReader(doc), DeserializeOptions{Locale: tc.locale, Logger: quietLogger()})
		if err != nil {
			t.Fatalf("Deserialize(locale=%q) error: %v", tc.locale, err)
		}
		if got := root.Message(); got != tc.want {
			t.Errorf("locale %q: Message() = %q, want %q", tc.locale, got, tc.want)
		}
	}
}

func TestLocaleFallbackSingleDictionary(t *testing.T) {
	const doc = `{"version":"2.1","reportTree":{"key":"k","values":{"n":{"value":3}}},"dictionaries":{"fr":{"k":"Il y a ${n} postes"}}}`
	root, err := Deserialize(strings.NewReader(doc), DeserializeOptions{Logger: quietLogger()})
	if err != nil {
		t.Fatalf("Deserialize() error: %v", err)
	}
	if got := root.Message(); got != "Il y a 3 postes" {
		t.Fatalf("Message() = %q", got)
	}
}

func TestVersionDispatch(t *testing.T) {
	cases := []struct {
		version  string
		wantErr  error
		noCompat bool
	}{
		{"2.0", nil, false},
		{"2.1", nil, false},
		{"1.0", ErrUnsupportedVersion, true},
		{"3.7", ErrUnsupportedVersion, false},
		{"", ErrUnsupportedVersion, false},
	}
	for _, tc := range cases {
		doc := `{"version":"` + tc.version + `","reportTree":{"key":"k"},"dictionaries":{"default":{"k":"K"}}}`
		root, err := Deserialize(strings.NewReader(doc), DeserializeOptions{Logger: quietLogger()})
		if tc.wantErr == nil {
			if err != nil {
				t.Errorf("version %q: unexpected error %v", tc.version, err)
			}
			continue
		}
		if !errors.Is(err, tc.wantErr) || root != nil {
			t.Errorf("version %q: got (%v, %v), want %v", tc.version, root, err, tc.wantErr)
		}
		if got := errors.Is(err, ErrNoBackwardCompat); got != tc.noCompat {
			t.Errorf("version %q: errors.Is(ErrNoBackwardCompat) = %v, want %v", tc.version, got, tc.noCompat)
		}
	}
}

func TestVersionRejectedBeforeTreeIsRead(t *testing.T) {
	const doc = `{"version":"1.0","reportTree":not json at all`
	_, err := Deserialize(strings.NewReader(doc), DeserializeOptions{Logger: quietLogger()})
	if !errors.Is(err, ErrNoBackwardCompat) {
		t.Fatalf("error = %v, want ErrNoBackwardCompat", err)
	}
}

func TestMissingDictionaryEntries(t *testing.T) {
	const doc = `{"version":"2.1","reportTree":{"key":"k","children":[{"key":"ghost"}]},"dictionaries":{"default":{"k":"Known"}}}`
	root, err := Deserialize(strings.NewReader(doc), DeserializeOptions{Logger: quietLogger()})
	if err != nil {
		t.Fatalf("Deserialize() error: %v", err)
	}
	if got := root.Message(); got != "Known" {
		t.Errorf("Message() = %q", got)
	}
	if got, want := root.Children()[0].Message(), MissingKeyMessage("ghost"); got != want {
		t.Errorf("Message() = %q, want %q", got, want)
	}

	const noDict = `{"version":"2.1","reportTree":{"key":"k"}}`
	root, err = Deserialize(strings.NewReader(noDict), DeserializeOptions{Logger: quietLogger()})
	if err != nil {
		t.Fatalf("Deserialize(no dictionaries) error: %v", err)
	}
	if got := root.Message(); !strings.HasPrefix(got, MissingKeyPrefix) {
		t.Errorf("Message() = %q, want missing-key marker", got)
	}
}

func TestMalformedDocuments(t *testing.T) {
	for _, doc := range []string{
		``,
		`[]`,
		`{"reportTree":{"key":"k"}}`,
		`{"version":"2.1"}`,
		`{"version":"2.1","reportTree":{"key":"k"},"dictionaries":{"default":["k"]}}`,
	} {
		if _, err := Deserialize(strings.NewReader(doc), DeserializeOptions{Logger: quietLogger()}); !errors.Is(err, ErrMalformedDocument) {
			t.Errorf("Deserialize(%q) error = %v, want ErrMalformedDocument", doc, err)
		}
	}
}

func TestUnreadableValueIsSkipped(t *testing.T) {
	const doc = `{"version":"2.1","reportTree":{"key":"k","values":{"a":{"value":null},"b":{"value":"ok"}}},"dictionaries":{"default":{"k":"${a} ${b}"}}}`
	root, err := Deserialize(strings.NewReader(doc), DeserializeOptions{Logger: quietLogger()})
	if err != nil {
		t.Fatalf("Deserialize() error: %v", err)
	}
	if got := root.Message(); got != "${a} ok" {
		t.Fatalf("Message() = %q", got)
	}
}

func TestSerializeErrors(t *testing.T) {
	r, err := NewRootAdder().WithKey("k").WithValue("x", math.Inf(1)).WithLogger(quietLogger()).Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	var buf bytes.Buffer
	if err := Serialize(&buf, r, SerializeOptions{}); !errors.Is(err, ErrNonFiniteValue) {
		t.Errorf("Serialize(+Inf) error = %v, want ErrNonFiniteValue", err)
	}
	if err := Serialize(&buf, scenarioRoot(t), SerializeOptions{Version: Version10}); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("Serialize(1.0) error = %v, want ErrUnsupportedVersion", err)
	}
	if err := Serialize(&buf, nil, SerializeOptions{}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Serialize(nil) error = %v, want ErrInvalidArgument", err)
	}
}

func TestVersion20WritesUntypedTags(t *testing.T) {
	var buf bytes.Buffer
	if err := Serialize(&buf, scenarioRoot(t), SerializeOptions{Version: Version20, Locale: "en"}); err != nil {
		t.Fatalf("Serialize() error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"type":"UNTYPED"`) || !strings.Contains(out, `"en":{`) {
		t.Fatalf("unexpected 2.0 document: %s", out)
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	root := scenarioRoot(t)
	if err := WriteFile(path, root, SerializeOptions{Indent: "\t"}); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	back, err := ReadFile(path, DeserializeOptions{Logger: quietLogger()})
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if diff := cmp.Diff(viewOf(root.Node), viewOf(back.Node)); diff != "" {
		t.Fatalf("file round trip mismatch (-want +got):\n%s", diff)
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.json"), DeserializeOptions{}); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("ReadFile(missing) error = %v, want os.ErrNotExist", err)
	}
}

func TestRoundTripKeepsIncludedRootValues(t *testing.T) {
	root := mustRoot(t, "root", "Root")
	other := mustRoot(t, "lib", "Library run", "zone", "L")
	a := mustAdd(t, other.NewChild().WithKey("libA").WithMessageTemplate("A in ${zone}"))
	mustAdd(t, a.NewChild().WithKey("libDeep").WithMessageTemplate("deep in ${zone}"))
	mustAdd(t, other.NewChild().WithKey("libB").WithMessageTemplate("B in ${zone}").WithValue("zone", "own"))
	if err := root.Include(other); err != nil {
		t.Fatalf("Include() error: %v", err)
	}
	want := "+ Root\n   + A in L\n      deep in L\n   B in own\n"
	if got := root.String(); got != want {
		t.Fatalf("tree before round trip = %q, want %q", got, want)
	}
	back := roundTrip(t, root, SerializeOptions{})
	if got := back.String(); got != want {
		t.Fatalf("tree after round trip = %q, want %q", got, want)
	}
}

func TestRoundTripAfterInclude(t *testing.T) {
	root := mustRoot(t, "root", "Root")
	other := mustRoot(t, "lib", "Library")
	mustAdd(t, other.NewChild().WithKey("libStep").WithMessageTemplate("step ${n}").WithValue("n", 1))
	if err := root.Include(other); err != nil {
		t.Fatalf("Include() error: %v", err)
	}
	back := roundTrip(t, root, SerializeOptions{})
	if diff := cmp.Diff(viewOf(root.Node), viewOf(back.Node)); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}
