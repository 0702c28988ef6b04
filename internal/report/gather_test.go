package report

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"gridreport/internal/ctxlog"
)

func TestGatherIncludesInArgumentOrder(t *testing.T) {
	root := mustRoot(t, "root", "Security analysis")
	var builders []Builder
	for i := range 5 {
		builders = append(builders, func(ctx context.Context) (*Root, error) {
			// Later builders finish first.
			time.Sleep(time.Duration(5-i) * time.Millisecond)
			r, err := NewRootAdder().WithKey("contingency").WithMessageTemplate("unused").WithLogger(quietLogger()).Build()
			if err != nil {
				return nil, err
			}
			_, err = r.NewChild().WithKey("outage").WithMessageTemplate("Outage of ${line}").
				WithTypedValue("line", fmt.Sprintf("L%d", i), TypeID).Add()
			return r, err
		})
	}
	ctx := ctxlog.WithLogger(context.Background(), quietLogger())
	if err := Gather(ctx, root.Node, builders...); err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	kids := root.Children()
	if len(kids) != 5 {
		t.Fatalf("root has %d children, want 5", len(kids))
	}
	for i, c := range kids {
		if want := fmt.Sprintf("Outage of L%d", i); c.Message() != want {
			t.Errorf("child %d: Message() = %q, want %q", i, c.Message(), want)
		}
	}
}

func TestGatherError(t *testing.T) {
	root := mustRoot(t, "root", "root")
	boom := errors.New("boom")
	ok := func(ctx context.Context) (*Root, error) {
		return NewRoot("k", "k")
	}
	failing := func(ctx context.Context) (*Root, error) {
		return nil, boom
	}
	if err := Gather(context.Background(), root.Node, ok, failing, waitForCancel(ok)); !errors.Is(err, boom) {
		t.Fatalf("Gather() error = %v, want boom", err)
	}
	if len(root.Children()) != 0 {
		t.Fatalf("nothing must be included when a builder fails")
	}
}

func waitForCancel(b Builder) Builder {
	return func(ctx context.Context) (*Root, error) {
		<-ctx.Done()
		return b(ctx)
	}
}
