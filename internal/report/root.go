package report

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"gridreport/internal/ctxlog"
)

// Root is the top node of a report tree. It owns the tree dictionary.
type Root struct {
	*Node
}

// NewRoot is a shorthand for a root with a key, a template and untyped
// string values given as name/value pairs.
func NewRoot(key, template string, kv ...string) (*Root, error) {
	a := NewRootAdder().WithKey(key).WithMessageTemplate(template)
	for i := 0; i+1 < len(kv); i += 2 {
		a.WithValue(kv[i], kv[i+1])
	}
	return a.Build()
}

// Builder produces an independent sub-report.
type Builder func(ctx context.Context) (*Root, error)

// Gather runs builders concurrently, each producing its own Root, and then
// includes the results under into, in argument order, from the calling
// goroutine. On error nothing is included.
func Gather(ctx context.Context, into *Node, builders ...Builder) error {
	results := make([]*Root, len(builders))
	g, gctx := errgroup.WithContext(ctx)
	for i, build := range builders {
		g.Go(func() error {
			r, err := build(gctx)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	log := ctxlog.FromContext(ctx)
	for i, r := range results {
		if r == nil {
			log.Debug("sub-report builder returned no root", slog.Int("index", i))
			continue
		}
		if err := into.Include(r); err != nil {
			return err
		}
	}
	return nil
}
