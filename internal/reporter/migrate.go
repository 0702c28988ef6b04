package reporter

import (
	"fmt"
	"log/slog"

	"gridreport/internal/report"
)

// ToRoot converts a legacy model into a report tree. Tasks and reports both
// become nodes, in emission order; task and report keys are kept and every
// template is registered in the new tree's dictionary. When two legacy
// entries share a key with different templates, the later one wins.
func ToRoot(m *Model, logger *slog.Logger) (*report.Root, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil model", report.ErrInvalidArgument)
	}
	root, err := report.NewRootAdder().
		WithLogger(logger).
		WithKey(m.taskKey).
		WithMessageTemplate(m.defaultName).
		WithTypedValues(m.taskValues).
		Build()
	if err != nil {
		return nil, fmt.Errorf("migrate task %q: %w", m.taskKey, err)
	}
	if err := migrateItems(root.Node, m); err != nil {
		return nil, err
	}
	return root, nil
}

func migrateItems(parent *report.Node, m *Model) error {
	for _, it := range m.items {
		if it.report != nil {
			_, err := parent.NewChild().
				WithKey(it.report.Key).
				WithMessageTemplate(it.report.DefaultMessage).
				WithTypedValues(it.report.Values).
				Add()
			if err != nil {
				return fmt.Errorf("migrate report %q: %w", it.report.Key, err)
			}
			continue
		}
		node, err := parent.NewChild().
			WithKey(it.sub.taskKey).
			WithMessageTemplate(it.sub.defaultName).
			WithTypedValues(it.sub.taskValues).
			Add()
		if err != nil {
			return fmt.Errorf("migrate task %q: %w", it.sub.taskKey, err)
		}
		if err := migrateItems(node, it.sub); err != nil {
			return err
		}
	}
	return nil
}
