package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"

	"gridreport/internal/report"
)

// ModelVersion is the only document version of the legacy model.
const ModelVersion = report.Version10

type modelValueJSON struct {
	Value json.RawMessage `json:"value"`
	Type  string          `json:"type"`
}

type reportJSON struct {
	ReportKey      string                    `json:"reportKey"`
	DefaultMessage string                    `json:"defaultMessage"`
	Values         map[string]modelValueJSON `json:"values,omitempty"`
}

type modelJSON struct {
	TaskKey      string                    `json:"taskKey"`
	DefaultName  string                    `json:"defaultName"`
	TaskValues   map[string]modelValueJSON `json:"taskValues,omitempty"`
	Reports      []reportJSON              `json:"reports,omitempty"`
	SubReporters []*modelJSON              `json:"subReporters,omitempty"`
}

type modelDocumentJSON struct {
	Version    string     `json:"version"`
	ReportTree *modelJSON `json:"reportTree"`
}

// WriteJSON writes m as a version 1.0 legacy document.
func (m *Model) WriteJSON(w io.Writer) error {
	tree, err := m.toJSON()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(modelDocumentJSON{Version: ModelVersion, ReportTree: tree}); err != nil {
		return fmt.Errorf("encode reporter model: %w", err)
	}
	return nil
}

func (m *Model) toJSON() (*modelJSON, error) {
	task, err := valuesToJSON(m.taskValues)
	if err != nil {
		return nil, fmt.Errorf("task %q: %w", m.taskKey, err)
	}
	out := &modelJSON{TaskKey: m.taskKey, DefaultName: m.defaultName, TaskValues: task}
	for _, r := range m.Reports() {
		values, err := valuesToJSON(r.Values)
		if err != nil {
			return nil, fmt.Errorf("report %q: %w", r.Key, err)
		}
		out.Reports = append(out.Reports, reportJSON{ReportKey: r.Key, DefaultMessage: r.DefaultMessage, Values: values})
	}
	for _, sub := range m.SubReporters() {
		sj, err := sub.toJSON()
		if err != nil {
			return nil, err
		}
		out.SubReporters = append(out.SubReporters, sj)
	}
	return out, nil
}

func valuesToJSON(values map[string]report.TypedValue) (map[string]modelValueJSON, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make(map[string]modelValueJSON, len(values))
	for _, name := range slices.Sorted(maps.Keys(values)) {
		v := values[name]
		raw, err := report.EncodeValue(v)
		if err != nil {
			return nil, fmt.Errorf("value %q: %w", name, err)
		}
		out[name] = modelValueJSON{Value: raw, Type: v.Type()}
	}
	return out, nil
}

// ReadJSON reads a version 1.0 legacy document. Reports are restored before
// sub-reporters within each task, as the format keeps them apart.
func ReadJSON(r io.Reader, logger *slog.Logger) (*Model, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var doc modelDocumentJSON
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", report.ErrMalformedDocument, err)
	}
	if doc.Version != ModelVersion {
		return nil, fmt.Errorf("%w: reporter model %q", report.ErrUnsupportedVersion, doc.Version)
	}
	if doc.ReportTree == nil {
		return nil, fmt.Errorf("%w: missing reportTree", report.ErrMalformedDocument)
	}
	return modelFromJSON(doc.ReportTree, logger), nil
}

func modelFromJSON(mj *modelJSON, logger *slog.Logger) *Model {
	m := NewModel(mj.TaskKey, mj.DefaultName, valuesFromJSON(mj.TaskValues, mj.TaskKey, logger))
	for _, rj := range mj.Reports {
		m.Report(Report{
			Key:            rj.ReportKey,
			DefaultMessage: rj.DefaultMessage,
			Values:         valuesFromJSON(rj.Values, rj.ReportKey, logger),
		})
	}
	for _, sj := range mj.SubReporters {
		if sj == nil {
			continue
		}
		sub := modelFromJSON(sj, logger)
		m.items = append(m.items, modelItem{sub: sub})
	}
	return m
}

func valuesFromJSON(in map[string]modelValueJSON, owner string, logger *slog.Logger) map[string]report.TypedValue {
	out := make(map[string]report.TypedValue, len(in))
	for name, vj := range in {
		v, err := report.DecodeValue(vj.Value, vj.Type)
		if err != nil {
			logger.Warn("skipping unreadable reporter value",
				slog.String("key", owner), slog.String("value", name), slog.Any("error", err))
			continue
		}
		out[name] = v
	}
	return out
}
