// Package report implements the hierarchical functional log used by the grid
// toolkit: a tree of report nodes whose messages are templates resolved
// lazily against typed values.
//
// # Data model
//
//   - TypedValue - immutable (value, type tag) pair; value kinds are int64,
//     float64, bool and string.
//   - Dictionary - tree-wide, insertion-ordered key to template registry. Every
//     node registers its template on construction, so N nodes sharing a key
//     cost one dictionary entry.
//   - Node - key, own values, children and a pointer into the persistent chain
//     of ancestor value maps. Nodes never change after construction except for
//     appended children and the values Include copies in.
//   - Root - the top node of a tree plus the Dictionary it owns. It is the unit
//     of persistence.
//
// # Building
//
// Nodes are created through an Adder:
//
//	root, err := report.NewRootAdder().
//		WithKey("import").
//		WithMessageTemplate("Importing ${file}").
//		WithValue("file", "a.xml").
//		Build()
//
//	child, err := root.NewChild().
//		WithKey("skipped").
//		WithMessageTemplate("Skipped ${id}").
//		WithTypedValue("id", "BUS_7", report.TypeID).
//		WithSeverityLevel(report.SeverityWarn).
//		Add()
//
// An Adder is single use: a second Add returns ErrAlreadyAdded.
//
// # Messages
//
// Node.Message looks up the node template and substitutes each ${name}
// placeholder with the nearest value of that name: the node's own values
// first, then its parent's, up to the root. A placeholder nothing resolves
// stays in the output verbatim. A key with no dictionary entry renders
// MissingKeyMessage.
//
// # Persistence
//
// Serialize/Deserialize speak the versioned JSON document ("version",
// "reportTree", "dictionaries"); EncodeBinary/DecodeBinary provide a msgpack
// payload for caches. Version 1.0 documents belong to the legacy reporter
// model and are rejected here.
//
// # Concurrency
//
// A tree is not safe for concurrent mutation. Build independent sub-reports
// per goroutine and combine them with Node.Include (or Gather) from a single
// goroutine. Dictionary mutation is internally locked.
package report
