// Package reporter holds the reporter lineages that predate package report.
//
// They share one contract, Reporter, and differ in how values and messages
// are kept:
//
//   - Model stores every task and report with its own values and template.
//     Nothing is inherited. It persists as the version 1.0 document.
//   - Tree copies the parent's values into each sub-reporter at creation and
//     formats messages lazily.
//   - Logger formats each report when it arrives and hands it to the sink of
//     its severity. Reports without a SEVERITY-tagged reportSeverity value go
//     to the Info sink.
//   - LoggerTree does both.
//
// New code should build report trees directly. ToRoot migrates a Model.
package reporter
