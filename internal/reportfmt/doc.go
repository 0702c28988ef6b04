// Package reportfmt renders report trees for terminals.
package reportfmt
