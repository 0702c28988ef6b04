package report

import "errors"

var (
	// ErrInvalidValueKind is returned when a typed value is built from an
	// unsupported Go type.
	ErrInvalidValueKind = errors.New("report: invalid value kind")
	// ErrInvalidArgument is returned for malformed builder input.
	ErrInvalidArgument = errors.New("report: invalid argument")
	// ErrAlreadyAdded is returned by a second Add/Build on the same Adder.
	ErrAlreadyAdded = errors.New("report: adder already used")
	// ErrCyclicInclude is returned when a root is included into its own tree.
	ErrCyclicInclude = errors.New("report: cyclic include")

	// ErrUnsupportedVersion is returned for documents with an unknown version.
	ErrUnsupportedVersion = errors.New("report: unsupported version")
	// ErrNoBackwardCompat marks versions that are recognised but deliberately
	// not readable. It matches ErrUnsupportedVersion with errors.Is.
	ErrNoBackwardCompat = &noBackwardCompatError{}
	// ErrNonFiniteValue is returned when serializing NaN or ±Inf.
	ErrNonFiniteValue = errors.New("report: non-finite float value")
	// ErrMalformedDocument is returned when a document is not a report.
	ErrMalformedDocument = errors.New("report: malformed document")
)

type noBackwardCompatError struct{}

func (*noBackwardCompatError) Error() string {
	return "report: no backward compatibility for this version"
}

func (*noBackwardCompatError) Is(target error) bool {
	return target == ErrUnsupportedVersion
}
