// Package diag implements the error sink the Code Generation Walker reports
// semantic errors to. Grounded on util/perror.go's buffered error collector,
// adapted from a channel-fed listener (the teacher runs one collector per
// worker pool) to a plain mutex-guarded slice, since §5 keeps one Walker
// single-threaded per compilation job.
package diag

import (
	"fmt"
	"sync"
)

// Severity classifies a Record.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Kind enumerates the error taxonomy of §7.
type Kind string

const (
	SyntaxError        Kind = "SyntaxError"
	UnknownType        Kind = "UnknownType"
	UndefinedSymbol    Kind = "UndefinedSymbol"
	DuplicateSymbol    Kind = "DuplicateSymbol"
	TypeMismatch       Kind = "TypeMismatch"
	InvalidCoercion    Kind = "InvalidCoercion"
	ArityMismatch      Kind = "ArityMismatch"
	MissingReturn      Kind = "MissingReturn"
	MutabilityViolation Kind = "MutabilityViolation"
	UseAfterMove       Kind = "UseAfterMove"
	InvalidLiteral     Kind = "InvalidLiteral"
	IrError            Kind = "IrError"
	Disposed           Kind = "Disposed"
	IoError            Kind = "IoError"
)

// Record is one accumulated diagnostic, matching §3's Error Record.
type Record struct {
	Severity Severity
	Kind     Kind
	Message  string
	File     string
	Line     int
	Col      int
}

// Sink accumulates Records in insertion order and enforces the error
// ceiling described in §4.4's failure semantics.
type Sink struct {
	mu      sync.Mutex
	records []Record
	ceiling int // Always > 0: NewSink replaces a ceiling <= 0 with DefaultCeiling.
}

// DefaultCeiling is the fallback error ceiling per compilation unit.
const DefaultCeiling = 200

// NewSink returns a Sink with the given per-unit error ceiling. A ceiling
// <= 0 falls back to DefaultCeiling.
func NewSink(ceiling int) *Sink {
	if ceiling <= 0 {
		ceiling = DefaultCeiling
	}
	return &Sink{records: make([]Record, 0, 16), ceiling: ceiling}
}

// Report appends a Record to the sink in insertion order.
func (s *Sink) Report(r Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
}

// Errorf is a convenience wrapper building a SeverityError Record.
func (s *Sink) Errorf(kind Kind, file string, line, col int, format string, args ...interface{}) {
	s.Report(Record{
		Severity: SeverityError,
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		File:     file,
		Line:     line,
		Col:      col,
	})
}

// ErrorCountForUnit reports how many SeverityError records have been
// accumulated for the given file identifier so far.
func (s *Sink) ErrorCountForUnit(file string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.records {
		if r.Severity == SeverityError && r.File == file {
			n++
		}
	}
	return n
}

// OverCeilingForUnit reports whether file has accumulated at least as many
// errors as the sink's configured ceiling. Once true, §4.4 directs the
// Walker to stop lowering that unit (registration phases for other units
// still run to completion).
func (s *Sink) OverCeilingForUnit(file string) bool {
	return s.ErrorCountForUnit(file) >= s.ceiling
}

// Records returns a copy of all accumulated Records in insertion order.
func (s *Sink) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Success reports true iff no Record of severity >= SeverityError was added.
func (s *Sink) Success() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.Severity >= SeverityError {
			return false
		}
	}
	return true
}
