package treebuilder

import (
	"fmt"
	"strings"
)

// ParseError is a single soft parse error: malformed but recoverable
// input. The builder always continues after reporting one.
type ParseError struct {
	// Code is a WHATWG HTML5 parse-error code, e.g. "unexpected-null-character".
	Code string
	// Mode is the insertion mode active when the error was detected.
	Mode Mode
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%s (in %s)", e.Code, e.Mode)
}

// ParseErrors collects every ParseError reported during a parse.
type ParseErrors []ParseError

func (e ParseErrors) Error() string {
	if len(e) == 0 {
		return "no parse errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d parse errors:\n", len(e))
	for i, err := range e {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString("  - ")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// ResourceError is a hard error: the sink could not satisfy a
// creation or linking request (sink.NoMemory) or the configured
// allocator is exhausted (alloc.ErrExhausted). It propagates to the
// caller of the public operation in progress; the builder does not
// attempt to continue parsing afterward.
type ResourceError struct {
	Op  string
	Err error
}

func (e *ResourceError) Error() string { return fmt.Sprintf("treebuilder: %s: %v", e.Op, e.Err) }
func (e *ResourceError) Unwrap() error { return e.Err }

// reportError records code against the current mode and forwards it to
// the configured error handler, if any.
func (b *Builder) reportError(code string) {
	pe := ParseError{Code: code, Mode: b.mode}
	b.errs = append(b.errs, pe)
	if b.errorHandler != nil {
		b.errorHandler(pe)
	}
}

// contractViolation panics with a message identifying a caller or
// internal-invariant violation that is unrecoverable by design — e.g.
// an adoption-agency bookkeeping index that cannot legitimately be out
// of range.
func contractViolation(msg string) {
	panic("treebuilder: contract violation: " + msg)
}
