package xlog

import (
	stderrs "errors"
	"strings"

	smerrors "github.com/Station-Manager/errors"
)

// Error kinds. Every error returned by this package carries exactly one of
// them in its cause chain; test with IsValidation, IsState and IsOperation.
var (
	// ErrValidation marks a blank or malformed argument. Nothing was mutated.
	ErrValidation = stderrs.New("validation error")
	// ErrState marks an operation attempted in the wrong handle state.
	ErrState = stderrs.New("state error")
	// ErrOperation marks a backend failure while applying a configuration.
	ErrOperation = stderrs.New("operation failed")
)

type kindError struct {
	kind error
	err  error
}

func (e *kindError) Error() string   { return e.err.Error() }
func (e *kindError) Unwrap() []error { return []error{e.kind, e.err} }

func validationError(op smerrors.Op, msg string) error {
	return smerrors.New(op).Err(ErrValidation).Msg(msg)
}

func stateError(op smerrors.Op, msg string) error {
	return smerrors.New(op).Err(ErrState).Msg(msg)
}

// operationError re-signals a backend failure, keeping its message.
func operationError(op smerrors.Op, cause error) error {
	if cause == nil {
		return nil
	}
	if IsValidation(cause) || IsState(cause) || IsOperation(cause) {
		return cause
	}
	return smerrors.New(op).Err(&kindError{kind: ErrOperation, err: cause}).Msg(cause.Error())
}

// IsValidation reports whether err was caused by an invalid argument.
func IsValidation(err error) bool { return hasKind(err, ErrValidation) }

// IsState reports whether err was caused by a handle state violation.
func IsState(err error) bool { return hasKind(err, ErrState) }

// IsOperation reports whether err wraps a backend failure.
func IsOperation(err error) bool { return hasKind(err, ErrOperation) }

func hasKind(err, kind error) bool {
	const maxDepth = 50
	for depth := 0; err != nil && depth < maxDepth; depth++ {
		if stderrs.Is(err, kind) {
			return true
		}
		if dErr, ok := smerrors.AsDetailedError(err); ok && dErr != nil {
			err = dErr.Cause()
			continue
		}
		err = stderrs.Unwrap(err)
	}
	return false
}

// buildErrorChain walks an error's cause chain and returns:
//   - chain: outermost -> innermost error messages
//   - ops: operation identifiers for DetailedError links ("" if not available)
//   - root: the innermost error message
//   - rootOp: the innermost operation identifier if available
//
// The traversal prefers Station-Manager DetailedError.Cause() and then
// falls back to stdlib errors.Unwrap. It guards against excessive depth
// and repeated messages to avoid cycles.
func buildErrorChain(err error) (chain []string, ops []string, root string, rootOp string) {
	const maxDepth = 50
	visited := 0
	seen := map[string]bool{}

	for err != nil && visited < maxDepth {
		visited++

		if dErr, ok := smerrors.AsDetailedError(err); ok && dErr != nil {
			chain = append(chain, dErr.Error())
			ops = append(ops, string(dErr.Op()))
			err = dErr.Cause()
			continue
		}

		msg := err.Error()
		if seen[msg] {
			break
		}
		seen[msg] = true
		chain = append(chain, msg)
		ops = append(ops, "")
		err = stderrs.Unwrap(err)
	}

	if len(chain) > 0 {
		root = chain[len(chain)-1]
	}
	if len(ops) > 0 {
		rootOp = ops[len(ops)-1]
	}
	return
}

// joinChain returns a single string for the error chain separated by " -> ".
func joinChain(chain []string) string {
	if len(chain) == 0 {
		return ""
	}
	return strings.Join(chain, " -> ")
}
