package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDiscover Phase = "discover" // hosting library lookup
	PhaseLoad     Phase = "load"     // shared library load and export binding
	PhaseInit     Phase = "init"     // runtime context creation
	PhaseDelegate Phase = "delegate" // generic loader delegate retrieval
	PhaseResolve  Phase = "resolve"  // managed method resolution
	PhaseDispatch Phase = "dispatch" // calls through a bound entry point
	PhaseConfig   Phase = "config"   // harness configuration
)

// Kind categorizes the error
type Kind string

const (
	KindLibraryDiscovery  Kind = "library_discovery_failed"
	KindLibraryLoad       Kind = "library_load_failed"
	KindRuntimeInit       Kind = "runtime_init_failed"
	KindDelegateRetrieval Kind = "delegate_retrieval_failed"
	KindMethodResolution  Kind = "method_resolution_failed"
	KindNotInitialized    Kind = "not_initialized"
	KindInvalidInput      Kind = "invalid_input"
	KindInvalidState      Kind = "invalid_state"
	KindUnsupported       Kind = "unsupported"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Op     string
	Target string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Op != "" {
		b.WriteString(" in ")
		b.WriteString(e.Op)
	}

	if e.Target != "" {
		b.WriteString(" (")
		b.WriteString(e.Target)
		b.WriteByte(')')
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// IsKind reports whether any error in err's chain is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	for err != nil {
		if !stderrors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Cause
	}
	return false
}

// KindOf returns the kind of the outermost *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Op sets the operation name
func (b *Builder) Op(op string) *Builder {
	b.err.Op = op
	return b
}

// Target sets the path, export or method the operation acted on
func (b *Builder) Target(t string) *Builder {
	b.err.Target = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// LibraryDiscovery creates an error for a hosting library that could not be located.
// probed lists every location that was checked.
func LibraryDiscovery(probed []string, cause error) *Error {
	detail := "hosting library not found"
	if len(probed) > 0 {
		detail += "; probed " + strings.Join(probed, ", ")
	}
	return &Error{
		Phase:  PhaseDiscover,
		Kind:   KindLibraryDiscovery,
		Detail: detail,
		Cause:  cause,
	}
}

// LibraryLoad creates an error for a library that failed to load
func LibraryLoad(path string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindLibraryLoad,
		Target: path,
		Cause:  cause,
	}
}

// MissingExport creates an error for a required export absent from a loaded library
func MissingExport(path, export string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindLibraryLoad,
		Target: path,
		Detail: fmt.Sprintf("export %q not found", export),
		Value:  export,
		Cause:  cause,
	}
}

// RuntimeInit creates an error for a runtime context that could not be created
func RuntimeInit(configPath string, status any, cause error) *Error {
	e := &Error{
		Phase:  PhaseInit,
		Kind:   KindRuntimeInit,
		Target: configPath,
		Value:  status,
		Cause:  cause,
	}
	if status != nil {
		e.Detail = fmt.Sprintf("status %v", status)
	}
	return e
}

// DelegateRetrieval creates an error for a generic delegate that could not be obtained
func DelegateRetrieval(configPath string, status any) *Error {
	return &Error{
		Phase:  PhaseDelegate,
		Kind:   KindDelegateRetrieval,
		Target: configPath,
		Value:  status,
		Detail: fmt.Sprintf("status %v", status),
	}
}

// MethodResolution creates an error for a managed method that could not be resolved
func MethodResolution(method, typeName, detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindMethodResolution,
		Op:     method,
		Target: typeName,
		Detail: detail,
		Cause:  cause,
	}
}

// NotInitialized creates an error for an operation invoked without instance data
func NotInitialized(op string) *Error {
	return &Error{
		Phase:  PhaseDispatch,
		Kind:   KindNotInitialized,
		Op:     op,
		Detail: "instance data is null",
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// InvalidState creates an error for an operation not allowed in the current state
func InvalidState(op, detail string) *Error {
	return &Error{
		Phase:  PhaseDispatch,
		Kind:   KindInvalidState,
		Op:     op,
		Detail: detail,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
