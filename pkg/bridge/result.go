package bridge

import "fmt"

// Status is the kind of reply a handler produced.
type Status int

const (
	// StatusSuccess carries a method's return value.
	StatusSuccess Status = iota
	// StatusError carries a structured error code and message.
	StatusError
	// StatusNotImplemented means the handler has no method by that name.
	StatusNotImplemented
)

// String returns the wire name of the status.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	case StatusNotImplemented:
		return "notImplemented"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result is the reply to a method call.
type Result struct {
	Status  Status
	Value   any    // set for StatusSuccess
	Code    string // set for StatusError
	Message string // set for StatusError
	Details any    // optional, StatusError only
}

// Success wraps a method's return value.
func Success(value any) Result {
	return Result{Status: StatusSuccess, Value: value}
}

// Error builds a structured error reply.
func Error(code, message string, details any) Result {
	return Result{Status: StatusError, Code: code, Message: message, Details: details}
}

// NotImplemented signals that no handler knows the method.
func NotImplemented() Result {
	return Result{Status: StatusNotImplemented}
}

// IsNotImplemented reports whether r is the not-implemented signal.
func (r Result) IsNotImplemented() bool {
	return r.Status == StatusNotImplemented
}
