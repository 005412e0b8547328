package bfhl

import (
	"errors"
	"net/http"
)

// Kind classifies every failure the service reports to a client.
type Kind int

const (
	InternalError Kind = iota
	InvalidBody
	MalformedJSON
	NoOperationSpecified
	MultipleOperationsSpecified
	ValidationError
	PayloadTooLarge
	RouteNotFound
	RateLimited
	AIServiceUnavailable
)

var kindNames = map[Kind]string{
	InternalError:               "internal_error",
	InvalidBody:                 "invalid_body",
	MalformedJSON:               "malformed_json",
	NoOperationSpecified:        "no_operation_specified",
	MultipleOperationsSpecified: "multiple_operations_specified",
	ValidationError:             "validation_error",
	PayloadTooLarge:             "payload_too_large",
	RouteNotFound:               "route_not_found",
	RateLimited:                 "rate_limited",
	AIServiceUnavailable:        "ai_service_unavailable",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Status returns the HTTP status code a failure of this kind is rendered with.
func (k Kind) Status() int {
	switch k {
	case InvalidBody, MalformedJSON, NoOperationSpecified,
		MultipleOperationsSpecified, ValidationError, PayloadTooLarge:
		return http.StatusBadRequest
	case RouteNotFound:
		return http.StatusNotFound
	case RateLimited:
		return http.StatusTooManyRequests
	case AIServiceUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Client-facing messages.
const (
	MsgInvalidBody       = "Invalid request body."
	MsgMalformedJSON     = "Invalid JSON payload."
	MsgNoOperation       = "Request must contain exactly one of: fibonacci, prime, lcm, hcf, AI."
	MsgMultipleOperation = "Request must contain exactly one functional key."
	MsgFibonacci         = "fibonacci requires a positive integer."
	MsgFibonacciTooLarge = "fibonacci supports at most 93 terms."
	MsgPrime             = "prime requires a non-empty array of integers."
	MsgPrimeTooSlow      = "prime input could not be evaluated within the request time limit."
	MsgLCM               = "lcm requires a non-empty array of positive integers."
	MsgLCMOverflow       = "lcm result exceeds the supported integer range."
	MsgHCF               = "hcf requires a non-empty array of positive integers."
	MsgQuestion          = "AI requires a non-empty string question."
	MsgQuestionTooLong   = "AI question must not exceed 500 characters."
	MsgPayloadTooLarge   = "Request body too large."
	MsgRouteNotFound     = "Route not found."
	MsgRateLimited       = "Too many requests, please try again later."
	MsgAIUnavailable     = "AI service unavailable."
	MsgInternal          = "Internal server error."
)

// Error is a classified failure. Message is safe to show to clients; Err
// carries the underlying cause for logs only.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// NewError creates an Error of the given kind.
func NewError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Classify returns the Error in err's chain, or an InternalError wrapping
// err when there is none. The internal message never exposes err's text.
func Classify(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return NewError(InternalError, MsgInternal, err)
}
