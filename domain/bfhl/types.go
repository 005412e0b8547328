// Package bfhl defines the request model of the /bfhl endpoint: the five
// operations, the response envelope and the error taxonomy.
package bfhl

// Recognized body keys. Exactly one selects an operation.
const (
	KeyFibonacci = "fibonacci"
	KeyPrime     = "prime"
	KeyLCM       = "lcm"
	KeyHCF       = "hcf"
	KeyAI        = "AI"
)

// Keys lists the recognized keys in their canonical order.
var Keys = []string{KeyFibonacci, KeyPrime, KeyLCM, KeyHCF, KeyAI}

// MaxQuestionLength is the longest accepted AI question, in characters,
// measured after trimming.
const MaxQuestionLength = 500

// Operation is one validated request. The set of implementations is closed.
type Operation interface {
	// Key returns the body key that selected the operation.
	Key() string
	operation()
}

// Fibonacci asks for the first N terms of the Fibonacci sequence.
type Fibonacci struct {
	N int
}

// Prime asks for the primes among Values.
type Prime struct {
	Values []int64
}

// LCM asks for the least common multiple of Values.
type LCM struct {
	Values []int64
}

// HCF asks for the highest common factor of Values.
type HCF struct {
	Values []int64
}

// Question asks the AI service for a one-word answer.
type Question struct {
	Text string
}

func (Fibonacci) Key() string { return KeyFibonacci }
func (Prime) Key() string     { return KeyPrime }
func (LCM) Key() string       { return KeyLCM }
func (HCF) Key() string       { return KeyHCF }
func (Question) Key() string  { return KeyAI }

func (Fibonacci) operation() {}
func (Prime) operation()     {}
func (LCM) operation()       {}
func (HCF) operation()       {}
func (Question) operation()  {}

// Envelope is the body of every response.
type Envelope struct {
	IsSuccess     bool   `json:"is_success"`
	OfficialEmail string `json:"official_email,omitempty"`
	Data          any    `json:"data,omitempty"`
	Message       string `json:"message,omitempty"`
}

// Success wraps data in a successful envelope. A nil data produces the
// bare health-check shape.
func Success(email string, data any) Envelope {
	return Envelope{IsSuccess: true, OfficialEmail: email, Data: data}
}

// Failure builds the envelope for a failed request.
func Failure(message string) Envelope {
	return Envelope{IsSuccess: false, Message: message}
}
