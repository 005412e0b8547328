// Package bfhl executes decoded /bfhl operations.
package bfhl

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/bfhl-service/domain/bfhl"
	"github.com/example/bfhl-service/domain/numeric"
)

// Answerer answers a question with a single word.
type Answerer interface {
	Ask(ctx context.Context, question string) (string, error)
}

// Service runs operations. The numeric operations are pure; only Question
// leaves the process. The prime filter stops when ctx is done.
type Service struct {
	answerer Answerer
}

// NewService creates a service. answerer may be nil, in which case every
// Question fails as AIServiceUnavailable.
func NewService(answerer Answerer) *Service {
	return &Service{answerer: answerer}
}

// Execute returns the data payload for op. Errors are *bfhl.Error values
// except for programming errors, which classify as internal.
func (s *Service) Execute(ctx context.Context, op bfhl.Operation) (any, error) {
	switch op := op.(type) {
	case bfhl.Fibonacci:
		return numeric.Fibonacci(op.N), nil

	case bfhl.Prime:
		primes, err := numeric.FilterPrimes(ctx, op.Values)
		if err != nil {
			return nil, bfhl.NewError(bfhl.ValidationError, bfhl.MsgPrimeTooSlow, err)
		}
		return primes, nil

	case bfhl.LCM:
		result, err := numeric.LCMOf(op.Values)
		if errors.Is(err, numeric.ErrOverflow) {
			return nil, bfhl.NewError(bfhl.ValidationError, bfhl.MsgLCMOverflow, err)
		}
		if err != nil {
			return nil, bfhl.NewError(bfhl.ValidationError, bfhl.MsgLCM, err)
		}
		return result, nil

	case bfhl.HCF:
		result, err := numeric.HCF(op.Values)
		if err != nil {
			return nil, bfhl.NewError(bfhl.ValidationError, bfhl.MsgHCF, err)
		}
		return result, nil

	case bfhl.Question:
		if s.answerer == nil {
			return nil, bfhl.NewError(bfhl.AIServiceUnavailable, bfhl.MsgAIUnavailable, errors.New("no answerer configured"))
		}
		answer, err := s.answerer.Ask(ctx, op.Text)
		if err != nil {
			return nil, bfhl.NewError(bfhl.AIServiceUnavailable, bfhl.MsgAIUnavailable, err)
		}
		return answer, nil

	default:
		return nil, fmt.Errorf("unsupported operation %T", op)
	}
}
