// Package numeric provides the integer routines behind the bfhl operations.
//
// All functions are pure and safe for concurrent use. FilterPrimes, whose
// cost grows with the square root of each operand, is also cancellable.
package numeric

import (
	"context"
	"errors"
	"math"
)

var (
	// ErrEmptyInput is returned by the folds when given no operands.
	ErrEmptyInput = errors.New("numeric: empty input")

	// ErrOverflow is returned when a result does not fit in an int64.
	ErrOverflow = errors.New("numeric: result overflows int64")
)

// MaxFibonacciTerms is the largest n for which every term of Fibonacci(n)
// fits in an int64. Callers must not request more.
const MaxFibonacciTerms = 93

// Fibonacci returns the first n terms of the sequence 0, 1, 1, 2, ...
// It returns an empty slice for n <= 0.
func Fibonacci(n int) []int64 {
	if n <= 0 {
		return []int64{}
	}
	if n == 1 {
		return []int64{0}
	}

	series := make([]int64, 2, n)
	series[0], series[1] = 0, 1
	for i := 2; i < n; i++ {
		series = append(series, series[i-1]+series[i-2])
	}
	return series
}

// IsPrime reports whether x is prime.
func IsPrime(x int64) bool {
	if x < 2 {
		return false
	}
	if x == 2 {
		return true
	}
	if x%2 == 0 {
		return false
	}
	for i := int64(3); i <= x/i; i += 2 {
		if x%i == 0 {
			return false
		}
	}
	return true
}

// FilterPrimes returns the primes of xs in their original order. It checks
// ctx between operands and returns ctx's error once it is done.
// On success the result is never nil.
func FilterPrimes(ctx context.Context, xs []int64) ([]int64, error) {
	primes := make([]int64, 0, len(xs))
	for _, x := range xs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if IsPrime(x) {
			primes = append(primes, x)
		}
	}
	return primes, nil
}

// GCD returns the greatest common divisor of |a| and |b|. GCD(0, 0) is 0.
func GCD(a, b int64) int64 {
	a, b = abs(a), abs(b)
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// LCM returns |a*b| / GCD(a, b), or 0 when either operand is 0.
func LCM(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}

	a, b = abs(a), abs(b)
	q := a / GCD(a, b)
	if q > math.MaxInt64/b {
		return 0, ErrOverflow
	}
	return q * b, nil
}

// HCF folds GCD over xs from the left.
func HCF(xs []int64) (int64, error) {
	if len(xs) == 0 {
		return 0, ErrEmptyInput
	}

	acc := xs[0]
	for _, x := range xs[1:] {
		acc = GCD(acc, x)
	}
	return abs(acc), nil
}

// LCMOf folds LCM over xs from the left.
func LCMOf(xs []int64) (int64, error) {
	if len(xs) == 0 {
		return 0, ErrEmptyInput
	}

	acc := xs[0]
	for _, x := range xs[1:] {
		var err error
		if acc, err = LCM(acc, x); err != nil {
			return 0, err
		}
	}
	return abs(acc), nil
}

func abs(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}
