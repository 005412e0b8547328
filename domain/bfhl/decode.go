package bfhl

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/example/bfhl-service/domain/numeric"
)

// MaxInteger is the largest accepted operand magnitude, 2^53-1: the range in
// which every integer is exactly representable as a float64. It also bounds
// trial division in the prime filter to about 9.5e7 steps per operand.
const MaxInteger = 1<<53 - 1

// Decode parses a /bfhl request body into its Operation. Unrecognized keys
// are ignored. Every failure is an *Error.
func Decode(body []byte) (Operation, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, NewError(InvalidBody, MsgInvalidBody, nil)
	}
	if !json.Valid(trimmed) {
		return nil, NewError(MalformedJSON, MsgMalformedJSON, nil)
	}
	if trimmed[0] != '{' {
		return nil, NewError(InvalidBody, MsgInvalidBody, nil)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, NewError(InvalidBody, MsgInvalidBody, err)
	}

	var matched []string
	for _, key := range Keys {
		if _, ok := fields[key]; ok {
			matched = append(matched, key)
		}
	}
	switch {
	case len(matched) == 0:
		return nil, NewError(NoOperationSpecified, MsgNoOperation, nil)
	case len(matched) > 1:
		return nil, NewError(MultipleOperationsSpecified, MsgMultipleOperation, nil)
	}

	key := matched[0]
	raw := fields[key]

	switch key {
	case KeyFibonacci:
		n, ok := parseInteger(raw)
		if !ok || n < 1 {
			return nil, NewError(ValidationError, MsgFibonacci, nil)
		}
		if n > numeric.MaxFibonacciTerms {
			return nil, NewError(ValidationError, MsgFibonacciTooLarge, nil)
		}
		return Fibonacci{N: int(n)}, nil

	case KeyPrime:
		values, ok := parseIntegers(raw)
		if !ok {
			return nil, NewError(ValidationError, MsgPrime, nil)
		}
		return Prime{Values: values}, nil

	case KeyLCM:
		values, ok := parseIntegers(raw)
		if !ok || !allPositive(values) {
			return nil, NewError(ValidationError, MsgLCM, nil)
		}
		return LCM{Values: values}, nil

	case KeyHCF:
		values, ok := parseIntegers(raw)
		if !ok || !allPositive(values) {
			return nil, NewError(ValidationError, MsgHCF, nil)
		}
		return HCF{Values: values}, nil

	default:
		return decodeQuestion(raw)
	}
}

func decodeQuestion(raw json.RawMessage) (Operation, error) {
	if len(raw) == 0 || raw[0] != '"' {
		return nil, NewError(ValidationError, MsgQuestion, nil)
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return nil, NewError(ValidationError, MsgQuestion, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, NewError(ValidationError, MsgQuestion, nil)
	}
	if utf8.RuneCountInString(text) > MaxQuestionLength {
		return nil, NewError(ValidationError, MsgQuestionTooLong, nil)
	}
	return Question{Text: text}, nil
}

// parseInteger accepts a JSON number without a fractional part whose
// magnitude is at most MaxInteger. Integer literals and integral float
// spellings (5.0, 1e2, 9.007199254740991e15) share that one domain.
func parseInteger(raw json.RawMessage) (int64, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return 0, false
	}
	num, ok := v.(json.Number)
	if !ok {
		return 0, false
	}

	if i, err := num.Int64(); err == nil {
		if i < -MaxInteger || i > MaxInteger {
			return 0, false
		}
		return i, true
	}
	f, err := num.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > MaxInteger {
		return 0, false
	}
	return int64(f), true
}

// parseIntegers accepts a non-empty JSON array of integers.
func parseIntegers(raw json.RawMessage) ([]int64, bool) {
	if len(raw) == 0 || raw[0] != '[' {
		return nil, false
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || len(items) == 0 {
		return nil, false
	}

	values := make([]int64, 0, len(items))
	for _, item := range items {
		v, ok := parseInteger(item)
		if !ok {
			return nil, false
		}
		values = append(values, v)
	}
	return values, true
}

func allPositive(values []int64) bool {
	for _, v := range values {
		if v <= 0 {
			return false
		}
	}
	return true
}
