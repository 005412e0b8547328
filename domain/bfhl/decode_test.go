package bfhl

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_Operations(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Operation
	}{
		{name: "fibonacci", body: `{"fibonacci": 7}`, want: Fibonacci{N: 7}},
		{name: "fibonacci integral float", body: `{"fibonacci": 5.0}`, want: Fibonacci{N: 5}},
		{name: "fibonacci exponent", body: `{"fibonacci": 1e1}`, want: Fibonacci{N: 10}},
		{name: "fibonacci upper bound", body: `{"fibonacci": 93}`, want: Fibonacci{N: 93}},
		{name: "prime with negatives", body: `{"prime": [-3, 0, 2, 17]}`, want: Prime{Values: []int64{-3, 0, 2, 17}}},
		{name: "lcm", body: `{"lcm": [4, 6]}`, want: LCM{Values: []int64{4, 6}}},
		{name: "hcf", body: `{"hcf": [12, 18, 24]}`, want: HCF{Values: []int64{12, 18, 24}}},
		{name: "question trimmed", body: `{"AI": "  capital of France?  "}`, want: Question{Text: "capital of France?"}},
		{name: "extra keys ignored", body: `{"fibonacci": 3, "user": "x", "Fibonacci": [1]}`, want: Fibonacci{N: 3}},
		{name: "surrounding whitespace", body: "\n  {\"hcf\": [5]}  \n", want: HCF{Values: []int64{5}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := Decode([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, op)
			assert.Equal(t, tt.want.Key(), op.Key())
		})
	}
}

func TestDecode_Failures(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		kind    Kind
		message string
	}{
		{name: "empty body", body: ``, kind: InvalidBody, message: MsgInvalidBody},
		{name: "whitespace body", body: "   ", kind: InvalidBody, message: MsgInvalidBody},
		{name: "malformed", body: `{"fibonacci": `, kind: MalformedJSON, message: MsgMalformedJSON},
		{name: "array body", body: `[{"fibonacci": 3}]`, kind: InvalidBody, message: MsgInvalidBody},
		{name: "null body", body: `null`, kind: InvalidBody, message: MsgInvalidBody},
		{name: "string body", body: `"fibonacci"`, kind: InvalidBody, message: MsgInvalidBody},
		{name: "no keys", body: `{}`, kind: NoOperationSpecified, message: MsgNoOperation},
		{name: "only unknown keys", body: `{"sum": [1, 2]}`, kind: NoOperationSpecified, message: MsgNoOperation},
		{name: "two keys", body: `{"fibonacci": 3, "prime": [2]}`, kind: MultipleOperationsSpecified, message: MsgMultipleOperation},
		{name: "all keys", body: `{"fibonacci": 3, "prime": [2], "lcm": [1], "hcf": [1], "AI": "x"}`, kind: MultipleOperationsSpecified, message: MsgMultipleOperation},

		{name: "fibonacci zero", body: `{"fibonacci": 0}`, kind: ValidationError, message: MsgFibonacci},
		{name: "fibonacci negative", body: `{"fibonacci": -4}`, kind: ValidationError, message: MsgFibonacci},
		{name: "fibonacci fraction", body: `{"fibonacci": 2.5}`, kind: ValidationError, message: MsgFibonacci},
		{name: "fibonacci string", body: `{"fibonacci": "5"}`, kind: ValidationError, message: MsgFibonacci},
		{name: "fibonacci null", body: `{"fibonacci": null}`, kind: ValidationError, message: MsgFibonacci},
		{name: "fibonacci bool", body: `{"fibonacci": true}`, kind: ValidationError, message: MsgFibonacci},
		{name: "fibonacci huge", body: `{"fibonacci": 1e300}`, kind: ValidationError, message: MsgFibonacci},
		{name: "fibonacci too many terms", body: `{"fibonacci": 94}`, kind: ValidationError, message: MsgFibonacciTooLarge},

		{name: "prime empty", body: `{"prime": []}`, kind: ValidationError, message: MsgPrime},
		{name: "prime not array", body: `{"prime": 7}`, kind: ValidationError, message: MsgPrime},
		{name: "prime null", body: `{"prime": null}`, kind: ValidationError, message: MsgPrime},
		{name: "prime float element", body: `{"prime": [2, 3.5]}`, kind: ValidationError, message: MsgPrime},
		{name: "prime string element", body: `{"prime": [2, "3"]}`, kind: ValidationError, message: MsgPrime},
		{name: "prime int64 beyond 2^53-1", body: `{"prime": [9223372036854775783]}`, kind: ValidationError, message: MsgPrime},
		{name: "prime just beyond 2^53-1", body: `{"prime": [9007199254740993]}`, kind: ValidationError, message: MsgPrime},
		{name: "prime float spelling beyond 2^53-1", body: `{"prime": [9.007199254740993e15]}`, kind: ValidationError, message: MsgPrime},
		{name: "prime negative beyond 2^53-1", body: `{"prime": [-9007199254740992]}`, kind: ValidationError, message: MsgPrime},
		{name: "prime nested", body: `{"prime": [[2]]}`, kind: ValidationError, message: MsgPrime},

		{name: "lcm zero", body: `{"lcm": [4, 0]}`, kind: ValidationError, message: MsgLCM},
		{name: "lcm negative", body: `{"lcm": [-4, 6]}`, kind: ValidationError, message: MsgLCM},
		{name: "lcm empty", body: `{"lcm": []}`, kind: ValidationError, message: MsgLCM},
		{name: "hcf zero", body: `{"hcf": [0]}`, kind: ValidationError, message: MsgHCF},
		{name: "hcf object", body: `{"hcf": {"a": 1}}`, kind: ValidationError, message: MsgHCF},

		{name: "question empty", body: `{"AI": ""}`, kind: ValidationError, message: MsgQuestion},
		{name: "question blank", body: `{"AI": "   \t "}`, kind: ValidationError, message: MsgQuestion},
		{name: "question number", body: `{"AI": 42}`, kind: ValidationError, message: MsgQuestion},
		{name: "question null", body: `{"AI": null}`, kind: ValidationError, message: MsgQuestion},
		{name: "question too long", body: `{"AI": "` + strings.Repeat("a", MaxQuestionLength+1) + `"}`, kind: ValidationError, message: MsgQuestionTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := Decode([]byte(tt.body))
			require.Error(t, err)
			assert.Nil(t, op)

			var e *Error
			require.True(t, errors.As(err, &e), "expected *Error, got %T", err)
			assert.Equal(t, tt.kind, e.Kind)
			assert.Equal(t, tt.message, e.Message)
			assert.Equal(t, http.StatusBadRequest, e.Kind.Status())
		})
	}
}

func TestDecode_IntegerDomain(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int64
	}{
		{name: "upper bound literal", body: `{"prime": [9007199254740991]}`, want: MaxInteger},
		{name: "upper bound float spelling", body: `{"prime": [9.007199254740991e15]}`, want: MaxInteger},
		{name: "lower bound literal", body: `{"prime": [-9007199254740991]}`, want: -MaxInteger},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := Decode([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, Prime{Values: []int64{tt.want}}, op)
		})
	}
}

func TestDecode_QuestionLengthCountsCharacters(t *testing.T) {
	question := strings.Repeat("é", MaxQuestionLength)
	op, err := Decode([]byte(`{"AI": "` + question + `"}`))
	require.NoError(t, err)
	assert.Equal(t, Question{Text: question}, op)

	padded := "   " + strings.Repeat("b", MaxQuestionLength) + "   "
	op, err = Decode([]byte(`{"AI": "` + padded + `"}`))
	require.NoError(t, err)
	assert.Equal(t, Question{Text: strings.TrimSpace(padded)}, op)
}

func TestKind_Status(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, RouteNotFound.Status())
	assert.Equal(t, http.StatusTooManyRequests, RateLimited.Status())
	assert.Equal(t, http.StatusBadGateway, AIServiceUnavailable.Status())
	assert.Equal(t, http.StatusInternalServerError, InternalError.Status())
	assert.Equal(t, http.StatusBadRequest, PayloadTooLarge.Status())
}

func TestClassify(t *testing.T) {
	cause := errors.New("database password leaked")
	e := Classify(cause)
	assert.Equal(t, InternalError, e.Kind)
	assert.Equal(t, MsgInternal, e.Message)
	assert.NotContains(t, e.Message, "password")
	assert.ErrorIs(t, e, cause)

	validation := NewError(ValidationError, MsgPrime, nil)
	assert.Same(t, validation, Classify(validation))
}

func TestEnvelope(t *testing.T) {
	ok := Success("me@example.com", []int64{})
	assert.True(t, ok.IsSuccess)
	assert.Equal(t, "me@example.com", ok.OfficialEmail)
	assert.NotNil(t, ok.Data)
	assert.Empty(t, ok.Message)

	fail := Failure(MsgRouteNotFound)
	assert.False(t, fail.IsSuccess)
	assert.Empty(t, fail.OfficialEmail)
	assert.Equal(t, MsgRouteNotFound, fail.Message)
}
