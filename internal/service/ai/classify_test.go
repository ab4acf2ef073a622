package ai

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/kptbarbarossa/validationly-sub003/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	cases := []struct {
		err  error
		want errors.InferenceKind
	}{
		{nil, errors.InferenceNone},
		{context.Canceled, errors.InferenceCanceled},
		{fmt.Errorf("call: %w", context.DeadlineExceeded), errors.InferenceTimeout},
		{timeoutErr{}, errors.InferenceTimeout},
		{stderrors.New("Error 429: Resource has been exhausted (e.g. check quota)."), errors.InferenceRateLimit},
		{stderrors.New("API_KEY_INVALID: API key not valid"), errors.InferenceAuth},
		{stderrors.New(`{"error": {"code": 503, "message": "overloaded"}}`), errors.InferenceServer},
		{stderrors.New("500 Internal Server Error"), errors.InferenceServer},
		{stderrors.New("dial tcp: lookup api.example.com: no such host"), errors.InferenceNetwork},
		{stderrors.New("empty response from Gemini"), errors.InferenceEmpty},
		{errors.NewParseError("bad", "", nil), errors.InferenceParse},
		{errors.NewInferenceError("x", errors.InferenceSchema, 1, nil), errors.InferenceSchema},
		{stderrors.New("something odd"), errors.InferenceUnknown},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.err), "%v", tc.err)
	}
}

func TestIsServiceFailure(t *testing.T) {
	assert.True(t, IsServiceFailure(errors.InferenceRateLimit))
	assert.True(t, IsServiceFailure(errors.InferenceServer))
	assert.False(t, IsServiceFailure(errors.InferenceParse))
	assert.False(t, IsServiceFailure(errors.InferenceAuth))
}
