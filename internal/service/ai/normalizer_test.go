package ai

import (
	stderrors "errors"
	"testing"

	"github.com/kptbarbarossa/validationly-sub003/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFencedWithProse(t *testing.T) {
	obj, err := Normalize("Here you go:\n```json\n{\"a\":1}\n```\nThanks!")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": float64(1)}, obj)
}

func TestNormalizeRejectsNonJSON(t *testing.T) {
	_, err := Normalize("not json at all")
	require.Error(t, err)

	var perr *errors.ParseError
	assert.True(t, stderrors.As(err, &perr))
}

func TestExtractJSONVariants(t *testing.T) {
	cases := []struct {
		name  string
		raw   string
		want  string
		clean bool
	}{
		{"bare", `{"score":4}`, `{"score":4}`, true},
		{"bare with whitespace", "  {\"score\":4}\n", `{"score":4}`, true},
		{"fence without language", "```\n{\"score\":4}\n```", `{"score":4}`, false},
		{"leading prose", `Sure! {"score":4} hope this helps`, `{"score":4}`, false},
		{"nested braces", "```json\n{\"a\":{\"b\":[1,2]}}\n```", `{"a":{"b":[1,2]}}`, false},
		{"single line fence", "```json {\"x\":\"y\"}```", `{"x":"y"}`, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payload, clean, err := ExtractJSON(tc.raw)
			require.NoError(t, err)
			assert.JSONEq(t, tc.want, string(payload))
			assert.Equal(t, tc.clean, clean)
		})
	}
}

func TestExtractJSONFailures(t *testing.T) {
	for _, raw := range []string{"", "   ", "{ broken", `{"a": }`, "} backwards {"} {
		_, _, err := ExtractJSON(raw)
		assert.Error(t, err, raw)
	}
}
