package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDetectCommand(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"AI-powered meal planner for dietary restrictions", "en"},
		{"Diyet kısıtlamaları olan kişiler için yemek planlayıcı", "tr"},
	}

	for _, tt := range tests {
		out, err := run(t, "detect", tt.text)
		require.NoError(t, err)

		var got detectOutput
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, tt.want, string(got.Language), tt.text)
	}
}

func TestDetectRequiresText(t *testing.T) {
	_, err := run(t, "detect")
	assert.Error(t, err)
}

func TestValidateRejectsShortInput(t *testing.T) {
	isolateEnv(t)

	_, err := run(t, "validate", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 5 characters")
}

func TestValidateWithoutCredentials(t *testing.T) {
	isolateEnv(t)

	_, err := run(t, "validate", "AI-powered meal planner for dietary restrictions")
	require.Error(t, err)
	assert.Equal(t, "AI service not configured", err.Error())
}

func TestResetLimitCommand(t *testing.T) {
	isolateEnv(t)

	out, err := run(t, "reset-limit", "203.0.113.7")
	require.NoError(t, err)
	assert.Equal(t, "reset 203.0.113.7 (memory)\n", out)

	_, err = run(t, "reset-limit")
	assert.Error(t, err)
}

func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"GEMINI_API_KEY", "API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "DATABASE_URL"} {
		t.Setenv(key, "")
	}
	t.Setenv("RATE_LIMIT_BACKEND", "memory")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("LOG_LEVEL", "error")
}
