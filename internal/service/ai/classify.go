package ai

import (
	"context"
	stderrors "errors"
	"net"
	"regexp"
	"strconv"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/kptbarbarossa/validationly-sub003/pkg/errors"
	"github.com/openai/openai-go/v3"
	"google.golang.org/genai"
)

var (
	statusCodePattern = regexp.MustCompile(`\b([45]\d{2})\b`)
	geminiCodePattern = regexp.MustCompile(`"code":\s*(\d{3})`)
)

// Classify maps a provider or decode error onto an inference failure kind.
func Classify(err error) errors.InferenceKind {
	if err == nil {
		return errors.InferenceNone
	}

	var inferErr *errors.InferenceError
	if stderrors.As(err, &inferErr) {
		return inferErr.Kind
	}
	var parseErr *errors.ParseError
	if stderrors.As(err, &parseErr) {
		return errors.InferenceParse
	}

	if stderrors.Is(err, context.Canceled) {
		return errors.InferenceCanceled
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.InferenceTimeout
	}
	var netErr net.Error
	if stderrors.As(err, &netErr) {
		if netErr.Timeout() {
			return errors.InferenceTimeout
		}
		return errors.InferenceNetwork
	}

	if code := statusCode(err); code > 0 {
		return kindForStatus(code)
	}

	return classifyMessage(err.Error())
}

// IsServiceFailure reports failures that say the upstream itself is unhealthy, as opposed
// to a bad reply for this particular prompt.
func IsServiceFailure(kind errors.InferenceKind) bool {
	switch kind {
	case errors.InferenceRateLimit, errors.InferenceServer, errors.InferenceTimeout, errors.InferenceNetwork:
		return true
	default:
		return false
	}
}

func statusCode(err error) int {
	var openaiErr *openai.Error
	if stderrors.As(err, &openaiErr) {
		return openaiErr.StatusCode
	}
	var anthropicErr *anthropic.Error
	if stderrors.As(err, &anthropicErr) {
		return anthropicErr.StatusCode
	}
	var geminiErr genai.APIError
	if stderrors.As(err, &geminiErr) {
		return geminiErr.Code
	}
	var geminiPtrErr *genai.APIError
	if stderrors.As(err, &geminiPtrErr) && geminiPtrErr != nil {
		return geminiPtrErr.Code
	}
	return 0
}

func kindForStatus(code int) errors.InferenceKind {
	switch {
	case code == 429:
		return errors.InferenceRateLimit
	case code == 401 || code == 403:
		return errors.InferenceAuth
	case code == 408 || code == 504:
		return errors.InferenceTimeout
	case code >= 500:
		return errors.InferenceServer
	default:
		return errors.InferenceUnknown
	}
}

func classifyMessage(msg string) errors.InferenceKind {
	lower := strings.ToLower(msg)

	switch {
	case strings.Contains(lower, "rate limit"), strings.Contains(lower, "quota"),
		strings.Contains(lower, "resource_exhausted"), strings.Contains(lower, "too many requests"):
		return errors.InferenceRateLimit
	case strings.Contains(lower, "api_key"), strings.Contains(lower, "api key"),
		strings.Contains(lower, "authentication"), strings.Contains(lower, "unauthorized"),
		strings.Contains(lower, "permission_denied"):
		return errors.InferenceAuth
	case strings.Contains(lower, "timeout"), strings.Contains(lower, "timed out"),
		strings.Contains(lower, "etimedout"), strings.Contains(lower, "deadline"):
		return errors.InferenceTimeout
	case strings.Contains(lower, "network"), strings.Contains(lower, "connection refused"),
		strings.Contains(lower, "connection reset"), strings.Contains(lower, "no such host"),
		strings.Contains(lower, "eof"):
		return errors.InferenceNetwork
	case strings.Contains(lower, "empty response"):
		return errors.InferenceEmpty
	}

	if m := geminiCodePattern.FindStringSubmatch(msg); len(m) > 1 {
		if code, err := strconv.Atoi(m[1]); err == nil {
			return kindForStatus(code)
		}
	}
	if m := statusCodePattern.FindStringSubmatch(msg); len(m) > 1 {
		if code, err := strconv.Atoi(m[1]); err == nil {
			return kindForStatus(code)
		}
	}

	return errors.InferenceUnknown
}
