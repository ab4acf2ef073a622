package domain

import (
	"time"

	"github.com/kptbarbarossa/validationly-sub003/pkg/errors"
)

// ModelAttempt records one call to the inference service.
type ModelAttempt struct {
	Provider  string
	Model     string
	Succeeded bool
	RawText   string
	ErrorKind errors.InferenceKind
	Latency   time.Duration
	// Clean is set when the model returned bare JSON without fences or prose.
	Clean bool
}

func (a ModelAttempt) LatencyMs() int64 {
	return a.Latency.Milliseconds()
}
