package ai

import (
	"github.com/kptbarbarossa/validationly-sub003/internal/constants"
	"github.com/kptbarbarossa/validationly-sub003/internal/domain"
	"github.com/kptbarbarossa/validationly-sub003/internal/util"
)

// Confidence scores a cascade run from its attempts. Only the last attempt may have
// succeeded. The score is informational and never alters the returned data.
func Confidence(attempts []domain.ModelAttempt) int {
	if len(attempts) == 0 {
		return 0
	}
	last := attempts[len(attempts)-1]
	if !last.Succeeded {
		return 0
	}

	cfg := constants.ConfidenceConfig
	score := cfg.Base
	if len(attempts) == 1 {
		score += cfg.FirstTryBonus
	}
	if last.Clean {
		score += cfg.CleanBonus
	}
	switch {
	case last.Latency < cfg.FastLatency:
		score += cfg.LatencyDelta
	case last.Latency > cfg.SlowLatency:
		score -= cfg.LatencyDelta
	}

	return util.Clamp(score, 0, 100)
}
