package constants

import "time"

var RateLimitConfig = struct {
	Window        time.Duration
	MaxRequests   int
	KeyPrefix     string
	UnknownClient string
	PruneInterval time.Duration
}{
	Window:        15 * time.Minute, // 15분 고정 윈도우
	MaxRequests:   50,               // 윈도우당 최대 요청 수
	KeyPrefix:     "validationly:ratelimit:",
	UnknownClient: "unknown",
	PruneInterval: time.Minute, // 만료된 메모리 레코드 정리 주기
}

var InputLimits = struct {
	MinLength int
	MaxLength int
}{
	MinLength: 5,
	MaxLength: 2000,
}

var InferenceConfig = struct {
	AttemptTimeout      time.Duration
	FallbackTempDelta   float32
	MaxTemperature      float32
	PlatformTemperature float32
	PlatformMaxTokens   int
	OverallTemperature  float32
	OverallMaxTokens    int
	PingTimeout         time.Duration
}{
	AttemptTimeout:      30 * time.Second,
	FallbackTempDelta:   0.1, // 다음 모델로 넘어갈 때 temperature 완화폭
	MaxTemperature:      1.0,
	PlatformTemperature: 0.4,
	PlatformMaxTokens:   512,
	OverallTemperature:  0.3,
	OverallMaxTokens:    1024,
	PingTimeout:         5 * time.Second,
}

var DefaultModels = struct {
	Gemini    []string
	OpenAI    string
	Anthropic string
}{
	Gemini:    []string{"gemini-2.5-flash", "gemini-2.0-flash"},
	OpenAI:    "gpt-4.1-mini",
	Anthropic: "claude-3-5-haiku-latest",
}

var CircuitBreakerConfig = struct {
	FailureThreshold    int
	ResetTimeout        time.Duration
	RateLimitTimeout    time.Duration
	HealthCheckInterval time.Duration
	HealthCheckTimeout  time.Duration
}{
	FailureThreshold:    5,                // 5회 연속 실패 시 Circuit OPEN
	ResetTimeout:        30 * time.Second, // 기본 재시도 대기 시간
	RateLimitTimeout:    5 * time.Minute,  // 429 전용 타임아웃
	HealthCheckInterval: 2 * time.Minute,
	HealthCheckTimeout:  10 * time.Second,
}

var ScoreRange = struct {
	DemandMin       int
	DemandMax       int
	DemandDefault   int
	PlatformMin     int
	PlatformMax     int
	PlatformNeutral int
}{
	DemandMin:       0,
	DemandMax:       100,
	DemandDefault:   50,
	PlatformMin:     1,
	PlatformMax:     5,
	PlatformNeutral: 3,
}

var SuggestionExcerpt = struct {
	Tweet       int
	RedditTitle int
	LinkedIn    int
}{
	Tweet:       100,
	RedditTitle: 80,
	LinkedIn:    150,
}

var ConfidenceConfig = struct {
	Base          int
	FirstTryBonus int
	CleanBonus    int
	LatencyDelta  int
	FastLatency   time.Duration
	SlowLatency   time.Duration
}{
	Base:          75,
	FirstTryBonus: 10,
	CleanBonus:    10,
	LatencyDelta:  5,
	FastLatency:   3 * time.Second,
	SlowLatency:   15 * time.Second,
}

var HTTPConfig = struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	WriteMargin      time.Duration
	ShutdownTimeout  time.Duration
	MaxBodyBytes     int64
	ProductionOrigin string
}{
	ReadTimeout:      10 * time.Second,
	WriteTimeout:     120 * time.Second, // 하한값, 실제 값은 캐스케이드 길이로 늘어난다
	WriteMargin:      15 * time.Second,
	IdleTimeout:      60 * time.Second,
	ShutdownTimeout:  10 * time.Second,
	MaxBodyBytes:     64 << 10,
	ProductionOrigin: "https://validationly.com",
}

var StringLimits = struct {
	LogPreview int
}{
	LogPreview: 200,
}
