// internal/evaluator/types.go
package evaluator

import "time"

// PerformanceMetrics aggregates timing and throughput over one prompt set.
type PerformanceMetrics struct {
	AvgResponseTime      time.Duration `json:"avg_response_time"`
	MinResponseTime      time.Duration `json:"min_response_time"`
	MaxResponseTime      time.Duration `json:"max_response_time"`
	AvgTokensPerResponse float64       `json:"avg_tokens_per_response"`
	TokensPerSecond      float64       `json:"tokens_per_second"`
	PromptsTested        int           `json:"prompts_tested"`
}

// QualityMetrics aggregates the heuristic quality scores over one test set.
type QualityMetrics struct {
	Accuracy          float64 `json:"accuracy"`
	CoherenceScore    float64 `json:"coherence_score"`
	HallucinationRate float64 `json:"hallucination_rate"`
}

// Result is the immutable outcome of one full evaluation run.
type Result struct {
	Model             string        `json:"model"`
	SuiteName         string        `json:"suite"`
	SuiteVersion      string        `json:"suiteVersion"`
	Accuracy          float64       `json:"accuracy"`
	AvgResponseTime   time.Duration `json:"avg_response_time"`
	TokenEfficiency   float64       `json:"token_efficiency"`
	HallucinationRate float64       `json:"hallucination_rate"`
	CoherenceScore    float64       `json:"coherence_score"`
	OverallScore      float64       `json:"overall_score"`

	// Details holds the raw sub-metric maps keyed by section
	// ("performance", "quality").
	Details map[string]map[string]float64 `json:"detailed_metrics"`
}
