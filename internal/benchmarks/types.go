// internal/benchmarks/types.go
package benchmarks

// Sample records the outcome of one miniature benchmark run.
type Sample struct {
	Score           float64 `json:"score"`
	QuestionsTested int     `json:"questions_tested"`
	Correct         int     `json:"correct"`
}

// Result holds the per-benchmark samples for one model plus the aggregate
// score, the unweighted mean of the three.
type Result struct {
	Model      string  `json:"model"`
	MMLU       Sample  `json:"mmlu"`
	TruthfulQA Sample  `json:"truthfulqa"`
	HellaSwag  Sample  `json:"hellaswag"`
	Aggregate  float64 `json:"aggregate_benchmark_score"`
}
