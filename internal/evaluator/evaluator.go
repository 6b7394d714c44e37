// internal/evaluator/evaluator.go

// Package evaluator drives a model through the fixture suite, measures
// latency and throughput, and scores responses with containment and
// length/punctuation heuristics.
package evaluator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mwiater/evalon/internal/appconfig"
	"github.com/mwiater/evalon/internal/fixtures"
	"github.com/mwiater/evalon/internal/providers"
	"github.com/mwiater/evalon/internal/util"
)

var (
	// ErrEmptySampleSet is returned when a run is requested over zero prompts.
	ErrEmptySampleSet = errors.New("empty sample set")
	// ErrInsufficientFixtures is returned when more samples are requested
	// than the fixture suite provides.
	ErrInsufficientFixtures = errors.New("insufficient fixtures")
)

// Overall score weights. The overall score is
// speed*WeightSpeed + accuracy*WeightAccuracy + coherence*WeightCoherence +
// (1-hallucination)*WeightAntiHallucination.
const (
	WeightSpeed             = 0.2
	WeightAccuracy          = 0.3
	WeightCoherence         = 0.2
	WeightAntiHallucination = 0.3
)

// Coherence heuristic thresholds. These are a proxy for well-formed output,
// not a semantic quality measure.
const (
	minCoherentLength      = 10
	maxSentenceTerminators = 10
	errorMarkerPrefix      = "Error"
)

// charsPerToken backs the token estimate: response length divided by four.
// It is a crude approximation, not a real tokenizer.
const charsPerToken = 4

// ProgressFunc reports per-prompt progress during a run.
type ProgressFunc func(stage, prompt string, current, total int)

// Evaluator issues fixture prompts against a single host/model pair and
// folds the responses into scores. Prompts are issued strictly sequentially;
// the first failed call aborts the run.
type Evaluator struct {
	client providers.ChatClient
	host   appconfig.Host
	model  string
	suite  fixtures.Suite

	// Samples bounds how many performance prompts are issued; zero means the
	// full table.
	Samples int
	// Progress, when set, is invoked before each prompt is issued.
	Progress ProgressFunc
}

// New constructs an Evaluator over the given client, host, model, and
// fixture suite.
func New(client providers.ChatClient, host appconfig.Host, model string, suite fixtures.Suite) *Evaluator {
	return &Evaluator{
		client: client,
		host:   host,
		model:  model,
		suite:  suite,
	}
}

func (e *Evaluator) progress(stage, prompt string, current, total int) {
	if e.Progress != nil {
		e.Progress(stage, prompt, current, total)
	}
}

func (e *Evaluator) chat(ctx context.Context, prompt string) (providers.ChatResult, error) {
	result, err := e.client.Chat(ctx, e.host, e.model, prompt)
	if err != nil {
		return providers.ChatResult{}, fmt.Errorf("chat with model %s: %w", e.model, err)
	}
	return result, nil
}

// MeasurePerformance issues the first samples performance prompts in order
// and returns aggregate timing and throughput statistics. The token count is
// estimated from response length, not a tokenizer.
func (e *Evaluator) MeasurePerformance(ctx context.Context, samples int) (PerformanceMetrics, error) {
	if samples == 0 {
		return PerformanceMetrics{}, fmt.Errorf("performance run: %w", ErrEmptySampleSet)
	}
	prompts := e.suite.PerformancePrompts
	if samples < 0 || samples > len(prompts) {
		return PerformanceMetrics{}, fmt.Errorf("performance run requested %d prompts, suite has %d: %w",
			samples, len(prompts), ErrInsufficientFixtures)
	}
	prompts = prompts[:samples]

	var (
		totalElapsed time.Duration
		minElapsed   time.Duration
		maxElapsed   time.Duration
		totalTokens  float64
	)

	for i, prompt := range prompts {
		e.progress("performance", prompt, i+1, len(prompts))
		result, err := e.chat(ctx, prompt)
		if err != nil {
			return PerformanceMetrics{}, err
		}

		totalElapsed += result.Elapsed
		if i == 0 || result.Elapsed < minElapsed {
			minElapsed = result.Elapsed
		}
		if result.Elapsed > maxElapsed {
			maxElapsed = result.Elapsed
		}
		totalTokens += float64(len(result.Text)) / charsPerToken
	}

	if totalElapsed <= 0 {
		return PerformanceMetrics{}, fmt.Errorf("performance run measured zero elapsed time across %d prompts", len(prompts))
	}

	count := float64(len(prompts))
	return PerformanceMetrics{
		AvgResponseTime:      time.Duration(float64(totalElapsed) / count),
		MinResponseTime:      minElapsed,
		MaxResponseTime:      maxElapsed,
		AvgTokensPerResponse: totalTokens / count,
		TokensPerSecond:      totalTokens / totalElapsed.Seconds(),
		PromptsTested:        len(prompts),
	}, nil
}

// MeasureQuality scores accuracy and coherence over the given cases (the
// suite's quality cases when nil), then issues the hallucination probes and
// flags responses that fail to express uncertainty.
func (e *Evaluator) MeasureQuality(ctx context.Context, cases []fixtures.QualityCase) (QualityMetrics, error) {
	if cases == nil {
		cases = e.suite.QualityCases
	}
	if len(cases) == 0 {
		return QualityMetrics{}, fmt.Errorf("quality run: %w", ErrEmptySampleSet)
	}
	if len(e.suite.HallucinationProbes) == 0 {
		return QualityMetrics{}, fmt.Errorf("hallucination probes: %w", ErrEmptySampleSet)
	}

	correct := 0
	coherent := 0
	for i, c := range cases {
		e.progress("quality", c.Prompt, i+1, len(cases))
		result, err := e.chat(ctx, c.Prompt)
		if err != nil {
			return QualityMetrics{}, err
		}

		if strings.Contains(strings.ToLower(result.Text), strings.ToLower(c.Expected)) {
			correct++
		}
		if isCoherent(result.Text) {
			coherent++
		}
	}

	hallucinations := 0
	for i, prompt := range e.suite.HallucinationProbes {
		e.progress("hallucination", prompt, i+1, len(e.suite.HallucinationProbes))
		result, err := e.chat(ctx, prompt)
		if err != nil {
			return QualityMetrics{}, err
		}
		if !containsAnyMarker(result.Text, e.suite.UncertaintyMarkers) {
			hallucinations++
		}
	}

	return QualityMetrics{
		Accuracy:          float64(correct) / float64(len(cases)),
		CoherenceScore:    float64(coherent) / float64(len(cases)),
		HallucinationRate: float64(hallucinations) / float64(len(e.suite.HallucinationProbes)),
	}, nil
}

// EvaluateAll composes the performance and quality runs and derives the
// weighted overall score.
func (e *Evaluator) EvaluateAll(ctx context.Context) (Result, error) {
	samples := e.Samples
	if samples <= 0 {
		samples = len(e.suite.PerformancePrompts)
	}

	perf, err := e.MeasurePerformance(ctx, samples)
	if err != nil {
		return Result{}, err
	}

	quality, err := e.MeasureQuality(ctx, nil)
	if err != nil {
		return Result{}, err
	}

	overall := OverallScore(perf.AvgResponseTime, quality)

	return Result{
		Model:             e.model,
		SuiteName:         e.suite.Name,
		SuiteVersion:      e.suite.Version,
		Accuracy:          quality.Accuracy,
		AvgResponseTime:   perf.AvgResponseTime,
		TokenEfficiency:   perf.TokensPerSecond,
		HallucinationRate: quality.HallucinationRate,
		CoherenceScore:    quality.CoherenceScore,
		OverallScore:      overall,
		Details: map[string]map[string]float64{
			"performance": {
				"avg_response_time":       perf.AvgResponseTime.Seconds(),
				"min_response_time":       perf.MinResponseTime.Seconds(),
				"max_response_time":       perf.MaxResponseTime.Seconds(),
				"avg_tokens_per_response": perf.AvgTokensPerResponse,
				"tokens_per_second":       perf.TokensPerSecond,
			},
			"quality": {
				"accuracy":           quality.Accuracy,
				"coherence_score":    quality.CoherenceScore,
				"hallucination_rate": quality.HallucinationRate,
			},
		},
	}, nil
}

// OverallScore folds an average response time and quality metrics into the
// fixed-weight overall score. Speed is a clamped transform of the average
// response time: faster is better, capped at 1.0.
func OverallScore(avgResponseTime time.Duration, quality QualityMetrics) float64 {
	speedScore := SpeedScore(avgResponseTime)
	return speedScore*WeightSpeed +
		quality.Accuracy*WeightAccuracy +
		quality.CoherenceScore*WeightCoherence +
		(1-quality.HallucinationRate)*WeightAntiHallucination
}

// SpeedScore maps an average response time to [0, 1].
func SpeedScore(avgResponseTime time.Duration) float64 {
	return util.Clamp01(2.0 / math.Max(avgResponseTime.Seconds(), 0.1))
}

// isCoherent applies the length/punctuation heuristic: long enough, does not
// open with an error marker, and is not fragmented into too many sentences.
func isCoherent(response string) bool {
	return len(response) > minCoherentLength &&
		!strings.HasPrefix(response, errorMarkerPrefix) &&
		strings.Count(response, ".") <= maxSentenceTerminators
}

// containsAnyMarker reports whether the response contains any of the markers,
// case-insensitively.
func containsAnyMarker(response string, markers []string) bool {
	lower := strings.ToLower(response)
	for _, marker := range markers {
		if strings.Contains(lower, strings.ToLower(marker)) {
			return true
		}
	}
	return false
}
