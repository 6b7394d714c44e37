// internal/evaluator/evaluator_test.go
package evaluator

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/mwiater/evalon/internal/appconfig"
	"github.com/mwiater/evalon/internal/fixtures"
	"github.com/mwiater/evalon/internal/providers"
)

// fakeClient returns canned text with deterministic timings, keyed by prompt.
type fakeClient struct {
	responses map[string]string
	fallback  string
	elapsed   time.Duration
	err       error
	calls     []string
}

func (f *fakeClient) Chat(_ context.Context, _ appconfig.Host, _ string, prompt string) (providers.ChatResult, error) {
	f.calls = append(f.calls, prompt)
	if f.err != nil {
		return providers.ChatResult{}, f.err
	}
	text, ok := f.responses[prompt]
	if !ok {
		text = f.fallback
	}
	return providers.ChatResult{Text: text, Elapsed: f.elapsed}, nil
}

func (f *fakeClient) Close() error { return nil }

func perfSuite() fixtures.Suite {
	return fixtures.Suite{
		Name:                "test",
		Version:             "1",
		PerformancePrompts:  []string{"p1", "p2", "p3"},
		QualityCases:        []fixtures.QualityCase{{Prompt: "What is the capital of France?", Expected: "Paris"}},
		HallucinationProbes: []string{"Who won the 2025 World Cup?"},
		UncertaintyMarkers:  []string{"not sure", "cannot", "uncertain"},
	}
}

func TestMeasurePerformance(t *testing.T) {
	client := &fakeClient{
		fallback: strings.Repeat("x", 40), // 40 chars -> 10 estimated tokens
		elapsed:  500 * time.Millisecond,
	}
	e := New(client, appconfig.Host{Name: "h"}, "test-model", perfSuite())

	metrics, err := e.MeasurePerformance(context.Background(), 3)
	if err != nil {
		t.Fatalf("MeasurePerformance: %v", err)
	}
	if metrics.PromptsTested != 3 {
		t.Fatalf("prompts tested: %d", metrics.PromptsTested)
	}
	if metrics.AvgResponseTime != 500*time.Millisecond {
		t.Fatalf("avg response time: %v", metrics.AvgResponseTime)
	}
	if metrics.MinResponseTime != 500*time.Millisecond || metrics.MaxResponseTime != 500*time.Millisecond {
		t.Fatalf("min/max response time: %v/%v", metrics.MinResponseTime, metrics.MaxResponseTime)
	}
	if metrics.AvgTokensPerResponse != 10 {
		t.Fatalf("avg tokens per response: %v", metrics.AvgTokensPerResponse)
	}
	// 30 estimated tokens over 1.5 seconds.
	if math.Abs(metrics.TokensPerSecond-20) > 1e-9 {
		t.Fatalf("tokens per second: %v", metrics.TokensPerSecond)
	}
	if len(client.calls) != 3 || client.calls[0] != "p1" || client.calls[2] != "p3" {
		t.Fatalf("prompts not issued in order: %v", client.calls)
	}
}

func TestMeasurePerformanceEmptySampleSet(t *testing.T) {
	e := New(&fakeClient{}, appconfig.Host{}, "test-model", perfSuite())
	_, err := e.MeasurePerformance(context.Background(), 0)
	if !errors.Is(err, ErrEmptySampleSet) {
		t.Fatalf("expected ErrEmptySampleSet, got %v", err)
	}
}

func TestMeasurePerformanceInsufficientFixtures(t *testing.T) {
	e := New(&fakeClient{}, appconfig.Host{}, "test-model", perfSuite())
	_, err := e.MeasurePerformance(context.Background(), 4)
	if !errors.Is(err, ErrInsufficientFixtures) {
		t.Fatalf("expected ErrInsufficientFixtures, got %v", err)
	}
}

func TestMeasurePerformanceZeroElapsedGuard(t *testing.T) {
	client := &fakeClient{fallback: "response", elapsed: 0}
	e := New(client, appconfig.Host{}, "test-model", perfSuite())
	_, err := e.MeasurePerformance(context.Background(), 3)
	if err == nil {
		t.Fatal("expected error for zero elapsed time, not an infinite rate")
	}
}

func TestMeasurePerformanceAdapterFailureAborts(t *testing.T) {
	client := &fakeClient{err: providers.ErrModelUnavailable}
	e := New(client, appconfig.Host{}, "test-model", perfSuite())
	_, err := e.MeasurePerformance(context.Background(), 3)
	if !errors.Is(err, providers.ErrModelUnavailable) {
		t.Fatalf("expected adapter failure to propagate, got %v", err)
	}
	if len(client.calls) != 1 {
		t.Fatalf("expected run to abort after first failed call, got %d calls", len(client.calls))
	}
}

func TestMeasureQualityCountsSubstringMatch(t *testing.T) {
	client := &fakeClient{
		responses: map[string]string{
			"What is the capital of France?": "The capital of France is Paris.",
			"Who won the 2025 World Cup?":    "I'm not sure; that event has not been decided.",
		},
		elapsed: time.Millisecond,
	}
	e := New(client, appconfig.Host{}, "test-model", perfSuite())

	quality, err := e.MeasureQuality(context.Background(), nil)
	if err != nil {
		t.Fatalf("MeasureQuality: %v", err)
	}
	if quality.Accuracy != 1 {
		t.Fatalf("expected accuracy 1.0 for contained answer, got %v", quality.Accuracy)
	}
	if quality.CoherenceScore != 1 {
		t.Fatalf("expected coherent response, got %v", quality.CoherenceScore)
	}
	// The probe response contains "not sure", so it is non-hallucinating.
	if quality.HallucinationRate != 0 {
		t.Fatalf("expected hallucination rate 0, got %v", quality.HallucinationRate)
	}
}

func TestMeasureQualityFlagsHallucination(t *testing.T) {
	client := &fakeClient{
		responses: map[string]string{
			"What is the capital of France?": "Paris is the capital.",
			"Who won the 2025 World Cup?":    "Brazil won the 2025 World Cup in a decisive final.",
		},
		elapsed: time.Millisecond,
	}
	e := New(client, appconfig.Host{}, "test-model", perfSuite())

	quality, err := e.MeasureQuality(context.Background(), nil)
	if err != nil {
		t.Fatalf("MeasureQuality: %v", err)
	}
	if quality.HallucinationRate != 1 {
		t.Fatalf("expected hallucination rate 1, got %v", quality.HallucinationRate)
	}
}

func TestMeasureQualityEmptySampleSet(t *testing.T) {
	e := New(&fakeClient{}, appconfig.Host{}, "test-model", perfSuite())
	_, err := e.MeasureQuality(context.Background(), []fixtures.QualityCase{})
	if !errors.Is(err, ErrEmptySampleSet) {
		t.Fatalf("expected ErrEmptySampleSet, got %v", err)
	}
}

func TestIsCoherent(t *testing.T) {
	if isCoherent("short") {
		t.Fatal("too-short response should not be coherent")
	}
	if isCoherent("Error: something went wrong during generation") {
		t.Fatal("error-marker response should not be coherent")
	}
	if isCoherent("a. b. c. d. e. f. g. h. i. j. k.") {
		t.Fatal("over-fragmented response should not be coherent")
	}
	if !isCoherent("A reasonable, complete answer.") {
		t.Fatal("well-formed response should be coherent")
	}
}

func TestSpeedScore(t *testing.T) {
	// Faster than the 0.1s floor clamps to 1.
	if got := SpeedScore(50 * time.Millisecond); got != 1 {
		t.Fatalf("SpeedScore(50ms) = %v", got)
	}
	if got := SpeedScore(4 * time.Second); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("SpeedScore(4s) = %v", got)
	}
	if got := SpeedScore(10 * time.Second); math.Abs(got-0.2) > 1e-9 {
		t.Fatalf("SpeedScore(10s) = %v", got)
	}
}

func TestOverallScoreFormula(t *testing.T) {
	quality := QualityMetrics{Accuracy: 0.8, CoherenceScore: 0.6, HallucinationRate: 0.25}
	got := OverallScore(4*time.Second, quality)
	want := 0.5*WeightSpeed + 0.8*WeightAccuracy + 0.6*WeightCoherence + 0.75*WeightAntiHallucination
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("OverallScore = %v, want %v", got, want)
	}
}

func TestEvaluateAll(t *testing.T) {
	client := &fakeClient{
		responses: map[string]string{
			"What is the capital of France?": "The capital of France is Paris.",
			"Who won the 2025 World Cup?":    "I cannot know the outcome of a future event.",
		},
		fallback: strings.Repeat("y", 80),
		elapsed:  250 * time.Millisecond,
	}
	e := New(client, appconfig.Host{Name: "h"}, "test-model", perfSuite())

	result, err := e.EvaluateAll(context.Background())
	if err != nil {
		t.Fatalf("EvaluateAll: %v", err)
	}
	if result.Model != "test-model" || result.SuiteName != "test" {
		t.Fatalf("unexpected identity: %+v", result)
	}
	for name, score := range map[string]float64{
		"accuracy":           result.Accuracy,
		"coherence_score":    result.CoherenceScore,
		"hallucination_rate": result.HallucinationRate,
		"overall_score":      result.OverallScore,
	} {
		if score < 0 || score > 1 {
			t.Fatalf("%s out of range: %v", name, score)
		}
	}

	want := OverallScore(result.AvgResponseTime, QualityMetrics{
		Accuracy:          result.Accuracy,
		CoherenceScore:    result.CoherenceScore,
		HallucinationRate: result.HallucinationRate,
	})
	if math.Abs(result.OverallScore-want) > 1e-9 {
		t.Fatalf("overall score %v does not match formula %v", result.OverallScore, want)
	}

	perf, ok := result.Details["performance"]
	if !ok {
		t.Fatal("missing performance details")
	}
	if perf["avg_response_time"] != 0.25 {
		t.Fatalf("avg_response_time detail: %v", perf["avg_response_time"])
	}
	if _, ok := result.Details["quality"]; !ok {
		t.Fatal("missing quality details")
	}
}

func TestEvaluateAllProgressCallback(t *testing.T) {
	client := &fakeClient{fallback: "a perfectly ordinary answer", elapsed: time.Millisecond}
	e := New(client, appconfig.Host{}, "test-model", perfSuite())

	var stages []string
	e.Progress = func(stage, prompt string, current, total int) {
		stages = append(stages, stage)
		if current < 1 || current > total {
			t.Errorf("bad progress counters: %d/%d", current, total)
		}
	}

	if _, err := e.EvaluateAll(context.Background()); err != nil {
		t.Fatalf("EvaluateAll: %v", err)
	}
	// 3 performance + 1 quality + 1 hallucination.
	if len(stages) != 5 {
		t.Fatalf("expected 5 progress callbacks, got %d (%v)", len(stages), stages)
	}
}
