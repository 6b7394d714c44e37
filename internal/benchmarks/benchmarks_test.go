// internal/benchmarks/benchmarks_test.go
package benchmarks

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mwiater/evalon/internal/appconfig"
	"github.com/mwiater/evalon/internal/fixtures"
	"github.com/mwiater/evalon/internal/providers"
)

// scriptedClient returns responses in call order.
type scriptedClient struct {
	responses []string
	err       error
	calls     int
}

func (s *scriptedClient) Chat(_ context.Context, _ appconfig.Host, _ string, _ string) (providers.ChatResult, error) {
	if s.err != nil {
		return providers.ChatResult{}, s.err
	}
	var text string
	if s.calls < len(s.responses) {
		text = s.responses[s.calls]
	}
	s.calls++
	return providers.ChatResult{Text: text}, nil
}

func (s *scriptedClient) Close() error { return nil }

func testSuite() fixtures.Suite {
	return fixtures.Suite{
		Name:               "test",
		Version:            "1",
		UncertaintyMarkers: []string{"not sure", "cannot", "uncertain"},
		MMLU: []fixtures.MMLUQuestion{
			{Question: "What is the capital of France?", Choices: []string{"London", "Paris"}, Answer: "Paris"},
			{Question: "What is the powerhouse of the cell?", Choices: []string{"Nucleus", "Mitochondria"}, Answer: "Mitochondria"},
		},
		TruthfulQA: []fixtures.TruthfulQACase{
			{Question: "Who won the 2025 World Cup?", ExpectUncertainty: true},
			{Question: "What is 2+2?", ExpectUncertainty: false},
		},
		HellaSwag: []fixtures.HellaSwagScenario{
			{Context: "He picks up a book.", CorrectEnding: "He reads it.", WrongEnding: "He eats it."},
			{Context: "She opens the fridge.", CorrectEnding: "She takes out food.", WrongEnding: "She flies away."},
		},
	}
}

func TestRunMMLUSample(t *testing.T) {
	client := &scriptedClient{responses: []string{
		"The answer is Paris.",
		"I believe it is the nucleus.",
	}}
	r := NewRunner(client, appconfig.Host{}, "test-model", testSuite())

	sample, err := r.RunMMLUSample(context.Background(), nil)
	if err != nil {
		t.Fatalf("RunMMLUSample: %v", err)
	}
	if sample.QuestionsTested != 2 {
		t.Fatalf("questions tested: %d", sample.QuestionsTested)
	}
	if sample.Correct != 1 || sample.Score != 0.5 {
		t.Fatalf("unexpected sample: %+v", sample)
	}
}

func TestRunTruthfulQASample(t *testing.T) {
	client := &scriptedClient{responses: []string{
		"I'm not sure; that tournament hasn't been decided.",
		"4",
	}}
	r := NewRunner(client, appconfig.Host{}, "test-model", testSuite())

	sample, err := r.RunTruthfulQASample(context.Background(), nil)
	if err != nil {
		t.Fatalf("RunTruthfulQASample: %v", err)
	}
	if sample.Correct != 2 || sample.Score != 1 {
		t.Fatalf("unexpected sample: %+v", sample)
	}
}

func TestRunTruthfulQASampleOverconfident(t *testing.T) {
	client := &scriptedClient{responses: []string{
		"Brazil won it in a thrilling final.", // should have hedged
		"4",
	}}
	r := NewRunner(client, appconfig.Host{}, "test-model", testSuite())

	sample, err := r.RunTruthfulQASample(context.Background(), nil)
	if err != nil {
		t.Fatalf("RunTruthfulQASample: %v", err)
	}
	if sample.Correct != 1 || sample.Score != 0.5 {
		t.Fatalf("unexpected sample: %+v", sample)
	}
}

func TestRunHellaSwagSampleFirstTokenHeuristic(t *testing.T) {
	client := &scriptedClient{responses: []string{
		"A) He reads it.",
		"B",
	}}
	r := NewRunner(client, appconfig.Host{}, "test-model", testSuite())

	sample, err := r.RunHellaSwagSample(context.Background(), nil)
	if err != nil {
		t.Fatalf("RunHellaSwagSample: %v", err)
	}
	if sample.Correct != 1 || sample.Score != 0.5 {
		t.Fatalf("unexpected sample: %+v", sample)
	}
}

func TestFirstTokenContainsA(t *testing.T) {
	if !firstTokenContainsA("A) obviously") {
		t.Fatal("leading A should match")
	}
	if firstTokenContainsA("B) no") {
		t.Fatal("leading B should not match")
	}
	if firstTokenContainsA("") {
		t.Fatal("empty response should not match")
	}
	// Known limitation of the heuristic: any first token containing the
	// letter A matches, e.g. filler like "Actually".
	if !firstTokenContainsA("Actually, B is correct.") {
		t.Fatal("heuristic inspects only the first token")
	}
}

func TestEmptySampleSets(t *testing.T) {
	r := NewRunner(&scriptedClient{}, appconfig.Host{}, "test-model", testSuite())

	if _, err := r.RunMMLUSample(context.Background(), []fixtures.MMLUQuestion{}); !errors.Is(err, ErrEmptySampleSet) {
		t.Fatalf("mmlu: expected ErrEmptySampleSet, got %v", err)
	}
	if _, err := r.RunTruthfulQASample(context.Background(), []fixtures.TruthfulQACase{}); !errors.Is(err, ErrEmptySampleSet) {
		t.Fatalf("truthfulqa: expected ErrEmptySampleSet, got %v", err)
	}
	if _, err := r.RunHellaSwagSample(context.Background(), []fixtures.HellaSwagScenario{}); !errors.Is(err, ErrEmptySampleSet) {
		t.Fatalf("hellaswag: expected ErrEmptySampleSet, got %v", err)
	}
}

func TestRunAllAggregateIsMean(t *testing.T) {
	// 2 MMLU, then 2 TruthfulQA, then 2 HellaSwag responses.
	client := &scriptedClient{responses: []string{
		"Paris", "Mitochondria",
		"not sure", "4",
		"A", "A",
	}}
	r := NewRunner(client, appconfig.Host{}, "test-model", testSuite())

	result, err := r.RunAll(context.Background())
	if err != nil {
		t.Fatalf("RunAll: %v", err)
	}
	want := (result.MMLU.Score + result.TruthfulQA.Score + result.HellaSwag.Score) / 3
	if math.Abs(result.Aggregate-want) > 1e-9 {
		t.Fatalf("aggregate %v, want mean %v", result.Aggregate, want)
	}
	if result.Aggregate != 1 {
		t.Fatalf("expected perfect aggregate, got %v", result.Aggregate)
	}
}

func TestRunAllAdapterFailureAborts(t *testing.T) {
	client := &scriptedClient{err: providers.ErrModelUnavailable}
	r := NewRunner(client, appconfig.Host{}, "test-model", testSuite())
	if _, err := r.RunAll(context.Background()); !errors.Is(err, providers.ErrModelUnavailable) {
		t.Fatalf("expected adapter failure to propagate, got %v", err)
	}
}

func TestWriteResults(t *testing.T) {
	tempDir := t.TempDir()
	prevDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(tempDir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(prevDir) })

	results := map[string]Result{
		"Model:One": {
			Model:     "Model:One",
			Aggregate: 0.5,
		},
	}
	path, err := WriteResults(results, "builtin")
	if err != nil {
		t.Fatalf("WriteResults: %v", err)
	}

	expectedName := filepath.Join("evalonData", "modelBenchmarks", "model_one-builtin.json")
	if path != expectedName {
		t.Fatalf("unexpected path: %s", path)
	}
	data, err := os.ReadFile(expectedName)
	if err != nil {
		t.Fatalf("read result: %v", err)
	}
	if !strings.Contains(string(data), "Model:One") {
		t.Fatalf("expected model name in output: %s", string(data))
	}
	var decoded map[string]Result
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid json output: %v", err)
	}
}
