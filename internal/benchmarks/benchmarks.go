// internal/benchmarks/benchmarks.go

// Package benchmarks runs miniature samples of MMLU, TruthfulQA, and
// HellaSwag against a model and scores them with containment heuristics.
// These are small demo sets, not full-fidelity benchmark integrations.
package benchmarks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mwiater/evalon/internal/appconfig"
	"github.com/mwiater/evalon/internal/fixtures"
	"github.com/mwiater/evalon/internal/logging"
	"github.com/mwiater/evalon/internal/providers"
	"github.com/mwiater/evalon/internal/util"
)

// ErrEmptySampleSet is returned when a benchmark is run over zero questions.
var ErrEmptySampleSet = errors.New("empty sample set")

const resultsDir = "evalonData/modelBenchmarks"

// Runner issues one benchmark question at a time against a single host/model
// pair. Questions are asked strictly in table order; the first failed call
// aborts the run.
type Runner struct {
	client providers.ChatClient
	host   appconfig.Host
	model  string
	suite  fixtures.Suite

	// Progress, when set, is invoked before each question is asked.
	Progress func(stage, prompt string, current, total int)
}

// NewRunner constructs a Runner over the given client, host, model, and
// fixture suite.
func NewRunner(client providers.ChatClient, host appconfig.Host, model string, suite fixtures.Suite) *Runner {
	return &Runner{
		client: client,
		host:   host,
		model:  model,
		suite:  suite,
	}
}

func (r *Runner) progress(stage, prompt string, current, total int) {
	if r.Progress != nil {
		r.Progress(stage, prompt, current, total)
	}
}

func (r *Runner) chat(ctx context.Context, prompt string) (string, error) {
	result, err := r.client.Chat(ctx, r.host, r.model, prompt)
	if err != nil {
		return "", fmt.Errorf("chat with model %s: %w", r.model, err)
	}
	return result.Text, nil
}

// RunMMLUSample asks the given multiple-choice questions (the suite's MMLU
// table when nil) and scores by case-insensitive answer containment.
func (r *Runner) RunMMLUSample(ctx context.Context, questions []fixtures.MMLUQuestion) (Sample, error) {
	if questions == nil {
		questions = r.suite.MMLU
	}
	if len(questions) == 0 {
		return Sample{}, fmt.Errorf("mmlu sample: %w", ErrEmptySampleSet)
	}

	correct := 0
	for i, q := range questions {
		prompt := fmt.Sprintf("%s\nChoices: %s\nAnswer:", q.Question, strings.Join(q.Choices, ", "))
		r.progress("mmlu", q.Question, i+1, len(questions))
		response, err := r.chat(ctx, prompt)
		if err != nil {
			return Sample{}, err
		}
		if strings.Contains(strings.ToLower(response), strings.ToLower(q.Answer)) {
			correct++
		}
	}

	return Sample{
		Score:           float64(correct) / float64(len(questions)),
		QuestionsTested: len(questions),
		Correct:         correct,
	}, nil
}

// RunTruthfulQASample asks the given open questions (the suite's TruthfulQA
// table when nil). A response is truthful when its expressed uncertainty
// matches the expectation for the question.
func (r *Runner) RunTruthfulQASample(ctx context.Context, questions []fixtures.TruthfulQACase) (Sample, error) {
	if questions == nil {
		questions = r.suite.TruthfulQA
	}
	if len(questions) == 0 {
		return Sample{}, fmt.Errorf("truthfulqa sample: %w", ErrEmptySampleSet)
	}

	markers := r.suite.TruthfulnessMarkers()
	correct := 0
	for i, q := range questions {
		r.progress("truthfulqa", q.Question, i+1, len(questions))
		response, err := r.chat(ctx, q.Question)
		if err != nil {
			return Sample{}, err
		}
		lower := strings.ToLower(response)
		expressesUncertainty := false
		for _, marker := range markers {
			if strings.Contains(lower, strings.ToLower(marker)) {
				expressesUncertainty = true
				break
			}
		}
		if expressesUncertainty == q.ExpectUncertainty {
			correct++
		}
	}

	return Sample{
		Score:           float64(correct) / float64(len(questions)),
		QuestionsTested: len(questions),
		Correct:         correct,
	}, nil
}

// RunHellaSwagSample asks the given completion scenarios (the suite's
// HellaSwag table when nil). Scoring inspects only the first
// whitespace-delimited token of the response for the expected option letter;
// a response that opens with filler text can be misscored.
func (r *Runner) RunHellaSwagSample(ctx context.Context, scenarios []fixtures.HellaSwagScenario) (Sample, error) {
	if scenarios == nil {
		scenarios = r.suite.HellaSwag
	}
	if len(scenarios) == 0 {
		return Sample{}, fmt.Errorf("hellaswag sample: %w", ErrEmptySampleSet)
	}

	correct := 0
	for i, s := range scenarios {
		prompt := fmt.Sprintf("%s\n\nWhich is more likely:\nA) %s\nB) %s\n\nAnswer with A or B:",
			s.Context, s.CorrectEnding, s.WrongEnding)
		r.progress("hellaswag", s.Context, i+1, len(scenarios))
		response, err := r.chat(ctx, prompt)
		if err != nil {
			return Sample{}, err
		}
		if firstTokenContainsA(response) {
			correct++
		}
	}

	return Sample{
		Score:           float64(correct) / float64(len(scenarios)),
		QuestionsTested: len(scenarios),
		Correct:         correct,
	}, nil
}

// firstTokenContainsA reports whether the first whitespace-delimited token of
// the response, uppercased, contains the letter A. An empty response counts
// as incorrect.
func firstTokenContainsA(response string) bool {
	tokens := strings.Fields(strings.ToUpper(response))
	if len(tokens) == 0 {
		return false
	}
	return strings.Contains(tokens[0], "A")
}

// RunAll composes the three benchmark samples and averages their scores into
// the aggregate.
func (r *Runner) RunAll(ctx context.Context) (Result, error) {
	logging.LogEvent("Running benchmarks for model %s...", r.model)

	mmlu, err := r.RunMMLUSample(ctx, nil)
	if err != nil {
		return Result{}, err
	}
	truthful, err := r.RunTruthfulQASample(ctx, nil)
	if err != nil {
		return Result{}, err
	}
	hellaswag, err := r.RunHellaSwagSample(ctx, nil)
	if err != nil {
		return Result{}, err
	}

	aggregate := (mmlu.Score + truthful.Score + hellaswag.Score) / 3

	logging.LogEvent("Benchmarks complete for model %s. Aggregate score: %.1f%%", r.model, aggregate*100)

	return Result{
		Model:      r.model,
		MMLU:       mmlu,
		TruthfulQA: truthful,
		HellaSwag:  hellaswag,
		Aggregate:  aggregate,
	}, nil
}

// WriteResults writes benchmark results for one or more models to a JSON
// file under the benchmark results directory and returns its path.
func WriteResults(results map[string]Result, suiteName string) (string, error) {
	var modelNames []string
	for name := range results {
		modelNames = append(modelNames, name)
	}
	sort.Strings(modelNames)

	if err := os.MkdirAll(resultsDir, 0o755); err != nil {
		return "", fmt.Errorf("error creating results directory: %w", err)
	}
	fileName := filepath.Join(resultsDir, fmt.Sprintf("%s-%s.json", util.Slugify(strings.Join(modelNames, "-")), util.Slugify(suiteName)))

	file, err := os.Create(fileName)
	if err != nil {
		return "", fmt.Errorf("error creating result file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(results); err != nil {
		return "", fmt.Errorf("error writing results to file: %w", err)
	}

	logging.LogEvent("Benchmark results written to %s", fileName)

	return fileName, nil
}
