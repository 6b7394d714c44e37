// internal/fixtures/types.go

// Package fixtures holds the named, versioned prompt suites that drive
// evaluation and benchmark runs. The built-in suite mirrors the question
// tables the harness has always shipped with; alternate suites can be loaded
// from JSON and are validated against a schema before use.
package fixtures

// Suite is a complete set of prompts and questions for one evaluation run.
type Suite struct {
	Name    string `json:"name"`
	Version string `json:"version"`

	// PerformancePrompts are issued in order to measure latency and throughput.
	PerformancePrompts []string `json:"performance_prompts"`
	// QualityCases pair a prompt with the substring a correct answer contains.
	QualityCases []QualityCase `json:"quality_cases"`
	// HallucinationProbes have no knowable answer; a good model hedges.
	HallucinationProbes []string `json:"hallucination_probes"`
	// UncertaintyMarkers are the phrases accepted as expressed uncertainty.
	UncertaintyMarkers []string `json:"uncertainty_markers"`

	MMLU       []MMLUQuestion      `json:"mmlu"`
	TruthfulQA []TruthfulQACase    `json:"truthfulqa"`
	HellaSwag  []HellaSwagScenario `json:"hellaswag"`
}

// QualityCase defines a single prompt and the expected answer substring.
type QualityCase struct {
	Prompt   string `json:"prompt"`
	Expected string `json:"expected"`
}

// MMLUQuestion is a multiple-choice question scored by answer containment.
type MMLUQuestion struct {
	Question string   `json:"question"`
	Choices  []string `json:"choices"`
	Answer   string   `json:"answer"`
}

// TruthfulQACase is an open question with a flag for whether a truthful
// response should express uncertainty.
type TruthfulQACase struct {
	Question          string `json:"question"`
	ExpectUncertainty bool   `json:"expect_uncertainty"`
}

// HellaSwagScenario is a commonsense completion with one plausible and one
// implausible ending. The correct ending is always presented as option A.
type HellaSwagScenario struct {
	Context       string `json:"context"`
	CorrectEnding string `json:"correct_ending"`
	WrongEnding   string `json:"wrong_ending"`
}
