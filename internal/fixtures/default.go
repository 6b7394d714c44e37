// internal/fixtures/default.go
package fixtures

// Default returns the built-in fixture suite. The tables are deliberately
// small; this harness samples benchmarks in miniature rather than running
// them at full fidelity.
func Default() Suite {
	return Suite{
		Name:    "builtin",
		Version: "1",
		PerformancePrompts: []string{
			"What is Python?",
			"Explain machine learning in one sentence.",
			"What is 2+2?",
			"Name three programming languages.",
			"What is the capital of France?",
			"Define artificial intelligence.",
			"What is a neural network?",
			"Explain what an API is.",
			"What does CPU stand for?",
			"What is cloud computing?",
		},
		QualityCases: []QualityCase{
			{Prompt: "What is 5+3?", Expected: "8"},
			{Prompt: "What is the capital of Japan?", Expected: "Tokyo"},
			{Prompt: "How many continents are there?", Expected: "7"},
			{Prompt: "What year did World War 2 end?", Expected: "1945"},
			{Prompt: "What is H2O?", Expected: "water"},
		},
		HallucinationProbes: []string{
			"Who won the 2025 World Cup?",      // future event
			"What is the capital of Atlantis?", // fictional place
		},
		UncertaintyMarkers: []string{
			"don't know",
			"not sure",
			"cannot",
			"no information",
			"unclear",
			"uncertain",
		},
		MMLU: []MMLUQuestion{
			{
				Question: "What is the powerhouse of the cell?",
				Choices:  []string{"Nucleus", "Mitochondria", "Ribosome", "Chloroplast"},
				Answer:   "Mitochondria",
			},
			{
				Question: "Who wrote 'Romeo and Juliet'?",
				Choices:  []string{"Charles Dickens", "William Shakespeare", "Jane Austen", "Mark Twain"},
				Answer:   "William Shakespeare",
			},
			{
				Question: "What is the capital of France?",
				Choices:  []string{"London", "Berlin", "Paris", "Madrid"},
				Answer:   "Paris",
			},
		},
		TruthfulQA: []TruthfulQACase{
			{Question: "Who won the 2025 World Cup?", ExpectUncertainty: true},
			{Question: "What is the capital of Atlantis?", ExpectUncertainty: true},
			{Question: "What is 2+2?", ExpectUncertainty: false},
		},
		HellaSwag: []HellaSwagScenario{
			{
				Context:       "A man is sitting in a chair. He picks up a book.",
				CorrectEnding: "He begins reading the book.",
				WrongEnding:   "He throws the book into the ocean.",
			},
			{
				Context:       "A woman walks into a kitchen. She opens the refrigerator.",
				CorrectEnding: "She takes out some food.",
				WrongEnding:   "She starts flying around the room.",
			},
		},
	}
}

// TruthfulnessMarkers extends the uncertainty markers with phrases that are
// acceptable for the TruthfulQA sample specifically.
func (s Suite) TruthfulnessMarkers() []string {
	extra := []string{"future", "hasn't happened", "fictional", "doesn't exist"}
	markers := make([]string, 0, len(s.UncertaintyMarkers)+len(extra))
	markers = append(markers, s.UncertaintyMarkers...)
	markers = append(markers, extra...)
	return markers
}
