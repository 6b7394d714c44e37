// internal/commands/evaluate.go
package evalon

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"

	"github.com/mwiater/evalon/internal/appconfig"
	"github.com/mwiater/evalon/internal/evaluator"
	"github.com/mwiater/evalon/internal/fixtures"
	"github.com/mwiater/evalon/internal/logging"
	"github.com/mwiater/evalon/internal/providerfactory"
	"github.com/mwiater/evalon/internal/providers"
	"github.com/mwiater/evalon/internal/report"
	"github.com/mwiater/evalon/internal/tui"
)

// evaluateCmd represents the evaluate command.
var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate models defined in the config file and write markdown reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEvaluate(GetConfig())
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cfg *appconfig.Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if len(cfg.Hosts) == 0 {
		return fmt.Errorf("evaluation runs require at least one host in the configuration")
	}

	suite, err := fixtures.Resolve(cfg.FixturesPath)
	if err != nil {
		return err
	}
	logging.LogEvent("Using fixture suite %s (v%s)", suite.Name, suite.Version)

	totalModels := 0
	for _, host := range cfg.Hosts {
		totalModels += len(host.Models)
	}
	if totalModels == 0 {
		return fmt.Errorf("evaluation runs require at least one model in the configuration")
	}

	for _, host := range cfg.Hosts {
		client, err := providerfactory.NewChatClient(cfg, host)
		if err != nil {
			return fmt.Errorf("error creating client for host %s: %w", host.Name, err)
		}

		for _, model := range host.Models {
			result, err := evaluateModel(cfg, client, host, model, suite)
			if err != nil {
				_ = client.Close()
				return err
			}

			path := report.PathForModel(model)
			if cfg.ReportPath != "" && totalModels == 1 {
				path = cfg.ReportPath
			}
			if err := report.Write(result, path); err != nil {
				_ = client.Close()
				return err
			}

			printEvaluationSummary(result, path)
			if cfg.Debug {
				pp.Println(result.Details)
			}
		}

		_ = client.Close()
	}

	return nil
}

func evaluateModel(cfg *appconfig.Config, client providers.ChatClient, host appconfig.Host, model string, suite fixtures.Suite) (evaluator.Result, error) {
	if err := warmModel(client, host, model); err != nil {
		return evaluator.Result{}, err
	}

	e := evaluator.New(client, host, model, suite)
	e.Samples = cfg.SampleCount

	if cfg.PlainMode {
		e.Progress = func(stage, prompt string, current, total int) {
			logging.LogEvent("[%s] %d/%d %s", stage, current, total, prompt)
		}
		return e.EvaluateAll(context.Background())
	}

	runner := tui.NewRunner(fmt.Sprintf("Evaluating %s on %s", model, host.Name))
	e.Progress = runner.Report

	var result evaluator.Result
	err := runner.Run(func() error {
		var runErr error
		result, runErr = e.EvaluateAll(context.Background())
		return runErr
	})
	return result, err
}

// warmModel preloads the model when the client supports it, so load time does
// not count against the first measured prompt.
func warmModel(client providers.ChatClient, host appconfig.Host, model string) error {
	warmer, ok := client.(providers.ModelWarmer)
	if !ok {
		return nil
	}
	logging.LogEvent("Preloading model %s on %s...", model, host.Name)
	return warmer.EnsureModelReady(context.Background(), host, model)
}

func printEvaluationSummary(result evaluator.Result, reportPath string) {
	bold := color.New(color.Bold)
	bold.Printf("\nEVALUATION SUMMARY: %s\n", result.Model)
	fmt.Printf("  Accuracy:           %.1f%%\n", result.Accuracy*100)
	fmt.Printf("  Avg Response Time:  %.2fs\n", result.AvgResponseTime.Seconds())
	fmt.Printf("  Token Efficiency:   %.1f tokens/s\n", result.TokenEfficiency)
	fmt.Printf("  Hallucination Rate: %.1f%%\n", result.HallucinationRate*100)
	fmt.Printf("  Coherence Score:    %.1f%%\n", result.CoherenceScore*100)
	scoreColor := color.New(color.FgRed)
	switch {
	case result.OverallScore >= 0.75:
		scoreColor = color.New(color.FgGreen)
	case result.OverallScore >= 0.5:
		scoreColor = color.New(color.FgYellow)
	}
	scoreColor.Printf("  Overall Score:      %.2f/1.00\n", result.OverallScore)
	fmt.Printf("Report saved to: %s\n", reportPath)
}
