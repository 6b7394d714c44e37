// internal/commands/root.go
package evalon

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/mwiater/evalon/internal/appconfig"
	"github.com/mwiater/evalon/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "evalon",
	Short: "evalon — benchmark and score locally hosted language models",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureConfigLoaded(); err != nil {
			return err
		}

		for _, name := range []string{"debug", "plainMode"} {
			if !cmd.Flags().Changed(name) {
				val := viper.GetBool(name)
				_ = cmd.Flags().Set(name, strconv.FormatBool(val))
			}
		}
		for _, name := range []string{"fixtures", "report", "logFile"} {
			if !cmd.Flags().Changed(name) {
				_ = cmd.Flags().Set(name, viper.GetString(name))
			}
		}
		if !cmd.Flags().Changed("sampleCount") {
			_ = cmd.Flags().Set("sampleCount", strconv.Itoa(viper.GetInt("sampleCount")))
		}

		var cfg appconfig.Config
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
		cfg.ConfigPath = viper.ConfigFileUsed()
		currentConfig = &cfg

		if err := logging.Init(currentConfig.LogFilePath()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	defer logging.Close()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config/config.json", "config file (e.g., config/config.json)")

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().Bool("plainMode", false, "disable the progress display, log plain text instead")
	rootCmd.PersistentFlags().String("fixtures", "", "path to a custom fixture suite JSON file")
	rootCmd.PersistentFlags().String("report", "", "write the evaluation report to this path")
	rootCmd.PersistentFlags().String("logFile", "", "path to the log file")
	rootCmd.PersistentFlags().Int("sampleCount", 0, "performance prompts per run (0 = all)")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("plainMode", rootCmd.PersistentFlags().Lookup("plainMode"))
	_ = viper.BindPFlag("fixtures", rootCmd.PersistentFlags().Lookup("fixtures"))
	_ = viper.BindPFlag("report", rootCmd.PersistentFlags().Lookup("report"))
	_ = viper.BindPFlag("logFile", rootCmd.PersistentFlags().Lookup("logFile"))
	_ = viper.BindPFlag("sampleCount", rootCmd.PersistentFlags().Lookup("sampleCount"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// ensureConfigLoaded resolves the config file (including the legacy
// config.json fallback) and feeds it to viper. A missing config file is not
// an error; commands that need hosts report that themselves.
func ensureConfigLoaded() error {
	loaded, err := appconfig.Load(cfgFile)
	if err != nil {
		if errors.Is(err, appconfig.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load config: %w", err)
	}

	viper.SetConfigFile(loaded.ConfigPath)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	return nil
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	return currentConfig
}

// DebugEnabled returns true if debug mode is enabled.
func DebugEnabled() bool { return viper.GetBool("debug") }

// PlainModeEnabled returns true if the progress display is disabled.
func PlainModeEnabled() bool { return viper.GetBool("plainMode") }

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}
