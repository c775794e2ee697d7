package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd is the application entry point.
var rootCmd = &cobra.Command{
	Use:   "portcfg",
	Short: "Resolve port build configurations",
	Long: `portcfg resolves the build configuration of a language runtime port:
the compiler dialect, the platform integer types, the feature flags and the
idle-poll scheduler hook. Resolution is deterministic for a given set of
build inputs, and every inconsistency is reported as a configuration error.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		setupLogging()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := execute(rootCmd); err != nil {
		os.Exit(1)
	}
}

// execute runs cmd and logs a failure once through slog.
func execute(cmd *cobra.Command) error {
	cmd.SilenceErrors = true
	err := cmd.Execute()
	if err != nil {
		slog.Error("command failed", "command", cmd.Name(), "error", err)
	}
	return err
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.portcfg.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().String("site-config", "", "site config with shared overrides (default is $HOME/.portcfg/config.yaml)")
	_ = viper.BindPFlag("site_config", rootCmd.PersistentFlags().Lookup("site-config"))
}

// initConfig loads configuration from the config file and environment.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			slog.Error("failed to find home directory", "error", err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".portcfg")
	}

	viper.SetEnvPrefix("PORTCFG")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		slog.Debug("using config file", "file", viper.ConfigFileUsed())
	}
}

func setupLogging() {
	level := slog.LevelInfo
	if verbose || viper.GetBool("verbose") {
		level = slog.LevelDebug
	}

	// Using TextHandler for CLI friendliness
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
