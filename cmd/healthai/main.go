// healthai is a personal vital-sign tracker with health scoring and an AI
// advisory assistant.
//
// Scores and classifies vitals locally; symptom analysis, treatment plans,
// chat and trend analysis are delegated to a remote text-generation service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dmitriimaksimovdevelop/healthai/internal/advisor"
	"github.com/dmitriimaksimovdevelop/healthai/internal/config"
	"github.com/dmitriimaksimovdevelop/healthai/internal/logging"
	"github.com/dmitriimaksimovdevelop/healthai/internal/session"
)

var (
	version = "0.1.0"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries what every subcommand needs, built once before it runs.
type app struct {
	configPath string
	verbose    bool
	noColor    bool

	cfg      *config.Config
	log      *zap.Logger
	sess     *session.Session
	provider *advisor.Provider
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	level := cfg.LogLevel
	if a.verbose {
		level = "debug"
	}
	log, err := logging.New(level, cfg.LogFormat, logging.ServiceName)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	if a.noColor {
		color.NoColor = true
	}

	sess := session.New()
	profile, err := session.LoadProfile(cfg.ProfilePath)
	if err != nil {
		log.Warn("using default profile", zap.Error(err))
	}
	sess.SetProfile(profile)

	a.cfg = cfg
	a.log = log
	a.sess = sess
	a.provider = advisor.NewProvider(cfg, log)
	return nil
}

func (a *app) close() {
	if a.log != nil {
		_ = a.log.Sync()
	}
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "healthai",
		Short: "Personal vital-sign tracker with an AI health assistant",
		Long: `healthai: track daily vitals, score them and ask an AI assistant about them.

Scoring, classification, statistics and exports run locally.
Symptom analysis, treatment plans, chat and trend analysis call a
remote text-generation service (Hugging Face or Anthropic). Without
a token the assistant runs offline with rule-based answers.

Responses are informational and are not medical advice.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file (overrides environment)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		newDashboardCmd(a),
		newScoreCmd(a),
		newClassifyCmd(a),
		newRangesCmd(a),
		newGenerateCmd(a),
		newExportCmd(a),
		newDiffCmd(a),
		newSymptomsCmd(a),
		newTreatmentCmd(a),
		newTrendsCmd(a),
		newChatCmd(a),
		newProfileCmd(a),
		newServeCmd(a),
		newIngestCmd(a),
		newMCPCmd(a),
	)
	return rootCmd
}
