package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"stratagem/internal/analysis"
	"stratagem/internal/config"
	"stratagem/internal/inference"
	"stratagem/internal/logging"
	"stratagem/internal/orchestrator"
	"stratagem/internal/store"
)

var (
	// Global flags
	configPath string
	verbose    bool

	logger *zap.Logger
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "stratagem",
	Short: "stratagem - strategic analysis engine for qualified sales leads",
	Long: `stratagem runs a multi-module strategic analysis for a qualified sales
lead: market, technical, and compliance modules execute in parallel, an
executive module consolidates their outputs into a financial model and a
go/no-go recommendation, and a synthesis pass scores overall confidence.

A run always produces a complete report. Modules that time out or fail are
replaced by deterministic industry defaults, flagged in the report notes.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = logging.New(verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var (
	leadPath string
	offline  bool
	noSave   bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the full analysis pipeline for a lead",
	Long: `Reads a lead profile from a YAML file and runs all analysis modules.

Example lead file:

  lead:
    company_name: Meridian Health
    industry: healthcare
    size: 1200
    location: Chicago
    annual_revenue: 80000000
    stage: growth
  requirements:
    multi_tenant: true
    compliance_frameworks: [HIPAA, SOC2]

With --offline the engine uses canned module responses instead of the
Gemini API; useful for demos and pipeline checks.`,
	RunE: runAnalyze,
}

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [report-id]",
	Short: "List past reports, or print one report as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistory,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("stratagem %s\n", cfg.Version)
	},
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	req, err := loadLead(leadPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var client inference.Client
	if offline {
		client = offlineClient()
		logger.Info("running in offline mode with canned responses")
	} else {
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("no API key configured: set GEMINI_API_KEY or add llm.api_key to %s", configPath)
		}
		client, err = inference.NewGeminiClient(ctx, cfg.LLM.APIKey, cfg.LLM.Model)
		if err != nil {
			return fmt.Errorf("failed to create inference client: %w", err)
		}
	}

	orch := orchestrator.New(cfg, client, logger)
	defer orch.Close()

	// Synthesis weights can be tuned while an analysis is in flight.
	if watcher, err := config.NewWatcher(configPath, logger, func(next *config.Config) {
		orch.SetSynthesisConfig(next.Synthesis)
	}); err == nil {
		if err := watcher.Start(ctx); err == nil {
			defer watcher.Stop()
		}
	}

	report := orch.Run(ctx, req)
	printReport(os.Stdout, report)

	if noSave {
		return nil
	}
	st, err := store.NewReportStore(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open report store: %w", err)
	}
	defer st.Close()
	if err := st.Save(report); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	logger.Info("report saved", zap.String("report_id", report.ReportID),
		zap.String("db", cfg.DatabasePath))
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	st, err := store.NewReportStore(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open report store: %w", err)
	}
	defer st.Close()

	if len(args) == 1 {
		report, err := st.Get(args[0])
		if err != nil {
			return err
		}
		return printReportJSON(os.Stdout, report)
	}

	summaries, err := st.List(historyLimit)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Println("no reports yet")
		return nil
	}
	for _, s := range summaries {
		fmt.Printf("%-44s %-24s %-12s %s  conf=%.2f fallbacks=%d\n",
			s.ReportID, s.Company, s.Industry,
			s.GeneratedAt.Format("2006-01-02 15:04"),
			s.OverallConfidence, s.FallbackCount)
	}
	return nil
}

// loadLead parses the YAML lead file into an analysis request.
func loadLead(path string) (*analysis.AnalysisRequest, error) {
	if path == "" {
		return nil, fmt.Errorf("--lead is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lead file: %w", err)
	}
	var req analysis.AnalysisRequest
	if err := yaml.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse lead file %s: %w", path, err)
	}
	if req.Lead.CompanyName == "" {
		return nil, fmt.Errorf("lead file %s: lead.company_name is required", path)
	}
	return &req, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "stratagem.json", "Config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	analyzeCmd.Flags().StringVarP(&leadPath, "lead", "l", "", "Lead profile YAML file (required)")
	analyzeCmd.Flags().BoolVar(&offline, "offline", false, "Use canned responses instead of the Gemini API")
	analyzeCmd.Flags().BoolVar(&noSave, "no-save", false, "Do not persist the report to history")

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum rows to list")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
