package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThomasCrouzet/archmap/internal/analyzer"
	"github.com/ThomasCrouzet/archmap/internal/backend"
	"github.com/ThomasCrouzet/archmap/internal/collector"
	"github.com/ThomasCrouzet/archmap/internal/server"
	"github.com/ThomasCrouzet/archmap/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var backendAddr string

var backendCmd = &cobra.Command{
	Use:   "backend",
	Short: "Run the analysis service",
	Long: `Run the analysis service. POST /analyze reads the repository through the
GitHub contents API and asks an OpenAI model for its architecture.

GITHUB_TOKEN raises the GitHub rate limit and allows private repositories.
OPENAI_API_KEY is required for analyses to succeed.`,
	RunE: runBackend,
}

func init() {
	rootCmd.AddCommand(backendCmd)

	backendCmd.Flags().StringVar(&backendAddr, "addr", "", "listen address (default from backend.addr)")
}

func runBackend(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if backendAddr != "" {
		cfg.Backend.Addr = backendAddr
	}

	opts := collector.OptionsFromConfig(cfg.Backend)
	opts.Logger = logger.Named("collector")
	gh := collector.NewGitHub(opts)

	var completer analyzer.Completer
	oc, err := analyzer.NewOpenAI(cfg.Backend.OpenAIAPIKey, cfg.Backend.OpenAIURL, cfg.Backend.Model)
	switch {
	case errors.Is(err, analyzer.ErrMissingAPIKey):
		ui.Warn("OPENAI_API_KEY is not set; every analysis will report an error")
	case err != nil:
		fmt.Fprint(os.Stderr, ui.FormatError("Failed to create OpenAI client", err.Error(), ""))
		return err
	default:
		completer = oc
	}
	if cfg.Backend.GitHubToken == "" {
		ui.Warn("GITHUB_TOKEN is not set; only public repositories can be read, at a low rate limit")
	}

	an := analyzer.New(completer, cfg.Backend.Model, cfg.Backend.MaxTokens, logger.Named("analyzer"))
	svc := backend.New(gh, an, logger.Named("backend"))

	srv := server.New(server.Config{
		Name:         "backend",
		Addr:         cfg.Backend.Addr,
		AllowOrigins: cfg.Backend.AllowOrigins,
	}, logger)
	svc.RegisterRoutes(srv.Router())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("backend listening", zap.String("addr", cfg.Backend.Addr), zap.String("model", cfg.Backend.Model))
	fmt.Printf("%s %s\n", ui.Bold("archmap backend:"), frontendURL(cfg.Backend.Addr))
	return srv.Run(ctx)
}
