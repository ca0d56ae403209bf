package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/ThomasCrouzet/archmap/internal/client"
	"github.com/ThomasCrouzet/archmap/internal/config"
	"github.com/ThomasCrouzet/archmap/internal/handoff"
	"github.com/ThomasCrouzet/archmap/internal/model"
	"github.com/ThomasCrouzet/archmap/internal/progress"
	"github.com/ThomasCrouzet/archmap/internal/session"
	"github.com/ThomasCrouzet/archmap/internal/ui"
	"github.com/ThomasCrouzet/archmap/internal/web"
	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	endpointFlag string
	outputFile   string
	themeName    string
	rawAnalysis  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [owner/repo | owner repo]",
	Short: "Analyze a GitHub repository and draw its architecture",
	Long: `Submit a repository to the analysis service, show the analysis and the
services it found by category, and write the architecture diagram as SVG.

Without arguments the repository from archmap.yml is used.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output SVG file path")
	analyzeCmd.Flags().StringVar(&endpointFlag, "endpoint", "", "analysis service URL")
	analyzeCmd.Flags().StringVar(&themeName, "theme", "", "color theme: default, dark, monochrome")
	analyzeCmd.Flags().BoolVar(&rawAnalysis, "raw", false, "print the analysis markdown without rendering it")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyFlagOverrides(cfg)

	owner, repo, err := repositoryArgs(args, cfg.Repository)
	if err != nil {
		fmt.Fprint(os.Stderr, ui.FormatError("No repository", err.Error(), "pass owner/repo or set 'repository' in archmap.yml"))
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	reporter := progress.NewReporter(os.Stderr)
	ctrl := session.NewController(
		client.New(cfg.Endpoint, cfg.Client.Timeout),
		session.WithInterval(cfg.Progress.Interval),
		session.WithOnChange(reporter.Update),
	)

	logger.Debug("submitting", zap.String("repo", owner+"/"+repo), zap.String("endpoint", cfg.Endpoint))
	reporter.Start(strings.TrimSpace(owner) + "/" + strings.TrimSpace(repo))
	res, err := ctrl.Submit(ctx, owner, repo)
	reporter.Finish(ctrl.State())
	if err != nil {
		fmt.Fprint(os.Stderr, submitError(err, cfg.Endpoint))
		return err
	}

	cs, err := writeDiagram(cfg, res.Services)
	if err != nil {
		fmt.Fprint(os.Stderr, ui.FormatError("Failed to write diagram", err.Error(), ""))
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, ui.Heading("Services"))
	if cs.Count() == 0 {
		fmt.Fprintln(out, ui.Dim("  none identified"))
	}
	ui.WriteCategorized(out, cs, model.Categories)

	fmt.Fprintln(out)
	fmt.Fprintln(out, ui.Heading("Analysis"))
	fmt.Fprintln(out, renderMarkdown(res.Analysis))

	ui.Success(fmt.Sprintf("Wrote %s (%d services)", cfg.Output, cs.Count()))

	payload := handoff.Payload{Repo: owner + "/" + repo, Analysis: res.Analysis, Services: res.Services}
	if u, err := payload.URL(frontendURL(cfg.Frontend.Addr) + web.ResultsPath); err == nil {
		fmt.Fprintf(out, "%s %s\n", ui.Hint("Results page (archmap serve):"), u)
	}
	return nil
}

// repositoryArgs accepts "owner repo", "owner/repo" or falls back to the configured default.
func repositoryArgs(args []string, fallback string) (string, string, error) {
	switch len(args) {
	case 2:
		return args[0], args[1], nil
	case 1:
		return config.SplitRepository(args[0])
	}
	if fallback == "" {
		return "", "", errors.New("no repository given")
	}
	return config.SplitRepository(fallback)
}

func submitError(err error, endpoint string) string {
	var (
		verr *client.ValidationError
		nerr *client.NetworkError
		aerr *client.ApplicationError
		merr *client.MalformedResponseError
	)
	switch {
	case errors.As(err, &verr):
		return ui.FormatError("Invalid input", verr.Message, "")
	case errors.As(err, &nerr):
		return ui.FormatError("Analysis service unreachable", nerr.Error(), "start it with 'archmap backend' or set endpoint in archmap.yml")
	case errors.As(err, &aerr):
		return ui.FormatError("Analysis failed", aerr.Message, "")
	case errors.As(err, &merr):
		return ui.FormatError("Unexpected response", merr.Error(), "check that "+endpoint+" is an archmap analysis service")
	}
	return ui.FormatError("Analysis failed", err.Error(), "")
}

func renderMarkdown(md string) string {
	if rawAnalysis {
		return md
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

func applyFlagOverrides(cfg *config.Config) {
	if outputFile != "" {
		cfg.Output = outputFile
	}
	if endpointFlag != "" {
		cfg.Endpoint = endpointFlag
	}
	if themeName != "" {
		cfg.Theme = themeName
	}
}
