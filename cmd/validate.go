package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ThomasCrouzet/archmap/internal/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var pingEndpoint bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate your archmap.yml configuration",
	Long: `Check that archmap.yml is well formed: the analysis service URL, theme,
categories, connection rules and include patterns. Also reports whether the
secrets the analysis service needs are available.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&pingEndpoint, "ping", false, "check that the analysis service answers")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	name := viper.ConfigFileUsed()
	if name == "" {
		name = "defaults (no " + defaultConfigFile + " found)"
	}
	fmt.Println(ui.Bold("Validating " + name + "..."))

	passed := 0
	failed := 0

	errs := cfg.Validate()
	if len(errs) == 0 {
		ui.ValidationOK("config", "configuration valid")
		passed++
	}
	for _, ve := range errs {
		ui.ValidationErr(ve.Field, ve.Message, ve.Suggestion)
		failed++
	}

	if cfg.Backend.OpenAIAPIKey != "" {
		ui.ValidationOK("OPENAI_API_KEY", "set")
		passed++
	} else {
		ui.ValidationErr("OPENAI_API_KEY", "not set", "required by 'archmap backend'; export it or add it to .env")
		failed++
	}

	if cfg.Backend.GitHubToken != "" {
		ui.ValidationOK("GITHUB_TOKEN", "set")
	} else {
		ui.Warn("GITHUB_TOKEN not set: public repositories only, 60 requests per hour")
	}
	passed++

	if pingEndpoint {
		if err := ping(cmd.Context(), cfg.Endpoint); err != nil {
			ui.ValidationErr("endpoint", err.Error(), "start it with 'archmap backend'")
			failed++
		} else {
			ui.ValidationOK("endpoint", cfg.Endpoint+" is reachable")
			passed++
		}
	}

	fmt.Println()
	if failed == 0 {
		ui.Success(fmt.Sprintf("%d checks passed, 0 errors", passed))
	} else {
		fmt.Fprintf(os.Stderr, "%d checks passed, %d errors\n", passed, failed)
	}

	if failed > 0 {
		return fmt.Errorf("%d validation errors", failed)
	}
	return nil
}

func ping(ctx context.Context, endpoint string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(endpoint, "/")+"/healthz", nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET /healthz returned %s", resp.Status)
	}
	return nil
}
