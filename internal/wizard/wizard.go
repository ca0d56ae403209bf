package wizard

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ThomasCrouzet/archmap/internal/config"
	"github.com/ThomasCrouzet/archmap/internal/render"
	"github.com/charmbracelet/huh"
)

// Models offered by the wizard; any chat model name works in archmap.yml.
var Models = []string{"gpt-4o-mini", "gpt-4o", "gpt-4.1-mini"}

// Run executes the interactive wizard and returns the user's answers.
func Run(detection DetectionResult) (*WizardAnswers, error) {
	answers := &WizardAnswers{
		Endpoint:      "http://localhost:5000",
		Output:        "architecture.svg",
		Theme:         "default",
		FrontendAddr:  ":8080",
		NavigateDelay: "1s",
		BackendAddr:   ":5000",
		Model:         Models[0],
	}
	if detection.Owner != "" {
		answers.Repository = detection.Owner + "/" + detection.Repo
	}

	desc := "Where the analysis service listens and where diagrams are written."
	if hints := detectionHints(detection); len(hints) > 0 {
		desc += "\n\nAuto-detected:\n  " + strings.Join(hints, "\n  ")
	}

	themeOptions := make([]huh.Option[string], 0, len(render.ThemeNames()))
	for _, name := range render.ThemeNames() {
		themeOptions = append(themeOptions, huh.NewOption(name, name))
	}
	modelOptions := make([]huh.Option[string], 0, len(Models))
	for _, m := range Models {
		modelOptions = append(modelOptions, huh.NewOption(m, m))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Default repository (owner/repo, optional)").
				Description(desc).
				Value(&answers.Repository).
				Validate(validateRepository),
			huh.NewInput().
				Title("Analysis service URL").
				Value(&answers.Endpoint).
				Validate(validateEndpoint),
			huh.NewInput().
				Title("SVG output file").
				Value(&answers.Output),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Diagram theme").
				Options(themeOptions...).
				Value(&answers.Theme),
			huh.NewConfirm().
				Title("Draw technology icons on service boxes?").
				Value(&answers.Icons),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Front-end listen address").
				Value(&answers.FrontendAddr),
			huh.NewInput().
				Title("Delay before showing results").
				Description("A duration such as 1s or 500ms").
				Value(&answers.NavigateDelay).
				Validate(validateDuration),
			huh.NewInput().
				Title("Backend listen address").
				Value(&answers.BackendAddr),
			huh.NewSelect[string]().
				Title("OpenAI model").
				Options(modelOptions...).
				Value(&answers.Model),
		),
	)

	if err := form.Run(); err != nil {
		return nil, err
	}

	answers.Repository = strings.TrimSpace(answers.Repository)
	return answers, nil
}

func detectionHints(d DetectionResult) []string {
	var hints []string
	if d.Owner != "" {
		hints = append(hints, fmt.Sprintf("GitHub remote: %s/%s", d.Owner, d.Repo))
	}
	if d.DotEnv != "" {
		hints = append(hints, "Environment file: "+d.DotEnv)
	}
	if !d.HasGitHubToken {
		hints = append(hints, "GITHUB_TOKEN not set (public repositories only, lower rate limit)")
	}
	if !d.HasOpenAIKey {
		hints = append(hints, "OPENAI_API_KEY not set (required by `archmap backend`)")
	}
	return hints
}

func validateRepository(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, _, err := config.SplitRepository(s); err != nil {
		return fmt.Errorf("expected owner/repo")
	}
	return nil
}

func validateEndpoint(s string) error {
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("expected an http(s) URL")
	}
	return nil
}

func validateDuration(s string) error {
	if _, err := time.ParseDuration(s); err != nil {
		return fmt.Errorf("expected a duration such as 1s")
	}
	return nil
}
