package analyzer

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// ErrorService is the single service reported when analysis fails.
const ErrorService = "Error occurred during analysis"

// Result is the analysis text and the services extracted from it.
type Result struct {
	Analysis string
	Services []string
}

// Analyzer asks a language model to describe a repository and list its services.
type Analyzer struct {
	completer Completer
	model     string
	maxTokens int
	log       *zap.Logger
}

func New(c Completer, model string, maxTokens int, log *zap.Logger) *Analyzer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Analyzer{completer: c, model: model, maxTokens: maxTokens, log: log}
}

// Analyze sends the repository text to the model and extracts the services.
// When the model's answer yields no services, technologies mentioned in the
// answer are used, followed by hints.
func (a *Analyzer) Analyze(ctx context.Context, repoText string, hints []string) (*Result, error) {
	if a.completer == nil {
		return nil, ErrMissingAPIKey
	}

	resp, err := a.completer.Complete(ctx, CompletionRequest{
		Model: a.model,
		Messages: []Message{
			{Role: RoleSystem, Content: systemPrompt},
			{Role: RoleUser, Content: buildPrompt(repoText)},
		},
		MaxTokens: a.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("%s completion: %w", a.completer.Name(), err)
	}

	a.log.Debug("model response",
		zap.String("model", resp.Model),
		zap.String("finish_reason", resp.FinishReason),
		zap.Int("input_tokens", resp.InputTokens),
		zap.Int("output_tokens", resp.OutputTokens),
		zap.String("content", resp.Content))

	services := ExtractServices(resp.Content)
	if len(services) == 0 {
		services = merge(MentionedTechnologies(resp.Content), hints)
		a.log.Info("no services section, using fallback list", zap.Strings("services", services))
	}

	return &Result{Analysis: resp.Content, Services: services}, nil
}

// ErrorResult is reported in place of an analysis that could not be produced.
func ErrorResult(err error) *Result {
	return &Result{
		Analysis: fmt.Sprintf("\n### Project Description\nError analyzing repository: %v\n\n### Services Used\n[%q]\n", err, ErrorService),
		Services: []string{ErrorService},
	}
}

func merge(lists ...[]string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, l := range lists {
		for _, s := range l {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}
