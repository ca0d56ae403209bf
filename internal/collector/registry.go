package collector

import "go.uber.org/zap"

// HintExtractor derives service names from one kind of well-known file.
type HintExtractor interface {
	Metadata() ExtractorMetadata
	Match(name string) bool
	Extract(f File) ([]string, error)
}

// ExtractorMetadata describes an extractor for logs and documentation.
type ExtractorMetadata struct {
	Name        string // internal key, e.g. "compose"
	DisplayName string // human-readable, e.g. "Docker Compose"
	Description string
	DetectHint  string // typical file name, e.g. "docker-compose.yml"
}

var registry []func() HintExtractor

// Register adds an extractor factory to the global registry.
// Each extractor calls this in its init().
func Register(factory func() HintExtractor) {
	registry = append(registry, factory)
}

// All returns fresh instances of every registered extractor.
func All() []HintExtractor {
	out := make([]HintExtractor, len(registry))
	for i, f := range registry {
		out[i] = f()
	}
	return out
}

// Hints runs every matching extractor over files and returns the unique names
// in first-seen order. Extraction failures are logged and skipped.
func Hints(files []File, log *zap.Logger) []string {
	if log == nil {
		log = zap.NewNop()
	}

	seen := make(map[string]bool)
	hints := []string{}
	for _, f := range files {
		for _, x := range All() {
			if !x.Match(f.Name) {
				continue
			}
			names, err := x.Extract(f)
			if err != nil {
				log.Warn("hint extraction failed",
					zap.String("extractor", x.Metadata().Name),
					zap.String("path", f.Path),
					zap.Error(err))
				continue
			}
			for _, n := range names {
				if n == "" || seen[n] {
					continue
				}
				seen[n] = true
				hints = append(hints, n)
			}
		}
	}
	return hints
}
