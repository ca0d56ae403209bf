package wizard

import (
	"os"
	"regexp"

	"github.com/joho/godotenv"
)

// DetectionResult holds what was auto-detected in the working directory.
type DetectionResult struct {
	Owner          string // from the origin remote, empty if none
	Repo           string
	DotEnv         string // path of a .env file, empty if none
	HasGitHubToken bool
	HasOpenAIKey   bool
}

// Detector abstracts filesystem and environment lookups for testing.
type Detector interface {
	Stat(path string) (os.FileInfo, error)
	ReadFile(path string) ([]byte, error)
	Getenv(key string) string
}

// OSDetector uses the real OS for detection.
type OSDetector struct{}

func (OSDetector) Stat(path string) (os.FileInfo, error) { return os.Stat(path) }
func (OSDetector) ReadFile(path string) ([]byte, error)  { return os.ReadFile(path) }
func (OSDetector) Getenv(key string) string              { return os.Getenv(key) }

var githubRemote = regexp.MustCompile(`(?m)^\s*url\s*=\s*(?:https://github\.com/|git@github\.com:|ssh://git@github\.com/)([^/\s]+)/([^/\s]+?)(?:\.git)?/?\s*$`)

// Detect looks for a GitHub origin remote and for the secrets the backend needs.
func Detect(d Detector) DetectionResult {
	if d == nil {
		d = OSDetector{}
	}

	result := DetectionResult{}

	if data, err := d.ReadFile(".git/config"); err == nil {
		if m := githubRemote.FindSubmatch(data); m != nil {
			result.Owner = string(m[1])
			result.Repo = string(m[2])
		}
	}

	result.HasGitHubToken = d.Getenv("GITHUB_TOKEN") != ""
	result.HasOpenAIKey = d.Getenv("OPENAI_API_KEY") != ""

	for _, p := range []string{".env", "backend/.env"} {
		if _, err := d.Stat(p); err != nil {
			continue
		}
		result.DotEnv = p
		data, err := d.ReadFile(p)
		if err != nil {
			break
		}
		env, err := godotenv.UnmarshalBytes(data)
		if err != nil {
			break
		}
		result.HasGitHubToken = result.HasGitHubToken || env["GITHUB_TOKEN"] != ""
		result.HasOpenAIKey = result.HasOpenAIKey || env["OPENAI_API_KEY"] != ""
		break
	}

	return result
}
