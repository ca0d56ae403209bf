package collector

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ThomasCrouzet/archmap/internal/util"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/compose-spec/compose-go/v2/cli"
	composetypes "github.com/compose-spec/compose-go/v2/types"
	yamlv3 "gopkg.in/yaml.v3"
)

func init() {
	Register(func() HintExtractor { return &ComposeExtractor{} })
}

var composePatterns = []string{
	"{docker-compose,compose}*.{yml,yaml}",
	"{docker-compose,compose}*.{yml,yaml}.j2",
}

// ComposeExtractor names the services of docker-compose files and their
// Jinja2 templates.
type ComposeExtractor struct{}

func (ce *ComposeExtractor) Metadata() ExtractorMetadata {
	return ExtractorMetadata{
		Name:        "compose",
		DisplayName: "Docker Compose",
		Description: "Parses docker-compose files and Jinja2 templates for service images",
		DetectHint:  "docker-compose.yml",
	}
}

func (ce *ComposeExtractor) Match(name string) bool {
	for _, p := range composePatterns {
		if ok, _ := doublestar.Match(p, strings.ToLower(name)); ok {
			return true
		}
	}
	return false
}

func (ce *ComposeExtractor) Extract(f File) ([]string, error) {
	if strings.HasSuffix(f.Name, ".j2") || strings.Contains(f.Content, "{{") {
		return ce.parseTemplate(f.Content)
	}
	return ce.parseStandard(f.Content)
}

func (ce *ComposeExtractor) parseStandard(content string) ([]string, error) {
	dir, err := os.MkdirTemp("", "archmap-compose-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "docker-compose.yml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return nil, err
	}

	opts, err := cli.NewProjectOptions(
		[]string{path},
		cli.WithName("archmap"),
		cli.WithInterpolation(false),
	)
	if err != nil {
		return nil, fmt.Errorf("project options: %w", err)
	}

	project, err := cli.ProjectFromOptions(context.Background(), opts)
	if err != nil {
		// Fallback: try manual YAML parse
		return ce.parseFallback(content)
	}

	return projectServiceNames(project), nil
}

func (ce *ComposeExtractor) parseTemplate(content string) ([]string, error) {
	return ce.parseFallback(util.StripJinja2(content))
}

// parseFallback uses raw YAML parsing when compose-go fails.
func (ce *ComposeExtractor) parseFallback(content string) ([]string, error) {
	var raw map[string]any
	if err := yamlv3.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("yaml parse: %w", err)
	}

	servicesMap, ok := raw["services"].(map[string]any)
	if !ok {
		return nil, nil
	}

	keys := make([]string, 0, len(servicesMap))
	for name := range servicesMap {
		keys = append(keys, name)
	}
	sort.Strings(keys)

	names := make([]string, 0, len(keys))
	for _, name := range keys {
		image := ""
		if svc, ok := servicesMap[name].(map[string]any); ok {
			image, _ = svc["image"].(string)
		}
		names = append(names, ServiceDisplayName(name, image))
	}
	return names, nil
}

func projectServiceNames(project *composetypes.Project) []string {
	keys := make([]string, 0, len(project.Services))
	for name := range project.Services {
		keys = append(keys, name)
	}
	sort.Strings(keys)

	names := make([]string, 0, len(keys))
	for _, name := range keys {
		names = append(names, ServiceDisplayName(name, project.Services[name].Image))
	}
	return names
}

// imageNames maps image name fragments to technology names, checked in order.
var imageNames = []struct {
	key     string
	display string
}{
	{"postgres", "PostgreSQL"},
	{"mysql", "MySQL"},
	{"mariadb", "MariaDB"},
	{"redis", "Redis"},
	{"mongo", "MongoDB"},
	{"memcached", "Memcached"},
	{"influxdb", "InfluxDB"},
	{"elasticsearch", "Elasticsearch"},
	{"rabbitmq", "RabbitMQ"},
	{"kafka", "Kafka"},
	{"nginx", "Nginx"},
	{"httpd", "Apache"},
	{"traefik", "Traefik"},
	{"caddy", "Caddy"},
	{"localstack", "AWS"},
	{"keycloak", "Keycloak"},
	{"minio", "MinIO"},
	{"node", "Node.js"},
	{"python", "Python"},
}

// ServiceDisplayName names a compose service after its image technology when
// known, otherwise after the image's repository, otherwise after the service.
func ServiceDisplayName(name, image string) string {
	if image == "" {
		return name
	}

	repo := strings.ToLower(image)
	if i := strings.LastIndex(repo, "/"); i >= 0 {
		repo = repo[i+1:]
	}
	if i := strings.IndexAny(repo, ":@"); i >= 0 {
		repo = repo[:i]
	}
	if repo == "" || strings.Contains(repo, "placeholder") {
		return name
	}

	for _, in := range imageNames {
		if strings.Contains(repo, in.key) {
			return in.display
		}
	}
	return repo
}
