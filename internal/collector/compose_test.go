package collector

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readTestdata(t *testing.T, name string) File {
	t.Helper()
	data, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)
	return File{Name: name, Path: name, Content: string(data)}
}

func TestComposeExtractorStandard(t *testing.T) {
	ce := &ComposeExtractor{}
	f := readTestdata(t, "docker-compose.yml")
	require.True(t, ce.Match(f.Name))

	names, err := ce.Extract(f)
	require.NoError(t, err)
	// sorted by service name: cache, db, proxy, web
	assert.Equal(t, []string{"Redis", "PostgreSQL", "Nginx", "shop-web"}, names)
}

func TestComposeExtractorTemplate(t *testing.T) {
	ce := &ComposeExtractor{}
	f := readTestdata(t, "docker-compose.yml.j2")
	require.True(t, ce.Match(f.Name))

	names, err := ce.Extract(f)
	require.NoError(t, err)
	assert.Equal(t, []string{"RabbitMQ", "Elasticsearch", "worker"}, names)
}

func TestComposeExtractorInvalidYAML(t *testing.T) {
	ce := &ComposeExtractor{}
	_, err := ce.Extract(File{Name: "compose.yml", Content: "services: [unclosed"})
	assert.Error(t, err)
}

func TestComposeExtractorMatch(t *testing.T) {
	ce := &ComposeExtractor{}
	for name, want := range map[string]bool{
		"docker-compose.yml":      true,
		"docker-compose.prod.yml": true,
		"compose.yaml":            true,
		"Docker-Compose.YML":      true,
		"docker-compose.yml.j2":   true,
		"compose.json":            false,
		"mkdocs.yml":              false,
	} {
		assert.Equal(t, want, ce.Match(name), name)
	}
}

func TestServiceDisplayName(t *testing.T) {
	tests := []struct {
		name, image, want string
	}{
		{"db", "postgres:15", "PostgreSQL"},
		{"cache", "bitnami/redis:latest", "Redis"},
		{"app", "ghcr.io/acme/app@sha256:abc", "app"},
		{"builder", "", "builder"},
		{"tmpl", "PLACEHOLDER", "tmpl"},
		{"mongo", "mongo", "MongoDB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ServiceDisplayName(tt.name, tt.image))
		})
	}
}
