package collector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackageJSONExtractor(t *testing.T) {
	pe := &PackageJSONExtractor{}
	f := File{Name: "package.json", Content: `{
  "name": "shop",
  "dependencies": {"react": "^18.2.0", "express": "^4.19.0", "left-pad": "1.0.0", "pg": "8"},
  "devDependencies": {"jest": "29", "ioredis": "5"}
}`}
	require.True(t, pe.Match(f.Name))

	names, err := pe.Extract(f)
	require.NoError(t, err)
	// sorted by package name: express, ioredis, jest, left-pad, pg, react
	assert.Equal(t, []string{"Express", "Redis", "PostgreSQL", "React"}, names)
}

func TestPackageJSONExtractorInvalid(t *testing.T) {
	_, err := (&PackageJSONExtractor{}).Extract(File{Name: "package.json", Content: "{"})
	assert.Error(t, err)
}

func TestRequirementsExtractor(t *testing.T) {
	re := &RequirementsExtractor{}
	f := File{Name: "requirements.txt", Content: `# web
Flask==3.0.0
flask-cors>=4
pymongo[srv]~=4.6
-r base.txt
boto3 ; python_version > "3.8"
psycopg2-binary
flask
`}
	require.True(t, re.Match(f.Name))
	assert.True(t, re.Match("requirements-dev.txt"))
	assert.False(t, re.Match("notes.txt"))

	names, err := re.Extract(f)
	require.NoError(t, err)
	assert.Equal(t, []string{"Flask", "MongoDB", "AWS", "PostgreSQL"}, names)
}

func TestGoModExtractor(t *testing.T) {
	ge := &GoModExtractor{}
	f := File{Name: "go.mod", Content: `module example.com/shop

go 1.22

require github.com/gin-gonic/gin v1.9.1

require (
	github.com/jackc/pgx/v5 v5.5.0
	github.com/redis/go-redis/v9 v9.4.0
	github.com/lib/pq v1.10.9 // indirect
	golang.org/x/text v0.14.0
)
`}
	require.True(t, ge.Match(f.Name))

	names, err := ge.Extract(f)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Gin", "PostgreSQL", "Redis"}, names)
}

func TestHintsDeduplicates(t *testing.T) {
	files := []File{
		{Name: "requirements.txt", Path: "requirements.txt", Content: "flask\nredis-py\n"},
		{Name: "package.json", Path: "web/package.json", Content: `{"dependencies":{"redis":"4","react":"18"}}`},
		{Name: "docker-compose.yml", Path: "docker-compose.yml", Content: "services:\n  cache:\n    image: redis:7\n"},
		{Name: "package.json", Path: "broken/package.json", Content: "not json"},
	}

	assert.Equal(t, []string{"Flask", "React", "Redis"}, Hints(files, nil))
}

func TestRegistryHasExtractors(t *testing.T) {
	var names []string
	for _, x := range All() {
		names = append(names, x.Metadata().Name)
	}
	assert.Equal(t, []string{"compose", "kubernetes", "npm", "pip", "gomod"}, names)
}
