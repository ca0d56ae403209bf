package collector

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGitHub struct {
	*httptest.Server
	authHeaders atomic.Value
}

func newFakeGitHub(t *testing.T) *fakeGitHub {
	t.Helper()
	fg := &fakeGitHub{}
	mux := http.NewServeMux()
	entry := func(name, path, typ string) map[string]any {
		e := map[string]any{"name": name, "path": path, "type": typ}
		if typ == "file" {
			e["download_url"] = fg.URL + "/raw/" + path
		} else {
			e["download_url"] = nil
		}
		return e
	}

	mux.HandleFunc("/repos/acme/shop/contents", func(w http.ResponseWriter, r *http.Request) {
		fg.authHeaders.Store(r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode([]map[string]any{
			entry("README.md", "README.md", "file"),
			entry("main.go", "main.go", "file"),
			entry("src", "src", "dir"),
			entry("docs", "docs", "dir"),
			entry("api", "api", "dir"),
			entry("docker-compose.yml", "docker-compose.yml", "file"),
			entry("missing.txt", "missing.txt", "file"),
		})
	})
	mux.HandleFunc("/repos/acme/shop/contents/src", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{
			entry("requirements.txt", "src/requirements.txt", "file"),
			entry("app.js", "src/app.js", "file"),
		})
	})
	mux.HandleFunc("/repos/acme/shop/contents/api", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Server Error"}`, http.StatusInternalServerError)
	})
	mux.HandleFunc("/raw/", func(w http.ResponseWriter, r *http.Request) {
		switch strings.TrimPrefix(r.URL.Path, "/raw/") {
		case "README.md":
			_, _ = w.Write([]byte("# Shop\nA Flask shop."))
		case "docker-compose.yml":
			_, _ = w.Write([]byte("services:\n  db:\n    image: postgres:16\n"))
		case "src/requirements.txt":
			_, _ = w.Write([]byte("flask\n"))
		default:
			http.NotFound(w, r)
		}
	})
	mux.HandleFunc("/repos/acme/private/contents", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not Found"}`))
	})

	fg.Server = httptest.NewServer(mux)
	t.Cleanup(fg.Close)
	return fg
}

func TestGitHubCollectorCollect(t *testing.T) {
	fg := newFakeGitHub(t)
	g := NewGitHub(Options{
		APIBase:     fg.URL,
		Token:       "secret",
		Subdirs:     []string{"src", "api"},
		Concurrency: 2,
	})

	rc, err := g.Collect(context.Background(), "acme", "shop")
	require.NoError(t, err)

	var paths []string
	for _, f := range rc.Files {
		paths = append(paths, f.Path)
	}
	assert.Equal(t, []string{"README.md", "docker-compose.yml", "src/requirements.txt"}, paths)
	assert.Equal(t, "token secret", fg.authHeaders.Load())

	text := rc.Text()
	assert.True(t, strings.HasPrefix(text, "Repository: acme/shop\n\n# File: README.md\n# Shop"))
	assert.Contains(t, text, "# File: requirements.txt\nflask")
	assert.NotContains(t, text, "main.go")

	assert.Equal(t, []string{"PostgreSQL", "Flask"}, rc.Hints)
}

func TestGitHubCollectorNoTokenHeader(t *testing.T) {
	fg := newFakeGitHub(t)
	g := NewGitHub(Options{APIBase: fg.URL})

	_, err := g.Collect(context.Background(), "acme", "shop")
	require.NoError(t, err)
	assert.Equal(t, "", fg.authHeaders.Load())
}

func TestGitHubCollectorRootFailure(t *testing.T) {
	fg := newFakeGitHub(t)
	g := NewGitHub(Options{APIBase: fg.URL})

	_, err := g.Collect(context.Background(), "acme", "private")
	require.Error(t, err)

	var cerr *CollectorError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "github", cerr.Collector)

	var serr *StatusError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusNotFound, serr.StatusCode)
	assert.Contains(t, err.Error(), "Not Found")

	text := ErrorText("acme", "private", err)
	assert.True(t, strings.HasPrefix(text, "Repository: acme/private\nError fetching repository content: "))
}

func TestGitHubCollectorCanceled(t *testing.T) {
	fg := newFakeGitHub(t)
	g := NewGitHub(Options{APIBase: fg.URL})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Collect(ctx, "acme", "shop")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestImportant(t *testing.T) {
	g := NewGitHub(Options{})
	for name, want := range map[string]bool{
		"README.md":          true,
		"README":             true,
		"package.json":       true,
		"requirements.txt":   true,
		"Dockerfile":         true,
		"api.Dockerfile":     true,
		"docker-compose.yml": true,
		".env":               true,
		".env.example":       true,
		"go.mod":             true,
		"Makefile":           true,
		"main.go":            false,
		"index.js":           false,
		"logo.png":           false,
	} {
		assert.Equal(t, want, g.Important(name), name)
	}
}
