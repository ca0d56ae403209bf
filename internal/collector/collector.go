package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"slices"
	"strings"

	"github.com/ThomasCrouzet/archmap/internal/config"
	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Entry is one item of a GitHub contents listing.
type Entry struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Type        string `json:"type"`
	DownloadURL string `json:"download_url"`
}

// File is a downloaded repository file.
type File struct {
	Name    string
	Path    string
	Content string
}

// RepoContent is the text an analysis is based on.
type RepoContent struct {
	Owner string
	Repo  string
	Files []File
	Hints []string // service names derived from manifests and compose files
}

// Text joins the files under a repository header, one "# File:" section each.
func (rc *RepoContent) Text() string {
	sections := make([]string, len(rc.Files))
	for i, f := range rc.Files {
		sections[i] = "# File: " + f.Name + "\n" + f.Content
	}
	return fmt.Sprintf("Repository: %s/%s\n\n", rc.Owner, rc.Repo) + strings.Join(sections, "\n")
}

// ErrorText stands in for the repository text when the root listing fails.
func ErrorText(owner, repo string, err error) string {
	return fmt.Sprintf("Repository: %s/%s\nError fetching repository content: %v", owner, repo, err)
}

// Options configures a GitHubCollector.
type Options struct {
	APIBase     string
	Token       string
	Include     []string
	Subdirs     []string
	Concurrency int
	HTTPClient  *http.Client
	Logger      *zap.Logger
}

// OptionsFromConfig maps the backend section of archmap.yml.
func OptionsFromConfig(cfg config.BackendConfig) Options {
	return Options{
		APIBase:     cfg.GitHubAPI,
		Token:       cfg.GitHubToken,
		Include:     cfg.Include,
		Subdirs:     cfg.Subdirs,
		Concurrency: cfg.Concurrency,
	}
}

// GitHubCollector reads the interesting files of a repository through the
// GitHub contents API: the root listing plus one level of well-known
// subdirectories.
type GitHubCollector struct {
	apiBase     string
	token       string
	include     []string
	subdirs     []string
	concurrency int
	http        *http.Client
	log         *zap.Logger
}

func NewGitHub(opts Options) *GitHubCollector {
	g := &GitHubCollector{
		apiBase:     strings.TrimRight(opts.APIBase, "/"),
		token:       opts.Token,
		include:     opts.Include,
		subdirs:     opts.Subdirs,
		concurrency: opts.Concurrency,
		http:        opts.HTTPClient,
		log:         opts.Logger,
	}
	if g.apiBase == "" {
		g.apiBase = "https://api.github.com"
	}
	if g.include == nil {
		g.include = config.DefaultInclude
	}
	if g.concurrency < 1 {
		g.concurrency = 1
	}
	if g.http == nil {
		g.http = http.DefaultClient
	}
	if g.log == nil {
		g.log = zap.NewNop()
	}
	return g
}

// Collect lists and downloads the repository files. A failure to list the
// repository root is returned as a *CollectorError; subdirectory and single
// file failures are logged and skipped.
func (g *GitHubCollector) Collect(ctx context.Context, owner, repo string) (*RepoContent, error) {
	g.log.Info("fetching repository files", zap.String("repo", owner+"/"+repo))

	root, err := g.list(ctx, owner, repo, "")
	if err != nil {
		return nil, &CollectorError{Collector: "github", Err: err}
	}

	var targets []Entry
	for _, e := range root {
		if e.Type == "file" && g.Important(e.Name) {
			targets = append(targets, e)
		}
	}
	for _, e := range root {
		if e.Type != "dir" || !slices.Contains(g.subdirs, e.Name) {
			continue
		}
		sub, err := g.list(ctx, owner, repo, e.Path)
		if err != nil {
			if ctx.Err() != nil {
				return nil, &CollectorError{Collector: "github", Err: ctx.Err()}
			}
			g.log.Warn("skipping subdirectory", zap.String("dir", e.Name), zap.Error(err))
			continue
		}
		for _, s := range sub {
			if s.Type == "file" && g.Important(s.Name) {
				targets = append(targets, s)
			}
		}
	}

	files, err := g.download(ctx, targets)
	if err != nil {
		return nil, &CollectorError{Collector: "github", Err: err}
	}

	return &RepoContent{
		Owner: owner,
		Repo:  repo,
		Files: files,
		Hints: Hints(files, g.log),
	}, nil
}

// Important reports whether a file name matches one of the include patterns.
func (g *GitHubCollector) Important(name string) bool {
	for _, pattern := range g.include {
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}

func (g *GitHubCollector) list(ctx context.Context, owner, repo, dir string) ([]Entry, error) {
	u := fmt.Sprintf("%s/repos/%s/%s/contents", g.apiBase, url.PathEscape(owner), url.PathEscape(repo))
	if dir != "" {
		u += "/" + escapePath(dir)
	}

	body, err := g.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("decoding listing of %s: %w", u, err)
	}
	return entries, nil
}

func (g *GitHubCollector) download(ctx context.Context, entries []Entry) ([]File, error) {
	out := make([]*File, len(entries))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.concurrency)
	for i, e := range entries {
		i, e := i, e
		eg.Go(func() error {
			if e.DownloadURL == "" {
				return nil
			}
			g.log.Debug("fetching file", zap.String("path", e.Path))
			body, err := g.get(ctx, e.DownloadURL)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				g.log.Warn("skipping file", zap.String("path", e.Path), zap.Error(err))
				return nil
			}
			out[i] = &File{Name: e.Name, Path: e.Path, Content: string(body)}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	files := make([]File, 0, len(out))
	for _, f := range out {
		if f != nil {
			files = append(files, *f)
		}
	}
	return files, nil
}

func (g *GitHubCollector) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	if g.token != "" {
		req.Header.Set("Authorization", "token "+g.token)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", u, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: u, StatusCode: resp.StatusCode, Message: apiMessage(body)}
	}
	return body, nil
}

// apiMessage pulls the "message" field GitHub puts in error bodies.
func apiMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil {
		return payload.Message
	}
	return ""
}

func escapePath(p string) string {
	parts := strings.Split(path.Clean(p), "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
