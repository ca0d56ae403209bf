// Package web is the browser front-end: a form that submits a repository to
// the analysis service and a results page that draws its architecture.
package web

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/ThomasCrouzet/archmap/internal/client"
	"github.com/ThomasCrouzet/archmap/internal/handoff"
	"github.com/ThomasCrouzet/archmap/internal/model"
	"github.com/ThomasCrouzet/archmap/internal/render"
	"github.com/ThomasCrouzet/archmap/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	ResultsPath = "/results"
	DiagramPath = "/diagram.svg"
)

// Submitter sends one analysis request.
type Submitter interface {
	Submit(ctx context.Context, owner, repo string) (*model.AnalysisResult, error)
}

// Frontend serves the analyzer pages.
type Frontend struct {
	submitter Submitter
	diagram   *render.Diagram
	delay     time.Duration
	interval  time.Duration
	log       *zap.Logger
	md        goldmark.Markdown
	pages     *template.Template
	inflight  singleflight.Group
}

// Option configures a Frontend.
type Option func(*Frontend)

// WithNavigateDelay sets the pause between completion and the results page.
func WithNavigateDelay(d time.Duration) Option {
	return func(f *Frontend) { f.delay = d }
}

// WithTickInterval sets the decorative progress interval of the form page.
func WithTickInterval(d time.Duration) Option {
	return func(f *Frontend) { f.interval = d }
}

func WithLogger(log *zap.Logger) Option {
	return func(f *Frontend) { f.log = log }
}

func New(s Submitter, d *render.Diagram, opts ...Option) *Frontend {
	f := &Frontend{
		submitter: s,
		diagram:   d,
		delay:     time.Second,
		interval:  200 * time.Millisecond,
		log:       zap.NewNop(),
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				highlighting.NewHighlighting(
					highlighting.WithStyle("github"),
				),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
		pages: template.Must(template.New("pages").
			Funcs(template.FuncMap{"join": strings.Join}).
			ParseFS(templateFS, "templates/*.html")),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// RegisterRoutes mounts the pages on r.
func (f *Frontend) RegisterRoutes(r chi.Router) {
	r.Get("/", f.handleIndex)
	r.Post("/submit", f.handleSubmit)
	r.Get(ResultsPath, f.handleResults)
	r.Get(DiagramPath, f.handleDiagram)
}

type page struct {
	Title        string
	RefreshURL   string
	DelaySeconds int
}

type indexPage struct {
	page
	Owner        string
	Repo         string
	Error        string
	TickCeiling  float64
	MaxIncrement float64
	TickMillis   int64
}

type categoryView struct {
	Title    string
	Services []string
}

type resultsPage struct {
	page
	Repo       string
	Warning    string
	SVG        template.HTML
	Analysis   template.HTML
	DiagramURL string
	Categories []categoryView
}

func (f *Frontend) indexPage(owner, repo, errText string) indexPage {
	return indexPage{
		page:         page{Title: "GitHub Architecture Analyzer"},
		Owner:        owner,
		Repo:         repo,
		Error:        errText,
		TickCeiling:  session.TickCeiling,
		MaxIncrement: session.MaxIncrement,
		TickMillis:   f.interval.Milliseconds(),
	}
}

func (f *Frontend) handleIndex(w http.ResponseWriter, r *http.Request) {
	f.render(w, http.StatusOK, "index.html", f.indexPage("", "", ""))
}

func (f *Frontend) handleSubmit(w http.ResponseWriter, r *http.Request) {
	owner := strings.TrimSpace(r.FormValue("owner"))
	repo := strings.TrimSpace(r.FormValue("repo"))
	if owner == "" || repo == "" {
		f.render(w, http.StatusBadRequest, "index.html", f.indexPage(owner, repo, client.ErrMissingInput))
		return
	}

	key := owner + "/" + repo
	v, err, shared := f.inflight.Do(key, func() (any, error) {
		return f.submitter.Submit(context.WithoutCancel(r.Context()), owner, repo)
	})
	if shared {
		f.log.Debug("joined in-flight analysis", zap.String("repo", key))
	}
	if err != nil {
		f.log.Warn("analysis failed", zap.String("repo", key), zap.Error(err))
		f.render(w, http.StatusBadGateway, "index.html", f.indexPage(owner, repo, err.Error()))
		return
	}
	res := v.(*model.AnalysisResult)

	link, err := handoff.Payload{Repo: key, Analysis: res.Analysis, Services: res.Services}.URL(ResultsPath)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	f.render(w, http.StatusOK, "complete.html", struct {
		page
		Repo string
	}{
		page: page{
			Title:        "Analysis complete!",
			RefreshURL:   link,
			DelaySeconds: int(math.Ceil(f.delay.Seconds())),
		},
		Repo: key,
	})
}

func (f *Frontend) handleResults(w http.ResponseWriter, r *http.Request) {
	p, err := handoff.Decode(r.URL.Query())
	data := resultsPage{page: page{Title: "Architecture of " + p.Repo}, Repo: p.Repo}
	if err != nil {
		f.log.Warn("decoding results", zap.Error(err))
		data.Warning = "The service list could not be read; the diagram is empty."
	}

	var svgBuf bytes.Buffer
	cs, err := f.diagram.Write(&svgBuf, p.Services)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	data.SVG = template.HTML(stripXMLDecl(svgBuf.String()))

	for _, c := range model.Categories {
		if len(cs[c]) > 0 {
			data.Categories = append(data.Categories, categoryView{Title: c.Title(), Services: cs[c]})
		}
	}

	var md bytes.Buffer
	if err := f.md.Convert([]byte(p.Analysis), &md); err != nil {
		f.log.Warn("rendering analysis", zap.Error(err))
		md.Reset()
		template.HTMLEscape(&md, []byte(p.Analysis))
	}
	data.Analysis = template.HTML(md.String())

	if link, err := handoff.ServicesURL(DiagramPath, p.Services); err == nil {
		data.DiagramURL = link
	}

	f.render(w, http.StatusOK, "results.html", data)
}

func (f *Frontend) handleDiagram(w http.ResponseWriter, r *http.Request) {
	p, err := handoff.Decode(r.URL.Query())
	if err != nil {
		f.log.Warn("decoding diagram request", zap.Error(err))
	}

	var buf bytes.Buffer
	if _, err := f.diagram.Write(&buf, p.Services); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(buf.Bytes())
}

func (f *Frontend) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := f.pages.ExecuteTemplate(&buf, name, data); err != nil {
		f.log.Error("rendering page", zap.String("page", name), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// stripXMLDecl drops the XML declaration so the document can sit inside HTML.
func stripXMLDecl(s string) string {
	if strings.HasPrefix(s, "<?xml") {
		if i := strings.Index(s, "?>"); i >= 0 {
			return strings.TrimLeft(s[i+2:], "\n")
		}
	}
	return s
}
