package render

import (
	"io"

	"github.com/ThomasCrouzet/archmap/internal/config"
	"github.com/ThomasCrouzet/archmap/internal/model"
)

// Renderer defines the interface for diagram generators.
type Renderer interface {
	Render(w io.Writer, l *Layout) error
}

// Diagram bundles the categorizer, layout engine and renderer configured from cfg.
type Diagram struct {
	Categorizer *model.Categorizer
	Engine      *LayoutEngine
	Renderer    Renderer
}

// NewDiagram builds a Diagram from config. Unknown category names are skipped;
// `archmap validate` reports them.
func NewDiagram(cfg *config.Config) *Diagram {
	engine := NewLayoutEngine()

	if len(cfg.Render.Categories) > 0 {
		engine.Categories = nil
		for _, name := range cfg.Render.Categories {
			if c, ok := model.ParseCategory(name); ok {
				engine.Categories = append(engine.Categories, c)
			}
		}
	}

	if cfg.Render.Connections != nil {
		engine.Rules = nil
		for _, rc := range cfg.Render.Connections {
			from, ok1 := model.ParseCategory(rc.From)
			to, ok2 := model.ParseCategory(rc.To)
			if ok1 && ok2 {
				engine.Rules = append(engine.Rules, ConnectionRule{From: from, To: to})
			}
		}
	}

	return &Diagram{
		Categorizer: &model.Categorizer{Rules: model.DefaultRules},
		Engine:      engine,
		Renderer:    &SVGRenderer{Theme: GetTheme(cfg.Theme), Icons: cfg.Render.Icons},
	}
}

// Build categorizes services and lays them out.
func (d *Diagram) Build(services []string) (model.CategorizedServices, *Layout) {
	cs := d.Categorizer.Categorize(services)
	return cs, d.Engine.Layout(cs)
}

// Write runs the whole pipeline and writes the SVG to w.
func (d *Diagram) Write(w io.Writer, services []string) (model.CategorizedServices, error) {
	cs, l := d.Build(services)
	return cs, d.Renderer.Render(w, l)
}
