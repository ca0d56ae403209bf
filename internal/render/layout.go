package render

import "github.com/ThomasCrouzet/archmap/internal/model"

// Canvas and grid geometry, in SVG user units.
const (
	CanvasWidth  = 800
	CanvasHeight = 500

	BoxWidth  = 120
	BoxHeight = 80
	BoxRadius = 10

	originX     = 100
	originY     = 100
	columnWidth = 200
	rowHeight   = 150
	labelX      = 50
	labelOffset = 20
)

// DefaultCategories are the rows drawn, top to bottom.
var DefaultCategories = []model.Category{
	model.CategoryFrontend,
	model.CategoryWebServer,
	model.CategoryAPI,
	model.CategoryDatabase,
	model.CategoryCloud,
	model.CategoryContainer,
}

// ConnectionRule links the first service of one category to the first of another.
type ConnectionRule struct {
	From model.Category
	To   model.Category
}

// DefaultConnectionRules follow the request pipeline.
var DefaultConnectionRules = []ConnectionRule{
	{From: model.CategoryFrontend, To: model.CategoryWebServer},
	{From: model.CategoryWebServer, To: model.CategoryAPI},
	{From: model.CategoryAPI, To: model.CategoryDatabase},
}

// Point is an absolute canvas coordinate.
type Point struct {
	X, Y int
}

// Placement is one service box; X and Y are the top-left corner.
type Placement struct {
	Category model.Category
	Service  string
	X, Y     int
}

// Center returns the middle of the box.
func (p Placement) Center() Point {
	return Point{X: p.X + BoxWidth/2, Y: p.Y + BoxHeight/2}
}

// CategoryLabel is a row heading.
type CategoryLabel struct {
	Category model.Category
	Text     string
	X, Y     int
}

// Connector is a directed line between two box centres.
type Connector struct {
	Rule     ConnectionRule
	From, To string
	Start    Point
	End      Point
}

// Layout is the positioned diagram, ready to be drawn.
type Layout struct {
	Width, Height int
	Title         string
	Labels        []CategoryLabel
	Placements    []Placement
	Positions     map[string]Point
	Connectors    []Connector
}

// LayoutEngine places categorized services on a fixed grid.
type LayoutEngine struct {
	Categories []model.Category
	Rules      []ConnectionRule
}

// NewLayoutEngine returns an engine with the default rows and rules.
func NewLayoutEngine() *LayoutEngine {
	return &LayoutEngine{
		Categories: DefaultCategories,
		Rules:      DefaultConnectionRules,
	}
}

// Layout positions every service of the drawn categories. Only non-empty categories
// take a row; services that do not fit the canvas width are left to overflow.
func (e *LayoutEngine) Layout(cs model.CategorizedServices) *Layout {
	l := &Layout{
		Width:     CanvasWidth,
		Height:    CanvasHeight,
		Title:     "Architecture Diagram",
		Positions: make(map[string]Point),
	}

	y := originY
	for _, cat := range e.Categories {
		services := cs[cat]
		if len(services) == 0 {
			continue
		}

		l.Labels = append(l.Labels, CategoryLabel{
			Category: cat,
			Text:     cat.Title(),
			X:        labelX,
			Y:        y - labelOffset,
		})

		for i, svc := range services {
			p := Placement{
				Category: cat,
				Service:  svc,
				X:        originX + i*columnWidth,
				Y:        y,
			}
			l.Placements = append(l.Placements, p)
			l.Positions[svc] = p.Center()
		}

		y += rowHeight
	}

	for _, rule := range e.Rules {
		from, ok := cs.First(rule.From)
		if !ok {
			continue
		}
		to, ok := cs.First(rule.To)
		if !ok {
			continue
		}
		start, ok := l.Positions[from]
		if !ok {
			continue
		}
		end, ok := l.Positions[to]
		if !ok {
			continue
		}
		l.Connectors = append(l.Connectors, Connector{
			Rule:  rule,
			From:  from,
			To:    to,
			Start: start,
			End:   end,
		})
	}

	return l
}
