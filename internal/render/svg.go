package render

import (
	"bytes"
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/ThomasCrouzet/archmap/internal/util"
)

const iconSize = 20

// SVGRenderer draws a Layout as a standalone SVG document.
type SVGRenderer struct {
	Theme *Theme
	Icons bool // draw a small icon in the corner of known services
}

func (r *SVGRenderer) theme() *Theme {
	if r.Theme == nil {
		return GetTheme("default")
	}
	return r.Theme
}

func (r *SVGRenderer) Render(w io.Writer, l *Layout) error {
	theme := r.theme()
	bg := theme.ColorForElement("background")
	conn := theme.ColorForElement("connector")

	// svgo writes straight to w; buffer so a partial document never reaches the caller.
	var buf bytes.Buffer
	canvas := svg.New(&buf)

	canvas.Startview(l.Width, l.Height, 0, 0, l.Width, l.Height)
	canvas.Title(l.Title)

	canvas.Def()
	canvas.Marker("arrow", 10, 5, 6, 6, `viewBox="0 0 10 10"`, `orient="auto"`)
	canvas.Path("M0,0 L10,5 L0,10 z", "fill:"+conn.Fill)
	canvas.MarkerEnd()
	canvas.DefEnd()

	canvas.Roundrect(0, 0, l.Width, l.Height, 8, 8, fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", bg.Fill, bg.Stroke))
	canvas.Text(l.Width/2, 30, l.Title,
		fmt.Sprintf("text-anchor:middle;font-size:20px;font-weight:bold;fill:%s", bg.Font),
		`class="title"`)

	for _, label := range l.Labels {
		canvas.Text(label.X, label.Y, label.Text,
			fmt.Sprintf("font-size:14px;font-weight:bold;fill:%s", bg.Font),
			`class="category"`)
	}

	ids := make(map[string]int, len(l.Placements))
	for _, p := range l.Placements {
		r.renderService(canvas, p, theme, serviceID(ids, p))
	}

	canvas.Gid("connectors")
	for _, c := range l.Connectors {
		canvas.Line(c.Start.X, c.Start.Y, c.End.X, c.End.Y,
			fmt.Sprintf("stroke:%s;stroke-width:2", conn.Stroke),
			`marker-end="url(#arrow)"`,
			fmt.Sprintf(`data-rule="%s-%s"`, c.Rule.From, c.Rule.To))
	}
	canvas.Gend()

	canvas.End()

	_, err := w.Write(buf.Bytes())
	return err
}

// serviceID returns the group id for p. Repeated ids, from a service listed
// twice or two names that sanitize alike, get a numeric suffix.
func serviceID(seen map[string]int, p Placement) string {
	id := fmt.Sprintf("svc-%s-%s", util.SanitizeID(string(p.Category)), util.SanitizeID(p.Service))
	seen[id]++
	if n := seen[id]; n > 1 {
		return fmt.Sprintf("%s-%d", id, n)
	}
	return id
}

func (r *SVGRenderer) renderService(canvas *svg.SVG, p Placement, theme *Theme, id string) {
	color := theme.ColorForCategory(p.Category)
	center := p.Center()

	canvas.Group(fmt.Sprintf(`id="%s"`, id), `class="service"`)
	canvas.Roundrect(p.X, p.Y, BoxWidth, BoxHeight, BoxRadius, BoxRadius,
		fmt.Sprintf("fill:%s;stroke:%s;stroke-width:2", color.Fill, color.Stroke))

	if r.Icons {
		if icon := LookupIcon(p.Service); icon != "" {
			canvas.Image(p.X+BoxWidth-iconSize-4, p.Y+4, iconSize, iconSize, icon)
		}
	}

	canvas.Text(center.X, center.Y, p.Service,
		fmt.Sprintf("text-anchor:middle;dominant-baseline:middle;font-size:12px;font-weight:bold;fill:%s", color.Font))
	canvas.Gend()
}

// RenderSVG draws a layout with the given theme and returns the document.
func RenderSVG(l *Layout, theme *Theme) (string, error) {
	r := &SVGRenderer{Theme: theme}
	var b bytes.Buffer
	if err := r.Render(&b, l); err != nil {
		return "", err
	}
	return b.String(), nil
}
