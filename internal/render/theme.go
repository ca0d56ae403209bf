package render

import "github.com/ThomasCrouzet/archmap/internal/model"

// Theme defines colors for diagram categories and chrome.
type Theme struct {
	Name   string
	Colors map[string]ThemeColor
}

// ThemeColor defines fill, stroke and text colors for an element type.
type ThemeColor struct {
	Fill   string
	Stroke string
	Font   string
}

// fallbackColor is used for categories a theme does not map.
var fallbackColor = ThemeColor{Fill: "#9E9E9E", Stroke: "#333", Font: "#000"}

var themes = map[string]*Theme{
	"default": {
		Name: "default",
		Colors: map[string]ThemeColor{
			"frontend":   {Fill: "#4CAF50", Stroke: "#333", Font: "#000"},
			"webServer":  {Fill: "#2196F3", Stroke: "#333", Font: "#000"},
			"api":        {Fill: "#9C27B0", Stroke: "#333", Font: "#000"},
			"database":   {Fill: "#FF9800", Stroke: "#333", Font: "#000"},
			"cloud":      {Fill: "#00BCD4", Stroke: "#333", Font: "#000"},
			"container":  {Fill: "#795548", Stroke: "#333", Font: "#000"},
			"messaging":  {Fill: "#FF5722", Stroke: "#333", Font: "#000"},
			"storage":    {Fill: "#8BC34A", Stroke: "#333", Font: "#000"},
			"auth":       {Fill: "#E91E63", Stroke: "#333", Font: "#000"},
			"background": {Fill: "#f8f9fa", Stroke: "#ddd", Font: "#000"},
			"connector":  {Fill: "#666", Stroke: "#666", Font: "#333"},
		},
	},
	"dark": {
		Name: "dark",
		Colors: map[string]ThemeColor{
			"frontend":   {Fill: "#052E16", Stroke: "#22C55E", Font: "#86EFAC"},
			"webServer":  {Fill: "#082F49", Stroke: "#0EA5E9", Font: "#7DD3FC"},
			"api":        {Fill: "#2E1065", Stroke: "#A78BFA", Font: "#C4B5FD"},
			"database":   {Fill: "#431407", Stroke: "#F97316", Font: "#FDBA74"},
			"cloud":      {Fill: "#1E3A5F", Stroke: "#3B82F6", Font: "#93C5FD"},
			"container":  {Fill: "#422006", Stroke: "#EAB308", Font: "#FDE047"},
			"messaging":  {Fill: "#450A0A", Stroke: "#EF4444", Font: "#FCA5A5"},
			"storage":    {Fill: "#1A2E05", Stroke: "#84CC16", Font: "#BEF264"},
			"auth":       {Fill: "#500724", Stroke: "#EC4899", Font: "#F9A8D4"},
			"background": {Fill: "#111827", Stroke: "#374151", Font: "#F9FAFB"},
			"connector":  {Fill: "#9CA3AF", Stroke: "#9CA3AF", Font: "#D1D5DB"},
		},
	},
	"monochrome": {
		Name: "monochrome",
		Colors: map[string]ThemeColor{
			"frontend":   {Fill: "#E5E7EB", Stroke: "#374151", Font: "#111827"},
			"webServer":  {Fill: "#F3F4F6", Stroke: "#6B7280", Font: "#374151"},
			"api":        {Fill: "#F9FAFB", Stroke: "#9CA3AF", Font: "#4B5563"},
			"database":   {Fill: "#D1D5DB", Stroke: "#4B5563", Font: "#1F2937"},
			"cloud":      {Fill: "#E5E7EB", Stroke: "#6B7280", Font: "#374151"},
			"container":  {Fill: "#D1D5DB", Stroke: "#374151", Font: "#111827"},
			"background": {Fill: "#FFFFFF", Stroke: "#D1D5DB", Font: "#111827"},
			"connector":  {Fill: "#4B5563", Stroke: "#4B5563", Font: "#1F2937"},
		},
	},
}

// ThemeNames returns all available theme names.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	return names
}

// GetTheme returns the named theme or the default.
func GetTheme(name string) *Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes["default"]
}

// ColorForCategory returns the theme color for a category, gray when unmapped.
func (t *Theme) ColorForCategory(c model.Category) ThemeColor {
	if col, ok := t.Colors[string(c)]; ok {
		return col
	}
	return fallbackColor
}

// ColorForElement returns the theme color for a named element.
func (t *Theme) ColorForElement(name string) ThemeColor {
	if c, ok := t.Colors[name]; ok {
		return c
	}
	return ThemeColor{Fill: "#F9FAFB", Stroke: "#D1D5DB", Font: "#111827"}
}
