package analyzer

import (
	"encoding/json"
	"regexp"
	"strings"
)

const servicesHeading = "### Services Used"

var (
	jsonArrayPattern = regexp.MustCompile(`\[.*?\]`)
	quotedPattern    = regexp.MustCompile(`["']([^"']+)["']`)
	bulletPattern    = regexp.MustCompile(`[-*]\s*([^\n]+)`)
	wordPatterns     = []*regexp.Regexp{
		regexp.MustCompile(`[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*`),
		regexp.MustCompile(`[A-Z]{2,}`),
	}
)

var commonWords = map[string]bool{
	"the": true, "and": true, "or": true, "for": true, "with": true, "that": true,
	"this": true, "are": true, "used": true, "services": true, "project": true,
	"repository": true,
}

const maxGuessedServices = 10

// ExtractServices pulls the service list out of the "### Services Used"
// section of an analysis. It tries, in order: a JSON array, quoted strings,
// bullet items, then capitalized words and acronyms. It returns an empty,
// non-nil slice when nothing is found.
func ExtractServices(analysis string) []string {
	section, ok := servicesSection(analysis)
	if !ok {
		return []string{}
	}

	if m := jsonArrayPattern.FindString(section); m != "" {
		var services []string
		if err := json.Unmarshal([]byte(m), &services); err == nil {
			return nonNil(services)
		}
	}

	if ms := quotedPattern.FindAllStringSubmatch(section, -1); len(ms) > 0 {
		return submatches(ms)
	}

	if ms := bulletPattern.FindAllStringSubmatch(section, -1); len(ms) > 0 {
		services := submatches(ms)
		for i, s := range services {
			services[i] = strings.TrimSpace(s)
		}
		return services
	}

	for _, p := range wordPatterns {
		var services []string
		for _, w := range p.FindAllString(section, -1) {
			if commonWords[strings.ToLower(w)] || len(w) <= 2 {
				continue
			}
			services = append(services, w)
		}
		if len(services) > 0 {
			if len(services) > maxGuessedServices {
				services = services[:maxGuessedServices]
			}
			return services
		}
	}

	return []string{}
}

// servicesSection returns the text between the services heading line and the
// next "###" heading or the end of the analysis.
func servicesSection(analysis string) (string, bool) {
	_, after, ok := strings.Cut(analysis, servicesHeading)
	if !ok {
		return "", false
	}

	rest := strings.TrimLeft(after, " \t\r\n\f\v")
	nl := strings.LastIndex(after[:len(after)-len(rest)], "\n")
	if nl < 0 {
		return "", false
	}
	body := after[nl+1:]
	if i := strings.Index(body, "\n###"); i >= 0 {
		body = body[:i]
	}
	return strings.TrimSpace(body), true
}

// commonTechnologies is scanned for when the analysis yields no services.
var commonTechnologies = []string{
	"Python", "JavaScript", "Java", "C++", "C#", "Go", "Rust", "PHP", "Ruby", "Swift",
	"React", "Vue", "Angular", "Node.js", "Express", "Flask", "Django", "Spring",
	"MongoDB", "PostgreSQL", "MySQL", "Redis", "Elasticsearch",
	"AWS", "Azure", "GCP", "Docker", "Kubernetes", "GitHub", "GitLab",
	"REST", "API", "GraphQL", "JWT", "OAuth",
}

// MentionedTechnologies lists the common technologies named in text as whole
// words, ignoring case.
func MentionedTechnologies(text string) []string {
	lower := strings.ToLower(text)
	found := []string{}
	for _, tech := range commonTechnologies {
		if containsWord(lower, strings.ToLower(tech)) {
			found = append(found, tech)
		}
	}
	return found
}

// containsWord reports whether word occurs in s with no letter or digit on
// either side, so "go" does not match inside "django".
func containsWord(s, word string) bool {
	for from := 0; ; {
		i := strings.Index(s[from:], word)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(word)
		if !wordByteAt(s, start-1) && !wordByteAt(s, end) {
			return true
		}
		from = start + 1
	}
}

func wordByteAt(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return false
	}
	c := s[i]
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c >= 0x80
}

func submatches(ms [][]string) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m[1]
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
