package model

import "strings"

// Category is a bucket in the architecture diagram.
type Category string

const (
	CategoryWebServer Category = "webServer"
	CategoryDatabase  Category = "database"
	CategoryCloud     Category = "cloud"
	CategoryContainer Category = "container"
	CategoryFrontend  Category = "frontend"
	CategoryAPI       Category = "api"
	CategoryMessaging Category = "messaging"
	CategoryStorage   Category = "storage"
	CategoryAuth      Category = "auth"
	CategoryOther     Category = "other"
)

// Categories lists every bucket, rule categories first in evaluation order, other last.
var Categories = []Category{
	CategoryWebServer,
	CategoryDatabase,
	CategoryCloud,
	CategoryContainer,
	CategoryFrontend,
	CategoryAPI,
	CategoryMessaging,
	CategoryStorage,
	CategoryAuth,
	CategoryOther,
}

// ParseCategory resolves a category name case-insensitively.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return "", false
}

// Title returns the display label, e.g. "WebServer".
func (c Category) Title() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

// CategoryRule assigns a category to services that match any of its keywords.
type CategoryRule struct {
	Category Category
	Keywords []string
}

// Matches reports whether service and any keyword contain one another, ignoring case.
func (r CategoryRule) Matches(service string) bool {
	s := strings.ToLower(service)
	for _, kw := range r.Keywords {
		k := strings.ToLower(kw)
		if strings.Contains(s, k) || strings.Contains(k, s) {
			return true
		}
	}
	return false
}

// DefaultRules is evaluated top to bottom; the first matching rule wins.
var DefaultRules = []CategoryRule{
	{CategoryWebServer, []string{"Flask", "Django", "Express", "Node.js", "Spring Boot", "ASP.NET", "Nginx", "Apache"}},
	{CategoryDatabase, []string{"MySQL", "PostgreSQL", "MongoDB", "Redis", "SQLite", "Oracle", "SQL Server"}},
	{CategoryCloud, []string{"AWS", "Azure", "GCP", "EC2", "Lambda", "S3", "RDS", "ECS", "SMS", "Cloud Functions", "App Engine"}},
	{CategoryContainer, []string{"Docker", "Kubernetes", "Podman"}},
	{CategoryFrontend, []string{"React", "Vue", "Angular", "jQuery", "HTML", "CSS", "JavaScript"}},
	{CategoryAPI, []string{"REST", "GraphQL", "gRPC"}},
	{CategoryMessaging, []string{"Kafka", "RabbitMQ", "SQS", "SNS"}},
	{CategoryStorage, []string{"S3", "Azure Blob", "Google Cloud Storage"}},
	{CategoryAuth, []string{"OAuth", "JWT", "Auth0", "Firebase Auth"}},
}

// CategorizedServices maps every category to its services in input order.
type CategorizedServices map[Category][]string

// NewCategorizedServices returns a map with every bucket present and empty.
func NewCategorizedServices() CategorizedServices {
	cs := make(CategorizedServices, len(Categories))
	for _, c := range Categories {
		cs[c] = []string{}
	}
	return cs
}

// First returns the first service of a category.
func (cs CategorizedServices) First(c Category) (string, bool) {
	if len(cs[c]) == 0 {
		return "", false
	}
	return cs[c][0], true
}

// Count returns the total number of services across all buckets.
func (cs CategorizedServices) Count() int {
	n := 0
	for _, svcs := range cs {
		n += len(svcs)
	}
	return n
}

// Categorizer buckets service names using an ordered rule list.
type Categorizer struct {
	Rules []CategoryRule
}

// Categorize assigns each service to the first matching rule's category, or other.
func (c *Categorizer) Categorize(services []string) CategorizedServices {
	out := NewCategorizedServices()
	for _, svc := range services {
		cat := c.CategoryOf(svc)
		out[cat] = append(out[cat], svc)
	}
	return out
}

// CategoryOf returns the category a single service falls into.
func (c *Categorizer) CategoryOf(service string) Category {
	for _, rule := range c.Rules {
		if rule.Matches(service) {
			return rule.Category
		}
	}
	return CategoryOther
}

// Categorize buckets services using DefaultRules.
func Categorize(services []string) CategorizedServices {
	c := &Categorizer{Rules: DefaultRules}
	return c.Categorize(services)
}
