package collector

import (
	"bufio"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

func init() {
	Register(func() HintExtractor { return &PackageJSONExtractor{} })
	Register(func() HintExtractor { return &RequirementsExtractor{} })
	Register(func() HintExtractor { return &GoModExtractor{} })
}

// knownPackages maps dependency names to the technology they imply.
var knownPackages = map[string]string{
	// npm
	"react":          "React",
	"vue":            "Vue",
	"@angular/core":  "Angular",
	"jquery":         "jQuery",
	"express":        "Express",
	"next":           "Next.js",
	"graphql":        "GraphQL",
	"@apollo/server": "GraphQL",
	"mongoose":       "MongoDB",
	"mongodb":        "MongoDB",
	"pg":             "PostgreSQL",
	"mysql":          "MySQL",
	"mysql2":         "MySQL",
	"redis":          "Redis",
	"ioredis":        "Redis",
	"kafkajs":        "Kafka",
	"amqplib":        "RabbitMQ",
	"aws-sdk":        "AWS",
	"firebase":       "Firebase",
	"jsonwebtoken":   "JWT",
	"passport":       "OAuth",
	"socket.io":      "Socket.IO",

	// pip
	"flask":               "Flask",
	"django":              "Django",
	"fastapi":             "FastAPI",
	"djangorestframework": "REST",
	"pymongo":             "MongoDB",
	"psycopg2":            "PostgreSQL",
	"psycopg2-binary":     "PostgreSQL",
	"mysqlclient":         "MySQL",
	"pymysql":             "MySQL",
	"sqlalchemy":          "SQLAlchemy",
	"boto3":               "AWS",
	"celery":              "Celery",
	"openai":              "OpenAI",
	"pyjwt":               "JWT",
	"gunicorn":            "Gunicorn",
	"kafka-python":        "Kafka",
	"pika":                "RabbitMQ",
	"grpcio":              "gRPC",
}

// knownModules maps Go module path prefixes to the technology they imply.
var knownModules = []struct {
	prefix  string
	display string
}{
	{"github.com/gin-gonic/gin", "Gin"},
	{"github.com/labstack/echo", "Echo"},
	{"github.com/go-chi/chi", "chi"},
	{"github.com/gofiber/fiber", "Fiber"},
	{"gorm.io/gorm", "GORM"},
	{"github.com/lib/pq", "PostgreSQL"},
	{"github.com/jackc/pgx", "PostgreSQL"},
	{"github.com/go-sql-driver/mysql", "MySQL"},
	{"github.com/mattn/go-sqlite3", "SQLite"},
	{"modernc.org/sqlite", "SQLite"},
	{"go.mongodb.org/mongo-driver", "MongoDB"},
	{"github.com/redis/go-redis", "Redis"},
	{"github.com/go-redis/redis", "Redis"},
	{"github.com/aws/aws-sdk-go", "AWS"},
	{"cloud.google.com/go", "GCP"},
	{"github.com/Azure/azure-sdk-for-go", "Azure"},
	{"google.golang.org/grpc", "gRPC"},
	{"github.com/segmentio/kafka-go", "Kafka"},
	{"github.com/IBM/sarama", "Kafka"},
	{"github.com/rabbitmq/amqp091-go", "RabbitMQ"},
	{"github.com/golang-jwt/jwt", "JWT"},
	{"github.com/graphql-go/graphql", "GraphQL"},
	{"github.com/99designs/gqlgen", "GraphQL"},
}

// PackageJSONExtractor reads npm dependencies.
type PackageJSONExtractor struct{}

func (pe *PackageJSONExtractor) Metadata() ExtractorMetadata {
	return ExtractorMetadata{
		Name:        "npm",
		DisplayName: "package.json",
		Description: "Maps npm dependencies to known technologies",
		DetectHint:  "package.json",
	}
}

func (pe *PackageJSONExtractor) Match(name string) bool {
	return name == "package.json"
}

func (pe *PackageJSONExtractor) Extract(f File) ([]string, error) {
	var pkg struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal([]byte(f.Content), &pkg); err != nil {
		return nil, fmt.Errorf("parsing package.json: %w", err)
	}

	deps := make([]string, 0, len(pkg.Dependencies)+len(pkg.DevDependencies))
	for name := range pkg.Dependencies {
		deps = append(deps, name)
	}
	for name := range pkg.DevDependencies {
		deps = append(deps, name)
	}
	sort.Strings(deps)

	return lookupPackages(deps), nil
}

// RequirementsExtractor reads pip requirement files.
type RequirementsExtractor struct{}

func (re *RequirementsExtractor) Metadata() ExtractorMetadata {
	return ExtractorMetadata{
		Name:        "pip",
		DisplayName: "requirements.txt",
		Description: "Maps Python requirements to known technologies",
		DetectHint:  "requirements.txt",
	}
}

func (re *RequirementsExtractor) Match(name string) bool {
	return strings.HasPrefix(name, "requirements") && strings.HasSuffix(name, ".txt")
}

func (re *RequirementsExtractor) Extract(f File) ([]string, error) {
	var deps []string
	sc := bufio.NewScanner(strings.NewReader(f.Content))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}
		if i := strings.IndexAny(line, "=<>~!;[ @"); i >= 0 {
			line = line[:i]
		}
		deps = append(deps, strings.ToLower(line))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lookupPackages(deps), nil
}

// GoModExtractor reads the require block of a go.mod file.
type GoModExtractor struct{}

func (ge *GoModExtractor) Metadata() ExtractorMetadata {
	return ExtractorMetadata{
		Name:        "gomod",
		DisplayName: "go.mod",
		Description: "Maps Go module requirements to known technologies",
		DetectHint:  "go.mod",
	}
}

func (ge *GoModExtractor) Match(name string) bool {
	return name == "go.mod"
}

func (ge *GoModExtractor) Extract(f File) ([]string, error) {
	hints := []string{"Go"}
	seen := map[string]bool{"Go": true}

	inBlock := false
	sc := bufio.NewScanner(strings.NewReader(f.Content))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		var mod string
		switch {
		case strings.HasPrefix(line, "require ("):
			inBlock = true
			continue
		case inBlock && line == ")":
			inBlock = false
			continue
		case inBlock:
			mod = line
		case strings.HasPrefix(line, "require "):
			mod = strings.TrimPrefix(line, "require ")
		default:
			continue
		}
		if fields := strings.Fields(mod); len(fields) > 0 {
			mod = fields[0]
		}
		for _, km := range knownModules {
			if strings.HasPrefix(mod, km.prefix) && !seen[km.display] {
				seen[km.display] = true
				hints = append(hints, km.display)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return hints, nil
}

func lookupPackages(deps []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, d := range deps {
		display, ok := knownPackages[strings.ToLower(d)]
		if !ok || seen[display] {
			continue
		}
		seen[display] = true
		out = append(out, display)
	}
	return out
}
