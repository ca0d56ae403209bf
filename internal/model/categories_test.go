package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	got := Categorize([]string{"Flask", "MySQL", "AWS EC2", "Unknown-Thing"})

	want := NewCategorizedServices()
	want[CategoryWebServer] = []string{"Flask"}
	want[CategoryDatabase] = []string{"MySQL"}
	want[CategoryCloud] = []string{"AWS EC2"}
	want[CategoryOther] = []string{"Unknown-Thing"}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Categorize mismatch (-want +got):\n%s", diff)
	}
}

func TestCategorizeAllBucketsPresent(t *testing.T) {
	got := Categorize(nil)
	assert.Len(t, got, len(Categories))
	for _, c := range Categories {
		assert.NotNil(t, got[c], c)
		assert.Empty(t, got[c], c)
	}
}

func TestCategorizeDeterministic(t *testing.T) {
	input := []string{"React", "Vue", "Flask", "Express", "Redis", "MongoDB", "Docker", "Kafka"}
	first := Categorize(input)
	second := Categorize(input)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"React", "Vue"}, first[CategoryFrontend])
	assert.Equal(t, []string{"Flask", "Express"}, first[CategoryWebServer])
	assert.Equal(t, []string{"Redis", "MongoDB"}, first[CategoryDatabase])
}

func TestCategorizeDoesNotMutateInput(t *testing.T) {
	input := []string{"MySQL", "Flask"}
	Categorize(input)
	assert.Equal(t, []string{"MySQL", "Flask"}, input)
}

func TestCategoryOf(t *testing.T) {
	tests := []struct {
		service  string
		expected Category
	}{
		{"ec2", CategoryCloud},
		{"Amazon EC2 Instance", CategoryCloud},
		{"flask", CategoryWebServer},
		{"PostgreSQL 15", CategoryDatabase},
		{"Kubernetes", CategoryContainer},
		{"GraphQL", CategoryAPI},
		{"RabbitMQ", CategoryMessaging},
		{"Azure Blob", CategoryCloud}, // cloud's "Azure" wins over storage
		{"Google Cloud Storage", CategoryStorage},
		{"JWT", CategoryAuth},
		{"Node", CategoryWebServer}, // keyword "Node.js" contains "node"
		{"Terraform", CategoryOther},
	}

	c := &Categorizer{Rules: DefaultRules}
	for _, tt := range tests {
		t.Run(tt.service, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.CategoryOf(tt.service))
		})
	}
}

func TestCategorizerCustomRules(t *testing.T) {
	c := &Categorizer{Rules: []CategoryRule{
		{CategoryMessaging, []string{"nats"}},
		{CategoryDatabase, []string{"nats-kv"}},
	}}
	got := c.Categorize([]string{"NATS JetStream", "nats-kv"})
	assert.Equal(t, []string{"NATS JetStream", "nats-kv"}, got[CategoryMessaging])
	assert.Empty(t, got[CategoryDatabase])
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory("WEBSERVER")
	assert.True(t, ok)
	assert.Equal(t, CategoryWebServer, c)

	_, ok = ParseCategory("queue")
	assert.False(t, ok)
}

func TestCategoryTitle(t *testing.T) {
	assert.Equal(t, "WebServer", CategoryWebServer.Title())
	assert.Equal(t, "Api", CategoryAPI.Title())
	assert.Equal(t, "", Category("").Title())
}
