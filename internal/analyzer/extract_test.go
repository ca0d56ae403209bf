package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractServices(t *testing.T) {
	tests := []struct {
		name     string
		analysis string
		want     []string
	}{
		{
			name:     "json array",
			analysis: "### Project Description\nA shop.\n\n### Services Used\n[\"Python\", \"Flask\", \"MongoDB\", \"AWS S3\"]\n",
			want:     []string{"Python", "Flask", "MongoDB", "AWS S3"},
		},
		{
			name:     "json array without trailing newline",
			analysis: "### Services Used\n[\"React\"]",
			want:     []string{"React"},
		},
		{
			name:     "section ends at next heading",
			analysis: "### Services Used\n[\"Redis\"]\n### Notes\n[\"Ignored\"]\n",
			want:     []string{"Redis"},
		},
		{
			name:     "single quoted list falls back to quotes",
			analysis: "### Services Used\n['Django', 'PostgreSQL']\n",
			want:     []string{"Django", "PostgreSQL"},
		},
		{
			name:     "bullets",
			analysis: "### Services Used\n- Node.js \n- Express\n* MySQL\n",
			want:     []string{"Node.js", "Express", "MySQL"},
		},
		{
			name:     "capitalized words",
			analysis: "### Services Used\nThe project uses Spring Boot and Oracle for storage.\n",
			want:     []string{"Spring Boot", "Oracle"},
		},
		{
			name:     "acronyms",
			analysis: "### Services Used\nuses AWS and GCP\n",
			want:     []string{"AWS", "GCP"},
		},
		{
			name:     "capitalized words capped at ten",
			analysis: "### Services Used\nalpha Aa, Bbb, Ccc, Ddd, Eee, Fff, Ggg, Hhh, Iii, Jjj, Kkk, Lll\n",
			want:     []string{"Bbb", "Ccc", "Ddd", "Eee", "Fff", "Ggg", "Hhh", "Iii", "Jjj", "Kkk"},
		},
		{
			name:     "empty json array",
			analysis: "### Services Used\n[]\n",
			want:     []string{},
		},
		{
			name:     "no section",
			analysis: "### Project Description\nNothing to see.\n",
			want:     []string{},
		},
		{
			name:     "heading without newline",
			analysis: "### Services Used [\"X\"]",
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractServices(tt.analysis)
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMentionedTechnologies(t *testing.T) {
	got := MentionedTechnologies("a django app on aws with docker, written in Go and C++")
	assert.Equal(t, []string{"C++", "Go", "Django", "AWS", "Docker"}, got)

	assert.Equal(t, []string{"Django"}, MentionedTechnologies("Django only"))

	assert.Empty(t, MentionedTechnologies("plain text"))
}
