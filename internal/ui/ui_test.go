package ui

import (
	"bytes"
	"testing"

	"github.com/ThomasCrouzet/archmap/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestFormatError(t *testing.T) {
	out := FormatError("Analysis failed", "rate limited", "try again later")
	assert.Contains(t, out, "Error: Analysis failed")
	assert.Contains(t, out, "rate limited")
	assert.Contains(t, out, "Hint: try again later")

	bare := FormatError("boom", "", "")
	assert.NotContains(t, bare, "Hint:")
}

func TestWriteCategorized(t *testing.T) {
	cs := model.Categorize([]string{"React", "Flask", "MySQL"})

	var buf bytes.Buffer
	WriteCategorized(&buf, cs, []model.Category{model.CategoryFrontend, model.CategoryWebServer, model.CategoryDatabase, model.CategoryCloud})

	out := buf.String()
	assert.Contains(t, out, "React")
	assert.Contains(t, out, "Flask")
	assert.Contains(t, out, "MySQL")
	assert.NotContains(t, out, model.CategoryCloud.Title())
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("React")), bytes.Index(buf.Bytes(), []byte("MySQL")))
}
