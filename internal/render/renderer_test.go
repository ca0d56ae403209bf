package render

import (
	"strings"
	"testing"

	"github.com/ThomasCrouzet/archmap/internal/config"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagramFromShortConfiguredLists(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.SetConfigType("yaml")
	require.NoError(t, viper.ReadConfig(strings.NewReader(`
render:
  categories: [frontend, webServer]
  connections:
    - {from: frontend, to: webServer}
`)))
	cfg, err := config.Load()
	require.NoError(t, err)

	_, l := NewDiagram(cfg).Build([]string{"React", "Flask", "REST", "MySQL", "AWS", "Docker"})

	labels := make([]string, 0, len(l.Labels))
	for _, lb := range l.Labels {
		labels = append(labels, lb.Text)
	}
	assert.Equal(t, []string{"Frontend", "WebServer"}, labels)
	assert.Len(t, l.Placements, 2)
	require.Len(t, l.Connectors, 1)
}
