package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"

	"github.com/ThomasCrouzet/archmap/internal/config"
	"github.com/ThomasCrouzet/archmap/internal/handoff"
	"github.com/ThomasCrouzet/archmap/internal/model"
	"github.com/ThomasCrouzet/archmap/internal/render"
	"github.com/ThomasCrouzet/archmap/internal/ui"
	"github.com/ThomasCrouzet/archmap/internal/watch"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	servicesJSON string
	servicesFile string
	fromURL      string
	watchFile    bool
)

var diagramCmd = &cobra.Command{
	Use:   "diagram",
	Short: "Draw a diagram from a list of services",
	Long: `Categorize a list of services and write the architecture diagram as SVG,
without contacting the analysis service.

The services come from a JSON array (--services), a file holding a JSON array
or one service per line (--file), or a results page URL (--from-url).`,
	Example: `  archmap diagram --services '["React","Express","PostgreSQL"]'
  archmap diagram --file services.json --watch
  archmap diagram --from-url 'http://localhost:8080/results?repo=...&services=...'`,
	RunE: runDiagram,
}

func init() {
	rootCmd.AddCommand(diagramCmd)

	diagramCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output SVG file path")
	diagramCmd.Flags().StringVar(&themeName, "theme", "", "color theme: default, dark, monochrome")
	diagramCmd.Flags().StringVar(&servicesJSON, "services", "", "services as a JSON array")
	diagramCmd.Flags().StringVarP(&servicesFile, "file", "f", "", "file with a JSON array or one service per line")
	diagramCmd.Flags().StringVar(&fromURL, "from-url", "", "results page URL or query string")
	diagramCmd.Flags().BoolVarP(&watchFile, "watch", "w", false, "redraw whenever --file changes")
	diagramCmd.MarkFlagsMutuallyExclusive("services", "file", "from-url")
	diagramCmd.MarkFlagsOneRequired("services", "file", "from-url")
}

func runDiagram(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyFlagOverrides(cfg)

	if watchFile && servicesFile == "" {
		return errors.New("--watch requires --file")
	}

	draw := func() error {
		services, err := readServices()
		if err != nil {
			return err
		}
		cs, err := writeDiagram(cfg, services)
		if err != nil {
			return err
		}
		ui.Success(fmt.Sprintf("Wrote %s (%d services)", cfg.Output, cs.Count()))
		ui.WriteCategorized(cmd.OutOrStdout(), cs, model.Categories)
		return nil
	}

	if err := draw(); err != nil {
		fmt.Fprint(os.Stderr, ui.FormatError("Failed to draw diagram", err.Error(), ""))
		if !watchFile {
			return err
		}
	}
	if !watchFile {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	fmt.Println(ui.Hint(fmt.Sprintf("Watching %s, press Ctrl+C to stop", servicesFile)))
	w := &watch.File{Path: servicesFile, Log: logger}
	return w.Run(ctx, func() error {
		err := draw()
		if err != nil {
			fmt.Fprint(os.Stderr, ui.FormatError("Failed to draw diagram", err.Error(), ""))
		}
		return err
	})
}

func readServices() ([]string, error) {
	switch {
	case servicesJSON != "":
		return parseServiceList(servicesJSON)
	case servicesFile != "":
		data, err := os.ReadFile(servicesFile)
		if err != nil {
			return nil, err
		}
		return parseServiceList(string(data))
	case fromURL != "":
		p, err := handoff.DecodeQuery(fromURL)
		var serr *handoff.ServicesError
		if errors.As(err, &serr) {
			logger.Warn("malformed services in URL", zap.Error(err))
			ui.Warn("services in the URL could not be read; drawing an empty diagram")
			return p.Services, nil
		}
		return p.Services, err
	}
	return nil, errors.New("no services given")
}

// parseServiceList reads a JSON array, or one service per line when the input is not JSON.
func parseServiceList(s string) ([]string, error) {
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "[") {
		var services []string
		if err := json.Unmarshal([]byte(trimmed), &services); err != nil {
			return nil, fmt.Errorf("parsing services: %w", err)
		}
		return services, nil
	}

	var services []string
	for _, line := range strings.Split(trimmed, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		services = append(services, line)
	}
	return services, nil
}

// writeDiagram runs the categorize, layout and render pipeline into cfg.Output.
func writeDiagram(cfg *config.Config, services []string) (model.CategorizedServices, error) {
	f, err := os.Create(cfg.Output)
	if err != nil {
		return nil, err
	}
	cs, err := render.NewDiagram(cfg).Write(f, services)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return cs, err
}

// frontendURL turns a listen address such as ":8080" into a browsable base URL.
func frontendURL(addr string) string {
	if strings.HasPrefix(addr, "http://") || strings.HasPrefix(addr, "https://") {
		return strings.TrimRight(addr, "/")
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}
