package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThomasCrouzet/archmap/internal/client"
	"github.com/ThomasCrouzet/archmap/internal/render"
	"github.com/ThomasCrouzet/archmap/internal/server"
	"github.com/ThomasCrouzet/archmap/internal/ui"
	"github.com/ThomasCrouzet/archmap/internal/web"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	frontendAddr string
	openPage     bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the browser front-end",
	Long: `Serve the repository form and the results page. Submissions are sent to
the analysis service configured by 'endpoint'.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&frontendAddr, "addr", "", "listen address (default from frontend.addr)")
	serveCmd.Flags().StringVar(&endpointFlag, "endpoint", "", "analysis service URL")
	serveCmd.Flags().StringVar(&themeName, "theme", "", "color theme: default, dark, monochrome")
	serveCmd.Flags().BoolVar(&openPage, "open", false, "open the page in a browser")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyFlagOverrides(cfg)
	if frontendAddr != "" {
		cfg.Frontend.Addr = frontendAddr
	}

	front := web.New(
		client.New(cfg.Endpoint, cfg.Client.Timeout),
		render.NewDiagram(cfg),
		web.WithNavigateDelay(cfg.Progress.NavigateDelay),
		web.WithTickInterval(cfg.Progress.Interval),
		web.WithLogger(logger.Named("web")),
	)

	srv := server.New(server.Config{
		Name:    "frontend",
		Addr:    cfg.Frontend.Addr,
		Timeout: cfg.Client.Timeout,
	}, logger)
	front.RegisterRoutes(srv.Router())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	base := frontendURL(cfg.Frontend.Addr)
	logger.Info("front-end listening", zap.String("addr", cfg.Frontend.Addr), zap.String("endpoint", cfg.Endpoint))
	fmt.Printf("%s %s\n", ui.Bold("archmap front-end:"), base)

	if openPage {
		if err := openBrowser(base); err != nil {
			ui.Warn(fmt.Sprintf("could not open a browser: %v", err))
		}
	}

	return srv.Run(ctx)
}
