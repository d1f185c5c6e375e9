package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/browser"
	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/editor"
	"github.com/jonathan/resume-builder/internal/preview"
	"github.com/jonathan/resume-builder/internal/server"
	"github.com/jonathan/resume-builder/internal/store"
)

var (
	serveConfigPath string
	servePort       int
	serveStore      string
	serveStatePath  string
	serveTemplate   string
	serveUseBrowser bool
	serveVerbose    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes the editable resume state, document export,
file import and a debounced live preview.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to JSON config file")
	serveCmd.Flags().IntVar(&servePort, "port", config.DefaultPort, "Port to listen on")
	serveCmd.Flags().StringVar(&serveStore, "store", config.DefaultStore, "State repository: file, postgres or memory")
	serveCmd.Flags().StringVar(&serveStatePath, "state", config.DefaultStatePath, "State file for the file store")
	serveCmd.Flags().StringVarP(&serveTemplate, "template", "t", "", "LaTeX template used for tex exports")
	serveCmd.Flags().BoolVar(&serveUseBrowser, "use-browser", false, "Export PDF through headless Chrome by default")
	serveCmd.Flags().BoolVarP(&serveVerbose, "verbose", "v", false, "Print detailed debug information")
	rootCmd.AddCommand(serveCmd)
}

func serveOverrides(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}
	if cmd.Flags().Changed("store") {
		cfg.Store = serveStore
	}
	if cmd.Flags().Changed("state") {
		cfg.StatePath = serveStatePath
	}
	if cmd.Flags().Changed("template") {
		cfg.Template = serveTemplate
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = serveUseBrowser
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = serveVerbose
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd, serveConfigPath, serveOverrides)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := store.Open(ctx, store.Config{
		Kind:        store.Kind(cfg.Store),
		Path:        cfg.StatePath,
		DatabaseURL: cfg.DatabaseURL,
	})
	if err != nil {
		return fmt.Errorf("failed to open state store: %w", err)
	}
	defer repo.Close()

	ed := editor.New(ctx, repo)
	if cfg.Settings != nil {
		if _, err := ed.UpdateSettings(ctx, *cfg.Settings); err != nil {
			return fmt.Errorf("failed to apply configured settings: %w", err)
		}
	}

	var engine *browser.Engine
	var printer server.PDFPrinter
	if cfg.UseBrowser || cfg.ChromePath != "" {
		engine = browser.NewEngine(browser.Config{ExecPath: cfg.ChromePath, Verbose: cfg.Verbose})
		defer engine.Close()
		printer = engine
	}

	scheduler := preview.NewScheduler(server.PreviewRenderer(nil), cfg.PreviewDelayDuration())
	defer scheduler.Close()

	jwtConfig, err := config.OptionalJWTConfig()
	if err != nil {
		return err
	}
	if jwtConfig == nil {
		log.Printf("[server] JWT_SECRET not set, mutating routes are unauthenticated")
	}

	srv, err := server.New(server.Config{
		Port:         cfg.Port,
		Editor:       ed,
		Preview:      scheduler,
		Browser:      printer,
		UseBrowser:   cfg.UseBrowser,
		TemplatePath: cfg.Template,
		JWT:          jwtConfig,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	if cfg.Verbose {
		log.Printf("[server] store=%s preview_delay=%s browser=%t", cfg.Store, cfg.PreviewDelayDuration(), engine != nil)
	}
	return srv.Run(ctx)
}
