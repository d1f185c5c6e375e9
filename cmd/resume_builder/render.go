package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-builder/internal/browser"
	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/server"
	"github.com/jonathan/resume-builder/internal/types"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a resume JSON file to PDF, HTML or LaTeX",
	Long: `Validates a resume JSON file against the resume schema, lays it out and writes
one file per requested format into the output directory.`,
	RunE: runRender,
}

var (
	renderConfigPath string
	renderInput      string
	renderOutDir     string
	renderFormats    string
	renderTemplate   string
	renderFont       string
	renderFontSize   float64
	renderSpacing    string
	renderTheme      string
	renderUseBrowser bool
	renderVerbose    bool
)

func init() {
	renderCmd.Flags().StringVar(&renderConfigPath, "config", "", "Path to JSON config file")
	renderCmd.Flags().StringVarP(&renderInput, "in", "i", "", "Path to resume JSON file (required)")
	renderCmd.Flags().StringVarP(&renderOutDir, "out", "o", ".", "Output directory")
	renderCmd.Flags().StringVarP(&renderFormats, "format", "f", "pdf", "Comma-separated formats: pdf, html, tex")
	renderCmd.Flags().StringVarP(&renderTemplate, "template", "t", "", "LaTeX template used for tex output")
	renderCmd.Flags().StringVar(&renderFont, "font", "", "Font family: Helvetica, Times or Courier")
	renderCmd.Flags().Float64Var(&renderFontSize, "font-size", 0, "Base font size in points")
	renderCmd.Flags().StringVar(&renderSpacing, "spacing", "", "Spacing: compact, normal or relaxed")
	renderCmd.Flags().StringVar(&renderTheme, "theme", "", "Theme: professional, modern or minimal")
	renderCmd.Flags().BoolVar(&renderUseBrowser, "use-browser", false, "Print PDF through headless Chrome")
	renderCmd.Flags().BoolVarP(&renderVerbose, "verbose", "v", false, "Print detailed debug information")

	if err := renderCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(renderCmd)
}

func renderOverrides(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("template") {
		cfg.Template = renderTemplate
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = renderUseBrowser
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = renderVerbose
	}

	p := types.SettingsPatch{}
	if cfg.Settings != nil {
		p = *cfg.Settings
	}
	if cmd.Flags().Changed("font") {
		f := types.FontFamily(renderFont)
		p.FontFamily = &f
	}
	if cmd.Flags().Changed("font-size") {
		size := renderFontSize
		p.FontSize = &size
	}
	if cmd.Flags().Changed("spacing") {
		s := types.Spacing(renderSpacing)
		p.Spacing = &s
	}
	if cmd.Flags().Changed("theme") {
		t := types.Theme(renderTheme)
		p.Theme = &t
	}
	cfg.Settings = &p
}

func runRender(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd, renderConfigPath, renderOverrides)
	if err != nil {
		return err
	}
	formats, err := parseFormats(renderFormats)
	if err != nil {
		return err
	}
	resume, err := loadResume(renderInput)
	if err != nil {
		return err
	}
	if err := resume.ValidateForExport(); err != nil {
		return err
	}

	doc, err := rendering.Render(resume, cfg.RenderSettings())
	if err != nil {
		return fmt.Errorf("failed to render resume: %w", err)
	}
	if cfg.Verbose {
		observability.NewPrinter(os.Stdout).PrintLayout(doc)
	}

	opts := exportOptions{template: cfg.Template}
	if cfg.UseBrowser {
		engine := browser.NewEngine(browser.Config{ExecPath: cfg.ChromePath, Verbose: cfg.Verbose})
		defer engine.Close()
		opts.printer = engine
	}

	if err := os.MkdirAll(renderOutDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	paths, err := exportAll(commandContext(cmd), doc, formats, renderOutDir, opts)
	if err != nil {
		return err
	}
	for _, p := range paths {
		_, _ = fmt.Fprintf(os.Stdout, "Wrote %s\n", p)
	}
	return nil
}

// loadResume reads a resume file, checking it against the schema first.
func loadResume(path string) (*types.Resume, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("resume file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read resume file: %w", err)
	}
	if err := schemas.ValidateResumeJSON(data); err != nil {
		return nil, err
	}
	return types.UnmarshalResume(data)
}

func parseFormats(list string) ([]rendering.Format, error) {
	var formats []rendering.Format
	seen := make(map[rendering.Format]bool)
	for _, name := range types.ParseCommaList(list) {
		if name == "" {
			continue
		}
		f, err := rendering.ParseFormat(name)
		if err != nil {
			return nil, err
		}
		if !seen[f] {
			seen[f] = true
			formats = append(formats, f)
		}
	}
	if len(formats) == 0 {
		return nil, fmt.Errorf("no output format given")
	}
	return formats, nil
}

type exportOptions struct {
	template string
	printer  server.PDFPrinter // nil uses the native PDF backend
}

// exportAll encodes doc in every format concurrently and writes the files
// into dir. Nothing is written unless every format succeeds.
func exportAll(ctx context.Context, doc *rendering.Document, formats []rendering.Format, dir string, opts exportOptions) ([]string, error) {
	outputs := make([][]byte, len(formats))
	g, ctx := errgroup.WithContext(ctx)
	for i, f := range formats {
		g.Go(func() error {
			data, err := encode(ctx, doc, f, opts)
			if err != nil {
				return fmt.Errorf("failed to export %s: %w", f, err)
			}
			outputs[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	paths := make([]string, len(formats))
	for i, f := range formats {
		paths[i] = filepath.Join(dir, rendering.FilenameFor(doc.Title, f))
		if err := os.WriteFile(paths[i], outputs[i], 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", paths[i], err)
		}
	}
	return paths, nil
}

func encode(ctx context.Context, doc *rendering.Document, f rendering.Format, opts exportOptions) ([]byte, error) {
	var buf bytes.Buffer
	switch {
	case f == rendering.FormatPDF && opts.printer != nil:
		if err := opts.printer.WritePDF(ctx, &buf, doc); err != nil {
			return nil, err
		}
	case f == rendering.FormatLaTeX && opts.template != "":
		if err := rendering.WriteLaTeXWithTemplate(&buf, doc, opts.template); err != nil {
			return nil, err
		}
	default:
		return doc.Encode(f)
	}
	return buf.Bytes(), nil
}
