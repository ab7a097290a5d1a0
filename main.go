package main

import (
	"context"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/df07/go-scanline-raytracer/pkg/config"
	"github.com/df07/go-scanline-raytracer/pkg/core"
	"github.com/df07/go-scanline-raytracer/pkg/renderer"
	"github.com/df07/go-scanline-raytracer/pkg/scene"
	"github.com/df07/go-scanline-raytracer/web/server"
)

// cliFlags holds the command line; zero values leave the options untouched
type cliFlags struct {
	configPath string
	sceneID    string
	width      int
	height     int
	samples    int
	shadows    bool
	depthBlur  bool
	threads    int
	texture    string
	outputDir  string
	verbose    bool
	port       int
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	f := &cliFlags{}
	root := &cobra.Command{
		Use:           "raytracer",
		Short:         "Scanline raytracer for polygon scenes",
		Long:          "Renders a built-in scene to output/<scene>/render_<timestamp>.png",
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, f)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "render options file (.toml, .yaml)")
	pf.IntVar(&f.width, "width", 0, "output width in pixels")
	pf.IntVar(&f.height, "height", 0, "output height in pixels")
	pf.IntVar(&f.samples, "samples", 0, "supersamples per pixel along each axis")
	pf.BoolVar(&f.shadows, "shadows", true, "cast shadow rays")
	pf.BoolVar(&f.depthBlur, "depth-blur", false, "blur distant surfaces")
	pf.IntVar(&f.threads, "threads", 1, "raster worker count")
	pf.StringVar(&f.texture, "texture", "", "image for textured scenes")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "debug logging")

	root.Flags().StringVarP(&f.sceneID, "scene", "s", "default", "scene to render, see 'scenes'")
	root.Flags().StringVarP(&f.outputDir, "output", "o", "output", "output directory")

	root.AddCommand(newScenesCommand(), newServeCommand(f))
	return root
}

func newScenesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "scenes",
		Short: "List the built-in scenes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printScenes(cmd.OutOrStdout())
			return nil
		},
	}
}

func newServeCommand(f *cliFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve renders over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, logger, err := loadOptions(cmd, f)
			if err != nil {
				return err
			}
			return server.NewServer(f.port, opts, f.texture, logger).Start()
		},
	}
	cmd.Flags().IntVar(&f.port, "port", 8080, "port to serve on")
	return cmd
}

func printScenes(w io.Writer) {
	fmt.Fprintln(w, "Available scenes:")
	for _, info := range scene.ListScenes() {
		fmt.Fprintf(w, "  %-10s %s - %s\n", info.ID, info.DisplayName, info.Description)
	}
}

// loadOptions reads the options file, if any, and applies explicit flags
// over it
func loadOptions(cmd *cobra.Command, f *cliFlags) (config.RenderOptions, *slog.Logger, error) {
	opts := config.Default()
	if f.configPath != "" {
		var err error
		if opts, err = config.Load(f.configPath); err != nil {
			return opts, nil, err
		}
	} else if err := opts.ApplyEnv(os.LookupEnv); err != nil {
		return opts, nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		opts.RenderWidth = f.width
	}
	if flags.Changed("height") {
		opts.RenderHeight = f.height
	}
	if flags.Changed("samples") {
		opts.SamplesPerPixelX, opts.SamplesPerPixelY = f.samples, f.samples
	}
	if flags.Changed("shadows") {
		opts.ShadowsEnabled = f.shadows
	}
	if flags.Changed("depth-blur") {
		opts.DepthBlurEnabled = f.depthBlur
	}
	if flags.Changed("threads") {
		opts.RenderThreads = f.threads
	}
	if f.verbose {
		opts.LogLevel = "debug"
	}
	if err := opts.Validate(); err != nil {
		return opts, nil, err
	}

	level, _ := opts.Level()
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return opts, logger, nil
}

func runRender(cmd *cobra.Command, f *cliFlags) error {
	opts, logger, err := loadOptions(cmd, f)
	if err != nil {
		return err
	}
	sc, err := scene.Build(f.sceneID, scene.BuildOptions{
		Width:       opts.RenderWidth,
		Height:      opts.RenderHeight,
		TexturePath: f.texture,
	})
	if err != nil {
		printScenes(cmd.ErrOrStderr())
		return err
	}
	sc.Logger = logger
	if err := opts.ApplyTo(sc); err != nil {
		return err
	}

	rt, err := opts.NewRenderer(logger)
	if err != nil {
		return err
	}
	rt.AddProgressTracker(renderer.NewLogProgressTracker(core.NewSlogLogger(logger, slog.LevelInfo), time.Second))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	vp := renderer.NewImageViewPort(opts.RenderWidth, opts.RenderHeight, core.Black)
	result, err := rt.Render(ctx, sc, vp)
	if err != nil {
		return err
	}
	logger.Info("render finished", "result", result.String())

	filename, err := savePNG(vp, f.outputDir, f.sceneID, time.Now())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Render saved as %s\n", filename)
	return nil
}

// savePNG writes the viewport to dir/<scene>/render_<timestamp>.png
func savePNG(vp *renderer.ImageViewPort, dir, sceneID string, now time.Time) (string, error) {
	outputDir := filepath.Join(dir, sceneID)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	filename := filepath.Join(outputDir, fmt.Sprintf("render_%s.png", now.Format("20060102_150405")))
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating output file: %w", err)
	}
	defer file.Close()
	if err := png.Encode(file, vp.Image()); err != nil {
		return "", fmt.Errorf("saving PNG: %w", err)
	}
	return filename, nil
}
