package main

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/image/draw"

	"github.com/gogpu/trapezoid"
	"github.com/gogpu/trapezoid/backend"
	_ "github.com/gogpu/trapezoid/backend/software"
	_ "github.com/gogpu/trapezoid/backend/wgpu"
)

var (
	renderFlags = defaultRenderConfig()
	configPath  string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the trapezoid offscreen and write a PNG",
	Long: `Renders the scene on a headless backend and writes the drawing buffer
as a PNG. Without --backend the first working backend is used, preferring
the GPU.`,
	RunE: runRender,
}

func init() {
	d := defaultRenderConfig()
	renderCmd.Flags().StringVar(&renderFlags.Backend, "backend", d.Backend, "Backend name (software, wgpu); empty picks the best available")
	renderCmd.Flags().IntVar(&renderFlags.Width, "width", d.Width, "Canvas width in pixels")
	renderCmd.Flags().IntVar(&renderFlags.Height, "height", d.Height, "Canvas height in pixels")
	renderCmd.Flags().StringVar(&renderFlags.Out, "out", d.Out, "Output PNG path")
	renderCmd.Flags().IntVar(&renderFlags.Scale, "scale", d.Scale, "Nearest-neighbour upscale factor for the PNG")
	renderCmd.Flags().StringVar(&configPath, "config", "", "YAML config file; flags override its values")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg := defaultRenderConfig()
	if configPath != "" {
		var err error
		if cfg, err = loadRenderConfig(configPath); err != nil {
			return err
		}
	}
	flags := renderFlags
	flags.LogLevel = logLevel
	cfg.applyFlags(cmd, flags)
	if cfg.LogLevel != logLevel {
		setupLogger(cfg.LogLevel)
	}

	img, name, err := renderImage(cfg)
	if err != nil {
		return err
	}
	if err := writePNG(cfg.Out, img); err != nil {
		return err
	}
	slog.Info("Wrote image", "path", cfg.Out, "backend", name, "bounds", img.Bounds().Size())
	return nil
}

// renderImage validates cfg, draws the scene on the configured backend and
// returns the drawing buffer, scaled if requested.
func renderImage(cfg renderConfig) (image.Image, string, error) {
	if err := cfg.validate(); err != nil {
		return nil, cfg.Backend, err
	}
	var (
		canvas trapezoid.Canvas
		name   = cfg.Backend
		err    error
	)
	if name == "" {
		canvas, name, err = backend.Default(cfg.Width, cfg.Height)
	} else {
		canvas, err = backend.NewCanvas(name, cfg.Width, cfg.Height)
	}
	if err != nil {
		return nil, "", err
	}
	if c, ok := canvas.(io.Closer); ok {
		defer c.Close()
	}

	scene, err := trapezoid.Bootstrap(canvas)
	if err != nil {
		return nil, name, fmt.Errorf("render on %s: %w", name, err)
	}
	img := trapezoid.ReadPixmap(scene.Context, scene.Width, scene.Height).ToImage()
	return upscale(img, cfg.Scale), name, nil
}

func upscale(img *image.NRGBA, factor int) image.Image {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}
