package main

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var (
	teal        = color.NRGBA{R: 0, G: 204, B: 153, A: 255}
	transparent = color.NRGBA{}
)

func TestRenderImageSoftware(t *testing.T) {
	cfg := defaultRenderConfig()
	cfg.Backend = "software"
	img, name, err := renderImage(cfg)
	if err != nil {
		t.Fatalf("renderImage: %v", err)
	}
	if name != "software" {
		t.Errorf("backend = %q", name)
	}
	if got := img.Bounds().Size(); got != image.Pt(300, 150) {
		t.Fatalf("size = %v", got)
	}
	if got := color.NRGBAModel.Convert(img.At(45, 25)); got != teal {
		t.Errorf("pixel (45,25) = %v, want %v", got, teal)
	}
	if got := color.NRGBAModel.Convert(img.At(5, 5)); got != transparent {
		t.Errorf("pixel (5,5) = %v, want %v", got, transparent)
	}
}

func TestRenderImageUnknownBackend(t *testing.T) {
	cfg := defaultRenderConfig()
	cfg.Backend = "vector"
	if _, _, err := renderImage(cfg); err == nil {
		t.Error("renderImage accepted an unknown backend")
	}
}

func TestRenderImageRejectsOversizedOutput(t *testing.T) {
	cfg := defaultRenderConfig()
	cfg.Backend = "software"
	cfg.Scale = 1 << 20
	img, _, err := renderImage(cfg)
	if err == nil || !strings.Contains(err.Error(), "exceeds") {
		t.Fatalf("err = %v, want size limit error", err)
	}
	if img != nil {
		t.Error("image returned with an error")
	}
}

func TestUpscale(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(1, 0, teal)

	dst := upscale(src, 3)
	if got := dst.Bounds().Size(); got != image.Pt(6, 3) {
		t.Fatalf("size = %v", got)
	}
	for x := 0; x < 6; x++ {
		want := transparent
		if x >= 3 {
			want = teal
		}
		if got := color.NRGBAModel.Convert(dst.At(x, 2)); got != want {
			t.Errorf("pixel (%d,2) = %v, want %v", x, got, want)
		}
	}
	if upscale(src, 1) != image.Image(src) {
		t.Error("scale 1 copied the image")
	}
}

func TestWritePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	src := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	src.SetNRGBA(3, 1, teal)
	if err := writePNG(path, src); err != nil {
		t.Fatalf("writePNG: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := color.NRGBAModel.Convert(img.At(3, 1)); got != teal {
		t.Errorf("pixel (3,1) = %v, want %v", got, teal)
	}
}
