package backend

import (
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/trapezoid"
	"github.com/gogpu/trapezoid/gl"
)

type fakeCanvas struct{ w, h int }

func (c fakeCanvas) Width() int  { return c.w }
func (c fakeCanvas) Height() int { return c.h }
func (c fakeCanvas) Context(string) (gl.Context, error) {
	return nil, gl.ErrContextUnavailable
}

func register(t *testing.T, name string, f Factory) {
	t.Helper()
	Register(name, f)
	t.Cleanup(func() { Unregister(name) })
}

func TestRegisterAndNewCanvas(t *testing.T) {
	register(t, "fake", func(w, h int) (trapezoid.Canvas, error) {
		return fakeCanvas{w, h}, nil
	})
	if !IsRegistered("fake") {
		t.Fatal("IsRegistered(fake) = false")
	}
	if !slices.Contains(Available(), "fake") {
		t.Errorf("Available() = %v, missing fake", Available())
	}
	c, err := NewCanvas("fake", 12, 34)
	if err != nil {
		t.Fatalf("NewCanvas: %v", err)
	}
	if c.Width() != 12 || c.Height() != 34 {
		t.Errorf("size = %dx%d, want 12x34", c.Width(), c.Height())
	}
}

func TestNewCanvasErrors(t *testing.T) {
	register(t, "fake", func(w, h int) (trapezoid.Canvas, error) {
		return fakeCanvas{w, h}, nil
	})
	if _, err := NewCanvas("nope", 1, 1); !errors.Is(err, ErrBackendNotAvailable) {
		t.Errorf("unknown backend: err = %v, want ErrBackendNotAvailable", err)
	}
	if _, err := NewCanvas("fake", 0, 10); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("zero width: err = %v, want ErrInvalidSize", err)
	}
}

func TestAvailableSorted(t *testing.T) {
	register(t, "zz-fake", func(w, h int) (trapezoid.Canvas, error) { return fakeCanvas{w, h}, nil })
	register(t, "aa-fake", func(w, h int) (trapezoid.Canvas, error) { return fakeCanvas{w, h}, nil })
	if names := Available(); !slices.IsSorted(names) {
		t.Errorf("Available() = %v, not sorted", names)
	}
}

func TestDefaultFallsBack(t *testing.T) {
	errGPU := errors.New("no adapter")
	register(t, NameWGPU, func(int, int) (trapezoid.Canvas, error) { return nil, errGPU })
	register(t, NameSoftware, func(w, h int) (trapezoid.Canvas, error) { return fakeCanvas{w, h}, nil })

	c, name, err := Default(5, 6)
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if name != NameSoftware {
		t.Errorf("Default picked %q, want %q", name, NameSoftware)
	}
	if c.Width() != 5 || c.Height() != 6 {
		t.Errorf("size = %dx%d, want 5x6", c.Width(), c.Height())
	}
}

func TestDefaultAllFail(t *testing.T) {
	errGPU := errors.New("no adapter")
	register(t, NameWGPU, func(int, int) (trapezoid.Canvas, error) { return nil, errGPU })
	Unregister(NameSoftware)

	if _, _, err := Default(5, 6); !errors.Is(err, errGPU) {
		t.Errorf("err = %v, want %v", err, errGPU)
	}
}
