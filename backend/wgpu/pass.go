//go:build !nogpu

package wgpu

import (
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/trapezoid/internal/glsl"
)

// copyPitchAlignment is the row alignment WebGPU requires for texture to
// buffer copies.
const copyPitchAlignment = 256

const fenceTimeout = 5 * time.Second

// ensureTarget creates the colour target on first use. A fresh target
// reads back as transparent black, like a new WebGL drawing buffer.
func (c *Context) ensureTarget() error {
	if c.target != nil {
		return nil
	}
	tex, err := c.device.CreateTexture(&hal.TextureDescriptor{
		Label: "trapezoid_target",
		Size: hal.Extent3D{
			Width:              uint32(c.width),
			Height:             uint32(c.height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create target texture: %w", err)
	}
	view, err := c.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: "trapezoid_target_view",
	})
	if err != nil {
		c.device.DestroyTexture(tex)
		return fmt.Errorf("create target view: %w", err)
	}
	c.target, c.targetView = tex, view
	if !c.clearPending {
		c.clearPending = true
		c.clearColor = [4]float32{}
	}
	return nil
}

// beginPass starts a render pass on the target, applying a pending clear.
func (c *Context) beginPass(encoder hal.CommandEncoder, label string) hal.RenderPassEncoder {
	att := hal.RenderPassColorAttachment{
		View:    c.targetView,
		LoadOp:  gputypes.LoadOpLoad,
		StoreOp: gputypes.StoreOpStore,
	}
	if c.clearPending {
		cc := c.clearColor
		att.LoadOp = gputypes.LoadOpClear
		att.ClearValue = gputypes.Color{R: float64(cc[0]), G: float64(cc[1]), B: float64(cc[2]), A: float64(cc[3])}
		c.clearPending = false
	}
	return encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label:            label,
		ColorAttachments: []hal.RenderPassColorAttachment{att},
	})
}

func (c *Context) newEncoder(label string) (hal.CommandEncoder, error) {
	encoder, err := c.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(label); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}
	return encoder, nil
}

// submit finishes encoder, submits it and waits for the GPU.
func (c *Context) submit(encoder hal.CommandEncoder) error {
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer c.device.FreeCommandBuffer(cmdBuf)

	fence, err := c.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer c.device.DestroyFence(fence)

	if err := c.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	ok, err := c.device.Wait(fence, 1, fenceTimeout)
	if err != nil || !ok {
		return fmt.Errorf("wait for GPU: ok=%v err=%w", ok, err)
	}
	return nil
}

// draw renders vertexCount triangle-list vertices with gp.
func (c *Context) draw(gp *gpuProgram, lp *glsl.Program, vertices []byte, vertexCount uint32) error {
	if err := c.ensureTarget(); err != nil {
		return err
	}

	vbuf, err := c.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "trapezoid_vertices",
		Size:  uint64(len(vertices)),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create vertex buffer: %w", err)
	}
	defer c.device.DestroyBuffer(vbuf)
	c.queue.WriteBuffer(vbuf, 0, vertices)
	c.queue.WriteBuffer(gp.uniformBuf, 0, gp.packUniforms(lp))

	encoder, err := c.newEncoder("trapezoid_draw")
	if err != nil {
		return err
	}
	rp := c.beginPass(encoder, "trapezoid_draw_pass")
	x, y, w, h := c.ViewportRect()
	// WebGPU viewports are measured from the top edge.
	rp.SetViewport(float32(x), float32(c.height-y-h), float32(w), float32(h), 0, 1)
	rp.SetPipeline(gp.pipeline)
	rp.SetBindGroup(0, gp.bindGroup, nil)
	rp.SetVertexBuffer(0, vbuf, 0)
	rp.Draw(vertexCount, 1, 0, 0)
	rp.End()

	return c.submit(encoder)
}

// readback copies the target to the CPU and returns it as tightly packed
// RGBA rows, bottom row first.
func (c *Context) readback() ([]uint8, error) {
	if err := c.ensureTarget(); err != nil {
		return nil, err
	}
	w, h := uint32(c.width), uint32(c.height)

	encoder, err := c.newEncoder("trapezoid_readback")
	if err != nil {
		return nil, err
	}
	if c.clearPending {
		c.beginPass(encoder, "trapezoid_clear_pass").End()
	}

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: c.target,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})

	pitch := alignedPitch(w)
	stagingSize := uint64(pitch) * uint64(h)
	staging, err := c.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "trapezoid_staging",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		encoder.DiscardEncoding()
		return nil, fmt.Errorf("create staging buffer: %w", err)
	}
	defer c.device.DestroyBuffer(staging)

	encoder.CopyTextureToBuffer(c.target, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: pitch, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: c.target, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: c.target,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	if err := c.submit(encoder); err != nil {
		return nil, err
	}

	raw := make([]byte, stagingSize)
	if err := c.queue.ReadBuffer(staging, 0, raw); err != nil {
		return nil, fmt.Errorf("readback: %w", err)
	}
	return bgraToFramebuffer(raw, int(pitch), c.width, c.height), nil
}

func alignedPitch(width uint32) uint32 {
	return (width*4 + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
}

// bgraToFramebuffer converts top-down BGRA rows of pitch bytes to tightly
// packed bottom-up RGBA.
func bgraToFramebuffer(src []byte, pitch, width, height int) []uint8 {
	dst := make([]uint8, width*height*4)
	for row := 0; row < height; row++ {
		s := src[row*pitch : row*pitch+width*4]
		d := dst[(height-1-row)*width*4:]
		for i := 0; i < width*4; i += 4 {
			d[i+0] = s[i+2]
			d[i+1] = s[i+1]
			d[i+2] = s[i+0]
			d[i+3] = s[i+3]
		}
	}
	return dst
}
