// Package wgpu renders WebGL2 command streams offscreen with gogpu/wgpu.
//
// The Context type implements gl.Context on top of a wgpu HAL device.
// GLSL sources are still compiled and linked by the GLSL front-end so that
// compile status, info logs and locations behave like WebGL2, but the GPU
// runs the WGSL translation registered for the shader pair in a
// shaders.Set. The translation is compiled to SPIR-V with naga at link
// time.
//
// Each DrawArrays call is one render pass into a BGRA8 target texture.
// Vertex data is gathered on the CPU into a triangle list, so TRIANGLES,
// TRIANGLE_STRIP and TRIANGLE_FAN all map to the same pipeline topology.
// ReadPixels copies the target to a staging buffer with rows aligned to
// 256 bytes, converts BGRA to RGBA and returns GL row order.
//
// Importing the package registers it with the backend registry under the
// name "wgpu". The registered factory opens a Vulkan adapter.
package wgpu
