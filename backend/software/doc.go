// Package software is a headless WebGL2 implementation.
//
// Shaders are compiled and run by a GLSL ES 3.00 interpreter. Triangles
// are rasterized on the CPU into an RGBA8 framebuffer with pixel-centre
// sampling and a top-left fill rule, so results are deterministic and can
// be compared byte for byte. It is the reference backend for tests and
// the default for headless rendering on machines without a GPU.
//
// Importing the package registers it with the backend registry under the
// name "software".
package software
