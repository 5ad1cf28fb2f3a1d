// Package glsl implements the small GLSL ES 3.00 front-end and interpreter
// used by the headless backends.
//
// The accepted language is the subset needed by solid-colour 2D shaders:
// scalar and vector float types, int, global in/out/uniform declarations,
// a single void main(), local declarations, assignments, arithmetic,
// constructors and swizzles. Diagnostics are formatted the way browsers
// print WebGL info logs so callers can surface them unchanged.
package glsl
