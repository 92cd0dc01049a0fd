// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// ModelVertexShader transforms product surfaces and the ground plane.
//
//go:embed model.vert
var ModelVertexShader string

// ModelFragmentShader lights surfaces with the key/fill rig and writes sRGB.
//
//go:embed model.frag
var ModelFragmentShader string

// DepthVertexShader is the shadow pass vertex shader.
//
//go:embed depth.vert
var DepthVertexShader string

// DepthFragmentShader is the shadow pass fragment shader.
//
//go:embed depth.frag
var DepthFragmentShader string
