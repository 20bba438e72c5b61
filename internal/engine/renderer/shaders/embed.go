// Package shaders embeds the renderer's built-in GLSL sources.
package shaders

import _ "embed"

// Scene shaders: lit, untextured meshes.
//
//go:embed scene.vert
var SceneVertexShader string

//go:embed scene.frag
var SceneFragmentShader string

// Line shaders: flat-coloured debug wireframes.
//
//go:embed line.vert
var LineVertexShader string

//go:embed line.frag
var LineFragmentShader string

// Builtin returns the embedded sources keyed by file name.
func Builtin() map[string]string {
	return map[string]string{
		"scene.vert": SceneVertexShader,
		"scene.frag": SceneFragmentShader,
		"line.vert":  LineVertexShader,
		"line.frag":  LineFragmentShader,
	}
}
