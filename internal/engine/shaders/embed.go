// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// GlobeVertexShader transforms the textured sphere.
//
//go:embed globe.vert
var GlobeVertexShader string

// GlobeFragmentShader lights the sphere with a directional light and an
// atmosphere rim.
//
//go:embed globe.frag
var GlobeFragmentShader string

// BeaconVertexShader scales a beacon cone by its pulse and projects it.
//
//go:embed beacon.vert
var BeaconVertexShader string

// BeaconFragmentShader fades a beacon from its base to its apex.
//
//go:embed beacon.frag
var BeaconFragmentShader string
