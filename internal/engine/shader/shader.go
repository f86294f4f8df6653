// Package shader provides OpenGL shader compilation utilities.
package shader

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// CompileProgram compiles vertex and fragment shaders and links them into a program.
// Returns the program ID or an error if compilation/linking fails.
func CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertShader)

	fragShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertShader)
	gl.AttachShader(program, fragShader)
	gl.BindAttribLocation(program, 0, gl.Str("aPosition\x00"))
	gl.BindAttribLocation(program, 1, gl.Str("aNormal\x00"))
	gl.BindAttribLocation(program, 2, gl.Str("aTexCoord\x00"))
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		log := infoLog(program, gl.GetProgramiv, gl.GetProgramInfoLog)
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", log)
	}

	return program, nil
}

// compileShader compiles a single shader of the given type.
func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		log := infoLog(shader, gl.GetShaderiv, gl.GetShaderInfoLog)
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", name, log)
	}

	return shader, nil
}

func infoLog(
	object uint32,
	getiv func(uint32, uint32, *int32),
	getLog func(uint32, int32, *int32, *uint8),
) string {
	var logLen int32
	getiv(object, gl.INFO_LOG_LENGTH, &logLen)
	if logLen <= 0 {
		return "no info log"
	}
	log := make([]byte, logLen)
	getLog(object, logLen, nil, &log[0])
	return string(log[:logLen-1])
}

// GetUniform returns the uniform location for the given name.
// Returns -1 if the uniform is not found or inactive.
func GetUniform(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

// Program is a linked shader program with resolved uniform locations.
type Program struct {
	ID       uint32
	uniforms map[string]int32
}

// NewProgram compiles and links a program and looks up the named uniforms.
// A uniform the driver reports as inactive is an error.
func NewProgram(vertexSrc, fragmentSrc string, uniforms ...string) (*Program, error) {
	id, err := CompileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, err
	}
	p := &Program{ID: id, uniforms: make(map[string]int32, len(uniforms))}
	for _, name := range uniforms {
		loc := GetUniform(id, name)
		if loc < 0 {
			gl.DeleteProgram(id)
			return nil, fmt.Errorf("uniform %q not found in program %d", name, id)
		}
		p.uniforms[name] = loc
	}
	return p, nil
}

// Use makes the program current.
func (p *Program) Use() {
	gl.UseProgram(p.ID)
}

// Loc returns a uniform location resolved by NewProgram, or -1.
func (p *Program) Loc(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	return -1
}

// Delete frees the GL program.
func (p *Program) Delete() {
	if p.ID != 0 {
		gl.DeleteProgram(p.ID)
		p.ID = 0
	}
}
