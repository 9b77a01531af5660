// Package shader compiles OpenGL programs and embeds the relief shaders.
package shader

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Stage is one shader source and its GL type.
type Stage struct {
	Type   uint32
	Source string
}

// Vertex returns a vertex stage.
func Vertex(src string) Stage { return Stage{Type: gl.VERTEX_SHADER, Source: src} }

// Fragment returns a fragment stage.
func Fragment(src string) Stage { return Stage{Type: gl.FRAGMENT_SHADER, Source: src} }

func (s Stage) kind() string {
	switch s.Type {
	case gl.VERTEX_SHADER:
		return "vertex"
	case gl.FRAGMENT_SHADER:
		return "fragment"
	default:
		return fmt.Sprintf("stage 0x%x", s.Type)
	}
}

// Program is a linked GL program with a uniform location cache.
type Program struct {
	ID   uint32
	name string
	locs map[string]int32
}

// Link compiles every stage and links them into a program named name.
// Stage objects are deleted once linked.
func Link(name string, stages ...Stage) (*Program, error) {
	ids := make([]uint32, 0, len(stages))
	defer func() {
		for _, id := range ids {
			gl.DeleteShader(id)
		}
	}()
	for _, s := range stages {
		id, err := compile(s)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		ids = append(ids, id)
	}

	program := gl.CreateProgram()
	for _, id := range ids {
		gl.AttachShader(program, id)
	}
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := infoLog(logLen, func(buf *uint8) { gl.GetProgramInfoLog(program, logLen, nil, buf) })
		gl.DeleteProgram(program)
		return nil, fmt.Errorf("%s: link: %s", name, log)
	}

	return &Program{ID: program, name: name, locs: make(map[string]int32)}, nil
}

func compile(s Stage) (uint32, error) {
	id := gl.CreateShader(s.Type)
	csource, free := gl.Strs(s.Source + "\x00")
	gl.ShaderSource(id, 1, csource, nil)
	free()
	gl.CompileShader(id)

	var status int32
	gl.GetShaderiv(id, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(id, gl.INFO_LOG_LENGTH, &logLen)
		log := infoLog(logLen, func(buf *uint8) { gl.GetShaderInfoLog(id, logLen, nil, buf) })
		gl.DeleteShader(id)
		return 0, fmt.Errorf("%s shader: %s", s.kind(), log)
	}
	return id, nil
}

func infoLog(n int32, read func(*uint8)) string {
	if n <= 0 {
		return "no info log"
	}
	buf := make([]byte, n)
	read(&buf[0])
	return string(buf)
}

// Uniform returns the location of a uniform, -1 when the linker dropped
// it. Lookups are cached per program.
func (p *Program) Uniform(name string) int32 {
	if loc, ok := p.locs[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.ID, gl.Str(name+"\x00"))
	p.locs[name] = loc
	return loc
}

// MustUniform is like Uniform but panics on a missing uniform.
func (p *Program) MustUniform(name string) int32 {
	loc := p.Uniform(name)
	if loc < 0 {
		panic(fmt.Sprintf("uniform %q not found in program %s", name, p.name))
	}
	return loc
}

// Use makes p the current program.
func (p *Program) Use() {
	gl.UseProgram(p.ID)
}

// Delete frees the program. Safe to call more than once.
func (p *Program) Delete() {
	if p.ID != 0 {
		gl.DeleteProgram(p.ID)
		p.ID = 0
	}
}
