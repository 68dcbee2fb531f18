package resource

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/aurorarender/protocol/render/rerr"
)

// ShaderStage identifies the entry point a shader module provides, mirroring
// the stage a pipeline binds it to.
type ShaderStage int

const (
	ShaderStageVertex ShaderStage = iota
	ShaderStageFragment
	ShaderStageCompute
)

// Shader is a WGSL shader module accumulating source configuration before
// compilation. Unlike the reflection-driven shaders this is descended from,
// bind group layouts are never inferred from the source: pipelines declare
// their slots explicitly through SetSlot requests.
type Shader struct {
	lifecycle

	Stage      ShaderStage
	Source     string
	EntryPoint string

	raw *wgpu.ShaderModule
}

// NewShader allocates a Shader object in the Uninitialized state.
func NewShader(stage ShaderStage) *Shader {
	return &Shader{Stage: stage, EntryPoint: "main"}
}

// Configure sets the shader's WGSL source and entry point name.
func (s *Shader) Configure(source, entryPoint string) error {
	if err := s.beginConfigure("Shader"); err != nil {
		return err
	}
	if source == "" {
		return rerr.New(rerr.ValidationFailed, "Shader: source must not be empty")
	}
	s.Source = source
	if entryPoint != "" {
		s.EntryPoint = entryPoint
	}
	return nil
}

// Create compiles the WGSL source into a wgpu.ShaderModule. A compile
// failure is reported as rerr.ShaderCompile, not a generic GPU error, so
// callers can surface shader diagnostics distinctly.
func (s *Shader) Create(device *wgpu.Device, label string) error {
	if s.Source == "" {
		return rerr.New(rerr.ValidationFailed, "Shader: source must be set before create")
	}
	raw, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: s.Source},
	})
	if err != nil {
		return rerr.Wrap(rerr.ShaderCompile, 0, "compile shader", err)
	}
	s.raw = raw
	return s.markCreated("Shader")
}

// Raw returns the underlying wgpu.ShaderModule; nil until Create succeeds.
func (s *Shader) Raw() *wgpu.ShaderModule { return s.raw }

func (s *Shader) Destroy() error {
	if err := s.markDestroyed("Shader"); err != nil {
		return err
	}
	if s.raw != nil {
		s.raw.Release()
	}
	return nil
}
