package resource

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/aurorarender/protocol/common"
	"github.com/aurorarender/protocol/render/rerr"
)

// Sampler is a GPU sampler accumulating filter/address-mode configuration
// before the backing wgpu.Sampler is created.
type Sampler struct {
	lifecycle

	staging common.SamplerStagingData
	raw     *wgpu.Sampler
}

// NewSampler allocates a Sampler object in the Uninitialized state, with
// the default linear/repeat configuration.
func NewSampler() *Sampler {
	return &Sampler{staging: common.SamplerStagingData{
		AddressModeU: wgpu.AddressModeRepeat,
		AddressModeV: wgpu.AddressModeRepeat,
		AddressModeW: wgpu.AddressModeRepeat,
		MagFilter:    wgpu.FilterModeLinear,
		MinFilter:    wgpu.FilterModeLinear,
		MipmapFilter: wgpu.MipmapFilterModeLinear,
		LodMaxClamp:  32,
	}}
}

// Configure overrides the default sampler staging data.
func (s *Sampler) Configure(staging common.SamplerStagingData) error {
	if err := s.beginConfigure("Sampler"); err != nil {
		return err
	}
	s.staging = common.SamplerStagingData{
		AddressModeU: common.Coalesce(staging.AddressModeU, s.staging.AddressModeU),
		AddressModeV: common.Coalesce(staging.AddressModeV, s.staging.AddressModeV),
		AddressModeW: common.Coalesce(staging.AddressModeW, s.staging.AddressModeW),
		MagFilter:    common.Coalesce(staging.MagFilter, s.staging.MagFilter),
		MinFilter:    common.Coalesce(staging.MinFilter, s.staging.MinFilter),
		MipmapFilter: common.Coalesce(staging.MipmapFilter, s.staging.MipmapFilter),
		LodMinClamp:  staging.LodMinClamp,
		LodMaxClamp:  common.Coalesce(staging.LodMaxClamp, s.staging.LodMaxClamp),
		Compare:      staging.Compare,
		MaxAnisotropy: common.Coalesce(staging.MaxAnisotropy, 1),
	}
	return nil
}

// Create creates the backing wgpu.Sampler from the configured staging data.
func (s *Sampler) Create(device *wgpu.Device, label string) error {
	raw, err := device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         label,
		AddressModeU:  s.staging.AddressModeU,
		AddressModeV:  s.staging.AddressModeV,
		AddressModeW:  s.staging.AddressModeW,
		MagFilter:     s.staging.MagFilter,
		MinFilter:     s.staging.MinFilter,
		MipmapFilter:  s.staging.MipmapFilter,
		LodMinClamp:   s.staging.LodMinClamp,
		LodMaxClamp:   s.staging.LodMaxClamp,
		Compare:       s.staging.Compare,
		MaxAnisotropy: common.Coalesce(s.staging.MaxAnisotropy, 1),
	})
	if err != nil {
		return rerr.Wrap(rerr.OutOfMemory, 0, "create sampler", err)
	}
	s.raw = raw
	return s.markCreated("Sampler")
}

// Raw returns the underlying wgpu.Sampler; nil until Create succeeds.
func (s *Sampler) Raw() *wgpu.Sampler { return s.raw }

func (s *Sampler) Destroy() error {
	if err := s.markDestroyed("Sampler"); err != nil {
		return err
	}
	if s.raw != nil {
		s.raw.Release()
	}
	return nil
}
