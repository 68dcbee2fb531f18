package resource

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/aurorarender/protocol/render/rerr"
)

// Texture is a GPU 2D texture accumulating shape configuration before the
// backing wgpu.Texture and default view are created.
type Texture struct {
	lifecycle

	Width, Height uint32
	Format        wgpu.TextureFormat
	SampleCount   uint32

	raw  *wgpu.Texture
	view *wgpu.TextureView
}

// NewTexture allocates a Texture object in the Uninitialized state.
func NewTexture() *Texture {
	return &Texture{Format: wgpu.TextureFormatRGBA8Unorm, SampleCount: 1}
}

// Configure sets the texture's declared shape. It may be called repeatedly
// before Create.
func (t *Texture) Configure(width, height uint32, format wgpu.TextureFormat) error {
	if err := t.beginConfigure("Texture"); err != nil {
		return err
	}
	t.Width, t.Height = width, height
	t.Format = format
	return nil
}

// Create creates the backing wgpu.Texture and its default view. renderTarget
// additionally requests RenderAttachment usage for MSAA/depth targets that
// are never uploaded into directly.
func (t *Texture) Create(device *wgpu.Device, label string, renderTarget bool) error {
	if t.Width == 0 || t.Height == 0 {
		return rerr.New(rerr.ValidationFailed, "Texture: size must be set before create")
	}
	usage := wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst
	if renderTarget {
		usage |= wgpu.TextureUsageRenderAttachment
	}
	raw, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label: label,
		Size: wgpu.Extent3D{
			Width:              t.Width,
			Height:             t.Height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   t.SampleCount,
		Dimension:     wgpu.TextureDimension2D,
		Format:        t.Format,
		Usage:         usage,
	})
	if err != nil {
		return rerr.Wrap(rerr.OutOfMemory, 0, "create texture", err)
	}
	view, err := raw.CreateView(nil)
	if err != nil {
		return rerr.Wrap(rerr.OutOfMemory, 0, "create texture view", err)
	}
	t.raw, t.view = raw, view
	return t.markCreated("Texture")
}

// Upload copies RGBA pixel data into the full extent of the texture.
func (t *Texture) Upload(queue *wgpu.Queue, pixels []byte) error {
	if err := t.requireCreated("Texture"); err != nil {
		return err
	}
	bytesPerPixel := uint32(4)
	queue.WriteTexture(
		&wgpu.ImageCopyTexture{Texture: t.raw, MipLevel: 0, Origin: wgpu.Origin3D{}},
		pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  t.Width * bytesPerPixel,
			RowsPerImage: t.Height,
		},
		&wgpu.Extent3D{Width: t.Width, Height: t.Height, DepthOrArrayLayers: 1},
	)
	return nil
}

// Raw returns the underlying wgpu.Texture; nil until Create succeeds.
func (t *Texture) Raw() *wgpu.Texture { return t.raw }

// View returns the default full-extent view; nil until Create succeeds.
func (t *Texture) View() *wgpu.TextureView { return t.view }

func (t *Texture) Destroy() error {
	if err := t.markDestroyed("Texture"); err != nil {
		return err
	}
	if t.view != nil {
		t.view.Release()
	}
	if t.raw != nil {
		t.raw.Destroy()
		t.raw.Release()
	}
	return nil
}
