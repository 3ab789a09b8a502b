package gles

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/gles/gl"
)

// SetImage uploads img as level of a 2D RGBA8 texture. Images that are not
// *image.RGBA with a zero origin are converted first.
func (t *Texture) SetImage(level int, img image.Image) error {
	if err := t.checkRGBA(); err != nil {
		return err
	}
	rgba := toRGBA(img)
	b := rgba.Bounds()
	return t.SetMip(level, b.Dx(), b.Dy(), rgba.Pix)
}

// SetMipmapImages uploads img as level 0 and a CPU-filtered mip chain down
// to 1x1. Use it where GenerateMipmap is not available for the format, or
// where a filter better than the driver box filter is wanted.
func (t *Texture) SetMipmapImages(img image.Image) error {
	if err := t.checkRGBA(); err != nil {
		return err
	}
	level := toRGBA(img)
	for l := 0; ; l++ {
		b := level.Bounds()
		if err := t.SetMip(l, b.Dx(), b.Dy(), level.Pix); err != nil {
			return fmt.Errorf("mip level %d: %w", l, err)
		}
		if b.Dx() <= 1 && b.Dy() <= 1 {
			return nil
		}
		next := image.NewRGBA(image.Rect(0, 0, max(1, b.Dx()/2), max(1, b.Dy()/2)))
		xdraw.BiLinear.Scale(next, next.Bounds(), level, b, xdraw.Src, nil)
		level = next
	}
}

func (t *Texture) checkRGBA() error {
	if t.target != gl.Texture2D {
		return fmt.Errorf("%w: image upload on %s", ErrInvalidArgument, t.target)
	}
	switch t.format {
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatRGBA8UnormSrgb:
		return nil
	}
	return fmt.Errorf("%w: image upload to %v texture", ErrInvalidArgument, t.format)
}

// toRGBA returns img as a tightly packed *image.RGBA with origin (0, 0).
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) && rgba.Stride == 4*rgba.Rect.Dx() {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Src)
	return dst
}
