package gles

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/gles/gl"
)

// PixelFormat is the GL description of a texture or renderbuffer format.
type PixelFormat struct {
	// Internal is the sized internal format passed to storage calls.
	Internal gl.Enum

	// Format and Type describe client pixel data for uploads.
	Format gl.Enum
	Type   gl.Enum

	// BytesPerPixel is the size of one texel of client data.
	BytesPerPixel int

	// Attachment is the framebuffer attachment point the format renders to:
	// COLOR_ATTACHMENT0 for color formats, DEPTH or DEPTH_STENCIL otherwise.
	Attachment gl.Enum
}

// Renderable color formats are attached at ColorAttachment0 by default.
var pixelFormats = map[gputypes.TextureFormat]PixelFormat{
	gputypes.TextureFormatR8Unorm:         {gl.R8, gl.Red, gl.UnsignedByte, 1, gl.ColorAttachment0},
	gputypes.TextureFormatRG8Unorm:        {gl.RG8, gl.RG, gl.UnsignedByte, 2, gl.ColorAttachment0},
	gputypes.TextureFormatRGBA8Unorm:      {gl.RGBA8, gl.RGBA, gl.UnsignedByte, 4, gl.ColorAttachment0},
	gputypes.TextureFormatRGBA8UnormSrgb:  {gl.SRGB8Alpha8, gl.RGBA, gl.UnsignedByte, 4, gl.ColorAttachment0},
	gputypes.TextureFormatR32Float:        {gl.R32F, gl.Red, gl.Float, 4, gl.ColorAttachment0},
	gputypes.TextureFormatRGBA16Float:     {gl.RGBA16F, gl.RGBA, gl.HalfFloat, 8, gl.ColorAttachment0},
	gputypes.TextureFormatRGBA32Float:     {gl.RGBA32F, gl.RGBA, gl.Float, 16, gl.ColorAttachment0},
	gputypes.TextureFormatDepth16Unorm:    {gl.DepthComponent16, gl.DepthComponent, gl.UnsignedShort, 2, gl.DepthAttachment},
	gputypes.TextureFormatDepth24Plus:     {gl.DepthComponent24, gl.DepthComponent, gl.UnsignedInt, 4, gl.DepthAttachment},
	gputypes.TextureFormatDepth32Float:    {gl.DepthComponent32F, gl.DepthComponent, gl.Float, 4, gl.DepthAttachment},
	gputypes.TextureFormatDepth24PlusStencil8: {
		gl.Depth24Stencil8, gl.DepthStencil, gl.UnsignedInt248, 4, gl.DepthStencilAttachment,
	},
}

// LookupFormat returns the GL description of f. Formats OpenGL ES 3.0 cannot
// sample or render natively, such as BGRA8Unorm, are rejected.
func LookupFormat(f gputypes.TextureFormat) (PixelFormat, error) {
	pf, ok := pixelFormats[f]
	if !ok {
		return PixelFormat{}, fmt.Errorf("%w: texture format %v", ErrInvalidArgument, f)
	}
	return pf, nil
}

// filterEnum maps a filter mode to NEAREST or LINEAR.
func filterEnum(m gputypes.FilterMode) (gl.Enum, error) {
	switch m {
	case gputypes.FilterModeNearest:
		return gl.Nearest, nil
	case gputypes.FilterModeLinear:
		return gl.Linear, nil
	}
	return 0, fmt.Errorf("%w: filter mode %v", ErrInvalidArgument, m)
}

// minFilterEnum combines a minification and a mipmap filter into one
// TEXTURE_MIN_FILTER value.
func minFilterEnum(min, mip gputypes.FilterMode) (gl.Enum, error) {
	minE, err := filterEnum(min)
	if err != nil {
		return 0, err
	}
	mipE, err := filterEnum(mip)
	if err != nil {
		return 0, err
	}
	switch {
	case minE == gl.Nearest && mipE == gl.Nearest:
		return gl.NearestMipmapNearest, nil
	case minE == gl.Linear && mipE == gl.Nearest:
		return gl.LinearMipmapNearest, nil
	case minE == gl.Nearest && mipE == gl.Linear:
		return gl.NearestMipmapLinear, nil
	default:
		return gl.LinearMipmapLinear, nil
	}
}

// wrapEnum maps an address mode to a TEXTURE_WRAP_* value.
func wrapEnum(m gputypes.AddressMode) (gl.Enum, error) {
	switch m {
	case gputypes.AddressModeClampToEdge:
		return gl.ClampToEdge, nil
	case gputypes.AddressModeRepeat:
		return gl.Repeat, nil
	case gputypes.AddressModeMirrorRepeat:
		return gl.MirroredRepeat, nil
	}
	return 0, fmt.Errorf("%w: address mode %v", ErrInvalidArgument, m)
}

// bufferTargetFor picks the default target and usage hint for a buffer
// created for usage.
func bufferTargetFor(u gputypes.BufferUsage) (target, hint gl.Enum) {
	switch {
	case u&gputypes.BufferUsageIndex != 0:
		target = gl.ElementArrayBuffer
	case u&gputypes.BufferUsageUniform != 0:
		target = gl.UniformBuffer
	case u&gputypes.BufferUsageVertex != 0:
		target = gl.ArrayBuffer
	case u&gputypes.BufferUsageMapRead != 0:
		target = gl.PixelPackBuffer
	case u&gputypes.BufferUsageCopySrc != 0 && u&gputypes.BufferUsageCopyDst == 0:
		target = gl.CopyReadBuffer
	case u&gputypes.BufferUsageCopyDst != 0:
		target = gl.CopyWriteBuffer
	default:
		target = gl.ArrayBuffer
	}

	switch {
	case u&gputypes.BufferUsageMapRead != 0:
		hint = gl.StreamRead
	case u&gputypes.BufferUsageMapWrite != 0:
		hint = gl.DynamicDraw
	case u&(gputypes.BufferUsageVertex|gputypes.BufferUsageIndex|gputypes.BufferUsageUniform) == 0 &&
		u&(gputypes.BufferUsageCopySrc|gputypes.BufferUsageCopyDst) != 0:
		hint = gl.StaticCopy
	default:
		hint = gl.StaticDraw
	}
	return target, hint
}
