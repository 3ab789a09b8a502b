package gl

import (
	"fmt"
	"strings"
)

// names covers the enumerants that show up in logs and scenario files.
// Aliased values (e.g. FRAMEBUFFER_BINDING, COPY_READ_BUFFER_BINDING) resolve
// to the first name listed.
var names = map[Enum]string{
	ArrayBuffer:             "ARRAY_BUFFER",
	ElementArrayBuffer:      "ELEMENT_ARRAY_BUFFER",
	CopyReadBuffer:          "COPY_READ_BUFFER",
	CopyWriteBuffer:         "COPY_WRITE_BUFFER",
	PixelPackBuffer:         "PIXEL_PACK_BUFFER",
	PixelUnpackBuffer:       "PIXEL_UNPACK_BUFFER",
	TransformFeedbackBuffer: "TRANSFORM_FEEDBACK_BUFFER",
	UniformBuffer:           "UNIFORM_BUFFER",

	ArrayBufferBinding:             "ARRAY_BUFFER_BINDING",
	ElementArrayBufferBinding:      "ELEMENT_ARRAY_BUFFER_BINDING",
	PixelPackBufferBinding:         "PIXEL_PACK_BUFFER_BINDING",
	PixelUnpackBufferBinding:       "PIXEL_UNPACK_BUFFER_BINDING",
	TransformFeedbackBufferBinding: "TRANSFORM_FEEDBACK_BUFFER_BINDING",
	UniformBufferBinding:           "UNIFORM_BUFFER_BINDING",

	StreamDraw:  "STREAM_DRAW",
	StreamRead:  "STREAM_READ",
	StreamCopy:  "STREAM_COPY",
	StaticDraw:  "STATIC_DRAW",
	StaticRead:  "STATIC_READ",
	StaticCopy:  "STATIC_COPY",
	DynamicDraw: "DYNAMIC_DRAW",
	DynamicRead: "DYNAMIC_READ",
	DynamicCopy: "DYNAMIC_COPY",

	Texture2D:             "TEXTURE_2D",
	Texture3D:             "TEXTURE_3D",
	Texture2DArray:        "TEXTURE_2D_ARRAY",
	TextureCubeMap:        "TEXTURE_CUBE_MAP",
	TextureBinding2D:      "TEXTURE_BINDING_2D",
	TextureBinding3D:      "TEXTURE_BINDING_3D",
	TextureBinding2DArray: "TEXTURE_BINDING_2D_ARRAY",
	TextureBindingCubeMap: "TEXTURE_BINDING_CUBE_MAP",
	ActiveTexture:         "ACTIVE_TEXTURE",

	Framebuffer:            "FRAMEBUFFER",
	ReadFramebuffer:        "READ_FRAMEBUFFER",
	DrawFramebuffer:        "DRAW_FRAMEBUFFER",
	FramebufferBinding:     "FRAMEBUFFER_BINDING",
	ReadFramebufferBinding: "READ_FRAMEBUFFER_BINDING",
	DepthAttachment:        "DEPTH_ATTACHMENT",
	StencilAttachment:      "STENCIL_ATTACHMENT",
	DepthStencilAttachment: "DEPTH_STENCIL_ATTACHMENT",

	FramebufferComplete:                    "FRAMEBUFFER_COMPLETE",
	FramebufferIncompleteAttachment:        "FRAMEBUFFER_INCOMPLETE_ATTACHMENT",
	FramebufferIncompleteMissingAttachment: "FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT",
	FramebufferIncompleteDimensions:        "FRAMEBUFFER_INCOMPLETE_DIMENSIONS",
	FramebufferUnsupported:                 "FRAMEBUFFER_UNSUPPORTED",
	FramebufferIncompleteMultisample:       "FRAMEBUFFER_INCOMPLETE_MULTISAMPLE",

	Renderbuffer:        "RENDERBUFFER",
	RenderbufferBinding: "RENDERBUFFER_BINDING",
	CurrentProgram:      "CURRENT_PROGRAM",
	VertexArrayBinding:  "VERTEX_ARRAY_BINDING",
	MaxVertexAttribs:    "MAX_VERTEX_ATTRIBS",
	VertexShader:        "VERTEX_SHADER",
	FragmentShader:      "FRAGMENT_SHADER",

	InvalidEnum:                 "INVALID_ENUM",
	InvalidValue:                "INVALID_VALUE",
	InvalidOperation:            "INVALID_OPERATION",
	OutOfMemory:                 "OUT_OF_MEMORY",
	InvalidFramebufferOperation: "INVALID_FRAMEBUFFER_OPERATION",
	ContextLostWebGL:            "CONTEXT_LOST_WEBGL",
}

var byName map[string]Enum

func init() {
	byName = make(map[string]Enum, len(names)+16)
	for e, n := range names {
		byName[n] = e
	}
	for i := 0; i < 16; i++ {
		byName[fmt.Sprintf("COLOR_ATTACHMENT%d", i)] = ColorAttachment(i)
	}
}

// String returns the GL name of e, or its hex value when unknown.
func (e Enum) String() string {
	if IsColorAttachment(e) {
		return fmt.Sprintf("COLOR_ATTACHMENT%d", e-ColorAttachment0)
	}
	if n, ok := names[e]; ok {
		return n
	}
	return fmt.Sprintf("0x%04X", uint32(e))
}

// ParseEnum resolves a GL name such as "ARRAY_BUFFER" or "gl.ARRAY_BUFFER".
func ParseEnum(s string) (Enum, error) {
	s = strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "GL.")
	s = strings.TrimPrefix(s, "GL_")
	if e, ok := byName[s]; ok {
		return e, nil
	}
	return 0, fmt.Errorf("gl: unknown enum %q", s)
}
