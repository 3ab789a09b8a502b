package gl

// Enum is a GL enumerant. Values match the OpenGL ES 3.0 / WebGL2 headers.
type Enum uint32

// Null and boolean values.
const (
	None  Enum = 0
	False Enum = 0
	True  Enum = 1
)

// Buffer binding targets.
const (
	ArrayBuffer             Enum = 0x8892
	ElementArrayBuffer      Enum = 0x8893
	CopyReadBuffer          Enum = 0x8F36
	CopyWriteBuffer         Enum = 0x8F37
	PixelPackBuffer         Enum = 0x88EB
	PixelUnpackBuffer       Enum = 0x88EC
	TransformFeedbackBuffer Enum = 0x8C8E
	UniformBuffer           Enum = 0x8A11
)

// Buffer binding queries.
const (
	ArrayBufferBinding             Enum = 0x8894
	ElementArrayBufferBinding      Enum = 0x8895
	CopyReadBufferBinding          Enum = 0x8F36
	CopyWriteBufferBinding         Enum = 0x8F37
	PixelPackBufferBinding         Enum = 0x88ED
	PixelUnpackBufferBinding       Enum = 0x88EF
	TransformFeedbackBufferBinding Enum = 0x8C8F
	UniformBufferBinding           Enum = 0x8A28
)

// Buffer usage hints.
const (
	StreamDraw  Enum = 0x88E0
	StreamRead  Enum = 0x88E1
	StreamCopy  Enum = 0x88E2
	StaticDraw  Enum = 0x88E4
	StaticRead  Enum = 0x88E5
	StaticCopy  Enum = 0x88E6
	DynamicDraw Enum = 0x88E8
	DynamicRead Enum = 0x88E9
	DynamicCopy Enum = 0x88EA
)

// Texture targets and cube map faces.
const (
	Texture2D               Enum = 0x0DE1
	Texture3D               Enum = 0x806F
	Texture2DArray          Enum = 0x8C1A
	TextureCubeMap          Enum = 0x8513
	TextureCubeMapPositiveX Enum = 0x8515
	TextureCubeMapNegativeX Enum = 0x8516
	TextureCubeMapPositiveY Enum = 0x8517
	TextureCubeMapNegativeY Enum = 0x8518
	TextureCubeMapPositiveZ Enum = 0x8519
	TextureCubeMapNegativeZ Enum = 0x851A
)

// Texture binding queries and units.
const (
	TextureBinding2D             Enum = 0x8069
	TextureBinding3D             Enum = 0x806A
	TextureBinding2DArray        Enum = 0x8C1D
	TextureBindingCubeMap        Enum = 0x8514
	ActiveTexture                Enum = 0x84E0
	Texture0                     Enum = 0x84C0
	MaxCombinedTextureImageUnits Enum = 0x8B4D
)

// Texture parameters and values.
const (
	TextureMagFilter Enum = 0x2800
	TextureMinFilter Enum = 0x2801
	TextureWrapS     Enum = 0x2802
	TextureWrapT     Enum = 0x2803
	TextureWrapR     Enum = 0x8072
	TextureBaseLevel Enum = 0x813C
	TextureMaxLevel  Enum = 0x813D

	Nearest              Enum = 0x2600
	Linear               Enum = 0x2601
	NearestMipmapNearest Enum = 0x2700
	LinearMipmapNearest  Enum = 0x2701
	NearestMipmapLinear  Enum = 0x2702
	LinearMipmapLinear   Enum = 0x2703

	Repeat         Enum = 0x2901
	ClampToEdge    Enum = 0x812F
	MirroredRepeat Enum = 0x8370

	UnpackAlignment Enum = 0x0CF5
)

// Pixel formats.
const (
	DepthComponent Enum = 0x1902
	Red            Enum = 0x1903
	RGB            Enum = 0x1907
	RGBA           Enum = 0x1908
	RG             Enum = 0x8227
	DepthStencil   Enum = 0x84F9
)

// Sized internal formats.
const (
	R8                Enum = 0x8229
	RG8               Enum = 0x822B
	RGBA8             Enum = 0x8058
	SRGB8Alpha8       Enum = 0x8C43
	R32F              Enum = 0x822E
	RGBA16F           Enum = 0x881A
	RGBA32F           Enum = 0x8814
	DepthComponent16  Enum = 0x81A5
	DepthComponent24  Enum = 0x81A6
	DepthComponent32F Enum = 0x8CAC
	Depth24Stencil8   Enum = 0x88F0
)

// Pixel and attribute data types.
const (
	Byte           Enum = 0x1400
	UnsignedByte   Enum = 0x1401
	Short          Enum = 0x1402
	UnsignedShort  Enum = 0x1403
	Int            Enum = 0x1404
	UnsignedInt    Enum = 0x1405
	Float          Enum = 0x1406
	HalfFloat      Enum = 0x140B
	UnsignedInt248 Enum = 0x84FA
)

// Framebuffer targets, binding queries and attachment points.
const (
	Framebuffer            Enum = 0x8D40
	ReadFramebuffer        Enum = 0x8CA8
	DrawFramebuffer        Enum = 0x8CA9
	FramebufferBinding     Enum = 0x8CA6
	DrawFramebufferBinding Enum = 0x8CA6
	ReadFramebufferBinding Enum = 0x8CAA

	ColorAttachment0       Enum = 0x8CE0
	ColorAttachment15      Enum = 0x8CEF
	DepthAttachment        Enum = 0x8D00
	StencilAttachment      Enum = 0x8D20
	DepthStencilAttachment Enum = 0x821A
	Back                   Enum = 0x0405

	MaxColorAttachments Enum = 0x8CDF
	MaxDrawBuffers      Enum = 0x8824
)

// Framebuffer completeness status values.
const (
	FramebufferComplete                    Enum = 0x8CD5
	FramebufferIncompleteAttachment        Enum = 0x8CD6
	FramebufferIncompleteMissingAttachment Enum = 0x8CD7
	FramebufferIncompleteDimensions        Enum = 0x8CD9
	FramebufferUnsupported                 Enum = 0x8CDD
	FramebufferIncompleteMultisample       Enum = 0x8D56
)

// Clear and blit masks.
const (
	DepthBufferBit   Enum = 0x00000100
	StencilBufferBit Enum = 0x00000400
	ColorBufferBit   Enum = 0x00004000
)

// Renderbuffers.
const (
	Renderbuffer        Enum = 0x8D41
	RenderbufferBinding Enum = 0x8CA7
	MaxSamples          Enum = 0x8D57
)

// Shaders and programs.
const (
	FragmentShader Enum = 0x8B30
	VertexShader   Enum = 0x8B31
	CompileStatus  Enum = 0x8B81
	LinkStatus     Enum = 0x8B82
	ValidateStatus Enum = 0x8B83
	CurrentProgram Enum = 0x8B8D
)

// Vertex arrays.
const (
	VertexArrayBinding Enum = 0x85B5
	MaxVertexAttribs   Enum = 0x8869
)

// Sync objects.
const (
	SyncGPUCommandsComplete Enum = 0x9117
	AlreadySignaled         Enum = 0x911A
	TimeoutExpired          Enum = 0x911B
	ConditionSatisfied      Enum = 0x911C
	WaitFailed              Enum = 0x911D
	SyncFlushCommandsBit    Enum = 0x00000001
)

// Error codes returned by GetError.
const (
	NoError                     Enum = 0
	InvalidEnum                 Enum = 0x0500
	InvalidValue                Enum = 0x0501
	InvalidOperation            Enum = 0x0502
	OutOfMemory                 Enum = 0x0505
	InvalidFramebufferOperation Enum = 0x0506
	ContextLostWebGL            Enum = 0x9242
)

// GetString names.
const (
	Vendor   Enum = 0x1F00
	Renderer Enum = 0x1F01
	Version  Enum = 0x1F02
)

// ColorAttachment returns the i-th color attachment point.
func ColorAttachment(i int) Enum {
	return ColorAttachment0 + Enum(i)
}

// IsColorAttachment reports whether e is COLOR_ATTACHMENT0..15.
func IsColorAttachment(e Enum) bool {
	return e >= ColorAttachment0 && e <= ColorAttachment15
}

// CubeFace returns the cube map face target for face index 0..5
// (+X, -X, +Y, -Y, +Z, -Z).
func CubeFace(face int) Enum {
	return TextureCubeMapPositiveX + Enum(face)
}

// BufferBinding returns the GetBinding query reporting what is bound to a
// buffer target, or 0 if target is not a buffer target.
func BufferBinding(target Enum) Enum {
	switch target {
	case ArrayBuffer:
		return ArrayBufferBinding
	case ElementArrayBuffer:
		return ElementArrayBufferBinding
	case CopyReadBuffer:
		return CopyReadBufferBinding
	case CopyWriteBuffer:
		return CopyWriteBufferBinding
	case PixelPackBuffer:
		return PixelPackBufferBinding
	case PixelUnpackBuffer:
		return PixelUnpackBufferBinding
	case TransformFeedbackBuffer:
		return TransformFeedbackBufferBinding
	case UniformBuffer:
		return UniformBufferBinding
	}
	return 0
}

// TextureBinding returns the GetBinding query for a texture target. Cube map
// faces report the cube map binding. It returns 0 for unknown targets.
func TextureBinding(target Enum) Enum {
	switch {
	case target == Texture2D:
		return TextureBinding2D
	case target == Texture3D:
		return TextureBinding3D
	case target == Texture2DArray:
		return TextureBinding2DArray
	case target == TextureCubeMap, IsCubeFace(target):
		return TextureBindingCubeMap
	}
	return 0
}

// IsCubeFace reports whether target is one of the six cube map faces.
func IsCubeFace(target Enum) bool {
	return target >= TextureCubeMapPositiveX && target <= TextureCubeMapNegativeZ
}
