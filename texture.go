package gles

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/gles/gl"
)

// Texture is a native texture object bound to one texture unit.
//
// Level sizes and sampler parameters are mirrored on the Go side so reads
// need no native query and redundant parameter calls are skipped.
type Texture struct {
	object
	format    gputypes.TextureFormat
	pixel     PixelFormat
	levels    map[levelKey]gputypes.Extent3D
	params    map[gl.Enum]int
	immutable bool
}

// levelKey names one image of a texture. face is 0 for non-cube textures
// and 1..6 for cube faces.
type levelKey struct {
	face  int
	level int
}

func isTextureTarget(t gl.Enum) bool {
	switch t {
	case gl.Texture2D, gl.Texture3D, gl.Texture2DArray, gl.TextureCubeMap:
		return true
	}
	return false
}

// NewTexture creates a texture of the given target and format, bound on
// texture unit 0 until SetUnit changes it.
func NewTexture(c *Context, target gl.Enum, format gputypes.TextureFormat) (*Texture, error) {
	if !isTextureTarget(target) {
		return nil, fmt.Errorf("%w: texture target %s", ErrInvalidArgument, target)
	}
	pf, err := LookupFormat(format)
	if err != nil {
		return nil, err
	}
	c.lock()
	defer c.unlock()
	h, err := c.create(kindTexture)
	if err != nil {
		return nil, err
	}
	return &Texture{
		object: object{ctx: c, kind: kindTexture, handle: h, target: target},
		format: format,
		pixel:  pf,
		levels: make(map[levelKey]gputypes.Extent3D),
		params: make(map[gl.Enum]int),
	}, nil
}

// Format returns the texture format.
func (t *Texture) Format() gputypes.TextureFormat { return t.format }

// PixelFormat returns the GL description of the texture format.
func (t *Texture) PixelFormat() PixelFormat { return t.pixel }

// Unit returns the texture unit the texture binds on.
func (t *Texture) Unit() int {
	t.ctx.lock()
	defer t.ctx.unlock()
	return t.index
}

// Immutable reports whether Storage allocated the texture.
func (t *Texture) Immutable() bool {
	t.ctx.lock()
	defer t.ctx.unlock()
	return t.immutable
}

// Size returns the size of a mip level. For cube maps it is the size of the
// first face uploaded at that level.
func (t *Texture) Size(level int) (gputypes.Extent3D, bool) {
	t.ctx.lock()
	defer t.ctx.unlock()
	if e, ok := t.levels[levelKey{level: level}]; ok {
		return e, true
	}
	for face := 1; face <= 6; face++ {
		if e, ok := t.levels[levelKey{face: face, level: level}]; ok {
			return e, true
		}
	}
	return gputypes.Extent3D{}, false
}

// Levels returns the number of consecutive mip levels defined from level 0.
func (t *Texture) Levels() int {
	n := 0
	for {
		if _, ok := t.Size(n); !ok {
			return n
		}
		n++
	}
}

// SetUnit moves the texture to texture unit unit. If the texture is bound on
// its old unit it is unbound there first.
func (t *Texture) SetUnit(unit int) error {
	c := t.ctx
	c.lock()
	defer c.unlock()
	if err := t.usable(); err != nil {
		return err
	}
	if unit < 0 || unit >= c.maxTextureUnits() {
		return fmt.Errorf("%w: texture unit %d", ErrInvalidArgument, unit)
	}
	if unit == t.index {
		return nil
	}
	c.unbind(kindTexture, t.slot(), t.handle)
	t.index = unit
	return nil
}

// bindLocked binds the texture and makes its unit active, so that following
// texture calls reach it even when the bind itself was skipped.
func (t *Texture) bindLocked() error {
	if err := t.object.bindLocked(); err != nil {
		return err
	}
	t.ctx.activate(t.index)
	return nil
}

// BindTo moves the texture to unit and binds it there.
func (t *Texture) BindTo(unit int) error {
	if err := t.SetUnit(unit); err != nil {
		return err
	}
	return t.Bind()
}

// SetMip uploads level of a 2D texture. A nil data allocates the level
// without initializing it.
func (t *Texture) SetMip(level, width, height int, data []byte) error {
	if t.target != gl.Texture2D {
		return fmt.Errorf("%w: SetMip on %s", ErrInvalidArgument, t.target)
	}
	return t.upload2D(gl.Texture2D, 0, level, width, height, data)
}

// SetFaceMip uploads level of cube face face (0..5: +X, -X, +Y, -Y, +Z, -Z).
func (t *Texture) SetFaceMip(face, level, size int, data []byte) error {
	if t.target != gl.TextureCubeMap {
		return fmt.Errorf("%w: SetFaceMip on %s", ErrInvalidArgument, t.target)
	}
	if face < 0 || face > 5 {
		return fmt.Errorf("%w: cube face %d", ErrInvalidArgument, face)
	}
	return t.upload2D(gl.CubeFace(face), face+1, level, size, size, data)
}

func (t *Texture) upload2D(target gl.Enum, face, level, width, height int, data []byte) error {
	if err := t.checkUpload(level, width, height, 1, data); err != nil {
		return err
	}
	c := t.ctx
	c.lock()
	defer c.unlock()
	if err := t.checkMutable(); err != nil {
		return err
	}
	if err := t.bindLocked(); err != nil {
		return err
	}
	c.unpackAlignment(width * t.pixel.BytesPerPixel)
	c.api.TexImage2D(target, level, t.pixel.Internal, width, height, t.pixel.Format, t.pixel.Type, data)
	if err := c.checkError("TexImage2D"); err != nil {
		return err
	}
	t.levels[levelKey{face: face, level: level}] = extent(width, height, 1)
	return nil
}

// SetMip3D uploads level of a 3D texture or 2D array; depth is the number of
// slices or layers.
func (t *Texture) SetMip3D(level, width, height, depth int, data []byte) error {
	if t.target != gl.Texture3D && t.target != gl.Texture2DArray {
		return fmt.Errorf("%w: SetMip3D on %s", ErrInvalidArgument, t.target)
	}
	if err := t.checkUpload(level, width, height, depth, data); err != nil {
		return err
	}
	c := t.ctx
	c.lock()
	defer c.unlock()
	if err := t.checkMutable(); err != nil {
		return err
	}
	if err := t.bindLocked(); err != nil {
		return err
	}
	c.unpackAlignment(width * t.pixel.BytesPerPixel)
	c.api.TexImage3D(t.target, level, t.pixel.Internal, width, height, depth, t.pixel.Format, t.pixel.Type, data)
	if err := c.checkError("TexImage3D"); err != nil {
		return err
	}
	t.levels[levelKey{level: level}] = extent(width, height, depth)
	return nil
}

// SetSubImage replaces a region of level of a 2D texture. The region must
// fit inside the level.
func (t *Texture) SetSubImage(level, x, y, width, height int, data []byte) error {
	if t.target != gl.Texture2D {
		return fmt.Errorf("%w: SetSubImage on %s", ErrInvalidArgument, t.target)
	}
	if width < 0 || height < 0 {
		return fmt.Errorf("%w: region %dx%d", ErrInvalidArgument, width, height)
	}
	need, ok := byteSize(t.pixel.BytesPerPixel, width, height)
	if !ok {
		return fmt.Errorf("%w: region %dx%d is too large", ErrRange, width, height)
	}
	if len(data) < need {
		return fmt.Errorf("%w: %d bytes of data for a %dx%d region (%d bytes)", ErrRange, len(data), width, height, need)
	}
	c := t.ctx
	c.lock()
	defer c.unlock()
	if err := t.usable(); err != nil {
		return err
	}
	if err := t.checkRegion(levelKey{level: level}, x, y, width, height); err != nil {
		return err
	}
	if err := t.bindLocked(); err != nil {
		return err
	}
	c.unpackAlignment(width * t.pixel.BytesPerPixel)
	c.api.TexSubImage2D(gl.Texture2D, level, x, y, width, height, t.pixel.Format, t.pixel.Type, data)
	return c.checkError("TexSubImage2D")
}

// Storage allocates levels immutable mip levels of a 2D texture or cube map,
// starting at width x height. Individual levels can no longer be
// re-specified afterwards, only updated with SetSubImage.
func (t *Texture) Storage(levels, width, height int) error {
	if t.target != gl.Texture2D && t.target != gl.TextureCubeMap {
		return fmt.Errorf("%w: Storage on %s", ErrInvalidArgument, t.target)
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: storage size %dx%d", ErrInvalidArgument, width, height)
	}
	if levels < 1 || levels > mipLevels(width, height) {
		return fmt.Errorf("%w: %d levels for %dx%d", ErrInvalidArgument, levels, width, height)
	}
	c := t.ctx
	c.lock()
	defer c.unlock()
	if err := t.checkMutable(); err != nil {
		return err
	}
	if err := t.bindLocked(); err != nil {
		return err
	}
	c.api.TexStorage2D(t.target, levels, t.pixel.Internal, width, height)
	if err := c.checkError("TexStorage2D"); err != nil {
		return err
	}
	t.immutable = true
	w, h := width, height
	for l := 0; l < levels; l++ {
		if t.target == gl.TextureCubeMap {
			for face := 1; face <= 6; face++ {
				t.levels[levelKey{face: face, level: l}] = extent(w, h, 1)
			}
		} else {
			t.levels[levelKey{level: l}] = extent(w, h, 1)
		}
		w, h = max(1, w/2), max(1, h/2)
	}
	return nil
}

// GenerateMipmap builds the mip chain from level 0 on the GPU.
func (t *Texture) GenerateMipmap() error {
	c := t.ctx
	c.lock()
	defer c.unlock()
	if err := t.usable(); err != nil {
		return err
	}
	faces := []int{0}
	if t.target == gl.TextureCubeMap {
		faces = []int{1, 2, 3, 4, 5, 6}
	}
	base, ok := t.levels[levelKey{face: faces[0], level: 0}]
	if !ok {
		return fmt.Errorf("%w: GenerateMipmap without level 0", ErrInvalidArgument)
	}
	if err := t.bindLocked(); err != nil {
		return err
	}
	c.api.GenerateMipmap(t.target)
	if err := c.checkError("GenerateMipmap"); err != nil {
		return err
	}
	w, h, d := int(base.Width), int(base.Height), int(base.DepthOrArrayLayers)
	for l := 1; w > 1 || h > 1 || (t.target == gl.Texture3D && d > 1); l++ {
		w, h = max(1, w/2), max(1, h/2)
		if t.target == gl.Texture3D {
			d = max(1, d/2)
		}
		for _, face := range faces {
			t.levels[levelKey{face: face, level: l}] = extent(w, h, d)
		}
	}
	return nil
}

// SetFilter sets the minification and magnification filters for a texture
// sampled without mipmaps.
func (t *Texture) SetFilter(min, mag gputypes.FilterMode) error {
	minE, err := filterEnum(min)
	if err != nil {
		return err
	}
	magE, err := filterEnum(mag)
	if err != nil {
		return err
	}
	return t.setParams(texParam{gl.TextureMinFilter, int(minE)}, texParam{gl.TextureMagFilter, int(magE)})
}

// SetMipmapFilter sets the filters for a mipmapped texture; mip selects
// between and within mip levels.
func (t *Texture) SetMipmapFilter(min, mag, mip gputypes.FilterMode) error {
	minE, err := minFilterEnum(min, mip)
	if err != nil {
		return err
	}
	magE, err := filterEnum(mag)
	if err != nil {
		return err
	}
	return t.setParams(texParam{gl.TextureMinFilter, int(minE)}, texParam{gl.TextureMagFilter, int(magE)})
}

// SetWrap sets the S and T address modes.
func (t *Texture) SetWrap(s, tt gputypes.AddressMode) error {
	sE, err := wrapEnum(s)
	if err != nil {
		return err
	}
	tE, err := wrapEnum(tt)
	if err != nil {
		return err
	}
	return t.setParams(texParam{gl.TextureWrapS, int(sE)}, texParam{gl.TextureWrapT, int(tE)})
}

// SetWrapR sets the R address mode of a 3D texture or 2D array.
func (t *Texture) SetWrapR(r gputypes.AddressMode) error {
	rE, err := wrapEnum(r)
	if err != nil {
		return err
	}
	return t.setParams(texParam{gl.TextureWrapR, int(rE)})
}

// SetLevelRange limits sampling to levels base..maxLevel.
func (t *Texture) SetLevelRange(base, maxLevel int) error {
	if base < 0 || maxLevel < base {
		return fmt.Errorf("%w: level range %d..%d", ErrInvalidArgument, base, maxLevel)
	}
	return t.setParams(texParam{gl.TextureBaseLevel, base}, texParam{gl.TextureMaxLevel, maxLevel})
}

// Param returns a parameter value set through this Texture.
func (t *Texture) Param(pname gl.Enum) (int, bool) {
	t.ctx.lock()
	defer t.ctx.unlock()
	v, ok := t.params[pname]
	return v, ok
}

type texParam struct {
	pname gl.Enum
	value int
}

// setParams applies params in order, skipping values already set.
func (t *Texture) setParams(params ...texParam) error {
	c := t.ctx
	c.lock()
	defer c.unlock()
	if err := t.usable(); err != nil {
		return err
	}
	for _, p := range params {
		if cur, ok := t.params[p.pname]; ok && cur == p.value {
			continue
		}
		if err := t.bindLocked(); err != nil {
			return err
		}
		c.api.TexParameteri(t.target, p.pname, p.value)
		if err := c.checkError("TexParameteri"); err != nil {
			return err
		}
		t.params[p.pname] = p.value
	}
	return nil
}

// CopyFromFramebuffer copies a width x height region at (srcX, srcY) of fb's
// read buffer into level of this 2D texture at (dstX, dstY). The read
// framebuffer binding is restored afterwards.
func (t *Texture) CopyFromFramebuffer(fb *Framebuffer, level, dstX, dstY, srcX, srcY, width, height int) error {
	if t.target != gl.Texture2D {
		return fmt.Errorf("%w: CopyFromFramebuffer on %s", ErrInvalidArgument, t.target)
	}
	if width < 0 || height < 0 {
		return fmt.Errorf("%w: region %dx%d", ErrInvalidArgument, width, height)
	}
	c := t.ctx
	c.lock()
	defer c.unlock()
	if err := t.usable(); err != nil {
		return err
	}
	if err := t.sameContext(&fb.object); err != nil {
		return err
	}
	if w, h, ok := fb.sizeLocked(); ok {
		if srcX < 0 || srcY < 0 || srcX+width > w || srcY+height > h {
			return fmt.Errorf("%w: source region (%d,%d) %dx%d outside %dx%d framebuffer",
				ErrRange, srcX, srcY, width, height, w, h)
		}
	}
	if err := t.checkRegion(levelKey{level: level}, dstX, dstY, width, height); err != nil {
		return err
	}
	return c.withSlot(kindFramebuffer, slot{target: gl.ReadFramebuffer}, fb.handle, func() error {
		if err := t.bindLocked(); err != nil {
			return err
		}
		c.api.CopyTexSubImage2D(gl.Texture2D, level, dstX, dstY, srcX, srcY, width, height)
		return c.checkError("CopyTexSubImage2D")
	})
}

func (t *Texture) checkUpload(level, width, height, depth int, data []byte) error {
	if level < 0 || width < 0 || height < 0 || depth < 1 {
		return fmt.Errorf("%w: level %d size %dx%dx%d", ErrInvalidArgument, level, width, height, depth)
	}
	need, ok := byteSize(t.pixel.BytesPerPixel, width, height, depth)
	if !ok {
		return fmt.Errorf("%w: size %dx%dx%d is too large", ErrRange, width, height, depth)
	}
	if data != nil && len(data) < need {
		return fmt.Errorf("%w: %d bytes of data for %dx%dx%d (%d bytes)", ErrRange, len(data), width, height, depth, need)
	}
	return nil
}

// byteSize returns bpp times every dimension in dims, or false if the
// product does not fit an int. The dimensions are non-negative.
func byteSize(bpp int, dims ...int) (int, bool) {
	n := uint64(bpp)
	for _, d := range dims {
		hi, lo := bits.Mul64(n, uint64(d))
		if hi != 0 || lo > math.MaxInt {
			return 0, false
		}
		n = lo
	}
	return int(n), true
}

func (t *Texture) checkMutable() error {
	if err := t.usable(); err != nil {
		return err
	}
	if t.immutable {
		return fmt.Errorf("%w: texture storage is immutable", ErrInvalidArgument)
	}
	return nil
}

// checkRegion reports ErrRange unless the region fits the level.
func (t *Texture) checkRegion(k levelKey, x, y, width, height int) error {
	e, ok := t.levels[k]
	if !ok {
		return fmt.Errorf("%w: level %d not allocated", ErrRange, k.level)
	}
	w, h := int(e.Width), int(e.Height)
	if x < 0 || y < 0 || x+width > w || y+height > h {
		return fmt.Errorf("%w: region (%d,%d) %dx%d outside %dx%d level %d",
			ErrRange, x, y, width, height, w, h, k.level)
	}
	return nil
}

// unpackAlignment sets UNPACK_ALIGNMENT so rows of rowBytes bytes upload
// tightly packed. The value is cached on the Context.
func (c *Context) unpackAlignment(rowBytes int) {
	a := 4
	if rowBytes%4 != 0 {
		a = 1
	}
	if c.unpack == a {
		return
	}
	c.api.PixelStorei(gl.UnpackAlignment, a)
	c.unpack = a
}

func extent(w, h, d int) gputypes.Extent3D {
	return gputypes.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: uint32(d)}
}

// mipLevels returns the length of a full mip chain for a w x h image.
func mipLevels(w, h int) int {
	n := 1
	for w > 1 || h > 1 {
		w, h = max(1, w/2), max(1, h/2)
		n++
	}
	return n
}
