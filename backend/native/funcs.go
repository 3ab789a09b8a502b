//go:build (linux || darwin) && !js

package native

import (
	"fmt"
	"unsafe"

	"github.com/ebitengine/purego"
)

// funcs holds the resolved GLES entry points, named as in the C headers.
type funcs struct {
	glGenBuffers                     func(n int32, out unsafe.Pointer)
	glGenTextures                    func(n int32, out unsafe.Pointer)
	glGenFramebuffers                func(n int32, out unsafe.Pointer)
	glGenRenderbuffers               func(n int32, out unsafe.Pointer)
	glGenVertexArrays                func(n int32, out unsafe.Pointer)
	glCreateProgram                  func() uint32
	glCreateShader                   func(typ uint32) uint32
	glDeleteBuffers                  func(n int32, names unsafe.Pointer)
	glDeleteTextures                 func(n int32, names unsafe.Pointer)
	glDeleteFramebuffers             func(n int32, names unsafe.Pointer)
	glDeleteRenderbuffers            func(n int32, names unsafe.Pointer)
	glDeleteVertexArrays             func(n int32, names unsafe.Pointer)
	glDeleteProgram                  func(p uint32)
	glDeleteShader                   func(s uint32)
	glBindBuffer                     func(target, b uint32)
	glBindBufferBase                 func(target, index, b uint32)
	glActiveTexture                  func(unit uint32)
	glBindTexture                    func(target, t uint32)
	glBindFramebuffer                func(target, fb uint32)
	glBindRenderbuffer               func(target, rb uint32)
	glBindVertexArray                func(va uint32)
	glUseProgram                     func(p uint32)
	glGetIntegerv                    func(pname uint32, out unsafe.Pointer)
	glGetIntegeri_v                  func(pname, index uint32, out unsafe.Pointer)
	glGetError                       func() uint32
	glBufferData                     func(target uint32, size int, data unsafe.Pointer, usage uint32)
	glBufferSubData                  func(target uint32, offset, size int, data unsafe.Pointer)
	glCopyBufferSubData              func(readTarget, writeTarget uint32, readOffset, writeOffset, size int)
	glMapBufferRange                 func(target uint32, offset, length int, access uint32) unsafe.Pointer
	glUnmapBuffer                    func(target uint32) bool
	glTexImage2D                     func(target uint32, level, internalFormat, width, height, border int32, format, typ uint32, data unsafe.Pointer)
	glTexImage3D                     func(target uint32, level, internalFormat, width, height, depth, border int32, format, typ uint32, data unsafe.Pointer)
	glTexSubImage2D                  func(target uint32, level, x, y, width, height int32, format, typ uint32, data unsafe.Pointer)
	glTexStorage2D                   func(target uint32, levels int32, internalFormat uint32, width, height int32)
	glTexParameteri                  func(target, pname uint32, param int32)
	glGenerateMipmap                 func(target uint32)
	glCopyTexSubImage2D              func(target uint32, level, xoffset, yoffset, x, y, width, height int32)
	glPixelStorei                    func(pname uint32, param int32)
	glFramebufferTexture2D           func(target, attachment, texTarget, t uint32, level int32)
	glFramebufferTextureLayer        func(target, attachment, t uint32, level, layer int32)
	glFramebufferRenderbuffer        func(target, attachment, rbTarget, rb uint32)
	glCheckFramebufferStatus         func(target uint32) uint32
	glDrawBuffers                    func(n int32, bufs unsafe.Pointer)
	glBlitFramebuffer                func(sx0, sy0, sx1, sy1, dx0, dy0, dx1, dy1 int32, mask, filter uint32)
	glRenderbufferStorage            func(target, internalFormat uint32, width, height int32)
	glRenderbufferStorageMultisample func(target uint32, samples int32, internalFormat uint32, width, height int32)
	glShaderSource                   func(s uint32, count int32, src, length unsafe.Pointer)
	glCompileShader                  func(s uint32)
	glGetShaderiv                    func(s, pname uint32, out unsafe.Pointer)
	glGetShaderInfoLog               func(s uint32, bufSize int32, length, log unsafe.Pointer)
	glAttachShader                   func(p, s uint32)
	glDetachShader                   func(p, s uint32)
	glLinkProgram                    func(p uint32)
	glValidateProgram                func(p uint32)
	glGetProgramiv                   func(p, pname uint32, out unsafe.Pointer)
	glGetProgramInfoLog              func(p uint32, bufSize int32, length, log unsafe.Pointer)
	glGetUniformLocation             func(p uint32, name string) int32
	glGetAttribLocation              func(p uint32, name string) int32
	glUniform1i                      func(loc, v int32)
	glUniform1f                      func(loc int32, v float32)
	glUniform2f                      func(loc int32, v0, v1 float32)
	glUniform3f                      func(loc int32, v0, v1, v2 float32)
	glUniform4f                      func(loc int32, v0, v1, v2, v3 float32)
	glUniformMatrix4fv               func(loc, count int32, transpose bool, v unsafe.Pointer)
	glEnableVertexAttribArray        func(a uint32)
	glDisableVertexAttribArray       func(a uint32)
	glVertexAttribPointer            func(a uint32, size int32, typ uint32, normalized bool, stride int32, offset uintptr)
	glFenceSync                      func(condition, flags uint32) uintptr
	glClientWaitSync                 func(s uintptr, flags uint32, timeout uint64) uint32
	glDeleteSync                     func(s uintptr)
}

// resolve looks up every entry point in lib. All symbols are checked before
// the first error is reported, so the error names every missing one.
func (f *funcs) resolve(lib uintptr) error {
	table := []struct {
		fptr any
		name string
	}{
		{&f.glGenBuffers, "glGenBuffers"},
		{&f.glGenTextures, "glGenTextures"},
		{&f.glGenFramebuffers, "glGenFramebuffers"},
		{&f.glGenRenderbuffers, "glGenRenderbuffers"},
		{&f.glGenVertexArrays, "glGenVertexArrays"},
		{&f.glCreateProgram, "glCreateProgram"},
		{&f.glCreateShader, "glCreateShader"},
		{&f.glDeleteBuffers, "glDeleteBuffers"},
		{&f.glDeleteTextures, "glDeleteTextures"},
		{&f.glDeleteFramebuffers, "glDeleteFramebuffers"},
		{&f.glDeleteRenderbuffers, "glDeleteRenderbuffers"},
		{&f.glDeleteVertexArrays, "glDeleteVertexArrays"},
		{&f.glDeleteProgram, "glDeleteProgram"},
		{&f.glDeleteShader, "glDeleteShader"},
		{&f.glBindBuffer, "glBindBuffer"},
		{&f.glBindBufferBase, "glBindBufferBase"},
		{&f.glActiveTexture, "glActiveTexture"},
		{&f.glBindTexture, "glBindTexture"},
		{&f.glBindFramebuffer, "glBindFramebuffer"},
		{&f.glBindRenderbuffer, "glBindRenderbuffer"},
		{&f.glBindVertexArray, "glBindVertexArray"},
		{&f.glUseProgram, "glUseProgram"},
		{&f.glGetIntegerv, "glGetIntegerv"},
		{&f.glGetIntegeri_v, "glGetIntegeri_v"},
		{&f.glGetError, "glGetError"},
		{&f.glBufferData, "glBufferData"},
		{&f.glBufferSubData, "glBufferSubData"},
		{&f.glCopyBufferSubData, "glCopyBufferSubData"},
		{&f.glMapBufferRange, "glMapBufferRange"},
		{&f.glUnmapBuffer, "glUnmapBuffer"},
		{&f.glTexImage2D, "glTexImage2D"},
		{&f.glTexImage3D, "glTexImage3D"},
		{&f.glTexSubImage2D, "glTexSubImage2D"},
		{&f.glTexStorage2D, "glTexStorage2D"},
		{&f.glTexParameteri, "glTexParameteri"},
		{&f.glGenerateMipmap, "glGenerateMipmap"},
		{&f.glCopyTexSubImage2D, "glCopyTexSubImage2D"},
		{&f.glPixelStorei, "glPixelStorei"},
		{&f.glFramebufferTexture2D, "glFramebufferTexture2D"},
		{&f.glFramebufferTextureLayer, "glFramebufferTextureLayer"},
		{&f.glFramebufferRenderbuffer, "glFramebufferRenderbuffer"},
		{&f.glCheckFramebufferStatus, "glCheckFramebufferStatus"},
		{&f.glDrawBuffers, "glDrawBuffers"},
		{&f.glBlitFramebuffer, "glBlitFramebuffer"},
		{&f.glRenderbufferStorage, "glRenderbufferStorage"},
		{&f.glRenderbufferStorageMultisample, "glRenderbufferStorageMultisample"},
		{&f.glShaderSource, "glShaderSource"},
		{&f.glCompileShader, "glCompileShader"},
		{&f.glGetShaderiv, "glGetShaderiv"},
		{&f.glGetShaderInfoLog, "glGetShaderInfoLog"},
		{&f.glAttachShader, "glAttachShader"},
		{&f.glDetachShader, "glDetachShader"},
		{&f.glLinkProgram, "glLinkProgram"},
		{&f.glValidateProgram, "glValidateProgram"},
		{&f.glGetProgramiv, "glGetProgramiv"},
		{&f.glGetProgramInfoLog, "glGetProgramInfoLog"},
		{&f.glGetUniformLocation, "glGetUniformLocation"},
		{&f.glGetAttribLocation, "glGetAttribLocation"},
		{&f.glUniform1i, "glUniform1i"},
		{&f.glUniform1f, "glUniform1f"},
		{&f.glUniform2f, "glUniform2f"},
		{&f.glUniform3f, "glUniform3f"},
		{&f.glUniform4f, "glUniform4f"},
		{&f.glUniformMatrix4fv, "glUniformMatrix4fv"},
		{&f.glEnableVertexAttribArray, "glEnableVertexAttribArray"},
		{&f.glDisableVertexAttribArray, "glDisableVertexAttribArray"},
		{&f.glVertexAttribPointer, "glVertexAttribPointer"},
		{&f.glFenceSync, "glFenceSync"},
		{&f.glClientWaitSync, "glClientWaitSync"},
		{&f.glDeleteSync, "glDeleteSync"},
	}
	var missing []string
	syms := make([]uintptr, len(table))
	for i, e := range table {
		sym, err := purego.Dlsym(lib, e.name)
		if err != nil || sym == 0 {
			missing = append(missing, e.name)
			continue
		}
		syms[i] = sym
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrMissingSymbol, missing)
	}
	for i, e := range table {
		purego.RegisterFunc(e.fptr, syms[i])
	}
	return nil
}
