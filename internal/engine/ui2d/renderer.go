// Package ui2d is the immediate-mode 2D layer that draws the control panel
// and composites the product view.
package ui2d

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/plush-configurator/internal/engine/shader"
	"github.com/Faultbox/plush-configurator/internal/engine/ui2d/atlas"
	"github.com/Faultbox/plush-configurator/pkg/math"
)

const (
	solidStride = 6 // pos2 + color4
	textStride  = 8 // pos2 + uv2 + color4
	blitStride  = 4 // pos2 + uv2
)

// Renderer batches quads and text and flushes them in End.
type Renderer struct {
	screenWidth  int
	screenHeight int

	solid *shader.Program
	text  *shader.Program
	blit  *shader.Program

	solidVAO, solidVBO uint32
	textVAO, textVBO   uint32
	blitVAO, blitVBO   uint32

	solidVertices []float32
	textVertices  []float32

	font        *atlas.Atlas
	fontTexture uint32
}

// New creates the renderer and uploads the font atlas.
func New(width, height int) (*Renderer, error) {
	r := &Renderer{
		screenWidth:   width,
		screenHeight:  height,
		solidVertices: make([]float32, 0, 4096),
		textVertices:  make([]float32, 0, 4096),
		font:          atlas.New(),
	}

	var err error
	if r.solid, err = shader.New(solidVertexSrc, solidFragmentSrc); err != nil {
		return nil, fmt.Errorf("solid shader: %w", err)
	}
	if r.text, err = shader.New(textVertexSrc, textFragmentSrc); err != nil {
		r.Close()
		return nil, fmt.Errorf("text shader: %w", err)
	}
	if r.blit, err = shader.New(textVertexSrc, blitFragmentSrc); err != nil {
		r.Close()
		return nil, fmt.Errorf("blit shader: %w", err)
	}

	r.solidVAO, r.solidVBO = newBuffers(solidStride, []int32{2, 4})
	r.textVAO, r.textVBO = newBuffers(textStride, []int32{2, 2, 4})
	r.blitVAO, r.blitVBO = newBuffers(blitStride, []int32{2, 2})
	r.fontTexture = uploadAlpha(r.font)

	return r, nil
}

// newBuffers creates a VAO/VBO pair with consecutive float attributes.
func newBuffers(stride int, sizes []int32) (vao, vbo uint32) {
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)

	offset := 0
	for i, n := range sizes {
		gl.VertexAttribPointerWithOffset(uint32(i), n, gl.FLOAT, false, int32(stride*4), uintptr(offset*4))
		gl.EnableVertexAttribArray(uint32(i))
		offset += int(n)
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return vao, vbo
}

func uploadAlpha(a *atlas.Atlas) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	b := a.Image.Bounds()
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.R8, int32(b.Dx()), int32(b.Dy()), 0,
		gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(a.Image.Pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return tex
}

// Resize updates the screen dimensions.
func (r *Renderer) Resize(width, height int) {
	r.screenWidth = width
	r.screenHeight = height
}

// GetScreenSize returns the current screen dimensions.
func (r *Renderer) GetScreenSize() (int, int) {
	return r.screenWidth, r.screenHeight
}

func (r *Renderer) projection() math.Mat4 {
	return math.Ortho(0, float32(r.screenWidth), float32(r.screenHeight), 0, -1, 1)
}

// Clear clears the window framebuffer.
func (r *Renderer) Clear(c Color) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(r.screenWidth), int32(r.screenHeight))
	gl.ClearColor(c.R, c.G, c.B, c.A)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Begin starts a new UI frame.
func (r *Renderer) Begin() {
	r.solidVertices = r.solidVertices[:0]
	r.textVertices = r.textVertices[:0]
}

// End flushes quads, then text on top.
func (r *Renderer) End() {
	gl.Viewport(0, 0, int32(r.screenWidth), int32(r.screenHeight))
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)

	proj := r.projection()

	if len(r.solidVertices) > 0 {
		r.solid.Use()
		r.solid.SetMat4("uProjection", proj)
		draw(r.solidVAO, r.solidVBO, r.solidVertices, solidStride)
	}

	if len(r.textVertices) > 0 {
		r.text.Use()
		r.text.SetMat4("uProjection", proj)
		r.text.SetInt("uTexture", 0)
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, r.fontTexture)
		draw(r.textVAO, r.textVBO, r.textVertices, textStride)
	}

	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.UseProgram(0)
	gl.Disable(gl.BLEND)
}

func draw(vao, vbo uint32, vertices []float32, stride int) {
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STREAM_DRAW)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(vertices)/stride))
}

// DrawSceneTexture draws an offscreen color texture into a screen rectangle.
// Call it before Begin so the panel is drawn on top.
func (r *Renderer) DrawSceneTexture(x, y, w, h float32, textureID uint32) {
	if textureID == 0 {
		return
	}
	gl.Viewport(0, 0, int32(r.screenWidth), int32(r.screenHeight))
	gl.Disable(gl.BLEND)
	gl.Disable(gl.DEPTH_TEST)

	r.blit.Use()
	r.blit.SetMat4("uProjection", r.projection())
	r.blit.SetInt("uTexture", 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, textureID)

	// Texture rows are bottom-up.
	vertices := []float32{
		x, y, 0, 1,
		x + w, y, 1, 1,
		x + w, y + h, 1, 0,
		x, y, 0, 1,
		x + w, y + h, 1, 0,
		x, y + h, 0, 0,
	}
	draw(r.blitVAO, r.blitVBO, vertices, blitStride)

	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.UseProgram(0)
}

// Close releases renderer resources.
func (r *Renderer) Close() {
	for _, p := range []*shader.Program{r.solid, r.text, r.blit} {
		if p != nil {
			p.Delete()
		}
	}
	for _, vao := range []*uint32{&r.solidVAO, &r.textVAO, &r.blitVAO} {
		if *vao != 0 {
			gl.DeleteVertexArrays(1, vao)
			*vao = 0
		}
	}
	for _, vbo := range []*uint32{&r.solidVBO, &r.textVBO, &r.blitVBO} {
		if *vbo != 0 {
			gl.DeleteBuffers(1, vbo)
			*vbo = 0
		}
	}
	if r.fontTexture != 0 {
		gl.DeleteTextures(1, &r.fontTexture)
		r.fontTexture = 0
	}
}

// DrawRect draws a filled rectangle.
func (r *Renderer) DrawRect(x, y, width, height float32, c Color) {
	r.solidVertices = append(r.solidVertices,
		x, y, c.R, c.G, c.B, c.A,
		x+width, y, c.R, c.G, c.B, c.A,
		x+width, y+height, c.R, c.G, c.B, c.A,
		x, y, c.R, c.G, c.B, c.A,
		x+width, y+height, c.R, c.G, c.B, c.A,
		x, y+height, c.R, c.G, c.B, c.A,
	)
}

// DrawRectOutline draws a rectangle outline.
func (r *Renderer) DrawRectOutline(x, y, width, height, thickness float32, c Color) {
	r.DrawRect(x, y, width, thickness, c)
	r.DrawRect(x, y+height-thickness, width, thickness, c)
	r.DrawRect(x, y+thickness, thickness, height-thickness*2, c)
	r.DrawRect(x+width-thickness, y+thickness, thickness, height-thickness*2, c)
}

// DrawPanel draws a panel with border.
func (r *Renderer) DrawPanel(x, y, width, height float32, bg, border Color) {
	r.DrawRect(x, y, width, height, bg)
	r.DrawRectOutline(x, y, width, height, 1, border)
}

// DrawText draws text with its top-left corner at x, y.
func (r *Renderer) DrawText(x, y float32, text string, scale float32, c Color) {
	charW := float32(r.font.CellW) * scale
	charH := float32(r.font.CellH) * scale

	curX := x
	for _, ch := range text {
		if ch == '\n' {
			curX = x
			y += charH
			continue
		}
		u0, v0, u1, v1 := r.font.GlyphUV(ch)
		r.textVertices = append(r.textVertices,
			curX, y, u0, v0, c.R, c.G, c.B, c.A,
			curX+charW, y, u1, v0, c.R, c.G, c.B, c.A,
			curX+charW, y+charH, u1, v1, c.R, c.G, c.B, c.A,
			curX, y, u0, v0, c.R, c.G, c.B, c.A,
			curX+charW, y+charH, u1, v1, c.R, c.G, c.B, c.A,
			curX, y+charH, u0, v1, c.R, c.G, c.B, c.A,
		)
		curX += charW
	}
}

// MeasureText returns the width and height of rendered text.
func (r *Renderer) MeasureText(text string, scale float32) (float32, float32) {
	return r.font.Measure(text, scale)
}

const solidVertexSrc = `#version 410 core
layout (location = 0) in vec2 aPos;
layout (location = 1) in vec4 aColor;
uniform mat4 uProjection;
out vec4 vColor;
void main() {
	gl_Position = uProjection * vec4(aPos, 0.0, 1.0);
	vColor = aColor;
}
`

const solidFragmentSrc = `#version 410 core
in vec4 vColor;
out vec4 FragColor;
void main() {
	FragColor = vColor;
}
`

const textVertexSrc = `#version 410 core
layout (location = 0) in vec2 aPos;
layout (location = 1) in vec2 aTexCoord;
layout (location = 2) in vec4 aColor;
uniform mat4 uProjection;
out vec2 vTexCoord;
out vec4 vColor;
void main() {
	gl_Position = uProjection * vec4(aPos, 0.0, 1.0);
	vTexCoord = aTexCoord;
	vColor = aColor;
}
`

const textFragmentSrc = `#version 410 core
uniform sampler2D uTexture;
in vec2 vTexCoord;
in vec4 vColor;
out vec4 FragColor;
void main() {
	float coverage = texture(uTexture, vTexCoord).r;
	FragColor = vec4(vColor.rgb, vColor.a * coverage);
}
`

// The scene texture is already in display space.
const blitFragmentSrc = `#version 410 core
uniform sampler2D uTexture;
in vec2 vTexCoord;
out vec4 FragColor;
void main() {
	FragColor = vec4(texture(uTexture, vTexCoord).rgb, 1.0);
}
`
