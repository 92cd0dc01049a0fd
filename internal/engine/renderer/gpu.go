package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/plush-configurator/internal/engine/scene"
	"github.com/Faultbox/plush-configurator/internal/engine/texture"
)

// Interleaved position(3) normal(3) uv(2)
const vertexStride = 8

type gpuMesh struct {
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
}

func (m *gpuMesh) draw() {
	gl.BindVertexArray(m.vao)
	gl.DrawElements(gl.TRIANGLES, m.indexCount, gl.UNSIGNED_INT, nil)
}

func (m *gpuMesh) delete() {
	gl.DeleteVertexArrays(1, &m.vao)
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteBuffers(1, &m.ebo)
}

// mesh returns the uploaded copy of m, uploading it on first use. Meshes
// are shared between instances, so the cache is keyed by pointer.
func (r *Renderer) mesh(m *scene.Mesh) *gpuMesh {
	if g, ok := r.meshes[m]; ok {
		return g
	}
	g := uploadMesh(m)
	r.meshes[m] = g
	r.log.Debug("mesh uploaded",
		zap.String("name", m.Name),
		zap.Int("triangles", m.TriangleCount()),
	)
	return g
}

func uploadMesh(m *scene.Mesh) *gpuMesh {
	vertices := make([]float32, 0, len(m.Positions)*vertexStride)
	for i, p := range m.Positions {
		n := [3]float32{0, 1, 0}
		if i < len(m.Normals) {
			n = m.Normals[i]
		}
		var uv [2]float32
		if i < len(m.UVs) {
			uv = m.UVs[i]
		}
		vertices = append(vertices, p[0], p[1], p[2], n[0], n[1], n[2], uv[0], uv[1])
	}

	g := &gpuMesh{indexCount: int32(len(m.Indices))}
	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	if len(vertices) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)
	}

	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	if len(m.Indices) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, gl.Ptr(m.Indices), gl.STATIC_DRAW)
	}

	offset := 0
	for i, n := range []int32{3, 3, 2} {
		gl.VertexAttribPointerWithOffset(uint32(i), n, gl.FLOAT, false, vertexStride*4, uintptr(offset*4))
		gl.EnableVertexAttribArray(uint32(i))
		offset += int(n)
	}

	gl.BindVertexArray(0)
	return g
}

// texture returns the GL texture for path, loading it on first use. A file
// that fails to load is logged once and drawn untextured from then on.
func (r *Renderer) texture(path string) uint32 {
	if path == "" {
		return 0
	}
	if id, ok := r.textures[path]; ok {
		return id
	}
	img, err := texture.Load(path)
	if err != nil {
		r.log.Warn("texture unavailable", zap.String("path", path), zap.Error(err))
		r.textures[path] = 0
		return 0
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	b := img.Bounds()
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.SRGB8_ALPHA8, int32(b.Dx()), int32(b.Dy()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	r.textures[path] = id
	r.log.Debug("texture uploaded", zap.String("path", path), zap.Int("width", b.Dx()), zap.Int("height", b.Dy()))
	return id
}
