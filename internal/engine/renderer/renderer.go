// Package renderer draws the product scene graph into an offscreen target
// with a shadowed key light, a fill light and an optional ground plane.
package renderer

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/plush-configurator/internal/catalog"
	"github.com/Faultbox/plush-configurator/internal/config"
	"github.com/Faultbox/plush-configurator/internal/engine/camera"
	"github.com/Faultbox/plush-configurator/internal/engine/framebuffer"
	"github.com/Faultbox/plush-configurator/internal/engine/lighting"
	"github.com/Faultbox/plush-configurator/internal/engine/renderer/shaders"
	"github.com/Faultbox/plush-configurator/internal/engine/scene"
	"github.com/Faultbox/plush-configurator/internal/engine/shader"
	"github.com/Faultbox/plush-configurator/internal/engine/shadow"
	"github.com/Faultbox/plush-configurator/internal/logger"
	"github.com/Faultbox/plush-configurator/pkg/math"
)

// groundHalfSize is half the edge of the square ground plane.
const groundHalfSize = 8

// Renderer handles all OpenGL drawing of the product view.
type Renderer struct {
	target    *framebuffer.Framebuffer
	model     *shader.Program
	depth     *shader.Program
	shadowMap *shadow.Map // nil when shadows are disabled

	background [4]float32
	ground     *scene.Surface // nil when the ground plane is disabled

	meshes   map[*scene.Mesh]*gpuMesh
	textures map[string]uint32

	log *zap.Logger
}

// New creates a renderer with a width x height target.
// IMPORTANT: Must be called AFTER the OpenGL context is created!
func New(cfg config.RenderConfig, width, height int) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r := &Renderer{
		meshes:   make(map[*scene.Mesh]*gpuMesh),
		textures: make(map[string]uint32),
		log:      logger.Named("render"),
	}
	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	var err error
	if r.background, err = catalog.HexToLinear(cfg.Background); err != nil {
		return nil, fmt.Errorf("background color: %w", err)
	}
	// The target holds display-ready sRGB, so the clear color is encoded too.
	r.background = encodeSRGB(r.background)

	if r.model, err = shader.New(shaders.ModelVertexShader, shaders.ModelFragmentShader); err != nil {
		return nil, fmt.Errorf("model shader: %w", err)
	}
	if r.depth, err = shader.New(shaders.DepthVertexShader, shaders.DepthFragmentShader); err != nil {
		r.Close()
		return nil, fmt.Errorf("depth shader: %w", err)
	}
	if r.target, err = framebuffer.New(int32(width), int32(height)); err != nil {
		r.Close()
		return nil, err
	}
	if cfg.Shadows {
		if r.shadowMap, err = shadow.NewMap(cfg.ShadowMapSize); err != nil {
			// The view still works without shadows.
			r.log.Warn("shadows disabled", zap.Error(err))
			r.shadowMap = nil
		}
	}
	if cfg.GroundPlane {
		color, err := catalog.HexToLinear(cfg.GroundColor)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("ground color: %w", err)
		}
		r.ground = groundSurface(color)
	}

	r.log.Debug("renderer created",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Bool("shadows", r.shadowMap != nil),
		zap.Bool("ground", r.ground != nil),
	)
	return r, nil
}

func groundSurface(color [4]float32) *scene.Surface {
	h := float32(groundHalfSize)
	mesh := scene.NewMesh("ground",
		[][3]float32{{-h, 0, -h}, {h, 0, -h}, {h, 0, h}, {-h, 0, h}},
		[][3]float32{{0, 1, 0}, {0, 1, 0}, {0, 1, 0}, {0, 1, 0}},
		[][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		[]uint32{0, 2, 1, 0, 3, 2},
	)
	mat := scene.DefaultMaterial()
	mat.Name = "ground"
	mat.BaseColor = color
	mat.Roughness = 1
	s := scene.NewSurface("ground", mesh, mat)
	s.ReceiveShadow = true
	return s
}

func encodeSRGB(c [4]float32) [4]float32 {
	return [4]float32{gamma(c[0]), gamma(c[1]), gamma(c[2]), c[3]}
}

func gamma(v float32) float32 {
	return math32.Pow(v, 1/2.2)
}

// Close releases every GPU resource the renderer owns.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	for _, m := range r.meshes {
		m.delete()
	}
	r.meshes = make(map[*scene.Mesh]*gpuMesh)
	for _, id := range r.textures {
		if id != 0 {
			gl.DeleteTextures(1, &id)
		}
	}
	r.textures = make(map[string]uint32)
	if r.shadowMap != nil {
		r.shadowMap.Destroy()
	}
	if r.target != nil {
		r.target.Destroy()
	}
	if r.model != nil {
		r.model.Delete()
	}
	if r.depth != nil {
		r.depth.Delete()
	}
}

// Resize reallocates the target to the view size.
func (r *Renderer) Resize(width, height int) {
	if r.target.Resize(int32(width), int32(height)) {
		r.log.Debug("renderer resized",
			zap.Int("width", width),
			zap.Int("height", height),
		)
	}
}

// ColorTexture returns the texture holding the last drawn frame.
func (r *Renderer) ColorTexture() uint32 {
	return r.target.ColorTexture()
}

// ReadPixels returns the last drawn frame as RGBA rows, bottom row first.
func (r *Renderer) ReadPixels() (width, height int, pixels []byte) {
	w, h := r.target.Size()
	return int(w), int(h), r.target.ReadPixels()
}

// Draw renders the visible subtree of root into the target.
func (r *Renderer) Draw(root *scene.Node, cam *camera.OrbitCamera, rig lighting.Rig) {
	bounds := root.VisibleWorldBounds()
	if r.ground != nil {
		bounds = bounds.Extend(math.Vec3{})
	}
	lightViewProj := shadow.DirectionalLightMatrix(rig.Key.Direction, bounds)

	if r.shadowMap != nil {
		r.shadowPass(root, lightViewProj)
	}

	restore := r.target.BindWithViewport()
	defer restore()
	r.target.Clear(r.background)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	// Plush meshes are frequently open, so both faces are drawn.
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	p := r.model
	p.Use()
	p.SetMat4("uViewProj", cam.ProjectionMatrix().Mul(cam.ViewMatrix()))
	p.SetMat4("uLightViewProj", lightViewProj)
	p.SetVec3("uAmbient", rig.Ambient)
	p.SetVec3("uKeyDir", rig.Key.Direction.Normalize().Arr())
	p.SetVec3("uKeyColor", rig.Key.Radiance())
	p.SetVec3("uFillDir", rig.Fill.Direction.Normalize().Arr())
	p.SetVec3("uFillColor", rig.Fill.Radiance())
	p.SetVec3("uCameraPos", cam.Position().Arr())
	p.SetInt("uTexture", 0)
	p.SetInt("uShadowMap", 1)
	p.SetBool("uShadowsEnabled", r.shadowMap != nil)
	if r.shadowMap != nil {
		r.shadowMap.BindTexture(gl.TEXTURE1)
	}

	if r.ground != nil {
		r.drawSurface(r.ground, math.Identity())
	}
	root.WalkVisible(math.Identity(), func(node *scene.Node, world math.Mat4) {
		for _, s := range node.Surfaces {
			r.drawSurface(s, world)
		}
	})

	gl.BindVertexArray(0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.Disable(gl.BLEND)
}

func (r *Renderer) drawSurface(s *scene.Surface, world math.Mat4) {
	if s.Mesh == nil || len(s.Mesh.Indices) == 0 {
		return
	}
	mat := s.Material()
	p := r.model
	p.SetMat4("uModel", world)
	p.SetVec4("uBaseColor", mat.BaseColor)
	p.SetFloat("uRoughness", mat.Roughness)
	p.SetBool("uReceiveShadow", s.ReceiveShadow)

	tex := r.texture(mat.Texture)
	p.SetBool("uUseTexture", tex != 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tex)

	r.mesh(s.Mesh).draw()
}

func (r *Renderer) shadowPass(root *scene.Node, lightViewProj math.Mat4) {
	r.shadowMap.Begin()
	defer r.shadowMap.End()

	r.depth.Use()
	r.depth.SetMat4("uLightViewProj", lightViewProj)
	root.WalkVisible(math.Identity(), func(node *scene.Node, world math.Mat4) {
		for _, s := range node.Surfaces {
			if !s.CastShadow || s.Mesh == nil || len(s.Mesh.Indices) == 0 {
				continue
			}
			r.depth.SetMat4("uModel", world)
			r.mesh(s.Mesh).draw()
		}
	})
	gl.BindVertexArray(0)
}
