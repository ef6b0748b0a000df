package main

import (
	"flag"
	"fmt"
	"os"

	"iengine/internal/camera"
	"iengine/internal/config"
	"iengine/internal/engine"
	"iengine/internal/geometry"
	"iengine/internal/light"
	"iengine/internal/logger"
	"iengine/internal/material"
	"iengine/internal/mesh"
	"iengine/internal/rendergraph"
	"iengine/internal/renderer"
	"iengine/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "JSON or YAML config file")
	backend := flag.String("backend", "", "renderer backend, opengl or webgpu")
	texturePath := flag.String("texture", "", "image used as the cube base color map")
	wireframe := flag.Bool("wireframe", false, "draw the terrain as a wireframe overlay")
	flag.Parse()

	cfg, err := loadConfig(*configPath, *backend)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	eng := engine.New(cfg)
	if err := eng.Open(); err != nil {
		logger.Log.Fatal("Could not start engine", zap.Error(err))
	}

	s, cube := buildScene(eng, cfg, *texturePath, *wireframe)
	eng.SetScene(s)

	// 45 degrees per second around Y
	eng.SetOnUpdate(func(deltaTime float64) {
		cube.Rotate(0, float32(45*deltaTime), 0)
	})

	frames := 0
	eng.Graph().Add(rendergraph.PassFunc{PassName: "stats", Fn: func(r renderer.Renderer, _ scene.Scene) {
		frames++
		if frames%600 != 0 {
			return
		}
		st := r.Stats()
		logger.Log.Info("Frame stats",
			zap.Int("frame", frames),
			zap.Int("draws", st.Draws),
			zap.Int("skipped", st.Skipped),
			zap.Int("lights", st.Lights),
			zap.Int("pipelinesCreated", st.PipelinesCreated))
	}})

	if err := eng.Run(); err != nil {
		logger.Log.Error("Shutdown failed", zap.Error(err))
		os.Exit(1)
	}
}

func loadConfig(path, backend string) (config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}
	if backend != "" {
		cfg.Backend = backend
	}
	return cfg, cfg.Validate()
}

// buildScene lays out a PBR cube over a perlin terrain, with a flat
// triangle marker and a sun.
func buildScene(eng *engine.Engine, cfg config.Config, texturePath string, wireframe bool) (*scene.Simple, *scene.Node) {
	aspect := float32(cfg.Window.Width) / float32(cfg.Window.Height)
	cam := camera.NewPerspective(45, aspect, 0.1, 1000)
	cam.SetPosition(mgl32.Vec3{0, 12, 30})
	cam.Speed = 20
	cam.LookAt(mgl32.Vec3{0, 0, 0})

	s := scene.NewSimple(cam)

	cubeMat := material.NewPBR("cube")
	cubeMat.SetPolishedMetal(0.9, 0.6, 0.2)
	if texturePath != "" {
		cubeMat.BaseColorMap = eng.Textures().Acquire(texturePath)
	}
	cube := s.Add(scene.NewNode("cube", mesh.New(geometry.NewCube(4), geometry.DefaultPrimitive()), cubeMat))
	cube.SetPosition(0, 6, 0)

	terrainGeo := geometry.NewTerrain(geometry.TerrainOptions{
		GridSize:  128,
		Spacing:   0.5,
		Amplitude: 3,
		Frequency: 0.08,
		Seed:      7,
	})
	terrainMat := material.NewPhong("terrain")
	terrainMat.SetDiffuseColor(0.35, 0.55, 0.25)
	terrain := s.Add(scene.NewNode("terrain", mesh.New(terrainGeo, geometry.DefaultPrimitive()), terrainMat))
	terrain.SetPosition(-32, 0, -32)

	if wireframe {
		wire := material.NewWireframe("wire", mgl32.Vec4{0, 0, 0, 0.4})
		overlay := s.Add(scene.NewNode("terrain-wire", mesh.New(terrainGeo, geometry.DefaultPrimitive()), wire))
		overlay.SetPosition(-32, 0.01, -32)
		overlay.Layer = scene.LayerOverlay
	}

	marker := material.NewBase("marker", mgl32.Vec4{1, 0.2, 0.2, 1})
	tri := s.Add(scene.NewNode("marker", mesh.New(geometry.NewTriangle(), geometry.DefaultPrimitive()), marker))
	tri.SetPosition(8, 4, 0)
	tri.SetScale(2, 2, 2)

	s.AddLight(light.NewSunlight(mgl32.Vec3{-0.4, -1, -0.3}))
	s.AddLight(light.NewAmbient(mgl32.Vec3{1, 1, 1}, 0.2))

	return s, cube
}
