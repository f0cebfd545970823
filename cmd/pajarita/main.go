package main

import (
	"bytes"
	"fmt"
	"log"

	"github.com/Carmen-Shannon/pajarita-go/assets"
	"github.com/Carmen-Shannon/pajarita-go/common"
	"github.com/Carmen-Shannon/pajarita-go/engine"
	"github.com/Carmen-Shannon/pajarita-go/engine/camera"
	"github.com/Carmen-Shannon/pajarita-go/engine/light"
	"github.com/Carmen-Shannon/pajarita-go/engine/loader"
	"github.com/Carmen-Shannon/pajarita-go/engine/renderer"
	"github.com/Carmen-Shannon/pajarita-go/engine/renderer/shader"
	"github.com/Carmen-Shannon/pajarita-go/engine/scene"
	"github.com/Carmen-Shannon/pajarita-go/engine/window"
	"github.com/Carmen-Shannon/pajarita-go/lattice"
	"github.com/chewxy/math32"
)

const (
	windowWidth  = 1280
	windowHeight = 800

	// shapeCacheKey names the embedded pajarita outline in the loader cache.
	shapeCacheKey = "pajarita"

	floorHalfExtent = 30.0
	floorHeight     = -0.6
)

func main() {
	// ── Engine + Window ─────────────────────────────────────────────
	eng := engine.NewEngine(
		engine.WithTickRate(60),
		engine.WithWindow(window.NewWindow(
			window.WithTitle("Pajarita Lattice"),
			window.WithSize(windowWidth, windowHeight),
			window.WithMinSize(640, 400),
		)),
	)

	// ── Renderer ────────────────────────────────────────────────────
	r := renderer.NewRenderer(
		renderer.BackendTypeWGPU,
		eng.Window(),
		renderer.WithPresentMode(renderer.PresentModeVSync),
		renderer.WithMSAA(renderer.MSAA4x),
	)

	// ── Camera ──────────────────────────────────────────────────────
	cam := camera.NewCamera(
		camera.WithAspect(float32(eng.Window().Width())/float32(eng.Window().Height())),
		camera.WithNear(0.1),
		camera.WithFar(200),
		camera.WithController(camera.NewCameraController(
			camera.WithTarget(0, 0, 0),
			camera.WithRadius(8),
			camera.WithElevation(math32.Pi/8),
			camera.WithRadiusBounds(2, 60),
		)),
	)

	// ── Shaders ─────────────────────────────────────────────────────
	litVert := shader.NewShader("lattice_lit_vert", shader.ShaderTypeVertex, assets.LatticeLitVertexWGSL)
	litFrag := shader.NewShader("lattice_lit_frag", shader.ShaderTypeFragment, assets.LatticeLitFragmentWGSL)
	shadowVert := shader.NewShader("shadow_depth_vert", shader.ShaderTypeVertex, assets.ShadowDepthVertexWGSL)
	overlayVert := shader.NewShader("marker_overlay_vert", shader.ShaderTypeVertex, assets.MarkerOverlayVertexWGSL)
	overlayFrag := shader.NewShader("marker_overlay_frag", shader.ShaderTypeFragment, assets.MarkerOverlayFragmentWGSL)

	// ── Scene ───────────────────────────────────────────────────────
	sc := scene.NewScene("pajarita", cam, r, litVert,
		scene.WithActive(true),
		scene.WithAmbientColor([3]float32{0.25, 0.25, 0.28}),
		scene.WithFog([3]float32{0.85, 0.87, 0.9}, 25, 70),
		scene.WithSpinSpeed(0.9),
		scene.WithShadowHalfExtent(floorHalfExtent),
		scene.WithShadowNearFar(0.1, 120),
	)

	// ── Lights ──────────────────────────────────────────────────────
	// Shadow-casting key light, high above the lattice plane.
	sun := light.NewLight(light.LightTypeDirectional,
		light.WithDirection(-0.35, 0.25, -0.9),
		light.WithColor(1.0, 0.97, 0.9),
		light.WithIntensity(2.4),
		light.WithCastsShadows(true),
		light.WithEnabled(true),
	)
	sc.AddLight(sun)

	// Cool fill from the opposite side, no shadows.
	fill := light.NewLight(light.LightTypePoint,
		light.WithPosition(10, -12, 14),
		light.WithColor(0.7, 0.8, 1.0),
		light.WithIntensity(1.6),
		light.WithRange(80),
		light.WithEnabled(true),
	)
	sc.AddLight(fill)

	sc.InitLighting(litFrag, shadowVert)
	sc.InitOverlay(overlayVert, overlayFrag)
	sc.InitFloor(floorHalfExtent, floorHeight)

	eng.AddScene(0, sc)

	// ── Parameter controller ────────────────────────────────────────
	ctrl := newLatticeController(sc)

	// ── Shape load ──────────────────────────────────────────────────
	// The outline is embedded, so the load runs LoadReader on a background
	// goroutine, tagged with the generation snapshotted at request time.
	// The scene materializes every pending placement on adoption.
	ldr := loader.NewLoader(loader.BackendTypeSVG, loader.WithRenderer(r))
	generation := sc.Generation()
	go func() {
		m, err := ldr.LoadReader(shapeCacheKey, bytes.NewReader(assets.PajaritaSVG))
		if err != nil {
			log.Printf("[Main] shape load failed: %v", err)
			return
		}
		sc.AdoptShapeModel(m, generation)
	}()

	sc.AddInnerRing()
	sc.RegenerateLattice(ctrl.Parameters())

	// ── Input ───────────────────────────────────────────────────────
	bindInput(eng, cam, ctrl)

	printControls()
	eng.Run()
}

// newLatticeController wires a parameter controller to the scene: parameter
// changes regenerate the lattice, and the marker and spin toggles route to
// their scene flags.
func newLatticeController(sc scene.Scene) lattice.Controller {
	return lattice.NewController(
		lattice.WithChangeHandler(sc.RegenerateLattice),
		lattice.WithMarkerHandler(sc.SetMarkersVisible),
		lattice.WithSpinHandler(sc.SetGlobalSpin),
	)
}

// paramKeyBindings maps keyboard keys to controller actions. Each row pairs
// an increase key with its decrease key.
var paramKeyBindings = map[uint32]lattice.Action{
	common.KeyQ: lattice.ActionIncreaseRingCount,
	common.KeyA: lattice.ActionDecreaseRingCount,
	common.KeyW: lattice.ActionIncreaseRingSpacing,
	common.KeyS: lattice.ActionDecreaseRingSpacing,
	common.KeyE: lattice.ActionIncreaseUniformScale,
	common.KeyD: lattice.ActionDecreaseUniformScale,
	common.KeyR: lattice.ActionIncreaseHeightStep,
	common.KeyF: lattice.ActionDecreaseHeightStep,
	common.KeyT: lattice.ActionIncreaseAngularOffset,
	common.KeyG: lattice.ActionDecreaseAngularOffset,
	common.KeyY: lattice.ActionIncreaseRadialOffset,
	common.KeyH: lattice.ActionDecreaseRadialOffset,
	common.KeyU: lattice.ActionIncreaseDensity,
	common.KeyJ: lattice.ActionDecreaseDensity,

	common.KeyM:     lattice.ActionToggleMarkers,
	common.KeySpace: lattice.ActionToggleSpin,
}

// bindInput routes key presses to controller actions and held arrow keys to
// camera orbit. Parameter keys fire on press and repeat; orbit keys are
// polled each tick so holding them orbits smoothly.
func bindInput(eng engine.Engine, cam camera.Camera, ctrl lattice.Controller) {
	keyState := make(map[uint32]bool)

	eng.Window().SetKeyDownCallback(func(keyCode uint32) {
		keyState[keyCode] = true
		if action, ok := paramKeyBindings[keyCode]; ok {
			ctrl.Apply(action)
		}
	})
	eng.Window().SetKeyUpCallback(func(keyCode uint32) {
		keyState[keyCode] = false
	})
	eng.Window().SetScrollCallback(func(delta float32) {
		cam.Controller().Zoom(delta)
	})

	eng.SetTickCallback(func(_ float32) {
		cc := cam.Controller()
		if keyState[common.KeyLeft] {
			cc.OrbitLeft()
		}
		if keyState[common.KeyRight] {
			cc.OrbitRight()
		}
		if keyState[common.KeyUp] {
			cc.OrbitUp()
		}
		if keyState[common.KeyDown] {
			cc.OrbitDown()
		}
	})
}

func printControls() {
	fmt.Println("Pajarita Lattice")
	fmt.Println("  Q/A  rings +/-        W/S  spacing +/-")
	fmt.Println("  E/D  scale +/-        R/F  height step +/-")
	fmt.Println("  T/G  twist +/-        Y/H  radial offset +/-")
	fmt.Println("  U/J  density +/-      M    toggle markers")
	fmt.Println("  Space  toggle spin    Arrows  orbit   Scroll  zoom   Esc  quit")
}
