package transformlab

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/colornames"
)

const quadsCount = 2

// SolidItem is one filled draw submission: unit geometry carried by a full
// model-view-projection matrix and a flat color.
type SolidItem struct {
	Shape ShapeId
	Mvp   mgl32.Mat4
	Color [4]float32
}

// WireItem is one line-list draw submission.
type WireItem struct {
	Shape ShapeId
	Mvp   mgl32.Mat4
	Color [4]float32
}

// PoseItem draws a camera pose pyramid. Mvp excludes the posed camera's
// inverse projection on purpose: the shader applies ProjInv per vertex and
// exempts the pyramid tip, which must stay at the camera origin.
type PoseItem struct {
	Mvp     mgl32.Mat4
	ProjInv mgl32.Mat4
}

// DrawList is the frame's complete set of draw submissions, rebuilt from
// one camera/scene snapshot per frame and consumed by the render stage.
type DrawList struct {
	Solids []SolidItem
	Wires  []WireItem
	Poses  []PoseItem
}

func (dl *DrawList) clear() {
	dl.Solids = dl.Solids[:0]
	dl.Wires = dl.Wires[:0]
	dl.Poses = dl.Poses[:0]
}

// SceneState holds every demo toggle and animation angle.
//
// Bindings: R/F show the two white quads, T/G, Y/H, U/J toggle their
// scale, rotation and translation factors; I spins the chained quad pair;
// K shows the Rubik's-corner triplet and L spins it; O/M show the camera
// pose pyramids; P/comma show the camera frustum wireframes.
type SceneState struct {
	QuadEnabled   [quadsCount]bool
	QuadScale     [quadsCount]bool
	QuadRotate    [quadsCount]bool
	QuadTranslate [quadsCount]bool

	PairEnabled bool
	PairAngles  [2]float32 // radians

	TripletEnabled   bool
	TripletAnimating bool
	TripletAngle     float32 // radians

	PoseEnabled    [camerasCount]bool
	FrustumEnabled [camerasCount]bool

	quadShape    ShapeId
	frustumShape ShapeId
}

type SceneModule struct{}

func (SceneModule) Install(app *App, cmd *Commands) {
	registry := mustResource[ShapeRegistry](app)

	scene := &SceneState{
		QuadEnabled:  [quadsCount]bool{true, false},
		quadShape:    registry.Add(ShapeTriangles, unitQuadPositions()),
		frustumShape: registry.Add(ShapeLines, clipCubeWirePositions()),
	}
	cmd.AddResources(scene, &DrawList{})

	app.UseSystem(System(sceneHotkeysSystem).InStage(Update))
	app.UseSystem(System(sceneAnimationSystem).InStage(Update))
	app.UseSystem(System(sceneDrawSystem).InStage(PostUpdate))
}

func sceneHotkeysSystem(input *Input, scene *SceneState) {
	quadEnable := [quadsCount]int{KeyR, KeyF}
	quadScale := [quadsCount]int{KeyT, KeyG}
	quadRotate := [quadsCount]int{KeyY, KeyH}
	quadTranslate := [quadsCount]int{KeyU, KeyJ}
	for i := 0; i < quadsCount; i++ {
		if input.JustPressed[quadEnable[i]] {
			scene.QuadEnabled[i] = !scene.QuadEnabled[i]
		}
		if input.JustPressed[quadScale[i]] {
			scene.QuadScale[i] = !scene.QuadScale[i]
		}
		if input.JustPressed[quadRotate[i]] {
			scene.QuadRotate[i] = !scene.QuadRotate[i]
		}
		if input.JustPressed[quadTranslate[i]] {
			scene.QuadTranslate[i] = !scene.QuadTranslate[i]
		}
	}

	if input.JustPressed[KeyI] {
		scene.PairEnabled = !scene.PairEnabled
	}
	if input.JustPressed[KeyK] {
		scene.TripletEnabled = !scene.TripletEnabled
	}
	if input.JustPressed[KeyL] {
		scene.TripletAnimating = !scene.TripletAnimating
	}

	poseToggles := [camerasCount]int{KeyO, KeyM}
	frustumToggles := [camerasCount]int{KeyP, KeyComma}
	for i := 0; i < camerasCount; i++ {
		if input.JustPressed[poseToggles[i]] {
			scene.PoseEnabled[i] = !scene.PoseEnabled[i]
		}
		if input.JustPressed[frustumToggles[i]] {
			scene.FrustumEnabled[i] = !scene.FrustumEnabled[i]
		}
	}
}

// sceneAnimationSystem advances the animated rotation angles. Scaling by
// the frame delta keeps the spin rate independent of frame rate.
func sceneAnimationSystem(scene *SceneState, time *Time) {
	angleDelta := mgl32.DegToRad(time.DtSeconds())

	if scene.PairEnabled {
		scene.PairAngles[0] += 20 * angleDelta
		scene.PairAngles[1] += 40 * angleDelta
	}
	if scene.TripletEnabled && scene.TripletAnimating {
		scene.TripletAngle += 40 * angleDelta
	}
}

// sceneDrawSystem rebuilds the draw list from the frame's camera and scene
// snapshot. The active camera's matrices are computed exactly once here;
// everything rendered this frame sees the same view-projection.
func sceneDrawSystem(scene *SceneState, rig *CameraRig, window *WindowState, drawList *DrawList) {
	drawList.clear()

	aspect := window.AspectRatio()
	active := rig.ActiveCamera()
	viewProjection := active.ProjectionMatrix(aspect).Mul4(active.ViewMatrix())

	white := rgba(colornames.White)

	// The two standalone quads compose their model matrix in T*R*S order
	// from whichever factors are enabled.
	quadTranslations := [quadsCount]mgl32.Vec3{
		{-1, 0, 0},
		{1, 0, 0},
	}
	for i := 0; i < quadsCount; i++ {
		if !scene.QuadEnabled[i] {
			continue
		}
		model := mgl32.Ident4()
		if scene.QuadTranslate[i] {
			t := quadTranslations[i]
			model = model.Mul4(mgl32.Translate3D(t.X(), t.Y(), t.Z()))
		}
		if scene.QuadRotate[i] {
			model = model.Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(-85)))
		}
		if scene.QuadScale[i] {
			model = model.Mul4(mgl32.Scale3D(0.2, 1000, 1))
		}
		drawList.Solids = append(drawList.Solids, SolidItem{
			Shape: scene.quadShape,
			Mvp:   viewProjection.Mul4(model),
			Color: white,
		})
	}

	if scene.PairEnabled {
		colors := [2][4]float32{rgba(colornames.Red), rgba(colornames.Blue)}
		translations := [2]mgl32.Vec3{{0, 0, 0}, {1, 0, 0}}
		rotationAxes := [2]mgl32.Vec3{{0, 0, 1}, {1, 0, 0}}
		// The model matrix accumulates across the pair: the second quad's
		// transform chains onto the first, so it orbits the first quad's
		// edge instead of the world origin.
		model := mgl32.Ident4()
		for i := 0; i < 2; i++ {
			t := translations[i]
			model = model.
				Mul4(mgl32.Translate3D(t.X(), t.Y(), t.Z())).
				Mul4(mgl32.HomogRotate3D(scene.PairAngles[i], rotationAxes[i]))
			drawList.Solids = append(drawList.Solids, SolidItem{
				Shape: scene.quadShape,
				Mvp:   viewProjection.Mul4(model),
				Color: colors[i],
			})
		}
	}

	if scene.TripletEnabled {
		colors := [3][4]float32{
			rgba(colornames.White), // up
			rgba(colornames.Red),   // right
			rgba(colornames.Green), // front
		}
		rotationAngles := [3]float32{
			mgl32.DegToRad(-90),
			mgl32.DegToRad(90),
			0,
		}
		rotationAxes := [3]mgl32.Vec3{
			{1, 0, 0},
			{0, 1, 0},
			{0, 0, 1},
		}
		// Base transform spins the whole corner about Y, then the corner
		// sits at (1,1,1); each face rotates into place and steps half a
		// unit out along its normal.
		modelBase := mgl32.HomogRotate3DY(scene.TripletAngle).
			Mul4(mgl32.Translate3D(1, 1, 1))
		for i := 0; i < 3; i++ {
			modelLocal := mgl32.HomogRotate3D(rotationAngles[i], rotationAxes[i]).
				Mul4(mgl32.Translate3D(0, 0, 0.5))
			drawList.Solids = append(drawList.Solids, SolidItem{
				Shape: scene.quadShape,
				Mvp:   viewProjection.Mul4(modelBase).Mul4(modelLocal),
				Color: colors[i],
			})
		}
	}

	for i := 0; i < camerasCount; i++ {
		cam := &rig.Cameras[i]
		if scene.FrustumEnabled[i] {
			// The clip-cube wireframe carried through the camera's
			// inverse projection and inverse view lands on the camera's
			// world-space frustum.
			drawList.Wires = append(drawList.Wires, WireItem{
				Shape: scene.frustumShape,
				Mvp:   viewProjection.Mul4(cam.FrustumModel(aspect)),
				Color: rgba(colornames.Green),
			})
		}
		if scene.PoseEnabled[i] {
			drawList.Poses = append(drawList.Poses, PoseItem{
				Mvp:     viewProjection.Mul4(cam.ViewMatrix().Inv()),
				ProjInv: cam.ProjectionMatrix(aspect).Inv(),
			})
		}
	}
}

func rgba(c color.RGBA) [4]float32 {
	return [4]float32{
		float32(c.R) / 255,
		float32(c.G) / 255,
		float32(c.B) / 255,
		float32(c.A) / 255,
	}
}
