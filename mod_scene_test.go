package transformlab

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func testScene() (*SceneState, *ShapeRegistry) {
	registry := &ShapeRegistry{shapes: make(map[ShapeId]Shape)}
	scene := &SceneState{
		QuadEnabled:  [quadsCount]bool{true, false},
		quadShape:    registry.Add(ShapeTriangles, unitQuadPositions()),
		frustumShape: registry.Add(ShapeLines, clipCubeWirePositions()),
	}
	return scene, registry
}

func testWindow() *WindowState {
	return &WindowState{WindowWidth: 800, WindowHeight: 600}
}

func TestSceneHotkeys(t *testing.T) {
	scene, _ := testScene()
	input := &Input{}

	pressOnce(input, KeyF)
	pressOnce(input, KeyT)
	pressOnce(input, KeyK)
	pressOnce(input, KeyP)
	sceneHotkeysSystem(input, scene)

	if !scene.QuadEnabled[1] {
		t.Errorf("F should show the second quad")
	}
	if !scene.QuadScale[0] {
		t.Errorf("T should enable the first quad's scale factor")
	}
	if scene.QuadScale[1] {
		t.Errorf("T should leave the second quad's scale factor alone")
	}
	if !scene.TripletEnabled {
		t.Errorf("K should show the triplet")
	}
	if !scene.FrustumEnabled[0] {
		t.Errorf("P should show camera 0's frustum")
	}

	// The same edges flip the state back.
	sceneHotkeysSystem(input, scene)
	if scene.QuadEnabled[1] || scene.QuadScale[0] || scene.TripletEnabled || scene.FrustumEnabled[0] {
		t.Errorf("A second press should toggle everything back off")
	}
}

func TestSceneAnimation_ScalesWithDt(t *testing.T) {
	scene, _ := testScene()

	// Nothing spins while the animations are off.
	sceneAnimationSystem(scene, &Time{Dt: time.Second})
	assert.Zero(t, scene.PairAngles[0])
	assert.Zero(t, scene.TripletAngle)

	scene.PairEnabled = true
	sceneAnimationSystem(scene, &Time{Dt: time.Second})
	assert.InDelta(t, float64(mgl32.DegToRad(20)), float64(scene.PairAngles[0]), floatTolerance, "first pair quad spins 20 degrees per second")
	assert.InDelta(t, float64(mgl32.DegToRad(40)), float64(scene.PairAngles[1]), floatTolerance, "second pair quad spins 40 degrees per second")

	// Half the frame time advances half the angle.
	sceneAnimationSystem(scene, &Time{Dt: time.Second / 2})
	assert.InDelta(t, float64(mgl32.DegToRad(30)), float64(scene.PairAngles[0]), floatTolerance)

	// The triplet spins only when shown and animating.
	scene.TripletAnimating = true
	sceneAnimationSystem(scene, &Time{Dt: time.Second})
	assert.Zero(t, scene.TripletAngle, "a hidden triplet should not spin")
	scene.TripletEnabled = true
	sceneAnimationSystem(scene, &Time{Dt: time.Second})
	assert.InDelta(t, float64(mgl32.DegToRad(40)), float64(scene.TripletAngle), floatTolerance)
}

func TestSceneDraw_QuadModelComposition(t *testing.T) {
	scene, _ := testScene()
	rig := NewCameraRig() // camera 0's transforms are disabled: vp is identity
	drawList := &DrawList{}

	sceneDrawSystem(scene, rig, testWindow(), drawList)
	assert.Len(t, drawList.Solids, 1, "only the first quad starts visible")
	mat4Near(t, mgl32.Ident4(), drawList.Solids[0].Mvp, "no factors enabled means an identity model")
	assert.Equal(t, [4]float32{1, 1, 1, 1}, drawList.Solids[0].Color)

	scene.QuadTranslate[0] = true
	scene.QuadRotate[0] = true
	scene.QuadScale[0] = true
	sceneDrawSystem(scene, rig, testWindow(), drawList)

	// Factors compose as translate * rotate * scale, so scale applies
	// first and the translation is unaffected by the rotation.
	expected := mgl32.Translate3D(-1, 0, 0).
		Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(-85))).
		Mul4(mgl32.Scale3D(0.2, 1000, 1))
	mat4Near(t, expected, drawList.Solids[0].Mvp, "quad model should be T*R*S")
}

func TestSceneDraw_PairChainsTransforms(t *testing.T) {
	scene, _ := testScene()
	scene.QuadEnabled[0] = false
	scene.PairEnabled = true
	scene.PairAngles = [2]float32{0.5, 1.0}
	rig := NewCameraRig()
	drawList := &DrawList{}

	sceneDrawSystem(scene, rig, testWindow(), drawList)
	assert.Len(t, drawList.Solids, 2)

	first := mgl32.HomogRotate3D(0.5, mgl32.Vec3{0, 0, 1})
	mat4Near(t, first, drawList.Solids[0].Mvp, "first pair quad spins about Z at the origin")

	// The second quad's transform chains onto the first's, so it orbits
	// the first quad instead of the world origin.
	second := first.
		Mul4(mgl32.Translate3D(1, 0, 0)).
		Mul4(mgl32.HomogRotate3D(1.0, mgl32.Vec3{1, 0, 0}))
	mat4Near(t, second, drawList.Solids[1].Mvp, "second pair quad chains onto the first")
}

func TestSceneDraw_TripletSharesBaseTransform(t *testing.T) {
	scene, _ := testScene()
	scene.QuadEnabled[0] = false
	scene.TripletEnabled = true
	scene.TripletAngle = 0.7
	rig := NewCameraRig()
	drawList := &DrawList{}

	sceneDrawSystem(scene, rig, testWindow(), drawList)
	assert.Len(t, drawList.Solids, 3)

	base := mgl32.HomogRotate3DY(0.7).Mul4(mgl32.Translate3D(1, 1, 1))
	front := base.Mul4(mgl32.Translate3D(0, 0, 0.5))
	mat4Near(t, front, drawList.Solids[2].Mvp, "the front face steps half a unit along +Z of the shared base")

	up := base.
		Mul4(mgl32.HomogRotate3D(mgl32.DegToRad(-90), mgl32.Vec3{1, 0, 0})).
		Mul4(mgl32.Translate3D(0, 0, 0.5))
	mat4Near(t, up, drawList.Solids[0].Mvp, "the up face rotates about X before stepping out")
}

func TestSceneDraw_FrustumAndPose(t *testing.T) {
	scene, _ := testScene()
	scene.QuadEnabled[0] = false
	scene.FrustumEnabled[1] = true
	scene.PoseEnabled[1] = true
	rig := NewCameraRig()
	drawList := &DrawList{}

	window := testWindow()
	sceneDrawSystem(scene, rig, window, drawList)

	assert.Len(t, drawList.Wires, 1)
	assert.Len(t, drawList.Poses, 1)

	aspect := window.AspectRatio()
	posed := &rig.Cameras[1]

	// The active camera's transforms are disabled, so the submitted mvp
	// is the posed camera's frustum model itself.
	mat4Near(t, posed.FrustumModel(aspect), drawList.Wires[0].Mvp, "frustum wireframe mvp")
	assert.Equal(t, scene.frustumShape, drawList.Wires[0].Shape)

	mat4Near(t, posed.ViewMatrix().Inv(), drawList.Poses[0].Mvp, "pose pyramid mvp excludes the inverse projection")
	mat4Near(t, posed.ProjectionMatrix(aspect).Inv(), drawList.Poses[0].ProjInv, "pose pyramid carries the inverse projection separately")
}

func TestSceneDraw_RebuildsFromScratch(t *testing.T) {
	scene, _ := testScene()
	rig := NewCameraRig()
	drawList := &DrawList{}

	sceneDrawSystem(scene, rig, testWindow(), drawList)
	sceneDrawSystem(scene, rig, testWindow(), drawList)
	assert.Len(t, drawList.Solids, 1, "the draw list should be cleared between frames")
}
