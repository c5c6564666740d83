package transformlab

import (
	"github.com/go-gl/mathgl/mgl32"
)

const camerasCount = 2

// initialCameras fixes the startup state of both camera slots. Camera 0
// starts with both transforms disabled so the first thing on screen is the
// raw, untransformed scene; camera 1 hovers above and behind it with a
// full view-projection applied.
var initialCameras = [camerasCount]Camera{
	{
		Position:          mgl32.Vec3{0, 0, 1},
		Yaw:               mgl32.DegToRad(-90),
		Pitch:             0,
		Projection:        Perspective,
		Fov:               mgl32.DegToRad(45),
		OrthoHalfHeight:   2,
		Near:              0.1,
		Far:               10,
		ViewEnabled:       false,
		ProjectionEnabled: false,
	},
	{
		Position:          mgl32.Vec3{-5, 3, 1},
		Yaw:               0,
		Pitch:             mgl32.DegToRad(-30),
		Projection:        Perspective,
		Fov:               mgl32.DegToRad(45),
		OrthoHalfHeight:   2,
		Near:              0.1,
		Far:               50,
		ViewEnabled:       true,
		ProjectionEnabled: true,
	},
}

// CameraRig owns the two demo cameras. Active selects the viewpoint that
// is rendered and flown; FovControl selects the camera whose projection
// parameter the scroll wheel adjusts. The two indices are independent and
// may point at different cameras.
type CameraRig struct {
	Cameras    [camerasCount]Camera
	Active     int
	FovControl int
}

func NewCameraRig() *CameraRig {
	return &CameraRig{Cameras: initialCameras}
}

func (rig *CameraRig) ActiveCamera() *Camera {
	return &rig.Cameras[rig.Active]
}

func (rig *CameraRig) FovControlCamera() *Camera {
	return &rig.Cameras[rig.FovControl]
}

// Reset restores camera i's pose and zoom parameters to their startup
// values. The projection kind and enable toggles survive a reset.
func (rig *CameraRig) Reset(i int) {
	cam := &rig.Cameras[i]
	initial := &initialCameras[i]
	cam.Position = initial.Position
	cam.Yaw = initial.Yaw
	cam.Pitch = initial.Pitch
	cam.Fov = initial.Fov
	cam.OrthoHalfHeight = initial.OrthoHalfHeight
}

// CameraModule installs the rig and its control systems.
//
// Bindings: Tab captures/releases the cursor; 1/2 reset a camera; Q cycles
// the active camera; E cycles the fov-control camera; Z/X toggle a
// camera's projection kind; C/V toggle view matrices; B/N toggle
// projection matrices; WASD flies the active camera; the mouse steers it;
// the scroll wheel zooms the fov-control camera.
type CameraModule struct {
	Sensitivity float32
	Speed       float32
}

func (mod CameraModule) Install(app *App, cmd *Commands) {
	sensitivity := mod.Sensitivity
	if sensitivity == 0 {
		sensitivity = defaultSensitivity
	}
	speed := mod.Speed
	if speed == 0 {
		speed = defaultCameraSpeed
	}

	cmd.AddResources(NewCameraRig())

	ctl := &cameraController{
		log:         app.Logger(),
		sensitivity: sensitivity,
		speed:       speed,
	}
	app.UseSystem(
		System(ctl.hotkeysSystem).
			InStage(Update),
	)
	app.UseSystem(
		System(ctl.controlSystem).
			InStage(Update),
	)
}

const (
	defaultSensitivity = 0.1
	defaultCameraSpeed = 2.5
)

type cameraController struct {
	log         Logger
	sensitivity float32
	speed       float32
}

// hotkeysSystem handles the edge-triggered bindings. JustPressed fires
// once per physical press, however long the key is held.
func (ctl *cameraController) hotkeysSystem(input *Input, rig *CameraRig) {
	if input.JustPressed[KeyTab] {
		input.MouseCaptured = !input.MouseCaptured
	}

	if input.JustPressed[Key1] {
		rig.Reset(0)
	}
	if input.JustPressed[Key2] {
		rig.Reset(1)
	}

	if input.JustPressed[KeyQ] {
		rig.Active = (rig.Active + 1) % camerasCount
		ctl.log.Infof("Camera control: %d", rig.Active)
	}
	if input.JustPressed[KeyE] {
		rig.FovControl = (rig.FovControl + 1) % camerasCount
		ctl.log.Infof("FoV control: camera %d", rig.FovControl)
	}

	projectionToggles := [camerasCount]int{KeyZ, KeyX}
	viewEnableToggles := [camerasCount]int{KeyC, KeyV}
	projectionEnableToggles := [camerasCount]int{KeyB, KeyN}
	for i := 0; i < camerasCount; i++ {
		cam := &rig.Cameras[i]
		if input.JustPressed[projectionToggles[i]] {
			if cam.Projection == Perspective {
				cam.Projection = Orthographic
			} else {
				cam.Projection = Perspective
			}
			ctl.log.Infof("Camera %d projection: %s", i, cam.Projection)
		}
		if input.JustPressed[viewEnableToggles[i]] {
			cam.ViewEnabled = !cam.ViewEnabled
		}
		if input.JustPressed[projectionEnableToggles[i]] {
			cam.ProjectionEnabled = !cam.ProjectionEnabled
		}
	}
}

// controlSystem applies the continuous inputs: held-key movement of the
// active camera, mouse look, and scroll zoom.
func (ctl *cameraController) controlSystem(input *Input, rig *CameraRig, time *Time) {
	step := ctl.speed * time.DtSeconds()
	active := rig.ActiveCamera()

	if input.Pressed[KeyW] {
		active.Move(MoveForward, step)
	}
	if input.Pressed[KeyS] {
		active.Move(MoveBackward, step)
	}
	if input.Pressed[KeyA] {
		active.Move(MoveLeft, step)
	}
	if input.Pressed[KeyD] {
		active.Move(MoveRight, step)
	}

	// Mouse steering is gated on the active camera's view toggle, so the
	// "view disabled" teaching mode holds its orientation still.
	if input.MouseCaptured && active.ViewEnabled {
		active.MouseLook(float32(input.MouseDeltaX), float32(input.MouseDeltaY), ctl.sensitivity)
	}

	// Zoom targets the fov-control camera, active or not, but only while
	// its projection is enabled.
	if input.ScrollY != 0 {
		fovCam := rig.FovControlCamera()
		if fovCam.ProjectionEnabled {
			fovCam.AdjustZoom(float32(input.ScrollY))
		}
	}
}
