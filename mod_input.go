package transformlab

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	KeyA int = iota
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	Key1
	Key2
	KeyComma
	KeySpace
	KeyEscape
	KeyTab
	keyCount
)

type InputModule struct{}

// Input is the per-frame event snapshot: all pending window events are
// consumed at the start of the frame (PreUpdate) and exposed here as plain
// state, so update systems never see mid-frame mutation.
type Input struct {
	Pressed [keyCount]bool

	JustPressed  [keyCount]bool
	JustReleased [keyCount]bool

	MouseX, MouseY           float64
	MouseDeltaX, MouseDeltaY float64
	MouseCaptured            bool

	// Scroll offsets accumulated by the GLFW callback since the previous
	// frame, published for exactly one frame.
	ScrollX, ScrollY float64

	pendingScrollX, pendingScrollY float64
	mouseFresh                     bool
	wasCaptured                    bool
}

func (mod InputModule) Install(app *App, cmd *Commands) {
	input := &Input{
		MouseCaptured: true,
		mouseFresh:    true,
	}
	cmd.AddResources(input)
	app.UseSystem(
		System(inputSystem).
			InStage(PreUpdate),
	)
}

// applyKeyEdge folds one sampled key state into the pressed/edge arrays.
// JustPressed and JustReleased fire only on the frame of the transition,
// which is what turns "held every frame" into "acts once per press".
func applyKeyEdge(input *Input, key int, down bool) {
	input.JustPressed[key] = false
	input.JustReleased[key] = false

	if down {
		if !input.Pressed[key] {
			input.JustPressed[key] = true
		}
		input.Pressed[key] = true
	} else {
		if input.Pressed[key] {
			input.JustReleased[key] = true
		}
		input.Pressed[key] = false
	}
}

func inputSystem(s *WindowState, input *Input, cmd *Commands) {
	// Register the scroll callback once; GLFW delivers scroll only through
	// callbacks, so offsets are accumulated and drained once per frame.
	s.windowGlfw.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		input.pendingScrollX += xoff
		input.pendingScrollY += yoff
	})

	glfw.PollEvents()

	for key, glfwKey := range keyToGlfw {
		applyKeyEdge(input, key, s.windowGlfw.GetKey(glfwKey) == glfw.Press)
	}

	// Publish scroll accumulated during PollEvents.
	input.ScrollX, input.ScrollY = input.pendingScrollX, input.pendingScrollY
	input.pendingScrollX, input.pendingScrollY = 0, 0

	// Re-acquiring the cursor leaves the last known position stale; treat
	// the next sample as a reference reset so the view doesn't jump.
	if input.MouseCaptured && !input.wasCaptured {
		input.mouseFresh = true
	}
	input.wasCaptured = input.MouseCaptured

	mx, my := s.windowGlfw.GetCursorPos()
	if input.mouseFresh {
		input.MouseX, input.MouseY = mx, my
		input.mouseFresh = false
	}
	if input.MouseCaptured {
		input.MouseDeltaX = mx - input.MouseX
		input.MouseDeltaY = my - input.MouseY
	} else {
		input.MouseDeltaX = 0
		input.MouseDeltaY = 0
	}
	input.MouseX = mx
	input.MouseY = my

	if input.MouseCaptured {
		s.windowGlfw.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	} else {
		s.windowGlfw.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	}

	if input.JustPressed[KeyEscape] {
		cmd.Quit()
	}
}

var keyToGlfw = map[int]glfw.Key{
	KeyA:      glfw.KeyA,
	KeyB:      glfw.KeyB,
	KeyC:      glfw.KeyC,
	KeyD:      glfw.KeyD,
	KeyE:      glfw.KeyE,
	KeyF:      glfw.KeyF,
	KeyG:      glfw.KeyG,
	KeyH:      glfw.KeyH,
	KeyI:      glfw.KeyI,
	KeyJ:      glfw.KeyJ,
	KeyK:      glfw.KeyK,
	KeyL:      glfw.KeyL,
	KeyM:      glfw.KeyM,
	KeyN:      glfw.KeyN,
	KeyO:      glfw.KeyO,
	KeyP:      glfw.KeyP,
	KeyQ:      glfw.KeyQ,
	KeyR:      glfw.KeyR,
	KeyS:      glfw.KeyS,
	KeyT:      glfw.KeyT,
	KeyU:      glfw.KeyU,
	KeyV:      glfw.KeyV,
	KeyW:      glfw.KeyW,
	KeyX:      glfw.KeyX,
	KeyY:      glfw.KeyY,
	KeyZ:      glfw.KeyZ,
	Key1:      glfw.Key1,
	Key2:      glfw.Key2,
	KeyComma:  glfw.KeyComma,
	KeySpace:  glfw.KeySpace,
	KeyEscape: glfw.KeyEscape,
	KeyTab:    glfw.KeyTab,
}
