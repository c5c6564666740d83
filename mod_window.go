package transformlab

import (
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

type WindowState struct {
	windowGlfw   *glfw.Window
	WindowWidth  int
	WindowHeight int
	windowTitle  string
}

// AspectRatio returns width/height of the current framebuffer, the value
// every projection matrix is built against.
func (s *WindowState) AspectRatio() float32 {
	if s.WindowHeight == 0 {
		return 1
	}
	return float32(s.WindowWidth) / float32(s.WindowHeight)
}

type GpuState struct {
	surface       *wgpu.Surface
	adapter       *wgpu.Adapter
	device        *wgpu.Device
	queue         *wgpu.Queue
	surfaceConfig *wgpu.SurfaceConfiguration
}

// WindowModule creates the single GLFW window and the wgpu device behind
// it, and provides both as resources. Setup failures are fatal: there is
// nothing to recover once the window or device cannot be created.
type WindowModule struct {
	Width  int
	Height int
	Title  string
}

func (mod WindowModule) Install(app *App, cmd *Commands) {
	width, height, title := mod.Width, mod.Height, mod.Title
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 600
	}
	if title == "" {
		title = "transformlab"
	}

	windowState := createWindowState(width, height, title)
	gpuState := createGpuState(windowState)

	cmd.AddResources(windowState, gpuState)

	app.UseSystem(
		System(windowSystem).
			InStage(PreUpdate),
	)
}

func createWindowState(windowWidth int, windowHeight int, windowTitle string) *WindowState {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		panic(err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI) // Important: tell GLFW we don't want OpenGL
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(windowWidth, windowHeight, windowTitle, nil, nil)
	if err != nil {
		panic(err)
	}

	return &WindowState{
		windowGlfw:   win,
		WindowWidth:  windowWidth,
		WindowHeight: windowHeight,
		windowTitle:  windowTitle,
	}
}

func createGpuState(s *WindowState) *GpuState {
	instance := wgpu.CreateInstance(nil)
	defer instance.Release()
	// wraps the GLFW window into a wgpu surface
	surface := instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(s.windowGlfw))
	// finds a suitable GPU (discrete GPU preferred)
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		panic(err)
	}
	// allocates the device and command queue
	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label:            "Main Device",
		RequiredFeatures: nil,
		RequiredLimits:   nil,
	})
	if err != nil {
		panic(err)
	}
	queue := device.GetQueue()

	caps := surface.GetCapabilities(adapter)
	// defines how the swapchain behaves (size, format, vsync)
	surfaceConfig := wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(s.WindowWidth),
		Height:      uint32(s.WindowHeight),
		PresentMode: wgpu.PresentModeFifo, // vsync
		AlphaMode:   caps.AlphaModes[0],
	}

	surface.Configure(adapter, device, &surfaceConfig)

	return &GpuState{
		surface:       surface,
		adapter:       adapter,
		device:        device,
		queue:         queue,
		surfaceConfig: &surfaceConfig,
	}
}

// windowSystem keeps the tracked framebuffer size current, reconfigures
// the surface after a resize, and turns a window-close request into an app
// quit.
func windowSystem(s *WindowState, gpuState *GpuState, cmd *Commands) {
	if s.windowGlfw.ShouldClose() {
		cmd.Quit()
		return
	}

	width, height := s.windowGlfw.GetFramebufferSize()
	if width == 0 || height == 0 {
		// Minimized; keep the previous configuration.
		return
	}
	if width != s.WindowWidth || height != s.WindowHeight {
		s.WindowWidth = width
		s.WindowHeight = height
		gpuState.surfaceConfig.Width = uint32(width)
		gpuState.surfaceConfig.Height = uint32(height)
		gpuState.surface.Configure(gpuState.adapter, gpuState.device, gpuState.surfaceConfig)
	}
}
