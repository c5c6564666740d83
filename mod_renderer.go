package transformlab

import (
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// shapeVertex matches the WGSL VertexInput of shape.wgsl.
type shapeVertex struct {
	Pos [3]float32
}

// shapeInstance matches the per-instance attributes of shape.wgsl.
type shapeInstance struct {
	Mvp   mgl32.Mat4
	Color [4]float32
}

// poseVertex matches the WGSL VertexInput of pose.wgsl. W doubles as the
// tip marker: the pyramid tip has w=0 and is exempted from the inverse
// projection in the shader.
type poseVertex struct {
	Pos   [4]float32
	Color [3]float32
}

// poseUniform matches the WGSL PoseUniform of pose.wgsl.
type poseUniform struct {
	Mvp     mgl32.Mat4
	ProjInv mgl32.Mat4
}

// posePyramidVertices is a camera rendered as a pyramid with a
// rectangular base: the base (yellow) spans the posed camera's near clip
// plane, the sides (red) run to the tip at the camera origin.
func posePyramidVertices() []poseVertex {
	base := func(x, y float32) poseVertex {
		return poseVertex{Pos: [4]float32{x, y, -1, 1}, Color: [3]float32{1, 1, 0}}
	}
	side := func(x, y float32) poseVertex {
		return poseVertex{Pos: [4]float32{x, y, -1, 1}, Color: [3]float32{1, 0, 0}}
	}
	tip := poseVertex{Pos: [4]float32{0, 0, 0, 0}, Color: [3]float32{1, 0, 0}}

	return []poseVertex{
		// base
		base(-1, -1), base(-1, 1), base(1, -1),
		base(1, 1), base(1, -1), base(-1, 1),
		// sides
		tip, side(-1, -1), side(1, -1),
		tip, side(1, -1), side(1, 1),
		tip, side(1, 1), side(-1, 1),
		tip, side(-1, 1), side(-1, -1),
	}
}

type gpuShape struct {
	buffer *wgpu.Buffer
	count  uint32
	kind   ShapeKind
}

type instanceBuffer struct {
	buffer   *wgpu.Buffer
	capacity uint32
}

// upload grows the instance buffer when needed and rewrites it with this
// frame's instances.
func (b *instanceBuffer) upload(label string, instances []shapeInstance, gpuState *GpuState) {
	count := uint32(len(instances))
	if count == 0 {
		return
	}
	if b.buffer == nil || b.capacity < count {
		if b.buffer != nil {
			b.buffer.Release()
		}
		b.capacity = count + 64 // margin
		b.buffer, _ = gpuState.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: label,
			Size:  uint64(b.capacity) * uint64(unsafe.Sizeof(shapeInstance{})),
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
	}
	gpuState.queue.WriteBuffer(b.buffer, 0, sliceBytes(instances))
}

type renderState struct {
	solidPipeline *wgpu.RenderPipeline
	wirePipeline  *wgpu.RenderPipeline
	posePipeline  *wgpu.RenderPipeline

	shapes         map[ShapeId]*gpuShape
	solidInstances instanceBuffer
	wireInstances  instanceBuffer

	poseVertexBuffer *wgpu.Buffer
	poseVertexCount  uint32
	poseUniforms     [camerasCount]*wgpu.Buffer
	poseBindGroups   [camerasCount]*wgpu.BindGroup
}

// RendererModule draws the frame's DrawList: instanced triangle-list
// solids, instanced line-list wireframes, and the camera pose pyramids.
// Requires WindowModule and ShapeRegistryModule to be installed first.
type RendererModule struct{}

func (RendererModule) Install(app *App, cmd *Commands) {
	gpuState := mustResource[GpuState](app)

	shapeShader, err := gpuState.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "shape shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shapeWGSL},
	})
	if err != nil {
		panic(err)
	}
	defer shapeShader.Release()

	poseShader, err := gpuState.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "pose shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: poseWGSL},
	})
	if err != nil {
		panic(err)
	}
	defer poseShader.Release()

	rs := &renderState{
		solidPipeline: createShapePipeline("solid pipeline", shapeShader, wgpu.PrimitiveTopologyTriangleList, gpuState),
		wirePipeline:  createShapePipeline("wire pipeline", shapeShader, wgpu.PrimitiveTopologyLineList, gpuState),
		posePipeline:  createPosePipeline("pose pipeline", poseShader, gpuState),
		shapes:        make(map[ShapeId]*gpuShape),
	}

	pyramid := posePyramidVertices()
	rs.poseVertexCount = uint32(len(pyramid))
	rs.poseVertexBuffer, err = gpuState.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "pose pyramid vertices",
		Contents: sliceBytes(pyramid),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		panic(err)
	}

	// One uniform buffer and bind group per camera slot; rewritten each
	// frame a pose is drawn.
	for i := 0; i < camerasCount; i++ {
		rs.poseUniforms[i], err = gpuState.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
			Label:    "pose uniforms",
			Contents: make([]byte, unsafe.Sizeof(poseUniform{})),
			Usage:    wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			panic(err)
		}
		layout := rs.posePipeline.GetBindGroupLayout(0)
		rs.poseBindGroups[i], err = gpuState.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  "pose bind group",
			Layout: layout,
			Entries: []wgpu.BindGroupEntry{
				{
					Binding: 0,
					Buffer:  rs.poseUniforms[i],
					Size:    uint64(unsafe.Sizeof(poseUniform{})),
				},
			},
		})
		layout.Release()
		if err != nil {
			panic(err)
		}
	}

	cmd.AddResources(rs)

	app.UseSystem(
		System(renderSystem).
			InStage(Render),
	)
}

func createShapePipeline(name string, shader *wgpu.ShaderModule, topology wgpu.PrimitiveTopology, gpuState *GpuState) *wgpu.RenderPipeline {
	pipeline, err := gpuState.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: name,
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: uint64(unsafe.Sizeof(shapeVertex{})),
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
					},
				},
				{
					ArrayStride: uint64(unsafe.Sizeof(shapeInstance{})),
					StepMode:    wgpu.VertexStepModeInstance,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 2},
						{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 3},
						{Format: wgpu.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 4},
						{Format: wgpu.VertexFormatFloat32x4, Offset: 48, ShaderLocation: 5},
						{Format: wgpu.VertexFormatFloat32x4, Offset: 64, ShaderLocation: 6},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    gpuState.surfaceConfig.Format,
					Blend:     nil,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  topology,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone, // quads are viewed from both sides
		},
		DepthStencil: nil,
		Multisample: wgpu.MultisampleState{
			Count:                  1,
			Mask:                   0xFFFFFFFF,
			AlphaToCoverageEnabled: false,
		},
	})
	if err != nil {
		panic(err)
	}
	return pipeline
}

func createPosePipeline(name string, shader *wgpu.ShaderModule, gpuState *GpuState) *wgpu.RenderPipeline {
	pipeline, err := gpuState.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: name,
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: uint64(unsafe.Sizeof(poseVertex{})),
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 0},
						{Format: wgpu.VertexFormatFloat32x3, Offset: 16, ShaderLocation: 1},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    gpuState.surfaceConfig.Format,
					Blend:     nil,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: nil,
		Multisample: wgpu.MultisampleState{
			Count:                  1,
			Mask:                   0xFFFFFFFF,
			AlphaToCoverageEnabled: false,
		},
	})
	if err != nil {
		panic(err)
	}
	return pipeline
}

// instanceBatch groups the frame's draw items that share unit geometry,
// so each shape is drawn with a single instanced call.
type instanceBatch struct {
	shape     ShapeId
	instances []shapeInstance
}

func appendInstance(batches []instanceBatch, shape ShapeId, instance shapeInstance) []instanceBatch {
	for i := range batches {
		if batches[i].shape == shape {
			batches[i].instances = append(batches[i].instances, instance)
			return batches
		}
	}
	return append(batches, instanceBatch{shape: shape, instances: []shapeInstance{instance}})
}

func flattenBatches(batches []instanceBatch) []shapeInstance {
	var flat []shapeInstance
	for _, b := range batches {
		flat = append(flat, b.instances...)
	}
	return flat
}

// gpuShapeFor uploads a registered shape on first use and returns its
// vertex buffer.
func (rs *renderState) gpuShapeFor(id ShapeId, registry *ShapeRegistry, gpuState *GpuState) *gpuShape {
	if gs, ok := rs.shapes[id]; ok {
		return gs
	}
	shape, ok := registry.Get(id)
	if !ok {
		panic("draw item references an unregistered shape")
	}
	vertices := make([]shapeVertex, len(shape.Positions))
	for i, p := range shape.Positions {
		vertices[i] = shapeVertex{Pos: p}
	}
	buffer, err := gpuState.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "shape vertices",
		Contents: sliceBytes(vertices),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		panic(err)
	}
	gs := &gpuShape{buffer: buffer, count: uint32(len(vertices)), kind: shape.Kind}
	rs.shapes[id] = gs
	return gs
}

// renderSystem draws one frame from the frame's DrawList snapshot.
func renderSystem(drawList *DrawList, rs *renderState, registry *ShapeRegistry, gpuState *GpuState) {
	nextTexture, err := gpuState.surface.GetCurrentTexture()
	if err != nil {
		panic(err)
	}
	view, err := nextTexture.CreateView(nil)
	if err != nil {
		panic(err)
	}
	defer view.Release()
	encoder, err := gpuState.device.CreateCommandEncoder(nil)
	if err != nil {
		panic(err)
	}
	defer encoder.Release()

	var solidBatches, wireBatches []instanceBatch
	for _, item := range drawList.Solids {
		solidBatches = appendInstance(solidBatches, item.Shape, shapeInstance{Mvp: item.Mvp, Color: item.Color})
	}
	for _, item := range drawList.Wires {
		wireBatches = appendInstance(wireBatches, item.Shape, shapeInstance{Mvp: item.Mvp, Color: item.Color})
	}

	rs.solidInstances.upload("solid instances", flattenBatches(solidBatches), gpuState)
	rs.wireInstances.upload("wire instances", flattenBatches(wireBatches), gpuState)

	for i, pose := range drawList.Poses {
		uniform := poseUniform{Mvp: pose.Mvp, ProjInv: pose.ProjInv}
		gpuState.queue.WriteBuffer(rs.poseUniforms[i], 0, structBytes(&uniform))
	}

	renderPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
			},
		},
	})
	defer renderPass.Release()

	drawBatches := func(pipeline *wgpu.RenderPipeline, buffer *instanceBuffer, batches []instanceBatch) {
		if len(batches) == 0 {
			return
		}
		renderPass.SetPipeline(pipeline)
		renderPass.SetVertexBuffer(1, buffer.buffer, 0, wgpu.WholeSize)
		var firstInstance uint32
		for _, batch := range batches {
			gs := rs.gpuShapeFor(batch.shape, registry, gpuState)
			renderPass.SetVertexBuffer(0, gs.buffer, 0, wgpu.WholeSize)
			renderPass.Draw(gs.count, uint32(len(batch.instances)), 0, firstInstance)
			firstInstance += uint32(len(batch.instances))
		}
	}

	drawBatches(rs.solidPipeline, &rs.solidInstances, solidBatches)
	drawBatches(rs.wirePipeline, &rs.wireInstances, wireBatches)

	if len(drawList.Poses) > 0 {
		renderPass.SetPipeline(rs.posePipeline)
		renderPass.SetVertexBuffer(0, rs.poseVertexBuffer, 0, wgpu.WholeSize)
		for i := range drawList.Poses {
			renderPass.SetBindGroup(0, rs.poseBindGroups[i], nil)
			renderPass.Draw(rs.poseVertexCount, 1, 0, 0)
		}
	}

	err = renderPass.End()
	if err != nil {
		panic(err)
	}

	cmdBuffer, err := encoder.Finish(nil)
	if err != nil {
		panic(err)
	}
	defer cmdBuffer.Release()

	gpuState.queue.Submit(cmdBuffer)
	gpuState.surface.Present()
}

func sliceBytes[E any](s []E) []byte {
	if len(s) == 0 {
		return nil
	}
	var elem E
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*int(unsafe.Sizeof(elem)))
}

func structBytes[E any](e *E) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(e)), unsafe.Sizeof(*e))
}
