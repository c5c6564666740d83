package transformlab

import (
	"github.com/google/uuid"
)

type ShapeId string

type ShapeKind int

const (
	ShapeTriangles ShapeKind = iota
	ShapeLines
)

// Shape is immutable unit geometry, registered once and referenced by id
// from draw items. The renderer uploads a shape to the GPU the first time
// an item references it.
type Shape struct {
	Kind      ShapeKind
	Positions [][3]float32
}

type ShapeRegistry struct {
	shapes map[ShapeId]Shape
}

type ShapeRegistryModule struct{}

func (ShapeRegistryModule) Install(app *App, cmd *Commands) {
	app.addResources(&ShapeRegistry{
		shapes: make(map[ShapeId]Shape),
	})
}

func (r *ShapeRegistry) Add(kind ShapeKind, positions [][3]float32) ShapeId {
	id := makeShapeId()
	r.shapes[id] = Shape{Kind: kind, Positions: positions}
	return id
}

func (r *ShapeRegistry) Get(id ShapeId) (Shape, bool) {
	shape, ok := r.shapes[id]
	return shape, ok
}

func makeShapeId() ShapeId {
	return ShapeId(uuid.NewString())
}

// unitQuadPositions spans (±0.5, ±0.5, 0) as two triangles.
func unitQuadPositions() [][3]float32 {
	return [][3]float32{
		{-0.5, -0.5, 0}, // lower left
		{0.5, -0.5, 0},  // lower right
		{-0.5, 0.5, 0},  // upper left
		{0.5, 0.5, 0},   // upper right
		{-0.5, 0.5, 0},  // upper left
		{0.5, -0.5, 0},  // lower right
	}
}

// clipCubeWirePositions lists the 12 edges of the canonical clip cube
// (corners at ±1) as a line list. A frustum wireframe is this cube drawn
// through a camera's inverse projection and inverse view.
func clipCubeWirePositions() [][3]float32 {
	var lines [][3]float32
	edge := func(a, b [3]float32) {
		lines = append(lines, a, b)
	}

	near := [4][3]float32{{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1}}
	far := [4][3]float32{{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1}}
	for i := 0; i < 4; i++ {
		edge(near[i], near[(i+1)%4]) // near loop
		edge(far[i], far[(i+1)%4])   // far loop
		edge(near[i], far[i])        // connecting edge
	}
	return lines
}
