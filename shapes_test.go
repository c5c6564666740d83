package transformlab

import (
	"testing"
)

func TestShapeRegistry_AddAndGet(t *testing.T) {
	registry := &ShapeRegistry{shapes: make(map[ShapeId]Shape)}

	id := registry.Add(ShapeTriangles, unitQuadPositions())
	shape, ok := registry.Get(id)
	if !ok {
		t.Fatalf("Expected the registered shape to be retrievable")
	}
	if shape.Kind != ShapeTriangles {
		t.Errorf("Expected kind %v, got %v", ShapeTriangles, shape.Kind)
	}
	if len(shape.Positions) != 6 {
		t.Errorf("Expected 6 quad vertices, got %d", len(shape.Positions))
	}

	if _, ok := registry.Get(ShapeId("missing")); ok {
		t.Errorf("Expected a lookup of an unknown id to fail")
	}

	other := registry.Add(ShapeLines, clipCubeWirePositions())
	if other == id {
		t.Errorf("Expected distinct shapes to get distinct ids")
	}
}

func TestUnitQuadPositions(t *testing.T) {
	positions := unitQuadPositions()
	for _, p := range positions {
		if p[0] != 0.5 && p[0] != -0.5 {
			t.Errorf("Quad x should be ±0.5, got %v", p[0])
		}
		if p[1] != 0.5 && p[1] != -0.5 {
			t.Errorf("Quad y should be ±0.5, got %v", p[1])
		}
		if p[2] != 0 {
			t.Errorf("Quad should lie in the z=0 plane, got %v", p[2])
		}
	}
}

func TestClipCubeWirePositions(t *testing.T) {
	lines := clipCubeWirePositions()

	// 12 edges as a line list.
	if len(lines) != 24 {
		t.Fatalf("Expected 24 line-list vertices, got %d", len(lines))
	}

	edges := make(map[[2][3]float32]bool)
	for i := 0; i < len(lines); i += 2 {
		a, b := lines[i], lines[i+1]
		if a == b {
			t.Errorf("Degenerate edge at %v", a)
		}
		// Every edge of an axis-aligned cube differs in exactly one axis.
		differing := 0
		for axis := 0; axis < 3; axis++ {
			if a[axis] != b[axis] {
				differing++
			}
		}
		if differing != 1 {
			t.Errorf("Edge %v-%v is not axis aligned", a, b)
		}
		edges[[2][3]float32{a, b}] = true
	}
	if len(edges) != 12 {
		t.Errorf("Expected 12 distinct edges, got %d", len(edges))
	}
}
