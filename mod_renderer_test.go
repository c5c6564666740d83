package transformlab

import (
	"testing"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

func TestInstanceBatching(t *testing.T) {
	quad := ShapeId("quad")
	cube := ShapeId("cube")

	var batches []instanceBatch
	batches = appendInstance(batches, quad, shapeInstance{Color: [4]float32{1, 0, 0, 1}})
	batches = appendInstance(batches, cube, shapeInstance{Color: [4]float32{0, 1, 0, 1}})
	batches = appendInstance(batches, quad, shapeInstance{Color: [4]float32{0, 0, 1, 1}})

	if len(batches) != 2 {
		t.Fatalf("Expected 2 batches, got %d", len(batches))
	}
	if batches[0].shape != quad || len(batches[0].instances) != 2 {
		t.Errorf("Expected the quad batch to collect both quad instances")
	}
	if batches[1].shape != cube || len(batches[1].instances) != 1 {
		t.Errorf("Expected the cube batch to hold one instance")
	}

	// The flattened order must match the per-batch draw ranges: all quad
	// instances first, then the cube's.
	flat := flattenBatches(batches)
	if len(flat) != 3 {
		t.Fatalf("Expected 3 flattened instances, got %d", len(flat))
	}
	if flat[0].Color != [4]float32{1, 0, 0, 1} || flat[1].Color != [4]float32{0, 0, 1, 1} {
		t.Errorf("Flattening should keep batch-relative instance order")
	}
	if flat[2].Color != [4]float32{0, 1, 0, 1} {
		t.Errorf("Batches should flatten in first-appearance order")
	}
}

func TestPosePyramidVertices(t *testing.T) {
	vertices := posePyramidVertices()

	// A two-triangle base plus four triangular sides.
	if len(vertices) != 18 {
		t.Fatalf("Expected 18 pyramid vertices, got %d", len(vertices))
	}

	tips := 0
	for _, v := range vertices {
		if v.Pos[3] == 0 {
			// The tip is the only w=0 vertex: the shader keeps it at the
			// camera origin instead of pushing it through the inverse
			// projection.
			tips++
			if v.Pos != [4]float32{0, 0, 0, 0} {
				t.Errorf("The tip should sit at the camera origin, got %v", v.Pos)
			}
			continue
		}
		if v.Pos[2] != -1 {
			t.Errorf("Base vertices should lie on the near clip plane, got %v", v.Pos)
		}
	}
	if tips != 4 {
		t.Errorf("Expected one tip vertex per side triangle, got %d", tips)
	}
}

func TestGpuLayoutSizes(t *testing.T) {
	// The struct layouts are mirrored in WGSL; a drifted size means the
	// vertex attributes or the uniform block no longer line up.
	if size := unsafe.Sizeof(shapeVertex{}); size != 12 {
		t.Errorf("Expected a 12-byte shape vertex, got %d", size)
	}
	if size := unsafe.Sizeof(shapeInstance{}); size != 80 {
		t.Errorf("Expected an 80-byte shape instance, got %d", size)
	}
	if size := unsafe.Sizeof(poseVertex{}); size != 28 {
		t.Errorf("Expected a 28-byte pose vertex, got %d", size)
	}
	if size := unsafe.Sizeof(poseUniform{}); size != 128 {
		t.Errorf("Expected a 128-byte pose uniform block, got %d", size)
	}
}

func TestSliceBytes(t *testing.T) {
	instances := []shapeInstance{{Mvp: mgl32.Ident4()}}
	raw := sliceBytes(instances)
	if len(raw) != 80 {
		t.Errorf("Expected 80 bytes for one instance, got %d", len(raw))
	}
	if sliceBytes([]shapeInstance(nil)) != nil {
		t.Errorf("An empty slice should convert to nil")
	}
}
