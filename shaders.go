package transformlab

import (
	_ "embed"
)

//go:embed shape.wgsl
var shapeWGSL string

//go:embed pose.wgsl
var poseWGSL string
