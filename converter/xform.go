package converter

import (
	"github.com/mashiro3d/fbx2usd/geom"
)

// Xform op names. Scale and rotate pivots are collapsed into one
// translate pivot op and its inverse, bracketing the rotate and scale ops;
// that is the only op arrangement the common transform API accepts.
const (
	opTranslate    = "xformOp:translate"
	opPivot        = "xformOp:translate:pivot"
	opPivotInverse = "!invert!xformOp:translate:pivot"
	opScale        = "xformOp:scale"
)

var rotateOpNames = map[geom.RotationOrder]string{
	geom.RotationOrderXYZ: "xformOp:rotateXYZ",
	geom.RotationOrderXZY: "xformOp:rotateXZY",
	geom.RotationOrderYXZ: "xformOp:rotateYXZ",
	geom.RotationOrderYZX: "xformOp:rotateYZX",
	geom.RotationOrderZXY: "xformOp:rotateZXY",
	geom.RotationOrderZYX: "xformOp:rotateZYX",
}

// rotateOpName maps a rotation order to its op name. SphericXYZ has no op
// form; it falls back to XYZ and the second return is false.
func rotateOpName(order geom.RotationOrder) (string, bool) {
	if name, ok := rotateOpNames[order]; ok {
		return name, true
	}
	return rotateOpNames[geom.RotationOrderXYZ], false
}

// xformOpOrder returns the fixed op sequence for a node's transform.
func xformOpOrder(rotateOp string) []string {
	return []string{opTranslate, opPivot, rotateOp, opScale, opPivotInverse}
}
