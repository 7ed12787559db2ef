package geom

type RotationOrder int

const (
	RotationOrderXYZ RotationOrder = iota
	RotationOrderXZY
	RotationOrderYXZ
	RotationOrderYZX
	RotationOrderZXY
	RotationOrderZYX
	// RotationOrderSphericXYZ has no matrix form here; callers are expected
	// to fall back to XYZ.
	RotationOrderSphericXYZ
)

func (o RotationOrder) String() string {
	switch o {
	case RotationOrderXYZ:
		return "XYZ"
	case RotationOrderXZY:
		return "XZY"
	case RotationOrderYXZ:
		return "YXZ"
	case RotationOrderYZX:
		return "YZX"
	case RotationOrderZXY:
		return "ZXY"
	case RotationOrderZYX:
		return "ZYX"
	case RotationOrderSphericXYZ:
		return "SphericXYZ"
	}
	return "XYZ"
}

type EulerAngles struct {
	Vector3
	Order RotationOrder
}

func NewEuler(x, y, z Element, order RotationOrder) *EulerAngles {
	return &EulerAngles{Vector3: Vector3{x, y, z}, Order: order}
}

// ToMatrix4 composes the per-axis rotations in the declared order. The first
// axis in the order name is applied to vectors first.
func (v *EulerAngles) ToMatrix4() *Matrix4 {
	rx := NewRotationXMatrix4(v.X)
	ry := NewRotationYMatrix4(v.Y)
	rz := NewRotationZMatrix4(v.Z)
	switch v.Order {
	case RotationOrderXZY:
		return ry.Mul(rz).Mul(rx)
	case RotationOrderYXZ:
		return rz.Mul(rx).Mul(ry)
	case RotationOrderYZX:
		return rx.Mul(rz).Mul(ry)
	case RotationOrderZXY:
		return ry.Mul(rx).Mul(rz)
	case RotationOrderZYX:
		return rx.Mul(ry).Mul(rz)
	default:
		return rz.Mul(ry).Mul(rx)
	}
}

func (v *EulerAngles) ToQuaternion() *Quaternion {
	return v.ToMatrix4().ExtractRotation()
}
