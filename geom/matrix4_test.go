package geom

import (
	"math"
	"testing"
)

func TestTRSMatrix4(t *testing.T) {
	const eps = 0.000001

	pos := &Vector3{X: 1, Y: 2, Z: 3}
	rot := NewEuler(10*math.Pi/180, 20*math.Pi/180, 30*math.Pi/180, RotationOrderZXY).ToQuaternion()
	scale := &Vector3{X: 1.5, Y: 1.6, Z: 1.7}

	mat := NewTRSMatrix4(pos, rot, scale)

	if mat.GetT().Sub(pos).Len() > eps {
		t.Error("pos: ", pos, mat.GetT())
	}
	if mat.GetS().Sub(scale).Len() > eps {
		t.Error("scale: ", scale, mat.GetS())
	}
	rot1 := mat.ExtractRotation()
	if rot.Sub(rot1).Len() > eps && rot.Add(rot1).Len() > eps {
		t.Error("rot: ", rot, rot1)
	}
}

func TestMatrix4SetS(t *testing.T) {
	const eps = 0.000001

	pos := &Vector3{X: 5, Y: -1, Z: 2}
	rot := NewEuler(40*math.Pi/180, 0, 15*math.Pi/180, RotationOrderXYZ).ToQuaternion()
	mat := NewTRSMatrix4(pos, rot, &Vector3{X: 2, Y: 3, Z: 4})

	mat.SetS(&Vector3{X: 1, Y: 1, Z: 1})

	if mat.GetS().Sub(&Vector3{X: 1, Y: 1, Z: 1}).Len() > eps {
		t.Error("scale: ", mat.GetS())
	}
	if mat.GetT().Sub(pos).Len() > eps {
		t.Error("pos: ", mat.GetT())
	}
	rot1 := mat.ExtractRotation()
	if rot.Sub(rot1).Len() > eps && rot.Add(rot1).Len() > eps {
		t.Error("rot: ", rot, rot1)
	}
}

func TestMatrix4Inverse(t *testing.T) {
	const eps = 0.000001

	rot := NewEuler(25*math.Pi/180, -10*math.Pi/180, 5*math.Pi/180, RotationOrderYZX).ToQuaternion()
	mat := NewTRSMatrix4(&Vector3{X: 3, Y: 1, Z: -2}, rot, &Vector3{X: 2, Y: 2, Z: 2})

	identity := mat.Mul(mat.Inverse())
	expect := NewMatrix4()
	for i := range identity {
		if math.Abs(identity[i]-expect[i]) > eps {
			t.Fatal("not identity: ", identity)
		}
	}
}

func TestMatrix4ApplyTo(t *testing.T) {
	const eps = 0.000001

	mat := NewTranslateMatrix4(1, 2, 3).Mul(NewScaleMatrix4(2, 2, 2))
	v := mat.ApplyTo(&Vector3{X: 1, Y: 1, Z: 1})
	if v.Sub(&Vector3{X: 3, Y: 4, Z: 5}).Len() > eps {
		t.Error("apply: ", v)
	}

	rx := NewRotationXMatrix4(math.Pi / 2)
	v = rx.ApplyTo(&Vector3{Y: 1})
	if v.Sub(&Vector3{Z: 1}).Len() > eps {
		t.Error("rotation convention: ", v)
	}
}
