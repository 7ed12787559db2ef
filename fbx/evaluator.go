package fbx

import (
	"math"

	"github.com/mashiro3d/fbx2usd/geom"
)

// Evaluator computes node transforms and property values at arbitrary times,
// resolving animation curves on the document's default layer.
type Evaluator struct {
	doc *Document
}

// staticChannel returns the unanimated value of one channel of a property.
func staticChannel(p *Property, channel int) float64 {
	if p == nil {
		return 0
	}
	switch v := p.Value.(type) {
	case *geom.Vector2:
		switch channel {
		case 0:
			return v.X
		case 1:
			return v.Y
		}
	case *geom.Vector3:
		switch channel {
		case 0:
			return v.X
		case 1:
			return v.Y
		case 2:
			return v.Z
		}
	case *geom.Vector4:
		switch channel {
		case 0:
			return v.X
		case 1:
			return v.Y
		case 2:
			return v.Z
		case 3:
			return v.W
		}
	case *geom.Matrix4:
		if channel >= 0 && channel < 16 {
			return v[channel]
		}
	default:
		if channel == 0 {
			return p.ToFloat(0)
		}
	}
	return 0
}

// PropertyChannel evaluates one channel of a property at time t, falling
// back to the static value when no curve drives the channel.
func (e *Evaluator) PropertyChannel(p *Property, layer *AnimLayer, channel int, t Time) float64 {
	if c := p.CurveNode(layer).Curve(channel); c != nil {
		return c.Evaluate(t)
	}
	return staticChannel(p, channel)
}

// PropertyValue evaluates the first channel of a property at time t.
func (e *Evaluator) PropertyValue(p *Property, t Time) float64 {
	return e.PropertyChannel(p, e.doc.DefaultAnimLayer(), 0, t)
}

func (e *Evaluator) vector3At(p *Property, t Time) *geom.Vector3 {
	layer := e.doc.DefaultAnimLayer()
	return &geom.Vector3{
		X: e.PropertyChannel(p, layer, 0, t),
		Y: e.PropertyChannel(p, layer, 1, t),
		Z: e.PropertyChannel(p, layer, 2, t),
	}
}

const degToRad = math.Pi / 180

// NodeLocalTransform composes the node's local matrix at time t:
// translate, pivot, pre-rotation, rotation, scale, inverse pivot.
func (e *Evaluator) NodeLocalTransform(n *Node, t Time) *geom.Matrix4 {
	tr := e.vector3At(n.Translation, t)
	rot := e.vector3At(n.Rotation, t).Scale(degToRad)
	pre := n.PreRotation.ToVector3(0, 0, 0).Scale(degToRad)
	sc := e.vector3At(n.Scaling, t)
	pivot := e.vector3At(n.RotationPivot, t)

	m := geom.NewTranslateMatrix4(tr.X, tr.Y, tr.Z)
	m = m.Mul(geom.NewTranslateMatrix4(pivot.X, pivot.Y, pivot.Z))
	if pre.X != 0 || pre.Y != 0 || pre.Z != 0 {
		m = m.Mul(geom.NewEuler(pre.X, pre.Y, pre.Z, geom.RotationOrderXYZ).ToMatrix4())
	}
	m = m.Mul(geom.NewEuler(rot.X, rot.Y, rot.Z, rotationOrderOrDefault(n.RotationOrder)).ToMatrix4())
	m = m.Mul(geom.NewScaleMatrix4(sc.X, sc.Y, sc.Z))
	m = m.Mul(geom.NewTranslateMatrix4(-pivot.X, -pivot.Y, -pivot.Z))
	return m
}

// NodeWorldTransform composes local transforms from the root down to n.
func (e *Evaluator) NodeWorldTransform(n *Node, t Time) *geom.Matrix4 {
	if n.Parent == nil {
		return e.NodeLocalTransform(n, t)
	}
	return e.NodeWorldTransform(n.Parent, t).Mul(e.NodeLocalTransform(n, t))
}

func rotationOrderOrDefault(o geom.RotationOrder) geom.RotationOrder {
	if o == geom.RotationOrderSphericXYZ {
		return geom.RotationOrderXYZ
	}
	return o
}

// BakePivotAnimation folds the node's pre-rotation into its rotation
// property, rewriting static values and any rotation curves so that the
// remaining transform stack is translate/pivot/rotate/scale/inverse-pivot.
// It mutates the node and must run once, before any transform read, and
// never concurrently with other reads of the node's rotation data.
func (n *Node) BakePivotAnimation(layer *AnimLayer) {
	if n.pivotBaked {
		return
	}
	n.pivotBaked = true

	pre := n.PreRotation.ToVector3(0, 0, 0)
	if pre.X == 0 && pre.Y == 0 && pre.Z == 0 {
		return
	}
	preMat := geom.NewEuler(pre.X*degToRad, pre.Y*degToRad, pre.Z*degToRad, geom.RotationOrderXYZ).ToMatrix4()
	order := rotationOrderOrDefault(n.RotationOrder)

	bake := func(rot *geom.Vector3) *geom.Vector3 {
		m := preMat.Mul(geom.NewEuler(rot.X*degToRad, rot.Y*degToRad, rot.Z*degToRad, order).ToMatrix4())
		// Euler recovery supports the XYZ family; composite orders bake
		// through the quaternion path below.
		q := m.ExtractRotation()
		e := eulerFromQuaternion(q, order)
		return e.Scale(1 / degToRad)
	}

	if cn := n.Rotation.CurveNode(layer); cn.HasCurves() {
		times := map[Time]bool{}
		for _, c := range cn.Channels {
			if c == nil {
				continue
			}
			for _, k := range c.Keys {
				times[k.Time] = true
			}
		}
		ordered := make([]Time, 0, len(times))
		for t := range times {
			ordered = append(ordered, t)
		}
		sortTimes(ordered)
		baked := make([]*geom.Vector3, len(ordered))
		for i, t := range ordered {
			rot := &geom.Vector3{
				X: channelOrStatic(cn.Curve(0), n.Rotation, 0, t),
				Y: channelOrStatic(cn.Curve(1), n.Rotation, 1, t),
				Z: channelOrStatic(cn.Curve(2), n.Rotation, 2, t),
			}
			baked[i] = bake(rot)
		}
		for ch := 0; ch < 3; ch++ {
			keys := make([]Key, len(ordered))
			for i, t := range ordered {
				var v float64
				switch ch {
				case 0:
					v = baked[i].X
				case 1:
					v = baked[i].Y
				case 2:
					v = baked[i].Z
				}
				keys[i] = Key{Time: t, Value: v}
			}
			n.Rotation.SetCurve(layer, ch, NewCurve(keys...))
		}
	}

	n.Rotation.Value = bake(n.Rotation.ToVector3(0, 0, 0))
	n.PreRotation.Value = &geom.Vector3{}
}

func channelOrStatic(c *Curve, p *Property, channel int, t Time) float64 {
	if c != nil {
		return c.Evaluate(t)
	}
	return staticChannel(p, channel)
}

func sortTimes(ts []Time) {
	for i := 1; i < len(ts); i++ {
		for j := i; j > 0 && ts[j] < ts[j-1]; j-- {
			ts[j], ts[j-1] = ts[j-1], ts[j]
		}
	}
}

func eulerFromQuaternion(q *geom.Quaternion, order geom.RotationOrder) *geom.Vector3 {
	m := geom.NewRotationMatrix4FromQuaternion(q)
	// Element (row r, col c) of the column-major matrix.
	at := func(r, c int) float64 { return m[c*4+r] }
	clamp := func(v float64) float64 { return math.Max(-1, math.Min(v, 1)) }

	v := &geom.Vector3{}
	switch order {
	case geom.RotationOrderYXZ:
		v.X = math.Asin(-clamp(at(1, 2)))
		if math.Abs(at(1, 2)) < 1-1e-9 {
			v.Y = math.Atan2(at(0, 2), at(2, 2))
			v.Z = math.Atan2(at(1, 0), at(1, 1))
		} else {
			v.Y = math.Atan2(-at(2, 0), at(0, 0))
		}
	case geom.RotationOrderZXY:
		v.X = math.Asin(clamp(at(2, 1)))
		if math.Abs(at(2, 1)) < 1-1e-9 {
			v.Y = math.Atan2(-at(2, 0), at(2, 2))
			v.Z = math.Atan2(-at(0, 1), at(1, 1))
		} else {
			v.Z = math.Atan2(at(1, 0), at(0, 0))
		}
	case geom.RotationOrderZYX:
		v.Y = math.Asin(-clamp(at(2, 0)))
		if math.Abs(at(2, 0)) < 1-1e-9 {
			v.X = math.Atan2(at(2, 1), at(2, 2))
			v.Z = math.Atan2(at(1, 0), at(0, 0))
		} else {
			v.Z = math.Atan2(-at(0, 1), at(1, 1))
		}
	case geom.RotationOrderXZY:
		v.Z = math.Asin(-clamp(at(0, 1)))
		if math.Abs(at(0, 1)) < 1-1e-9 {
			v.X = math.Atan2(at(2, 1), at(1, 1))
			v.Y = math.Atan2(at(0, 2), at(0, 0))
		} else {
			v.X = math.Atan2(-at(1, 2), at(2, 2))
		}
	case geom.RotationOrderYZX:
		v.Z = math.Asin(clamp(at(1, 0)))
		if math.Abs(at(1, 0)) < 1-1e-9 {
			v.X = math.Atan2(-at(1, 2), at(1, 1))
			v.Y = math.Atan2(-at(2, 0), at(0, 0))
		} else {
			v.Y = math.Atan2(at(0, 2), at(2, 2))
		}
	default: // XYZ
		v.Y = math.Asin(clamp(at(0, 2)))
		if math.Abs(at(0, 2)) < 1-1e-9 {
			v.X = math.Atan2(-at(1, 2), at(2, 2))
			v.Z = math.Atan2(-at(0, 1), at(0, 0))
		} else {
			v.X = math.Atan2(at(2, 1), at(1, 1))
		}
	}
	return v
}
