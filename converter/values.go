package converter

import (
	"github.com/mashiro3d/fbx2usd/fbx"
	"github.com/mashiro3d/fbx2usd/geom"
	"github.com/mashiro3d/fbx2usd/usd"
)

// usdTypeName maps a source property data type to the schema value type it
// is written as. 16-bit integers widen to 32-bit; blobs are treated as
// tokens.
func usdTypeName(t fbx.DataType) string {
	switch t {
	case fbx.TypeBool:
		return usd.TypeBool
	case fbx.TypeUChar, fbx.TypeChar:
		return usd.TypeUChar
	case fbx.TypeShort, fbx.TypeInt:
		return usd.TypeInt
	case fbx.TypeUShort, fbx.TypeUInt:
		return usd.TypeUInt
	case fbx.TypeLongLong:
		return usd.TypeInt64
	case fbx.TypeULongLong:
		return usd.TypeUInt64
	case fbx.TypeHalf:
		return usd.TypeHalf
	case fbx.TypeFloat, fbx.TypeDistance:
		return usd.TypeFloat
	case fbx.TypeDouble:
		return usd.TypeDouble
	case fbx.TypeDouble2:
		return usd.TypeDouble2
	case fbx.TypeDouble3:
		return usd.TypeDouble3
	case fbx.TypeDouble4:
		return usd.TypeDouble4
	case fbx.TypeDouble4x4:
		return usd.TypeMatrix4d
	case fbx.TypeTime:
		return usd.TypeTimeCode
	}
	return usd.TypeToken
}

// usdValue converts a property's static value into the Go representation of
// its schema type. Narrow integer kinds truncate into the nearest supported
// width; signed chars larger than 127 wrap silently.
func usdValue(p *fbx.Property) interface{} {
	switch p.Type {
	case fbx.TypeBool:
		return p.ToBool(false)
	case fbx.TypeUChar, fbx.TypeChar:
		return uint8(p.ToInt64(0))
	case fbx.TypeShort, fbx.TypeInt:
		return int32(p.ToInt64(0))
	case fbx.TypeUShort, fbx.TypeUInt:
		return uint32(p.ToInt64(0))
	case fbx.TypeLongLong:
		return p.ToInt64(0)
	case fbx.TypeULongLong:
		return uint64(p.ToInt64(0))
	case fbx.TypeHalf, fbx.TypeFloat, fbx.TypeDistance:
		return float32(p.ToFloat(0))
	case fbx.TypeDouble:
		return p.ToFloat(0)
	case fbx.TypeDouble2:
		return *p.ToVector2(0, 0)
	case fbx.TypeDouble3:
		return *p.ToVector3(0, 0, 0)
	case fbx.TypeDouble4:
		return *p.ToVector4(0, 0, 0, 0)
	case fbx.TypeDouble4x4:
		return *p.ToMatrix4()
	case fbx.TypeTime:
		if t, ok := p.Value.(fbx.Time); ok {
			return float64(t)
		}
		return p.ToFloat(0)
	case fbx.TypeString, fbx.TypeBlob:
		return p.ToString("")
	}
	return p.ToString("")
}

// usdValueFromChannels converts one frame's channel vector into the typed
// value for the property. Channel vectors narrower than the type are
// zero-filled.
func usdValueFromChannels(t fbx.DataType, channels []float64) interface{} {
	at := func(i int) float64 {
		if i < len(channels) {
			return channels[i]
		}
		return 0
	}
	switch t {
	case fbx.TypeBool:
		return at(0) != 0
	case fbx.TypeUChar, fbx.TypeChar:
		return uint8(at(0))
	case fbx.TypeShort, fbx.TypeInt:
		return int32(at(0))
	case fbx.TypeUShort, fbx.TypeUInt:
		return uint32(at(0))
	case fbx.TypeLongLong:
		return int64(at(0))
	case fbx.TypeULongLong:
		return uint64(at(0))
	case fbx.TypeHalf, fbx.TypeFloat, fbx.TypeDistance:
		return float32(at(0))
	case fbx.TypeDouble:
		return at(0)
	case fbx.TypeDouble2:
		return geom.Vector2{X: at(0), Y: at(1)}
	case fbx.TypeDouble3:
		return geom.Vector3{X: at(0), Y: at(1), Z: at(2)}
	case fbx.TypeDouble4:
		return geom.Vector4{X: at(0), Y: at(1), Z: at(2), W: at(3)}
	case fbx.TypeDouble4x4:
		m := geom.Matrix4{}
		for i := range m {
			m[i] = at(i)
		}
		return m
	case fbx.TypeTime:
		return at(0)
	}
	return at(0)
}

const mmPerInch = 25.4

// toTenthSceneUnit converts a millimeter value into tenths of the scene
// unit. A centimeter scene makes this the identity, which is the convention
// cameras are authored against.
func toTenthSceneUnit(valueMM float64, units fbx.UnitSystem) float64 {
	return valueMM * 10 / units.ScaleMM
}

// fromTenthSceneUnit is the exact inverse of toTenthSceneUnit.
func fromTenthSceneUnit(value float64, units fbx.UnitSystem) float64 {
	return value * units.ScaleMM / 10
}
