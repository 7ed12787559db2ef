package fbx

import (
	"github.com/mashiro3d/fbx2usd/geom"
)

// DataType is the closed set of FBX property data types.
type DataType int

const (
	TypeUnknown DataType = iota
	TypeBool
	TypeChar
	TypeUChar
	TypeShort
	TypeUShort
	TypeInt
	TypeUInt
	TypeLongLong
	TypeULongLong
	TypeHalf
	TypeFloat
	TypeDouble
	TypeDistance
	TypeDouble2
	TypeDouble3
	TypeDouble4
	TypeDouble4x4
	TypeTime
	TypeString
	TypeBlob
)

// ChannelCount returns the number of animation channels a value of this type
// occupies.
func (t DataType) ChannelCount() int {
	switch t {
	case TypeDouble2:
		return 2
	case TypeDouble3:
		return 3
	case TypeDouble4:
		return 4
	case TypeDouble4x4:
		return 16
	case TypeString, TypeBlob, TypeUnknown:
		return 0
	}
	return 1
}

// Property is a named, typed node property. Values are stored as
// bool/int64/uint64/float64, *geom.Vector2/3/4, *geom.Matrix4, Time, string
// or []byte depending on Type. Animation curves are attached per layer.
type Property struct {
	Name        string
	Type        DataType
	Value       interface{}
	UserDefined bool

	curveNodes map[*AnimLayer]*CurveNode
}

func NewProperty(name string, typ DataType, value interface{}) *Property {
	return &Property{Name: name, Type: typ, Value: value}
}

func NewUserProperty(name string, typ DataType, value interface{}) *Property {
	return &Property{Name: name, Type: typ, Value: value, UserDefined: true}
}

// CurveNode returns the curves driving this property on the given layer, or
// nil.
func (p *Property) CurveNode(layer *AnimLayer) *CurveNode {
	if p == nil || layer == nil {
		return nil
	}
	return p.curveNodes[layer]
}

// SetCurve attaches a curve to one channel on the given layer. The channel
// list grows to the property's channel count on first use.
func (p *Property) SetCurve(layer *AnimLayer, channel int, curve *Curve) {
	if layer == nil || channel < 0 {
		return
	}
	if p.curveNodes == nil {
		p.curveNodes = map[*AnimLayer]*CurveNode{}
	}
	cn := p.curveNodes[layer]
	if cn == nil {
		cn = &CurveNode{Channels: make([]*Curve, p.Type.ChannelCount())}
		p.curveNodes[layer] = cn
	}
	for channel >= len(cn.Channels) {
		cn.Channels = append(cn.Channels, nil)
	}
	cn.Channels[channel] = curve
}

func (p *Property) ToBool(defvalue bool) bool {
	if p == nil {
		return defvalue
	}
	if v, ok := p.Value.(bool); ok {
		return v
	}
	return defvalue
}

func (p *Property) ToInt64(defvalue int64) int64 {
	if p == nil {
		return defvalue
	}
	switch v := p.Value.(type) {
	case int64:
		return v
	case uint64:
		return int64(v)
	case float64:
		return int64(v)
	}
	return defvalue
}

func (p *Property) ToFloat(defvalue float64) float64 {
	if p == nil {
		return defvalue
	}
	switch v := p.Value.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	}
	return defvalue
}

func (p *Property) ToString(defvalue string) string {
	if p == nil {
		return defvalue
	}
	switch v := p.Value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	}
	return defvalue
}

func (p *Property) ToVector2(x, y geom.Element) *geom.Vector2 {
	if p != nil {
		if v, ok := p.Value.(*geom.Vector2); ok {
			return v
		}
	}
	return &geom.Vector2{X: x, Y: y}
}

func (p *Property) ToVector3(x, y, z geom.Element) *geom.Vector3 {
	if p != nil {
		if v, ok := p.Value.(*geom.Vector3); ok {
			return v
		}
	}
	return &geom.Vector3{X: x, Y: y, Z: z}
}

func (p *Property) ToVector4(x, y, z, w geom.Element) *geom.Vector4 {
	if p != nil {
		if v, ok := p.Value.(*geom.Vector4); ok {
			return v
		}
	}
	return &geom.Vector4{X: x, Y: y, Z: z, W: w}
}

func (p *Property) ToMatrix4() *geom.Matrix4 {
	if p != nil {
		if v, ok := p.Value.(*geom.Matrix4); ok {
			return v
		}
	}
	return geom.NewMatrix4()
}
