package converter

import (
	"math"
	"testing"

	"github.com/mashiro3d/fbx2usd/fbx"
	"github.com/mashiro3d/fbx2usd/geom"
	"github.com/mashiro3d/fbx2usd/usd"
)

func TestUsdTypeName(t *testing.T) {
	for _, c := range []struct {
		in     fbx.DataType
		expect string
	}{
		{fbx.TypeBool, usd.TypeBool},
		{fbx.TypeChar, usd.TypeUChar},
		{fbx.TypeUChar, usd.TypeUChar},
		{fbx.TypeShort, usd.TypeInt},
		{fbx.TypeUShort, usd.TypeUInt},
		{fbx.TypeInt, usd.TypeInt},
		{fbx.TypeLongLong, usd.TypeInt64},
		{fbx.TypeDistance, usd.TypeFloat},
		{fbx.TypeDouble3, usd.TypeDouble3},
		{fbx.TypeDouble4x4, usd.TypeMatrix4d},
		{fbx.TypeTime, usd.TypeTimeCode},
		{fbx.TypeString, usd.TypeToken},
		{fbx.TypeBlob, usd.TypeToken},
		{fbx.TypeUnknown, usd.TypeToken},
	} {
		if got := usdTypeName(c.in); got != c.expect {
			t.Error("type name: ", c.in, got, c.expect)
		}
	}
}

func TestUsdValue(t *testing.T) {
	p := fbx.NewProperty("a", fbx.TypeShort, int64(1000))
	if v, ok := usdValue(p).(int32); !ok || v != 1000 {
		t.Error("short widening: ", usdValue(p))
	}

	p = fbx.NewProperty("b", fbx.TypeDouble3, &geom.Vector3{X: 1, Y: 2, Z: 3})
	if v, ok := usdValue(p).(geom.Vector3); !ok || v.Z != 3 {
		t.Error("vector value: ", usdValue(p))
	}

	p = fbx.NewProperty("c", fbx.TypeBool, true)
	if v, ok := usdValue(p).(bool); !ok || !v {
		t.Error("bool value: ", usdValue(p))
	}
}

func TestUsdValueFromChannels(t *testing.T) {
	v := usdValueFromChannels(fbx.TypeDouble3, []float64{1, 2})
	vec, ok := v.(geom.Vector3)
	if !ok {
		t.Fatal("expected vector: ", v)
	}
	// missing channels zero-fill
	if vec.X != 1 || vec.Y != 2 || vec.Z != 0 {
		t.Error("zero fill: ", vec)
	}

	if b := usdValueFromChannels(fbx.TypeBool, []float64{1}); b != true {
		t.Error("bool channel: ", b)
	}
	if f := usdValueFromChannels(fbx.TypeFloat, []float64{2.5}); f != float32(2.5) {
		t.Error("float channel: ", f)
	}
}

func TestTenthSceneUnitRoundTrip(t *testing.T) {
	const eps = 1e-9

	// centimeter scenes make the conversion the identity
	if v := toTenthSceneUnit(35, fbx.Centimeters); math.Abs(v-35) > eps {
		t.Error("cm identity: ", v)
	}
	// meter scenes shrink values by 100
	if v := toTenthSceneUnit(1000, fbx.Meters); math.Abs(v-10) > eps {
		t.Error("m: ", v)
	}
	for _, units := range []fbx.UnitSystem{fbx.Millimeters, fbx.Centimeters, fbx.Meters, fbx.Inches} {
		if v := fromTenthSceneUnit(toTenthSceneUnit(12.7, units), units); math.Abs(v-12.7) > eps {
			t.Error("round trip: ", units, v)
		}
	}
}

func TestCleanName(t *testing.T) {
	for _, c := range []struct {
		in, expect string
	}{
		{"Body", "Body"},
		{"left arm", "left_arm"},
		{"1stJoint", "_1stJoint"},
		{"héllo", "hello"},
		{"", "_"},
		{"a.b:c", "a_b_c"},
	} {
		if got := cleanName(c.in); got != c.expect {
			t.Error("clean name: ", c.in, got, c.expect)
		}
	}
}
