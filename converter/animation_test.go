package converter

import (
	"testing"

	"github.com/mashiro3d/fbx2usd/fbx"
	"github.com/mashiro3d/fbx2usd/geom"
)

func TestSamplePropertyAnimationNilLayer(t *testing.T) {
	p := fbx.NewProperty("a", fbx.TypeDouble, 1.0)
	if s := samplePropertyAnimation(p, nil, fbx.TimeSpan{Stop: 10}); s != nil {
		t.Error("nil layer should yield no samples")
	}
	layer := &fbx.AnimLayer{}
	if s := samplePropertyAnimation(nil, layer, fbx.TimeSpan{Stop: 10}); s != nil {
		t.Error("nil property should yield no samples")
	}
	// a property with no curves stays uniform
	if s := samplePropertyAnimation(p, layer, fbx.TimeSpan{Stop: 10}); s != nil {
		t.Error("curve-less property should yield no samples")
	}
}

func TestSamplePropertyAnimationPerFrame(t *testing.T) {
	layer := &fbx.AnimLayer{}
	p := fbx.NewProperty("a", fbx.TypeDouble, 0.0)
	p.SetCurve(layer, 0, fbx.NewCurve(
		fbx.Key{Time: 0, Value: 0},
		fbx.Key{Time: 2, Value: 4},
	))

	samples := samplePropertyAnimation(p, layer, fbx.TimeSpan{Start: 0, Stop: 2})
	if len(samples) != 3 {
		t.Fatal("sample count: ", len(samples))
	}
	for i, expect := range []float64{0, 2, 4} {
		if samples[i].Time != float64(i) {
			t.Error("time: ", samples[i].Time)
		}
		if samples[i].Value != expect {
			t.Error("value: ", i, samples[i].Value)
		}
	}
}

func TestSamplePropertyAnimationZeroFilledChannels(t *testing.T) {
	layer := &fbx.AnimLayer{}
	p := fbx.NewProperty("a", fbx.TypeDouble3, &geom.Vector3{X: 9, Y: 9, Z: 9})
	p.SetCurve(layer, 1, fbx.NewCurve(fbx.Key{Time: 0, Value: 5}))

	samples := samplePropertyAnimation(p, layer, fbx.TimeSpan{Start: 0, Stop: 0})
	if len(samples) != 1 {
		t.Fatal("sample count: ", len(samples))
	}
	v, ok := samples[0].Value.(geom.Vector3)
	if !ok {
		t.Fatal("value type: ", samples[0].Value)
	}
	// channels without curves hold zero, not the static value
	if v.X != 0 || v.Y != 5 || v.Z != 0 {
		t.Error("channel fill: ", v)
	}
}

func TestSampleNodeFunc(t *testing.T) {
	node := fbx.NewNode("a", fbx.KindNull)
	fn := func(_ *fbx.Node, t fbx.Time) interface{} { return float64(t) * 2 }

	if s := sampleNodeFunc(node, fn, nil, fbx.TimeSpan{Stop: 5}); s != nil {
		t.Error("nil layer should yield no samples")
	}

	samples := sampleNodeFunc(node, fn, &fbx.AnimLayer{}, fbx.TimeSpan{Start: 1, Stop: 3})
	if len(samples) != 3 {
		t.Fatal("sample count: ", len(samples))
	}
	if samples[0].Time != 1 || samples[0].Value != 2.0 {
		t.Error("first sample: ", samples[0])
	}
	if samples[2].Time != 3 || samples[2].Value != 6.0 {
		t.Error("last sample: ", samples[2])
	}
}
