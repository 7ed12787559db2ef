package converter

import (
	"github.com/mashiro3d/fbx2usd/fbx"
	"github.com/mashiro3d/fbx2usd/usd"
)

// valueAtTimeFunc produces a property value for a node at one instant.
type valueAtTimeFunc func(*fbx.Node, fbx.Time) interface{}

// sampleNodeFunc evaluates fn once per integer frame across the span. A nil
// animation layer yields no samples.
func sampleNodeFunc(node *fbx.Node, fn valueAtTimeFunc, layer *fbx.AnimLayer, span fbx.TimeSpan) []usd.TimeSample {
	if layer == nil {
		return nil
	}
	var result []usd.TimeSample
	for frame := int(span.Start); frame <= int(span.Stop); frame++ {
		result = append(result, usd.TimeSample{
			Time:  float64(frame),
			Value: fn(node, fbx.Time(frame)),
		})
	}
	return result
}

// samplePropertyAnimation samples a property's curves once per integer
// frame. Properties without curves on the layer stay uniform: the result is
// empty. Every channel is evaluated per frame and the per-frame channel
// vector is converted to the property's native value type; channels without
// curves hold zero.
func samplePropertyAnimation(prop *fbx.Property, layer *fbx.AnimLayer, span fbx.TimeSpan) []usd.TimeSample {
	if layer == nil || prop == nil {
		return nil
	}
	curveNode := prop.CurveNode(layer)
	if !curveNode.HasCurves() {
		return nil
	}

	numChannels := curveNode.ChannelCount()
	var result []usd.TimeSample
	for frame := int(span.Start); frame <= int(span.Stop); frame++ {
		channels := make([]float64, numChannels)
		for ch := 0; ch < numChannels; ch++ {
			if curve := curveNode.Curve(ch); curve != nil {
				channels[ch] = curve.Evaluate(fbx.Time(frame))
			}
		}
		result = append(result, usd.TimeSample{
			Time:  float64(frame),
			Value: usdValueFromChannels(prop.Type, channels),
		})
	}
	return result
}
