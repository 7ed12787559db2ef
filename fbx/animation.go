package fbx

// Time is a point on the timeline measured in frames.
type Time float64

// TimeSpan is an inclusive frame range.
type TimeSpan struct {
	Start Time
	Stop  Time
}

// FrameCount returns the number of whole frame steps between Start and Stop.
func (s TimeSpan) FrameCount() int {
	n := int(s.Stop - s.Start)
	if n < 0 {
		return 0
	}
	return n
}

type Key struct {
	Time  Time
	Value float64
}

// Curve is a keyframed animation curve. Keys are expected to be sorted by
// time.
type Curve struct {
	Keys []Key
}

func NewCurve(keys ...Key) *Curve {
	return &Curve{Keys: keys}
}

// Evaluate returns the linearly interpolated curve value at t. Times outside
// the keyed range clamp to the first/last key.
func (c *Curve) Evaluate(t Time) float64 {
	if c == nil || len(c.Keys) == 0 {
		return 0
	}
	if t <= c.Keys[0].Time {
		return c.Keys[0].Value
	}
	last := c.Keys[len(c.Keys)-1]
	if t >= last.Time {
		return last.Value
	}
	for i := 1; i < len(c.Keys); i++ {
		k0, k1 := c.Keys[i-1], c.Keys[i]
		if t > k1.Time {
			continue
		}
		if k1.Time == k0.Time {
			return k1.Value
		}
		f := float64(t-k0.Time) / float64(k1.Time-k0.Time)
		return k0.Value + (k1.Value-k0.Value)*f
	}
	return last.Value
}

// CurveNode groups the per-channel curves driving one property. A channel
// without a curve holds nil. One curve per channel; multiple curves driving
// the same channel are not supported.
type CurveNode struct {
	Channels []*Curve
}

func (cn *CurveNode) ChannelCount() int {
	if cn == nil {
		return 0
	}
	return len(cn.Channels)
}

func (cn *CurveNode) Curve(channel int) *Curve {
	if cn == nil || channel < 0 || channel >= len(cn.Channels) {
		return nil
	}
	return cn.Channels[channel]
}

// HasCurves reports whether any channel actually carries a curve.
func (cn *CurveNode) HasCurves() bool {
	if cn == nil {
		return false
	}
	for _, c := range cn.Channels {
		if c != nil {
			return true
		}
	}
	return false
}
