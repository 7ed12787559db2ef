// Package fbx models the scene graph handed over by an FBX scene loader:
// a node hierarchy with typed node attributes, animatable properties and
// global scene settings. Parsing FBX files is out of scope; loaders build
// these structures directly.
package fbx

// UnitSystem describes a linear unit as the number of millimeters per unit,
// mirroring how FBX normalizes its system units.
type UnitSystem struct {
	ScaleMM float64
}

var (
	Millimeters = UnitSystem{ScaleMM: 1}
	Centimeters = UnitSystem{ScaleMM: 10}
	Decimeters  = UnitSystem{ScaleMM: 100}
	Meters      = UnitSystem{ScaleMM: 1000}
	Inches      = UnitSystem{ScaleMM: 25.4}
	Feet        = UnitSystem{ScaleMM: 304.8}
)

// ConversionFactorTo returns the factor that converts a value expressed in u
// into a value expressed in other.
func (u UnitSystem) ConversionFactorTo(other UnitSystem) float64 {
	return u.ScaleMM / other.ScaleMM
}

// ConversionFactorFrom returns the factor that converts a value expressed in
// other into a value expressed in u.
func (u UnitSystem) ConversionFactorFrom(other UnitSystem) float64 {
	return other.ScaleMM / u.ScaleMM
}

type GlobalSettings struct {
	Units           UnitSystem
	OriginalUnits   UnitSystem
	FramesPerSecond float64
}

// AnimLayer identifies one animation layer. Curves are attached to
// properties per layer; a document without layers yields no time samples.
type AnimLayer struct {
	Name string
}

type Document struct {
	Root         *Node
	Settings     GlobalSettings
	AnimLayers   []*AnimLayer
	AnimTimeSpan TimeSpan

	evaluator *Evaluator
}

func NewDocument() *Document {
	return &Document{
		Root: NewNode("", KindNull),
		Settings: GlobalSettings{
			Units:           Centimeters,
			OriginalUnits:   Centimeters,
			FramesPerSecond: 30,
		},
	}
}

// DefaultAnimLayer returns the layer animation is sampled against, or nil if
// the document carries no animation.
func (d *Document) DefaultAnimLayer() *AnimLayer {
	if len(d.AnimLayers) == 0 {
		return nil
	}
	return d.AnimLayers[0]
}

func (d *Document) Evaluator() *Evaluator {
	if d.evaluator == nil {
		d.evaluator = &Evaluator{doc: d}
	}
	return d.evaluator
}
