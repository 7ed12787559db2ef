package usd

// Variability declares whether a property may vary over time.
type Variability int

const (
	VariabilityVarying Variability = iota
	VariabilityUniform
)

// TimeSample is one (time, value) pair on a varying property.
type TimeSample struct {
	Time  float64
	Value interface{}
}

// Prim is a path-identified entity in the description.
type Prim struct {
	Path     Path
	TypeName string
	Metadata map[string]interface{}

	// Children and PropertyNames keep declaration order; the maps on
	// Document are the lookup side.
	Children      []string
	PropertyNames []string
}

func (p *Prim) AddChildName(name string) {
	p.Children = append(p.Children, name)
}

// Property is a named, typed attribute or relationship on a prim.
type Property struct {
	Path        Path
	TypeName    string
	Variability Variability
	Default     interface{}
	TimeSamples []TimeSample
	TargetPaths []Path
	Metadata    map[string]interface{}
}

// SetTimeSamples attaches samples and marks the property varying; a property
// with samples must never stay uniform.
func (p *Property) SetTimeSamples(samples []TimeSample) {
	if len(samples) == 0 {
		return
	}
	p.TimeSamples = samples
	p.Variability = VariabilityVarying
}

// IsRelationship reports whether the property targets other entities rather
// than holding a value.
func (p *Property) IsRelationship() bool {
	return len(p.TargetPaths) > 0
}

// Document is the in-memory description: path-addressed prim and property
// tables with get-or-add semantics and stable insertion order.
type Document struct {
	prims     map[Path]*Prim
	props     map[Path]*Property
	primOrder []Path
	propOrder []Path
}

func NewDocument() *Document {
	return &Document{
		prims: map[Path]*Prim{},
		props: map[Path]*Property{},
	}
}

// GetOrAddPrim returns the prim at path, creating it on first use. Readers
// must use this rather than assuming exclusive creation; several reader
// chains contribute to the same prim.
func (d *Document) GetOrAddPrim(path Path) *Prim {
	if p, ok := d.prims[path]; ok {
		return p
	}
	p := &Prim{Path: path, Metadata: map[string]interface{}{}}
	d.prims[path] = p
	d.primOrder = append(d.primOrder, path)
	return p
}

func (d *Document) Prim(path Path) (*Prim, bool) {
	p, ok := d.prims[path]
	return p, ok
}

// GetOrAddProperty returns the property at path, creating it on first use
// and registering its name on the owning prim.
func (d *Document) GetOrAddProperty(path Path) *Property {
	if p, ok := d.props[path]; ok {
		return p
	}
	p := &Property{Path: path, Metadata: map[string]interface{}{}}
	d.props[path] = p
	d.propOrder = append(d.propOrder, path)
	prim := d.GetOrAddPrim(path.PrimPath())
	prim.PropertyNames = append(prim.PropertyNames, path.Name())
	return p
}

func (d *Document) Property(path Path) (*Property, bool) {
	p, ok := d.props[path]
	return p, ok
}

// Prims returns all prims in creation order.
func (d *Document) Prims() []*Prim {
	r := make([]*Prim, 0, len(d.primOrder))
	for _, path := range d.primOrder {
		r = append(r, d.prims[path])
	}
	return r
}

// Properties returns all properties in creation order.
func (d *Document) Properties() []*Property {
	r := make([]*Property, 0, len(d.propOrder))
	for _, path := range d.propOrder {
		r = append(r, d.props[path])
	}
	return r
}

// PrimProperties returns the prim's properties in declaration order.
func (d *Document) PrimProperties(prim Path) []*Property {
	p, ok := d.prims[prim]
	if !ok {
		return nil
	}
	r := make([]*Property, 0, len(p.PropertyNames))
	for _, name := range p.PropertyNames {
		if prop, ok := d.props[prim.AppendProperty(name)]; ok {
			r = append(r, prop)
		}
	}
	return r
}
