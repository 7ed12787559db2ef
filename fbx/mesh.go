package fbx

import (
	"github.com/mashiro3d/fbx2usd/geom"
)

type MappingMode int

const (
	MappingByControlPoint MappingMode = iota
	MappingByPolygonVertex
	MappingAllSame
)

type ReferenceMode int

const (
	ReferenceDirect ReferenceMode = iota
	ReferenceIndexToDirect
	ReferenceIndex
)

// LayerElementVec3 is one per-layer vec3 channel (normals, tangents, colors).
type LayerElementVec3 struct {
	Mapping   MappingMode
	Reference ReferenceMode
	Data      []*geom.Vector3
	Indices   []int
}

// At resolves the element for a polygon-vertex (or control-point) index
// through the reference mode.
func (e *LayerElementVec3) At(i int) *geom.Vector3 {
	if e == nil {
		return nil
	}
	switch e.Reference {
	case ReferenceDirect:
		if i < len(e.Data) {
			return e.Data[i]
		}
	case ReferenceIndexToDirect, ReferenceIndex:
		if i < len(e.Indices) {
			id := e.Indices[i]
			if id >= 0 && id < len(e.Data) {
				return e.Data[id]
			}
		}
	}
	return nil
}

// LayerElementVec2 is one per-layer UV channel.
type LayerElementVec2 struct {
	Name      string
	Mapping   MappingMode
	Reference ReferenceMode
	Data      []*geom.Vector2
	Indices   []int
}

func (e *LayerElementVec2) At(i int) *geom.Vector2 {
	if e == nil {
		return nil
	}
	switch e.Reference {
	case ReferenceDirect:
		if i < len(e.Data) {
			return e.Data[i]
		}
	case ReferenceIndexToDirect, ReferenceIndex:
		if i < len(e.Indices) {
			id := e.Indices[i]
			if id >= 0 && id < len(e.Data) {
				return e.Data[id]
			}
		}
	}
	return nil
}

type Layer struct {
	Normals  *LayerElementVec3
	Tangents *LayerElementVec3
	Colors   *LayerElementVec3
	UVs      *LayerElementVec2
}

// Mesh is a polygonal node attribute: control points plus per-polygon vertex
// indices, with optional layers and a skin deformer.
type Mesh struct {
	ControlPoints []*geom.Vector3
	Polygons      [][]int
	Layers        []*Layer
	Skin          *Skin
}

// PolygonVertexCount returns the total number of polygon-vertex slots.
func (m *Mesh) PolygonVertexCount() int {
	n := 0
	for _, p := range m.Polygons {
		n += len(p)
	}
	return n
}

// HasVertexColors reports whether any layer carries vertex colors.
func (m *Mesh) HasVertexColors() bool {
	for _, l := range m.Layers {
		if l.Colors != nil {
			return true
		}
	}
	return false
}

// Skin binds a mesh to a set of joints, one cluster per influencing joint.
type Skin struct {
	Clusters []*Cluster
}

// Cluster is a weighted subset of control points bound to one joint node.
type Cluster struct {
	Link                *Node
	ControlPointIndices []int
	Weights             []float64
}

// FindSkin returns the mesh's skin deformer, or nil.
func (m *Mesh) FindSkin() *Skin {
	if m == nil {
		return nil
	}
	return m.Skin
}
