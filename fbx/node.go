package fbx

import (
	"github.com/mashiro3d/fbx2usd/geom"
)

// AttributeKind is the semantic category of a node.
type AttributeKind int

const (
	KindNull AttributeKind = iota
	KindMesh
	KindCamera
	KindSkeleton
	KindUnknown

	// Kinds below are recognized but not imported.
	KindNurbs
	KindNurbsCurve
	KindNurbsSurface
	KindTrimNurbsSurface
	KindPatch
	KindLight
	KindLODGroup
	KindCameraStereo
	KindCameraSwitcher
	KindOpticalReference
	KindOpticalMarker
	KindBoundary
	KindShape
	KindSubDiv
	KindCachedEffect
	KindLine
)

func (k AttributeKind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindMesh:
		return "Mesh"
	case KindCamera:
		return "Camera"
	case KindSkeleton:
		return "Skeleton"
	case KindUnknown:
		return "Unknown"
	case KindNurbs:
		return "Nurbs"
	case KindNurbsCurve:
		return "NurbsCurve"
	case KindNurbsSurface:
		return "NurbsSurface"
	case KindTrimNurbsSurface:
		return "TrimNurbsSurface"
	case KindPatch:
		return "Patch"
	case KindLight:
		return "Light"
	case KindLODGroup:
		return "LODGroup"
	case KindCameraStereo:
		return "CameraStereo"
	case KindCameraSwitcher:
		return "CameraSwitcher"
	case KindOpticalReference:
		return "OpticalReference"
	case KindOpticalMarker:
		return "OpticalMarker"
	case KindBoundary:
		return "Boundary"
	case KindShape:
		return "Shape"
	case KindSubDiv:
		return "SubDiv"
	case KindCachedEffect:
		return "CachedEffect"
	case KindLine:
		return "Line"
	}
	return "Unknown"
}

// Node is one element of the source hierarchy. Transform components are
// animatable properties; the attribute payload (Mesh, Camera) matches Kind.
type Node struct {
	Name     string
	Parent   *Node
	Children []*Node
	Kind     AttributeKind

	Translation   *Property
	Rotation      *Property
	PreRotation   *Property
	Scaling       *Property
	RotationPivot *Property
	RotationOrder geom.RotationOrder
	Visibility    *Property

	// Geometric offset applies to the attribute geometry only, not to
	// children.
	GeometricTranslation *geom.Vector3
	GeometricRotation    *geom.Vector3
	GeometricScaling     *geom.Vector3

	Mesh   *Mesh
	Camera *Camera

	userProps  []*Property
	pivotBaked bool
}

func NewNode(name string, kind AttributeKind) *Node {
	return &Node{
		Name:          name,
		Kind:          kind,
		Translation:   NewProperty("Lcl Translation", TypeDouble3, &geom.Vector3{}),
		Rotation:      NewProperty("Lcl Rotation", TypeDouble3, &geom.Vector3{}),
		PreRotation:   NewProperty("PreRotation", TypeDouble3, &geom.Vector3{}),
		Scaling:       NewProperty("Lcl Scaling", TypeDouble3, &geom.Vector3{X: 1, Y: 1, Z: 1}),
		RotationPivot: NewProperty("RotationPivot", TypeDouble3, &geom.Vector3{}),
		Visibility:    NewProperty("Visibility", TypeDouble, 1.0),
	}
}

func (n *Node) AddChild(c *Node) *Node {
	c.Parent = n
	n.Children = append(n.Children, c)
	return c
}

// IsSkeleton reports whether the node carries a skeleton-joint attribute.
func (n *Node) IsSkeleton() bool {
	return n != nil && n.Kind == KindSkeleton
}

func (n *Node) AddUserProperty(p *Property) *Property {
	p.UserDefined = true
	n.userProps = append(n.userProps, p)
	return p
}

// UserProperties returns the user-defined properties in declaration order.
func (n *Node) UserProperties() []*Property {
	return n.userProps
}

// AnimatedUserProperties returns the user-defined properties that carry
// curves on the given layer.
func (n *Node) AnimatedUserProperties(layer *AnimLayer) []*Property {
	var r []*Property
	for _, p := range n.userProps {
		if p.CurveNode(layer) != nil {
			r = append(r, p)
		}
	}
	return r
}
