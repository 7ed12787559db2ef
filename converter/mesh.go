package converter

import (
	"math"

	"github.com/mashiro3d/fbx2usd/fbx"
	"github.com/mashiro3d/fbx2usd/geom"
)

const degToRad = math.Pi / 180

// geometricTransform composes the node's geometric TRS offset. It applies to
// the attribute geometry only, never to children.
func geometricTransform(n *fbx.Node) *geom.Matrix4 {
	t := &geom.Vector3{}
	if n.GeometricTranslation != nil {
		t = n.GeometricTranslation
	}
	r := &geom.Vector3{}
	if n.GeometricRotation != nil {
		r = n.GeometricRotation
	}
	s := &geom.Vector3{X: 1, Y: 1, Z: 1}
	if n.GeometricScaling != nil {
		s = n.GeometricScaling
	}
	rot := geom.NewEuler(r.X*degToRad, r.Y*degToRad, r.Z*degToRad, geom.RotationOrderXYZ).ToMatrix4()
	return geom.NewTranslateMatrix4(t.X, t.Y, t.Z).Mul(rot).Mul(geom.NewScaleMatrix4(s.X, s.Y, s.Z))
}

// meshPoints returns the control points with the node's geometric offset
// applied.
func meshPoints(n *fbx.Node) []geom.Vector3 {
	mesh := n.Mesh
	m := geometricTransform(n)
	points := make([]geom.Vector3, 0, len(mesh.ControlPoints))
	for _, cp := range mesh.ControlPoints {
		points = append(points, *m.ApplyTo(cp))
	}
	return points
}

// perVertexElement finds a layer element mapped by polygon vertex that can
// be resolved without a bare index reference.
func perVertexElement(mesh *fbx.Mesh, pick func(*fbx.Layer) *fbx.LayerElementVec3) *fbx.LayerElementVec3 {
	var found *fbx.LayerElementVec3
	for _, layer := range mesh.Layers {
		e := pick(layer)
		if e == nil {
			continue
		}
		if e.Mapping == fbx.MappingByPolygonVertex && e.Reference != fbx.ReferenceIndex {
			found = e
		}
	}
	return found
}

// meshNormals returns one normal per polygon vertex. Elements mapped by
// control point are expanded through the polygon indices.
func meshNormals(mesh *fbx.Mesh) []geom.Vector3 {
	perVertex := perVertexElement(mesh, func(l *fbx.Layer) *fbx.LayerElementVec3 { return l.Normals })
	var perPoint *fbx.LayerElementVec3
	if perVertex == nil {
		for _, layer := range mesh.Layers {
			if layer.Normals != nil && layer.Normals.Mapping == fbx.MappingByControlPoint {
				perPoint = layer.Normals
			}
		}
		if perPoint == nil {
			return nil
		}
	}

	var normals []geom.Vector3
	current := 0
	for _, polygon := range mesh.Polygons {
		for _, cp := range polygon {
			var n *geom.Vector3
			if perVertex != nil {
				n = perVertex.At(current)
			} else {
				n = perPoint.At(cp)
			}
			if n != nil {
				normals = append(normals, *n)
			}
			current++
		}
	}
	return normals
}

// meshTangents returns one tangent per polygon vertex. Only polygon-vertex
// mapped tangents are supported; anything else yields an empty result.
func meshTangents(mesh *fbx.Mesh) []geom.Vector3 {
	element := perVertexElement(mesh, func(l *fbx.Layer) *fbx.LayerElementVec3 { return l.Tangents })
	if element == nil {
		return nil
	}
	var tangents []geom.Vector3
	current := 0
	for _, polygon := range mesh.Polygons {
		for range polygon {
			if t := element.At(current); t != nil {
				tangents = append(tangents, *t)
			}
			current++
		}
	}
	return tangents
}

// meshVertexColors returns one color per control point.
func meshVertexColors(mesh *fbx.Mesh) []geom.Vector3 {
	var element *fbx.LayerElementVec3
	for _, layer := range mesh.Layers {
		if layer.Colors != nil && layer.Colors.Mapping == fbx.MappingByControlPoint {
			element = layer.Colors
		}
	}
	if element == nil {
		return nil
	}
	colors := make([]geom.Vector3, 0, len(mesh.ControlPoints))
	for i := range mesh.ControlPoints {
		if c := element.At(i); c != nil {
			colors = append(colors, *c)
		} else {
			colors = append(colors, geom.Vector3{})
		}
	}
	return colors
}

// meshTexCoords expands one UV set to one coordinate per polygon vertex.
func meshTexCoords(mesh *fbx.Mesh, element *fbx.LayerElementVec2) []geom.Vector2 {
	var coords []geom.Vector2
	current := 0
	for _, polygon := range mesh.Polygons {
		for range polygon {
			if uv := element.At(current); uv != nil {
				coords = append(coords, *uv)
			} else {
				coords = append(coords, geom.Vector2{})
			}
			current++
		}
	}
	return coords
}

func meshFaceVertexCounts(mesh *fbx.Mesh) []int32 {
	counts := make([]int32, 0, len(mesh.Polygons))
	for _, polygon := range mesh.Polygons {
		counts = append(counts, int32(len(polygon)))
	}
	return counts
}

func meshFaceVertexIndices(mesh *fbx.Mesh) []int32 {
	indices := make([]int32, 0, mesh.PolygonVertexCount())
	for _, polygon := range mesh.Polygons {
		for _, cp := range polygon {
			indices = append(indices, int32(cp))
		}
	}
	return indices
}
