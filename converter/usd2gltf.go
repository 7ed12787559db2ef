package converter

import (
	"errors"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/mashiro3d/fbx2usd/geom"
	"github.com/mashiro3d/fbx2usd/usd"
)

// USDToGLTFOption controls the preview export.
type USDToGLTFOption struct {
	// Scale is applied to all positions. glTF is meters; a centimeter
	// scene wants 0.01.
	Scale float64 `yaml:"scale"`
}

// usdToGltf turns a converted scene description into a glTF document for
// quick visual inspection. Prims become nodes, meshes carry positions and
// triangulated indices, skeletons become joint node chains with a skin.
type usdToGltf struct {
	*USDToGLTFOption
	*gltf.Document
	nodeByPath map[usd.Path]int
}

func NewUSDToGLTFConverter(options *USDToGLTFOption) *usdToGltf {
	if options == nil {
		options = &USDToGLTFOption{}
	}
	if options.Scale == 0 {
		options.Scale = 1
	}
	return &usdToGltf{
		USDToGLTFOption: options,
		Document:        gltf.NewDocument(),
		nodeByPath:      map[usd.Path]int{},
	}
}

func (m *usdToGltf) addMatrices(mat [][4][4]float32) uint32 {
	a := make([][4]float32, len(mat)*4)
	for i, v := range mat {
		a[i*4+0] = v[0]
		a[i*4+1] = v[1]
		a[i*4+2] = v[2]
		a[i*4+3] = v[3]
	}
	acc := modeler.WriteTangent(m.Document, a)
	m.Accessors[acc].Type = gltf.AccessorMat4
	m.Accessors[acc].Count /= 4
	m.BufferViews[*m.Accessors[acc].BufferView].ByteStride *= 4
	return acc
}

func (m *usdToGltf) addNode(name string) int {
	id := len(m.Nodes)
	m.Nodes = append(m.Nodes, &gltf.Node{Name: name})
	return id
}

func propertyDefault(doc *usd.Document, prim usd.Path, name string) interface{} {
	if prop, ok := doc.Property(prim.AppendProperty(name)); ok {
		return prop.Default
	}
	return nil
}

func toFloat32Positions(points []geom.Vector3, scale float64) [][3]float32 {
	out := make([][3]float32, 0, len(points))
	for _, p := range points {
		out = append(out, [3]float32{
			float32(p.X * scale),
			float32(p.Y * scale),
			float32(p.Z * scale),
		})
	}
	return out
}

// triangulate fans each polygon into triangles, preserving winding.
func triangulate(counts, indices []int32) []uint32 {
	var out []uint32
	pos := 0
	for _, count := range counts {
		n := int(count)
		if pos+n > len(indices) {
			break
		}
		for i := 2; i < n; i++ {
			out = append(out,
				uint32(indices[pos]),
				uint32(indices[pos+i-1]),
				uint32(indices[pos+i]))
		}
		pos += n
	}
	return out
}

func (m *usdToGltf) exportMesh(src *usd.Document, prim *usd.Prim, node *gltf.Node) {
	points, _ := propertyDefault(src, prim.Path, usd.TokenPoints).([]geom.Vector3)
	counts, _ := propertyDefault(src, prim.Path, usd.TokenFaceVertexCounts).([]int32)
	indices, _ := propertyDefault(src, prim.Path, usd.TokenFaceVertexIndices).([]int32)
	if len(points) == 0 || len(counts) == 0 {
		return
	}

	attributes := map[string]uint32{
		"POSITION": modeler.WritePosition(m.Document, toFloat32Positions(points, m.Scale)),
	}
	primitive := &gltf.Primitive{Attributes: attributes}
	if tris := triangulate(counts, indices); len(tris) > 0 {
		primitive.Indices = gltf.Index(modeler.WriteIndices(m.Document, tris))
	}
	m.Meshes = append(m.Meshes, &gltf.Mesh{
		Name:       prim.Path.Name(),
		Primitives: []*gltf.Primitive{primitive},
	})
	node.Mesh = gltf.Index(uint32(len(m.Meshes) - 1))
}

// exportSkeleton expands the flattened joint list back into a glTF node
// chain and writes a skin with inverse bind matrices.
func (m *usdToGltf) exportSkeleton(src *usd.Document, prim *usd.Prim, node *gltf.Node) {
	tokens, _ := propertyDefault(src, prim.Path, usd.TokenJoints).([]string)
	rest, _ := propertyDefault(src, prim.Path, usd.TokenRestTransforms).([]geom.Matrix4)
	bind, _ := propertyDefault(src, prim.Path, usd.TokenBindTransforms).([]geom.Matrix4)
	if len(tokens) == 0 {
		return
	}

	jointIds := make([]uint32, 0, len(tokens))
	byToken := map[string]int{}
	for i, token := range tokens {
		id := m.addNode(jointName(token))
		jointIds = append(jointIds, uint32(id))
		byToken[token] = id

		if i < len(rest) {
			t := rest[i].GetT()
			m.Nodes[id].Translation = [3]float32{
				float32(t.X * m.Scale),
				float32(t.Y * m.Scale),
				float32(t.Z * m.Scale),
			}
			q := rest[i].ExtractRotation()
			m.Nodes[id].Rotation = [4]float32{
				float32(q.X), float32(q.Y), float32(q.Z), float32(q.W),
			}
		}

		if parent, ok := byToken[jointParent(token)]; ok {
			m.Nodes[parent].Children = append(m.Nodes[parent].Children, uint32(id))
		} else {
			node.Children = append(node.Children, uint32(id))
		}
	}

	if len(bind) == len(tokens) {
		invmats := make([][4][4]float32, len(bind))
		for i := range bind {
			inv := bind[i].Inverse()
			for col := 0; col < 4; col++ {
				for row := 0; row < 4; row++ {
					invmats[i][col][row] = float32(inv[col*4+row])
				}
			}
			invmats[i][3][0] *= float32(m.Scale)
			invmats[i][3][1] *= float32(m.Scale)
			invmats[i][3][2] *= float32(m.Scale)
		}
		m.Skins = append(m.Skins, &gltf.Skin{
			Name:                prim.Path.Name(),
			Joints:              jointIds,
			InverseBindMatrices: gltf.Index(m.addMatrices(invmats)),
		})
	}
}

func jointName(token string) string {
	for i := len(token) - 1; i >= 0; i-- {
		if token[i] == '/' {
			return token[i+1:]
		}
	}
	return token
}

func jointParent(token string) string {
	for i := len(token) - 1; i >= 0; i-- {
		if token[i] == '/' {
			return token[:i]
		}
	}
	return ""
}

// Convert builds the glTF document. The input document is not modified.
func (m *usdToGltf) Convert(src *usd.Document) (*gltf.Document, error) {
	if src == nil {
		return nil, errors.New("converter: nil source document")
	}

	for _, prim := range src.Prims() {
		id := m.addNode(prim.Path.Name())
		m.nodeByPath[prim.Path] = id
		node := m.Nodes[id]

		switch prim.TypeName {
		case usd.PrimMesh:
			m.exportMesh(src, prim, node)
		case usd.PrimSkeleton:
			m.exportSkeleton(src, prim, node)
		}

		parentPath := prim.Path.Parent()
		if parent, ok := m.nodeByPath[parentPath]; ok {
			m.Nodes[parent].Children = append(m.Nodes[parent].Children, uint32(id))
		} else {
			m.Scenes[0].Nodes = append(m.Scenes[0].Nodes, uint32(id))
		}
	}
	return m.Document, nil
}
