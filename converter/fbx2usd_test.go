package converter

import (
	"math"
	"strings"
	"testing"

	"github.com/mashiro3d/fbx2usd/fbx"
	"github.com/mashiro3d/fbx2usd/geom"
	"github.com/mashiro3d/fbx2usd/usd"
)

func convert(t *testing.T, src *fbx.Document) (*usd.Document, *FBXToUSDConverter) {
	t.Helper()
	conv := NewFBXToUSDConverter(nil)
	out, err := conv.Convert(src)
	if err != nil {
		t.Fatal(err)
	}
	return out, conv
}

func animatedDocument() (*fbx.Document, *fbx.AnimLayer) {
	doc := fbx.NewDocument()
	layer := &fbx.AnimLayer{Name: "BaseLayer"}
	doc.AnimLayers = append(doc.AnimLayers, layer)
	doc.AnimTimeSpan = fbx.TimeSpan{Start: 0, Stop: 2}
	return doc, layer
}

func TestConvertNilDocument(t *testing.T) {
	if _, err := NewFBXToUSDConverter(nil).Convert(nil); err == nil {
		t.Error("nil input must error")
	}
}

func TestConvertRootPrim(t *testing.T) {
	doc := fbx.NewDocument()
	doc.Root.AddChild(fbx.NewNode("Body", fbx.KindNull))

	out, _ := convert(t, doc)

	root, ok := out.Prim("/ROOT")
	if !ok || root.TypeName != usd.PrimXform {
		t.Fatal("root prim missing")
	}
	if len(root.Children) != 1 || root.Children[0] != "Body" {
		t.Error("root children: ", root.Children)
	}

	body, ok := out.Prim("/ROOT/Body")
	if !ok || body.TypeName != usd.PrimXform {
		t.Fatal("null node should become an Xform")
	}
	if body.Metadata[usd.MetaActive] != true || body.Metadata[usd.MetaHidden] != false {
		t.Error("prim metadata: ", body.Metadata)
	}
}

func TestConvertRootPrimNameOption(t *testing.T) {
	doc := fbx.NewDocument()
	doc.Root.AddChild(fbx.NewNode("Body", fbx.KindNull))

	conv := NewFBXToUSDConverter(&FBXToUSDOption{RootPrimName: "Scene"})
	out, err := conv.Convert(doc)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := out.Prim("/Scene/Body"); !ok {
		t.Error("custom root prim name not honored")
	}
}

func TestConvertXformOps(t *testing.T) {
	doc := fbx.NewDocument()
	node := doc.Root.AddChild(fbx.NewNode("Body", fbx.KindNull))
	node.Translation.Value = &geom.Vector3{X: 1, Y: 2, Z: 3}
	node.RotationOrder = geom.RotationOrderZXY

	out, conv := convert(t, doc)

	prop, ok := out.Property("/ROOT/Body.xformOpOrder")
	if !ok {
		t.Fatal("xformOpOrder missing")
	}
	order, ok := prop.Default.([]string)
	if !ok {
		t.Fatal("op order type: ", prop.Default)
	}
	expect := []string{
		"xformOp:translate",
		"xformOp:translate:pivot",
		"xformOp:rotateZXY",
		"xformOp:scale",
		"!invert!xformOp:translate:pivot",
	}
	if len(order) != len(expect) {
		t.Fatal("op count: ", order)
	}
	for i := range expect {
		if order[i] != expect[i] {
			t.Error("op: ", i, order[i])
		}
	}
	if prop.Variability != usd.VariabilityUniform {
		t.Error("xformOpOrder must be uniform")
	}

	translate, ok := out.Property("/ROOT/Body.xformOp:translate")
	if !ok {
		t.Fatal("translate missing")
	}
	if v := translate.Default.(geom.Vector3); v.X != 1 || v.Y != 2 || v.Z != 3 {
		t.Error("translate value: ", v)
	}
	if !conv.Diagnostics().Empty() {
		t.Error("unexpected warnings: ", conv.Diagnostics().Warnings())
	}
}

func TestConvertSphericRotationOrderFallsBack(t *testing.T) {
	doc := fbx.NewDocument()
	node := doc.Root.AddChild(fbx.NewNode("Body", fbx.KindNull))
	node.RotationOrder = geom.RotationOrderSphericXYZ

	out, conv := convert(t, doc)

	if _, ok := out.Property("/ROOT/Body.xformOp:rotateXYZ"); !ok {
		t.Error("spheric order should fall back to XYZ")
	}
	warnings := conv.Diagnostics().Warnings()
	if len(warnings) != 1 || !strings.Contains(warnings[0].Message, "SphericXYZ") {
		t.Error("expected a fallback warning: ", warnings)
	}
}

func TestConvertImageable(t *testing.T) {
	doc := fbx.NewDocument()
	node := doc.Root.AddChild(fbx.NewNode("Body", fbx.KindNull))
	node.Visibility.Value = 0.0

	out, _ := convert(t, doc)

	vis, ok := out.Property("/ROOT/Body.visibility")
	if !ok || vis.Default != usd.TokenInvisible {
		t.Error("visibility: ", vis)
	}
	purpose, ok := out.Property("/ROOT/Body.purpose")
	if !ok || purpose.Default != usd.TokenDefault || purpose.Variability != usd.VariabilityUniform {
		t.Error("purpose: ", purpose)
	}
	raw, ok := out.Property("/ROOT/Body.generated:visibility")
	if !ok || raw.Default != 0.0 || raw.Metadata[usd.MetaCustom] != true {
		t.Error("generated visibility: ", raw)
	}
}

func TestConvertUserProperties(t *testing.T) {
	doc := fbx.NewDocument()
	node := doc.Root.AddChild(fbx.NewNode("Body", fbx.KindNull))
	node.AddUserProperty(fbx.NewUserProperty("max health", fbx.TypeInt, int64(200)))

	out, _ := convert(t, doc)

	prop, ok := out.Property("/ROOT/Body.userProperties:max_health")
	if !ok {
		t.Fatal("user property missing")
	}
	if prop.TypeName != usd.TypeInt {
		t.Error("type: ", prop.TypeName)
	}
	if v, ok := prop.Default.(int32); !ok || v != 200 {
		t.Error("value: ", prop.Default)
	}
	if prop.Metadata[usd.MetaCustom] != true || prop.Metadata[usd.MetaDisplayGroup] != usd.GroupUser {
		t.Error("metadata: ", prop.Metadata)
	}
}

func TestConvertUnknownBecomesScope(t *testing.T) {
	doc := fbx.NewDocument()
	doc.Root.AddChild(fbx.NewNode("Mystery", fbx.KindUnknown))

	out, _ := convert(t, doc)

	prim, ok := out.Prim("/ROOT/Mystery")
	if !ok || prim.TypeName != usd.PrimScope {
		t.Error("unknown node should become a Scope")
	}
}

func TestConvertUnsupportedKindsSkipped(t *testing.T) {
	doc := fbx.NewDocument()
	light := doc.Root.AddChild(fbx.NewNode("KeyLight", fbx.KindLight))
	light.AddChild(fbx.NewNode("Gobo", fbx.KindNull))

	out, _ := convert(t, doc)

	if _, ok := out.Prim("/ROOT/KeyLight"); ok {
		t.Error("light should not produce a prim")
	}
	// children of unsupported nodes still convert, keeping the hierarchy
	if _, ok := out.Prim("/ROOT/KeyLight/Gobo"); !ok {
		t.Error("child of an unsupported node should still convert")
	}
}

func TestConvertSkipKindsOption(t *testing.T) {
	doc := fbx.NewDocument()
	mesh := doc.Root.AddChild(fbx.NewNode("Body", fbx.KindMesh))
	mesh.Mesh = &fbx.Mesh{ControlPoints: []*geom.Vector3{{}}}
	mesh.AddChild(fbx.NewNode("Detail", fbx.KindNull))

	conv := NewFBXToUSDConverter(&FBXToUSDOption{SkipKinds: []string{"Mesh"}})
	out, err := conv.Convert(doc)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := out.Prim("/ROOT/Body"); ok {
		t.Error("skipped kind should drop the node")
	}
	if _, ok := out.Prim("/ROOT/Body/Detail"); ok {
		t.Error("skipped kind should drop the whole subtree")
	}
}

func TestConvertCamera(t *testing.T) {
	doc, layer := animatedDocument()
	node := doc.Root.AddChild(fbx.NewNode("Shot", fbx.KindCamera))
	node.Camera = fbx.NewCamera()
	node.Camera.FocalLength.Value = 35.0
	node.Camera.FocalLength.SetCurve(layer, 0, fbx.NewCurve(
		fbx.Key{Time: 0, Value: 35},
		fbx.Key{Time: 1, Value: 50},
		fbx.Key{Time: 2, Value: 50},
	))

	out, _ := convert(t, doc)

	prim, ok := out.Prim("/ROOT/Shot")
	if !ok || prim.TypeName != usd.PrimCamera {
		t.Fatal("camera prim missing")
	}

	focal, ok := out.Property("/ROOT/Shot.focalLength")
	if !ok {
		t.Fatal("focalLength missing")
	}
	// centimeter scene: tenth-of-scene-unit keeps millimeter values as-is
	if v := focal.Default.(float32); math.Abs(float64(v)-35) > 1e-6 {
		t.Error("default focal length: ", v)
	}
	if len(focal.TimeSamples) != 3 {
		t.Fatal("focal samples: ", len(focal.TimeSamples))
	}
	for i, expect := range []float32{35, 50, 50} {
		v := focal.TimeSamples[i].Value.(float32)
		if math.Abs(float64(v-expect)) > 1e-6 {
			t.Error("focal sample: ", i, v)
		}
	}
	if focal.Variability != usd.VariabilityVarying {
		t.Error("sampled focal length must be varying")
	}

	aperture, ok := out.Property("/ROOT/Shot.horizontalAperture")
	if !ok {
		t.Fatal("horizontalAperture missing")
	}
	expect := float32(1.2598 * 25.4)
	if v := aperture.Default.(float32); math.Abs(float64(v-expect)) > 1e-4 {
		t.Error("aperture: ", v, expect)
	}

	clipping, ok := out.Property("/ROOT/Shot.clippingRange")
	if !ok {
		t.Fatal("clippingRange missing")
	}
	if v := clipping.Default.(geom.Vector2); v.X != 10 || v.Y != 4000 {
		t.Error("clipping range: ", v)
	}

	if _, ok := out.Property("/ROOT/Shot.fStop"); ok {
		t.Error("fStop only exists with depth of field enabled")
	}
	if _, ok := out.Property("/ROOT/Shot.generated:fov"); !ok {
		t.Error("generated fov missing")
	}
}

func TestConvertMesh(t *testing.T) {
	doc := fbx.NewDocument()
	node := doc.Root.AddChild(fbx.NewNode("Quad", fbx.KindMesh))
	node.Mesh = &fbx.Mesh{
		ControlPoints: []*geom.Vector3{
			{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1},
		},
		Polygons: [][]int{{0, 1, 2, 3}},
		Layers: []*fbx.Layer{
			{
				Normals: &fbx.LayerElementVec3{
					Mapping:   fbx.MappingByPolygonVertex,
					Reference: fbx.ReferenceDirect,
					Data: []*geom.Vector3{
						{Z: 1}, {Z: 1}, {Z: 1}, {Z: 1},
					},
				},
				UVs: &fbx.LayerElementVec2{
					Name:      "base",
					Mapping:   fbx.MappingByPolygonVertex,
					Reference: fbx.ReferenceDirect,
					Data: []*geom.Vector2{
						{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1},
					},
				},
			},
			{
				UVs: &fbx.LayerElementVec2{
					Name:      "lightmap",
					Mapping:   fbx.MappingByPolygonVertex,
					Reference: fbx.ReferenceDirect,
					Data: []*geom.Vector2{
						{X: 0, Y: 0}, {X: 0.5, Y: 0}, {X: 0.5, Y: 0.5}, {X: 0, Y: 0.5},
					},
				},
			},
		},
	}

	out, _ := convert(t, doc)

	prim, ok := out.Prim("/ROOT/Quad")
	if !ok || prim.TypeName != usd.PrimMesh {
		t.Fatal("mesh prim missing")
	}

	points, _ := out.Property("/ROOT/Quad.points")
	if pts := points.Default.([]geom.Vector3); len(pts) != 4 {
		t.Error("point count: ", len(pts))
	}

	counts, _ := out.Property("/ROOT/Quad.faceVertexCounts")
	if v := counts.Default.([]int32); len(v) != 1 || v[0] != 4 {
		t.Error("face vertex counts: ", v)
	}
	indices, _ := out.Property("/ROOT/Quad.faceVertexIndices")
	if v := indices.Default.([]int32); len(v) != 4 || v[3] != 3 {
		t.Error("face vertex indices: ", v)
	}

	normals, _ := out.Property("/ROOT/Quad.normals")
	if v := normals.Default.([]geom.Vector3); len(v) != 4 || v[0].Z != 1 {
		t.Error("normals: ", v)
	}
	if normals.Metadata[usd.MetaInterpolation] != usd.TokenFaceVarying {
		t.Error("normals interpolation: ", normals.Metadata)
	}

	// two UV layers force the set-name suffix on both
	if _, ok := out.Property("/ROOT/Quad.primvars:st_base"); !ok {
		t.Error("first uv set missing")
	}
	if _, ok := out.Property("/ROOT/Quad.primvars:st_lightmap"); !ok {
		t.Error("second uv set missing")
	}
	if _, ok := out.Property("/ROOT/Quad.primvars:st"); ok {
		t.Error("unsuffixed uv set should not exist with two layers")
	}

	orientation, _ := out.Property("/ROOT/Quad.orientation")
	if orientation.Default != usd.TokenRightHanded || orientation.Variability != usd.VariabilityUniform {
		t.Error("orientation: ", orientation)
	}
	scheme, _ := out.Property("/ROOT/Quad.subdivisionScheme")
	if scheme.Default != usd.TokenNone {
		t.Error("subdivision scheme: ", scheme)
	}
}

func TestConvertMeshGeometricOffset(t *testing.T) {
	doc := fbx.NewDocument()
	node := doc.Root.AddChild(fbx.NewNode("Offset", fbx.KindMesh))
	node.GeometricTranslation = &geom.Vector3{X: 10}
	node.Mesh = &fbx.Mesh{
		ControlPoints: []*geom.Vector3{{X: 1}},
		Polygons:      [][]int{{0}},
	}

	out, _ := convert(t, doc)

	points, _ := out.Property("/ROOT/Offset.points")
	pts := points.Default.([]geom.Vector3)
	if math.Abs(pts[0].X-11) > 1e-9 {
		t.Error("geometric offset not applied: ", pts[0])
	}
}

func TestConvertSkinnedMesh(t *testing.T) {
	doc := fbx.NewDocument()
	hips := doc.Root.AddChild(fbx.NewNode("Hips", fbx.KindSkeleton))
	node := doc.Root.AddChild(fbx.NewNode("Body", fbx.KindMesh))
	node.Mesh = &fbx.Mesh{
		ControlPoints: []*geom.Vector3{{}, {}},
		Polygons:      [][]int{{0, 1}},
		Skin: &fbx.Skin{Clusters: []*fbx.Cluster{{
			Link:                hips,
			ControlPointIndices: []int{0, 1},
			Weights:             []float64{1, 1},
		}}},
	}

	out, _ := convert(t, doc)

	prim, _ := out.Prim("/ROOT/Body")
	schemas, ok := prim.Metadata[usd.MetaAPISchemas].([]string)
	if !ok || len(schemas) != 1 || schemas[0] != usd.TokenSkelBindingAPI {
		t.Error("api schemas: ", prim.Metadata[usd.MetaAPISchemas])
	}

	joints, ok := out.Property("/ROOT/Body.skel:joints")
	if !ok {
		t.Fatal("skel:joints missing")
	}
	if v := joints.Default.([]string); len(v) != 1 || v[0] != "Hips" {
		t.Error("joints: ", v)
	}

	jointIndices, _ := out.Property("/ROOT/Body.primvars:skel:jointIndices")
	if jointIndices.Metadata[usd.MetaElementSize] != 1 {
		t.Error("element size: ", jointIndices.Metadata)
	}

	rel, ok := out.Property("/ROOT/Body.skel:skeleton")
	if !ok || !rel.IsRelationship() {
		t.Fatal("skeleton relationship missing")
	}
	if rel.TargetPaths[0] != "/ROOT/Hips" {
		t.Error("relationship target: ", rel.TargetPaths)
	}
}

func TestConvertSkeleton(t *testing.T) {
	doc, layer := animatedDocument()
	hips := doc.Root.AddChild(fbx.NewNode("Hips", fbx.KindSkeleton))
	spine := hips.AddChild(fbx.NewNode("Spine", fbx.KindSkeleton))
	spine.Translation.Value = &geom.Vector3{Y: 4}
	spine.Rotation.SetCurve(layer, 2, fbx.NewCurve(
		fbx.Key{Time: 0, Value: 0},
		fbx.Key{Time: 2, Value: 90},
	))

	out, conv := convert(t, doc)

	prim, ok := out.Prim("/ROOT/Hips")
	if !ok || prim.TypeName != usd.PrimSkeleton {
		t.Fatal("skeleton prim missing")
	}
	// child joints fold into the flattened skeleton
	if _, ok := out.Prim("/ROOT/Hips/Spine"); ok {
		t.Error("child joints must not become prims")
	}

	joints, _ := out.Property("/ROOT/Hips.joints")
	tokens := joints.Default.([]string)
	if len(tokens) != 2 || tokens[1] != "Hips/Spine" {
		t.Error("joint tokens: ", tokens)
	}
	rest, _ := out.Property("/ROOT/Hips.restTransforms")
	if v := rest.Default.([]geom.Matrix4); len(v) != len(tokens) {
		t.Error("rest transforms must align with joints: ", len(v))
	}
	bind, _ := out.Property("/ROOT/Hips.bindTransforms")
	if v := bind.Default.([]geom.Matrix4); len(v) != len(tokens) {
		t.Error("bind transforms must align with joints: ", len(v))
	}

	anim, ok := out.Prim("/ROOT/AnimationHips")
	if !ok || anim.TypeName != usd.PrimSkelAnimation {
		t.Fatal("animation prim missing")
	}
	root, _ := out.Prim("/ROOT")
	found := false
	for _, child := range root.Children {
		if child == "AnimationHips" {
			found = true
		}
	}
	if !found {
		t.Error("animation prim not registered on parent: ", root.Children)
	}

	rotations, _ := out.Property("/ROOT/AnimationHips.rotations")
	if len(rotations.TimeSamples) != 3 {
		t.Fatal("rotation samples: ", len(rotations.TimeSamples))
	}
	frame2 := rotations.TimeSamples[2].Value.([]geom.Quaternion)
	if len(frame2) != 2 {
		t.Fatal("per-joint rotations: ", len(frame2))
	}
	// spine rotated 90 degrees around z at the last frame
	expect := geom.NewEuler(0, 0, math.Pi/2, geom.RotationOrderXYZ).ToQuaternion()
	if frame2[1].Sub(expect).Len() > 1e-6 && frame2[1].Add(expect).Len() > 1e-6 {
		t.Error("spine rotation: ", frame2[1])
	}

	scales, _ := out.Property("/ROOT/AnimationHips.scales")
	if len(scales.TimeSamples) != 0 {
		t.Error("constant scales must not carry samples")
	}

	source, ok := out.Property("/ROOT/Hips.skel:animationSource")
	if !ok || !source.IsRelationship() || source.TargetPaths[0] != "/ROOT/AnimationHips" {
		t.Error("animation source relationship: ", source)
	}

	if !conv.Diagnostics().Empty() {
		t.Error("unexpected warnings: ", conv.Diagnostics().Warnings())
	}
}

func TestConvertSkeletonAnimatedUserProperties(t *testing.T) {
	doc, layer := animatedDocument()
	hips := doc.Root.AddChild(fbx.NewNode("Hips", fbx.KindSkeleton))
	prop := hips.AddUserProperty(fbx.NewUserProperty("tension", fbx.TypeDouble, 0.5))
	prop.SetCurve(layer, 0, fbx.NewCurve(
		fbx.Key{Time: 0, Value: 0.5},
		fbx.Key{Time: 2, Value: 1.0},
	))

	out, _ := convert(t, doc)

	agg, ok := out.Property("/ROOT/AnimationHips.userProperties:tension")
	if !ok {
		t.Fatal("aggregated user property missing")
	}
	if agg.TypeName != usd.ArrayTypeName(usd.TypeDouble) {
		t.Error("aggregated type: ", agg.TypeName)
	}
	if len(agg.TimeSamples) != 3 {
		t.Error("aggregated samples: ", len(agg.TimeSamples))
	}
	values := agg.TimeSamples[2].Value.([]interface{})
	if len(values) != 1 || values[0] != 1.0 {
		t.Error("aggregated value: ", values)
	}

	owner, ok := out.Property("/ROOT/AnimationHips.userProperties:tension:owner")
	if !ok {
		t.Fatal("owner property missing")
	}
	if v := owner.Default.([]string); len(v) != 1 || v[0] != "Hips" {
		t.Error("owner tokens: ", v)
	}
}

func TestConvertSkeletonMissingParentWarning(t *testing.T) {
	doc, _ := animatedDocument()
	light := doc.Root.AddChild(fbx.NewNode("Rig", fbx.KindLight))
	light.AddChild(fbx.NewNode("Hips", fbx.KindSkeleton))

	_, conv := convert(t, doc)

	found := false
	for _, w := range conv.Diagnostics().Warnings() {
		if strings.Contains(w.Message, "unable to find a parent") {
			found = true
		}
	}
	if !found {
		t.Error("expected a missing parent warning: ", conv.Diagnostics().Warnings())
	}
}

func TestConvertNoAnimationLayer(t *testing.T) {
	doc := fbx.NewDocument()
	doc.Root.AddChild(fbx.NewNode("Hips", fbx.KindSkeleton))

	out, _ := convert(t, doc)

	if _, ok := out.Prim("/ROOT/AnimationHips"); ok {
		t.Error("no animation prim without a layer")
	}
	if _, ok := out.Prim("/ROOT/Hips"); !ok {
		t.Error("skeleton prim should still exist")
	}
}
