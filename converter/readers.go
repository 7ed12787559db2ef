package converter

import (
	"fmt"
	"sort"

	"github.com/mashiro3d/fbx2usd/fbx"
	"github.com/mashiro3d/fbx2usd/geom"
	"github.com/mashiro3d/fbx2usd/usd"
)

// metaEntry is one metadata key/value attached at property creation.
type metaEntry struct {
	key   string
	value interface{}
}

func displayGroup(name string) metaEntry {
	return metaEntry{key: usd.MetaDisplayGroup, value: name}
}

func customFlag() metaEntry {
	return metaEntry{key: usd.MetaCustom, value: true}
}

// nodeContext carries everything one node's readers need: the node, its
// output path, the animation layer and span to sample against, and the
// documents on both sides. Several readers contribute to the same prim, so
// prims are always fetched get-or-add.
type nodeContext struct {
	node     *fbx.Node
	path     usd.Path
	rootPath usd.Path
	layer    *fbx.AnimLayer
	span     fbx.TimeSpan
	src      *fbx.Document
	out      *usd.Document
	diags    *Diagnostics
}

type readerFunc func(*nodeContext)

func (c *nodeContext) GetOrAddPrim() *usd.Prim {
	return c.out.GetOrAddPrim(c.path)
}

func (c *nodeContext) PrimAt(path usd.Path) (*usd.Prim, bool) {
	return c.out.Prim(path)
}

func (c *nodeContext) AddPrim(path usd.Path) *usd.Prim {
	return c.out.GetOrAddPrim(path)
}

func (c *nodeContext) Warnf(format string, args ...interface{}) {
	c.diags.warnf(c.node.Name, c.path, format, args...)
}

func (c *nodeContext) createAt(path usd.Path, typeName string, value interface{}, meta []metaEntry) *usd.Property {
	prop := c.out.GetOrAddProperty(path)
	prop.TypeName = typeName
	prop.Default = value
	for _, m := range meta {
		prop.Metadata[m.key] = m.value
	}
	return prop
}

// CreateProperty writes a varying property on the node's prim. When source
// is non-nil its animation curves are sampled into time samples.
func (c *nodeContext) CreateProperty(name, typeName string, value interface{}, source *fbx.Property, meta ...metaEntry) *usd.Property {
	return c.CreatePropertyAt(c.path.AppendProperty(name), typeName, value, source, meta...)
}

func (c *nodeContext) CreatePropertyAt(path usd.Path, typeName string, value interface{}, source *fbx.Property, meta ...metaEntry) *usd.Property {
	prop := c.createAt(path, typeName, value, meta)
	if source != nil {
		prop.SetTimeSamples(samplePropertyAnimation(source, c.layer, c.span))
	}
	return prop
}

// CreateSampledProperty writes a varying property whose samples come from
// evaluating fn once per frame.
func (c *nodeContext) CreateSampledProperty(name, typeName string, value interface{}, fn valueAtTimeFunc, meta ...metaEntry) *usd.Property {
	prop := c.createAt(c.path.AppendProperty(name), typeName, value, meta)
	prop.SetTimeSamples(sampleNodeFunc(c.node, fn, c.layer, c.span))
	return prop
}

// CreateUniformProperty writes a property that never varies over time.
func (c *nodeContext) CreateUniformProperty(name, typeName string, value interface{}, meta ...metaEntry) *usd.Property {
	return c.CreateUniformPropertyAt(c.path.AppendProperty(name), typeName, value, meta...)
}

func (c *nodeContext) CreateUniformPropertyAt(path usd.Path, typeName string, value interface{}, meta ...metaEntry) *usd.Property {
	prop := c.createAt(path, typeName, value, meta)
	prop.Variability = usd.VariabilityUniform
	return prop
}

// CreateRelationship writes a relationship from the node's prim to another
// path.
func (c *nodeContext) CreateRelationship(name string, to usd.Path, meta ...metaEntry) *usd.Property {
	return c.CreateRelationshipAt(c.path.AppendProperty(name), to, meta...)
}

func (c *nodeContext) CreateRelationshipAt(path usd.Path, to usd.Path, meta ...metaEntry) *usd.Property {
	prop := c.createAt(path, usd.TypeToken, nil, meta)
	prop.Variability = usd.VariabilityUniform
	prop.TargetPaths = append(prop.TargetPaths, to)
	return prop
}

// nodeReaders maps a node's attribute kind to its ordered reader chain.
// Order matters: the transform reader bakes pivot animation before anything
// samples the node, and the skeleton reader creates the prim its animation
// reader links to. Kinds with an empty chain are recognized but skipped.
var nodeReaders = map[fbx.AttributeKind][]readerFunc{
	fbx.KindNull:     {readMetadata, readTransform, readImageable, readUserProperties},
	fbx.KindMesh:     {readMetadata, readTransform, readImageable, readMesh, readUserProperties},
	fbx.KindCamera:   {readMetadata, readTransform, readImageable, readCamera, readUserProperties},
	fbx.KindSkeleton: {readMetadata, readSkeleton, readSkeletonAnimation, readImageable},
	fbx.KindUnknown:  {readMetadata, readUnknown},

	fbx.KindNurbs:            {},
	fbx.KindNurbsCurve:       {},
	fbx.KindNurbsSurface:     {},
	fbx.KindTrimNurbsSurface: {},
	fbx.KindPatch:            {},
	fbx.KindLight:            {},
	fbx.KindLODGroup:         {},
	fbx.KindCameraStereo:     {},
	fbx.KindCameraSwitcher:   {},
	fbx.KindOpticalReference: {},
	fbx.KindOpticalMarker:    {},
	fbx.KindBoundary:         {},
	fbx.KindShape:            {},
	fbx.KindSubDiv:           {},
	fbx.KindCachedEffect:     {},
	fbx.KindLine:             {},
}

func readMetadata(c *nodeContext) {
	prim := c.GetOrAddPrim()
	prim.Metadata[usd.MetaActive] = true
	prim.Metadata[usd.MetaHidden] = false
	prim.Metadata[usd.MetaComment] = fmt.Sprintf("Converted from %q", c.node.Name)
}

func readUnknown(c *nodeContext) {
	c.GetOrAddPrim().TypeName = usd.PrimScope
}

func readTransform(c *nodeContext) {
	c.GetOrAddPrim().TypeName = usd.PrimXform

	// Pre-rotation cannot be expressed in the fixed op order, so it is
	// baked into the rotation property first.
	c.node.BakePivotAnimation(c.layer)

	rotateOp, ok := rotateOpName(c.node.RotationOrder)
	if !ok {
		c.Warnf("rotation order %s is not supported, falling back to XYZ; this may change the evaluated orientation", c.node.RotationOrder)
	}

	c.CreateProperty(opTranslate, usd.TypeDouble3,
		*c.node.Translation.ToVector3(0, 0, 0), c.node.Translation)
	c.CreateProperty(opPivot, usd.TypeDouble3,
		*c.node.RotationPivot.ToVector3(0, 0, 0), c.node.RotationPivot)
	c.CreateProperty(rotateOp, usd.TypeFloat3,
		*c.node.Rotation.ToVector3(0, 0, 0), c.node.Rotation)
	c.CreateProperty(opScale, usd.TypeFloat3,
		*c.node.Scaling.ToVector3(1, 1, 1), c.node.Scaling)
	c.CreateUniformProperty(usd.TokenXformOpOrder, usd.TypeTokenArray, xformOpOrder(rotateOp))
}

// imageableVisibility folds a scalar visibility level into the two-state
// token model: near-zero or negative means invisible, anything else
// inherits.
func imageableVisibility(c *nodeContext, t fbx.Time) string {
	v := c.src.Evaluator().PropertyValue(c.node.Visibility, t)
	if v < 1e-6 {
		return usd.TokenInvisible
	}
	return usd.TokenInherited
}

func readImageable(c *nodeContext) {
	c.CreateSampledProperty(usd.TokenVisibility, usd.TypeToken,
		imageableVisibility(c, 0),
		func(_ *fbx.Node, t fbx.Time) interface{} { return imageableVisibility(c, t) },
		displayGroup(usd.GroupImageable))

	c.CreateUniformProperty(usd.TokenPurpose, usd.TypeToken, usd.TokenDefault,
		displayGroup(usd.GroupImageable))

	// The token form loses the raw level and any animation, so the source
	// value is kept alongside as a custom scalar.
	c.CreateProperty(usd.GeneratedPrefix+usd.TokenVisibility, usd.TypeDouble,
		c.node.Visibility.ToFloat(1), c.node.Visibility,
		displayGroup(usd.GroupGenerated), customFlag())
}

func readUserProperties(c *nodeContext) {
	for _, p := range c.node.UserProperties() {
		c.CreateProperty(usd.UserPropertyPrefix+cleanName(p.Name),
			usdTypeName(p.Type), usdValue(p), p,
			displayGroup(usd.GroupUser), customFlag())
	}
}

func cameraFocalLength(c *nodeContext, t fbx.Time) float32 {
	fl := c.src.Evaluator().PropertyValue(c.node.Camera.FocalLength, t)
	return float32(toTenthSceneUnit(fl, c.src.Settings.Units))
}

func cameraFieldOfView(c *nodeContext, t fbx.Time) float32 {
	return float32(c.src.Evaluator().PropertyValue(c.node.Camera.FieldOfView, t))
}

// cameraAperture converts a film dimension, stored in inches, into tenths of
// the scene unit.
func cameraAperture(inches float64, camera *fbx.Camera, units fbx.UnitSystem) float32 {
	return float32(toTenthSceneUnit(inches*camera.FilmSqueeze*mmPerInch, units))
}

func readCamera(c *nodeContext) {
	c.GetOrAddPrim().TypeName = usd.PrimCamera
	camera := c.node.Camera
	if camera == nil {
		return
	}
	units := c.src.Settings.Units

	c.CreateSampledProperty(usd.TokenFocalLength, usd.TypeFloat,
		cameraFocalLength(c, 0),
		func(_ *fbx.Node, t fbx.Time) interface{} { return cameraFocalLength(c, t) },
		displayGroup(usd.GroupCamera))

	c.CreateProperty(usd.TokenFocusDistance, usd.TypeFloat,
		float32(camera.FocusDistance.ToFloat(0)), camera.FocusDistance,
		displayGroup(usd.GroupCamera))

	c.CreateProperty(usd.TokenHorizontalAperture, usd.TypeFloat,
		cameraAperture(camera.FilmWidth, camera, units), nil,
		displayGroup(usd.GroupCamera))

	c.CreateProperty(usd.TokenVerticalAperture, usd.TypeFloat,
		cameraAperture(camera.FilmHeight, camera, units), nil,
		displayGroup(usd.GroupCamera))

	projection := usd.TokenPerspective
	if camera.Projection == fbx.ProjectionOrthographic {
		projection = usd.TokenOrthographic
	}
	c.CreateProperty(usd.TokenProjection, usd.TypeToken, projection, nil,
		displayGroup(usd.GroupCamera))

	// No f-stop on the source side; zero disables depth of field blur.
	if camera.UseDepthOfField {
		c.CreateProperty(usd.TokenFStop, usd.TypeFloat, float32(0), nil,
			displayGroup(usd.GroupCamera))
	}

	c.CreateProperty(usd.TokenClippingRange, usd.TypeFloat2,
		geom.Vector2{X: camera.NearPlane, Y: camera.FarPlane}, nil,
		displayGroup(usd.GroupCamera))

	c.CreateSampledProperty(usd.GeneratedPrefix+"fov", usd.TypeFloat,
		cameraFieldOfView(c, 0),
		func(_ *fbx.Node, t fbx.Time) interface{} { return cameraFieldOfView(c, t) },
		displayGroup(usd.GroupGenerated), customFlag())
}

func readMesh(c *nodeContext) {
	c.GetOrAddPrim().TypeName = usd.PrimMesh
	mesh := c.node.Mesh
	if mesh == nil {
		return
	}

	c.CreateProperty(usd.TokenPoints, usd.TypePoint3Array,
		meshPoints(c.node), nil, displayGroup(usd.GroupGeometry))

	c.CreateProperty(usd.TokenNormals, usd.TypeNormal3Array,
		meshNormals(mesh), nil,
		displayGroup(usd.GroupGeometry),
		metaEntry{key: usd.MetaInterpolation, value: usd.TokenFaceVarying})

	c.CreateProperty(usd.TokenTangents, usd.TypeNormal3Array,
		meshTangents(mesh), nil,
		displayGroup(usd.GroupGeometry),
		metaEntry{key: usd.MetaInterpolation, value: usd.TokenFaceVarying})

	if mesh.HasVertexColors() {
		c.CreateProperty(usd.TokenDisplayColor, usd.TypeColor3Array,
			meshVertexColors(mesh), nil,
			displayGroup(usd.GroupGeometry),
			metaEntry{key: usd.MetaInterpolation, value: usd.TokenVertex})
	}

	c.CreateProperty(usd.TokenFaceVertexCounts, usd.TypeIntArray,
		meshFaceVertexCounts(mesh), nil, displayGroup(usd.GroupGeometry))

	c.CreateProperty(usd.TokenFaceVertexIndices, usd.TypeIntArray,
		meshFaceVertexIndices(mesh), nil, displayGroup(usd.GroupGeometry))

	if skin := mesh.FindSkin(); skin != nil {
		readSkinBinding(c, skin, mesh)
	}

	// UV sets become one primvar per layer, suffixed by the set name when
	// the mesh carries more than one layer.
	layerCount := len(mesh.Layers)
	for _, layer := range mesh.Layers {
		uvs := layer.UVs
		if uvs == nil || uvs.Mapping != fbx.MappingByPolygonVertex || uvs.Reference == fbx.ReferenceIndex {
			continue
		}
		name := usd.TokenSTBase
		if layerCount > 1 {
			name += "_" + cleanName(uvs.Name)
		}
		c.CreateProperty(name, usd.TypeTexCoord2Array,
			meshTexCoords(mesh, uvs), nil,
			metaEntry{key: usd.MetaInterpolation, value: usd.TokenFaceVarying},
			displayGroup(usd.GroupGeometry))
	}

	// Orientation is only a hint for renderers that compute their own
	// normals; authored normals take precedence.
	c.CreateUniformProperty(usd.TokenOrientation, usd.TypeToken,
		usd.TokenRightHanded, displayGroup(usd.GroupGeometry))

	c.CreateUniformProperty(usd.TokenSubdivisionScheme, usd.TypeToken,
		usd.TokenNone, displayGroup(usd.GroupGeometry))
}

func readSkinBinding(c *nodeContext, skin *fbx.Skin, mesh *fbx.Mesh) {
	c.GetOrAddPrim().Metadata[usd.MetaAPISchemas] = []string{usd.TokenSkelBindingAPI}

	binding := resolveSkinBinding(skin, mesh, c.rootPath)
	if len(binding.Joints) == 0 {
		c.Warnf("a skin for %q is defined, but no joints could be extracted", c.node.Name)
		return
	}

	bind := c.src.Evaluator().NodeWorldTransform(c.node, 0)
	bind.SetS(&geom.Vector3{X: 1, Y: 1, Z: 1})

	c.CreateUniformProperty(usd.TokenSkelJoints, usd.TypeTokenArray,
		binding.Joints, displayGroup(usd.GroupSkeleton))

	c.CreateProperty(usd.TokenJointIndicesPrimvar, usd.TypeIntArray,
		binding.JointIndices, nil,
		metaEntry{key: usd.MetaInterpolation, value: usd.TokenVertex},
		metaEntry{key: usd.MetaElementSize, value: binding.ElementSize},
		displayGroup(usd.GroupSkeleton))

	c.CreateProperty(usd.TokenJointWeightsPrimvar, usd.TypeFloatArray,
		binding.JointWeights, nil,
		metaEntry{key: usd.MetaInterpolation, value: usd.TokenVertex},
		metaEntry{key: usd.MetaElementSize, value: binding.ElementSize},
		displayGroup(usd.GroupSkeleton))

	c.CreateProperty(usd.TokenGeomBindTransformPrimvar, usd.TypeMatrix4d,
		*bind, nil, displayGroup(usd.GroupSkeleton))

	c.CreateRelationship(usd.TokenSkelSkeleton, binding.SkeletonPath,
		displayGroup(usd.GroupSkeleton))
}

func readSkeleton(c *nodeContext) {
	// Child joints are folded into the flattened skeleton when the chain
	// root is read.
	if c.node.Parent.IsSkeleton() {
		return
	}

	prim := c.GetOrAddPrim()
	prim.TypeName = usd.PrimSkeleton

	chain := collectJointChain(c.node, c.diags)
	scaleFactor := c.src.Settings.Units.ConversionFactorFrom(c.src.Settings.OriginalUnits)
	eval := c.src.Evaluator()

	c.CreateUniformProperty(usd.TokenJoints, usd.TypeTokenArray,
		jointPathTokens(chain), displayGroup(usd.GroupSkeleton))
	c.CreateUniformProperty(usd.TokenRestTransforms, usd.TypeMatrix4dArray,
		jointRestTransforms(chain, eval, scaleFactor, spaceLocal),
		displayGroup(usd.GroupSkeleton))
	c.CreateUniformProperty(usd.TokenBindTransforms, usd.TypeMatrix4dArray,
		jointRestTransforms(chain, eval, 1, spaceWorld),
		displayGroup(usd.GroupSkeleton))
}

// aggregatedProperty collects one user property name across every joint of a
// chain: per-joint defaults, owner joint tokens and merged time samples.
type aggregatedProperty struct {
	name       string
	typeName   string
	values     []interface{}
	ownerPaths []string
	samples    map[float64][]interface{}
}

func readSkeletonAnimation(c *nodeContext) {
	if c.layer == nil {
		return
	}
	if c.node.Parent.IsSkeleton() {
		return
	}

	parentPath := c.path.Parent()
	animName := "Animation" + c.path.Name()
	animPath := parentPath.AppendChild(animName)

	if parent, ok := c.PrimAt(parentPath); ok {
		parent.AddChildName(animName)
	} else {
		c.Warnf("unable to find a parent at path %q", parentPath)
	}

	prim := c.AddPrim(animPath)
	prim.TypeName = usd.PrimSkelAnimation

	chain := collectJointChain(c.node, c.diags)
	tokens := jointPathTokens(chain)
	eval := c.src.Evaluator()

	// Animated user properties live on individual joints on the source
	// side; here they aggregate into one array property per name, with an
	// owner list mapping entries back to joints.
	aggregated := map[string]*aggregatedProperty{}
	var order []string
	for i, joint := range chain {
		props := joint.AnimatedUserProperties(c.layer)
		if joint.Visibility.CurveNode(c.layer) != nil {
			props = append(props, joint.Visibility)
		}
		for _, p := range props {
			name := usd.UserPropertyPrefix + cleanName(p.Name)
			agg := aggregated[name]
			if agg == nil {
				agg = &aggregatedProperty{
					name:     name,
					typeName: usd.ArrayTypeName(usdTypeName(p.Type)),
					samples:  map[float64][]interface{}{},
				}
				aggregated[name] = agg
				order = append(order, name)
			}
			for _, sample := range samplePropertyAnimation(p, c.layer, c.span) {
				agg.samples[sample.Time] = append(agg.samples[sample.Time], sample.Value)
			}
			agg.values = append(agg.values, usdValue(p))
			agg.ownerPaths = append(agg.ownerPaths, tokens[i])
		}
	}

	frameCount := c.span.FrameCount() + 1
	translations := make([]usd.TimeSample, 0, frameCount)
	rotations := make([]usd.TimeSample, 0, frameCount)
	scales := make([]usd.TimeSample, 0, frameCount)
	for frame := int(c.span.Start); frame <= int(c.span.Stop); frame++ {
		t := fbx.Time(frame)
		frameTranslations := make([]geom.Vector3, 0, len(chain))
		frameRotations := make([]geom.Quaternion, 0, len(chain))
		frameScales := make([]geom.Vector3, 0, len(chain))
		for _, joint := range chain {
			local := eval.NodeLocalTransform(joint, t)
			frameTranslations = append(frameTranslations, *local.GetT())
			frameRotations = append(frameRotations, *local.ExtractRotation())
			frameScales = append(frameScales, geom.Vector3{X: 1, Y: 1, Z: 1})
		}
		translations = append(translations, usd.TimeSample{Time: float64(frame), Value: frameTranslations})
		rotations = append(rotations, usd.TimeSample{Time: float64(frame), Value: frameRotations})
		scales = append(scales, usd.TimeSample{Time: float64(frame), Value: frameScales})
	}
	if len(translations) == 0 {
		return
	}

	// Per-frame matrix sampling says nothing by itself; scales only become
	// samples when some frame actually differs from the first.
	hasUniqueScales := false
	for _, s := range scales[1:] {
		if !equalVector3Slices(s.Value.([]geom.Vector3), scales[0].Value.([]geom.Vector3)) {
			hasUniqueScales = true
			break
		}
	}

	c.CreateUniformPropertyAt(animPath.AppendProperty(usd.TokenJoints),
		usd.TypeTokenArray, tokens, displayGroup(usd.GroupSkelAnimation))

	translationsProp := c.CreatePropertyAt(animPath.AppendProperty(usd.TokenTranslations),
		usd.TypeFloat3Array, translations[0].Value, nil, displayGroup(usd.GroupSkelAnimation))
	translationsProp.SetTimeSamples(translations)

	rotationsProp := c.CreatePropertyAt(animPath.AppendProperty(usd.TokenRotations),
		usd.TypeQuatfArray, rotations[0].Value, nil, displayGroup(usd.GroupSkelAnimation))
	rotationsProp.SetTimeSamples(rotations)

	scalesProp := c.CreatePropertyAt(animPath.AppendProperty(usd.TokenScales),
		usd.TypeHalf3Array, scales[0].Value, nil, displayGroup(usd.GroupSkelAnimation))
	if hasUniqueScales {
		scalesProp.SetTimeSamples(scales)
	}

	for _, name := range order {
		agg := aggregated[name]
		prop := c.CreatePropertyAt(animPath.AppendProperty(agg.name),
			agg.typeName, agg.values, nil,
			displayGroup(usd.GroupUser), customFlag())
		prop.SetTimeSamples(sortedSamples(agg.samples))

		c.CreateUniformPropertyAt(animPath.AppendProperty(agg.name+":owner"),
			usd.TypeTokenArray, agg.ownerPaths,
			displayGroup(usd.GroupUser), customFlag())
	}

	c.CreateRelationshipAt(c.path.AppendProperty(usd.TokenSkelAnimationSource),
		animPath, displayGroup(usd.GroupSkelAnimation))
}

func equalVector3Slices(a, b []geom.Vector3) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sortedSamples(m map[float64][]interface{}) []usd.TimeSample {
	times := make([]float64, 0, len(m))
	for t := range m {
		times = append(times, t)
	}
	sort.Float64s(times)
	samples := make([]usd.TimeSample, 0, len(times))
	for _, t := range times {
		samples = append(samples, usd.TimeSample{Time: t, Value: m[t]})
	}
	return samples
}
