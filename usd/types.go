package usd

// Value type names. Half-precision values are stored as float32; the type
// name records the intended schema type.
const (
	TypeBool       = "bool"
	TypeUChar      = "uchar"
	TypeInt        = "int"
	TypeUInt       = "uint"
	TypeInt64      = "int64"
	TypeUInt64     = "uint64"
	TypeHalf       = "half"
	TypeFloat      = "float"
	TypeDouble     = "double"
	TypeDouble2    = "double2"
	TypeDouble3    = "double3"
	TypeDouble4    = "double4"
	TypeFloat2     = "float2"
	TypeFloat3     = "float3"
	TypeMatrix4d   = "matrix4d"
	TypeTimeCode   = "timecode"
	TypeToken      = "token"
	TypeTokenArray = "token[]"
	TypeIntArray   = "int[]"
	TypeFloatArray = "float[]"

	TypePoint3Array    = "point3f[]"
	TypeNormal3Array   = "normal3f[]"
	TypeColor3Array    = "color3f[]"
	TypeTexCoord2Array = "texCoord2f[]"
	TypeMatrix4dArray  = "matrix4d[]"
	TypeFloat3Array    = "float3[]"
	TypeHalf3Array     = "half3[]"
	TypeQuatfArray     = "quatf[]"
)

// ArrayTypeName returns the array form of a value type name.
func ArrayTypeName(t string) string {
	return t + "[]"
}

// Prim type names.
const (
	PrimScope         = "Scope"
	PrimXform         = "Xform"
	PrimMesh          = "Mesh"
	PrimCamera        = "Camera"
	PrimSkeleton      = "Skeleton"
	PrimSkelAnimation = "SkelAnimation"
)

// Metadata field keys.
const (
	MetaActive        = "active"
	MetaHidden        = "hidden"
	MetaComment       = "comment"
	MetaAPISchemas    = "apiSchemas"
	MetaDisplayGroup  = "displayGroup"
	MetaCustom        = "custom"
	MetaInterpolation = "interpolation"
	MetaElementSize   = "elementSize"
)

// Property display groups attached for downstream UI grouping. Fixed set.
const (
	GroupImageable     = "Imageable"
	GroupGeometry      = "Geometry"
	GroupCamera        = "Camera"
	GroupSkeleton      = "Skeleton"
	GroupSkelAnimation = "SkelAnimation"
	GroupUser          = "User"
	GroupGenerated     = "Generated"
)

// Schema tokens.
const (
	TokenVisibility        = "visibility"
	TokenInherited         = "inherited"
	TokenInvisible         = "invisible"
	TokenPurpose           = "purpose"
	TokenDefault           = "default"
	TokenXformOpOrder      = "xformOpOrder"
	TokenPoints            = "points"
	TokenNormals           = "normals"
	TokenTangents          = "tangents"
	TokenFaceVertexCounts  = "faceVertexCounts"
	TokenFaceVertexIndices = "faceVertexIndices"
	TokenOrientation       = "orientation"
	TokenRightHanded       = "rightHanded"
	TokenSubdivisionScheme = "subdivisionScheme"
	TokenNone              = "none"
	TokenVertex            = "vertex"
	TokenFaceVarying       = "faceVarying"

	TokenDisplayColor = "primvars:displayColor"
	TokenSTBase       = "primvars:st"

	TokenProjection       = "projection"
	TokenPerspective      = "perspective"
	TokenOrthographic     = "orthographic"
	TokenFocalLength      = "focalLength"
	TokenFocusDistance    = "focusDistance"
	TokenFStop            = "fStop"
	TokenHorizontalAperture = "horizontalAperture"
	TokenVerticalAperture   = "verticalAperture"
	TokenClippingRange      = "clippingRange"

	TokenSkelJoints             = "skel:joints"
	TokenSkelSkeleton           = "skel:skeleton"
	TokenSkelAnimationSource    = "skel:animationSource"
	TokenSkelBindingAPI         = "SkelBindingAPI"
	TokenJoints                 = "joints"
	TokenRestTransforms         = "restTransforms"
	TokenBindTransforms         = "bindTransforms"
	TokenTranslations           = "translations"
	TokenRotations              = "rotations"
	TokenScales                 = "scales"
	TokenJointIndicesPrimvar    = "primvars:skel:jointIndices"
	TokenJointWeightsPrimvar    = "primvars:skel:jointWeights"
	TokenGeomBindTransformPrimvar = "primvars:skel:geomBindTransform"
)

const (
	UserPropertyPrefix = "userProperties:"
	GeneratedPrefix    = "generated:"
)
