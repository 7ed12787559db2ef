package fbx

type ProjectionKind int

const (
	ProjectionPerspective ProjectionKind = iota
	ProjectionOrthographic
)

// Camera is a camera node attribute. Film sizes are stored in inches, the
// FBX way; focal length and field of view are animatable properties.
type Camera struct {
	FocalLength    *Property
	FocusDistance  *Property
	FieldOfView    *Property
	FilmWidth      float64
	FilmHeight     float64
	FilmSqueeze    float64
	NearPlane      float64
	FarPlane       float64
	Projection     ProjectionKind
	UseDepthOfField bool
}

func NewCamera() *Camera {
	return &Camera{
		FocalLength:   NewProperty("FocalLength", TypeDouble, 35.0),
		FocusDistance: NewProperty("FocusDistance", TypeDouble, 200.0),
		FieldOfView:   NewProperty("FieldOfView", TypeDouble, 40.0),
		FilmWidth:     1.2598,
		FilmHeight:    0.7087,
		FilmSqueeze:   1,
		NearPlane:     10,
		FarPlane:      4000,
	}
}
