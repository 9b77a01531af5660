package meshres

// StaticMesh is an in-memory Source, used for generated preview geometry
// and tests.
type StaticMesh struct {
	Name      string
	Position  []float32
	Normal    []float32
	TexCoord  []float32
	IndexList []uint32
}

func (m *StaticMesh) ID() string           { return m.Name }
func (m *StaticMesh) Positions() []float32 { return m.Position }
func (m *StaticMesh) Normals() []float32   { return m.Normal }
func (m *StaticMesh) UVs() []float32       { return m.TexCoord }
func (m *StaticMesh) Indices() []uint32    { return m.IndexList }

// NewQuad builds a width x height plane in the XY plane at z = 0, facing +Z,
// centered on the origin. UV (0,0) is the top-left corner.
func NewQuad(id string, width, height float32) *StaticMesh {
	hw, hh := width/2, height/2
	return &StaticMesh{
		Name: id,
		Position: []float32{
			-hw, hh, 0, // top-left
			hw, hh, 0, // top-right
			-hw, -hh, 0, // bottom-left
			hw, -hh, 0, // bottom-right
		},
		Normal: []float32{
			0, 0, 1,
			0, 0, 1,
			0, 0, 1,
			0, 0, 1,
		},
		TexCoord: []float32{
			0, 0,
			1, 0,
			0, 1,
			1, 1,
		},
		IndexList: []uint32{0, 2, 1, 1, 2, 3},
	}
}
