package datatypes

import (
	"fmt"
	"math"
	"sort"

	"github.com/emer/etable/etensor"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/neuronlabs/tvb/arrays"
	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/errors"
	"github.com/neuronlabs/tvb/traits"
)

// Surface types.
const (
	SurfaceTypeCortical    = "Cortical Surface"
	SurfaceTypeBrainSkull  = "Brain Skull"
	SurfaceTypeSkullSkin   = "Skull Skin"
	SurfaceTypeSkinAir     = "Skin Air"
	SurfaceTypeEEGCap      = "EEG Cap"
	SurfaceTypeFace        = "Face"
	SurfaceTypeWhiteMatter = "White Matter"
)

// MaxSimulationVertices is the maximum number of vertices of the surface valid for the simulations.
const MaxSimulationVertices = 300000

// Surfacer is the datatype that is a Surface or any of its subtypes.
type Surfacer interface {
	traits.Datatype
	AsSurface() *Surface
}

// Surface is the triangulated surface mesh.
type Surface struct {
	traits.Base

	Vertices        *etensor.Float64 `tvb:"label=Vertex positions;required;shape=vertices,3"`
	Triangles       *etensor.Int     `tvb:"label=Triangles;required;shape=triangles,3;doc=Indices of the vertices of each triangle"`
	VertexNormals   *etensor.Float64 `tvb:"label=Vertex normal vectors;derived;shape=vertices,3"`
	TriangleNormals *etensor.Float64 `tvb:"label=Triangle normal vectors;derived;shape=triangles,3"`
	SurfaceType     string           `tvb:"label=Surface type;choices=Cortical Surface,Brain Skull,Skull Skin,Skin Air,EEG Cap,Face,White Matter"`
	BiHemispheric   bool             `tvb:"label=Bi-hemispheric;doc=Defines if the surface is split into two hemispheres"`
	HemisphereMask  []bool           `tvb:"label=Hemisphere mask;dim=vertices;doc=True for the right hemisphere vertices"`

	NumberOfVertices    int     `tvb:"label=Number of vertices;derived;dim=vertices"`
	NumberOfTriangles   int     `tvb:"label=Number of triangles;derived;dim=triangles"`
	EdgeMeanLength      float64 `tvb:"label=Edge mean length;derived"`
	EdgeMinLength       float64 `tvb:"label=Edge min length;derived"`
	EdgeMaxLength       float64 `tvb:"label=Edge max length;derived"`
	ValidForSimulations bool    `tvb:"label=Valid for simulations;derived"`
}

// AsSurface implements Surfacer.
func (s *Surface) AsSurface() *Surface {
	return s
}

// Configure derives the counts, normals and the edge statistics.
func (s *Surface) Configure() error {
	if s.Vertices == nil || s.Triangles == nil {
		return nil
	}
	s.NumberOfVertices = s.Vertices.Shapes()[0]
	s.NumberOfTriangles = s.Triangles.Shapes()[0]
	if s.NumberOfVertices > 0 && len(s.HemisphereMask) == s.NumberOfVertices {
		var right int
		for _, r := range s.HemisphereMask {
			if r {
				right++
			}
		}
		s.BiHemispheric = right > 0 && right < s.NumberOfVertices
	}
	if err := s.checkIndices(); err != nil {
		return err
	}
	if s.TriangleNormals == nil {
		s.ComputeTriangleNormals()
	}
	if s.VertexNormals == nil {
		s.ComputeVertexNormals()
	}
	lengths := s.EdgeLengths()
	if len(lengths) > 0 {
		s.EdgeMinLength = floats.Min(lengths)
		s.EdgeMaxLength = floats.Max(lengths)
		s.EdgeMeanLength = floats.Sum(lengths) / float64(len(lengths))
	}
	s.ValidForSimulations = s.NumberOfVertices <= MaxSimulationVertices
	return nil
}

// ValidateTraits implements traits.Validator.
func (s *Surface) ValidateTraits() error {
	if s.Vertices == nil || s.Triangles == nil {
		return nil
	}
	return s.checkIndices()
}

// Vertex gets the position of the vertex 'i'.
func (s *Surface) Vertex(i int) r3.Vec {
	return r3.Vec{X: s.Vertices.Values[i*3], Y: s.Vertices.Values[i*3+1], Z: s.Vertices.Values[i*3+2]}
}

// Triangle gets the vertex indices of the triangle 'i'.
func (s *Surface) Triangle(i int) [3]int {
	return [3]int{s.Triangles.Values[i*3], s.Triangles.Values[i*3+1], s.Triangles.Values[i*3+2]}
}

// ComputeTriangleNormals sets the unit normals of the triangles.
func (s *Surface) ComputeTriangleNormals() {
	nt := s.Triangles.Shapes()[0]
	normals := arrays.NewFloat([]int{nt, 3})
	for i := 0; i < nt; i++ {
		n := s.triangleCross(i)
		if norm := r3.Norm(n); norm > 0 {
			n = r3.Scale(1/norm, n)
		}
		normals.Values[i*3], normals.Values[i*3+1], normals.Values[i*3+2] = n.X, n.Y, n.Z
	}
	s.TriangleNormals = normals
}

// ComputeVertexNormals sets the vertex unit normals as the area weighted mean of the normals
// of the adjacent triangles.
func (s *Surface) ComputeVertexNormals() {
	nv := s.Vertices.Shapes()[0]
	sums := make([]r3.Vec, nv)
	for i := 0; i < s.Triangles.Shapes()[0]; i++ {
		n := s.triangleCross(i)
		for _, v := range s.Triangle(i) {
			sums[v] = r3.Add(sums[v], n)
		}
	}
	normals := arrays.NewFloat([]int{nv, 3})
	for i, n := range sums {
		if norm := r3.Norm(n); norm > 0 {
			n = r3.Scale(1/norm, n)
		}
		normals.Values[i*3], normals.Values[i*3+1], normals.Values[i*3+2] = n.X, n.Y, n.Z
	}
	s.VertexNormals = normals
}

// TriangleAreas gets the areas of all the triangles.
func (s *Surface) TriangleAreas() []float64 {
	nt := s.Triangles.Shapes()[0]
	areas := make([]float64, nt)
	for i := range areas {
		areas[i] = r3.Norm(s.triangleCross(i)) / 2
	}
	return areas
}

// Edges gets the sorted unique edges of the mesh. The first index of each edge is lower than the second.
func (s *Surface) Edges() [][2]int {
	seen := map[[2]int]struct{}{}
	var edges [][2]int
	for i := 0; i < s.Triangles.Shapes()[0]; i++ {
		t := s.Triangle(i)
		for _, e := range [][2]int{{t[0], t[1]}, {t[1], t[2]}, {t[2], t[0]}} {
			if e[0] > e[1] {
				e[0], e[1] = e[1], e[0]
			}
			if _, ok := seen[e]; ok {
				continue
			}
			seen[e] = struct{}{}
			edges = append(edges, e)
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i][0] == edges[j][0] {
			return edges[i][1] < edges[j][1]
		}
		return edges[i][0] < edges[j][0]
	})
	return edges
}

// EdgeLengths gets the lengths of the Edges.
func (s *Surface) EdgeLengths() []float64 {
	edges := s.Edges()
	lengths := make([]float64, len(edges))
	for i, e := range edges {
		lengths[i] = r3.Norm(r3.Sub(s.Vertex(e[0]), s.Vertex(e[1])))
	}
	return lengths
}

// VertexDegree gets the number of edges incident to each vertex.
func (s *Surface) VertexDegree() []int {
	degree := make([]int, s.Vertices.Shapes()[0])
	for _, e := range s.Edges() {
		degree[e[0]]++
		degree[e[1]]++
	}
	return degree
}

// Center gets the mean position of the vertices.
func (s *Surface) Center() r3.Vec {
	var c r3.Vec
	nv := s.Vertices.Shapes()[0]
	if nv == 0 {
		return c
	}
	for i := 0; i < nv; i++ {
		c = r3.Add(c, s.Vertex(i))
	}
	return r3.Scale(1/float64(nv), c)
}

// TopologyReport is the result of the surface topology validation.
type TopologyReport struct {
	// OutOfRange are the triangles referencing non existing vertices.
	OutOfRange []int
	// Degenerate are the triangles with repeated vertices.
	Degenerate []int
	// IsolatedVertices are the vertices not used by any triangle.
	IsolatedVertices []int
	// EulerCharacteristic is V - E + F, for a closed surface homeomorphic to a sphere equals 2.
	EulerCharacteristic int
}

// Valid checks if the mesh has no out of range indices, degenerate triangles or isolated vertices.
func (t *TopologyReport) Valid() bool {
	return len(t.OutOfRange) == 0 && len(t.Degenerate) == 0 && len(t.IsolatedVertices) == 0
}

// String implements fmt.Stringer.
func (t *TopologyReport) String() string {
	return fmt.Sprintf("out of range triangles: %d, degenerate triangles: %d, isolated vertices: %d, euler characteristic: %d",
		len(t.OutOfRange), len(t.Degenerate), len(t.IsolatedVertices), t.EulerCharacteristic)
}

// ValidateTopology checks the mesh topology. The returned error is of class.DatatypeValue if the mesh is not valid.
func (s *Surface) ValidateTopology() (*TopologyReport, error) {
	if s.Vertices == nil || s.Triangles == nil {
		return nil, errors.NewDet(class.DatatypeRequired, "surface vertices and triangles are required")
	}
	nv, nt := s.Vertices.Shapes()[0], s.Triangles.Shapes()[0]
	report := &TopologyReport{}
	used := make([]bool, nv)
	for i := 0; i < nt; i++ {
		t := s.Triangle(i)
		inRange := true
		for _, v := range t {
			if v < 0 || v >= nv {
				inRange = false
			}
		}
		if !inRange {
			report.OutOfRange = append(report.OutOfRange, i)
			continue
		}
		if t[0] == t[1] || t[1] == t[2] || t[0] == t[2] {
			report.Degenerate = append(report.Degenerate, i)
		}
		for _, v := range t {
			used[v] = true
		}
	}
	for v, u := range used {
		if !u {
			report.IsolatedVertices = append(report.IsolatedVertices, v)
		}
	}
	if len(report.OutOfRange) == 0 {
		report.EulerCharacteristic = nv - len(s.Edges()) + nt
	}
	if !report.Valid() {
		return report, errors.NewDet(class.DatatypeValue, "invalid surface topology").SetDetails(report.String())
	}
	return report, nil
}

// SummaryInfo implements traits.Summarizer.
func (s *Surface) SummaryInfo() map[string]string {
	return map[string]string{
		"Surface type":           s.SurfaceType,
		"Number of vertices":     fmt.Sprint(s.NumberOfVertices),
		"Number of triangles":    fmt.Sprint(s.NumberOfTriangles),
		"Edge lengths, mean":     fmt.Sprintf("%.4g", s.EdgeMeanLength),
		"Edge lengths, shortest": fmt.Sprintf("%.4g", s.EdgeMinLength),
		"Edge lengths, longest":  fmt.Sprintf("%.4g", s.EdgeMaxLength),
		"Valid for simulations":  fmt.Sprint(s.ValidForSimulations),
	}
}

func (s *Surface) checkIndices() error {
	nv := s.Vertices.Shapes()[0]
	min, max := math.MaxInt64, math.MinInt64
	for _, v := range s.Triangles.Values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if len(s.Triangles.Values) > 0 && (min < 0 || max >= nv) {
		return errors.NewDetf(class.DatatypeValue, "triangles reference vertices within [%d, %d], while surface has %d vertices", min, max, nv)
	}
	return nil
}

func (s *Surface) triangleCross(i int) r3.Vec {
	t := s.Triangle(i)
	a := s.Vertex(t[0])
	return r3.Cross(r3.Sub(s.Vertex(t[1]), a), r3.Sub(s.Vertex(t[2]), a))
}

// CorticalSurface is the surface of the cortex.
type CorticalSurface struct {
	Surface
}

// Configure implements traits.Configurer.
func (s *CorticalSurface) Configure() error {
	s.SurfaceType = SurfaceTypeCortical
	return s.Surface.Configure()
}

// SkinAir is the outer skin surface - skin and air boundary.
type SkinAir struct {
	Surface
}

// Configure implements traits.Configurer.
func (s *SkinAir) Configure() error {
	s.SurfaceType = SurfaceTypeSkinAir
	return s.Surface.Configure()
}

// BrainSkull is the brain and skull boundary surface.
type BrainSkull struct {
	Surface
}

// Configure implements traits.Configurer.
func (s *BrainSkull) Configure() error {
	s.SurfaceType = SurfaceTypeBrainSkull
	return s.Surface.Configure()
}

// SkullSkin is the skull and skin boundary surface.
type SkullSkin struct {
	Surface
}

// Configure implements traits.Configurer.
func (s *SkullSkin) Configure() error {
	s.SurfaceType = SurfaceTypeSkullSkin
	return s.Surface.Configure()
}

// EEGCap is the surface of the EEG cap.
type EEGCap struct {
	Surface
}

// Configure implements traits.Configurer.
func (s *EEGCap) Configure() error {
	s.SurfaceType = SurfaceTypeEEGCap
	return s.Surface.Configure()
}

// FaceSurface is the face surface used for the visualization.
type FaceSurface struct {
	Surface
}

// Configure implements traits.Configurer.
func (s *FaceSurface) Configure() error {
	s.SurfaceType = SurfaceTypeFace
	return s.Surface.Configure()
}

// WhiteMatterSurface is the white matter and grey matter boundary surface.
type WhiteMatterSurface struct {
	Surface
}

// Configure implements traits.Configurer.
func (s *WhiteMatterSurface) Configure() error {
	s.SurfaceType = SurfaceTypeWhiteMatter
	return s.Surface.Configure()
}

// NewSurface creates the surface subtype for provided surface type. Unknown type results in the plain Surface.
func NewSurface(surfaceType string) Surfacer {
	switch surfaceType {
	case SurfaceTypeCortical:
		return &CorticalSurface{}
	case SurfaceTypeSkinAir:
		return &SkinAir{}
	case SurfaceTypeBrainSkull:
		return &BrainSkull{}
	case SurfaceTypeSkullSkin:
		return &SkullSkin{}
	case SurfaceTypeEEGCap:
		return &EEGCap{}
	case SurfaceTypeFace:
		return &FaceSurface{}
	case SurfaceTypeWhiteMatter:
		return &WhiteMatterSurface{}
	}
	return &Surface{SurfaceType: surfaceType}
}
