package readers

import (
	"io"
	"path"
	"strings"

	"github.com/emer/etable/etensor"
	"github.com/klauspost/compress/zip"

	"github.com/neuronlabs/tvb/arrays"
	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/datatypes"
	"github.com/neuronlabs/tvb/errors"
)

// archive is the opened zip archive with the entries found by the base name prefix.
type archive struct {
	path string
	rc   *zip.ReadCloser
}

func openArchive(p string) (*archive, error) {
	rc, err := zip.OpenReader(p)
	if err != nil {
		return nil, errors.Wrapf(err, class.ReaderArchive, "opening zip archive: '%s' failed", p)
	}
	return &archive{path: p, rc: rc}, nil
}

func (a *archive) Close() error {
	return a.rc.Close()
}

// find gets the first file entry whose lower case base name starts with any of the 'prefixes'.
func (a *archive) find(prefixes ...string) *zip.File {
	for _, f := range a.rc.File {
		if f.FileInfo().IsDir() {
			continue
		}
		base := strings.ToLower(path.Base(f.Name))
		if strings.HasPrefix(base, ".") || strings.HasPrefix(f.Name, "__MACOSX") {
			continue
		}
		for _, prefix := range prefixes {
			if strings.HasPrefix(base, prefix) {
				return f
			}
		}
	}
	return nil
}

// rows reads the rows of the entry with the name prefix. The nil rows are returned if the entry doesn't exist
// and is not 'required'.
func (a *archive) rows(required bool, prefixes ...string) ([]row, string, error) {
	f := a.find(prefixes...)
	if f == nil {
		if required {
			return nil, "", errors.NewDetf(class.ReaderArchive, "archive: '%s' has no '%s' file", a.path, prefixes[0])
		}
		return nil, "", nil
	}
	name := a.path + ":" + f.Name
	r, err := f.Open()
	if err != nil {
		return nil, name, errors.Wrapf(err, class.ReaderArchive, "opening: '%s' failed", name)
	}
	var rc io.ReadCloser = r
	if rc, err = decompress(f.Name, rc); err != nil {
		return nil, name, err
	}
	defer rc.Close()
	rows, err := readRows(rc, name)
	return rows, name, err
}

func (a *archive) matrix(required bool, prefixes ...string) (*etensor.Float64, error) {
	rows, name, err := a.rows(required, prefixes...)
	if err != nil || rows == nil {
		return nil, err
	}
	return matrix(name, rows)
}

func (a *archive) vector(prefixes ...string) (*etensor.Float64, error) {
	rows, name, err := a.rows(false, prefixes...)
	if err != nil || rows == nil {
		return nil, err
	}
	m, err := matrix(name, rows)
	if err != nil {
		return nil, err
	}
	return flatten(name, m)
}

// ReadConnectivityZip reads the connectivity zip archive. The archive contains the 'weights' and 'centres' files
// and optionally the 'tract_lengths', 'cortical', 'hemispheres', 'areas' and 'average_orientations' files.
// Each line of the centres file is the region label followed by its x, y and z coordinates.
func ReadConnectivityZip(p string) (*datatypes.Connectivity, error) {
	a, err := openArchive(p)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	conn := &datatypes.Connectivity{}
	if conn.Weights, err = a.matrix(true, "weights"); err != nil {
		return nil, err
	}
	centres, name, err := a.rows(true, "centres", "centers")
	if err != nil {
		return nil, err
	}
	conn.RegionLabels = make([]string, len(centres))
	conn.Centres = arrays.NewFloat([]int{len(centres), 3})
	for i, r := range centres {
		if len(r.fields) != 4 {
			return nil, formatError(name, r.line, "centre must have a label and 3 coordinates, has %d fields", len(r.fields))
		}
		conn.RegionLabels[i] = r.fields[0]
		for j := 0; j < 3; j++ {
			if conn.Centres.Values[i*3+j], err = parseFloat(name, r, r.fields[j+1]); err != nil {
				return nil, err
			}
		}
	}
	if conn.TractLengths, err = a.matrix(false, "tract_lengths", "tract"); err != nil {
		return nil, err
	}
	if conn.Orientations, err = a.matrix(false, "average_orientations", "orientations"); err != nil {
		return nil, err
	}
	if conn.Areas, err = a.vector("areas"); err != nil {
		return nil, err
	}
	cortical, err := a.vector("cortical")
	if err != nil {
		return nil, err
	}
	if cortical != nil {
		conn.Cortical = bools(cortical)
	}
	hemispheres, err := a.vector("hemispheres")
	if err != nil {
		return nil, err
	}
	if hemispheres != nil {
		conn.Hemispheres = bools(hemispheres)
	}

	if n, regions := conn.Weights.Shapes()[0], len(conn.RegionLabels); n != regions {
		return nil, errors.NewDetf(class.ReaderFormat, "weights of %d regions doesn't match %d centres", n, regions).
			SetDetailsf("archive: '%s'", p)
	}
	logger.Debugf("Read connectivity of %d regions from: '%s'", len(conn.RegionLabels), p)
	return conn, nil
}

// ReadSurfaceZip reads the surface zip archive of the 'surfaceType'. The archive contains the 'vertices' and
// 'triangles' files and optionally the vertex 'normals'.
func ReadSurfaceZip(p string, surfaceType string) (datatypes.Surfacer, error) {
	a, err := openArchive(p)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	surface := datatypes.NewSurface(surfaceType)
	s := surface.AsSurface()
	if s.Vertices, err = a.matrix(true, "vertices"); err != nil {
		return nil, err
	}
	rows, name, err := a.rows(true, "triangles")
	if err != nil {
		return nil, err
	}
	if s.Triangles, err = intMatrix(name, rows); err != nil {
		return nil, err
	}
	if s.VertexNormals, err = a.matrix(false, "normals", "vertex_normals"); err != nil {
		return nil, err
	}
	for _, m := range []struct {
		name  string
		shape []int
	}{{"vertices", s.Vertices.Shapes()}, {"triangles", s.Triangles.Shapes()}} {
		if m.shape[1] != 3 {
			return nil, errors.NewDetf(class.ReaderFormat, "%s must have 3 columns, has: %d", m.name, m.shape[1]).
				SetDetailsf("archive: '%s'", p)
		}
	}
	logger.Debugf("Read surface of %d vertices and %d triangles from: '%s'", s.Vertices.Shapes()[0], s.Triangles.Shapes()[0], p)
	return surface, nil
}
