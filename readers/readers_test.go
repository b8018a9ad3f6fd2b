package readers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/datatypes"
	"github.com/neuronlabs/tvb/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func writeZip(t *testing.T, dir, name string, files map[string]string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	f, err := os.Create(p)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for fileName, content := range files {
		fw, err := w.Create(fileName)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return p
}

func TestReadMatrix(t *testing.T) {
	m, err := ReadMatrix(strings.NewReader("# comment\n1 2 3\n\n4 5.5 -6e1\n"))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, m.Shapes())
	assert.Equal(t, []float64{1, 2, 3, 4, 5.5, -60}, m.Values)

	t.Run("Ragged", func(t *testing.T) {
		_, err := ReadMatrix(strings.NewReader("1 2\n3\n"))
		require.Error(t, err)
		assert.True(t, errors.IsClass(err, class.ReaderFormat))
		assert.Contains(t, err.Error(), "line: 2")
	})

	t.Run("InvalidNumber", func(t *testing.T) {
		_, err := ReadMatrix(strings.NewReader("1 x\n"))
		require.Error(t, err)
		assert.True(t, errors.IsClass(err, class.ReaderFormat))
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := ReadMatrix(strings.NewReader("\n# nothing\n"))
		require.Error(t, err)
		assert.True(t, errors.IsClass(err, class.ReaderFormat))
	})
}

func TestOpenMatrix(t *testing.T) {
	dir := t.TempDir()

	t.Run("Text", func(t *testing.T) {
		m, err := OpenMatrix(writeFile(t, dir, "m.txt", "1 2\n3 4\n"))
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 2, 3, 4}, m.Values)
	})

	t.Run("Gzip", func(t *testing.T) {
		p := filepath.Join(dir, "m.txt.gz")
		f, err := os.Create(p)
		require.NoError(t, err)
		w := gzip.NewWriter(f)
		_, err = w.Write([]byte("1 2\n3 4\n"))
		require.NoError(t, err)
		require.NoError(t, w.Close())
		require.NoError(t, f.Close())

		m, err := OpenMatrix(p)
		require.NoError(t, err)
		assert.Equal(t, []int{2, 2}, m.Shapes())
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := OpenMatrix(filepath.Join(dir, "missing.txt"))
		require.Error(t, err)
		assert.True(t, errors.IsClass(err, class.ReaderIO))
	})
}

func TestReadConnectivityZip(t *testing.T) {
	dir := t.TempDir()
	p := writeZip(t, dir, "connectivity.zip", map[string]string{
		"weights.txt":       "0 1\n1 0\n",
		"tract_lengths.txt": "0 10\n10 0\n",
		"centres.txt":       "lA 0 0 0\nrB 10 0 0\n",
		"hemispheres.txt":   "0\n1\n",
		"areas.txt":         "1.5 2.5\n",
	})

	conn, err := ReadConnectivityZip(p)
	require.NoError(t, err)
	assert.Equal(t, []string{"lA", "rB"}, conn.RegionLabels)
	assert.Equal(t, []float64{0, 1, 1, 0}, conn.Weights.Values)
	assert.Equal(t, []float64{0, 10, 10, 0}, conn.TractLengths.Values)
	assert.Equal(t, []bool{false, true}, conn.Hemispheres)
	assert.Equal(t, []float64{1.5, 2.5}, conn.Areas.Values)
	assert.Nil(t, conn.Cortical)

	r, err := datatypes.NewRegistry()
	require.NoError(t, err)
	require.NoError(t, r.Configure(conn))
	assert.Equal(t, 2, conn.NumberOfRegions)

	t.Run("MissingWeights", func(t *testing.T) {
		p := writeZip(t, dir, "broken.zip", map[string]string{"centres.txt": "a 0 0 0\n"})
		_, err := ReadConnectivityZip(p)
		require.Error(t, err)
		assert.True(t, errors.IsClass(err, class.ReaderArchive))
	})

	t.Run("CentresMismatch", func(t *testing.T) {
		p := writeZip(t, dir, "mismatch.zip", map[string]string{
			"weights.txt": "0 1\n1 0\n",
			"centres.txt": "a 0 0 0\n",
		})
		_, err := ReadConnectivityZip(p)
		require.Error(t, err)
		assert.True(t, errors.IsClass(err, class.ReaderFormat))
	})
}

func TestReadSurfaceZip(t *testing.T) {
	p := writeZip(t, t.TempDir(), "surface.zip", map[string]string{
		"vertices.txt":  "0 0 0\n1 0 0\n0 1 0\n0 0 1\n",
		"triangles.txt": "0 2 1\n0 1 3\n0 3 2\n1 2 3\n",
	})

	s, err := ReadSurfaceZip(p, datatypes.SurfaceTypeCortical)
	require.NoError(t, err)
	_, ok := s.(*datatypes.CorticalSurface)
	assert.True(t, ok)
	assert.Equal(t, []int{4, 3}, s.AsSurface().Triangles.Shapes())
	assert.Equal(t, []int{0, 2, 1}, s.AsSurface().Triangles.Values[:3])
}

func TestReadSensors(t *testing.T) {
	dir := t.TempDir()

	s, err := ReadSensors(writeFile(t, dir, "eeg.txt", "Fp1 1 2 3\nFp2 4 5 6\n"), datatypes.SensorsTypeEEG)
	require.NoError(t, err)
	assert.Equal(t, []string{"Fp1", "Fp2"}, s.AsSensors().Labels)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, s.AsSensors().Locations.Values)
	assert.Nil(t, s.AsSensors().Orientations)

	meg, err := ReadSensors(writeFile(t, dir, "meg.txt", "C1 1 2 3 0 0 1\n"), datatypes.SensorsTypeMEG)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 1}, meg.AsSensors().Orientations.Values)

	_, err = ReadSensors(writeFile(t, dir, "bad.txt", "C1 1 2 3\nC2 1 2\n"), datatypes.SensorsTypeEEG)
	require.Error(t, err)
	assert.True(t, errors.IsClass(err, class.ReaderFormat))
}

func TestReadRegionMapping(t *testing.T) {
	dir := t.TempDir()
	rm, err := ReadRegionMapping(writeFile(t, dir, "rm.txt", "0\n1\n1\n0\n"))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 1, 0}, rm.Array.Values)

	_, err = ReadRegionMapping(writeFile(t, dir, "neg.txt", "0 -1\n"))
	require.Error(t, err)
	assert.True(t, errors.IsClass(err, class.ReaderFormat))
}

func TestReadTimeSeries(t *testing.T) {
	ts, err := ReadTimeSeries(writeFile(t, t.TempDir(), "ts.txt", "1 2 3\n4 5 6\n7 8 9\n8 7 6\n"), 0.5)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 1, 3, 1}, ts.Data.Shapes())
	assert.Equal(t, 4, ts.NrTimePoints)
	assert.Equal(t, 3, ts.NrSpaceNodes)
	assert.InDelta(t, 2000.0, ts.SampleRate, 1e-9)
}
