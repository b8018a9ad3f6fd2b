// Package readers contains the readers of the external brain data file formats: the whitespace separated text
// matrices (optionally bzip2 or gzip compressed) and the zip archives of the connectivity and surface files.
package readers

import (
	"bufio"
	"compress/bzip2"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/emer/etable/etensor"
	"github.com/klauspost/compress/gzip"

	"github.com/neuronlabs/tvb/arrays"
	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/errors"
	"github.com/neuronlabs/tvb/log"
)

var logger = log.NewModuleLogger("readers")

// maxLineSize is the maximum size of the single text line.
const maxLineSize = 16 << 20

// row is the single non empty line of the text file split into fields.
type row struct {
	line   int
	fields []string
}

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (r *readCloser) Close() error {
	var err error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if cerr := r.closers[i].Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// decompress wraps the reader 'r' of the file 'name' with the decompressor matching its extension.
func decompress(name string, r io.ReadCloser) (io.ReadCloser, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".bz2":
		return &readCloser{Reader: bzip2.NewReader(r), closers: []io.Closer{r}}, nil
	case ".gz":
		gz, err := gzip.NewReader(r)
		if err != nil {
			r.Close()
			return nil, errors.Wrapf(err, class.ReaderFormat, "invalid gzip file: '%s'", name)
		}
		return &readCloser{Reader: gz, closers: []io.Closer{r, gz}}, nil
	}
	return r, nil
}

// open opens the file at 'path' decompressing it by the extension.
func open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, class.ReaderIO, "opening file: '%s' failed", path)
	}
	return decompress(path, f)
}

// readRows reads the non empty, non comment lines of the text split by the whitespace.
func readRows(r io.Reader, name string) ([]row, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	var rows []row
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") || strings.HasPrefix(text, "%") {
			continue
		}
		rows = append(rows, row{line: line, fields: strings.Fields(text)})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, class.ReaderIO, "reading: '%s' failed", name)
	}
	return rows, nil
}

func formatError(name string, line int, format string, args ...interface{}) error {
	return errors.NewDetf(class.ReaderFormat, format, args...).SetDetailsf("file: '%s', line: %d", name, line)
}

func parseFloat(name string, r row, field string) (float64, error) {
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, formatError(name, r.line, "invalid number: '%s'", field)
	}
	return v, nil
}

// matrix converts the rows of equal length into the (rows, cols) float tensor.
func matrix(name string, rows []row) (*etensor.Float64, error) {
	if len(rows) == 0 {
		return nil, errors.NewDetf(class.ReaderFormat, "file: '%s' contains no data", name)
	}
	cols := len(rows[0].fields)
	out := arrays.NewFloat([]int{len(rows), cols})
	for i, r := range rows {
		if len(r.fields) != cols {
			return nil, formatError(name, r.line, "row has %d columns, expected: %d", len(r.fields), cols)
		}
		for j, field := range r.fields {
			v, err := parseFloat(name, r, field)
			if err != nil {
				return nil, err
			}
			out.Values[i*cols+j] = v
		}
	}
	return out, nil
}

// intMatrix converts the rows of equal length into the (rows, cols) int tensor.
func intMatrix(name string, rows []row) (*etensor.Int, error) {
	if len(rows) == 0 {
		return nil, errors.NewDetf(class.ReaderFormat, "file: '%s' contains no data", name)
	}
	cols := len(rows[0].fields)
	out := arrays.NewInt([]int{len(rows), cols})
	for i, r := range rows {
		if len(r.fields) != cols {
			return nil, formatError(name, r.line, "row has %d columns, expected: %d", len(r.fields), cols)
		}
		for j, field := range r.fields {
			v, err := strconv.Atoi(field)
			if err != nil {
				// integers written in the float notation, i.e. '1.0000e+00'
				f, ferr := strconv.ParseFloat(field, 64)
				if ferr != nil || f != float64(int(f)) {
					return nil, formatError(name, r.line, "invalid integer: '%s'", field)
				}
				v = int(f)
			}
			out.Values[i*cols+j] = v
		}
	}
	return out, nil
}

// ReadMatrix reads the whitespace separated text matrix. Empty lines and the lines starting with '#' or '%'
// are skipped. All the rows must have the same number of columns.
func ReadMatrix(r io.Reader) (*etensor.Float64, error) {
	return readMatrix(r, "matrix")
}

func readMatrix(r io.Reader, name string) (*etensor.Float64, error) {
	rows, err := readRows(r, name)
	if err != nil {
		return nil, err
	}
	return matrix(name, rows)
}

// OpenMatrix reads the text matrix file at 'path'. Files with the '.bz2' and '.gz' extensions are decompressed.
func OpenMatrix(path string) (*etensor.Float64, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := readMatrix(f, path)
	if err != nil {
		return nil, err
	}
	logger.Debug2f("Read matrix: %v from: '%s'", m.Shapes(), path)
	return m, nil
}

// column gets the 'col' column of the matrix as a vector.
func column(m *etensor.Float64, col int) *etensor.Float64 {
	shape := m.Shapes()
	out := arrays.NewFloat([]int{shape[0]})
	for i := range out.Values {
		out.Values[i] = m.Values[i*shape[1]+col]
	}
	return out
}

// flatten gets the matrix with a single row or column as a vector.
func flatten(name string, m *etensor.Float64) (*etensor.Float64, error) {
	shape := m.Shapes()
	if shape[0] != 1 && shape[1] != 1 {
		return nil, errors.NewDetf(class.ReaderFormat, "file: '%s' is expected to be a vector, is: %v", name, shape)
	}
	return arrays.NewFloat([]int{len(m.Values)}, m.Values...), nil
}

func bools(v *etensor.Float64) []bool {
	out := make([]bool, len(v.Values))
	for i, x := range v.Values {
		out[i] = x != 0
	}
	return out
}
