package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeConnectivity(t *testing.T, dir string) string {
	t.Helper()
	p := filepath.Join(dir, "connectivity.zip")
	f, err := os.Create(p)
	require.NoError(t, err)
	defer f.Close()
	w := zip.NewWriter(f)
	for name, content := range map[string]string{
		"weights.txt": "0 1 1\n1 0 0\n1 0 0\n",
		"centres.txt": "a 0 0 0\nb 3 0 0\nc 0 4 0\n",
	} {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return p
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()
	storeDir := filepath.Join(dir, "store")
	require.NoError(t, os.MkdirAll(storeDir, 0o755))

	out, err := run(t, "--store", storeDir, "types")
	require.NoError(t, err)
	assert.Contains(t, out, "Connectivity")
	assert.Contains(t, out, "TimeSeriesRegion (TimeSeries)")

	out, err = run(t, "--store", storeDir, "import", "connectivity", "--title", "three regions", writeConnectivity(t, dir))
	require.NoError(t, err)
	gid := strings.TrimSpace(out)
	require.Len(t, gid, 36)

	out, err = run(t, "--store", storeDir, "list", "Connectivity")
	require.NoError(t, err)
	assert.Contains(t, out, gid)
	assert.Contains(t, out, "three regions")

	out, err = run(t, "--store", storeDir, "info", gid)
	require.NoError(t, err)
	assert.Contains(t, out, "Connectivity")

	out, err = run(t, "--store", storeDir, "graph", "degree", gid)
	require.NoError(t, err)
	assert.Contains(t, out, "a\t2")

	out, err = run(t, "--store", storeDir, "graph", "--global", gid)
	require.NoError(t, err)
	assert.Contains(t, out, "density")

	ts := filepath.Join(dir, "ts.txt")
	require.NoError(t, os.WriteFile(ts, []byte("1 2 3\n2 3 1\n3 1 2\n1 3 2\n"), 0o644))
	out, err = run(t, "--store", storeDir, "import", "timeseries", "--connectivity", gid, ts)
	require.NoError(t, err)
	tsGID := strings.TrimSpace(out)

	out, err = run(t, "--store", storeDir, "analyze", "covariance", tsGID)
	require.NoError(t, err)
	assert.Contains(t, out, "Covariance")

	out, err = run(t, "--store", storeDir, "analyze", "--metric", "global_variance", tsGID)
	require.NoError(t, err)
	assert.Contains(t, out, "GlobalVariance")

	_, err = run(t, "--store", storeDir, "info", "not-a-gid")
	require.Error(t, err)
}
