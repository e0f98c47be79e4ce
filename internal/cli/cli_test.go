package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	configPath string
	dataDir    string
	dir        string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	return testEnv{
		configPath: filepath.Join(dir, "config.json"),
		dataDir:    filepath.Join(dir, "sheets"),
		dir:        dir,
	}
}

// run executes the root command with the env's config and data dir.
func (e testEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--config", e.configPath, "--data-dir", e.dataDir, "--log-level", "error"}, args...))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func (e testEnv) writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

const cabinetCSV = "id,width,height,depth\n1,720,560,18\n2,400,300,18\n3,400,300,18\n"

func TestCut_PrintsPlacements(t *testing.T) {
	env := newTestEnv(t)
	input := env.writeFile(t, "cabinet.csv", cabinetCSV)

	out, _, err := env.run(t, "cut", "--width", "2800", "--height", "2070", "--input", input)
	require.NoError(t, err)

	assert.Contains(t, out, "2800 x 2070")
	assert.Contains(t, out, "Element")
	assert.Contains(t, out, "720")
	assert.Contains(t, out, "Elements: 3")
	assert.Contains(t, out, "Efficiency:")
	assert.NotContains(t, out, "Saved as sheet")

	_, err = os.Stat(env.dataDir)
	assert.True(t, os.IsNotExist(err), "cut without --save must not create the data dir")
}

func TestCut_SaveThenManageSheets(t *testing.T) {
	env := newTestEnv(t)
	input := env.writeFile(t, "cabinet.csv", cabinetCSV)

	out, _, err := env.run(t, "cut", "-W", "2800", "-H", "2070", "-i", input, "--save")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved as sheet 1")

	out, _, err = env.run(t, "sheets", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "2800 x 2070")

	out, _, err = env.run(t, "sheets", "show", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Sheet 1")
	assert.Contains(t, out, "Elements: 3")

	out, _, err = env.run(t, "sheets", "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted sheet 1")

	_, _, err = env.run(t, "sheets", "show", "1")
	assert.Error(t, err)

	out, _, err = env.run(t, "sheets", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No stored sheets")
}

func TestCut_ElementsDoNotFit(t *testing.T) {
	env := newTestEnv(t)
	input := env.writeFile(t, "big.csv", "id,width,height\n3,200,10\n4,10,10\n7,10,200\n")

	_, stderr, err := env.run(t, "cut", "--width", "100", "--height", "100", "--input", input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Elements do not fit on the sheet: 3, 7")
	assert.Contains(t, stderr, "3, 7")
}

func TestCut_ValidationError(t *testing.T) {
	env := newTestEnv(t)
	input := env.writeFile(t, "cabinet.csv", cabinetCSV)

	_, _, err := env.run(t, "cut", "--width", "0", "--height", "100", "--input", input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Sheet width must be positive")
}

func TestCut_ImportErrors(t *testing.T) {
	env := newTestEnv(t)
	input := env.writeFile(t, "broken.csv", "id,width,height\n1,abc,10\n")

	_, stderr, err := env.run(t, "cut", "--width", "100", "--height", "100", "--input", input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to import")
	assert.Contains(t, stderr, "Invalid width")
}

func TestCut_RequiresInput(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.run(t, "cut", "--width", "100", "--height", "100")
	assert.Error(t, err)
}

func TestCut_KerfFromConfigAndFlag(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.WriteFile(env.configPath, []byte(`{"default_kerf": 2}`), 0600))
	input := env.writeFile(t, "pair.csv", "id,width,height\n1,40,10\n2,40,10\n")

	_, _, err := env.run(t, "cut", "--width", "81", "--height", "10", "--input", input)
	require.Error(t, err, "a 2 wide kerf leaves no room for the second element")

	_, _, err = env.run(t, "cut", "--width", "81", "--height", "10", "--input", input, "--kerf", "1")
	require.NoError(t, err)
}

func TestCut_WritesExports(t *testing.T) {
	env := newTestEnv(t)
	input := env.writeFile(t, "cabinet.csv", cabinetCSV)
	paths := map[string]string{
		"--pdf":    filepath.Join(env.dir, "layout.pdf"),
		"--labels": filepath.Join(env.dir, "labels.pdf"),
		"--xlsx":   filepath.Join(env.dir, "cut-list.xlsx"),
		"--dxf":    filepath.Join(env.dir, "sheet.dxf"),
		"--png":    filepath.Join(env.dir, "preview.png"),
	}
	args := []string{"cut", "--width", "2800", "--height", "2070", "--input", input}
	for flag, path := range paths {
		args = append(args, flag, path)
	}

	_, _, err := env.run(t, args...)
	require.NoError(t, err)

	for flag, path := range paths {
		info, err := os.Stat(path)
		require.NoError(t, err, flag)
		assert.Positive(t, info.Size(), flag)
	}
}

func TestBackup_ExportImport(t *testing.T) {
	env := newTestEnv(t)
	input := env.writeFile(t, "cabinet.csv", cabinetCSV)
	_, _, err := env.run(t, "cut", "-W", "2800", "-H", "2070", "-i", input, "--save")
	require.NoError(t, err)

	backup := filepath.Join(env.dir, "backup.json")
	out, _, err := env.run(t, "backup", "export", backup)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported backup")

	other := newTestEnv(t)
	out, _, err = other.run(t, "backup", "import", backup, "--config-too")
	require.NoError(t, err)
	assert.Contains(t, out, "Restored 1 sheet(s)")
	_, err = os.Stat(other.configPath)
	assert.NoError(t, err)

	out, _, err = other.run(t, "sheets", "show", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Elements: 3")
}

func TestParseSheetID(t *testing.T) {
	id, err := parseSheetID("12")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	for _, bad := range []string{"0", "-1", "x"} {
		_, err := parseSheetID(bad)
		assert.Error(t, err, bad)
	}
}
