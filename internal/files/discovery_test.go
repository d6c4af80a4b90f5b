package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestDiscovery_Matches(t *testing.T) {
	d := NewDiscovery([]string{".XLSX", "xls", " "})

	tests := []struct {
		name string
		want bool
	}{
		{"recensement.xlsx", true},
		{"RECENSEMENT.XLSX", true},
		{"ancien.xls", true},
		{"~$recensement.xlsx", false},
		{"donnees.csv", false},
		{"xlsx", false},
		{"archive.xlsx.zip", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Matches(tt.name))
		})
	}
}

func TestDiscovery_FindWorkbooks(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b.xlsx"))
	touch(t, filepath.Join(dir, "a.xlsx"))
	touch(t, filepath.Join(dir, "~$a.xlsx"))
	touch(t, filepath.Join(dir, "notes.txt"))
	touch(t, filepath.Join(dir, "2019", "c.xlsx"))

	tests := []struct {
		name      string
		recursive bool
		want      []string
	}{
		{
			name: "top level only",
			want: []string{"a.xlsx", "b.xlsx"},
		},
		{
			name:      "recursive",
			recursive: true,
			want:      []string{filepath.Join("2019", "c.xlsx"), "a.xlsx", "b.xlsx"},
		},
	}

	d := NewDiscovery([]string{"xlsx"})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := d.FindWorkbooks(dir, tt.recursive)
			require.NoError(t, err)

			got := make([]string, 0, len(found))
			for _, f := range found {
				rel, err := filepath.Rel(dir, f.Path)
				require.NoError(t, err)
				got = append(got, rel)
				assert.Equal(t, int64(1), f.Size)
				assert.Equal(t, filepath.Base(f.Path), f.Name)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDiscovery_FindWorkbooks_Errors(t *testing.T) {
	d := NewDiscovery([]string{"xlsx"})

	_, err := d.FindWorkbooks(filepath.Join(t.TempDir(), "missing"), false)
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "a.xlsx")
	touch(t, file)
	_, err = d.FindWorkbooks(file, false)
	assert.ErrorContains(t, err, "not a directory")
}

func TestDiscovery_FindWorkbooks_Empty(t *testing.T) {
	found, err := NewDiscovery([]string{"xlsx"}).FindWorkbooks(t.TempDir(), true)
	require.NoError(t, err)
	assert.Empty(t, found)
}
