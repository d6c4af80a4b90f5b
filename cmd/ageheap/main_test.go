package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"ageheap/internal/exporter"
	"ageheap/internal/shared/testutil"
	"ageheap/pkg/contracts"
)

// writeWorkbook saves an xlsx with ages 0..89 and returns its path.
func writeWorkbook(t *testing.T, sheet string) string {
	t.Helper()
	return testutil.SaveWorkbook(t, filepath.Join(t.TempDir(), "population.xlsx"), sheet, testutil.Pyramid(90))
}

func runCmd(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestAnalyze_JSON(t *testing.T) {
	path := writeWorkbook(t, testutil.DefaultSheet)

	stdout, _, err := runCmd(t, "analyze", path)
	require.NoError(t, err)

	var resp map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Len(t, resp["data"], 90)
	assert.Contains(t, resp, "assessment")
}

func TestAnalyze_CSV(t *testing.T) {
	path := writeWorkbook(t, testutil.DefaultSheet)

	stdout, _, err := runCmd(t, "analyze", path, "--format", "CSV")
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(stdout, "\ufeff"))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 14)
	assert.Equal(t, exporter.CSVHeader, records[0])
}

func TestAnalyze_SheetAndOut(t *testing.T) {
	path := writeWorkbook(t, "Recensement")
	out := filepath.Join(t.TempDir(), "out", "resultats.xlsx")

	stdout, _, err := runCmd(t, "analyze", path, "--sheet", "Recensement", "--format", "xlsx", "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, out)

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{exporter.SheetIndices, exporter.SheetData}, f.GetSheetList())
}

func TestAnalyze_DebugLogs(t *testing.T) {
	path := writeWorkbook(t, testutil.DefaultSheet)

	_, stderr, err := runCmd(t, "analyze", path, "--debug")
	require.NoError(t, err)

	var traceIDs []string
	for _, line := range strings.Split(strings.TrimSpace(stderr), "\n") {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
		if id, ok := entry["trace_id"].(string); ok {
			traceIDs = append(traceIDs, id)
		}
	}
	require.NotEmpty(t, traceIDs)
	for _, id := range traceIDs {
		assert.Equal(t, traceIDs[0], id)
	}
	assert.Contains(t, stderr, "Analysis completed")
}

func TestAnalyze_Errors(t *testing.T) {
	path := writeWorkbook(t, testutil.DefaultSheet)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "missing argument",
			args:    []string{"analyze"},
			wantErr: "accepts 1 arg(s)",
		},
		{
			name:    "unknown format",
			args:    []string{"analyze", path, "--format", "pdf"},
			wantErr: "unknown",
		},
		{
			name:    "xlsx to stdout",
			args:    []string{"analyze", path, "--format", "xlsx"},
			wantErr: "--format xlsx requires --out",
		},
		{
			name:    "missing sheet",
			args:    []string{"analyze", path, "--sheet", "Absente"},
			wantErr: "Impossible de lire le classeur Excel",
		},
		{
			name:    "not an excel file",
			args:    []string{"analyze", filepath.Join(t.TempDir(), "data.csv")},
			wantErr: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCmd(t, tt.args...)
			require.Error(t, err)
			if tt.wantErr != "" {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestAnalyzeBatch(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"nord.xlsx", "sud.xlsx", filepath.Join("2019", "nord.xlsx")} {
		testutil.SaveWorkbook(t, filepath.Join(dir, name), testutil.DefaultSheet, testutil.Pyramid(90))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "casse.xlsx"), []byte("not a workbook"), 0o644))
	out := filepath.Join(t.TempDir(), "out")

	t.Run("top level with one failure", func(t *testing.T) {
		stdout, stderr, err := runCmd(t, "analyze-batch", dir, "--out", out, "--format", "json", "--concurrency", "2")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 of 3 workbooks failed")
		assert.Contains(t, stderr, "casse.xlsx")
		assert.Contains(t, stderr, "Impossible de lire le classeur Excel")
		assert.Equal(t, 2, strings.Count(stdout, "✓"))

		assert.FileExists(t, filepath.Join(out, "resultats_nord.json"))
		assert.FileExists(t, filepath.Join(out, "resultats_sud.json"))
	})

	t.Run("recursive names collisions", func(t *testing.T) {
		require.NoError(t, os.Remove(filepath.Join(dir, "casse.xlsx")))
		recOut := filepath.Join(t.TempDir(), "rec")

		_, _, err := runCmd(t, "analyze-batch", dir, "--out", recOut, "--format", "csv", "--recursive")
		require.NoError(t, err)

		// 2019/nord.xlsx sorts before nord.xlsx and keeps the plain name.
		assert.FileExists(t, filepath.Join(recOut, "resultats_nord.csv"))
		assert.FileExists(t, filepath.Join(recOut, "resultats_nord__2.csv"))
		assert.FileExists(t, filepath.Join(recOut, "resultats_sud.csv"))
	})

	t.Run("invalid input", func(t *testing.T) {
		_, _, err := runCmd(t, "analyze-batch", t.TempDir())
		assert.ErrorContains(t, err, "no workbook found")

		_, _, err = runCmd(t, "analyze-batch", dir, "--concurrency", "0")
		assert.ErrorContains(t, err, "--concurrency")
	})
}

func TestUniqueName(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		want  []string
	}{
		{
			name:  "repeated base names",
			names: []string{"resultats_a.csv", "resultats_a.csv", "resultats_a.csv", "resultats_b.csv"},
			want:  []string{"resultats_a.csv", "resultats_a__2.csv", "resultats_a__3.csv", "resultats_b.csv"},
		},
		{
			name:  "suffixed name already in use",
			names: []string{"resultats_a.csv", "resultats_a.csv", "resultats_a__2.csv"},
			want:  []string{"resultats_a.csv", "resultats_a__2.csv", "resultats_a__2__2.csv"},
		},
		{
			name:  "suffix taken before the collision",
			names: []string{"resultats_a__2.csv", "resultats_a.csv", "resultats_a.csv"},
			want:  []string{"resultats_a__2.csv", "resultats_a.csv", "resultats_a__3.csv"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			taken := map[string]bool{}
			got := make([]string, 0, len(tt.names))
			for _, n := range tt.names {
				got = append(got, uniqueName(taken, n))
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAnalyzeBatch_SuffixCollision(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{filepath.Join("2019", "a.xlsx"), "a.xlsx", "a__2.xlsx"} {
		testutil.SaveWorkbook(t, filepath.Join(dir, name), testutil.DefaultSheet, testutil.Pyramid(90))
	}
	out := filepath.Join(t.TempDir(), "out")

	_, _, err := runCmd(t, "analyze-batch", dir, "--out", out, "--format", "json", "--recursive")
	require.NoError(t, err)

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"resultats_a.json", "resultats_a__2.json", "resultats_a__2__2.json"}, names)
}

func TestAnalyzeBatch_Help(t *testing.T) {
	stdout, _, err := runCmd(t, "analyze-batch", "--help")
	require.NoError(t, err)
	assert.Contains(t, stdout, ".xls files are listed but cannot be read")
}

func TestVersion(t *testing.T) {
	stdout, _, err := runCmd(t, "version")
	require.NoError(t, err)
	assert.Equal(t, contracts.GetFullVersionString()+"\n", stdout)
}
