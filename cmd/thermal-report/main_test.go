package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lattice-data/thermal.report/internal/phonon"
	storage "github.com/lattice-data/thermal.report/internal/phonon/storage/sqlite"
)

func writeGridDoc(t *testing.T, doc GridDoc) string {
	t.Helper()
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "grid.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func testGridDoc() GridDoc {
	structure := phonon.NewStructure(
		phonon.Lattice{Matrix: [3][3]float64{{5.43, 0, 0}, {0, 5.43, 0}, {0, 0, 5.43}}},
		[]phonon.Site{
			{Species: "Si", MassAMU: 28.0855},
			{Species: "Si", MassAMU: 28.0855, Coords: [3]float64{0.25, 0.25, 0.25}},
		},
	).Doc()
	return GridDoc{
		Material:       "Si",
		QPoints:        [][]float64{{0, 0, 0}, {0.5, 0, 0}},
		Multiplicities: []float64{1, 3},
		Frequencies: [][]float64{
			{1.0, 1.5}, {2.0, 2.5}, {3.0, 3.5},
			{9.0, 9.5}, {10.0, 10.5}, {14.0, 14.5},
		},
		Gruneisen: [][]float64{
			{1.0, 1.1}, {1.2, 1.3}, {1.4, 1.5},
			{0.9, 1.0}, {0.8, 0.9}, {1.6, 1.7},
		},
		Structure: &structure,
	}
}

func TestRunComputesAndPersists(t *testing.T) {
	input := writeGridDoc(t, testGridDoc())
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	require.NoError(t, run(input, dbPath, 300, "", true))

	db, err := storage.Open(dbPath)
	require.NoError(t, err)
	defer db.Close()

	runs, err := storage.NewThermalStore(db).ListByMaterial("Si")
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 2, runs[0].NumAtoms)
	assert.Equal(t, 300.0, runs[0].TemperatureK)
	assert.Greater(t, runs[0].AverageGruneisen, 0.0)
	assert.Greater(t, runs[0].ThermalConductivityWMK, 0.0)
	assert.Greater(t, runs[0].AcousticDebyeTempK, 0.0)
}

func TestRunWithoutStructureSkipsConductivity(t *testing.T) {
	doc := testGridDoc()
	doc.Structure = nil
	input := writeGridDoc(t, doc)

	// Without a structure only the average is computed; an explicit
	// temperature keeps the default-Debye path out of play.
	assert.NoError(t, run(input, "", 300, "", true))
}

func TestRunRejectsBadLimit(t *testing.T) {
	input := writeGridDoc(t, testGridDoc())
	err := run(input, "", 300, "bogus", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")
}

func TestLoadGridDocErrors(t *testing.T) {
	_, err := loadGridDoc(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{nope"), 0o644))
	_, err = loadGridDoc(path)
	assert.Error(t, err)
}
