package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ThermalRun is one persisted thermal-property computation for a material.
type ThermalRun struct {
	RunID                  string  `json:"run_id"`
	Material               string  `json:"material"`
	NumAtoms               int     `json:"num_atoms"`
	VolumeA3               float64 `json:"volume_a3"`
	TemperatureK           float64 `json:"temperature_k"`
	AverageGruneisen       float64 `json:"average_gruneisen"`
	ThermalConductivityWMK float64 `json:"thermal_conductivity_wmk"`
	AcousticDebyeTempK     float64 `json:"acoustic_debye_temp_k"`
	DebyeTempLimitK        float64 `json:"debye_temp_limit_k"`
	FrequencyLimit         string  `json:"frequency_limit"`
	Squared                bool    `json:"squared"`
	CreatedUnixNanos       int64   `json:"created_unix_nanos"`
}

// ThermalStore provides persistence for thermal-property runs.
type ThermalStore struct {
	db *sql.DB
}

// NewThermalStore creates a store over an already-migrated database.
func NewThermalStore(db *sql.DB) *ThermalStore {
	return &ThermalStore{db: db}
}

// Insert persists a run. If RunID is empty a UUID is generated; if
// CreatedUnixNanos is zero the current time is used.
func (s *ThermalStore) Insert(run *ThermalRun) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedUnixNanos == 0 {
		run.CreatedUnixNanos = time.Now().UnixNano()
	}

	return retryOnBusy(func() error {
		_, err := s.db.Exec(`
			INSERT INTO thermal_runs (
				run_id, material, num_atoms, volume_a3, temperature_k,
				average_gruneisen, thermal_conductivity_wmk,
				acoustic_debye_temp_k, debye_temp_limit_k,
				frequency_limit, squared, created_unix_nanos
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.RunID, run.Material, run.NumAtoms, run.VolumeA3, run.TemperatureK,
			run.AverageGruneisen, run.ThermalConductivityWMK,
			run.AcousticDebyeTempK, run.DebyeTempLimitK,
			run.FrequencyLimit, run.Squared, run.CreatedUnixNanos,
		)
		if err != nil {
			return fmt.Errorf("insert thermal run: %w", err)
		}
		return nil
	})
}

// ByID fetches a single run. Returns sql.ErrNoRows when absent.
func (s *ThermalStore) ByID(runID string) (*ThermalRun, error) {
	row := s.db.QueryRow(`
		SELECT run_id, material, num_atoms, volume_a3, temperature_k,
		       average_gruneisen, thermal_conductivity_wmk,
		       acoustic_debye_temp_k, debye_temp_limit_k,
		       frequency_limit, squared, created_unix_nanos
		FROM thermal_runs WHERE run_id = ?`, runID)
	return scanRun(row)
}

// ListByMaterial returns all runs for a material, newest first.
func (s *ThermalStore) ListByMaterial(material string) ([]*ThermalRun, error) {
	rows, err := s.db.Query(`
		SELECT run_id, material, num_atoms, volume_a3, temperature_k,
		       average_gruneisen, thermal_conductivity_wmk,
		       acoustic_debye_temp_k, debye_temp_limit_k,
		       frequency_limit, squared, created_unix_nanos
		FROM thermal_runs WHERE material = ?
		ORDER BY created_unix_nanos DESC`, material)
	if err != nil {
		return nil, fmt.Errorf("list thermal runs: %w", err)
	}
	defer rows.Close()

	var runs []*ThermalRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*ThermalRun, error) {
	var run ThermalRun
	err := row.Scan(
		&run.RunID, &run.Material, &run.NumAtoms, &run.VolumeA3, &run.TemperatureK,
		&run.AverageGruneisen, &run.ThermalConductivityWMK,
		&run.AcousticDebyeTempK, &run.DebyeTempLimitK,
		&run.FrequencyLimit, &run.Squared, &run.CreatedUnixNanos,
	)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// retryOnBusy retries fn a few times with backoff when SQLite reports the
// database as locked or busy. Single-writer contention is expected when the
// CLI and a viewer share a file database.
func retryOnBusy(fn func() error) error {
	const attempts = 5
	delay := 10 * time.Millisecond

	var err error
	for i := 0; i < attempts; i++ {
		err = fn()
		if err == nil || !isBusy(err) {
			return err
		}
		time.Sleep(delay)
		delay *= 2
	}
	return err
}

func isBusy(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}
