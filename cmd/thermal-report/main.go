// Command thermal-report computes Grueneisen-derived thermal properties for
// a material from a JSON grid document: average Grueneisen parameter, Slack
// lattice thermal conductivity, and Debye temperatures. Results are printed
// and optionally persisted to a SQLite database for later comparison.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/lattice-data/thermal.report/internal/monitoring"
	"github.com/lattice-data/thermal.report/internal/phonon"
	"github.com/lattice-data/thermal.report/internal/phonon/gruneisen"
	storage "github.com/lattice-data/thermal.report/internal/phonon/storage/sqlite"
	"github.com/lattice-data/thermal.report/internal/version"
)

// GridDoc is the JSON input document: phonon mode data on a regular
// reciprocal-space grid plus the crystal structure.
type GridDoc struct {
	Material       string               `json:"material"`
	QPoints        [][]float64          `json:"qpoints"`
	Multiplicities []float64            `json:"multiplicities"`
	Frequencies    [][]float64          `json:"frequencies"` // (modes, qpoints), THz
	Gruneisen      [][]float64          `json:"gruneisen"`   // same shape
	Structure      *phonon.StructureDoc `json:"structure,omitempty"`
}

func main() {
	var (
		inputPath   = flag.String("input", "", "path to the JSON grid document (required)")
		dbPath      = flag.String("db", "", "optional SQLite database to record the run in")
		temperature = flag.Float64("temperature", 0, "evaluation temperature in K (0 = acoustic Debye temperature)")
		limit       = flag.String("limit", "", `frequency limit: "", "debye" or "acoustic"`)
		squared     = flag.Bool("squared", true, "average squared Grueneisen values and take the square root")
		verbose     = flag.Bool("verbose", false, "enable debug logging")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println("thermal-report", version.String())
		return
	}
	if *verbose {
		monitoring.EnableDebug()
	}
	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "usage: thermal-report -input grid.json [-db runs.db] [-temperature K] [-limit debye|acoustic]")
		os.Exit(2)
	}

	if err := run(*inputPath, *dbPath, *temperature, gruneisen.FrequencyLimit(*limit), *squared); err != nil {
		monitoring.Logf("thermal-report: %v", err)
		os.Exit(1)
	}
}

func run(inputPath, dbPath string, temperature float64, limit gruneisen.FrequencyLimit, squared bool) error {
	doc, err := loadGridDoc(inputPath)
	if err != nil {
		return err
	}

	opts := []gruneisen.ParameterOption{gruneisen.WithMultiplicities(doc.Multiplicities)}
	var structure *phonon.Structure
	if doc.Structure != nil {
		if structure, err = phonon.StructureFromDoc(*doc.Structure); err != nil {
			return fmt.Errorf("structure: %w", err)
		}
		opts = append(opts, gruneisen.WithStructure(structure))
	}

	param, err := gruneisen.NewParameter(doc.QPoints, doc.Gruneisen, doc.Frequencies, opts...)
	if err != nil {
		return fmt.Errorf("grid document %s: %w", inputPath, err)
	}
	monitoring.Debugf("loaded %s: %d modes x %d q-points", inputPath, len(doc.Frequencies), len(doc.QPoints))

	avgOpts := []gruneisen.Option{
		gruneisen.WithSquared(squared),
		gruneisen.WithFrequencyLimit(limit),
	}
	if temperature > 0 {
		avgOpts = append(avgOpts, gruneisen.WithTemperature(temperature))
	}

	avg, err := param.Average(avgOpts...)
	if err != nil {
		return fmt.Errorf("average Grueneisen: %w", err)
	}
	fmt.Printf("material:              %s\n", doc.Material)
	fmt.Printf("average Grueneisen:    %.6f\n", avg)

	if structure == nil {
		monitoring.Logf("no structure in %s; skipping conductivity and Debye temperatures", inputPath)
		return nil
	}

	cond, err := param.SlackThermalConductivity(avgOpts...)
	if err != nil {
		return fmt.Errorf("Slack conductivity: %w", err)
	}
	adt, err := param.AcousticDebyeTemp()
	if err != nil {
		return err
	}
	dtl, err := param.DebyeTempLimit()
	if err != nil {
		return err
	}
	fmt.Printf("Slack conductivity:    %.4f W/(m·K)\n", cond)
	fmt.Printf("acoustic Debye temp:   %.2f K\n", adt)
	fmt.Printf("Debye temp (limit):    %.2f K\n", dtl)

	if dbPath == "" {
		return nil
	}
	return persistRun(dbPath, doc, structure, temperature, limit, squared, avg, cond, adt, dtl)
}

func persistRun(dbPath string, doc *GridDoc, structure *phonon.Structure, temperature float64, limit gruneisen.FrequencyLimit, squared bool, avg, cond, adt, dtl float64) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if temperature <= 0 {
		temperature = adt
	}
	run := &storage.ThermalRun{
		Material:               doc.Material,
		NumAtoms:               structure.NumSites(),
		VolumeA3:               structure.Volume(),
		TemperatureK:           temperature,
		AverageGruneisen:       avg,
		ThermalConductivityWMK: cond,
		AcousticDebyeTempK:     adt,
		DebyeTempLimitK:        dtl,
		FrequencyLimit:         string(limit),
		Squared:                squared,
	}
	if err := storage.NewThermalStore(db).Insert(run); err != nil {
		return err
	}
	monitoring.Logf("recorded run %s for %s in %s", run.RunID, doc.Material, dbPath)
	return nil
}

func loadGridDoc(path string) (*GridDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var doc GridDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &doc, nil
}
