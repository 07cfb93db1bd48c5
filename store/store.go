package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	sqlite "github.com/glebarez/sqlite"
	cp "github.com/jinzhu/copier"
	gorm "gorm.io/gorm"

	"github.com/they4kman/gensolve/genetic"
)

type Config struct {
	// Path of the SQLite database file. Empty opens a private in-memory database.
	Path    string   `toml:"path"`
	Pragmas []string `toml:"pragmas"`
}

// Run is one Simulation, with the params it ran under
type Run struct {
	ID        uint
	CreatedAt time.Time
	UpdatedAt time.Time

	Equation string
	Target   int32
	NIter    int
	NBits    int
	NPop     int
	RCross   float32
	RMut     float32
	Seed     int64
	Mode     string

	Finished   bool
	Solved     bool
	Iterations int
	// JSON array of solution gene arrays
	Solutions string

	Generations []Generation
}

// Generation is one evaluated population. Fitness and Population are JSON arrays.
type Generation struct {
	ID          uint
	RunID       uint `gorm:"index"`
	Iteration   int
	AvgFitness  uint64
	BestFitness uint64
	Fitness     string
	Population  string
}

type Store struct {
	Config *Config
	DB     *gorm.DB
	sqlDB  *sql.DB
}

func dsn(config *Config) string {
	if config.Path == "" {
		return ":memory:"
	}

	var path strings.Builder
	path.WriteString(config.Path)
	for i, pragma := range config.Pragmas {
		if i == 0 {
			path.WriteRune('?')
		} else {
			path.WriteRune('&')
		}
		path.WriteString(fmt.Sprintf("_pragma=%s", pragma))
	}
	return path.String()
}

func Open(config *Config) (*Store, error) {
	if config == nil {
		return nil, errors.New("store config cannot be nil")
	}

	db, err := gorm.Open(sqlite.Open(dsn(config)), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("opening run store: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if config.Path == "" {
		// every pooled connection to :memory: would get its own empty database
		sqlDB.SetMaxOpenConns(1)
	} else {
		db = db.Session(&gorm.Session{PrepareStmt: true, CreateBatchSize: 1000})
	}

	s := &Store{Config: config, DB: db, sqlDB: sqlDB}
	if err := s.DB.AutoMigrate(&Run{}, &Generation{}); err != nil {
		s.Close()
		return nil, fmt.Errorf("migrating run store: %w", err)
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.sqlDB.Close()
}

// CreateRun records the start of a Simulation
func (s *Store) CreateRun(equation string, params genetic.Params) (*Run, error) {
	run := &Run{Equation: equation}
	if err := cp.Copy(run, &params); err != nil {
		return nil, fmt.Errorf("copying params: %w", err)
	}
	run.Mode = string(params.CrossoverMode)

	if result := s.DB.Create(run); result.Error != nil {
		return nil, fmt.Errorf("creating run: %w", result.Error)
	}
	return run, nil
}

func (s *Store) RecordGeneration(runID uint, report *genetic.GenerationReport) error {
	fitness, err := json.Marshal(report.Fitness)
	if err != nil {
		return err
	}
	population, err := json.Marshal(report.Population.Genes())
	if err != nil {
		return err
	}

	generation := &Generation{
		RunID:       runID,
		Iteration:   report.Iteration,
		AvgFitness:  report.AvgFitness,
		BestFitness: report.BestFitness,
		Fitness:     string(fitness),
		Population:  string(population),
	}
	if result := s.DB.Create(generation); result.Error != nil {
		return fmt.Errorf("recording generation %d of run %d: %w", report.Iteration, runID, result.Error)
	}
	return nil
}

func (s *Store) FinishRun(runID uint, result *genetic.Result) error {
	solutions := make([][]int32, len(result.Solutions))
	for i, c := range result.Solutions {
		solutions[i] = c.Genes()
	}
	encoded, err := json.Marshal(solutions)
	if err != nil {
		return err
	}

	update := s.DB.Model(&Run{ID: runID}).Updates(map[string]interface{}{
		"finished":   true,
		"solved":     result.Solved,
		"iterations": result.Iterations,
		"solutions":  string(encoded),
	})
	if update.Error != nil {
		return fmt.Errorf("finishing run %d: %w", runID, update.Error)
	}
	if update.RowsAffected == 0 {
		return fmt.Errorf("finishing run %d: %w", runID, gorm.ErrRecordNotFound)
	}
	return nil
}

// Runs lists the most recent runs first. A limit ≤0 lists all of them.
func (s *Store) Runs(limit int) ([]Run, error) {
	var runs []Run
	query := s.DB.Order("id desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if result := query.Find(&runs); result.Error != nil {
		return nil, result.Error
	}
	return runs, nil
}

func (s *Store) Run(runID uint) (*Run, error) {
	var run Run
	if result := s.DB.First(&run, runID); result.Error != nil {
		return nil, result.Error
	}
	return &run, nil
}

func (s *Store) Generations(runID uint) ([]Generation, error) {
	var generations []Generation
	if result := s.DB.Where("run_id = ?", runID).Order("iteration").Find(&generations); result.Error != nil {
		return nil, result.Error
	}
	return generations, nil
}

// Genes decodes the stored Population
func (g *Generation) Genes() ([][]int32, error) {
	var genes [][]int32
	err := json.Unmarshal([]byte(g.Population), &genes)
	return genes, err
}

// FitnessVector decodes the stored fitness
func (g *Generation) FitnessVector() (genetic.FitnessVector, error) {
	var fitness genetic.FitnessVector
	err := json.Unmarshal([]byte(g.Fitness), &fitness)
	return fitness, err
}

// Recorder is a genetic.Observer storing every generation of one run
type Recorder struct {
	Store *Store
	RunID uint
}

func (r *Recorder) OnGeneration(report *genetic.GenerationReport) error {
	return r.Store.RecordGeneration(r.RunID, report)
}
