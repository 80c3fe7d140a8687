package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/gravbox/internal/sim"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	metadataFile  = "metadata.json"
	telemetryFile = "telemetry.csv"
)

var header = []string{"tick", "real_time", "total_time", "time_scale", "bodies", "energy", "momentum_x", "momentum_y", "angular_momentum"}

// ErrNotFound is returned when a session id has no recorded files.
var ErrNotFound = errors.New("storage: session not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// SessionMetadata summarises one recorded session.
type SessionMetadata struct {
	ID            string             `json:"id"`
	Source        string             `json:"source"`
	Started       time.Time          `json:"started"`
	Integrator    string             `json:"integrator"`
	DistanceScale float64            `json:"distance_scale"`
	TimeScale     float64            `json:"time_scale"`
	Ticks         uint64             `json:"ticks"`
	Bodies        int                `json:"bodies"`
	TotalTime     float64            `json:"total_time"`
	Metrics       map[string]float64 `json:"metrics"`
}

// Sample is one telemetry row.
type Sample struct {
	Tick      uint64
	RealTime  float64
	TotalTime float64
	TimeScale float64
	Bodies    int
	Energy    float64
	Momentum  r2.Vec
	// AngularMomentum is the z component about the world origin.
	AngularMomentum float64
}

// Recorder streams frames of a live session to disk. It satisfies
// sim.Observer.
type Recorder struct {
	dir  string
	meta SessionMetadata
	file *os.File
	w    *csv.Writer
	err  error
}

// Create opens a new session directory. meta.ID and meta.Started are filled
// in when empty.
func (s *Store) Create(meta SessionMetadata) (*Recorder, error) {
	if meta.Started.IsZero() {
		meta.Started = time.Now()
	}
	if meta.ID == "" {
		meta.ID = fmt.Sprintf("%s_%d", meta.Source, meta.Started.UnixNano())
	}

	dir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	file, err := os.Create(filepath.Join(dir, telemetryFile))
	if err != nil {
		return nil, err
	}

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		file.Close()
		return nil, err
	}

	return &Recorder{dir: dir, meta: meta, file: file, w: w}, nil
}

func (r *Recorder) ID() string { return r.meta.ID }

func (r *Recorder) OnTick(f sim.Frame) {
	if r.err != nil {
		return
	}
	r.meta.Ticks = f.Tick
	r.meta.Bodies = len(f.Bodies)
	r.meta.TotalTime = f.TotalTime

	row := []string{
		strconv.FormatUint(f.Tick, 10),
		formatFloat(f.RealTime),
		formatFloat(f.TotalTime),
		formatFloat(f.TimeScale),
		strconv.Itoa(len(f.Bodies)),
		formatFloat(f.Energy),
		formatFloat(f.Momentum.X),
		formatFloat(f.Momentum.Y),
		formatFloat(f.AngularMomentum),
	}
	r.err = r.w.Write(row)
}

// Close flushes telemetry and writes the metadata file. The first write
// error seen while recording is returned.
func (r *Recorder) Close(metrics map[string]float64) error {
	r.w.Flush()
	err := errors.Join(r.err, r.w.Error(), r.file.Close())
	if err != nil {
		return err
	}

	r.meta.Metrics = metrics
	data, err := json.MarshalIndent(r.meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(r.dir, metadataFile), data, 0644)
}

// List returns every finished session, oldest first. Directories without
// metadata are skipped.
func (s *Store) List() ([]SessionMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []SessionMetadata{}, nil
		}
		return nil, err
	}

	sessions := make([]SessionMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}

		sessions = append(sessions, *meta)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].Started.Before(sessions[j].Started)
	})
	return sessions, nil
}

func (s *Store) Load(id string) (*SessionMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, metadataFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
		}
		return nil, err
	}

	var meta SessionMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadSamples(id string) ([]Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, id, telemetryFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(header)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []Sample{}, nil
	}

	samples := make([]Sample, 0, len(records)-1)
	for i, record := range records[1:] {
		sample, err := parseSample(record)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", telemetryFile, i+2, err)
		}
		samples = append(samples, sample)
	}

	return samples, nil
}

func parseSample(record []string) (Sample, error) {
	var (
		s   Sample
		err error
	)
	if s.Tick, err = strconv.ParseUint(record[0], 10, 64); err != nil {
		return s, err
	}
	if s.Bodies, err = strconv.Atoi(record[4]); err != nil {
		return s, err
	}

	floats := []*float64{&s.RealTime, &s.TotalTime, &s.TimeScale, nil, &s.Energy, &s.Momentum.X, &s.Momentum.Y, &s.AngularMomentum}
	for i, dst := range floats {
		if dst == nil {
			continue
		}
		if *dst, err = strconv.ParseFloat(record[i+1], 64); err != nil {
			return s, err
		}
	}
	return s, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
