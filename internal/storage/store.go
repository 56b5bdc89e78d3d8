package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
)

var ErrRunNotFound = errors.New("storage: run not found")

const (
	metadataFile = "metadata.json"
	traceFile    = "trace.csv"
)

var traceHeader = []string{"seq", "elapsed_ms", "action", "t", "phase", "stage", "exact", "label"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Settings is the playback configuration a run was recorded with.
type Settings struct {
	Radius          float64 `json:"radius"`
	SegmentsU       int     `json:"segments_u"`
	SegmentsV       int     `json:"segments_v"`
	Increment       float64 `json:"increment"`
	BoundaryDelayMs int     `json:"boundary_delay_ms"`
	ResumePolicy    string  `json:"resume_policy"`
	Locale          string  `json:"locale"`
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Kind      string             `json:"kind"`
	Name      string             `json:"name,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Settings  Settings           `json:"settings"`
	Frames    int                `json:"frames"`
	ElapsedMs int64              `json:"elapsed_ms"`
	FinalT    float64            `json:"final_t"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes a new run directory and returns its ID.
func (s *Store) Save(meta RunMetadata, samples []Sample) (string, error) {
	meta.ID = uuid.NewString()
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	meta.Frames = len(samples)
	if n := len(samples); n > 0 {
		meta.ElapsedMs = samples[n-1].ElapsedMs
		meta.FinalT = samples[n-1].T
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, traceFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, samples); err != nil {
		return "", err
	}
	return meta.ID, nil
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: %s metadata: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadSamples(runID string) ([]Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, traceFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()
	return ReadCSV(file)
}

// WriteCSV writes samples with a header row.
func WriteCSV(w io.Writer, samples []Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(traceHeader); err != nil {
		return err
	}
	for _, s := range samples {
		row := []string{
			strconv.FormatInt(s.Seq, 10),
			strconv.FormatInt(s.ElapsedMs, 10),
			s.Action,
			strconv.FormatFloat(s.T, 'f', 6, 64),
			s.Phase,
			s.Stage,
			strconv.FormatBool(s.Exact),
			s.Label,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a trace written by WriteCSV. Malformed rows are skipped.
func ReadCSV(r io.Reader) ([]Sample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []Sample{}, nil
	}

	samples := make([]Sample, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) < len(traceHeader) {
			continue
		}
		seq, err1 := strconv.ParseInt(rec[0], 10, 64)
		ms, err2 := strconv.ParseInt(rec[1], 10, 64)
		t, err3 := strconv.ParseFloat(rec[3], 64)
		exact, err4 := strconv.ParseBool(rec[6])
		if err := errors.Join(err1, err2, err3, err4); err != nil {
			continue
		}
		samples = append(samples, Sample{
			Seq:       seq,
			ElapsedMs: ms,
			Action:    rec[2],
			T:         t,
			Phase:     rec[4],
			Stage:     rec[5],
			Exact:     exact,
			Label:     rec[7],
		})
	}
	return samples, nil
}
