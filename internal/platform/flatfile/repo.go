package flatfile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ehr/patientdesk/internal/domain/patient"
)

// DefaultPath is the data file used when none is configured.
const DefaultPath = "patients.txt"

// maxLineSize bounds a single record line.
const maxLineSize = 1024 * 1024

// Options configures a Repository.
type Options struct {
	// Path of the data file. Defaults to DefaultPath.
	Path string
	// Strict aborts Load on the first malformed line instead of skipping it.
	Strict bool
	Logger zerolog.Logger
}

// Repository implements patient.Repository on a single text file.
type Repository struct {
	path   string
	strict bool
	logger zerolog.Logger
}

var _ patient.Repository = (*Repository)(nil)

func NewRepository(opts Options) *Repository {
	path := opts.Path
	if path == "" {
		path = DefaultPath
	}
	return &Repository{
		path:   path,
		strict: opts.Strict,
		logger: opts.Logger.With().Str("component", "flatfile").Str("path", path).Logger(),
	}
}

// Path returns the data file location.
func (r *Repository) Path() string {
	return r.path
}

// Load reads at most patient.Capacity records. A missing file yields an empty
// collection. Blank lines are ignored. Malformed lines and repeated ids are
// skipped with a warning, or fail with patient.ErrParseFailed in strict mode.
func (r *Repository) Load(ctx context.Context) ([]patient.Patient, patient.LoadReport, error) {
	var report patient.LoadReport
	if err := ctx.Err(); err != nil {
		return nil, report, err
	}

	f, err := os.Open(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		r.logger.Debug().Msg("data file does not exist, starting empty")
		return []patient.Patient{}, report, nil
	}
	if err != nil {
		return nil, report, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	records := make([]patient.Patient, 0, patient.Capacity)
	seen := make(map[int]int, patient.Capacity)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if len(records) >= patient.Capacity {
			report.Truncated = true
			r.logger.Warn().Int("line", lineNo).Int("capacity", patient.Capacity).Msg("capacity reached, ignoring remaining lines")
			break
		}
		report.Lines++

		p, err := DecodeLine(line)
		if err == nil {
			if first, dup := seen[p.ID]; dup {
				err = fmt.Errorf("id %d already read on line %d", p.ID, first)
			}
		}
		if err != nil {
			if r.strict {
				return nil, report, fmt.Errorf("%w: line %d: %w", patient.ErrParseFailed, lineNo, err)
			}
			report.Skipped++
			r.logger.Warn().Err(err).Int("line", lineNo).Msg("skipping malformed patient line")
			continue
		}

		seen[p.ID] = lineNo
		records = append(records, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, report, fmt.Errorf("%w: read data file: %w", patient.ErrParseFailed, err)
	}

	report.Loaded = len(records)
	return records, report, nil
}

// Save overwrites the data file with records in the given order. The new
// content is written to a temporary file in the same directory and renamed
// over the old one.
func (r *Repository) Save(ctx context.Context, records []patient.Patient) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", patient.ErrWriteFailed, err)
	}

	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", patient.ErrWriteFailed, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	w := bufio.NewWriter(tmp)
	for _, p := range records {
		if HasUnsafeField(p) {
			r.logger.Warn().Int("patient_id", p.ID).Msg("record contains a separator or line break and will not reload faithfully")
		}
		if _, err := w.WriteString(EncodeLine(p) + "\n"); err != nil {
			tmp.Close()
			cleanup()
			return fmt.Errorf("%w: %w", patient.ErrWriteFailed, err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("%w: %w", patient.ErrWriteFailed, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("%w: %w", patient.ErrWriteFailed, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("%w: %w", patient.ErrWriteFailed, err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		cleanup()
		return fmt.Errorf("%w: %w", patient.ErrWriteFailed, err)
	}

	r.logger.Debug().Int("count", len(records)).Msg("patient data saved")
	return nil
}
