package patient

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ehr/patientdesk/internal/platform/audit"
)

// Service is the entry point used by the console and the CLI. It owns the
// store, flushes it to the repository after every mutation and records an
// audit entry for every operation.
type Service struct {
	store  *Store
	repo   Repository
	audit  audit.Recorder
	logger zerolog.Logger
}

func NewService(store *Store, repo Repository, recorder audit.Recorder, logger zerolog.Logger) *Service {
	if recorder == nil {
		recorder = audit.Nop
	}
	return &Service{store: store, repo: repo, audit: recorder, logger: logger}
}

// Open loads the persisted collection into the store.
func (s *Service) Open(ctx context.Context) (LoadReport, error) {
	records, report, err := s.repo.Load(ctx)
	if err != nil {
		s.record(audit.ActionLoad, "", err)
		return report, err
	}
	if err := s.store.Replace(records); err != nil {
		s.record(audit.ActionLoad, "", err)
		return report, err
	}
	s.record(audit.ActionLoad, "", nil)
	s.logger.Info().
		Int("loaded", report.Loaded).
		Int("skipped", report.Skipped).
		Bool("truncated", report.Truncated).
		Msg("patient data loaded")
	return report, nil
}

// Save writes the current collection, in its current order.
func (s *Service) Save(ctx context.Context) error {
	err := s.flush(ctx)
	s.record(audit.ActionSave, "", err)
	return err
}

// -- Mutations --

func (s *Service) AddPatient(ctx context.Context, p Patient) error {
	if err := s.store.Add(p); err != nil {
		s.record(audit.ActionCreate, audit.PatientRef(p.ID), err)
		return err
	}
	err := s.flush(ctx)
	s.record(audit.ActionCreate, audit.PatientRef(p.ID), err)
	return err
}

func (s *Service) DiagnosePatient(ctx context.Context, id int, text string) error {
	if err := s.store.Diagnose(id, text); err != nil {
		s.record(audit.ActionDiagnose, audit.PatientRef(id), err)
		return err
	}
	err := s.flush(ctx)
	s.record(audit.ActionDiagnose, audit.PatientRef(id), err)
	return err
}

func (s *Service) UpdatePatient(ctx context.Context, id int, u PatientUpdate) error {
	if err := s.store.Update(id, u); err != nil {
		s.record(audit.ActionUpdate, audit.PatientRef(id), err)
		return err
	}
	err := s.flush(ctx)
	s.record(audit.ActionUpdate, audit.PatientRef(id), err)
	return err
}

func (s *Service) DeletePatient(ctx context.Context, id int) error {
	if err := s.store.Delete(id); err != nil {
		s.record(audit.ActionDelete, audit.PatientRef(id), err)
		return err
	}
	err := s.flush(ctx)
	s.record(audit.ActionDelete, audit.PatientRef(id), err)
	return err
}

// -- Reads --

func (s *Service) GetPatient(id int) (Patient, error) {
	p, err := s.store.Get(id)
	s.record(audit.ActionRead, audit.PatientRef(id), err)
	return p, err
}

// Exists reports whether an id is already registered.
func (s *Service) Exists(id int) bool {
	_, ok := s.store.FindByID(id)
	return ok
}

// ListPatients sorts the stored collection by key and returns it. The new
// order is kept and is what the next save writes.
func (s *Service) ListPatients(key SortKey, ascending bool) []Patient {
	s.store.Sort(key, ascending)
	s.record(audit.ActionSearch, "", nil)
	return s.store.List()
}

// Patients returns the collection in its current stored order.
func (s *Service) Patients() []Patient {
	s.record(audit.ActionRead, "", nil)
	return s.store.List()
}

func (s *Service) CountByDiagnosis(text string) int {
	s.record(audit.ActionSearch, "", nil)
	return s.store.CountByDiagnosis(text)
}

func (s *Service) FindByBloodType(text string) []Patient {
	s.record(audit.ActionSearch, "", nil)
	return s.store.FindByBloodType(text)
}

func (s *Service) Count() int {
	return s.store.Count()
}

// IsFull reports whether another Add would exceed Capacity.
func (s *Service) IsFull() bool {
	return s.store.Count() >= Capacity
}

// flush saves the store. The in-memory state is kept when the write fails.
func (s *Service) flush(ctx context.Context) error {
	if err := s.repo.Save(ctx, s.store.List()); err != nil {
		s.logger.Error().Err(err).Int("count", s.store.Count()).Msg("failed to save patient data")
		if errors.Is(err, ErrWriteFailed) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return nil
}

func (s *Service) record(action, patientID string, err error) {
	entry := audit.Entry{Action: action, PatientID: patientID, Outcome: audit.OutcomeSuccess}
	if err != nil {
		entry.Outcome = audit.OutcomeFailure
		entry.Detail = err.Error()
	}
	if recErr := s.audit.RecordAccess(entry); recErr != nil {
		s.logger.Error().Err(recErr).Str("action", action).Msg("failed to record audit entry")
	}
}
