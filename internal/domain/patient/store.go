package patient

import "fmt"

// Store is the in-memory patient collection. It enforces id uniqueness and
// Capacity. Order is storage order until one of the Sort methods reorders it.
// A Store is owned by a single caller and is not safe for concurrent use.
type Store struct {
	records []Patient
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{records: make([]Patient, 0, Capacity)}
}

// Add appends p with an empty diagnosis.
func (s *Store) Add(p Patient) error {
	if _, ok := s.FindByID(p.ID); ok {
		return fmt.Errorf("add patient %d: %w", p.ID, ErrDuplicateID)
	}
	if len(s.records) >= Capacity {
		return fmt.Errorf("add patient %d: %w", p.ID, ErrCapacityExceeded)
	}
	p.Diagnosis = ""
	s.records = append(s.records, p)
	return nil
}

// FindByID returns the storage index of the patient with the given id.
func (s *Store) FindByID(id int) (int, bool) {
	for i := range s.records {
		if s.records[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

// Get returns a copy of the patient with the given id.
func (s *Store) Get(id int) (Patient, error) {
	idx, ok := s.FindByID(id)
	if !ok {
		return Patient{}, fmt.Errorf("get patient %d: %w", id, ErrNotFound)
	}
	return s.records[idx], nil
}

// Diagnose records the first diagnosis for a patient.
func (s *Store) Diagnose(id int, text string) error {
	idx, ok := s.FindByID(id)
	if !ok {
		return fmt.Errorf("diagnose patient %d: %w", id, ErrNotFound)
	}
	if s.records[idx].IsDiagnosed() {
		return fmt.Errorf("diagnose patient %d: %w", id, ErrAlreadyDiagnosed)
	}
	s.records[idx].Diagnosis = text
	return nil
}

// Update overwrites every non-blank field of u. Only Age is checked, and a
// bad age rejects the whole update.
func (s *Store) Update(id int, u PatientUpdate) error {
	idx, ok := s.FindByID(id)
	if !ok {
		return fmt.Errorf("update patient %d: %w", id, ErrNotFound)
	}

	var age int
	if u.Age != "" {
		v, ok := IsValidInteger(u.Age)
		if !ok {
			return fmt.Errorf("update patient %d: %w: age %q is not a number", id, ErrInvalidInput, u.Age)
		}
		age = v
	}

	p := &s.records[idx]
	if u.Name != "" {
		p.Name = u.Name
	}
	if u.Age != "" {
		p.Age = age
	}
	if u.Gender != "" {
		p.Gender = Gender(u.Gender)
	}
	if u.BloodType != "" {
		p.BloodType = u.BloodType
	}
	if u.Phone != "" {
		p.Phone = u.Phone
	}
	if u.NationalID != "" {
		p.NationalID = u.NationalID
	}
	if u.Address != "" {
		p.Address = u.Address
	}
	if u.Diagnosis != "" {
		p.Diagnosis = u.Diagnosis
	}
	return nil
}

// Delete removes a patient and closes the gap, keeping the remaining order.
func (s *Store) Delete(id int) error {
	idx, ok := s.FindByID(id)
	if !ok {
		return fmt.Errorf("delete patient %d: %w", id, ErrNotFound)
	}
	copy(s.records[idx:], s.records[idx+1:])
	s.records[len(s.records)-1] = Patient{}
	s.records = s.records[:len(s.records)-1]
	return nil
}

func (s *Store) Count() int {
	return len(s.records)
}

// List returns a copy of the collection in storage order.
func (s *Store) List() []Patient {
	out := make([]Patient, len(s.records))
	copy(out, s.records)
	return out
}

// Replace resets the store to records, keeping their order and diagnoses.
// The store is left untouched when records break uniqueness or Capacity.
func (s *Store) Replace(records []Patient) error {
	if len(records) > Capacity {
		return fmt.Errorf("replace patients: %d records: %w", len(records), ErrCapacityExceeded)
	}
	seen := make(map[int]struct{}, len(records))
	for _, p := range records {
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("replace patients: id %d: %w", p.ID, ErrDuplicateID)
		}
		seen[p.ID] = struct{}{}
	}
	next := make([]Patient, len(records), Capacity)
	copy(next, records)
	s.records = next
	return nil
}
