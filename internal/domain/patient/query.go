package patient

import "github.com/samber/lo"

// CountByDiagnosis counts patients whose diagnosis equals text exactly. An
// empty text counts undiagnosed patients.
func (s *Store) CountByDiagnosis(text string) int {
	return lo.CountBy(s.records, func(p Patient) bool {
		return p.Diagnosis == text
	})
}

// FindByBloodType returns the patients with exactly this blood type, in
// storage order. The result is empty, never nil, when nothing matches.
func (s *Store) FindByBloodType(text string) []Patient {
	out := lo.Filter(s.records, func(p Patient, _ int) bool {
		return p.BloodType == text
	})
	if out == nil {
		return []Patient{}
	}
	return out
}
