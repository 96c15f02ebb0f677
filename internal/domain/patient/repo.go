package patient

import "context"

// LoadReport summarises what a Repository.Load read.
type LoadReport struct {
	Lines     int  // non-blank lines read
	Loaded    int  // records returned
	Skipped   int  // malformed or duplicate lines dropped
	Truncated bool // lines remained after Capacity was reached
}

// Repository is the durable home of the patient collection. Load returns the
// whole collection; Save replaces it entirely.
type Repository interface {
	Load(ctx context.Context) ([]Patient, LoadReport, error)
	Save(ctx context.Context, records []Patient) error
}
