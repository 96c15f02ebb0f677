package patient

// Capacity is the maximum number of patients the store will hold.
const Capacity = 100

// Gender is the closed set of values accepted for Patient.Gender.
type Gender string

const (
	GenderMale        Gender = "Male"
	GenderFemale      Gender = "Female"
	GenderUnspecified Gender = "?"
)

// Patient is one person's administrative and diagnostic record.
type Patient struct {
	ID         int    `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Age        int    `json:"age" yaml:"age"`
	Gender     Gender `json:"gender" yaml:"gender"`
	BloodType  string `json:"blood_type" yaml:"blood_type"`
	Phone      string `json:"phone" yaml:"phone"`
	NationalID string `json:"national_id" yaml:"national_id"`
	Address    string `json:"address" yaml:"address"`
	Diagnosis  string `json:"diagnosis" yaml:"diagnosis"`
}

// IsDiagnosed reports whether a diagnosis has been recorded.
func (p Patient) IsDiagnosed() bool {
	return p.Diagnosis != ""
}

// PatientUpdate carries raw replacement values for Update. A blank field
// leaves the stored value unchanged. Age is kept as entered so the store can
// check it with IsValidInteger.
type PatientUpdate struct {
	Name       string
	Age        string
	Gender     string
	BloodType  string
	Phone      string
	NationalID string
	Address    string
	Diagnosis  string
}

// IsEmpty reports whether the update would change nothing.
func (u PatientUpdate) IsEmpty() bool {
	return u == PatientUpdate{}
}
