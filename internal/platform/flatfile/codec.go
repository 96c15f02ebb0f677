// Package flatfile persists the patient collection as a line-oriented text
// file, one record per line:
//
//	id|name|age|gender|bloodType|phone|nationalId|address|diagnosis
//
// Separators are not escaped. A free-form field containing '|' or a newline
// is written as-is and will not read back as the same record; Save logs a
// warning when it writes such a record.
package flatfile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ehr/patientdesk/internal/domain/patient"
)

// Separator joins the fields of a line.
const Separator = "|"

// FieldCount is the number of fields in a line.
const FieldCount = 9

// EncodeLine renders p without the trailing newline.
func EncodeLine(p patient.Patient) string {
	fields := [FieldCount]string{
		strconv.Itoa(p.ID),
		p.Name,
		strconv.Itoa(p.Age),
		string(p.Gender),
		p.BloodType,
		p.Phone,
		p.NationalID,
		p.Address,
		p.Diagnosis,
	}
	return strings.Join(fields[:], Separator)
}

// DecodeLine parses one line. The diagnosis is everything after the eighth
// separator; missing trailing fields are read as empty. id and age must be
// non-negative integers.
func DecodeLine(line string) (patient.Patient, error) {
	parts := strings.SplitN(line, Separator, FieldCount)
	var fields [FieldCount]string
	copy(fields[:], parts)

	id, err := parseNonNegative(fields[0])
	if err != nil {
		return patient.Patient{}, fmt.Errorf("id: %w", err)
	}
	age, err := parseNonNegative(fields[2])
	if err != nil {
		return patient.Patient{}, fmt.Errorf("age: %w", err)
	}

	return patient.Patient{
		ID:         id,
		Name:       fields[1],
		Age:        age,
		Gender:     patient.Gender(fields[3]),
		BloodType:  fields[4],
		Phone:      fields[5],
		NationalID: fields[6],
		Address:    fields[7],
		Diagnosis:  fields[8],
	}, nil
}

// HasUnsafeField reports whether a free-form field would break the line
// format.
func HasUnsafeField(p patient.Patient) bool {
	for _, f := range []string{p.Name, string(p.Gender), p.BloodType, p.Phone, p.NationalID, p.Address, p.Diagnosis} {
		if strings.ContainsAny(f, Separator+"\r\n") {
			return true
		}
	}
	return false
}

func parseNonNegative(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("%d is negative", v)
	}
	return v, nil
}
