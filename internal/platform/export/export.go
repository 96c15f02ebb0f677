// Package export renders the patient collection for use outside the program:
// an xlsx workbook for spreadsheets or a YAML document.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/ehr/patientdesk/internal/domain/patient"
)

// Format is an export file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatYAML Format = "yaml"
)

// SheetName is the worksheet holding the exported patients.
const SheetName = "Patients"

var ErrUnknownFormat = errors.New("unknown export format")

// Header is the first row of the workbook.
var Header = []string{"ID", "Name", "Age", "Gender", "Blood Type", "Phone", "National ID", "Address", "Diagnosis"}

// ParseFormat accepts "xlsx", "yaml" or "yml" in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "xlsx":
		return FormatXLSX, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Write renders records to w in the requested format.
func Write(w io.Writer, format Format, records []patient.Patient) error {
	switch format {
	case FormatXLSX:
		return writeXLSX(w, records)
	case FormatYAML:
		return writeYAML(w, records)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

type yamlDocument struct {
	Count    int               `yaml:"count"`
	Patients []patient.Patient `yaml:"patients"`
}

func writeYAML(w io.Writer, records []patient.Patient) error {
	if records == nil {
		records = []patient.Patient{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(yamlDocument{Count: len(records), Patients: records}); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func writeXLSX(w io.Writer, records []patient.Patient) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, p := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			p.ID, p.Name, p.Age, string(p.Gender), p.BloodType,
			p.Phone, p.NationalID, p.Address, p.Diagnosis,
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write patient %d: %w", p.ID, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
