package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/ehr/patientdesk/internal/domain/patient"
)

func records() []patient.Patient {
	return []patient.Patient{
		{ID: 1, Name: "Ann", Age: 30, Gender: patient.GenderFemale, BloodType: "O+", Phone: "555", NationalID: "123", Address: "X", Diagnosis: "Flu"},
		{ID: 2, Name: "Bob", Age: 41, Gender: patient.GenderMale, BloodType: "A-"},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	f, err = ParseFormat("yml")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = ParseFormat("csv")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestWrite_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, Write(&buf, Format("pdf"), records()), ErrUnknownFormat)
}

func TestWrite_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatYAML, records()))

	var doc yamlDocument
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, 2, doc.Count)
	assert.Equal(t, records(), doc.Patients)
	assert.Contains(t, buf.String(), "blood_type: O+")
}

func TestWrite_YAMLEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatYAML, nil))

	var doc yamlDocument
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Zero(t, doc.Count)
	assert.Empty(t, doc.Patients)
}

func TestWrite_XLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatXLSX, records()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Header, rows[0])
	assert.Equal(t, []string{"1", "Ann", "30", "Female", "O+", "555", "123", "X", "Flu"}, rows[1])
	require.GreaterOrEqual(t, len(rows[2]), 5)
	assert.Equal(t, []string{"2", "Bob", "41", "Male", "A-"}, rows[2][:5])
	for _, cell := range rows[2][5:] {
		assert.Empty(t, cell)
	}
}
