package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ehr/patientdesk/internal/domain/patient"
)

func execute(t *testing.T, data string, in string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(in))
	cmd.SetArgs(append(args, "--data", data))
	err := cmd.Execute()
	return out.String(), err
}

func dataFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "patients.txt")
}

func addAnn(t *testing.T, data string) {
	t.Helper()
	out, err := execute(t, data, "", "add", "--id", "1", "--name", "Ann", "--age", "30",
		"--gender", "Female", "--blood", "O+", "--phone", "555", "--national-id", "123", "--address", "X")
	require.NoError(t, err)
	assert.Contains(t, out, "Patient successfully added.")
}

func TestAddThenShow(t *testing.T) {
	data := dataFile(t)
	addAnn(t, data)

	raw, err := os.ReadFile(data)
	require.NoError(t, err)
	assert.Equal(t, "1|Ann|30|Female|O+|555|123|X|\n", string(raw))

	out, err := execute(t, data, "", "show", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Complete Patient Data (ID 1):")
	assert.Contains(t, out, "Ann")
}

func TestAdd_RejectsInvalidFields(t *testing.T) {
	data := dataFile(t)

	_, err := execute(t, data, "", "add", "--id", "1", "--name", "R2D2", "--age", "30", "--gender", "Female", "--blood", "O+")
	assert.ErrorIs(t, err, patient.ErrInvalidInput)

	_, err = execute(t, data, "", "add", "--id", "1", "--name", "Ann", "--age", "30", "--gender", "female", "--blood", "O+")
	assert.ErrorIs(t, err, patient.ErrInvalidInput)

	_, err = os.Stat(data)
	assert.True(t, os.IsNotExist(err), "nothing is written for rejected input")
}

func TestAdd_DuplicateID(t *testing.T) {
	data := dataFile(t)
	addAnn(t, data)

	_, err := execute(t, data, "", "add", "--id", "1", "--name", "Bob", "--age", "41", "--gender", "Male", "--blood", "A-")
	assert.ErrorIs(t, err, patient.ErrDuplicateID)
}

func TestDiagnoseUpdateDelete(t *testing.T) {
	data := dataFile(t)
	addAnn(t, data)

	out, err := execute(t, data, "", "diagnose", "1", "Flu")
	require.NoError(t, err)
	assert.Contains(t, out, "Diagnosis saved successfully.")

	_, err = execute(t, data, "", "diagnose", "1", "Cold")
	assert.ErrorIs(t, err, patient.ErrAlreadyDiagnosed)

	out, err = execute(t, data, "", "update", "1", "--age", "31", "--diagnosis", "Cold")
	require.NoError(t, err)
	assert.Contains(t, out, "Patient data successfully updated.")

	raw, err := os.ReadFile(data)
	require.NoError(t, err)
	assert.Equal(t, "1|Ann|31|Female|O+|555|123|X|Cold\n", string(raw))

	_, err = execute(t, data, "", "update", "1", "--age", "old")
	assert.ErrorIs(t, err, patient.ErrInvalidInput)

	out, err = execute(t, data, "", "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Patient data successfully deleted.")

	_, err = execute(t, data, "", "delete", "1")
	assert.ErrorIs(t, err, patient.ErrNotFound)
}

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	assert.Equal(t, 42, id)

	for _, s := range []string{"", "-1", "4x"} {
		_, err := parseID(s)
		assert.ErrorIs(t, err, patient.ErrInvalidInput, s)
	}
}

func TestListAndQueries(t *testing.T) {
	data := dataFile(t)
	require.NoError(t, os.WriteFile(data, []byte(
		"2|Bob|41|Male|A-||||Flu\n"+
			"1|Ann|30|Female|O+||||\n"+
			"3|Cid|51|Male|A-||||Flu\n"), 0o644))

	out, err := execute(t, data, "", "list", "--sort", "name", "--desc")
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "Cid"), strings.Index(out, "Bob"))
	assert.Less(t, strings.Index(out, "Bob"), strings.Index(out, "Ann"))

	_, err = execute(t, data, "", "list", "--sort", "age")
	assert.Error(t, err)

	out, err = execute(t, data, "", "count-diagnosis", "Flu")
	require.NoError(t, err)
	assert.Contains(t, out, `Number of patients with diagnosis "Flu": 2`)

	out, err = execute(t, data, "", "blood", "A-")
	require.NoError(t, err)
	assert.Contains(t, out, "Bob")
	assert.Contains(t, out, "Cid")
	assert.NotContains(t, out, "Ann")

	out, err = execute(t, data, "", "blood", "AB")
	require.NoError(t, err)
	assert.Contains(t, out, "No patient data available.")
}

func TestList_WarnsAboutSkippedLines(t *testing.T) {
	data := dataFile(t)
	require.NoError(t, os.WriteFile(data, []byte("1|Ann|30|Female|O+||||\nnot a record\n"), 0o644))

	out, err := execute(t, data, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "warning: skipped 1 malformed line(s)")
	assert.Contains(t, out, "Ann")
}

func TestStrictLoadFails(t *testing.T) {
	t.Setenv("STRICT_LOAD", "true")
	data := dataFile(t)
	require.NoError(t, os.WriteFile(data, []byte("not a record\n"), 0o644))

	_, err := execute(t, data, "", "list")
	assert.ErrorIs(t, err, patient.ErrParseFailed)
}

func TestExportYAML(t *testing.T) {
	data := dataFile(t)
	addAnn(t, data)
	target := filepath.Join(t.TempDir(), "out.yaml")

	out, err := execute(t, data, "", "export", "--format", "yaml", "--out", target)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 1 patient(s)")

	raw, err := os.ReadFile(target)
	require.NoError(t, err)
	var doc struct {
		Count    int               `yaml:"count"`
		Patients []patient.Patient `yaml:"patients"`
	}
	require.NoError(t, yaml.Unmarshal(raw, &doc))
	assert.Equal(t, 1, doc.Count)
	require.Len(t, doc.Patients, 1)
	assert.Equal(t, "Ann", doc.Patients[0].Name)
}

func TestExport_UnknownFormat(t *testing.T) {
	_, err := execute(t, dataFile(t), "", "export", "--format", "pdf")
	assert.Error(t, err)
}

func TestMenuCommand(t *testing.T) {
	data := dataFile(t)
	out, err := execute(t, data, "1\n5\nEve\n22\n?\nB+\n\n\n\n4\n", "menu")
	require.NoError(t, err)
	assert.Contains(t, out, "Patient data has been saved. Program End")

	raw, err := os.ReadFile(data)
	require.NoError(t, err)
	assert.Equal(t, "5|Eve|22|?|B+||||\n", string(raw))
}
