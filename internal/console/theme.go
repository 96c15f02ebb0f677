package console

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ehr/patientdesk/internal/domain/patient"
)

var (
	// Core palette
	Teal     = lipgloss.Color("#00B3A4")
	DarkTeal = lipgloss.Color("#00756B")
	Amber    = lipgloss.Color("#FFB000")
	Red      = lipgloss.Color("#FF5F56")
	Green    = lipgloss.Color("#27C93F")
	Gray     = lipgloss.Color("#8A8A8A")
)

// theme holds styles bound to the renderer of one output stream, so colour
// is only emitted when that stream is a terminal.
type theme struct {
	renderer *lipgloss.Renderer

	Title   lipgloss.Style
	Option  lipgloss.Style
	Prompt  lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Header  lipgloss.Style
	Cell    lipgloss.Style
}

func newTheme(out io.Writer) theme {
	r := lipgloss.NewRenderer(out)
	return theme{
		renderer: r,
		Title:    r.NewStyle().Foreground(Teal).Bold(true),
		Option:   r.NewStyle().PaddingLeft(1),
		Prompt:   r.NewStyle().Foreground(Amber).Bold(true),
		Label:    r.NewStyle().Foreground(DarkTeal).Bold(true).Width(11),
		Value:    r.NewStyle(),
		Success:  r.NewStyle().Foreground(Green),
		Warning:  r.NewStyle().Foreground(Amber),
		Error:    r.NewStyle().Foreground(Red),
		Muted:    r.NewStyle().Foreground(Gray),
		Header:   r.NewStyle().Foreground(Teal).Bold(true).Padding(0, 1),
		Cell:     r.NewStyle().Padding(0, 1),
	}
}

// patientTable renders records with the given columns.
func (t theme) patientTable(headers []string, rows [][]string) string {
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(t.renderer.NewStyle().Foreground(DarkTeal)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return t.Header
			}
			return t.Cell
		})
	return tbl.String()
}

func (t theme) detail(label, value string) string {
	return t.Label.Render(label) + ": " + t.Value.Render(value)
}

func displayDiagnosis(p patient.Patient) string {
	if !p.IsDiagnosed() {
		return "-"
	}
	return p.Diagnosis
}

// PrintPatients writes a summary table, or a notice when records is empty.
func PrintPatients(out io.Writer, records []patient.Patient) {
	t := newTheme(out)
	if len(records) == 0 {
		fmt.Fprintln(out, t.Warning.Render("No patient data available."))
		return
	}
	rows := make([][]string, 0, len(records))
	for _, p := range records {
		rows = append(rows, []string{strconv.Itoa(p.ID), p.Name, strconv.Itoa(p.Age), p.BloodType, displayDiagnosis(p)})
	}
	fmt.Fprintln(out, t.patientTable([]string{"ID", "Name", "Age", "Blood", "Diagnosis"}, rows))
}

// PrintPatient writes every field of p.
func PrintPatient(out io.Writer, p patient.Patient) {
	t := newTheme(out)
	fmt.Fprintln(out, t.Title.Render(fmt.Sprintf("Complete Patient Data (ID %d):", p.ID)))
	for _, line := range t.details(p) {
		fmt.Fprintln(out, line)
	}
}

func (t theme) details(p patient.Patient) []string {
	return []string{
		t.detail("Name", p.Name),
		t.detail("Age", strconv.Itoa(p.Age)),
		t.detail("Gender", string(p.Gender)),
		t.detail("Blood Type", p.BloodType),
		t.detail("Phone", p.Phone),
		t.detail("CNIC", p.NationalID),
		t.detail("Address", p.Address),
		t.detail("Diagnosis", displayDiagnosis(p)),
	}
}
