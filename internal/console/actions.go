package console

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/ehr/patientdesk/internal/domain/patient"
)

func (c *Console) addPatient(ctx context.Context) error {
	if c.svc.IsFull() {
		c.warnf("Patient capacity is full.")
		return nil
	}

	var p patient.Patient
	for {
		id, err := c.askInt("Enter patient ID: ")
		if err != nil {
			return err
		}
		if !c.svc.Exists(id) {
			p.ID = id
			break
		}
		c.warnf("ID is already registered. Please enter a different ID.")
	}

	var err error
	if p.Name, err = c.askName(); err != nil {
		return err
	}
	if p.Age, err = c.askAge(); err != nil {
		return err
	}
	if p.Gender, err = c.askGender(); err != nil {
		return err
	}
	if p.BloodType, err = c.askBloodType(); err != nil {
		return err
	}
	if p.Phone, err = c.ask("Enter phone number: "); err != nil {
		return err
	}
	if p.NationalID, err = c.ask("Enter CNIC: "); err != nil {
		return err
	}
	if p.Address, err = c.ask("Enter address: "); err != nil {
		return err
	}

	if err := c.svc.AddPatient(ctx, p); err != nil {
		if c.reportSaveError(err) {
			return nil
		}
		c.errorf("Could not add patient: %v", err)
		return nil
	}
	c.successf("Patient successfully added.")
	return nil
}

func (c *Console) diagnosePatient(ctx context.Context) error {
	if !c.requirePatients() {
		return nil
	}

	id, err := c.askInt("Enter patient ID to diagnose: ")
	if err != nil {
		return err
	}
	p, err := c.svc.GetPatient(id)
	if err != nil {
		c.warnf("Patient with that ID not found.")
		return nil
	}
	if p.IsDiagnosed() {
		c.errorf("Error: Patient already has a diagnosis. Please update the diagnosis through the Update Patient feature.")
		return nil
	}

	text, err := c.ask(fmt.Sprintf("Enter diagnosis for patient (ID %d): ", id))
	if err != nil {
		return err
	}
	if err := c.svc.DiagnosePatient(ctx, id, text); err != nil {
		switch {
		case c.reportSaveError(err):
		case errors.Is(err, patient.ErrAlreadyDiagnosed):
			c.errorf("Error: Patient already has a diagnosis. Please update the diagnosis through the Update Patient feature.")
		default:
			c.errorf("Could not save diagnosis: %v", err)
		}
		return nil
	}
	c.successf("Diagnosis saved successfully.")
	return nil
}

func (c *Console) showAllPatients() error {
	if !c.requirePatients() {
		return nil
	}

	fmt.Fprintln(c.out, c.theme.Title.Render("Display All Patients - Sort by:"))
	fmt.Fprintln(c.out, c.theme.Option.Render("1. ID"))
	fmt.Fprintln(c.out, c.theme.Option.Render("2. Name"))
	sortChoice, err := c.ask("Enter choice (1-2): ")
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, c.theme.Title.Render("Order:"))
	fmt.Fprintln(c.out, c.theme.Option.Render("1. Ascending"))
	fmt.Fprintln(c.out, c.theme.Option.Render("2. Descending"))
	orderChoice, err := c.ask("Enter choice (1-2): ")
	if err != nil {
		return err
	}

	ascending := orderChoice == "1"
	var key patient.SortKey
	switch sortChoice {
	case "1":
		key = patient.SortByIDKey
	case "2":
		key = patient.SortByNameKey
	default:
		c.warnf("Invalid choice. Defaulting to sort by ID ascending.")
		key, ascending = patient.SortByIDKey, true
	}

	records := c.svc.ListPatients(key, ascending)
	rows := make([][]string, 0, len(records))
	for _, p := range records {
		rows = append(rows, []string{strconv.Itoa(p.ID), p.Name})
	}
	fmt.Fprintln(c.out, c.theme.Title.Render("List of All Patients:"))
	fmt.Fprintln(c.out, c.theme.patientTable([]string{"ID", "Name"}, rows))
	return nil
}

func (c *Console) showPatient() error {
	if !c.requirePatients() {
		return nil
	}

	id, err := c.askInt("Enter patient ID to view complete data: ")
	if err != nil {
		return err
	}
	p, err := c.svc.GetPatient(id)
	if err != nil {
		c.warnf("Patient with that ID not found.")
		return nil
	}

	fmt.Fprintln(c.out, c.theme.Title.Render(fmt.Sprintf("Complete Patient Data (ID %d):", p.ID)))
	c.printPatient(p)
	return nil
}

func (c *Console) printPatient(p patient.Patient) {
	for _, line := range c.theme.details(p) {
		fmt.Fprintln(c.out, line)
	}
}

func (c *Console) countByDiagnosis() error {
	if !c.requirePatients() {
		return nil
	}

	text, err := c.ask("Enter diagnosis to count patients: ")
	if err != nil {
		return err
	}
	n := c.svc.CountByDiagnosis(text)
	fmt.Fprintf(c.out, "Number of patients with diagnosis %q: %d\n", text, n)
	return nil
}

func (c *Console) searchByBloodType() error {
	if !c.requirePatients() {
		return nil
	}

	blood, err := c.ask("Enter blood type to search patients: ")
	if err != nil {
		return err
	}
	matches := c.svc.FindByBloodType(blood)
	fmt.Fprintln(c.out, c.theme.Title.Render(fmt.Sprintf("Patients with blood type %q:", blood)))
	if len(matches) == 0 {
		c.warnf("No patients found with blood type %q.", blood)
		return nil
	}

	rows := make([][]string, 0, len(matches))
	for _, p := range matches {
		rows = append(rows, []string{strconv.Itoa(p.ID), p.Name, strconv.Itoa(p.Age)})
	}
	fmt.Fprintln(c.out, c.theme.patientTable([]string{"ID", "Name", "Age"}, rows))
	return nil
}

func (c *Console) deletePatient(ctx context.Context) error {
	if !c.requirePatients() {
		return nil
	}

	id, err := c.askInt("Enter patient ID to delete: ")
	if err != nil {
		return err
	}
	if err := c.svc.DeletePatient(ctx, id); err != nil {
		switch {
		case c.reportSaveError(err):
		case errors.Is(err, patient.ErrNotFound):
			c.warnf("Patient with that ID not found.")
		default:
			c.errorf("Could not delete patient: %v", err)
		}
		return nil
	}
	c.successf("Patient data successfully deleted.")
	return nil
}

func (c *Console) updatePatient(ctx context.Context) error {
	if !c.requirePatients() {
		return nil
	}

	id, err := c.askInt("Enter patient ID to update data: ")
	if err != nil {
		return err
	}
	p, err := c.svc.GetPatient(id)
	if err != nil {
		c.warnf("Patient with that ID not found.")
		return nil
	}

	fmt.Fprintln(c.out, c.theme.Title.Render(fmt.Sprintf("Old patient data (ID %d):", p.ID)))
	c.printPatient(p)
	fmt.Fprintln(c.out, c.theme.Muted.Render("Enter new data (leave blank if no change):"))

	var u patient.PatientUpdate
	if u.Name, err = c.ask("New name: "); err != nil {
		return err
	}
	if u.Age, err = c.askUntil("New age: ", "Invalid age. Please try again.", func(s string) bool {
		if s == "" {
			return true
		}
		_, ok := patient.IsValidInteger(s)
		return ok
	}); err != nil {
		return err
	}
	if u.Gender, err = c.ask("New gender: "); err != nil {
		return err
	}
	if u.BloodType, err = c.ask("New blood type: "); err != nil {
		return err
	}
	if u.Phone, err = c.ask("New phone number: "); err != nil {
		return err
	}
	if u.NationalID, err = c.ask("New CNIC: "); err != nil {
		return err
	}
	if u.Address, err = c.ask("New address: "); err != nil {
		return err
	}
	if u.Diagnosis, err = c.ask("New diagnosis: "); err != nil {
		return err
	}

	if err := c.svc.UpdatePatient(ctx, id, u); err != nil {
		if c.reportSaveError(err) {
			return nil
		}
		c.errorf("Could not update patient: %v", err)
		return nil
	}
	c.successf("Patient data successfully updated.")
	return nil
}
