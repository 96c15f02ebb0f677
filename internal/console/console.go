// Package console is the interactive text menu. It reads answers line by line
// from any io.Reader, re-prompts until the field validators accept the
// input, and delegates every operation to patient.Service.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ehr/patientdesk/internal/domain/patient"
)

// errInputClosed ends the session when the input stream is exhausted.
var errInputClosed = errors.New("input closed")

// Console drives the menus for one session.
type Console struct {
	svc    *patient.Service
	in     *bufio.Reader
	out    io.Writer
	theme  theme
	logger zerolog.Logger
}

func New(svc *patient.Service, in io.Reader, out io.Writer, logger zerolog.Logger) *Console {
	return &Console{
		svc:    svc,
		in:     bufio.NewReader(in),
		out:    out,
		theme:  newTheme(out),
		logger: logger.With().Str("component", "console").Logger(),
	}
}

// Run shows the main menu until the user picks Save & Exit or input ends.
// Both paths save the collection; the save error, if any, is returned.
func (c *Console) Run(ctx context.Context) error {
	err := c.mainMenu(ctx)
	if err != nil && !errors.Is(err, errInputClosed) {
		return err
	}
	if errors.Is(err, errInputClosed) {
		c.logger.Debug().Msg("input closed, saving before exit")
	}

	if err := c.svc.Save(ctx); err != nil {
		c.errorf("Failed to save data to file.")
		return err
	}
	c.successf("Patient data has been saved. Program End")
	return nil
}

func (c *Console) mainMenu(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		choice, err := c.menu("PATIENT MANAGEMENT MENU", []string{
			"Add New Patient",
			"Data Patient",
			"Modify Patient Data",
			"Save & Exit",
		})
		if err != nil {
			return err
		}

		switch choice {
		case 1:
			err = c.addPatient(ctx)
		case 2:
			err = c.dataMenu(ctx)
		case 3:
			err = c.modifyMenu(ctx)
		case 4:
			return nil
		default:
			c.warnf("Invalid choice. Please try again.")
		}
		if err != nil {
			return err
		}
	}
}

func (c *Console) dataMenu(ctx context.Context) error {
	for {
		choice, err := c.menu("DATA PATIENT MENU", []string{
			"Diagnose Patient",
			"Display All Patients",
			"Show Patient Data",
			"Count Patients by Diagnosis",
			"Search Patients by Blood Type",
			"Back to Main Menu",
		})
		if err != nil {
			return err
		}

		switch choice {
		case 1:
			err = c.diagnosePatient(ctx)
		case 2:
			err = c.showAllPatients()
		case 3:
			err = c.showPatient()
		case 4:
			err = c.countByDiagnosis()
		case 5:
			err = c.searchByBloodType()
		case 6:
			return nil
		default:
			c.warnf("Invalid choice. Please try again.")
		}
		if err != nil {
			return err
		}
	}
}

func (c *Console) modifyMenu(ctx context.Context) error {
	for {
		choice, err := c.menu("MODIFY PATIENT DATA MENU", []string{
			"Update Patient",
			"Delete Patient",
			"Back to Main Menu",
		})
		if err != nil {
			return err
		}

		switch choice {
		case 1:
			err = c.updatePatient(ctx)
		case 2:
			err = c.deletePatient(ctx)
		case 3:
			return nil
		default:
			c.warnf("Invalid choice.")
		}
		if err != nil {
			return err
		}
	}
}

// menu prints numbered options and returns the selection, or -1 when the
// answer is not a number.
func (c *Console) menu(title string, options []string) (int, error) {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, c.theme.Title.Render("========== "+title+" =========="))
	for i, opt := range options {
		fmt.Fprintln(c.out, c.theme.Option.Render(fmt.Sprintf("%d. %s", i+1, opt)))
	}
	line, err := c.ask(fmt.Sprintf("Your choice (1-%d): ", len(options)))
	if err != nil {
		return 0, err
	}
	n, convErr := strconv.Atoi(strings.TrimSpace(line))
	if convErr != nil {
		return -1, nil
	}
	return n, nil
}

// -- input helpers --

// ask prints prompt and returns the next line without its line ending.
func (c *Console) ask(prompt string) (string, error) {
	fmt.Fprint(c.out, c.theme.Prompt.Render(prompt))
	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(c.out)
			return "", errInputClosed
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// askUntil repeats prompt until accept returns true.
func (c *Console) askUntil(prompt, invalid string, accept func(string) bool) (string, error) {
	for {
		line, err := c.ask(prompt)
		if err != nil {
			return "", err
		}
		if accept(line) {
			return line, nil
		}
		c.warnf("%s", invalid)
	}
}

func (c *Console) askInt(prompt string) (int, error) {
	var v int
	_, err := c.askUntil(prompt, "Invalid input. Please enter a valid number.", func(s string) bool {
		n, ok := patient.IsValidInteger(s)
		v = n
		return ok
	})
	return v, err
}

func (c *Console) askName() (string, error) {
	return c.askUntil("Enter name: ", "Invalid name. Please try again.", patient.IsValidName)
}

func (c *Console) askAge() (int, error) {
	var age int
	_, err := c.askUntil("Enter age: ", "Invalid age. Please try again.", func(s string) bool {
		n, ok := patient.IsValidAge(s)
		age = n
		return ok
	})
	return age, err
}

func (c *Console) askGender() (patient.Gender, error) {
	s, err := c.askUntil("Enter gender (Male, Female, ?): ", "Invalid gender. Please try again.", patient.IsValidGender)
	return patient.Gender(s), err
}

func (c *Console) askBloodType() (string, error) {
	return c.askUntil("Enter blood type: ", "Invalid blood type. Please try again.", patient.IsValidBloodType)
}

// -- output helpers --

func (c *Console) successf(format string, args ...any) {
	fmt.Fprintln(c.out, c.theme.Success.Render(fmt.Sprintf(format, args...)))
}

func (c *Console) warnf(format string, args ...any) {
	fmt.Fprintln(c.out, c.theme.Warning.Render(fmt.Sprintf(format, args...)))
}

func (c *Console) errorf(format string, args ...any) {
	fmt.Fprintln(c.out, c.theme.Error.Render(fmt.Sprintf(format, args...)))
}

// reportSaveError tells the user a change was kept in memory but not written.
func (c *Console) reportSaveError(err error) bool {
	if !errors.Is(err, patient.ErrWriteFailed) {
		return false
	}
	c.errorf("Failed to save data to file. The change is kept in memory only.")
	return true
}

func (c *Console) requirePatients() bool {
	if c.svc.Count() == 0 {
		c.warnf("No patient data available.")
		return false
	}
	return true
}
