package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ehr/patientdesk/internal/config"
	"github.com/ehr/patientdesk/internal/console"
	"github.com/ehr/patientdesk/internal/domain/patient"
	"github.com/ehr/patientdesk/internal/platform/audit"
	"github.com/ehr/patientdesk/internal/platform/export"
	"github.com/ehr/patientdesk/internal/platform/flatfile"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "patientdesk",
		Short:        "Patient records manager",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(cmd)
		},
	}
	rootCmd.PersistentFlags().String("data", "", "Path to the patient data file (overrides PATIENTDESK_DATA_FILE)")

	rootCmd.AddCommand(menuCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(diagnoseCmd())
	rootCmd.AddCommand(updateCmd())
	rootCmd.AddCommand(deleteCmd())
	rootCmd.AddCommand(countDiagnosisCmd())
	rootCmd.AddCommand(bloodCmd())
	rootCmd.AddCommand(exportCmd())
	return rootCmd
}

// app is the wiring shared by every command.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger
	svc    *patient.Service
	closer io.Closer
}

func (a *app) Close() {
	if a.closer != nil {
		a.closer.Close()
	}
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if path, _ := cmd.Flags().GetString("data"); path != "" {
		cfg.DataFile = path
	}

	// Logger
	var logOut io.Writer = os.Stderr
	var closer io.Closer
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		logOut, closer = f, f
	}
	logger := zerolog.New(logOut).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: logOut}).With().Timestamp().Logger()
	}
	sessionID := audit.NewSessionID()
	logger = logger.Level(cfg.Level()).With().Str("session_id", sessionID).Logger()

	repo := flatfile.NewRepository(flatfile.Options{
		Path:   cfg.DataFile,
		Strict: cfg.StrictLoad,
		Logger: logger,
	})
	svc := patient.NewService(patient.NewStore(), repo, audit.NewLogRecorder(logger, sessionID), logger)

	report, err := svc.Open(ctxOf(cmd))
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, fmt.Errorf("load %s: %w", repo.Path(), err)
	}
	if report.Skipped > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: skipped %d malformed line(s) in %s\n", report.Skipped, repo.Path())
	}
	if report.Truncated {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s holds more than %d patients; the rest were not loaded\n", repo.Path(), patient.Capacity)
	}

	return &app{cfg: cfg, logger: logger, svc: svc, closer: closer}, nil
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func runMenu(cmd *cobra.Command) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	return console.New(a.svc, cmd.InOrStdin(), cmd.OutOrStdout(), a.logger).Run(ctxOf(cmd))
}

func menuCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Start the interactive menu",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(cmd)
		},
	}
}

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all patients",
		RunE: func(cmd *cobra.Command, args []string) error {
			sortBy, _ := cmd.Flags().GetString("sort")
			desc, _ := cmd.Flags().GetBool("desc")

			key, ok := patient.ParseSortKey(sortBy)
			if !ok {
				return fmt.Errorf("--sort must be \"id\" or \"name\", got %q", sortBy)
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			console.PrintPatients(cmd.OutOrStdout(), a.svc.ListPatients(key, !desc))
			return nil
		},
	}
	cmd.Flags().String("sort", "id", "Sort key: id or name")
	cmd.Flags().Bool("desc", false, "Sort in descending order")
	return cmd
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show the complete data of one patient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			p, err := a.svc.GetPatient(id)
			if err != nil {
				return err
			}
			console.PrintPatient(cmd.OutOrStdout(), p)
			return nil
		},
	}
}

func addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a new patient",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			id, _ := f.GetInt("id")
			name, _ := f.GetString("name")
			age, _ := f.GetInt("age")
			gender, _ := f.GetString("gender")
			blood, _ := f.GetString("blood")
			phone, _ := f.GetString("phone")
			nationalID, _ := f.GetString("national-id")
			address, _ := f.GetString("address")

			p := patient.Patient{
				ID:         id,
				Name:       name,
				Age:        age,
				Gender:     patient.Gender(gender),
				BloodType:  blood,
				Phone:      phone,
				NationalID: nationalID,
				Address:    address,
			}
			if err := patient.Validate(p); err != nil {
				return err
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.svc.AddPatient(ctxOf(cmd), p); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Patient successfully added.")
			return nil
		},
	}
	cmd.Flags().Int("id", 0, "Patient ID")
	cmd.Flags().String("name", "", "Patient name")
	cmd.Flags().Int("age", 0, "Patient age")
	cmd.Flags().String("gender", "", "Gender: Male, Female or ?")
	cmd.Flags().String("blood", "", "Blood type (1-3 characters)")
	cmd.Flags().String("phone", "", "Phone number")
	cmd.Flags().String("national-id", "", "National identity number (CNIC)")
	cmd.Flags().String("address", "", "Address")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("age")
	_ = cmd.MarkFlagRequired("gender")
	_ = cmd.MarkFlagRequired("blood")
	return cmd
}

func diagnoseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diagnose <id> <diagnosis>",
		Short: "Record the first diagnosis of a patient",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.svc.DiagnosePatient(ctxOf(cmd), id, args[1]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Diagnosis saved successfully.")
			return nil
		},
	}
}

func updateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change any field of a patient; omitted fields are kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			f := cmd.Flags()
			var u patient.PatientUpdate
			u.Name, _ = f.GetString("name")
			u.Age, _ = f.GetString("age")
			u.Gender, _ = f.GetString("gender")
			u.BloodType, _ = f.GetString("blood")
			u.Phone, _ = f.GetString("phone")
			u.NationalID, _ = f.GetString("national-id")
			u.Address, _ = f.GetString("address")
			u.Diagnosis, _ = f.GetString("diagnosis")

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.svc.UpdatePatient(ctxOf(cmd), id, u); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Patient data successfully updated.")
			return nil
		},
	}
	cmd.Flags().String("name", "", "New name")
	cmd.Flags().String("age", "", "New age")
	cmd.Flags().String("gender", "", "New gender")
	cmd.Flags().String("blood", "", "New blood type")
	cmd.Flags().String("phone", "", "New phone number")
	cmd.Flags().String("national-id", "", "New national identity number")
	cmd.Flags().String("address", "", "New address")
	cmd.Flags().String("diagnosis", "", "New diagnosis")
	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a patient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.svc.DeletePatient(ctxOf(cmd), id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Patient data successfully deleted.")
			return nil
		},
	}
}

func countDiagnosisCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count-diagnosis <diagnosis>",
		Short: "Count patients with exactly this diagnosis (\"\" counts undiagnosed)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "Number of patients with diagnosis %q: %d\n", args[0], a.svc.CountByDiagnosis(args[0]))
			return nil
		},
	}
}

func bloodCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "blood <type>",
		Short: "List patients with exactly this blood type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			console.PrintPatients(cmd.OutOrStdout(), a.svc.FindByBloodType(args[0]))
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all patients to an xlsx workbook or a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			formatName, _ := cmd.Flags().GetString("format")
			out, _ := cmd.Flags().GetString("out")

			format, err := export.ParseFormat(formatName)
			if err != nil {
				return err
			}
			if out == "" {
				out = "patients." + string(format)
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			records := a.svc.Patients()
			if err := export.Write(f, format, records); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %s: %w", out, err)
			}

			a.logger.Info().Str("format", string(format)).Str("path", out).Int("count", len(records)).Msg("patients exported")
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d patient(s) to %s\n", len(records), out)
			return nil
		},
	}
	cmd.Flags().String("format", "xlsx", "Export format: xlsx or yaml")
	cmd.Flags().String("out", "", "Output file (default patients.<format>)")
	return cmd
}

func parseID(s string) (int, error) {
	id, ok := patient.IsValidInteger(s)
	if !ok {
		return 0, fmt.Errorf("%w: patient id %q must be a non-negative number", patient.ErrInvalidInput, s)
	}
	return id, nil
}
