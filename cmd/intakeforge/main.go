package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrsinham/intakeforge/cmd/intakeforge/wizard"
	"github.com/mrsinham/intakeforge/internal/analysis"
	"github.com/mrsinham/intakeforge/internal/config"
	"github.com/mrsinham/intakeforge/internal/draft"
	"github.com/mrsinham/intakeforge/internal/imaging"
	"github.com/mrsinham/intakeforge/internal/intake"
	"github.com/mrsinham/intakeforge/internal/logging"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "intakeforge",
		Short:         "Guided medical symptom intake and analysis",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(wizardCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(submitCmd())
	rootCmd.AddCommand(sampleCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func wizardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wizard",
		Short: "Start the interactive intake wizard",
		RunE: func(cmd *cobra.Command, args []string) error {
			fromDraft, _ := cmd.Flags().GetString("from")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log, closeLog, err := logging.New(cfg)
			if err != nil {
				return err
			}
			defer closeLog()

			return wizard.Run(cfg, log, fromDraft)
		},
	}
	cmd.Flags().String("from", "", "Resume from a YAML draft file")
	return cmd
}

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <draft.yaml>",
		Short: "Validate a draft without submitting it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			imageOverride, _ := cmd.Flags().GetString("image")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			rec, err := recordFromDraft(cfg, args[0], imageOverride)
			if err != nil {
				return err
			}

			res := intake.ValidateAll(rec)
			if !res.Valid {
				printFieldErrors(res.Errors)
				os.Exit(1)
			}

			fmt.Println("Draft is valid.")
			return nil
		},
	}
	cmd.Flags().String("image", "", "Attach this image file instead of the one referenced by the draft")
	return cmd
}

func submitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit <draft.yaml>",
		Short: "Submit a draft for analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			imageOverride, _ := cmd.Flags().GetString("image")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log, closeLog, err := logging.New(cfg)
			if err != nil {
				return err
			}
			defer closeLog()

			rec, err := recordFromDraft(cfg, args[0], imageOverride)
			if err != nil {
				return err
			}

			client := analysis.NewClient(cfg.AnalysisURL, cfg.AnalysisTimeout, cfg.AnalysisRetries, log)
			ctrl := intake.NewController(client, log)
			ctrl.Load(rec)

			// Walk the session forward so every step's validation runs
			// exactly as it would interactively.
			for ctrl.Step() != intake.StepReview {
				if err := ctrl.Next(); err != nil {
					fmt.Fprintf(os.Stderr, "Step %q rejected:\n", ctrl.Step())
					printFieldErrors(ctrl.StepErrors())
					os.Exit(1)
				}
			}

			ctx, cancel := context.WithTimeout(context.Background(), cfg.AnalysisTimeout+10*time.Second)
			defer cancel()

			outcome, err := ctrl.Submit(ctx)
			if err != nil {
				if verr, ok := err.(*intake.ValidationError); ok {
					printFieldErrors(verr.Fields)
					os.Exit(1)
				}
				return err
			}

			printOutcome(outcome)
			return nil
		},
	}
	cmd.Flags().String("image", "", "Attach this image file instead of the one referenced by the draft")
	return cmd
}

func sampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write a filled-in example draft",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("output")

			rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
			rec := intake.SampleRecord(rng)

			d := draft.FromRecord(rec, "")
			if err := draft.Save(d, out); err != nil {
				return err
			}

			fmt.Printf("Sample draft written to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "sample-draft.yaml", "Output path for the draft")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("intakeforge %s\n", version)
		},
	}
}

// recordFromDraft loads a draft and resolves its image reference into an
// in-memory attachment.
func recordFromDraft(cfg *config.Config, draftPath, imageOverride string) (*intake.Record, error) {
	d, err := draft.Load(draftPath)
	if err != nil {
		return nil, fmt.Errorf("loading draft: %w", err)
	}

	rec, imgPath := d.ToRecord()
	if imageOverride != "" {
		imgPath = imageOverride
	}
	if imgPath != "" {
		maxBytes, err := cfg.MaxImageBytes()
		if err != nil {
			return nil, err
		}
		data, contentType, err := imaging.ReadFile(imgPath, maxBytes)
		if err != nil {
			return nil, fmt.Errorf("loading image: %w", err)
		}
		rec.Image = &intake.ImageAttachment{
			Filename:    filepath.Base(imgPath),
			ContentType: contentType,
			Data:        data,
		}
	}

	return rec, nil
}

func printFieldErrors(fields map[string][]string) {
	paths := make([]string, 0, len(fields))
	for p := range fields {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		for _, msg := range fields[p] {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", p, msg)
		}
	}
}

func printOutcome(outcome any) {
	report, ok := outcome.(*analysis.Report)
	if !ok {
		fmt.Printf("%v\n", outcome)
		return
	}

	fmt.Println("Analysis complete.")
	fmt.Println()
	fmt.Printf("Summary: %s\n", report.Summary)
	if len(report.Recommendations) > 0 {
		fmt.Println("Recommendations:")
		for _, r := range report.Recommendations {
			fmt.Printf("  - %s\n", r)
		}
	}
	fmt.Println()
	fmt.Println("This is not a medical diagnosis. Consult a healthcare professional.")
}
