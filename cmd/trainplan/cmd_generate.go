package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/claude/trainplan/internal/models"
	"github.com/claude/trainplan/internal/program"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	profileFlags models.ProfileInput
	outputFormat string
	saveProgram  bool

	batchConcurrency int
)

// generateCmd generates one program from profile flags
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a program from a training profile",
	Example: `  trainplan generate --level beginner --days 3 --duration medium --equipment dumbbells,bodyweight
  trainplan generate --level intermediate --days 4 --duration long --target chest,glutes --exclude shoulders -o text`,
	RunE: runGenerate,
}

// batchCmd generates programs for every profile in a YAML file
var batchCmd = &cobra.Command{
	Use:   "batch <profiles.yaml>",
	Short: "Generate programs for a file of profiles concurrently",
	Long: `Generate programs for a YAML file of the form

  profiles:
    - experience_level: beginner
      training_days_per_week: 3
      session_duration: medium
      equipment_available: [dumbbells, bodyweight]

Programs are written as a JSON array in input order.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	generateCmd.Flags().StringVarP(&profileFlags.ExperienceLevel, "level", "l", "", "Experience level: none, beginner, intermediate, advanced (required)")
	generateCmd.Flags().IntVarP(&profileFlags.TrainingDaysPerWeek, "days", "d", 0, "Training days per week, 1-7 (required)")
	generateCmd.Flags().StringVar(&profileFlags.SessionDuration, "duration", "medium", "Session duration: short, medium, long")
	generateCmd.Flags().StringSliceVarP(&profileFlags.EquipmentAvailable, "equipment", "e", nil, "Available equipment (default: all)")
	generateCmd.Flags().StringSliceVarP(&profileFlags.TargetMuscleGroups, "target", "t", nil, "Priority muscle groups, at most 3")
	generateCmd.Flags().StringSliceVarP(&profileFlags.ExcludedMuscleGroups, "exclude", "x", nil, "Muscle groups to avoid")
	generateCmd.Flags().StringSliceVar(&profileFlags.EquipmentDetail, "detail", nil, "Specific equipment items, e.g. \"adjustable bench\"")
	generateCmd.Flags().StringSliceVar(&profileFlags.Attachments, "attachment", nil, "Cable attachments on hand, e.g. rope,straight_bar")
	generateCmd.Flags().StringVarP(&outputFormat, "output", "o", "json", "Output format: json or text")
	generateCmd.Flags().BoolVar(&saveProgram, "save", false, "Store the program in the configured database")
	generateCmd.MarkFlagRequired("level")
	generateCmd.MarkFlagRequired("days")

	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", program.DefaultBatchConcurrency, "Profiles generated in parallel")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	profile, err := models.NewProfile(profileFlags)
	if err != nil {
		return err
	}
	if outputFormat != "json" && outputFormat != "text" {
		return fmt.Errorf("unknown output format %q", outputFormat)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	b, err := openBackend(ctx)
	if err != nil {
		return err
	}
	defer b.close()
	if saveProgram && b.db == nil {
		return fmt.Errorf("--save needs a config with the postgres catalog driver")
	}

	prog, err := program.NewGenerator(b.store, logger).Generate(ctx, profile)
	if err != nil {
		return err
	}

	if saveProgram {
		stored, err := b.db.SaveProgram(ctx, profile, prog)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "saved program", stored.ID)
	}

	if outputFormat == "text" {
		return writeProgramText(cmd.OutOrStdout(), prog)
	}
	return writeJSON(cmd.OutOrStdout(), prog)
}

// writeProgramText renders a program as one table per day.
func writeProgramText(w io.Writer, prog *models.Program) error {
	fmt.Fprintf(w, "%s, %d days/week, %s sessions, %d weeks\n",
		prog.Archetype, prog.TrainingDaysPerWeek, prog.SessionDuration, prog.TotalWeeks)

	for i, day := range prog.Days {
		fmt.Fprintf(w, "\nDay %d: %s (fill %.0f%%)\n", i+1, day.Name, day.FillRate*100)
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "EXERCISE\tMUSCLE\tSETS\tREPS\tREST")
		for _, e := range day.Exercises {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%ds\n", e.ExerciseName, e.PrimaryMuscle, e.Sets, e.RepRange(), e.RestSeconds)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(prog.Warnings) > 0 {
		fmt.Fprintln(w, "\nWarnings:")
		for _, warn := range program.Unique(prog.Warnings) {
			if warn.Occurrences > 1 {
				fmt.Fprintf(w, "  - %s (x%d)\n", warn.Message, warn.Occurrences)
				continue
			}
			fmt.Fprintf(w, "  - %s\n", warn.Message)
		}
	}
	if prog.LowFill {
		fmt.Fprintln(w, "\nSome days are well below their planned volume; consider adding equipment.")
	}
	return nil
}

type batchFile struct {
	Profiles []models.ProfileInput `yaml:"profiles"`
}

func runBatch(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading profiles: %w", err)
	}
	var bf batchFile
	if err := yaml.Unmarshal(data, &bf); err != nil {
		return fmt.Errorf("parsing profiles: %w", err)
	}

	profiles := make([]models.Profile, len(bf.Profiles))
	var bad []string
	for i, in := range bf.Profiles {
		p, err := models.NewProfile(in)
		if err != nil {
			bad = append(bad, fmt.Sprintf("profile %d: %v", i+1, err))
			continue
		}
		profiles[i] = p
	}
	if len(bad) > 0 {
		return fmt.Errorf("invalid profiles:\n  %s", strings.Join(bad, "\n  "))
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	b, err := openBackend(ctx)
	if err != nil {
		return err
	}
	defer b.close()

	programs, err := program.NewGenerator(b.store, logger).GenerateBatch(ctx, profiles, batchConcurrency)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), programs)
}
