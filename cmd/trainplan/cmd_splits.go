package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/claude/trainplan/internal/models"
	"github.com/claude/trainplan/internal/program"
	"github.com/spf13/cobra"
)

var (
	splitDays     int
	splitDuration string
	splitJSON     bool
)

// splitsCmd prints the split table
var splitsCmd = &cobra.Command{
	Use:   "splits",
	Short: "Show the weekly split templates",
	Long: `Show the archetype and day templates used for each training frequency.
With --days only that entry is shown; days outside the table resolve to
the nearest lower entry.`,
	RunE: runSplits,
}

func init() {
	splitsCmd.Flags().IntVarP(&splitDays, "days", "d", 0, "Training days per week (default: every table entry)")
	splitsCmd.Flags().StringVar(&splitDuration, "duration", "medium", "Session duration: short, medium, long")
	splitsCmd.Flags().BoolVar(&splitJSON, "json", false, "Print JSON")
}

func runSplits(cmd *cobra.Command, args []string) error {
	duration, err := models.ParseSessionDuration(splitDuration)
	if err != nil {
		return err
	}

	var planner program.TablePlanner
	days := program.TableDays()
	if splitDays != 0 {
		days = []int{splitDays}
	}
	plans := make([]program.SplitPlan, 0, len(days))
	for _, d := range days {
		plans = append(plans, planner.Plan(d, duration))
	}

	if splitJSON {
		return writeJSON(cmd.OutOrStdout(), plans)
	}
	for _, p := range plans {
		writeSplit(cmd.OutOrStdout(), p)
	}
	return nil
}

func writeSplit(w io.Writer, p program.SplitPlan) {
	fmt.Fprintf(w, "%d days, %s: %s\n", p.Days, p.Duration, p.Archetype)
	for _, t := range p.Templates {
		slots := make([]string, len(t.Slots))
		for i, s := range t.Slots {
			slots[i] = fmt.Sprintf("%s x%d", s.Muscle, s.Count)
		}
		fmt.Fprintf(w, "  %-10s %s\n", t.Name, strings.Join(slots, ", "))
	}
}
