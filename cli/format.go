package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"fluxwell/models"
	"fluxwell/orchestrator"
	"fluxwell/utils"

	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
	headerColor  = color.New(color.FgBlue, color.Bold)
	dimColor     = color.New(color.FgHiBlack)
)

// PrintSuccess prints a success message with a checkmark
func PrintSuccess(msg string) {
	_, _ = successColor.Printf("✓ %s\n", msg)
}

// PrintWarning prints a warning message with a warning symbol
func PrintWarning(msg string) {
	_, _ = warningColor.Printf("⚠ %s\n", msg)
}

// PrintError prints an error message to stderr
func PrintError(msg string) {
	_, _ = errorColor.Fprintf(os.Stderr, "✗ %s\n", msg)
}

// PrintInfo prints an informational line
func PrintInfo(msg string) {
	_, _ = infoColor.Printf("%s\n", msg)
}

// printNotification renders an orchestrator notification as a one-line toast.
func printNotification(n orchestrator.Notification) {
	msg := n.Message
	if n.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, n.Err)
	}
	switch n.Level {
	case orchestrator.LevelError:
		PrintError(msg)
	case orchestrator.LevelWarning:
		PrintWarning(msg)
	default:
		PrintSuccess(msg)
	}
}

func formatExercise(ex models.PlanExercise) string {
	parts := []string{fmt.Sprintf("%d x %s", ex.Sets, ex.Reps)}
	if ex.DurationSeconds != nil {
		parts = append(parts, fmt.Sprintf("%ds", *ex.DurationSeconds))
	}
	if ex.RestSeconds != nil {
		parts = append(parts, fmt.Sprintf("rest %ds", *ex.RestSeconds))
	}
	return fmt.Sprintf("%s (%s)", ex.Name, strings.Join(parts, ", "))
}

// writeWeek prints the committed week, marking today and completed days.
func writeWeek(w io.Writer, week models.WeekPlan) {
	_, _ = headerColor.Fprintf(w, "▸ Week of %s\n", week.WeekStart)
	for _, day := range week.Days {
		marker := " "
		switch {
		case day.IsToday:
			marker = ">"
		case day.IsCompleted:
			marker = "✓"
		}
		name := day.Name
		if name == "" {
			name = "-"
		}
		line := fmt.Sprintf("%s %s %-9s %s", marker, day.Date, weekdayName(day.Weekday), name)
		if day.PlanType != "" {
			line += fmt.Sprintf(" [%s]", day.PlanType)
		}
		if day.IsCompleted {
			_, _ = dimColor.Fprintln(w, line)
		} else {
			fmt.Fprintln(w, line)
		}
		for _, ex := range day.Exercises {
			fmt.Fprintf(w, "      %s\n", formatExercise(ex))
		}
	}
}

// writeCandidate prints an uncommitted AI plan with day and exercise indices for alt/pick.
func writeCandidate(w io.Writer, plan *models.AIGeneratedPlan) {
	_, _ = headerColor.Fprintln(w, "▸ AI candidate (not saved)")
	if plan.Summary != "" {
		fmt.Fprintf(w, "  %s\n", plan.Summary)
	}
	for d, day := range plan.Week {
		label := day.Day
		if day.Focus != "" {
			label = fmt.Sprintf("%s: %s", day.Day, day.Focus)
		}
		fmt.Fprintf(w, "  [%d] %s\n", d, label)
		for e, ex := range day.Exercises {
			fmt.Fprintf(w, "      %d. %s\n", e, formatExercise(ex))
		}
	}
}

func writeView(w io.Writer, view orchestrator.View) {
	fmt.Fprintf(w, "State: %s   AI mode: %s   Anchor: %s (%s)\n",
		view.State.Name(), view.AIMode, weekdayName(view.AnchorWeekday), view.AnchorDate)
	if view.Generating {
		PrintInfo("Generating an AI plan...")
	}
	writeWeek(w, view.Week)
	if view.Candidate != nil {
		fmt.Fprintln(w)
		writeCandidate(w, view.Candidate)
	}
	if len(view.Conflicts) > 0 {
		fmt.Fprintln(w)
		_, _ = warningColor.Fprintln(w, "Saving will replace these days:")
		for _, c := range view.Conflicts {
			fmt.Fprintf(w, "  %s (%s)\n", c.Date, c.PlanType)
		}
		fmt.Fprintln(w, `Type "confirm" to replace them or "cancel" to keep the current plan.`)
	}
	if p := view.PendingAlternatives; p != nil {
		fmt.Fprintln(w)
		_, _ = headerColor.Fprintf(w, "▸ Alternatives for day %d exercise %d\n", p.DayIndex, p.ExerciseIndex)
		if p.Rationale != "" {
			fmt.Fprintf(w, "  %s\n", p.Rationale)
		}
		for i, opt := range p.Options {
			fmt.Fprintf(w, "  %d. %s", i, opt.Name)
			if opt.Equipment != "" {
				fmt.Fprintf(w, " (%s)", opt.Equipment)
			}
			fmt.Fprintln(w)
		}
	}
}

func weekdayName(weekday int) string {
	if !utils.IsValidWeekday(weekday) {
		return "?"
	}
	return utils.WeekdayNames[weekday]
}
