package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"fluxwell/client"
	"fluxwell/config"
	"fluxwell/models"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var planOutput string

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Inspect the committed week plan",
}

var planShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current week plan",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient(config.AppConfig.Client)
		week, err := c.GetWeekPlan(cmd.Context())
		if err != nil {
			if client.IsNotFound(err) {
				PrintWarning(`No plan profile yet. Run "fluxwell onboard" first.`)
				return nil
			}
			return err
		}
		return writePlan(cmd.OutOrStdout(), week, planOutput)
	},
}

func init() {
	planShowCmd.Flags().StringVarP(&planOutput, "output", "o", "text", "Output format: text, json or yaml")
	planCmd.AddCommand(planShowCmd)
}

type planDocument struct {
	WeekStart           string        `json:"week_start" yaml:"week_start"`
	AIEnabled           bool          `json:"ai_enabled" yaml:"ai_enabled"`
	AnchorWeekday       string        `json:"anchor_weekday" yaml:"anchor_weekday"`
	LastGeneratedAnchor string        `json:"last_generated_anchor,omitempty" yaml:"last_generated_anchor,omitempty"`
	Days                []dayDocument `json:"days" yaml:"days"`
}

type dayDocument struct {
	Date      string             `json:"date" yaml:"date"`
	Weekday   string             `json:"weekday" yaml:"weekday"`
	Name      string             `json:"name,omitempty" yaml:"name,omitempty"`
	PlanType  string             `json:"plan_type,omitempty" yaml:"plan_type,omitempty"`
	Status    string             `json:"status" yaml:"status"`
	Exercises []exerciseDocument `json:"exercises" yaml:"exercises"`
}

type exerciseDocument struct {
	ID              string `json:"id" yaml:"id"`
	Name            string `json:"name" yaml:"name"`
	Sets            int    `json:"sets" yaml:"sets"`
	Reps            string `json:"reps" yaml:"reps"`
	DurationSeconds *int   `json:"duration_seconds,omitempty" yaml:"duration_seconds,omitempty"`
	RestSeconds     *int   `json:"rest_seconds,omitempty" yaml:"rest_seconds,omitempty"`
	Notes           string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

func newPlanDocument(week *models.WeekPlanResponse) planDocument {
	doc := planDocument{
		WeekStart:           week.WeekStart,
		AIEnabled:           week.AIEnabled,
		AnchorWeekday:       weekdayName(week.AIAnchorWeekday),
		LastGeneratedAnchor: week.LastGeneratedAnchor,
		Days:                make([]dayDocument, 0, len(week.Days)),
	}
	for _, d := range week.Days {
		status := "upcoming"
		switch {
		case d.IsToday:
			status = "today"
		case d.IsCompleted:
			status = "completed"
		}
		day := dayDocument{
			Date:      d.Date,
			Weekday:   weekdayName(d.Weekday),
			Name:      d.Name,
			PlanType:  string(d.PlanType),
			Status:    status,
			Exercises: make([]exerciseDocument, 0, len(d.Exercises)),
		}
		for _, ex := range d.Exercises {
			day.Exercises = append(day.Exercises, exerciseDocument{
				ID:              ex.ExerciseID,
				Name:            ex.Name,
				Sets:            ex.Sets,
				Reps:            ex.Reps,
				DurationSeconds: ex.DurationSeconds,
				RestSeconds:     ex.RestSeconds,
				Notes:           ex.Notes,
			})
		}
		doc.Days = append(doc.Days, day)
	}
	return doc
}

func writePlan(w io.Writer, week *models.WeekPlanResponse, format string) error {
	switch format {
	case "", "text":
		writeWeek(w, week.WeekPlan)
		fmt.Fprintf(w, "AI planning: %v   Anchor: %s\n", week.AIEnabled, weekdayName(week.AIAnchorWeekday))
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(newPlanDocument(week)); err != nil {
			return fmt.Errorf("encode plan as JSON: %w", err)
		}
		return nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(newPlanDocument(week)); err != nil {
			return fmt.Errorf("encode plan as YAML: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q (text, json, yaml)", format)
	}
}
