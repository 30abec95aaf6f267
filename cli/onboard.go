package cli

import (
	"fmt"

	"fluxwell/config"
	"fluxwell/models"

	"github.com/spf13/cobra"
)

var (
	onboardGoal      string
	onboardLevel     string
	onboardDays      int
	onboardEquipment []string
	onboardAnchor    string
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Complete the plan profile",
	Long: `Store the answers the AI uses to plan your week. The first run also
creates an empty plan for the current week.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := models.ProfileRequest{
			Goal:        onboardGoal,
			Level:       onboardLevel,
			DaysPerWeek: onboardDays,
			Equipment:   onboardEquipment,
		}
		if cmd.Flags().Changed("anchor") {
			weekday, err := parseWeekday(onboardAnchor)
			if err != nil {
				return err
			}
			req.AnchorWeekday = &weekday
		}

		cfg := config.AppConfig.Client
		status, err := newClient(cfg).CompleteProfile(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("failed to complete profile: %w", err)
		}
		PrintSuccess(fmt.Sprintf("Profile saved for %s (plan committed: %v)", cfg.UserID, status.HasPlan))
		return nil
	},
}

func init() {
	onboardCmd.Flags().StringVar(&onboardGoal, "goal", "", "Training goal, e.g. \"build strength\"")
	onboardCmd.Flags().StringVar(&onboardLevel, "level", "beginner", "Experience level")
	onboardCmd.Flags().IntVar(&onboardDays, "days", 3, "Training days per week (0-7)")
	onboardCmd.Flags().StringSliceVar(&onboardEquipment, "equipment", nil, "Available equipment (comma separated)")
	onboardCmd.Flags().StringVar(&onboardAnchor, "anchor", "", "Weekday that starts a new AI cycle (0-6 or name)")
	_ = onboardCmd.MarkFlagRequired("goal")
}
