package cli

import (
	"context"
	"fmt"
	"log"

	"fluxwell/api"
	"fluxwell/clock"
	"fluxwell/config"
	"fluxwell/database"
	"fluxwell/repository"
	"fluxwell/services"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the plan backend",
	Long:  `Start the HTTP backend serving week plans, conflicts and AI generation.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context(), config.AppConfig)
	},
}

func runServer(ctx context.Context, cfg config.Config) error {
	db, err := database.Init()
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	planRepo := repository.NewPlanRepository(db)
	quotaRepo := repository.NewQuotaRepository(db)
	log.Println("INFO: [Main] Repositories initialized.")

	generator, err := services.NewTextGenerator(ctx, cfg)
	if err != nil {
		log.Printf("WARN: [Main] AI generation disabled: %v", err)
		generator = nil
	} else {
		defer generator.Close()
	}

	clk := &clock.RealClock{}
	weekPlanService := services.NewWeekPlanService(planRepo, clk)
	aiPlanService := services.NewAIPlanService(planRepo, quotaRepo, generator, clk, cfg.AI.DailyGenerationQuota)
	log.Println("INFO: [Main] Services initialized.")

	router := api.NewRouter(api.NewAPIHandler(weekPlanService, aiPlanService))

	serverPort := ":" + cfg.Server.Port
	if cfg.Server.Port == "" {
		log.Println("WARN: [Main] Server port not configured, using default :8080.")
		serverPort = ":8080"
	}
	log.Printf("INFO: [Main] Starting server on port %s", serverPort)
	return router.Run(serverPort)
}
