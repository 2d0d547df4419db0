package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lifeguard-api/internal/application/account"
	"github.com/lifeguard-api/internal/application/export"
	"github.com/lifeguard-api/internal/application/nutrition"
	"github.com/lifeguard-api/internal/application/shopping"
	"github.com/lifeguard-api/internal/application/workout"
	"github.com/lifeguard-api/internal/config"
	"github.com/lifeguard-api/internal/infrastructure/dynamo"
	s3infra "github.com/lifeguard-api/internal/infrastructure/s3"
	"github.com/lifeguard-api/internal/infrastructure/sns"
	"github.com/lifeguard-api/internal/infrastructure/telegram"
	"github.com/lifeguard-api/internal/pkg/logger"
	"github.com/lifeguard-api/internal/transport/bot"
	transporthttp "github.com/lifeguard-api/internal/transport/http"
	"github.com/rs/zerolog/log"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "0.1.0"

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	if envErr != nil {
		log.Debug().Msg("no .env file found, reading from environment")
	}
	if cfg.TelegramBotToken == "" {
		log.Fatal().Msg("TELEGRAM_BOT_TOKEN is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	awsCfg, err := dynamo.LoadAWSConfig(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("aws config")
	}

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(awsCfg, cfg)
	dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables)

	accountRepo := dynamo.NewAccountRepo(dynamoClient, cfg.DynamoTables.Accounts)
	workoutRepo := dynamo.NewWorkoutRepo(dynamoClient, cfg.DynamoTables.Workouts)
	mealRepo := dynamo.NewMealRepo(dynamoClient, cfg.DynamoTables.Meals)
	waterRepo := dynamo.NewWaterLogRepo(dynamoClient, cfg.DynamoTables.WaterLogs)
	shoppingRepo := dynamo.NewShoppingRepo(dynamoClient, cfg.DynamoTables.ShoppingItems)

	accountDeps := account.ServiceDeps{AccountRepo: accountRepo}
	if cfg.SNSTopicARN != "" {
		accountDeps.Publisher = sns.NewPublisher(awsCfg, cfg)
	} else {
		log.Info().Msg("SNS_TOPIC_ARN not set, account events disabled")
	}
	exportDeps := export.ServiceDeps{
		WorkoutRepo:  workoutRepo,
		MealRepo:     mealRepo,
		WaterRepo:    waterRepo,
		ShoppingRepo: shoppingRepo,
	}
	if cfg.ExportBucket != "" {
		exportDeps.Store = s3infra.NewStore(s3infra.NewClient(awsCfg, cfg), cfg.ExportBucket)
	} else {
		log.Info().Msg("EXPORT_BUCKET_NAME not set, data exports disabled")
	}

	accounts := account.NewService(accountDeps)
	workouts := workout.NewService(workout.ServiceDeps{WorkoutRepo: workoutRepo, Location: cfg.Location})
	nutritionSvc := nutrition.NewService(nutrition.ServiceDeps{MealRepo: mealRepo, WaterRepo: waterRepo, Location: cfg.Location})
	shoppingSvc := shopping.NewService(shopping.ServiceDeps{ShoppingRepo: shoppingRepo})

	router := transporthttp.NewRouter(ctx, cfg, &transporthttp.Deps{
		Verifier:  telegram.NewVerifier(cfg.TelegramBotToken, cfg.InitDataMaxAge),
		Accounts:  accounts,
		Workouts:  workouts,
		Nutrition: nutritionSvc,
		Shopping:  shoppingSvc,
		Export:    export.NewService(exportDeps),
		Version:   version,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	if cfg.BotPolling {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := bot.Start(ctx, cfg.TelegramBotToken, bot.Deps{
				Accounts:  accounts,
				Workouts:  workouts,
				Nutrition: nutritionSvc,
				Shopping:  shoppingSvc,
				WebAppURL: cfg.TelegramWebAppURL,
			})
			if err != nil {
				log.Error().Err(err).Msg("bot stopped with error")
			}
		}()
	}

	go func() {
		log.Info().Str("port", cfg.AppPort).Str("env", cfg.AppEnv).Str("version", version).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	wg.Wait()
	log.Info().Msg("server stopped")
}
