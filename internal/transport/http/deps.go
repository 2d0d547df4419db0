package http

import (
	"github.com/lifeguard-api/internal/application/account"
	"github.com/lifeguard-api/internal/application/export"
	"github.com/lifeguard-api/internal/application/nutrition"
	"github.com/lifeguard-api/internal/application/shopping"
	"github.com/lifeguard-api/internal/application/workout"
	"github.com/lifeguard-api/internal/infrastructure/telegram"
)

// Deps holds the application services the router mounts.
type Deps struct {
	Verifier  *telegram.Verifier
	Accounts  account.Service
	Workouts  workout.Service
	Nutrition nutrition.Service
	Shopping  shopping.Service
	Export    export.Service
	Version   string
}
