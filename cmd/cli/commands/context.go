package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/unitduty/dutyroster/internal/config"
	"github.com/unitduty/dutyroster/pkg/postgres"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg    *config.Config
	Store  *postgres.DB
	Logger *zap.Logger
	Ctx    context.Context
}
