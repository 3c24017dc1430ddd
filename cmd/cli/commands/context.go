package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/wardclerk/interview-scheduler/internal/config"
	"github.com/wardclerk/interview-scheduler/pkg/core/conversation"
	"github.com/wardclerk/interview-scheduler/pkg/core/scheduler"
	"github.com/wardclerk/interview-scheduler/pkg/db"
	"github.com/wardclerk/interview-scheduler/pkg/postgres"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg      *config.Config
	Database db.Database
	Postgres *postgres.DB
	Resolver *scheduler.Resolver
	Creator  *scheduler.Creator
	Driver   *conversation.Driver
	Logger   *zap.Logger
	Ctx      context.Context
}
