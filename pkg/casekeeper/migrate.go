package casekeeper

import (
	"context"
	"fmt"
)

// Migrate initializes or updates the database schema to match the data
// model. For PostgreSQL this is GORM AutoMigrate; for SurrealDB it defines
// the unique indexes the model relies on (tables themselves are created on
// first insert). Safe to run repeatedly.
func (a *App) Migrate(ctx context.Context, cmd *MigrateCommand) error {
	a.log.Info().Msg("running database migrations")
	if err := a.store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	a.log.Info().Msg("migrations completed")
	return nil
}
