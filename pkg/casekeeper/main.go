package casekeeper

import (
	"context"
	"fmt"
)

// Main is the entry point for the casekeeper application. It takes a context
// for cancellation and command line arguments, then executes the appropriate
// command. Tests can call this directly without building the binary.
//
// # Environment Variables
//
//	JWT_SECRET      - HMAC secret for session tokens (required)
//	PORT            - HTTP listen port (default: 8080)
//	POSTGRES_DSN    - PostgreSQL connection string
//	SURREALDB_URL   - SurrealDB WebSocket URL (default: ws://localhost:8000/rpc)
//	SURREALDB_NS    - SurrealDB namespace (default: casekeeper)
//	SURREALDB_DB    - SurrealDB database (default: casekeeper)
//	SURREALDB_USER  - SurrealDB username (default: root)
//	SURREALDB_PASS  - SurrealDB password (default: root)
func Main(ctx context.Context, args []string) error {
	cmd, config, err := Parse(args)
	if err != nil {
		return fmt.Errorf("failed to parse configuration: %w", err)
	}

	app, err := New(config)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	defer app.Close()

	switch c := cmd.(type) {
	case *MigrateCommand:
		if err := app.Migrate(ctx, c); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	case *RunCommand:
		if err := app.Run(ctx, c); err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	default:
		return fmt.Errorf("unknown command type: %T", cmd)
	}

	return nil
}
