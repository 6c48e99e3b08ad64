package casekeeper

// Command represents a discrete application operation with its specific
// options. Parse returns one of the implementations below; Main routes it to
// the matching App method.
type Command interface {
	// Name returns the sub-command identifier used for routing.
	Name() string
}

// RunCommand starts the HTTP server.
type RunCommand struct{}

func (c *RunCommand) Name() string { return "run" }

// MigrateCommand creates or extends the database schema and exits.
type MigrateCommand struct{}

func (c *MigrateCommand) Name() string { return "migrate" }
