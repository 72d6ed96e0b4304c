package config

import (
	"flag"
	"fmt"
)

// parses CLI flags for the migrate command
func ParseMigrateFlags(args []string) (MigrateFlags, error) {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	direction := fs.String("direction", "up", "migration direction: up or down")
	steps := fs.Int("steps", 0, "number of steps to apply (0 applies all pending for up; required for down)")

	if err := fs.Parse(args); err != nil {
		return MigrateFlags{}, err
	}

	if *direction != "up" && *direction != "down" {
		return MigrateFlags{}, fmt.Errorf("invalid direction %q: must be up or down", *direction)
	}

	if *steps < 0 {
		return MigrateFlags{}, fmt.Errorf("steps must not be negative")
	}

	if *direction == "down" && *steps == 0 {
		return MigrateFlags{}, fmt.Errorf("down migrations require an explicit -steps value")
	}

	return MigrateFlags{Direction: *direction, Steps: *steps}, nil
}

// returns default flags for migrations
func DefaultMigrateFlags() MigrateFlags {
	return MigrateFlags{Direction: "up"}
}
