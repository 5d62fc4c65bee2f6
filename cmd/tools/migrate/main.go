// cmd/tools/migrate/main.go
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"

	"medcost-service/internal/common/config"
	"medcost-service/internal/common/database"
)

func main() {
	steps := flag.Int("steps", 0, "Number of migrations to roll back with down (0 = all)")
	flag.Usage = help
	flag.Parse()

	if flag.NArg() < 1 {
		help()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	m, err := database.NewMigrator(cfg.Database.Postgres.GetURL())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer m.Close()

	switch flag.Arg(0) {
	case "up":
		err = m.Up()
	case "down":
		if *steps > 0 {
			err = m.Steps(-*steps)
		} else {
			err = m.Down()
		}
	case "version":
		version, dirty, verr := m.Version()
		if errors.Is(verr, migrate.ErrNilVersion) {
			fmt.Println("No migrations applied.")
			return
		}
		if verr != nil {
			fmt.Printf("Error reading version: %v\n", verr)
			os.Exit(1)
		}
		fmt.Printf("Schema version %d (dirty: %t)\n", version, dirty)
		return
	default:
		help()
		os.Exit(1)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		fmt.Println("Schema already up to date.")
		return
	}
	if err != nil {
		fmt.Printf("Migration %s failed: %v\n", flag.Arg(0), err)
		os.Exit(1)
	}
	fmt.Printf("Migration %s complete.\n", flag.Arg(0))
}

func help() {
	fmt.Println(`
Usage: migrate [-steps N] <up|down|version>

Applies the embedded schema migrations to the configured PostgreSQL database.

Examples:
  migrate up
  migrate -steps 1 down
  migrate version`)
}
