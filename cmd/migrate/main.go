// Command migrate applies or rolls back the embedded schema migrations.
package main

import (
	"flag"
	"fmt"
	"os"

	"libraryManagement/internal/config"
	"libraryManagement/internal/db"
)

func main() {
	down := flag.Bool("down", false, "roll back the most recently applied migration")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fatalf("load config: %v", err)
	}
	d, err := db.Connect(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		fatalf("connect: %v", err)
	}
	defer d.Close()

	if *down {
		err = db.RollbackLast(d)
	} else {
		err = db.Migrate(d)
	}
	if err != nil {
		fatalf("migrate: %v", err)
	}

	versions, err := db.Applied(d)
	if err != nil {
		fatalf("list applied: %v", err)
	}
	fmt.Printf("applied migrations: %v\n", versions)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
