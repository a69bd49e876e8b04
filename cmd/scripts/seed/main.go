package main

import (
	"context"
	"fmt"
	"os"

	"github.com/HarishV14/Local-library/pkg/config"
	"github.com/HarishV14/Local-library/pkg/database"
	"github.com/HarishV14/Local-library/pkg/migrations"
	"github.com/HarishV14/Local-library/pkg/models"
	"github.com/HarishV14/Local-library/pkg/seed"
	"github.com/jessevdk/go-flags"
	"github.com/robinjoseph08/golib/logger"
)

func main() {
	ctx := context.Background()
	log := logger.New()

	var opts struct {
		Migrate bool `short:"m" long:"migrate" description:"Bring the database up to date before seeding"`
	}

	args, err := flags.Parse(&opts)
	if err != nil {
		log.Err(err).Fatal("flags parse error")
	}

	if len(args) != 1 {
		fmt.Println("go run ./cmd/scripts/seed [--migrate] <path/to/fixture.yaml>")
		os.Exit(1)
	}

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Err(err).Fatal("database error")
	}
	defer db.Close()

	if opts.Migrate {
		if _, err := migrations.BringUpToDate(ctx, db); err != nil {
			log.Err(err).Fatal("migrations error")
		}
	}

	f, err := os.Open(args[0])
	if err != nil {
		log.Err(err).Fatal("open fixture error")
	}
	defer f.Close()

	fixture, err := seed.Load(f)
	if err != nil {
		log.Err(err).Fatal("fixture error")
	}

	result, err := seed.Apply(ctx, db, fixture, models.Today())
	if err != nil {
		log.Err(err).Fatal("seed error")
	}
	fmt.Printf("Authors: %d\nBooks: %d\nBook instances: %d\nSkipped books: %d\n", result.Authors, result.Books, result.Instances, result.Skipped)
}
