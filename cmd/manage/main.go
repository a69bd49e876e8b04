package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/HarishV14/Local-library/pkg/auth"
	"github.com/HarishV14/Local-library/pkg/config"
	"github.com/HarishV14/Local-library/pkg/database"
	"github.com/HarishV14/Local-library/pkg/migrations"
	"github.com/HarishV14/Local-library/pkg/models"
	"github.com/HarishV14/Local-library/pkg/users"
	"github.com/HarishV14/Local-library/pkg/visits"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"
)

func main() {
	log := logger.New()

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Err(err).Fatal("database error")
	}

	app := &cli.App{
		Name:        "manage",
		Usage:       "administrative tasks for the local library",
		Description: "Runs migrations, creates accounts and prunes session data",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: func(c *cli.Context) error {
					migrator := migrate.NewMigrator(db, migrations.Migrations)
					return migrator.Init(c.Context)
				},
			},
			{
				Name:  "migrate",
				Usage: "migrate database",
				Action: func(c *cli.Context) error {
					migrator := migrate.NewMigrator(db, migrations.Migrations)

					group, err := migrator.Migrate(c.Context)
					if err != nil {
						return err
					}

					if group.ID == 0 {
						fmt.Printf("There are no new migrations to run\n")
						return nil
					}

					fmt.Printf("Migrated to %s\n", group)
					return nil
				},
			},
			{
				Name:  "rollback",
				Usage: "rollback the last migration group",
				Action: func(c *cli.Context) error {
					migrator := migrate.NewMigrator(db, migrations.Migrations)

					group, err := migrator.Rollback(c.Context)
					if err != nil {
						return err
					}

					if group.ID == 0 {
						fmt.Printf("There are no groups to roll back\n")
						return nil
					}

					fmt.Printf("Rolled back %s\n", group)
					return nil
				},
			},
			{
				Name:  "create",
				Usage: "create Go migration",
				Action: func(c *cli.Context) error {
					migrator := migrate.NewMigrator(db, migrations.Migrations)

					name := strings.Join(c.Args().Slice(), "_")
					mf, err := migrator.CreateGoMigration(
						c.Context,
						name,
						migrate.WithGoTemplate(migrationTemplate),
					)
					if err != nil {
						return err
					}
					fmt.Printf("Created migration %s (%s)\n", mf.Name, mf.Path)

					return nil
				},
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Action: func(c *cli.Context) error {
					migrator := migrate.NewMigrator(db, migrations.Migrations)

					ms, err := migrator.MigrationsWithStatus(c.Context)
					if err != nil {
						return err
					}
					fmt.Printf("Migrations: %s\n", ms)
					fmt.Printf("Unapplied migrations: %s\n", ms.Unapplied())
					fmt.Printf("Last migration group: %s\n", ms.LastGroup())

					return nil
				},
			},
			{
				Name:      "createuser",
				Usage:     "create a user account",
				ArgsUsage: "<username>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "password", Usage: "password of the new user", EnvVars: []string{"LIBRARY_PASSWORD"}, Required: true},
					&cli.StringFlag{Name: "email", Usage: "email address of the new user"},
					&cli.StringFlag{Name: "role", Usage: "admin, librarian or member", Value: models.RoleMember},
				},
				Action: func(c *cli.Context) error {
					username := c.Args().First()
					if username == "" {
						return cli.Exit("a username is required", 1)
					}

					var email *string
					if e := c.String("email"); e != "" {
						email = &e
					}

					user, err := users.NewService(db).Create(c.Context, users.CreateUserOptions{
						Username: username,
						Email:    email,
						Password: c.String("password"),
						RoleName: c.String("role"),
					})
					if err != nil {
						return err
					}

					fmt.Printf("Created %s user %s (id %d)\n", c.String("role"), user.Username, user.ID)
					return nil
				},
			},
			{
				Name:  "prunevisits",
				Usage: "delete visit counts of sessions that have expired",
				Flags: []cli.Flag{
					&cli.DurationFlag{Name: "older-than", Usage: "idle time after which a session's count is deleted", Value: auth.TokenExpiry},
				},
				Action: func(c *cli.Context) error {
					if cfg.SessionStore != config.SessionStoreDatabase {
						fmt.Printf("Session store %s expires counts on its own\n", cfg.SessionStore)
						return nil
					}

					n, err := visits.NewDBCounter(db).Prune(c.Context, time.Now().Add(-c.Duration("older-than")))
					if err != nil {
						return err
					}

					fmt.Printf("Pruned %d session visit counts\n", n)
					return nil
				},
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Err(err).Fatal("app run error")
	}
}

const migrationTemplate = `package %s

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec("")
		return errors.WithStack(err)
	}

	down := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec("")
		return errors.WithStack(err)
	}

	Migrations.MustRegister(up, down)
}
`
