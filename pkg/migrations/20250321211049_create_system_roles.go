package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		grants := []struct {
			role      string
			resources []string
			writable  map[string]bool
		}{
			{
				role:      "admin",
				resources: []string{"catalog", "loans", "users"},
				writable:  map[string]bool{"catalog": true, "loans": true, "users": true},
			},
			{
				role:      "librarian",
				resources: []string{"catalog", "loans"},
				writable:  map[string]bool{"catalog": true, "loans": true},
			},
			{
				role:      "member",
				resources: []string{"catalog", "loans"},
				writable:  map[string]bool{},
			},
		}

		for _, g := range grants {
			_, err := db.Exec(`INSERT INTO roles (name, is_system) VALUES (?, TRUE)`, g.role)
			if err != nil {
				return errors.WithStack(err)
			}

			var roleID int
			err = db.QueryRow(`SELECT id FROM roles WHERE name = ?`, g.role).Scan(&roleID)
			if err != nil {
				return errors.WithStack(err)
			}

			for _, resource := range g.resources {
				operations := []string{"read"}
				if g.writable[resource] {
					operations = append(operations, "write")
				}
				for _, operation := range operations {
					_, err = db.Exec(`INSERT INTO permissions (role_id, resource, operation) VALUES (?, ?, ?)`,
						roleID, resource, operation)
					if err != nil {
						return errors.WithStack(err)
					}
				}
			}
		}

		return nil
	}

	down := func(_ context.Context, db *bun.DB) error {
		// Permissions cascade with their role.
		_, err := db.Exec(`DELETE FROM roles WHERE name IN ('admin', 'librarian', 'member')`)
		return errors.WithStack(err)
	}

	Migrations.MustRegister(up, down)
}
