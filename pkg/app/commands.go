package app

// Implementations behind the CLI sub-commands. None of them boots the full
// application: they open only the database they need.

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shashiranjanraj/arstoys/app/routes"
	"github.com/shashiranjanraj/arstoys/database/seeders"
	"github.com/shashiranjanraj/arstoys/internal/kernel"
	"github.com/shashiranjanraj/arstoys/pkg/database"
	"github.com/shashiranjanraj/arstoys/pkg/migration"
	"github.com/shashiranjanraj/arstoys/pkg/router"
	"github.com/shashiranjanraj/arstoys/pkg/sse"
	"github.com/shashiranjanraj/arstoys/pkg/ws"
)

// Migrate applies every pending migration.
func Migrate(cfg database.Config, out io.Writer) error {
	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	n, err := migration.New(db).Output(out).Run()
	if err != nil {
		return err
	}
	if n > 0 {
		fmt.Fprintf(out, "✅ %d migration(s) applied\n", n)
	}
	return nil
}

// Rollback reverts the most recent migration batch.
func Rollback(cfg database.Config, out io.Writer) error {
	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	n, err := migration.New(db).Output(out).Rollback()
	if err != nil {
		return err
	}
	if n > 0 {
		fmt.Fprintf(out, "✅ %d migration(s) rolled back\n", n)
	}
	return nil
}

// MigrationStatus prints one line per known migration.
func MigrationStatus(cfg database.Config, out io.Writer) error {
	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	rows, err := migration.New(db).Status()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "RAN\tBATCH\tMIGRATION")
	for _, row := range rows {
		ran, batch := "No", "-"
		if row.Ran {
			ran, batch = "Yes", fmt.Sprint(row.Batch)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", ran, batch, row.Name)
	}
	return w.Flush()
}

// Seed migrates and then runs every registered seeder.
func Seed(ctx context.Context, cfg database.Config, out io.Writer) error {
	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if _, err := migration.New(db).Run(); err != nil {
		return err
	}
	if err := seeders.RunAll(ctx, db, out); err != nil {
		return err
	}
	fmt.Fprintln(out, "✅ Seeding complete")
	return nil
}

// RouteTable builds the full route table without any backing services.
func RouteTable() ([]router.RouteInfo, error) {
	r := kernel.New(kernel.Options{UploadsPrefix: "/uploads", UploadsDir: "."})
	if err := routes.RegisterAPI(r, routes.Deps{Live: ws.NewHub(), Events: sse.NewBroker(0)}); err != nil {
		return nil, err
	}
	return r.Routes(), nil
}

// RouteList prints RouteTable.
func RouteList(out io.Writer) error {
	infos, err := RouteTable()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "METHOD\tPATH\tNAME")
	fmt.Fprintln(w, "------\t----\t----")
	for _, ri := range infos {
		fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
	}
	return w.Flush()
}
