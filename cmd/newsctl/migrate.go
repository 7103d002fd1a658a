package main

import (
	"errors"
	"fmt"

	"newshub/internal/infra/adapter/persistence"
	"newshub/internal/infra/db"
)

type migrateCommand struct {
	Down bool `long:"down" description:"Roll back every migration"`

	app *app
}

func (c *migrateCommand) Execute([]string) error {
	stores, err := persistence.Open(c.app.ctx, false, c.app.logger)
	if err != nil {
		return err
	}
	defer stores.Close()
	if stores.DB == nil {
		return errors.New("migrate needs DB_DRIVER and DATABASE_URL")
	}

	driver := db.Driver(stores.Driver)
	if c.Down {
		if err := db.MigrateDown(stores.DB, driver); err != nil {
			return err
		}
		fmt.Fprintln(c.app.out, "all migrations rolled back")
		return nil
	}
	status, err := db.MigrateUp(stores.DB, driver)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.app.out, "%s schema at version %d\n", driver, status.Version)
	return nil
}
