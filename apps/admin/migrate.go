package main

import (
	"database/sql"
	"errors"

	"github.com/pressly/goose/v3"

	appfs "github.com/tspagiari/oficinas/fs"
)

var gooseRunFunc = goose.Run // mockable

func (cli *commandLine) migrate(args []string) error {
	if cli.pg == nil {
		return errors.New("migrate requires the postgres store backend")
	}
	return runGoose(args, cli.pg.DB())
}

func runGoose(args []string, db *sql.DB) error {
	goose.SetBaseFS(appfs.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return gooseRunFunc(args[0], db, "migrations", arguments...)
}
