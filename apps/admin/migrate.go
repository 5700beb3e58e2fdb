package main

func (cli *commandLine) migrate(args []string) error {
	if cli.migrateFunc == nil {
		return errNoMigrations
	}
	return cli.migrateFunc(args[0], args[1:]...)
}
