package main

import (
	"context"
	"fmt"
)

// createAdmin creates an administrator, or promotes and updates the user owning email.
func (cli *commandLine) createAdmin(name, email, pwd string) error {
	usr, created, err := cli.usrSvc.SaveAdmin(context.Background(), name, email, pwd)
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(cli.out, "administrator %s created\n", usr.Email)
	} else {
		fmt.Fprintf(cli.out, "administrator %s updated\n", usr.Email)
	}
	return nil
}
