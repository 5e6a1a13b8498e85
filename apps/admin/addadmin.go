package main

import (
	"context"
	"fmt"

	"github.com/tspagiari/oficinas/core/user"
)

// addAdmin registers an administrator account, going through the same
// registration flow (and password policy) as the API.
func (cli *commandLine) addAdmin(email, name, pwd string) error {
	usr, err := cli.usrSvc.RegisterAdmin(context.Background(), user.NewAdmin{
		Email:           email,
		Password:        pwd,
		PasswordConfirm: pwd,
		DisplayName:     name,
	})
	if err != nil {
		return err
	}
	fmt.Printf("administrator %q created (uid %s)\n", usr.Email, usr.ID)
	return nil
}
