package main

import (
	"context"
	"testing"

	"github.com/tspagiari/oficinas/core/school"
	"github.com/tspagiari/oficinas/core/user"
	identitysvc "github.com/tspagiari/oficinas/services/identity"
	inmemstore "github.com/tspagiari/oficinas/storage/docstore/inmem"
	docrepos "github.com/tspagiari/oficinas/storage/docstore/repos"
	testutil "github.com/tspagiari/oficinas/tests"
)

func setup(t *testing.T) *commandLine {
	t.Helper()
	validate, _ := testutil.NewValidate()
	store := inmemstore.New()

	schoolSvc := school.NewService(docrepos.NewSchoolRepo(store), validate)
	usrSvc := user.NewService(
		docrepos.NewUserRepo(store),
		schoolSvc,
		identitysvc.NewLocalService(store),
		validate,
	)
	return &commandLine{
		conf:   testutil.NewConfig(),
		store:  store,
		usrSvc: usrSvc,
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	pwd        string
	wantErr    error
	wantErrStr string
}

func Test_commandLine_addAdmin(t *testing.T) {
	cli := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"addadmin"}, wantErr: errHelp},
		{name: "email but no name", args: []string{"addadmin", "-email", "a@b.org"}, wantErr: errHelp},
		{name: "no password", args: []string{"addadmin", "-email", "a@b.org", "-name", "Ana"}, wantErr: errHelp},
		{name: "weak password", args: []string{"addadmin", "-email", "a@b.org", "-name", "Ana"}, pwd: "short"},
		{name: "ok", args: []string{"addadmin", "-email", "a@b.org", "-name", "Ana"}, pwd: "adminpass1"},
		{name: "duplicate email", args: []string{"addadmin", "-email", "a@b.org", "-name", "Ana"}, pwd: "otherpass9"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			return []byte(tt.pwd), nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			switch tt.name {
			case "weak password", "duplicate email":
				if err == nil {
					t.Error("cli.run() expected an error")
				}
			case "ok":
				if err != nil {
					t.Fatalf("cli.run() unexpected error = %v", err)
				}
				usr, err := cli.usrSvc.Login(context.Background(), "a@b.org", "adminpass1")
				if err != nil {
					t.Fatalf("Login() failed: %v", err)
				}
				if !usr.IsAdmin() {
					t.Errorf("created user role = %v, want admin", usr.Role)
				}
			default:
				if err != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
			}
		})
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t) // inmem backend: no postgres handle

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "non-postgres backend", args: []string{"migrate", "up"}, wantErrStr: "migrate requires the postgres store backend"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
			} else if err == nil || err.Error() != tt.wantErrStr {
				t.Errorf("cli.run() error = %v, wantErrStr %s", err, tt.wantErrStr)
			}
		})
	}
}
