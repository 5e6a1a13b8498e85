// Package testutil holds shared test fixtures.
package testutil

import (
	"context"
	"log"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/tspagiari/oficinas/core"
	"github.com/tspagiari/oficinas/core/school"
	"github.com/tspagiari/oficinas/core/user"
	"github.com/tspagiari/oficinas/core/workshop"
)

// Logger is a core.Logger for tests. With a nil T it falls back to the
// standard logger, so it also serves TestMain setup.
type Logger struct {
	T *testing.T
}

func (l Logger) log(level, msg string, args []interface{}) {
	if l.T != nil {
		l.T.Logf("%s: %s %v", level, msg, args)
		return
	}
	log.Printf("%s: %s %v", level, msg, args)
}

func (l Logger) Debug(msg string, args ...interface{}) { l.log("DEBUG", msg, args) }
func (l Logger) Info(msg string, args ...interface{})  { l.log("INFO", msg, args) }
func (l Logger) Warn(msg string, args ...interface{})  { l.log("WARN", msg, args) }
func (l Logger) Error(msg string, args ...interface{}) { l.log("ERROR", msg, args) }

func (l Logger) Fatal(msg string, args ...interface{}) {
	if l.T != nil {
		l.T.Fatalf("%s %v", msg, args)
		return
	}
	log.Fatalf("%s %v", msg, args)
}

var _ core.Logger = (*Logger)(nil)

// NewValidate returns a validator with all app validations registered.
func NewValidate() (*validator.Validate, ut.Translator) {
	validate := validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")

	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	workshop.InitValidators(validate, translator)
	return validate, translator
}

func NewConfig() *core.Config {
	conf := core.NewConfig()
	conf.TestMode = true
	return conf
}

func CreateSchool(t *testing.T, svc school.Service, name string) school.School {
	t.Helper()
	sch, err := svc.Create(context.Background(), school.NewSchool{
		Name:    name,
		Address: "Rua das Flores, 123",
		City:    "São Paulo",
		State:   "SP",
		ZipCode: "01000-000",
		Phone:   "+55 11 99999-0000",
		Email:   "contato@escola.example.org",
	})
	if err != nil {
		t.Fatalf("CreateSchool(): %v", err)
	}
	return sch
}

func CreateRepresentative(t *testing.T, svc user.Service, email, pwd, schoolID, name string) user.User {
	t.Helper()
	usr, err := svc.RegisterRepresentative(context.Background(), user.NewRepresentative{
		Email:           email,
		Password:        pwd,
		PasswordConfirm: pwd,
		SchoolID:        schoolID,
		DisplayName:     name,
	})
	if err != nil {
		t.Fatalf("CreateRepresentative(): %v", err)
	}
	return usr
}

func CreateAdmin(t *testing.T, svc user.Service, email, pwd, name string) user.User {
	t.Helper()
	usr, err := svc.RegisterAdmin(context.Background(), user.NewAdmin{
		Email:           email,
		Password:        pwd,
		PasswordConfirm: pwd,
		DisplayName:     name,
	})
	if err != nil {
		t.Fatalf("CreateAdmin(): %v", err)
	}
	return usr
}

func NewRequest(schoolName string) workshop.NewRequest {
	return workshop.NewRequest{
		SchoolName:   schoolName,
		Coordinator:  "Maria Souza",
		Hours:        4,
		Students:     25,
		WorkshopType: workshop.TypeRobotics,
		Materials:    "Kits de robótica",
		StartTime:    "08:00",
		EndTime:      "12:00",
	}
}

func CreateRequest(t *testing.T, svc workshop.Service, schoolName string) workshop.Request {
	t.Helper()
	req, err := svc.Create(context.Background(), NewRequest(schoolName))
	if err != nil {
		t.Fatalf("CreateRequest(): %v", err)
	}
	return req
}
