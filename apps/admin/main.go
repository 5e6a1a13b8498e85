package main

import (
	"fmt"
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/tspagiari/oficinas/core"
	"github.com/tspagiari/oficinas/core/school"
	"github.com/tspagiari/oficinas/core/user"
	identitysvc "github.com/tspagiari/oficinas/services/identity"
	inmemstore "github.com/tspagiari/oficinas/storage/docstore/inmem"
	pgstore "github.com/tspagiari/oficinas/storage/docstore/postgres"
	redisstore "github.com/tspagiari/oficinas/storage/docstore/redis"
	docrepos "github.com/tspagiari/oficinas/storage/docstore/repos"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	cli := commandLine{conf: conf}

	// the migrate command only needs the postgres handle; everything
	// else goes through the configured store
	switch conf.Store.Backend {
	case "inmem":
		cli.store = inmemstore.New()
	case "redis":
		store, err := redisstore.Open(conf)
		errAndDie(err)
		defer store.Close()
		cli.store = store
	case "postgres":
		store, err := pgstore.Open(conf)
		errAndDie(err)
		defer store.Close()
		cli.store = store
		cli.pg = store
	default:
		errAndDie(fmt.Errorf("unknown store backend %q", conf.Store.Backend))
	}

	schoolSvc := school.NewService(docrepos.NewSchoolRepo(cli.store), validate)
	cli.usrSvc = user.NewService(
		docrepos.NewUserRepo(cli.store),
		schoolSvc,
		identitysvc.NewLocalService(cli.store),
		validate,
	)

	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
