package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/tspagiari/oficinas/apps/api/echo"
	"github.com/tspagiari/oficinas/core"
	"github.com/tspagiari/oficinas/core/school"
	"github.com/tspagiari/oficinas/core/user"
	"github.com/tspagiari/oficinas/core/workshop"
	emailsvc "github.com/tspagiari/oficinas/services/email"
	identitysvc "github.com/tspagiari/oficinas/services/identity"
	logsvc "github.com/tspagiari/oficinas/services/logger"
	inmemstore "github.com/tspagiari/oficinas/storage/docstore/inmem"
	pgstore "github.com/tspagiari/oficinas/storage/docstore/postgres"
	redisstore "github.com/tspagiari/oficinas/storage/docstore/redis"
	docrepos "github.com/tspagiari/oficinas/storage/docstore/repos"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	store, cleanup, err := setUpStore(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up document store: %v", err), err)
	}
	defer func() {
		if err = cleanup(); err != nil {
			logger.Error(fmt.Sprintf("closing document store: %v", err), err)
		}
	}()

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	workshop.InitValidators(validate, translator)

	schoolSvc := school.NewService(docrepos.NewSchoolRepo(store), validate)
	usrSvc := user.NewService(docrepos.NewUserRepo(store), schoolSvc, identitysvc.NewLocalService(store), validate)
	workshopSvc := workshop.NewService(docrepos.NewWorkshopRepo(store), mailSvc, conf, validate)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	core.ParseEmailTemplates(logger)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugAddr, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(echoapi.ServerDeps{
		Conf:        conf,
		Logger:      logger,
		UserSvc:     usrSvc,
		SchoolSvc:   schoolSvc,
		WorkshopSvc: workshopSvc,
		Validate:    validate,
		Translator:  translator,
	})

	go server.Start()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpStore(conf *core.Config) (core.DocStore, func() error, error) {
	noop := func() error { return nil }

	switch conf.Store.Backend {
	case "inmem":
		return inmemstore.New(), noop, nil
	case "redis":
		store, err := redisstore.Open(conf)
		if err != nil {
			return nil, noop, err
		}
		return store, store.Close, nil
	case "postgres":
		store, err := pgstore.Open(conf)
		if err != nil {
			return nil, noop, err
		}
		if err = store.Migrate(); err != nil {
			_ = store.Close()
			return nil, noop, err
		}
		return store, store.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown store backend %q", conf.Store.Backend)
	}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
