package app

import (
	"log/slog"
	"os"

	"github.com/prasetyoadi/rolodex/internal/directory"
	"github.com/prasetyoadi/rolodex/internal/journal"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.directory.enabled") {
		if err := directory.New(directory.Dependency{
			DBConn:      a.dbConn,
			Goroutine:   a.goroutine,
			Enforcer:    a.casbin,
			Router:      a.router,
			Idempotency: a.idemp,
			Messaging:   a.messaging,
			Storage:     a.storage,
			Config:      a.config,
			Instrument:  a.ins,
			UID:         a.uid,
			UUID:        a.uuid,
			OID:         a.oid,
			HMAC:        a.hmac,
			Clock:       a.clock,
			Validator:   a.validator,
		}); err != nil {
			slog.Error("failed to init module directory", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.journal.enabled") {
		if err := journal.New(journal.Dependency{
			Ctx:        a.ctx,
			DBConn:     a.dbConn,
			Messaging:  a.messaging,
			Config:     a.config,
			Instrument: a.ins,
			UID:        a.uid,
			UUID:       a.uuid,
			HMAC:       a.hmac,
			Clock:      a.clock,
			Goroutine:  a.goroutine,
			Validator:  a.validator,
			Router:     a.router,
			Mail:       a.mail,
			Enforcer:   a.casbin,
		}); err != nil {
			slog.Error("failed to init module journal", "error", err)
			os.Exit(1)
		}
	}
}
