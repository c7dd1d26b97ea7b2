package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/codelens/internal/notification"
	"github.com/shandysiswandi/codelens/internal/phoneauth"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.phoneauth.enabled") {
		if err := phoneauth.New(phoneauth.Dependency{
			Ctx:        a.ctx,
			DBConn:     a.dbConn,
			CacheConn:  a.cacheConn,
			Goroutine:  a.goroutine,
			Router:     a.router,
			SMS:        a.sms,
			Messaging:  a.messaging,
			Config:     a.config,
			Instrument: a.ins,
			UID:        a.uid,
			Clock:      a.clock,
			Validator:  a.validator,
			JWT:        a.jwt,
			Bcrypt:     a.bcrypt,
			Code:       a.code,
		}); err != nil {
			slog.Error("failed to init module phoneauth", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.notification.enabled") {
		if a.messaging == nil {
			slog.Error("failed to init module notification", "error", "messaging.enabled is false")
			os.Exit(1)
		}

		if err := notification.New(notification.Dependency{
			Ctx:         a.ctx,
			Messaging:   a.messaging,
			Idempotency: a.idemp,
			SMS:         a.sms,
			Config:      a.config,
			Instrument:  a.ins,
			UUID:        a.uuid,
			Goroutine:   a.goroutine,
			Validator:   a.validator,
		}); err != nil {
			slog.Error("failed to init module notification", "error", err)
			os.Exit(1)
		}
	}
}
