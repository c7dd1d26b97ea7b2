package phoneauth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/codelens/internal/phoneauth/inbound"
	"github.com/shandysiswandi/codelens/internal/phoneauth/outbound/cache"
	"github.com/shandysiswandi/codelens/internal/phoneauth/outbound/db"
	"github.com/shandysiswandi/codelens/internal/phoneauth/outbound/identity"
	outsms "github.com/shandysiswandi/codelens/internal/phoneauth/outbound/sms"
	"github.com/shandysiswandi/codelens/internal/phoneauth/usecase"
	"github.com/shandysiswandi/codelens/internal/pkg/clock"
	"github.com/shandysiswandi/codelens/internal/pkg/config"
	"github.com/shandysiswandi/codelens/internal/pkg/goroutine"
	"github.com/shandysiswandi/codelens/internal/pkg/hash"
	"github.com/shandysiswandi/codelens/internal/pkg/instrument"
	"github.com/shandysiswandi/codelens/internal/pkg/jwt"
	"github.com/shandysiswandi/codelens/internal/pkg/messaging"
	"github.com/shandysiswandi/codelens/internal/pkg/otp"
	"github.com/shandysiswandi/codelens/internal/pkg/router"
	"github.com/shandysiswandi/codelens/internal/pkg/sms"
	"github.com/shandysiswandi/codelens/internal/pkg/uid"
	"github.com/shandysiswandi/codelens/internal/pkg/validator"
)

const (
	OTPStoreDB    = "db"
	OTPStoreRedis = "redis"
)

var (
	ErrUnknownOTPStore       = errors.New("phoneauth: unknown otp store")
	ErrUnknownSMSDispatch    = errors.New("phoneauth: unknown sms dispatch")
	ErrQueueWithoutMessaging = errors.New("phoneauth: sms_dispatch=queue needs messaging enabled")
)

type Dependency struct {
	Ctx        context.Context            `validate:"required"`
	DBConn     *pgxpool.Pool              `validate:"required"`
	CacheConn  *redis.Client              `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Router     *router.Router             `validate:"required"`
	SMS        sms.Provider               `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	JWT        jwt.JWT                    `validate:"required"`
	Bcrypt     hash.Hash                  `validate:"required"`
	Code       otp.Generator              `validate:"required"`

	// Messaging is only read when modules.phoneauth.sms_dispatch is queue.
	Messaging messaging.Messaging
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	dbAuth := db.NewDB(dep.DBConn, dep.Instrument)

	repoIdentity := identity.New(identity.Dependency{
		DBConn:     dep.DBConn,
		CacheConn:  dep.CacheConn,
		JWT:        dep.JWT,
		Hash:       dep.Bcrypt,
		Validator:  dep.Validator,
		Instrument: dep.Instrument,
	})

	ucDep := usecase.Dependency{
		RepoProfile:  dbAuth,
		RepoIdentity: repoIdentity,
		Code:         dep.Code,
		UID:          dep.UID,
		Clock:        dep.Clock,
		Config:       dep.Config,
		Validator:    dep.Validator,
		Instrument:   dep.Instrument,
	}

	switch store := dep.Config.GetString("modules.phoneauth.otp_store"); store {
	case "", OTPStoreDB:
		ucDep.RepoOTP = dbAuth
	case OTPStoreRedis:
		ucDep.RepoOTP = cache.NewOTPStore(dep.CacheConn, dep.Instrument)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOTPStore, store)
	}

	switch dispatch := dep.Config.GetString("modules.phoneauth.sms_dispatch"); dispatch {
	case "", outsms.DispatchDirect:
		ucDep.RepoSMS = outsms.NewDirect(dep.SMS, dep.Instrument)
	case outsms.DispatchQueue:
		if dep.Messaging == nil {
			return ErrQueueWithoutMessaging
		}
		ucDep.RepoSMS = outsms.NewQueue(dep.Messaging, dep.UID, dep.Clock, dep.Instrument)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSMSDispatch, dispatch)
	}

	uc := usecase.New(ucDep)

	inbound.RegisterHTTPEndpoint(dep.Router, uc)
	inbound.RegisterJob(dep.Ctx, dep.Config, dep.Goroutine, uc)

	return nil
}
