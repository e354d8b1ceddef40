// Package directory manages the contact directory: creation, verification,
// listing, import/export and archival of contacts.
package directory

import (
	"github.com/casbin/casbin/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prasetyoadi/rolodex/internal/directory/entity"
	"github.com/prasetyoadi/rolodex/internal/directory/inbound"
	"github.com/prasetyoadi/rolodex/internal/directory/outbound/db"
	"github.com/prasetyoadi/rolodex/internal/directory/outbound/mq"
	"github.com/prasetyoadi/rolodex/internal/directory/usecase"
	"github.com/prasetyoadi/rolodex/internal/pkg/clock"
	"github.com/prasetyoadi/rolodex/internal/pkg/config"
	"github.com/prasetyoadi/rolodex/internal/pkg/goroutine"
	"github.com/prasetyoadi/rolodex/internal/pkg/hash"
	"github.com/prasetyoadi/rolodex/internal/pkg/idempotency"
	"github.com/prasetyoadi/rolodex/internal/pkg/instrument"
	"github.com/prasetyoadi/rolodex/internal/pkg/messaging"
	"github.com/prasetyoadi/rolodex/internal/pkg/router"
	"github.com/prasetyoadi/rolodex/internal/pkg/storage"
	"github.com/prasetyoadi/rolodex/internal/pkg/uid"
	"github.com/prasetyoadi/rolodex/internal/pkg/validator"
)

type Dependency struct {
	DBConn      *pgxpool.Pool              `validate:"required"`
	Goroutine   *goroutine.Manager         `validate:"required"`
	Enforcer    *casbin.Enforcer           `validate:"required"`
	Router      *router.Router             `validate:"required"`
	Idempotency idempotency.Idempotency    `validate:"required"`
	Messaging   messaging.Messaging        `validate:"required"`
	Storage     storage.Storage            `validate:"required"`
	Config      config.Config              `validate:"required"`
	Instrument  instrument.Instrumentation `validate:"required"`
	UID         uid.NumberID               `validate:"required"`
	UUID        uid.StringID               `validate:"required"`
	OID         uid.StringID               `validate:"required"`
	HMAC        hash.Hash                  `validate:"required"`
	Clock       clock.Clocker              `validate:"required"`
	Validator   validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	dbContacts := db.NewDB(dep.DBConn, dep.Instrument)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.HMAC, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:        dbContacts,
		RepoMessaging: repoMsg,
		Idempotency:   dep.Idempotency,
		Validator:     dep.Validator,
		Rules:         entity.ContactRules(),
		Config:        dep.Config,
		Storage:       dep.Storage,
		HMAC:          dep.HMAC,
		UID:           dep.UID,
		UUID:          dep.UUID,
		OID:           dep.OID,
		Clock:         dep.Clock,
		Instrument:    dep.Instrument,
		Enforcer:      dep.Enforcer,
		Goroutine:     dep.Goroutine,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
