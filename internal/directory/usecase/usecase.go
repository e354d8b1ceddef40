package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/casbin/casbin/v3"
	"github.com/prasetyoadi/rolodex/internal/directory/entity"
	"github.com/prasetyoadi/rolodex/internal/pkg/clock"
	"github.com/prasetyoadi/rolodex/internal/pkg/config"
	"github.com/prasetyoadi/rolodex/internal/pkg/fieldrule"
	"github.com/prasetyoadi/rolodex/internal/pkg/goerror"
	"github.com/prasetyoadi/rolodex/internal/pkg/goroutine"
	"github.com/prasetyoadi/rolodex/internal/pkg/hash"
	"github.com/prasetyoadi/rolodex/internal/pkg/idempotency"
	"github.com/prasetyoadi/rolodex/internal/pkg/instrument"
	"github.com/prasetyoadi/rolodex/internal/pkg/jwt"
	"github.com/prasetyoadi/rolodex/internal/pkg/storage"
	"github.com/prasetyoadi/rolodex/internal/pkg/uid"
	"github.com/prasetyoadi/rolodex/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type ContactCreatedEvent struct {
	ContactID   int64
	FullName    string
	Email       string
	BackupEmail string
	VerifyToken string
}

type ContactArchivedEvent struct {
	ContactID int64
	Email     string
	Reason    string
}

type repoMessaging interface {
	PublishContactCreated(ctx context.Context, msg ContactCreatedEvent) error
	PublishContactArchived(ctx context.Context, msg ContactArchivedEvent) error
}

type repoDB interface {
	GetContactByEmail(ctx context.Context, email string, includeArchived bool) (*entity.Contact, error)
	GetContactByID(ctx context.Context, id int64, includeArchived bool) (*entity.Contact, error)
	GetContactList(ctx context.Context, filter entity.ContactListFilterData) ([]entity.Contact, int64, error)
	GetContactVerificationByToken(ctx context.Context, token string) (*entity.ContactVerification, error)

	NewContact(ctx context.Context, c entity.NewContact, v entity.Verification) error
	PatchContact(ctx context.Context, p entity.PatchContact) error
	UpsertContacts(ctx context.Context, contacts []entity.UpsertContact) (created, updated int, err error)

	ArchiveContact(ctx context.Context, id int64, oldStatus entity.ContactStatus) error
	VerifyContact(ctx context.Context, data entity.VerifyContact) error
	DeleteVerification(ctx context.Context, id int64) error
}

type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	idemp         idempotency.Idempotency
	validator     validator.Validator
	rules         *fieldrule.Set
	cfg           config.Config
	storage       storage.Storage
	hmac          hash.Hash
	uid           uid.NumberID
	uuid          uid.StringID
	oid           uid.StringID
	clock         clock.Clocker
	ins           instrument.Instrumentation
	enforcer      *casbin.Enforcer
	goroutine     *goroutine.Manager
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	Idempotency   idempotency.Idempotency
	Validator     validator.Validator
	Rules         *fieldrule.Set
	Config        config.Config
	Storage       storage.Storage
	HMAC          hash.Hash
	UID           uid.NumberID
	UUID          uid.StringID
	OID           uid.StringID
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
	Enforcer      *casbin.Enforcer
	Goroutine     *goroutine.Manager
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		idemp:         dep.Idempotency,
		validator:     dep.Validator,
		rules:         dep.Rules,
		cfg:           dep.Config,
		storage:       dep.Storage,
		hmac:          dep.HMAC,
		uid:           dep.UID,
		uuid:          dep.UUID,
		oid:           dep.OID,
		clock:         dep.Clock,
		ins:           dep.Instrument,
		enforcer:      dep.Enforcer,
		goroutine:     dep.Goroutine,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("directory.usecase").Start(ctx, name)
}

func (s *Usecase) authenticatedAndAuthorized(ctx context.Context, obj, act string) (*jwt.Claims, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	ok, err := s.enforcer.Enforce(clm.Subject, obj, act)
	if err != nil {
		slog.ErrorContext(ctx, "failed to check authorization", "subject", clm.Subject, "error", err)
		return nil, goerror.NewServer(err)
	}

	if !ok {
		return nil, goerror.NewBusiness("Account not allowed", goerror.CodeForbidden)
	}

	return clm, nil
}

// applyRules runs the bound field callbacks and converts a rejection into
// the validation error shape the router serializes (field -> message).
// Callers must only persist the returned, normalized values.
func (s *Usecase) applyRules(ctx context.Context, values map[string]string) (map[string]string, error) {
	out, err := s.rules.ApplyAll(ctx, values)
	if err == nil {
		return out, nil
	}

	var errs fieldrule.Errors
	if !errors.As(err, &errs) {
		return nil, goerror.NewInvalidInput(err)
	}

	kv := make([]string, 0, len(errs)*2)
	for _, e := range errs {
		kv = append(kv, e.Field, e.Message)
	}

	return nil, goerror.NewInvalidInput(nil, kv...)
}
