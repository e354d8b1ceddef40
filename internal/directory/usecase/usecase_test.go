package usecase

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/prasetyoadi/rolodex/internal/directory/entity"
	"github.com/prasetyoadi/rolodex/internal/pkg/clock"
	"github.com/prasetyoadi/rolodex/internal/pkg/config"
	"github.com/prasetyoadi/rolodex/internal/pkg/goerror"
	"github.com/prasetyoadi/rolodex/internal/pkg/hash"
	"github.com/prasetyoadi/rolodex/internal/pkg/idempotency"
	"github.com/prasetyoadi/rolodex/internal/pkg/instrument"
	"github.com/prasetyoadi/rolodex/internal/pkg/jwt"
	"github.com/prasetyoadi/rolodex/internal/pkg/storage"
	"github.com/prasetyoadi/rolodex/internal/pkg/validator"
)

const testRBACModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

type fakeRepoDB struct {
	byEmail       map[string]*entity.Contact
	byID          map[int64]*entity.Contact
	verifications map[string]*entity.ContactVerification

	newContacts      []entity.NewContact
	newVerifications []entity.Verification
	patches          []entity.PatchContact
	upserts          []entity.UpsertContact
	archives         []int64
	verified         []entity.VerifyContact
	deletedVerifs    []int64

	listContacts []entity.Contact
	listTotal    int64
	lastFilter   entity.ContactListFilterData

	failNext error
}

func (f *fakeRepoDB) mutations() int {
	return len(f.newContacts) + len(f.patches) + len(f.upserts) + len(f.archives) + len(f.verified)
}

func (f *fakeRepoDB) GetContactByEmail(_ context.Context, email string, _ bool) (*entity.Contact, error) {
	if c, ok := f.byEmail[email]; ok {
		return c, nil
	}
	return nil, goerror.ErrNotFound
}

func (f *fakeRepoDB) GetContactByID(_ context.Context, id int64, includeArchived bool) (*entity.Contact, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	if c.Status == entity.ContactStatusArchived && !includeArchived {
		return nil, goerror.ErrNotFound
	}
	return c, nil
}

func (f *fakeRepoDB) GetContactList(_ context.Context, filter entity.ContactListFilterData) ([]entity.Contact, int64, error) {
	f.lastFilter = filter
	return f.listContacts, f.listTotal, nil
}

func (f *fakeRepoDB) GetContactVerificationByToken(_ context.Context, token string) (*entity.ContactVerification, error) {
	if v, ok := f.verifications[token]; ok {
		return v, nil
	}
	return nil, goerror.ErrNotFound
}

func (f *fakeRepoDB) NewContact(_ context.Context, c entity.NewContact, v entity.Verification) error {
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return err
	}
	f.newContacts = append(f.newContacts, c)
	f.newVerifications = append(f.newVerifications, v)
	return nil
}

func (f *fakeRepoDB) PatchContact(_ context.Context, p entity.PatchContact) error {
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return err
	}
	f.patches = append(f.patches, p)
	return nil
}

func (f *fakeRepoDB) UpsertContacts(_ context.Context, contacts []entity.UpsertContact) (int, int, error) {
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return 0, 0, err
	}
	f.upserts = append(f.upserts, contacts...)
	return len(contacts), 0, nil
}

func (f *fakeRepoDB) ArchiveContact(_ context.Context, id int64, _ entity.ContactStatus) error {
	f.archives = append(f.archives, id)
	return nil
}

func (f *fakeRepoDB) VerifyContact(_ context.Context, data entity.VerifyContact) error {
	f.verified = append(f.verified, data)
	return nil
}

func (f *fakeRepoDB) DeleteVerification(_ context.Context, id int64) error {
	f.deletedVerifs = append(f.deletedVerifs, id)
	return nil
}

type fakeRepoMessaging struct {
	created  []ContactCreatedEvent
	archived []ContactArchivedEvent
}

func (f *fakeRepoMessaging) PublishContactCreated(_ context.Context, msg ContactCreatedEvent) error {
	f.created = append(f.created, msg)
	return nil
}

func (f *fakeRepoMessaging) PublishContactArchived(_ context.Context, msg ContactArchivedEvent) error {
	f.archived = append(f.archived, msg)
	return nil
}

type fakeIdempotency struct {
	idempotency.Idempotency
	keys []string
}

func (f *fakeIdempotency) Exec(ctx context.Context, key string, fn func(context.Context) error, _ ...idempotency.Option) error {
	f.keys = append(f.keys, key)
	return fn(ctx)
}

type fakeConfig struct {
	config.Config
}

func (fakeConfig) GetString(key string) string {
	switch key {
	case "modules.directory.export_bucket":
		return "rolodex-exports"
	default:
		return ""
	}
}

func (fakeConfig) GetHour(string) time.Duration   { return 48 * time.Hour }
func (fakeConfig) GetMinute(string) time.Duration { return 15 * time.Minute }

type fakeStorage struct {
	storage.Storage
	bucket string
	key    string
	body   string
}

func (f *fakeStorage) PutObject(_ context.Context, bucket, key string, r io.Reader, _ storage.PutOptions) (storage.ObjectInfo, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return storage.ObjectInfo{}, err
	}
	f.bucket, f.key, f.body = bucket, key, string(b)
	return storage.ObjectInfo{Bucket: bucket, Key: key, Size: int64(len(b))}, nil
}

func (f *fakeStorage) PresignGet(_ context.Context, bucket, key string, _ time.Duration) (string, error) {
	return "https://storage.test/" + bucket + "/" + key, nil
}

type fakeNumberID struct{ next int64 }

func (f *fakeNumberID) Generate() int64 {
	f.next++
	return f.next
}

type fakeStringID struct{ value string }

func (f *fakeStringID) Generate() string { return f.value }

type fakeClock struct{ now time.Time }

func (f fakeClock) Now() time.Time { return f.now }

var _ clock.Clocker = fakeClock{}

type harness struct {
	uc    *Usecase
	repo  *fakeRepoDB
	mq    *fakeRepoMessaging
	idemp *fakeIdempotency
	store *fakeStorage
	hmac  hash.Hash
	now   time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("NewV10Validator() error = %v", err)
	}

	m, err := model.NewModelFromString(testRBACModel)
	if err != nil {
		t.Fatalf("NewModelFromString() error = %v", err)
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}
	if _, err := enforcer.AddPolicy("steward", "directory:contacts", "*"); err != nil {
		t.Fatalf("AddPolicy() error = %v", err)
	}

	h := &harness{
		repo:  &fakeRepoDB{byEmail: map[string]*entity.Contact{}, byID: map[int64]*entity.Contact{}, verifications: map[string]*entity.ContactVerification{}},
		mq:    &fakeRepoMessaging{},
		idemp: &fakeIdempotency{},
		store: &fakeStorage{},
		hmac:  hash.NewHMACSHA256("test-secret"),
		now:   time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC),
	}

	h.uc = New(Dependency{
		RepoDB:        h.repo,
		RepoMessaging: h.mq,
		Idempotency:   h.idemp,
		Validator:     v,
		Rules:         entity.ContactRules(),
		Config:        fakeConfig{},
		Storage:       h.store,
		HMAC:          h.hmac,
		UID:           &fakeNumberID{},
		UUID:          &fakeStringID{value: "0194d9a1-uuid"},
		OID:           &fakeStringID{value: "object-token"},
		Clock:         fakeClock{now: h.now},
		Instrument:    instrument.NewNoop(),
		Enforcer:      enforcer,
	})

	return h
}

func authCtx() context.Context {
	clm := jwt.Claims{UserID: 77, UserEmail: "steward@rolodex.dev"}
	clm.Subject = "steward"
	return jwt.SetAuth(context.Background(), clm)
}

func assertCode(t *testing.T, err error, want goerror.Code) {
	t.Helper()

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("error = %v, want *goerror.Error", err)
	}
	if gerr.Code() != want {
		t.Fatalf("error code = %v, want %v", gerr.Code(), want)
	}
}

func assertStatus(t *testing.T, err error, want int) {
	t.Helper()

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("error = %v, want *goerror.Error", err)
	}
	if gerr.StatusCode() != want {
		t.Fatalf("status = %d, want %d", gerr.StatusCode(), want)
	}
}

func TestContactCreate(t *testing.T) {
	t.Run("rejects address without at sign before any repo call", func(t *testing.T) {
		h := newHarness(t)

		_, err := h.uc.ContactCreate(authCtx(), ContactCreateInput{
			FullName: "Jane Cooper",
			Email:    "jane.example.com",
		})
		assertCode(t, err, goerror.CodeInvalidInput)

		if n := h.repo.mutations(); n != 0 {
			t.Fatalf("repo mutations = %d, want 0", n)
		}
	})

	t.Run("rejects invalid backup address even when primary is valid", func(t *testing.T) {
		h := newHarness(t)

		_, err := h.uc.ContactCreate(authCtx(), ContactCreateInput{
			FullName:    "Jane Cooper",
			Email:       "jane@example.com",
			BackupEmail: "jane.backup",
		})
		assertCode(t, err, goerror.CodeInvalidInput)

		if n := h.repo.mutations(); n != 0 {
			t.Fatalf("repo mutations = %d, want 0", n)
		}
	})

	t.Run("rejects blank full name", func(t *testing.T) {
		h := newHarness(t)

		_, err := h.uc.ContactCreate(authCtx(), ContactCreateInput{
			FullName: "   ",
			Email:    "jane@example.com",
		})
		assertCode(t, err, goerror.CodeInvalidInput)

		if n := h.repo.mutations(); n != 0 {
			t.Fatalf("repo mutations = %d, want 0", n)
		}
	})

	t.Run("requires authentication", func(t *testing.T) {
		h := newHarness(t)

		_, err := h.uc.ContactCreate(context.Background(), ContactCreateInput{
			FullName: "Jane Cooper",
			Email:    "jane@example.com",
		})
		assertCode(t, err, goerror.CodeUnauthorized)
	})

	t.Run("persists normalized values and publishes the event", func(t *testing.T) {
		h := newHarness(t)

		out, err := h.uc.ContactCreate(authCtx(), ContactCreateInput{
			FullName:    "  Jane Cooper  ",
			Email:       "Jane@Example.COM",
			BackupEmail: "JANE.backup@example.com",
		})
		if err != nil {
			t.Fatalf("ContactCreate() error = %v", err)
		}

		if len(h.repo.newContacts) != 1 {
			t.Fatalf("created contacts = %d, want 1", len(h.repo.newContacts))
		}
		got := h.repo.newContacts[0]
		if got.FullName != "Jane Cooper" {
			t.Errorf("FullName = %q, want %q", got.FullName, "Jane Cooper")
		}
		if got.Email != "jane@example.com" {
			t.Errorf("Email = %q, want %q", got.Email, "jane@example.com")
		}
		if got.BackupEmail != "jane.backup@example.com" {
			t.Errorf("BackupEmail = %q, want %q", got.BackupEmail, "jane.backup@example.com")
		}
		if got.Status != entity.ContactStatusPending {
			t.Errorf("Status = %v, want pending", got.Status)
		}
		if out.ContactID != got.ID {
			t.Errorf("ContactID = %d, want %d", out.ContactID, got.ID)
		}

		verif := h.repo.newVerifications[0]
		wantHash, _ := h.hmac.Hash("object-token")
		if verif.Token != string(wantHash) {
			t.Errorf("stored verification token is not the hmac of the issued token")
		}
		if !verif.ExpiresAt.Equal(h.now.Add(48 * time.Hour)) {
			t.Errorf("ExpiresAt = %v, want %v", verif.ExpiresAt, h.now.Add(48*time.Hour))
		}

		if len(h.mq.created) != 1 {
			t.Fatalf("published events = %d, want 1", len(h.mq.created))
		}
		if h.mq.created[0].VerifyToken != "object-token" {
			t.Errorf("event carries token %q, want the plaintext token", h.mq.created[0].VerifyToken)
		}
	})

	t.Run("returns conflict when email is taken", func(t *testing.T) {
		h := newHarness(t)
		h.repo.byEmail["jane@example.com"] = &entity.Contact{ID: 9, Email: "jane@example.com"}

		_, err := h.uc.ContactCreate(authCtx(), ContactCreateInput{
			FullName: "Jane Cooper",
			Email:    "jane@example.com",
		})
		assertCode(t, err, goerror.CodeConflict)

		if n := h.repo.mutations(); n != 0 {
			t.Fatalf("repo mutations = %d, want 0", n)
		}
	})

	t.Run("maps the unique constraint race to conflict", func(t *testing.T) {
		h := newHarness(t)
		h.repo.failNext = goerror.ErrConflict

		_, err := h.uc.ContactCreate(authCtx(), ContactCreateInput{
			FullName: "Jane Cooper",
			Email:    "jane@example.com",
		})
		assertCode(t, err, goerror.CodeConflict)
	})

	t.Run("maps a check constraint rejection to invalid input", func(t *testing.T) {
		h := newHarness(t)
		h.repo.failNext = goerror.ErrInvalid

		_, err := h.uc.ContactCreate(authCtx(), ContactCreateInput{
			FullName: "Jane Cooper",
			Email:    "jane@example.com",
		})
		assertCode(t, err, goerror.CodeInvalidInput)
		assertStatus(t, err, http.StatusUnprocessableEntity)
	})

	t.Run("routes through idempotency when a key is supplied", func(t *testing.T) {
		h := newHarness(t)

		_, err := h.uc.ContactCreate(authCtx(), ContactCreateInput{
			FullName:       "Jane Cooper",
			Email:          "jane@example.com",
			IdempotencyKey: "req-123",
		})
		if err != nil {
			t.Fatalf("ContactCreate() error = %v", err)
		}

		if len(h.idemp.keys) != 1 || h.idemp.keys[0] != "directory:contact_create:req-123" {
			t.Fatalf("idempotency keys = %v", h.idemp.keys)
		}
	})
}

func TestContactUpdate(t *testing.T) {
	existing := func(h *harness) {
		c := &entity.Contact{ID: 5, FullName: "Old Name", Email: "old@example.com", Status: entity.ContactStatusVerified}
		h.repo.byID[5] = c
		h.repo.byEmail["old@example.com"] = c
	}

	t.Run("rejects invalid email before any repo call", func(t *testing.T) {
		h := newHarness(t)
		existing(h)

		err := h.uc.ContactUpdate(authCtx(), ContactUpdateInput{ID: 5, FullName: "New Name", Email: "not-an-address"})
		assertCode(t, err, goerror.CodeInvalidInput)

		if n := h.repo.mutations(); n != 0 {
			t.Fatalf("repo mutations = %d, want 0", n)
		}
	})

	t.Run("patches with normalized values", func(t *testing.T) {
		h := newHarness(t)
		existing(h)

		err := h.uc.ContactUpdate(authCtx(), ContactUpdateInput{ID: 5, FullName: " New Name ", Email: "NEW@Example.com"})
		if err != nil {
			t.Fatalf("ContactUpdate() error = %v", err)
		}

		if len(h.repo.patches) != 1 {
			t.Fatalf("patches = %d, want 1", len(h.repo.patches))
		}
		p := h.repo.patches[0]
		if p.FullName != "New Name" || p.Email != "new@example.com" {
			t.Fatalf("patch = %+v, want normalized values", p)
		}
	})

	t.Run("rejects archived contact", func(t *testing.T) {
		h := newHarness(t)
		h.repo.byID[5] = &entity.Contact{ID: 5, Email: "old@example.com", Status: entity.ContactStatusArchived}

		err := h.uc.ContactUpdate(authCtx(), ContactUpdateInput{ID: 5, FullName: "New Name", Email: "new@example.com"})
		assertCode(t, err, goerror.CodeNotFound)
	})

	t.Run("rejects email owned by another contact", func(t *testing.T) {
		h := newHarness(t)
		existing(h)
		h.repo.byEmail["taken@example.com"] = &entity.Contact{ID: 6, Email: "taken@example.com"}

		err := h.uc.ContactUpdate(authCtx(), ContactUpdateInput{ID: 5, FullName: "New Name", Email: "taken@example.com"})
		assertCode(t, err, goerror.CodeConflict)

		if len(h.repo.patches) != 0 {
			t.Fatalf("patches = %d, want 0", len(h.repo.patches))
		}
	})

	t.Run("maps a check constraint rejection to invalid input", func(t *testing.T) {
		h := newHarness(t)
		existing(h)
		h.repo.failNext = goerror.ErrInvalid

		err := h.uc.ContactUpdate(authCtx(), ContactUpdateInput{ID: 5, FullName: "New Name", Email: "new@example.com"})
		assertCode(t, err, goerror.CodeInvalidInput)
		assertStatus(t, err, http.StatusUnprocessableEntity)
	})
}

func TestContactVerify(t *testing.T) {
	seed := func(h *harness, status entity.ContactStatus, expiresAt time.Time) {
		tokenHash, _ := h.hmac.Hash("the-token")
		h.repo.verifications[string(tokenHash)] = &entity.ContactVerification{
			VerificationID:        11,
			VerificationToken:     string(tokenHash),
			VerificationExpiresAt: expiresAt,
			ContactID:             5,
			ContactEmail:          "jane@example.com",
			ContactStatus:         status,
		}
	}

	t.Run("promotes pending contact to verified", func(t *testing.T) {
		h := newHarness(t)
		seed(h, entity.ContactStatusPending, h.now.Add(time.Hour))

		if err := h.uc.ContactVerify(context.Background(), ContactVerifyInput{Token: "the-token"}); err != nil {
			t.Fatalf("ContactVerify() error = %v", err)
		}

		if len(h.repo.verified) != 1 {
			t.Fatalf("verified = %d, want 1", len(h.repo.verified))
		}
		v := h.repo.verified[0]
		if v.OldStatus != entity.ContactStatusPending || v.NewStatus != entity.ContactStatusVerified {
			t.Fatalf("status transition = %v -> %v", v.OldStatus, v.NewStatus)
		}
	})

	t.Run("unknown token is unauthorized", func(t *testing.T) {
		h := newHarness(t)

		err := h.uc.ContactVerify(context.Background(), ContactVerifyInput{Token: "nope"})
		assertCode(t, err, goerror.CodeUnauthorized)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		h := newHarness(t)
		seed(h, entity.ContactStatusPending, h.now.Add(-time.Minute))

		err := h.uc.ContactVerify(context.Background(), ContactVerifyInput{Token: "the-token"})
		assertCode(t, err, goerror.CodeUnauthorized)
	})

	t.Run("already verified contact just clears the token", func(t *testing.T) {
		h := newHarness(t)
		seed(h, entity.ContactStatusVerified, h.now.Add(time.Hour))

		if err := h.uc.ContactVerify(context.Background(), ContactVerifyInput{Token: "the-token"}); err != nil {
			t.Fatalf("ContactVerify() error = %v", err)
		}

		if len(h.repo.deletedVerifs) != 1 || h.repo.deletedVerifs[0] != 11 {
			t.Fatalf("deleted verifications = %v, want [11]", h.repo.deletedVerifs)
		}
		if len(h.repo.verified) != 0 {
			t.Fatalf("verified = %d, want 0", len(h.repo.verified))
		}
	})

	t.Run("archived contact cannot verify", func(t *testing.T) {
		h := newHarness(t)
		seed(h, entity.ContactStatusArchived, h.now.Add(time.Hour))

		err := h.uc.ContactVerify(context.Background(), ContactVerifyInput{Token: "the-token"})
		assertCode(t, err, goerror.CodeForbidden)
	})
}

func TestContactArchive(t *testing.T) {
	t.Run("archives and publishes", func(t *testing.T) {
		h := newHarness(t)
		h.repo.byID[5] = &entity.Contact{ID: 5, Email: "jane@example.com", Status: entity.ContactStatusVerified}

		if err := h.uc.ContactArchive(authCtx(), ContactArchiveInput{ID: 5, Reason: "left company"}); err != nil {
			t.Fatalf("ContactArchive() error = %v", err)
		}

		if len(h.repo.archives) != 1 || h.repo.archives[0] != 5 {
			t.Fatalf("archives = %v, want [5]", h.repo.archives)
		}
		if len(h.mq.archived) != 1 || h.mq.archived[0].Reason != "left company" {
			t.Fatalf("archived events = %+v", h.mq.archived)
		}
	})

	t.Run("already archived is a no-op", func(t *testing.T) {
		h := newHarness(t)
		h.repo.byID[5] = &entity.Contact{ID: 5, Email: "jane@example.com", Status: entity.ContactStatusArchived}

		if err := h.uc.ContactArchive(authCtx(), ContactArchiveInput{ID: 5}); err != nil {
			t.Fatalf("ContactArchive() error = %v", err)
		}

		if len(h.repo.archives) != 0 {
			t.Fatalf("archives = %v, want none", h.repo.archives)
		}
		if len(h.mq.archived) != 0 {
			t.Fatalf("archived events = %d, want 0", len(h.mq.archived))
		}
	})
}

func TestContactImport(t *testing.T) {
	t.Run("one bad row rejects the whole batch", func(t *testing.T) {
		h := newHarness(t)

		_, err := h.uc.ContactImport(authCtx(), ContactImportInput{Contacts: []ContactImportContactInput{
			{FullName: "Jane Cooper", Email: "jane@example.com"},
			{FullName: "Bad Row", Email: "missing-at-sign"},
		}})
		assertCode(t, err, goerror.CodeInvalidInput)

		if len(h.repo.upserts) != 0 {
			t.Fatalf("upserts = %d, want 0", len(h.repo.upserts))
		}
	})

	t.Run("upserts normalized rows", func(t *testing.T) {
		h := newHarness(t)

		out, err := h.uc.ContactImport(authCtx(), ContactImportInput{Contacts: []ContactImportContactInput{
			{FullName: " Jane Cooper ", Email: "Jane@Example.com"},
			{FullName: "John Moore", Email: "john@example.com", Status: entity.ContactStatusVerified},
		}})
		if err != nil {
			t.Fatalf("ContactImport() error = %v", err)
		}

		if out.Created != 2 {
			t.Fatalf("Created = %d, want 2", out.Created)
		}
		if got := h.repo.upserts[0]; got.FullName != "Jane Cooper" || got.Email != "jane@example.com" {
			t.Fatalf("upsert[0] = %+v, want normalized values", got)
		}
		if h.repo.upserts[0].Status != entity.ContactStatusPending {
			t.Fatalf("default status = %v, want pending", h.repo.upserts[0].Status)
		}
		if h.repo.upserts[1].Status != entity.ContactStatusVerified {
			t.Fatalf("explicit status = %v, want verified", h.repo.upserts[1].Status)
		}
	})

	t.Run("maps a check constraint rejection to invalid input", func(t *testing.T) {
		h := newHarness(t)
		h.repo.failNext = goerror.ErrInvalid

		_, err := h.uc.ContactImport(authCtx(), ContactImportInput{Contacts: []ContactImportContactInput{
			{FullName: "Jane Cooper", Email: "jane@example.com"},
		}})
		assertCode(t, err, goerror.CodeInvalidInput)
		assertStatus(t, err, http.StatusUnprocessableEntity)
	})
}

func TestContactList(t *testing.T) {
	h := newHarness(t)
	h.repo.listContacts = []entity.Contact{{ID: 1}, {ID: 2}}
	h.repo.listTotal = 2

	out, err := h.uc.ContactList(authCtx(), ContactListInput{Size: -3, Statuses: []string{"pending", "bogus"}})
	if err != nil {
		t.Fatalf("ContactList() error = %v", err)
	}

	if out.Size != 10 {
		t.Errorf("Size = %d, want clamped default 10", out.Size)
	}
	if out.Page != 1 {
		t.Errorf("Page = %d, want 1", out.Page)
	}
	if !h.repo.lastFilter.IsFilterByStatus || len(h.repo.lastFilter.Statuses) != 1 {
		t.Errorf("filter statuses = %v, want the single parseable status", h.repo.lastFilter.Statuses)
	}
}

func TestContactExport(t *testing.T) {
	h := newHarness(t)
	h.repo.listContacts = []entity.Contact{
		{ID: 1, FullName: "Jane Cooper", Email: "jane@example.com", Status: entity.ContactStatusVerified},
	}
	h.repo.listTotal = 1

	out, err := h.uc.ContactExport(authCtx(), ContactExportInput{})
	if err != nil {
		t.Fatalf("ContactExport() error = %v", err)
	}

	if h.store.bucket != "rolodex-exports" {
		t.Errorf("bucket = %q, want rolodex-exports", h.store.bucket)
	}
	lines := strings.Split(strings.TrimSpace(h.store.body), "\n")
	if len(lines) != 2 {
		t.Fatalf("csv lines = %d, want header plus one row", len(lines))
	}
	if !strings.HasPrefix(lines[0], "id,full_name,email") {
		t.Errorf("csv header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "jane@example.com") {
		t.Errorf("csv row = %q, want the contact email", lines[1])
	}
	if !strings.HasPrefix(out.URL, "https://storage.test/rolodex-exports/") {
		t.Errorf("URL = %q", out.URL)
	}
	if out.Total != 1 {
		t.Errorf("Total = %d, want 1", out.Total)
	}
	if !out.ExpiresAt.Equal(h.now.Add(15 * time.Minute)) {
		t.Errorf("ExpiresAt = %v", out.ExpiresAt)
	}
}
