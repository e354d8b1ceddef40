package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/prasetyoadi/rolodex/internal/journal/entity"
	"github.com/prasetyoadi/rolodex/internal/pkg/clock"
	"github.com/prasetyoadi/rolodex/internal/pkg/config"
	"github.com/prasetyoadi/rolodex/internal/pkg/goerror"
	"github.com/prasetyoadi/rolodex/internal/pkg/instrument"
	"github.com/prasetyoadi/rolodex/internal/pkg/jwt"
	"github.com/prasetyoadi/rolodex/internal/pkg/mail"
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
	entries    []entity.CreateEntry
	listResult []entity.Entry
	listTotal  int64
	lastFilter entity.EntryListFilterData
	failNext   error
}

func (f *fakeRepoDB) CreateEntry(_ context.Context, data entity.CreateEntry) error {
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return err
	}
	f.entries = append(f.entries, data)
	return nil
}

func (f *fakeRepoDB) GetEntryList(_ context.Context, filter entity.EntryListFilterData) ([]entity.Entry, int64, error) {
	f.lastFilter = filter
	return f.listResult, f.listTotal, nil
}

type fakeRepoMail struct {
	messages []mail.Message
}

func (f *fakeRepoMail) Send(_ context.Context, msg mail.Message) error {
	f.messages = append(f.messages, msg)
	return nil
}

type fakeConfig struct {
	config.Config
}

func (fakeConfig) GetString(key string) string {
	switch key {
	case "app.name":
		return "Rolodex"
	case "app.web":
		return "https://rolodex.dev"
	default:
		return ""
	}
}

type fakeNumberID struct{ next int64 }

func (f *fakeNumberID) Generate() int64 {
	f.next++
	return f.next
}

type fakeClock struct{ now time.Time }

func (f fakeClock) Now() time.Time { return f.now }

var _ clock.Clocker = fakeClock{}

type harness struct {
	uc   *Usecase
	repo *fakeRepoDB
	mail *fakeRepoMail
	now  time.Time
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
	if _, err := enforcer.AddPolicy("steward", "journal:entries", "*"); err != nil {
		t.Fatalf("AddPolicy() error = %v", err)
	}

	h := &harness{
		repo: &fakeRepoDB{},
		mail: &fakeRepoMail{},
		now:  time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC),
	}

	h.uc = New(Dependency{
		RepoDB:     h.repo,
		RepoMail:   h.mail,
		Config:     fakeConfig{},
		UID:        &fakeNumberID{},
		Clock:      fakeClock{now: h.now},
		Validator:  v,
		Instrument: instrument.NewNoop(),
		Enforcer:   enforcer,
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

func TestConsumeContactCreated(t *testing.T) {
	t.Run("records entry and sends verification email", func(t *testing.T) {
		h := newHarness(t)

		err := h.uc.ConsumeContactCreated(context.Background(), ConsumeContactCreatedInput{
			ContactID:   42,
			FullName:    "Jane Cooper",
			Email:       "jane@example.com",
			VerifyToken: "tok en+value",
		})
		if err != nil {
			t.Fatalf("ConsumeContactCreated() error = %v", err)
		}

		if len(h.repo.entries) != 1 {
			t.Fatalf("entries = %d, want 1", len(h.repo.entries))
		}
		entry := h.repo.entries[0]
		if entry.ContactID != 42 || entry.Action != entity.EntryActionContactCreated {
			t.Fatalf("entry = %+v", entry)
		}
		if entry.Payload["email"] != "jane@example.com" {
			t.Fatalf("payload email = %v", entry.Payload["email"])
		}

		if len(h.mail.messages) != 1 {
			t.Fatalf("mail messages = %d, want 1", len(h.mail.messages))
		}
		msg := h.mail.messages[0]
		if msg.To[0] != "jane@example.com" {
			t.Fatalf("mail to = %v", msg.To)
		}
		if msg.Subject != "Please verify your contact address" {
			t.Fatalf("mail subject = %q", msg.Subject)
		}
		if !strings.Contains(msg.HTMLBody, "https://rolodex.dev/verify-contact?token=tok+en%2Bvalue") {
			t.Fatalf("mail body missing escaped verify url: %s", msg.HTMLBody)
		}
		if !strings.Contains(msg.HTMLBody, "Jane Cooper") || !strings.Contains(msg.HTMLBody, "Rolodex") {
			t.Fatalf("mail body missing template data: %s", msg.HTMLBody)
		}
	})

	t.Run("drops unparseable payload without touching store", func(t *testing.T) {
		h := newHarness(t)

		err := h.uc.ConsumeContactCreated(context.Background(), ConsumeContactCreatedInput{
			ContactID:   42,
			FullName:    "Jane Cooper",
			Email:       "jane.example.com",
			VerifyToken: "tok",
		})
		if err != nil {
			t.Fatalf("ConsumeContactCreated() error = %v, want nil for invalid input", err)
		}

		if len(h.repo.entries) != 0 {
			t.Fatalf("entries = %d, want 0", len(h.repo.entries))
		}
		if len(h.mail.messages) != 0 {
			t.Fatalf("mail messages = %d, want 0", len(h.mail.messages))
		}
	})

	t.Run("propagates store failure for redelivery", func(t *testing.T) {
		h := newHarness(t)
		h.repo.failNext = errors.New("connection reset")

		err := h.uc.ConsumeContactCreated(context.Background(), ConsumeContactCreatedInput{
			ContactID:   42,
			FullName:    "Jane Cooper",
			Email:       "jane@example.com",
			VerifyToken: "tok",
		})
		if err == nil {
			t.Fatal("ConsumeContactCreated() error = nil, want store error")
		}
		if len(h.mail.messages) != 0 {
			t.Fatalf("mail messages = %d, want 0 after store failure", len(h.mail.messages))
		}
	})
}

func TestConsumeContactArchived(t *testing.T) {
	t.Run("records entry with reason", func(t *testing.T) {
		h := newHarness(t)

		err := h.uc.ConsumeContactArchived(context.Background(), ConsumeContactArchivedInput{
			ContactID: 42,
			Email:     "jane@example.com",
			Reason:    "left the company",
		})
		if err != nil {
			t.Fatalf("ConsumeContactArchived() error = %v", err)
		}

		if len(h.repo.entries) != 1 {
			t.Fatalf("entries = %d, want 1", len(h.repo.entries))
		}
		entry := h.repo.entries[0]
		if entry.Action != entity.EntryActionContactArchived {
			t.Fatalf("action = %v, want archived", entry.Action)
		}
		if entry.Payload["reason"] != "left the company" {
			t.Fatalf("payload reason = %v", entry.Payload["reason"])
		}
		if len(h.mail.messages) != 0 {
			t.Fatalf("mail messages = %d, want 0", len(h.mail.messages))
		}
	})

	t.Run("drops payload without contact id", func(t *testing.T) {
		h := newHarness(t)

		err := h.uc.ConsumeContactArchived(context.Background(), ConsumeContactArchivedInput{
			Email: "jane@example.com",
		})
		if err != nil {
			t.Fatalf("ConsumeContactArchived() error = %v, want nil for invalid input", err)
		}
		if len(h.repo.entries) != 0 {
			t.Fatalf("entries = %d, want 0", len(h.repo.entries))
		}
	})
}

func TestEntryList(t *testing.T) {
	t.Run("requires authentication", func(t *testing.T) {
		h := newHarness(t)

		_, err := h.uc.EntryList(context.Background(), EntryListInput{})
		assertCode(t, err, goerror.CodeUnauthorized)
	})

	t.Run("clamps size and applies filters", func(t *testing.T) {
		h := newHarness(t)
		h.repo.listResult = []entity.Entry{{ID: 1, ContactID: 42, Action: entity.EntryActionContactCreated}}
		h.repo.listTotal = 1

		out, err := h.uc.EntryList(authCtx(), EntryListInput{
			ContactID: 42,
			Action:    "contact_created",
			Size:      500,
		})
		if err != nil {
			t.Fatalf("EntryList() error = %v", err)
		}

		if out.Size != 10 || out.Page != 1 || out.Total != 1 {
			t.Fatalf("output meta = %+v", out)
		}
		f := h.repo.lastFilter
		if !f.IsFilterByContact || f.ContactID != 42 {
			t.Fatalf("contact filter = %+v", f)
		}
		if !f.IsFilterByAction || f.Action != int16(entity.EntryActionContactCreated) {
			t.Fatalf("action filter = %+v", f)
		}
	})

	t.Run("widens the upper date bound to the end of the day", func(t *testing.T) {
		h := newHarness(t)

		day := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
		if _, err := h.uc.EntryList(authCtx(), EntryListInput{From: day, To: day}); err != nil {
			t.Fatalf("EntryList() error = %v", err)
		}

		f := h.repo.lastFilter
		if !f.IsFilterByFrom || !f.From.Equal(day) {
			t.Fatalf("from filter = %+v", f)
		}
		if !f.IsFilterByTo || !f.To.Equal(day.AddDate(0, 0, 1)) {
			t.Fatalf("to filter = %+v", f)
		}
	})

	t.Run("ignores unknown action name", func(t *testing.T) {
		h := newHarness(t)

		if _, err := h.uc.EntryList(authCtx(), EntryListInput{Action: "contact_renamed"}); err != nil {
			t.Fatalf("EntryList() error = %v", err)
		}
		if h.repo.lastFilter.IsFilterByAction {
			t.Fatalf("filter = %+v, want no action filter", h.repo.lastFilter)
		}
	})
}

func TestStreamEntries(t *testing.T) {
	t.Run("delivers published entries to subscribers", func(t *testing.T) {
		h := newHarness(t)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		ch := h.uc.StreamEntries(ctx)

		err := h.uc.ConsumeContactCreated(context.Background(), ConsumeContactCreatedInput{
			ContactID:   42,
			FullName:    "Jane Cooper",
			Email:       "jane@example.com",
			VerifyToken: "tok",
		})
		if err != nil {
			t.Fatalf("ConsumeContactCreated() error = %v", err)
		}

		select {
		case evt := <-ch:
			if evt.ContactID != 42 || evt.Action != "ContactCreated" {
				t.Fatalf("event = %+v", evt)
			}
			if !evt.CreatedAt.Equal(h.now) {
				t.Fatalf("event time = %v, want %v", evt.CreatedAt, h.now)
			}
		case <-time.After(time.Second):
			t.Fatal("no stream event received")
		}
	})

	t.Run("closes channel when context ends", func(t *testing.T) {
		h := newHarness(t)

		ctx, cancel := context.WithCancel(context.Background())
		ch := h.uc.StreamEntries(ctx)
		cancel()

		select {
		case _, ok := <-ch:
			if ok {
				t.Fatal("expected closed channel")
			}
		case <-time.After(time.Second):
			t.Fatal("channel not closed after cancel")
		}
	})

	t.Run("publishing races with subscriber teardown safely", func(t *testing.T) {
		h := newHarness(t)

		evt := StreamEvent{ID: 1, ContactID: 42, Action: "ContactCreated"}

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 200 {
				h.uc.publishEntry(evt)
			}
		}()

		for range 50 {
			ctx, cancel := context.WithCancel(context.Background())
			ch := h.uc.StreamEntries(ctx)
			cancel()
			for range ch {
			}
		}
		wg.Wait()
	})
}
