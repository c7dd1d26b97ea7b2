package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/codelens/internal/phoneauth/entity"
	"github.com/shandysiswandi/codelens/internal/pkg/clock"
	"github.com/shandysiswandi/codelens/internal/pkg/config"
	"github.com/shandysiswandi/codelens/internal/pkg/goerror"
	"github.com/shandysiswandi/codelens/internal/pkg/instrument"
	"github.com/shandysiswandi/codelens/internal/pkg/validator"
)

var errStorage = errors.New("connection reset by peer")

type memStore struct {
	mu       sync.Mutex
	otps     map[string]entity.OTP
	profiles map[string]*entity.Profile

	upsertErr  error
	consumeErr error
	profileErr error
	enableErr  error
}

func newMemStore() *memStore {
	return &memStore{otps: map[string]entity.OTP{}, profiles: map[string]*entity.Profile{}}
}

func (m *memStore) addProfile(p entity.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.ID] = &p
}

func (m *memStore) otp(phone string) (entity.OTP, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.otps[phone]
	return o, ok
}

func (m *memStore) UpsertOTP(_ context.Context, in entity.OTP) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.otps[in.PhoneNumber] = in
	return nil
}

func (m *memStore) ConsumeOTP(_ context.Context, phone, code string, now time.Time) (*entity.OTP, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.consumeErr != nil {
		return nil, m.consumeErr
	}
	o, ok := m.otps[phone]
	if !ok || o.Code != code || !o.LiveAt(now) {
		return nil, goerror.ErrNotFound
	}
	delete(m.otps, phone)
	return &o, nil
}

func (m *memStore) DeleteExpiredOTP(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k, o := range m.otps {
		if !o.LiveAt(now) {
			delete(m.otps, k)
			n++
		}
	}
	return n, nil
}

func (m *memStore) GetProfileByMobileNumber(_ context.Context, phone string) (*entity.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.profileErr != nil {
		return nil, m.profileErr
	}
	for _, p := range m.profiles {
		if p.MobileNumber == phone {
			cp := *p
			return &cp, nil
		}
	}
	return nil, goerror.ErrNotFound
}

func (m *memStore) EnableProfileOTP(_ context.Context, userID, phone string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.enableErr != nil {
		return m.enableErr
	}
	if p, ok := m.profiles[userID]; ok {
		p.MobileNumber = phone
		p.OTPEnabled = true
	}
	return nil
}

func (m *memStore) DisableProfileOTP(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.profiles[userID]; ok {
		p.OTPEnabled = false
	}
	return nil
}

type fakeIdentity struct {
	emails    []string
	tokenErr  error
	updateErr error
	updated   map[string]string
}

func (f *fakeIdentity) GenerateRecoveryToken(_ context.Context, email string) (string, error) {
	if f.tokenErr != nil {
		return "", f.tokenErr
	}
	f.emails = append(f.emails, email)
	return "recovery-token-for-" + email, nil
}

func (f *fakeIdentity) UpdateCredential(_ context.Context, token, password string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if f.updated == nil {
		f.updated = map[string]string{}
	}
	f.updated[token] = password
	return nil
}

type smsCall struct{ phone, code string }

type fakeSMS struct {
	calls []smsCall
	err   error
}

func (f *fakeSMS) SendOTP(_ context.Context, phone, code string) error {
	f.calls = append(f.calls, smsCall{phone: phone, code: code})
	return f.err
}

type codeSeq struct {
	codes []string
	err   error
}

func (c *codeSeq) Generate() (string, error) {
	if c.err != nil {
		return "", c.err
	}
	code := c.codes[0]
	if len(c.codes) > 1 {
		c.codes = c.codes[1:]
	}
	return code, nil
}

type seqID struct{ n int64 }

func (s *seqID) Generate() int64 {
	s.n++
	return s.n
}

type harness struct {
	uc       *Usecase
	store    *memStore
	identity *fakeIdentity
	sms      *fakeSMS
	codes    *codeSeq
	clock    *clock.Fixed
}

var testNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newHarness(t *testing.T, codes ...string) *harness {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte("modules:\n  phoneauth:\n    otp_ttl_seconds: 300\n"))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("validator: %v", err)
	}
	if len(codes) == 0 {
		codes = []string{"482913"}
	}

	h := &harness{
		store:    newMemStore(),
		identity: &fakeIdentity{},
		sms:      &fakeSMS{},
		codes:    &codeSeq{codes: codes},
		clock:    clock.NewFixed(testNow),
	}
	h.uc = New(Dependency{
		RepoOTP:      h.store,
		RepoProfile:  h.store,
		RepoIdentity: h.identity,
		RepoSMS:      h.sms,
		Code:         h.codes,
		UID:          &seqID{},
		Clock:        h.clock,
		Config:       cfg,
		Validator:    v,
		Instrument:   instrument.NewNoop(),
	})

	return h
}

func assertGoError(t *testing.T, err error, wantMsg string, wantStatus int) {
	t.Helper()

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("error = %v (%T), want *goerror.Error", err, err)
	}
	if gerr.Msg() != wantMsg {
		t.Fatalf("Msg() = %q, want %q", gerr.Msg(), wantMsg)
	}
	if gerr.StatusCode() != wantStatus {
		t.Fatalf("StatusCode() = %d, want %d", gerr.StatusCode(), wantStatus)
	}
}
