package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/sneakerhub-api/internal/domain/entity"
	repo "github.com/oksasatya/sneakerhub-api/internal/domain/repository"
	"github.com/oksasatya/sneakerhub-api/pkg/helpers"
	"github.com/oksasatya/sneakerhub-api/pkg/identity"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// memUsers mimics the unique constraints and conditional updates of the users table.
type memUsers struct {
	mu      sync.Mutex
	byID    map[string]*entity.User
	fail    error
	creates int
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[string]*entity.User{}}
}

func clone(u *entity.User) *entity.User {
	c := *u
	if u.OTPExpiration != nil {
		exp := *u.OTPExpiration
		c.OTPExpiration = &exp
	}
	return &c
}

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return fmt.Errorf("%w: users_email_key", repo.ErrDuplicate)
		}
		if existing.Username == u.Username {
			return fmt.Errorf("%w: users_username_key", repo.ErrDuplicate)
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	m.byID[u.ID] = clone(u)
	m.creates++
	return nil
}

func (m *memUsers) find(match func(*entity.User) bool) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	for _, u := range m.byID {
		if match(u) {
			return clone(u), nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	return m.find(func(u *entity.User) bool { return u.ID == id })
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return m.find(func(u *entity.User) bool { return u.Email == email })
}

func (m *memUsers) GetByIdentifier(_ context.Context, identifier string) (*entity.User, error) {
	return m.find(func(u *entity.User) bool { return u.Email == identifier || u.Username == identifier })
}

func (m *memUsers) UsernameExists(_ context.Context, username string) (bool, error) {
	_, err := m.find(func(u *entity.User) bool { return u.Username == username })
	if errors.Is(err, repo.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (m *memUsers) Activate(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok || u.IsActive {
		return nil, repo.ErrNotFound
	}
	u.IsActive = true
	u.OTP = ""
	u.OTPExpiration = nil
	u.UpdatedAt = time.Now()
	return clone(u), nil
}

func (m *memUsers) ReplaceOTP(_ context.Context, id, otpHash string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok || u.IsActive {
		return repo.ErrNotFound
	}
	u.OTP = otpHash
	u.OTPExpiration = &expiresAt
	return nil
}

func (m *memUsers) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

type sentCode struct {
	to, name, code string
	expiresAt      time.Time
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentCode
	err  error
}

func (f *fakeMailer) SendVerificationCode(_ context.Context, to, name, code string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentCode{to: to, name: name, code: code, expiresAt: expiresAt})
	return nil
}

func (f *fakeMailer) last() sentCode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[len(f.sent)-1]
}

type fakeGoogle struct {
	profile *identity.GoogleProfile
	err     error
}

func (f *fakeGoogle) Verify(_ context.Context, _ string) (*identity.GoogleProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	p := *f.profile
	return &p, nil
}

// memSneakers is a minimal sneaker table with a unique slug.
type memSneakers struct {
	mu       sync.Mutex
	rows     map[string]*entity.Sneaker
	lastList repo.SneakerFilter
}

func newMemSneakers() *memSneakers {
	return &memSneakers{rows: map[string]*entity.Sneaker{}}
}

func (m *memSneakers) Create(_ context.Context, s *entity.Sneaker) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.Slug == s.Slug {
			return fmt.Errorf("%w: sneakers_slug_key", repo.ErrDuplicate)
		}
	}
	s.ID = uuid.NewString()
	s.CreatedAt = time.Now()
	c := *s
	m.rows[s.ID] = &c
	return nil
}

func (m *memSneakers) GetByID(_ context.Context, id string) (*entity.Sneaker, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rows[id]; ok {
		c := *r
		return &c, nil
	}
	return nil, repo.ErrNotFound
}

func (m *memSneakers) GetBySlug(_ context.Context, slug string) (*entity.Sneaker, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.Slug == slug {
			c := *r
			return &c, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memSneakers) List(_ context.Context, f repo.SneakerFilter) ([]entity.Sneaker, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastList = f
	var ids map[string]bool
	if f.IDs != nil {
		ids = map[string]bool{}
		for _, id := range f.IDs {
			ids[id] = true
		}
	}
	out := []entity.Sneaker{}
	for _, r := range m.rows {
		if f.Search != "" && !strings.Contains(strings.ToLower(r.Name), strings.ToLower(f.Search)) {
			continue
		}
		if ids != nil && !ids[r.ID] {
			continue
		}
		if f.BrandID != "" && r.BrandID != f.BrandID {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, int64(len(out)), nil
}

func (m *memSneakers) Update(_ context.Context, s *entity.Sneaker) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[s.ID]; !ok {
		return repo.ErrNotFound
	}
	c := *s
	m.rows[s.ID] = &c
	return nil
}

func (m *memSneakers) Delete(_ context.Context, id string) (*entity.Sneaker, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	delete(m.rows, id)
	return r, nil
}

type fakeIndex struct {
	indexed []string
	removed []string
	hits    []string
	err     error
}

func (f *fakeIndex) Index(_ context.Context, s *entity.Sneaker) error {
	f.indexed = append(f.indexed, s.ID)
	return f.err
}

func (f *fakeIndex) Remove(_ context.Context, id string) error {
	f.removed = append(f.removed, id)
	return f.err
}

func (f *fakeIndex) Search(_ context.Context, _ string, _ int) ([]string, error) {
	return f.hits, f.err
}

// memStore is an ObjectStore keeping objects in memory under helpers.PublicURL addresses.
type memStore struct {
	mu        sync.Mutex
	objects   map[string][]byte
	failAfter int // fail the Nth upload (1-based); 0 never fails
	uploads   int
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}}
}

const testBucket = "test-bucket"

func (m *memStore) Upload(_ context.Context, objectPath, _ string, r io.Reader) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploads++
	if m.failAfter > 0 && m.uploads == m.failAfter {
		return "", errors.New("bucket unavailable")
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.objects[objectPath] = b
	return helpers.PublicURL(testBucket, objectPath), nil
}

func (m *memStore) Delete(_ context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := helpers.ObjectPathFromURL(testBucket, url)
	if !ok {
		return helpers.ErrForeignObject
	}
	if _, exists := m.objects[p]; !exists {
		return helpers.ErrObjectNotFound
	}
	delete(m.objects, p)
	return nil
}
