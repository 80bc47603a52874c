// Package invitations owns the team invitation lifecycle: issuing join links,
// validating presented codes and turning an invitation into a membership.
// Every entry point (join page, sign-in carry-over, API) goes through Service.
package invitations

import (
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/charleshuang3/teamjoin/internal/gormw"
	"github.com/charleshuang3/teamjoin/internal/storage"
)

var (
	logger = log.With().Str("component", "invitations").Logger()
)

const (
	defaultExpiry         = 7 * 24 * time.Hour
	defaultCreateAttempts = 3
)

// Option customises Service behaviour.
type Option func(*Service)

// WithExpiry overrides how long a new invitation stays valid.
func WithExpiry(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.expiry = d
		}
	}
}

// WithCreateAttempts bounds the inserts tried when generated codes collide.
func WithCreateAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.createAttempts = n
		}
	}
}

// WithClock injects a custom clock, mostly for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithCodeGenerator replaces NewCode.
func WithCodeGenerator(gen func(time.Time) (string, error)) Option {
	return func(s *Service) {
		if gen != nil {
			s.newCode = gen
		}
	}
}

type Service struct {
	db             *gormw.DB
	expiry         time.Duration
	createAttempts int
	now            func() time.Time
	newCode        func(time.Time) (string, error)
}

func NewService(db *gormw.DB, opts ...Option) *Service {
	s := &Service{
		db:             db,
		expiry:         defaultExpiry,
		createAttempts: defaultCreateAttempts,
		now:            time.Now,
		newCode:        NewCode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// clock returns now in UTC, stored times are compared in a single zone.
func (s *Service) clock() time.Time {
	return s.now().UTC()
}

// Lookup identifies an invitation by one of its codes. LinkCode wins when
// both are set.
type Lookup struct {
	InvitationToken string
	LinkCode        string
}

func (l Lookup) resolve() (storage.CodeField, string, error) {
	if code := normalizeCode(l.LinkCode); code != "" {
		return storage.FieldLinkCode, code, nil
	}
	if token := normalizeCode(l.InvitationToken); token != "" {
		return storage.FieldInvitationToken, token, nil
	}
	return "", "", ErrBadRequest
}

// ShareURL builds the join link handed out to invitees.
func ShareURL(origin, linkCode string) string {
	return strings.TrimRight(origin, "/") + "/join/" + url.PathEscape(linkCode)
}
