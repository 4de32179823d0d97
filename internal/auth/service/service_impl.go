package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/smallbiznis/gardenwatch/internal/auth/domain"
	"github.com/smallbiznis/gardenwatch/internal/auth/password"
	"github.com/smallbiznis/gardenwatch/internal/clock"
	"github.com/smallbiznis/gardenwatch/internal/config"
	obsmetrics "github.com/smallbiznis/gardenwatch/internal/observability/metrics"
	"github.com/smallbiznis/gardenwatch/internal/providers/email"
	dbpkg "github.com/smallbiznis/gardenwatch/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const (
	sessionTokenBytes = 32
	sessionTTL        = 7 * 24 * time.Hour

	verifyTemplate = "verify_email"
)

type Params struct {
	fx.In

	Log              *zap.Logger
	Cfg              config.Config
	Repo             domain.Repository
	SessionRepo      domain.SessionRepository
	VerificationRepo domain.VerificationRepository
	GenID            *snowflake.Node
	Clock            clock.Clock
	Mailer           email.Provider
	Metrics          *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	log              *zap.Logger
	repo             domain.Repository
	sessionRepo      domain.SessionRepository
	verificationRepo domain.VerificationRepository
	genID            *snowflake.Node
	clock            clock.Clock
	mailer           email.Provider
	metrics          *obsmetrics.Metrics

	publicURL          string
	requireVerified    bool
	verificationTTL    time.Duration
	verificationTTLHrs int
}

func New(p Params) domain.Service {
	ttlHours := p.Cfg.Auth.VerificationTTLHours
	if ttlHours <= 0 {
		ttlHours = 24
	}
	return &Service{
		log:                p.Log.Named("auth.service"),
		repo:               p.Repo,
		sessionRepo:        p.SessionRepo,
		verificationRepo:   p.VerificationRepo,
		genID:              p.GenID,
		clock:              p.Clock,
		mailer:             p.Mailer,
		metrics:            p.Metrics,
		publicURL:          strings.TrimRight(p.Cfg.PublicURL, "/"),
		requireVerified:    p.Cfg.Auth.RequireEmailVerification,
		verificationTTL:    time.Duration(ttlHours) * time.Hour,
		verificationTTLHrs: ttlHours,
	}
}

func (s *Service) SignUp(ctx context.Context, req domain.SignUpRequest) (*domain.SignUpResult, error) {
	emailAddr, err := normalizeEmail(req.Email)
	if err != nil {
		s.metrics.RecordSignUp(ctx, "invalid")
		return nil, domain.ErrInvalidEmail
	}
	if len(req.Password) < password.MinLength {
		s.metrics.RecordSignUp(ctx, "invalid")
		return nil, domain.ErrWeakPassword
	}

	existing, err := s.repo.FindByEmail(ctx, emailAddr)
	switch {
	case err == nil && s.requireVerified && !existing.Verified():
		// Signing up again with an unconfirmed address re-sends the link.
		if err := s.issueVerification(ctx, existing); err != nil {
			return nil, err
		}
		s.metrics.RecordSignUp(ctx, "resent")
		return &domain.SignUpResult{User: existing, VerificationRequired: true}, nil
	case err == nil:
		s.metrics.RecordSignUp(ctx, "exists")
		return nil, domain.ErrUserExists
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, err
	}

	user, err := s.createUser(ctx, emailAddr, req.Password, domain.RoleUser, !s.requireVerified)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			s.metrics.RecordSignUp(ctx, "exists")
		}
		return nil, err
	}

	if s.requireVerified {
		if err := s.issueVerification(ctx, user); err != nil {
			return nil, err
		}
	}

	s.metrics.RecordSignUp(ctx, "ok")
	s.log.Info("user signed up", zap.String("user_id", user.ID.String()), zap.Bool("verification_required", s.requireVerified))
	return &domain.SignUpResult{User: user, VerificationRequired: s.requireVerified}, nil
}

func (s *Service) createUser(ctx context.Context, emailAddr, plain, role string, verified bool) (*domain.User, error) {
	hashed, err := password.Hash(plain)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	user := &domain.User{
		ID:           s.genID.Generate(),
		ExternalID:   uuid.NewString(),
		Email:        emailAddr,
		Role:         role,
		PasswordHash: &hashed,
		Metadata:     datatypes.JSONMap{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if verified {
		user.EmailVerifiedAt = &now
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if dbpkg.IsDuplicateKeyErr(err) {
			return nil, domain.ErrUserExists
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) issueVerification(ctx context.Context, user *domain.User) error {
	rawToken, err := newToken()
	if err != nil {
		return err
	}

	now := s.clock.Now()
	record := &domain.EmailVerification{
		ID:        ulid.Make().String(),
		UserID:    user.ID,
		TokenHash: hashToken(rawToken),
		ExpiresAt: now.Add(s.verificationTTL),
		CreatedAt: now,
	}
	if err := s.verificationRepo.CreateVerification(ctx, record); err != nil {
		return err
	}

	verifyURL := s.publicURL + "/verify?token=" + url.QueryEscape(rawToken)
	err = s.mailer.SendTemplate(ctx, []string{user.Email}, verifyTemplate, map[string]any{
		"verify_url":    verifyURL,
		"expires_hours": s.verificationTTLHrs,
	})
	if err != nil {
		s.log.Error("failed to send verification email", zap.String("user_id", user.ID.String()), zap.Error(err))
		return fmt.Errorf("send verification email: %w", err)
	}
	return nil
}

func (s *Service) VerifyEmail(ctx context.Context, rawToken string) (*domain.User, error) {
	token := strings.TrimSpace(rawToken)
	if token == "" {
		return nil, domain.ErrInvalidVerification
	}

	record, err := s.verificationRepo.GetVerificationByTokenHash(ctx, hashToken(token))
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	if record.UsedAt != nil || !now.Before(record.ExpiresAt) {
		return nil, domain.ErrInvalidVerification
	}
	if err := s.verificationRepo.ConsumeVerification(ctx, record, now); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, record.UserID)
	if err != nil {
		return nil, err
	}
	s.log.Info("email verified", zap.String("user_id", user.ID.String()))
	return user, nil
}

func (s *Service) SignIn(ctx context.Context, req domain.SignInRequest) (*domain.SignInResult, error) {
	emailAddr, err := normalizeEmail(req.Email)
	if err != nil || req.Password == "" {
		s.metrics.RecordSignIn(ctx, "invalid_credentials")
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.metrics.RecordSignIn(ctx, "invalid_credentials")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if user.PasswordHash == nil || !password.Verify(req.Password, *user.PasswordHash) {
		s.metrics.RecordSignIn(ctx, "invalid_credentials")
		return nil, domain.ErrInvalidCredentials
	}
	if s.requireVerified && !user.Verified() {
		s.metrics.RecordSignIn(ctx, "unverified")
		return nil, domain.ErrEmailNotVerified
	}

	rawToken, err := newToken()
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	session := &domain.Session{
		ID:               s.genID.Generate(),
		UserID:           user.ID,
		SessionTokenHash: hashToken(rawToken),
		UserAgent:        strings.TrimSpace(req.UserAgent),
		IPAddress:        strings.TrimSpace(req.IPAddress),
		ExpiresAt:        now.Add(sessionTTL),
		CreatedAt:        now,
		LastSeenAt:       now,
	}
	if err := s.sessionRepo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	s.metrics.RecordSignIn(ctx, "ok")
	return &domain.SignInResult{
		UserID:    user.ID,
		Email:     user.Email,
		RawToken:  rawToken,
		ExpiresAt: session.ExpiresAt,
		SessionID: session.ID,
	}, nil
}

func (s *Service) SignOut(ctx context.Context, rawToken string) error {
	token := strings.TrimSpace(rawToken)
	if token == "" {
		return domain.ErrInvalidSession
	}

	session, err := s.sessionRepo.GetSessionByTokenHash(ctx, hashToken(token))
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return domain.ErrInvalidSession
		}
		return err
	}
	if session.RevokedAt != nil {
		return nil
	}
	return s.sessionRepo.RevokeSession(ctx, session.ID, s.clock.Now())
}

func (s *Service) Authenticate(ctx context.Context, rawToken string) (*domain.Session, *domain.User, error) {
	token := strings.TrimSpace(rawToken)
	if token == "" {
		return nil, nil, domain.ErrInvalidSession
	}

	session, err := s.sessionRepo.GetSessionByTokenHash(ctx, hashToken(token))
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, nil, domain.ErrInvalidSession
		}
		return nil, nil, err
	}

	now := s.clock.Now()
	if session.RevokedAt != nil {
		return nil, nil, domain.ErrSessionRevoked
	}
	if !now.Before(session.ExpiresAt) {
		return nil, nil, domain.ErrSessionExpired
	}

	user, err := s.repo.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil, domain.ErrInvalidSession
		}
		return nil, nil, err
	}

	if err := s.sessionRepo.UpdateLastSeen(ctx, session.ID, now); err != nil {
		return nil, nil, err
	}
	session.LastSeenAt = now
	return session, user, nil
}

func (s *Service) EnsureAdmin(ctx context.Context, emailRaw, plain string) (*domain.User, error) {
	emailAddr, err := normalizeEmail(emailRaw)
	if err != nil {
		return nil, domain.ErrInvalidEmail
	}

	existing, err := s.repo.FindByEmail(ctx, emailAddr)
	if err == nil {
		if existing.Role == domain.RoleAdmin {
			return existing, nil
		}
		now := s.clock.Now()
		if err := s.repo.UpdateFields(ctx, existing.ID, map[string]any{"role": domain.RoleAdmin, "updated_at": now}); err != nil {
			return nil, err
		}
		existing.Role = domain.RoleAdmin
		s.log.Info("user promoted to admin", zap.String("user_id", existing.ID.String()))
		return existing, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	if len(plain) < password.MinLength {
		return nil, domain.ErrWeakPassword
	}
	user, err := s.createUser(ctx, emailAddr, plain, domain.RoleAdmin, true)
	if err != nil {
		return nil, err
	}
	s.log.Info("admin user created", zap.String("user_id", user.ID.String()))
	return user, nil
}

func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(addr.Address)), nil
}

func newToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
