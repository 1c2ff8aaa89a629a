package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/store-service/internal/auth"
	"github.com/spec-kit/store-service/internal/config"
	"github.com/spec-kit/store-service/internal/domain"
	"github.com/spec-kit/store-service/internal/events"
	"github.com/spec-kit/store-service/internal/repository"
	apperrors "github.com/spec-kit/store-service/pkg/util"
)

// GenericResetMessage is returned for every forgot-password request so
// responses never reveal whether an account exists.
const GenericResetMessage = "If an account with that email exists, a password reset link has been sent."

// RequestMeta carries caller metadata for audit records.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// AuthService coordinates login and the password reset lifecycle.
type AuthService struct {
	users      repository.UserRepository
	audits     repository.AuditRepository
	access     *auth.AccessControl
	dispatcher events.Dispatcher
	tokenMgr   *auth.TokenManager
	logger     *zap.Logger

	bcryptCost     int
	minPasswordLen int
	resetTTL       time.Duration
	resetURLBase   string
}

// AuthDependencies encapsulates collaborator requirements for auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	AuditRepo  repository.AuditRepository
	Access     *auth.AccessControl
	Dispatcher events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:          deps.UserRepo,
		audits:         deps.AuditRepo,
		access:         deps.Access,
		dispatcher:     deps.Dispatcher,
		tokenMgr:       auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		logger:         logger,
		bcryptCost:     cfg.Auth.BcryptCost,
		minPasswordLen: cfg.Auth.MinPasswordLength,
		resetTTL:       cfg.Auth.ResetTokenTTL(),
		resetURLBase:   cfg.Notification.ResetURLBase,
	}
}

// Login authenticates an account and issues a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	if !user.Active() {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("account suspended")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	token, exp, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return user, token, exp, nil
}

// RequestPasswordReset issues a time-boxed reset token for the account
// behind email. Unknown addresses return nil without any write, so the
// caller's response is identical either way. A new token overwrites any
// prior one; concurrent requests race at the storage layer and the last
// writer wins.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string, meta RequestMeta) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			s.logger.Info("password reset requested for unknown email", zap.String("ip", meta.IP))
			return nil
		}
		return apperrors.NewInternalError(err)
	}

	token, err := auth.GenerateSecureToken(auth.DefaultTokenBytes)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	expiresAt := time.Now().Add(s.resetTTL)

	if err := s.users.SetResetToken(ctx, user.ID, token, expiresAt); err != nil {
		return apperrors.NewInternalError(err)
	}

	resetURL := fmt.Sprintf("%s?token=%s", s.resetURLBase, token)
	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventPasswordResetRequested,
		UserID:    user.ID,
		Timestamp: time.Now(),
		Payload: events.PasswordResetRequestedPayload{
			Email:    user.Email,
			Name:     user.Name,
			ResetURL: resetURL,
		},
	})

	s.audit(ctx, &domain.AuditEntry{
		UserID:    user.ID,
		Action:    domain.AuditPasswordResetRequested,
		TableName: "users",
		RecordID:  user.ID,
		NewValues: map[string]any{"reset_token_expires_at": expiresAt},
		IPAddress: meta.IP,
		UserAgent: meta.UserAgent,
	})

	return nil
}

// ValidateResetToken is a read-only probe: it resolves the account for a
// token and checks the expiry window without mutating anything.
func (s *AuthService) ValidateResetToken(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, apperrors.NewValidationError("invalid token", nil)
	}

	user, err := s.users.GetByResetToken(ctx, token)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewValidationError("invalid token", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}
	if user.ResetTokenExpires == nil {
		return nil, apperrors.NewValidationError("invalid token", nil)
	}
	if time.Now().After(*user.ResetTokenExpires) {
		return nil, apperrors.NewExpired("expired token")
	}
	return user, nil
}

// CompleteReset consumes a valid token and updates the credential. The
// token is only cleared after the credential update succeeds, so a
// failed update leaves it usable for a retry. Bookkeeping failures after
// the credential update are logged, never surfaced.
func (s *AuthService) CompleteReset(ctx context.Context, token, newPassword string, meta RequestMeta) (*domain.User, error) {
	if len(newPassword) < s.minPasswordLen {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("password must be at least %d characters", s.minPasswordLen), nil)
	}

	user, err := s.ValidateResetToken(ctx, token)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	if err := s.users.ClearResetToken(ctx, user.ID, time.Now()); err != nil {
		s.logger.Error("failed to clear reset token after password update",
			zap.String("user_id", user.ID), zap.Error(err))
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventPasswordResetCompleted,
		UserID:    user.ID,
		Timestamp: time.Now(),
		Payload: events.PasswordResetCompletedPayload{
			Email: user.Email,
			Name:  user.Name,
		},
	})

	s.audit(ctx, &domain.AuditEntry{
		UserID:    user.ID,
		Action:    domain.AuditPasswordResetCompleted,
		TableName: "users",
		RecordID:  user.ID,
		NewValues: map[string]any{"password_changed": true},
		IPAddress: meta.IP,
		UserAgent: meta.UserAgent,
	})

	return user, nil
}

// AdminResetPassword lets an admin set a target's password directly,
// without a token. Preconditions run in order and any failure performs
// no mutation: admin check, target existence, admin-on-admin
// escalation, store match (waived for super_admin actors).
func (s *AuthService) AdminResetPassword(ctx context.Context, actor *domain.User, targetID, newPassword string, sendEmail bool, meta RequestMeta) (*domain.User, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if !s.access.CheckAdminPermissions(ctx, actor.ID) {
		return nil, apperrors.NewForbidden("admin rights required")
	}
	if len(newPassword) < s.minPasswordLen {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("password must be at least %d characters", s.minPasswordLen), nil)
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": targetID})
		}
		return nil, apperrors.NewInternalError(err)
	}

	if actor.Role == domain.RoleAdmin && target.Role == domain.RoleAdmin && actor.ID != target.ID {
		return nil, apperrors.NewForbidden("admins cannot reset another admin's password")
	}
	if actor.Role != domain.RoleSuperAdmin && actor.ID != target.ID {
		if actor.StoreID == nil || target.StoreID == nil || *actor.StoreID != *target.StoreID {
			return nil, apperrors.NewForbidden("target outside caller's store")
		}
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if err := s.users.UpdatePassword(ctx, target.ID, hash); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if err := s.users.StampPasswordChanged(ctx, target.ID, time.Now()); err != nil {
		s.logger.Error("failed to stamp password change",
			zap.String("user_id", target.ID), zap.Error(err))
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventPasswordResetAdmin,
		UserID:    target.ID,
		Timestamp: time.Now(),
		Payload: events.PasswordResetAdminPayload{
			Email:     target.Email,
			Name:      target.Name,
			AdminID:   actor.ID,
			SendEmail: sendEmail,
		},
	})

	s.audit(ctx, &domain.AuditEntry{
		UserID:    actor.ID,
		Action:    domain.AuditPasswordResetAdmin,
		TableName: "users",
		RecordID:  target.ID,
		NewValues: map[string]any{"password_changed": true, "target_user_id": target.ID},
		IPAddress: meta.IP,
		UserAgent: meta.UserAgent,
	})

	return target, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Error("event publish failed", zap.String("type", string(event.Type)), zap.Error(err))
	}
}

func (s *AuthService) audit(ctx context.Context, entry *domain.AuditEntry) {
	if s.audits == nil {
		return
	}
	if err := s.audits.Record(ctx, entry); err != nil {
		s.logger.Error("audit write failed", zap.String("action", string(entry.Action)), zap.Error(err))
	}
}
