package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/store-service/internal/config"
)

// Mailer is the external email collaborator. Delivery mechanics live
// outside this service; implementations report success or failure and
// callers treat failures as best-effort.
type Mailer interface {
	SendPasswordReset(ctx context.Context, toEmail, toName, resetURL string) error
	SendPasswordChanged(ctx context.Context, toEmail, toName string) error
}

// logMailer is the default Mailer used when no provider is wired. It
// records the send as a log line.
type logMailer struct {
	logger *zap.Logger
	cfg    config.NotificationConfig
}

// NewLogMailer constructs a logging Mailer.
func NewLogMailer(logger *zap.Logger, cfg config.NotificationConfig) Mailer {
	return &logMailer{logger: logger, cfg: cfg}
}

func (m *logMailer) SendPasswordReset(ctx context.Context, toEmail, toName, resetURL string) error {
	m.logger.Info("sendPasswordResetEmail",
		zap.String("from", m.cfg.EmailFrom),
		zap.String("to", toEmail),
		zap.String("name", toName),
	)
	return nil
}

func (m *logMailer) SendPasswordChanged(ctx context.Context, toEmail, toName string) error {
	m.logger.Info("sendPasswordChangedEmail",
		zap.String("from", m.cfg.EmailFrom),
		zap.String("to", toEmail),
		zap.String("name", toName),
	)
	return nil
}
