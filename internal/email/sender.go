package email

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sender define la interfaz para entrega de códigos de acceso.
type Sender interface {
	SendLoginCode(ctx context.Context, toEmail string, code string, expiresAt time.Time) error
}

// LogSender escribe el código en el log en lugar de enviarlo. Es la ruta de
// entrega cuando no hay SMTP configurado o cuando el envío real falla.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) SendLoginCode(_ context.Context, toEmail string, code string, expiresAt time.Time) error {
	s.logger.Info("login code issued",
		zap.String("email", toEmail),
		zap.String("code", code),
		zap.Time("expires_at", expiresAt),
	)
	return nil
}
