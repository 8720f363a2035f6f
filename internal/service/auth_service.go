package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"contactdesk/internal/domain"
	"contactdesk/internal/email"
	"contactdesk/internal/repository"
)

var (
	ErrInvalidEmail   = errors.New("invalid email")
	ErrCodeInvalid    = errors.New("code invalid")
	ErrCodeUsed       = errors.New("code used")
	ErrCodeExpired    = errors.New("code expired")
	ErrRateLimited    = errors.New("rate limited")
	ErrSessionInvalid = errors.New("session invalid")
)

const codeTTL = 10 * time.Minute

// Modos de entrega reportados por RequestCode.
const (
	DeliveryEmail = "email"
	DeliveryLog   = "log"
)

// AuthService coordina emisión de códigos, canje y ciclo de vida de sesiones.
type AuthService struct {
	logger   *zap.Logger
	users    repository.UserRepository
	codes    repository.LoginCodeRepository
	sessions repository.SessionRepository
	sender   email.Sender
	fallback email.Sender
	limiter  RateLimiter
}

func NewAuthService(
	logger *zap.Logger,
	users repository.UserRepository,
	codes repository.LoginCodeRepository,
	sessions repository.SessionRepository,
	sender email.Sender,
	limiter RateLimiter,
) *AuthService {
	if limiter == nil {
		limiter = NewRequestRateLimiter(codeTTL, 3)
	}
	return &AuthService{
		logger:   logger,
		users:    users,
		codes:    codes,
		sessions: sessions,
		sender:   sender,
		fallback: email.NewLogSender(logger),
		limiter:  limiter,
	}
}

// CodeIssued describe el resultado de RequestCode. El código en sí nunca
// sale en la respuesta.
type CodeIssued struct {
	Delivery  string
	ExpiresAt time.Time
}

// RequestCode crea el usuario si no existe, persiste un código de un solo
// uso y lo entrega. Si la entrega externa falla, degrada al log local en
// lugar de fallar la operación.
func (s *AuthService) RequestCode(ctx context.Context, emailAddr string) (CodeIssued, error) {
	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" || !strings.Contains(emailAddr, "@") {
		return CodeIssued{}, ErrInvalidEmail
	}

	if s.limiter != nil && !s.limiter.Allow(emailAddr) {
		return CodeIssued{}, ErrRateLimited
	}

	if _, err := s.getOrCreateUser(ctx, emailAddr); err != nil {
		return CodeIssued{}, err
	}

	code, err := generateLoginCode()
	if err != nil {
		return CodeIssued{}, err
	}

	now := time.Now().UTC()
	lc := domain.LoginCode{
		ID:        uuid.NewString(),
		Email:     emailAddr,
		Code:      code,
		ExpiresAt: now.Add(codeTTL),
		CreatedAt: now,
	}
	if err := s.codes.Create(ctx, lc); err != nil {
		return CodeIssued{}, err
	}

	delivery := DeliveryLog
	if s.sender != nil {
		if err := s.sender.SendLoginCode(ctx, emailAddr, code, lc.ExpiresAt); err != nil {
			s.logger.Warn("send login code failed, falling back to log",
				zap.Error(err), zap.String("email", emailAddr))
			_ = s.fallback.SendLoginCode(ctx, emailAddr, code, lc.ExpiresAt)
		} else {
			delivery = DeliveryEmail
		}
	} else {
		_ = s.fallback.SendLoginCode(ctx, emailAddr, code, lc.ExpiresAt)
	}

	return CodeIssued{Delivery: delivery, ExpiresAt: lc.ExpiresAt}, nil
}

// VerifyCode canjea un código pendiente y abre una sesión. Los tres
// rechazos (inexistente, usado, vencido) se mantienen distinguibles.
func (s *AuthService) VerifyCode(ctx context.Context, emailAddr, code string) (string, domain.User, error) {
	emailAddr = normalizeEmail(emailAddr)
	code = strings.TrimSpace(code)
	if emailAddr == "" || !strings.Contains(emailAddr, "@") {
		return "", domain.User{}, ErrInvalidEmail
	}
	if !isValidLoginCode(code) {
		return "", domain.User{}, ErrCodeInvalid
	}

	lc, err := s.codes.GetLatest(ctx, emailAddr, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.User{}, ErrCodeInvalid
		}
		return "", domain.User{}, err
	}

	if lc.Consumed() {
		return "", domain.User{}, ErrCodeUsed
	}
	now := time.Now().UTC()
	if lc.Expired(now) {
		return "", domain.User{}, ErrCodeExpired
	}

	// Defensivo: el usuario se crea al solicitar el código, pero si la fila
	// no está se restaura en lugar de dejar el login roto.
	user, err := s.getOrCreateUser(ctx, emailAddr)
	if err != nil {
		return "", domain.User{}, err
	}

	token, err := newSessionToken()
	if err != nil {
		return "", domain.User{}, err
	}
	session := domain.Session{
		Token:      token,
		UserID:     user.ID,
		CreatedAt:  now,
		LastUsedAt: now,
	}
	if err := s.codes.Redeem(ctx, lc.ID, now, session); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Otro canje concurrente ganó la actualización condicional.
			return "", domain.User{}, ErrCodeUsed
		}
		return "", domain.User{}, err
	}

	return token, user, nil
}

// ResolveSession valida un token bearer, refresca last_used_at y devuelve
// la identidad del dueño.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (domain.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.User{}, ErrSessionInvalid
	}

	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrSessionInvalid
		}
		return domain.User{}, err
	}

	if err := s.sessions.Touch(ctx, token, time.Now().UTC()); err != nil {
		s.logger.Warn("session touch failed", zap.Error(err))
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrSessionInvalid
		}
		return domain.User{}, err
	}
	return user, nil
}

// Logout elimina la sesión; borrar un token inexistente no es un error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}

func (s *AuthService) getOrCreateUser(ctx context.Context, emailAddr string) (domain.User, error) {
	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, err
	}

	user = domain.User{
		ID:        uuid.NewString(),
		Email:     emailAddr,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// generateLoginCode devuelve un código decimal uniforme en [100000, 999999].
func generateLoginCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func newSessionToken() (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(tokenBytes), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isValidLoginCode(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
