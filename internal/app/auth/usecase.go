package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"log/slog"
	"strings"
	"time"

	"vexal/internal/app/ports"
	"vexal/internal/domain/gameclock"
	"vexal/internal/domain/lore"
	"vexal/internal/domain/session"
)

const (
	CredentialStatusActive = "active"

	registerAttempts = 3
)

var (
	ErrInvalidRequest     = errors.New("invalid auth request")
	ErrInvalidCredentials = errors.New("invalid session credentials")
)

type RegisterRequest struct{}

type RegisterResponse struct {
	SessionID  string `json:"session_id"`
	SessionKey string `json:"session_key"`
	IssuedAt   string `json:"issued_at"`
}

type VerifyRequest struct {
	SessionID  string
	SessionKey string
}

type RegisterUseCase struct {
	Credentials ports.SessionCredentialRepository
	StateRepo   ports.SessionStateRepository
	TxManager   ports.TxManager
	Clock       gameclock.Config
	SeedLore    lore.Book
	Now         func() time.Time
}

type VerifyUseCase struct {
	Credentials ports.SessionCredentialRepository
}

// Execute issues a new session id and key and seeds the default game state
// in the same transaction. Id collisions are retried.
func (u RegisterUseCase) Execute(ctx context.Context, _ RegisterRequest) (RegisterResponse, error) {
	if u.Credentials == nil || u.StateRepo == nil || u.TxManager == nil {
		return RegisterResponse{}, ErrInvalidRequest
	}
	nowFn := u.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	now := nowFn().UTC()

	for i := 0; i < registerAttempts; i++ {
		sessionID, err := newSessionID(now)
		if err != nil {
			return RegisterResponse{}, err
		}
		sessionKey, err := randomToken(32)
		if err != nil {
			return RegisterResponse{}, err
		}
		salt, err := randomBytes(16)
		if err != nil {
			return RegisterResponse{}, err
		}
		hash := credentialHash(salt, sessionKey)

		err = u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
			if err := u.Credentials.Create(txCtx, ports.SessionCredentialRecord{
				SessionID: sessionID,
				KeySalt:   salt,
				KeyHash:   hash,
				Status:    CredentialStatusActive,
				CreatedAt: now,
			}); err != nil {
				return err
			}
			seed := session.New(sessionID, u.Clock, u.SeedLore, now)
			return u.StateRepo.SaveWithVersion(txCtx, seed, 0)
		})
		if errors.Is(err, ports.ErrConflict) {
			slog.Warn("session id collision, retrying", "attempt", i+1)
			continue
		}
		if err != nil {
			return RegisterResponse{}, err
		}
		slog.Info("session registered", "session_id", sessionID)
		return RegisterResponse{
			SessionID:  sessionID,
			SessionKey: sessionKey,
			IssuedAt:   now.Format(time.RFC3339),
		}, nil
	}

	return RegisterResponse{}, ports.ErrConflict
}

func (u VerifyUseCase) Execute(ctx context.Context, req VerifyRequest) error {
	req.SessionID = strings.TrimSpace(req.SessionID)
	req.SessionKey = strings.TrimSpace(req.SessionKey)
	if req.SessionID == "" || req.SessionKey == "" || u.Credentials == nil {
		return ErrInvalidRequest
	}

	cred, err := u.Credentials.GetBySessionID(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return err
	}
	if cred.Status != CredentialStatusActive {
		return ErrInvalidCredentials
	}

	got := credentialHash(cred.KeySalt, req.SessionKey)
	if subtle.ConstantTimeCompare(got, cred.KeyHash) != 1 {
		return ErrInvalidCredentials
	}
	return nil
}

func credentialHash(salt []byte, key string) []byte {
	b := make([]byte, 0, len(salt)+len(key))
	b = append(b, salt...)
	b = append(b, key...)
	sum := sha256.Sum256(b)
	return sum[:]
}

func newSessionID(now time.Time) (string, error) {
	randPart, err := randomToken(9)
	if err != nil {
		return "", err
	}
	return "ses_" + now.Format("20060102") + "_" + randPart, nil
}

func randomToken(n int) (string, error) {
	b, err := randomBytes(n)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}
