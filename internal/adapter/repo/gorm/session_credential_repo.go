package gormrepo

import (
	"context"
	"errors"
	"time"

	"vexal/internal/adapter/repo/gorm/model"
	"vexal/internal/app/ports"

	"gorm.io/gorm"
)

type SessionCredentialRepo struct {
	db *gorm.DB
}

func NewSessionCredentialRepo(db *gorm.DB) SessionCredentialRepo {
	return SessionCredentialRepo{db: db}
}

func (r SessionCredentialRepo) Create(ctx context.Context, credential ports.SessionCredentialRecord) error {
	row := model.SessionCredential{
		SessionID: credential.SessionID,
		KeySalt:   credential.KeySalt,
		KeyHash:   credential.KeyHash,
		Status:    credential.Status,
		CreatedAt: credential.CreatedAt,
		UpdatedAt: time.Now().UTC(),
	}
	if err := getDBFromCtx(ctx, r.db).WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return ports.ErrConflict
		}
		return err
	}
	return nil
}

func (r SessionCredentialRepo) GetBySessionID(ctx context.Context, sessionID string) (ports.SessionCredentialRecord, error) {
	var row model.SessionCredential
	if err := getDBFromCtx(ctx, r.db).WithContext(ctx).Where(&model.SessionCredential{SessionID: sessionID}).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.SessionCredentialRecord{}, ports.ErrNotFound
		}
		return ports.SessionCredentialRecord{}, err
	}
	return ports.SessionCredentialRecord{
		SessionID: row.SessionID,
		KeySalt:   row.KeySalt,
		KeyHash:   row.KeyHash,
		Status:    row.Status,
		CreatedAt: row.CreatedAt,
	}, nil
}
