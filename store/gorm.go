package store

import (
	"context"
	"errors"
	"time"

	"proposalcard-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Gorm is the SQL-backed Store. Requires a *gorm.DB opened with
// TranslateError so duplicate-key errors surface as gorm.ErrDuplicatedKey.
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func (s *Gorm) Insert(ctx context.Context, p *models.Proposal) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateSlug
		}
		return err
	}
	return nil
}

func (s *Gorm) GetBySlug(ctx context.Context, slug string) (*models.Proposal, error) {
	var p models.Proposal
	if err := s.db.WithContext(ctx).Where("unique_slug = ?", slug).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Gorm) GetByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
	var p models.Proposal
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Gorm) CompleteResponse(ctx context.Context, id uuid.UUID, status, message string, at time.Time) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.Proposal{}).
		Where("id = ? AND status = ?", id, models.StatusPending).
		Updates(map[string]interface{}{
			"status":           status,
			"response_message": message,
			"responded_at":     at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
