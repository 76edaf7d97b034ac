package repository

import (
	"context"
	"fmt"

	"f3-data-api/internal/domain"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type StatsRepository interface {
	CountOrgsByType(ctx context.Context, orgType string) (int64, error)
	CountEvents(ctx context.Context) (int64, error)
}

type postgresStatsRepository struct {
	db *gorm.DB
}

func NewPostgresStatsRepository(db *gorm.DB) *postgresStatsRepository {
	return &postgresStatsRepository{db: db}
}

// CountOrgsByType counts orgs whose org_type equals orgType exactly.
func (r *postgresStatsRepository) CountOrgsByType(ctx context.Context, orgType string) (int64, error) {
	var count int64
	err := r.withSession(ctx, func(tx *gorm.DB) error {
		return tx.Model(&domain.Org{}).Where("org_type = ?", orgType).Count(&count).Error
	})
	if err != nil {
		log.WithError(err).WithField("org_type", orgType).Error("Failed to count orgs")
		return 0, err
	}

	log.WithFields(log.Fields{
		"org_type": orgType,
		"count":    count,
	}).Debug("Counted orgs")
	return count, nil
}

func (r *postgresStatsRepository) CountEvents(ctx context.Context) (int64, error) {
	var count int64
	err := r.withSession(ctx, func(tx *gorm.DB) error {
		return tx.Model(&domain.Event{}).Count(&count).Error
	})
	if err != nil {
		log.WithError(err).Error("Failed to count events")
		return 0, err
	}

	log.WithField("count", count).Debug("Counted events")
	return count, nil
}

// withSession runs fn on a connection checked out for this call only; the
// connection goes back to the pool whether fn succeeds, fails or panics.
// Driver failures are wrapped with domain.ErrDatabase.
func (r *postgresStatsRepository) withSession(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if err := r.db.WithContext(ctx).Connection(fn); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDatabase, err)
	}
	return nil
}
