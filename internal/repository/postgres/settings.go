package postgres

import (
	"context"
	"errors"

	domainSettings "github.com/netbill/netbill/internal/domain/settings"
	ierr "github.com/netbill/netbill/internal/errors"
	"github.com/netbill/netbill/internal/logger"
	"github.com/netbill/netbill/internal/postgres"
	"gorm.io/gorm"
)

type settingsRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

// NewSettingsRepository creates a repository for the singleton settings row.
func NewSettingsRepository(client postgres.IClient, logger *logger.Logger) domainSettings.Repository {
	return &settingsRepository{client: client, logger: logger}
}

// Get returns the settings row, seeding the default row on first access.
func (r *settingsRepository) Get(ctx context.Context) (*domainSettings.Settings, error) {
	var s domainSettings.Settings
	err := r.client.Querier(ctx).
		Where("singleton = ?", domainSettings.SingletonID).
		First(&s).Error
	if err == nil {
		return &s, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ierr.WithError(err).
			WithHint("Failed to load settings").
			Mark(ierr.ErrDatabase)
	}

	r.logger.Infow("settings row missing, seeding defaults")
	defaults := domainSettings.Default()
	if err := r.client.Querier(ctx).Create(defaults).Error; err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to seed default settings").
			Mark(ierr.ErrDatabase)
	}
	return defaults, nil
}

func (r *settingsRepository) Update(ctx context.Context, s *domainSettings.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}

	s.Singleton = domainSettings.SingletonID
	result := r.client.Querier(ctx).Model(&domainSettings.Settings{}).
		Where("singleton = ?", domainSettings.SingletonID).
		Select("*").Omit("singleton").
		Updates(s)
	if result.Error != nil {
		return ierr.WithError(result.Error).
			WithHint("Failed to update settings").
			Mark(ierr.ErrDatabase)
	}
	if result.RowsAffected == 0 {
		if err := r.client.Querier(ctx).Create(s).Error; err != nil {
			return ierr.WithError(err).
				WithHint("Failed to create settings row").
				Mark(ierr.ErrDatabase)
		}
	}
	return nil
}
