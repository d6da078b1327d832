package service

import (
	"context"
	"time"

	"github.com/netbill/netbill/internal/domain/settings"
	gocache "github.com/patrickmn/go-cache"
)

const (
	settingsCacheKey = "settings"
	settingsCacheTTL = 30 * time.Second
)

// SettingsService fronts the settings row with a short-lived cache. The
// sweeps read settings every minute; the cache keeps that off the database
// while still picking up edits within the TTL.
type SettingsService interface {
	Get(ctx context.Context) (*settings.Settings, error)
	Update(ctx context.Context, set *settings.Settings) (*settings.Settings, error)
}

type settingsService struct {
	ServiceParams
	cache *gocache.Cache
}

func NewSettingsService(params ServiceParams) SettingsService {
	return &settingsService{
		ServiceParams: params,
		cache:         gocache.New(settingsCacheTTL, time.Minute),
	}
}

func (s *settingsService) Get(ctx context.Context) (*settings.Settings, error) {
	// hand out copies so callers can stage edits without touching the cache
	if cached, ok := s.cache.Get(settingsCacheKey); ok {
		set := *(cached.(*settings.Settings))
		return &set, nil
	}

	set, err := s.SettingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(settingsCacheKey, set)
	out := *set
	return &out, nil
}

func (s *settingsService) Update(ctx context.Context, set *settings.Settings) (*settings.Settings, error) {
	if err := set.Validate(); err != nil {
		return nil, err
	}
	if err := s.SettingsRepo.Update(ctx, set); err != nil {
		return nil, err
	}
	s.cache.Delete(settingsCacheKey)

	s.Logger.Infow("settings updated",
		"wa_enabled", set.WAEnabled,
		"auto_reminder_enabled", set.AutoReminderEnabled,
		"reminder_time", set.ReminderTime)
	return set, nil
}
