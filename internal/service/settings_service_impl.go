package service

import (
	"context"

	"github.com/janmyrvold/fieldmap/internal/repository"
)

type settingsService struct {
	settings repository.SettingsRepo
}

// NewSettingsService wires a SettingsService over the settings repository.
// Settings stay local: they are device preferences and are never enqueued
// for remote sync.
func NewSettingsService(settings repository.SettingsRepo) SettingsService {
	return &settingsService{settings: settings}
}

func (s *settingsService) Get(ctx context.Context, key string) (string, error) {
	return s.settings.Get(ctx, key)
}

func (s *settingsService) GetMany(ctx context.Context, keys []string) (map[string]string, error) {
	return s.settings.GetMany(ctx, keys)
}

func (s *settingsService) Set(ctx context.Context, key, value string) error {
	return s.settings.Set(ctx, key, value)
}

func (s *settingsService) SetMany(ctx context.Context, values map[string]string) error {
	return s.settings.SetMany(ctx, values)
}
