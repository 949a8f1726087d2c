package database

import (
	"github.com/robalyx/frost/internal/database/models"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Repository provides access to all database models.
type Repository struct {
	mutes    *models.MuteModel
	settings *models.SettingModel
}

// NewRepository creates a new repository with all models.
func NewRepository(db *bun.DB, logger *zap.Logger) *Repository {
	return &Repository{
		mutes:    models.NewMute(db, logger),
		settings: models.NewSetting(db, logger),
	}
}

// Mute returns the model for active mute records.
func (r *Repository) Mute() *models.MuteModel {
	return r.mutes
}

// Setting returns the model for per-guild settings.
func (r *Repository) Setting() *models.SettingModel {
	return r.settings
}
