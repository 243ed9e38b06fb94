package repository

import (
	"gorm.io/gorm"

	"veridoc/internal/model"
)

type InteractionRepository struct {
	db *gorm.DB
}

func NewInteractionRepository(db *gorm.DB) *InteractionRepository {
	return &InteractionRepository{db: db}
}

func (r *InteractionRepository) Create(interaction *model.Interaction) error {
	return r.db.Create(interaction).Error
}

func (r *InteractionRepository) ListRecent(limit int) ([]model.Interaction, error) {
	if limit <= 0 {
		limit = 50
	}
	var interactions []model.Interaction
	err := r.db.Order("created_at DESC").Limit(limit).Find(&interactions).Error
	return interactions, err
}
