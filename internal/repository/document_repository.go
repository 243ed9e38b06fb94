package repository

import (
	"gorm.io/gorm"

	"veridoc/internal/model"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(record *model.DocumentRecord) error {
	return r.db.Create(record).Error
}

func (r *DocumentRepository) GetByID(id string) (*model.DocumentRecord, error) {
	var record model.DocumentRecord
	err := r.db.Where("id = ?", id).First(&record).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *DocumentRepository) List(limit int) ([]model.DocumentRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	var records []model.DocumentRecord
	err := r.db.Order("created_at DESC").Limit(limit).Find(&records).Error
	return records, err
}
