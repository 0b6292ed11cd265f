package db

import (
	"gorm.io/gorm/clause"

	"github.com/balkashynov/tranquil/internal/models"
)

// PutMirrorDocument upserts value at path in the local mirror table
func PutMirrorDocument(path string, value float64) error {
	doc := models.MirrorDocument{Path: path, Value: value}
	return DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "path"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&doc).Error
}

// GetMirrorDocuments returns every mirrored document ordered by path
func GetMirrorDocuments() ([]models.MirrorDocument, error) {
	var docs []models.MirrorDocument
	if err := DB.Order("path ASC").Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}
