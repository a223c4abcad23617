package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/modules/dashboard/models"
)

type DataSourceRepo interface {
	GetHeader(id string) (*models.DataSource, error) // Everything but rows
	GetByID(id string) (*models.DataSource, error)
}

type dataSourceRepo struct {
	db *gorm.DB
}

func NewDataSourceRepo(db *gorm.DB) DataSourceRepo {
	return &dataSourceRepo{db: db}
}

func (r *dataSourceRepo) GetHeader(id string) (*models.DataSource, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: data source %q", ErrInvalidID, id)
	}

	var source models.DataSource
	err = r.db.
		Select("id", "project_id", "name", "row_version", "transform_rules", "created_at", "updated_at").
		First(&source, "id = ?", uid).Error
	if err != nil {
		return nil, err
	}
	return &source, nil
}

func (r *dataSourceRepo) GetByID(id string) (*models.DataSource, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: data source %q", ErrInvalidID, id)
	}

	var source models.DataSource
	if err := r.db.First(&source, "id = ?", uid).Error; err != nil {
		return nil, err
	}
	return &source, nil
}
