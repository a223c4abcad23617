package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/modules/dashboard/models"
)

type ProjectRepo interface {
	GetByID(id string) (*models.Project, error)
}

type projectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) ProjectRepo {
	return &projectRepo{db: db}
}

func (r *projectRepo) GetByID(id string) (*models.Project, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: project %q", ErrInvalidID, id)
	}

	var project models.Project
	if err := r.db.First(&project, "id = ?", uid).Error; err != nil {
		return nil, err
	}
	return &project, nil
}
