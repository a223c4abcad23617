package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/modules/dashboard/models"
)

type WidgetRepo interface {
	GetByID(id string) (*models.Widget, error)
	ListByProject(projectID string) ([]models.Widget, error)
}

type widgetRepo struct {
	db *gorm.DB
}

func NewWidgetRepo(db *gorm.DB) WidgetRepo {
	return &widgetRepo{db: db}
}

func (r *widgetRepo) GetByID(id string) (*models.Widget, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: widget %q", ErrInvalidID, id)
	}

	var w models.Widget
	if err := r.db.First(&w, "id = ?", uid).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

// ListByProject returns the project's widgets in layout order
func (r *widgetRepo) ListByProject(projectID string) ([]models.Widget, error) {
	uid, err := uuid.Parse(projectID)
	if err != nil {
		return nil, fmt.Errorf("%w: project %q", ErrInvalidID, projectID)
	}

	var widgets []models.Widget
	err = r.db.Where("project_id = ?", uid).Order("position ASC, created_at ASC").Find(&widgets).Error
	if err != nil {
		return nil, err
	}
	return widgets, nil
}
