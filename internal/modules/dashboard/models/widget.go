package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/widget"
)

// Widget is a stored chart on a project dashboard
type Widget struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ProjectID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"project_id"`
	DataSourceID *uuid.UUID `gorm:"type:uuid" json:"data_source_id,omitempty"` // Falls back to the project default
	ElementID    string     `gorm:"type:text" json:"element_id,omitempty"`     // Layout element the chart renders into
	Title        string     `gorm:"type:text" json:"title"`
	Position     int        `gorm:"type:integer;not null;default:0" json:"position"`

	Spec datatypes.JSON `gorm:"type:jsonb;not null" json:"spec"` // widget.Spec

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name
func (Widget) TableName() string {
	return "chart_widgets"
}

// BeforeCreate sets UUID before creating
func (w *Widget) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// SourceID is the explicit data source id, "" when the widget inherits the project default
func (w *Widget) SourceID() string {
	if w.DataSourceID == nil {
		return ""
	}
	return w.DataSourceID.String()
}

// DecodeSpec returns the stored widget spec; the row title wins over the spec title
func (w *Widget) DecodeSpec() (widget.Spec, error) {
	var spec widget.Spec
	if err := json.Unmarshal(w.Spec, &spec); err != nil {
		return spec, fmt.Errorf("decode spec of widget %s: %w", w.ID, err)
	}
	if spec.ID == "" {
		spec.ID = w.ID.String()
	}
	if w.Title != "" {
		spec.Title = w.Title
	}
	return spec, nil
}
