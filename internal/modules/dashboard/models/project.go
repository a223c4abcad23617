package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/filter"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/widget"
)

// Project groups widgets sharing a default data source, global filters and a theme
type Project struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name                string     `gorm:"type:text;not null" json:"name"`
	DefaultDataSourceID *uuid.UUID `gorm:"type:uuid" json:"default_data_source_id,omitempty"`

	GlobalFilters datatypes.JSON `gorm:"type:jsonb" json:"global_filters,omitempty"` // []filter.Clause
	Theme         datatypes.JSON `gorm:"type:jsonb" json:"theme,omitempty"`          // widget.Theme

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name
func (Project) TableName() string {
	return "chart_projects"
}

// BeforeCreate sets UUID before creating
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// DefaultSourceID is the inherited data source id, "" when unset
func (p *Project) DefaultSourceID() string {
	if p == nil || p.DefaultDataSourceID == nil {
		return ""
	}
	return p.DefaultDataSourceID.String()
}

// Filters decodes the stored global filters
func (p *Project) Filters() ([]filter.Clause, error) {
	if len(p.GlobalFilters) == 0 {
		return nil, nil
	}

	var clauses []filter.Clause
	if err := json.Unmarshal(p.GlobalFilters, &clauses); err != nil {
		return nil, fmt.Errorf("decode global filters of project %s: %w", p.ID, err)
	}
	return clauses, nil
}

// DecodeTheme returns the stored theme, nil when unset
func (p *Project) DecodeTheme() (*widget.Theme, error) {
	if len(p.Theme) == 0 {
		return nil, nil
	}

	var theme widget.Theme
	if err := json.Unmarshal(p.Theme, &theme); err != nil {
		return nil, fmt.Errorf("decode theme of project %s: %w", p.ID, err)
	}
	return &theme, nil
}
