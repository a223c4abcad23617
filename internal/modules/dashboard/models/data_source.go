package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/filter"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/pipeline"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/transform"
)

// DataSource is a tabular row set charts are computed from.
// RowVersion changes whenever Rows change.
type DataSource struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ProjectID  uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`
	Name       string    `gorm:"type:text;not null" json:"name"`
	RowVersion string    `gorm:"type:text;not null" json:"row_version"`

	Rows           datatypes.JSON `gorm:"type:jsonb" json:"rows,omitempty"`            // []filter.Row
	TransformRules datatypes.JSON `gorm:"type:jsonb" json:"transform_rules,omitempty"` // []transform.Rule

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name
func (DataSource) TableName() string {
	return "chart_data_sources"
}

// BeforeCreate sets UUID before creating
func (d *DataSource) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// Rules decodes the stored transform rules
func (d *DataSource) Rules() ([]transform.Rule, error) {
	if len(d.TransformRules) == 0 {
		return nil, nil
	}

	var rules []transform.Rule
	if err := json.Unmarshal(d.TransformRules, &rules); err != nil {
		return nil, fmt.Errorf("decode transform rules of data source %s: %w", d.ID, err)
	}
	return rules, nil
}

// Ref identifies the rows and transformation currently stored
func (d *DataSource) Ref() (pipeline.SourceRef, error) {
	rules, err := d.Rules()
	if err != nil {
		return pipeline.SourceRef{}, err
	}
	return pipeline.SourceRef{
		ID:                 d.ID.String(),
		RowVersion:         d.RowVersion,
		TransformRulesHash: transform.Hash(rules),
	}, nil
}

// SourceData decodes rows and rules for the worker host
func (d *DataSource) SourceData() (*pipeline.SourceData, error) {
	rules, err := d.Rules()
	if err != nil {
		return nil, err
	}

	var rows []filter.Row
	if len(d.Rows) > 0 {
		if err := json.Unmarshal(d.Rows, &rows); err != nil {
			return nil, fmt.Errorf("decode rows of data source %s: %w", d.ID, err)
		}
	}
	return &pipeline.SourceData{Rows: rows, Rules: rules}, nil
}
