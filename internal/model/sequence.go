package model

// Sequence backs per-project hierarchy ID numbering. One row per
// (project, scope); the value is incremented inside the creation
// transaction, never derived from sibling counts, so two concurrent
// creators cannot observe the same number.
type Sequence struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProjectID uint   `gorm:"not null;uniqueIndex:uk_project_scope" json:"project_id"`
	Scope     string `gorm:"type:varchar(64);not null;uniqueIndex:uk_project_scope" json:"scope"`
	Value     int64  `gorm:"not null;default:0" json:"value"`
}

func (Sequence) TableName() string { return "sequences" }
