package domain

import "errors"

// Database errors
var (
	ErrDatabase = errors.New("database error")
)

// Org types
const (
	OrgTypeRegion = "region"
)

// Org is a row of the externally owned orgs table.
type Org struct {
	ID      int64  `gorm:"column:id;primaryKey" json:"id"`
	OrgType string `gorm:"column:org_type;not null" json:"org_type"`
}

func (Org) TableName() string {
	return "orgs"
}

// Event is a row of the externally owned events table.
type Event struct {
	ID int64 `gorm:"column:id;primaryKey" json:"id"`
}

func (Event) TableName() string {
	return "events"
}
