package domain

import (
	"github.com/fundwit/go-commons/types"
)

// The three taxonomy entities share the same shape: a named,
// described, active-flagged catalog entry.

type SkillType struct {
	ID          types.ID        `json:"id" gorm:"primary_key"`
	Name        string          `json:"name" gorm:"unique_index"`
	Description *string         `json:"description" gorm:"type:varchar(200)"`
	Active      bool            `json:"active"`
	CreateTime  types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

type ProjectType struct {
	ID          types.ID        `json:"id" gorm:"primary_key"`
	Name        string          `json:"name" gorm:"unique_index"`
	Description *string         `json:"description" gorm:"type:varchar(200)"`
	Active      bool            `json:"active"`
	CreateTime  types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

type ProjectStatus struct {
	ID          types.ID        `json:"id" gorm:"primary_key"`
	Name        string          `json:"name" gorm:"unique_index"`
	Description *string         `json:"description" gorm:"type:varchar(200)"`
	Active      bool            `json:"active"`
	CreateTime  types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}
