package domain

import (
	"github.com/fundwit/go-commons/types"
)

type Skill struct {
	ID   types.ID `json:"id" gorm:"primary_key"`
	Name string   `json:"name" gorm:"unique_index"`

	Description *string `json:"description" gorm:"type:varchar(500)"`

	TypeID types.ID   `json:"typeId" gorm:"not null"`
	Type   *SkillType `json:"type,omitempty" gorm:"foreignkey:TypeID"`

	Active bool `json:"active"`

	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}
