package domain

import (
	"github.com/fundwit/go-commons/types"
	"github.com/shopspring/decimal"
)

type Project struct {
	ID   types.ID `json:"id" gorm:"primary_key"`
	Name string   `json:"name" gorm:"unique_index"`

	TypeID *types.ID    `json:"typeId"`
	Type   *ProjectType `json:"type,omitempty" gorm:"foreignkey:TypeID"`

	Description *string `json:"description" gorm:"type:varchar(1000)"`

	StatusID types.ID       `json:"statusId" gorm:"not null"`
	Status   *ProjectStatus `json:"status,omitempty" gorm:"foreignkey:StatusID"`

	Budget    *decimal.Decimal `json:"budget" gorm:"type:decimal(15,2)"`
	StartDate *string          `json:"startDate" gorm:"type:date"`
	EndDate   *string          `json:"endDate" gorm:"type:date"`
	Area      *string          `json:"area"`

	Active bool `json:"active"`

	RequiredSkills []Skill `json:"requiredSkills" gorm:"many2many:project_skills"`

	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}
