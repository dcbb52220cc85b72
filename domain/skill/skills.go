package skill

import (
	"errors"
	"strings"

	"projman/bizerror"
	"projman/domain"
	"projman/idgen"
	"projman/persistence"
	"projman/repository"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	idWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	skillRepo     = repository.Repo[domain.Skill]{}
	skillTypeRepo = repository.Repo[domain.SkillType]{}

	QuerySkillsFunc           = QuerySkills
	FindSkillFunc             = FindSkill
	CreateSkillFunc           = CreateSkill
	UpdateSkillFunc           = UpdateSkill
	UpdateSkillActiveFunc     = UpdateSkillActive
	DeleteSkillFunc           = DeleteSkill
	FindActiveSkillByNameFunc = FindActiveSkillByName
)

type SkillCreation struct {
	Name        string   `json:"name" binding:"required,lte=100"`
	Description *string  `json:"description" binding:"omitempty,lte=500"`
	TypeID      types.ID `json:"typeId" binding:"required"`
}

type SkillUpdating struct {
	Name        *string   `json:"name" binding:"omitempty,lte=100"`
	Description *string   `json:"description" binding:"omitempty,lte=500"`
	TypeID      *types.ID `json:"typeId"`
}

type SkillQuery struct {
	Active bool
	TypeID *types.ID
}

func QuerySkills(q SkillQuery) ([]domain.Skill, error) {
	db := persistence.ActiveDataSourceManager.GormDB()
	query := db.Preload("Type").Order("id ASC").Where("active = ?", q.Active)
	if q.TypeID != nil {
		query = query.Where("type_id = ?", *q.TypeID)
	}
	records := []domain.Skill{}
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func FindSkill(id types.ID) (*domain.Skill, error) {
	db := persistence.ActiveDataSourceManager.GormDB()
	var record domain.Skill
	if err := db.Preload("Type").Where("id = ?", id).First(&record).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, bizerror.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func CreateSkill(c SkillCreation) (*domain.Skill, error) {
	if strings.TrimSpace(c.Name) == "" {
		return nil, &bizerror.ErrBadParam{Cause: errors.New("skill name must not be blank")}
	}

	record := domain.Skill{ID: idgen.NextID(idWorker), Name: c.Name, Description: c.Description,
		TypeID: c.TypeID, Active: true, CreateTime: types.CurrentTimestamp()}
	err := persistence.ActiveDataSourceManager.GormDB().Transaction(func(tx *gorm.DB) error {
		used, err := skillRepo.ExistsByName(tx, c.Name)
		if err != nil {
			return err
		}
		if used {
			return &bizerror.ErrConflict{Message: "a skill named '" + c.Name + "' already exists"}
		}

		typeFound, err := skillTypeRepo.ExistsByID(tx, c.TypeID)
		if err != nil {
			return err
		}
		if !typeFound {
			return &bizerror.ErrBadParam{Cause: errors.New("skill type " + c.TypeID.String() + " not found")}
		}

		return skillRepo.Save(tx, &record)
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func UpdateSkill(id types.ID, u SkillUpdating) (*domain.Skill, error) {
	err := persistence.ActiveDataSourceManager.GormDB().Transaction(func(tx *gorm.DB) error {
		existing, err := skillRepo.FindByID(tx, id)
		if err != nil {
			return err
		}

		changes := map[string]interface{}{}
		if u.Name != nil {
			if strings.TrimSpace(*u.Name) == "" {
				return &bizerror.ErrBadParam{Cause: errors.New("skill name must not be blank")}
			}
			if *u.Name != existing.Name {
				used, err := skillRepo.ExistsByName(tx, *u.Name)
				if err != nil {
					return err
				}
				if used {
					return &bizerror.ErrConflict{Message: "a skill named '" + *u.Name + "' already exists"}
				}
			}
			changes["name"] = *u.Name
		}
		if u.Description != nil {
			changes["description"] = *u.Description
		}
		if u.TypeID != nil {
			typeFound, err := skillTypeRepo.ExistsByID(tx, *u.TypeID)
			if err != nil {
				return err
			}
			if !typeFound {
				return &bizerror.ErrBadParam{Cause: errors.New("skill type " + u.TypeID.String() + " not found")}
			}
			changes["type_id"] = *u.TypeID
		}
		if len(changes) == 0 {
			return nil
		}
		return skillRepo.Updates(tx, id, changes)
	})
	if err != nil {
		return nil, err
	}
	return FindSkill(id)
}

// UpdateSkillActive flips the active flag only, it never touches
// associations.
func UpdateSkillActive(id types.ID, active bool) (*domain.Skill, error) {
	err := persistence.ActiveDataSourceManager.GormDB().Transaction(func(tx *gorm.DB) error {
		return skillRepo.Updates(tx, id, map[string]interface{}{"active": active})
	})
	if err != nil {
		return nil, err
	}
	return FindSkill(id)
}

func DeleteSkill(id types.ID) error {
	return persistence.ActiveDataSourceManager.GormDB().Transaction(func(tx *gorm.DB) error {
		record, err := skillRepo.FindByID(tx, id)
		if err != nil {
			return err
		}

		referencing, err := QueryProjectNamesBySkill(tx, id)
		if err != nil {
			return err
		}
		if len(referencing) > 0 {
			return &bizerror.ErrConflict{
				Message:    "skill '" + record.Name + "' is referenced by existing projects",
				References: referencing,
			}
		}

		return skillRepo.Delete(tx, id)
	})
}

// QueryProjectNamesBySkill lists the names of projects whose required-skill
// set contains the given skill.
func QueryProjectNamesBySkill(db *gorm.DB, skillID types.ID) ([]string, error) {
	records := []domain.Project{}
	err := db.Model(&domain.Project{}).
		Joins("JOIN project_skills ON project_skills.project_id = projects.id").
		Where("project_skills.skill_id = ?", skillID).
		Order("projects.id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	names := []string{}
	for _, r := range records {
		names = append(names, r.Name)
	}
	return names, nil
}

// FindActiveSkillByName resolves a catalog skill by case-insensitive name
// match among active records. A miss is (nil, nil), not an error.
func FindActiveSkillByName(name string) (*domain.Skill, error) {
	db := persistence.ActiveDataSourceManager.GormDB()
	var record domain.Skill
	err := db.Preload("Type").Where("LOWER(name) = LOWER(?) AND active = ?", name, true).First(&record).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}
