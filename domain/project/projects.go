package project

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
	"github.com/shopspring/decimal"
	"github.com/sony/sonyflake"
)

var (
	idWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	projectRepo = repository.Repo[domain.Project]{}
	statusRepo  = repository.Repo[domain.ProjectStatus]{}
	typeRepo    = repository.Repo[domain.ProjectType]{}

	CreateProjectFunc       = CreateProject
	UpdateProjectFunc       = UpdateProject
	UpdateProjectActiveFunc = UpdateProjectActive
	DeleteProjectFunc       = DeleteProject

	FindProjectFunc = FindProject
)

type ProjectCreation struct {
	Name        string           `json:"name" binding:"required,lte=200"`
	TypeID      *types.ID        `json:"typeId"`
	Description *string          `json:"description" binding:"omitempty,lte=1000"`
	StatusID    types.ID         `json:"statusId" binding:"required"`
	Budget      *decimal.Decimal `json:"budget"`
	StartDate   *string          `json:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate     *string          `json:"endDate" binding:"omitempty,datetime=2006-01-02"`
	Area        *string          `json:"area" binding:"omitempty,lte=100"`
	SkillIDs    []types.ID       `json:"skillIds"`
}

type ProjectUpdating struct {
	Name        *string          `json:"name" binding:"omitempty,lte=200"`
	TypeID      *types.ID        `json:"typeId"`
	Description *string          `json:"description" binding:"omitempty,lte=1000"`
	StatusID    *types.ID        `json:"statusId"`
	Budget      *decimal.Decimal `json:"budget"`
	StartDate   *string          `json:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate     *string          `json:"endDate" binding:"omitempty,datetime=2006-01-02"`
	Area        *string          `json:"area" binding:"omitempty,lte=100"`
	SkillIDs    *[]types.ID      `json:"skillIds"`
}

func FindProject(id types.ID) (*domain.Project, error) {
	db := persistence.ActiveDataSourceManager.GormDB()
	var record domain.Project
	err := db.Preload("Type").Preload("Status").
		Preload("RequiredSkills").Preload("RequiredSkills.Type").
		Where("id = ?", id).First(&record).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, bizerror.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

type projectQuery struct {
	active   bool
	statusID *types.ID
	page     *int
	size     int
}

func queryProjects(q projectQuery) ([]domain.Project, error) {
	db := persistence.ActiveDataSourceManager.GormDB()
	query := db.Preload("Type").Preload("Status").
		Preload("RequiredSkills").Preload("RequiredSkills.Type").
		Order("id ASC")
	if q.page == nil {
		query = query.Where("active = ?", q.active)
	}
	if q.statusID != nil {
		query = query.Where("status_id = ?", *q.statusID)
	}
	if q.page != nil {
		page, size := *q.page, q.size
		if page < 0 {
			page = 0
		}
		if size <= 0 {
			size = 10
		}
		query = query.Offset(page * size).Limit(size)
	}
	records := []domain.Project{}
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func CreateProject(c ProjectCreation) (*domain.Project, error) {
	if strings.TrimSpace(c.Name) == "" {
		return nil, &bizerror.ErrBadParam{Cause: errors.New("project name must not be blank")}
	}

	record := domain.Project{ID: idgen.NextID(idWorker), Name: c.Name, TypeID: c.TypeID,
		Description: c.Description, StatusID: c.StatusID, Budget: c.Budget,
		StartDate: c.StartDate, EndDate: c.EndDate, Area: c.Area,
		Active: true, CreateTime: types.CurrentTimestamp()}

	err := persistence.ActiveDataSourceManager.GormDB().Transaction(func(tx *gorm.DB) error {
		used, err := projectRepo.ExistsByName(tx, c.Name)
		if err != nil {
			return err
		}
		if used {
			return &bizerror.ErrConflict{Message: "a project named '" + c.Name + "' already exists"}
		}

		if err := checkStatusRef(tx, c.StatusID); err != nil {
			return err
		}
		if c.TypeID != nil {
			if err := checkTypeRef(tx, *c.TypeID); err != nil {
				return err
			}
		}
		skills, err := resolveSkillRefs(tx, c.SkillIDs)
		if err != nil {
			return err
		}

		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		if len(skills) > 0 {
			if err := tx.Model(&record).Association("RequiredSkills").Replace(skills).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FindProject(record.ID)
}

func UpdateProject(id types.ID, u ProjectUpdating) (*domain.Project, error) {
	err := persistence.ActiveDataSourceManager.GormDB().Transaction(func(tx *gorm.DB) error {
		var existing domain.Project
		if err := tx.Where("id = ?", id).First(&existing).Error; err != nil {
			if gorm.IsRecordNotFoundError(err) {
				return bizerror.ErrNotFound
			}
			return err
		}

		changes := map[string]interface{}{}
		if u.Name != nil {
			if strings.TrimSpace(*u.Name) == "" {
				return &bizerror.ErrBadParam{Cause: errors.New("project name must not be blank")}
			}
			if *u.Name != existing.Name {
				used, err := projectRepo.ExistsByName(tx, *u.Name)
				if err != nil {
					return err
				}
				if used {
					return &bizerror.ErrConflict{Message: "a project named '" + *u.Name + "' already exists"}
				}
			}
			changes["name"] = *u.Name
		}
		if u.StatusID != nil {
			if err := checkStatusRef(tx, *u.StatusID); err != nil {
				return err
			}
			changes["status_id"] = *u.StatusID
		}
		if u.TypeID != nil {
			if err := checkTypeRef(tx, *u.TypeID); err != nil {
				return err
			}
			changes["type_id"] = *u.TypeID
		}
		if u.Description != nil {
			changes["description"] = *u.Description
		}
		if u.Budget != nil {
			changes["budget"] = *u.Budget
		}
		if u.StartDate != nil {
			changes["start_date"] = *u.StartDate
		}
		if u.EndDate != nil {
			changes["end_date"] = *u.EndDate
		}
		if u.Area != nil {
			changes["area"] = *u.Area
		}

		if len(changes) > 0 {
			if err := tx.Model(&domain.Project{}).Where("id = ?", id).Updates(changes).Error; err != nil {
				return err
			}
		}

		if u.SkillIDs != nil {
			skills, err := resolveSkillRefs(tx, *u.SkillIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(&existing).Association("RequiredSkills").Replace(skills).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FindProject(id)
}

// UpdateProjectActive flips the active flag only. Enable and disable are
// both valid from either state, and neither touches the skill
// associations.
func UpdateProjectActive(id types.ID, active bool) (*domain.Project, error) {
	err := persistence.ActiveDataSourceManager.GormDB().Transaction(func(tx *gorm.DB) error {
		return projectRepo.Updates(tx, id, map[string]interface{}{"active": active})
	})
	if err != nil {
		return nil, err
	}
	return FindProject(id)
}

// DeleteProject removes the project for good. Skill associations are
// cleared first so that no join rows are left dangling.
func DeleteProject(id types.ID) error {
	return persistence.ActiveDataSourceManager.GormDB().Transaction(func(tx *gorm.DB) error {
		var existing domain.Project
		if err := tx.Where("id = ?", id).First(&existing).Error; err != nil {
			if gorm.IsRecordNotFoundError(err) {
				return bizerror.ErrNotFound
			}
			return err
		}

		if err := tx.Model(&existing).Association("RequiredSkills").Clear().Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Project{}, "id = ?", id).Error
	})
}

func checkStatusRef(tx *gorm.DB, id types.ID) error {
	found, err := statusRepo.ExistsByID(tx, id)
	if err != nil {
		return err
	}
	if !found {
		return &bizerror.ErrBadParam{Cause: errors.New("project status " + id.String() + " not found")}
	}
	return nil
}

func checkTypeRef(tx *gorm.DB, id types.ID) error {
	found, err := typeRepo.ExistsByID(tx, id)
	if err != nil {
		return err
	}
	if !found {
		return &bizerror.ErrBadParam{Cause: errors.New("project type " + id.String() + " not found")}
	}
	return nil
}

func resolveSkillRefs(tx *gorm.DB, ids []types.ID) ([]domain.Skill, error) {
	if len(ids) == 0 {
		return []domain.Skill{}, nil
	}
	skills := []domain.Skill{}
	if err := tx.Where("id IN (?)", ids).Find(&skills).Error; err != nil {
		return nil, err
	}
	distinct := map[types.ID]bool{}
	for _, id := range ids {
		distinct[id] = true
	}
	if len(skills) != len(distinct) {
		return nil, &bizerror.ErrBadParam{Cause: errors.New("one or more of the given skills do not exist")}
	}
	return skills, nil
}
