package taxonomy

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
)

type TaxonomyCreation struct {
	Name        string  `json:"name" binding:"required,lte=100"`
	Description *string `json:"description" binding:"omitempty,lte=200"`
}

type TaxonomyUpdating struct {
	Name        *string `json:"name" binding:"omitempty,lte=100"`
	Description *string `json:"description" binding:"omitempty,lte=200"`
}

// Service provides CRUD over one taxonomy kind (skill type, project type,
// project status). referencingNames reports the names of records that still
// reference a taxonomy entry, which blocks its deletion.
type Service[T any] struct {
	Kind string

	repo             repository.Repo[T]
	make             func(id types.ID, c TaxonomyCreation) T
	referencingNames func(tx *gorm.DB, id types.ID) ([]string, error)
}

var (
	SkillTypes = &Service[domain.SkillType]{
		Kind: "skill type",
		make: func(id types.ID, c TaxonomyCreation) domain.SkillType {
			return domain.SkillType{ID: id, Name: c.Name, Description: c.Description,
				Active: true, CreateTime: types.CurrentTimestamp()}
		},
		referencingNames: func(tx *gorm.DB, id types.ID) ([]string, error) {
			return pluckNames(tx.Model(&domain.Skill{}).Where("type_id = ?", id))
		},
	}

	ProjectTypes = &Service[domain.ProjectType]{
		Kind: "project type",
		make: func(id types.ID, c TaxonomyCreation) domain.ProjectType {
			return domain.ProjectType{ID: id, Name: c.Name, Description: c.Description,
				Active: true, CreateTime: types.CurrentTimestamp()}
		},
		referencingNames: func(tx *gorm.DB, id types.ID) ([]string, error) {
			return pluckNames(tx.Model(&domain.Project{}).Where("type_id = ?", id))
		},
	}

	ProjectStatuses = &Service[domain.ProjectStatus]{
		Kind: "project status",
		make: func(id types.ID, c TaxonomyCreation) domain.ProjectStatus {
			return domain.ProjectStatus{ID: id, Name: c.Name, Description: c.Description,
				Active: true, CreateTime: types.CurrentTimestamp()}
		},
		referencingNames: func(tx *gorm.DB, id types.ID) ([]string, error) {
			return pluckNames(tx.Model(&domain.Project{}).Where("status_id = ?", id))
		},
	}
)

func pluckNames(query *gorm.DB) ([]string, error) {
	names := []string{}
	if err := query.Order("id ASC").Pluck("name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}

func (s *Service[T]) Query(active bool) ([]T, error) {
	db := persistence.ActiveDataSourceManager.GormDB()
	records := []T{}
	if err := db.Where("active = ?", active).Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Service[T]) Find(id types.ID) (*T, error) {
	return s.repo.FindByID(persistence.ActiveDataSourceManager.GormDB(), id)
}

func (s *Service[T]) Create(c TaxonomyCreation) (*T, error) {
	if strings.TrimSpace(c.Name) == "" {
		return nil, &bizerror.ErrBadParam{Cause: errors.New(s.Kind + " name must not be blank")}
	}

	record := s.make(idgen.NextID(idWorker), c)
	err := persistence.ActiveDataSourceManager.GormDB().Transaction(func(tx *gorm.DB) error {
		used, err := s.repo.ExistsByName(tx, c.Name)
		if err != nil {
			return err
		}
		if used {
			return &bizerror.ErrConflict{Message: "a " + s.Kind + " named '" + c.Name + "' already exists"}
		}
		return s.repo.Save(tx, &record)
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *Service[T]) Update(id types.ID, u TaxonomyUpdating) (*T, error) {
	err := persistence.ActiveDataSourceManager.GormDB().Transaction(func(tx *gorm.DB) error {
		found, err := s.repo.ExistsByID(tx, id)
		if err != nil {
			return err
		}
		if !found {
			return bizerror.ErrNotFound
		}

		changes := map[string]interface{}{}
		if u.Name != nil {
			if strings.TrimSpace(*u.Name) == "" {
				return &bizerror.ErrBadParam{Cause: errors.New(s.Kind + " name must not be blank")}
			}
			count := 0
			if err := tx.Model(new(T)).Where("name = ? AND id <> ?", *u.Name, id).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return &bizerror.ErrConflict{Message: "a " + s.Kind + " named '" + *u.Name + "' already exists"}
			}
			changes["name"] = *u.Name
		}
		if u.Description != nil {
			changes["description"] = *u.Description
		}
		if len(changes) == 0 {
			return nil
		}
		return s.repo.Updates(tx, id, changes)
	})
	if err != nil {
		return nil, err
	}
	return s.Find(id)
}

func (s *Service[T]) SetActive(id types.ID, active bool) (*T, error) {
	err := persistence.ActiveDataSourceManager.GormDB().Transaction(func(tx *gorm.DB) error {
		return s.repo.Updates(tx, id, map[string]interface{}{"active": active})
	})
	if err != nil {
		return nil, err
	}
	return s.Find(id)
}

func (s *Service[T]) Delete(id types.ID) error {
	return persistence.ActiveDataSourceManager.GormDB().Transaction(func(tx *gorm.DB) error {
		names := []string{}
		if err := tx.Model(new(T)).Where("id = ?", id).Pluck("name", &names).Error; err != nil {
			return err
		}
		if len(names) == 0 {
			return bizerror.ErrNotFound
		}

		referencing, err := s.referencingNames(tx, id)
		if err != nil {
			return err
		}
		if len(referencing) > 0 {
			return &bizerror.ErrConflict{
				Message:    s.Kind + " '" + names[0] + "' is referenced by existing records",
				References: referencing,
			}
		}

		return s.repo.Delete(tx, id)
	})
}
