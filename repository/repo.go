package repository

import (
	"projman/bizerror"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

// Repo is a generic CRUD access layer over a gorm-mapped entity. The db
// handle is passed per call so that callers can run inside transactions.
// A missing record is always reported as bizerror.ErrNotFound.
type Repo[T any] struct{}

func (Repo[T]) FindAll(db *gorm.DB) ([]T, error) {
	records := []T{}
	if err := db.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindPage returns the given zero-based page of records ordered by id.
func (Repo[T]) FindPage(db *gorm.DB, page, size int) ([]T, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = 10
	}
	records := []T{}
	if err := db.Order("id ASC").Offset(page * size).Limit(size).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (Repo[T]) FindByID(db *gorm.DB, id types.ID) (*T, error) {
	var record T
	if err := db.Where("id = ?", id).First(&record).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, bizerror.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (Repo[T]) Save(db *gorm.DB, record *T) error {
	return db.Create(record).Error
}

func (r Repo[T]) Updates(db *gorm.DB, id types.ID, values interface{}) error {
	found, err := r.ExistsByID(db, id)
	if err != nil {
		return err
	}
	if !found {
		return bizerror.ErrNotFound
	}
	return db.Model(new(T)).Where("id = ?", id).Updates(values).Error
}

func (r Repo[T]) Delete(db *gorm.DB, id types.ID) error {
	found, err := r.ExistsByID(db, id)
	if err != nil {
		return err
	}
	if !found {
		return bizerror.ErrNotFound
	}
	return db.Delete(new(T), "id = ?", id).Error
}

func (Repo[T]) ExistsByID(db *gorm.DB, id types.ID) (bool, error) {
	count := 0
	if err := db.Model(new(T)).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (Repo[T]) ExistsByName(db *gorm.DB, name string) (bool, error) {
	count := 0
	if err := db.Model(new(T)).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
