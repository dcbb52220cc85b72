package repository_test

import (
	"testing"

	"projman/bizerror"
	"projman/domain"
	"projman/persistence"
	"projman/repository"
	"projman/testinfra"

	"github.com/fundwit/go-commons/types"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
)

var skillTypeRepo = repository.Repo[domain.SkillType]{}

func setup(t *testing.T, testDatabase **testinfra.TestDatabase) {
	db := testinfra.StartMysqlTestDatabase("projman")
	*testDatabase = db
	assert.Nil(t, db.DS.GormDB().AutoMigrate(&domain.SkillType{}).Error)

	persistence.ActiveDataSourceManager = db.DS
}

func teardown(t *testing.T, testDatabase *testinfra.TestDatabase) {
	if testDatabase != nil {
		testinfra.StopMysqlTestDatabase(testDatabase)
	}
}

func TestRepoFind(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase

	t.Run("should be able to find records by id and by page", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)
		db := persistence.ActiveDataSourceManager.GormDB()

		for i := 1; i <= 5; i++ {
			record := domain.SkillType{ID: types.ID(i), Name: "type " + types.ID(i).String(),
				Active: true, CreateTime: types.CurrentTimestamp()}
			Expect(skillTypeRepo.Save(db, &record)).To(BeNil())
		}

		record, err := skillTypeRepo.FindByID(db, 3)
		Expect(err).To(BeNil())
		Expect(record.Name).To(Equal("type 3"))

		record, err = skillTypeRepo.FindByID(db, 404)
		Expect(record).To(BeNil())
		Expect(err).To(Equal(bizerror.ErrNotFound))

		all, err := skillTypeRepo.FindAll(db)
		Expect(err).To(BeNil())
		Expect(len(all)).To(Equal(5))

		page, err := skillTypeRepo.FindPage(db, 0, 2)
		Expect(err).To(BeNil())
		Expect(len(page)).To(Equal(2))
		Expect(page[0].ID).To(Equal(types.ID(1)))
		Expect(page[1].ID).To(Equal(types.ID(2)))

		page, err = skillTypeRepo.FindPage(db, 2, 2)
		Expect(err).To(BeNil())
		Expect(len(page)).To(Equal(1))
		Expect(page[0].ID).To(Equal(types.ID(5)))

		// out of range pages are empty, negative input falls back
		page, err = skillTypeRepo.FindPage(db, 10, 2)
		Expect(err).To(BeNil())
		Expect(len(page)).To(BeZero())
		page, err = skillTypeRepo.FindPage(db, -1, -1)
		Expect(err).To(BeNil())
		Expect(len(page)).To(Equal(5))
	})
}

func TestRepoModify(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase

	t.Run("should be able to update and delete existing records", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)
		db := persistence.ActiveDataSourceManager.GormDB()

		record := domain.SkillType{ID: 100, Name: "origin", Active: true, CreateTime: types.CurrentTimestamp()}
		Expect(skillTypeRepo.Save(db, &record)).To(BeNil())

		Expect(skillTypeRepo.Updates(db, 100, map[string]interface{}{"name": "changed"})).To(BeNil())
		found, err := skillTypeRepo.FindByID(db, 100)
		Expect(err).To(BeNil())
		Expect(found.Name).To(Equal("changed"))

		exist, err := skillTypeRepo.ExistsByName(db, "changed")
		Expect(err).To(BeNil())
		Expect(exist).To(BeTrue())
		exist, err = skillTypeRepo.ExistsByName(db, "origin")
		Expect(err).To(BeNil())
		Expect(exist).To(BeFalse())

		Expect(skillTypeRepo.Delete(db, 100)).To(BeNil())
		exist, err = skillTypeRepo.ExistsByID(db, 100)
		Expect(err).To(BeNil())
		Expect(exist).To(BeFalse())
	})

	t.Run("should report not found for updates and deletes of absent records", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)
		db := persistence.ActiveDataSourceManager.GormDB()

		Expect(skillTypeRepo.Updates(db, 404, map[string]interface{}{"name": "changed"})).To(Equal(bizerror.ErrNotFound))
		Expect(skillTypeRepo.Delete(db, 404)).To(Equal(bizerror.ErrNotFound))
	})
}
