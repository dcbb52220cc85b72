package project_test

import (
	"context"
	"testing"
	"time"

	"projman/bizerror"
	"projman/client/squad"
	"projman/domain"
	"projman/domain/project"
	"projman/persistence"
	"projman/testinfra"

	"github.com/fundwit/go-commons/types"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

func setup(t *testing.T, testDatabase **testinfra.TestDatabase) {
	db := testinfra.StartMysqlTestDatabase("projman")
	*testDatabase = db
	Expect(db.DS.GormDB().AutoMigrate(&domain.SkillType{}, &domain.ProjectType{}, &domain.ProjectStatus{},
		&domain.Skill{}, &domain.Project{}).Error).To(BeNil())

	persistence.ActiveDataSourceManager = db.DS

	// aggregation is not under test here
	squad.FindTeamsFunc = func(ctx context.Context, projectID types.ID, authToken string) []squad.Team {
		return []squad.Team{}
	}
}

func teardown(t *testing.T, testDatabase *testinfra.TestDatabase) {
	squad.FindTeamsFunc = squad.FindTeams
	if testDatabase != nil {
		testinfra.StopMysqlTestDatabase(testDatabase)
	}
}

func prepareStatus(name string) domain.ProjectStatus {
	record := domain.ProjectStatus{ID: types.ID(time.Now().UnixNano()), Name: name,
		Active: true, CreateTime: types.CurrentTimestamp()}
	Expect(persistence.ActiveDataSourceManager.GormDB().Create(&record).Error).To(BeNil())
	return record
}

func prepareProjectType(name string) domain.ProjectType {
	record := domain.ProjectType{ID: types.ID(time.Now().UnixNano()), Name: name,
		Active: true, CreateTime: types.CurrentTimestamp()}
	Expect(persistence.ActiveDataSourceManager.GormDB().Create(&record).Error).To(BeNil())
	return record
}

func prepareSkill(name string) domain.Skill {
	db := persistence.ActiveDataSourceManager.GormDB()
	skillType := domain.SkillType{ID: types.ID(time.Now().UnixNano()), Name: "type of " + name,
		Active: true, CreateTime: types.CurrentTimestamp()}
	Expect(db.Create(&skillType).Error).To(BeNil())
	record := domain.Skill{ID: types.ID(time.Now().UnixNano() + 1), Name: name, TypeID: skillType.ID,
		Active: true, CreateTime: types.CurrentTimestamp()}
	Expect(db.Create(&record).Error).To(BeNil())
	return record
}

func TestCreateProject(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase

	t.Run("should be able to create project with references resolved", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)

		status := prepareStatus("Started")
		projectType := prepareProjectType("Internal")
		java := prepareSkill("Java")
		budget := decimal.New(120000, 0)
		start, end := "2026-01-01", "2026-12-31"

		record, err := project.CreateProject(project.ProjectCreation{
			Name: "apollo", StatusID: status.ID, TypeID: &projectType.ID,
			Budget: &budget, StartDate: &start, EndDate: &end,
			SkillIDs: []types.ID{java.ID},
		})
		Expect(err).To(BeNil())
		Expect(record.ID > 0).To(BeTrue())
		Expect(record.Name).To(Equal("apollo"))
		Expect(record.Active).To(BeTrue())
		Expect(record.Status.Name).To(Equal("Started"))
		Expect(record.Type.Name).To(Equal("Internal"))
		Expect(record.Budget.Equal(budget)).To(BeTrue())
		Expect(len(record.RequiredSkills)).To(Equal(1))
		Expect(record.RequiredSkills[0].ID).To(Equal(java.ID))
		Expect(record.RequiredSkills[0].Type).ToNot(BeNil())
		Expect(time.Since(record.CreateTime.Time()) < time.Second).To(BeTrue())
	})

	t.Run("should reject bad references and duplicated names", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)

		status := prepareStatus("Started")

		_, err := project.CreateProject(project.ProjectCreation{Name: "  ", StatusID: status.ID})
		Expect(err).To(BeAssignableToTypeOf(&bizerror.ErrBadParam{}))

		_, err = project.CreateProject(project.ProjectCreation{Name: "apollo", StatusID: 404})
		Expect(err).To(BeAssignableToTypeOf(&bizerror.ErrBadParam{}))

		unknownType := types.ID(404)
		_, err = project.CreateProject(project.ProjectCreation{Name: "apollo", StatusID: status.ID, TypeID: &unknownType})
		Expect(err).To(BeAssignableToTypeOf(&bizerror.ErrBadParam{}))

		_, err = project.CreateProject(project.ProjectCreation{Name: "apollo", StatusID: status.ID,
			SkillIDs: []types.ID{404}})
		Expect(err).To(BeAssignableToTypeOf(&bizerror.ErrBadParam{}))

		_, err = project.CreateProject(project.ProjectCreation{Name: "apollo", StatusID: status.ID})
		Expect(err).To(BeNil())
		_, err = project.CreateProject(project.ProjectCreation{Name: "apollo", StatusID: status.ID})
		Expect(err).To(BeAssignableToTypeOf(&bizerror.ErrConflict{}))
		Expect(err.Error()).To(Equal("a project named 'apollo' already exists"))
	})
}

func TestUpdateProject(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase

	t.Run("should be able to update provided fields only", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)

		status := prepareStatus("Started")
		done := prepareStatus("Done")
		record, err := project.CreateProject(project.ProjectCreation{Name: "apollo", StatusID: status.ID})
		Expect(err).To(BeNil())

		newName := "gemini"
		updated, err := project.UpdateProject(record.ID, project.ProjectUpdating{Name: &newName})
		Expect(err).To(BeNil())
		Expect(updated.Name).To(Equal("gemini"))
		Expect(updated.StatusID).To(Equal(status.ID))

		updated, err = project.UpdateProject(record.ID, project.ProjectUpdating{StatusID: &done.ID})
		Expect(err).To(BeNil())
		Expect(updated.Name).To(Equal("gemini"))
		Expect(updated.Status.Name).To(Equal("Done"))

		_, err = project.UpdateProject(404, project.ProjectUpdating{Name: &newName})
		Expect(err).To(Equal(bizerror.ErrNotFound))
	})

	t.Run("should replace the skill set when skill ids are provided", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)

		status := prepareStatus("Started")
		java := prepareSkill("Java")
		golang := prepareSkill("Go")
		record, err := project.CreateProject(project.ProjectCreation{Name: "apollo", StatusID: status.ID,
			SkillIDs: []types.ID{java.ID}})
		Expect(err).To(BeNil())

		skillIds := []types.ID{golang.ID}
		updated, err := project.UpdateProject(record.ID, project.ProjectUpdating{SkillIDs: &skillIds})
		Expect(err).To(BeNil())
		Expect(len(updated.RequiredSkills)).To(Equal(1))
		Expect(updated.RequiredSkills[0].ID).To(Equal(golang.ID))

		// an empty list clears the set, an absent list keeps it
		empty := []types.ID{}
		updated, err = project.UpdateProject(record.ID, project.ProjectUpdating{SkillIDs: &empty})
		Expect(err).To(BeNil())
		Expect(updated.RequiredSkills).To(BeEmpty())

		skillIds = []types.ID{java.ID, golang.ID}
		_, err = project.UpdateProject(record.ID, project.ProjectUpdating{SkillIDs: &skillIds})
		Expect(err).To(BeNil())
		name := "gemini"
		updated, err = project.UpdateProject(record.ID, project.ProjectUpdating{Name: &name})
		Expect(err).To(BeNil())
		Expect(len(updated.RequiredSkills)).To(Equal(2))
	})

	t.Run("should reject renaming to an existing name", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)

		status := prepareStatus("Started")
		_, err := project.CreateProject(project.ProjectCreation{Name: "apollo", StatusID: status.ID})
		Expect(err).To(BeNil())
		record, err := project.CreateProject(project.ProjectCreation{Name: "gemini", StatusID: status.ID})
		Expect(err).To(BeNil())

		taken := "apollo"
		_, err = project.UpdateProject(record.ID, project.ProjectUpdating{Name: &taken})
		Expect(err).To(BeAssignableToTypeOf(&bizerror.ErrConflict{}))
	})
}

func TestProjectActiveFlag(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase

	t.Run("should flip the active flag without touching skills", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)

		status := prepareStatus("Started")
		java := prepareSkill("Java")
		record, err := project.CreateProject(project.ProjectCreation{Name: "apollo", StatusID: status.ID,
			SkillIDs: []types.ID{java.ID}})
		Expect(err).To(BeNil())

		disabled, err := project.UpdateProjectActive(record.ID, false)
		Expect(err).To(BeNil())
		Expect(disabled.Active).To(BeFalse())
		Expect(len(disabled.RequiredSkills)).To(Equal(1))

		enabled, err := project.UpdateProjectActive(record.ID, true)
		Expect(err).To(BeNil())
		Expect(enabled.Active).To(BeTrue())

		_, err = project.UpdateProjectActive(404, true)
		Expect(err).To(Equal(bizerror.ErrNotFound))
	})
}

func TestQueryProjects(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase

	t.Run("should split active, inactive and status scoped queries", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)

		started := prepareStatus("Started")
		done := prepareStatus("Done")

		apollo, err := project.CreateProject(project.ProjectCreation{Name: "apollo", StatusID: started.ID})
		Expect(err).To(BeNil())
		gemini, err := project.CreateProject(project.ProjectCreation{Name: "gemini", StatusID: done.ID})
		Expect(err).To(BeNil())
		mercury, err := project.CreateProject(project.ProjectCreation{Name: "mercury", StatusID: started.ID})
		Expect(err).To(BeNil())
		_, err = project.UpdateProjectActive(mercury.ID, false)
		Expect(err).To(BeNil())

		details, err := project.QueryProjectDetails(context.Background(), true, nil, "")
		Expect(err).To(BeNil())
		Expect(len(details)).To(Equal(2))
		Expect(details[0].Squads).To(BeEmpty())

		details, err = project.QueryProjectDetails(context.Background(), false, nil, "")
		Expect(err).To(BeNil())
		Expect(len(details)).To(Equal(1))
		Expect(details[0].ID).To(Equal(mercury.ID))

		details, err = project.QueryProjectDetails(context.Background(), true, &done.ID, "")
		Expect(err).To(BeNil())
		Expect(len(details)).To(Equal(1))
		Expect(details[0].ID).To(Equal(gemini.ID))

		// paging ignores the active flag
		details, err = project.QueryProjectDetailsPage(context.Background(), 0, 2, "")
		Expect(err).To(BeNil())
		Expect(len(details)).To(Equal(2))
		details, err = project.QueryProjectDetailsPage(context.Background(), 1, 2, "")
		Expect(err).To(BeNil())
		Expect(len(details)).To(Equal(1))

		detail, err := project.FindProjectDetail(context.Background(), apollo.ID, "")
		Expect(err).To(BeNil())
		Expect(detail.Name).To(Equal("apollo"))
		Expect(detail.Squads).To(BeEmpty())

		_, err = project.FindProjectDetail(context.Background(), 404, "")
		Expect(err).To(Equal(bizerror.ErrNotFound))
	})
}

func TestDeleteProject(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase

	t.Run("should delete the project and its skill associations", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)
		db := persistence.ActiveDataSourceManager.GormDB()

		status := prepareStatus("Started")
		java := prepareSkill("Java")
		record, err := project.CreateProject(project.ProjectCreation{Name: "apollo", StatusID: status.ID,
			SkillIDs: []types.ID{java.ID}})
		Expect(err).To(BeNil())

		Expect(project.DeleteProject(record.ID)).To(BeNil())
		_, err = project.FindProject(record.ID)
		Expect(err).To(Equal(bizerror.ErrNotFound))

		count := 0
		Expect(db.Table("project_skills").Where("project_id = ?", record.ID).Count(&count).Error).To(BeNil())
		Expect(count).To(BeZero())

		// the skill itself survives
		found := domain.Skill{}
		Expect(db.Where("id = ?", java.ID).First(&found).Error).To(BeNil())

		Expect(project.DeleteProject(404)).To(Equal(bizerror.ErrNotFound))
	})
}
