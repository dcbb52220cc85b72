package project

import (
	"context"

	"projman/client/squad"
	"projman/common"
	"projman/domain"
	"projman/domain/skill"
	"projman/persistence"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

type SyncedSkill struct {
	ID   types.ID `json:"id"`
	Name string   `json:"name"`
}

type SyncResult struct {
	ProjectID   types.ID      `json:"projectId"`
	SkillsCount int           `json:"skillsCount"`
	Skills      []SyncedSkill `json:"skills"`
}

var SyncProjectSkillsFunc = SyncProjectSkills

// SyncProjectSkills aligns a project's required skills with the skills
// its allocated employees actually report. Reported names are matched
// against the active catalog case-insensitively; names with no catalog
// record are logged and skipped, never auto-created. With
// replaceExisting the resolved set substitutes the current one wholesale
// (an empty resolved set clears all associations); without it the
// resolved set is merged in and nothing is ever removed.
func SyncProjectSkills(ctx context.Context, projectID types.ID, authToken string, replaceExisting bool) (*SyncResult, error) {
	project, err := FindProjectFunc(projectID)
	if err != nil {
		return nil, err
	}

	names := observedSkillNames(squad.FindTeamsFunc(ctx, projectID, authToken))
	resolved := resolveCatalogSkills(names)

	final := resolved
	if !replaceExisting {
		final = unionSkills(project.RequiredSkills, resolved)
	}

	err = persistence.ActiveDataSourceManager.GormDB().Transaction(func(tx *gorm.DB) error {
		return tx.Model(project).Association("RequiredSkills").Replace(final).Error
	})
	if err != nil {
		return nil, err
	}

	result := &SyncResult{ProjectID: projectID, SkillsCount: len(final), Skills: []SyncedSkill{}}
	for _, s := range final {
		result.Skills = append(result.Skills, SyncedSkill{ID: s.ID, Name: s.Name})
	}
	return result, nil
}

func observedSkillNames(teams []squad.Team) []string {
	names := []string{}
	seen := map[string]bool{}
	for _, t := range teams {
		for _, m := range t.Members {
			for _, s := range m.Skills {
				if s.Name == "" || seen[s.Name] {
					continue
				}
				seen[s.Name] = true
				names = append(names, s.Name)
			}
		}
	}
	return names
}

func resolveCatalogSkills(names []string) []domain.Skill {
	resolved := []domain.Skill{}
	seen := map[types.ID]bool{}
	for _, name := range names {
		record, err := skill.FindActiveSkillByNameFunc(name)
		if err != nil {
			common.Log.Warnf("failed to look up skill '%s' in the catalog: %v", name, err)
			continue
		}
		if record == nil {
			common.Log.Warnf("skill '%s' is reported by allocated employees but has no active catalog record", name)
			continue
		}
		if seen[record.ID] {
			continue
		}
		seen[record.ID] = true
		bare := *record
		bare.Type = nil
		resolved = append(resolved, bare)
	}
	return resolved
}

func unionSkills(existing, incoming []domain.Skill) []domain.Skill {
	union := []domain.Skill{}
	seen := map[types.ID]bool{}
	for _, s := range append(append([]domain.Skill{}, existing...), incoming...) {
		if seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		s.Type = nil
		union = append(union, s)
	}
	return union
}
