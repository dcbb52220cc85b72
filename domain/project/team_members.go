package project

import (
	"context"
	"fmt"

	"projman/client/squad"
	"projman/common"
	"projman/domain/skill"

	"github.com/fundwit/go-commons/types"
)

// TeamMembersReport is the diagnostic view of a project's allocated
// members. It is deliberately forgiving: a malformed team or member in
// the upstream payload degrades into a placeholder entry with an error
// annotation instead of failing the whole report.
type TeamMembersReport struct {
	ProjectID   types.ID        `json:"projectId"`
	ProjectName string          `json:"projectName"`
	TeamsCount  int             `json:"teamsCount"`
	Teams       []TeamMembers   `json:"teams"`
	Summary     MembersSummary  `json:"summary"`
	AllSkills   []SkillPresence `json:"allSkills"`
}

type TeamMembers struct {
	TeamID          int64              `json:"teamId"`
	TeamName        string             `json:"teamName"`
	TeamDescription *string            `json:"teamDescription"`
	PO              *string            `json:"po"`
	MembersCount    int                `json:"membersCount"`
	Members         []MemberDiagnostic `json:"members"`
	Error           string             `json:"error,omitempty"`
}

type MemberDiagnostic struct {
	ID             int64         `json:"id"`
	Name           string        `json:"name"`
	Position       string        `json:"position"`
	AllocatedHours int           `json:"allocatedHours"`
	Skills         []MemberSkill `json:"skills"`
	SkillsCount    int           `json:"skillsCount"`
	EmployeeFound  bool          `json:"employeeFound"`
	Error          string        `json:"error,omitempty"`
}

type MemberSkill struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	SkillType string `json:"skillType"`
}

type MembersSummary struct {
	TotalMembers        int `json:"totalMembers"`
	TotalUniqueSkills   int `json:"totalUniqueSkills"`
	SkillsInDatabase    int `json:"skillsInDatabase"`
	SkillsNotInDatabase int `json:"skillsNotInDatabase"`
}

// SkillPresence tells whether a skill reported by allocated employees
// exists as an active record in the local catalog.
type SkillPresence struct {
	Name             string    `json:"name"`
	ExistsInDatabase bool      `json:"existsInDatabase"`
	SkillID          *types.ID `json:"skillId"`
}

var ListProjectTeamMembersFunc = ListProjectTeamMembers

func ListProjectTeamMembers(ctx context.Context, projectID types.ID, authToken string) (*TeamMembersReport, error) {
	project, err := FindProjectFunc(projectID)
	if err != nil {
		return nil, err
	}

	teams := squad.FindTeamsFunc(ctx, projectID, authToken)

	report := &TeamMembersReport{ProjectID: projectID, ProjectName: project.Name,
		TeamsCount: len(teams), Teams: []TeamMembers{}, AllSkills: []SkillPresence{}}

	// first occurrence of a skill name fixes its place in the report
	observed := []string{}
	seen := map[string]bool{}
	for _, t := range teams {
		teamInfo := buildTeamDiagnostic(t)
		report.Teams = append(report.Teams, teamInfo)
		report.Summary.TotalMembers += len(teamInfo.Members)
		for _, m := range teamInfo.Members {
			for _, s := range m.Skills {
				if s.Name == "" || s.Name == squad.NameUnavailable || seen[s.Name] {
					continue
				}
				seen[s.Name] = true
				observed = append(observed, s.Name)
			}
		}
	}

	report.Summary.TotalUniqueSkills = len(observed)
	for _, name := range observed {
		record, err := skill.FindActiveSkillByNameFunc(name)
		if err != nil {
			// a failed lookup still counts, or the summary stops adding up
			common.Log.Warnf("failed to look up skill '%s' in the catalog: %v", name, err)
			record = nil
		}
		presence := SkillPresence{Name: name}
		if record != nil {
			id := record.ID
			presence.ExistsInDatabase = true
			presence.SkillID = &id
			report.Summary.SkillsInDatabase++
		} else {
			report.Summary.SkillsNotInDatabase++
		}
		report.AllSkills = append(report.AllSkills, presence)
	}
	return report, nil
}

func buildTeamDiagnostic(t squad.Team) (result TeamMembers) {
	defer func() {
		if r := recover(); r != nil {
			common.Log.Errorf("failed to process team %d: %v", t.ID, r)
			result = TeamMembers{TeamID: t.ID, TeamName: t.Name,
				Members: []MemberDiagnostic{}, Error: fmt.Sprintf("%v", r)}
		}
	}()

	result = TeamMembers{TeamID: t.ID, TeamName: t.Name, TeamDescription: t.Description,
		PO: t.PO, MembersCount: len(t.Members), Members: []MemberDiagnostic{}}
	for _, m := range t.Members {
		result.Members = append(result.Members, buildMemberDiagnostic(m))
	}
	return result
}

func buildMemberDiagnostic(m squad.Member) (result MemberDiagnostic) {
	defer func() {
		if r := recover(); r != nil {
			common.Log.Errorf("failed to process member %d: %v", m.ID, r)
			result = MemberDiagnostic{ID: m.ID, Name: squad.NameUnavailable, Position: m.Position,
				AllocatedHours: m.AllocatedHours, Skills: []MemberSkill{}, Error: fmt.Sprintf("%v", r)}
		}
	}()

	result = MemberDiagnostic{ID: m.ID, Name: m.Name, Position: m.Position,
		AllocatedHours: m.AllocatedHours, EmployeeFound: m.EmployeeFound, Skills: []MemberSkill{}}
	if result.Name == "" {
		result.Name = squad.NameUnavailable
	}
	if result.Position == "" {
		result.Position = "-"
	}
	for _, s := range m.Skills {
		ms := MemberSkill{ID: s.ID, Name: s.Name, SkillType: squad.NameUnavailable}
		if ms.Name == "" {
			ms.Name = squad.NameUnavailable
		}
		if s.SkillType != nil && s.SkillType.Name != nil && *s.SkillType.Name != "" {
			ms.SkillType = *s.SkillType.Name
		}
		result.Skills = append(result.Skills, ms)
	}
	result.SkillsCount = len(result.Skills)
	return result
}
