package squad

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"projman/client/employee"
	"projman/common"
	"projman/domain/skill"

	"github.com/fundwit/go-commons/types"
)

var (
	// ServiceURL is the squad service base, e.g. http://host/api-squad
	ServiceURL = serviceURLFromEnv()

	FindTeamsFunc       = FindTeams
	teamAllocationsFunc = teamAllocations
)

func serviceURLFromEnv() string {
	if v := os.Getenv("SQUAD_SERVICE_URL"); v != "" {
		return v
	}
	return "http://localhost:8083/api-squad"
}

const NameUnavailable = "N/A"
const defaultSkillTypeName = "HARD"

type Team struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	PO          *string `json:"po"`

	Members []Member    `json:"members"`
	Skills  []TeamSkill `json:"skills"`
}

type Member struct {
	ID             int64            `json:"id"`
	Name           string           `json:"name"`
	Position       string           `json:"position"`
	AllocatedHours int              `json:"allocatedHours"`
	Skills         []employee.Skill `json:"skills"`
	EmployeeFound  bool             `json:"employeeFound"`
}

// TeamSkill is a catalog skill record when the reported name resolves, or a
// synthetic record (nil id) when it only exists in the employee system.
type TeamSkill struct {
	ID          *types.ID     `json:"id"`
	Name        string        `json:"name"`
	Description *string       `json:"description"`
	Type        TeamSkillType `json:"type"`
	Active      bool          `json:"active"`
}

type TeamSkillType struct {
	ID          *types.ID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Active      bool      `json:"active"`
}

// wire shapes of the squad service
type teamResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Description *string           `json:"description"`
	ProjectID   int64             `json:"projectId"`
	Approver    *approverResponse `json:"approver"`
}

type approverResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type allocationResponse struct {
	ID             int64               `json:"id"`
	AllocatedHours int                 `json:"allocatedHours"`
	Position       string              `json:"position"`
	PersonID       *int64              `json:"personId"`
	Employee       *allocationEmployee `json:"employee"`
}

type allocationEmployee struct {
	ID   *int64 `json:"id"`
	Name string `json:"name"`
}

// FindTeams lists the teams allocated to a project, with their members
// resolved through the employee gateway and their skill sets reconciled
// against the local catalog. It never fails: upstream 404/204 mean no teams
// yet, anything else degrades to an empty list.
func FindTeams(ctx context.Context, projectID types.ID, authToken string) []Team {
	body, err := get(ctx, fmt.Sprintf("%s/teams/project/%s", ServiceURL, projectID.String()), authToken)
	if err != nil {
		var invokeErr *common.ErrHttpInvoke
		if errors.As(err, &invokeErr) && (invokeErr.StatusCode == http.StatusNotFound || invokeErr.StatusCode == http.StatusNoContent) {
			return []Team{}
		}
		common.Log.Errorf("failed to fetch teams of project %s: %v", projectID, err)
		return []Team{}
	}
	if strings.TrimSpace(body) == "" {
		return []Team{}
	}

	teamList := []teamResponse{}
	if err := json.Unmarshal([]byte(body), &teamList); err != nil {
		common.Log.Errorf("failed to decode teams of project %s: %v", projectID, err)
		return []Team{}
	}

	teams := make([]Team, 0, len(teamList))
	for _, t := range teamList {
		members := resolveMembers(ctx, teamAllocationsFunc(ctx, t.ID, authToken), authToken)
		team := Team{ID: t.ID, Name: t.Name, Description: t.Description,
			Members: members, Skills: aggregateTeamSkills(members)}
		if t.Approver != nil && t.Approver.Name != "" {
			team.PO = &t.Approver.Name
		}
		teams = append(teams, team)
	}
	return teams
}

func teamAllocations(ctx context.Context, teamID int64, authToken string) []allocationResponse {
	body, err := get(ctx, fmt.Sprintf("%s/teams/%d/allocations", ServiceURL, teamID), authToken)
	if err != nil {
		var invokeErr *common.ErrHttpInvoke
		if errors.As(err, &invokeErr) && invokeErr.StatusCode == http.StatusNotFound {
			// no allocations yet
			return []allocationResponse{}
		}
		common.Log.Errorf("failed to fetch allocations of team %d: %v", teamID, err)
		return []allocationResponse{}
	}
	if strings.TrimSpace(body) == "" {
		return []allocationResponse{}
	}

	allocations := []allocationResponse{}
	if err := json.Unmarshal([]byte(body), &allocations); err != nil {
		common.Log.Errorf("failed to decode allocations of team %d: %v", teamID, err)
		return []allocationResponse{}
	}
	return allocations
}

// resolveMembers turns allocations into members. Identity comes from the
// allocation's person id only; an allocation without one contributes
// nothing. The embedded employee name is a display fallback, never an
// identity source.
func resolveMembers(ctx context.Context, allocations []allocationResponse, authToken string) []Member {
	members := []Member{}
	for _, a := range allocations {
		if a.PersonID == nil {
			continue
		}

		emp := employee.FindEmployeeFunc(ctx, *a.PersonID, authToken)
		m := Member{ID: *a.PersonID, Position: a.Position, AllocatedHours: a.AllocatedHours,
			Skills: []employee.Skill{}}
		if emp != nil {
			m.EmployeeFound = true
			if emp.Skills != nil {
				m.Skills = emp.Skills
			}
		}
		m.Name = displayName(emp, a.Employee)
		members = append(members, m)
	}
	return members
}

func displayName(emp *employee.Employee, embedded *allocationEmployee) string {
	if emp != nil && strings.TrimSpace(emp.Name) != "" {
		return emp.Name
	}
	if embedded != nil && embedded.Name != "" && embedded.Name != NameUnavailable {
		return embedded.Name
	}
	return NameUnavailable
}

// aggregateTeamSkills unions member skills by name, first occurrence wins,
// and resolves each unique name against the catalog.
func aggregateTeamSkills(members []Member) []TeamSkill {
	seen := map[string]bool{}
	teamSkills := []TeamSkill{}
	for _, m := range members {
		for _, s := range m.Skills {
			if s.Name == "" || seen[s.Name] {
				continue
			}
			seen[s.Name] = true
			teamSkills = append(teamSkills, resolveTeamSkill(s))
		}
	}
	return teamSkills
}

func resolveTeamSkill(reported employee.Skill) TeamSkill {
	record, err := skill.FindActiveSkillByNameFunc(reported.Name)
	if err != nil {
		common.Log.Warnf("failed to resolve skill '%s' against the catalog: %v", reported.Name, err)
		record = nil
	}
	if record != nil {
		resolved := TeamSkill{ID: &record.ID, Name: record.Name, Description: record.Description, Active: record.Active}
		if record.Type != nil {
			resolved.Type = TeamSkillType{ID: &record.Type.ID, Name: record.Type.Name,
				Description: record.Type.Description, Active: record.Type.Active}
		}
		return resolved
	}

	typeName := defaultSkillTypeName
	if reported.SkillType != nil && reported.SkillType.Name != nil && *reported.SkillType.Name != "" {
		typeName = *reported.SkillType.Name
	}
	return TeamSkill{Name: reported.Name, Type: TeamSkillType{Name: typeName, Active: true}, Active: true}
}

func get(ctx context.Context, url, authToken string) (string, error) {
	headers := http.Header{}
	if authToken != "" {
		headers.Set("Authorization", authToken)
	}
	return common.HttpInvokeJson(ctx, http.MethodGet, url, headers, "")
}
