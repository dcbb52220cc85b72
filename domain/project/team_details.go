package project

import (
	"context"

	"projman/client/employee"
	"projman/client/squad"

	"github.com/fundwit/go-commons/types"
	"github.com/shopspring/decimal"
)

// hoursPerMonthFactor converts a weekly workload into the monthly
// figure the invested-value calculation is based on.
const hoursPerMonthFactor = 4

type TeamDetailsReport struct {
	ProjectID   types.ID     `json:"projectId"`
	ProjectName string       `json:"projectName"`
	Teams       []TeamDetail `json:"teams"`
}

type TeamDetail struct {
	TeamID             int64           `json:"teamId"`
	TeamName           string          `json:"teamName"`
	TeamDescription    *string         `json:"teamDescription"`
	PO                 *string         `json:"po"`
	MembersCount       int             `json:"membersCount"`
	Members            []MemberDetail  `json:"members"`
	TotalInvestedValue decimal.Decimal `json:"totalInvestedValue"`
}

type MemberDetail struct {
	ID               int64            `json:"id"`
	Name             string           `json:"name"`
	JobTitle         *string          `json:"jobTitle"`
	AllocatedHours   int              `json:"allocatedHours"`
	Skills           []employee.Skill `json:"skills"`
	ContractWage     *decimal.Decimal `json:"contractWage"`
	WorkHoursPerWeek *int             `json:"workHoursPerWeek"`
	MonthlyHours     *decimal.Decimal `json:"monthlyHours"`
	HourlyRate       *decimal.Decimal `json:"hourlyRate"`
	InvestedValue    *decimal.Decimal `json:"investedValue"`
}

var ProjectTeamDetailsFunc = ProjectTeamDetails

// ProjectTeamDetails builds the financial breakdown of every squad
// allocated to the project. Members whose employee record cannot be
// resolved are left out: without wage data the figures would be
// meaningless.
func ProjectTeamDetails(ctx context.Context, projectID types.ID, authToken string) (*TeamDetailsReport, error) {
	project, err := FindProjectFunc(projectID)
	if err != nil {
		return nil, err
	}

	teams := squad.FindTeamsFunc(ctx, projectID, authToken)
	report := &TeamDetailsReport{ProjectID: projectID, ProjectName: project.Name, Teams: []TeamDetail{}}
	for _, t := range teams {
		detail := TeamDetail{TeamID: t.ID, TeamName: t.Name, TeamDescription: t.Description,
			PO: t.PO, Members: []MemberDetail{}}
		total := decimal.Zero
		for _, m := range t.Members {
			emp := employee.FindEmployeeFunc(ctx, m.ID, authToken)
			if emp == nil {
				continue
			}
			md := memberFinance(m, emp)
			detail.Members = append(detail.Members, md)
			if md.InvestedValue != nil {
				total = total.Add(*md.InvestedValue)
			}
		}
		detail.MembersCount = len(detail.Members)
		detail.TotalInvestedValue = total.Round(2)
		report.Teams = append(report.Teams, detail)
	}
	return report, nil
}

func memberFinance(m squad.Member, emp *employee.Employee) MemberDetail {
	md := MemberDetail{ID: m.ID, Name: emp.Name, JobTitle: emp.JobTitle,
		AllocatedHours: m.AllocatedHours, Skills: emp.Skills, WorkHoursPerWeek: emp.WorkHoursPerWeek}
	if md.Skills == nil {
		md.Skills = []employee.Skill{}
	}
	if emp.ContractWage != nil {
		wage := emp.ContractWage.Round(2)
		md.ContractWage = &wage
	}
	var monthly decimal.Decimal
	if emp.WorkHoursPerWeek != nil {
		monthly = decimal.New(int64(*emp.WorkHoursPerWeek)*hoursPerMonthFactor, 0)
		rounded := monthly.Round(2)
		md.MonthlyHours = &rounded
	}
	if md.ContractWage != nil && md.MonthlyHours != nil && monthly.IsPositive() {
		rate := emp.ContractWage.DivRound(monthly, 2)
		md.HourlyRate = &rate
		if m.AllocatedHours > 0 {
			invested := rate.Mul(decimal.New(int64(m.AllocatedHours), 0)).Round(2)
			md.InvestedValue = &invested
		}
	}
	return md
}
