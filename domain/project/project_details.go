package project

import (
	"context"

	"projman/client/squad"
	"projman/domain"

	"github.com/fundwit/go-commons/types"
)

// Detail is a project as the REST layer serves it: the stored record
// plus the squads currently allocated to it.
type Detail struct {
	domain.Project
	Squads []squad.Team `json:"squads"`
}

var (
	QueryProjectDetailsFunc     = QueryProjectDetails
	QueryProjectDetailsPageFunc = QueryProjectDetailsPage
	FindProjectDetailFunc       = FindProjectDetail
)

func detailOf(ctx context.Context, record domain.Project, authToken string) Detail {
	return Detail{Project: record, Squads: squad.FindTeamsFunc(ctx, record.ID, authToken)}
}

func detailsOf(ctx context.Context, records []domain.Project, authToken string) []Detail {
	details := []Detail{}
	for _, record := range records {
		details = append(details, detailOf(ctx, record, authToken))
	}
	return details
}

func QueryProjectDetails(ctx context.Context, active bool, statusID *types.ID, authToken string) ([]Detail, error) {
	records, err := queryProjects(projectQuery{active: active, statusID: statusID})
	if err != nil {
		return nil, err
	}
	return detailsOf(ctx, records, authToken), nil
}

func QueryProjectDetailsPage(ctx context.Context, page, size int, authToken string) ([]Detail, error) {
	records, err := queryProjects(projectQuery{page: &page, size: size})
	if err != nil {
		return nil, err
	}
	return detailsOf(ctx, records, authToken), nil
}

func FindProjectDetail(ctx context.Context, id types.ID, authToken string) (*Detail, error) {
	record, err := FindProjectFunc(id)
	if err != nil {
		return nil, err
	}
	detail := detailOf(ctx, *record, authToken)
	return &detail, nil
}
