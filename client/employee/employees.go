package employee

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"

	"projman/common"

	"github.com/shopspring/decimal"
)

var (
	// ServiceURL is the employee service base, e.g. http://host/api/employees
	ServiceURL = serviceURLFromEnv()

	FindEmployeeFunc = FindEmployee
)

func serviceURLFromEnv() string {
	if v := os.Getenv("EMPLOYEE_SERVICE_URL"); v != "" {
		return v
	}
	return "http://localhost:8081/api/employees"
}

type Employee struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Skills []Skill `json:"skills"`

	ContractWage     *decimal.Decimal `json:"contractWage"`
	WorkHoursPerWeek *int             `json:"workHoursPerWeek"`
	JobTitle         *string          `json:"jobTitle"`
}

type Skill struct {
	ID        int64         `json:"id"`
	Name      string        `json:"name"`
	SkillType *SkillTypeRef `json:"skillType"`
}

type SkillTypeRef struct {
	ID   *int64  `json:"id"`
	Name *string `json:"name"`
}

// FindEmployee fetches a single employee profile. Absence is the only
// negative signal: an id outside of the employee service identifier range,
// a 404, a transport failure or an unreadable payload all yield nil. One
// attempt per call, no retries.
func FindEmployee(ctx context.Context, id int64, authToken string) *Employee {
	if id > math.MaxInt32 || id < math.MinInt32 {
		common.Log.Errorf("employee id %d is out of the identifier range of the employee service", id)
		return nil
	}

	headers := http.Header{}
	if authToken != "" {
		headers.Set("Authorization", authToken)
	}

	body, err := common.HttpInvokeJson(ctx, http.MethodGet, fmt.Sprintf("%s/%d", ServiceURL, id), headers, "")
	if err != nil {
		var invokeErr *common.ErrHttpInvoke
		if errors.As(err, &invokeErr) && invokeErr.StatusCode == http.StatusNotFound {
			// a missing employee is expected, not an error
			return nil
		}
		common.Log.Warnf("failed to fetch employee %d: %v", id, err)
		return nil
	}

	record := Employee{}
	if err := json.Unmarshal([]byte(body), &record); err != nil {
		common.Log.Warnf("failed to decode employee %d payload: %v", id, err)
		return nil
	}
	return &record
}
