package handler_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/vaishnaviugal12/CrackCode/internal/models"
	"github.com/vaishnaviugal12/CrackCode/pkg/judge0"
)

func problemBody() map[string]interface{} {
	return map[string]interface{}{
		"title":       "Two Sum",
		"description": "Add two numbers.",
		"difficulty":  "easy",
		"tags":        []string{"array"},
		"visible_test_cases": []map[string]string{
			{"input": "1 2", "expected_output": "3", "explanation": "1 + 2 = 3"},
		},
		"hidden_test_cases": []map[string]string{
			{"input": "10 20", "expected_output": "30"},
		},
		"reference_solutions": []map[string]string{
			{"language": "python", "code": "print(sum(map(int, input().split())))"},
		},
	}
}

func TestCreateProblemRequiresAdminRole(t *testing.T) {
	app, db := setupTestApp(t, &fakeEngine{})

	req := jsonRequest(t, http.MethodPost, "/api/v1/problems", problemBody())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.Problem{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestCreateProblemAsAdmin(t *testing.T) {
	engine := &fakeEngine{}
	app, db := setupTestApp(t, engine)

	req := jsonRequest(t, http.MethodPost, "/api/v1/problems", problemBody())
	req.Header.Set("X-Test-Role", models.RoleAdmin)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// The reference solution was validated against the single visible case.
	require.Equal(t, 1, engine.batchSize)

	var count int64
	require.NoError(t, db.Model(&models.Problem{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestCreateProblemRejectedWhenReferenceFails(t *testing.T) {
	engine := &fakeEngine{statusID: 4}
	app, db := setupTestApp(t, engine)

	req := jsonRequest(t, http.MethodPost, "/api/v1/problems", problemBody())
	req.Header.Set("X-Test-Role", models.RoleAdmin)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.Problem{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestGetProblemHidesHiddenCases(t *testing.T) {
	app, db := setupTestApp(t, &fakeEngine{})
	problem := seedProblem(t, db)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/problems/%d", problem.ID), nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Data struct {
			VisibleTestCases []struct {
				Input string `json:"input"`
			} `json:"visible_test_cases"`
		} `json:"data"`
	}
	decodeResponse(t, resp, &payload)
	require.Len(t, payload.Data.VisibleTestCases, 1)
	require.Equal(t, "1 2", payload.Data.VisibleTestCases[0].Input)
}

func TestDeleteProblemRequiresAdminRole(t *testing.T) {
	app, db := setupTestApp(t, &fakeEngine{})
	problem := seedProblem(t, db)

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/v1/problems/%d", problem.ID), nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/v1/problems/%d", problem.ID), nil)
	req.Header.Set("X-Test-Role", models.RoleAdmin)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

var _ judge0.ExecutionClient = (*fakeEngine)(nil)
