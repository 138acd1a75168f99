package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novaschool/parent-portal/internal/handler"
	"github.com/novaschool/parent-portal/internal/model"
	"github.com/novaschool/parent-portal/internal/repository"
	"github.com/novaschool/parent-portal/internal/utils"
)

const routeTestSecret = "route-test-secret"

// Minimal stores backing the template handler through the real route
// table. The caller has no teacher profile, like every parent account.

type stubTeachers struct{}

func (stubTeachers) GetByUserID(context.Context, uint64) (*model.Teacher, error) {
	return nil, repository.ErrTeacherNotFound
}
func (stubTeachers) Create(context.Context, *model.Teacher) error      { return nil }
func (stubTeachers) Classes(context.Context, uint64) ([]string, error) { return nil, nil }
func (stubTeachers) StudentsInClass(context.Context, uint64, string) ([]model.Student, error) {
	return nil, nil
}
func (stubTeachers) ParentsInClass(context.Context, uint64, string) ([]model.User, error) {
	return nil, nil
}
func (stubTeachers) Assign(context.Context, *model.ClassAssignment) error { return nil }

type stubTemplates struct{ row *model.MessageTemplate }

func (s stubTemplates) ListByTeacher(context.Context, uint64) ([]model.MessageTemplate, error) {
	return nil, nil
}
func (s stubTemplates) ListDefaults(context.Context) ([]model.MessageTemplate, error) {
	return []model.MessageTemplate{*s.row}, nil
}
func (s stubTemplates) GetByID(_ context.Context, id uint64) (*model.MessageTemplate, error) {
	if s.row != nil && s.row.ID == id {
		return s.row, nil
	}
	return nil, repository.ErrTemplateNotFound
}
func (s stubTemplates) Create(context.Context, *model.MessageTemplate) error { return nil }
func (s stubTemplates) Update(context.Context, uint64, repository.TemplateUpdate) (*model.MessageTemplate, error) {
	return nil, repository.ErrTemplateNotFound
}
func (s stubTemplates) Delete(context.Context, uint64) error { return nil }

func newTemplateRoutes(t *testing.T, row *model.MessageTemplate) *echo.Echo {
	t.Helper()
	e := echo.New()
	Register(e, Deps{
		JWTSecret: routeTestSecret,
		Templates: handler.NewTemplateHandler(stubTeachers{}, stubTemplates{row: row}),
		Cache: func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		},
	})
	return e
}

func doGet(e *echo.Echo, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func parentToken(t *testing.T) string {
	t.Helper()
	at, err := utils.NewAccessToken(routeTestSecret, 20, model.RoleParent, 15)
	require.NoError(t, err)
	return at.Token
}

func seededDefault() *model.MessageTemplate {
	return &model.MessageTemplate{
		ID:        1,
		Name:      "Homework Reminder",
		Subject:   "Homework due this week",
		Content:   "Please check the homework folder.",
		IsDefault: 1,
	}
}

// A parent session must be able to read a default template by id; the
// role gate only covers the template list and writes.
func TestParentReadsDefaultTemplateByID(t *testing.T) {
	e := newTemplateRoutes(t, seededDefault())

	rec := doGet(e, "/v1/templates/1", parentToken(t))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Homework Reminder")
}

func TestTemplateListStaysStaffOnly(t *testing.T) {
	e := newTemplateRoutes(t, seededDefault())

	rec := doGet(e, "/v1/templates", parentToken(t))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unauthorized")
}

func TestTemplateByIDStillNeedsSession(t *testing.T) {
	e := newTemplateRoutes(t, seededDefault())

	rec := doGet(e, "/v1/templates/1", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDefaultsListNeedsNoSession(t *testing.T) {
	e := newTemplateRoutes(t, seededDefault())

	rec := doGet(e, "/v1/templates/defaults", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Homework Reminder")
}
