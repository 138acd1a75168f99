package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novaschool/parent-portal/internal/model"
)

func progressHandlerWith(students *fakeStudents, users *fakeUsers) (*ProgressHandler, *fakeProgress) {
	p := &fakeProgress{}
	return NewProgressHandler(students, p, users), p
}

func TestCreateProgressRejectsScoreOutOfRange(t *testing.T) {
	h, store := progressHandlerWith(newFakeStudents(someStudent(1, 20)), newFakeUsers())

	for _, body := range []string{
		`{"student_id":1,"category":"english_reading","score":101}`,
		`{"student_id":1,"category":"english_reading","score":-1}`,
	} {
		c, rec := newCtx(http.MethodPost, "/v1/progress", body, 5, model.RoleTeacher)
		require.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	assert.Empty(t, store.rows)
}

func TestCreateProgressAcceptsBoundaryScores(t *testing.T) {
	users := newFakeUsers(&model.User{ID: 5, Role: model.RoleTeacher})
	h, store := progressHandlerWith(newFakeStudents(someStudent(1, 20)), users)

	for _, body := range []string{
		`{"student_id":1,"category":"english_reading","score":0}`,
		`{"student_id":1,"category":"overall_assessment","score":100}`,
	} {
		c, rec := newCtx(http.MethodPost, "/v1/progress", body, 5, model.RoleTeacher)
		require.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusCreated, rec.Code, body)
	}
	assert.Len(t, store.rows, 2)
}

func TestCreateProgressRejectsUnknownCategory(t *testing.T) {
	h, _ := progressHandlerWith(newFakeStudents(someStudent(1, 20)), newFakeUsers())

	body := `{"student_id":1,"category":"mathematics","score":50}`
	c, rec := newCtx(http.MethodPost, "/v1/progress", body, 5, model.RoleTeacher)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateProgressParentRejected(t *testing.T) {
	h, _ := progressHandlerWith(newFakeStudents(someStudent(1, 20)), newFakeUsers())

	body := `{"student_id":1,"category":"english_reading","score":50}`
	c, rec := newCtx(http.MethodPost, "/v1/progress", body, 20, model.RoleParent)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateProgressScoreOptionalStoresNull(t *testing.T) {
	// Qualitative entries (notes only) carry no score; the column is
	// nullable and the row must land with a nil score, not a zero.
	users := newFakeUsers(&model.User{ID: 5, Role: model.RoleTeacher})
	h, store := progressHandlerWith(newFakeStudents(someStudent(1, 20)), users)

	body := `{"student_id":1,"category":"presentation_skills","notes":"spoke confidently"}`
	c, rec := newCtx(http.MethodPost, "/v1/progress", body, 5, model.RoleTeacher)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	require.Len(t, store.rows, 1)
	assert.Nil(t, store.rows[0].Score)
}

func TestCreateProgressStampsTeacherName(t *testing.T) {
	name := "Ms. Hoang"
	users := newFakeUsers(&model.User{ID: 5, Name: &name, Role: model.RoleTeacher})
	h, store := progressHandlerWith(newFakeStudents(someStudent(1, 20)), users)

	body := `{"student_id":1,"category":"english_speaking","score":88}`
	c, rec := newCtx(http.MethodPost, "/v1/progress", body, 5, model.RoleTeacher)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	require.Len(t, store.rows, 1)
	require.NotNil(t, store.rows[0].TeacherName)
	assert.Equal(t, "Ms. Hoang", *store.rows[0].TeacherName)
}

func TestCreateProgressUnknownCallerNameFallsBack(t *testing.T) {
	// Caller exists but has no display name stored.
	users := newFakeUsers(&model.User{ID: 5, Role: model.RoleTeacher})
	h, store := progressHandlerWith(newFakeStudents(someStudent(1, 20)), users)

	body := `{"student_id":1,"category":"english_speaking"}`
	c, rec := newCtx(http.MethodPost, "/v1/progress", body, 5, model.RoleTeacher)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	require.Len(t, store.rows, 1)
	require.NotNil(t, store.rows[0].TeacherName)
	assert.Equal(t, "Unknown", *store.rows[0].TeacherName)
}
