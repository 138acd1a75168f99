package handler

import (
	"context"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/novaschool/parent-portal/internal/model"
	"github.com/novaschool/parent-portal/internal/queue"
	"github.com/novaschool/parent-portal/internal/repository"
)

// newCtx builds an echo context carrying an authenticated caller, the
// way the JWT middleware would leave it.
func newCtx(method, target, body string, uid uint64, role string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uid)
	c.Set("role", role)
	return c, rec
}

// noAuthCtx is a context with no session at all, for public routes.
type noAuthCtx struct {
	ctx echo.Context
	rec *httptest.ResponseRecorder
}

func newEchoNoAuth(method, target string) noAuthCtx {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	return noAuthCtx{ctx: e.NewContext(req, rec), rec: rec}
}

// ----- in-memory fakes -----

type fakeStudents struct {
	rows map[uint64]*model.Student
}

func newFakeStudents(rows ...*model.Student) *fakeStudents {
	f := &fakeStudents{rows: map[uint64]*model.Student{}}
	for _, s := range rows {
		f.rows[s.ID] = s
	}
	return f
}

func (f *fakeStudents) ListByParent(_ context.Context, parentID uint64) ([]model.Student, error) {
	var out []model.Student
	for _, s := range f.rows {
		if s.ParentID == parentID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeStudents) ListAll(context.Context) ([]model.Student, error) {
	var out []model.Student
	for _, s := range f.rows {
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeStudents) GetByID(_ context.Context, id uint64) (*model.Student, error) {
	if s, ok := f.rows[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, repository.ErrStudentNotFound
}

func (f *fakeStudents) Create(_ context.Context, s *model.Student) error {
	s.ID = uint64(len(f.rows) + 1)
	s.EnrollmentDate = time.Now().UTC()
	cp := *s
	f.rows[s.ID] = &cp
	return nil
}

type fakeMessages struct {
	rows   map[uint64]*model.Message
	nextID uint64
}

func newFakeMessages() *fakeMessages {
	return &fakeMessages{rows: map[uint64]*model.Message{}, nextID: 1}
}

func (f *fakeMessages) ListByUser(_ context.Context, userID uint64) ([]model.Message, error) {
	var out []model.Message
	for _, m := range f.rows {
		if m.SenderID == userID || m.RecipientID == userID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMessages) GetByID(_ context.Context, id uint64) (*model.Message, error) {
	if m, ok := f.rows[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, repository.ErrMessageNotFound
}

func (f *fakeMessages) Create(_ context.Context, m *model.Message) error {
	m.ID = f.nextID
	f.nextID++
	m.IsRead = 0
	m.CreatedAt = time.Now().UTC()
	cp := *m
	f.rows[m.ID] = &cp
	return nil
}

func (f *fakeMessages) MarkRead(_ context.Context, id uint64) error {
	if m, ok := f.rows[id]; ok && m.IsRead == 0 {
		m.IsRead = 1
	}
	return nil
}

func (f *fakeMessages) UnreadCount(_ context.Context, userID uint64) (int, error) {
	n := 0
	for _, m := range f.rows {
		if m.RecipientID == userID && m.IsRead == 0 {
			n++
		}
	}
	return n, nil
}

func (f *fakeMessages) CreateBulk(_ context.Context, senderID uint64, recipientIDs []uint64, subject, content string) (int, error) {
	if len(recipientIDs) == 0 {
		return 0, nil
	}
	for _, rid := range recipientIDs {
		f.rows[f.nextID] = &model.Message{
			ID:          f.nextID,
			SenderID:    senderID,
			RecipientID: rid,
			Subject:     subject,
			Content:     content,
			IsRead:      0,
			CreatedAt:   time.Now().UTC(),
		}
		f.nextID++
	}
	return len(recipientIDs), nil
}

type fakeTeachers struct {
	byUser  map[uint64]*model.Teacher
	parents map[string][]model.User
	classes map[uint64][]string
	roster  map[string][]model.Student
	assigns []model.ClassAssignment
}

func newFakeTeachers() *fakeTeachers {
	return &fakeTeachers{
		byUser:  map[uint64]*model.Teacher{},
		parents: map[string][]model.User{},
		classes: map[uint64][]string{},
		roster:  map[string][]model.Student{},
	}
}

func (f *fakeTeachers) GetByUserID(_ context.Context, userID uint64) (*model.Teacher, error) {
	if t, ok := f.byUser[userID]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, repository.ErrTeacherNotFound
}

func (f *fakeTeachers) Create(_ context.Context, t *model.Teacher) error {
	t.ID = uint64(len(f.byUser) + 1)
	cp := *t
	f.byUser[t.UserID] = &cp
	return nil
}

func (f *fakeTeachers) Classes(_ context.Context, teacherID uint64) ([]string, error) {
	return f.classes[teacherID], nil
}

func (f *fakeTeachers) StudentsInClass(_ context.Context, _ uint64, className string) ([]model.Student, error) {
	return f.roster[className], nil
}

func (f *fakeTeachers) ParentsInClass(_ context.Context, _ uint64, className string) ([]model.User, error) {
	return f.parents[className], nil
}

func (f *fakeTeachers) Assign(_ context.Context, a *model.ClassAssignment) error {
	a.ID = uint64(len(f.assigns) + 1)
	f.assigns = append(f.assigns, *a)
	return nil
}

type fakeTemplates struct {
	rows   map[uint64]*model.MessageTemplate
	nextID uint64
}

func newFakeTemplates(rows ...*model.MessageTemplate) *fakeTemplates {
	f := &fakeTemplates{rows: map[uint64]*model.MessageTemplate{}, nextID: 1}
	for _, t := range rows {
		f.rows[t.ID] = t
		if t.ID >= f.nextID {
			f.nextID = t.ID + 1
		}
	}
	return f
}

func (f *fakeTemplates) ListByTeacher(_ context.Context, teacherID uint64) ([]model.MessageTemplate, error) {
	var out []model.MessageTemplate
	for _, t := range f.rows {
		if t.TeacherID != nil && *t.TeacherID == teacherID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTemplates) ListDefaults(context.Context) ([]model.MessageTemplate, error) {
	var out []model.MessageTemplate
	for _, t := range f.rows {
		if t.IsDefault == 1 {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTemplates) GetByID(_ context.Context, id uint64) (*model.MessageTemplate, error) {
	if t, ok := f.rows[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, repository.ErrTemplateNotFound
}

func (f *fakeTemplates) Create(_ context.Context, t *model.MessageTemplate) error {
	t.ID = f.nextID
	f.nextID++
	cp := *t
	f.rows[t.ID] = &cp
	return nil
}

func (f *fakeTemplates) Update(_ context.Context, id uint64, in repository.TemplateUpdate) (*model.MessageTemplate, error) {
	t, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrTemplateNotFound
	}
	if in.Name != nil {
		t.Name = *in.Name
	}
	if in.Subject != nil {
		t.Subject = *in.Subject
	}
	if in.Content != nil {
		t.Content = *in.Content
	}
	if in.Category != nil {
		t.Category = in.Category
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTemplates) Delete(_ context.Context, id uint64) error {
	delete(f.rows, id)
	return nil
}

type fakeUsers struct {
	rows map[uint64]*model.User
}

func newFakeUsers(rows ...*model.User) *fakeUsers {
	f := &fakeUsers{rows: map[uint64]*model.User{}}
	for _, u := range rows {
		f.rows[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Upsert(_ context.Context, in repository.UserUpsert) error { return nil }

func (f *fakeUsers) GetByOpenID(_ context.Context, openID string) (*model.User, error) {
	for _, u := range f.rows {
		if u.OpenID == openID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id uint64) (*model.User, error) {
	if u, ok := f.rows[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUsers) ListStaff(context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range f.rows {
		if u.Role == model.RoleTeacher || u.Role == model.RoleAdmin {
			out = append(out, *u)
		}
	}
	return out, nil
}

type fakeProgress struct {
	rows []model.ProgressRecord
}

func (f *fakeProgress) ListByStudent(_ context.Context, studentID uint64) ([]model.ProgressRecord, error) {
	var out []model.ProgressRecord
	for _, p := range f.rows {
		if p.StudentID == studentID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProgress) Create(_ context.Context, p *model.ProgressRecord) error {
	p.ID = uint64(len(f.rows) + 1)
	f.rows = append(f.rows, *p)
	return nil
}

type fakeAttendance struct {
	rows []model.AttendanceRecord
}

func (f *fakeAttendance) ListByStudent(_ context.Context, studentID uint64) ([]model.AttendanceRecord, error) {
	var out []model.AttendanceRecord
	for _, a := range f.rows {
		if a.StudentID == studentID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAttendance) Create(_ context.Context, a *model.AttendanceRecord) error {
	a.ID = uint64(len(f.rows) + 1)
	f.rows = append(f.rows, *a)
	return nil
}

type fakeMilestones struct {
	rows []model.Milestone
}

func (f *fakeMilestones) ListByStudent(_ context.Context, studentID uint64) ([]model.Milestone, error) {
	var out []model.Milestone
	for _, m := range f.rows {
		if m.StudentID == studentID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMilestones) Create(_ context.Context, m *model.Milestone) error {
	m.ID = uint64(len(f.rows) + 1)
	f.rows = append(f.rows, *m)
	return nil
}

type fakeTokens struct {
	stored  map[string]uint64 // hash -> user
	revoked map[string]bool
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{stored: map[string]uint64{}, revoked: map[string]bool{}}
}

func (f *fakeTokens) StoreRefresh(_ context.Context, userID uint64, tokenHash string, _ time.Time) error {
	f.stored[tokenHash] = userID
	return nil
}

func (f *fakeTokens) ValidateRefresh(_ context.Context, tokenHash string) (uint64, error) {
	if uid, ok := f.stored[tokenHash]; ok && !f.revoked[tokenHash] {
		return uid, nil
	}
	return 0, repository.ErrUserNotFound
}

func (f *fakeTokens) RevokeByHash(_ context.Context, tokenHash string) error {
	f.revoked[tokenHash] = true
	return nil
}

func (f *fakeTokens) RevokeAllForUser(_ context.Context, userID uint64) error {
	for h, uid := range f.stored {
		if uid == userID {
			f.revoked[h] = true
		}
	}
	return nil
}

type fakePublisher struct {
	events []queue.MessageCreatedEvent
}

func (f *fakePublisher) PublishMessageCreated(_ context.Context, ev queue.MessageCreatedEvent) error {
	f.events = append(f.events, ev)
	return nil
}
