package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/noah-isme/ensalamento-api/internal/models"
	appErrors "github.com/noah-isme/ensalamento-api/pkg/errors"
)

var errBoom = errors.New("boom")

type fakeClassroomRepo struct {
	rooms   map[string]*models.Classroom
	order   []string
	usage   map[string]int
	listErr error
	seq     int
}

func newFakeClassroomRepo(rooms ...models.Classroom) *fakeClassroomRepo {
	repo := &fakeClassroomRepo{rooms: map[string]*models.Classroom{}, usage: map[string]int{}}
	for i := range rooms {
		room := rooms[i]
		repo.rooms[room.ID] = &room
		repo.order = append(repo.order, room.ID)
	}
	return repo
}

func (f *fakeClassroomRepo) List(ctx context.Context, filter models.ClassroomFilter) ([]models.Classroom, int, error) {
	all, err := f.ListAll(ctx)
	return all, len(all), err
}

func (f *fakeClassroomRepo) ListAll(ctx context.Context) ([]models.Classroom, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.Classroom, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, *f.rooms[id])
	}
	return out, nil
}

func (f *fakeClassroomRepo) FindByID(ctx context.Context, id string) (*models.Classroom, error) {
	room, ok := f.rooms[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *room
	return &copied, nil
}

func (f *fakeClassroomRepo) ExistsByName(ctx context.Context, name string, excludeID string) (bool, error) {
	for id, room := range f.rooms {
		if id != excludeID && strings.EqualFold(room.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeClassroomRepo) Create(ctx context.Context, room *models.Classroom) error {
	f.seq++
	room.ID = fmt.Sprintf("room-new-%d", f.seq)
	copied := *room
	f.rooms[room.ID] = &copied
	f.order = append(f.order, room.ID)
	return nil
}

func (f *fakeClassroomRepo) Update(ctx context.Context, room *models.Classroom) error {
	copied := *room
	f.rooms[room.ID] = &copied
	return nil
}

func (f *fakeClassroomRepo) SetMaintenance(ctx context.Context, id string, under bool, reason *string) error {
	room, ok := f.rooms[id]
	if !ok {
		return sql.ErrNoRows
	}
	room.UnderMaintenance = under
	room.MaintenanceReason = reason
	if !under {
		room.MaintenanceReason = nil
	}
	return nil
}

func (f *fakeClassroomRepo) Delete(ctx context.Context, id string) error {
	delete(f.rooms, id)
	for i, existing := range f.order {
		if existing == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeClassroomRepo) CountUsage(ctx context.Context, id string) (int, error) {
	return f.usage[id], nil
}

type fakeClassGroupRepo struct {
	groups       map[string]*models.ClassGroup
	order        []string
	reservations map[string]int
	listErr      error
}

func newFakeClassGroupRepo(groups ...models.ClassGroup) *fakeClassGroupRepo {
	repo := &fakeClassGroupRepo{groups: map[string]*models.ClassGroup{}, reservations: map[string]int{}}
	for i := range groups {
		g := groups[i]
		repo.groups[g.ID] = &g
		repo.order = append(repo.order, g.ID)
	}
	return repo
}

func (f *fakeClassGroupRepo) List(ctx context.Context, filter models.ClassGroupFilter) ([]models.ClassGroupDetail, int, error) {
	all, err := f.ListAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	out := make([]models.ClassGroupDetail, 0, len(all))
	for _, g := range all {
		if filter.Shift != "" && g.Shift != filter.Shift {
			continue
		}
		out = append(out, models.ClassGroupDetail{ClassGroup: g})
	}
	return out, len(out), nil
}

func (f *fakeClassGroupRepo) ListAll(ctx context.Context) ([]models.ClassGroup, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.ClassGroup, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, *f.groups[id])
	}
	return out, nil
}

func (f *fakeClassGroupRepo) FindByID(ctx context.Context, id string) (*models.ClassGroup, error) {
	g, ok := f.groups[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *g
	return &copied, nil
}

func (f *fakeClassGroupRepo) Create(ctx context.Context, group *models.ClassGroup) error {
	group.ID = fmt.Sprintf("group-new-%d", len(f.order)+1)
	copied := *group
	f.groups[group.ID] = &copied
	f.order = append(f.order, group.ID)
	return nil
}

func (f *fakeClassGroupRepo) Update(ctx context.Context, group *models.ClassGroup) error {
	copied := *group
	f.groups[group.ID] = &copied
	return nil
}

func (f *fakeClassGroupRepo) Delete(ctx context.Context, id string) error {
	delete(f.groups, id)
	return nil
}

func (f *fakeClassGroupRepo) CountReservations(ctx context.Context, id string) (int, error) {
	return f.reservations[id], nil
}

type fakeCourseRepo struct {
	courses map[string]*models.Course
	groups  map[string]int
}

func newFakeCourseRepo(courses ...models.Course) *fakeCourseRepo {
	repo := &fakeCourseRepo{courses: map[string]*models.Course{}, groups: map[string]int{}}
	for i := range courses {
		c := courses[i]
		repo.courses[c.ID] = &c
	}
	return repo
}

func (f *fakeCourseRepo) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	out := make([]models.Course, 0, len(f.courses))
	for _, c := range f.courses {
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (f *fakeCourseRepo) FindByID(ctx context.Context, id string) (*models.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *c
	return &copied, nil
}

func (f *fakeCourseRepo) ExistsByCode(ctx context.Context, code, excludeID string) (bool, error) {
	for id, c := range f.courses {
		if id != excludeID && c.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCourseRepo) Create(ctx context.Context, course *models.Course) error {
	course.ID = fmt.Sprintf("course-new-%d", len(f.courses)+1)
	copied := *course
	f.courses[course.ID] = &copied
	return nil
}

func (f *fakeCourseRepo) Update(ctx context.Context, course *models.Course) error {
	copied := *course
	f.courses[course.ID] = &copied
	return nil
}

func (f *fakeCourseRepo) Delete(ctx context.Context, id string) error {
	delete(f.courses, id)
	return nil
}

func (f *fakeCourseRepo) CountClassGroups(ctx context.Context, id string) (int, error) {
	return f.groups[id], nil
}

type fakeRecurringRepo struct {
	items   map[string]*models.RecurringReservation
	order   []string
	listErr error
}

func newFakeRecurringRepo(items ...models.RecurringReservation) *fakeRecurringRepo {
	repo := &fakeRecurringRepo{items: map[string]*models.RecurringReservation{}}
	for i := range items {
		it := items[i]
		repo.items[it.ID] = &it
		repo.order = append(repo.order, it.ID)
	}
	return repo
}

func (f *fakeRecurringRepo) List(ctx context.Context, filter models.ReservationFilter) ([]models.RecurringReservation, int, error) {
	all, err := f.ListAll(ctx)
	return all, len(all), err
}

func (f *fakeRecurringRepo) ListAll(ctx context.Context) ([]models.RecurringReservation, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.RecurringReservation, 0, len(f.order))
	for _, id := range f.order {
		if it, ok := f.items[id]; ok {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (f *fakeRecurringRepo) FindByID(ctx context.Context, id string) (*models.RecurringReservation, error) {
	it, ok := f.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *it
	return &copied, nil
}

func (f *fakeRecurringRepo) Create(ctx context.Context, item *models.RecurringReservation) error {
	item.ID = fmt.Sprintf("rec-new-%d", len(f.order)+1)
	copied := *item
	f.items[item.ID] = &copied
	f.order = append(f.order, item.ID)
	return nil
}

func (f *fakeRecurringRepo) Update(ctx context.Context, item *models.RecurringReservation) error {
	copied := *item
	f.items[item.ID] = &copied
	return nil
}

func (f *fakeRecurringRepo) Delete(ctx context.Context, id string) error {
	delete(f.items, id)
	return nil
}

type fakeEventRepo struct {
	items map[string]*models.EventReservation
	order []string
}

func newFakeEventRepo(items ...models.EventReservation) *fakeEventRepo {
	repo := &fakeEventRepo{items: map[string]*models.EventReservation{}}
	for i := range items {
		it := items[i]
		repo.items[it.ID] = &it
		repo.order = append(repo.order, it.ID)
	}
	return repo
}

func (f *fakeEventRepo) List(ctx context.Context, filter models.ReservationFilter) ([]models.EventReservation, int, error) {
	all, err := f.ListAll(ctx)
	return all, len(all), err
}

func (f *fakeEventRepo) ListAll(ctx context.Context) ([]models.EventReservation, error) {
	out := make([]models.EventReservation, 0, len(f.order))
	for _, id := range f.order {
		if it, ok := f.items[id]; ok {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) FindByID(ctx context.Context, id string) (*models.EventReservation, error) {
	it, ok := f.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *it
	return &copied, nil
}

func (f *fakeEventRepo) Create(ctx context.Context, item *models.EventReservation) error {
	item.ID = fmt.Sprintf("evt-new-%d", len(f.order)+1)
	copied := *item
	f.items[item.ID] = &copied
	f.order = append(f.order, item.ID)
	return nil
}

func (f *fakeEventRepo) Update(ctx context.Context, item *models.EventReservation) error {
	copied := *item
	f.items[item.ID] = &copied
	return nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	delete(f.items, id)
	return nil
}

// countingInvalidator records how often occupancy was invalidated.
type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) Invalidate(ctx context.Context) {
	c.calls++
}

// memoryCacheRepo stores JSON payloads in a map.
type memoryCacheRepo struct {
	data    map[string][]byte
	getErr  error
	deleted []string
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{data: map[string][]byte{}}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	if m.getErr != nil {
		return m.getErr
	}
	raw, ok := m.data[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) (int, error) {
	prefix := strings.TrimSuffix(pattern, "*")
	removed := 0
	for key := range m.data {
		if strings.HasPrefix(key, prefix) {
			delete(m.data, key)
			m.deleted = append(m.deleted, key)
			removed++
		}
	}
	return removed, nil
}

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

// campus is a small school: two rooms, one morning class group on Monday and
// Wednesday during the first semester of 2025.
type campus struct {
	rooms     *fakeClassroomRepo
	groups    *fakeClassGroupRepo
	courses   *fakeCourseRepo
	recurring *fakeRecurringRepo
	events    *fakeEventRepo
}

func newCampus() *campus {
	return &campus{
		rooms: newFakeClassroomRepo(
			models.Classroom{ID: "room-101", Name: "Sala 101", Capacity: intPtr(40)},
			models.Classroom{ID: "lab-1", Name: "Laboratório 1", Capacity: intPtr(20)},
		),
		groups: newFakeClassGroupRepo(
			models.ClassGroup{
				ID:          "group-a",
				Name:        "Turma A",
				Year:        2025,
				Shift:       "Manhã",
				Status:      "Em Andamento",
				StartDate:   "2025-02-03",
				EndDate:     "2025-06-30",
				ClassroomID: strPtr("room-101"),
				ClassDays:   []string{"Segunda", "Quarta"},
			},
			models.ClassGroup{
				ID:        "group-b",
				Name:      "Turma B",
				Year:      2025,
				Shift:     "Noite",
				Status:    "Planejada",
				StartDate: "2025-02-03",
				EndDate:   "2025-06-30",
				ClassDays: []string{"Terça"},
			},
		),
		courses:   newFakeCourseRepo(models.Course{ID: "course-1", Name: "Informática", Code: "INF"}),
		recurring: newFakeRecurringRepo(),
		events:    newFakeEventRepo(),
	}
}

func (c *campus) loader(metrics *MetricsService) *SnapshotLoader {
	return NewSnapshotLoader(c.rooms, c.groups, c.recurring, c.events, metrics, nil)
}
