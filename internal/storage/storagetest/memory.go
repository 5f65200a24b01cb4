// Package storagetest provides an in-memory storage.Storage for tests.
package storagetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jwalitptl/cancerguard-api/internal/model"
	"github.com/jwalitptl/cancerguard-api/internal/repository"
	"github.com/jwalitptl/cancerguard-api/internal/storage"
)

// Memory is a concurrency safe in-memory Storage. Set FailWith to make
// every call return that error.
type Memory struct {
	mu       sync.Mutex
	nextID   int64
	FailWith error

	users        map[int64]model.User
	testResults  map[int64]model.TestResult
	hospitals    map[int64]model.Hospital
	appointments map[int64]model.Appointment
	plans        map[int64]model.RecoveryPlan
	activities   map[int64]model.RecoveryActivity

	writes int
}

var _ storage.Storage = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		users:        map[int64]model.User{},
		testResults:  map[int64]model.TestResult{},
		hospitals:    map[int64]model.Hospital{},
		appointments: map[int64]model.Appointment{},
		plans:        map[int64]model.RecoveryPlan{},
		activities:   map[int64]model.RecoveryActivity{},
	}
}

// Writes counts successful mutating calls.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// AddHospital seeds a hospital and returns its id.
func (m *Memory) AddHospital(h model.Hospital) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	h.ID = m.id()
	m.hospitals[h.ID] = h
	return h.ID
}

func (m *Memory) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *Memory) GetUser(ctx context.Context, id int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (m *Memory) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	for _, u := range m.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *Memory) CreateUser(ctx context.Context, nu *model.NewUser) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	for _, u := range m.users {
		if u.Username == nu.Username {
			return nil, repository.ErrDuplicate
		}
	}
	u := model.User{
		Base:         model.Base{ID: m.id(), CreatedAt: time.Now()},
		Username:     nu.Username,
		PasswordHash: nu.PasswordHash,
		FirstName:    nu.FirstName,
		LastName:     nu.LastName,
		Age:          nu.Age,
		Gender:       nu.Gender,
		Email:        nu.Email,
	}
	m.users[u.ID] = u
	m.writes++
	return &u, nil
}

func (m *Memory) UpdateUser(ctx context.Context, id int64, up *model.UserUpdate) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if up.FirstName != nil {
		u.FirstName = up.FirstName
	}
	if up.LastName != nil {
		u.LastName = up.LastName
	}
	if up.Age != nil {
		u.Age = up.Age
	}
	if up.Gender != nil {
		u.Gender = up.Gender
	}
	if up.Email != nil {
		u.Email = up.Email
	}
	if up.PasswordHash != nil {
		u.PasswordHash = *up.PasswordHash
	}
	m.users[id] = u
	m.writes++
	return &u, nil
}

func (m *Memory) GetUserTestResults(ctx context.Context, userID int64) ([]*model.TestResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	out := []*model.TestResult{}
	for _, r := range m.testResults {
		if r.UserID == userID {
			r := r
			out = append(out, &r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *Memory) GetTestResultByID(ctx context.Context, id int64) (*model.TestResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	r, ok := m.testResults[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &r, nil
}

func (m *Memory) CreateTestResult(ctx context.Context, r *model.TestResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	if _, ok := m.users[r.UserID]; !ok {
		return repository.ErrNotFound
	}
	r.ID = m.id()
	r.CreatedAt = time.Now()
	m.testResults[r.ID] = *r
	m.writes++
	return nil
}

func (m *Memory) GetHospitals(ctx context.Context) ([]*model.Hospital, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	out := []*model.Hospital{}
	for _, h := range m.hospitals {
		h := h
		out = append(out, &h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) GetHospitalByID(ctx context.Context, id int64) (*model.Hospital, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	h, ok := m.hospitals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &h, nil
}

func (m *Memory) GetUserAppointments(ctx context.Context, userID int64) ([]*model.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	out := []*model.Appointment{}
	for _, a := range m.appointments {
		if a.UserID == userID {
			a := a
			out = append(out, &a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (m *Memory) GetAppointmentByID(ctx context.Context, id int64) (*model.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	a, ok := m.appointments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (m *Memory) CreateAppointment(ctx context.Context, a *model.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	a.ID = m.id()
	a.CreatedAt = time.Now()
	m.appointments[a.ID] = *a
	m.writes++
	return nil
}

func (m *Memory) UpdateAppointmentStatus(ctx context.Context, id int64, status model.AppointmentStatus) (*model.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	a, ok := m.appointments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	a.Status = status
	m.appointments[id] = a
	m.writes++
	return &a, nil
}

func (m *Memory) planWithActivities(p model.RecoveryPlan) *model.RecoveryPlan {
	p.Activities = []model.RecoveryActivity{}
	for _, a := range m.activities {
		if a.RecoveryPlanID == p.ID {
			p.Activities = append(p.Activities, a)
		}
	}
	sort.Slice(p.Activities, func(i, j int) bool { return p.Activities[i].ID < p.Activities[j].ID })
	return &p
}

func (m *Memory) GetUserRecoveryPlans(ctx context.Context, userID int64) ([]*model.RecoveryPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	out := []*model.RecoveryPlan{}
	for _, p := range m.plans {
		if p.UserID == userID {
			out = append(out, m.planWithActivities(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *Memory) GetRecoveryPlanByID(ctx context.Context, id int64) (*model.RecoveryPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	p, ok := m.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return m.planWithActivities(p), nil
}

func (m *Memory) CreateRecoveryPlan(ctx context.Context, p *model.RecoveryPlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	p.ID = m.id()
	p.CreatedAt = time.Now()
	p.Activities = []model.RecoveryActivity{}
	m.plans[p.ID] = *p
	m.writes++
	return nil
}

func (m *Memory) CreateRecoveryActivity(ctx context.Context, a *model.RecoveryActivity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	if _, ok := m.plans[a.RecoveryPlanID]; !ok {
		return repository.ErrNotFound
	}
	a.ID = m.id()
	a.CreatedAt = time.Now()
	m.activities[a.ID] = *a
	m.writes++
	return nil
}

func (m *Memory) GetRecoveryActivityByID(ctx context.Context, id int64) (*model.RecoveryActivity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	a, ok := m.activities[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (m *Memory) SetRecoveryActivityCompleted(ctx context.Context, id int64, completed bool) (*model.RecoveryActivity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	a, ok := m.activities[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	a.Completed = completed
	m.activities[id] = a
	m.writes++
	return &a, nil
}

func (m *Memory) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.FailWith
}
