package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"bizops/internal/model"
	"bizops/internal/repository"
	pkgerrors "bizops/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User // key: user_id 或 "email:"+email
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if _, ok := m.users["email:"+strings.ToLower(user.Email)]; ok {
		return gorm.ErrDuplicatedKey
	}
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("00000000-0000-0000-0000-%012d", m.seq)
	}
	user.CreatedAt = time.Now()
	m.users[user.UserID] = user
	m.users["email:"+strings.ToLower(user.Email)] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if u, ok := m.users["email:"+strings.ToLower(email)]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock SessionRepository ──

type mockSessionRepo struct {
	sessions map[string]*model.Session
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{sessions: make(map[string]*model.Session)}
}

func (m *mockSessionRepo) Create(_ context.Context, s *model.Session) error {
	m.sessions[s.SessionID] = s
	return nil
}

func (m *mockSessionRepo) GetByID(_ context.Context, id string) (*model.Session, error) {
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSessionRepo) Delete(_ context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

func (m *mockSessionRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for id, s := range m.sessions {
		if s.Expired(now) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

// ── Mock EmployeeRepository ──

type mockEmployeeRepo struct {
	employees map[int]*model.Employee
}

func newMockEmployeeRepo(employees ...model.Employee) *mockEmployeeRepo {
	m := &mockEmployeeRepo{employees: make(map[int]*model.Employee)}
	for i := range employees {
		e := employees[i]
		m.employees[e.EmployeeID] = &e
	}
	return m
}

func (m *mockEmployeeRepo) List(_ context.Context) ([]model.Employee, error) {
	result := make([]model.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		result = append(result, *e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].EmployeeID < result[j].EmployeeID })
	return result, nil
}

func (m *mockEmployeeRepo) ListIDs(_ context.Context, ids []int) ([]int, error) {
	var found []int
	for _, id := range ids {
		if _, ok := m.employees[id]; ok {
			found = append(found, id)
		}
	}
	return found, nil
}

func (m *mockEmployeeRepo) Upsert(_ context.Context, employees []model.Employee) error {
	for i := range employees {
		e := employees[i]
		m.employees[e.EmployeeID] = &e
	}
	return nil
}

// ── Mock AttendanceRepository ──

type attendanceKey struct {
	employeeID int
	day        string
}

type mockAttendanceRepo struct {
	records   map[attendanceKey]model.AttendanceRecord
	upsertErr error
	upserts   int
}

func newMockAttendanceRepo() *mockAttendanceRepo {
	return &mockAttendanceRepo{records: make(map[attendanceKey]model.AttendanceRecord)}
}

func (m *mockAttendanceRepo) put(employeeID int, day, status string) {
	d, _ := time.Parse(model.DateLayout, day)
	m.records[attendanceKey{employeeID, day}] = model.AttendanceRecord{EmployeeID: employeeID, Date: d, Status: status}
}

func (m *mockAttendanceRepo) Upsert(_ context.Context, records []model.AttendanceRecord) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserts++
	for _, r := range records {
		m.records[attendanceKey{r.EmployeeID, r.Date.Format(model.DateLayout)}] = r
	}
	return nil
}

func (m *mockAttendanceRepo) ListByDate(_ context.Context, date time.Time) ([]model.AttendanceRecord, error) {
	day := date.Format(model.DateLayout)
	var result []model.AttendanceRecord
	for k, r := range m.records {
		if k.day == day {
			result = append(result, r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].EmployeeID < result[j].EmployeeID })
	return result, nil
}

func (m *mockAttendanceRepo) CountByDates(_ context.Context, dates []time.Time) (map[string]int64, error) {
	result := make(map[string]int64)
	for _, d := range dates {
		day := d.Format(model.DateLayout)
		for k := range m.records {
			if k.day == day {
				result[day]++
			}
		}
	}
	return result, nil
}

func (m *mockAttendanceRepo) CountByStatus(_ context.Context, from, to time.Time) ([]model.StatusCount, error) {
	return m.count(func(d time.Time) bool { return !d.Before(from) && d.Before(to) }), nil
}

func (m *mockAttendanceRepo) CountByStatusForMonth(_ context.Context, month int) ([]model.StatusCount, error) {
	return m.count(func(d time.Time) bool { return int(d.Month()) == month }), nil
}

func (m *mockAttendanceRepo) count(match func(time.Time) bool) []model.StatusCount {
	type k struct {
		id     int
		status string
	}
	counts := make(map[k]int64)
	for _, r := range m.records {
		if match(r.Date) {
			counts[k{r.EmployeeID, r.Status}]++
		}
	}
	var result []model.StatusCount
	for key, n := range counts {
		result = append(result, model.StatusCount{EmployeeID: key.id, Status: key.status, Count: n})
	}
	return result
}

// ── Mock StockRepository ──

type mockStockRepo struct {
	items map[string]*model.StockItem
	// stale 模拟读取之后被其他请求修改
	stale bool
}

func newMockStockRepo() *mockStockRepo {
	return &mockStockRepo{items: make(map[string]*model.StockItem)}
}

func (m *mockStockRepo) Create(_ context.Context, item *model.StockItem) error {
	if _, ok := m.items[item.ID]; ok {
		return gorm.ErrDuplicatedKey
	}
	now := time.Now()
	item.CreatedAt, item.UpdatedAt = now, now
	cp := *item
	m.items[item.ID] = &cp
	return nil
}

func (m *mockStockRepo) GetByID(_ context.Context, id string) (*model.StockItem, error) {
	if it, ok := m.items[id]; ok {
		cp := *it
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStockRepo) List(_ context.Context, search string) ([]model.StockItem, error) {
	s := strings.ToLower(strings.TrimSpace(search))
	var result []model.StockItem
	for _, it := range m.items {
		hay := strings.ToLower(strings.Join([]string{it.ID, it.Name, it.Colour, it.RackNo, it.Size, it.BulkRetail}, " "))
		if s == "" || strings.Contains(hay, s) {
			result = append(result, *it)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockStockRepo) Update(_ context.Context, item *model.StockItem) error {
	cur, ok := m.items[item.ID]
	if !ok {
		return errors.New("not found")
	}
	if m.stale || !cur.UpdatedAt.Equal(item.UpdatedAt) {
		return pkgerrors.ErrOptimisticLock
	}
	item.UpdatedAt = time.Now()
	cp := *item
	m.items[item.ID] = &cp
	return nil
}

func (m *mockStockRepo) Delete(_ context.Context, id string) (int64, error) {
	if _, ok := m.items[id]; !ok {
		return 0, nil
	}
	delete(m.items, id)
	return 1, nil
}

// ── 聚合 ──

type mockRepos struct {
	user       *mockUserRepo
	session    *mockSessionRepo
	employee   *mockEmployeeRepo
	attendance *mockAttendanceRepo
	stock      *mockStockRepo
}

func newMockRepository(employees ...model.Employee) (*repository.Repository, *mockRepos) {
	m := &mockRepos{
		user:       newMockUserRepo(),
		session:    newMockSessionRepo(),
		employee:   newMockEmployeeRepo(employees...),
		attendance: newMockAttendanceRepo(),
		stock:      newMockStockRepo(),
	}
	return &repository.Repository{
		User:       m.user,
		Session:    m.session,
		Employee:   m.employee,
		Attendance: m.attendance,
		Stock:      m.stock,
	}, m
}
