package service

import (
	"context"
	"encoding/json"
	"path"
	"sort"
	"sync"
	"time"

	"github.com/lib/pq"

	"github.com/noah-isme/attendance-api/internal/models"
	appErrors "github.com/noah-isme/attendance-api/pkg/errors"
)

// memoryStore is an in-memory stand-in for the students and attendance tables.
type memoryStore struct {
	students      []models.Student
	records       []models.Attendance
	err           error
	createErr     error
	lastFilter    models.StudentFilter
	lastAttFilter models.AttendanceFilter
}

func (m *memoryStore) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	m.lastFilter = filter
	if m.err != nil {
		return nil, m.err
	}
	out := make([]models.Student, 0)
	for _, s := range m.students {
		if filter.Department != "" && s.Department != filter.Department {
			continue
		}
		if filter.RollNo != "" && s.RollNo != filter.RollNo {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (m *memoryStore) Create(ctx context.Context, student *models.Student) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, s := range m.students {
		if s.RollNo == student.RollNo {
			return &pq.Error{Code: "23505", Constraint: "students_roll_no_key"}
		}
		if s.Email == student.Email {
			return &pq.Error{Code: "23505", Constraint: "students_email_key"}
		}
	}
	student.ID = int64(len(m.students) + 1)
	student.CreatedAt = time.Now()
	m.students = append(m.students, *student)
	return nil
}

func (m *memoryStore) ExistsByRollNo(ctx context.Context, rollNo string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	for _, s := range m.students {
		if s.RollNo == rollNo {
			return true, nil
		}
	}
	return false, nil
}

// attendanceStore shares the student table with memoryStore so the foreign key can be emulated.
type attendanceStore struct {
	*memoryStore
	createErr error
	queries   int
}

func (a *attendanceStore) Create(ctx context.Context, record *models.Attendance) error {
	if a.createErr != nil {
		return a.createErr
	}
	record.ID = int64(len(a.records) + 1)
	a.records = append(a.records, *record)
	return nil
}

func (a *attendanceStore) ListByStudent(ctx context.Context, filter models.AttendanceFilter) ([]models.Attendance, error) {
	a.queries++
	a.lastAttFilter = filter
	if a.err != nil {
		return nil, a.err
	}
	out := make([]models.Attendance, 0)
	for _, r := range a.records {
		if r.StudentID != filter.StudentID {
			continue
		}
		if filter.StartDate != nil && r.Date < *filter.StartDate {
			continue
		}
		if filter.EndDate != nil && r.Date > *filter.EndDate {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (a *attendanceStore) ListByDate(ctx context.Context, date string) ([]models.Attendance, error) {
	a.queries++
	if a.err != nil {
		return nil, a.err
	}
	out := make([]models.Attendance, 0)
	for _, r := range a.records {
		if r.Date == date {
			out = append(out, r)
		}
	}
	return out, nil
}

// memoryCache implements CacheRepository with redis-like glob deletes.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = raw
	return nil
}

func (c *memoryCache) DeleteByPattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if ok, _ := path.Match(pattern, key); ok {
			delete(c.entries, key)
		}
	}
	return nil
}

func (c *memoryCache) keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.entries))
	for key := range c.entries {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

type userStore struct {
	users []models.User
	err   error
}

func (u *userStore) Create(ctx context.Context, user *models.User) error {
	if u.err != nil {
		return u.err
	}
	for _, existing := range u.users {
		if existing.Email == user.Email {
			return &pq.Error{Code: "23505", Constraint: "users_email_key"}
		}
	}
	if user.ID == "" {
		user.ID = "generated"
	}
	u.users = append(u.users, *user)
	return nil
}

func (u *userStore) CreateIfAbsent(ctx context.Context, user *models.User) (bool, error) {
	for _, existing := range u.users {
		if existing.Email == user.Email {
			return false, nil
		}
	}
	return true, u.Create(ctx, user)
}

func (u *userStore) ListByRole(ctx context.Context, role models.UserRole) ([]models.User, error) {
	if u.err != nil {
		return nil, u.err
	}
	out := make([]models.User, 0)
	for _, user := range u.users {
		if user.Role == role {
			out = append(out, user)
		}
	}
	return out, nil
}
