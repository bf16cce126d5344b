package initialize

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"sync"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dqai/oneapp/pkg/tables"
)

var createTablePattern = regexp.MustCompile(`(?is)^\s*CREATE\s+TABLE\s+(?:IF\s+NOT\s+EXISTS\s+)?(\w+)`)

// memStore is an in-memory Store that understands just enough DDL to track
// which tables exist
type memStore struct {
	mu sync.Mutex

	tables     map[string]bool
	statements []string

	businesses  []Business
	plans       []Plan
	assignments []PlanAssignment
	users       []User
	landing     []LandingPageConfig
	settings    map[string][]byte
	settingKeys []string

	planInsertShapes       []bool
	assignmentInsertShapes []bool

	execErr          func(sql string) error
	insertSettingErr func(key string) error
	failures         map[string]error
	missingCreatedAt bool

	nextID int64
}

func newMemStore() *memStore {
	return &memStore{
		tables:   make(map[string]bool),
		settings: make(map[string][]byte),
		failures: make(map[string]error),
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) fail(method string) error {
	return m.failures[method]
}

func (m *memStore) needTable(l tables.Logical) error {
	name := tables.Name(l)
	if !m.tables[name] {
		return fmt.Errorf("relation %q does not exist", name)
	}
	return nil
}

func (m *memStore) missingColumn() error {
	return &pgconn.PgError{
		Severity: "ERROR",
		Code:     pgerrcode.UndefinedColumn,
		Message:  `column "created_at" of relation does not exist`,
	}
}

func (m *memStore) TableExists(ctx context.Context, table string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("TableExists"); err != nil {
		return false, err
	}
	return m.tables[table], nil
}

func (m *memStore) Exec(ctx context.Context, sql string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.execErr != nil {
		if err := m.execErr(sql); err != nil {
			return err
		}
	}
	m.statements = append(m.statements, sql)
	if match := createTablePattern.FindStringSubmatch(sql); match != nil {
		m.tables[match[1]] = true
	}
	return nil
}

func (m *memStore) BusinessIDByName(ctx context.Context, name string) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.needTable(tables.Businesses); err != nil {
		return 0, false, err
	}
	for _, b := range m.businesses {
		if b.Name == name {
			return b.ID, true, nil
		}
	}
	return 0, false, nil
}

func (m *memStore) FirstBusinessID(ctx context.Context) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.needTable(tables.Businesses); err != nil {
		return 0, false, err
	}
	if len(m.businesses) == 0 {
		return 0, false, nil
	}
	return m.businesses[0].ID, true, nil
}

func (m *memStore) InsertBusiness(ctx context.Context, b Business) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("InsertBusiness"); err != nil {
		return err
	}
	if err := m.needTable(tables.Businesses); err != nil {
		return err
	}
	b.ID = m.id()
	m.businesses = append(m.businesses, b)
	return nil
}

func (m *memStore) PlanIDByName(ctx context.Context, name string) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.needTable(tables.Plans); err != nil {
		return 0, false, err
	}
	for _, p := range m.plans {
		if p.Name == name {
			return p.ID, true, nil
		}
	}
	return 0, false, nil
}

func (m *memStore) FirstPlanID(ctx context.Context) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.needTable(tables.Plans); err != nil {
		return 0, false, err
	}
	if len(m.plans) == 0 {
		return 0, false, nil
	}
	return m.plans[0].ID, true, nil
}

func (m *memStore) InsertPlan(ctx context.Context, p Plan, withCreatedAt bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.planInsertShapes = append(m.planInsertShapes, withCreatedAt)
	if err := m.fail("InsertPlan"); err != nil {
		return err
	}
	if err := m.needTable(tables.Plans); err != nil {
		return err
	}
	if withCreatedAt && m.missingCreatedAt {
		return m.missingColumn()
	}
	p.ID = m.id()
	m.plans = append(m.plans, p)
	return nil
}

func (m *memStore) ActiveAssignmentCount(ctx context.Context, businessID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.needTable(tables.PlanAssignments); err != nil {
		return 0, err
	}
	count := 0
	for _, a := range m.assignments {
		if a.BusinessID == businessID && a.Status == statusActive {
			count++
		}
	}
	return count, nil
}

func (m *memStore) InsertPlanAssignment(ctx context.Context, a PlanAssignment, withCreatedAt bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignmentInsertShapes = append(m.assignmentInsertShapes, withCreatedAt)
	if err := m.fail("InsertPlanAssignment"); err != nil {
		return err
	}
	if err := m.needTable(tables.PlanAssignments); err != nil {
		return err
	}
	if withCreatedAt && m.missingCreatedAt {
		return m.missingColumn()
	}
	a.ID = m.id()
	m.assignments = append(m.assignments, a)
	return nil
}

func (m *memStore) UserIDByEmail(ctx context.Context, email string) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.needTable(tables.Users); err != nil {
		return 0, false, err
	}
	for _, u := range m.users {
		if u.Email == email {
			return u.ID, true, nil
		}
	}
	return 0, false, nil
}

func (m *memStore) UserIDByRole(ctx context.Context, role string) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.needTable(tables.Users); err != nil {
		return 0, false, err
	}
	for _, u := range m.users {
		if u.Role == role {
			return u.ID, true, nil
		}
	}
	return 0, false, nil
}

func (m *memStore) InsertUser(ctx context.Context, u User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("InsertUser"); err != nil {
		return err
	}
	if err := m.needTable(tables.Users); err != nil {
		return err
	}
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return fmt.Errorf("duplicate key value violates unique constraint on email %s", u.Email)
		}
	}
	u.ID = m.id()
	m.users = append(m.users, u)
	return nil
}

func (m *memStore) LandingPageConfigExists(ctx context.Context, businessID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("LandingPageConfigExists"); err != nil {
		return false, err
	}
	if err := m.needTable(tables.LandingPageConfig); err != nil {
		return false, err
	}
	for _, c := range m.landing {
		if c.BusinessID == businessID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) InsertLandingPageConfig(ctx context.Context, c LandingPageConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.needTable(tables.LandingPageConfig); err != nil {
		return err
	}
	m.landing = append(m.landing, c)
	return nil
}

func (m *memStore) SettingExists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.needTable(tables.Settings); err != nil {
		return false, err
	}
	_, ok := m.settings[key]
	return ok, nil
}

func (m *memStore) InsertSetting(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertSettingErr != nil {
		if err := m.insertSettingErr(key); err != nil {
			return err
		}
	}
	if err := m.needTable(tables.Settings); err != nil {
		return err
	}
	m.settings[key] = value
	m.settingKeys = append(m.settingKeys, key)
	return nil
}

func (m *memStore) tableNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.tables))
	for name := range m.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
