package initialize

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dqai/oneapp/pkg/tables"
)

// PostgresStore implements Store over a pgx handle. Physical table names are
// resolved on every call.
type PostgresStore struct {
	db DBTX
}

// NewPostgresStore wraps a pool, connection or transaction
func NewPostgresStore(db DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

const tableExistsSQL = `SELECT EXISTS (
	SELECT FROM information_schema.tables
	WHERE table_schema = 'public'
	AND table_name = $1
)`

// TableExists probes information_schema for a table in the public schema
func (s *PostgresStore) TableExists(ctx context.Context, table string) (bool, error) {
	var exists bool
	if err := s.db.QueryRow(ctx, tableExistsSQL, table).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check if table %s exists: %w", table, err)
	}
	return exists, nil
}

// Exec runs a statement without arguments
func (s *PostgresStore) Exec(ctx context.Context, sql string) error {
	_, err := s.db.Exec(ctx, sql)
	return err
}

// queryID scans a single id column, mapping no rows to a miss
func (s *PostgresStore) queryID(ctx context.Context, sql string, args ...any) (int64, bool, error) {
	var id int64
	err := s.db.QueryRow(ctx, sql, args...).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

func (s *PostgresStore) BusinessIDByName(ctx context.Context, name string) (int64, bool, error) {
	return s.queryID(ctx,
		fmt.Sprintf(`SELECT id FROM %s WHERE name = $1 ORDER BY id LIMIT 1`, tables.Name(tables.Businesses)),
		name)
}

func (s *PostgresStore) FirstBusinessID(ctx context.Context) (int64, bool, error) {
	return s.queryID(ctx,
		fmt.Sprintf(`SELECT id FROM %s ORDER BY id LIMIT 1`, tables.Name(tables.Businesses)))
}

func (s *PostgresStore) InsertBusiness(ctx context.Context, b Business) error {
	_, err := s.db.Exec(ctx,
		fmt.Sprintf(`INSERT INTO %s (name, phone, email, status, created_at) VALUES ($1, $2, $3, $4, NOW())`,
			tables.Name(tables.Businesses)),
		b.Name, b.Phone, b.Email, b.Status)
	return err
}

func (s *PostgresStore) PlanIDByName(ctx context.Context, name string) (int64, bool, error) {
	return s.queryID(ctx,
		fmt.Sprintf(`SELECT id FROM %s WHERE name = $1 ORDER BY id LIMIT 1`, tables.Name(tables.Plans)),
		name)
}

func (s *PostgresStore) FirstPlanID(ctx context.Context) (int64, bool, error) {
	return s.queryID(ctx,
		fmt.Sprintf(`SELECT id FROM %s ORDER BY id LIMIT 1`, tables.Name(tables.Plans)))
}

func (s *PostgresStore) InsertPlan(ctx context.Context, p Plan, withCreatedAt bool) error {
	features, err := json.Marshal(p.Features)
	if err != nil {
		return fmt.Errorf("failed to encode features of plan %s: %w", p.Name, err)
	}

	columns := `name, description, max_programs_per_business, max_activities_per_program, max_users, features, price_monthly, status`
	values := `$1, $2, $3, $4, $5, $6, $7, $8`
	if withCreatedAt {
		columns += `, created_at`
		values += `, NOW()`
	}

	_, err = s.db.Exec(ctx,
		fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`, tables.Name(tables.Plans), columns, values),
		p.Name, p.Description, p.MaxProgramsPerBusiness, p.MaxActivitiesPerProgram, p.MaxUsers,
		string(features), p.PriceMonthly, p.Status)
	return err
}

func (s *PostgresStore) ActiveAssignmentCount(ctx context.Context, businessID int64) (int, error) {
	var count int
	err := s.db.QueryRow(ctx,
		fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE business_id = $1 AND status = 'Active'`,
			tables.Name(tables.PlanAssignments)),
		businessID).Scan(&count)
	return count, err
}

func (s *PostgresStore) InsertPlanAssignment(ctx context.Context, a PlanAssignment, withCreatedAt bool) error {
	columns := `business_id, plan_id, assigned_by, status, assigned_at`
	values := `$1, $2, $3, $4, NOW()`
	if withCreatedAt {
		columns += `, created_at`
		values += `, NOW()`
	}

	_, err := s.db.Exec(ctx,
		fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`, tables.Name(tables.PlanAssignments), columns, values),
		a.BusinessID, a.PlanID, a.AssignedBy, a.Status)
	return err
}

func (s *PostgresStore) UserIDByEmail(ctx context.Context, email string) (int64, bool, error) {
	return s.queryID(ctx,
		fmt.Sprintf(`SELECT id FROM %s WHERE email = $1 ORDER BY id LIMIT 1`, tables.Name(tables.Users)),
		email)
}

func (s *PostgresStore) UserIDByRole(ctx context.Context, role string) (int64, bool, error) {
	return s.queryID(ctx,
		fmt.Sprintf(`SELECT id FROM %s WHERE role = $1 ORDER BY id LIMIT 1`, tables.Name(tables.Users)),
		role)
}

func (s *PostgresStore) InsertUser(ctx context.Context, u User) error {
	usersTable := tables.Name(tables.Users)
	if u.IsDemo {
		_, err := s.db.Exec(ctx,
			fmt.Sprintf(`INSERT INTO %s (first_name, last_name, email, password, role, status, business_id, is_demo_account, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())`, usersTable),
			u.FirstName, u.LastName, u.Email, u.PasswordHash, u.Role, u.Status, u.BusinessID, true)
		return err
	}

	_, err := s.db.Exec(ctx,
		fmt.Sprintf(`INSERT INTO %s (first_name, last_name, email, password, role, status, business_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())`, usersTable),
		u.FirstName, u.LastName, u.Email, u.PasswordHash, u.Role, u.Status, u.BusinessID)
	return err
}

func (s *PostgresStore) LandingPageConfigExists(ctx context.Context, businessID int64) (bool, error) {
	_, found, err := s.queryID(ctx,
		fmt.Sprintf(`SELECT id FROM %s WHERE business_id = $1 LIMIT 1`, tables.Name(tables.LandingPageConfig)),
		businessID)
	return found, err
}

const insertLandingPageConfigSQL = `INSERT INTO %s
	(business_id, hero_title, hero_subtitle, hero_image_url, hero_button_text, hero_button_link, hero_visible,
	 features_title, features_subtitle, features_visible,
	 carousel_title, carousel_visible,
	 cta_title, cta_subtitle, cta_button_text, cta_button_link, cta_visible,
	 demo_link, demo_label,
	 primary_color, secondary_color,
	 logo_url, favicon_url,
	 footer_text, company_name, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, NOW())`

func (s *PostgresStore) InsertLandingPageConfig(ctx context.Context, c LandingPageConfig) error {
	_, err := s.db.Exec(ctx,
		fmt.Sprintf(insertLandingPageConfigSQL, tables.Name(tables.LandingPageConfig)),
		c.Values()...)
	return err
}

func (s *PostgresStore) SettingExists(ctx context.Context, key string) (bool, error) {
	var one int
	err := s.db.QueryRow(ctx,
		fmt.Sprintf(`SELECT 1 FROM %s WHERE key = $1`, tables.Name(tables.Settings)),
		key).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *PostgresStore) InsertSetting(ctx context.Context, key string, value []byte) error {
	_, err := s.db.Exec(ctx,
		fmt.Sprintf(`INSERT INTO %s (key, value) VALUES ($1, $2)`, tables.Name(tables.Settings)),
		key, string(value))
	return err
}
