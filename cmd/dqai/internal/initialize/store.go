package initialize

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the query surface shared by *pgxpool.Pool, *pgx.Conn and pgx.Tx
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is the database surface consumed by the provisioning steps. Lookups
// report a miss through their bool result, never through an error.
type Store interface {
	TableExists(ctx context.Context, table string) (bool, error)
	Exec(ctx context.Context, sql string) error

	BusinessIDByName(ctx context.Context, name string) (int64, bool, error)
	FirstBusinessID(ctx context.Context) (int64, bool, error)
	InsertBusiness(ctx context.Context, b Business) error

	PlanIDByName(ctx context.Context, name string) (int64, bool, error)
	FirstPlanID(ctx context.Context) (int64, bool, error)
	InsertPlan(ctx context.Context, p Plan, withCreatedAt bool) error
	ActiveAssignmentCount(ctx context.Context, businessID int64) (int, error)
	InsertPlanAssignment(ctx context.Context, a PlanAssignment, withCreatedAt bool) error

	UserIDByEmail(ctx context.Context, email string) (int64, bool, error)
	UserIDByRole(ctx context.Context, role string) (int64, bool, error)
	InsertUser(ctx context.Context, u User) error

	LandingPageConfigExists(ctx context.Context, businessID int64) (bool, error)
	InsertLandingPageConfig(ctx context.Context, c LandingPageConfig) error

	SettingExists(ctx context.Context, key string) (bool, error)
	InsertSetting(ctx context.Context, key string, value []byte) error
}

// Business is a tenant row
type Business struct {
	ID     int64
	Name   string
	Phone  string
	Email  string
	Status string
}

// Plan is a subscription tier
type Plan struct {
	ID                      int64
	Name                    string
	Description             string
	MaxProgramsPerBusiness  int
	MaxActivitiesPerProgram int
	MaxUsers                int
	Features                map[string]bool
	PriceMonthly            float64
	Status                  string
}

// PlanAssignment links a business to its active plan
type PlanAssignment struct {
	ID         int64
	BusinessID int64
	PlanID     int64
	AssignedBy *int64
	Status     string
}

// User is an application account
type User struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Role         string
	Status       string
	BusinessID   *int64
	IsDemo       bool
}

// LandingPageConfig is the public landing page of a business
type LandingPageConfig struct {
	BusinessID int64

	HeroTitle      string
	HeroSubtitle   string
	HeroImageURL   string
	HeroButtonText string
	HeroButtonLink string
	HeroVisible    bool

	FeaturesTitle    string
	FeaturesSubtitle string
	FeaturesVisible  bool

	CarouselTitle   string
	CarouselVisible bool

	CTATitle      string
	CTASubtitle   string
	CTAButtonText string
	CTAButtonLink string
	CTAVisible    bool

	DemoLink  string
	DemoLabel string

	PrimaryColor   string
	SecondaryColor string

	LogoURL    string
	FaviconURL string

	FooterText  string
	CompanyName string
}

// Values returns the 25 positional insert arguments, business id first
func (c LandingPageConfig) Values() []any {
	return []any{
		c.BusinessID,
		c.HeroTitle, c.HeroSubtitle, c.HeroImageURL, c.HeroButtonText, c.HeroButtonLink, c.HeroVisible,
		c.FeaturesTitle, c.FeaturesSubtitle, c.FeaturesVisible,
		c.CarouselTitle, c.CarouselVisible,
		c.CTATitle, c.CTASubtitle, c.CTAButtonText, c.CTAButtonLink, c.CTAVisible,
		c.DemoLink, c.DemoLabel,
		c.PrimaryColor, c.SecondaryColor,
		c.LogoURL, c.FaviconURL,
		c.FooterText, c.CompanyName,
	}
}
