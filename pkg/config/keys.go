package config

// Environment inputs consumed by startup provisioning
const (
	DefaultBusinessName  = "DEFAULT_BUSINESS_NAME"
	DefaultBusinessPhone = "DEFAULT_BUSINESS_PHONE"
	DefaultBusinessEmail = "DEFAULT_BUSINESS_EMAIL"

	SuperAdminEmail    = "SUPER_ADMIN_EMAIL"
	SuperAdminPassword = "SUPER_ADMIN_PASSWORD"

	DemoAccountEmail    = "DEMO_ACCOUNT_EMAIL"
	DemoAccountPassword = "DEMO_ACCOUNT_PASSWORD"

	SMTPHost      = "SMTP_HOST"
	SMTPFromEmail = "SMTP_FROM_EMAIL"

	AllowPublicDemoLink = "ALLOW_PUBLIC_DEMO_LINK"
	LandingPageEnabled  = "LANDING_PAGE_ENABLED"

	MigrationFile = "MIGRATION_FILE"

	NodeEnv      = "NODE_ENV"
	Port         = "PORT"
	FrontendPort = "FRONTEND_PORT"
	DBHost       = "DB_HOST"
	DBPort       = "DB_PORT"
	DBName       = "DB_NAME"
)

// Keys lists every key captured by FromEnvironment
var Keys = []string{
	DefaultBusinessName,
	DefaultBusinessPhone,
	DefaultBusinessEmail,
	SuperAdminEmail,
	SuperAdminPassword,
	DemoAccountEmail,
	DemoAccountPassword,
	SMTPHost,
	SMTPFromEmail,
	AllowPublicDemoLink,
	LandingPageEnabled,
	MigrationFile,
	NodeEnv,
	Port,
	FrontendPort,
	DBHost,
	DBPort,
	DBName,
}
