package initialize

import (
	"strings"
	"time"

	"github.com/dqai/oneapp/pkg/config"
	"github.com/dqai/oneapp/pkg/logger"
)

func enabled(on bool) string {
	if on {
		return "Enabled"
	}
	return "Disabled"
}

// LogStartupSummary prints the initialization banner
func LogStartupSummary(log logger.LoggerInterface, cfg *config.Config) {
	rule := strings.Repeat("=", 60)
	frontendPort := cfg.GetOr(config.FrontendPort, "5173")
	serverPort := cfg.GetOr(config.Port, "5000")

	lines := []string{
		rule,
		"OneApp Multi-Tenancy Initialization Summary",
		rule,
		"Timestamp: " + time.Now().UTC().Format(time.RFC3339),
		"Node Environment: " + cfg.GetOr(config.NodeEnv, "development"),
		"Database: " + cfg.GetOr(config.DBHost, "localhost") + ":" + cfg.GetOr(config.DBPort, "5432") + "/" + cfg.GetOr(config.DBName, "oneapp"),
		"Server Port: " + serverPort,
		"Frontend Port: " + frontendPort,
		rule,
		"Initialization Modules:",
		"  ✓ Database Migration",
		"  ✓ Default Business Setup",
		"  ✓ Subscription Plans",
		"  ✓ Super Admin User Creation",
		"  ✓ Demo Account Setup",
		"  ✓ Landing Page Configuration",
		"  ✓ Audit Logging",
		"  ✓ System Settings",
		rule,
		"Features Enabled:",
		"  ✓ Multi-Tenancy: Enabled",
		"  ✓ Email/SMTP: " + enabled(cfg.IsSet(config.SMTPHost)),
		"  ✓ Demo Login: " + enabled(cfg.Get(config.AllowPublicDemoLink) == "true"),
		"  ✓ Landing Page: " + enabled(cfg.Get(config.LandingPageEnabled) != "false"),
		rule,
		"Access Points:",
		"  • Web App: http://localhost:" + frontendPort,
		"  • API Server: http://localhost:" + serverPort,
		"  • Super Admin: http://localhost:" + frontendPort + "/#/super-admin",
		"  • Landing Page: http://localhost:" + frontendPort + "/",
		rule,
	}

	for _, line := range lines {
		log.Info(line)
	}
}
