package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvironmentCapturesKnownKeys(t *testing.T) {
	t.Setenv(DefaultBusinessName, "Acme")
	t.Setenv(SMTPHost, "smtp.example.com")
	t.Setenv("SOMETHING_ELSE", "ignored")

	cfg := FromEnvironment()

	assert.Equal(t, "Acme", cfg.Get(DefaultBusinessName))
	assert.True(t, cfg.IsSet(SMTPHost))
	assert.Empty(t, cfg.Get("SOMETHING_ELSE"))
}

func TestGetOrFallsBackOnEmpty(t *testing.T) {
	cfg := New()
	assert.Equal(t, "fallback", cfg.GetOr(SuperAdminEmail, "fallback"))

	cfg.Update(map[string]string{SuperAdminEmail: ""})
	assert.Equal(t, "fallback", cfg.GetOr(SuperAdminEmail, "fallback"))

	cfg.Update(map[string]string{SuperAdminEmail: "root@acme.test"})
	assert.Equal(t, "root@acme.test", cfg.GetOr(SuperAdminEmail, "fallback"))
}

func TestBoolIsStrict(t *testing.T) {
	cfg := New()
	cfg.Update(map[string]string{
		AllowPublicDemoLink: "true",
		LandingPageEnabled:  "TRUE",
	})

	assert.True(t, cfg.Bool(AllowPublicDemoLink))
	assert.False(t, cfg.Bool(LandingPageEnabled))
	assert.False(t, cfg.Bool(SMTPHost))
}

func TestGetAllReturnsCopy(t *testing.T) {
	cfg := New()
	cfg.Update(map[string]string{NodeEnv: "production"})

	all := cfg.GetAll()
	all[NodeEnv] = "mutated"

	assert.Equal(t, "production", cfg.Get(NodeEnv))
}
