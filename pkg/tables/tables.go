// Package tables resolves logical table names to physical, prefixed table
// names. The prefix comes from the TABLE_PREFIX environment variable and is
// read on every call, so a single process can be pointed at another schema
// instance without reinitialization.
package tables

import (
	"os"
	"sort"
	"strings"
)

const (
	// PrefixEnv is the environment variable holding the table prefix
	PrefixEnv = "TABLE_PREFIX"

	// DefaultPrefix is used when PrefixEnv is unset or blank
	DefaultPrefix = "dqai_"
)

// Logical is a stable symbolic table key
type Logical string

const (
	Users              Logical = "USERS"
	Programs           Logical = "PROGRAMS"
	Facilities         Logical = "FACILITIES"
	Activities         Logical = "ACTIVITIES"
	ActivityReports    Logical = "ACTIVITY_REPORTS"
	Questions          Logical = "QUESTIONS"
	Answers            Logical = "ANSWERS"
	UploadedDocs       Logical = "UPLOADED_DOCS"
	Datasets           Logical = "DATASETS"
	DatasetContent     Logical = "DATASET_CONTENT"
	ReportTemplates    Logical = "REPORT_TEMPLATES"
	Settings           Logical = "SETTINGS"
	Businesses         Logical = "BUSINESSES"
	LandingPageConfig  Logical = "LANDING_PAGE_CONFIG"
	FeedbackMessages   Logical = "FEEDBACK_MESSAGES"
	AuditLogs          Logical = "AUDIT_LOGS"
	UserApprovals      Logical = "USER_APPROVALS"
	PagePermissions    Logical = "PAGE_PERMISSIONS"
	FormSchemas        Logical = "FORM_SCHEMAS"
	RagSchemas         Logical = "RAG_SCHEMAS"
	LLMProviders       Logical = "LLM_PROVIDERS"
	Plans              Logical = "PLANS"
	PlanAssignments    Logical = "PLAN_ASSIGNMENTS"
	ReportsPowerBI     Logical = "REPORTS_POWERBI"
	APIConnectors      Logical = "API_CONNECTORS"
	APIIngests         Logical = "API_INGESTS"
	Roles              Logical = "ROLES"
	Permissions        Logical = "PERMISSIONS"
	RolePermissions    Logical = "ROLE_PERMISSIONS"
	UserRoles          Logical = "USER_ROLES"
	RagChromaIDs       Logical = "RAG_CHROMA_IDS"
	AuditBatches       Logical = "AUDIT_BATCHES"
	EmailVerifications Logical = "EMAIL_VERIFICATIONS"
	Indicators         Logical = "INDICATORS"
	PasswordResets     Logical = "PASSWORD_RESETS"
	AuditEvents        Logical = "AUDIT_EVENTS"
)

var fragments = map[Logical]string{
	Users:              "users",
	Programs:           "programs",
	Facilities:         "facilities",
	Activities:         "activities",
	ActivityReports:    "activity_reports",
	Questions:          "questions",
	Answers:            "answers",
	UploadedDocs:       "uploaded_docs",
	Datasets:           "datasets",
	DatasetContent:     "dataset_content",
	ReportTemplates:    "report_templates",
	Settings:           "settings",
	Businesses:         "businesses",
	LandingPageConfig:  "landing_page_config",
	FeedbackMessages:   "feedback_messages",
	AuditLogs:          "audit_logs",
	UserApprovals:      "user_approvals",
	PagePermissions:    "page_permissions",
	FormSchemas:        "form_schemas",
	RagSchemas:         "rag_schemas",
	LLMProviders:       "llm_providers",
	Plans:              "plans",
	PlanAssignments:    "plan_assignments",
	ReportsPowerBI:     "reports_powerbi",
	APIConnectors:      "api_connectors",
	APIIngests:         "api_ingests",
	Roles:              "roles",
	Permissions:        "permissions",
	RolePermissions:    "role_permissions",
	UserRoles:          "user_roles",
	RagChromaIDs:       "rag_chroma_ids",
	AuditBatches:       "audit_batches",
	EmailVerifications: "email_verifications",
	Indicators:         "indicators",
	PasswordResets:     "password_resets",
	AuditEvents:        "audit_events",
}

// Prefix returns the current table prefix
func Prefix() string {
	if p := strings.TrimSpace(os.Getenv(PrefixEnv)); p != "" {
		return p
	}
	return DefaultPrefix
}

// Lookup returns the physical name for a logical name and whether the
// logical name is known
func Lookup(l Logical) (string, bool) {
	fragment, ok := fragments[l]
	if !ok {
		return "", false
	}
	return Prefix() + fragment, true
}

// Name returns the physical name for a logical name, or "" if the logical
// name is unknown
func Name(l Logical) string {
	name, _ := Lookup(l)
	return name
}

// TableName prefixes an arbitrary unprefixed table name
func TableName(raw string) string {
	return Prefix() + raw
}

// Fragment returns the unprefixed name of a logical table
func Fragment(l Logical) (string, bool) {
	fragment, ok := fragments[l]
	return fragment, ok
}

// All returns every known logical name in lexical order
func All() []Logical {
	all := make([]Logical, 0, len(fragments))
	for l := range fragments {
		all = append(all, l)
	}
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
	return all
}
