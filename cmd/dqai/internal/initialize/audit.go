package initialize

import (
	"context"
	"fmt"

	"github.com/dqai/oneapp/pkg/tables"
)

const auditLogsDDL = `CREATE TABLE IF NOT EXISTS %[1]s (
	id SERIAL PRIMARY KEY,
	business_id INTEGER REFERENCES %[2]s(id) ON DELETE SET NULL,
	user_id INTEGER REFERENCES %[3]s(id) ON DELETE SET NULL,
	action TEXT NOT NULL,
	entity_type TEXT,
	entity_id INTEGER,
	old_values JSONB,
	new_values JSONB,
	ip_address TEXT,
	user_agent TEXT,
	created_at TIMESTAMP DEFAULT NOW()
)`

const feedbackMessagesDDL = `CREATE TABLE IF NOT EXISTS %[1]s (
	id SERIAL PRIMARY KEY,
	business_id INTEGER REFERENCES %[2]s(id) ON DELETE SET NULL,
	sender_name TEXT,
	sender_email TEXT,
	sender_phone TEXT,
	subject TEXT,
	message TEXT,
	status TEXT DEFAULT 'New',
	priority TEXT DEFAULT 'Normal',
	assigned_to INTEGER REFERENCES %[3]s(id) ON DELETE SET NULL,
	created_at TIMESTAMP DEFAULT NOW(),
	updated_at TIMESTAMP DEFAULT NOW()
)`

// AuditIndexName names the created_at index of the audit table
func AuditIndexName() string {
	return "idx_" + tables.Name(tables.AuditLogs) + "_created_at"
}

func (i *Initializer) ensureAuditInfrastructure(ctx context.Context, store Store) error {
	i.logger.Info("Initializing audit logging...")

	audit := tables.Name(tables.AuditLogs)
	businesses := tables.Name(tables.Businesses)
	users := tables.Name(tables.Users)

	i.bestEffort(ctx, store, fmt.Sprintf(auditLogsDDL, audit, businesses, users))
	i.bestEffort(ctx, store, fmt.Sprintf(feedbackMessagesDDL, tables.Name(tables.FeedbackMessages), businesses, users))

	exists, err := store.TableExists(ctx, audit)
	if err != nil {
		return err
	}
	if !exists {
		i.logger.Warn("Audit logs table not found")
		return nil
	}

	i.bestEffort(ctx, store, fmt.Sprintf(
		"CREATE INDEX IF NOT EXISTS %s ON %s(created_at DESC)", AuditIndexName(), audit))
	i.logger.Info("Audit logging initialized")
	return nil
}
