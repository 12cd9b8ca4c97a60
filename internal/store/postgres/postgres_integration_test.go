package postgres

import (
	"context"
	"os"
	"testing"

	"unitime-backend/internal/store"
	"unitime-backend/internal/store/storetest"
)

func makePGStore(t *testing.T) store.Store {
	t.Helper()
	dsn := os.Getenv("UNITIME_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("UNITIME_POSTGRES_DSN not set; skipping postgres store integration test")
	}
	if err := Bootstrap(context.Background(), dsn); err != nil {
		t.Fatalf("postgres bootstrap: %v", err)
	}
	db, err := Open(dsn)
	if err != nil {
		t.Fatalf("postgres open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewWithDB(db)
}

func TestPostgresStore_Compliance(t *testing.T) {
	storetest.Run(t, makePGStore)
}
