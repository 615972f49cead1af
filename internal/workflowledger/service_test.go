package workflowledger

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/oharrington/thirdline-backend/pkg/db/models"
)

func newLedger(t *testing.T) Service {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.WorkflowRecord{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	svc, err := NewService(NewRepository(conn))
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}
	return svc
}

func TestClaimIsExactlyOnce(t *testing.T) {
	svc := newLedger(t)
	ctx := context.Background()
	tenantID := uuid.New()
	profileID := uuid.New()

	exists, err := svc.Exists(ctx, tenantID, profileID)
	if err != nil {
		t.Fatalf("Exists error: %v", err)
	}
	if exists {
		t.Fatal("expected no record before claim")
	}

	won, err := svc.Claim(ctx, tenantID, profileID)
	if err != nil {
		t.Fatalf("Claim error: %v", err)
	}
	if !won {
		t.Fatal("expected first claim to win")
	}

	won, err = svc.Claim(ctx, tenantID, profileID)
	if err != nil {
		t.Fatalf("second Claim error: %v", err)
	}
	if won {
		t.Fatal("expected second claim to lose")
	}

	exists, err = svc.Exists(ctx, tenantID, profileID)
	if err != nil {
		t.Fatalf("Exists error: %v", err)
	}
	if !exists {
		t.Fatal("expected record after claim")
	}
}

func TestClaimIsScopedPerTenant(t *testing.T) {
	svc := newLedger(t)
	ctx := context.Background()
	profileID := uuid.New()

	if won, err := svc.Claim(ctx, uuid.New(), profileID); err != nil || !won {
		t.Fatalf("expected first tenant claim to win, got %v err %v", won, err)
	}
	if won, err := svc.Claim(ctx, uuid.New(), profileID); err != nil || !won {
		t.Fatalf("expected different tenant claim to win, got %v err %v", won, err)
	}
}

func TestClaimValidation(t *testing.T) {
	svc := newLedger(t)
	ctx := context.Background()

	if _, err := svc.Claim(ctx, uuid.Nil, uuid.New()); err == nil {
		t.Fatal("expected validation error for nil tenant")
	}
	if _, err := svc.Exists(ctx, uuid.New(), uuid.Nil); err == nil {
		t.Fatal("expected validation error for nil profile")
	}
}
