package authorization

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gardenwatch/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, _ := newTestServiceWithDB(t)
	return svc
}

func newTestServiceWithDB(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn, err := db.NewTest()
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	enforcer, err := NewEnforcer(conn)
	if err != nil {
		t.Fatalf("new enforcer: %v", err)
	}
	return NewService(Params{Log: zap.NewNop(), Enforcer: enforcer}), conn
}

func TestAuthorizeAdmin(t *testing.T) {
	svc := newTestService(t)
	actor := Actor{UserID: snowflake.ID(42), Role: "admin"}

	if err := svc.Authorize(context.Background(), actor, ObjectKeyword, ActionKeywordCreate); err != nil {
		t.Fatalf("expected admin to create keywords, got %v", err)
	}
	if err := svc.Authorize(context.Background(), actor, ObjectMilestone, ActionMilestoneDelete); err != nil {
		t.Fatalf("expected admin to delete milestones, got %v", err)
	}
}

func TestAuthorizeUserForbidden(t *testing.T) {
	svc := newTestService(t)
	actor := Actor{UserID: snowflake.ID(7), Role: "user"}

	err := svc.Authorize(context.Background(), actor, ObjectKeyword, ActionKeywordCreate)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestAuthorizeFollowsRoleChange(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	id := snowflake.ID(9)

	if err := svc.Authorize(ctx, Actor{UserID: id, Role: "admin"}, ObjectMilestone, ActionMilestoneUpsert); err != nil {
		t.Fatalf("expected allow, got %v", err)
	}
	err := svc.Authorize(ctx, Actor{UserID: id, Role: "user"}, ObjectMilestone, ActionMilestoneUpsert)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected demoted user to be forbidden, got %v", err)
	}
}

func TestAuthorizeValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.Authorize(ctx, Actor{Role: "admin"}, ObjectKeyword, ActionKeywordCreate); !errors.Is(err, ErrInvalidActor) {
		t.Fatalf("expected ErrInvalidActor, got %v", err)
	}
	if err := svc.Authorize(ctx, Actor{UserID: 1, Role: "admin"}, " ", ActionKeywordCreate); !errors.Is(err, ErrInvalidObject) {
		t.Fatalf("expected ErrInvalidObject, got %v", err)
	}
	if err := svc.Authorize(ctx, Actor{UserID: 1, Role: "admin"}, ObjectKeyword, ""); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction, got %v", err)
	}
}

func TestAuthorizeFailsWhenDemotionCannotBePersisted(t *testing.T) {
	svc, conn := newTestServiceWithDB(t)
	ctx := context.Background()
	id := snowflake.ID(11)

	if err := svc.Authorize(ctx, Actor{UserID: id, Role: "admin"}, ObjectKeyword, ActionKeywordDelete); err != nil {
		t.Fatalf("expected allow, got %v", err)
	}
	if err := conn.Exec("DROP TABLE casbin_rule").Error; err != nil {
		t.Fatalf("drop policy table: %v", err)
	}

	err := svc.Authorize(ctx, Actor{UserID: id, Role: "user"}, ObjectKeyword, ActionKeywordDelete)
	if err == nil {
		t.Fatalf("expected demotion failure to deny the action")
	}
	if errors.Is(err, ErrForbidden) {
		t.Fatalf("expected the store error, got %v", err)
	}
}
