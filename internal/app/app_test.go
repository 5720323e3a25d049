package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"rbac-demo/internal/config"
	"rbac-demo/internal/domain"
	"rbac-demo/internal/snapshot"
)

func fileConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		SnapshotDriver: config.DriverFile,
		SnapshotPath:   filepath.Join(t.TempDir(), "rbac.json"),
		LogLevel:       "info",
	}
}

func TestNewSeedsWhenNoSnapshotExists(t *testing.T) {
	a, err := New(context.Background(), fileConfig(t), nil)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer a.Close()

	if !a.Engine.HasPrivilege("user_1", "manage_users") {
		t.Error("seeded John Admin should have manage_users via IT Department")
	}
	if a.Engine.HasPrivilege("user_3", "manage_users") {
		t.Error("seeded Bob Viewer must not have manage_users")
	}
	if got := len(a.Engine.ListPrivileges()); got != 4 {
		t.Errorf("seed privileges = %d, want 4", got)
	}
}

func TestNewRestoresExistingSnapshot(t *testing.T) {
	cfg := fileConfig(t)
	ctx := context.Background()

	first, err := New(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("first app: %v", err)
	}
	id, err := first.Engine.AddPrivilege(domain.Privilege{Name: "Export Data", Key: "export_data"})
	if err != nil {
		t.Fatalf("add privilege: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := New(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("second app: %v", err)
	}
	defer second.Close()

	if _, ok := second.Engine.GetPrivilege(id); !ok {
		t.Error("privilege added in the first session must survive restart")
	}
	if got := len(second.Engine.ListPrivileges()); got != 5 {
		t.Errorf("restored privileges = %d, want 5 (seed must not reapply)", got)
	}
}

func TestNewFallsBackToSeedOnCorruptSnapshot(t *testing.T) {
	cfg := fileConfig(t)
	if err := os.WriteFile(cfg.SnapshotPath, []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}

	a, err := New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("corrupt snapshot must not fail startup: %v", err)
	}
	defer a.Close()

	if got := len(a.Engine.ListUsers()); got != 3 {
		t.Errorf("users = %d, want the 3 seed users", got)
	}
}

func TestNewUsesSeedFileOverride(t *testing.T) {
	cfg := fileConfig(t)
	seedPath := filepath.Join(t.TempDir(), "seed.yaml")
	seed := `
privileges:
  - id: p_root
    name: Root
    key: root_access
roles:
  - id: r_root
    name: Root Role
    privilegeIds: [p_root]
groups: []
users:
  - id: u_root
    name: Root User
    email: root@example.com
    groupIds: []
    directRoleIds: [r_root]
`
	if err := os.WriteFile(seedPath, []byte(seed), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg.SeedFile = seedPath

	a, err := New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer a.Close()

	if !a.Engine.HasPrivilege("u_root", "root_access") {
		t.Error("seed file user should hold its direct role's privilege")
	}
	if got := len(a.Engine.ListUsers()); got != 1 {
		t.Errorf("users = %d, want 1 from seed file", got)
	}
}

func TestMutationsSurviveRestart(t *testing.T) {
	cfg := fileConfig(t)
	ctx := context.Background()

	a, err := New(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("app: %v", err)
	}
	if !a.Engine.AssignUserToGroup("user_3", "group_1") {
		t.Fatal("assign failed")
	}
	_ = a.Close()

	// The write-through snapshot is readable directly.
	snap, err := snapshot.NewFileStore(cfg.SnapshotPath).Load(ctx)
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	if snap == nil {
		t.Fatal("expected a persisted snapshot after mutation")
	}

	b, err := New(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("restarted app: %v", err)
	}
	defer b.Close()
	if !b.Engine.HasPrivilege("user_3", "manage_users") {
		t.Error("group membership granted before restart must persist")
	}
}
