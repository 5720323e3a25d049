package engine

import (
	"context"
	"errors"
	"testing"

	"rbac-demo/internal/domain"
)

// testSnapshot returns the demo dataset used across the engine tests:
// four privileges, three roles, two groups, three users.
func testSnapshot() *domain.Snapshot {
	return &domain.Snapshot{
		Privileges: []domain.Privilege{
			{ID: "priv_1", Name: "View Dashboard", Description: "Can view the main dashboard", Key: "view_dashboard"},
			{ID: "priv_2", Name: "Edit Content", Description: "Can edit content", Key: "edit_content"},
			{ID: "priv_3", Name: "Delete Content", Description: "Can delete content", Key: "delete_content"},
			{ID: "priv_4", Name: "Manage Users", Description: "Can manage users", Key: "manage_users"},
		},
		Roles: []domain.Role{
			{ID: "role_1", Name: "Admin", Description: "Full system access", PrivilegeIDs: []string{"priv_1", "priv_2", "priv_3", "priv_4"}},
			{ID: "role_2", Name: "Editor", Description: "Can edit and view content", PrivilegeIDs: []string{"priv_1", "priv_2"}},
			{ID: "role_3", Name: "Viewer", Description: "Can view content only", PrivilegeIDs: []string{"priv_1"}},
		},
		Groups: []domain.Group{
			{ID: "group_1", Name: "IT Department", Description: "IT staff members", RoleIDs: []string{"role_1"}, MemberIDs: []string{"user_1"}},
			{ID: "group_2", Name: "Content Team", Description: "Content creators and editors", RoleIDs: []string{"role_2"}, MemberIDs: []string{"user_2"}},
		},
		Users: []domain.User{
			{ID: "user_1", Name: "John Admin", Email: "john@example.com", GroupIDs: []string{"group_1"}},
			{ID: "user_2", Name: "Jane Editor", Email: "jane@example.com", GroupIDs: []string{"group_2"}},
			{ID: "user_3", Name: "Bob Viewer", Email: "bob@example.com", DirectRoleIDs: []string{"role_3"}},
		},
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return New(testSnapshot(), nil, nil)
}

// recordingStore counts Save calls and can be told to fail.
type recordingStore struct {
	saves int
	last  *domain.Snapshot
	fail  bool
}

func (s *recordingStore) Load(context.Context) (*domain.Snapshot, error) { return nil, nil }

func (s *recordingStore) Save(_ context.Context, snap *domain.Snapshot) error {
	s.saves++
	s.last = snap
	if s.fail {
		return errors.New("disk full")
	}
	return nil
}

func (s *recordingStore) Close() error { return nil }

func TestAddAssignsFreshID(t *testing.T) {
	e := newTestEngine(t)

	id, err := e.AddUser(domain.User{Name: "New User", Email: "new@example.com"})
	if err != nil {
		t.Fatalf("add user: %v", err)
	}
	if id == "" {
		t.Fatal("expected a generated id")
	}
	id2, err := e.AddUser(domain.User{Name: "Other User"})
	if err != nil {
		t.Fatalf("add second user: %v", err)
	}
	if id == id2 {
		t.Fatalf("ids must be unique, got %q twice", id)
	}
	u, ok := e.GetUser(id)
	if !ok {
		t.Fatalf("user %s not found after add", id)
	}
	if u.Email != "new@example.com" {
		t.Errorf("email = %q, want new@example.com", u.Email)
	}
}

func TestAddIgnoresCallerProvidedID(t *testing.T) {
	e := newTestEngine(t)

	id, err := e.AddRole(domain.Role{ID: "role_1", Name: "Imposter"})
	if err != nil {
		t.Fatalf("add role: %v", err)
	}
	if id == "role_1" {
		t.Error("caller-provided id must be replaced with a generated one")
	}
}

func TestAddRequiresName(t *testing.T) {
	e := newTestEngine(t)

	if _, err := e.AddGroup(domain.Group{Description: "nameless"}); err == nil {
		t.Fatal("expected validation error for missing name")
	} else {
		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %T", err)
		}
	}
}

func TestUpdatePreservesUnspecifiedFields(t *testing.T) {
	e := newTestEngine(t)

	name := "Johnny Admin"
	if ok := e.UpdateUser("user_1", UserPatch{Name: &name}); !ok {
		t.Fatal("update user_1 failed")
	}
	u, _ := e.GetUser("user_1")
	if u.Name != "Johnny Admin" {
		t.Errorf("name = %q, want Johnny Admin", u.Name)
	}
	if u.Email != "john@example.com" {
		t.Errorf("email changed by partial update: %q", u.Email)
	}
	if len(u.GroupIDs) != 1 || u.GroupIDs[0] != "group_1" {
		t.Errorf("groups changed by partial update: %v", u.GroupIDs)
	}
}

func TestUpdateUnknownIDReturnsFalse(t *testing.T) {
	e := newTestEngine(t)

	name := "x"
	if e.UpdateUser("nope", UserPatch{Name: &name}) {
		t.Error("update of unknown user must return false")
	}
	if e.UpdateRole("nope", RolePatch{Name: &name}) {
		t.Error("update of unknown role must return false")
	}
	if e.UpdateGroup("nope", GroupPatch{Name: &name}) {
		t.Error("update of unknown group must return false")
	}
	if ok, err := e.UpdatePrivilege("nope", PrivilegePatch{Name: &name}); ok || err != nil {
		t.Errorf("update of unknown privilege = (%v, %v), want (false, nil)", ok, err)
	}
}

func TestListOrderIsInsertionOrder(t *testing.T) {
	e := newTestEngine(t)

	id, err := e.AddPrivilege(domain.Privilege{Name: "Export Data", Key: "export_data"})
	if err != nil {
		t.Fatalf("add privilege: %v", err)
	}
	privs := e.ListPrivileges()
	if len(privs) != 5 {
		t.Fatalf("len = %d, want 5", len(privs))
	}
	want := []string{"priv_1", "priv_2", "priv_3", "priv_4", id}
	for i, p := range privs {
		if p.ID != want[i] {
			t.Errorf("privs[%d].ID = %s, want %s", i, p.ID, want[i])
		}
	}
}

func TestPrivilegeKeyUniqueness(t *testing.T) {
	e := newTestEngine(t)

	if _, err := e.AddPrivilege(domain.Privilege{Name: "Dup", Key: "manage_users"}); err == nil {
		t.Fatal("expected conflict for duplicate key")
	} else {
		var cerr *domain.ConflictError
		if !errors.As(err, &cerr) {
			t.Fatalf("expected ConflictError, got %T (%v)", err, err)
		}
	}

	count := 0
	for _, p := range e.ListPrivileges() {
		if p.Key == "manage_users" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("privileges with key manage_users = %d, want 1", count)
	}
}

func TestUpdatePrivilegeKeyConflict(t *testing.T) {
	e := newTestEngine(t)

	key := "manage_users"
	ok, err := e.UpdatePrivilege("priv_1", PrivilegePatch{Key: &key})
	if err == nil {
		t.Fatal("expected conflict when renaming key onto an existing one")
	}
	if ok {
		t.Error("conflicting update must not report success")
	}
	p, _ := e.GetPrivilege("priv_1")
	if p.Key != "view_dashboard" {
		t.Errorf("key mutated despite conflict: %q", p.Key)
	}

	// Re-asserting a privilege's own key is not a conflict.
	same := "view_dashboard"
	if ok, err := e.UpdatePrivilege("priv_1", PrivilegePatch{Key: &same}); !ok || err != nil {
		t.Errorf("self-key update = (%v, %v), want (true, nil)", ok, err)
	}
}

func TestDeletePrivilegeRefusedWhileBundled(t *testing.T) {
	e := newTestEngine(t)

	if e.DeletePrivilege("priv_4") {
		t.Fatal("delete must be refused while role_1 bundles priv_4")
	}
	if _, ok := e.GetPrivilege("priv_4"); !ok {
		t.Error("refused delete must leave the privilege in place")
	}
	r, _ := e.GetRole("role_1")
	if !containsID(r.PrivilegeIDs, "priv_4") {
		t.Error("refused delete must leave the role bundle intact")
	}

	// Detach from the only referencing role, then delete succeeds.
	if !e.RemovePrivilegeFromRole("priv_4", "role_1") {
		t.Fatal("remove privilege from role failed")
	}
	if !e.DeletePrivilege("priv_4") {
		t.Error("delete should succeed once unreferenced")
	}
}

func TestDeleteRoleRefusedWhileGranted(t *testing.T) {
	e := newTestEngine(t)

	// role_1 is granted by group_1.
	if e.DeleteRole("role_1") {
		t.Fatal("delete must be refused while group_1 grants role_1")
	}
	// role_3 is held directly by user_3.
	if e.DeleteRole("role_3") {
		t.Fatal("delete must be refused while user_3 holds role_3 directly")
	}

	if !e.RemoveRoleFromGroup("role_1", "group_1") {
		t.Fatal("remove role from group failed")
	}
	if !e.DeleteRole("role_1") {
		t.Error("delete should succeed once no group or user references role_1")
	}
}

func TestDeleteGroupCascadesDeReference(t *testing.T) {
	e := newTestEngine(t)

	if !e.DeleteGroup("group_1") {
		t.Fatal("group delete must always succeed")
	}
	u, _ := e.GetUser("user_1")
	if containsID(u.GroupIDs, "group_1") {
		t.Error("deleted group id still present in user_1.GroupIDs")
	}
	for _, g := range e.ListGroups() {
		if g.ID == "group_1" {
			t.Error("deleted group still listed")
		}
	}
}

func TestDeleteUserCascadesDeReference(t *testing.T) {
	e := newTestEngine(t)

	if !e.DeleteUser("user_2") {
		t.Fatal("user delete must always succeed")
	}
	g, _ := e.GetGroup("group_2")
	if containsID(g.MemberIDs, "user_2") {
		t.Error("deleted user id still present in group_2.MemberIDs")
	}
}

func TestDeleteUnknownIDReturnsFalse(t *testing.T) {
	e := newTestEngine(t)

	if e.DeleteUser("nope") || e.DeleteGroup("nope") || e.DeleteRole("nope") || e.DeletePrivilege("nope") {
		t.Error("deleting unknown ids must return false")
	}
}

func TestAddNormalizesReferences(t *testing.T) {
	e := newTestEngine(t)

	id, err := e.AddRole(domain.Role{
		Name:         "Mixed",
		PrivilegeIDs: []string{"priv_1", "priv_1", "ghost", "priv_2"},
	})
	if err != nil {
		t.Fatalf("add role: %v", err)
	}
	r, _ := e.GetRole(id)
	if len(r.PrivilegeIDs) != 2 || r.PrivilegeIDs[0] != "priv_1" || r.PrivilegeIDs[1] != "priv_2" {
		t.Errorf("bundle = %v, want [priv_1 priv_2]", r.PrivilegeIDs)
	}
}

func TestMutationsWriteThroughToStore(t *testing.T) {
	store := &recordingStore{}
	e := New(testSnapshot(), store, nil)

	if _, err := e.AddPrivilege(domain.Privilege{Name: "Export", Key: "export_data"}); err != nil {
		t.Fatalf("add privilege: %v", err)
	}
	if store.saves != 1 {
		t.Fatalf("saves = %d, want 1", store.saves)
	}
	if !e.AssignUserToGroup("user_3", "group_1") {
		t.Fatal("assign failed")
	}
	if store.saves != 2 {
		t.Fatalf("saves = %d, want 2", store.saves)
	}
	if len(store.last.Privileges) != 5 {
		t.Errorf("persisted snapshot has %d privileges, want 5", len(store.last.Privileges))
	}

	// Queries never persist.
	e.UserPrivileges("user_1")
	e.ListRoles()
	if store.saves != 2 {
		t.Errorf("queries must not trigger saves, got %d", store.saves)
	}
}

func TestRefusedDeleteDoesNotPersist(t *testing.T) {
	store := &recordingStore{}
	e := New(testSnapshot(), store, nil)

	if e.DeletePrivilege("priv_1") {
		t.Fatal("expected refusal")
	}
	if store.saves != 0 {
		t.Errorf("refused mutation must not persist, saves = %d", store.saves)
	}
}

func TestPersistFailureDoesNotFailMutation(t *testing.T) {
	store := &recordingStore{fail: true}
	e := New(testSnapshot(), store, nil)

	id, err := e.AddUser(domain.User{Name: "Lossy"})
	if err != nil {
		t.Fatalf("mutation must succeed despite store failure: %v", err)
	}
	if _, ok := e.GetUser(id); !ok {
		t.Error("in-memory state must reflect the mutation")
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	e := newTestEngine(t)

	snap := e.Snapshot()
	snap.Roles[0].PrivilegeIDs[0] = "tampered"
	snap.Users[0].Name = "tampered"

	r, _ := e.GetRole("role_1")
	if r.PrivilegeIDs[0] != "priv_1" {
		t.Error("mutating a snapshot leaked into engine state")
	}
	u, _ := e.GetUser("user_1")
	if u.Name != "John Admin" {
		t.Error("mutating a snapshot leaked into engine state")
	}
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
