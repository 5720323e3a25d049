package app

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"rbac-demo/internal/config"
	"rbac-demo/internal/domain"
)

// seedSnapshot returns the initial access model: the contents of the
// configured seed file when one is set, otherwise the built-in demo
// dataset.
func seedSnapshot(cfg *config.Config, logger *slog.Logger) (*domain.Snapshot, error) {
	if cfg.SeedFile == "" {
		return defaultSeed(), nil
	}
	snap, err := loadSeedFile(cfg.SeedFile)
	if err != nil {
		return nil, err
	}
	logger.Info("loaded seed data", "file", cfg.SeedFile)
	return snap, nil
}

// loadSeedFile parses a YAML seed file holding the four collections.
func loadSeedFile(path string) (*domain.Snapshot, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("read seed file %s: %w", path, err)
	}
	var snap domain.Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return &snap, nil
}

// defaultSeed is the demo dataset: four privileges, three roles, two
// groups, three users. Ids are fixed so demo flows and docs can refer to
// them; ids generated at runtime never collide with these.
func defaultSeed() *domain.Snapshot {
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
