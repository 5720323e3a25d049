// Package domain defines the core access-model types, typed errors, and
// persistence ports shared by the engine and its adapters.
package domain

// Privilege is an atomic permission. Key is a human-chosen stable
// identifier (e.g. "manage_users") used by authorization checks instead
// of the generated ID, and must be unique among all privileges.
type Privilege struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Key         string `json:"key" yaml:"key"`
}

// Role is a named bundle of privileges.
type Role struct {
	ID           string   `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	Description  string   `json:"description" yaml:"description"`
	PrivilegeIDs []string `json:"privilegeIds" yaml:"privilegeIds"`
}

// Group grants its roles to all of its member users.
type Group struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	RoleIDs     []string `json:"roleIds" yaml:"roleIds"`
	MemberIDs   []string `json:"memberIds" yaml:"memberIds"`
}

// User belongs to zero or more groups and may additionally hold roles
// directly, bypassing group membership.
type User struct {
	ID            string   `json:"id" yaml:"id"`
	Name          string   `json:"name" yaml:"name"`
	Email         string   `json:"email" yaml:"email"`
	GroupIDs      []string `json:"groupIds" yaml:"groupIds"`
	DirectRoleIDs []string `json:"directRoleIds,omitempty" yaml:"directRoleIds,omitempty"`
}

// Snapshot is the full persisted state of the access model: one ordered
// list per collection, in insertion order.
type Snapshot struct {
	Users      []User      `json:"users" yaml:"users"`
	Roles      []Role      `json:"roles" yaml:"roles"`
	Privileges []Privilege `json:"privileges" yaml:"privileges"`
	Groups     []Group     `json:"groups" yaml:"groups"`
}

// Clone returns a deep copy of the snapshot. Entity structs contain only
// strings and string slices, so copying the slices is sufficient.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := &Snapshot{
		Users:      make([]User, len(s.Users)),
		Roles:      make([]Role, len(s.Roles)),
		Privileges: make([]Privilege, len(s.Privileges)),
		Groups:     make([]Group, len(s.Groups)),
	}
	for i, u := range s.Users {
		u.GroupIDs = cloneIDs(u.GroupIDs)
		u.DirectRoleIDs = cloneIDs(u.DirectRoleIDs)
		out.Users[i] = u
	}
	for i, r := range s.Roles {
		r.PrivilegeIDs = cloneIDs(r.PrivilegeIDs)
		out.Roles[i] = r
	}
	copy(out.Privileges, s.Privileges)
	for i, g := range s.Groups {
		g.RoleIDs = cloneIDs(g.RoleIDs)
		g.MemberIDs = cloneIDs(g.MemberIDs)
		out.Groups[i] = g
	}
	return out
}

func cloneIDs(ids []string) []string {
	if ids == nil {
		return nil
	}
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}
