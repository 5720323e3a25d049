package engine

import "rbac-demo/internal/domain"

// UserPatch carries the updatable user fields; nil means leave the field
// unchanged. Non-nil id lists replace the existing lists.
type UserPatch struct {
	Name          *string
	Email         *string
	GroupIDs      *[]string
	DirectRoleIDs *[]string
}

// AddUser inserts a new user and returns its generated id. The ID field
// of u is ignored; group and direct-role lists are deduplicated and
// restricted to entities that currently exist, and each listed group
// gains the matching member back-reference.
func (e *Engine) AddUser(u domain.User) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if u.Name == "" {
		return "", domain.ErrValidation("user name is required")
	}
	u.ID = domain.NewID()
	u.GroupIDs = normalizeRefs(u.GroupIDs, func(id string) bool {
		return e.groupIndex(id) >= 0
	})
	u.DirectRoleIDs = normalizeRefs(u.DirectRoleIDs, func(id string) bool {
		return e.roleIndex(id) >= 0
	})
	e.users = append(e.users, u)
	for _, gid := range u.GroupIDs {
		e.linkGroupMember(gid, u.ID)
	}
	e.persist()
	return u.ID, nil
}

// UpdateUser merges patch into the user with the given id; false when the
// id is absent. A replaced group list keeps both sides of the membership
// relation in sync.
func (e *Engine) UpdateUser(id string, patch UserPatch) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.userIndex(id)
	if i < 0 {
		return false
	}
	if patch.Name != nil {
		e.users[i].Name = *patch.Name
	}
	if patch.Email != nil {
		e.users[i].Email = *patch.Email
	}
	if patch.GroupIDs != nil {
		next := normalizeRefs(*patch.GroupIDs, func(id string) bool {
			return e.groupIndex(id) >= 0
		})
		for _, gid := range e.users[i].GroupIDs {
			if !contains(next, gid) {
				e.unlinkGroupMember(gid, id)
			}
		}
		for _, gid := range next {
			e.linkGroupMember(gid, id)
		}
		e.users[i].GroupIDs = next
	}
	if patch.DirectRoleIDs != nil {
		e.users[i].DirectRoleIDs = normalizeRefs(*patch.DirectRoleIDs, func(id string) bool {
			return e.roleIndex(id) >= 0
		})
	}
	e.persist()
	return true
}

// DeleteUser removes the user with the given id. Users are population
// entities: the delete always succeeds, and the user id is scrubbed from
// every group's member list in the same operation.
func (e *Engine) DeleteUser(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.userIndex(id)
	if i < 0 {
		return false
	}
	e.users = append(e.users[:i], e.users[i+1:]...)
	for j := range e.groups {
		if contains(e.groups[j].MemberIDs, id) {
			e.groups[j].MemberIDs = without(e.groups[j].MemberIDs, id)
		}
	}
	e.persist()
	return true
}

// GetUser returns the user with the given id.
func (e *Engine) GetUser(id string) (domain.User, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.userIndex(id)
	if i < 0 {
		return domain.User{}, false
	}
	u := e.users[i]
	u.GroupIDs = append([]string(nil), u.GroupIDs...)
	u.DirectRoleIDs = append([]string(nil), u.DirectRoleIDs...)
	return u, true
}

// ListUsers returns all users in insertion order.
func (e *Engine) ListUsers() []domain.User {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]domain.User, len(e.users))
	for i, u := range e.users {
		u.GroupIDs = append([]string(nil), u.GroupIDs...)
		u.DirectRoleIDs = append([]string(nil), u.DirectRoleIDs...)
		out[i] = u
	}
	return out
}

// linkGroupMember adds uid to the group's member list if absent. Caller
// holds e.mu and has verified the group exists.
func (e *Engine) linkGroupMember(gid, uid string) {
	j := e.groupIndex(gid)
	if j < 0 {
		return
	}
	if !contains(e.groups[j].MemberIDs, uid) {
		e.groups[j].MemberIDs = append(e.groups[j].MemberIDs, uid)
	}
}

// unlinkGroupMember removes uid from the group's member list.
func (e *Engine) unlinkGroupMember(gid, uid string) {
	j := e.groupIndex(gid)
	if j < 0 {
		return
	}
	e.groups[j].MemberIDs = without(e.groups[j].MemberIDs, uid)
}
