package engine

// Relationship assignment. All six pairs check both ids against live
// collection state at call time and return false when either is absent.
// Assign is a no-op returning true when the relationship already holds;
// remove is a no-op returning true when it is already absent.

// AssignUserToGroup adds the user to the group. Both sides of the
// relation (user.GroupIDs and group.MemberIDs) are updated together; a
// membership is never one-sided.
func (e *Engine) AssignUserToGroup(userID, groupID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	ui := e.userIndex(userID)
	gi := e.groupIndex(groupID)
	if ui < 0 || gi < 0 {
		return false
	}
	if contains(e.users[ui].GroupIDs, groupID) && contains(e.groups[gi].MemberIDs, userID) {
		return true
	}
	if !contains(e.users[ui].GroupIDs, groupID) {
		e.users[ui].GroupIDs = append(e.users[ui].GroupIDs, groupID)
	}
	if !contains(e.groups[gi].MemberIDs, userID) {
		e.groups[gi].MemberIDs = append(e.groups[gi].MemberIDs, userID)
	}
	e.persist()
	return true
}

// RemoveUserFromGroup removes the user from the group, scrubbing both
// sides of the relation.
func (e *Engine) RemoveUserFromGroup(userID, groupID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	ui := e.userIndex(userID)
	gi := e.groupIndex(groupID)
	if ui < 0 || gi < 0 {
		return false
	}
	if !contains(e.users[ui].GroupIDs, groupID) && !contains(e.groups[gi].MemberIDs, userID) {
		return true
	}
	e.users[ui].GroupIDs = without(e.users[ui].GroupIDs, groupID)
	e.groups[gi].MemberIDs = without(e.groups[gi].MemberIDs, userID)
	e.persist()
	return true
}

// AssignRoleToGroup grants the role to the group. The relation is tracked
// on the group side only; roles carry no back-references.
func (e *Engine) AssignRoleToGroup(roleID, groupID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	gi := e.groupIndex(groupID)
	if gi < 0 || e.roleIndex(roleID) < 0 {
		return false
	}
	if contains(e.groups[gi].RoleIDs, roleID) {
		return true
	}
	e.groups[gi].RoleIDs = append(e.groups[gi].RoleIDs, roleID)
	e.persist()
	return true
}

// RemoveRoleFromGroup revokes the role from the group.
func (e *Engine) RemoveRoleFromGroup(roleID, groupID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	gi := e.groupIndex(groupID)
	if gi < 0 || e.roleIndex(roleID) < 0 {
		return false
	}
	if !contains(e.groups[gi].RoleIDs, roleID) {
		return true
	}
	e.groups[gi].RoleIDs = without(e.groups[gi].RoleIDs, roleID)
	e.persist()
	return true
}

// AssignPrivilegeToRole adds the privilege to the role's bundle. Tracked
// on the role side only.
func (e *Engine) AssignPrivilegeToRole(privilegeID, roleID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	ri := e.roleIndex(roleID)
	if ri < 0 || e.privilegeIndex(privilegeID) < 0 {
		return false
	}
	if contains(e.roles[ri].PrivilegeIDs, privilegeID) {
		return true
	}
	e.roles[ri].PrivilegeIDs = append(e.roles[ri].PrivilegeIDs, privilegeID)
	e.persist()
	return true
}

// RemovePrivilegeFromRole removes the privilege from the role's bundle.
func (e *Engine) RemovePrivilegeFromRole(privilegeID, roleID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	ri := e.roleIndex(roleID)
	if ri < 0 || e.privilegeIndex(privilegeID) < 0 {
		return false
	}
	if !contains(e.roles[ri].PrivilegeIDs, privilegeID) {
		return true
	}
	e.roles[ri].PrivilegeIDs = without(e.roles[ri].PrivilegeIDs, privilegeID)
	e.persist()
	return true
}
