package engine

import "rbac-demo/internal/domain"

// PrivilegePatch carries the updatable privilege fields; nil means leave
// the field unchanged.
type PrivilegePatch struct {
	Name        *string
	Description *string
	Key         *string
}

// AddPrivilege inserts a new privilege and returns its generated id.
// The ID field of p is ignored. Returns a ConflictError when the key is
// already taken by another privilege and a ValidationError on missing
// name or key; both checks run before an id is generated.
func (e *Engine) AddPrivilege(p domain.Privilege) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if p.Name == "" {
		return "", domain.ErrValidation("privilege name is required")
	}
	if p.Key == "" {
		return "", domain.ErrValidation("privilege key is required")
	}
	if e.privilegeKeyTaken(p.Key, "") {
		return "", domain.ErrConflict("privilege key %q already exists", p.Key)
	}

	p.ID = domain.NewID()
	e.privileges = append(e.privileges, p)
	e.persist()
	return p.ID, nil
}

// UpdatePrivilege merges patch into the privilege with the given id.
// Returns (false, nil) when the id is absent and a ConflictError when the
// resulting key would collide with a different privilege; state is left
// unchanged in both cases.
func (e *Engine) UpdatePrivilege(id string, patch PrivilegePatch) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.privilegeIndex(id)
	if i < 0 {
		return false, nil
	}
	if patch.Key != nil && *patch.Key != e.privileges[i].Key {
		if *patch.Key == "" {
			return false, domain.ErrValidation("privilege key is required")
		}
		if e.privilegeKeyTaken(*patch.Key, id) {
			return false, domain.ErrConflict("privilege key %q already exists", *patch.Key)
		}
	}

	if patch.Name != nil {
		e.privileges[i].Name = *patch.Name
	}
	if patch.Description != nil {
		e.privileges[i].Description = *patch.Description
	}
	if patch.Key != nil {
		e.privileges[i].Key = *patch.Key
	}
	e.persist()
	return true, nil
}

// DeletePrivilege removes the privilege with the given id. The delete is
// refused while any role still bundles the privilege: removing it would
// silently change the meaning of existing grants, so the administrator
// must detach it from every role first.
func (e *Engine) DeletePrivilege(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.privilegeIndex(id)
	if i < 0 {
		return false
	}
	for _, r := range e.roles {
		if contains(r.PrivilegeIDs, id) {
			return false
		}
	}
	e.privileges = append(e.privileges[:i], e.privileges[i+1:]...)
	e.persist()
	return true
}

// GetPrivilege returns the privilege with the given id.
func (e *Engine) GetPrivilege(id string) (domain.Privilege, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.privilegeIndex(id)
	if i < 0 {
		return domain.Privilege{}, false
	}
	return e.privileges[i], true
}

// ListPrivileges returns all privileges in insertion order.
func (e *Engine) ListPrivileges() []domain.Privilege {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]domain.Privilege, len(e.privileges))
	copy(out, e.privileges)
	return out
}

// privilegeKeyTaken reports whether key belongs to a privilege other than
// the one identified by excludeID.
func (e *Engine) privilegeKeyTaken(key, excludeID string) bool {
	for _, p := range e.privileges {
		if p.Key == key && p.ID != excludeID {
			return true
		}
	}
	return false
}
