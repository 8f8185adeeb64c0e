package storage

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
)

var (
	// ErrUnauthorized means the requester may not change the roster.
	ErrUnauthorized = errors.New("requester is not a command user")
	// ErrInvalidID means a user or role id is not a numeric snowflake.
	ErrInvalidID = errors.New("invalid id")
)

// Principal is a user and the roles the platform says it holds right now.
type Principal struct {
	UserID  string
	RoleIDs []string
}

// Roster is a read-only copy of the whitelist.
type Roster struct {
	Users []string
	Roles []string
}

// ParseID converts a snowflake string to its stored integer form.
func ParseID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return n, nil
}

// IsAuthorized reports whether p is a command user or holds a command role.
func (s *Storage) IsAuthorized(p Principal) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if containsID(s.snap.CommandUsers, p.UserID) {
		return true
	}
	for _, role := range p.RoleIDs {
		if containsID(s.snap.CommandRoles, role) {
			return true
		}
	}
	return false
}

// IsCommandUser reports whether userID is listed directly. Role membership
// does not count; only listed users may change the roster.
func (s *Storage) IsCommandUser(userID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return containsID(s.snap.CommandUsers, userID)
}

func (s *Storage) GrantUser(requester Principal, userID string) (bool, error) {
	return s.changeRoster(requester, &s.snap.CommandUsers, userID, true)
}

func (s *Storage) RevokeUser(requester Principal, userID string) (bool, error) {
	return s.changeRoster(requester, &s.snap.CommandUsers, userID, false)
}

func (s *Storage) GrantRole(requester Principal, roleID string) (bool, error) {
	return s.changeRoster(requester, &s.snap.CommandRoles, roleID, true)
}

func (s *Storage) RevokeRole(requester Principal, roleID string) (bool, error) {
	return s.changeRoster(requester, &s.snap.CommandRoles, roleID, false)
}

// SetUserAllowed changes the user list without a requester check. It is the
// out-of-band seeding path.
func (s *Storage) SetUserAllowed(userID string, allowed bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setAllowedLocked(&s.snap.CommandUsers, userID, allowed)
}

// SetRoleAllowed is SetUserAllowed for roles.
func (s *Storage) SetRoleAllowed(roleID string, allowed bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setAllowedLocked(&s.snap.CommandRoles, roleID, allowed)
}

// SeedUsers adds ids only when no command user exists yet. It returns how
// many were added.
func (s *Storage) SeedUsers(ids []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.snap.CommandUsers) > 0 || len(ids) == 0 {
		return 0, nil
	}

	added := 0
	for _, id := range ids {
		n, err := ParseID(id)
		if err != nil {
			return 0, err
		}
		if !slices.Contains(s.snap.CommandUsers, n) {
			s.snap.CommandUsers = append(s.snap.CommandUsers, n)
			added++
		}
	}
	if added == 0 {
		return 0, nil
	}
	return added, s.persistLocked()
}

// Roster returns a copy of the whitelist in stored order.
func (s *Storage) Roster() Roster {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Roster{
		Users: formatIDs(s.snap.CommandUsers),
		Roles: formatIDs(s.snap.CommandRoles),
	}
}

func (s *Storage) changeRoster(requester Principal, list *[]int64, id string, allowed bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !containsID(s.snap.CommandUsers, requester.UserID) {
		return false, ErrUnauthorized
	}
	return s.setAllowedLocked(list, id, allowed)
}

func (s *Storage) setAllowedLocked(list *[]int64, id string, allowed bool) (bool, error) {
	n, err := ParseID(id)
	if err != nil {
		return false, err
	}

	present := slices.Contains(*list, n)
	switch {
	case allowed && !present:
		*list = append(*list, n)
	case !allowed && present:
		*list = slices.DeleteFunc(*list, func(v int64) bool { return v == n })
	default:
		return false, nil
	}
	return true, s.persistLocked()
}

func containsID(list []int64, id string) bool {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return false
	}
	return slices.Contains(list, n)
}

func formatIDs(list []int64) []string {
	out := make([]string, 0, len(list))
	for _, n := range list {
		out = append(out, strconv.FormatInt(n, 10))
	}
	return out
}
