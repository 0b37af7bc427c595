package filestore

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"vcrts/internal/store"
)

// user record: userId|fullName|role|credentialHash
func userToLine(u *store.User) string {
	return strings.Join([]string{
		strconv.Itoa(u.ID),
		u.FullName,
		string(u.Role),
		u.CredentialHash,
	}, Separator)
}

func lineToUser(line string) (*store.User, error) {
	parts := strings.Split(line, Separator)
	if len(parts) < 4 {
		return nil, fmt.Errorf("malformed user record: %q", line)
	}
	id, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, fmt.Errorf("bad user id in record %q: %w", line, err)
	}
	return &store.User{
		ID:             id,
		FullName:       parts[1],
		Role:           store.Role(parts[2]),
		CredentialHash: parts[3],
	}, nil
}

// AddUser persists a new account. A zero ID is assigned from the max-id
// scan; a caller-supplied ID is kept as-is when still free.
func (s *Store) AddUser(ctx context.Context, u *store.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.ID == 0 {
		u.ID = s.nextNumericID(usersFile)
	} else if s.userByIDLocked(u.ID) != nil {
		return fmt.Errorf("user %d already exists", u.ID)
	}
	return s.appendLine(usersFile, userToLine(u))
}

// UserByID returns the account with the given ID, or nil when absent.
func (s *Store) UserByID(ctx context.Context, id int) (*store.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userByIDLocked(id), nil
}

func (s *Store) userByIDLocked(id int) *store.User {
	for _, line := range s.readAllLines(usersFile) {
		u, err := lineToUser(line)
		if err != nil {
			s.log.Warn("skipping user record", "error", err)
			continue
		}
		if u.ID == id {
			return u
		}
	}
	return nil
}

// AllUsers returns every account in file order.
func (s *Store) AllUsers(ctx context.Context) ([]store.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.readAllLines(usersFile)
	out := make([]store.User, 0, len(lines))
	for _, line := range lines {
		u, err := lineToUser(line)
		if err != nil {
			s.log.Warn("skipping user record", "error", err)
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}
