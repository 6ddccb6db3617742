package workflow

// AdminRole grants access to the review dashboard
const AdminRole = "admin"

// User is the signed-in identity supplied by the external auth widget
type User struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	FullName string   `json:"fullName,omitempty"`
	Roles    []string `json:"roles,omitempty"`
}

// IsAdmin reports whether the user carries the admin role
func (u User) IsAdmin() bool {
	for _, r := range u.Roles {
		if r == AdminRole {
			return true
		}
	}
	return false
}

func (u User) clone() User {
	u.Roles = append([]string(nil), u.Roles...)
	return u
}

// Login replaces the current user
func (s *Store) Login(u User) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	c := u.clone()
	s.user = &c
	s.mu.Unlock()

	s.logger.Info("User logged in", map[string]interface{}{
		"user_id":  u.ID,
		"is_admin": u.IsAdmin(),
	})
	s.publish(Event{Kind: EventIdentity})
	return nil
}

// Logout clears the current user
func (s *Store) Logout() {
	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return
	}
	s.user = nil
	s.mu.Unlock()

	s.publish(Event{Kind: EventIdentity})
}

// CurrentUser returns the signed-in user, if any
func (s *Store) CurrentUser() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return User{}, false
	}
	return s.user.clone(), true
}

// IsAdmin is false when nobody is signed in. Admin actions do not check it.
func (s *Store) IsAdmin() bool {
	u, ok := s.CurrentUser()
	return ok && u.IsAdmin()
}
