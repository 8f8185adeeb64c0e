package storage

import (
	"reactbot/internal/mock"
	st "reactbot/internal/storagetypes"
)

type MockAssignment struct {
	UserID string
	Mode   mock.Mode
}

// SetMock assigns mode to the user. An invalid mode returns
// mock.ErrInvalidMode and keeps any existing assignment.
func (s *Storage) SetMock(userID string, mode int) error {
	m, err := mock.ParseMode(mode)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.snap.MockTargets.Index(userID); i >= 0 {
		s.snap.MockTargets[i].Mode = int(m)
	} else {
		s.snap.MockTargets = append(s.snap.MockTargets, st.MockTarget{UserID: userID, Mode: int(m)})
	}
	return s.persistLocked()
}

func (s *Storage) ClearMock(userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.snap.MockTargets.Index(userID)
	if i < 0 {
		return false, nil
	}
	s.snap.MockTargets = append(s.snap.MockTargets[:i], s.snap.MockTargets[i+1:]...)
	return true, s.persistLocked()
}

// MockMode returns the user's assignment, if any.
func (s *Storage) MockMode(userID string) (mock.Mode, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.snap.MockTargets.Index(userID)
	if i < 0 {
		return 0, false
	}
	return mock.Mode(s.snap.MockTargets[i].Mode), true
}

// Mocks lists assignments in insertion order.
func (s *Storage) Mocks() []MockAssignment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]MockAssignment, 0, len(s.snap.MockTargets))
	for _, t := range s.snap.MockTargets {
		out = append(out, MockAssignment{UserID: t.UserID, Mode: mock.Mode(t.Mode)})
	}
	return out
}
