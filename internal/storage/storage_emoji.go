package storage

import "slices"

// AddEmoji appends token to the user's reaction set. Tokens are not
// validated; the platform decides whether they are usable.
func (s *Storage) AddEmoji(userID, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tokens := s.snap.UserEmojis[userID]
	if slices.Contains(tokens, token) {
		return false, nil
	}
	s.snap.UserEmojis[userID] = append(tokens, token)
	return true, s.persistLocked()
}

func (s *Storage) RemoveEmoji(userID, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tokens := s.snap.UserEmojis[userID]
	i := slices.Index(tokens, token)
	if i < 0 {
		return false, nil
	}

	tokens = slices.Delete(tokens, i, i+1)
	if len(tokens) == 0 {
		delete(s.snap.UserEmojis, userID)
	} else {
		s.snap.UserEmojis[userID] = tokens
	}
	return true, s.persistLocked()
}

// Emojis returns the user's tokens in the order they were added.
func (s *Storage) Emojis(userID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.snap.UserEmojis[userID])
}
