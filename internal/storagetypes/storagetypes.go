package storagetypes

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Top-level keys of the snapshot file.
const (
	KeyUserEmojis   = "user_emojis"
	KeyCommandUsers = "command_users"
	KeyCommandRoles = "command_roles"
	KeyMockTargets  = "mock_targets"
)

// Snapshot is the whole persisted state.
type Snapshot struct {
	UserEmojis   map[string][]string `json:"user_emojis"`  // key = userID
	CommandUsers []int64             `json:"command_users"`
	CommandRoles []int64             `json:"command_roles"`
	MockTargets  MockTargets         `json:"mock_targets"`
}

// Empty returns a snapshot with every field initialized.
func Empty() *Snapshot {
	return &Snapshot{
		UserEmojis:   map[string][]string{},
		CommandUsers: []int64{},
		CommandRoles: []int64{},
		MockTargets:  MockTargets{},
	}
}

type MockTarget struct {
	UserID string
	Mode   int
}

// MockTargets is encoded as a JSON object of userID -> mode. Entries keep
// insertion order in both directions.
type MockTargets []MockTarget

func (m MockTargets) Index(userID string) int {
	for i, t := range m {
		if t.UserID == userID {
			return i
		}
	}
	return -1
}

func (m MockTargets) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, t := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(t.UserID)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%d", t.Mode)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (m *MockTargets) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*m = MockTargets{}
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("mock_targets: expected object, got %v", tok)
	}

	out := MockTargets{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("mock_targets: expected key, got %v", tok)
		}

		var mode int
		if err := dec.Decode(&mode); err != nil {
			return fmt.Errorf("mock_targets[%s]: %w", key, err)
		}

		if i := out.Index(key); i >= 0 {
			out[i].Mode = mode
			continue
		}
		out = append(out, MockTarget{UserID: key, Mode: mode})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*m = out
	return nil
}
