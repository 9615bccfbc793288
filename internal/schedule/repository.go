package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedState is returned when a stored state cannot be decoded.
var ErrMalformedState = errors.New("malformed schedule state")

// AnonymousKey is the storage key used when no provider identity is known.
const AnonymousKey = "anonymous"

// Repository defines the storage interface for schedule states.
type Repository interface {
	// Load returns the state stored under key, or nil if there is none.
	Load(ctx context.Context, key string) (*State, error)

	// Save stores state under key, replacing any previous value.
	Save(ctx context.Context, key string, state *State) error

	// Close releases any resources held by the repository.
	Close() error
}

// KeyFor derives the storage key from a provider identity such as an email
// or an account id. Empty identities map to AnonymousKey.
func KeyFor(identity string) string {
	identity = strings.ToLower(strings.TrimSpace(identity))
	if identity == "" {
		return AnonymousKey
	}
	return identity
}

// EncodeState serializes a state for storage.
func EncodeState(state *State) ([]byte, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("encoding state: %w", err)
	}
	return data, nil
}

// DecodeState parses a stored state.
func DecodeState(data []byte) (*State, error) {
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}
	if state.Blocks == nil {
		state.Blocks = make([]Block, 0)
	}
	return &state, nil
}
