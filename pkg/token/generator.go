package token

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator produces new tokens.
type Generator func() (string, error)

// NewOpaque returns a random version 4 UUID as text.
//
// uuid.NewRandom reads from crypto/rand and reports entropy failures as an
// error instead of panicking.
func NewOpaque() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("token: generate uuid: %w", err)
	}
	return id.String(), nil
}
