package identity

import (
	"adbridge/internal/core/domain/account"

	"github.com/google/uuid"
)

type UUID struct{}

func NewUUID() *UUID {
	return &UUID{}
}

func (g *UUID) GenerateID() account.ID {
	return account.ID(uuid.New().String())
}
