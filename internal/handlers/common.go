package handlers

import "github.com/google/uuid"

// mustParseUUID is for fields already validated by the uuid binding tag.
func mustParseUUID(s string) uuid.UUID {
	id, _ := uuid.Parse(s)
	return id
}
