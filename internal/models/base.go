package models

import "github.com/google/uuid"

// ensureID boş kimliklere yeni uuid atar (BeforeCreate hook'larında kullanılır).
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
