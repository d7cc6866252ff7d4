package bolt

import (
	"github.com/google/uuid"
)

// validID rejects ids that could never have been generated by the store.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 100
	}
	return limit
}
