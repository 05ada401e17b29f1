package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound signals that an entity referenced during an update branch
// could not be located. Fatal to the single operation that hit it.
var ErrNotFound = errors.New("not found")

// ErrInvalidPayload marks malformed input rejected before any write.
// Wrap with fmt.Errorf("%w: ...") to add detail.
var ErrInvalidPayload = errors.New("invalid payload")

// LockViolationError reports an attempt to write a field outside its
// owning write path (ERP-locked or enrichment-locked).
type LockViolationError struct {
	Field string
	Owner string
}

func (e *LockViolationError) Error() string {
	return fmt.Sprintf("field %q is locked by %s and cannot be modified through this path", e.Field, e.Owner)
}

// FieldOwnerERP and FieldOwnerContent name the two ownership domains.
const (
	FieldOwnerERP     = "erp"
	FieldOwnerContent = "content"
)
