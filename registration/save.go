package registration

import (
	"context"
	"fmt"
	"time"
)

// SaveRegistration is the single writer of registration state before payment.
// With no ID on reg it creates a new record; with an ID it updates the
// existing record's mutable fields in place. It is safe to call repeatedly
// for the same identifier, once per form-step autosave.
//
// Terminal statuses are never written here: a caller-supplied terminal status
// is rejected, and updates against an already-finalized record fail with
// REASON_REGISTRATION_FINALIZED.
func SaveRegistration(ctx context.Context, repo Repository, reg Registration) (Registration, error) {
	if reg.Status.IsTerminal() {
		return Registration{}, NewInvalidStatusError(fmt.Sprintf("Status %q can only be set by payment reconciliation", reg.Status))
	}

	now := time.Now()

	if reg.ID == "" {
		id, err := NewID()
		if err != nil {
			return Registration{}, err
		}
		reg.ID = id

		if reg.Status == "" {
			reg.Status = IN_PROGRESS
		}
		reg.CreatedAt = now
		reg.UpdatedAt = now

		if err := repo.CreateRegistration(ctx, reg); err != nil {
			return Registration{}, err
		}

		return reg, nil
	}

	reg.UpdatedAt = now

	return repo.UpdateRegistration(ctx, reg)
}
