package ledger

import "github.com/Tiliavir/ponto/internal/apperr"

var (
	ErrAllSlotsFilled  = apperr.New(apperr.KindValidation, "all_slots_filled", "all six punch slots are already filled")
	ErrCooldownActive  = apperr.New(apperr.KindValidation, "cooldown_active", "last punch was less than 5 minutes ago")
	ErrProjectRequired = apperr.New(apperr.KindValidation, "project_required", "project is required")
	ErrInvalidInterval = apperr.New(apperr.KindValidation, "invalid_interval", "end time must be after start time")
	ErrZeroDuration    = apperr.New(apperr.KindValidation, "zero_duration", "allocation duration must be greater than zero")

	ErrCooldownNotRecorded = apperr.New(apperr.KindCollaborator, "cooldown_not_recorded", "punch saved, but its time was not recorded; the next punch will not wait for the cooldown")

	ErrAllocationExceedsWorked = apperr.New(apperr.KindBusinessRule, "allocation_exceeds_worked", "allocated hours exceed hours worked")
)
