package kanban

import "github.com/Tiliavir/ponto/internal/apperr"

var (
	ErrIllegalTransition = apperr.New(apperr.KindBusinessRule, "illegal_transition", "status transition not allowed")
	ErrNotEditable       = apperr.New(apperr.KindBusinessRule, "not_editable", "card can only be changed while it needs correction")
	ErrNoColumnForStatus = apperr.New(apperr.KindBusinessRule, "no_column_for_status", "board has no column for status")

	ErrCardNotFound  = apperr.New(apperr.KindNotFound, "card_not_found", "card not found on board")
	ErrBoardNotFound = apperr.New(apperr.KindNotFound, "board_not_found", "board not found")

	ErrBoardNotLoaded = apperr.New(apperr.KindValidation, "board_not_loaded", "board has not been loaded")
	ErrBusy           = apperr.New(apperr.KindValidation, "card_busy", "another operation on this card is still running")
	ErrEmptyMessage   = apperr.New(apperr.KindValidation, "empty_message", "message text is required")
)
