package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a show
// they do not own. Handlers translate it into 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an update cannot be applied to the current
// state, e.g. deciding a show that was already approved. Handlers translate
// it into 409.
var ErrConflict = errors.New("conflict")
