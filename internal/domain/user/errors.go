package user

import "errors"

var (
	ErrManagerAccessRequired = errors.New("manager access required")
	ErrOwnerAccessRequired   = errors.New("owner access required")
)
