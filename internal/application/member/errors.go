package member

import "errors"

var (
	ErrInvalidMemberID = errors.New("invalid member id")
	ErrMemberNotFound  = errors.New("member not found")
	ErrGetMemberByID   = errors.New("failed to get member by id")
)
