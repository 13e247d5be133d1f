package handlers

import "errors"

var (
	errInvalidToken      = errors.New("invalid token")
	errInvalidQueryValue = errors.New("invalid query value")
)
