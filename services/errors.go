package services

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrAlreadyJoined = errors.New("already joined this challenge")
	ErrNotJoined     = errors.New("not a participant of this challenge")
	ErrAlreadyLogged = errors.New("progress already logged for today")
	ErrUnauthorized  = errors.New("user not authenticated")
)
