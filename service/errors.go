package service

import "errors"

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidBet        = errors.New("bet outside allowed range")
	ErrInvalidChoice     = errors.New("invalid choice")
	ErrInvalidDuration   = errors.New("invalid duration")
	ErrEmptyMessage      = errors.New("message is empty")
	ErrInsufficientFunds = errors.New("insufficient balance")
	ErrAlreadyCheckedIn  = errors.New("already checked in today")
	ErrSelfReferral      = errors.New("cannot refer yourself")
	ErrNotFound          = errors.New("giveaway not found")
	ErrAlreadyJoined     = errors.New("already joined this giveaway")
	ErrNotAuthorized     = errors.New("not authorized")
	ErrUserNotFound      = errors.New("user not found")
)
