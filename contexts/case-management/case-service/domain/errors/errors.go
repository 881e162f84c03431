package errors

import "errors"

var (
	ErrCaseNotFound            = errors.New("case not found")
	ErrInvalidCaseInput        = errors.New("invalid case input")
	ErrInvalidStatusTransition = errors.New("invalid case status transition")
	ErrReasonRequired          = errors.New("status change reason is required")
	ErrCaseStatusConflict      = errors.New("case status changed concurrently")
	ErrUserNotFound            = errors.New("user not found")
	ErrContributionNotFound    = errors.New("contribution not found")
	ErrInvalidContribution     = errors.New("invalid contribution input")
	ErrContributionNotPending  = errors.New("contribution is not pending review")
	ErrCaseNotAcceptingFunds   = errors.New("case is not accepting contributions")
)
