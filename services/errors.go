package services

import "errors"

// Sentinel errors returned by the session, streak and review services.
// Handlers map these onto HTTP statuses; anything else is treated as an
// internal failure.
var (
	ErrNotFound         = errors.New("record not found")
	ErrSelfRequest      = errors.New("you cannot request a session with yourself")
	ErrSkillRequired    = errors.New("a skill is required")
	ErrNotTeacher       = errors.New("only the session's teacher can perform this action")
	ErrNotParticipant   = errors.New("you are not a participant in this session")
	ErrInvalidState     = errors.New("the session is not in a valid state for this action")
	ErrInvalidSchedule  = errors.New("a valid scheduled time and duration are required")
	ErrNoDatesGenerated = errors.New("the recurrence pattern produced no upcoming dates")
	ErrInvalidRating    = errors.New("rating must be a whole number between 1 and 5")
	ErrSelfReview       = errors.New("you cannot review yourself")
	ErrAlreadyReviewed  = errors.New("a review for this session has already been submitted")
	ErrProvisioning     = errors.New("meeting provisioning failed")
)
