package domain

import "fmt"

// OutcomeLevel is the severity of a user-facing outcome message.
type OutcomeLevel string

const (
	OutcomeSuccess OutcomeLevel = "success"
	OutcomeInfo    OutcomeLevel = "info"
	OutcomeWarning OutcomeLevel = "warning"
	OutcomeError   OutcomeLevel = "error"
)

// HomePath is the redirect target for actions that leave the group context.
const HomePath = "/home"

// GroupPath returns the redirect target for the detail view of a group.
func GroupPath(groupID string) string {
	return "/groups/" + groupID
}

// Outcome is the result of a user action: a message for the user and where
// the client should navigate next. Permission and rule failures are reported
// as error-level outcomes rather than Go errors.
// swagger:model Outcome
type Outcome struct {
	Level    OutcomeLevel `json:"level"`
	Message  string       `json:"message"`
	Redirect string       `json:"redirect"`
}

// Failed reports whether the outcome denies the requested action.
func (o *Outcome) Failed() bool {
	return o != nil && o.Level == OutcomeError
}

func newOutcome(level OutcomeLevel, redirect, format string, args ...any) *Outcome {
	return &Outcome{Level: level, Message: fmt.Sprintf(format, args...), Redirect: redirect}
}

func Success(redirect, format string, args ...any) *Outcome {
	return newOutcome(OutcomeSuccess, redirect, format, args...)
}

func Info(redirect, format string, args ...any) *Outcome {
	return newOutcome(OutcomeInfo, redirect, format, args...)
}

func Warning(redirect, format string, args ...any) *Outcome {
	return newOutcome(OutcomeWarning, redirect, format, args...)
}

func Failure(redirect, format string, args ...any) *Outcome {
	return newOutcome(OutcomeError, redirect, format, args...)
}
