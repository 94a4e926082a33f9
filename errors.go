/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import "fmt"

// The game core never panics and never fails the process: every action
// either commits or comes back as one of these typed rejections, which
// the dispatcher renders as a direct reply to the acting player.

// ValidationError rejects bad input (unknown animal, malformed or
// unknown room code, full room). No state is mutated.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func validationf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// StateError rejects an action that is valid input but arrives in the
// wrong state: rolling twice, answering with no pending question, acting
// out of turn. No state is mutated.
type StateError struct {
	Reason string
}

func (e *StateError) Error() string {
	return e.Reason
}

func statef(format string, args ...any) error {
	return &StateError{Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError marks actions from a participant with no session or
// room; the dispatcher routes these to the home reply instead of an
// error message.
type NotFoundError struct {
	Reason string
}

func (e *NotFoundError) Error() string {
	return e.Reason
}

var errNoActiveGame = &NotFoundError{Reason: "no active game"}
