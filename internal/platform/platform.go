// Package platform describes the chat platform as the bot core sees it: the
// events it receives and the three calls it makes.
package platform

import (
	"context"
	"errors"
	"fmt"
)

// MessageCreated is a new message as delivered by the platform.
type MessageCreated struct {
	MessageID     string
	ChannelID     string
	GuildID       string
	AuthorID      string
	AuthorIsBot   bool
	Content       string
	AuthorRoleIDs []string
}

type MessageDeleted struct {
	MessageID string
	ChannelID string
}

// MessageHandle addresses a message the bot can later delete.
type MessageHandle struct {
	ChannelID string
	MessageID string
}

// Platform is the set of calls the core makes against the chat service.
type Platform interface {
	AddReaction(ctx context.Context, channelID, messageID, token string) error
	SendMessage(ctx context.Context, channelID, text string) (MessageHandle, error)
	DeleteMessage(ctx context.Context, h MessageHandle) error
}

// FailureKind classifies a rejected platform call.
type FailureKind int

const (
	FailureUnknown FailureKind = iota
	FailureRateLimited
	FailureForbidden
	FailureNotFound
)

func (k FailureKind) String() string {
	switch k {
	case FailureRateLimited:
		return "rate_limited"
	case FailureForbidden:
		return "forbidden"
	case FailureNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Error is returned by Platform implementations for rejected calls.
type Error struct {
	Op     string
	Kind   FailureKind
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status of the rejected call, 0 if unknown.
func (e *Error) StatusCode() int { return e.Status }

// KindOf returns the failure kind carried by err, FailureUnknown otherwise.
func KindOf(err error) FailureKind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return FailureUnknown
}
