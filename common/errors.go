// Package common holds the shared error taxonomy for the chat plane. Every
// RPC-visible failure is one of these sentinels, possibly wrapped with
// context; chatrpc maps them to transport status codes.
package common

import "errors"

var (
	// ErrAuthMissing is returned when no bearer token accompanies a request
	ErrAuthMissing = errors.New("authorization token missing")
	// ErrAuthInvalid is returned for expired or badly signed tokens
	ErrAuthInvalid = errors.New("authorization token invalid")
	// ErrPermissionDenied is returned when a caller holds a valid token for
	// the wrong resource, e.g. deleting another owner's channel or
	// presenting a capability minted for a different worker
	ErrPermissionDenied = errors.New("permission denied")
	// ErrUserNotFound is returned on a user lookup miss
	ErrUserNotFound = errors.New("user not found")
	// ErrUserAlreadyExists is returned when registering a taken user id
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrChannelNotFound is returned on a channel lookup miss
	ErrChannelNotFound = errors.New("channel not found")
	// ErrWorkerNotAvailable is returned when a channel has no assigned worker
	ErrWorkerNotAvailable = errors.New("no worker available for channel")
	// ErrInvalidPassword is returned on a login hash mismatch
	ErrInvalidPassword = errors.New("invalid password")
	// ErrValidate is returned for malformed channel configuration
	ErrValidate = errors.New("validation failed")
	// ErrUserAlreadyInChannel is returned when a user holds a second connect
	// to the same channel
	ErrUserAlreadyInChannel = errors.New("user already in channel")
	// ErrChannelFull is returned when a channel is at its connected limit
	ErrChannelFull = errors.New("channel is full")
	// ErrRateLimited is returned when a listen quota is exhausted
	ErrRateLimited = errors.New("rate limited")
	// ErrDatabase wraps persistence failures
	ErrDatabase = errors.New("database error")
	// ErrBroadcastStopped is returned on the outbound stream when a
	// channel's topic is dropped mid-session
	ErrBroadcastStopped = errors.New("channel broadcast stopped")
)
