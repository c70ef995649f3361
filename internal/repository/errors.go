// Package repository contains data access logic separated from HTTP handlers.
// This file defines error values reused across repositories. Sentinel values
// let handlers distinguish failure scenarios, e.g. translating ErrEmailExists
// into a 400 at registration or ErrProductNotFound into a 404.
package repository

import "errors"

// ErrEmailExists is returned when registration hits the unique email key.
var ErrEmailExists = errors.New("email already exists")

// ErrUsernameExists is returned when registration hits the unique username key.
var ErrUsernameExists = errors.New("username already exists")

// ErrUserNotFound is returned when a user id or email has no matching row.
var ErrUserNotFound = errors.New("user not found")

// ErrProductNotFound is returned when a product cannot be found.
var ErrProductNotFound = errors.New("product not found")

// ErrTokenNotFound is returned when no live refresh token matches a digest.
var ErrTokenNotFound = errors.New("refresh token not found")
