// Package services defines the application logic behind the dashboard,
// analytics, contact and audit endpoints. This file centralizes common
// service-level error values so that they can be consistently returned by
// service methods and checked by callers.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer. Delete failures surface as mutation package errors and
// remote failures as webhook package errors; they are not re-wrapped here.
package services

import "errors"

var (
	// ErrInvalidContact is returned when a contact submission lacks a name
	// or an email.
	ErrInvalidContact = errors.New("name and email are required")

	// ErrInvalidRange is returned when the analytics look-back is not one of
	// the configured choices.
	ErrInvalidRange = errors.New("days is not an allowed range")

	// ErrInvalidTopN is returned when the domain ranking size is not one of
	// the configured choices.
	ErrInvalidTopN = errors.New("top is not an allowed ranking size")

	// ErrUnsupportedFormat is returned when an export format is not offered
	// for the requested view.
	ErrUnsupportedFormat = errors.New("unsupported export format")

	// ErrUnavailable is returned when the submission list has never been
	// fetched successfully and there is nothing to serve.
	ErrUnavailable = errors.New("submissions unavailable")
)
