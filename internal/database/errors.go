package database

import "errors"

var (
	// ErrNoInsertID is returned when an insert does not report a new row id
	ErrNoInsertID = errors.New("failed to get insert id")

	// ErrReadBackMissing is returned when a row written by create or update
	// cannot be read back by its id
	ErrReadBackMissing = errors.New("record not found after write")
)
