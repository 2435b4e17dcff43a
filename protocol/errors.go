package protocol

import (
	"errors"
)

var (
	ErrShortFrame       = errors.New("protocol: buffer shorter than frame header")
	ErrBadMagic         = errors.New("protocol: magic mismatch")
	ErrBadVersion       = errors.New("protocol: unsupported frame version")
	ErrLengthMismatch   = errors.New("protocol: header length does not match buffer")
	ErrFrameTooLarge    = errors.New("protocol: frame exceeds bus message size")
	ErrInsufficientData = errors.New("protocol: insufficient data to decode packet")
)
