package services

import "errors"

// ErrUnknownKey marks inputs referencing a warehouse or product the run
// configuration doesn't know about. Unlike the forecast package's
// data-quality fallbacks, these mean the input must be fixed.
var ErrUnknownKey = errors.New("unknown warehouse or product key")
