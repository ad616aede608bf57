package tui

import "errors"

// ErrMissingSession is returned when the session service is not provided.
var ErrMissingSession = errors.New("tui: session service is required")

// ErrMissingPresenter is returned when no program presenter is provided.
var ErrMissingPresenter = errors.New("tui: program presenter is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
