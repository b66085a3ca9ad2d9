package config

import "errors"

// ErrLoadConfig wraps failures reading the YAML file or the environment.
var ErrLoadConfig = errors.New("load config failed")

// ErrInvalidConfig wraps rule violations found by Validate, such as a zero
// innings quota or an abandoned entry without a date.
var ErrInvalidConfig = errors.New("invalid config")
