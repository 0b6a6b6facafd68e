package config

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// Validate checks cfg against its struct tags, returning a
// validator.ValidationErrors wrapping every violation found.
func Validate(cfg *Config) error {
	return validate.Struct(cfg)
}
