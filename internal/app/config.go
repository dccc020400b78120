package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	GraphPaths []string `validate:"required,min=1,dive,required"` // graph files or directories
	FeedPath   string   `validate:"required"`                     // input values
	Outputs    []string `validate:"dive,required"`                // nodes to report

	LogFormat       string `validate:"oneof=text json"`
	LogLevel        string `validate:"oneof=debug info warn error"`
	HealthcheckPort int    `validate:"gte=0,lte=65535"`
	Watch           bool
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// NewConfig fills defaults and validates cfg.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, err
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, describe(fe))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
	}
	return &cfg, nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "min":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got '%v'", fe.Field(), fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed '%s' (value '%v')", fe.Field(), fe.Tag(), fe.Value())
	}
}
