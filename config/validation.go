package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConfigRequirements defines required configuration for each environment
type ConfigRequirements struct {
	RequiredFields []string
}

var (
	// Environment-specific requirements. Development and test fall back to
	// defaults, so only CI and production are strict.
	requirements = map[Environment]ConfigRequirements{
		Development: {},
		Test:        {},
		CI: {
			RequiredFields: []string{"DB_DRIVER", "JWT_SECRET"},
		},
		Production: {
			RequiredFields: []string{"SERVER_PORT", "DB_DRIVER", "JWT_SECRET"},
		},
	}
)

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()
	reqs := requirements[env]

	values := map[string]string{
		"SERVER_PORT": cfg.ServerPort,
		"DB_DRIVER":   cfg.DBDriver,
		"JWT_SECRET":  cfg.JWTSecret,
	}

	var errs []ValidationError
	for _, field := range reqs.RequiredFields {
		if values[field] == "" {
			errs = append(errs, ValidationError{Field: field, Message: "is required"})
		}
	}

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DBHost == "" || cfg.DBName == "" {
			errs = append(errs, ValidationError{Field: "DB_HOST", Message: "postgres driver needs DB_HOST and DB_NAME"})
		}
		if env == Production && cfg.DBPassword == "" {
			errs = append(errs, ValidationError{Field: "DB_PASSWORD", Message: "db_password secret is required"})
		}
	case "sqlite":
		if cfg.DBPath == "" {
			errs = append(errs, ValidationError{Field: "DB_PATH", Message: "sqlite driver needs DB_PATH"})
		}
	case "":
	default:
		errs = append(errs, ValidationError{Field: "DB_DRIVER", Message: fmt.Sprintf("unsupported driver %q", cfg.DBDriver)})
	}

	if env == Production && cfg.JWTSecret == "your-secret-key" {
		errs = append(errs, ValidationError{Field: "JWT_SECRET", Message: "default secret is not allowed in production"})
	}
	if cfg.JWTTTL <= 0 {
		errs = append(errs, ValidationError{Field: "JWT_TTL", Message: "must be positive"})
	}

	if len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(msgs, "\n"))
	}

	return nil
}
