package config

import (
	"errors"
	"fmt"
	"reflect"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the watchlist client.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`

	// Backend holds the tracking backend API configuration.
	Backend BackendConfig `mapstructure:",squash"`

	// LocalStore holds the client-local state store configuration.
	LocalStore LocalStoreConfig `mapstructure:",squash"`

	// UserID optionally overrides the persisted identity for this run.
	// The value is opaque to the client and sent as-is on every call.
	UserID string `mapstructure:"USER_ID"`
}

// BackendConfig holds the connection details for the watchlist backend.
type BackendConfig struct {
	// URL is the base URL of the backend API.
	URL string `mapstructure:"BACKEND_URL" required:"true"`
	// TimeoutSeconds bounds every backend request.
	TimeoutSeconds int `mapstructure:"HTTP_TIMEOUT_SECONDS" default:"30"`
}

// LocalStoreConfig holds the Redis connection for client-local state
// (current identity, recent identities).
type LocalStoreConfig struct {
	// RedisURL is the connection string, e.g. redis://localhost:6379/0.
	RedisURL string `mapstructure:"REDIS_URL" default:"redis://localhost:6379/0"`
}

// Validate checks field formats beyond required-ness.
func (c *AppConfig) Validate() error {
	if err := validation.ValidateStruct(&c.Backend,
		validation.Field(&c.Backend.URL, validation.Required, is.URL),
		validation.Field(&c.Backend.TimeoutSeconds, validation.Min(1)),
	); err != nil {
		return fmt.Errorf("invalid backend configuration: %w", err)
	}
	return validation.ValidateStruct(&c.LocalStore,
		validation.Field(&c.LocalStore.RedisURL, validation.Required),
	)
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// processTags iterates over the struct fields and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			v.BindEnv(key)
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		required := field.Tag.Get("required")
		if required == "true" {
			value := val.Field(i)
			if isZero(value) {
				key := field.Tag.Get("mapstructure")
				return fmt.Errorf("missing required configuration: %s", key)
			}
		}
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
