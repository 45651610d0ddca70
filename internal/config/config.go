// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/alvinbaena/pwned-check/pkg/hibp"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config of the range API client. Every value has a default, the environment
// only overrides them.
type Config struct {
	ApiUrl    string        `mapstructure:"PWNED_API_URL" validate:"required,url"`
	Timeout   time.Duration `mapstructure:"PWNED_TIMEOUT" validate:"gt=0"`
	RetryMax  int           `mapstructure:"PWNED_RETRY_MAX" validate:"gte=0,lte=10"`
	Padding   bool          `mapstructure:"PWNED_PADDING"`
	UserAgent string        `mapstructure:"PWNED_USER_AGENT" validate:"required"`
	// Bytes of range responses kept in memory by the server. 0 disables the cache.
	CacheSize int64         `mapstructure:"PWNED_CACHE_SIZE" validate:"gte=0"`
	CacheTTL  time.Duration `mapstructure:"PWNED_CACHE_TTL" validate:"gte=0"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PWNED_API_URL", hibp.DefaultBaseURL)
	v.SetDefault("PWNED_TIMEOUT", hibp.DefaultTimeout)
	v.SetDefault("PWNED_RETRY_MAX", 0)
	v.SetDefault("PWNED_PADDING", false)
	v.SetDefault("PWNED_USER_AGENT", hibp.DefaultUserAgent)
	v.SetDefault("PWNED_CACHE_SIZE", 0)
	v.SetDefault("PWNED_CACHE_TTL", time.Hour)
}

func bindEnvs(v *viper.Viper, iface interface{}, parts ...string) {
	ifv := reflect.ValueOf(iface)
	ift := reflect.TypeOf(iface)
	for i := 0; i < ift.NumField(); i++ {
		fv := ifv.Field(i)
		t := ift.Field(i)
		tv, ok := t.Tag.Lookup("mapstructure")
		if !ok {
			continue
		}
		switch fv.Kind() {
		case reflect.Struct:
			bindEnvs(v, fv.Interface(), append(parts, tv)...)
		default:
			_ = v.BindEnv(strings.Join(append(parts, tv), "."))
		}
	}
}

func msgForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "url":
		return "This field must be an absolute URL"
	case "gt", "gte":
		return fmt.Sprintf("This field must be at least %s", minimum(fe))
	case "lte":
		return fmt.Sprintf("This field must be at most %s", fe.Param())
	}
	return fe.Error() // default error
}

func minimum(fe validator.FieldError) string {
	if fe.Tag() == "gt" {
		return "above " + fe.Param()
	}
	return fe.Param()
}

// Load reads the configuration from the environment.
func Load() (config Config, err error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	// Unmarshal only sees keys viper knows about, so bind every env explicitly
	// instead of requiring a config file.
	// https://github.com/spf13/viper/issues/188#issuecomment-399884438
	config = Config{}
	bindEnvs(v, config)

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("error reading configuration from environment: %w", err)
	}

	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		return field.Tag.Get("mapstructure")
	})

	if err = validate.Struct(&config); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			var msgs []string
			for _, fe := range ve {
				msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Field(), msgForTag(fe)))
			}

			return config, errors.New(strings.Join(msgs, ". "))
		}
		return config, fmt.Errorf("error validating configuration from environment: %w", err)
	}

	return config, nil
}

// ClientOptions turns the configuration into range API client options.
func (c Config) ClientOptions() []hibp.Option {
	return []hibp.Option{
		hibp.WithBaseURL(c.ApiUrl),
		hibp.WithTimeout(c.Timeout),
		hibp.WithRetryMax(c.RetryMax),
		hibp.WithPadding(c.Padding),
		hibp.WithUserAgent(c.UserAgent),
	}
}
