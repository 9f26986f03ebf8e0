package config

import (
	"fmt"
	"time"

	"git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
)

// ValidateConfig validates a defaulted configuration. Failures are classified
// config errors naming the offending field.
func ValidateConfig(cfg *Config) error {
	v := &configurationValidator{config: cfg}
	for _, check := range []func() error{
		v.validateSources,
		v.validateDocsPattern,
		v.validateWatch,
	} {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

type configurationValidator struct {
	config *Config
}

func invalid(field, msg string) error {
	return errors.ConfigError(fmt.Sprintf("%s: %s", field, msg)).WithContext("field", field).Build()
}

func (cv *configurationValidator) validateSources() error {
	sources := cv.config.Content.Sources
	if len(sources) == 0 {
		return invalid("content.sources", "at least one content source must be configured")
	}

	seen := make(map[string]bool, len(sources))
	for i, src := range sources {
		field := fmt.Sprintf("content.sources[%d]", i)
		if src.Name == "" {
			return invalid(field+".name", "cannot be empty")
		}
		if seen[src.Name] {
			return invalid(field+".name", fmt.Sprintf("duplicate source name %q", src.Name))
		}
		seen[src.Name] = true

		if !src.IsRemote() && src.Branch != "" {
			return invalid(field+".branch", "only valid for sources with a url")
		}
		if err := validateAuth(field+".auth", src.Auth); err != nil {
			return err
		}
	}
	return nil
}

func validateAuth(field string, auth *AuthConfig) error {
	if auth.IsZero() {
		return nil
	}
	switch auth.Type {
	case AuthTypeToken:
		if auth.Token == "" {
			return invalid(field+".token", "required for token auth")
		}
	case AuthTypeBasic:
		if auth.Username == "" || auth.Password == "" {
			return invalid(field, "basic auth requires username and password")
		}
	case AuthTypeSSH:
		// An empty key path falls back to ~/.ssh/id_rsa.
	}
	return nil
}

func (cv *configurationValidator) validateDocsPattern() error {
	_, err := cv.config.DocsRegexp()
	return err
}

func (cv *configurationValidator) validateWatch() error {
	w := cv.config.Watch
	d, err := time.ParseDuration(w.Debounce)
	if err != nil || d <= 0 {
		return invalid("watch.debounce", fmt.Sprintf("invalid duration %q", w.Debounce))
	}
	if w.Interval != "" {
		i, err := time.ParseDuration(w.Interval)
		if err != nil || i < time.Second {
			return invalid("watch.interval", fmt.Sprintf("must be a duration of at least 1s, got %q", w.Interval))
		}
	}
	return nil
}
