package backend

import (
	"errors"
	"fmt"
	"strings"

	"expensetracker/internal/config"
)

// FromAppConfig maps the application config onto a backend Config and
// validates the result.
func FromAppConfig(app *config.Config) (Config, error) {
	if app == nil {
		return Config{}, errors.New("backend: application config is nil")
	}

	c := Config{
		Type:         BackendType(strings.ToLower(app.DataBackend)),
		SQLiteDBPath: app.SQLiteDBPath,
		AMQPURL:      app.AMQPURL,
		AMQPExchange: app.AMQPExchange,
		AMQPQueue:    app.AMQPQueue,
	}
	if c.Type == MemoryBackend {
		c.MemoryQuota = app.MemoryQuota
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate reports every problem with the backend configuration.
func (c Config) Validate() error {
	var errs []error
	switch c.Type {
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			errs = append(errs, errors.New("sqlite backend needs a database path"))
		}
	case MemoryBackend:
		if c.MemoryQuota < 0 {
			errs = append(errs, fmt.Errorf("memory quota %d is negative", c.MemoryQuota))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown backend %q, want one of %s", c.Type, strings.Join(TypeNames(), ", ")))
	}

	if c.AMQPURL != "" && (c.AMQPExchange == "" || c.AMQPQueue == "") {
		errs = append(errs, errors.New("AMQP notifications need both an exchange and a queue"))
	}
	return errors.Join(errs...)
}

// Types lists the supported backends, the default first.
func Types() []BackendType {
	return []BackendType{SQLiteBackend, MemoryBackend}
}

func TypeNames() []string {
	var names []string
	for _, t := range Types() {
		names = append(names, t.String())
	}
	return names
}
