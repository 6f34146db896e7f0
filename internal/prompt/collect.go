package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-viewkit/pkg/vars"
)

var errRequired = errors.New("a value is required")

// Missing returns the names from required that the store does not hold a
// value for, in the order given.
func Missing(store *vars.Store, required []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(required))
	for _, name := range required {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		if !store.Has(name) {
			out = append(out, name)
		}
	}
	return out
}

// Collect asks for every required variable the store lacks and sets the
// answers.
func Collect(ctx context.Context, driver Driver, store *vars.Store, required []string) error {
	for _, name := range Missing(store, required) {
		answer, err := driver.Input(ctx, InputConfig{
			Message:   fmt.Sprintf("Value for %q:", name),
			Help:      "Template variable required to render",
			Validator: nonEmpty,
		})
		if err != nil {
			return fmt.Errorf("prompt: %s: %w", name, err)
		}
		store.Set(name, answer)
	}
	return nil
}

func nonEmpty(value string) error {
	if strings.TrimSpace(value) == "" {
		return errRequired
	}
	return nil
}
