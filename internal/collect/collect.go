// Package collect drives interactive acquisition of platform
// credentials, skipping fields already resolvable from a source.
package collect

import (
	"fmt"
	"strings"

	"github.com/grandcamel/as-plugins-cli/internal/envfile"
	"github.com/grandcamel/as-plugins-cli/internal/platform"
	"github.com/grandcamel/as-plugins-cli/internal/terminal"

	"github.com/AlecAivazis/survey/v2"
)

// shown in place of a stored keychain command reference; the value
// itself must never be echoed, not even hashed
const keychainRefMarker = "[keychain reference]"

// Collector collects platform credentials through the terminal UI
type Collector struct {
	ui      terminal.UI
	sources []envfile.Source
}

// New creates a collector that resolves fields from the provided
// sources before falling back to prompting; pass nil sources to
// force prompting for every field
func New(ui terminal.UI, sources []envfile.Source) Collector {
	return Collector{ui, sources}
}

// Collect gathers a value for each field of the platform spec
//
// Fields producing no value (optional, no default, left blank) are
// omitted from the result entirely
func (c Collector) Collect(spec platform.Spec, existing map[string]string) (map[string]string, error) {
	credentials := map[string]string{}

	for _, field := range spec.Fields {
		if value, source, ok := envfile.Lookup(c.sources, field.Name); ok {
			c.ui.Print(terminal.NewTextLog("%s: %s (from %s)", field.Label, displayValue(field, value), source))
			credentials[field.Name] = value
			continue
		}

		value, err := c.prompt(field, existing[field.Name])
		if err != nil {
			return nil, err
		}
		if value == "" {
			continue
		}
		credentials[field.Name] = value
	}
	return credentials, nil
}

func (c Collector) prompt(field platform.FieldSpec, existing string) (string, error) {
	suggested := existing
	if suggested == "" {
		suggested = field.Default
	}

	for {
		var value string
		if field.Secret {
			if err := c.ui.AskOne(&value, &survey.Password{Message: field.Label, Help: field.Help}); err != nil {
				return "", err
			}
			if value == "" {
				value = suggested
			}
		} else {
			message := field.Label
			if suggested == "" && field.Placeholder != "" {
				message = fmt.Sprintf("%s [%s]", field.Label, field.Placeholder)
			}
			if err := c.ui.AskOne(&value, &survey.Input{Message: message, Default: suggested, Help: field.Help}); err != nil {
				return "", err
			}
		}

		if value == "" {
			if field.Optional {
				return field.Default, nil
			}
			c.ui.Print(terminal.NewWarningLog("Value required"))
			continue
		}

		normalized, err := field.Kind.Normalize(value)
		if err != nil {
			c.ui.Print(terminal.NewErrorLog(err))
			continue
		}
		return normalized, nil
	}
}

func displayValue(field platform.FieldSpec, value string) string {
	if envfile.IsCommandRef(value) {
		return keychainRefMarker
	}
	if field.Secret {
		return MaskValue(value)
	}
	return value
}

// MaskValue redacts a secret, keeping the last four characters of
// longer values for recognizability
func MaskValue(value string) string {
	if len(value) > 8 {
		return strings.Repeat("*", len(value)-4) + value[len(value)-4:]
	}
	return strings.Repeat("*", len(value))
}
