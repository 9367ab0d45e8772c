package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jward/brackets/internal/lang"
	"github.com/jward/brackets/internal/logging"
	"github.com/jward/brackets/internal/scan"
	"github.com/jward/brackets/internal/textpos"
)

// Validate canonicalizes s in place and reports every invalid field.
func Validate(s *Settings) error {
	var errs []error

	s.Format = strings.ToLower(s.Format)
	switch s.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("invalid format %q (want json or text)", s.Format))
	}

	s.Color = strings.ToLower(s.Color)
	switch s.Color {
	case "auto", "always", "never":
	default:
		errs = append(errs, fmt.Errorf("invalid color %q (want auto, always or never)", s.Color))
	}

	if err := logging.ValidateLevel(s.LogLevel); err != nil {
		errs = append(errs, err)
	}

	if unit, err := textpos.ParseUnit(s.Columns); err != nil {
		errs = append(errs, err)
	} else {
		s.Columns = unit.String()
	}

	if len(s.Kinds) == 0 {
		errs = append(errs, errors.New("kinds must not be empty"))
	} else if _, err := scan.ParseKinds(s.Kinds...); err != nil {
		errs = append(errs, err)
	}

	for _, l := range s.Languages {
		if !lang.IsSupported(l) {
			errs = append(errs, fmt.Errorf("unsupported language %q", l))
		}
	}

	return errors.Join(errs...)
}
