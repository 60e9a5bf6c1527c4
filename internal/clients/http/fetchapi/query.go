package fetchapi

import (
	"fmt"
	"strings"

	"github.com/oapi-codegen/runtime"
)

// encodeSearchQuery renders params as a form-exploded query string in a fixed order:
// breeds, ageMin, ageMax, sort, size, from. Empty values are left out.
func encodeSearchQuery(params SearchParams) (string, error) {
	var fragments []string
	add := func(name string, value any) error {
		fragment, err := runtime.StyleParamWithLocation("form", true, name, runtime.ParamLocationQuery, value)
		if err != nil {
			return fmt.Errorf("encode %s: %w", name, err)
		}
		fragments = append(fragments, fragment)
		return nil
	}

	if len(params.Breeds) > 0 {
		if err := add("breeds", params.Breeds); err != nil {
			return "", err
		}
	}
	if params.AgeMin != nil {
		if err := add("ageMin", *params.AgeMin); err != nil {
			return "", err
		}
	}
	if params.AgeMax != nil {
		if err := add("ageMax", *params.AgeMax); err != nil {
			return "", err
		}
	}
	if params.Sort != "" {
		if err := add("sort", params.Sort); err != nil {
			return "", err
		}
	}
	if params.Size > 0 {
		if err := add("size", params.Size); err != nil {
			return "", err
		}
	}
	if params.From != "" {
		if err := add("from", params.From); err != nil {
			return "", err
		}
	}
	return strings.Join(fragments, "&"), nil
}
