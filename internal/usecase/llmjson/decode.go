// Package llmjson decodes JSON objects returned by completion models.
package llmjson

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/kailas-cloud/talentmatch/internal/domain"
)

// Decode parses a model reply into out. Markdown code fences around the object
// are tolerated and field types are coerced weakly ("0.9" decodes into a float).
// Any failure wraps domain.ErrMalformedReply.
func Decode(text string, out any) error {
	raw := Extract(text)
	if raw == "" {
		return fmt.Errorf("%w: no json object in reply", domain.ErrMalformedReply)
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrMalformedReply, err)
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
		TagName:          "mapstructure",
	})
	if err != nil {
		return fmt.Errorf("build decoder: %w", err)
	}
	if err := dec.Decode(obj); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrMalformedReply, err)
	}
	return nil
}

// Extract returns the outermost {...} span of text, or "" when there is none.
func Extract(text string) string {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end < start {
		return ""
	}
	return text[start : end+1]
}
