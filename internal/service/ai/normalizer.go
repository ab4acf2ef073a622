package ai

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/kptbarbarossa/validationly-sub003/internal/constants"
	"github.com/kptbarbarossa/validationly-sub003/internal/util"
	"github.com/kptbarbarossa/validationly-sub003/pkg/errors"
)

var fencePattern = regexp.MustCompile("(?s)```[a-zA-Z]*[ \t]*\\r?\\n?(.*?)```")

// ExtractJSON isolates the JSON object in raw model text. clean reports that the text
// was already a bare object with no fence or surrounding prose.
func ExtractJSON(raw string) (payload []byte, clean bool, err error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, false, errors.NewParseError("empty model response", "", nil)
	}

	candidate := text
	if m := fencePattern.FindStringSubmatch(text); m != nil {
		candidate = strings.TrimSpace(m[1])
	}

	start := strings.Index(candidate, "{")
	end := strings.LastIndex(candidate, "}")
	if start < 0 || end <= start {
		return nil, false, errors.NewParseError("no JSON object in model response", preview(text), nil)
	}

	slice := []byte(candidate[start : end+1])
	if !json.Valid(slice) {
		var probe any
		cause := json.Unmarshal(slice, &probe)
		return nil, false, errors.NewParseError("invalid JSON in model response", preview(text), cause)
	}

	return slice, bytes.Equal(slice, []byte(text)), nil
}

// Normalize returns the model's JSON object as a generic map.
func Normalize(raw string) (map[string]any, error) {
	payload, _, err := ExtractJSON(raw)
	if err != nil {
		return nil, err
	}
	var obj map[string]any
	if err := json.Unmarshal(payload, &obj); err != nil {
		return nil, errors.NewParseError("invalid JSON in model response", preview(raw), err)
	}
	return obj, nil
}

func preview(s string) string {
	return util.TruncateString(s, constants.StringLimits.LogPreview)
}
