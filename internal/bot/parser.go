package bot

import (
	"errors"
	"strings"
)

// callbackDelimiter separates the parts of a parameterized callback
// identifier. There is no escaping scheme: the trailing target ID is
// constrained to be purely numeric, so the split point is always the
// last delimiter regardless of how many delimiters the action carries.
const callbackDelimiter = "_"

var ErrMalformedCallback = errors.New("callback identifier does not match prefix_action_targetId")

// ParsedAction is a decoded prefix_action_targetId callback identifier
type ParsedAction struct {
	Prefix   string
	Action   string // may itself contain delimiters
	TargetID string // numeric lead identifier
}

// ParseActionCallback decodes a parameterized callback identifier. The part
// after the last delimiter is the target ID and must be numeric; everything
// between the leading prefix and the target, rejoined with the delimiter,
// is the action. Never assumes a fixed token count.
func ParseActionCallback(data string) (ParsedAction, error) {
	parts := strings.Split(data, callbackDelimiter)
	if len(parts) < 3 {
		return ParsedAction{}, ErrMalformedCallback
	}

	prefix := parts[0]
	target := parts[len(parts)-1]
	if prefix == "" || !isNumericID(target) {
		return ParsedAction{}, ErrMalformedCallback
	}

	return ParsedAction{
		Prefix:   prefix,
		Action:   strings.Join(parts[1:len(parts)-1], callbackDelimiter),
		TargetID: target,
	}, nil
}

// isNumericID reports whether s is a non-empty string of ASCII digits
func isNumericID(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
