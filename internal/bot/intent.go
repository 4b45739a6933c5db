package bot

import (
	"regexp"
	"strings"
)

// Intent is the classified purpose of an inbound message.
type Intent string

const (
	IntentMenu    Intent = "menu"
	IntentHelp    Intent = "help"
	IntentTrack   Intent = "track"
	IntentOrder   Intent = "order"
	IntentConfirm Intent = "confirm"
	IntentCancel  Intent = "cancel"
	IntentUnknown Intent = "unknown"
)

// orderPattern matches order shorthand like "1x2, 3x1" or "1×2", with a
// looser "1, 2" digit-pair fallback.
var orderPattern = regexp.MustCompile(`\d+[x×]\d+|\d+[,\s]+\d+`)

// Normalize trims and case-folds inbound text before classification.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Classify maps normalized inbound text to an intent. Checks run in strict
// priority order and the first match wins; the function is pure.
func Classify(text string) Intent {
	normalized := Normalize(text)

	switch {
	case normalized == "menu" || normalized == "start":
		return IntentMenu
	case normalized == "help":
		return IntentHelp
	case strings.HasPrefix(normalized, "track"):
		return IntentTrack
	case orderPattern.MatchString(normalized):
		return IntentOrder
	case normalized == "confirm" || normalized == "yes":
		return IntentConfirm
	case normalized == "cancel" || normalized == "no":
		return IntentCancel
	default:
		return IntentUnknown
	}
}
