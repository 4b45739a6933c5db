package bot

import (
	"regexp"
	"strconv"
)

// ItemRequest is a raw (product id, quantity) pair parsed from order text.
type ItemRequest struct {
	ProductID int64
	Quantity  int
}

var itemPattern = regexp.MustCompile(`(\d+)[x×](\d+)`)

// ParseOrder scans text for item shorthand like "1x2" or "3×1" and returns
// the requests in message order. Fragments that don't match the pattern are
// silently ignored, so a trailing ",3,1" contributes nothing. Duplicates are
// preserved; pricing does not deduplicate. An empty result means the message
// contained no parseable items and must be treated as a parse failure, not a
// zero-item order.
func ParseOrder(text string) []ItemRequest {
	matches := itemPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	requests := make([]ItemRequest, 0, len(matches))
	for _, m := range matches {
		id, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			continue
		}
		qty, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		requests = append(requests, ItemRequest{ProductID: id, Quantity: qty})
	}
	return requests
}
