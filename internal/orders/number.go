package orders

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NumberGenerator produces order numbers. Uniqueness is ultimately enforced
// by the database constraint; the random token makes collisions under
// concurrent confirmations practically impossible, unlike a bare timestamp.
type NumberGenerator interface {
	Next() string
}

// RandomNumberGenerator emits "ORD-YYYYMMDD-XXXXXXXX" numbers where the
// suffix is a random token. The date prefix is for operator readability only;
// callers must not rely on lexical ordering.
type RandomNumberGenerator struct {
	now func() time.Time
}

// NewNumberGenerator creates the default generator.
func NewNumberGenerator() *RandomNumberGenerator {
	return &RandomNumberGenerator{now: time.Now}
}

// Next returns a fresh order number.
func (g *RandomNumberGenerator) Next() string {
	token := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", g.now().UTC().Format("20060102"), token)
}
