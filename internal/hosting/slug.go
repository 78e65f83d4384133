package hosting

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// newSlug generates a candidate namespace handle. Uniqueness comes from the
// UUID entropy; collisions surface as provider errors and are not retried here.
func newSlug() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return fmt.Sprintf("roomify-%s-%s", raw[:8], raw[8:14])
}
