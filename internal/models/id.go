package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewID returns an opaque id of the form <prefix>_<unix millis>_<random>.
func NewID(prefix string) string {
	random := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixMilli(), random)
}
