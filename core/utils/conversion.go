package utils

import (
	"fmt"
	"time"
)

// ToString converts a scanned database value to its text form. The registry
// store keeps every column as text, but drivers still hand back []byte and,
// for legacy date columns, time.Time.
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case time.Time:
		return v.Format("02/01/2006")
	default:
		return fmt.Sprintf("%v", v)
	}
}
