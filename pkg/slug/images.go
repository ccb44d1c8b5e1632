package slug

import (
	"fmt"
	"strings"
)

// ImageDir returns the storage directory for a listing's cached images.
// Changing this layout orphans every previously stored image, so it must stay
// stable across versions.
func ImageDir(listingID string, category Category) string {
	return fmt.Sprintf("%ss/%s", category, sanitizeID(listingID))
}

// CachedImagePath returns the storage key for one cached listing image.
func CachedImagePath(listingID string, imageIndex int, category Category) string {
	return fmt.Sprintf("%s/image-%d.jpg", ImageDir(listingID, category), imageIndex)
}

// sanitizeID replaces anything outside [A-Za-z0-9_-] with underscores so the
// id is safe inside a storage key.
func sanitizeID(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, id)
}
