package attendance

import "context"

// KeyValueStore persists JSON-encoded settings and state by key.
type KeyValueStore interface {
	// Get returns the stored value. A missing key yields ErrKeyNotFound
	// from the implementation.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Keys used in the store.
const (
	KeyStatusCache  = "StatusCache"
	KeyLastInfo     = "LastInfo"
	KeyHolidays     = "Holidays"
	KeyMenuList     = "MenuList"
	KeySiteID       = "SiteId"
	KeyLastAnnounce = "LastAnnounce"
	KeyMessage      = "Message"
)
