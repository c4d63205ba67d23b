// Package idgen produces the short unique ids assigned to orders and
// index entries. Ids are opaque tokens; ordering always relies on the
// created timestamps, never on id shape.
package idgen

import "github.com/rs/xid"

// New returns a short, URL-safe, collision-resistant id.
func New() string {
	return xid.New().String()
}
