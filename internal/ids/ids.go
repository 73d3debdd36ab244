// Package ids generates sortable unique identifiers for stored entities.
package ids

import "github.com/segmentio/ksuid"

func New() string {
	return ksuid.New().String()
}
