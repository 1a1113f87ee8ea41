package docstore

import (
	"fmt"
	"strings"
)

// DocumentAddress is the logical address of one document.
type DocumentAddress struct {
	Database  string
	Container string
	ID        string
}

// Validate checks that every part is present and free of path separators.
func (a DocumentAddress) Validate() error {
	parts := []struct {
		name, value string
	}{
		{"database", a.Database},
		{"container", a.Container},
		{"id", a.ID},
	}

	for _, p := range parts {
		if p.value == "" {
			return fmt.Errorf("%w: empty %s", ErrInvalidAddress, p.name)
		}
		if strings.ContainsAny(p.value, `/\?#`) {
			return fmt.Errorf("%w: %s %q contains a reserved character", ErrInvalidAddress, p.name, p.value)
		}
	}

	return nil
}

// ResourceLink returns the path of the document relative to the account
// endpoint.
func (a DocumentAddress) ResourceLink() string {
	return "dbs/" + a.Database + "/colls/" + a.Container + "/docs/" + a.ID
}

func (a DocumentAddress) String() string {
	return a.ResourceLink()
}
