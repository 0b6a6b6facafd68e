package cmdutil

import (
	"strings"

	"github.com/cea-hpc/phobos-dss/pkg/dss"
)

// ParsePhoID parses "family:name" or "family:library:name" into a PhoID,
// defaulting library the same way dss.NewPhoID does.
func ParsePhoID(s string) (dss.PhoID, error) {
	parts := strings.Split(s, ":")
	switch len(parts) {
	case 2:
		return dss.NewPhoID(dss.Family(parts[0]), parts[1], ""), nil
	case 3:
		return dss.NewPhoID(dss.Family(parts[0]), parts[2], parts[1]), nil
	default:
		return dss.PhoID{}, dss.NewInvalidf("invalid medium/device id %q, expected family:name or family:library:name", s)
	}
}
