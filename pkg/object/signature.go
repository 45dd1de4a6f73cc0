package object

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Signature is an author, committer or tagger line: identity plus moment.
type Signature struct {
	Name  string
	Email string
	When  time.Time
}

var reSignature = regexp.MustCompile(`^(.*) <([^>]*)> (\d+) ([+-]\d{4})$`)

// ParseSignature parses the value of an author/committer/tagger header,
// e.g. "Jane Doe <jane@example.com> 1712345678 +0200".
func ParseSignature(s string) (Signature, error) {
	m := reSignature.FindStringSubmatch(s)
	if m == nil {
		return Signature{}, fmt.Errorf("malformed signature line %q", s)
	}
	secs, err := strconv.ParseInt(m[3], 10, 64)
	if err != nil {
		return Signature{}, fmt.Errorf("malformed signature timestamp %q: %w", m[3], err)
	}
	loc, err := parseTimezone(m[4])
	if err != nil {
		return Signature{}, err
	}
	return Signature{
		Name:  m[1],
		Email: m[2],
		When:  time.Unix(secs, 0).In(loc),
	}, nil
}

func parseTimezone(tz string) (*time.Location, error) {
	hours, err := strconv.Atoi(tz[1:3])
	if err != nil {
		return nil, fmt.Errorf("malformed timezone %q: %w", tz, err)
	}
	mins, err := strconv.Atoi(tz[3:5])
	if err != nil {
		return nil, fmt.Errorf("malformed timezone %q: %w", tz, err)
	}
	offset := (hours*60 + mins) * 60
	if tz[0] == '-' {
		offset = -offset
	}
	return time.FixedZone(tz, offset), nil
}

// String renders the identity without the timestamp.
func (s Signature) String() string {
	return fmt.Sprintf("%s <%s>", s.Name, s.Email)
}
