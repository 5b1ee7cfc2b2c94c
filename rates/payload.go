package rates

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// DefaultPropertyPath locates the rate in documents shaped like
// {"rates": {"EUR": 0.9}}.
const DefaultPropertyPath = "rates.{{to}}"

// Payload is a JSON document holding exchange rates, such as the response
// of a rates API. PropertyPath is a gjson path to the rate, in which the
// tags {{from}} and {{to}} are replaced by the currencies of a lookup.
type Payload struct {
	Data         []byte
	PropertyPath string
}

// MergeTags replaces every {{name}} in s by tags[name].
func MergeTags(s string, tags map[string]string) string {
	for name, v := range tags {
		s = strings.ReplaceAll(s, "{{"+name+"}}", v)
	}
	return s
}

// Rate implements [Source].
func (p Payload) Rate(ctx context.Context, from, to string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if !gjson.ValidBytes(p.Data) {
		return 0, fmt.Errorf("%w: malformed JSON", ErrInvalidPayload)
	}
	path := p.PropertyPath
	if path == "" {
		path = DefaultPropertyPath
	}
	path = MergeTags(path, map[string]string{"from": from, "to": to})
	r := gjson.GetBytes(p.Data, path)
	if !r.Exists() {
		return 0, fmt.Errorf("%w: unable to read %v", ErrRateNotFound, path)
	}
	if r.Type != gjson.Number {
		return 0, fmt.Errorf("%w: %v is %v, want a number", ErrInvalidPayload, path, r.Type)
	}
	return r.Float(), nil
}
