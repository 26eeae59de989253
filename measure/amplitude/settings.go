package amplitude

import (
	"fmt"
	"strconv"
)

// Settings is the externally resolved key-value configuration for one
// processor. Keys are the leaf names of the original binding parameters:
//
//	preFilter  filter specification applied per channel before combination
//	filter     filter specification applied to the combined stream
//	snrMin     minimum accepted signal-to-noise ratio
//
// Absent keys disable the feature; they are a normal, silent branch, not
// an error.
type Settings map[string]string

// String returns the value for key and whether it was present.
func (s Settings) String(key string) (string, bool) {
	v, ok := s[key]
	return v, ok
}

// Float returns the parsed value for key. A missing key returns ok=false
// and no error; a present but unparsable value returns an error.
func (s Settings) Float(key string) (float64, bool, error) {
	raw, ok := s[key]
	if !ok {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, fmt.Errorf("setting %s=%q: %w", key, raw, err)
	}
	return v, true, nil
}
