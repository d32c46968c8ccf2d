package framework

// Shared is the run-scoped store that steps use to pass entity identifiers and tokens to the
// steps after them. It has no fixed schema. A key must have been set by an earlier step before
// a later step reads it with one of the Require methods.
type Shared struct {
	values map[string]string
}

func NewShared() *Shared {
	return &Shared{values: make(map[string]string)}
}

// SetString stores a value. Setting an empty value removes the key.
func (s *Shared) SetString(key, value string) {
	if value == "" {
		delete(s.values, key)
		return
	}
	s.values[key] = value
}

// RequireString returns the value for a key, or a *MissingContextError if no step has set it.
func (s *Shared) RequireString(key string) (string, error) {
	if v, ok := s.values[key]; ok {
		return v, nil
	}
	return "", &MissingContextError{Key: key}
}

// RequireStrings is a shortcut for calling RequireString on several keys. It reports the first
// key that is missing.
func (s *Shared) RequireStrings(keys ...string) ([]string, error) {
	ret := make([]string, 0, len(keys))
	for _, k := range keys {
		v, err := s.RequireString(k)
		if err != nil {
			return nil, err
		}
		ret = append(ret, v)
	}
	return ret, nil
}
