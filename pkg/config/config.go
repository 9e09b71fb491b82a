package config

// Config is a read-only tree of configuration sections. Sections are
// nested string-keyed mappings; leaves may be any value. A nil *Config is
// valid and behaves like an empty tree, so callers can pass an optional
// configuration without nil checks of their own.
type Config struct {
	values map[string]any
}

// New returns a Config wrapping the given value tree. The tree is used
// as-is and must not be mutated by the caller afterwards.
func New(values map[string]any) *Config {
	return &Config{values: values}
}

// GetSection walks the value tree along the given path and returns the
// mapping found there. It returns nil when the path is empty, when any
// intermediate element is missing, or when the element found is not a
// mapping.
func (c *Config) GetSection(path ...string) map[string]any {
	if c == nil || len(path) == 0 {
		return nil
	}
	section := c.values
	for _, key := range path {
		child, ok := section[key]
		if !ok {
			return nil
		}
		section, ok = child.(map[string]any)
		if !ok {
			return nil
		}
	}
	return section
}
