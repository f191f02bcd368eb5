package config

// Optional holds a string setting that has no default. The zero value is unset.
type Optional struct {
	value string
	set   bool
}

// Some returns a set Optional.
func Some(value string) Optional {
	return Optional{value: value, set: true}
}

func lookupOptional(env Environment, key string) Optional {
	if value, ok := env.Lookup(key); ok {
		return Some(value)
	}
	return Optional{}
}

// Get returns the value and whether it was defined.
func (o Optional) Get() (string, bool) {
	return o.value, o.set
}

// IsSet reports whether the value was defined.
func (o Optional) IsSet() bool {
	return o.set
}

// OrElse returns the value, or def when unset.
func (o Optional) OrElse(def string) string {
	if o.set {
		return o.value
	}
	return def
}
