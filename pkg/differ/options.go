package differ

// Option is a functional option for configuring Differ
type Option func(*differ)

// WithIdenticalAsMissing controls whether a target value literally equal to
// the reference value counts as missing. Enabled by default: an untranslated
// copy of the reference text is indistinguishable from a key never created.
// Disable it for catalogs where locales legitimately share strings such as
// brand names, numbers, or "OK".
func WithIdenticalAsMissing(enabled bool) Option {
	return func(d *differ) {
		d.identicalAsMissing = enabled
	}
}

// WithIgnoredKeys excludes exact dotted paths from comparison
func WithIgnoredKeys(keys ...string) Option {
	return func(d *differ) {
		for _, k := range keys {
			d.ignoreKeys[k] = true
		}
	}
}
