package config

// Profile holds a named scrub profile loaded from the configuration file.
// Profiles tune detection sensitivity for a class of documents, e.g. a
// stricter profile for court filings and a looser one for bulk archives.
type Profile struct {
	// EntropyThreshold overrides the global entropy threshold.
	// If zero, the defaults value is used.
	EntropyThreshold float64 `yaml:"entropyThreshold,omitempty"`

	// EntropyMinLength overrides the minimum stream length for
	// entropy analysis. If zero, the defaults value is used.
	EntropyMinLength int `yaml:"entropyMinLength,omitempty"`

	// VendorTerms are additional vendor names treated as identifying when
	// they appear in font names or binary content.
	VendorTerms []string `yaml:"vendorTerms,omitempty"`

	// SafeSubtypes are annotation subtypes preserved during sanitization.
	// If specified, this replaces the built-in safe list entirely.
	SafeSubtypes []string `yaml:"safeSubtypes,omitempty"`
}

// File represents the structure of the .pdfscrub configuration file.
type File struct {
	// Profiles maps profile names to their scrub settings.
	// Names are selected at runtime via the --profile flag.
	Profiles map[string]Profile `yaml:"profiles,omitempty"`

	// Defaults contains the base profile applied to every run
	// unless overridden by the selected profile.
	Defaults Profile `yaml:"defaults,omitempty"`
}

// GetProfile returns the settings for a named profile.
// It merges the named profile with the file defaults; an unknown
// name yields the defaults alone.
func (cf *File) GetProfile(name string) Profile {
	// Start with defaults
	result := cf.Defaults

	// Override with the named profile if present
	if profile, ok := cf.Profiles[name]; ok {
		if profile.EntropyThreshold != 0 {
			result.EntropyThreshold = profile.EntropyThreshold
		}
		if profile.EntropyMinLength != 0 {
			result.EntropyMinLength = profile.EntropyMinLength
		}
		if len(profile.VendorTerms) > 0 {
			result.VendorTerms = append(result.VendorTerms, profile.VendorTerms...)
		}
		if len(profile.SafeSubtypes) > 0 {
			result.SafeSubtypes = profile.SafeSubtypes
		}
	}

	return result
}
