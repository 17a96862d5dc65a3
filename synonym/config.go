package synonym

import "github.com/dailyyoga/syndict/reload"

// CompilerConfig controls how rules are compiled
type CompilerConfig struct {
	// Expand controls equivalence groups: when true every term maps to
	// the whole group, when false every term maps to the first term
	Expand bool `mapstructure:"expand"`
	// Lenient skips malformed rules instead of failing the compile
	Lenient bool `mapstructure:"lenient"`
	// CaseSensitive disables the default lower-case folding of terms
	CaseSensitive bool `mapstructure:"case_sensitive"`
}

// DefaultCompilerConfig returns the default compiler configuration
func DefaultCompilerConfig() *CompilerConfig {
	return &CompilerConfig{
		Expand: true,
	}
}

// Config is the dictionary configuration
type Config struct {
	Reload   *reload.Config  `mapstructure:"reload"`
	Compiler *CompilerConfig `mapstructure:"compiler"`
}

// MergeDefaults fills unset fields with defaults
func (c *Config) MergeDefaults() {
	if c.Reload == nil {
		c.Reload = &reload.Config{}
	}
	if c.Reload.Name == "" {
		c.Reload.Name = "synonyms"
	}
	c.Reload.MergeDefaults()
	if c.Compiler == nil {
		c.Compiler = DefaultCompilerConfig()
	}
}
