package config

// Config is the root configuration document loaded from .config.yaml.
//
// Flat root-level keys such as GEMINI_API_KEY or AGRI_MOCK_MODE are
// collected into Extra so the resolution precedence (environment, flat
// key, nested section) can consult them without dedicated struct fields.
type Config struct {
	Server    ServerConfig              `yaml:"server"`
	Log       LogConfig                 `yaml:"log"`
	Web       WebConfig                 `yaml:"web"`
	Mock      MockConfig                `yaml:"mock"`
	Selected  SelectedConfig            `yaml:"selected_provider"`
	Providers map[string]ProviderConfig `yaml:"providers"`
	Extra     map[string]interface{}    `yaml:",inline"`
}

type ServerConfig struct {
	IP   string `yaml:"ip"`
	Port int    `yaml:"port"`
}

type LogConfig struct {
	Level string `yaml:"log_level"`
	Dir   string `yaml:"log_dir"`
	File  string `yaml:"log_file"`
}

type WebConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Port      int    `yaml:"port"`
	StaticDir string `yaml:"static_dir"`
}

// MockConfig is the nested configuration section for mock mode. Mode is kept
// as a string so the same case-insensitive "true" comparison applies to all
// three resolution sources.
type MockConfig struct {
	Mode string `yaml:"mode"`
}

type SelectedConfig struct {
	Provider string `yaml:"provider"`
}

type ProviderConfig struct {
	Type        string  `yaml:"type"`
	ModelName   string  `yaml:"model_name"`
	BaseURL     string  `yaml:"url"`
	APIKey      string  `yaml:"api_key"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	TopP        float64 `yaml:"top_p"`
}

// Default returns a configuration with the fallbacks applied when no
// .config.yaml is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			IP:   "0.0.0.0",
			Port: 8080,
		},
		Log: LogConfig{
			Level: "info",
		},
		Web: WebConfig{
			Enabled:   true,
			Port:      8080,
			StaticDir: "./web",
		},
		Selected: SelectedConfig{
			Provider: "gemini",
		},
		Providers: map[string]ProviderConfig{},
	}
}

// FlatKey returns the string value of a flat root-level configuration key,
// or "" when the key is absent or not a string.
func (c *Config) FlatKey(name string) string {
	if c == nil || c.Extra == nil {
		return ""
	}
	value, ok := c.Extra[name]
	if !ok {
		return ""
	}
	str, ok := value.(string)
	if !ok {
		return ""
	}
	return str
}
