package config

import (
	"os"
	"strings"
)

// MockModeKey enables the offline mock answer path when resolved to "true".
const MockModeKey = "AGRI_MOCK_MODE"

// ResolvedProvider is the immutable per-request view of provider settings.
// It records where the API key came from so the health endpoint can report
// provenance without revealing the key itself.
type ResolvedProvider struct {
	Name     string
	Type     string
	EnvVar   string
	APIKey   string
	MockMode bool

	HasEnv     bool
	HasFlatKey bool
	HasSection bool

	ModelName   string
	BaseURL     string
	Temperature float64
	MaxTokens   int
	TopP        float64
}

// KeyConfigured reports whether any source produced a non-blank API key.
func (r ResolvedProvider) KeyConfigured() bool {
	return r.APIKey != ""
}

// ResolveProvider resolves the selected provider's API key and the mock-mode
// flag. Precedence for both is: process environment, flat root-level config
// key, nested provider/mock section. First non-blank value wins.
func (c *Config) ResolveProvider() ResolvedProvider {
	name := strings.TrimSpace(c.Selected.Provider)
	if name == "" {
		name = "gemini"
	}

	section := c.Providers[name]
	envVar := strings.ToUpper(name) + "_API_KEY"

	envKey := strings.TrimSpace(os.Getenv(envVar))
	flatKey := strings.TrimSpace(c.FlatKey(envVar))
	sectionKey := strings.TrimSpace(section.APIKey)

	resolved := ResolvedProvider{
		Name:        name,
		Type:        section.Type,
		EnvVar:      envVar,
		APIKey:      firstNonBlank(envKey, flatKey, sectionKey),
		HasEnv:      envKey != "",
		HasFlatKey:  flatKey != "",
		HasSection:  sectionKey != "",
		ModelName:   section.ModelName,
		BaseURL:     section.BaseURL,
		Temperature: section.Temperature,
		MaxTokens:   section.MaxTokens,
		TopP:        section.TopP,
	}

	if resolved.Type == "" {
		resolved.Type = name
	}

	mockValue := firstNonBlank(
		strings.TrimSpace(os.Getenv(MockModeKey)),
		strings.TrimSpace(c.FlatKey(MockModeKey)),
		strings.TrimSpace(c.Mock.Mode),
	)
	resolved.MockMode = strings.EqualFold(mockValue, "true")

	return resolved
}

func firstNonBlank(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
