package config

import "testing"

func TestResolveProvider_Precedence(t *testing.T) {
	tests := []struct {
		name       string
		env        string
		flat       string
		section    string
		wantKey    string
		wantEnv    bool
		wantFlat   bool
		wantSectOK bool
	}{
		{
			name:       "environment wins over all",
			env:        "env-key",
			flat:       "flat-key",
			section:    "section-key",
			wantKey:    "env-key",
			wantEnv:    true,
			wantFlat:   true,
			wantSectOK: true,
		},
		{
			name:       "flat key wins over section",
			flat:       "flat-key",
			section:    "section-key",
			wantKey:    "flat-key",
			wantFlat:   true,
			wantSectOK: true,
		},
		{
			name:       "section is last resort",
			section:    "section-key",
			wantKey:    "section-key",
			wantSectOK: true,
		},
		{
			name:    "nothing configured",
			wantKey: "",
		},
		{
			name:    "blank environment value is skipped",
			env:     "   ",
			section: "section-key",
			wantKey: "section-key",

			wantSectOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GEMINI_API_KEY", tt.env)

			cfg := Default()
			cfg.Providers = map[string]ProviderConfig{
				"gemini": {APIKey: tt.section},
			}
			if tt.flat != "" {
				cfg.Extra = map[string]interface{}{"GEMINI_API_KEY": tt.flat}
			}

			resolved := cfg.ResolveProvider()
			if resolved.APIKey != tt.wantKey {
				t.Errorf("APIKey = %q, want %q", resolved.APIKey, tt.wantKey)
			}
			if resolved.HasEnv != tt.wantEnv {
				t.Errorf("HasEnv = %v, want %v", resolved.HasEnv, tt.wantEnv)
			}
			if resolved.HasFlatKey != tt.wantFlat {
				t.Errorf("HasFlatKey = %v, want %v", resolved.HasFlatKey, tt.wantFlat)
			}
			if resolved.HasSection != tt.wantSectOK {
				t.Errorf("HasSection = %v, want %v", resolved.HasSection, tt.wantSectOK)
			}
			if resolved.EnvVar != "GEMINI_API_KEY" {
				t.Errorf("EnvVar = %q, want GEMINI_API_KEY", resolved.EnvVar)
			}
		})
	}
}

func TestResolveProvider_MockMode(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		section string
		want    bool
	}{
		{name: "env true", env: "true", want: true},
		{name: "env mixed case", env: "TRUE", want: true},
		{name: "env false overrides section true", env: "false", section: "true", want: false},
		{name: "section true", section: "true", want: true},
		{name: "anything else is false", env: "yes", want: false},
		{name: "unset", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("AGRI_MOCK_MODE", tt.env)
			t.Setenv("GEMINI_API_KEY", "")

			cfg := Default()
			cfg.Mock.Mode = tt.section

			if got := cfg.ResolveProvider().MockMode; got != tt.want {
				t.Errorf("MockMode = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveProvider_TypeDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	cfg := Default()
	cfg.Selected.Provider = "openai"

	resolved := cfg.ResolveProvider()
	if resolved.Name != "openai" {
		t.Errorf("Name = %q, want openai", resolved.Name)
	}
	if resolved.Type != "openai" {
		t.Errorf("Type = %q, want openai (fall back to provider name)", resolved.Type)
	}

	cfg.Providers = map[string]ProviderConfig{
		"openai": {Type: "openai_sdk", ModelName: "gpt-4o-mini"},
	}
	resolved = cfg.ResolveProvider()
	if resolved.Type != "openai_sdk" {
		t.Errorf("Type = %q, want openai_sdk from section", resolved.Type)
	}
	if resolved.EnvVar != "OPENAI_API_KEY" {
		t.Errorf("EnvVar = %q, want OPENAI_API_KEY", resolved.EnvVar)
	}
}
