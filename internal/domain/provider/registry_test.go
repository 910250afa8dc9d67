package provider

import (
	"strings"
	"testing"
)

func TestNew_KnownTypes(t *testing.T) {
	tests := []struct {
		providerType string
		wantName     string
	}{
		{providerType: "gemini", wantName: "gemini"},
		{providerType: "openai", wantName: "openai"},
		{providerType: "openai_sdk", wantName: "openai_sdk"},
	}

	for _, tt := range tests {
		t.Run(tt.providerType, func(t *testing.T) {
			p, err := New(&Config{Type: tt.providerType, APIKey: "test-key"})
			if err != nil {
				t.Fatalf("New(%q): %v", tt.providerType, err)
			}
			if p.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", p.Name(), tt.wantName)
			}
		})
	}
}

func TestNew_UnknownType(t *testing.T) {
	_, err := New(&Config{Type: "anthropic", APIKey: "k"})
	if err == nil {
		t.Fatal("expected error for unknown provider type")
	}
	if !strings.Contains(err.Error(), "anthropic") {
		t.Errorf("error should name the unknown type: %v", err)
	}
}

func TestTypes_Sorted(t *testing.T) {
	types := Types()
	if len(types) < 3 {
		t.Fatalf("expected at least three registered types, got %v", types)
	}
	for i := 1; i < len(types); i++ {
		if types[i-1] > types[i] {
			t.Errorf("Types() not sorted: %v", types)
		}
	}
}
