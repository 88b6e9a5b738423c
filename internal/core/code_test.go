package core

import "testing"

func TestNextProductCode(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		existing []string
		want     string
	}{
		{
			name:   "empty category starts at one",
			prefix: "POK",
			want:   "POK0000001",
		},
		{
			name:     "max plus one, not count plus one",
			prefix:   "POK",
			existing: []string{"POK0000001", "POK0000003"},
			want:     "POK0000004",
		},
		{
			name:     "ignores codes without numeric suffix",
			prefix:   "DBZ",
			existing: []string{"DBZ0000002", "LEGACY"},
			want:     "DBZ0000003",
		},
		{
			name:     "pads to seven digits",
			prefix:   "YGO",
			existing: []string{"YGO0000009"},
			want:     "YGO0000010",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextProductCode(tt.prefix, tt.existing); got != tt.want {
				t.Errorf("NextProductCode(%q, %v) = %q, want %q", tt.prefix, tt.existing, got, tt.want)
			}
		})
	}
}
