package stable

import "testing"

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		name    string
		a, b    string
		want    int
		wantErr bool
	}{
		{"older patch", "1.0.0", "1.0.1", -1, false},
		{"older major", "1.0.0", "2.0.0", -1, false},
		{"equal", "1.2.3", "1.2.3", 0, false},
		{"newer", "1.1.0", "1.0.0", 1, false},
		{"v prefix", "v1.0.0", "1.0.1", -1, false},
		{"prerelease less than release", "1.0.0-beta", "1.0.0", -1, false},
		{"invalid", "notaversion", "1.0.0", 0, true},
		{"dev build", "1.0.0", "dev", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CompareVersions(tt.a, tt.b)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("CompareVersions(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestIsOlder(t *testing.T) {
	older, err := IsOlder("1.0.0", "1.2.0")
	if err != nil || !older {
		t.Errorf("IsOlder(1.0.0, 1.2.0) = %v, %v", older, err)
	}
	older, err = IsOlder("1.2.0", "1.2.0")
	if err != nil || older {
		t.Errorf("IsOlder(1.2.0, 1.2.0) = %v, %v", older, err)
	}
}
