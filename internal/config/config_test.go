package config

import "testing"

func TestParseIDMap(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want map[string]string
	}{
		{
			name: "single pair",
			raw:  "9=0xa050930bc8c5762c7994a35eb27b5b619254c438",
			want: map[string]string{"9": "0xa050930bc8c5762c7994a35eb27b5b619254c438"},
		},
		{
			name: "multiple pairs with spaces",
			raw:  "9=0xaaa, 10=0xbbb",
			want: map[string]string{"9": "0xaaa", "10": "0xbbb"},
		},
		{
			name: "malformed entries dropped",
			raw:  "9=0xaaa,broken,=0xccc,11=",
			want: map[string]string{"9": "0xaaa"},
		},
		{
			name: "empty",
			raw:  "",
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseIDMap(tt.raw)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d entries, want %d: %v", len(got), len(tt.want), got)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("entry %q = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}
