package aggregate

import (
	"reflect"
	"testing"
)

func TestIdentityKey(t *testing.T) {
	tests := []struct {
		name string
		b    Business
		want string
	}{
		{
			name: "basic",
			b:    Business{CompanyName: "Acme", City: "Austin", State: "TX"},
			want: "acme|austin|TX",
		},
		{
			name: "llc suffix stripped",
			b:    Business{CompanyName: "Acme LLC", City: "Austin", State: "TX"},
			want: "acme|austin|TX",
		},
		{
			name: "case insensitive",
			b:    Business{CompanyName: "ACME Inc", City: "AUSTIN", State: "tx"},
			want: "acme|austin|TX",
		},
		{
			name: "company suffix before co",
			b:    Business{CompanyName: "Acme Company", City: "Austin", State: "TX"},
			want: "acme|austin|TX",
		},
		{
			name: "empty location",
			b:    Business{CompanyName: "Acme"},
			want: "acme||",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.b.IdentityKey(); got != tt.want {
				t.Errorf("IdentityKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIdentityKeyVariantsMatch(t *testing.T) {
	a := Business{CompanyName: "Acme LLC", City: "Austin", State: "TX"}
	b := Business{CompanyName: "acme", City: "Austin", State: "tx"}
	if a.IdentityKey() != b.IdentityKey() {
		t.Errorf("variants should share a key: %q vs %q", a.IdentityKey(), b.IdentityKey())
	}
}

func TestCompleteness(t *testing.T) {
	tests := []struct {
		name string
		b    Business
		want int
	}{
		{"empty record", Business{}, 0},
		{"name and city", Business{CompanyName: "Acme", City: "Austin"}, 2},
		{
			"all fixed fields",
			Business{
				CompanyName: "Acme", City: "Austin", State: "TX", Address: "1 Main",
				Phone: "(512) 555-0100", Website: "https://acme.com", Email: "a@acme.com",
				Industry: "HVAC", SourceTask: "t1",
			},
			9,
		},
		{
			"extras count",
			Business{CompanyName: "Acme", Extra: map[string]any{"rating": 4.5, "blank": "  ", "missing": nil}},
			2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.b.Completeness(); got != tt.want {
				t.Errorf("Completeness() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDeduplicate(t *testing.T) {
	sparse := Business{CompanyName: "Acme LLC", City: "Austin", State: "TX"}
	rich := Business{
		CompanyName: "Acme", City: "Austin", State: "TX",
		Phone: "(512) 555-0100", Website: "https://acme.com",
	}
	other := Business{CompanyName: "Bravo", City: "Dallas", State: "TX"}

	t.Run("richer record displaces earlier sparse one", func(t *testing.T) {
		got := Deduplicate([]Business{sparse, other, rich})
		if len(got) != 2 {
			t.Fatalf("got %d records, want 2", len(got))
		}
		if got[0].Phone != rich.Phone {
			t.Errorf("retained record = %+v, want the richer one", got[0])
		}
		if got[1].CompanyName != "Bravo" {
			t.Errorf("first-seen order broken: %+v", got)
		}
	})

	t.Run("tie keeps the first seen", func(t *testing.T) {
		first := Business{CompanyName: "Acme", City: "Austin", State: "TX", SourceTask: "t1"}
		second := Business{CompanyName: "Acme LLC", City: "Austin", State: "TX", SourceTask: "t2"}
		got := Deduplicate([]Business{first, second})
		if len(got) != 1 {
			t.Fatalf("got %d records, want 1", len(got))
		}
		if got[0].SourceTask != "t1" {
			t.Errorf("tie should keep the first record, got %+v", got[0])
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		once := Deduplicate([]Business{sparse, rich, other})
		twice := Deduplicate(once)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("second pass changed output:\nonce:  %+v\ntwice: %+v", once, twice)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if got := Deduplicate(nil); len(got) != 0 {
			t.Errorf("Deduplicate(nil) = %+v, want empty", got)
		}
	})
}
