package planner

import "testing"

func TestIsValidState(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"TX", true},
		{"tx", true},
		{" ca ", true},
		{"DC", true},
		{"XX", false},
		{"", false},
		{"Texas", false},
	}

	for _, tt := range tests {
		if got := IsValidState(tt.code); got != tt.want {
			t.Errorf("IsValidState(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestStateName(t *testing.T) {
	if got := StateName("tx"); got != "Texas" {
		t.Errorf("StateName(tx) = %q", got)
	}
	if got := StateName("XX"); got != "" {
		t.Errorf("StateName(XX) = %q, want empty", got)
	}
}

func TestMajorCitiesFor(t *testing.T) {
	cities := MajorCitiesFor("tx")
	if len(cities) == 0 {
		t.Fatal("TX should have major cities")
	}

	// Callers get a copy, not the shared table.
	cities[0] = "mutated"
	if MajorCitiesFor("TX")[0] == "mutated" {
		t.Error("MajorCitiesFor returned the shared slice")
	}

	if got := MajorCitiesFor("VT"); len(got) != 0 {
		t.Errorf("states without a city table should return empty, got %v", got)
	}
}
