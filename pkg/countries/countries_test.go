package countries

import "testing"

func TestIDByISO(t *testing.T) {
	tests := []struct {
		code   string
		wantID int
		wantOK bool
	}{
		{"DE", 1, true},
		{"de", 1, true},
		{" at ", 2, true},
		{"GB", 12, true},
		{"UA", 233, true},
		{"ZZ", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			id, ok := IDByISO(tt.code)
			if id != tt.wantID || ok != tt.wantOK {
				t.Errorf("IDByISO(%q) = (%d, %v), want (%d, %v)", tt.code, id, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}

func TestISOByID(t *testing.T) {
	iso, ok := ISOByID(1)
	if !ok || iso != "DE" {
		t.Errorf("ISOByID(1) = (%q, %v), want (DE, true)", iso, ok)
	}

	if _, ok := ISOByID(-5); ok {
		t.Error("ISOByID(-5) should not resolve")
	}
}

func TestRoundTrip(t *testing.T) {
	for _, code := range []string{"DE", "FR", "US", "JP"} {
		id, ok := IDByISO(code)
		if !ok {
			t.Fatalf("IDByISO(%q) unknown", code)
		}
		got, ok := ISOByID(id)
		if !ok || got != code {
			t.Errorf("ISOByID(IDByISO(%q)) = %q", code, got)
		}
	}
}
