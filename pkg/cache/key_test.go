package cache

import (
	"net/url"
	"testing"
)

func TestKeyString(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		want string
	}{
		{
			name: "endpoint only",
			key:  Key{Endpoint: "webstores"},
			want: "plenty:webstores",
		},
		{
			name: "leading slash trimmed",
			key:  Key{Endpoint: "/items/units"},
			want: "plenty:items/units",
		},
		{
			name: "query parameters sorted",
			key: Key{
				Endpoint: "items/attributes",
				Query:    url.Values{"with": {"names"}, "lang": {"en"}},
			},
			want: "plenty:items/attributes:lang=en:with=names",
		},
		{
			name: "pagination included",
			key: Key{
				Endpoint:     "categories",
				Page:         3,
				ItemsPerPage: 100,
			},
			want: "plenty:categories:page=3:per=100",
		},
		{
			name: "everything combined",
			key: Key{
				Endpoint:     "categories",
				Query:        url.Values{"type": {"item"}},
				Page:         1,
				ItemsPerPage: 50,
			},
			want: "plenty:categories:type=item:page=1:per=50",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.key.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKeyString_Deterministic(t *testing.T) {
	key := Key{
		Endpoint: "vat",
		Query:    url.Values{"b": {"2"}, "a": {"1"}, "c": {"3"}},
	}

	first := key.String()
	for i := 0; i < 10; i++ {
		if got := key.String(); got != first {
			t.Fatalf("String() not deterministic: %q vs %q", got, first)
		}
	}
}
