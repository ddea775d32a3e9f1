package domain

import (
	"reflect"
	"testing"
)

func TestMarketPrices_HasRequired(t *testing.T) {
	tests := []struct {
		name   string
		prices MarketPrices
		want   bool
	}{
		{"all present", MarketPrices{"wheat": "$1", "corn": "$2", "soybeans": "$3"}, true},
		{"with extra", MarketPrices{"wheat": "$1", "corn": "$2", "soybeans": "$3", "rice": "$4"}, true},
		{"missing corn", MarketPrices{"wheat": "$1", "soybeans": "$3"}, false},
		{"empty value", MarketPrices{"wheat": "$1", "corn": "", "soybeans": "$3"}, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.prices.HasRequired(); got != tt.want {
				t.Errorf("HasRequired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMarketPrices_Extra(t *testing.T) {
	prices := MarketPrices{"wheat": "$1", "corn": "$2", "soybeans": "$3", "rice": "$4", "barley": "$5", "millet": ""}

	got := prices.Extra()
	want := []string{"barley", "rice"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extra() = %v, want %v", got, want)
	}
}

func TestMarketPrices_Clone(t *testing.T) {
	orig := MarketPrices{"wheat": "$1"}
	cp := orig.Clone()
	cp["wheat"] = "$2"

	if orig["wheat"] != "$1" {
		t.Error("Clone() shares storage with the original")
	}
}
