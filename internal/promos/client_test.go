package promos_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DASH1324/bleu-pos/internal/pos"
	"github.com/DASH1324/bleu-pos/internal/promos"
)

const discountsBody = `[
	{"DiscountID": 7, "DiscountName": "Senior Citizen", "Description": "Statutory 20%",
	 "DiscountType": "Percentage", "PercentageValue": "20", "FixedValue": null, "MinimumSpend": null, "Status": "Active"},
	{"DiscountID": 9, "DiscountName": "Opening Promo", "Description": null,
	 "DiscountType": "Fixed", "PercentageValue": null, "FixedValue": "50", "MinimumSpend": "200", "Status": "Active"},
	{"DiscountID": 11, "DiscountName": "Mystery", "Description": null,
	 "DiscountType": "BuyOneGetOne", "PercentageValue": null, "FixedValue": null, "MinimumSpend": null, "Status": "Active"}
]`

func TestClient_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/discounts/", r.URL.Path)
		require.Equal(t, "true", r.URL.Query().Get("active_only"))
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(discountsBody))
	}))
	defer srv.Close()

	client := promos.NewClient(srv.URL, nil)
	defer client.HTTP.CloseIdleConnections()

	discounts, err := client.Fetch(t.Context(), "tok")
	require.NoError(t, err)
	// The unknown kind is dropped: it must never price anything.
	require.Len(t, discounts, 2)

	senior := discounts[0]
	assert.Equal(t, "7", senior.ID)
	assert.Equal(t, pos.DiscountPercentage, senior.Kind)
	assert.Equal(t, "20", senior.Value.String())
	assert.Equal(t, "Statutory 20%", senior.Description)
	assert.True(t, senior.MinSpend.IsZero())

	promo := discounts[1]
	assert.Equal(t, "9", promo.ID)
	assert.Equal(t, pos.DiscountFixed, promo.Kind)
	assert.Equal(t, "50", promo.Value.String())
	assert.Equal(t, "200", promo.MinSpend.String())
}

func TestClient_Fetch_Errors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantError error
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, wantError: pos.ErrSessionExpired},
		{name: "forbidden", status: http.StatusForbidden, wantError: pos.ErrSessionExpired},
		{name: "server failure", status: http.StatusInternalServerError, wantError: pos.ErrDiscountFetchFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			client := promos.NewClient(srv.URL, nil)
			defer client.HTTP.CloseIdleConnections()

			_, err := client.Fetch(t.Context(), "tok")
			require.ErrorIs(t, err, tt.wantError)
		})
	}
}

func TestDefaults(t *testing.T) {
	defaults := promos.Defaults()
	require.Len(t, defaults, 3)

	ids := make([]string, 0, len(defaults))
	for _, d := range defaults {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{"SENIOR_CITIZEN", "PWD", "PROMO_10_OFF"}, ids)

	// The 10%-off promo keeps its 500 minimum spend.
	assert.Equal(t, "500", defaults[2].MinSpend.String())
}
