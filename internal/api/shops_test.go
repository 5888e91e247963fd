package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	pkgerrors "github.com/localmart/localmart-client/pkg/errors"
)

func TestListShops(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/shops", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, true, []Shop{
			{ID: "s1", Name: "Corner Grocer", IsOpen: true},
			{ID: "s2", Name: "Night Pharmacy"},
		}, "")
	})

	client := newTestClient(t, router)
	shops, err := client.ListShops(context.Background())
	if err != nil {
		t.Fatalf("list shops: %v", err)
	}
	if len(shops) != 2 || shops[0].ID != "s1" || !shops[0].IsOpen {
		t.Fatalf("unexpected shops %+v", shops)
	}
}

func TestGetShopDecodesLocation(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/shops/{shopID}", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, true, map[string]any{
			"_id":      chi.URLParam(r, "shopID"),
			"name":     "Corner Grocer",
			"location": map[string]any{"lat": 14.55, "lng": 121.02},
		}, "")
	})

	client := newTestClient(t, router)
	shop, err := client.GetShop(context.Background(), "s1")
	if err != nil {
		t.Fatalf("get shop: %v", err)
	}
	if shop.ID != "s1" || shop.Location == nil || shop.Location.Latitude != 14.55 {
		t.Fatalf("unexpected shop %+v", shop)
	}
}

func TestGetShopRequiresID(t *testing.T) {
	client := newTestClient(t, chi.NewRouter())

	_, err := client.GetShop(context.Background(), "")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for empty id, got %v", err)
	}
}

func TestGetShopRejectsPayloadWithoutID(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/shops/{shopID}", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, true, map[string]any{"name": "Nameless"}, "")
	})

	client := newTestClient(t, router)
	_, err := client.GetShop(context.Background(), "s1")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDecode {
		t.Fatalf("expected decode error for id-less payload, got %v", err)
	}
}

func TestNearbyShopsQueryEncoding(t *testing.T) {
	var query map[string][]string

	router := chi.NewRouter()
	router.Get("/shops/nearby", func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		writeEnvelope(w, http.StatusOK, true, []Shop{{ID: "s1", Name: "Corner Grocer"}}, "")
	})

	client := newTestClient(t, router)
	shops, err := client.NearbyShops(context.Background(), 14.55, 121.02)
	if err != nil {
		t.Fatalf("nearby shops: %v", err)
	}
	if len(shops) != 1 || shops[0].ID != "s1" {
		t.Fatalf("unexpected shops %+v", shops)
	}
	for key, want := range map[string]string{"lat": "14.55", "lng": "121.02"} {
		if len(query[key]) != 1 || query[key][0] != want {
			t.Fatalf("expected query %s=%s, got %v", key, want, query[key])
		}
	}
}
