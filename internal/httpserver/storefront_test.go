package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"toystore/internal/domain"
	cartrepo "toystore/internal/repository/cart"
	catalogrepo "toystore/internal/repository/catalog"
	"toystore/internal/repository/kv"
	userrepo "toystore/internal/repository/user"
	cartsvc "toystore/internal/service/cart"
	catalogsvc "toystore/internal/service/catalog"
	identitysvc "toystore/internal/service/identity"
	sessionsvc "toystore/internal/service/session"
)

type fakeRemote struct {
	toys []domain.Toy
}

func (f *fakeRemote) ListToys(_ context.Context) ([]domain.Toy, error) {
	out := make([]domain.Toy, len(f.toys))
	copy(out, f.toys)
	return out, nil
}

func (f *fakeRemote) GetByPermalink(_ context.Context, permalink string) (*domain.Toy, error) {
	for _, t := range f.toys {
		if t.Permalink == permalink {
			toy := t
			return &toy, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRemote) ListTypes(_ context.Context) ([]domain.ToyType, error) {
	return []domain.ToyType{{TypeID: 1, Name: "Slagalice"}}, nil
}

func newStorefront(t *testing.T) *gin.Engine {
	t.Helper()
	persistent := kv.NewMemory()
	sessionStore := kv.NewMemory()
	remote := &fakeRemote{toys: []domain.Toy{
		{ToyID: 1, Name: "Kocke", Permalink: "kocke", Price: 10, ImageURL: "img/kocke.png", Type: domain.ToyType{TypeID: 1, Name: "Slagalice"}},
		{ToyID: 2, Name: "Lutka", Permalink: "lutka", Price: 50, Type: domain.ToyType{TypeID: 2, Name: "Lutke"}},
	}}

	catalog := catalogsvc.New(catalogrepo.NewDocument(sessionStore, nil), remote, "https://img.example.com/", nil)
	identity := identitysvc.New(userrepo.NewDocument(persistent, nil), nil)
	cart := cartsvc.New(cartrepo.NewDocument(persistent, nil), catalog, nil)

	return newStubRouter(t, Deps{
		SessionSvc:  sessionsvc.New(),
		CatalogSvc:  catalog,
		IdentitySvc: identity,
		CartSvc:     cart,
	})
}

func decode(t *testing.T, body []byte, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(body, dst); err != nil {
		t.Fatalf("decode %s: %v", body, err)
	}
}

func TestStorefrontFlow(t *testing.T) {
	router := newStorefront(t)

	rec := serve(router, http.MethodGet, "/toys?cena_od=20", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list toys: %d %s", rec.Code, rec.Body.String())
	}
	sid := rec.Header().Get(sessionHeader)
	if sid == "" {
		t.Fatalf("expected a session id")
	}
	h := map[string]string{sessionHeader: sid}
	var list toyListResponse
	decode(t, rec.Body.Bytes(), &list)
	if list.Total != 1 || list.Results[0].ToyID != 2 {
		t.Fatalf("unexpected search result %+v", list)
	}

	rec = serve(router, http.MethodGet, "/types", "", h)
	var types []catalogsvc.TypeView
	decode(t, rec.Body.Bytes(), &types)
	if len(types) != 1 || types[0].ImageURL != "https://img.example.com/img/kocke.png" {
		t.Fatalf("unexpected types %+v", types)
	}

	rec = serve(router, http.MethodPost, "/toys/kocke/cart", "", h)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected anonymous add rejected, got %d", rec.Code)
	}

	register := `{"firstName":"Ana","lastName":"P","email":"ana@example.com","phone":"060","address":"Ulica 1",
		"favoriteToyTypes":[1],"username":"ana","password":"secret1","confirmPassword":"secret1"}`
	rec = serve(router, http.MethodPost, "/users", register, h)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: %d %s", rec.Code, rec.Body.String())
	}
	rec = serve(router, http.MethodPost, "/users", register, h)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected duplicate registration rejected, got %d", rec.Code)
	}

	rec = serve(router, http.MethodPost, "/login", `{"email":"ana@example.com","password":"wrong"}`, h)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected bad login rejected, got %d", rec.Code)
	}
	rec = serve(router, http.MethodPost, "/login", `{"email":"ana@example.com","password":"secret1"}`, h)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: %d %s", rec.Code, rec.Body.String())
	}

	for i := 0; i < 2; i++ {
		rec = serve(router, http.MethodPost, "/toys/kocke/cart", "", h)
		if rec.Code != http.StatusCreated {
			t.Fatalf("add to cart: %d %s", rec.Code, rec.Body.String())
		}
	}
	var detail toyDetailResponse
	decode(t, serve(router, http.MethodGet, "/toys/kocke", "", h).Body.Bytes(), &detail)
	if !detail.InCart {
		t.Fatalf("expected toy in cart")
	}

	rec = serve(router, http.MethodGet, "/cart", "", h)
	var sum struct {
		Items      []domain.CartItem `json:"items"`
		TotalPrice string            `json:"totalPrice"`
	}
	decode(t, rec.Body.Bytes(), &sum)
	if len(sum.Items) != 1 || sum.Items[0].Quantity != 2 || sum.TotalPrice != "20" {
		t.Fatalf("unexpected cart %s", rec.Body.String())
	}

	rec = serve(router, http.MethodPut, "/cart/items/1/review", `{"rating":5}`, h)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected review of reserved item rejected, got %d", rec.Code)
	}
	rec = serve(router, http.MethodPut, "/cart/items/1/status", `{"status":"delivered"}`, h)
	if rec.Code != http.StatusOK {
		t.Fatalf("set status: %d %s", rec.Code, rec.Body.String())
	}
	rec = serve(router, http.MethodPut, "/cart/items/1/review", `{"rating":4,"respondentType":"parent","comment":"ok"}`, h)
	if rec.Code != http.StatusOK {
		t.Fatalf("review: %d %s", rec.Code, rec.Body.String())
	}

	decode(t, serve(router, http.MethodGet, "/toys/kocke", "", h).Body.Bytes(), &detail)
	if detail.AverageRating != 4 || len(detail.Toy.Ratings) != 1 || detail.Toy.Ratings[0].UserID != 1 {
		t.Fatalf("expected rating on cached toy, got %+v", detail)
	}

	rec = serve(router, http.MethodDelete, "/cart/items/1", "", h)
	if rec.Code != http.StatusOK {
		t.Fatalf("remove: %d", rec.Code)
	}

	rec = serve(router, http.MethodPost, "/logout", "", h)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("logout: %d", rec.Code)
	}
	if rec = serve(router, http.MethodGet, "/cart", "", h); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected cart closed after logout, got %d", rec.Code)
	}
}
