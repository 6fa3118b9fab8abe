package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/shopcore/shop-backend/internal/auth"
	"github.com/shopcore/shop-backend/internal/category"
	"github.com/shopcore/shop-backend/internal/httpx"
	ord "github.com/shopcore/shop-backend/internal/order"
	prod "github.com/shopcore/shop-backend/internal/product"
)

//
// ---------- STUBS & FAKES ----------
//

// stubProductRepo implements prod.Repository in memory, with the same guarded
// semantics for DecrementStock as the Postgres repo.
type stubProductRepo struct {
	items map[string]*prod.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{items: make(map[string]*prod.Product)}
}

func (s *stubProductRepo) Create(_ context.Context, p *prod.Product) error {
	cp := *p
	cp.CreatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	s.items[p.ID] = &cp
	return nil
}

func (s *stubProductRepo) GetByID(_ context.Context, id string) (*prod.Product, error) {
	p, ok := s.items[id]
	if !ok {
		return nil, prod.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *stubProductRepo) List(_ context.Context, q prod.Query) ([]prod.Product, error) {
	out := make([]prod.Product, 0, len(s.items))
	for _, v := range s.items {
		if q.Category != "" && v.Category != q.Category {
			continue
		}
		out = append(out, *v)
	}
	return out, nil
}

func (s *stubProductRepo) Update(_ context.Context, p *prod.Product, updatePrice bool) error {
	cur, ok := s.items[p.ID]
	if !ok {
		return prod.ErrNotFound
	}
	if p.Name != "" {
		cur.Name = p.Name
	}
	if updatePrice {
		cur.Price = p.Price
	}
	cur.Stock = p.Stock
	return nil
}

func (s *stubProductRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := s.items[id]; !ok {
		return false, nil
	}
	delete(s.items, id)
	return true, nil
}

func (s *stubProductRepo) DecrementStock(_ context.Context, id string, qty int) (*prod.Snapshot, error) {
	p, ok := s.items[id]
	if !ok {
		return nil, prod.ErrNotFound
	}
	if p.Stock < qty {
		return nil, prod.ErrInsufficientStock
	}
	p.Stock -= qty
	return &prod.Snapshot{Name: p.Name, Price: p.Price}, nil
}

func (s *stubProductRepo) IncrementStock(_ context.Context, id string, qty int) error {
	p, ok := s.items[id]
	if !ok {
		return prod.ErrNotFound
	}
	p.Stock += qty
	return nil
}

// stubOrderRepo implements ord.Repository in memory.
type stubOrderRepo struct {
	lastOrder *ord.Order
	lastItems []ord.Item
}

func (s *stubOrderRepo) Create(_ context.Context, o *ord.Order, items []ord.Item) error {
	cp := *o
	s.lastOrder = &cp
	s.lastItems = append([]ord.Item(nil), items...)
	return nil
}

func (s *stubOrderRepo) GetByID(_ context.Context, id string) (*ord.Order, []ord.Item, error) {
	if s.lastOrder == nil || s.lastOrder.ID != id {
		return nil, nil, ord.ErrNotFound
	}
	cp := *s.lastOrder
	return &cp, s.lastItems, nil
}

func (s *stubOrderRepo) List(context.Context, int, int) ([]ord.Order, error) {
	if s.lastOrder == nil {
		return []ord.Order{}, nil
	}
	return []ord.Order{*s.lastOrder}, nil
}

func (s *stubOrderRepo) UpdateStatus(_ context.Context, id, status string) error {
	if s.lastOrder == nil || s.lastOrder.ID != id {
		return ord.ErrNotFound
	}
	s.lastOrder.Status = status
	return nil
}

func (s *stubOrderRepo) Delete(_ context.Context, id string) (bool, error) {
	if s.lastOrder == nil || s.lastOrder.ID != id {
		return false, nil
	}
	s.lastOrder = nil
	return true, nil
}

type stubAdminRepo struct{ admin *auth.Admin }

func (s *stubAdminRepo) GetByUsername(_ context.Context, username string) (*auth.Admin, error) {
	if s.admin == nil || s.admin.Username != username {
		return nil, auth.ErrNotFound
	}
	return s.admin, nil
}

type stubCategoryRepo struct {
	cats  map[string]*category.Category
	inUse bool
}

func (s *stubCategoryRepo) Create(_ context.Context, c *category.Category) error {
	s.cats[c.ID] = c
	return nil
}

func (s *stubCategoryRepo) GetByID(_ context.Context, id string) (*category.Category, error) {
	c, ok := s.cats[id]
	if !ok {
		return nil, category.ErrNotFound
	}
	return c, nil
}

func (s *stubCategoryRepo) List(context.Context) ([]category.Category, error) { return nil, nil }

func (s *stubCategoryRepo) Update(_ context.Context, c *category.Category) error {
	if _, ok := s.cats[c.ID]; !ok {
		return category.ErrNotFound
	}
	return nil
}

func (s *stubCategoryRepo) Delete(_ context.Context, id string) error {
	if _, ok := s.cats[id]; !ok {
		return category.ErrNotFound
	}
	if s.inUse {
		return category.ErrInUse
	}
	delete(s.cats, id)
	return nil
}

func orderBody(t *testing.T, items ...map[string]any) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"customerName":  "Jane Roe",
		"customerEmail": "jane@example.com",
		"address":       "Calle Mayor 1",
		"items":         items,
	})
	if err != nil {
		t.Fatal(err)
	}
	return body
}

func postJSON(r *gin.Engine, path string, body []byte) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

//
// ---------- TESTS ----------
//

func TestCreateOrder_HappyPath(t *testing.T) {
	t.Parallel()

	products := newStubProductRepo()
	pid := uuid.NewString()
	products.items[pid] = &prod.Product{ID: pid, Name: "Keyboard", Price: "15.00", Stock: 5}
	repo := &stubOrderRepo{}
	svc := ord.NewService(repo, products)

	r := gin.New()
	r.POST("/api/orders", createOrderHandler(svc))

	w := postJSON(r, "/api/orders", orderBody(t, map[string]any{"id": pid, "quantity": 2}))

	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var got ord.Order
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.Total != "30.00" || got.Status != "pending" || len(got.Items) != 1 {
		t.Fatalf("unexpected order: %+v", got)
	}
	if products.items[pid].Stock != 3 {
		t.Fatalf("stock=%d, expected 3", products.items[pid].Stock)
	}
	if repo.lastOrder == nil || len(repo.lastItems) != 1 {
		t.Fatal("order/items were not persisted")
	}
}

func TestCreateOrder_InsufficientStock_Compensates(t *testing.T) {
	t.Parallel()

	products := newStubProductRepo()
	a, b := uuid.NewString(), uuid.NewString()
	products.items[a] = &prod.Product{ID: a, Name: "A", Price: "10.00", Stock: 1}
	products.items[b] = &prod.Product{ID: b, Name: "B", Price: "10.00", Stock: 0}
	repo := &stubOrderRepo{}
	svc := ord.NewService(repo, products)

	r := gin.New()
	r.POST("/api/orders", createOrderHandler(svc))

	w := postJSON(r, "/api/orders", orderBody(t,
		map[string]any{"id": a, "quantity": 1},
		map[string]any{"id": b, "quantity": 1},
	))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s (expected 400)", w.Code, w.Body.String())
	}
	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !bytes.Contains([]byte(resp.Error), []byte(b)) {
		t.Fatalf("error %q should name product %s", resp.Error, b)
	}
	if products.items[a].Stock != 1 {
		t.Fatalf("A.stock=%d, expected 1 (compensated)", products.items[a].Stock)
	}
	if repo.lastOrder != nil {
		t.Fatal("no order may be persisted on failure")
	}
}

func TestCreateOrder_MalformedReference(t *testing.T) {
	t.Parallel()

	products := newStubProductRepo()
	pid := uuid.NewString()
	products.items[pid] = &prod.Product{ID: pid, Name: "A", Price: "10.00", Stock: 5}
	svc := ord.NewService(&stubOrderRepo{}, products)

	r := gin.New()
	r.POST("/api/orders", createOrderHandler(svc))

	w := postJSON(r, "/api/orders", orderBody(t, map[string]any{"id": "zzz", "quantity": 1}))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s (expected 400)", w.Code, w.Body.String())
	}
	if products.items[pid].Stock != 5 {
		t.Fatalf("stock=%d, no mutation expected", products.items[pid].Stock)
	}
}

func TestCreateOrder_TooManyItems(t *testing.T) {
	t.Parallel()

	svc := ord.NewService(&stubOrderRepo{}, newStubProductRepo())
	r := gin.New()
	r.POST("/api/orders", createOrderHandler(svc))

	items := make([]map[string]any, ord.MaxLineItems+1)
	for i := range items {
		items[i] = map[string]any{"id": uuid.NewString(), "quantity": 1}
	}
	w := postJSON(r, "/api/orders", orderBody(t, items...))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s (expected 400)", w.Code, w.Body.String())
	}
}

func TestCreateOrder_IgnoresClientPrice(t *testing.T) {
	t.Parallel()

	products := newStubProductRepo()
	pid := uuid.NewString()
	products.items[pid] = &prod.Product{ID: pid, Name: "A", Price: "99.00", Stock: 5}
	repo := &stubOrderRepo{}
	svc := ord.NewService(repo, products)

	r := gin.New()
	r.POST("/api/orders", createOrderHandler(svc))

	// client tries to dictate a price; the field has no home in the DTO
	w := postJSON(r, "/api/orders", orderBody(t, map[string]any{"id": pid, "quantity": 1, "price": "0.01"}))

	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if repo.lastItems[0].Price != "99.00" {
		t.Fatalf("price=%s, expected the store's 99.00", repo.lastItems[0].Price)
	}
}

func TestUpdateOrderStatus_DeliveredToPendingRejected(t *testing.T) {
	t.Parallel()

	oid := uuid.NewString()
	repo := &stubOrderRepo{lastOrder: &ord.Order{ID: oid, Status: "delivered", Total: "20.00"}}
	svc := ord.NewService(repo, newStubProductRepo())

	r := gin.New()
	r.PUT("/api/orders/:id/status", updateOrderStatusHandler(svc))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/orders/"+oid+"/status", bytes.NewBufferString(`{"status":"pending"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s (expected 400)", w.Code, w.Body.String())
	}
	if repo.lastOrder.Status != "delivered" {
		t.Fatalf("status=%s, must stay delivered", repo.lastOrder.Status)
	}
}

func TestUpdateOrderStatus_OK(t *testing.T) {
	t.Parallel()

	oid := uuid.NewString()
	repo := &stubOrderRepo{lastOrder: &ord.Order{ID: oid, Status: "pending", Total: "20.00"}}
	svc := ord.NewService(repo, newStubProductRepo())

	r := gin.New()
	r.PUT("/api/orders/:id/status", updateOrderStatusHandler(svc))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/orders/"+oid+"/status", bytes.NewBufferString(`{"status":"confirmed"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s (expected 200)", w.Code, w.Body.String())
	}
	if repo.lastOrder.Status != "confirmed" {
		t.Fatalf("status=%s, expected confirmed", repo.lastOrder.Status)
	}
}

func TestUpdateOrderStatus_InvalidStatus(t *testing.T) {
	t.Parallel()

	oid := uuid.NewString()
	repo := &stubOrderRepo{lastOrder: &ord.Order{ID: oid, Status: "pending"}}
	svc := ord.NewService(repo, newStubProductRepo())

	r := gin.New()
	r.PUT("/api/orders/:id/status", updateOrderStatusHandler(svc))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/orders/"+oid+"/status", bytes.NewBufferString(`{"status":"shipped"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s (expected 400)", w.Code, w.Body.String())
	}
}

func TestDeleteOrder_RequiresSuperadmin(t *testing.T) {
	t.Parallel()

	const secret = "test-secret"
	oid := uuid.NewString()
	repo := &stubOrderRepo{lastOrder: &ord.Order{ID: oid, Status: "pending"}}

	r := gin.New()
	r.DELETE("/api/orders/:id",
		httpx.Auth(secret),
		httpx.RequireRole(auth.RoleSuperadmin),
		deleteOrderHandler(repo),
	)

	do := func(token string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/orders/"+oid, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		r.ServeHTTP(w, req)
		return w
	}

	if w := do(""); w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status=%d (expected 401)", w.Code)
	}

	adminTok, err := auth.IssueToken(secret, uuid.NewString(), auth.RoleAdmin, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if w := do(adminTok); w.Code != http.StatusForbidden {
		t.Fatalf("admin token: status=%d (expected 403)", w.Code)
	}

	superTok, err := auth.IssueToken(secret, uuid.NewString(), auth.RoleSuperadmin, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if w := do(superTok); w.Code != http.StatusNoContent {
		t.Fatalf("superadmin token: status=%d (expected 204)", w.Code)
	}
	if repo.lastOrder != nil {
		t.Fatal("order was not deleted")
	}
}

func TestAdminLogin(t *testing.T) {
	t.Parallel()

	hash, err := auth.HashPassword("hunter22!")
	if err != nil {
		t.Fatal(err)
	}
	repo := &stubAdminRepo{admin: &auth.Admin{
		ID: uuid.NewString(), Username: "root", PasswordHash: hash, Role: auth.RoleSuperadmin,
	}}

	r := gin.New()
	r.POST("/api/admin/login", adminLoginHandler(repo, "test-secret", time.Minute))

	w := postJSON(r, "/api/admin/login", []byte(`{"username":"root","password":"wrong"}`))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: status=%d (expected 401)", w.Code)
	}

	w = postJSON(r, "/api/admin/login", []byte(`{"username":"root","password":"hunter22!"}`))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	claims, err := auth.VerifyToken("test-secret", resp.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.Role != auth.RoleSuperadmin {
		t.Fatalf("role=%q, expected superadmin", claims.Role)
	}
}

func TestDeleteCategory_InUse(t *testing.T) {
	t.Parallel()

	cid := uuid.NewString()
	repo := &stubCategoryRepo{
		cats:  map[string]*category.Category{cid: {ID: cid, Name: "peripherals"}},
		inUse: true,
	}

	r := gin.New()
	r.DELETE("/api/categories/:id", deleteCategoryHandler(repo))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/categories/"+cid, nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("status=%d body=%s (expected 409)", w.Code, w.Body.String())
	}
}

func TestGetOrder_NotFound(t *testing.T) {
	t.Parallel()

	r := gin.New()
	r.GET("/api/orders/:id", getOrderHandler(&stubOrderRepo{}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/orders/"+uuid.NewString(), nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d body=%s (expected 404)", w.Code, w.Body.String())
	}
}

func init() {
	gin.SetMode(gin.TestMode)
	gin.DefaultWriter = io.Discard
	log.SetOutput(io.Discard)
}
