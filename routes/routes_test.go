package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"sneakershop/config"
	"sneakershop/controllers"
	"sneakershop/models"
	"sneakershop/repositories"
	"sneakershop/services"
	"sneakershop/utils"
)

type testServer struct {
	app        *fiber.App
	auth       *services.AuthService
	adminToken string
	userToken  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := config.Config{
		Env:            "test",
		AllowOrigins:   "*",
		MaxUploadMB:    1,
		RequestTimeout: 5 * time.Second,
		UploadDir:      t.TempDir(),
	}

	auth := services.NewAuthService(repositories.NewInMemoryUserStore(), utils.NewJWT("test-secret", time.Hour))
	catalog := services.NewCatalogService(repositories.NewInMemoryProductStore(), services.NewDiskImageStore(cfg.UploadDir, "/uploads"))
	app := NewApp(cfg, Deps{Auth: auth, Catalog: catalog, UploadDir: cfg.UploadDir})

	ctx := context.Background()
	if _, err := auth.SeedAdmin(ctx, "admin@example.com", "admin123"); err != nil {
		t.Fatal(err)
	}
	if _, err := auth.Register(ctx, models.UserInput{Email: "user@example.com", Password: "secret1"}); err != nil {
		t.Fatal(err)
	}
	adminLogin, err := auth.Login(ctx, "admin@example.com", "admin123")
	if err != nil {
		t.Fatal(err)
	}
	userLogin, err := auth.Login(ctx, "user@example.com", "secret1")
	if err != nil {
		t.Fatal(err)
	}

	return &testServer{app: app, auth: auth, adminToken: adminLogin.Token, userToken: userLogin.Token}
}

func (s *testServer) do(t *testing.T, req *http.Request, out any) int {
	t.Helper()
	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			t.Fatalf("decode %s: %v", body, err)
		}
	}
	return resp.StatusCode
}

func jsonRequest(method, target, token string, body any) *http.Request {
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func (s *testServer) createProduct(t *testing.T, name string, price float64) models.Product {
	t.Helper()
	var p models.Product
	status := s.do(t, jsonRequest(http.MethodPost, "/api/products", s.adminToken, map[string]any{
		"name": name, "brand": "Nike", "price": price, "count_in_stock": 5,
	}), &p)
	if status != http.StatusCreated {
		t.Fatalf("create %s: status %d", name, status)
	}
	return p
}

type errorBody struct {
	Error   string `json:"error"`
	Details []struct {
		Field string `json:"field"`
	} `json:"details"`
}

func TestLiveness(t *testing.T) {
	s := newTestServer(t)
	resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "API is running..." {
		t.Errorf("unexpected liveness response %d %q", resp.StatusCode, body)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)

	var created struct {
		Message string      `json:"message"`
		User    models.User `json:"user"`
	}
	status := s.do(t, jsonRequest(http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "new@example.com", "password": "secret1",
	}), &created)
	if status != http.StatusCreated || created.User.Email != "new@example.com" {
		t.Fatalf("register: %d %+v", status, created)
	}

	var login models.LoginResp
	status = s.do(t, jsonRequest(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "new@example.com", "password": "secret1",
	}), &login)
	if status != http.StatusOK || login.Token == "" {
		t.Fatalf("login: %d %+v", status, login)
	}
	id, err := s.auth.Verify(login.Token)
	if err != nil || id.UserID != created.User.ID {
		t.Errorf("token identity %+v err %v, want %s", id, err, created.User.ID)
	}
}

func TestAuthErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		path   string
		body   map[string]string
		status int
	}{
		{"duplicate email", "/api/auth/register", map[string]string{"email": "user@example.com", "password": "secret1"}, http.StatusConflict},
		{"bad email", "/api/auth/register", map[string]string{"email": "nope", "password": "secret1"}, http.StatusBadRequest},
		{"short password", "/api/auth/register", map[string]string{"email": "x@example.com", "password": "123"}, http.StatusBadRequest},
		{"wrong password", "/api/auth/login", map[string]string{"email": "user@example.com", "password": "wrong"}, http.StatusUnauthorized},
		{"unknown email", "/api/auth/login", map[string]string{"email": "ghost@example.com", "password": "secret1"}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body errorBody
			if status := s.do(t, jsonRequest(http.MethodPost, tt.path, "", tt.body), &body); status != tt.status {
				t.Errorf("Expected %d, got %d (%s)", tt.status, status, body.Error)
			}
			if body.Error == "" {
				t.Error("error message missing")
			}
		})
	}
}

func TestProductMutationsNeedAdmin(t *testing.T) {
	s := newTestServer(t)
	p := s.createProduct(t, "Air Max", 120)
	payload := map[string]any{"name": "Hacked", "brand": "X", "price": 1}

	tests := []struct {
		name   string
		req    *http.Request
		status int
	}{
		{"create without token", jsonRequest(http.MethodPost, "/api/products", "", payload), http.StatusUnauthorized},
		{"create with garbage token", jsonRequest(http.MethodPost, "/api/products", "garbage", payload), http.StatusUnauthorized},
		{"create as customer", jsonRequest(http.MethodPost, "/api/products", s.userToken, payload), http.StatusForbidden},
		{"update as customer", jsonRequest(http.MethodPut, "/api/products/"+p.ID, s.userToken, payload), http.StatusForbidden},
		{"delete as customer", jsonRequest(http.MethodDelete, "/api/products/"+p.ID, s.userToken, nil), http.StatusForbidden},
		{"delete without token", jsonRequest(http.MethodDelete, "/api/products/"+p.ID, "", nil), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if status := s.do(t, tt.req, nil); status != tt.status {
				t.Errorf("Expected %d, got %d", tt.status, status)
			}
		})
	}

	var got models.Product
	s.do(t, jsonRequest(http.MethodGet, "/api/products/"+p.ID, "", nil), &got)
	if got.Name != "Air Max" || got.Price != 120 {
		t.Errorf("product was mutated: %+v", got)
	}
}

func TestXAuthTokenHeader(t *testing.T) {
	s := newTestServer(t)
	req := jsonRequest(http.MethodPost, "/api/products", "", map[string]any{"name": "Dunk", "brand": "Nike", "price": 100})
	req.Header.Set("x-auth-token", s.adminToken)
	if status := s.do(t, req, nil); status != http.StatusCreated {
		t.Errorf("Expected 201, got %d", status)
	}
}

func TestCreateJSONCamelCase(t *testing.T) {
	s := newTestServer(t)

	var p models.Product
	status := s.do(t, jsonRequest(http.MethodPost, "/api/products", s.adminToken, map[string]any{
		"name": "Air Max", "brand": "Nike", "price": 120, "countInStock": 5, "numReviews": 4,
	}), &p)
	if status != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", status)
	}
	if p.CountInStock != 5 || p.NumReviews != 4 {
		t.Errorf("camelCase fields dropped: stock=%d reviews=%d", p.CountInStock, p.NumReviews)
	}

	var updated models.Product
	s.do(t, jsonRequest(http.MethodPatch, "/api/products/"+p.ID, s.adminToken, map[string]any{"countInStock": 2}), &updated)
	if updated.CountInStock != 2 || updated.NumReviews != 4 {
		t.Errorf("camelCase update not applied: %+v", updated)
	}
}

func TestCreateJSONBlankText(t *testing.T) {
	s := newTestServer(t)

	for _, body := range []map[string]any{
		{"name": "   ", "brand": "Nike", "price": 120},
		{"name": "Air Max", "brand": " ", "price": 120},
	} {
		var e errorBody
		if status := s.do(t, jsonRequest(http.MethodPost, "/api/products", s.adminToken, body), &e); status != http.StatusBadRequest {
			t.Errorf("%v: expected 400, got %d", body, status)
		}
	}
}

func TestProductCRUD(t *testing.T) {
	s := newTestServer(t)
	p := s.createProduct(t, "Air Max", 120)

	var updated models.Product
	status := s.do(t, jsonRequest(http.MethodPatch, "/api/products/"+p.ID, s.adminToken, map[string]any{"price": 99.5}), &updated)
	if status != http.StatusOK || updated.Price != 99.5 || updated.Name != "Air Max" {
		t.Fatalf("patch: %d %+v", status, updated)
	}

	var invalid errorBody
	status = s.do(t, jsonRequest(http.MethodPut, "/api/products/"+p.ID, s.adminToken, map[string]any{"price": -1}), &invalid)
	if status != http.StatusBadRequest || len(invalid.Details) == 0 || invalid.Details[0].Field != "price" {
		t.Errorf("invalid update: %d %+v", status, invalid)
	}

	if status := s.do(t, jsonRequest(http.MethodDelete, "/api/products/"+p.ID, s.adminToken, nil), nil); status != http.StatusOK {
		t.Fatalf("delete: %d", status)
	}
	if status := s.do(t, jsonRequest(http.MethodGet, "/api/products/"+p.ID, "", nil), nil); status != http.StatusNotFound {
		t.Errorf("get after delete: %d", status)
	}
	if status := s.do(t, jsonRequest(http.MethodDelete, "/api/products/"+p.ID, s.adminToken, nil), nil); status != http.StatusNotFound {
		t.Errorf("second delete: %d", status)
	}
}

func TestCreateMultipart(t *testing.T) {
	s := newTestServer(t)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	w.WriteField("name", "Jordan 1")
	w.WriteField("brand", "Nike")
	w.WriteField("price", "180")
	w.WriteField("sizes", "9, 10")
	w.WriteField("sizes", "11")
	w.WriteField("colors", "Red,Black")
	w.WriteField("countInStock", "7")
	part, _ := w.CreateFormFile("image", "jordan.png")
	part.Write([]byte("fake-png"))
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/products", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.adminToken)

	var p models.Product
	if status := s.do(t, req, &p); status != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", status)
	}
	if strings.Join(p.Sizes, "|") != "9|10|11" || strings.Join(p.Colors, "|") != "Red|Black" || p.CountInStock != 7 {
		t.Errorf("form fields not parsed: %+v", p)
	}
	if p.Image == nil || !strings.HasPrefix(*p.Image, "/uploads/") {
		t.Fatalf("image path missing: %v", p.Image)
	}

	resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, *p.Image, nil))
	if err != nil {
		t.Fatal(err)
	}
	served, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(served) != "fake-png" {
		t.Errorf("uploaded file not served: %d %q", resp.StatusCode, served)
	}
}

func TestCreateMultipartBadNumber(t *testing.T) {
	tests := []struct {
		field string
		value string
	}{
		{"price", "cheap"},
		{"price", "Inf"},
		{"price", "+Infinity"},
		{"price", "NaN"},
		{"rating", "-Inf"},
		{"countInStock", "5.5"},
	}

	for _, tt := range tests {
		t.Run(tt.field+"="+tt.value, func(t *testing.T) {
			s := newTestServer(t)

			var body bytes.Buffer
			w := multipart.NewWriter(&body)
			w.WriteField("name", "Jordan 1")
			w.WriteField("brand", "Nike")
			if tt.field != "price" {
				w.WriteField("price", "180")
			}
			w.WriteField(tt.field, tt.value)
			w.Close()

			req := httptest.NewRequest(http.MethodPost, "/api/products", &body)
			req.Header.Set("Content-Type", w.FormDataContentType())
			req.Header.Set("Authorization", "Bearer "+s.adminToken)

			var e errorBody
			if status := s.do(t, req, &e); status != http.StatusBadRequest {
				t.Fatalf("Expected 400, got %d", status)
			}
			if len(e.Details) != 1 || e.Details[0].Field != tt.field {
				t.Errorf("unexpected details %+v", e.Details)
			}

			var list models.ProductsListResp
			if status := s.do(t, jsonRequest(http.MethodGet, "/api/products", "", nil), &list); status != http.StatusOK || list.Total != 0 {
				t.Errorf("list after rejected create: %d total=%d", status, list.Total)
			}
		})
	}
}

func TestListRejectsNonFinitePrices(t *testing.T) {
	s := newTestServer(t)
	s.createProduct(t, "Air Max", 120)

	for _, target := range []string{"/api/products?minPrice=NaN", "/api/products?maxPrice=Inf", "/api/products?minPrice=-Infinity"} {
		var e errorBody
		if status := s.do(t, jsonRequest(http.MethodGet, target, "", nil), &e); status != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, status)
		}
	}
}

func TestUpload(t *testing.T) {
	s := newTestServer(t)

	upload := func(token, filename string) (int, map[string]string) {
		var body bytes.Buffer
		w := multipart.NewWriter(&body)
		part, _ := w.CreateFormFile("image", filename)
		part.Write([]byte("data"))
		w.Close()
		req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
		req.Header.Set("Content-Type", w.FormDataContentType())
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		out := map[string]string{}
		return s.do(t, req, &out), out
	}

	status, out := upload(s.adminToken, "shoe.jpg")
	if status != http.StatusCreated || !strings.HasSuffix(out["path"], "_shoe.jpg") {
		t.Errorf("upload: %d %v", status, out)
	}
	if status, _ := upload(s.adminToken, "notes.txt"); status != http.StatusBadRequest {
		t.Errorf("non-image: expected 400, got %d", status)
	}
	if status, _ := upload(s.userToken, "shoe.jpg"); status != http.StatusForbidden {
		t.Errorf("customer: expected 403, got %d", status)
	}
	if status, _ := upload("", "shoe.jpg"); status != http.StatusUnauthorized {
		t.Errorf("anonymous: expected 401, got %d", status)
	}
}

func TestListProducts(t *testing.T) {
	s := newTestServer(t)
	for i, price := range []float64{30, 50, 75, 100, 125, 150, 200} {
		s.createProduct(t, "Sneaker "+string(rune('A'+i)), price)
	}

	var resp models.ProductsListResp
	status := s.do(t, jsonRequest(http.MethodGet, "/api/products?minPrice=50&maxPrice=150&sortBy=price&sortOrder=desc&page=1&limit=2", "", nil), &resp)
	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	if resp.Total != 5 || resp.Page != 1 || resp.Limit != 2 {
		t.Errorf("unexpected envelope %+v", resp)
	}
	if len(resp.Items) != 2 || resp.Items[0].Price != 150 || resp.Items[1].Price != 125 {
		t.Errorf("Expected [150 125], got %+v", resp.Items)
	}

	var e errorBody
	status = s.do(t, jsonRequest(http.MethodGet, "/api/products?color=red", "", nil), &e)
	if status != http.StatusBadRequest || len(e.Details) != 1 || e.Details[0].Field != "color" {
		t.Errorf("unknown key: %d %+v", status, e)
	}
}

func TestInternalErrorHidesCause(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: controllers.ErrorHandler(false)})
	app.Get("/boom", func(c *fiber.Ctx) error { return io.ErrUnexpectedEOF })

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	var body map[string]any
	json.NewDecoder(resp.Body).Decode(&body)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", resp.StatusCode)
	}
	if _, ok := body["cause"]; ok {
		t.Error("cause must not leak outside development")
	}

	app = fiber.New(fiber.Config{ErrorHandler: controllers.ErrorHandler(true)})
	app.Get("/boom", func(c *fiber.Ctx) error { return io.ErrUnexpectedEOF })
	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	body = nil
	json.NewDecoder(resp.Body).Decode(&body)
	if body["cause"] != io.ErrUnexpectedEOF.Error() {
		t.Errorf("Expected cause in development, got %v", body)
	}
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)
	var e errorBody
	if status := s.do(t, jsonRequest(http.MethodGet, "/api/nothing", "", nil), &e); status != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", status)
	}
}
