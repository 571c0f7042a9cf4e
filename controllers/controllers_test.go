package controllers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/auth"
	"storefront/broker"
	"storefront/controllers"
	"storefront/database"
	"storefront/lock"
	"storefront/models"
	"storefront/routes"
	"storefront/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type server struct {
	router   *gin.Engine
	tokens   *auth.TokenService
	accounts *services.AccountService
	products *services.ProductService
}

func newServer(t *testing.T) *server {
	t.Helper()
	store := database.NewMemoryStore()
	locker := lock.NewLocal()
	timeout := 2 * time.Second

	tokens := auth.NewTokenService(auth.TokenConfig{Secret: "test-secret"})
	resolver := auth.NewResolver(tokens, store)
	accounts := services.NewAccountService(store, timeout)
	products := services.NewProductService(store, timeout)

	ctl := controllers.NewController(controllers.Deps{
		Resolver: resolver,
		Accounts: accounts,
		Products: products,
		Carts:    services.NewCartService(store, locker, timeout),
		Orders:   services.NewOrderService(store, locker, broker.NopPublisher{}, timeout),
		Store:    store,
	})

	r := gin.New()
	routes.RegisterRoutes(r, ctl, resolver)
	return &server{router: r, tokens: tokens, accounts: accounts, products: products}
}

func (s *server) register(t *testing.T, role, email string) string {
	t.Helper()
	_, err := s.accounts.Register(context.Background(), role, services.RegisterInput{
		Username: strings.Split(email, "@")[0], Email: email, Address: "1 Main St", Password: "pw",
	})
	require.NoError(t, err)
	token, _, err := s.tokens.Issue(email, role, 0)
	require.NoError(t, err)
	return token
}

func (s *server) do(t *testing.T, method, target, token string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	return s.send(t, httptest.NewRequest(method, target, nil), token)
}

func (s *server) send(t *testing.T, req *http.Request, token string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var body map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	}
	return w, body
}

func TestLogin(t *testing.T) {
	s := newServer(t)
	s.register(t, models.RoleUser, "ann@shop.io")
	s.register(t, models.RoleAdmin, "root@shop.io")

	login := func(user, pass string) (*httptest.ResponseRecorder, map[string]interface{}) {
		form := url.Values{"username": {user}, "password": {pass}}
		req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return s.send(t, req, "")
	}

	w, body := login("ann@shop.io", "pw")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Bearer", body["type"])
	claims, err := s.tokens.Validate(body["access_token"].(string))
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, claims.Role)

	w, body = login("root@shop.io", "pw")
	require.Equal(t, http.StatusOK, w.Code)
	claims, err = s.tokens.Validate(body["access_token"].(string))
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role)

	w, body = login("ann@shop.io", "wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Incorrect email or password", body["detail"])
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
}

func TestAuthenticationFailures(t *testing.T) {
	s := newServer(t)
	userToken := s.register(t, models.RoleUser, "ann@shop.io")
	ghost, _, err := s.tokens.Issue("ghost@shop.io", models.RoleUser, 0)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"missing":  "",
		"garbage":  "not-a-token",
		"tampered": userToken + "x",
		"unknown":  ghost,
	} {
		t.Run(name, func(t *testing.T) {
			w, body := s.do(t, http.MethodGet, "/cart/items", token)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "Could not validate credentials", body["detail"])
			assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
		})
	}
}

func TestAdminRoutesForbidUsers(t *testing.T) {
	s := newServer(t)
	userToken := s.register(t, models.RoleUser, "ann@shop.io")

	w, body := s.do(t, http.MethodGet, "/order/all", userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Forbidden! You are not authorized to access this API", body["detail"])

	w, _ = s.do(t, http.MethodDelete, "/product/delete/p1", userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCheckoutFlow(t *testing.T) {
	s := newServer(t)
	adminToken := s.register(t, models.RoleAdmin, "root@shop.io")
	userToken := s.register(t, models.RoleUser, "ann@shop.io")

	addProduct := func(name string, price float64) string {
		payload := fmt.Sprintf(`{"name":%q,"description":"thing","price":%g,"quantity":5}`, name, price)
		req := httptest.NewRequest(http.MethodPost, "/product/add", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w, body := s.send(t, req, adminToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		return body["Product"].(map[string]interface{})["id"].(string)
	}
	p1 := addProduct("Lamp", 100)
	p2 := addProduct("Bulb", 50)

	w, _ := s.do(t, http.MethodPut, "/cart/add?product_id="+p1+"&quantity=2", userToken)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(t, http.MethodPut, "/cart/add?product_id="+p2+"&quantity=3", userToken)
	require.Equal(t, http.StatusOK, w.Code)

	w, body := s.do(t, http.MethodPost, "/order/create", userToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Order Places Successfully", body["Message"])
	order := body["Order"].(map[string]interface{})
	assert.Equal(t, 350.0, order["amount"])
	assert.Equal(t, true, order["is_placed"])
	assert.Len(t, order["all_product"], 2)

	w, body = s.do(t, http.MethodGet, "/cart/items", userToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, body["items"])

	w, body = s.do(t, http.MethodGet, "/order/user", userToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, body["Total"])
	assert.Len(t, body["Orders"], 1)

	w, body = s.do(t, http.MethodGet, "/order/all?page_no=1&page_size=10", adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["Orders"], 1)

	orderID := order["id"].(string)
	w, _ = s.do(t, http.MethodDelete, "/order/delete/"+orderID, adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(t, http.MethodDelete, "/order/delete/"+orderID, adminToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckoutWithDeletedProduct(t *testing.T) {
	s := newServer(t)
	adminToken := s.register(t, models.RoleAdmin, "root@shop.io")
	userToken := s.register(t, models.RoleUser, "ann@shop.io")

	p, err := s.products.Add(context.Background(), models.Product{Name: "Lamp", Description: "desk", Price: 10, Quantity: 1})
	require.NoError(t, err)

	w, _ := s.do(t, http.MethodPut, "/cart/add?product_id="+p.ID, userToken)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(t, http.MethodDelete, "/product/delete/"+p.ID, adminToken)
	require.Equal(t, http.StatusOK, w.Code)

	w, body := s.do(t, http.MethodPost, "/order/create", userToken)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "Invalid Product ID Found", body["detail"])

	w, body = s.do(t, http.MethodGet, "/order/all", adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "No More Orders Left in the Order Collection", body["Message"])
}

func TestCheckoutByAdminIsInvalidUser(t *testing.T) {
	s := newServer(t)
	adminToken := s.register(t, models.RoleAdmin, "root@shop.io")

	w, body := s.do(t, http.MethodPost, "/order/create", adminToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid User Id given", body["detail"])
}

func TestListingPagination(t *testing.T) {
	s := newServer(t)
	userToken := s.register(t, models.RoleUser, "ann@shop.io")

	w, body := s.do(t, http.MethodGet, "/order/user?page_no=0", userToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, body["detail"])

	w, body = s.do(t, http.MethodGet, "/order/user?page_size=abc", userToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = s.do(t, http.MethodGet, "/product/show/all", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "No More Collections Left in the Products Collection", body["message"])

	w, body = s.do(t, http.MethodGet, "/user/show/all?page_no=1&page_size=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, body["Total"])
	users := body["Users"].([]interface{})
	require.Len(t, users, 1)
	assert.NotContains(t, users[0], "password")
}

func TestAccountEndpoints(t *testing.T) {
	s := newServer(t)
	annToken := s.register(t, models.RoleUser, "ann@shop.io")
	s.register(t, models.RoleUser, "bob@shop.io")
	adminToken := s.register(t, models.RoleAdmin, "root@shop.io")

	req := httptest.NewRequest(http.MethodPost, "/user/add",
		strings.NewReader(`{"username":"ann2","email":"ann@shop.io","password":"pw"}`))
	req.Header.Set("Content-Type", "application/json")
	w, _ := s.send(t, req, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w, body := s.do(t, http.MethodGet, "/user/show/nobody@shop.io", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotEmpty(t, body["detail"])

	w, _ = s.do(t, http.MethodPut, "/user/update/address/bob@shop.io?address=x", annToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, body = s.do(t, http.MethodPut, "/user/update/address/ann@shop.io?address=2+Side+St", annToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2 Side St", body["address"])

	w, _ = s.do(t, http.MethodDelete, "/admin/deleteuser/bob@shop.io", adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(t, http.MethodGet, "/user/show/bob@shop.io", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(t, http.MethodDelete, "/user/delete/self", annToken)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(t, http.MethodGet, "/cart/items", annToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "a deleted account's token stops resolving")
}

func TestCartErrors(t *testing.T) {
	s := newServer(t)
	userToken := s.register(t, models.RoleUser, "ann@shop.io")

	w, _ := s.do(t, http.MethodPut, "/cart/add?product_id=missing", userToken)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(t, http.MethodPut, "/cart/add?product_id=missing&quantity=0", userToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(t, http.MethodPut, "/cart/remove?product_id=missing", userToken)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(t, http.MethodDelete, "/cart/delete", userToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealth(t *testing.T) {
	s := newServer(t)

	w, body := s.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])

	w, body = s.do(t, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ready", body["status"])
}

func TestProductInputValidation(t *testing.T) {
	s := newServer(t)
	adminToken := s.register(t, models.RoleAdmin, "root@shop.io")

	req := httptest.NewRequest(http.MethodPost, "/product/add",
		strings.NewReader(`{"name":"Sticker","description":"free","price":0,"quantity":10}`))
	req.Header.Set("Content-Type", "application/json")
	w, body := s.send(t, req, adminToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	id := body["Product"].(map[string]interface{})["id"].(string)

	for _, price := range []string{"NaN", "Inf", "-Inf", "abc", "-1"} {
		w, body = s.do(t, http.MethodPut, "/product/update/price/"+id+"?price="+url.QueryEscape(price), adminToken)
		assert.Equal(t, http.StatusBadRequest, w.Code, price)
		assert.NotEmpty(t, body["detail"])
	}

	w, body = s.do(t, http.MethodPut, "/product/update/price/"+id+"?price=2.5", adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2.5, body["price"])
}

func TestPageOffsetOverflow(t *testing.T) {
	s := newServer(t)
	userToken := s.register(t, models.RoleUser, "ann@shop.io")

	w, body := s.do(t, http.MethodGet, "/order/user?page_no=4611686018427387905&page_size=2", userToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, body["detail"])
}

func TestCartQuantityOverflow(t *testing.T) {
	s := newServer(t)
	userToken := s.register(t, models.RoleUser, "ann@shop.io")
	p, err := s.products.Add(context.Background(), models.Product{Name: "Lamp", Description: "desk", Price: 10})
	require.NoError(t, err)

	w, _ := s.do(t, http.MethodPut, fmt.Sprintf("/cart/add?product_id=%s&quantity=%d", p.ID, math.MaxInt), userToken)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodPut, "/cart/add?product_id="+p.ID+"&quantity=2", userToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
