// Package gatewaytest provides an in-memory stand-in for the remote gateway
// so service tests can script cart/order state, inject failures per route,
// and assert exactly which calls were issued.
package gatewaytest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	cartResponse "github.com/Alturino/storefront/cart/pkg/response"
	orderResponse "github.com/Alturino/storefront/order/pkg/response"
	productResponse "github.com/Alturino/storefront/product/pkg/response"
	userResponse "github.com/Alturino/storefront/user/pkg/response"
)

// Token is the opaque bearer credential the fake gateway accepts.
const Token = "test-token"

var taxRate = decimal.New(1, -1)

type failure struct {
	status  int
	message string
}

type Server struct {
	*httptest.Server

	mu          sync.Mutex
	cart        cartResponse.Cart
	products    []productResponse.Product
	categories  []productResponse.Category
	orders      []orderResponse.Order
	nextItemID  int64
	nextOrderID int64
	failures    map[string]failure
	calls       map[string]int
}

func NewServer(t *testing.T) *Server {
	t.Helper()
	s := &Server{
		nextItemID:  1,
		nextOrderID: 1,
		failures:    map[string]failure{},
		calls:       map[string]int{},
	}

	router := mux.NewRouter()
	router.HandleFunc("/cart", s.authed("GET /cart", s.getCart)).Methods(http.MethodGet)
	router.HandleFunc("/cart", s.authed("DELETE /cart", s.clearCart)).Methods(http.MethodDelete)
	router.HandleFunc("/cart/items", s.authed("POST /cart/items", s.addCartItem)).
		Methods(http.MethodPost)
	router.HandleFunc("/cart/items/{id}", s.authed("PUT /cart/items/{id}", s.updateCartItem)).
		Methods(http.MethodPut)
	router.HandleFunc("/cart/items/{id}", s.authed("DELETE /cart/items/{id}", s.removeCartItem)).
		Methods(http.MethodDelete)
	router.HandleFunc("/orders", s.authed("POST /orders", s.createOrder)).Methods(http.MethodPost)
	router.HandleFunc("/orders", s.authed("GET /orders", s.listOrders)).Methods(http.MethodGet)
	router.HandleFunc("/orders/{id}", s.authed("GET /orders/{id}", s.getOrder)).
		Methods(http.MethodGet)
	router.HandleFunc("/products", s.open("GET /products", s.listProducts)).Methods(http.MethodGet)
	router.HandleFunc("/categories", s.open("GET /categories", s.listCategories)).
		Methods(http.MethodGet)
	router.HandleFunc("/auth/login", s.open("POST /auth/login", s.login)).Methods(http.MethodPost)
	router.HandleFunc("/auth/register", s.open("POST /auth/register", s.register)).
		Methods(http.MethodPost)

	s.Server = httptest.NewServer(router)
	t.Cleanup(s.Server.Close)
	return s
}

// Fail makes every subsequent request on the route (e.g. "POST /orders")
// answer with the given status and {"message": message} body.
func (s *Server) Fail(route string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = failure{status: status, message: message}
}

// Restore removes a previously injected failure.
func (s *Server) Restore(route string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, route)
}

// Calls reports how many requests reached the route, failures included.
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// SeedCart replaces the cart contents. Line subtotals and the cart total are
// recomputed here because the gateway owns that arithmetic.
func (s *Server) SeedCart(items ...cartResponse.CartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Items = append([]cartResponse.CartItem{}, items...)
	for i := range s.cart.Items {
		if s.cart.Items[i].ID >= s.nextItemID {
			s.nextItemID = s.cart.Items[i].ID + 1
		}
	}
	s.recompute()
}

func (s *Server) SeedProducts(products ...productResponse.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append([]productResponse.Product{}, products...)
}

func (s *Server) SeedCategories(categories ...productResponse.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = append([]productResponse.Category{}, categories...)
}

func (s *Server) SeedOrders(orders ...orderResponse.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = append([]orderResponse.Order{}, orders...)
	for _, o := range s.orders {
		if o.ID >= s.nextOrderID {
			s.nextOrderID = o.ID + 1
		}
	}
}

// CartSnapshot returns the gateway's current cart state.
func (s *Server) CartSnapshot() cartResponse.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.cart
	snapshot.Items = append([]cartResponse.CartItem{}, s.cart.Items...)
	return snapshot
}

// recompute refreshes line subtotals and the cart total. Callers hold s.mu.
func (s *Server) recompute() {
	total := decimal.Zero
	for i, item := range s.cart.Items {
		subtotal := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		s.cart.Items[i].Subtotal = subtotal
		total = total.Add(subtotal)
	}
	s.cart.TotalPrice = total
}

func (s *Server) intercept(route string, w http.ResponseWriter) bool {
	s.mu.Lock()
	s.calls[route]++
	f, failed := s.failures[route]
	s.mu.Unlock()
	if failed {
		writeMessage(w, f.status, f.message)
		return true
	}
	return false
}

func (s *Server) open(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.intercept(route, w) {
			return
		}
		next(w, r)
	}
}

func (s *Server) authed(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.intercept(route, w) {
			return
		}
		if r.Header.Get("Authorization") != "Bearer "+Token {
			writeMessage(w, http.StatusUnauthorized, "missing authorization")
			return
		}
		next(w, r)
	}
}

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.CartSnapshot())
}

func (s *Server) clearCart(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.cart = cartResponse.Cart{TotalPrice: decimal.Zero}
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addCartItem(w http.ResponseWriter, r *http.Request) {
	param := struct {
		ProductID int64 `json:"productId"`
		Quantity  int   `json:"quantity"`
	}{}
	if err := json.NewDecoder(r.Body).Decode(&param); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var product *productResponse.Product
	for i := range s.products {
		if s.products[i].ID == param.ProductID {
			product = &s.products[i]
			break
		}
	}
	if product == nil {
		writeMessage(w, http.StatusNotFound, "Product not found")
		return
	}
	if product.StockQuantity < param.Quantity {
		writeMessage(w, http.StatusBadRequest, "Insufficient stock")
		return
	}

	for i := range s.cart.Items {
		if s.cart.Items[i].ProductID == param.ProductID {
			s.cart.Items[i].Quantity += param.Quantity
			s.recompute()
			writeJSON(w, http.StatusCreated, s.cart.Items[i])
			return
		}
	}
	item := cartResponse.CartItem{
		ID:              s.nextItemID,
		ProductID:       product.ID,
		ProductName:     product.Name,
		ProductImageURL: product.ImageURL,
		Price:           product.Price,
		Quantity:        param.Quantity,
	}
	s.nextItemID++
	s.cart.Items = append(s.cart.Items, item)
	s.recompute()
	writeJSON(w, http.StatusCreated, s.cart.Items[len(s.cart.Items)-1])
}

func (s *Server) updateCartItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid cart item id")
		return
	}
	param := struct {
		Quantity int `json:"quantity"`
	}{}
	if err := json.NewDecoder(r.Body).Decode(&param); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cart.Items {
		if s.cart.Items[i].ID == itemID {
			s.cart.Items[i].Quantity = param.Quantity
			s.recompute()
			w.WriteHeader(http.StatusOK)
			return
		}
	}
	writeMessage(w, http.StatusNotFound, "Cart item not found")
}

func (s *Server) removeCartItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid cart item id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cart.Items {
		if s.cart.Items[i].ID == itemID {
			s.cart.Items = append(s.cart.Items[:i], s.cart.Items[i+1:]...)
			s.recompute()
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeMessage(w, http.StatusNotFound, "Cart item not found")
}

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.cart.Items) == 0 {
		writeMessage(w, http.StatusBadRequest, "Cart is empty")
		return
	}

	items := make([]orderResponse.OrderItem, len(s.cart.Items))
	for i, line := range s.cart.Items {
		items[i] = orderResponse.OrderItem{
			ID:              line.ID,
			ProductID:       line.ProductID,
			ProductName:     line.ProductName,
			ProductImageURL: line.ProductImageURL,
			Price:           line.Price,
			Quantity:        line.Quantity,
			Subtotal:        line.Subtotal,
		}
	}
	subtotal := s.cart.TotalPrice
	tax := subtotal.Mul(taxRate)
	order := orderResponse.Order{
		ID:         s.nextOrderID,
		Items:      items,
		Subtotal:   subtotal,
		Tax:        tax,
		TotalPrice: subtotal.Add(tax),
		Status:     orderResponse.StatusPending,
		OrderDate:  time.Now().UTC(),
	}
	s.nextOrderID++
	s.orders = append(s.orders, order)
	s.cart = cartResponse.Cart{TotalPrice: decimal.Zero}
	writeJSON(w, http.StatusCreated, order)
}

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	orders := append([]orderResponse.Order{}, s.orders...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, orders)
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid order id")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, order := range s.orders {
		if order.ID == orderID {
			writeJSON(w, http.StatusOK, order)
			return
		}
	}
	writeMessage(w, http.StatusNotFound, "Order not found")
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	products := append([]productResponse.Product{}, s.products...)
	s.mu.Unlock()

	if categoryId := r.URL.Query().Get("categoryId"); categoryId != "" {
		id, err := strconv.ParseInt(categoryId, 10, 64)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid category id")
			return
		}
		filtered := []productResponse.Product{}
		for _, p := range products {
			if p.CategoryID == id {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}
	writeJSON(w, http.StatusOK, products)
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	categories := append([]productResponse.Category{}, s.categories...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, categories)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	param := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{}
	if err := json.NewDecoder(r.Body).Decode(&param); err != nil || param.Username == "" {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	writeJSON(w, http.StatusOK, userResponse.Auth{
		Token:    Token,
		ID:       1,
		Username: param.Username,
		Email:    param.Username + "@example.com",
		Roles:    []string{"ROLE_USER"},
	})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	param := struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}{}
	if err := json.NewDecoder(r.Body).Decode(&param); err != nil || param.Username == "" {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	writeJSON(w, http.StatusCreated, userResponse.Auth{
		Token:    Token,
		ID:       2,
		Username: param.Username,
		Email:    param.Email,
		Roles:    []string{"ROLE_USER"},
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
