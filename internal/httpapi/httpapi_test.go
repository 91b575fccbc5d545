package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"clientdesk.org/internal/auth"
	"clientdesk.org/internal/customer"
)

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

// stubStore is an in-memory customer.Store for handler tests.
type stubStore struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*customer.Customer
}

func newStubStore() *stubStore {
	return &stubStore{items: make(map[int64]*customer.Customer)}
}

func (s *stubStore) Create(_ context.Context, c *customer.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	c.ID = s.nextID
	cp := *c
	s.items[c.ID] = &cp
	return nil
}

func (s *stubStore) FindByID(_ context.Context, id int64) (*customer.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.items[id]
	if !ok {
		return nil, customer.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *stubStore) FindByEmail(_ context.Context, email string) (*customer.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.items {
		if c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, customer.ErrNotFound
}

func (s *stubStore) List(_ context.Context, filter customer.Filter, page customer.Page) ([]customer.Customer, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []customer.Customer
	for _, c := range s.items {
		if !c.Active {
			continue
		}
		if !contains(c.FullName, filter.FullName) || !contains(c.Email, filter.Email) || !contains(c.Phone, filter.Phone) {
			continue
		}
		matched = append(matched, *c)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	start := page.Number * page.Size
	if start > len(matched) {
		start = len(matched)
	}
	end := start + page.Size
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (s *stubStore) Update(_ context.Context, c *customer.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[c.ID]; !ok {
		return customer.ErrNotFound
	}
	cp := *c
	s.items[c.ID] = &cp
	return nil
}

func (s *stubStore) SetActive(_ context.Context, id int64, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.items[id]
	if !ok {
		return customer.ErrNotFound
	}
	c.Active = active
	return nil
}

func contains(value, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(needle))
}

type testEnv struct {
	store   *stubStore
	codec   *auth.Codec
	handler http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := newStubStore()
	codec, err := auth.NewCodec("test-secret")
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	customers := customer.NewService(store)
	authSvc := auth.NewService(customer.NewCredentialSource(store), codec)
	// Generous limits so the middleware chain never throttles tests.
	api := New(ReadyProbe{}, "test", authSvc, customers, Options{RateBurst: 10000, RatePerSec: 10000})
	return &testEnv{store: store, codec: codec, handler: api.Handler()}
}

func (e *testEnv) do(t *testing.T, method, target, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) createCustomer(t *testing.T, fullName, email, phone, password string) customer.View {
	t.Helper()
	body := map[string]string{
		"fullName": fullName,
		"email":    email,
		"password": password,
	}
	if phone != "" {
		body["phone"] = phone
	}
	raw, _ := json.Marshal(body)
	rr := e.do(t, http.MethodPost, "/api/customers", string(raw), "")
	if rr.Code != http.StatusOK {
		t.Fatalf("create customer: status %d, body %s", rr.Code, rr.Body.String())
	}
	var view customer.View
	if err := json.Unmarshal(rr.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	return view
}

func (e *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()
	raw, _ := json.Marshal(map[string]string{"email": email, "password": password})
	rr := e.do(t, http.MethodPost, "/api/customers/authenticate", string(raw), "")
	if rr.Code != http.StatusOK {
		t.Fatalf("login: status %d, body %s", rr.Code, rr.Body.String())
	}
	var resp authenticateResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if resp.Token == "" {
		t.Fatalf("login returned empty token")
	}
	return resp.Token
}
