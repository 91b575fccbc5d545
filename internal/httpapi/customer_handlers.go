package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"clientdesk.org/internal/customer"
)

type createCustomerRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type customerListResponse struct {
	CustomerList  []customer.View `json:"customerList"`
	NumberOfItems int64           `json:"numberOfItems"`
	NumberOfPages int             `json:"numberOfPages"`
}

func (a *API) handleCustomersCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		a.createCustomer(w, r)
	case http.MethodGet:
		a.listCustomers(w, r)
	default:
		methodNotAllowed(w, r, http.MethodPost, http.MethodGet)
	}
}

func (a *API) handleCustomerResource(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/customers/")
	if path == "authenticate" {
		a.handleAuthenticate(w, r)
		return
	}
	if path == "" || strings.Contains(path, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	id, err := strconv.ParseInt(path, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusNotFound, "customer not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		a.getCustomer(w, r, id)
	case http.MethodPut:
		a.updateCustomer(w, r, id, false)
	case http.MethodPatch:
		a.updateCustomer(w, r, id, true)
	case http.MethodDelete:
		a.deleteCustomer(w, r, id)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete)
	}
}

func (a *API) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req createCustomerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	c, err := a.customers.Create(r.Context(), customer.NewCustomerInput{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		handleCustomerError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/customers/"+strconv.FormatInt(c.ID, 10))
	writeJSON(w, http.StatusOK, c.AsView())
}

func (a *API) listCustomers(w http.ResponseWriter, r *http.Request) {
	if _, ok := requirePrincipal(w, r); !ok {
		return
	}

	q := r.URL.Query()
	filter := customer.Filter{
		FullName: strings.TrimSpace(q.Get("fullName")),
		Email:    strings.TrimSpace(q.Get("email")),
		Phone:    strings.TrimSpace(q.Get("phone")),
	}

	page := customer.Page{}
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, r, http.StatusBadRequest, "page must be a non-negative integer")
			return
		}
		page.Number = n
	}
	if v := q.Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, r, http.StatusBadRequest, "size must be a positive integer")
			return
		}
		page.Size = n
	}

	result, err := a.customers.List(r.Context(), filter, page)
	if err != nil {
		handleCustomerError(w, r, err)
		return
	}

	views := make([]customer.View, 0, len(result.Items))
	for _, c := range result.Items {
		views = append(views, c.AsView())
	}
	writeJSON(w, http.StatusOK, customerListResponse{
		CustomerList:  views,
		NumberOfItems: result.TotalItems,
		NumberOfPages: result.TotalPages,
	})
}

func (a *API) getCustomer(w http.ResponseWriter, r *http.Request, id int64) {
	if _, ok := requirePrincipal(w, r); !ok {
		return
	}

	c, err := a.customers.Get(r.Context(), id)
	if err != nil {
		handleCustomerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c.AsView())
}

func (a *API) updateCustomer(w http.ResponseWriter, r *http.Request, id int64, partial bool) {
	if _, ok := requirePrincipal(w, r); !ok {
		return
	}

	var patch customer.Patch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	c, err := a.customers.Update(r.Context(), id, patch, partial)
	if err != nil {
		handleCustomerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c.AsView())
}

func (a *API) deleteCustomer(w http.ResponseWriter, r *http.Request, id int64) {
	if _, ok := requireRole(w, r, "admin"); !ok {
		return
	}

	if err := a.customers.Delete(r.Context(), id); err != nil {
		handleCustomerError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func handleCustomerError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, customer.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, customer.ErrAlreadyExists):
		writeError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, customer.ErrNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
