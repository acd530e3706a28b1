package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/hbenali/creditbook/internal/prediction"
	"github.com/hbenali/creditbook/internal/service"
)

type Handler struct {
	svc *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.svc.Register(req.Username, req.Email, req.Password)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	token, err := h.svc.Login(req.Email, req.Password)
	if err != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// CreateCustomer handles customer creation
func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Address string `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	customer, err := h.svc.CreateCustomer(r.Context(), req.Name, req.Email, req.Phone, req.Address)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	respondJSON(w, http.StatusCreated, customer)
}

// ListCustomers returns the owner's customers
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.svc.ListCustomers(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, customers)
}

// UpdateCustomer updates a customer's contact details
func (h *Handler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid customer ID", http.StatusBadRequest)
		return
	}
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Address string `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	customer, err := h.svc.UpdateCustomer(r.Context(), id, req.Name, req.Email, req.Phone, req.Address)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, customer)
}

// DeleteCustomer removes a customer
func (h *Handler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid customer ID", http.StatusBadRequest)
		return
	}
	if err := h.svc.DeleteCustomer(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RegenerateAccessCode replaces a customer's lookup code
func (h *Handler) RegenerateAccessCode(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid customer ID", http.StatusBadRequest)
		return
	}
	customer, err := h.svc.RegenerateAccessCode(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, customer)
}

// CreateCredit opens a new credit for a customer
func (h *Handler) CreateCredit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerID int64     `json:"customer_id"`
		Amount     float64   `json:"amount"`
		DueDate    time.Time `json:"due_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	credit, err := h.svc.IssueCredit(r.Context(), req.CustomerID, req.Amount, req.DueDate)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	respondJSON(w, http.StatusCreated, credit)
}

// ListCredits returns the owner's credits
func (h *Handler) ListCredits(w http.ResponseWriter, r *http.Request) {
	credits, err := h.svc.ListCredits(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, credits)
}

// DeleteCredit removes a credit
func (h *Handler) DeleteCredit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid credit ID", http.StatusBadRequest)
		return
	}
	if err := h.svc.DeleteCredit(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RecordPayment records a payment against a credit
func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid credit ID", http.StatusBadRequest)
		return
	}
	var req struct {
		Amount float64 `json:"amount"`
		Note   string  `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	payment, err := h.svc.RecordPayment(r.Context(), id, req.Amount, req.Note)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	respondJSON(w, http.StatusCreated, payment)
}

// AddCreditIncrease raises a credit's principal
func (h *Handler) AddCreditIncrease(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid credit ID", http.StatusBadRequest)
		return
	}
	var req struct {
		Amount float64 `json:"amount"`
		Note   string  `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	increase, err := h.svc.AddCreditIncrease(r.Context(), id, req.Amount, req.Note)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	respondJSON(w, http.StatusCreated, increase)
}

// ListPayments returns the owner's payments
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.svc.ListPayments(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, payments)
}

// ListCreditIncreases returns the owner's credit increases
func (h *Handler) ListCreditIncreases(w http.ResponseWriter, r *http.Request) {
	increases, err := h.svc.ListCreditIncreases(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, increases)
}

// Predictions evaluates every outstanding credit
func (h *Handler) Predictions(w http.ResponseWriter, r *http.Request) {
	predictions, err := h.svc.Predictions(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, predictions)
}

// recommendationView pairs a recommendation code with its display text
type recommendationView struct {
	Code string `json:"code"`
	Text string `json:"text"`
}

// CustomerRisk returns a customer's risk profile with rendered recommendations
func (h *Handler) CustomerRisk(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid customer ID", http.StatusBadRequest)
		return
	}
	profile, err := h.svc.CustomerRisk(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	recs := make([]recommendationView, 0, len(profile.Recommendations))
	for _, rec := range profile.Recommendations {
		recs = append(recs, recommendationView{Code: string(rec), Text: rec.Text()})
	}
	respondJSON(w, http.StatusOK, struct {
		*prediction.CustomerRiskProfile
		Recommendations []recommendationView `json:"recommendations"`
	}{profile, recs})
}

// RecommendedCredit suggests the next credit ceiling for a customer
func (h *Handler) RecommendedCredit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid customer ID", http.StatusBadRequest)
		return
	}
	rec, err := h.svc.RecommendedCredit(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, struct {
		*prediction.CreditRecommendation
		ReasonText string `json:"reason_text"`
	}{rec, rec.Reason.Text()})
}

// Dashboard returns aggregate figures for the owner dashboard
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.DashboardStats(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// Track handles the public access-code balance lookup
func (h *Handler) Track(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	result, err := h.svc.Track(code)
	if err != nil {
		http.Error(w, "Access code not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Statement serves a customer's XML statement
func (h *Handler) Statement(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid customer ID", http.StatusBadRequest)
		return
	}
	out, err := h.svc.Statement(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	w.Write(out)
}

// GetStore returns the owner's store profile
func (h *Handler) GetStore(w http.ResponseWriter, r *http.Request) {
	store, err := h.svc.GetStore(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, store)
}

// SaveStore creates or updates the owner's store profile
func (h *Handler) SaveStore(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
		Logo string `json:"logo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	store, err := h.svc.SaveStore(r.Context(), req.Name, req.Logo)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	respondJSON(w, http.StatusOK, store)
}
