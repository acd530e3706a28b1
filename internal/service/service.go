package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/hbenali/creditbook/internal/config"
	"github.com/hbenali/creditbook/internal/export"
	"github.com/hbenali/creditbook/internal/models"
	"github.com/hbenali/creditbook/internal/prediction"
	"github.com/hbenali/creditbook/internal/repository"
	"github.com/hbenali/creditbook/internal/utils"
	"github.com/hbenali/creditbook/internal/utils/email"
)

// Service handles business logic
type Service struct {
	repo   *repository.Repository
	log    *logrus.Logger
	config *config.Config
	mail   *email.Sender
}

// NewService initializes a new service
func NewService(repo *repository.Repository, log *logrus.Logger, cfg *config.Config, mail *email.Sender) *Service {
	return &Service{repo: repo, log: log, config: cfg, mail: mail}
}

// Register creates a new user with hashed password
func (s *Service) Register(username, email, password string) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.repo.CreateUser(user); err != nil {
		return nil, err
	}

	s.log.Infof("User registered: %s", user.Email)
	return user, nil
}

// Login authenticates a user and returns a JWT token
func (s *Service) Login(email, password string) (string, error) {
	user, err := s.repo.FindUserByEmail(email)
	if err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", user.ID),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Email)
	return tokenString, nil
}

func (s *Service) userID(ctx context.Context) (int64, error) {
	userIDStr, ok := ctx.Value("userID").(string)
	if !ok || userIDStr == "" {
		return 0, fmt.Errorf("user ID not found in context")
	}
	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user ID: %w", err)
	}
	return userID, nil
}

// CreateCustomer registers a customer and issues their access code
func (s *Service) CreateCustomer(ctx context.Context, name, emailAddr, phone, address string) (*models.Customer, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("customer name is required")
	}

	code, err := utils.GenerateAccessCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate access code: %w", err)
	}

	customer := &models.Customer{
		UserID:     userID,
		Name:       name,
		Email:      emailAddr,
		Phone:      phone,
		Address:    address,
		AccessCode: code,
	}
	if err := s.repo.CreateCustomer(customer); err != nil {
		return nil, err
	}

	s.log.Infof("Customer created for user %d: %s", userID, customer.Name)
	return customer, nil
}

// ListCustomers returns the owner's customers
func (s *Service) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.ListCustomers(userID)
}

// UpdateCustomer updates a customer's contact details
func (s *Service) UpdateCustomer(ctx context.Context, id int64, name, emailAddr, phone, address string) (*models.Customer, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	customer, err := s.repo.FindCustomerByID(id, userID)
	if err != nil {
		return nil, err
	}
	if name != "" {
		customer.Name = name
	}
	customer.Email = emailAddr
	customer.Phone = phone
	customer.Address = address
	if err := s.repo.UpdateCustomer(customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// DeleteCustomer removes a customer and their credit history
func (s *Service) DeleteCustomer(ctx context.Context, id int64) error {
	userID, err := s.userID(ctx)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteCustomer(id, userID); err != nil {
		return err
	}
	s.log.Infof("Customer %d deleted by user %d", id, userID)
	return nil
}

// RegenerateAccessCode replaces a customer's lookup code
func (s *Service) RegenerateAccessCode(ctx context.Context, id int64) (*models.Customer, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	customer, err := s.repo.FindCustomerByID(id, userID)
	if err != nil {
		return nil, err
	}
	code, err := utils.GenerateAccessCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate access code: %w", err)
	}
	if err := s.repo.UpdateCustomerAccessCode(id, userID, code); err != nil {
		return nil, err
	}
	customer.AccessCode = code
	s.log.Infof("Access code regenerated for customer %d", id)
	return customer, nil
}

// IssueCredit opens a new credit for a customer
func (s *Service) IssueCredit(ctx context.Context, customerID int64, amount float64, dueDate time.Time) (*models.Credit, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, fmt.Errorf("credit amount must be positive")
	}
	customer, err := s.repo.FindCustomerByID(customerID, userID)
	if err != nil {
		return nil, err
	}

	credit := &models.Credit{
		UserID:          userID,
		CustomerID:      customer.ID,
		CustomerName:    customer.Name,
		Amount:          amount,
		PaidAmount:      0,
		RemainingAmount: amount,
		DueDate:         dueDate,
		Status:          models.CreditStatusActive,
	}
	if err := s.repo.CreateCredit(credit); err != nil {
		return nil, err
	}

	s.log.Infof("Credit of %.2f issued to customer %d (due %s)", amount, customerID, dueDate.Format("2006-01-02"))
	return credit, nil
}

// ListCredits returns the owner's credits with statuses refreshed
func (s *Service) ListCredits(ctx context.Context) ([]models.Credit, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	credits, err := s.repo.ListCredits(userID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	for i := range credits {
		credits[i].Status = credits[i].CurrentStatus(now)
	}
	return credits, nil
}

// DeleteCredit removes a credit and its payment history
func (s *Service) DeleteCredit(ctx context.Context, id int64) error {
	userID, err := s.userID(ctx)
	if err != nil {
		return err
	}
	return s.repo.DeleteCredit(id, userID)
}

// RecordPayment records a payment against a credit and updates its balance
func (s *Service) RecordPayment(ctx context.Context, creditID int64, amount float64, note string) (*models.Payment, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, fmt.Errorf("payment amount must be positive")
	}
	credit, err := s.repo.FindCreditByID(creditID, userID)
	if err != nil {
		return nil, err
	}
	if amount > credit.RemainingAmount {
		return nil, fmt.Errorf("payment of %.2f exceeds remaining balance %.2f", amount, credit.RemainingAmount)
	}

	payment := &models.Payment{
		UserID:        userID,
		CreditID:      credit.ID,
		CustomerID:    credit.CustomerID,
		Amount:        amount,
		Note:          note,
		ReceiptNumber: uuid.NewString(),
	}
	if err := s.repo.CreatePayment(payment); err != nil {
		return nil, err
	}

	credit.PaidAmount += amount
	credit.RemainingAmount -= amount
	credit.Status = credit.CurrentStatus(time.Now())
	if err := s.repo.UpdateCreditBalance(credit); err != nil {
		return nil, err
	}

	s.log.Infof("Payment of %.2f recorded on credit %d (receipt %s)", amount, credit.ID, payment.ReceiptNumber)
	s.sendReceipt(credit, payment)
	return payment, nil
}

// sendReceipt emails a receipt when the customer has an address. Failures are
// logged, not returned: the payment is already recorded.
func (s *Service) sendReceipt(credit *models.Credit, payment *models.Payment) {
	if s.mail == nil {
		return
	}
	customer, err := s.repo.FindCustomerByID(credit.CustomerID, credit.UserID)
	if err != nil || customer.Email == "" {
		return
	}
	storeName := s.storeName(credit.UserID)
	if err := s.mail.SendPaymentReceipt(customer.Email, customer.Name, storeName,
		payment.ReceiptNumber, payment.Amount, credit.RemainingAmount); err != nil {
		s.log.Warnf("Receipt email for payment %d not sent: %v", payment.ID, err)
	}
}

func (s *Service) storeName(userID int64) string {
	if store, err := s.repo.FindStoreByUser(userID); err == nil && store.Name != "" {
		return store.Name
	}
	return "Your store"
}

// AddCreditIncrease raises a credit's principal and remaining balance
func (s *Service) AddCreditIncrease(ctx context.Context, creditID int64, amount float64, note string) (*models.CreditIncrease, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, fmt.Errorf("increase amount must be positive")
	}
	credit, err := s.repo.FindCreditByID(creditID, userID)
	if err != nil {
		return nil, err
	}

	increase := &models.CreditIncrease{
		UserID:     userID,
		CreditID:   credit.ID,
		CustomerID: credit.CustomerID,
		Amount:     amount,
		Note:       note,
	}
	if err := s.repo.CreateCreditIncrease(increase); err != nil {
		return nil, err
	}

	credit.Amount += amount
	credit.RemainingAmount += amount
	credit.Status = credit.CurrentStatus(time.Now())
	if err := s.repo.UpdateCreditBalance(credit); err != nil {
		return nil, err
	}

	s.log.Infof("Credit %d increased by %.2f", credit.ID, amount)
	return increase, nil
}

// ListPayments returns the owner's payments
func (s *Service) ListPayments(ctx context.Context) ([]models.Payment, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.ListPayments(userID)
}

// ListCreditIncreases returns the owner's credit increases
func (s *Service) ListCreditIncreases(ctx context.Context) ([]models.CreditIncrease, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.ListCreditIncreases(userID)
}

// Predictions evaluates every outstanding credit of the owner
func (s *Service) Predictions(ctx context.Context) ([]prediction.PaymentPrediction, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	credits, err := s.repo.ListCredits(userID)
	if err != nil {
		return nil, err
	}
	payments, err := s.repo.ListPayments(userID)
	if err != nil {
		return nil, err
	}
	increases, err := s.repo.ListCreditIncreases(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	predictions := []prediction.PaymentPrediction{}
	for _, credit := range credits {
		if credit.RemainingAmount <= 0 {
			continue
		}
		predictions = append(predictions,
			prediction.PredictPayment(now, credit, payments, increases, credits, payments))
	}
	return predictions, nil
}

// CustomerRisk computes the risk profile for one of the owner's customers
func (s *Service) CustomerRisk(ctx context.Context, customerID int64) (*prediction.CustomerRiskProfile, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	customer, err := s.repo.FindCustomerByID(customerID, userID)
	if err != nil {
		return nil, err
	}
	credits, err := s.repo.ListCredits(userID)
	if err != nil {
		return nil, err
	}
	payments, err := s.repo.ListPayments(userID)
	if err != nil {
		return nil, err
	}

	profile := prediction.CustomerRisk(time.Now(), customer.ID, customer.Name, credits, payments)
	return &profile, nil
}

// RecommendedCredit suggests the next credit ceiling for a customer
func (s *Service) RecommendedCredit(ctx context.Context, customerID int64) (*prediction.CreditRecommendation, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	customer, err := s.repo.FindCustomerByID(customerID, userID)
	if err != nil {
		return nil, err
	}
	credits, err := s.repo.ListCredits(userID)
	if err != nil {
		return nil, err
	}
	payments, err := s.repo.ListPayments(userID)
	if err != nil {
		return nil, err
	}

	rec := prediction.RecommendCredit(customer.ID, credits, payments)
	return &rec, nil
}

// DashboardStats aggregates figures for the owner dashboard
func (s *Service) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	credits, err := s.repo.ListCredits(userID)
	if err != nil {
		return nil, err
	}
	customers, err := s.repo.ListCustomers(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	stats := &models.DashboardStats{CustomerCount: len(customers)}
	for _, c := range credits {
		stats.TotalCredits += c.Amount
		stats.TotalPaid += c.PaidAmount
		switch c.CurrentStatus(now) {
		case models.CreditStatusActive:
			stats.ActiveCredits++
		case models.CreditStatusOverdue:
			stats.OverdueCredits++
			stats.TotalOverdue += c.RemainingAmount
		}
	}
	if stats.TotalCredits > 0 {
		stats.CollectionRate = stats.TotalPaid / stats.TotalCredits * 100
	}
	return stats, nil
}

// TrackedCredit is a customer-facing view of one credit
type TrackedCredit struct {
	Amount          float64   `json:"amount"`
	PaidAmount      float64   `json:"paid_amount"`
	RemainingAmount float64   `json:"remaining_amount"`
	DueDate         time.Time `json:"due_date"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

// TrackResult is the public balance lookup response
type TrackResult struct {
	CustomerName   string          `json:"customer_name"`
	StoreName      string          `json:"store_name"`
	TotalRemaining float64         `json:"total_remaining"`
	Credits        []TrackedCredit `json:"credits"`
}

// Track resolves a customer access code to their balance summary
func (s *Service) Track(code string) (*TrackResult, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !utils.IsAccessCode(code) {
		return nil, fmt.Errorf("invalid access code")
	}
	customer, err := s.repo.FindCustomerByAccessCode(code)
	if err != nil {
		return nil, err
	}
	credits, err := s.repo.ListCreditsByCustomer(customer.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	result := &TrackResult{
		CustomerName: customer.Name,
		StoreName:    s.storeName(customer.UserID),
	}
	for _, c := range credits {
		result.TotalRemaining += c.RemainingAmount
		result.Credits = append(result.Credits, TrackedCredit{
			Amount:          c.Amount,
			PaidAmount:      c.PaidAmount,
			RemainingAmount: c.RemainingAmount,
			DueDate:         c.DueDate,
			Status:          c.CurrentStatus(now),
			CreatedAt:       c.CreatedAt,
		})
	}
	return result, nil
}

// Statement renders a customer's XML statement
func (s *Service) Statement(ctx context.Context, customerID int64) ([]byte, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	customer, err := s.repo.FindCustomerByID(customerID, userID)
	if err != nil {
		return nil, err
	}
	credits, err := s.repo.ListCreditsByCustomer(customer.ID)
	if err != nil {
		return nil, err
	}
	payments, err := s.repo.ListPaymentsByCustomer(customer.ID)
	if err != nil {
		return nil, err
	}
	store, _ := s.repo.FindStoreByUser(userID)

	return export.BuildStatement(store, customer, credits, payments, time.Now())
}

// GetStore returns the owner's store profile
func (s *Service) GetStore(ctx context.Context) (*models.Store, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.FindStoreByUser(userID)
}

// SaveStore creates or updates the owner's store profile
func (s *Service) SaveStore(ctx context.Context, name, logo string) (*models.Store, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("store name is required")
	}
	store := &models.Store{UserID: userID, Name: name, Logo: logo}
	if err := s.repo.UpsertStore(store); err != nil {
		return nil, err
	}
	return store, nil
}

// SendDueReminders emails customers whose credits are due soon or overdue.
// Returns the number of reminders sent.
func (s *Service) SendDueReminders(now time.Time) (int, error) {
	if s.mail == nil {
		return 0, nil
	}
	horizon := now.Add(time.Duration(s.config.ReminderDays) * 24 * time.Hour)
	due, err := s.repo.ListDueCredits(horizon)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, d := range due {
		if d.CustomerEmail == "" {
			continue
		}
		isOverdue := d.Credit.DueDate.Before(now)
		storeName := s.storeName(d.Credit.UserID)
		if err := s.mail.SendPaymentReminder(d.CustomerEmail, d.Credit.CustomerName,
			storeName, d.Credit.DueDate, d.Credit.RemainingAmount, isOverdue); err != nil {
			s.log.Warnf("Reminder for credit %d not sent: %v", d.Credit.ID, err)
			continue
		}
		sent++
	}
	return sent, nil
}
