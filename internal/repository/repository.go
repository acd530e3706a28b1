package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/hbenali/creditbook/internal/models"
)

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser creates a new user in the database
func (r *Repository) CreateUser(user *models.User) error {
	query := `
		INSERT INTO creditbook.users (username, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRow(query, user.Username, user.Email, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindUserByEmail retrieves a user by email
func (r *Repository) FindUserByEmail(email string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, email, password_hash, created_at
		FROM creditbook.users
		WHERE email = $1`
	err := r.db.QueryRow(query, email).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// CreateCustomer creates a new customer for the owner
func (r *Repository) CreateCustomer(customer *models.Customer) error {
	query := `
		INSERT INTO creditbook.customers (user_id, name, email, phone, address, access_code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRow(query, customer.UserID, customer.Name, customer.Email,
		customer.Phone, customer.Address, customer.AccessCode).
		Scan(&customer.ID, &customer.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

// ListCustomers retrieves all customers belonging to the owner
func (r *Repository) ListCustomers(userID int64) ([]models.Customer, error) {
	query := `
		SELECT id, user_id, name, email, phone, address, access_code, created_at
		FROM creditbook.customers
		WHERE user_id = $1
		ORDER BY name`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	customers := []models.Customer{}
	for rows.Next() {
		var c models.Customer
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &c.Phone,
			&c.Address, &c.AccessCode, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// FindCustomerByID retrieves one of the owner's customers
func (r *Repository) FindCustomerByID(id, userID int64) (*models.Customer, error) {
	c := &models.Customer{}
	query := `
		SELECT id, user_id, name, email, phone, address, access_code, created_at
		FROM creditbook.customers
		WHERE id = $1 AND user_id = $2`
	err := r.db.QueryRow(query, id, userID).
		Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.AccessCode, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("customer not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return c, nil
}

// FindCustomerByAccessCode retrieves a customer by their public access code
func (r *Repository) FindCustomerByAccessCode(code string) (*models.Customer, error) {
	c := &models.Customer{}
	query := `
		SELECT id, user_id, name, email, phone, address, access_code, created_at
		FROM creditbook.customers
		WHERE access_code = $1`
	err := r.db.QueryRow(query, code).
		Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.AccessCode, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("customer not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return c, nil
}

// UpdateCustomer updates a customer's contact details
func (r *Repository) UpdateCustomer(customer *models.Customer) error {
	query := `
		UPDATE creditbook.customers
		SET name = $1, email = $2, phone = $3, address = $4
		WHERE id = $5 AND user_id = $6`
	res, err := r.db.Exec(query, customer.Name, customer.Email, customer.Phone,
		customer.Address, customer.ID, customer.UserID)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("customer not found")
	}
	return nil
}

// UpdateCustomerAccessCode replaces a customer's access code
func (r *Repository) UpdateCustomerAccessCode(id, userID int64, code string) error {
	query := `
		UPDATE creditbook.customers
		SET access_code = $1
		WHERE id = $2 AND user_id = $3`
	res, err := r.db.Exec(query, code, id, userID)
	if err != nil {
		return fmt.Errorf("failed to update access code: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("customer not found")
	}
	return nil
}

// DeleteCustomer removes a customer; credits, payments and increases cascade
func (r *Repository) DeleteCustomer(id, userID int64) error {
	res, err := r.db.Exec(`DELETE FROM creditbook.customers WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("customer not found")
	}
	return nil
}

// CreateCredit creates a new credit
func (r *Repository) CreateCredit(credit *models.Credit) error {
	query := `
		INSERT INTO creditbook.credits (user_id, customer_id, customer_name, amount, paid_amount, remaining_amount, due_date, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRow(query, credit.UserID, credit.CustomerID, credit.CustomerName,
		credit.Amount, credit.PaidAmount, credit.RemainingAmount, credit.DueDate, credit.Status).
		Scan(&credit.ID, &credit.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create credit: %w", err)
	}
	return nil
}

const creditColumns = `id, user_id, customer_id, customer_name, amount, paid_amount, remaining_amount, due_date, status, created_at`

func scanCredit(rows *sql.Rows) (models.Credit, error) {
	var c models.Credit
	err := rows.Scan(&c.ID, &c.UserID, &c.CustomerID, &c.CustomerName, &c.Amount,
		&c.PaidAmount, &c.RemainingAmount, &c.DueDate, &c.Status, &c.CreatedAt)
	return c, err
}

// ListCredits retrieves all credits belonging to the owner
func (r *Repository) ListCredits(userID int64) ([]models.Credit, error) {
	query := `
		SELECT ` + creditColumns + `
		FROM creditbook.credits
		WHERE user_id = $1
		ORDER BY created_at DESC`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list credits: %w", err)
	}
	defer rows.Close()

	credits := []models.Credit{}
	for rows.Next() {
		c, err := scanCredit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan credit: %w", err)
		}
		credits = append(credits, c)
	}
	return credits, rows.Err()
}

// ListCreditsByCustomer retrieves all credits for one customer
func (r *Repository) ListCreditsByCustomer(customerID int64) ([]models.Credit, error) {
	query := `
		SELECT ` + creditColumns + `
		FROM creditbook.credits
		WHERE customer_id = $1
		ORDER BY created_at DESC`
	rows, err := r.db.Query(query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list customer credits: %w", err)
	}
	defer rows.Close()

	credits := []models.Credit{}
	for rows.Next() {
		c, err := scanCredit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan credit: %w", err)
		}
		credits = append(credits, c)
	}
	return credits, rows.Err()
}

// FindCreditByID retrieves one of the owner's credits
func (r *Repository) FindCreditByID(id, userID int64) (*models.Credit, error) {
	query := `
		SELECT ` + creditColumns + `
		FROM creditbook.credits
		WHERE id = $1 AND user_id = $2`
	var c models.Credit
	err := r.db.QueryRow(query, id, userID).
		Scan(&c.ID, &c.UserID, &c.CustomerID, &c.CustomerName, &c.Amount,
			&c.PaidAmount, &c.RemainingAmount, &c.DueDate, &c.Status, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("credit not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find credit: %w", err)
	}
	return &c, nil
}

// UpdateCreditBalance writes back the credit's amount, paid/remaining balances and status
func (r *Repository) UpdateCreditBalance(credit *models.Credit) error {
	query := `
		UPDATE creditbook.credits
		SET amount = $1, paid_amount = $2, remaining_amount = $3, status = $4
		WHERE id = $5 AND user_id = $6`
	res, err := r.db.Exec(query, credit.Amount, credit.PaidAmount, credit.RemainingAmount,
		credit.Status, credit.ID, credit.UserID)
	if err != nil {
		return fmt.Errorf("failed to update credit: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("credit not found")
	}
	return nil
}

// DeleteCredit removes a credit and its payments and increases
func (r *Repository) DeleteCredit(id, userID int64) error {
	res, err := r.db.Exec(`DELETE FROM creditbook.credits WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete credit: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("credit not found")
	}
	return nil
}

// CreatePayment records a payment against a credit
func (r *Repository) CreatePayment(payment *models.Payment) error {
	query := `
		INSERT INTO creditbook.payments (user_id, credit_id, customer_id, amount, note, receipt_number, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRow(query, payment.UserID, payment.CreditID, payment.CustomerID,
		payment.Amount, payment.Note, payment.ReceiptNumber).
		Scan(&payment.ID, &payment.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// ListPayments retrieves all payments belonging to the owner
func (r *Repository) ListPayments(userID int64) ([]models.Payment, error) {
	query := `
		SELECT id, user_id, credit_id, customer_id, amount, note, receipt_number, created_at
		FROM creditbook.payments
		WHERE user_id = $1
		ORDER BY created_at DESC`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	payments := []models.Payment{}
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.UserID, &p.CreditID, &p.CustomerID, &p.Amount,
			&p.Note, &p.ReceiptNumber, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// ListPaymentsByCustomer retrieves all payments for one customer
func (r *Repository) ListPaymentsByCustomer(customerID int64) ([]models.Payment, error) {
	query := `
		SELECT id, user_id, credit_id, customer_id, amount, note, receipt_number, created_at
		FROM creditbook.payments
		WHERE customer_id = $1
		ORDER BY created_at`
	rows, err := r.db.Query(query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list customer payments: %w", err)
	}
	defer rows.Close()

	payments := []models.Payment{}
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.UserID, &p.CreditID, &p.CustomerID, &p.Amount,
			&p.Note, &p.ReceiptNumber, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// CreateCreditIncrease records an addition to a credit's principal
func (r *Repository) CreateCreditIncrease(increase *models.CreditIncrease) error {
	query := `
		INSERT INTO creditbook.credit_increases (user_id, credit_id, customer_id, amount, note, created_at)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRow(query, increase.UserID, increase.CreditID, increase.CustomerID,
		increase.Amount, increase.Note).
		Scan(&increase.ID, &increase.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create credit increase: %w", err)
	}
	return nil
}

// ListCreditIncreases retrieves all credit increases belonging to the owner
func (r *Repository) ListCreditIncreases(userID int64) ([]models.CreditIncrease, error) {
	query := `
		SELECT id, user_id, credit_id, customer_id, amount, note, created_at
		FROM creditbook.credit_increases
		WHERE user_id = $1
		ORDER BY created_at DESC`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list credit increases: %w", err)
	}
	defer rows.Close()

	increases := []models.CreditIncrease{}
	for rows.Next() {
		var ci models.CreditIncrease
		if err := rows.Scan(&ci.ID, &ci.UserID, &ci.CreditID, &ci.CustomerID,
			&ci.Amount, &ci.Note, &ci.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan credit increase: %w", err)
		}
		increases = append(increases, ci)
	}
	return increases, rows.Err()
}

// FindStoreByUser retrieves the owner's store profile
func (r *Repository) FindStoreByUser(userID int64) (*models.Store, error) {
	s := &models.Store{}
	query := `
		SELECT id, user_id, name, logo, created_at, updated_at
		FROM creditbook.stores
		WHERE user_id = $1`
	err := r.db.QueryRow(query, userID).
		Scan(&s.ID, &s.UserID, &s.Name, &s.Logo, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("store not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find store: %w", err)
	}
	return s, nil
}

// UpsertStore creates or updates the owner's store profile
func (r *Repository) UpsertStore(store *models.Store) error {
	query := `
		INSERT INTO creditbook.stores (user_id, name, logo, created_at, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id) DO UPDATE
		SET name = EXCLUDED.name, logo = EXCLUDED.logo, updated_at = CURRENT_TIMESTAMP
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(query, store.UserID, store.Name, store.Logo).
		Scan(&store.ID, &store.CreatedAt, &store.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert store: %w", err)
	}
	return nil
}

// DueCredit pairs a credit with the customer's contact email for reminders
type DueCredit struct {
	Credit        models.Credit
	CustomerEmail string
}

// ListDueCredits returns unpaid credits due before the horizon, joined with
// customer contact details. Overdue credits are included.
func (r *Repository) ListDueCredits(horizon time.Time) ([]DueCredit, error) {
	query := `
		SELECT c.id, c.user_id, c.customer_id, c.customer_name, c.amount, c.paid_amount,
		       c.remaining_amount, c.due_date, c.status, c.created_at, cu.email
		FROM creditbook.credits c
		JOIN creditbook.customers cu ON cu.id = c.customer_id
		WHERE c.remaining_amount > 0 AND c.due_date <= $1
		ORDER BY c.due_date`
	rows, err := r.db.Query(query, horizon)
	if err != nil {
		return nil, fmt.Errorf("failed to list due credits: %w", err)
	}
	defer rows.Close()

	due := []DueCredit{}
	for rows.Next() {
		var d DueCredit
		if err := rows.Scan(&d.Credit.ID, &d.Credit.UserID, &d.Credit.CustomerID,
			&d.Credit.CustomerName, &d.Credit.Amount, &d.Credit.PaidAmount,
			&d.Credit.RemainingAmount, &d.Credit.DueDate, &d.Credit.Status,
			&d.Credit.CreatedAt, &d.CustomerEmail); err != nil {
			return nil, fmt.Errorf("failed to scan due credit: %w", err)
		}
		due = append(due, d)
	}
	return due, rows.Err()
}
