package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/PGohila/LMS/internal/models"
)

// LoanAccountRepository defines the interface for loan account data access.
// Balance-mutating flows (repayment application, settlement completion) run
// inside a database transaction owned by the service layer so that concurrent
// repayments against the same account serialize on the row lock.
type LoanAccountRepository interface {
	FindByID(ctx context.Context, id uint) (*models.LoanAccount, error)
	FindByApplication(ctx context.Context, applicationID uint) (*models.LoanAccount, error)
	Create(ctx context.Context, account *models.LoanAccount) error
	Update(ctx context.Context, account *models.LoanAccount) error
	List(ctx context.Context, query *ListQuery) ([]models.LoanAccount, int64, error)
	CreateTransaction(ctx context.Context, txn *models.Transaction) error
	FindTransactions(ctx context.Context, accountID uint) ([]models.Transaction, error)
}

type loanAccountRepository struct {
	db *gorm.DB
}

// NewLoanAccountRepository creates a new loan account repository
func NewLoanAccountRepository(db *gorm.DB) LoanAccountRepository {
	return &loanAccountRepository{db: db}
}

func (r *loanAccountRepository) FindByID(ctx context.Context, id uint) (*models.LoanAccount, error) {
	var account models.LoanAccount
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Application").
		First(&account, id).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *loanAccountRepository) FindByApplication(ctx context.Context, applicationID uint) (*models.LoanAccount, error) {
	var account models.LoanAccount
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *loanAccountRepository) Create(ctx context.Context, account *models.LoanAccount) error {
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		if isDuplicateKeyError(err, "loan_accounts_application_id_key") {
			return errors.New("an account already exists for this application")
		}
		return err
	}
	return nil
}

func (r *loanAccountRepository) Update(ctx context.Context, account *models.LoanAccount) error {
	return r.db.WithContext(ctx).Save(account).Error
}

func (r *loanAccountRepository) List(ctx context.Context, query *ListQuery) ([]models.LoanAccount, int64, error) {
	var accounts []models.LoanAccount
	var total int64

	db := r.db.WithContext(ctx).Model(&models.LoanAccount{})

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Joins("JOIN customers ON customers.id = loan_accounts.customer_id").
			Where("loan_accounts.account_number ILIKE ? OR customers.full_name ILIKE ? OR customers.national_id ILIKE ?",
				search, search, search)
	}

	if query.Filters["status"] != "" {
		db = db.Where("loan_accounts.status = ?", query.Filters["status"])
	}

	if query.Filters["customer_id"] != "" {
		db = db.Where("loan_accounts.customer_id = ?", query.Filters["customer_id"])
	}

	db.Count(&total)

	if query.SortBy != "" {
		order := "loan_accounts." + query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("loan_accounts.created_at DESC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Preload("Customer").Find(&accounts).Error
	return accounts, total, err
}

func (r *loanAccountRepository) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *loanAccountRepository) FindTransactions(ctx context.Context, accountID uint) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := r.db.WithContext(ctx).
		Where("loan_account_id = ?", accountID).
		Order("created_at DESC").
		Find(&txns).Error
	return txns, err
}
