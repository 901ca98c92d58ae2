package services

import (
	"context"
	"fmt"

	"github.com/PGohila/LMS/internal/models"
	"github.com/PGohila/LMS/internal/repository"
)

// CustomerService handles borrower record management
type CustomerService struct {
	repo     repository.CustomerRepository
	appRepo  repository.ApplicationRepository
	auditSvc *AuditService
}

func NewCustomerService(repo repository.CustomerRepository, appRepo repository.ApplicationRepository, auditSvc *AuditService) *CustomerService {
	return &CustomerService{
		repo:     repo,
		appRepo:  appRepo,
		auditSvc: auditSvc,
	}
}

func (s *CustomerService) FindByID(ctx context.Context, id uint) (*models.Customer, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *CustomerService) FindByNationalID(ctx context.Context, nationalID string) (*models.Customer, error) {
	return s.repo.FindByNationalID(ctx, nationalID)
}

func (s *CustomerService) List(ctx context.Context, query *repository.ListQuery) ([]models.Customer, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *CustomerService) Create(ctx context.Context, customer *models.Customer, actorID uint) error {
	if err := s.repo.Create(ctx, customer); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, "CREATE", "Customer", customer.ID,
		fmt.Sprintf("Customer created: %s (%s)", customer.FullName, customer.NationalID), "", "")
}

func (s *CustomerService) Update(ctx context.Context, customer *models.Customer, actorID uint) error {
	if err := s.repo.Update(ctx, customer); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, "UPDATE", "Customer", customer.ID,
		fmt.Sprintf("Customer updated: %s", customer.FullName), "", "")
}

func (s *CustomerService) Delete(ctx context.Context, id uint, actorID uint) error {
	// A customer with open applications cannot be removed
	apps, err := s.appRepo.FindByCustomer(ctx, id)
	if err != nil {
		return err
	}
	for _, app := range apps {
		if app.IsApproved() || app.Status == models.ApplicationStatusSubmitted || app.Status == models.ApplicationStatusUnderReview {
			return fmt.Errorf("customer has active loan applications and cannot be deleted")
		}
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, "DELETE", "Customer", id, "Customer soft-deleted", "", "")
}

// Applications returns the customer's loan applications, newest first.
func (s *CustomerService) Applications(ctx context.Context, customerID uint) ([]models.LoanApplication, error) {
	return s.appRepo.FindByCustomer(ctx, customerID)
}
