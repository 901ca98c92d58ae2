package services

import (
	"gorm.io/gorm"

	"github.com/PGohila/LMS/internal/amortization"
	"github.com/PGohila/LMS/internal/cache"
	"github.com/PGohila/LMS/internal/config"
	"github.com/PGohila/LMS/internal/jobs"
	"github.com/PGohila/LMS/internal/repository"
	"github.com/PGohila/LMS/internal/storage"
)

// Services holds all service instances
type Services struct {
	Auth         *AuthService
	User         *UserService
	Customer     *CustomerService
	Application  *ApplicationService
	Calculator   *CalculatorService
	Account      *AccountService
	Repayment    *RepaymentService
	Modification *ModificationService
	Settlement   *SettlementService
	PastDue      *PastDueService
	Document     *DocumentService
	Notification *NotificationService
	Report       *ReportService
	Export       *ExportService
	Portfolio    *PortfolioService
	Audit        *AuditService
	CreditScore  *CreditScoreService
	Email        *EmailService
	Job          *JobService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, storage *storage.LocalStorage, cfg *config.Config, db *gorm.DB, planCache *cache.PlanCache) *Services {
	notificationSvc := NewNotificationService(repos.Notification, repos.User)
	emailSvc := NewEmailService(cfg)
	auditSvc := NewAuditService(db)

	engine := amortization.NewEngine(amortization.DefaultConfig())

	portfolioSvc := NewPortfolioService(repos.Portfolio, repos.Application)
	jobSvc := NewJobService(worker)

	return &Services{
		Auth:         NewAuthService(repos.User, repos.RefreshToken, cfg),
		User:         NewUserService(repos.User, worker, emailSvc, auditSvc),
		Customer:     NewCustomerService(repos.Customer, repos.Application, auditSvc),
		Application:  NewApplicationService(repos.Application, repos.Customer, repos.Schedule, repos.LoanAccount, engine, notificationSvc, emailSvc, auditSvc, worker),
		Calculator:   NewCalculatorService(engine, planCache),
		Account:      NewAccountService(repos.LoanAccount),
		Repayment:    NewRepaymentService(db, notificationSvc, emailSvc, auditSvc, worker),
		Modification: NewModificationService(repos.Modification, repos.Application, repos.Schedule, repos.LoanAccount, engine, auditSvc),
		Settlement:   NewSettlementService(repos.Settlement, repos.LoanAccount, repos.Schedule, repos.Application, notificationSvc, auditSvc, worker),
		PastDue:      NewPastDueService(repos.PastDue, repos.Schedule, repos.LoanAccount, repos.Customer, notificationSvc, emailSvc, auditSvc, worker),
		Document:     NewDocumentService(repos.Document, storage, auditSvc),
		Notification: notificationSvc,
		Report:       NewReportService(repos.Application, repos.Schedule, repos.LoanAccount),
		Export:       NewExportService(portfolioSvc, repos.Schedule),
		Portfolio:    portfolioSvc,
		Audit:        auditSvc,
		CreditScore:  NewCreditScoreService(repos.Customer, repos.Application, repos.Schedule),
		Email:        emailSvc,
		Job:          jobSvc,
	}
}
