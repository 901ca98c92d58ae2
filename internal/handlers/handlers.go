package handlers

import (
	"github.com/PGohila/LMS/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health       *HealthHandler
	Auth         *AuthHandler
	User         *UserHandler
	Customer     *CustomerHandler
	Application  *ApplicationHandler
	Calculator   *CalculatorHandler
	Account      *LoanAccountHandler
	Modification *ModificationHandler
	Settlement   *SettlementHandler
	PastDue      *PastDueHandler
	Document     *DocumentHandler
	Notification *NotificationHandler
	Report       *ReportHandler
	Portfolio    *PortfolioHandler
	Audit        *AuditHandler
	Job          *JobHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services) *Handlers {
	return &Handlers{
		Health:       NewHealthHandler(),
		Auth:         NewAuthHandler(svcs.Auth),
		User:         NewUserHandler(svcs.User),
		Customer:     NewCustomerHandler(svcs.Customer, svcs.Document),
		Application:  NewApplicationHandler(svcs.Application, svcs.Document),
		Calculator:   NewCalculatorHandler(svcs.Calculator),
		Account:      NewLoanAccountHandler(svcs.Account, svcs.Repayment),
		Modification: NewModificationHandler(svcs.Modification),
		Settlement:   NewSettlementHandler(svcs.Settlement),
		PastDue:      NewPastDueHandler(svcs.PastDue),
		Document:     NewDocumentHandler(svcs.Document),
		Notification: NewNotificationHandler(svcs.Notification),
		Report:       NewReportHandler(svcs.Report),
		Portfolio:    NewPortfolioHandler(svcs.Portfolio, svcs.Export),
		Audit:        NewAuditHandler(svcs.Audit),
		Job:          NewJobHandler(svcs.Job),
	}
}
