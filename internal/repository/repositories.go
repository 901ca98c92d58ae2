package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	User         UserRepository
	Customer     CustomerRepository
	Application  ApplicationRepository
	Schedule     ScheduleRepository
	LoanAccount  LoanAccountRepository
	Document     DocumentRepository
	Modification ModificationRepository
	PastDue      PastDueRepository
	Settlement   SettlementRepository
	Notification NotificationRepository
	RefreshToken RefreshTokenRepository
	Portfolio    PortfolioRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Customer:     NewCustomerRepository(db),
		Application:  NewApplicationRepository(db),
		Schedule:     NewScheduleRepository(db),
		LoanAccount:  NewLoanAccountRepository(db),
		Document:     NewDocumentRepository(db),
		Modification: NewModificationRepository(db),
		PastDue:      NewPastDueRepository(db),
		Settlement:   NewSettlementRepository(db),
		Notification: NewNotificationRepository(db),
		RefreshToken: NewRefreshTokenRepository(db),
		Portfolio:    NewPortfolioRepository(db),
	}
}
