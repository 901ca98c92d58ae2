package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v2"

	"github.com/PGohila/LMS/internal/config"
	"github.com/PGohila/LMS/internal/models"
	"github.com/PGohila/LMS/pkg/logger"
)

//go:embed templates/email/*.html
var emailTemplates embed.FS

type EmailService struct {
	config       *config.Config
	resendClient *resend.Client
}

func NewEmailService(cfg *config.Config) *EmailService {
	client := resend.NewClient(cfg.ResendAPIKey)
	return &EmailService{
		config:       cfg,
		resendClient: client,
	}
}

func (s *EmailService) SendRecoveryCode(ctx context.Context, user *models.User, code string) error {
	data := struct {
		Name    string
		Code    string
		Minutes int
		AppURL  string
	}{
		Name:    user.FullName,
		Code:    code,
		Minutes: 15,
		AppURL:  s.config.AppURL,
	}

	body, err := s.renderTemplate("reset_code.html", data)
	if err != nil {
		return err
	}

	return s.send(user.Email, "Password reset code", body)
}

func (s *EmailService) SendAccountCreated(ctx context.Context, user *models.User) error {
	data := struct {
		Name   string
		AppURL string
	}{
		Name:   user.FullName,
		AppURL: s.config.AppURL,
	}

	body, err := s.renderTemplate("account_created.html", data)
	if err != nil {
		return err
	}

	return s.send(user.Email, "Your account has been created", body)
}

func (s *EmailService) SendApplicationSubmitted(ctx context.Context, application *models.LoanApplication) error {
	data := struct {
		Name        string
		ProductName string
		Amount      string
		Term        string
		SubmittedAt string
		AppURL      string
	}{
		Name:        application.Customer.FullName,
		ProductName: application.ProductName,
		Amount:      application.Amount.StringFixed(2),
		Term:        fmt.Sprintf("%s %s", application.TermCount.String(), application.TermUnit),
		SubmittedAt: application.CreatedAt.Format("02/01/2006 15:04"),
		AppURL:      s.config.AppURL,
	}

	body, err := s.renderTemplate("application_submitted.html", data)
	if err != nil {
		return err
	}

	return s.send(application.Customer.Email, "Loan application received", body)
}

func (s *EmailService) SendApplicationApproved(ctx context.Context, application *models.LoanApplication, firstInstallment, firstDueDate string) error {
	data := struct {
		Name             string
		ProductName      string
		Amount           string
		InterestRate     string
		Term             string
		FirstInstallment string
		FirstDueDate     string
		AppURL           string
	}{
		Name:             application.Customer.FullName,
		ProductName:      application.ProductName,
		Amount:           application.Amount.StringFixed(2),
		InterestRate:     application.InterestRate.StringFixed(2),
		Term:             fmt.Sprintf("%s %s", application.TermCount.String(), application.TermUnit),
		FirstInstallment: firstInstallment,
		FirstDueDate:     firstDueDate,
		AppURL:           s.config.AppURL,
	}

	body, err := s.renderTemplate("application_approved.html", data)
	if err != nil {
		return err
	}

	return s.send(application.Customer.Email, "Loan application approved", body)
}

func (s *EmailService) SendApplicationRejected(ctx context.Context, application *models.LoanApplication, reason string) error {
	data := struct {
		Name        string
		ProductName string
		Reason      string
		AppURL      string
	}{
		Name:        application.Customer.FullName,
		ProductName: application.ProductName,
		Reason:      reason,
		AppURL:      s.config.AppURL,
	}

	body, err := s.renderTemplate("application_rejected.html", data)
	if err != nil {
		return err
	}

	return s.send(application.Customer.Email, "Loan application update", body)
}

func (s *EmailService) SendRepaymentReceived(ctx context.Context, account *models.LoanAccount, amount, outstanding string) error {
	data := struct {
		Name          string
		AccountNumber string
		Amount        string
		Outstanding   string
		AppURL        string
	}{
		Name:          account.Customer.FullName,
		AccountNumber: account.AccountNumber,
		Amount:        amount,
		Outstanding:   outstanding,
		AppURL:        s.config.AppURL,
	}

	body, err := s.renderTemplate("repayment_received.html", data)
	if err != nil {
		return err
	}

	return s.send(account.Customer.Email, "Repayment received", body)
}

type OverdueInstallmentData struct {
	AccountNumber string
	Period        int
	Amount        string
	DueDate       string
}

func (s *EmailService) SendOverdueInstallments(ctx context.Context, customer *models.Customer, installments []OverdueInstallmentData) error {
	data := struct {
		Name         string
		Installments []OverdueInstallmentData
		AppURL       string
	}{
		Name:         customer.FullName,
		Installments: installments,
		AppURL:       s.config.AppURL,
	}

	body, err := s.renderTemplate("overdue_installments.html", data)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Overdue installments (%d)", len(installments))
	return s.send(customer.Email, subject, body)
}

func (s *EmailService) SendInstallmentReminder(ctx context.Context, customer *models.Customer, accountNumber, amount, dueDate string) error {
	data := struct {
		Name          string
		AccountNumber string
		Amount        string
		DueDate       string
		AppURL        string
	}{
		Name:          customer.FullName,
		AccountNumber: accountNumber,
		Amount:        amount,
		DueDate:       dueDate,
		AppURL:        s.config.AppURL,
	}

	body, err := s.renderTemplate("installment_reminder.html", data)
	if err != nil {
		return err
	}

	return s.send(customer.Email, "Upcoming installment reminder", body)
}

func (s *EmailService) send(to, subject, body string) error {
	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{to},
		Subject: subject,
		Html:    body,
	}
	_, err := s.resendClient.Emails.Send(params)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to send email to %s: %v", to, err))
		return err
	}

	logger.Info(fmt.Sprintf("📧 [Email Sent] To: %s | Subject: %s", to, subject))
	return nil
}

func (s *EmailService) renderTemplate(name string, data interface{}) (string, error) {
	tmpl, err := template.ParseFS(emailTemplates, "templates/email/"+name)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}
