package email

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v3"
	"github.com/rs/zerolog/log"

	"warehouse-manager/internal/config"
	"warehouse-manager/internal/domain"
	"warehouse-manager/internal/pkg/i18n"
	"warehouse-manager/internal/repository"
)

//go:embed templates/*.html
var templateFS embed.FS

var ErrRecipientNotFound = errors.New("alert recipient not found")

type Service interface {
	SendCriticalAlert(ctx context.Context, n domain.Notification) error
}

type mailer interface {
	Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type service struct {
	mailer   mailer
	userRepo repository.UserRepository
	config   *config.Config
	tmpl     *template.Template
}

func NewService(cfg *config.Config, userRepo repository.UserRepository) Service {
	client := resend.NewClient(cfg.ResendAPIKey)
	return newService(cfg, userRepo, client.Emails)
}

func newService(cfg *config.Config, userRepo repository.UserRepository, m mailer) *service {
	return &service{
		mailer:   m,
		userRepo: userRepo,
		config:   cfg,
		tmpl:     template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/critical_alert.html")),
	}
}

// SendCriticalAlert emails the owner of n. Notifications without an owner and
// deployments without a Resend key are skipped.
func (s *service) SendCriticalAlert(ctx context.Context, n domain.Notification) error {
	if s.config.ResendAPIKey == "" || n.UserID == nil {
		log.Debug().Str("notification_id", n.ID.String()).Msg("critical alert email skipped")
		return nil
	}

	user, err := s.userRepo.GetByID(ctx, *n.UserID)
	if err != nil {
		return fmt.Errorf("failed to load alert recipient: %w", err)
	}
	if user == nil || !user.IsActive {
		return ErrRecipientNotFound
	}

	data := struct {
		Title     string
		Name      string
		Message   string
		Category  string
		CreatedAt string
		ActionURL string
		Color     string
	}{
		Title:     n.Title,
		Name:      user.FullName,
		Message:   n.Message,
		Category:  n.Category,
		CreatedAt: n.CreatedAt.UTC().Format("02 Jan 2006 15:04 MST"),
		Color:     "#ef4444",
	}
	if n.ActionURL != nil {
		data.ActionURL = *n.ActionURL
	}

	return s.sendEmail(user.Email, i18n.T("alert_subject", n.Title), data)
}

func (s *service) sendEmail(toEmail, subject string, data interface{}) error {
	var body bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&body, "layout", data); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("Warehouse Manager <%s>", s.config.FromEmail),
		To:      []string{toEmail},
		Html:    body.String(),
		Subject: subject,
	}

	_, err := s.mailer.Send(params)
	return err
}
