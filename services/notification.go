package services

import (
	"fmt"
	"log"

	"proposalcard-backend/config"
	"proposalcard-backend/models"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type NotificationService struct{}

var notifService *NotificationService

func GetNotificationService() *NotificationService {
	if notifService == nil {
		notifService = &NotificationService{}
	}
	return notifService
}

// NotifyResponse emails the proposer once the partner has answered.
func (ns *NotificationService) NotifyResponse(email string, p *models.Proposal) {
	var subject string
	if p.Status == models.StatusAccepted {
		subject = fmt.Sprintf("💕 %s said yes!", p.PartnerName)
	} else {
		subject = fmt.Sprintf("%s has responded to your proposal", p.PartnerName)
	}

	ns.sendEmail(email, subject, buildResponseEmailHTML(p))
}

func (ns *NotificationService) sendEmail(toEmail, subject, htmlBody string) {
	if config.AppConfig.SendGridAPIKey == "" {
		log.Println("⚠️  SendGrid not configured, skipping email")
		return
	}

	from := mail.NewEmail(config.AppConfig.AppName, config.AppConfig.SendGridFrom)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", htmlBody)

	client := sendgrid.NewSendClient(config.AppConfig.SendGridAPIKey)
	resp, err := client.Send(message)
	if err != nil {
		log.Printf("❌ Email send error: %v", err)
		return
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		log.Printf("✅ Email sent to %s", toEmail)
	} else {
		log.Printf("⚠️  SendGrid returned status: %d", resp.StatusCode)
	}
}

func buildResponseEmailHTML(p *models.Proposal) string {
	headline := "💌 You have an answer"
	body := fmt.Sprintf("<strong>%s</strong> has responded to your proposal.", p.PartnerName)
	if p.Status == models.StatusAccepted {
		headline = "🎉 Congratulations!"
		body = fmt.Sprintf("<strong>%s</strong> said YES!", p.PartnerName)
	}

	reason := ""
	if p.ResponseMessage != "" {
		reason = fmt.Sprintf(`<div style="background: #f8f9fa; border-radius: 8px; padding: 16px; margin: 16px 0;">
			<p style="margin: 4px 0; font-style: italic;">&ldquo;%s&rdquo;</p>
		</div>`, p.ResponseMessage)
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #fdf2f8;">
	<div style="background: white; border-radius: 12px; padding: 32px; box-shadow: 0 2px 8px rgba(0,0,0,0.1);">
		<h2 style="color: #ec4899; margin-top: 0;">%s</h2>
		<p>Hi <strong>%s</strong>,</p>
		<p>%s</p>
		%s
		<p style="color: #999; font-size: 12px; margin-top: 24px;">— %s</p>
	</div>
</body>
</html>`, headline, p.ProposerName, body, reason, config.AppConfig.AppName)
}
