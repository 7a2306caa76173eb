package main

import (
	"errors"
	"fmt"
	"html"
	"net/http"
	"net/smtp"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/spenceriam/portfolio/internal/logutil"
)

// ContactMessage is the payload of the contact form.
type ContactMessage struct {
	Name    string `json:"name" form:"fullName" binding:"required"`
	Email   string `json:"email" form:"email" binding:"required,email"`
	Message string `json:"message" form:"message" binding:"required"`
}

// Mailer delivers contact messages to the site owner.
type Mailer interface {
	Send(msg ContactMessage) error
}

var errSMTPNotConfigured = errors.New("SMTP credentials not configured")

var mailer Mailer = smtpMailer{}

type smtpMailer struct {
	cfg smtpConfig
}

func (m smtpMailer) Send(msg ContactMessage) error {
	if m.cfg.User == "" || m.cfg.Pass == "" {
		return errSMTPNotConfigured
	}

	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	err := smtp.SendMail(m.cfg.Host+":"+m.cfg.Port, auth, m.cfg.User, []string{m.cfg.To}, composeEmail(m.cfg, msg))
	if err != nil {
		return fmt.Errorf("send mail via %s: %w", m.cfg.Host, err)
	}
	return nil
}

// composeEmail builds an HTML message. Header values are stripped of line
// breaks so a submitter cannot inject extra headers.
func composeEmail(cfg smtpConfig, msg ContactMessage) []byte {
	subject := "Portfolio Contact: " + headerSafe(msg.Name)
	body := fmt.Sprintf(`<h3>New Contact Form Submission</h3>
<p><strong>Name:</strong> %s</p>
<p><strong>Email:</strong> %s</p>
<p><strong>Message:</strong></p>
<p>%s</p>
`, html.EscapeString(msg.Name), html.EscapeString(msg.Email),
		strings.ReplaceAll(html.EscapeString(msg.Message), "\n", "<br>"))

	return []byte("To: " + cfg.To + "\r\n" +
		"From: " + cfg.User + "\r\n" +
		"Reply-To: " + headerSafe(msg.Email) + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=UTF-8\r\n" +
		"\r\n" +
		body + "\r\n")
}

func headerSafe(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}

// relayContact sends msg and archives it whether or not delivery worked.
func relayContact(msg ContactMessage) error {
	sendErr := mailer.Send(msg)
	if err := saveContactMessage(msg, sendErr == nil); err != nil {
		logutil.Errorf("archiving contact message: %v", err)
	}
	if sendErr != nil {
		return sendErr
	}
	logutil.Infof("contact message relayed for %s", headerSafe(msg.Name))
	return nil
}

// handleSendEmail is the JSON relay used by the contact modal.
func handleSendEmail(c *gin.Context) {
	var msg ContactMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "name, a valid email and message are required"})
		return
	}

	if err := relayContact(msg); err != nil {
		logutil.Errorf("email error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to send email"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// handleContactForm accepts the HTMX form and answers with a fragment.
func handleContactForm(c *gin.Context) {
	var msg ContactMessage
	if err := c.ShouldBind(&msg); err != nil {
		c.HTML(http.StatusOK, "contact-error.html", gin.H{
			"error": "Please fill in your name, a valid email address and a message.",
		})
		return
	}

	if err := relayContact(msg); err != nil {
		logutil.Errorf("email error: %v", err)
		c.HTML(http.StatusOK, "contact-error.html", gin.H{
			"error": "Sorry, there was an error sending your message. Please try again later.",
		})
		return
	}

	c.HTML(http.StatusOK, "contact-success.html", gin.H{
		"success": "Thank you for your message! I'll get back to you soon.",
	})
}
