// Package mail sends outgoing email over SMTP. Settings come from the
// environment (see config.MailConfig); when no host is configured the
// sender reports unconfigured and callers fall back to logging.
package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	netmail "net/mail"
	gosmtp "net/smtp"
	"strings"
	"time"
)

// dialTimeout bounds the initial TCP/TLS connection to the SMTP server.
const dialTimeout = 10 * time.Second

// Sender sends mail using fixed SMTP settings. It satisfies the
// auth.MailSender contract used for password reset emails.
type Sender struct {
	host        string
	port        int
	username    string
	password    string
	fromAddress string
	fromName    string
	encryption  string
}

// Config holds the SMTP settings for a Sender.
type Config struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string

	// Encryption selects the transport mode: "starttls" (default),
	// "ssl", or "none".
	Encryption string
}

// NewSender creates a Sender from the given settings.
func NewSender(cfg Config) *Sender {
	port := cfg.Port
	if port <= 0 {
		port = 587
	}
	encryption := cfg.Encryption
	if encryption == "" {
		encryption = "starttls"
	}
	return &Sender{
		host:        cfg.Host,
		port:        port,
		username:    cfg.Username,
		password:    cfg.Password,
		fromAddress: cfg.FromAddress,
		fromName:    cfg.FromName,
		encryption:  encryption,
	}
}

// IsConfigured returns true if an SMTP host has been set.
func (s *Sender) IsConfigured(ctx context.Context) bool {
	return s.host != ""
}

// SendMail sends a plain-text email to the given recipients.
func (s *Sender) SendMail(ctx context.Context, to []string, subject, body string) error {
	if s.host == "" {
		return fmt.Errorf("smtp is not configured")
	}

	from := netmail.Address{Name: s.fromName, Address: s.fromAddress}

	// Build RFC 2822 message.
	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", from.String()))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(to, ", ")))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString(fmt.Sprintf("Date: %s\r\n", time.Now().UTC().Format(time.RFC1123Z)))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", s.host, s.port)

	switch s.encryption {
	case "ssl":
		return s.sendSSL(addr, from.Address, to, msg.String())
	case "none":
		return s.sendPlain(addr, from.Address, to, msg.String())
	default: // "starttls"
		return s.sendStartTLS(addr, from.Address, to, msg.String())
	}
}

// sendStartTLS sends email using STARTTLS (port 587 typical).
func (s *Sender) sendStartTLS(addr, from string, to []string, msg string) error {
	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", addr, err)
	}
	defer conn.Close()

	client, err := gosmtp.NewClient(conn, s.host)
	if err != nil {
		return fmt.Errorf("creating smtp client: %w", err)
	}
	defer client.Close()

	tlsConfig := &tls.Config{ServerName: s.host, MinVersion: tls.VersionTLS12}
	if err := client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("starting TLS: %w", err)
	}

	if err := s.authenticate(client); err != nil {
		return err
	}

	return s.sendMessage(client, from, to, msg)
}

// sendSSL sends email using implicit SSL/TLS (port 465 typical).
func (s *Sender) sendSSL(addr, from string, to []string, msg string) error {
	tlsConfig := &tls.Config{ServerName: s.host, MinVersion: tls.VersionTLS12}
	conn, err := tls.DialWithDialer(&net.Dialer{Timeout: dialTimeout}, "tcp", addr, tlsConfig)
	if err != nil {
		return fmt.Errorf("connecting to %s (SSL): %w", addr, err)
	}
	defer conn.Close()

	client, err := gosmtp.NewClient(conn, s.host)
	if err != nil {
		return fmt.Errorf("creating smtp client: %w", err)
	}
	defer client.Close()

	if err := s.authenticate(client); err != nil {
		return err
	}

	return s.sendMessage(client, from, to, msg)
}

// sendPlain sends email without encryption.
func (s *Sender) sendPlain(addr, from string, to []string, msg string) error {
	var auth gosmtp.Auth
	if s.username != "" {
		auth = gosmtp.PlainAuth("", s.username, s.password, s.host)
	}
	if err := gosmtp.SendMail(addr, auth, from, to, []byte(msg)); err != nil {
		return fmt.Errorf("sending mail: %w", err)
	}
	return nil
}

// authenticate performs SMTP AUTH when a username is configured.
func (s *Sender) authenticate(client *gosmtp.Client) error {
	if s.username == "" {
		return nil
	}
	auth := gosmtp.PlainAuth("", s.username, s.password, s.host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("authenticating: %w", err)
	}
	return nil
}

// sendMessage handles MAIL FROM, RCPT TO, DATA for an existing SMTP client.
func (s *Sender) sendMessage(client *gosmtp.Client, from string, to []string, msg string) error {
	if err := client.Mail(from); err != nil {
		return fmt.Errorf("MAIL FROM: %w", err)
	}
	for _, recipient := range to {
		if err := client.Rcpt(recipient); err != nil {
			return fmt.Errorf("RCPT TO %s: %w", recipient, err)
		}
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("DATA: %w", err)
	}
	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("writing message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing data: %w", err)
	}
	return client.Quit()
}
