// Package service contains the protocol logic behind the API handlers:
// registration and verification, login and refresh, the feed, and outbound
// mail.
package service

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
	"gopkg.in/gomail.v2"
)

// OtpSender delivers a verification code to an address. Delivery is
// fire-and-forget from the registration protocol's point of view.
type OtpSender interface {
	SendOtp(to, code string) error
}

// Mailer sends verification codes over SMTP.
type Mailer struct {
	host     string
	port     int
	from     string
	password string
	enabled  bool
}

func NewMailer() *Mailer {
	return &Mailer{
		host:     viper.GetString("mail.host"),
		port:     viper.GetInt("mail.port"),
		from:     viper.GetString("mail.sender_address"),
		password: viper.GetString("mail.password"),
		enabled:  viper.GetBool("mail.enabled"),
	}
}

func (m *Mailer) SendOtp(to, code string) error {
	if !m.enabled {
		return nil
	}

	if to == m.from {
		return errors.New("invalid recipient address")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Your Matchday verification code")
	msg.SetBody("text/html", fmt.Sprintf(
		"Your verification code is <b>%v</b>.<br><br>It expires in 10 minutes.", code))

	d := gomail.NewDialer(m.host, m.port, m.from, m.password)

	return d.DialAndSend(msg)
}
