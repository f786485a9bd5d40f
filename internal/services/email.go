package services

import (
	"fmt"
	"net/smtp"

	"go.uber.org/zap"

	"boringblog/internal/config"
	"boringblog/internal/logger"
)

// EmailJob — письмо в очереди на отправку.
type EmailJob struct {
	To      string
	Subject string
	Body    string
	IsHTML  bool
}

// EmailQueue — глобальная очередь писем; наполняется сервисами,
// разгребается воркерами.
var EmailQueue = make(chan EmailJob, 100)

type EmailService struct {
	cfg *config.Config
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{cfg: cfg}
}

// StartEmailWorker разгребает очередь писем. Запускается в отдельной
// горутине; ошибка SMTP не ломает запрос, только логируется.
func StartEmailWorker(svc *EmailService) {
	for job := range EmailQueue {
		var err error
		if job.IsHTML {
			err = svc.SendHTML(job.To, job.Subject, job.Body)
		} else {
			err = svc.Send(job.To, job.Subject, job.Body)
		}
		if err != nil {
			logger.Log.Error("Не удалось отправить письмо",
				zap.String("to", job.To),
				zap.String("subject", job.Subject),
				zap.Error(err),
			)
		} else {
			logger.Log.Info("Письмо отправлено",
				zap.String("to", job.To),
				zap.String("subject", job.Subject),
			)
		}
	}
}

func (s *EmailService) Send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s",
		s.cfg.SMTPUser, to, subject, body)
	return s.send(to, []byte(msg))
}

func (s *EmailService) SendHTML(to, subject, htmlBody string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		s.cfg.SMTPUser, to, subject, htmlBody)
	return s.send(to, []byte(msg))
}

func (s *EmailService) send(to string, msg []byte) error {
	addr := s.cfg.SMTPHost + ":" + s.cfg.SMTPPort
	auth := smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	return smtp.SendMail(addr, auth, s.cfg.SMTPUser, []string{to}, msg)
}
