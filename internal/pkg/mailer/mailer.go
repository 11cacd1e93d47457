package mailer

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"worksync/internal/pkg/config"
)

// Message 待发送邮件
type Message struct {
	To       string
	Subject  string
	Template string
	Data     interface{}
}

// Mailer 邮件发送接口
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}

// New 按配置选择实现：未配置 SMTP 时只记录日志
func New(cfg *config.MailConfig, logger *zap.Logger) Mailer {
	if cfg.Host == "" {
		return NewLogMailer(logger)
	}
	return NewSMTPMailer(cfg)
}

// ============= SMTP =============

// SMTPMailer 基于 gomail 的 SMTP 发送
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer 创建 SMTP 发送器
func NewSMTPMailer(cfg *config.MailConfig) *SMTPMailer {
	m := &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
	m.from = gomail.NewMessage().FormatAddress(cfg.FromEmail, cfg.FromName)
	return m
}

// Send 渲染模板并发送
func (m *SMTPMailer) Send(ctx context.Context, msg *Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	text, html, err := render(msg)
	if err != nil {
		return err
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", text)
	gm.AddAlternative("text/html", html)

	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}
	return nil
}

// ============= 日志发送器(开发环境) =============

// LogMailer 只把邮件内容写入日志
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer 创建日志发送器
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send 记录邮件到日志
func (m *LogMailer) Send(_ context.Context, msg *Message) error {
	text, _, err := render(msg)
	if err != nil {
		return err
	}
	m.logger.Info("邮件(未配置SMTP，仅记录)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", text))
	return nil
}

// ============= 模板 =============

type bodyTemplates struct {
	text string
	html string
}

var templates = map[string]bodyTemplates{
	TemplatePasswordReset: {
		text: `Forgot your password? Submit a PATCH request with your new password and passwordConfirm to: {{.ResetURL}}
If you didn't forget your password, please ignore this email!
This link is valid for {{.ValidMinutes}} minutes.`,
		html: `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
    <h2>Hi {{.Name}},</h2>
    <p>Forgot your password? Use the link below to choose a new one.</p>
    <p><a href="{{.ResetURL}}">Reset your password</a></p>
    <p>This link is valid for {{.ValidMinutes}} minutes. If you didn't forget your password, please ignore this email!</p>
</body>
</html>`,
	},
}

const TemplatePasswordReset = "password_reset"

// PasswordResetData 重置密码邮件参数
type PasswordResetData struct {
	Name         string
	ResetURL     string
	ValidMinutes int
}

func render(msg *Message) (string, string, error) {
	tpl, ok := templates[msg.Template]
	if !ok {
		return "", "", fmt.Errorf("邮件模板不存在: %s", msg.Template)
	}

	var text bytes.Buffer
	t, err := texttemplate.New(msg.Template).Parse(tpl.text)
	if err != nil {
		return "", "", fmt.Errorf("解析模板失败: %w", err)
	}
	if err := t.Execute(&text, msg.Data); err != nil {
		return "", "", fmt.Errorf("渲染模板失败: %w", err)
	}

	var html bytes.Buffer
	h, err := htmltemplate.New(msg.Template).Parse(tpl.html)
	if err != nil {
		return "", "", fmt.Errorf("解析模板失败: %w", err)
	}
	if err := h.Execute(&html, msg.Data); err != nil {
		return "", "", fmt.Errorf("渲染模板失败: %w", err)
	}

	return text.String(), html.String(), nil
}
