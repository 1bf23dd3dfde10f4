package lark

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	larkcore "github.com/larksuite/oapi-sdk-go/v3/core"
	larkim "github.com/larksuite/oapi-sdk-go/v3/service/im/v1"
	"go.uber.org/zap"

	"github.com/techvibe/backoffice/internal/application/port"
	"github.com/techvibe/backoffice/internal/domain/entity"
)

// messageCreator is the slice of the IM API the messenger needs
type messageCreator interface {
	Create(ctx context.Context, req *larkim.CreateMessageReq, options ...larkcore.RequestOptionFunc) (*larkim.CreateMessageResp, error)
}

var leadTitles = map[entity.LeadKind]string{
	entity.LeadContact: "New contact message",
	entity.LeadQuote:   "New quote request",
	entity.LeadMeeting: "New meeting request",
}

// Messenger posts lead alerts into the sales group chat.
// It implements port.LeadNotifier.
type Messenger struct {
	messages messageCreator
	chatID   string
	logger   *zap.Logger
}

// NewMessenger creates a messenger bound to the configured sales chat
func NewMessenger(client *SDKClient, logger *zap.Logger) *Messenger {
	return &Messenger{
		messages: client.GetClient().Im.Message,
		chatID:   client.SalesChatID(),
		logger:   logger,
	}
}

// NotifyLead sends a plain text summary of the lead
func (m *Messenger) NotifyLead(ctx context.Context, kind entity.LeadKind, summary port.LeadSummary) error {
	if m.chatID == "" {
		return fmt.Errorf("sales chat id is not configured")
	}

	content, err := textContent(formatLead(kind, summary))
	if err != nil {
		return err
	}

	_, err = m.send(ctx, "chat_id", m.chatID, "text", content)
	return err
}

// send creates a single IM message and returns its id
func (m *Messenger) send(ctx context.Context, receiveIDType, receiveID, msgType, content string) (string, error) {
	req := larkim.NewCreateMessageReqBuilder().
		ReceiveIdType(receiveIDType).
		Body(larkim.NewCreateMessageReqBodyBuilder().
			ReceiveId(receiveID).
			MsgType(msgType).
			Content(content).
			Build()).
		Build()

	resp, err := m.messages.Create(ctx, req)
	if err != nil {
		m.logger.Error("Failed to send message",
			zap.String("receive_id", receiveID),
			zap.Error(err))
		return "", fmt.Errorf("failed to send message: %w", err)
	}

	if !resp.Success() {
		m.logger.Error("API returned failure",
			zap.String("receive_id", receiveID),
			zap.Int("code", resp.Code),
			zap.String("msg", resp.Msg))
		return "", fmt.Errorf("API error: code=%d, msg=%s", resp.Code, resp.Msg)
	}

	messageID := ""
	if resp.Data != nil && resp.Data.MessageId != nil {
		messageID = *resp.Data.MessageId
	}

	m.logger.Info("Message sent",
		zap.String("message_id", messageID),
		zap.String("receive_id", receiveID))
	return messageID, nil
}

func formatLead(kind entity.LeadKind, s port.LeadSummary) string {
	title, ok := leadTitles[kind]
	if !ok {
		title = "New lead"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (#%d)\n", title, s.ID)
	fmt.Fprintf(&b, "From: %s <%s>\n", s.Name, s.Email)
	if s.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", s.Phone)
	}
	if s.Subject != "" {
		fmt.Fprintf(&b, "Subject: %s\n", s.Subject)
	}
	if s.Body != "" {
		b.WriteString("\n")
		b.WriteString(s.Body)
	}
	return strings.TrimRight(b.String(), "\n")
}

func textContent(text string) (string, error) {
	raw, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return "", fmt.Errorf("failed to encode message: %w", err)
	}
	return string(raw), nil
}

// NoopNotifier logs leads when no Lark bot is configured
type NoopNotifier struct {
	logger *zap.Logger
}

func NewNoopNotifier(logger *zap.Logger) *NoopNotifier {
	return &NoopNotifier{logger: logger}
}

func (n *NoopNotifier) NotifyLead(ctx context.Context, kind entity.LeadKind, summary port.LeadSummary) error {
	n.logger.Info("Lead notification skipped, Lark not configured",
		zap.String("kind", string(kind)),
		zap.Int64("id", summary.ID))
	return nil
}

// NewLeadNotifier picks the Lark messenger when configured, otherwise a no-op
func NewLeadNotifier(cfg Config, logger *zap.Logger) port.LeadNotifier {
	if !cfg.Configured() {
		return NewNoopNotifier(logger)
	}
	return NewMessenger(NewSDKClient(cfg, logger), logger)
}

var (
	_ port.LeadNotifier = (*Messenger)(nil)
	_ port.LeadNotifier = (*NoopNotifier)(nil)
)
