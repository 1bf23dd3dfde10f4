package lark

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	larkcore "github.com/larksuite/oapi-sdk-go/v3/core"
	larkim "github.com/larksuite/oapi-sdk-go/v3/service/im/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/techvibe/backoffice/internal/application/port"
	"github.com/techvibe/backoffice/internal/domain/entity"
)

type fakeMessages struct {
	last *larkim.CreateMessageReq
	resp *larkim.CreateMessageResp
	err  error
}

func (f *fakeMessages) Create(ctx context.Context, req *larkim.CreateMessageReq, options ...larkcore.RequestOptionFunc) (*larkim.CreateMessageResp, error) {
	f.last = req
	return f.resp, f.err
}

func okResp() *larkim.CreateMessageResp {
	return &larkim.CreateMessageResp{
		Data: &larkim.CreateMessageRespData{MessageId: larkcore.StringPtr("om_123")},
	}
}

func TestMessenger_NotifyLead(t *testing.T) {
	fake := &fakeMessages{resp: okResp()}
	m := &Messenger{messages: fake, chatID: "oc_sales", logger: zap.NewNop()}

	err := m.NotifyLead(context.Background(), entity.LeadQuote, port.LeadSummary{
		ID: 4, Name: "Rahim", Email: "rahim@example.test", Phone: "+8801700000000",
		Subject: "Mobile app", Body: "Need an \"MVP\"\nBudget: 5000",
	})
	require.NoError(t, err)

	require.NotNil(t, fake.last)
	body := fake.last.Body
	require.NotNil(t, body)
	assert.Equal(t, "oc_sales", *body.ReceiveId)
	assert.Equal(t, "text", *body.MsgType)

	var content map[string]string
	require.NoError(t, json.Unmarshal([]byte(*body.Content), &content))
	assert.Contains(t, content["text"], "New quote request (#4)")
	assert.Contains(t, content["text"], "From: Rahim <rahim@example.test>")
	assert.Contains(t, content["text"], "Need an \"MVP\"\nBudget: 5000")
}

func TestMessenger_Failures(t *testing.T) {
	m := &Messenger{messages: &fakeMessages{err: errors.New("timeout")}, chatID: "oc_sales", logger: zap.NewNop()}
	err := m.NotifyLead(context.Background(), entity.LeadContact, port.LeadSummary{ID: 1})
	assert.ErrorContains(t, err, "timeout")

	failed := okResp()
	failed.Code = 230002
	failed.Msg = "bot not in chat"
	m = &Messenger{messages: &fakeMessages{resp: failed}, chatID: "oc_sales", logger: zap.NewNop()}
	err = m.NotifyLead(context.Background(), entity.LeadContact, port.LeadSummary{ID: 1})
	assert.ErrorContains(t, err, "code=230002")

	m = &Messenger{messages: &fakeMessages{resp: okResp()}, logger: zap.NewNop()}
	assert.Error(t, m.NotifyLead(context.Background(), entity.LeadContact, port.LeadSummary{ID: 1}))
}

func TestNewLeadNotifier(t *testing.T) {
	n := NewLeadNotifier(Config{}, zap.NewNop())
	_, isNoop := n.(*NoopNotifier)
	assert.True(t, isNoop)
	assert.NoError(t, n.NotifyLead(context.Background(), entity.LeadMeeting, port.LeadSummary{ID: 2}))

	n = NewLeadNotifier(Config{AppID: "cli_x", AppSecret: "s", SalesChatID: "oc_sales"}, zap.NewNop())
	_, isMessenger := n.(*Messenger)
	assert.True(t, isMessenger)
}

func TestFormatLead_OmitsEmptyFields(t *testing.T) {
	text := formatLead(entity.LeadContact, port.LeadSummary{ID: 9, Name: "A", Email: "a@b.test"})
	assert.Equal(t, "New contact message (#9)\nFrom: A <a@b.test>", text)
}
