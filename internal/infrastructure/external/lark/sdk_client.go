package lark

import (
	lark "github.com/larksuite/oapi-sdk-go/v3"
	larkcore "github.com/larksuite/oapi-sdk-go/v3/core"
	"go.uber.org/zap"
)

// Config holds Lark bot configuration
type Config struct {
	AppID       string
	AppSecret   string
	SalesChatID string // group chat that receives lead alerts
}

// Configured reports whether enough is set to talk to Lark
func (c Config) Configured() bool {
	return c.AppID != "" && c.AppSecret != "" && c.SalesChatID != ""
}

// SDKClient wraps the Lark SDK client
type SDKClient struct {
	client *lark.Client
	cfg    Config
	logger *zap.Logger
}

// NewSDKClient creates a new Lark SDK client
func NewSDKClient(cfg Config, logger *zap.Logger) *SDKClient {
	client := lark.NewClient(cfg.AppID, cfg.AppSecret,
		lark.WithLogLevel(larkcore.LogLevelWarn),
		lark.WithEnableTokenCache(true),
	)

	return &SDKClient{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// GetClient returns the underlying Lark SDK client
func (c *SDKClient) GetClient() *lark.Client {
	return c.client
}

func (c *SDKClient) SalesChatID() string {
	return c.cfg.SalesChatID
}
