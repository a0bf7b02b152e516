package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"kasirpay/config"
)

// WhatsAppService sends text messages through a WAHA gateway. When the
// URL or API key is missing the service stays up but every send is a
// logged no-op; a misconfigured notifier must never block payments.
type WhatsAppService struct {
	cfg    config.WhatsAppConfig
	client *http.Client
}

func NewWhatsAppService(cfg config.WhatsAppConfig) *WhatsAppService {
	return &WhatsAppService{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (s *WhatsAppService) Enabled() bool {
	return s.cfg.URL != "" && s.cfg.APIKey != ""
}

type wahaSendTextRequest struct {
	Session string `json:"session"`
	ChatID  string `json:"chatId"`
	Text    string `json:"text"`
}

// SendText posts one message to chatID via WAHA sendText.
func (s *WhatsAppService) SendText(ctx context.Context, chatID, text string) error {
	if !s.Enabled() {
		log.Printf("[WA] not configured, skipping message to %s", chatID)
		return nil
	}
	body, err := json.Marshal(wahaSendTextRequest{Session: s.cfg.Session, ChatID: chatID, Text: text})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", s.cfg.APIKey)
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("waha sendText: %d %s", resp.StatusCode, msg)
	}
	return nil
}
