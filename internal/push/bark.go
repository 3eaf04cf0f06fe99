// Package push sends the end-of-run notification via Bark.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
)

const (
	barkAPIBase = "https://api.day.app"

	notificationGroup = "LLM News"
	notificationIcon  = "https://cdn-icons-png.flaticon.com/512/4712/4712109.png"
)

// Bark posts notifications to the Bark relay for one device key.
type Bark struct {
	apiBase   string
	deviceKey string
	client    *http.Client
	logger    zerolog.Logger
}

func NewBark(client *http.Client, logger zerolog.Logger, deviceKey string) *Bark {
	return &Bark{
		apiBase:   barkAPIBase,
		deviceKey: deviceKey,
		client:    client,
		logger:    logger,
	}
}

type barkPayload struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	Group     string `json:"group"`
	Icon      string `json:"icon"`
	URL       string `json:"url"`
	IsArchive string `json:"isArchive"`
}

type barkResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Notify sends one notification. An empty device key is a silent no-op
// so the pipeline can call this unconditionally.
func (b *Bark) Notify(ctx context.Context, title, body, url string) error {
	if b.deviceKey == "" {
		b.logger.Debug().Msg("no Bark device key, skipping push")
		return nil
	}

	payload, err := json.Marshal(barkPayload{
		Title:     title,
		Body:      body,
		Group:     notificationGroup,
		Icon:      notificationIcon,
		URL:       url,
		IsArchive: "1",
	})
	if err != nil {
		return fmt.Errorf("marshal push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/%s", b.apiBase, b.deviceKey), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("send push: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("push endpoint returned %s", resp.Status)
	}

	var parsed barkResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("decode push response: %w", err)
	}
	if parsed.Code != 200 {
		return fmt.Errorf("push rejected (code=%d): %s", parsed.Code, parsed.Message)
	}

	b.logger.Info().Str("title", title).Msg("push sent")
	return nil
}

// NotifyReport pushes the standard daily-report notification linking to
// the report's page.
func (b *Bark) NotifyReport(ctx context.Context, date string, topCount, totalCollected int, siteURL string) error {
	title := fmt.Sprintf("📰 LLM News %s", date)
	body := fmt.Sprintf("Collected %d items today, top %d selected. Tap to read and listen.",
		totalCollected, topCount)
	url := fmt.Sprintf("%s/%s/", siteURL, date)
	return b.Notify(ctx, title, body, url)
}
