package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
)

type DiscordWebhookField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type DiscordEmbed struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Color       int                   `json:"color"`
	Fields      []DiscordWebhookField `json:"fields"`
	Footer      *DiscordFooter        `json:"footer,omitempty"`
	Timestamp   string                `json:"timestamp"`
}

type DiscordFooter struct {
	Text string `json:"text"`
}

type DiscordWebhookRequest struct {
	Username string         `json:"username"`
	Embeds   []DiscordEmbed `json:"embeds"`
}

type SlackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

type SlackAttachment struct {
	Color     string       `json:"color"`
	Title     string       `json:"title"`
	Text      string       `json:"text"`
	Fields    []SlackField `json:"fields"`
	Footer    string       `json:"footer"`
	Timestamp int64        `json:"ts"`
}

type SlackWebhookRequest struct {
	Username    string            `json:"username"`
	IconEmoji   string            `json:"icon_emoji,omitempty"`
	Text        string            `json:"text"`
	Attachments []SlackAttachment `json:"attachments"`
}

const (
	ColorGreen = 65280 // #00FF00

	Username = "Recruitdesk"
)

// NotifyResultsReleased pushes a results announcement to the configured
// Discord and Slack webhooks. URLs come from DISCORD_WEBHOOK_URL and
// SLACK_WEBHOOK_URL; unset means skip. Failures are logged, never surfaced to
// the releasing admin.
func NotifyResultsReleased(roundName, departmentName string) {
	if url := os.Getenv("DISCORD_WEBHOOK_URL"); url != "" {
		if err := sendDiscordResultsReleased(url, roundName, departmentName); err != nil {
			log.Printf("Failed to send Discord notification: %v", err)
		}
	}

	if url := os.Getenv("SLACK_WEBHOOK_URL"); url != "" {
		if err := sendSlackResultsReleased(url, roundName, departmentName); err != nil {
			log.Printf("Failed to send Slack notification: %v", err)
		}
	}
}

func sendDiscordResultsReleased(webhookURL, roundName, departmentName string) error {
	payload := DiscordWebhookRequest{
		Username: Username,
		Embeds: []DiscordEmbed{
			{
				Title:       "📣 **RESULTS RELEASED**",
				Description: fmt.Sprintf("Results for **%s** are now visible to applicants.", roundName),
				Color:       ColorGreen,
				Fields: []DiscordWebhookField{
					{Name: "Round", Value: roundName, Inline: true},
					{Name: "Department", Value: departmentName, Inline: true},
				},
				Footer: &DiscordFooter{
					Text: fmt.Sprintf("Department: %s | Recruitdesk", departmentName),
				},
				Timestamp: time.Now().Format(time.RFC3339),
			},
		},
	}

	return sendDiscordWebhook(webhookURL, payload)
}

func sendSlackResultsReleased(webhookURL, roundName, departmentName string) error {
	payload := SlackWebhookRequest{
		Username:  Username,
		IconEmoji: ":mega:",
		Text:      ":mega: *RESULTS RELEASED*",
		Attachments: []SlackAttachment{
			{
				Color: "good",
				Title: fmt.Sprintf("Results for '%s' are now visible to applicants", roundName),
				Text:  "Applicants can check their standing on the portal.",
				Fields: []SlackField{
					{Title: "Round", Value: roundName, Short: true},
					{Title: "Department", Value: departmentName, Short: true},
				},
				Footer:    fmt.Sprintf("Department: %s", departmentName),
				Timestamp: time.Now().Unix(),
			},
		},
	}

	return sendSlackWebhook(webhookURL, payload)
}

func sendDiscordWebhook(webhookURL string, payload DiscordWebhookRequest) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal Discord payload: %w", err)
	}

	resp, err := http.Post(webhookURL, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to send Discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("Discord webhook returned status %d", resp.StatusCode)
	}

	return nil
}

func sendSlackWebhook(webhookURL string, payload SlackWebhookRequest) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal Slack payload: %w", err)
	}

	resp, err := http.Post(webhookURL, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to send Slack webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("Slack webhook returned status %d", resp.StatusCode)
	}

	return nil
}
