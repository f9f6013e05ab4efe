package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"flightops-service/internal/domain/entity"
	"flightops-service/internal/domain/repository"
	"flightops-service/pkg/logger"
)

// DiscordNotifier delivers reminders as direct messages through the
// Discord REST API.
type DiscordNotifier struct {
	logger  logger.Logger
	baseURL string
	token   string
	client  *http.Client
}

// NewDiscordNotifier creates a new Discord notifier
func NewDiscordNotifier(baseURL, token string, logger logger.Logger) repository.Notifier {
	return &DiscordNotifier{
		logger:  logger,
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type discordEmbed struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Color       int                 `json:"color"`
	Fields      []discordEmbedField `json:"fields"`
}

// SendReminder opens a DM channel with the user and posts the reminder embed
func (n *DiscordNotifier) SendReminder(ctx context.Context, userID string, reminder *entity.Reminder) error {
	channelID, err := n.openDMChannel(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to open DM channel: %w", err)
	}

	embed := discordEmbed{
		Title:       "Flight reminder",
		Description: fmt.Sprintf("%s departs in %s!", reminder.FlightNumber, reminder.RemainingLabel),
		Color:       0x3498db,
		Fields: []discordEmbedField{
			{
				Name:  "Flight",
				Value: fmt.Sprintf("%s - %s", reminder.FlightNumber, reminder.AirlineName),
			},
			{
				Name: "Details",
				Value: fmt.Sprintf("Departure: %s\nArrival: %s\nTime: %s",
					reminder.DepartureAirport,
					reminder.ArrivalAirport,
					reminder.DepartureTime.Format("02.01.2006 15:04")),
			},
		},
	}

	body := map[string]interface{}{
		"embeds": []discordEmbed{embed},
	}

	if err := n.post(ctx, fmt.Sprintf("%s/channels/%s/messages", n.baseURL, channelID), body, nil); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	n.logger.Info("Reminder delivered",
		"userId", userID,
		"flightId", reminder.FlightID,
		"leadTime", reminder.LeadTimeKey)

	return nil
}

func (n *DiscordNotifier) openDMChannel(ctx context.Context, userID string) (string, error) {
	var response struct {
		ID string `json:"id"`
	}
	body := map[string]interface{}{"recipient_id": userID}
	if err := n.post(ctx, n.baseURL+"/users/@me/channels", body, &response); err != nil {
		return "", err
	}
	if response.ID == "" {
		return "", fmt.Errorf("no channel id in response for user %s", userID)
	}
	return response.ID, nil
}

func (n *DiscordNotifier) post(ctx context.Context, url string, body interface{}, out interface{}) error {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bot "+n.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errorBody map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errorBody)
		return fmt.Errorf("discord returned status %d: %v", resp.StatusCode, errorBody)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
