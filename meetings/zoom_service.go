package meetings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	config "github.com/anjiri1684/skill_swap/configs"
)

const (
	zoomAPIBaseURL       = "https://api.zoom.us/v2"
	zoomOAuthURL         = "https://zoom.us/oauth/token"
	meetingTypeInstant   = 1
	meetingTypeScheduled = 2
)

// Meeting holds the links returned by the provider: JoinURL for
// participants, StartURL for the host.
type Meeting struct {
	JoinURL  string `json:"join_url"`
	StartURL string `json:"start_url"`
}

// Client talks to the Zoom meetings API with a cached OAuth token.
type Client struct {
	http    *http.Client
	tokens  *TokenProvider
	baseURL string
}

// NewClient builds a client from ZOOM_ACCOUNT_ID, ZOOM_CLIENT_ID and
// ZOOM_CLIENT_SECRET.
func NewClient() *Client {
	httpClient := &http.Client{Timeout: 10 * time.Second}
	fetch := zoomTokenFetcher(
		httpClient,
		zoomOAuthURL,
		config.Config("ZOOM_ACCOUNT_ID"),
		config.Config("ZOOM_CLIENT_ID"),
		config.Config("ZOOM_CLIENT_SECRET"),
	)
	return &Client{
		http:    httpClient,
		tokens:  NewTokenProvider(fetch),
		baseURL: zoomAPIBaseURL,
	}
}

// NewClientWith builds a client against a custom base URL and token
// provider. Used by tests.
func NewClientWith(httpClient *http.Client, tokens *TokenProvider, baseURL string) *Client {
	return &Client{http: httpClient, tokens: tokens, baseURL: baseURL}
}

type createMeetingRequest struct {
	Topic     string               `json:"topic"`
	Type      int                  `json:"type"`
	StartTime string               `json:"start_time,omitempty"`
	Duration  int                  `json:"duration,omitempty"`
	Settings  meetingSettingsBlock `json:"settings"`
}

type meetingSettingsBlock struct {
	JoinBeforeHost bool `json:"join_before_host"`
	WaitingRoom    bool `json:"waiting_room"`
}

// CreateMeeting provisions a scheduled meeting at the given start time.
func (c *Client) CreateMeeting(topic string, startTime time.Time) (*Meeting, error) {
	return c.createMeeting(createMeetingRequest{
		Topic:     topic,
		Type:      meetingTypeScheduled,
		StartTime: startTime.UTC().Format("2006-01-02T15:04:05Z"),
		Settings:  meetingSettingsBlock{WaitingRoom: true},
	})
}

// CreateInstantMeeting provisions a meeting that starts immediately.
func (c *Client) CreateInstantMeeting(topic string) (*Meeting, error) {
	return c.createMeeting(createMeetingRequest{
		Topic:    topic,
		Type:     meetingTypeInstant,
		Settings: meetingSettingsBlock{JoinBeforeHost: true},
	})
}

func (c *Client) createMeeting(payload createMeetingRequest) (*Meeting, error) {
	accessToken, err := c.tokens.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to get meeting provider access token: %v", err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal meeting payload: %v", err)
	}

	req, err := http.NewRequest("POST", c.baseURL+"/users/me/meetings", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create meeting request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send meeting request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read meeting response body: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("meeting API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var meeting Meeting
	if err := json.Unmarshal(respBody, &meeting); err != nil {
		return nil, fmt.Errorf("failed to decode meeting response: %v", err)
	}
	return &meeting, nil
}
