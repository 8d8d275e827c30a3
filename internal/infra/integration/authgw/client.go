package authgw

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/satiscrm/crm-api/internal/usecase"
)

// Client talks to the hosted auth gateway. Credentials and sessions live
// entirely on the gateway side; this client only forwards requests.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*usecase.Session, error) {
	url := fmt.Sprintf("%s/token?grant_type=password", c.baseURL)
	return c.postForSession(ctx, url, tokenRequest{Email: email, Password: password})
}

func (c *Client) SignUp(ctx context.Context, email, password, fullName string) (*usecase.Session, error) {
	url := fmt.Sprintf("%s/signup", c.baseURL)
	payload := signUpRequest{
		Email:    email,
		Password: password,
		Data:     signUpUserData{FullName: fullName},
	}
	return c.postForSession(ctx, url, payload)
}

func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	url := fmt.Sprintf("%s/logout", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return err
	}
	c.setHeaders(req)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("auth gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.apiError(resp)
	}
	return nil
}

func (c *Client) ResetPassword(ctx context.Context, email string) error {
	url := fmt.Sprintf("%s/recover", c.baseURL)

	jsonBody, err := json.Marshal(recoverRequest{Email: email})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("auth gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.apiError(resp)
	}
	return nil
}

func (c *Client) postForSession(ctx context.Context, url string, payload any) (*usecase.Session, error) {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal auth payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.apiError(resp)
	}

	var response sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode auth gateway response: %w", err)
	}

	return &usecase.Session{
		AccessToken:  response.AccessToken,
		RefreshToken: response.RefreshToken,
		UserID:       response.User.ID,
		ExpiresIn:    response.ExpiresIn,
	}, nil
}

func (c *Client) apiError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var apiErr errorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil {
		if apiErr.Message != "" {
			return fmt.Errorf("auth gateway rejected (status %d): %s", resp.StatusCode, apiErr.Message)
		}
		if apiErr.Error != "" {
			return fmt.Errorf("auth gateway rejected (status %d): %s", resp.StatusCode, apiErr.Error)
		}
	}
	return fmt.Errorf("auth gateway rejected (status %d)", resp.StatusCode)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "SatisCRM/1.0")
}
