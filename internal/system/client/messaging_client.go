/*
 * Copyright (c) 2026, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/wso2/engagement-service/internal/system/config"
	"github.com/wso2/engagement-service/internal/system/constants"
	syscontext "github.com/wso2/engagement-service/internal/system/context"
	"github.com/wso2/engagement-service/internal/system/log"
)

// MessagingClientInterface delivers a message on behalf of a managed account.
type MessagingClientInterface interface {
	SendMessage(ctx context.Context, fromId, toId, body string) error
}

type MessagingClient struct {
	BaseURL    string
	ApiKey     string
	HTTPClient *http.Client
}

type sendMessageRequest struct {
	SenderId    string `json:"sender_id"`
	RecipientId string `json:"recipient_id"`
	Content     string `json:"content"`
	Automated   bool   `json:"automated"`
}

// NewMessagingClient creates a client for the messaging service of the deployment.
func NewMessagingClient(cfg config.MessagingConfig) *MessagingClient {
	return NewMessagingClientWithHTTP(cfg, &http.Client{
		Timeout:   cfg.Timeout(),
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	})
}

// NewMessagingClientWithHTTP creates a client over the given HTTP client, e.g. one wrapped with
// tracing transport.
func NewMessagingClientWithHTTP(cfg config.MessagingConfig, httpClient *http.Client) *MessagingClient {
	return &MessagingClient{
		BaseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		ApiKey:     cfg.ApiKey,
		HTTPClient: httpClient,
	}
}

// SendMessage posts the message to the messaging service. Any non 2xx answer is a failure.
func (c *MessagingClient) SendMessage(ctx context.Context, fromId, toId, body string) error {

	if c.BaseURL == "" {
		return fmt.Errorf("messaging service base url is not configured")
	}

	payload, err := json.Marshal(sendMessageRequest{
		SenderId:    fromId,
		RecipientId: toId,
		Content:     body,
		Automated:   true,
	})
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/messages", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build message request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.ApiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.ApiKey)
	}
	if traceID := syscontext.GetTraceID(ctx); traceID != "" {
		req.Header.Set(constants.TraceIDHeader, traceID)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("message delivery failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.GetLogger().Debug("Messaging service rejected message.",
			log.Int("status", resp.StatusCode), log.String("body", string(respBody)))
		return fmt.Errorf("messaging service returned status %d", resp.StatusCode)
	}
	return nil
}

func (c *MessagingClient) timeout() time.Duration {
	if c.HTTPClient != nil && c.HTTPClient.Timeout > 0 {
		return c.HTTPClient.Timeout
	}
	return 10 * time.Second
}
