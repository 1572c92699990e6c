// Zaparoo Launcher
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Zaparoo Launcher.
//
// Zaparoo Launcher is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Zaparoo Launcher is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Zaparoo Launcher.  If not, see <http://www.gnu.org/licenses/>.


package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/config"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var (
	ErrRequestTimeout   = errors.New("request timed out")
	ErrInvalidParams    = errors.New("invalid params")
	ErrRequestCancelled = errors.New("request cancelled")
)

const APIPath = "/api/v0.1"

// RPCError is an error object returned by the API.
type RPCError struct {
	Message string
	Code    int
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Code, e.Message)
}

// Client sends single JSON-RPC requests over a fresh WebSocket connection.
type Client struct {
	Dialer  *websocket.Dialer
	URL     string
	Timeout time.Duration
}

// LocalURL returns the WebSocket URL of the API on this machine.
func LocalURL(cfg *config.Instance) string {
	u := url.URL{
		Scheme: "ws",
		Host:   "localhost:" + strconv.Itoa(cfg.APIPort()),
		Path:   APIPath,
	}
	return u.String()
}

func NewLocalClient(cfg *config.Instance) *Client {
	return &Client{
		URL:     LocalURL(cfg),
		Timeout: config.APIRequestTimeout,
		Dialer:  websocket.DefaultDialer,
	}
}

// LocalClient sends a single method with params to the local running API
// service, waits for a response until timeout then disconnects.
func LocalClient(
	ctx context.Context,
	cfg *config.Instance,
	method string,
	params string,
) (string, error) {
	return NewLocalClient(cfg).Call(ctx, method, params)
}

// Call sends method with params, which must be empty or valid JSON, and
// returns the raw JSON result.
func (c *Client) Call(ctx context.Context, method, params string) (string, error) {
	id := uuid.New()
	req := models.RequestObject{
		JSONRPC: "2.0",
		ID:      &id,
		Method:  method,
	}

	if params != "" {
		if !json.Valid([]byte(params)) {
			return "", ErrInvalidParams
		}
		req.Params = json.RawMessage(params)
	}

	dialer := c.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	conn, resp, err := dialer.DialContext(ctx, c.URL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to connect to api: %w", err)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	defer func(conn *websocket.Conn) {
		if err := conn.Close(); err != nil {
			log.Debug().Err(err).Msg("error closing websocket")
		}
	}(conn)

	done := make(chan struct{})
	var result *models.ResponseErrorObject
	var raw json.RawMessage

	go func() {
		defer close(done)
		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				log.Debug().Err(err).Msg("error reading message")
				return
			}

			var m struct {
				models.ResponseErrorObject
				Result json.RawMessage `json:"result"`
			}
			if err := json.Unmarshal(message, &m); err != nil {
				continue
			}
			if m.JSONRPC != "2.0" {
				log.Warn().Msg("invalid jsonrpc version")
				continue
			}
			if m.ID != id {
				continue
			}

			result = &m.ResponseErrorObject
			raw = m.Result
			return
		}
	}()

	if err := conn.WriteJSON(req); err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = config.APIRequestTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
	case <-timer.C:
		_ = conn.Close()
		<-done
		return "", ErrRequestTimeout
	case <-ctx.Done():
		_ = conn.Close()
		<-done
		return "", ErrRequestCancelled
	}

	if result == nil {
		return "", ErrRequestTimeout
	}
	if result.Error != nil {
		return "", &RPCError{Code: result.Error.Code, Message: result.Error.Message}
	}
	if len(raw) == 0 {
		return "null", nil
	}
	return string(raw), nil
}
