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


package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/olahol/melody"
	"github.com/stretchr/testify/require"
)

// APIPath is the versioned endpoint used by test servers and clients.
const APIPath = "/api/v0.1"

// WebSocketTestServer is a melody server with a custom message handler,
// used to stand in for the launcher API.
type WebSocketTestServer struct {
	Server *httptest.Server
	Melody *melody.Melody
}

// JSONRPCRequest represents a JSON-RPC request for testing
type JSONRPCRequest struct {
	Params  any       `json:"params,omitempty"`
	JSONRPC string    `json:"jsonrpc"`
	Method  string    `json:"method"`
	ID      uuid.UUID `json:"id"`
}

// JSONRPCError is the error member of a JSON-RPC response.
type JSONRPCError struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// JSONRPCResponse represents a JSON-RPC response for testing
type JSONRPCResponse struct {
	Error   *JSONRPCError   `json:"error,omitempty"`
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	ID      uuid.UUID       `json:"id"`
}

// NewWebSocketTestServer serves handler on APIPath. The server is closed
// when the test ends.
func NewWebSocketTestServer(t *testing.T, handler func(*melody.Session, []byte)) *WebSocketTestServer {
	t.Helper()

	m := melody.New()
	if handler != nil {
		m.HandleMessage(handler)
	}

	mux := http.NewServeMux()
	mux.HandleFunc(APIPath, func(w http.ResponseWriter, r *http.Request) {
		if err := m.HandleRequest(w, r); err != nil {
			t.Logf("websocket test server: %v", err)
		}
	})

	wsts := &WebSocketTestServer{
		Server: httptest.NewServer(mux),
		Melody: m,
	}
	t.Cleanup(wsts.Close)
	return wsts
}

// Close shuts down the test server. It is safe to call more than once.
func (wsts *WebSocketTestServer) Close() {
	_ = wsts.Melody.Close()
	wsts.Server.Close()
}

// DialWebSocket opens a WebSocket connection to path on an httptest server
// URL. The connection is closed when the test ends.
func DialWebSocket(t *testing.T, serverURL, path string) *websocket.Conn {
	t.Helper()

	u, err := url.Parse(serverURL)
	require.NoError(t, err)
	u.Scheme = "ws"
	u.Path = path

	conn, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() {
		_ = conn.Close()
	})
	return conn
}

func newRequest(method string, params any) ([]byte, uuid.UUID, error) {
	id := uuid.New()
	data, err := json.Marshal(JSONRPCRequest{
		JSONRPC: "2.0",
		ID:      id,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return data, id, nil
}

// SendJSONRPCRequest sends a request over conn and reads the next message
// as its response.
func SendJSONRPCRequest(conn *websocket.Conn, method string, params any) (*JSONRPCResponse, error) {
	data, _, err := newRequest(method, params)
	if err != nil {
		return nil, err
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	_, respData, err := conn.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp JSONRPCResponse
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &resp, nil
}

// PostJSONRPC sends a request to handler as an HTTP POST and returns the
// recorded response.
func PostJSONRPC(handler http.Handler, method string, params any) (*httptest.ResponseRecorder, error) {
	data, _, err := newRequest(method, params)
	if err != nil {
		return nil, err
	}
	return PostRaw(handler, "application/json", string(data)), nil
}

// LocalRemoteAddr is the client address PostRaw sends from.
const LocalRemoteAddr = "127.0.0.1:41234"

// PostRaw sends body to handler on APIPath with the given content type, as
// a loopback client.
func PostRaw(handler http.Handler, contentType, body string) *httptest.ResponseRecorder {
	return PostRawFrom(handler, LocalRemoteAddr, contentType, body)
}

// PostRawFrom is PostRaw with the request's RemoteAddr set to remoteAddr.
func PostRawFrom(handler http.Handler, remoteAddr, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequestWithContext(
		context.Background(),
		http.MethodPost,
		APIPath,
		strings.NewReader(body),
	)
	req.RemoteAddr = remoteAddr
	req.Header.Set("Content-Type", contentType)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

// DecodeJSONRPCResponse parses a recorded HTTP response body.
func DecodeJSONRPCResponse(t *testing.T, body *bytes.Buffer) *JSONRPCResponse {
	t.Helper()
	var resp JSONRPCResponse
	require.NoError(t, json.Unmarshal(body.Bytes(), &resp))
	return &resp
}

// AssertJSONRPCSuccess verifies a JSON-RPC response was successful
func AssertJSONRPCSuccess(t *testing.T, response *JSONRPCResponse) {
	t.Helper()
	require.NotNil(t, response, "response should not be nil")
	require.Nil(t, response.Error, "response should not contain an error")
	require.NotEmpty(t, response.Result, "response should contain a result")
}

// AssertJSONRPCError verifies a JSON-RPC response contains an error
func AssertJSONRPCError(t *testing.T, response *JSONRPCResponse, expectedCode int) {
	t.Helper()
	require.NotNil(t, response, "response should not be nil")
	require.NotNil(t, response.Error, "response should contain an error")
	require.Equal(t, expectedCode, response.Error.Code, "error code should match")
}
