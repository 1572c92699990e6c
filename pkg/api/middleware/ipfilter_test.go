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


package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsLoopbackAddr(t *testing.T) {
	t.Parallel()

	assert.True(t, IsLoopbackAddr("127.0.0.1:1234"))
	assert.True(t, IsLoopbackAddr("[::1]:1234"))
	assert.False(t, IsLoopbackAddr("192.168.1.2:1234"))
	assert.False(t, IsLoopbackAddr("nonsense"))
}

func TestNewIPFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		allowedIPs    []string
		expectedNets  int
		expectedAddrs int
	}{
		{name: "empty list", allowedIPs: []string{}},
		{name: "single IP", allowedIPs: []string{"192.168.1.1"}, expectedAddrs: 1},
		{name: "single CIDR", allowedIPs: []string{"192.168.1.0/24"}, expectedNets: 1},
		{
			name:          "mixed IPs and CIDRs",
			allowedIPs:    []string{"192.168.1.1", "10.0.0.0/8", "172.16.0.5"},
			expectedNets:  1,
			expectedAddrs: 2,
		},
		{name: "invalid entry skipped", allowedIPs: []string{"invalid"}},
		{name: "IPv6", allowedIPs: []string{"fd00::1", "2001:db8::/32"}, expectedNets: 1, expectedAddrs: 1},
		{name: "port stripped", allowedIPs: []string{"192.168.1.1:7598"}, expectedAddrs: 1},
		{name: "IPv6 port stripped", allowedIPs: []string{"[fd00::1]:7598"}, expectedAddrs: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := NewIPFilter(tt.allowedIPs)
			assert.Len(t, f.allowedNets, tt.expectedNets)
			assert.Len(t, f.allowedAddrs, tt.expectedAddrs)
		})
	}
}

func TestIPFilter_IsAllowed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		remoteAddr string
		allowedIPs []string
		expected   bool
	}{
		{name: "loopback with empty list", allowedIPs: nil, remoteAddr: "127.0.0.1:5000", expected: true},
		{name: "IPv6 loopback with empty list", allowedIPs: nil, remoteAddr: "[::1]:5000", expected: true},
		{name: "LAN client with empty list", allowedIPs: nil, remoteAddr: "192.168.1.20:5000", expected: false},
		{
			name:       "loopback allowed alongside a list",
			allowedIPs: []string{"10.0.0.0/8"},
			remoteAddr: "127.0.0.1:5000",
			expected:   true,
		},
		{
			name:       "exact IP match",
			allowedIPs: []string{"192.168.1.20"},
			remoteAddr: "192.168.1.20:5000",
			expected:   true,
		},
		{
			name:       "exact IP mismatch",
			allowedIPs: []string{"192.168.1.20"},
			remoteAddr: "192.168.1.21:5000",
			expected:   false,
		},
		{
			name:       "CIDR match",
			allowedIPs: []string{"192.168.1.0/24"},
			remoteAddr: "192.168.1.99:5000",
			expected:   true,
		},
		{
			name:       "CIDR mismatch",
			allowedIPs: []string{"192.168.1.0/24"},
			remoteAddr: "192.168.2.1:5000",
			expected:   false,
		},
		{
			name:       "IPv6 CIDR match",
			allowedIPs: []string{"2001:db8::/32"},
			remoteAddr: "[2001:db8::7]:5000",
			expected:   true,
		},
		{
			name:       "unparseable address",
			allowedIPs: []string{"192.168.1.0/24"},
			remoteAddr: "not-an-ip",
			expected:   false,
		},
		{
			name:       "address without port",
			allowedIPs: []string{"192.168.1.20"},
			remoteAddr: "192.168.1.20",
			expected:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, NewIPFilter(tt.allowedIPs).IsAllowed(tt.remoteAddr))
		})
	}
}

func TestHTTPIPFilterMiddleware(t *testing.T) {
	t.Parallel()

	handler := HTTPIPFilterMiddleware(NewIPFilter([]string{"192.168.1.0/24"}))(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	tests := []struct {
		name       string
		remoteAddr string
		expected   int
	}{
		{name: "loopback", remoteAddr: "127.0.0.1:5000", expected: http.StatusOK},
		{name: "allowed network", remoteAddr: "192.168.1.5:5000", expected: http.StatusOK},
		{name: "other network", remoteAddr: "203.0.113.9:5000", expected: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/api", http.NoBody)
			req.RemoteAddr = tt.remoteAddr
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			assert.Equal(t, tt.expected, rr.Code)
		})
	}
}
