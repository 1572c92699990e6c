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


package mocks

import (
	"github.com/ZaparooProject/zaparoo-launcher/pkg/platforms"
	"github.com/stretchr/testify/mock"
)

// MockPlatform is a mock implementation of the Platform interface using testify/mock
type MockPlatform struct {
	mock.Mock
}

func NewMockPlatform() *MockPlatform {
	return &MockPlatform{}
}

// ID returns the unique ID of this platform
func (m *MockPlatform) ID() string {
	args := m.Called()
	return args.String(0)
}

// Settings returns the platform's directory layout
func (m *MockPlatform) Settings() platforms.Settings {
	args := m.Called()
	if settings, ok := args.Get(0).(platforms.Settings); ok {
		return settings
	}
	return platforms.Settings{}
}

// AppRoots returns the default roots scanned for application bundles
func (m *MockPlatform) AppRoots() []string {
	args := m.Called()
	if roots, ok := args.Get(0).([]string); ok {
		return roots
	}
	return nil
}

// SetupBasicMock configures the mock with typical default values for basic operations
func (m *MockPlatform) SetupBasicMock(settings platforms.Settings, roots ...string) {
	m.On("ID").Return("mock-platform").Maybe()
	m.On("Settings").Return(settings).Maybe()
	m.On("AppRoots").Return(roots).Maybe()
}
