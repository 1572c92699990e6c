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


// Package service runs the launcher's long-lived API service.
package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/api"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/client"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/config"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/platforms"
	"github.com/rs/zerolog/log"
)

const probeTimeout = 2 * time.Second

// IsRunning reports whether a service is already answering on the
// configured API port.
func IsRunning(cfg *config.Instance) bool {
	c := client.NewLocalClient(cfg)
	c.Timeout = probeTimeout
	_, err := c.Call(context.Background(), models.MethodVersion, "")
	if err != nil {
		log.Debug().Err(err).Msg("error checking if service running")
		return false
	}
	return true
}

// Start binds the API port and serves in the background. The returned stop
// function shuts the server down and reports any serve error; done is
// closed once the server has exited for any reason.
func Start(
	pl platforms.Platform,
	cfg *config.Instance,
	opts ...api.ServerOption,
) (stop func() error, done <-chan struct{}, err error) {
	log.Info().Msgf("version: %s", config.AppVersion)
	log.Info().Str("platform", pl.ID()).Msg("starting service")

	if _, ok := helpers.HasUserDir(); ok {
		log.Info().Msg("using 'user' directory for storage")
	}
	if err := helpers.EnsureDirectories(pl); err != nil {
		return nil, nil, fmt.Errorf("error setting up environment: %w", err)
	}

	addr := net.JoinHostPort("", strconv.Itoa(cfg.APIPort()))
	var lc net.ListenConfig
	ln, err := lc.Listen(context.Background(), "tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	srv := api.NewServer(cfg, pl, opts...)
	doneCh := make(chan struct{})
	var serveErr error

	go func() {
		defer close(doneCh)
		serveErr = srv.Serve(ctx, ln)
		if serveErr != nil {
			log.Error().Err(serveErr).Msg("api server exited")
		}
	}()

	stop = func() error {
		log.Info().Msg("stopping service")
		cancel()
		<-doneCh
		if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
			return serveErr
		}
		return nil
	}

	return stop, doneCh, nil
}
