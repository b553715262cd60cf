// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

package api

import (
	"context"

	"github.com/sanchomuzax/hirstart-recosys/internal/events"
	"github.com/sanchomuzax/hirstart-recosys/internal/logging"
	"github.com/sanchomuzax/hirstart-recosys/internal/stats"
	ws "github.com/sanchomuzax/hirstart-recosys/internal/websocket"
)

// notify publishes ev and refreshes the stats of watching clients. State
// is already saved, so failures are only logged.
func (h *Handler) notify(ctx context.Context, ev *events.Event) {
	if h.events != nil {
		if err := h.events.Publish(ctx, ev); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("type", string(ev.Type)).Msg("Failed to publish profile event")
		}
	}

	if h.wsHub == nil || h.wsHub.ProfileClientCount(ev.Profile) == 0 {
		return
	}
	summary, err := h.summary(ctx, ev.Profile)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Failed to build stats for live update")
		return
	}
	h.wsHub.BroadcastToProfile(ev.Profile, ws.MessageTypeStats, summary)
}

func (h *Handler) summary(ctx context.Context, profile string) (stats.Summary, error) {
	state, err := h.tracker.Snapshot(ctx, profile)
	if err != nil {
		return stats.Summary{}, err
	}
	items, err := h.registry.Items(ctx, profile)
	if err != nil {
		return stats.Summary{}, err
	}
	return stats.Build(state, items), nil
}
