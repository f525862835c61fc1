// Copyright (c) 2026 CloudVault. All rights reserved.
// Author: platform@cloudvault.app

package gate

import (
	"context"
	"log/slog"

	"github.com/cloudvault/cloudvault/internal/platform/sec"
	"github.com/cloudvault/cloudvault/internal/resource"
)

// Notifier delivers a freshly minted challenge code to the caller over an
// out-of-band channel. The gate never returns the code in an API response.
type Notifier interface {
	DeliverCode(ctx context.Context, caller *sec.Principal, res *resource.Resource, code string) error
}

// LogNotifier writes codes to the structured log. It stands in for a real
// delivery channel in development and demo deployments.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) DeliverCode(ctx context.Context, caller *sec.Principal, res *resource.Resource, code string) error {
	n.logger.InfoContext(ctx, "challenge code issued",
		slog.String("identity_id", caller.IdentityID),
		slog.String("resource_id", res.ID),
		slog.String("resource_slug", res.Slug),
		slog.String("code", code),
	)
	return nil
}
