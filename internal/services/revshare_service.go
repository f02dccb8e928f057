// internal/services/revshare_service.go
package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/solaforge/solaforge-backend/internal/providers/revshare"
)

type RevshareService struct {
	client revshare.Client
	logger *logrus.Logger
}

func NewRevshareService(client revshare.Client, logger *logrus.Logger) *RevshareService {
	return &RevshareService{
		client: client,
		logger: logger,
	}
}

// Stats fetches the partner distribution numbers. The provider cascade
// always produces a payload; a degraded source is logged, not surfaced.
func (s *RevshareService) Stats(ctx context.Context) *revshare.Stats {
	stats := s.client.FetchStats(ctx)
	if stats.DataSource == "error_fallback" {
		s.logger.Warn("revshare stats unavailable from all sources")
	}
	return stats
}
