package server

import (
	"time"

	"github.com/joeblew999/plat-fontmatch/pkg/session"
)

// sessionsService adapts session.Registry to the service.Service interface.
type sessionsService struct {
	registry *session.Registry
	interval time.Duration
}

func newSessionsService(registry *session.Registry, interval time.Duration) *sessionsService {
	return &sessionsService{registry: registry, interval: interval}
}

func (s *sessionsService) Start() {
	s.registry.Start(s.interval)
}

func (s *sessionsService) Stop() {
	s.registry.Stop()
}
