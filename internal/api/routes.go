package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) setupRoutes(reg *prometheus.Registry) {
	s.router.Get("/api/health", s.handleHealth)
	s.router.Get("/api/modules", s.handleModules)
	s.router.Get("/api/bundles", s.handleBundles)
	s.router.Get("/api/skills", s.handleSkills)
	s.router.Get("/api/prerequisites", s.handlePrerequisites)
	s.router.Post("/api/install", s.handleInstall)

	s.router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
}
