// Package service implements the conversation pipeline: intent
// classification, requirements collection, security validation, trust
// scoring and finalization.
package service

import (
	"github.com/ecotrip/orchestrator/config"
	"github.com/ecotrip/orchestrator/internal/adapter/extractor"
	"github.com/ecotrip/orchestrator/internal/adapter/planner"
	"github.com/ecotrip/orchestrator/pkg/logger"
	"github.com/ecotrip/orchestrator/policy"
	"github.com/ecotrip/orchestrator/store"
)

type Service struct {
	store     store.Store
	extractor extractor.Client
	planner   *planner.Client
	policy    *policy.Engine
	config    *config.Config
	log       *logger.Logger
}

func New(st store.Store, ex extractor.Client, pl *planner.Client, pe *policy.Engine, cfg *config.Config, log *logger.Logger) *Service {
	return &Service{
		store:     st,
		extractor: ex,
		planner:   pl,
		policy:    pe,
		config:    cfg,
		log:       log,
	}
}
