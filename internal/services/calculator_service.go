package services

import (
	"context"
	"fmt"

	"github.com/PGohila/LMS/internal/amortization"
	"github.com/PGohila/LMS/internal/cache"
	"github.com/PGohila/LMS/pkg/logger"
)

// CalculatorService computes amortization plans for arbitrary terms without
// touching any stored application. Results are cached in Redis when available.
type CalculatorService struct {
	engine    *amortization.Engine
	planCache *cache.PlanCache
}

func NewCalculatorService(engine *amortization.Engine, planCache *cache.PlanCache) *CalculatorService {
	return &CalculatorService{
		engine:    engine,
		planCache: planCache,
	}
}

// Calculate builds the full repayment plan for the given terms.
func (s *CalculatorService) Calculate(ctx context.Context, terms amortization.Terms) (*amortization.PlanResponse, error) {
	key := s.planCache.Key(terms)

	if cached, err := s.planCache.Get(ctx, key); err == nil && cached != nil {
		return cached, nil
	} else if err != nil {
		logger.Warn(fmt.Sprintf("[Calculator] cache read failed: %v", err))
	}

	plan, err := s.engine.Calculate(terms)
	if err != nil {
		return nil, err
	}

	resp := plan.ToResponse()
	if err := s.planCache.Set(ctx, key, &resp); err != nil {
		logger.Warn(fmt.Sprintf("[Calculator] cache write failed: %v", err))
	}

	return &resp, nil
}

// Methods lists the calculation methods the engine supports.
func (s *CalculatorService) Methods() []amortization.Method {
	return amortization.Methods()
}
