package service

import (
	"context"
	"sync"
	"time"

	"github.com/truenorthhq/compass/internal/domain"
	"go.uber.org/zap"
)

// Weekly by default, matching the cadence mission-drift reviews run at.
const defaultDriftCheckInterval = 168 * time.Hour

// DriftMonitor periodically runs a reflection cycle in the background and
// logs the resulting drift classification.
type DriftMonitor struct {
	reflection *ReflectionService
	logger     *zap.Logger

	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func NewDriftMonitor(reflection *ReflectionService, logger *zap.Logger) *DriftMonitor {
	return &DriftMonitor{
		reflection: reflection,
		logger:     logger,
		interval:   defaultDriftCheckInterval,
		stopCh:     make(chan struct{}),
	}
}

func (m *DriftMonitor) SetInterval(d time.Duration) {
	if d > 0 {
		m.interval = d
	}
}

// Start runs the monitor on a periodic schedule in a background goroutine.
func (m *DriftMonitor) Start() {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		m.logger.Info("drift monitor started", zap.Duration("interval", m.interval))

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				m.run(ctx)
				cancel()
			case <-m.stopCh:
				m.logger.Info("drift monitor stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the monitor.
func (m *DriftMonitor) Stop() {
	close(m.stopCh)
	m.wg.Wait()
}

func (m *DriftMonitor) run(ctx context.Context) {
	result, err := m.reflection.Reflect(ctx)
	if err != nil {
		m.logger.Error("drift check failed", zap.Error(err))
		return
	}
	if result.Drift == nil {
		m.logger.Info("drift check baseline recorded", zap.Float64("overall", result.Score.Overall))
		return
	}
	if result.Drift.Category == domain.DriftHealthyAdaptation {
		m.logger.Info("drift check healthy",
			zap.Float64("overall", result.Score.Overall),
			zap.Float64("confidence", result.Drift.Confidence))
		return
	}
	m.logger.Warn("drift detected",
		zap.String("category", string(result.Drift.Category)),
		zap.Float64("confidence", result.Drift.Confidence),
		zap.Strings("evidence", result.Drift.Evidence),
		zap.String("recommendation", result.Drift.Recommendation))
}
