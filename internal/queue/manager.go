package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

type Runner interface {
	Start(ctx context.Context) error
	Stop() error
	Name() string
}

// Manager starts and stops a set of workers together.
type Manager struct {
	workers []Runner
	logger  *zap.Logger

	mu        sync.Mutex
	isRunning bool
}

func NewManager(logger *zap.Logger) *Manager {
	return &Manager{logger: logger}
}

func (m *Manager) Register(w Runner) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.workers = append(m.workers, w)
	m.logger.Info("worker registered", zap.String("worker", w.Name()), zap.Int("total", len(m.workers)))
}

func (m *Manager) StartAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.isRunning {
		return errors.New("workers already running")
	}

	m.isRunning = true

	var errs []error

	for _, w := range m.workers {
		if err := w.Start(ctx); err != nil {
			m.logger.Error("failed to start worker", zap.String("worker", w.Name()), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", w.Name(), err))
		}
	}

	return errors.Join(errs...)
}

func (m *Manager) StopAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.isRunning {
		return nil
	}

	m.isRunning = false

	var errs []error

	for _, w := range m.workers {
		if err := w.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", w.Name(), err))
		}
	}

	m.logger.Info("workers stopped", zap.Int("count", len(m.workers)))

	return errors.Join(errs...)
}
