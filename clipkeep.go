// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package clipkeep wires the clipboard-history core together: badger
// persistence, the history store, the search engine, the derived-view
// pipeline and optional preview generation. Construction and teardown
// are explicit; there is no process-wide shared instance.
package clipkeep

import (
	"log/slog"

	"github.com/poiesic/clipkeep/assets"
	"github.com/poiesic/clipkeep/config"
	"github.com/poiesic/clipkeep/history"
	"github.com/poiesic/clipkeep/search"
	"github.com/poiesic/clipkeep/storage"
	"github.com/poiesic/clipkeep/storage/badger"
	"github.com/poiesic/clipkeep/view"
)

// Service is the fully wired clipboard-history core.
type Service struct {
	backend   *badger.Backend
	repo      storage.EntryRepository
	store     *history.Store
	engine    *search.Engine
	pipeline  *view.Pipeline
	generator *assets.Generator
	cfg       *config.Config
	logger    *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	cfg      *config.Config
	notifier history.Notifier
	renderer assets.Renderer
	logger   *slog.Logger
	inMemory bool
}

// WithConfig supplies the runtime configuration.
// Default is config.DefaultConfig().
func WithConfig(cfg *config.Config) ServiceOption {
	return func(o *serviceOptions) {
		if cfg != nil {
			o.cfg = cfg
		}
	}
}

// WithNotifier supplies the user notification collaborator.
func WithNotifier(notifier history.Notifier) ServiceOption {
	return func(o *serviceOptions) {
		o.notifier = notifier
	}
}

// WithRenderer supplies the preview renderer. Without one, preview
// generation is disabled.
func WithRenderer(renderer assets.Renderer) ServiceOption {
	return func(o *serviceOptions) {
		o.renderer = renderer
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(o *serviceOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithInMemoryStorage keeps all persistence in memory. Intended for
// tests and the ephemeral CLI commands.
func WithInMemoryStorage() ServiceOption {
	return func(o *serviceOptions) {
		o.inMemory = true
	}
}

// NewService opens storage at filePath and wires the full core. The
// clipboard collaborator is required; everything else has defaults.
func NewService(filePath string, clipboard history.Clipboard, opts ...ServiceOption) (*Service, error) {
	options := &serviceOptions{
		cfg:    config.DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if err := options.cfg.Validate(); err != nil {
		return nil, err
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	repo, err := badger.NewEntryRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	storeOpts := []history.Option{
		history.WithRepository(repo),
		history.WithLogger(options.logger),
		history.WithMaxSize(options.cfg.MaxHistorySize),
		history.WithSortCriteria(options.cfg.Criteria()),
		history.WithPasteByDefault(options.cfg.PasteByDefault),
		history.WithRemoveFormattingByDefault(options.cfg.RemoveFormattingByDefault),
	}
	if options.notifier != nil {
		storeOpts = append(storeOpts, history.WithNotifier(options.notifier))
	}
	store, err := history.NewStore(clipboard, storeOpts...)
	if err != nil {
		backend.Close()
		return nil, err
	}
	store.Reload()

	engine, err := search.NewEngine(options.cfg.Mode(), search.WithLogger(options.logger))
	if err != nil {
		backend.Close()
		return nil, err
	}

	pipeline, err := view.NewPipeline(store, engine, view.WithLogger(options.logger))
	if err != nil {
		backend.Close()
		return nil, err
	}

	var generator *assets.Generator
	if options.renderer != nil {
		generator, err = assets.NewGenerator(options.renderer, assets.WithLogger(options.logger))
		if err != nil {
			pipeline.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Service{
		backend:   backend,
		repo:      repo,
		store:     store,
		engine:    engine,
		pipeline:  pipeline,
		generator: generator,
		cfg:       options.cfg,
		logger:    options.logger,
	}, nil
}

// Close tears the core down in reverse construction order.
func (s *Service) Close() error {
	s.pipeline.Close()
	if s.generator != nil {
		s.generator.Release()
	}
	if err := s.store.Close(); err != nil {
		s.logger.Error("error flushing history store", "err", err)
	}
	if err := s.repo.Close(); err != nil {
		s.logger.Error("error closing entry repository", "err", err)
		return err
	}
	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Store returns the history store.
func (s *Service) Store() *history.Store {
	return s.store
}

// Pipeline returns the derived-view pipeline.
func (s *Service) Pipeline() *view.Pipeline {
	return s.pipeline
}

// Generator returns the preview generator, nil when no renderer was
// configured.
func (s *Service) Generator() *assets.Generator {
	return s.generator
}

// Repository returns the entry repository.
func (s *Service) Repository() storage.EntryRepository {
	return s.repo
}

// Config returns the active configuration.
func (s *Service) Config() *config.Config {
	return s.cfg
}

// UpdateConfig applies a new configuration to the running core. A sort
// criteria change reloads the canonical set from storage; a search mode
// change swaps the engine, taking effect on the next query.
func (s *Service) UpdateConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.MaxHistorySize != s.cfg.MaxHistorySize {
		s.store.SetMaxSize(cfg.MaxHistorySize)
	}
	if cfg.Criteria() != s.cfg.Criteria() {
		s.store.SetCriteria(cfg.Criteria())
	}
	s.store.SetSelectionDefaults(cfg.PasteByDefault, cfg.RemoveFormattingByDefault)
	if cfg.Mode() != s.cfg.Mode() {
		engine, err := search.NewEngine(cfg.Mode(), search.WithLogger(s.logger))
		if err != nil {
			return err
		}
		s.engine = engine
		s.pipeline.SetEngine(engine)
	}

	s.cfg = cfg
	return nil
}
