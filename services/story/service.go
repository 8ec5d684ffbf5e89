package story

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/status-im/nftstory/logutils"
)

type Service struct {
	backend       Backend
	namer         *characterNamer
	generateNames bool
	logger        *zap.Logger
}

type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	namer        Namer
	nameCacheTTL time.Duration
	logger       *zap.Logger
}

// WithNamer turns on character naming for collectibles without a usable name.
func WithNamer(namer Namer, cacheTTL time.Duration) ServiceOption {
	return func(o *serviceOptions) {
		o.namer = namer
		o.nameCacheTTL = cacheTTL
	}
}

func WithLogger(logger *zap.Logger) ServiceOption {
	return func(o *serviceOptions) {
		o.logger = logger
	}
}

func NewService(backend Backend, opts ...ServiceOption) *Service {
	options := &serviceOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = logutils.ZapLogger().Named("story")
	}

	s := &Service{
		backend: backend,
		logger:  options.logger,
	}
	if options.namer != nil {
		s.generateNames = true
		s.namer = newCharacterNamer(options.namer, options.nameCacheTTL, options.logger)
	}
	return s
}

func (s *Service) Stop() {
	if s.namer != nil {
		s.namer.stop()
	}
}

// Generate validates the request and hands the ordered selection to the backend.
// Nothing is sent over the network when validation fails.
func (s *Service) Generate(ctx context.Context, prompt string, source SelectionSource) (string, error) {
	req := &Request{Prompt: prompt}
	if source != nil {
		req.NFTs = source.Items()
	}
	if err := req.Validate(); err != nil {
		return "", err
	}

	var characters []Character
	if s.generateNames {
		characters = s.namer.characters(ctx, req.NFTs)
	} else {
		characters = plainCharacters(req.NFTs)
	}

	s.logger.Info("generating story",
		zap.String("backend", s.backend.ID()),
		zap.Int("characters", len(characters)))

	text, err := s.backend.Complete(ctx, req.Prompt, characters)
	if err != nil {
		s.logger.Error("story generation failed", zap.String("backend", s.backend.ID()), zap.Error(err))
		return "", err
	}
	return text, nil
}
