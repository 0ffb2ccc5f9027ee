package signal

import (
	"errors"

	"matchup-lab/internal/domain"
)

// Factory errors
var (
	ErrUnknownProviderType = errors.New("unknown provider type")
	ErrMissingRatingSystem = errors.New("RATING_EDGE requires RatingSystem")
	ErrMissingEdgeScale    = errors.New("RATING_EDGE requires EdgeScale")
	ErrMissingConfidence   = errors.New("RATING_EDGE requires Confidence")
	ErrMissingTrendKind    = errors.New("TREND requires TrendKind")
	ErrMissingMinSample    = errors.New("TREND requires MinSample")
	ErrMissingBaseline     = errors.New("TREND requires Baseline")
	ErrMissingContextKind  = errors.New("CONTEXT requires ContextKind")
)

// FromConfig creates a Provider from a domain.ProviderConfig. Validates
// required parameters per provider type and returns clear errors for
// missing ones. League params feed the rating-edge line model.
func FromConfig(cfg domain.ProviderConfig, league domain.LeagueParams) (Provider, error) {
	switch cfg.ProviderType {
	case domain.ProviderTypeRatingEdge:
		return fromRatingEdgeConfig(cfg, league)
	case domain.ProviderTypeTrend:
		return fromTrendConfig(cfg)
	case domain.ProviderTypeContext:
		return fromContextConfig(cfg)
	default:
		return nil, ErrUnknownProviderType
	}
}

// FromConfigs builds the full provider set for one league, failing on the
// first invalid config.
func FromConfigs(cfgs []domain.ProviderConfig, league domain.LeagueParams) ([]Provider, error) {
	providers := make([]Provider, 0, len(cfgs))
	for _, cfg := range cfgs {
		p, err := FromConfig(cfg, league)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	return providers, nil
}

func fromRatingEdgeConfig(cfg domain.ProviderConfig, league domain.LeagueParams) (*RatingEdgeProvider, error) {
	if cfg.RatingSystem == nil {
		return nil, ErrMissingRatingSystem
	}
	if cfg.EdgeScale == nil {
		return nil, ErrMissingEdgeScale
	}
	if cfg.Confidence == nil {
		return nil, ErrMissingConfidence
	}

	return NewRatingEdgeProvider(cfg.Category, *cfg.RatingSystem, *cfg.EdgeScale, *cfg.Confidence, league), nil
}

func fromTrendConfig(cfg domain.ProviderConfig) (*TrendProvider, error) {
	if cfg.TrendKind == nil {
		return nil, ErrMissingTrendKind
	}
	if cfg.MinSample == nil {
		return nil, ErrMissingMinSample
	}
	if cfg.Baseline == nil {
		return nil, ErrMissingBaseline
	}

	return NewTrendProvider(cfg.Category, *cfg.TrendKind, *cfg.MinSample, *cfg.Baseline), nil
}

func fromContextConfig(cfg domain.ProviderConfig) (*ContextProvider, error) {
	if cfg.ContextKind == nil {
		return nil, ErrMissingContextKind
	}

	return NewContextProvider(cfg.Category, *cfg.ContextKind), nil
}
