package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"flightops-service/internal/domain/entity"
	"flightops-service/internal/domain/repository"
	"flightops-service/pkg/logger"

	"github.com/redis/go-redis/v9"
)

var (
	iataPattern = regexp.MustCompile(`^[A-Z]{3}$`)
	icaoPattern = regexp.MustCompile(`^[A-Z]{4}$`)
)

// ErrInvalidAirportCode is returned when a lookup query is neither an
// IATA nor an ICAO code.
var ErrInvalidAirportCode = errors.New("invalid airport code")

// AirportResolver performs best-effort airport lookups for flight and
// route creation: reference table first, then the Redis TTL cache, then
// the outbound HTTP endpoint with a politeness throttle. A miss is
// (nil, nil), never an error that blocks creation.
type AirportResolver struct {
	airportRepo repository.AirportRepository
	cache       *redis.Client // may be nil; cache layer is then disabled
	client      *http.Client
	logger      logger.Logger

	lookupURL string
	cacheTTL  time.Duration
	spacing   time.Duration

	mu          sync.Mutex
	lastRequest time.Time
}

// NewAirportResolver creates a new airport resolver
func NewAirportResolver(
	airportRepo repository.AirportRepository,
	cache *redis.Client,
	lookupURL string,
	cacheTTL time.Duration,
	spacing time.Duration,
	logger logger.Logger,
) *AirportResolver {
	return &AirportResolver{
		airportRepo: airportRepo,
		cache:       cache,
		client:      &http.Client{Timeout: 10 * time.Second},
		logger:      logger,
		lookupURL:   lookupURL,
		cacheTTL:    cacheTTL,
		spacing:     spacing,
	}
}

// ResolveByCode looks up an airport by IATA or ICAO code.
func (r *AirportResolver) ResolveByCode(ctx context.Context, code string) (*entity.Airport, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	var fromRepo func(context.Context, string) (*entity.Airport, error)
	switch {
	case iataPattern.MatchString(code):
		fromRepo = r.airportRepo.GetByIATA
	case icaoPattern.MatchString(code):
		fromRepo = r.airportRepo.GetByICAO
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidAirportCode, code)
	}

	if airport, err := fromRepo(ctx, code); err != nil {
		r.logger.Warn("Airport reference lookup failed", "code", code, "error", err)
	} else if airport != nil {
		return airport, nil
	}

	cacheKey := "airport:code:" + code
	if airport := r.cacheGet(ctx, cacheKey); airport != nil {
		return airport, nil
	}

	airport, err := r.fetch(ctx, code)
	if err != nil {
		return nil, err
	}
	if airport == nil {
		return nil, nil
	}

	// Persist and cache for next time, best effort on both.
	if err := r.airportRepo.Save(ctx, airport); err != nil {
		r.logger.Warn("Failed to save airport", "code", code, "error", err)
	}
	r.cacheSet(ctx, cacheKey, airport)

	return airport, nil
}

// ResolveByName looks up an airport by display name. A query that looks
// like a bare code is delegated to the code path.
func (r *AirportResolver) ResolveByName(ctx context.Context, name string) (*entity.Airport, error) {
	name = strings.TrimSpace(name)
	upper := strings.ToUpper(name)
	if iataPattern.MatchString(upper) || icaoPattern.MatchString(upper) {
		return r.ResolveByCode(ctx, upper)
	}

	airport, err := r.airportRepo.SearchByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to search airports: %w", err)
	}
	return airport, nil
}

// fetch queries the lookup endpoint, spacing requests apart so a burst of
// creations does not hammer the upstream.
func (r *AirportResolver) fetch(ctx context.Context, code string) (*entity.Airport, error) {
	if err := r.throttle(ctx); err != nil {
		return nil, err
	}

	reqURL := r.lookupURL + "?apt=" + url.QueryEscape(code)
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("airport lookup request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("airport lookup returned status %d", resp.StatusCode)
	}

	// Response shape: {"<code>": [{facility_name, icao_ident, ...}, ...]}
	var payload map[string][]struct {
		FacilityName string `json:"facility_name"`
		FAAIdent     string `json:"faa_ident"`
		ICAOIdent    string `json:"icao_ident"`
		City         string `json:"city"`
		StateFull    string `json:"state_full"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode lookup response: %w", err)
	}

	results, ok := payload[code]
	if !ok || len(results) == 0 {
		return nil, nil
	}

	first := results[0]
	iata := first.FAAIdent
	if icaoPattern.MatchString(code) {
		// Queried by ICAO; keep the queried code authoritative.
		first.ICAOIdent = code
	} else {
		iata = code
	}

	return &entity.Airport{
		ICAO:    strings.ToUpper(first.ICAOIdent),
		IATA:    strings.ToUpper(iata),
		Name:    first.FacilityName,
		City:    first.City,
		Country: first.StateFull,
	}, nil
}

func (r *AirportResolver) throttle(ctx context.Context) error {
	r.mu.Lock()
	wait := r.spacing - time.Since(r.lastRequest)
	// Idle time is not banked as burst credit; the next request goes out
	// immediately and the one after waits a full spacing again.
	if wait < 0 {
		wait = 0
	}
	r.lastRequest = time.Now().Add(wait)
	r.mu.Unlock()

	if wait == 0 {
		return nil
	}
	select {
	case <-time.After(wait):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *AirportResolver) cacheGet(ctx context.Context, key string) *entity.Airport {
	if r.cache == nil {
		return nil
	}
	data, err := r.cache.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.logger.Warn("Airport cache read failed", "key", key, "error", err)
		}
		return nil
	}
	var airport entity.Airport
	if err := json.Unmarshal(data, &airport); err != nil {
		return nil
	}
	return &airport
}

func (r *AirportResolver) cacheSet(ctx context.Context, key string, airport *entity.Airport) {
	if r.cache == nil {
		return
	}
	data, err := json.Marshal(airport)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, key, data, r.cacheTTL).Err(); err != nil {
		r.logger.Warn("Airport cache write failed", "key", key, "error", err)
	}
}
