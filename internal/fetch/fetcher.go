// Package fetch combines the dataset client, the payload cache, and a
// per-key single-flight group into the one shared acquisition path.
package fetch

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"rodent-dashboard/internal/cache"
	"rodent-dashboard/internal/socrata"
)

// Loader executes one remote read. *socrata.Client satisfies it; tests
// substitute a counting double.
type Loader interface {
	Query(ctx context.Context, params socrata.WireParams) (socrata.RawPayload, error)
}

type Fetcher struct {
	loader      Loader
	cache       *cache.PayloadCache
	group       singleflight.Group
	authContext string
	log         zerolog.Logger
}

func New(loader Loader, payloadCache *cache.PayloadCache, authContext string, log zerolog.Logger) *Fetcher {
	return &Fetcher{
		loader:      loader,
		cache:       payloadCache,
		authContext: authContext,
		log:         log,
	}
}

// Fetch returns the payload for params, from cache when fresh. Concurrent
// callers with the same canonical signature share a single in-flight remote
// call and observe its one outcome. Errors are never cached.
func (f *Fetcher) Fetch(ctx context.Context, params socrata.WireParams) (socrata.RawPayload, error) {
	key := f.cacheKey(params)

	if payload, ok := f.cache.Get(key); ok {
		return payload, nil
	}

	result, err, shared := f.group.Do(key, func() (interface{}, error) {
		// Re-check: a concurrent flight may have populated the entry
		// between the miss above and acquiring the flight.
		if payload, ok := f.cache.Get(key); ok {
			return payload, nil
		}
		// A dispatched fetch runs to completion even if the requesting
		// caller goes away; only the per-attempt timeout bounds it.
		payload, err := f.loader.Query(context.WithoutCancel(ctx), params)
		if err != nil {
			return nil, err
		}
		f.cache.Set(key, payload)
		return payload, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		f.log.Debug().Str("key", key).Msg("fetch coalesced with concurrent caller")
	}
	return result.(socrata.RawPayload), nil
}

// cacheKey is the canonical signature: sorted wire encoding plus the
// rate-limit identity the request runs under.
func (f *Fetcher) cacheKey(params socrata.WireParams) string {
	encoded := params.Encode()
	if f.authContext == "" {
		return encoded
	}
	return encoded + "|" + f.authContext
}
