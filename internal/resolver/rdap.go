package resolver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/aleister1102/expirywatch/internal/config"
	"github.com/aleister1102/expirywatch/internal/httpclient"
	"github.com/aleister1102/expirywatch/internal/models"
	"github.com/rs/zerolog"
)

const bootstrapTTL = 24 * time.Hour

// bootstrapFile is the IANA RDAP DNS bootstrap registry (RFC 9224).
type bootstrapFile struct {
	Version  string       `json:"version"`
	Services [][][]string `json:"services"`
}

// rdapDomain is the subset of an RDAP domain object (RFC 9083) we read.
type rdapDomain struct {
	LDHName string      `json:"ldhName"`
	Events  []rdapEvent `json:"events"`
}

type rdapEvent struct {
	Action string `json:"eventAction"`
	Date   string `json:"eventDate"`
}

// RDAPResolver resolves domain expiry dates over RDAP.
type RDAPResolver struct {
	client       *httpclient.HTTPClient
	bootstrapURL string
	logger       zerolog.Logger
	now          func() time.Time

	mu        sync.Mutex
	servers   map[string]string
	fetchedAt time.Time
}

// NewRDAPResolver builds a resolver from configuration.
func NewRDAPResolver(cfg config.ResolverConfig, logger zerolog.Logger) (*RDAPResolver, error) {
	moduleLogger := logger.With().Str("module", "RDAPResolver").Logger()

	client, err := httpclient.NewHTTPClientBuilder(moduleLogger).
		WithTimeout(cfg.Timeout()).
		WithUserAgent(cfg.UserAgent).
		WithHeader("Accept", "application/rdap+json, application/json").
		WithRetry(httpclient.RetryPolicy{
			MaxRetries:  cfg.Retry.MaxRetries,
			BaseDelay:   cfg.Retry.BaseDelay(),
			MaxDelay:    cfg.Retry.MaxDelay(),
			Jitter:      cfg.Retry.EnableJitter,
			StatusCodes: cfg.Retry.RetryStatusCodes,
		}).
		Build()
	if err != nil {
		return nil, fmt.Errorf("building resolver HTTP client: %w", err)
	}

	return &RDAPResolver{
		client:       client,
		bootstrapURL: cfg.BootstrapURL,
		logger:       moduleLogger,
		now:          time.Now,
	}, nil
}

// FetchExpiry returns the registry expiration date of name.
// It returns nil, nil when the registry has no RDAP service, does not know the
// domain, or publishes no expiration event.
func (r *RDAPResolver) FetchExpiry(ctx context.Context, name string) (*time.Time, error) {
	name = models.NormalizeDomainName(name)
	if name == "" || !strings.Contains(name, ".") {
		return nil, &models.ResolverError{Domain: name, Err: errors.New("not a fully qualified domain name")}
	}

	base, err := r.serverFor(ctx, name)
	if err != nil {
		return nil, &models.ResolverError{Domain: name, Err: err}
	}
	if base == "" {
		r.logger.Debug().Str("domain", name).Msg("No RDAP service for TLD")
		return nil, nil
	}

	var obj rdapDomain
	err = r.client.GetJSON(ctx, base+"domain/"+url.PathEscape(name), &obj)
	if err != nil {
		if httpclient.StatusCode(err) == http.StatusNotFound {
			r.logger.Debug().Str("domain", name).Msg("Domain unknown to registry")
			return nil, nil
		}
		return nil, &models.ResolverError{Domain: name, Err: err}
	}

	expiry, err := expirationFrom(obj.Events)
	if err != nil {
		return nil, &models.ResolverError{Domain: name, Err: err}
	}
	return expiry, nil
}

func expirationFrom(events []rdapEvent) (*time.Time, error) {
	for _, ev := range events {
		if !strings.EqualFold(ev.Action, "expiration") {
			continue
		}
		t, err := time.Parse(time.RFC3339, ev.Date)
		if err != nil {
			return nil, fmt.Errorf("parsing expiration date %q: %w", ev.Date, err)
		}
		t = t.UTC()
		return &t, nil
	}
	return nil, nil
}

// serverFor returns the RDAP base URL (with trailing slash) serving name, or "" if none.
func (r *RDAPResolver) serverFor(ctx context.Context, name string) (string, error) {
	servers, err := r.bootstrap(ctx)
	if err != nil {
		return "", err
	}

	labels := strings.Split(name, ".")
	for i := 1; i < len(labels); i++ {
		if base, ok := servers[strings.Join(labels[i:], ".")]; ok {
			return base, nil
		}
	}
	return "", nil
}

func (r *RDAPResolver) bootstrap(ctx context.Context) (map[string]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.servers != nil && r.now().Sub(r.fetchedAt) < bootstrapTTL {
		return r.servers, nil
	}

	var file bootstrapFile
	if err := r.client.GetJSON(ctx, r.bootstrapURL, &file); err != nil {
		if r.servers != nil {
			r.logger.Warn().Err(err).Msg("Failed to refresh RDAP bootstrap, using cached registry")
			return r.servers, nil
		}
		return nil, fmt.Errorf("loading RDAP bootstrap: %w", err)
	}

	servers := make(map[string]string)
	for _, service := range file.Services {
		if len(service) < 2 || len(service[1]) == 0 {
			continue
		}
		base := pickServer(service[1])
		for _, tld := range service[0] {
			servers[strings.ToLower(tld)] = base
		}
	}

	r.servers = servers
	r.fetchedAt = r.now()
	r.logger.Debug().Int("tlds", len(servers)).Str("version", file.Version).Msg("Loaded RDAP bootstrap")
	return servers, nil
}

// pickServer prefers an https endpoint and normalises the trailing slash.
func pickServer(urls []string) string {
	chosen := urls[0]
	for _, u := range urls {
		if strings.HasPrefix(u, "https://") {
			chosen = u
			break
		}
	}
	if !strings.HasSuffix(chosen, "/") {
		chosen += "/"
	}
	return chosen
}
