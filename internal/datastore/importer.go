package datastore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	commonerrors "github.com/aleister1102/expirywatch/internal/common/errors"
	"github.com/aleister1102/expirywatch/internal/models"
	"gopkg.in/yaml.v3"
)

// ImportDocument is the seed file layout. JSON documents are accepted as YAML.
type ImportDocument struct {
	Domains  []ImportDomain  `yaml:"domains"`
	Channels []ImportChannel `yaml:"channels"`
}

// ImportDomain is one domain entry of a seed file.
type ImportDomain struct {
	Domain        string `yaml:"domain"`
	Mode          string `yaml:"mode"`
	Provider      string `yaml:"provider"`
	ExpireAt      string `yaml:"expire_at"`
	Notes         string `yaml:"notes"`
	GroupName     string `yaml:"group_name"`
	AutoRefresh   *bool  `yaml:"auto_refresh"`
	CheckInterval int    `yaml:"check_interval"`
}

// ImportChannel is one notification channel entry of a seed file.
type ImportChannel struct {
	Type    string                 `yaml:"type"`
	Config  map[string]interface{} `yaml:"config"`
	Enabled *bool                  `yaml:"enabled"`
}

// ImportSummary reports what an import wrote.
type ImportSummary struct {
	Domains  int
	Channels int
}

var importDateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", models.DateLayout}

// ImportFile reads a YAML or JSON seed file and upserts its domains and channels.
// Invalid entries are skipped and reported in the returned error; valid ones are still written.
func (s *SQLiteStore) ImportFile(ctx context.Context, path string) (ImportSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("reading import file: %w", err)
	}

	var doc ImportDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return ImportSummary{}, fmt.Errorf("parsing import file %s: %w", path, err)
	}
	return s.Import(ctx, doc)
}

// Import upserts the domains and channels of doc.
func (s *SQLiteStore) Import(ctx context.Context, doc ImportDocument) (ImportSummary, error) {
	var summary ImportSummary
	var ec commonerrors.ErrorCollector

	for _, in := range doc.Domains {
		d, err := in.toDomain()
		if err != nil {
			ec.AddWithContext(err, fmt.Sprintf("domain %q", in.Domain))
			continue
		}
		if _, err := s.UpsertDomain(ctx, d); err != nil {
			if models.IsStoreError(err) {
				return summary, err
			}
			ec.AddWithContext(err, fmt.Sprintf("domain %q", in.Domain))
			continue
		}
		summary.Domains++
	}

	for i, in := range doc.Channels {
		channelType := models.ChannelType(strings.ToLower(strings.TrimSpace(in.Type)))
		raw, err := json.Marshal(in.Config)
		if err != nil {
			ec.AddWithContext(err, fmt.Sprintf("channel #%d", i+1))
			continue
		}
		cfg, err := models.ParseChannelConfig(channelType, raw)
		if err != nil {
			ec.AddWithContext(err, fmt.Sprintf("channel #%d", i+1))
			continue
		}
		// store the parsed form so equivalent inputs map to the same row
		canonical, err := models.MarshalChannelConfig(cfg)
		if err != nil {
			ec.AddWithContext(err, fmt.Sprintf("channel #%d", i+1))
			continue
		}
		enabled := in.Enabled == nil || *in.Enabled
		if _, err := s.UpsertChannel(ctx, channelType, canonical, enabled); err != nil {
			return summary, err
		}
		summary.Channels++
	}

	s.logger.Info().Int("domains", summary.Domains).Int("channels", summary.Channels).Msg("Import finished")
	return summary, ec.Error()
}

func (in ImportDomain) toDomain() (models.Domain, error) {
	d := models.Domain{
		Name:              models.NormalizeDomainName(in.Domain),
		Mode:              models.ParseDomainMode(in.Mode),
		Provider:          in.Provider,
		Notes:             in.Notes,
		GroupName:         in.GroupName,
		AutoRefresh:       in.AutoRefresh == nil || *in.AutoRefresh,
		CheckIntervalDays: in.CheckInterval,
	}
	if d.Name == "" {
		return d, NewValidationError("domain", in.Domain, "domain name must not be empty")
	}

	if expire := strings.TrimSpace(in.ExpireAt); expire != "" {
		t, err := parseImportTime(expire)
		if err != nil {
			return d, NewValidationError("expire_at", in.ExpireAt, "unrecognised date format")
		}
		d.ExpireAt = &t
	}
	return d, nil
}

func parseImportTime(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range importDateLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
