package usecase

import (
	"context"
	"fmt"
	"net/url"

	"tg-seed-bot/internal/domain"
	"tg-seed-bot/internal/repository"
	"tg-seed-bot/pkg/logger"
)

// automaticTTL lets Cloudflare pick the TTL
const automaticTTL = 1

var log = logger.Component("webhook_dns")

// webhookDNSUsecase implements WebhookDNSUsecase interface
type webhookDNSUsecase struct {
	zoneRepo repository.ZoneRepository
	dnsRepo  repository.DNSRepository
	cfg      WebhookDNSConfig
}

// NewWebhookDNSUsecase creates a new webhook DNS usecase
func NewWebhookDNSUsecase(
	zoneRepo repository.ZoneRepository,
	dnsRepo repository.DNSRepository,
	cfg WebhookDNSConfig,
) WebhookDNSUsecase {
	return &webhookDNSUsecase{
		zoneRepo: zoneRepo,
		dnsRepo:  dnsRepo,
		cfg:      cfg,
	}
}

// Ensure creates or updates the record for the webhook host. A record that
// already points at the target is left alone.
func (u *webhookDNSUsecase) Ensure(ctx context.Context, webhookURL string) (*domain.DNSRecord, error) {
	parsed, err := url.Parse(webhookURL)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook url: %w", err)
	}
	host := parsed.Hostname()
	if !domain.HostInZone(host, u.cfg.Zone) {
		return nil, fmt.Errorf("%w: %s not in %s", domain.ErrHostOutsideZone, host, u.cfg.Zone)
	}

	zoneID, err := u.zoneRepo.ZoneID(ctx, u.cfg.Zone)
	if err != nil {
		return nil, fmt.Errorf("failed to get zone %s: %w", u.cfg.Zone, err)
	}

	recordType := domain.RecordTypeForTarget(u.cfg.Target)
	record := &domain.DNSRecord{
		ZoneID:  zoneID,
		Name:    host,
		Type:    recordType,
		Content: u.cfg.Target,
		TTL:     automaticTTL,
		Proxied: u.cfg.Proxied,
	}

	records, err := u.dnsRepo.ListByName(ctx, zoneID, host)
	if err != nil {
		return nil, fmt.Errorf("failed to look up %s: %w", host, err)
	}

	existing, ok := domain.SelectAddressRecord(records, recordType)
	if !ok {
		created, err := u.dnsRepo.CreateRecord(ctx, zoneID, record)
		if err != nil {
			return nil, fmt.Errorf("failed to create record: %w", err)
		}
		log.WithField("host", host).Infof("created %s record", recordType)
		return created, nil
	}

	if existing.Matches(recordType, u.cfg.Target, u.cfg.Proxied) {
		log.WithField("host", host).Debug("dns record already up to date")
		return existing, nil
	}

	updated, err := u.dnsRepo.UpdateRecord(ctx, zoneID, existing.ID, record)
	if err != nil {
		return nil, fmt.Errorf("failed to update record: %w", err)
	}
	log.WithField("host", host).Infof("updated %s record", recordType)
	return updated, nil
}
