package repository

import (
	"context"

	"tg-seed-bot/external_resource/cloudflare"
	"tg-seed-bot/internal/domain"
)

// dnsRepository implements DNSRepository using Cloudflare client
type dnsRepository struct {
	client cloudflare.Client
}

// NewDNSRepository creates a new DNS repository
func NewDNSRepository(client cloudflare.Client) DNSRepository {
	return &dnsRepository{
		client: client,
	}
}

// ListByName returns every DNS record named name within a zone
func (r *dnsRepository) ListByName(ctx context.Context, zoneID, name string) ([]domain.DNSRecord, error) {
	filter := cloudflare.DNSRecordFilter{
		Name: name,
	}

	records, err := r.client.ListDNSRecords(ctx, zoneID, filter)
	if err != nil {
		return nil, err
	}

	result := make([]domain.DNSRecord, len(records))
	for i, rec := range records {
		result[i] = mapToDomainRecord(rec)
	}
	return result, nil
}

// CreateRecord creates a new DNS record
func (r *dnsRepository) CreateRecord(ctx context.Context, zoneID string, record *domain.DNSRecord) (*domain.DNSRecord, error) {
	created, err := r.client.CreateDNSRecord(ctx, zoneID, toInput(record))
	if err != nil {
		return nil, err
	}

	result := mapToDomainRecord(*created)
	return &result, nil
}

// UpdateRecord updates an existing DNS record
func (r *dnsRepository) UpdateRecord(ctx context.Context, zoneID, recordID string, record *domain.DNSRecord) (*domain.DNSRecord, error) {
	updated, err := r.client.UpdateDNSRecord(ctx, zoneID, recordID, toInput(record))
	if err != nil {
		return nil, err
	}

	result := mapToDomainRecord(*updated)
	return &result, nil
}

func toInput(record *domain.DNSRecord) cloudflare.DNSRecordInput {
	return cloudflare.DNSRecordInput{
		Name:    record.Name,
		Type:    record.Type,
		Content: record.Content,
		TTL:     record.TTL,
		Proxied: record.Proxied,
	}
}

// mapToDomainRecord maps external resource record to domain record
func mapToDomainRecord(r cloudflare.DNSRecord) domain.DNSRecord {
	return domain.DNSRecord{
		ID:      r.ID,
		ZoneID:  r.ZoneID,
		Name:    r.Name,
		Type:    r.Type,
		Content: r.Content,
		TTL:     r.TTL,
		Proxied: r.Proxied,
	}
}
