package cloudflare

import (
	"context"
	"fmt"

	"tg-seed-bot/pkg/logger"

	"github.com/cloudflare/cloudflare-go"
)

var log = logger.Component("cloudflare")

// cloudflareClient implements the Client interface using cloudflare-go SDK
type cloudflareClient struct {
	api *cloudflare.API
}

// NewClient creates a new Cloudflare client using API token
func NewClient(apiToken string) (Client, error) {
	api, err := cloudflare.NewWithAPIToken(apiToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudflare client: %w", err)
	}

	return &cloudflareClient{
		api: api,
	}, nil
}

// ZoneIDByName resolves a zone name to its ID
func (c *cloudflareClient) ZoneIDByName(ctx context.Context, name string) (string, error) {
	zoneID, err := c.api.ZoneIDByName(name)
	if err != nil {
		return "", fmt.Errorf("failed to get zone by name %s: %w", name, err)
	}
	log.WithField("zone", name).Debugf("resolved zone id %s", zoneID)
	return zoneID, nil
}

// ListDNSRecords returns the DNS records of a zone matching filter
func (c *cloudflareClient) ListDNSRecords(ctx context.Context, zoneID string, filter DNSRecordFilter) ([]DNSRecord, error) {
	listParams := cloudflare.ListDNSRecordsParams{
		Name: filter.Name,
		Type: filter.Type,
	}

	records, _, err := c.api.ListDNSRecords(ctx, cloudflare.ZoneIdentifier(zoneID), listParams)
	if err != nil {
		return nil, fmt.Errorf("failed to list dns records: %w", err)
	}

	result := make([]DNSRecord, len(records))
	for i, r := range records {
		result[i] = mapCloudflareRecord(r)
	}
	return result, nil
}

// CreateDNSRecord creates a new DNS record
func (c *cloudflareClient) CreateDNSRecord(ctx context.Context, zoneID string, input DNSRecordInput) (*DNSRecord, error) {
	proxied := input.Proxied
	createParams := cloudflare.CreateDNSRecordParams{
		Name:    input.Name,
		Type:    input.Type,
		Content: input.Content,
		TTL:     input.TTL,
		Proxied: &proxied,
	}

	record, err := c.api.CreateDNSRecord(ctx, cloudflare.ZoneIdentifier(zoneID), createParams)
	if err != nil {
		return nil, fmt.Errorf("failed to create dns record: %w", err)
	}

	result := mapCloudflareRecord(record)
	return &result, nil
}

// UpdateDNSRecord updates an existing DNS record
func (c *cloudflareClient) UpdateDNSRecord(ctx context.Context, zoneID, recordID string, input DNSRecordInput) (*DNSRecord, error) {
	proxied := input.Proxied
	updateParams := cloudflare.UpdateDNSRecordParams{
		ID:      recordID,
		Name:    input.Name,
		Type:    input.Type,
		Content: input.Content,
		TTL:     input.TTL,
		Proxied: &proxied,
	}

	record, err := c.api.UpdateDNSRecord(ctx, cloudflare.ZoneIdentifier(zoneID), updateParams)
	if err != nil {
		return nil, fmt.Errorf("failed to update dns record %s: %w", recordID, err)
	}

	result := mapCloudflareRecord(record)
	return &result, nil
}

// mapCloudflareRecord maps cloudflare-go DNSRecord to our DNSRecord
func mapCloudflareRecord(r cloudflare.DNSRecord) DNSRecord {
	proxied := false
	if r.Proxied != nil {
		proxied = *r.Proxied
	}
	return DNSRecord{
		ID:      r.ID,
		ZoneID:  r.ZoneID,
		Name:    r.Name,
		Type:    r.Type,
		Content: r.Content,
		TTL:     r.TTL,
		Proxied: proxied,
	}
}
