package repository

import (
	"context"

	"tg-seed-bot/internal/domain"
)

// DNSRepository defines the interface for DNS record storage operations
type DNSRepository interface {
	// ListByName returns every DNS record named name within a zone, of any type
	ListByName(ctx context.Context, zoneID, name string) ([]domain.DNSRecord, error)

	// CreateRecord creates a new DNS record
	CreateRecord(ctx context.Context, zoneID string, record *domain.DNSRecord) (*domain.DNSRecord, error)

	// UpdateRecord updates an existing DNS record
	UpdateRecord(ctx context.Context, zoneID, recordID string, record *domain.DNSRecord) (*domain.DNSRecord, error)
}

// ZoneRepository defines the interface for zone operations
type ZoneRepository interface {
	// ZoneID returns the ID of the zone with the given name
	ZoneID(ctx context.Context, name string) (string, error)
}
