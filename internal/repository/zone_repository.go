package repository

import (
	"context"

	"tg-seed-bot/external_resource/cloudflare"
)

// zoneRepository implements ZoneRepository using Cloudflare client
type zoneRepository struct {
	client cloudflare.Client
}

// NewZoneRepository creates a new zone repository
func NewZoneRepository(client cloudflare.Client) ZoneRepository {
	return &zoneRepository{
		client: client,
	}
}

// ZoneID returns the ID of the zone with the given name
func (r *zoneRepository) ZoneID(ctx context.Context, name string) (string, error) {
	return r.client.ZoneIDByName(ctx, name)
}
