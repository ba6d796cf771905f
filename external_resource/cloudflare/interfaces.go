package cloudflare

import "context"

// Client defines the interface for the Cloudflare API operations used to
// publish the webhook host
type Client interface {
	// Zone operations
	ZoneIDByName(ctx context.Context, name string) (string, error)

	// DNS Record operations
	ListDNSRecords(ctx context.Context, zoneID string, filter DNSRecordFilter) ([]DNSRecord, error)
	CreateDNSRecord(ctx context.Context, zoneID string, input DNSRecordInput) (*DNSRecord, error)
	UpdateDNSRecord(ctx context.Context, zoneID, recordID string, input DNSRecordInput) (*DNSRecord, error)
}

// DNSRecord represents a DNS record from Cloudflare
type DNSRecord struct {
	ID      string
	ZoneID  string
	Name    string
	Type    string
	Content string
	TTL     int
	Proxied bool
}

// DNSRecordFilter represents filters for listing DNS records
type DNSRecordFilter struct {
	Name string
	Type string
}

// DNSRecordInput represents input for creating or updating a DNS record
type DNSRecordInput struct {
	Name    string
	Type    string
	Content string
	TTL     int
	Proxied bool
}
