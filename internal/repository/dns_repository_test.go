package repository

import (
	"context"
	"testing"

	"tg-seed-bot/external_resource/cloudflare"
	"tg-seed-bot/internal/domain"
)

type fakeClient struct {
	records []cloudflare.DNSRecord
	filter  cloudflare.DNSRecordFilter
	created cloudflare.DNSRecordInput
}

func (f *fakeClient) ZoneIDByName(_ context.Context, name string) (string, error) {
	return "id-" + name, nil
}

func (f *fakeClient) ListDNSRecords(_ context.Context, _ string, filter cloudflare.DNSRecordFilter) ([]cloudflare.DNSRecord, error) {
	f.filter = filter
	return f.records, nil
}

func (f *fakeClient) CreateDNSRecord(_ context.Context, zoneID string, input cloudflare.DNSRecordInput) (*cloudflare.DNSRecord, error) {
	f.created = input
	return &cloudflare.DNSRecord{ID: "new", ZoneID: zoneID, Name: input.Name, Type: input.Type, Content: input.Content, Proxied: input.Proxied}, nil
}

func (f *fakeClient) UpdateDNSRecord(_ context.Context, zoneID, recordID string, input cloudflare.DNSRecordInput) (*cloudflare.DNSRecord, error) {
	return &cloudflare.DNSRecord{ID: recordID, ZoneID: zoneID, Name: input.Name, Type: input.Type, Content: input.Content}, nil
}

func TestListByName(t *testing.T) {
	client := &fakeClient{records: []cloudflare.DNSRecord{
		{ID: "txt1", Name: "bot.example.com", Type: "TXT", Content: "v=spf1 -all"},
		{ID: "r1", Name: "bot.example.com", Type: "A", Content: "203.0.113.10", Proxied: true},
	}}
	repo := NewDNSRepository(client)

	recs, err := repo.ListByName(context.Background(), "z", "bot.example.com")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if client.filter.Name != "bot.example.com" {
		t.Fatalf("unexpected filter %+v", client.filter)
	}
	if len(recs) != 2 || recs[0].Type != "TXT" || recs[1].ID != "r1" || !recs[1].Proxied {
		t.Fatalf("unexpected records %+v", recs)
	}
}

func TestListByNameEmpty(t *testing.T) {
	recs, err := NewDNSRepository(&fakeClient{}).ListByName(context.Background(), "z", "bot.example.com")
	if err != nil || len(recs) != 0 {
		t.Fatalf("expected no records, got %+v (%v)", recs, err)
	}
}

func TestCreateRecordPassesFields(t *testing.T) {
	client := &fakeClient{}
	repo := NewDNSRepository(client)

	rec, err := repo.CreateRecord(context.Background(), "z", &domain.DNSRecord{Name: "bot.example.com", Type: "CNAME", Content: "tunnel.example.net", TTL: 1, Proxied: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.ID != "new" || rec.ZoneID != "z" || !client.created.Proxied || client.created.TTL != 1 {
		t.Fatalf("unexpected result %+v (input %+v)", rec, client.created)
	}
}

func TestZoneID(t *testing.T) {
	id, err := NewZoneRepository(&fakeClient{}).ZoneID(context.Background(), "example.com")
	if err != nil || id != "id-example.com" {
		t.Fatalf("unexpected zone id %q (%v)", id, err)
	}
}
