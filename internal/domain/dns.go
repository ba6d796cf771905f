package domain

import (
	"net"
	"strings"
)

// DNSRecord represents the DNS record that points the public webhook host at this process
type DNSRecord struct {
	ID      string
	ZoneID  string
	Name    string
	Type    string // A, AAAA or CNAME
	Content string
	TTL     int
	Proxied bool
}

// Matches reports whether the record already carries the wanted type and content
func (r DNSRecord) Matches(recordType, content string, proxied bool) bool {
	return r.Type == recordType &&
		strings.EqualFold(strings.TrimSuffix(r.Content, "."), strings.TrimSuffix(content, ".")) &&
		r.Proxied == proxied
}

// RecordTypeForTarget picks the record type for a webhook DNS target.
// IPv4 targets get an A record, IPv6 targets an AAAA record, anything else a CNAME.
func RecordTypeForTarget(target string) string {
	ip := net.ParseIP(target)
	switch {
	case ip == nil:
		return "CNAME"
	case ip.To4() != nil:
		return "A"
	default:
		return "AAAA"
	}
}

// IsAddressType reports whether recordType resolves the host itself (A, AAAA or CNAME)
func IsAddressType(recordType string) bool {
	switch strings.ToUpper(recordType) {
	case "A", "AAAA", "CNAME":
		return true
	}
	return false
}

// SelectAddressRecord picks the record Ensure may rewrite from all records of a
// host: one of wantType if present, otherwise the first A, AAAA or CNAME
// record. TXT, MX and other records are never selected.
func SelectAddressRecord(records []DNSRecord, wantType string) (*DNSRecord, bool) {
	var fallback *DNSRecord
	for i := range records {
		r := &records[i]
		if !IsAddressType(r.Type) {
			continue
		}
		if strings.EqualFold(r.Type, wantType) {
			return r, true
		}
		if fallback == nil {
			fallback = r
		}
	}
	return fallback, fallback != nil
}

// HostInZone checks whether host is the zone apex or one of its subdomains
func HostInZone(host, zone string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	zone = strings.ToLower(strings.TrimSuffix(zone, "."))
	if host == "" || zone == "" {
		return false
	}
	return host == zone || strings.HasSuffix(host, "."+zone)
}
