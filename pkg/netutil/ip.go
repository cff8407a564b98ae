package netutil

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/oschwald/maxminddb-golang"
	"github.com/pkg/errors"

	"github.com/bakewell-bakery/bakewell-server/pkg/pointer"
)

type IpMetadata struct {
	City    *string
	Country *string
}

type maxMindRecord struct {
	City struct {
		Names struct {
			En string `maxminddb:"en"`
		} `maxminddb:"names"`
	} `maxminddb:"city"`
	Country struct {
		ISOCode string `maxminddb:"iso_code"`
	} `maxminddb:"country"`
}

// ValidateIpAddress validates the string value as an IP address
func ValidateIpAddress(value string) error {
	if net.ParseIP(value) == nil {
		return errors.New("ip address is invalid")
	}
	return nil
}

// GetClientIp extracts the originating client IP address from a HTTP request.
// When the request passed through a proxy, the first address in the
// X-Forwarded-For header takes precedence over the remote address.
func GetClientIp(r *http.Request) string {
	forwardedFor := r.Header.Get("X-Forwarded-For")
	if len(forwardedFor) > 0 {
		return strings.TrimSpace(strings.Split(forwardedFor, ",")[0])
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// GetIpMetadata gets metadata about an IP. Information is provided on a best-effort
// basis.
func GetIpMetadata(ctx context.Context, db *maxminddb.Reader, ip string) (*IpMetadata, error) {
	if db == nil {
		return &IpMetadata{}, nil
	}

	parsed := net.ParseIP(ip)
	if parsed == nil {
		return nil, errors.New("cannot parse ip")
	}

	var metadata maxMindRecord
	err := db.Lookup(parsed, &metadata)
	if err != nil {
		return nil, errors.Wrap(err, "error looking up ip metadata")
	}

	return &IpMetadata{
		City:    pointer.StringIfValid(len(metadata.City.Names.En) > 0, metadata.City.Names.En),
		Country: pointer.StringIfValid(len(metadata.Country.ISOCode) > 0, metadata.Country.ISOCode),
	}, nil
}
