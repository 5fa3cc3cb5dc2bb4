package resolver

//
// Encode and decode DNS messages
//

import (
	"github.com/miekg/dns"
)

// encodeQuery creates an A query for domain with a random query ID.
func encodeQuery(domain string) *dns.Msg {
	question := dns.Question{
		Name:   dns.Fqdn(domain),
		Qtype:  dns.TypeA,
		Qclass: dns.ClassINET,
	}
	query := new(dns.Msg)
	query.Id = dns.Id()
	query.RecursionDesired = true
	query.Question = make([]dns.Question, 1)
	query.Question[0] = question
	return query
}

// decodeLookupA parses a raw reply and returns the IPv4 addresses it contains.
func decodeLookupA(data []byte, queryID uint16) ([]string, error) {
	reply := new(dns.Msg)
	if err := reply.Unpack(data); err != nil {
		return nil, err
	}
	if !reply.Response {
		return nil, ErrDNSIsQuery
	}
	if reply.Id != queryID {
		return nil, ErrDNSReplyWithWrongQueryID
	}
	switch reply.Rcode {
	case dns.RcodeSuccess:
	case dns.RcodeNameError:
		return nil, ErrOODNSNoSuchHost
	case dns.RcodeRefused:
		return nil, ErrOODNSRefused
	case dns.RcodeServerFailure:
		return nil, ErrOODNSServfail
	default:
		return nil, ErrOODNSMisbehaving
	}
	var addrs []string
	for _, answer := range reply.Answer {
		if rr, ok := answer.(*dns.A); ok {
			addrs = append(addrs, rr.A.String())
		}
	}
	addrs = filterIPv4(addrs)
	if len(addrs) <= 0 {
		return nil, ErrOODNSNoAnswer
	}
	return addrs, nil
}
