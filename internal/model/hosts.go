package model

//
// Data flowing through the discovery, probing and selection pipeline.
//

// CandidateSet maps each hostname to its candidate IPv4 addresses. Both
// hostnames and addresses keep their insertion order, which the selector
// relies upon to break ties. The zero value is not ready to use; construct
// using [NewCandidateSet]. A CandidateSet is not safe for concurrent use.
type CandidateSet struct {
	hosts []string
	ips   map[string][]string
}

// NewCandidateSet creates an empty [*CandidateSet].
func NewCandidateSet() *CandidateSet {
	return &CandidateSet{
		hosts: []string{},
		ips:   map[string][]string{},
	}
}

// Add appends the given addresses to the candidates of host, skipping
// duplicates. Calling Add without addresses is a no-op.
func (cs *CandidateSet) Add(host string, ips ...string) {
	for _, ip := range ips {
		existing, found := cs.ips[host]
		if !found {
			cs.hosts = append(cs.hosts, host)
		}
		if !containsString(existing, ip) {
			cs.ips[host] = append(existing, ip)
		}
	}
}

// Hosts returns the hostnames in insertion order.
func (cs *CandidateSet) Hosts() []string {
	return append([]string{}, cs.hosts...)
}

// Candidates returns the addresses of host in discovery order.
func (cs *CandidateSet) Candidates(host string) []string {
	return append([]string{}, cs.ips[host]...)
}

// Flatten returns all the unique addresses in first-seen order.
func (cs *CandidateSet) Flatten() []string {
	out := []string{}
	seen := map[string]bool{}
	for _, host := range cs.hosts {
		for _, ip := range cs.ips[host] {
			if !seen[ip] {
				seen[ip] = true
				out = append(out, ip)
			}
		}
	}
	return out
}

// Len returns the number of hostnames.
func (cs *CandidateSet) Len() int {
	return len(cs.hosts)
}

func containsString(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

// ProbeResult maps an IP address to its measured [Latency]. Re-setting an
// address overwrites its latency but keeps its original position. The zero
// value is not ready to use; construct using [NewProbeResult].
type ProbeResult struct {
	order  []string
	values map[string]Latency
}

// NewProbeResult creates an empty [*ProbeResult].
func NewProbeResult() *ProbeResult {
	return &ProbeResult{
		order:  []string{},
		values: map[string]Latency{},
	}
}

// Set records the latency of ip.
func (pr *ProbeResult) Set(ip string, latency Latency) {
	if _, found := pr.values[ip]; !found {
		pr.order = append(pr.order, ip)
	}
	pr.values[ip] = latency
}

// Get returns the latency of ip and whether ip has been probed.
func (pr *ProbeResult) Get(ip string) (Latency, bool) {
	latency, found := pr.values[ip]
	return latency, found
}

// IPs returns the probed addresses in insertion order.
func (pr *ProbeResult) IPs() []string {
	return append([]string{}, pr.order...)
}

// Len returns the number of probed addresses.
func (pr *ProbeResult) Len() int {
	return len(pr.order)
}

// Reachable returns the number of addresses with a finite latency.
func (pr *ProbeResult) Reachable() (count int) {
	for _, latency := range pr.values {
		if latency.Reachable() {
			count++
		}
	}
	return
}

// SelectionEntry is a single hostname to IP address mapping.
type SelectionEntry struct {
	Hostname string
	IP       string
}

// Selection maps each hostname to the address chosen for it. Iteration
// order is insertion order. The zero value is not ready to use; construct
// using [NewSelection].
type Selection struct {
	entries []SelectionEntry
	index   map[string]int
}

// NewSelection creates an empty [*Selection].
func NewSelection() *Selection {
	return &Selection{
		entries: []SelectionEntry{},
		index:   map[string]int{},
	}
}

// Set maps host to ip, replacing any previous mapping in place.
func (s *Selection) Set(host, ip string) {
	if idx, found := s.index[host]; found {
		s.entries[idx].IP = ip
		return
	}
	s.index[host] = len(s.entries)
	s.entries = append(s.entries, SelectionEntry{Hostname: host, IP: ip})
}

// Get returns the address chosen for host.
func (s *Selection) Get(host string) (string, bool) {
	idx, found := s.index[host]
	if !found {
		return "", false
	}
	return s.entries[idx].IP, true
}

// Entries returns a copy of the entries in insertion order.
func (s *Selection) Entries() []SelectionEntry {
	return append([]SelectionEntry{}, s.entries...)
}

// Hosts returns the hostnames in insertion order.
func (s *Selection) Hosts() []string {
	out := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.Hostname)
	}
	return out
}

// Len returns the number of entries.
func (s *Selection) Len() int {
	return len(s.entries)
}
