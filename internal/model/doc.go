// Package model contains the shared interfaces and data structures.
//
// This package should only contain types that several packages need
// to agree upon, so that unrelated packages do not depend on each other
// and unit testing with mocks remains easy. Logic lives elsewhere, unless
// it is strictly tied to a data structure defined here.
//
// # Content of this package
//
// - hosts.go: candidate sets, probe results and selections flowing
// through the discovery, probing and selection pipeline;
//
// - http.go: the HTTP client interface used to fetch metadata;
//
// - latency.go: the latency type and its unreachable sentinel;
//
// - logger.go: an apex/log compatible logger definition;
//
// - netx.go: the resolver and pinger interfaces.
package model
