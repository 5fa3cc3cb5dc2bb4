package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestKnown(t *testing.T) {
	hosts := Known()
	if len(hosts) != 30 {
		t.Fatal("unexpected number of hosts", len(hosts))
	}
	if hosts[0] != "github.com" || hosts[len(hosts)-1] != "githubstatus.com" {
		t.Fatal("unexpected order", hosts)
	}
	seen := map[string]bool{}
	for _, host := range hosts {
		if seen[host] {
			t.Fatal("duplicate host", host)
		}
		seen[host] = true
	}
}

func TestRecommendedIsSubsetOfKnown(t *testing.T) {
	for _, host := range Recommended() {
		if !IsKnown(host) {
			t.Fatal("recommended host not in catalog", host)
		}
		if !IsRecommended(host) {
			t.Fatal("IsRecommended disagrees with Recommended", host)
		}
	}
	if IsRecommended("gist.github.com") {
		t.Fatal("gist.github.com should not be recommended")
	}
	if IsKnown("example.com") {
		t.Fatal("example.com should not be known")
	}
}

func TestReturnedSlicesAreCopies(t *testing.T) {
	Known()[0] = "example.com"
	Recommended()[0] = "example.com"
	MetadataCategories("github.com")[0] = "hooks"
	if Known()[0] != "github.com" || Recommended()[0] != "github.com" {
		t.Fatal("catalog was modified")
	}
	if diff := cmp.Diff([]string{"web", "git"}, MetadataCategories("github.com")); diff != "" {
		t.Fatal(diff)
	}
}

func TestMetadataCategories(t *testing.T) {
	if diff := cmp.Diff([]string{"api"}, MetadataCategories("api.github.com")); diff != "" {
		t.Fatal(diff)
	}
	if len(MetadataCategories("raw.githubusercontent.com")) != 0 {
		t.Fatal("expected no categories")
	}
}
