// Package catalog contains the fixed list of GitHub hostnames that
// fasthosts knows how to accelerate.
package catalog

var known = []string{
	"github.com",
	"github.global.ssl.fastly.net",
	"gist.github.com",
	"help.github.com",
	"status.github.com",
	"training.github.com",
	"github.io",
	"github.community",
	"github.dev",
	"api.github.com",
	"collector.github.com",
	"pipelines.actions.githubusercontent.com",
	"media.githubusercontent.com",
	"codeload.github.com",
	"cloud.githubusercontent.com",
	"objects.githubusercontent.com",
	"raw.githubusercontent.com",
	"user-images.githubusercontent.com",
	"favicons.githubusercontent.com",
	"avatars.githubusercontent.com",
	"avatars0.githubusercontent.com",
	"avatars1.githubusercontent.com",
	"avatars2.githubusercontent.com",
	"avatars3.githubusercontent.com",
	"github.githubassets.com",
	"alive.github.com",
	"central.github.com",
	"live.github.com",
	"githubapp.com",
	"githubstatus.com",
}

// recommended is the subset of known that most affects reachability.
var recommended = []string{
	"github.com",
	"github.global.ssl.fastly.net",
	"raw.githubusercontent.com",
	"objects.githubusercontent.com",
	"avatars.githubusercontent.com",
	"github.githubassets.com",
}

// metadataCategories maps a hostname to the categories of the
// https://api.github.com/meta document containing its addresses.
var metadataCategories = map[string][]string{
	"github.com":      {"web", "git"},
	"gist.github.com": {"web"},
	"api.github.com":  {"api"},
}

// Known returns the full catalog in presentation order.
func Known() []string {
	return append([]string{}, known...)
}

// Recommended returns the recommended hostnames.
func Recommended() []string {
	return append([]string{}, recommended...)
}

// IsKnown returns whether host belongs to the catalog.
func IsKnown(host string) bool {
	return contains(known, host)
}

// IsRecommended returns whether host is a recommended hostname.
func IsRecommended(host string) bool {
	return contains(recommended, host)
}

// MetadataCategories returns the metadata categories whose addresses
// are candidates for host. Most hosts have none.
func MetadataCategories(host string) []string {
	return append([]string{}, metadataCategories[host]...)
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
