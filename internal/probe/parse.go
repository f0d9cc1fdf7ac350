package probe

import (
	"strings"

	"github.com/hamed0406/syncwatch/internal/domain"
)

// syncedPhrases maps each client to the lowercase phrases that mean it is
// fully synced. Rocket Pool says "consensus client", Hyperdrive says
// "beacon client".
var syncedPhrases = []struct {
	client  domain.SubClient
	phrases []string
}{
	{domain.PrimaryExecution, []string{"primary execution client is fully synced"}},
	{domain.FallbackExecution, []string{"fallback execution client is fully synced"}},
	{domain.PrimaryConsensus, []string{
		"primary consensus client is fully synced",
		"primary beacon client is fully synced",
	}},
	{domain.FallbackConsensus, []string{
		"fallback consensus client is fully synced",
		"fallback beacon client is fully synced",
	}},
}

// ParseSyncStatus reads `node sync` output. Anything it can't find is
// reported as not synced; it never fails.
func ParseSyncStatus(output string) domain.Status {
	var st domain.Status
	for _, line := range strings.Split(output, "\n") {
		line = strings.ToLower(strings.TrimSpace(line))
		if line == "" {
			continue
		}
		if c, ok := matchLine(line); ok {
			st[c] = true
		}
	}
	return st
}

// matchLine returns the first client whose phrase appears in line.
func matchLine(line string) (domain.SubClient, bool) {
	for _, entry := range syncedPhrases {
		for _, p := range entry.phrases {
			if strings.Contains(line, p) {
				return entry.client, true
			}
		}
	}
	return 0, false
}
