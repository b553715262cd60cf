// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sanchomuzax/hirstart-recosys/internal/config"
	"github.com/sanchomuzax/hirstart-recosys/internal/storage"
)

const portalPage = `<html><body>
<div class="boxhir">
  <a href="https://index.hu/sport/1" rel="hs_2001_0">First</a>
  <a class="rovat" href="/sport.php">Sport</a>
</div>
<div class="boxhir">
  <a href="https://index.hu/sport/2" rel="hs_2002_0">Second</a>
  <a class="rovat" href="/sport.php">Sport</a>
</div>
<div class="rovidhir">
  <a href="https://telex.hu/belfold/3" rel="hs_2003_0">Third</a>
</div>
</body></html>`

func testRuntime(t *testing.T) *runtime {
	t.Helper()
	cfg := &config.Config{
		Recommend: config.RecommendConfig{Seed: 1, Timeout: time.Second},
		Portal:    config.PortalConfig{HostDomain: "hirstart.hu", BaseURL: "https://www.hirstart.hu/"},
		Fetch: config.FetchConfig{
			Timeout:          time.Second,
			RatePerSecond:    1,
			Burst:            1,
			CacheSize:        4,
			CacheTTL:         time.Minute,
			MaxBodyBytes:     1 << 20,
			BreakerFailures:  3,
			BreakerOpenDelay: time.Second,
		},
	}
	rt, err := newRuntime(cfg, storage.NewMemoryStore())
	require.NoError(t, err)
	return rt
}

// execute parses args against rt and returns what the command printed.
func execute(t *testing.T, rt *runtime, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	parser, _, cmds := buildParser("test", &out, strings.NewReader(stdin))
	cmds.Record.shared.rt = rt
	_, err := parser.ParseArgs(args)
	return out.String(), err
}

func writePage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte(portalPage), 0o600))
	return path
}
