package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/royalty-ledger/internal/core/domain"
)

const (
	admin    = "0x0000000000000000000000000000000000000A0a"
	stranger = "0x0000000000000000000000000000000000000dEf"
	custody  = "0x000000000000000000000000000000000000C0DE"
	creator  = "0x0000000000000000000000000000000000C0FFEe"
	player   = "0x0000000000000000000000000000000000000b0b"
	rawr     = "0x000000000000000000000000000000000000A55E"
	contract = "0x00000000000000000000000000000000000000C1"

	registryFile = `assets:
  - contract: "0x00000000000000000000000000000000000000c1"
    receiver: "0x0000000000000000000000000000000000c0ffee"
    rate: 200
`
)

// checksummed is how addresses appear in the output of commands.
func checksummed(s string) string {
	return common.HexToAddress(s).Hex()
}

func setupEnv(t *testing.T) {
	datadir := t.TempDir()
	registryPath := filepath.Join(datadir, "registry.yaml")
	require.NoError(t, os.WriteFile(registryPath, []byte(registryFile), 0644))

	t.Setenv("ROYALTY_DATADIR", datadir)
	t.Setenv("ROYALTY_CUSTODY_ADDRESS", custody)
	t.Setenv("ROYALTY_ADMIN_ADDRESSES", admin)
	t.Setenv("ROYALTY_REGISTRY_FILE", registryPath)
	t.Setenv("ROYALTY_LOG_LEVEL", "2")
}

func run(t *testing.T, args ...string) (string, error) {
	buf := &bytes.Buffer{}
	app := newApp()
	app.Writer = buf
	err := app.Run(append([]string{"royaltyctl"}, args...))
	return buf.String(), err
}

func runJSON(t *testing.T, resp interface{}, args ...string) {
	out, err := run(t, args...)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), resp))
}

func TestOrderLifecycle(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "fund", "--token", rawr, "--account", player, "--amount", "100000")
	require.NoError(t, err)

	added := map[string]int{}
	runJSON(t, &added, "tokens", "add", "--token", rawr)
	require.Equal(t, 1, added["added"])

	_, err = run(t,
		"deposit", "--token", rawr, "--from", player,
		"--order", "1", "--order", "2", "--amount", "5000", "--amount", "5000",
	)
	require.NoError(t, err)

	_, err = run(t,
		"royalty", "--receiver", creator,
		"--order", "1", "--order", "2", "--amount", "100", "--amount", "100",
	)
	require.NoError(t, err)

	_, err = run(t,
		"platformfee", "--token", rawr,
		"--order", "1", "--order", "2", "--amount", "15", "--amount", "15",
	)
	require.NoError(t, err)

	balances := map[string]map[string]string{}
	runJSON(t, &balances, "balance", "--order", "1", "--order", "2")
	require.Equal(t, map[string]map[string]string{
		"1": {checksummed(rawr): "4885"},
		"2": {checksummed(rawr): "4885"},
	}, balances)

	claimable := map[string]string{}
	runJSON(t, &claimable, "claimable", "--owner", creator)
	require.Equal(t, map[string]string{checksummed(rawr): "200"}, claimable)

	fees := struct {
		Rate uint32            `json:"rate"`
		Fees map[string]string `json:"fees"`
	}{}
	runJSON(t, &fees, "fees")
	require.Equal(t, uint32(30), fees.Rate)
	require.Equal(t, map[string]string{checksummed(rawr): "30"}, fees.Fees)

	payouts := map[string]string{}
	runJSON(t, &payouts, "claim", "--owner", creator)
	require.Equal(t, map[string]string{checksummed(rawr): "200"}, payouts)

	claimable = map[string]string{}
	runJSON(t, &claimable, "claimable", "--owner", creator)
	require.Empty(t, claimable)

	entries := []journalEntry{}
	runJSON(t, &entries, "journal", "--order", "1")
	require.Len(t, entries, 3)
	require.Equal(t, "deposit", entries[0].Kind)
	require.Equal(t, "royalty", entries[1].Kind)
	require.Equal(t, "platform_fee", entries[2].Kind)

	entries = []journalEntry{}
	runJSON(t, &entries, "journal", "--limit", "1")
	require.Len(t, entries, 1)
	require.Equal(t, "claim", entries[0].Kind)
}

func TestQuote(t *testing.T) {
	setupEnv(t)

	payable := map[string]string{}
	runJSON(t, &payable,
		"quote", "payable", "--contract", contract, "--token-id", "1",
		"--amount", "8000",
	)
	require.Equal(t, "160", payable["royalty_fee"])
	require.Equal(t, "7840", payable["remaining"])

	buy := map[string]interface{}{}
	runJSON(t, &buy,
		"quote", "buy", "--contract", contract,
		"--amount", "10000", "--amount", "9000",
	)
	require.Equal(t, []interface{}{"200", "180"}, buy["royalty_fees"])
	require.Equal(t, []interface{}{"30", "27"}, buy["platform_fees"])
	require.Equal(t, []interface{}{"9770", "8793"}, buy["remaining"])

	sell := map[string]interface{}{}
	runJSON(t, &sell,
		"quote", "sell", "--contract", contract,
		"--amount", "10000", "--amount", "10000",
	)
	require.Equal(t, "400", sell["royalty_total"])
	require.Equal(t, []interface{}{"9800", "9800"}, sell["remaining"])

	_, err := run(t,
		"quote", "payable", "--contract", stranger, "--amount", "1",
	)
	require.ErrorIs(t, err, domain.ErrInvalidAsset)
}

func TestFailingCommands(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "--caller", stranger, "setrate", "--rate", "50")
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = run(t, "setrate", "--rate", "10001")
	require.ErrorIs(t, err, domain.ErrInvalidRate)

	_, err = run(t,
		"deposit", "--token", rawr, "--from", player, "--order", "1",
		"--amount", "10",
	)
	require.ErrorIs(t, err, domain.ErrUnsupportedToken)

	_, err = run(t, "balance", "--order", "abc")
	require.Error(t, err)

	_, err = run(t, "setrate", "--rate", "50")
	require.NoError(t, err)

	fees := struct {
		Rate uint32 `json:"rate"`
	}{}
	runJSON(t, &fees, "fees")
	require.Equal(t, uint32(50), fees.Rate)
}
