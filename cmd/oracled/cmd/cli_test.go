package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/burnoracle/x/oracle/types"
)

func testAddress(b byte) string {
	return sdk.AccAddress(bytes.Repeat([]byte{b}, 20)).String()
}

// execute runs oracled with args against home and returns stdout
func execute(t *testing.T, home string, args ...string) (string, error) {
	t.Helper()

	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--" + flagHome, home, "--" + flagLogLevel, "error"}, args...))

	err := root.ExecuteContext(context.Background())
	return stdout.String(), err
}

func mustExecute(t *testing.T, home string, args ...string) string {
	t.Helper()
	out, err := execute(t, home, args...)
	require.NoError(t, err, "oracled %v", args)
	return out
}

func TestCLI_ReferenceRound(t *testing.T) {
	home := t.TempDir()
	owner, admin := testAddress(0xA1), testAddress(0xA2)
	reporterA, reporterB := testAddress(0x01), testAddress(0x02)

	mustExecute(t, home, "init",
		"--owner", owner,
		"--emergency-admin", admin,
		"--account", reporterA+"=1000000uoracle",
		"--account", reporterB+"=2000000uoracle",
	)

	_, err := execute(t, home, "init", "--owner", owner, "--emergency-admin", admin)
	require.ErrorContains(t, err, "genesis already exists")

	out := mustExecute(t, home, "tx", "create-feed", "ETH/USD", "--from", owner)
	var created struct {
		Height   int64                       `json:"height"`
		Response types.MsgCreateFeedResponse `json:"response"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	require.Equal(t, int64(2), created.Height)
	require.Equal(t, uint64(1), created.Response.FeedId)

	mustExecute(t, home, "tx", "submit", "1", "100", "1000000", "--from", reporterA)
	mustExecute(t, home, "tx", "submit", "1", "110", "2000000", "--from", reporterB)

	_, err = execute(t, home, "tx", "finalize", "1", "0", "--from", owner)
	require.ErrorIs(t, err, types.ErrInvalidTimestamp)

	mustExecute(t, home, "advance", "6")
	mustExecute(t, home, "tx", "finalize", "1", "0", "--from", owner)

	out = mustExecute(t, home, "query", "price", "1")
	var price types.QueryPriceResponse
	require.NoError(t, json.Unmarshal([]byte(out), &price))
	require.Equal(t, "106", price.Price.String())

	out = mustExecute(t, home, "query", "reputation", reporterB)
	require.Contains(t, out, strconv.Itoa(105))
}

func TestCLI_PauseBlocksSubmissions(t *testing.T) {
	home := t.TempDir()
	owner, admin := testAddress(0xA1), testAddress(0xA2)
	reporter := testAddress(0x01)

	mustExecute(t, home, "init",
		"--owner", owner,
		"--emergency-admin", admin,
		"--account", reporter+"=1000000uoracle",
	)
	mustExecute(t, home, "tx", "create-feed", "ETH/USD", "--from", owner)

	_, err := execute(t, home, "tx", "toggle-pause", "--from", owner)
	require.ErrorIs(t, err, types.ErrUnauthorized)

	mustExecute(t, home, "tx", "toggle-pause", "--from", admin)

	_, err = execute(t, home, "tx", "submit", "1", "100", "1000000", "--from", reporter)
	require.ErrorIs(t, err, types.ErrCircuitBreakerActive)

	out := mustExecute(t, home, "query", "status")
	var status types.QueryContractStatusResponse
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	require.True(t, status.Status.Paused)
	require.Equal(t, uint64(1), status.Status.FeedCount)
}

func TestCLI_Errors(t *testing.T) {
	home := t.TempDir()

	_, err := execute(t, home, "query", "status")
	require.Error(t, err)

	_, err = execute(t, home, "tx", "create-feed", "ETH/USD")
	require.ErrorContains(t, err, "--from is required")

	_, err = execute(t, home, "tx", "submit", "x", "100", "1000000", "--from", testAddress(0x01))
	require.ErrorContains(t, err, "invalid feed id")

	_, err = execute(t, home, "advance", "0")
	require.ErrorContains(t, err, "block count must be positive")
}
