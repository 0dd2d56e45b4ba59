// Copyright (c) 2021 The CliqStaking developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"log/slog"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerOutput(t *testing.T) {
	var buf bytes.Buffer
	var lvl slog.LevelVar
	lvl.Set(LevelInfo)

	lg := NewLogger(LogfmtHandlerWithLevel(&buf, &lvl))
	lg = lg.With("pkg", "staking")

	lg.Info("staked", "amount", big.NewInt(100))
	out := buf.String()
	assert.True(t, strings.Contains(out, "lvl=info"))
	assert.True(t, strings.Contains(out, "pkg=staking"))
	assert.True(t, strings.Contains(out, "amount=100"))

	buf.Reset()
	lg.Debug("not emitted")
	assert.Equal(t, "", buf.String())
}

func TestFromLegacyLevel(t *testing.T) {
	assert.Equal(t, LevelTrace, FromLegacyLevel(5))
	assert.Equal(t, slog.LevelInfo, FromLegacyLevel(3))
	assert.Equal(t, LevelCrit, FromLegacyLevel(0))
}

func TestRootDiscardsByDefault(t *testing.T) {
	// the default root logger must never panic
	WithContext("pkg", "test").Info("no-op")
}
