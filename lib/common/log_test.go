package common

import (
	"bytes"
	"encoding/json"
	"testing"

	logging "github.com/inconshreveable/log15"
	"github.com/stretchr/testify/require"

	"boscoin.io/obscura/lib/errors"
)

func TestJsonFormatEx(t *testing.T) {
	var buf bytes.Buffer

	logger := logging.New("module", "test")
	SetLoggerHandler(logger, logging.LvlDebug, logging.StreamHandler(&buf, JsonFormatEx(false, true)))

	logger.Debug("vote rejected", "proposal", uint64(3), "error", errors.AlreadyVoted, "power", NewPower(5))

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &m))
	require.Equal(t, "vote rejected", m["msg"])
	require.Equal(t, "test", m["module"])
	require.Equal(t, float64(3), m["proposal"])
	require.Equal(t, "5", m["power"])

	e := m["error"].(map[string]interface{})
	require.Equal(t, float64(errors.AlreadyVoted.Code), e["code"])
}

func TestSetLoggerHandlerFiltersLevel(t *testing.T) {
	var buf bytes.Buffer

	logger := logging.New("module", "test")
	SetLoggerHandler(logger, logging.LvlInfo, logging.StreamHandler(&buf, JsonFormatEx(false, true)))

	logger.Debug("killme")
	require.Empty(t, buf.Bytes())

	logger.Info("showme")
	require.NotEmpty(t, buf.Bytes())
}
