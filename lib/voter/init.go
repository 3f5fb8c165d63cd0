package voter

import (
	logging "github.com/inconshreveable/log15"

	"boscoin.io/obscura/lib/common"
)

var log logging.Logger = logging.New("module", "voter")

func init() {
	SetLogging(common.DefaultLogLevel, common.DefaultLogHandler)
}

func SetLogging(level logging.Lvl, handler logging.Handler) {
	common.SetLoggerHandler(log, level, handler)
}
