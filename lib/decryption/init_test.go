package decryption

import (
	logging "github.com/inconshreveable/log15"

	"boscoin.io/obscura/lib/common/test"
)

func init() {
	SetLogging(logging.LvlDebug, test.LogHandler())
}
