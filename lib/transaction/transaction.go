package transaction

import (
	"encoding/json"

	"github.com/btcsuite/btcutil/base58"

	"boscoin.io/obscura/lib/common"
	"boscoin.io/obscura/lib/common/keypair"
	"boscoin.io/obscura/lib/errors"
	"boscoin.io/obscura/lib/transaction/operation"
)

const Version = "1"

type Transaction struct {
	H Header
	B Body
}

type Header struct {
	Version   string `json:"version"`
	Created   string `json:"created"`
	Hash      string `json:"hash"`
	Signature string `json:"signature"`
}

type Body struct {
	Source     string                `json:"source"`
	SequenceID uint64                `json:"sequence_id"`
	Operations []operation.Operation `json:"operations"`
}

func (tb Body) MakeHash() []byte {
	return common.MustMakeObjectHash(tb)
}

func (tb Body) MakeHashString() string {
	return base58.Encode(tb.MakeHash())
}

func NewTransaction(source string, sequenceID uint64, ops ...operation.Operation) (tx Transaction, err error) {
	if len(ops) < 1 {
		err = errors.EmptyOperations
		return
	}

	body := Body{
		Source:     source,
		SequenceID: sequenceID,
		Operations: ops,
	}

	tx = Transaction{
		H: Header{
			Version: Version,
			Created: common.NowISO8601(),
			Hash:    body.MakeHashString(),
		},
		B: body,
	}

	return
}

// MustNewTransaction builds a transaction from operation bodies.
func MustNewTransaction(source string, sequenceID uint64, bodies ...operation.Body) Transaction {
	var ops []operation.Operation
	for _, body := range bodies {
		ops = append(ops, operation.MustNewOperation(body))
	}

	tx, err := NewTransaction(source, sequenceID, ops...)
	if err != nil {
		panic(err)
	}
	return tx
}

func NewTransactionFromJSON(b []byte) (tx Transaction, err error) {
	if err = json.Unmarshal(b, &tx); err != nil {
		err = errors.DecodingFailed.Clone().SetData("error", err.Error())
		return
	}

	return
}

var WellFormedCheckerFuncs = []common.CheckerFunc{
	CheckSource,
	CheckOverOperationsLimit,
	CheckOperations,
	CheckHash,
	CheckVerifySignature,
}

func (tx Transaction) IsWellFormed(config common.Config) (err error) {
	checker := &Checker{
		DefaultChecker: common.DefaultChecker{Funcs: WellFormedCheckerFuncs},
		Config:         config,
		Transaction:    tx,
	}

	return common.RunChecker(checker, nil)
}

func (tx Transaction) IsValidSequenceID(sequenceID uint64) bool {
	return tx.B.SequenceID == sequenceID
}

func (tx Transaction) GetHash() string {
	return tx.H.Hash
}

func (tx Transaction) Source() string {
	return tx.B.Source
}

func (tx Transaction) Serialize() (encoded []byte, err error) {
	encoded, err = json.Marshal(tx)
	return
}

func (tx Transaction) String() string {
	encoded, _ := json.MarshalIndent(tx, "", "  ")
	return string(encoded)
}

func (tx *Transaction) Sign(kp keypair.KP, networkID []byte) {
	tx.H.Hash = tx.B.MakeHashString()
	signature, _ := keypair.MakeSignature(kp, networkID, tx.H.Hash)

	tx.H.Signature = base58.Encode(signature)
}
