package transaction

import (
	"github.com/gagliardetto/solana-go"
)

// MemoProgramID is the SPL memo program (v2).
var MemoProgramID = solana.MemoProgramID

// MemoInstruction records text on the ledger. It references no accounts, so
// the memo is unsigned by anyone but the fee payer.
func MemoInstruction(text string) solana.Instruction {
	return solana.NewInstruction(MemoProgramID, solana.AccountMetaSlice{}, []byte(text))
}
