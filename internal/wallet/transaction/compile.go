package transaction

import (
	"bytes"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

// Compiled is a versioned (v0) message without address table lookups together
// with its serialized form, which is what signers sign.
type Compiled struct {
	Message solana.Message
	Bytes   []byte
}

// Compile builds the v0 message for instructions paid by payer. It is pure:
// the same inputs always produce the same bytes and no caller-owned
// instruction or account meta is mutated.
func Compile(payer solana.PublicKey, blockhash solana.Hash, instructions []solana.Instruction) (*Compiled, error) {
	if len(instructions) == 0 {
		return nil, errors.New("at least one instruction is required")
	}

	owned := make([]solana.Instruction, 0, len(instructions))
	for i, instr := range instructions {
		cp, err := cloneInstruction(instr)
		if err != nil {
			return nil, errors.Wrapf(err, "instruction %d", i)
		}
		owned = append(owned, cp)
	}

	tx, err := solana.NewTransaction(owned, blockhash, solana.TransactionPayer(payer))
	if err != nil {
		return nil, errors.Wrap(err, "failed to compile message")
	}
	tx.Message.SetVersion(solana.MessageVersionV0)

	raw, err := tx.Message.MarshalBinary()
	if err != nil {
		return nil, errors.Wrap(err, "failed to serialize message")
	}

	return &Compiled{
		Message: tx.Message,
		Bytes:   raw,
	}, nil
}

// RequiredSigners lists the accounts whose signatures the message needs, fee payer first.
func (c *Compiled) RequiredSigners() []solana.PublicKey {
	return RequiredSigners(&c.Message)
}

// NewUnsigned serializes the compiled message in a transaction envelope with
// zeroed signature slots, the form handed to the signer.
func NewUnsigned(c *Compiled) ([]byte, error) {
	tx := &solana.Transaction{Message: c.Message}

	raw, err := tx.MarshalBinary()
	if err != nil {
		return nil, errors.Wrap(err, "failed to serialize unsigned transaction")
	}

	return raw, nil
}

// Decode parses a serialized transaction envelope.
func Decode(raw []byte) (*solana.Transaction, error) {
	tx, err := solana.TransactionFromBytes(raw)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode transaction")
	}

	return tx, nil
}

// SameMessage reports whether tx carries exactly the compiled message bytes.
func SameMessage(tx *solana.Transaction, c *Compiled) (bool, error) {
	raw, err := tx.Message.MarshalBinary()
	if err != nil {
		return false, errors.Wrap(err, "failed to serialize message")
	}

	return bytes.Equal(raw, c.Bytes), nil
}

func RequiredSigners(msg *solana.Message) []solana.PublicKey {
	n := int(msg.Header.NumRequiredSignatures)
	if n > len(msg.AccountKeys) {
		n = len(msg.AccountKeys)
	}

	out := make([]solana.PublicKey, n)
	copy(out, msg.AccountKeys[:n])
	return out
}

func cloneInstruction(instr solana.Instruction) (solana.Instruction, error) {
	data, err := instr.Data()
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode instruction data")
	}

	metas := make(solana.AccountMetaSlice, 0, len(instr.Accounts()))
	for _, meta := range instr.Accounts() {
		cp := *meta
		metas = append(metas, &cp)
	}

	return solana.NewInstruction(instr.ProgramID(), metas, bytes.Clone(data)), nil
}
