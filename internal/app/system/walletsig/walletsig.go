// Package walletsig verifies EIP-191 personal-sign signatures for wallet
// login. The server never holds keys; it only recovers the signer address
// from a signature over a known challenge message.
package walletsig

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrBadSignature covers every verification failure: malformed signature,
// unrecoverable key, or a recovered address that does not match.
var ErrBadSignature = errors.New("signature verification failed")

// Message builds the exact challenge string the wallet signs. Any change
// here breaks verification for in-flight nonces, so the format is frozen.
func Message(purpose, nonce string) string {
	return fmt.Sprintf("%s to Global Classrooms with this wallet\n\nNonce: %s", purpose, nonce)
}

// Verify recovers the signer of an EIP-191 signature over message and
// checks it equals walletAddress (case-insensitive hex comparison).
// Accepts both raw (v in 0/1) and wallet-style (v in 27/28) recovery ids.
func Verify(message, signature, walletAddress string) error {
	sig, err := hex.DecodeString(strings.TrimPrefix(signature, "0x"))
	if err != nil || len(sig) != crypto.SignatureLength {
		return ErrBadSignature
	}
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig = append([]byte(nil), sig...)
		sig[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(accounts.TextHash([]byte(message)), sig)
	if err != nil {
		return ErrBadSignature
	}
	recovered := crypto.PubkeyToAddress(*pub)
	if !strings.EqualFold(recovered.Hex(), walletAddress) {
		return ErrBadSignature
	}
	return nil
}
