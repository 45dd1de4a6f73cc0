package object

import (
	"fmt"
	"math/big"
)

// FoldID derives a repository identity from the set of root-commit hashes.
// The fold is XOR over the hash values, so it is order-independent and two
// clones sharing the same root history produce equal ids. The empty set
// folds to "0".
func FoldID(roots []Hash) (string, error) {
	acc := new(big.Int)
	val := new(big.Int)
	for _, h := range roots {
		if _, ok := val.SetString(string(h), 16); !ok {
			return "", fmt.Errorf("invalid root commit hash %q", h)
		}
		acc.Xor(acc, val)
	}
	return acc.Text(16), nil
}
