package adapters

import (
	"fmt"
	"math/big"

	"golang.org/x/crypto/sha3"
)

func keccak256(data []byte) []byte {
	hash := sha3.NewLegacyKeccak256()
	hash.Write(data)
	return hash.Sum(nil)
}

//methodSelector returns the first 4 bytes of the keccak256 hash of the
//canonical function signature
func methodSelector(signature string) []byte {
	return keccak256([]byte(signature))[:4]
}

//eventTopic returns the 32 byte keccak256 hash of the canonical event
//signature in log topic form
func eventTopic(signature string) string {
	return EncodeBytes(keccak256([]byte(signature)))
}

//uint256Word left-pads value to a 32 byte abi word
func uint256Word(value *big.Int) []byte {
	word := make([]byte, 32)
	value.FillBytes(word)
	return word
}

//wordUint reads the abi word at byte offset as an unsigned integer.
//Words larger than 64 bits are rejected: every offset and length the
//registry decoding reads fits well below that.
func wordUint(data []byte, offset uint64) (uint64, error) {
	//compared this way round so a near-max offset cannot wrap the sum
	if uint64(len(data)) < 32 || offset > uint64(len(data))-32 {
		return 0, fmt.Errorf("abi: word at offset %d is out of bounds (payload %d bytes)", offset, len(data))
	}

	word := data[offset : offset+32]
	for _, b := range word[:24] {
		if b != 0 {
			return 0, fmt.Errorf("abi: word at offset %d overflows uint64", offset)
		}
	}

	return new(big.Int).SetBytes(word[24:]).Uint64(), nil
}

//stringAt reads a dynamic string whose length word sits at byte offset
func stringAt(data []byte, offset uint64) (string, error) {
	length, err := wordUint(data, offset)
	if err != nil {
		return "", err
	}

	//wordUint succeeded, so start <= len(data) and cannot wrap
	start := offset + 32
	if length > uint64(len(data))-start {
		return "", fmt.Errorf("abi: string at offset %d with length %d is out of bounds", offset, length)
	}

	return string(data[start : start+length]), nil
}
