package adapters

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func abiString(value string) []byte {
	padded := (len(value) + 31) / 32 * 32
	encoded := make([]byte, 32+padded)
	big.NewInt(int64(len(value))).FillBytes(encoded[:32])
	copy(encoded[32:], value)
	return encoded
}

func abiUint(value uint64) []byte {
	return uint256Word(new(big.Int).SetUint64(value))
}

//encodeGetRecordResult builds the abi payload of
//getRecord -> (tuple(uint8,string,string,uint64,uint64,uint64,string,uint64), string)
func encodeGetRecordResult(targetType, target string) []byte {
	encTarget := abiString(target)
	encTargetType := abiString(targetType)
	encPendingTarget := abiString("")

	//tuple head is 8 words, member offsets are relative to the tuple start
	tupleHeadSize := uint64(8 * 32)
	targetOffset := tupleHeadSize
	targetTypeOffset := targetOffset + uint64(len(encTarget))
	pendingTargetOffset := targetTypeOffset + uint64(len(encTargetType))

	var tuple []byte
	tuple = append(tuple, abiUint(1)...) //mode
	tuple = append(tuple, abiUint(targetOffset)...)
	tuple = append(tuple, abiUint(targetTypeOffset)...)
	tuple = append(tuple, abiUint(1600000000)...) //createdAt
	tuple = append(tuple, abiUint(1600000001)...) //updatedAt
	tuple = append(tuple, abiUint(0)...)          //timelockSeconds
	tuple = append(tuple, abiUint(pendingTargetOffset)...)
	tuple = append(tuple, abiUint(0)...) //pendingTargetAt
	tuple = append(tuple, encTarget...)
	tuple = append(tuple, encTargetType...)
	tuple = append(tuple, encPendingTarget...)

	var payload []byte
	payload = append(payload, abiUint(64)...) //tuple offset
	payload = append(payload, abiUint(64+uint64(len(tuple)))...)
	payload = append(payload, tuple...)
	payload = append(payload, abiString("")...) //pendingTargetType

	return payload
}

func TestDecodeRecordResult(t *testing.T) {
	tests := []struct {
		name       string
		targetType string
		target     string
	}{
		{"https url", "url", "https://example.com/page"},
		{"ipfs cid", "ipfs", "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"},
		{"long url crossing word boundary", "url", "https://example.com/aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			targetType, target, err := decodeRecordResult(encodeGetRecordResult(tt.targetType, tt.target))
			require.NoError(t, err)
			require.Equal(t, tt.targetType, targetType)
			require.Equal(t, tt.target, target)
		})
	}
}

func TestDecodeRecordResultTruncatedPayload(t *testing.T) {
	payload := encodeGetRecordResult("url", "https://example.com")

	_, _, err := decodeRecordResult(payload[:64])
	require.Error(t, err)

	_, _, err = decodeRecordResult(nil)
	require.Error(t, err)
}

func TestDecodeRecordResultHostileOffsets(t *testing.T) {
	//a tuple offset near 2^64 must fail the bounds check, not wrap it
	payload := append(append([]byte{}, abiUint(math.MaxUint64-63)...), make([]byte, 96)...)
	_, _, err := decodeRecordResult(payload)
	require.Error(t, err)

	//a near-max string length word must not wrap the slice bounds either
	payload = encodeGetRecordResult("url", "https://example.com")
	copy(payload[320:352], abiUint(math.MaxUint64-31))
	_, _, err = decodeRecordResult(payload)
	require.Error(t, err)
}

func TestLastMatchingTxHash(t *testing.T) {
	registry := NewRegistryClient("http://127.0.0.1:8545", "0x000000000000000000000000000000000000dead")

	tokenID := big.NewInt(7)
	tokenTopic := EncodeBytes(uint256Word(tokenID))
	otherTokenTopic := EncodeBytes(uint256Word(big.NewInt(8)))

	logs := []EthLog{
		//minted event of the token
		{Topics: []string{registry.mintedTopic, tokenTopic}, TransactionHash: "0xaaa"},
		//unrelated token
		{Topics: []string{registry.targetUpdatedTopic, otherTokenTopic}, TransactionHash: "0xbbb"},
		//foreign event kind
		{Topics: []string{eventTopic("Transfer(address,address,uint256)"), tokenTopic}, TransactionHash: "0xccc"},
		//undecodable entry is skipped, not fatal
		{Topics: []string{registry.mintedTopic}, TransactionHash: "0xddd"},
		//later update of the token wins
		{Topics: []string{registry.targetUpdatedTopic, tokenTopic}, TransactionHash: "0xeee"},
	}

	require.Equal(t, "0xeee", registry.lastMatchingTxHash(logs, tokenID))
	require.Equal(t, "", registry.lastMatchingTxHash(nil, tokenID))
	require.Equal(t, "", registry.lastMatchingTxHash(logs, big.NewInt(9)))
}
