package adapters

import (
	"context"
	"fmt"
	"math/big"
	"strings"
)

//canonical signatures of the registry contract surface the resolver reads
const (
	getRecordSignature          = "getRecord(uint256)"
	mintedEventSignature        = "Minted(uint256,address,uint8,string,string)"
	targetUpdatedEventSignature = "TargetUpdated(uint256,string,string)"
)

//RegistryClient reads record state and provenance events of the on-chain
//registry contract
type RegistryClient struct {
	eth             *EthClient
	contractAddress string

	getRecordSelector  []byte
	mintedTopic        string
	targetUpdatedTopic string
}

func NewRegistryClient(rpcURL, contractAddress string) *RegistryClient {
	return &RegistryClient{
		eth:                NewEthClient(rpcURL),
		contractAddress:    contractAddress,
		getRecordSelector:  methodSelector(getRecordSignature),
		mintedTopic:        eventTopic(mintedEventSignature),
		targetUpdatedTopic: eventTopic(targetUpdatedEventSignature),
	}
}

//GetRecord returns targetType and target of the current on-chain record.
//getRecord returns (Record tuple, string); only the tuple's target and
//targetType members are read, the rest of the tuple is mint-flow state
//the gateway does not consume.
func (r *RegistryClient) GetRecord(ctx context.Context, tokenID *big.Int) (string, string, error) {
	data := append(append([]byte{}, r.getRecordSelector...), uint256Word(tokenID)...)

	output, err := r.eth.Call(ctx, r.contractAddress, data)
	if err != nil {
		return "", "", err
	}

	return decodeRecordResult(output)
}

//LastUpdateTxHash scans the trailing scanBlocks window of history for
//Minted/TargetUpdated events of the token and returns the transaction
//hash of the last matching entry in the node's (ascending) order, or ""
//when nothing matched. Entries that don't decode are skipped silently.
func (r *RegistryClient) LastUpdateTxHash(ctx context.Context, tokenID *big.Int, scanBlocks uint64) (string, error) {
	head, err := r.eth.BlockNumber(ctx)
	if err != nil {
		return "", err
	}

	var fromBlock uint64
	if head > scanBlocks {
		fromBlock = head - scanBlocks
	}

	logs, err := r.eth.GetLogs(ctx, r.contractAddress, fromBlock, head)
	if err != nil {
		return "", err
	}

	return r.lastMatchingTxHash(logs, tokenID), nil
}

func (r *RegistryClient) lastMatchingTxHash(logs []EthLog, tokenID *big.Int) string {
	tokenTopic := EncodeBytes(uint256Word(tokenID))

	latest := ""
	for _, entry := range logs {
		if len(entry.Topics) < 2 {
			continue
		}

		event := entry.Topics[0]
		if !strings.EqualFold(event, r.mintedTopic) && !strings.EqualFold(event, r.targetUpdatedTopic) {
			continue
		}

		if !strings.EqualFold(entry.Topics[1], tokenTopic) {
			continue
		}

		latest = entry.TransactionHash
	}

	return latest
}

//decodeRecordResult unpacks (tuple(uint8,string,string,uint64,uint64,
//uint64,string,uint64), string) and returns the tuple's targetType and
//target strings
func decodeRecordResult(data []byte) (string, string, error) {
	tupleOffset, err := boundedWordUint(data, 0)
	if err != nil {
		return "", "", err
	}

	//tuple head: mode, target offset, targetType offset, ... -
	//member offsets are relative to the tuple start
	targetOffset, err := boundedWordUint(data, tupleOffset+32)
	if err != nil {
		return "", "", err
	}

	target, err := stringAt(data, tupleOffset+targetOffset)
	if err != nil {
		return "", "", err
	}

	targetTypeOffset, err := boundedWordUint(data, tupleOffset+64)
	if err != nil {
		return "", "", err
	}

	targetType, err := stringAt(data, tupleOffset+targetTypeOffset)
	if err != nil {
		return "", "", err
	}

	return targetType, target, nil
}

//boundedWordUint reads an offset word and rejects values past the
//payload end, so that sums of two read offsets never wrap uint64
func boundedWordUint(data []byte, offset uint64) (uint64, error) {
	value, err := wordUint(data, offset)
	if err != nil {
		return 0, err
	}

	if value > uint64(len(data)) {
		return 0, fmt.Errorf("abi: offset %d points past the payload (%d bytes)", value, len(data))
	}

	return value, nil
}
