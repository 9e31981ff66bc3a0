package resolver

import (
	"context"
	"math/big"
)

//Record is computed fresh per request, never cached
type Record struct {
	RecordID         string
	TargetType       TargetType
	Target           string
	Destination      string
	LastUpdateTxHash string
}

//RegistryReader is the read-only on-chain surface the resolver depends on
type RegistryReader interface {
	GetRecord(ctx context.Context, tokenID *big.Int) (targetType, target string, err error)
	LastUpdateTxHash(ctx context.Context, tokenID *big.Int, scanBlocks uint64) (string, error)
}

//Resolver maps a record id to a validated destination: the injected mock
//dataset wins, otherwise the live registry is queried and provenance is
//taken from a bounded trailing event scan
type Resolver struct {
	registry    RegistryReader
	mockRecords map[string]MockRecord
	scanBlocks  uint64
	chainName   string
}

func NewResolver(registry RegistryReader, mockRecords map[string]MockRecord, scanBlocks uint64, chainName string) *Resolver {
	return &Resolver{
		registry:    registry,
		mockRecords: mockRecords,
		scanBlocks:  scanBlocks,
		chainName:   chainName,
	}
}

//Configured reports whether the backing ledger contract is set up.
//An unconfigured resolver fails closed at the routing layer.
func (r *Resolver) Configured() bool {
	return r.registry != nil
}

func (r *Resolver) ChainName() string {
	return r.chainName
}

func (r *Resolver) Resolve(ctx context.Context, recordID string) (*Record, error) {
	if mocked, ok := r.mockRecords[recordID]; ok {
		return r.buildRecord(recordID, mocked.TargetType, mocked.Target, mocked.TxHash)
	}

	tokenID, ok := new(big.Int).SetString(recordID, 10)
	if !ok || tokenID.Sign() < 0 {
		return nil, ErrRecordNotFound
	}

	targetType, target, err := r.registry.GetRecord(ctx, tokenID)
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}

	//an invalid stored target is fatal: fail before the provenance scan
	if !IsValidTarget(TargetType(targetType), target) {
		return nil, &ValidationError{Message: "stored target is invalid"}
	}

	txHash, err := r.registry.LastUpdateTxHash(ctx, tokenID, r.scanBlocks)
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}

	return r.buildRecord(recordID, TargetType(targetType), target, txHash)
}

func (r *Resolver) buildRecord(recordID string, targetType TargetType, target, txHash string) (*Record, error) {
	if !IsValidTarget(targetType, target) {
		return nil, &ValidationError{Message: "stored target is invalid"}
	}

	return &Record{
		RecordID:         recordID,
		TargetType:       targetType,
		Target:           NormalizeTarget(target),
		Destination:      DestinationURL(targetType, target),
		LastUpdateTxHash: txHash,
	}, nil
}
