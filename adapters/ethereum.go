package adapters

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/carlmjohnson/requests"
)

//EthClient is a minimal JSON-RPC client for the read-only subset the
//resolver needs: head block number, contract state reads and log queries
type EthClient struct {
	rpcURL string
}

func NewEthClient(rpcURL string) *EthClient {
	return &EthClient{rpcURL: rpcURL}
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

//EthLog is a single entry of an eth_getLogs response
type EthLog struct {
	Address         string   `json:"address"`
	Topics          []string `json:"topics"`
	Data            string   `json:"data"`
	BlockNumber     string   `json:"blockNumber"`
	TransactionHash string   `json:"transactionHash"`
}

type logsFilter struct {
	Address   string `json:"address"`
	FromBlock string `json:"fromBlock"`
	ToBlock   string `json:"toBlock"`
}

type callArgs struct {
	To   string `json:"to"`
	Data string `json:"data"`
}

func (c *EthClient) call(ctx context.Context, method string, params ...interface{}) (json.RawMessage, error) {
	if params == nil {
		params = []interface{}{}
	}

	response := &rpcResponse{}
	err := requests.
		URL(c.rpcURL).
		BodyJSON(&rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params}).
		ToJSON(response).
		Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("Error requesting %s: %v", method, err)
	}

	if response.Error != nil {
		return nil, fmt.Errorf("Error response from %s: [%d] %s", method, response.Error.Code, response.Error.Message)
	}

	return response.Result, nil
}

func (c *EthClient) BlockNumber(ctx context.Context) (uint64, error) {
	result, err := c.call(ctx, "eth_blockNumber")
	if err != nil {
		return 0, err
	}

	var quantity string
	if err := json.Unmarshal(result, &quantity); err != nil {
		return 0, fmt.Errorf("Error unmarshalling eth_blockNumber result: %v", err)
	}

	return DecodeQuantity(quantity)
}

//Call executes a read-only contract call against the latest block
func (c *EthClient) Call(ctx context.Context, to string, data []byte) ([]byte, error) {
	result, err := c.call(ctx, "eth_call", &callArgs{To: to, Data: EncodeBytes(data)}, "latest")
	if err != nil {
		return nil, err
	}

	var payload string
	if err := json.Unmarshal(result, &payload); err != nil {
		return nil, fmt.Errorf("Error unmarshalling eth_call result: %v", err)
	}

	return DecodeBytes(payload)
}

func (c *EthClient) GetLogs(ctx context.Context, address string, fromBlock, toBlock uint64) ([]EthLog, error) {
	result, err := c.call(ctx, "eth_getLogs", &logsFilter{
		Address:   address,
		FromBlock: EncodeQuantity(fromBlock),
		ToBlock:   EncodeQuantity(toBlock),
	})
	if err != nil {
		return nil, err
	}

	var logs []EthLog
	if err := json.Unmarshal(result, &logs); err != nil {
		return nil, fmt.Errorf("Error unmarshalling eth_getLogs result: %v", err)
	}

	return logs, nil
}

func EncodeQuantity(value uint64) string {
	return "0x" + strconv.FormatUint(value, 16)
}

func DecodeQuantity(quantity string) (uint64, error) {
	trimmed := strings.TrimPrefix(quantity, "0x")
	value, err := strconv.ParseUint(trimmed, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("Error parsing quantity [%s]: %v", quantity, err)
	}

	return value, nil
}

func EncodeBytes(data []byte) string {
	return "0x" + hex.EncodeToString(data)
}

func DecodeBytes(payload string) ([]byte, error) {
	trimmed := strings.TrimPrefix(payload, "0x")
	data, err := hex.DecodeString(trimmed)
	if err != nil {
		return nil, fmt.Errorf("Error parsing hex payload: %v", err)
	}

	return data, nil
}
