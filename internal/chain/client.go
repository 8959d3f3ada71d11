package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
)

// Client wraps a JSON-RPC connection to a fullnode and provides object and
// coin metadata reads.
type Client struct {
	rpcClient  *rpc.Client
	coinMeta   *CoinMetaCache
	maxRetries int
	backoff    time.Duration
	batchSize  int
}

// ClientConfig controls retry and batching of RPC reads.
type ClientConfig struct {
	MaxRetries   int
	RetryBackoff time.Duration
	BatchSize    int
}

// NewClient creates a new chain client from the RPC URL.
func NewClient(ctx context.Context, rpcURL string, cfg ClientConfig) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, err
	}
	return newClient(rpcClient, cfg), nil
}

func newClient(rpcClient *rpc.Client, cfg ClientConfig) *Client {
	if cfg.BatchSize <= 0 || cfg.BatchSize > maxObjectsPerCall {
		cfg.BatchSize = maxObjectsPerCall
	}
	return &Client{
		rpcClient:  rpcClient,
		coinMeta:   NewCoinMetaCache(),
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.RetryBackoff,
		batchSize:  cfg.BatchSize,
	}
}

// Close closes the underlying RPC client.
func (c *Client) Close() {
	if c.rpcClient != nil {
		c.rpcClient.Close()
	}
}

const maxObjectsPerCall = 50

// Object is a fetched on-chain object.
type Object struct {
	ObjectID string         `json:"objectId"`
	Version  string         `json:"version"`
	Type     string         `json:"type"`
	Content  *ObjectContent `json:"content,omitempty"`
}

// ObjectContent is the parsed Move content of an object.
type ObjectContent struct {
	DataType string          `json:"dataType"`
	Type     string          `json:"type"`
	Fields   json.RawMessage `json:"fields"`
}

type objectResponse struct {
	Data  *Object         `json:"data"`
	Error json.RawMessage `json:"error,omitempty"`
}

type objectOptions struct {
	ShowType    bool `json:"showType"`
	ShowContent bool `json:"showContent"`
}

// GetObjects fetches objects by ID in batches. Objects the node reports as
// missing or deleted are returned as errors.
func (c *Client) GetObjects(ctx context.Context, ids []string) ([]Object, error) {
	batches, err := SplitBatches(ids, c.batchSize)
	if err != nil {
		return nil, err
	}

	objects := make([]Object, 0, len(ids))
	for _, batch := range batches {
		var resp []objectResponse
		err := withRetry(ctx, c.maxRetries, c.backoff, func(ctx context.Context) error {
			return c.rpcClient.CallContext(ctx, &resp, "sui_multiGetObjects", batch, objectOptions{ShowType: true, ShowContent: true})
		})
		if err != nil {
			return nil, fmt.Errorf("multi get objects: %w", err)
		}
		if len(resp) != len(batch) {
			return nil, fmt.Errorf("multi get objects: got %d results for %d ids", len(resp), len(batch))
		}
		for i, item := range resp {
			if item.Data == nil {
				return nil, fmt.Errorf("object %s: %s", batch[i], string(item.Error))
			}
			objects = append(objects, *item.Data)
		}
	}
	return objects, nil
}

type coinMetadataResponse struct {
	Decimals uint8  `json:"decimals"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
}

// CoinMetadata returns the decimals and symbol of a coin type, using an
// in-memory cache.
func (c *Client) CoinMetadata(ctx context.Context, coinType string) (CoinMeta, error) {
	if meta, ok := c.coinMeta.Get(coinType); ok {
		return meta, nil
	}

	var resp *coinMetadataResponse
	err := withRetry(ctx, c.maxRetries, c.backoff, func(ctx context.Context) error {
		return c.rpcClient.CallContext(ctx, &resp, "suix_getCoinMetadata", coinType)
	})
	if err != nil {
		return CoinMeta{}, fmt.Errorf("coin metadata %s: %w", coinType, err)
	}
	if resp == nil {
		return CoinMeta{}, fmt.Errorf("coin metadata %s: not found", coinType)
	}

	meta := CoinMeta{CoinType: coinType, Decimals: resp.Decimals, Symbol: resp.Symbol, Name: resp.Name}
	c.coinMeta.Set(coinType, meta)
	return meta, nil
}
