package chain

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// ErrNoHealthyNode is returned when none of the configured RPC URLs answers.
var ErrNoHealthyNode = errors.New("all RPC clients are unavailable")

// Backend is the part of the node API the transactor and contract handles use.
// *ethclient.Client and *RPCClient both satisfy it.
type Backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
}

var _ Backend = (*RPCClient)(nil)

// RPCClient wraps one ethclient per URL and fails over to the next URL when
// the current one stops answering. Errors returned by a healthy node are
// passed through unchanged.
type RPCClient struct {
	urls    []string
	clients []*ethclient.Client
	mu      sync.RWMutex
	current int
}

// NewRPCClient dials every URL. URLs that fail to dial are retried lazily.
func NewRPCClient(urls []string) (*RPCClient, error) {
	if len(urls) == 0 {
		return nil, errors.New("at least one RPC URL is required")
	}

	clients := make([]*ethclient.Client, len(urls))
	connected := 0
	for i, url := range urls {
		client, err := ethclient.Dial(url)
		if err != nil {
			log.Warn().
				Str("url", url).
				Err(err).
				Msg("Failed to connect to RPC node, will retry on use")
			continue
		}
		clients[i] = client
		connected++
	}

	if connected == 0 {
		return nil, errors.New("failed to connect to any RPC node")
	}

	return &RPCClient{
		urls:    urls,
		clients: clients,
	}, nil
}

// Close closes all client connections.
func (c *RPCClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, client := range c.clients {
		if client != nil {
			client.Close()
			c.clients[i] = nil
		}
	}
}

// ChainID returns the chain ID reported by the node.
func (c *RPCClient) ChainID(ctx context.Context) (*big.Int, error) {
	client, err := c.getClient(ctx)
	if err != nil {
		return nil, err
	}

	return client.ChainID(ctx)
}

func (c *RPCClient) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	client, err := c.getClient(ctx)
	if err != nil {
		return 0, err
	}

	return client.PendingNonceAt(ctx, account)
}

func (c *RPCClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	client, err := c.getClient(ctx)
	if err != nil {
		return nil, err
	}

	return client.SuggestGasPrice(ctx)
}

// SuggestGasTipCap suggests an EIP-1559 priority fee.
func (c *RPCClient) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	client, err := c.getClient(ctx)
	if err != nil {
		return nil, err
	}

	return client.SuggestGasTipCap(ctx)
}

func (c *RPCClient) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	client, err := c.getClient(ctx)
	if err != nil {
		return nil, err
	}

	return client.HeaderByNumber(ctx, number)
}

func (c *RPCClient) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	client, err := c.getClient(ctx)
	if err != nil {
		return 0, err
	}

	return client.EstimateGas(ctx, msg)
}

// CallContract executes a read-only call.
func (c *RPCClient) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	client, err := c.getClient(ctx)
	if err != nil {
		return nil, err
	}

	return client.CallContract(ctx, msg, blockNumber)
}

// SendTransaction broadcasts a signed transaction.
func (c *RPCClient) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	client, err := c.getClient(ctx)
	if err != nil {
		return err
	}

	return client.SendTransaction(ctx, tx)
}

// getClient returns the first client, starting at the current one, that
// answers eth_chainId. Clients that failed to dial are redialled on the way.
func (c *RPCClient) getClient(ctx context.Context) (*ethclient.Client, error) {
	c.mu.RLock()
	start := c.current
	n := len(c.clients)
	c.mu.RUnlock()

	for i := 0; i < n; i++ {
		idx := (start + i) % n
		client, err := c.clientAt(idx)
		if err != nil {
			log.Warn().
				Str("url", c.urls[idx]).
				Err(err).
				Msg("Failed to redial RPC node")
			continue
		}

		if _, err := client.ChainID(ctx); err != nil {
			log.Warn().
				Str("url", c.urls[idx]).
				Err(err).
				Msg("RPC client health check failed, trying next node")
			continue
		}

		if idx != start {
			c.mu.Lock()
			c.current = idx
			c.mu.Unlock()
		}

		return client, nil
	}

	return nil, ErrNoHealthyNode
}

func (c *RPCClient) clientAt(idx int) (*ethclient.Client, error) {
	c.mu.RLock()
	client := c.clients[idx]
	c.mu.RUnlock()

	if client != nil {
		return client, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.clients[idx] != nil {
		return c.clients[idx], nil
	}

	client, err := ethclient.Dial(c.urls[idx])
	if err != nil {
		return nil, err
	}
	c.clients[idx] = client

	return client, nil
}
