// Package idgen assigns a process- or cluster-unique, sortable handle to a
// graph.Graph: metadata on the container, never read by any algorithm
// package. github.com/bwmarrin/snowflake needs no coordination for a single
// node; github.com/sony/sonyflake trades some of snowflake's per-node
// throughput for safe operation across many nodes without manual machine-id
// assignment.
package idgen

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/sony/sonyflake"
)

// Generator produces process-unique int64 ids.
type Generator interface {
	NextID() (int64, error)
}

// snowflakeGenerator wraps github.com/bwmarrin/snowflake for single-node
// deployments: simplest option, no coordination required.
type snowflakeGenerator struct {
	node *snowflake.Node
}

// NewSnowflake builds a Generator backed by bwmarrin/snowflake for node id
// nodeID (0-1023).
func NewSnowflake(nodeID int64) (Generator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("idgen: snowflake node: %w", err)
	}
	return &snowflakeGenerator{node: node}, nil
}

func (g *snowflakeGenerator) NextID() (int64, error) {
	return g.node.Generate().Int64(), nil
}

// sonyflakeGenerator wraps github.com/sony/sonyflake: used when a
// distributed deployment needs coordination-free multi-node ids (sonyflake
// derives its machine id from the host's private IP by default instead of
// requiring an externally assigned node id).
type sonyflakeGenerator struct {
	sf *sonyflake.Sonyflake
}

// NewSonyflake builds a Generator backed by sony/sonyflake using default
// machine-id derivation.
func NewSonyflake() (Generator, error) {
	sf, err := sonyflake.New(sonyflake.Settings{})
	if err != nil {
		return nil, fmt.Errorf("idgen: sonyflake init: %w", err)
	}
	return &sonyflakeGenerator{sf: sf}, nil
}

func (g *sonyflakeGenerator) NextID() (int64, error) {
	id, err := g.sf.NextID()
	if err != nil {
		return 0, err
	}
	return int64(id), nil
}

var (
	defaultOnce sync.Once
	defaultGen  Generator
)

// Default lazily builds a process-wide snowflake Generator on node 0, the
// common case for a single-process host embedding this library.
func Default() Generator {
	defaultOnce.Do(func() {
		gen, err := NewSnowflake(0)
		if err != nil {
			// NewNode(0) only fails for an out-of-range node id, which 0
			// never is; a nil-safe no-op generator keeps callers simple.
			defaultGen = noopGenerator{}
			return
		}
		defaultGen = gen
	})
	return defaultGen
}

// NextHandle generates a handle from the process-wide default Generator,
// swallowing errors to 0 (a valid, if degenerate, handle) since a Graph's
// Handle is metadata, never load-bearing for correctness.
func NextHandle() int64 {
	id, err := Default().NextID()
	if err != nil {
		return 0
	}
	return id
}

type noopGenerator struct{}

func (noopGenerator) NextID() (int64, error) { return 0, nil }
