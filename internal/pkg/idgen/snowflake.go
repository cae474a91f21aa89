package idgen

import (
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	mu   sync.Mutex
	node *snowflake.Node
)

// Initialize sets up the Snowflake ID generator with a node ID. Once a
// node is established, later calls are no-ops; a failed call leaves the
// generator uninitialized so it can be retried.
func Initialize(nodeID int64) error {
	mu.Lock()
	defer mu.Unlock()

	if node != nil {
		return nil
	}

	n, err := snowflake.NewNode(nodeID)
	if err != nil {
		return err
	}
	node = n
	return nil
}

// GenerateID generates a new Snowflake ID as a string
func GenerateID() string {
	mu.Lock()
	n := node
	mu.Unlock()

	if n == nil {
		// Initialize with default node ID if not already initialized
		if err := Initialize(1); err != nil {
			panic("idgen: snowflake node unavailable: " + err.Error())
		}
		mu.Lock()
		n = node
		mu.Unlock()
	}
	return n.Generate().String()
}
