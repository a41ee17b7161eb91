package idutil

import (
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

var (
	once sync.Once
	node *snowflake.Node
)

// RequestID returns a time ordered id used to correlate logs of one request.
func RequestID() string {
	once.Do(func() {
		var err error
		node, err = snowflake.NewNode(int64(uuid.New().ID() % 1024))
		if err != nil {
			panic(err)
		}
	})

	return node.Generate().String()
}

// New returns a random identifier for database rows.
func New() string {
	return uuid.NewString()
}
