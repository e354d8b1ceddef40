package uid

import (
	"crypto/sha256"
	"os"
	"strings"

	"github.com/bwmarrin/snowflake"
)

// Snowflake generates time-sortable int64 identifiers. The node number is
// derived from the machine identity so replicas do not collide.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake builds a Snowflake generator with a stable node number.
func NewSnowflake() (*Snowflake, error) {
	src, err := stableNodeSource()
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256([]byte(src))
	nodeNum := int64(sum[0])<<2 | int64(sum[1])>>6 // 10-bit node space

	node, err := snowflake.NewNode(nodeNum % 1024)
	if err != nil {
		return nil, err
	}

	return &Snowflake{node: node}, nil
}

// Generate returns a new snowflake identifier.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}

func stableNodeSource() (string, error) {
	if b, err := os.ReadFile("/etc/machine-id"); err == nil {
		if s := strings.TrimSpace(string(b)); s != "" {
			return s, nil
		}
	}

	if h, err := os.Hostname(); err == nil {
		if h = strings.TrimSpace(h); h != "" {
			return h, nil
		}
	}

	return "", ErrStableNodeIdentityUnavailable
}
