package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/parc/internal/core/ports"
)

const NodeID graft.ID = "adapter.source_lister"

func init() {
	graft.Register(graft.Node[ports.SourceLister]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.SourceLister, error) {
			return NewWalker(), nil
		},
	})
}
