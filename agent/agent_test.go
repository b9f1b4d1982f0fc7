package agent

import (
	"github.com/hupe1980/contractsmith/progress"
	"github.com/hupe1980/contractsmith/stream"
	"github.com/hupe1980/contractsmith/ui"
)

type fixture struct {
	node *stream.Node[ui.Section]
	code *stream.Value[string]
	log  *progress.Log
}

func newFixture() fixture {
	node := stream.NewNode(ui.Empty())
	code := stream.NewValue("")
	return fixture{node: node, code: code, log: progress.NewLog(node, code)}
}
