package registry_test

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonwraymond/studysearch/content"
	"github.com/jonwraymond/studysearch/index"
	"github.com/jonwraymond/studysearch/registry"
)

func ExampleRegistry_HandleRequest() {
	src := content.NewInMemorySource()
	_ = src.Put("optics", &content.Group{
		Vocabulary: []content.Term{{Term: "Refraction", Definition: "Bending of light between media"}},
	})
	idx := index.NewIndex(src, []string{"optics"})
	_ = idx.Build(context.Background())

	reg := registry.New(registry.Config{ServerInfo: registry.ServerInfo{Name: "studysearch", Version: "1.0.0"}})
	reg.SetIndex(idx)

	params, _ := json.Marshal(map[string]any{
		"name":      registry.ToolSearchContent,
		"arguments": map[string]any{"query": "refract"},
	})
	resp := reg.HandleRequest(context.Background(), registry.MCPRequest{
		JSONRPC: "2.0", ID: 1, Method: "tools/call", Params: params,
	})

	out, _ := json.Marshal(resp)
	var decoded struct {
		Result struct {
			StructuredContent registry.SearchResult `json:"structuredContent"`
		} `json:"result"`
	}
	_ = json.Unmarshal(out, &decoded)
	for _, h := range decoded.Result.StructuredContent.Hits {
		fmt.Println(h.Kind, h.Title, h.Target)
	}
	// Output:
	// vocab Refraction /topic/optics
}
