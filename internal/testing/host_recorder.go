package testing

import (
	"context"
	"path/filepath"
	"sync"

	"git.home.luguber.info/inful/sitebuilder/internal/content"
	"git.home.luguber.info/inful/sitebuilder/internal/host"
)

// Redirect is one recorded RegisterRedirect call.
type Redirect struct {
	From string
	To   string
}

// Recorder is an in-memory host that records every call made through the
// host API. Result is returned from QueryContent after filtering by the query.
type Recorder struct {
	mu sync.Mutex

	Redirects []Redirect
	Pages     []host.PageRequest
	Queries   []host.Query
	Schema    []string
	Attached  map[string]map[string]any // node ID -> field -> value
	Result    host.QueryResult

	nodes map[string]*content.Node
}

var _ interface {
	host.PagesAPI
	host.NodeAPI
	host.SchemaRegistry
} = (*Recorder)(nil)

// NewRecorder returns a Recorder that knows the given nodes and returns them
// from queries.
func NewRecorder(nodes ...*content.Node) *Recorder {
	r := &Recorder{
		Attached: map[string]map[string]any{},
		nodes:    map[string]*content.Node{},
	}
	for _, n := range nodes {
		r.nodes[n.ID] = n
		r.Result.Nodes = append(r.Result.Nodes, n)
	}
	return r
}

func (r *Recorder) RegisterRedirect(from, to string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Redirects = append(r.Redirects, Redirect{From: from, To: to})
}

func (r *Recorder) QueryContent(_ context.Context, q host.Query) host.QueryResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Queries = append(r.Queries, q)
	if len(r.Result.Errors) > 0 {
		return host.QueryResult{Errors: r.Result.Errors}
	}
	out := host.QueryResult{}
	for _, n := range r.Result.Nodes {
		if q.NodeType != "" && n.Type != q.NodeType {
			continue
		}
		if q.PathPattern != nil && !q.PathPattern.MatchString(filepath.ToSlash(n.Parent.AbsolutePath)) {
			continue
		}
		out.Nodes = append(out.Nodes, n)
	}
	return out
}

func (r *Recorder) RegisterPage(req host.PageRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Pages = append(r.Pages, req)
}

func (r *Recorder) AttachField(node *content.Node, name string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if node.Fields == nil {
		node.Fields = map[string]any{}
	}
	node.Fields[name] = value
	if r.Attached[node.ID] == nil {
		r.Attached[node.ID] = map[string]any{}
	}
	r.Attached[node.ID][name] = value
}

func (r *Recorder) GetNode(id string) (*content.Node, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.nodes[id]
	return n, ok
}

func (r *Recorder) DeclareSchemaTypes(typeDefs string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Schema = append(r.Schema, typeDefs)
	return nil
}
