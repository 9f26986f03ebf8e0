package index

import (
	"context"

	"git.home.luguber.info/inful/sitebuilder/internal/host"
)

var _ host.ContentQuerier = (*Store)(nil)

// QueryContent answers a host query. Failures are reported in the result's
// Errors rather than returned.
func (s *Store) QueryContent(ctx context.Context, q host.Query) host.QueryResult {
	nodes, err := s.Query(ctx, q.NodeType, q.PathPattern)
	if err != nil {
		return host.QueryResult{Errors: []error{err}}
	}
	return host.QueryResult{Nodes: nodes}
}
