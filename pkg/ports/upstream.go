package ports

import (
	"context"

	"github.com/aretw0/dagview/pkg/domain"
)

// Upstream receives the reports a diagram sends to its server-held view.
type Upstream interface {
	// ReportTopLevelCombos is called for every snapshot received.
	ReportTopLevelCombos(ctx context.Context, combos []domain.Combo) error

	// ReportFocusPath is called on a qualified click.
	ReportFocusPath(ctx context.Context, path []string) error
}

// UpstreamFunc adapts a single report callback to Upstream.
type UpstreamFunc func(ctx context.Context, report domain.Report) error

// ReportTopLevelCombos implements Upstream.
func (f UpstreamFunc) ReportTopLevelCombos(ctx context.Context, combos []domain.Combo) error {
	return f(ctx, domain.Report{Name: domain.ReportTopLevelCombos, Combos: combos})
}

// ReportFocusPath implements Upstream.
func (f UpstreamFunc) ReportFocusPath(ctx context.Context, path []string) error {
	return f(ctx, domain.Report{Name: domain.ReportFocusPath, Path: path})
}
