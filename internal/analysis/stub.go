package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/aivolabs/aivo/internal/model"
)

// Stub is a rule-based analyzer used when no external endpoint is configured.
// It compares the offer's metrics against the matching benchmark averages.
type Stub struct{}

// NewStub constructs the offline analyzer.
func NewStub() *Stub { return &Stub{} }

func (*Stub) Analyze(_ context.Context, offer *model.Offer, metrics *model.Metrics, benchmarks []model.Benchmark) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Review of %q (%s, %s, %s funnel).", offer.Name, offer.Niche, offer.Country, offer.FunnelType)

	if metrics == nil {
		b.WriteString(" No performance data reported yet; record impressions, clicks and spend before drawing conclusions.")
		return b.String(), nil
	}

	fmt.Fprintf(&b, " Current performance: CTR %.2f%%, CPC %.2f, conversion rate %.2f%%, ROAS %.2f.",
		metrics.CTR, metrics.CPC, metrics.ConversionRate, metrics.ROAS)

	if len(benchmarks) == 0 {
		b.WriteString(" No market benchmark covers this segment; evaluate against your own historical campaigns.")
		return b.String(), nil
	}

	ref := benchmarks[0]
	switch {
	case ref.AvgROAS > 0 && metrics.ROAS >= ref.AvgROAS:
		fmt.Fprintf(&b, " ROAS beats the market average of %.2f; consider scaling the budget.", ref.AvgROAS)
	case ref.AvgROAS > 0:
		fmt.Fprintf(&b, " ROAS trails the market average of %.2f; revisit targeting or creatives before scaling.", ref.AvgROAS)
	}
	if ref.AvgCTR > 0 && metrics.CTR < ref.AvgCTR {
		fmt.Fprintf(&b, " CTR is below the market average of %.2f%%; test new ad angles.", ref.AvgCTR)
	}
	return b.String(), nil
}
