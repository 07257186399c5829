package dataset

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/tradeflow-cli/internal/frame"
)

// Risk level labels, assigned by binning Route_Risk_Index.
const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

// documentIssueStatuses are the Document_Status values that count as a
// document problem. Matching is exact and case-sensitive.
var documentIssueStatuses = map[string]bool{
	"Missing": true,
	"Error":   true,
}

// riskLevel buckets a route risk index into three labels. The first bucket
// is closed on both ends so 0 lands in Low; interior boundaries belong to
// the lower bucket.
func riskLevel(index float64) (string, error) {
	switch {
	case index < 0 || index > 1:
		return "", eris.Errorf("dataset: route risk index %g outside [0,1]", index)
	case index <= 0.33:
		return RiskLow, nil
	case index <= 0.66:
		return RiskMedium, nil
	default:
		return RiskHigh, nil
	}
}

// DeriveRisk adds the compliance and risk features: the prior-offense flag,
// the compliance risk score (1 − compliance) + 0.3 × offenses (unbounded
// above), the document-issue flag, and the binned route risk level.
func DeriveRisk(f *frame.Frame) error {
	offenses, err := f.Floats(ColPriorOffenseCount)
	if err != nil {
		return err
	}
	compliance, err := f.Floats(ColComplianceScore)
	if err != nil {
		return err
	}
	status, err := f.Column(ColDocumentStatus)
	if err != nil {
		return err
	}
	riskIndex, err := f.Floats(ColRouteRiskIndex)
	if err != nil {
		return err
	}

	n := f.NumRows()
	hasOffense := make([]int, n)
	riskScore := make([]float64, n)
	docIssue := make([]int, n)
	levels := make([]string, n)

	for i := 0; i < n; i++ {
		if offenses[i] > 0 {
			hasOffense[i] = 1
		}
		riskScore[i] = (1 - compliance[i]) + 0.3*offenses[i]
		if documentIssueStatuses[status[i]] {
			docIssue[i] = 1
		}
		level, err := riskLevel(riskIndex[i])
		if err != nil {
			return eris.Wrapf(err, "dataset: row %d", i)
		}
		levels[i] = level
	}

	if err := f.SetInts(ColHasPriorOffense, hasOffense); err != nil {
		return err
	}
	if err := f.SetFloats(ColComplianceRiskScore, riskScore); err != nil {
		return err
	}
	if err := f.SetInts(ColDocumentIssue, docIssue); err != nil {
		return err
	}
	return f.SetColumn(ColRouteRiskLevel, levels)
}
