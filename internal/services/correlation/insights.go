package correlationservice

import (
	"fmt"
	"strings"

	"polysentinel/internal/domain/correlation"
	"polysentinel/pkg/templates"
)

const defaultInsightTemplate = "insights/default"

type insightData struct {
	Pattern      string
	Signals      []string
	Correlations int
	Boost        float64
	MaxStrength  float64
}

func insightTemplateID(p correlation.Pattern) string {
	return "insights/" + strings.ToLower(p.String())
}

// RenderInsight turns one fired pattern into review text. It depends only on
// the match and is not part of scoring.
func RenderInsight(reg *templates.Registry, m correlation.PatternMatch) (string, error) {
	data := insightData{
		Pattern:      m.Pattern.String(),
		Signals:      make([]string, 0, len(m.Signals)),
		Correlations: m.Correlations,
		Boost:        m.Boost,
		MaxStrength:  m.MaxStrength,
	}
	for _, sig := range m.Signals {
		data.Signals = append(data.Signals, sig.String())
	}

	id := insightTemplateID(m.Pattern)
	if !reg.Has(id) {
		id = defaultInsightTemplate
	}
	return reg.Render(id, data)
}

func (s *Scorer) insight(m correlation.PatternMatch) string {
	text, err := RenderInsight(s.insights, m)
	if err != nil {
		s.log.Warnw("Insight template failed", "pattern", m.Pattern, "error", err)
		return fmt.Sprintf("%s: %d correlated signal pairs", m.Pattern, m.Correlations)
	}
	return text
}
