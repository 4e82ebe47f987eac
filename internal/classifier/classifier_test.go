package classifier

import (
	"testing"

	"github.com/On-Analytics/ERC20-Token-Listener/internal/domain"
)

func bundle(urls, keywords, amounts []string) *domain.IndicatorBundle {
	return &domain.IndicatorBundle{
		URLsFound:          urls,
		PhishingIndicators: keywords,
		MoneyAmounts:       amounts,
	}
}

func TestClassify_PriorityLadder(t *testing.T) {
	url := []string{"free-coins.xyz"}
	kw := []string{"claim"}
	amt := []string{"$5.00"}

	tests := []struct {
		name         string
		bundle       *domain.IndicatorBundle
		matchedFraud bool
		matchedSafe  bool
		want         domain.FraudType
	}{
		{"url plus keyword", bundle(url, kw, nil), false, false, domain.FraudPhishing},
		{"url plus amount", bundle(url, nil, amt), false, false, domain.FraudPhishing},
		{"phishing outranks fraud match", bundle(url, kw, nil), true, false, domain.FraudPhishing},
		{"phishing outranks safe match", bundle(url, nil, amt), false, true, domain.FraudPhishing},
		{"fraud match", bundle(nil, nil, nil), true, false, domain.FraudRepeatScam},
		{"fraud outranks safe", bundle(nil, nil, nil), true, true, domain.FraudRepeatScam},
		{"safe match", bundle(nil, nil, nil), false, true, domain.FraudCounterfeit},
		{"keyword alone", bundle(nil, kw, nil), false, false, domain.FraudSuspicious},
		{"url alone", bundle(url, nil, nil), false, false, domain.FraudSuspicious},
		{"amount alone", bundle(nil, nil, amt), false, false, domain.FraudSuspicious},
		{"keyword plus amount without url", bundle(nil, kw, amt), false, false, domain.FraudSuspicious},
		{"no signal", bundle(nil, nil, nil), false, false, domain.FraudUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.bundle, tt.matchedFraud, tt.matchedSafe)
			if got != tt.want {
				t.Errorf("Classify = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestClassify_AlwaysDefinedLabel(t *testing.T) {
	defined := map[domain.FraudType]bool{
		domain.FraudPhishing:    true,
		domain.FraudCounterfeit: true,
		domain.FraudRepeatScam:  true,
		domain.FraudSuspicious:  true,
		domain.FraudLegit:       true,
		domain.FraudUnknown:     true,
	}

	signals := [][]string{nil, {"x"}}
	for _, urls := range signals {
		for _, kws := range signals {
			for _, amts := range signals {
				for _, mf := range []bool{false, true} {
					for _, ms := range []bool{false, true} {
						got := Classify(bundle(urls, kws, amts), mf, ms)
						if !defined[got] {
							t.Fatalf("undefined label %q", got)
						}
					}
				}
			}
		}
	}
}

func TestRiskCategoryFor(t *testing.T) {
	tests := []struct {
		ft   domain.FraudType
		want domain.RiskCategory
	}{
		{domain.FraudPhishing, domain.RiskHigh},
		{domain.FraudCounterfeit, domain.RiskHigh},
		{domain.FraudSuspicious, domain.RiskCaution},
		{domain.FraudRepeatScam, domain.RiskUnknown},
		{domain.FraudLegit, domain.RiskUnknown},
		{domain.FraudUnknown, domain.RiskUnknown},
	}
	for _, tt := range tests {
		if got := domain.RiskCategoryFor(tt.ft); got != tt.want {
			t.Errorf("RiskCategoryFor(%s) = %s, want %s", tt.ft, got, tt.want)
		}
	}
}
