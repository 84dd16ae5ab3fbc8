package metrics

import "github.com/prometheus/client_golang/prometheus"

// AuthMetrics counts interactive login and token issuance outcomes.
type AuthMetrics struct {
	logins *prometheus.CounterVec
	tokens *prometheus.CounterVec
}

func NewAuthMetrics(reg prometheus.Registerer) *AuthMetrics {
	if reg == nil {
		return &AuthMetrics{}
	}
	logins := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_login_total",
		Help: "Interactive sign-in attempts by result.",
	}, []string{"result"})
	tokens := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_token_total",
		Help: "Token issuance requests by result.",
	}, []string{"result"})
	reg.MustRegister(logins, tokens)
	return &AuthMetrics{logins: logins, tokens: tokens}
}

func (a *AuthMetrics) ObserveLogin(result string) {
	if a == nil || a.logins == nil {
		return
	}
	a.logins.WithLabelValues(normalizeLabel(result)).Inc()
}

func (a *AuthMetrics) ObserveToken(result string) {
	if a == nil || a.tokens == nil {
		return
	}
	a.tokens.WithLabelValues(normalizeLabel(result)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
