package kit

import "go.uber.org/zap"

// NewLogger builds the production logger shared by the whole binary. Every
// line carries the service name as an initial field.
func NewLogger(service string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.InitialFields = map[string]any{"service": service}
	l, _ := cfg.Build()
	return l
}
