package common

import (
	"strings"

	"go.uber.org/zap"

	"github.com/status-im/nftstory/logutils"
)

// ContainsFold reports whether substr is within s, ignoring case.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func LogOnPanic() {
	if err := recover(); err != nil {
		logutils.ZapLogger().Error("panic in goroutine", zap.Any("error", err), zap.Stack("stacktrace"))
		panic(err)
	}
}
