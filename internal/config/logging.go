package config

import (
	"io"
	"log/slog"

	"github.com/Veraticus/finance-mentor/internal/common"
)

// NewLogger builds the process logger from a level name and a console|json format.
func NewLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	slogLevel, err := common.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return common.NewLogger(w, slogLevel, format)
}
