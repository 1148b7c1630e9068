package app

import "log/slog"

// Stamped at link time:
//
//	go build -ldflags "-X github.com/heartmarshall/novelnest-inventory/internal/app.Version=v1.4.0 -X ...Commit=$(git rev-parse HEAD)"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// BuildVersion is the version reported by /health: the release tag,
// suffixed with the short commit when one was stamped.
func BuildVersion() string {
	if Commit == "unknown" || Commit == "" {
		return Version
	}
	short := Commit
	if len(short) > 7 {
		short = short[:7]
	}
	return Version + "+" + short
}

func buildAttrs() slog.Attr {
	return slog.Group("build",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("built", BuildTime),
	)
}
