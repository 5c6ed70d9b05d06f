package version

import "fmt"

// Заполняются через -ldflags при сборке релизного бинаря.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Build описывает сборку бинаря витрины.
type Build struct {
	Version string
	Commit  string
	Date    string
}

// Current возвращает сведения о текущей сборке.
func Current() Build {
	return Build{Version: version, Commit: commit, Date: date}
}

func (b Build) String() string {
	return fmt.Sprintf("version=%s commit=%s date=%s", b.Version, b.Commit, b.Date)
}
