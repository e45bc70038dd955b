package tui

import (
	"github.com/sirupsen/logrus"

	"apidash/internal/catalog"
	"apidash/internal/mockgen"
	"apidash/internal/runner"
)

// Deps carries the collaborators the TUI drives.
type Deps struct {
	Catalog   *catalog.Catalog
	Runner    *runner.Runner
	Generator *mockgen.Generator
	Log       *logrus.Logger
}
