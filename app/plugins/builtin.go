package plugins

import (
	"github.com/kilianp07/enginepool/config"
	"github.com/kilianp07/enginepool/core/limits"
	"github.com/kilianp07/enginepool/infra/loader"
)

func init() {
	RegisterFleetSource(config.SourceCSV, func(cfg config.FleetConfig, _ limits.Table) (*loader.Fleet, error) {
		return loader.LoadFeeds(cfg.Dir)
	})
	RegisterFleetSource(config.SourceFile, func(cfg config.FleetConfig, _ limits.Table) (*loader.Fleet, error) {
		return loader.LoadFile(cfg.Path)
	})
	RegisterFleetSource(config.SourceSynthetic, func(cfg config.FleetConfig, table limits.Table) (*loader.Fleet, error) {
		sc := cfg.Synthetic
		sc.SetDefaults()
		return loader.Generate(sc, table)
	})
}
