package providers

import (
	"github.com/samber/do/v2"
	"golang.org/x/time/rate"

	"github.com/shelfline/shelfline-server/internal/config"
	"github.com/shelfline/shelfline-server/internal/enrich"
	"github.com/shelfline/shelfline-server/internal/importer"
	"github.com/shelfline/shelfline-server/internal/logger"
	"github.com/shelfline/shelfline-server/internal/service"
	"github.com/shelfline/shelfline-server/internal/validation"
)

// ProvideValidator provides the request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideBookService provides the book catalog service.
func ProvideBookService(i do.Injector) (*service.BookService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBookService(storeHandle.Store, validator, log.Logger), nil
}

// ProvideScanService provides the barcode scan workflow service.
func ProvideScanService(i do.Injector) (*service.ScanService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	orchestrator := do.MustInvoke[*enrich.Orchestrator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewScanService(storeHandle.Store, orchestrator, log.Logger), nil
}

// ProvideImporter provides the spreadsheet bulk importer.
func ProvideImporter(i do.Injector) (*importer.Importer, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	orchestrator := do.MustInvoke[*enrich.Orchestrator](i)
	log := do.MustInvoke[*logger.Logger](i)

	limiter := rate.NewLimiter(rate.Every(cfg.Enrichment.BatchInterval), 1)
	return importer.New(storeHandle.Store, orchestrator, log.Logger, limiter), nil
}
