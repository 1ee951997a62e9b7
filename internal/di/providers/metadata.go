package providers

import (
	"github.com/samber/do/v2"
	"golang.org/x/time/rate"

	"github.com/shelfline/shelfline-server/internal/config"
	"github.com/shelfline/shelfline-server/internal/enrich"
	"github.com/shelfline/shelfline-server/internal/logger"
	"github.com/shelfline/shelfline-server/internal/metadata/googlebooks"
)

// GoogleBooksClientHandle wraps the Google Books client with shutdown capability.
type GoogleBooksClientHandle struct {
	*googlebooks.Client
}

// Shutdown implements do.Shutdownable.
func (h *GoogleBooksClientHandle) Shutdown() error {
	h.Client.Close()
	return nil
}

// ProvideGoogleBooksClient provides the external book metadata client.
func ProvideGoogleBooksClient(i do.Injector) (*GoogleBooksClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	opts := []googlebooks.Option{
		googlebooks.WithTimeout(cfg.GoogleBooks.Timeout),
	}
	if cfg.GoogleBooks.BaseURL != "" {
		opts = append(opts, googlebooks.WithBaseURL(cfg.GoogleBooks.BaseURL))
	}
	if cfg.GoogleBooks.APIKey != "" {
		opts = append(opts, googlebooks.WithAPIKey(cfg.GoogleBooks.APIKey))
	}

	client := googlebooks.NewClient(log.Logger, opts...)
	log.Info("Google Books client initialized", "has_api_key", cfg.GoogleBooks.APIKey != "")

	return &GoogleBooksClientHandle{Client: client}, nil
}

// ProvideOrchestrator provides the metadata enrichment orchestrator.
func ProvideOrchestrator(i do.Injector) (*enrich.Orchestrator, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	clientHandle := do.MustInvoke[*GoogleBooksClientHandle](i)

	return enrich.NewOrchestrator(storeHandle.Store, clientHandle.Client, log.Logger, enrich.Options{
		MaxCandidates: cfg.Enrichment.MaxCandidates,
		BatchLimiter:  rate.NewLimiter(rate.Every(cfg.Enrichment.BatchInterval), 1),
	}), nil
}
