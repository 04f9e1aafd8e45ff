package components

import (
	"arc-storefront/internal/domain/catalog"
	"arc-storefront/internal/domain/order"
	"arc-storefront/internal/domain/receipt"
	"arc-storefront/internal/pkg/clock"
	"arc-storefront/internal/pkg/config"

	"go.uber.org/fx"
)

var DomainModule = fx.Module("domain",
	fx.Provide(
		clock.NewRealClock,
		order.NewRandomReferences,
		order.NewAssembler,
		NewCatalog,
		NewReceiptRenderer,
	),
)

func NewCatalog(cfg config.Config) (*catalog.Catalog, error) {
	return catalog.Load(cfg.Catalog.Path)
}

func NewReceiptRenderer(cfg config.Config) *receipt.Renderer {
	return receipt.NewRenderer(receipt.Brand{
		Name:          cfg.Receipt.BrandName,
		Tagline:       cfg.Receipt.Tagline,
		CurrencyGlyph: cfg.Receipt.CurrencyGlyph,
		PromoText:     cfg.Receipt.PromoText,
		PromoURL:      cfg.Receipt.PromoURL,
		Copyright:     cfg.Receipt.Copyright,
	})
}
