package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog-service/internal/domain"
	"catalog-service/internal/models"
	"catalog-service/internal/store"
	"catalog-service/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SyncService reconciles ERP product hierarchy payloads into the
// catalog: find-or-create at every tier, keyed by the ERP natural keys.
type SyncService struct {
	store     HierarchyStore
	remover   VariantRemover
	audit     AuditLog
	publisher IndexPublisher
	logger    *zap.Logger
}

// NewSyncService creates a new hierarchy sync service
func NewSyncService(store HierarchyStore, remover VariantRemover, audit AuditLog, publisher IndexPublisher) *SyncService {
	return &SyncService{
		store:     store,
		remover:   remover,
		audit:     audit,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// SyncSkuRequest is one purchasable size in an ERP payload.
type SyncSkuRequest struct {
	ErpItemCode   string           `json:"erp_item_code" binding:"required"`
	SizeLabel     string           `json:"size_label"`
	StockQuantity int              `json:"stock_quantity"`
	Price         *decimal.Decimal `json:"price" binding:"required"`
	SalePrice     *decimal.Decimal `json:"sale_price"`
	SaleEndsAt    *time.Time       `json:"sale_ends_at"`
}

// SyncVariantRequest is one color in an ERP payload.
type SyncVariantRequest struct {
	ColorKey string           `json:"color_key" binding:"required"`
	Skus     []SyncSkuRequest `json:"skus"`
}

// SyncProductRequest is one full template tree from the ERP.
type SyncProductRequest struct {
	TemplateCode string               `json:"template_code" binding:"required"`
	Name         string               `json:"name" binding:"required"`
	Variants     []SyncVariantRequest `json:"variants"`
}

// SyncProduct reconciles one template tree inside a single transaction.
// Replaying the same payload converges to the same rows: lookups hit
// the ERP natural keys and creation only happens on a miss.
//
// ERP-locked fields are overwritten on every sync; content enrichment
// is never touched. After commit, one index event per variant is
// published; publish failures are logged, never surfaced, since the
// periodic reindex sweep repairs the index.
func (s *SyncService) SyncProduct(ctx context.Context, req *SyncProductRequest) error {
	ctx, span := util.StartSpan(ctx, "SyncService.SyncProduct")
	defer span.End()

	start := time.Now()
	now := time.Now()
	var docs []models.ListingDocument

	err := s.store.WithinTx(ctx, func(tx store.HierarchyTx) error {
		template, err := tx.FindTemplateByCode(ctx, req.TemplateCode)
		if err != nil {
			return err
		}
		if template == nil {
			template, err = domain.NewTemplate(req.TemplateCode)
			if err != nil {
				return err
			}
		}
		template.UpdateFromERP(req.Name)
		template, err = tx.SaveTemplate(ctx, template)
		if err != nil {
			return err
		}

		for _, variantReq := range req.Variants {
			doc, err := s.syncVariant(ctx, tx, template, &variantReq, now)
			if err != nil {
				return fmt.Errorf("variant %s: %w", variantReq.ColorKey, err)
			}
			docs = append(docs, *doc)
		}
		return nil
	})

	util.ReconcileLatency.Observe(time.Since(start).Seconds())

	if err != nil {
		util.SyncFailuresTotal.WithLabelValues(models.EventTypeProduct, failureReason(err)).Inc()
		s.auditSync(ctx, req.TemplateCode, false, err.Error())
		return err
	}

	util.TemplatesSyncedTotal.Inc()
	util.VariantsSyncedTotal.Add(float64(len(req.Variants)))
	for _, variantReq := range req.Variants {
		util.SkusSyncedTotal.Add(float64(len(variantReq.Skus)))
	}

	s.logger.Info("Product hierarchy synced",
		zap.String("template_code", req.TemplateCode),
		zap.Int("variants", len(req.Variants)))
	s.auditSync(ctx, req.TemplateCode, true, "")

	for _, doc := range docs {
		if err := s.publisher.PublishListingIndex(ctx, doc); err != nil {
			s.logger.Error("Failed to publish index event",
				zap.String("slug", doc.Slug), zap.Error(err))
		}
	}
	return nil
}

// SyncProducts reconciles a batch with per-item isolation: a bad tree
// is counted and skipped, never fatal to its siblings.
func (s *SyncService) SyncProducts(ctx context.Context, reqs []SyncProductRequest) models.SyncResult {
	var result models.SyncResult
	for i := range reqs {
		if err := s.SyncProduct(ctx, &reqs[i]); err != nil {
			s.logger.Warn("Product sync failed in batch",
				zap.String("template_code", reqs[i].TemplateCode), zap.Error(err))
			result.Errors++
			continue
		}
		result.Synced++
	}
	return result
}

// RemoveVariant deletes a discontinued variant and queues the index
// drop. Like index writes, the drop is fire-and-forget.
func (s *SyncService) RemoveVariant(ctx context.Context, slug string) error {
	if err := s.remover.DeleteVariantBySlug(ctx, slug); err != nil {
		util.SyncFailuresTotal.WithLabelValues(models.EventTypeProduct, failureReason(err)).Inc()
		return err
	}

	s.logger.Info("Variant removed", zap.String("slug", slug))
	s.auditSync(ctx, slug, true, "")

	if err := s.publisher.PublishListingDelete(ctx, slug); err != nil {
		s.logger.Error("Failed to publish index delete event",
			zap.String("slug", slug), zap.Error(err))
	}
	return nil
}

func (s *SyncService) syncVariant(ctx context.Context, tx store.HierarchyTx, template *domain.Template, req *SyncVariantRequest, now time.Time) (*models.ListingDocument, error) {
	variant, err := tx.FindVariantByTemplateAndColor(ctx, template.ID(), req.ColorKey)
	if err != nil {
		return nil, err
	}
	if variant == nil {
		variant, err = domain.NewColorVariant(template.ID(), req.ColorKey)
		if err != nil {
			return nil, err
		}
	}

	variant.GenerateSlug(template.TemplateCode())
	variant.MarkSynced(now)
	variant, err = tx.SaveVariant(ctx, variant)
	if err != nil {
		return nil, err
	}

	for _, skuReq := range req.Skus {
		if err := s.syncSku(ctx, tx, variant.ID(), &skuReq); err != nil {
			return nil, fmt.Errorf("sku %s: %w", skuReq.ErpItemCode, err)
		}
	}

	skus, err := tx.FindSkusByVariant(ctx, variant.ID())
	if err != nil {
		return nil, err
	}

	doc := buildListingDocument(template.Name(), variant, skus, now)
	return &doc, nil
}

func (s *SyncService) syncSku(ctx context.Context, tx store.HierarchyTx, variantID int64, req *SyncSkuRequest) error {
	sku, err := tx.FindSkuByItemCode(ctx, req.ErpItemCode)
	if err != nil {
		return err
	}
	if sku == nil {
		sku, err = domain.NewSku(variantID, req.ErpItemCode, req.SizeLabel)
		if err != nil {
			return err
		}
	}

	if req.Price == nil {
		return fmt.Errorf("%w: price is required", domain.ErrInvalidPayload)
	}
	price, err := domain.NewMoney(*req.Price)
	if err != nil {
		return err
	}
	salePrice, err := domain.MoneyPtr(req.SalePrice)
	if err != nil {
		return err
	}

	sku.UpdateSizeLabel(req.SizeLabel)
	if err := sku.UpdateFromERP(req.StockQuantity, price, salePrice, req.SaleEndsAt); err != nil {
		return err
	}

	_, err = tx.SaveSku(ctx, sku)
	return err
}

func (s *SyncService) auditSync(ctx context.Context, subject string, success bool, errorMessage string) {
	if err := s.audit.LogSyncEvent(ctx, subject, success, errorMessage); err != nil {
		s.logger.Warn("Failed to write sync audit log",
			zap.String("subject", subject), zap.Error(err))
	}
}

// buildListingDocument denormalizes one variant for the search index:
// price range is the min/max effective price across SKUs, total stock
// the sum with unsynced quantities treated as zero.
func buildListingDocument(name string, variant *domain.ColorVariant, skus []*domain.Sku, now time.Time) models.ListingDocument {
	doc := models.ListingDocument{
		VariantID:      variant.ID(),
		Slug:           variant.Slug(),
		Name:           name,
		ColorKey:       variant.ColorKey(),
		WebDescription: variant.WebDescription(),
		Images:         variant.Images(),
		TopSelling:     variant.TopSelling(),
		LastSyncAt:     variant.LastSyncAt(),
	}

	var priceStart, priceEnd *domain.Money
	for _, sku := range skus {
		doc.TotalStock += sku.StockQuantity()
		price := sku.EffectivePrice(now)
		if price == nil {
			continue
		}
		if priceStart == nil || price.LessThan(*priceStart) {
			priceStart = price
		}
		if priceEnd == nil || priceEnd.LessThan(*price) {
			priceEnd = price
		}
	}
	if priceStart != nil {
		f := priceStart.Float64()
		doc.PriceStart = &f
	}
	if priceEnd != nil {
		f := priceEnd.Float64()
		doc.PriceEnd = &f
	}
	return doc
}

func failureReason(err error) string {
	if err == nil {
		return "none"
	}
	switch {
	case errors.Is(err, domain.ErrInvalidPayload):
		return "invalid_payload"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "db_error"
	}
}
