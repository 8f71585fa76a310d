package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"warehouse-manager/internal/config"
	"warehouse-manager/internal/domain"
	"warehouse-manager/internal/pkg/i18n"
	"warehouse-manager/internal/repository"
	"warehouse-manager/internal/service/notification"
)

const summaryCacheKey = "reports:inventory:summary"

// ObjectStore is the subset of *minio.Client used for report uploads.
type ObjectStore interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error)
}

type Service interface {
	GenerateInventoryReport(ctx context.Context, userID uuid.UUID, format domain.ReportFormat) (*domain.InventoryReport, error)
	Summary(ctx context.Context) (*domain.InventorySummary, error)
	SetNotifier(notifier notification.Notifier)
}

type service struct {
	productRepo repository.ProductRepository
	reportRepo  repository.ReportRepository
	store       ObjectStore
	redis       redis.UniversalClient
	notifier    notification.Notifier
	cfg         *config.Config
	now         func() time.Time
}

func NewService(productRepo repository.ProductRepository, reportRepo repository.ReportRepository, store ObjectStore, rdb redis.UniversalClient, cfg *config.Config) Service {
	return &service{
		productRepo: productRepo,
		reportRepo:  reportRepo,
		store:       store,
		redis:       rdb,
		cfg:         cfg,
		now:         time.Now,
	}
}

func (s *service) SetNotifier(notifier notification.Notifier) {
	s.notifier = notifier
}

func (s *service) GenerateInventoryReport(ctx context.Context, userID uuid.UUID, format domain.ReportFormat) (*domain.InventoryReport, error) {
	if !format.IsValid() {
		return nil, domain.ErrUnsupportedFormat
	}

	report, err := s.generate(ctx, format)
	if err != nil {
		notification.Dispatch(ctx, s.notifier, userID, domain.NotifError,
			i18n.T("report_failed_title"), i18n.T("report_failed_message"),
			domain.EmitOptions{Category: domain.CategoryReports, Priority: domain.PriorityHigh})
		return nil, err
	}

	link := report.URL
	notification.Dispatch(ctx, s.notifier, userID, domain.NotifSuccess,
		i18n.T("report_ready_title"), i18n.T("report_ready_message", string(format), report.ProductRows),
		domain.EmitOptions{Category: domain.CategoryReports, ActionURL: &link})

	return report, nil
}

func (s *service) generate(ctx context.Context, format domain.ReportFormat) (*domain.InventoryReport, error) {
	products, err := s.productRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	var (
		body        bytes.Buffer
		contentType string
	)
	switch format {
	case domain.ReportCSV:
		contentType = "text/csv"
		err = writeCSV(&body, products)
	case domain.ReportJSON:
		contentType = "application/json"
		err = json.NewEncoder(&body).Encode(products)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}

	generatedAt := s.now().UTC()
	id := uuid.New().String()
	key := fmt.Sprintf("reports/inventory/%s/%s.%s", generatedAt.Format("2006/01/02"), id, format)

	_, err = s.store.PutObject(ctx, s.cfg.MinIOBucket, key, &body, int64(body.Len()), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload report: %w", err)
	}

	link, err := s.store.PresignedGetObject(ctx, s.cfg.MinIOBucket, key, s.cfg.ReportURLExpiry, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to sign report url: %w", err)
	}

	return &domain.InventoryReport{
		ID:          id,
		Format:      format,
		ObjectKey:   key,
		URL:         link.String(),
		ProductRows: len(products),
		GeneratedAt: generatedAt,
	}, nil
}

func writeCSV(w io.Writer, products []domain.Product) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"sku", "name", "warehouse_id", "zone_id", "quantity", "reorder_level", "unit_price", "low_stock"}); err != nil {
		return err
	}

	for i := range products {
		p := &products[i]
		record := []string{
			p.SKU,
			p.Name,
			optionalID(p.WarehouseID),
			optionalID(p.ZoneID),
			strconv.Itoa(p.Quantity),
			strconv.Itoa(p.ReorderLevel),
			strconv.FormatFloat(p.UnitPrice, 'f', 2, 64),
			strconv.FormatBool(p.IsLowStock()),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func optionalID(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

func (s *service) Summary(ctx context.Context) (*domain.InventorySummary, error) {
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, summaryCacheKey).Result(); err == nil {
			var summary domain.InventorySummary
			if json.Unmarshal([]byte(cached), &summary) == nil {
				return &summary, nil
			}
		}
	}

	summary, err := s.reportRepo.InventorySummary(ctx)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if data, err := json.Marshal(summary); err == nil {
			if err := s.redis.Set(ctx, summaryCacheKey, data, s.cfg.SummaryCacheTimeout).Err(); err != nil {
				log.Warn().Err(err).Msg("failed to cache inventory summary")
			}
		}
	}

	return summary, nil
}
