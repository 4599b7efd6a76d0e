// services/batch_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"snapbag-reward-system/models"
	"snapbag-reward-system/utils"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// MaxBatchSize bounds one print run.
const MaxBatchSize = 10000

var ErrInvalidBatchRequest = errors.New("batch name and a quantity between 1 and 10000 are required")

type BatchService struct {
	DB *gorm.DB
}

func NewBatchService(db *gorm.DB) *BatchService {
	return &BatchService{DB: db}
}

// GeneratedCode is one printable (bagId, signature) pair.
type GeneratedCode struct {
	BagID         string `json:"bag_id"`
	HMACSignature string `json:"hmac_signature"`
}

// BatchResult is a generated print run plus its codes and optional export URL.
type BatchResult struct {
	Batch     models.QRBatch  `json:"batch"`
	Codes     []GeneratedCode `json:"codes"`
	ExportURL string          `json:"export_url,omitempty"`
}

// GenerateBatch creates a batch of signed bag tokens. Bag IDs carry a slug of
// the batch name plus a batch-unique prefix, then a zero-padded sequence, so
// printed codes are traceable to their run by eye.
func (s *BatchService) GenerateBatch(batchName, description string, quantity int) (*BatchResult, error) {
	if batchName == "" || quantity < 1 || quantity > MaxBatchSize {
		return nil, ErrInvalidBatchRequest
	}

	batch := models.QRBatch{
		ID:          uuid.NewString(),
		BatchName:   batchName,
		Description: description,
		TotalCodes:  quantity,
		IsActive:    true,
	}

	namePart := slug.Make(batchName)
	if len(namePart) > 12 {
		namePart = namePart[:12]
	}
	prefix := fmt.Sprintf("%s-%s", namePart, batch.ID[:8])

	codes := make([]GeneratedCode, 0, quantity)
	snapbags := make([]models.Snapbag, 0, quantity)
	for i := 0; i < quantity; i++ {
		bagID := fmt.Sprintf("%s_%06d", prefix, i+1)
		signature := utils.SignBagID(bagID)
		codes = append(codes, GeneratedCode{BagID: bagID, HMACSignature: signature})
		snapbags = append(snapbags, models.Snapbag{
			ID:            uuid.NewString(),
			BagID:         bagID,
			BatchID:       batch.ID,
			HMACSignature: signature,
			IsActive:      true,
		})
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&batch).Error; err != nil {
			return err
		}
		return tx.CreateInBatches(snapbags, 500).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate batch: %w", err)
	}

	result := &BatchResult{Batch: batch, Codes: codes}

	if utils.ExportStoreEnabled() {
		key := fmt.Sprintf("batches/%s.csv", batch.ID)
		url, err := utils.UploadBatchExport(key, exportCSV(codes))
		if err != nil {
			// the codes are persisted; the export is a convenience copy
			log.Printf("⚠️  Batch export upload failed for %s: %v", batch.ID, err)
		} else {
			result.ExportURL = url
			log.Printf("📦 Batch export uploaded: %s", url)
		}
	}

	return result, nil
}

func exportCSV(codes []GeneratedCode) []byte {
	var b strings.Builder
	b.WriteString("bag_id,hmac_signature\n")
	for _, c := range codes {
		b.WriteString(c.BagID)
		b.WriteByte(',')
		b.WriteString(c.HMACSignature)
		b.WriteByte('\n')
	}
	return []byte(b.String())
}
